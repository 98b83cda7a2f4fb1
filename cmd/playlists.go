package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"Tunebox/core/catalog"
	"Tunebox/core/editor"
	"Tunebox/core/mediastore"
	"Tunebox/model"

	"github.com/spf13/cobra"
)

var playlistsCmd = &cobra.Command{
	Use:   "playlists",
	Short: "List playlists and their songs",
	RunE: func(cmd *cobra.Command, args []string) error {
		playlists, err := catalog.NewService(newClient()).ListPlaylists(cmd.Context())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, p := range playlists {
			fmt.Fprintf(w, "%s\t(%d songs)\t%s\n", p.Name, len(p.Items), p.ID)
			for i, s := range p.Items {
				fmt.Fprintf(w, "  %d.\t%s\t%s\n", i+1, s.Name, s.Artist)
			}
		}
		return w.Flush()
	},
}

var playlistCmd = &cobra.Command{
	Use:   "playlist",
	Short: "Create playlists and add songs to them",
}

var playlistCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an empty playlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := newClient().CreatePlaylist(cmd.Context(), args[0], nil)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "playlist created successfully: %s\n", id)
		return nil
	},
}

var playlistAddCmd = &cobra.Command{
	Use:   "add <playlist> <song>",
	Short: "Add a song to a playlist (by id or name)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		song, p, err := addToPlaylist(cmd.Context(), newClient(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "added %q to %s (%d songs)\n", song.Name, p.Name, len(p.Items))
		return nil
	},
}

// addToPlaylist resolves both names against the catalog and appends the song.
// It returns the added song and the updated playlist.
func addToPlaylist(ctx context.Context, client *mediastore.Client, playlistQuery, songQuery string) (model.Song, model.Playlist, error) {
	svc := catalog.NewService(client)

	songs, err := svc.ListSongs(ctx)
	if err != nil {
		return model.Song{}, model.Playlist{}, err
	}
	playlists, err := svc.ListPlaylists(ctx)
	if err != nil {
		return model.Song{}, model.Playlist{}, err
	}

	p, ok := catalog.FindPlaylist(playlists, playlistQuery)
	if !ok {
		return model.Song{}, model.Playlist{}, fmt.Errorf("no playlist matches %q", playlistQuery)
	}

	ed := editor.New(client, nil)
	ed.SetSongs(songs)
	ed.SetPlaylists(playlists)
	ed.SelectPlaylist(&p)

	song, ok := catalog.FindSong(ed.Addable(songs), songQuery)
	if !ok {
		if existing, found := catalog.FindSong(p.Items, songQuery); found {
			return model.Song{}, model.Playlist{}, fmt.Errorf("%q is already in %s", existing.Name, p.Name)
		}
		return model.Song{}, model.Playlist{}, fmt.Errorf("no song matches %q", songQuery)
	}

	if err := ed.AddSong(ctx, p.ID, song.ID); err != nil {
		return model.Song{}, model.Playlist{}, fmt.Errorf("could not add %q to %s: %w", song.Name, p.Name, err)
	}
	selected, _ := ed.Selected()
	return song, selected, nil
}

func songNames(songs []model.Song) []string {
	names := make([]string, 0, len(songs))
	for _, s := range songs {
		names = append(names, s.Name)
	}
	return names
}

func init() {
	rootCmd.AddCommand(playlistsCmd)
	rootCmd.AddCommand(playlistCmd)
	playlistCmd.AddCommand(playlistCreateCmd)
	playlistCmd.AddCommand(playlistAddCmd)
}
