package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"Tunebox/core/catalog"
	"Tunebox/core/mediastore"
	"Tunebox/core/player"
	"Tunebox/model"

	"github.com/spf13/cobra"
)

func printSongs(out io.Writer, songs []model.Song) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tNAME\tARTIST\tGENRE\tLENGTH\tID")
	for i, s := range songs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", i+1, s.Name, s.Artist, s.Genre, player.FormatTime(s.Duration), s.ID)
	}
	return w.Flush()
}

var songsCmd = &cobra.Command{
	Use:   "songs",
	Short: "List the songs in the Media Store",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := catalog.NewService(newClient())
		songs, err := svc.ListSongs(cmd.Context())
		if err != nil {
			return err
		}
		return printSongs(cmd.OutOrStdout(), songs)
	},
}

var (
	uploadName   string
	uploadArtist string
	uploadGenre  string
	uploadImage  string
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload an audio file to the Media Store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		name := uploadName
		if name == "" {
			base := filepath.Base(args[0])
			name = base[:len(base)-len(filepath.Ext(base))]
		}

		client := newClient()
		client.SetTimeout(0) // 大文件上传不设超时，依赖 context
		fileURL, err := client.UploadSong(cmd.Context(), mediastore.Upload{
			Filename: filepath.Base(args[0]),
			Content:  f,
			Name:     name,
			Artist:   uploadArtist,
			Genre:    uploadGenre,
			Image:    uploadImage,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "song uploaded successfully: %s\n", fileURL)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(songsCmd)
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().StringVarP(&uploadName, "name", "n", "", "song name (defaults to the file name)")
	uploadCmd.Flags().StringVarP(&uploadArtist, "artist", "a", "", "artist")
	uploadCmd.Flags().StringVarP(&uploadGenre, "genre", "g", "", "genre")
	uploadCmd.Flags().StringVar(&uploadImage, "image", "", "cover image URL")
}
