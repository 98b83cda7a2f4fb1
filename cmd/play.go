package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"Tunebox/core/catalog"
	"Tunebox/core/player"
	"Tunebox/core/shell"
	"Tunebox/model"

	"github.com/spf13/cobra"
)

const playHelp = `commands:
  songs                 list songs (home view)
  play <song>           select a song and start playing
  p                     toggle play/pause
  seek <m:ss|NN%>       jump to a position
  vol <0-100>           set volume
  mute                  toggle mute
  status                show playback state
  playlists             list playlists (playlists view)
  open <playlist>       select a playlist
  addable               songs not yet in the selected playlist
  add <song>            add a song to the selected playlist
  refresh               reload songs and playlists
  quit`

var playTick time.Duration

var playCmd = &cobra.Command{
	Use:   "play [song]",
	Short: "Interactive player",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		client := newClient()
		notify := shell.NotifierFunc(func(msg string) { fmt.Fprintf(out, "! %s\n", msg) })

		sh := shell.New(catalog.NewService(client), client, player.NewClockOpener(nil, playTick), notify)
		defer sh.Close()

		var (
			mu        sync.Mutex
			lastState player.State
		)
		unsubscribe := sh.Controller().OnChange(func(s player.PlaybackState) {
			mu.Lock()
			defer mu.Unlock()
			if s.State != lastState {
				lastState = s.State
				printStatus(out, s)
			}
		})
		defer unsubscribe()

		songs, err := sh.Refresh(cmd.Context())
		if err != nil {
			return err
		}
		r := &repl{shell: sh, out: out, songs: songs}
		if len(args) == 1 {
			r.exec(cmd.Context(), "play "+args[0])
		}
		fmt.Fprintln(out, `type "help" for commands`)
		return r.run(cmd.Context(), cmd.InOrStdin())
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().DurationVar(&playTick, "tick", 500*time.Millisecond, "time update interval")
}

func printStatus(out io.Writer, s player.PlaybackState) {
	name := "-"
	if s.Song != nil {
		name = s.Song.Name
	}
	vol := fmt.Sprintf("%d%%", int(s.Volume*100+0.5))
	if s.Muted {
		vol = "muted"
	}
	fmt.Fprintf(out, "[%s] %s  %s / %s  (%d%%)  vol %s\n",
		s.State, name, player.FormatTime(s.CurrentTime), player.FormatTime(s.Duration), int(s.Progress*100), vol)
}

type repl struct {
	shell *shell.Shell
	out   io.Writer
	songs []model.Song
}

func (r *repl) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprint(r.out, "> ")
	for scanner.Scan() {
		if !r.exec(ctx, scanner.Text()) {
			return nil
		}
		fmt.Fprint(r.out, "> ")
	}
	return scanner.Err()
}

// exec runs one command line and reports whether the loop should continue.
func (r *repl) exec(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}
	verb, arg := fields[0], strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))
	ctrl := r.shell.Controller()
	ed := r.shell.Editor()

	switch verb {
	case "quit", "exit", "q":
		return false

	case "help", "?":
		fmt.Fprintln(r.out, playHelp)

	case "songs":
		r.shell.Navigate(shell.Home)
		printSongs(r.out, r.songs)

	case "play":
		song, ok := catalog.FindSong(r.songs, arg)
		if !ok {
			fmt.Fprintf(r.out, "no song matches %q\n", arg)
			return true
		}
		r.shell.SelectSong(song)
		if ctrl.Snapshot().State == player.Loaded {
			ctrl.TogglePlayPause()
		}

	case "p", "pause", "resume":
		ctrl.TogglePlayPause()

	case "seek":
		target, err := parseSeek(arg, ctrl.Snapshot().Duration)
		if err != nil {
			fmt.Fprintln(r.out, err)
			return true
		}
		if err := ctrl.SeekTo(target); err != nil {
			fmt.Fprintln(r.out, err)
		}

	case "vol", "volume":
		v, err := strconv.ParseFloat(strings.TrimSuffix(arg, "%"), 64)
		if err != nil {
			fmt.Fprintf(r.out, "invalid volume %q\n", arg)
			return true
		}
		ctrl.SetVolume(v / 100)
		printStatus(r.out, ctrl.Snapshot())

	case "mute":
		ctrl.ToggleMute()
		printStatus(r.out, ctrl.Snapshot())

	case "status", "s":
		printStatus(r.out, ctrl.Snapshot())

	case "playlists":
		r.shell.Navigate(shell.Playlists)
		for _, p := range ed.Playlists() {
			fmt.Fprintf(r.out, "%s (%d songs)\n", p.Name, len(p.Items))
		}

	case "open":
		p, ok := catalog.FindPlaylist(ed.Playlists(), arg)
		if !ok {
			fmt.Fprintf(r.out, "no playlist matches %q\n", arg)
			return true
		}
		r.shell.Navigate(shell.Playlists)
		ed.SelectPlaylist(&p)
		for i, s := range p.Items {
			fmt.Fprintf(r.out, "  %d. %s - %s\n", i+1, s.Name, s.Artist)
		}

	case "addable":
		if _, ok := ed.Selected(); !ok {
			fmt.Fprintln(r.out, "open a playlist first")
			return true
		}
		fmt.Fprintln(r.out, strings.Join(songNames(ed.Addable(r.songs)), "\n"))

	case "add":
		p, ok := ed.Selected()
		if !ok {
			fmt.Fprintln(r.out, "open a playlist first")
			return true
		}
		song, ok := catalog.FindSong(ed.Addable(r.songs), arg)
		if !ok {
			fmt.Fprintf(r.out, "no addable song matches %q\n", arg)
			return true
		}
		if err := ed.AddSong(ctx, p.ID, song.ID); err == nil {
			fmt.Fprintf(r.out, "added %q to %s\n", song.Name, p.Name)
		}

	case "refresh":
		if songs, err := r.shell.Refresh(ctx); err == nil {
			r.songs = songs
		}

	default:
		fmt.Fprintf(r.out, "unknown command %q\n", verb)
	}
	return true
}

// parseSeek accepts "m:ss", plain seconds or a percentage of duration.
func parseSeek(arg string, duration float64) (float64, error) {
	switch {
	case strings.HasSuffix(arg, "%"):
		pct, err := strconv.ParseFloat(strings.TrimSuffix(arg, "%"), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid position %q", arg)
		}
		return pct / 100 * duration, nil

	case strings.Contains(arg, ":"):
		parts := strings.SplitN(arg, ":", 2)
		m, err1 := strconv.Atoi(parts[0])
		s, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil || s < 0 || s > 59 || m < 0 {
			return 0, fmt.Errorf("invalid position %q", arg)
		}
		return float64(m*60 + s), nil
	}

	secs, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid position %q", arg)
	}
	return secs, nil
}
