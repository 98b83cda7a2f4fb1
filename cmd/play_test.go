package cmd

import (
	"bytes"
	"context"
	"testing"

	"Tunebox/core/catalog"
	"Tunebox/core/player"
	"Tunebox/core/shell"
	"Tunebox/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type silentResource struct{}

func (silentResource) Play() error         { return nil }
func (silentResource) Pause()              {}
func (silentResource) SetPosition(float64) {}
func (silentResource) SetVolume(float64)   {}
func (silentResource) Close() error        { return nil }

func newTestRepl(t *testing.T) (*repl, *bytes.Buffer, string) {
	t.Helper()
	ctx := context.Background()
	client, store := newTestMediaStore(t, nil)

	green := model.Song{Name: "Green", Artist: "Ella", File: "http://media.test/songs/green.mp3"}
	blue := model.Song{Name: "Blue", Artist: "Joni", File: "http://media.test/songs/blue.mp3"}
	require.NoError(t, store.CreateSong(ctx, &green))
	require.NoError(t, store.CreateSong(ctx, &blue))
	p := &model.Playlist{Name: "Road trip", Items: []model.Song{green}}
	require.NoError(t, store.CreatePlaylist(ctx, p))

	var out bytes.Buffer
	opener := player.OpenerFunc(func(model.Song, player.Tag, player.Sink) (player.Resource, error) {
		return silentResource{}, nil
	})
	notify := shell.NotifierFunc(func(msg string) { out.WriteString("! " + msg + "\n") })
	sh := shell.New(catalog.NewService(client), client, opener, notify)
	t.Cleanup(func() { sh.Close() })

	songs, err := sh.Refresh(ctx)
	require.NoError(t, err)
	return &repl{shell: sh, out: &out, songs: songs}, &out, p.ID
}

func TestReplPlay(t *testing.T) {
	r, out, _ := newTestRepl(t)
	ctx := context.Background()

	assert.True(t, r.exec(ctx, "play Blue"))
	snap := r.shell.Controller().Snapshot()
	assert.Equal(t, player.Playing, snap.State)
	require.NotNil(t, snap.Song)
	assert.Equal(t, "Blue", snap.Song.Name)

	r.exec(ctx, "p")
	assert.Equal(t, player.Paused, r.shell.Controller().Snapshot().State)

	out.Reset()
	r.exec(ctx, "play nothing like it")
	assert.Contains(t, out.String(), "no song matches")
	assert.Equal(t, "Blue", r.shell.Controller().Snapshot().Song.Name)
}

func TestReplAddableAndAdd(t *testing.T) {
	r, out, playlistID := newTestRepl(t)
	ctx := context.Background()

	r.exec(ctx, "addable")
	assert.Contains(t, out.String(), "open a playlist first")

	out.Reset()
	r.exec(ctx, "open Road trip")
	assert.Contains(t, out.String(), "1. Green - Ella")
	assert.Equal(t, shell.Playlists, r.shell.View())

	out.Reset()
	r.exec(ctx, "addable")
	assert.Equal(t, "Blue\n", out.String())

	out.Reset()
	r.exec(ctx, "add Blue")
	assert.Contains(t, out.String(), `added "Blue" to Road trip`)

	selected, ok := r.shell.Editor().Selected()
	require.True(t, ok)
	assert.Equal(t, playlistID, selected.ID)
	assert.Len(t, selected.Items, 2)

	out.Reset()
	r.exec(ctx, "add Blue")
	assert.Contains(t, out.String(), "no addable song matches")

	out.Reset()
	r.exec(ctx, "refresh")
	r.exec(ctx, "playlists")
	assert.Contains(t, out.String(), "Road trip (2 songs)")
}

func TestReplQuitAndUnknown(t *testing.T) {
	r, out, _ := newTestRepl(t)
	ctx := context.Background()

	assert.True(t, r.exec(ctx, "dance"))
	assert.Contains(t, out.String(), `unknown command "dance"`)
	assert.True(t, r.exec(ctx, "   "))
	assert.False(t, r.exec(ctx, "quit"))
}

func TestParseSeek(t *testing.T) {
	tests := []struct {
		arg      string
		duration float64
		expected float64
		wantErr  bool
	}{
		{"1:05", 0, 65, false},
		{"30", 0, 30, false},
		{"25%", 120, 30, false},
		{"1:75", 0, 0, true},
		{"abc", 0, 0, true},
		{"x%", 10, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := parseSeek(tt.arg, tt.duration)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}
