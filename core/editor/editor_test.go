package editor

import (
	"context"
	"errors"
	"testing"

	"Tunebox/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	err   error
	calls []string
}

func (f *fakeStore) AddSong(ctx context.Context, playlistID, songID string) error {
	f.calls = append(f.calls, playlistID+"/"+songID)
	return f.err
}

type recordingNotifier struct {
	messages []string
}

func (r *recordingNotifier) Notify(msg string) {
	r.messages = append(r.messages, msg)
}

var allSongs = []model.Song{
	{ID: "1", Name: "One"},
	{ID: "2", Name: "Two"},
	{ID: "3", Name: "Three"},
}

func ids(songs []model.Song) []string {
	out := make([]string, 0, len(songs))
	for _, s := range songs {
		out = append(out, s.ID)
	}
	return out
}

func TestAddableExcludesPlaylistItems(t *testing.T) {
	e := New(&fakeStore{}, nil)
	assert.Equal(t, []string{"1", "2", "3"}, ids(e.Addable(allSongs)))

	e.SelectPlaylist(&model.Playlist{ID: "p1", Items: []model.Song{allSongs[0], allSongs[2]}})
	addable := e.Addable(allSongs)
	assert.Equal(t, []string{"2"}, ids(addable))

	// every song is either addable or already in the playlist, never both
	selected, _ := e.Selected()
	for _, s := range allSongs {
		inAddable := false
		for _, a := range addable {
			if a.ID == s.ID {
				inAddable = true
			}
		}
		assert.NotEqual(t, selected.Contains(s.ID), inAddable, s.ID)
	}
}

func TestAddSongSuccessRemovesSongFromAddable(t *testing.T) {
	store := &fakeStore{}
	e := New(store, nil)
	e.SetSongs(allSongs)

	original := model.Playlist{ID: "1", Name: "Mine", Items: []model.Song{allSongs[0]}}
	e.SetPlaylists([]model.Playlist{original})
	e.SelectPlaylist(&original)

	require.NoError(t, e.AddSong(context.Background(), "1", "2"))
	assert.Equal(t, []string{"1/2"}, store.calls)

	assert.NotContains(t, ids(e.Addable(allSongs)), "2")

	selected, ok := e.Selected()
	require.True(t, ok)
	require.Len(t, selected.Items, 2)
	assert.Equal(t, "Two", selected.Items[1].Name)

	known := e.Playlists()
	require.Len(t, known, 1)
	assert.Len(t, known[0].Items, 2)

	// the caller's value is untouched
	assert.Len(t, original.Items, 1)
}

func TestAddSongFailureLeavesStateAndNotifies(t *testing.T) {
	store := &fakeStore{err: errors.New("status 500")}
	notifier := &recordingNotifier{}
	e := New(store, notifier)

	p := model.Playlist{ID: "1", Items: []model.Song{allSongs[0]}}
	e.SetPlaylists([]model.Playlist{p})
	e.SelectPlaylist(&p)

	err := e.AddSong(context.Background(), "1", "2")
	require.Error(t, err)

	selected, _ := e.Selected()
	assert.Len(t, selected.Items, 1)
	assert.Contains(t, ids(e.Addable(allSongs)), "2")
	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "status 500")
}

func TestSetPlaylistsRefreshesSelection(t *testing.T) {
	e := New(&fakeStore{}, nil)
	e.SelectPlaylist(&model.Playlist{ID: "p1", Name: "Old"})

	e.SetPlaylists([]model.Playlist{{ID: "p1", Name: "Renamed", Items: []model.Song{allSongs[1]}}})
	selected, ok := e.Selected()
	require.True(t, ok)
	assert.Equal(t, "Renamed", selected.Name)

	e.SetPlaylists(nil)
	_, ok = e.Selected()
	assert.False(t, ok)
}

func TestSelectNilClears(t *testing.T) {
	e := New(&fakeStore{}, nil)
	e.SelectPlaylist(&model.Playlist{ID: "p"})
	e.SelectPlaylist(nil)
	_, ok := e.Selected()
	assert.False(t, ok)
}

func TestAddSongUnknownSongStillAppendsByID(t *testing.T) {
	e := New(&fakeStore{}, nil)
	p := model.Playlist{ID: "p"}
	e.SelectPlaylist(&p)

	require.NoError(t, e.AddSong(context.Background(), "p", "zz"))
	selected, _ := e.Selected()
	require.Len(t, selected.Items, 1)
	assert.Equal(t, "zz", selected.Items[0].ID)
}
