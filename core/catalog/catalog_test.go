package catalog

import (
	"context"
	"errors"
	"testing"

	"Tunebox/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	songs     []model.Song
	playlists []model.Playlist
	err       error
	calls     int
}

func (f *fakeSource) ListSongs(ctx context.Context) ([]model.Song, error) {
	f.calls++
	return f.songs, f.err
}

func (f *fakeSource) ListPlaylists(ctx context.Context) ([]model.Playlist, error) {
	f.calls++
	return f.playlists, f.err
}

func TestServiceRefetchesEveryCall(t *testing.T) {
	src := &fakeSource{songs: []model.Song{{ID: "1", Name: "A"}}}
	svc := NewService(src)

	for i := 0; i < 3; i++ {
		songs, err := svc.ListSongs(context.Background())
		require.NoError(t, err)
		assert.Len(t, songs, 1)
	}
	assert.Equal(t, 3, src.calls)
}

func TestServicePropagatesErrors(t *testing.T) {
	boom := errors.New("connection refused")
	svc := NewService(&fakeSource{err: boom})

	_, err := svc.ListSongs(context.Background())
	assert.ErrorIs(t, err, boom)
	_, err = svc.ListPlaylists(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestFindSong(t *testing.T) {
	songs := []model.Song{
		{ID: "1", Name: "Bohemian Rhapsody"},
		{ID: "2", Name: "Blue in Green"},
		{ID: "3", Name: "So What"},
	}

	tests := []struct {
		query  string
		wantID string
		found  bool
	}{
		{"so what", "3", true},
		{"  BLUE   in green ", "2", true},
		{"bohemian rapsody", "1", true},
		{"2", "2", true},
		{"completely different", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, ok := FindSong(songs, tt.query)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.wantID, got.ID)
			}
		})
	}
}

func TestFindPlaylist(t *testing.T) {
	playlists := []model.Playlist{{ID: "p1", Name: "Morning"}, {ID: "p2", Name: "Night Drive"}}

	p, ok := FindPlaylist(playlists, "night drive")
	require.True(t, ok)
	assert.Equal(t, "p2", p.ID)

	p, ok = FindPlaylist(playlists, "p1")
	require.True(t, ok)
	assert.Equal(t, "Morning", p.Name)

	_, ok = FindPlaylist(playlists, "evening")
	assert.False(t, ok)
}
