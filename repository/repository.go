package repository

import (
	"context"
	"errors"
	"time"

	"Tunebox/model"
)

// ErrNotFound is returned when a song or playlist does not exist.
var ErrNotFound = errors.New("record not found")

// SongRepository defines the interface for song data operations.
type SongRepository interface {
	// CreateSong stores a new song, assigning ID and CreatedAt when empty.
	CreateSong(ctx context.Context, song *model.Song) error
	GetSongByID(ctx context.Context, id string) (*model.Song, error)
	// ListSongs returns every song ordered by creation time.
	ListSongs(ctx context.Context) ([]model.Song, error)
}

// PlaylistRepository defines the interface for playlist data operations.
// Playlists are append-only: items are embedded song copies and are never
// reordered or removed.
type PlaylistRepository interface {
	CreatePlaylist(ctx context.Context, playlist *model.Playlist) error
	GetPlaylistByID(ctx context.Context, id string) (*model.Playlist, error)
	ListPlaylists(ctx context.Context) ([]model.Playlist, error)
	// AppendItem appends a copy of song and returns the updated playlist.
	// Duplicates are not rejected here.
	AppendItem(ctx context.Context, playlistID string, song model.Song) (*model.Playlist, error)
}

func prepareSong(song *model.Song) {
	if song.ID == "" {
		song.ID = model.NewID()
	}
	if song.CreatedAt.IsZero() {
		song.CreatedAt = time.Now().UTC()
	}
}

func preparePlaylist(playlist *model.Playlist) {
	if playlist.ID == "" {
		playlist.ID = model.NewID()
	}
	if playlist.CreatedAt.IsZero() {
		playlist.CreatedAt = time.Now().UTC()
	}
	if playlist.Items == nil {
		playlist.Items = []model.Song{}
	}
}
