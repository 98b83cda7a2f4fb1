package repository

import (
	"context"
	"sync"

	"Tunebox/model"
)

// MemoryStore keeps songs and playlists in process memory.
// It backs DB_DRIVER=memory and the handler tests.
type MemoryStore struct {
	mu        sync.RWMutex
	songs     []model.Song
	playlists []model.Playlist
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) CreateSong(ctx context.Context, song *model.Song) error {
	prepareSong(song)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.songs = append(m.songs, *song)
	return nil
}

func (m *MemoryStore) GetSongByID(ctx context.Context, id string) (*model.Song, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.songs {
		if s.ID == id {
			song := s
			return &song, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) ListSongs(ctx context.Context) ([]model.Song, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	songs := make([]model.Song, len(m.songs))
	copy(songs, m.songs)
	return songs, nil
}

func (m *MemoryStore) CreatePlaylist(ctx context.Context, playlist *model.Playlist) error {
	preparePlaylist(playlist)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playlists = append(m.playlists, clonePlaylist(*playlist))
	return nil
}

func (m *MemoryStore) GetPlaylistByID(ctx context.Context, id string) (*model.Playlist, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.playlists {
		if p.ID == id {
			cp := clonePlaylist(p)
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) ListPlaylists(ctx context.Context) ([]model.Playlist, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	playlists := make([]model.Playlist, 0, len(m.playlists))
	for _, p := range m.playlists {
		playlists = append(playlists, clonePlaylist(p))
	}
	return playlists, nil
}

func (m *MemoryStore) AppendItem(ctx context.Context, playlistID string, song model.Song) (*model.Playlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.playlists {
		if p.ID == playlistID {
			m.playlists[i] = p.WithItem(song)
			cp := clonePlaylist(m.playlists[i])
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func clonePlaylist(p model.Playlist) model.Playlist {
	items := make([]model.Song, len(p.Items))
	copy(items, p.Items)
	p.Items = items
	return p
}
