package cache

import (
	"context"

	"Tunebox/model"
	"Tunebox/repository"
)

// cachedSongRepository serves ListSongs from the catalog cache.
type cachedSongRepository struct {
	repository.SongRepository
	cache *CatalogCache
}

// WrapSongs decorates repo with the catalog cache. A disabled cache returns repo unchanged.
func WrapSongs(repo repository.SongRepository, c *CatalogCache) repository.SongRepository {
	if !c.Enabled() {
		return repo
	}
	return &cachedSongRepository{SongRepository: repo, cache: c}
}

func (r *cachedSongRepository) CreateSong(ctx context.Context, song *model.Song) error {
	if err := r.SongRepository.CreateSong(ctx, song); err != nil {
		return err
	}
	r.cache.InvalidateSongs(ctx)
	return nil
}

func (r *cachedSongRepository) ListSongs(ctx context.Context) ([]model.Song, error) {
	cached, ver, ok := r.cache.Songs(ctx)
	if ok {
		return cached, nil
	}
	songs, err := r.SongRepository.ListSongs(ctx)
	if err != nil {
		return nil, err
	}
	r.cache.SetSongs(ctx, ver, songs)
	return songs, nil
}

// cachedPlaylistRepository serves ListPlaylists from the catalog cache.
type cachedPlaylistRepository struct {
	repository.PlaylistRepository
	cache *CatalogCache
}

// WrapPlaylists decorates repo with the catalog cache. A disabled cache returns repo unchanged.
func WrapPlaylists(repo repository.PlaylistRepository, c *CatalogCache) repository.PlaylistRepository {
	if !c.Enabled() {
		return repo
	}
	return &cachedPlaylistRepository{PlaylistRepository: repo, cache: c}
}

func (r *cachedPlaylistRepository) CreatePlaylist(ctx context.Context, playlist *model.Playlist) error {
	if err := r.PlaylistRepository.CreatePlaylist(ctx, playlist); err != nil {
		return err
	}
	r.cache.InvalidatePlaylists(ctx)
	return nil
}

func (r *cachedPlaylistRepository) ListPlaylists(ctx context.Context) ([]model.Playlist, error) {
	cached, ver, ok := r.cache.Playlists(ctx)
	if ok {
		return cached, nil
	}
	playlists, err := r.PlaylistRepository.ListPlaylists(ctx)
	if err != nil {
		return nil, err
	}
	r.cache.SetPlaylists(ctx, ver, playlists)
	return playlists, nil
}

func (r *cachedPlaylistRepository) AppendItem(ctx context.Context, playlistID string, song model.Song) (*model.Playlist, error) {
	p, err := r.PlaylistRepository.AppendItem(ctx, playlistID, song)
	if err != nil {
		return nil, err
	}
	r.cache.InvalidatePlaylists(ctx)
	return p, nil
}
