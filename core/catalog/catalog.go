package catalog

import (
	"context"
	"strings"

	"Tunebox/model"

	"github.com/agnivade/levenshtein"
)

// Source is the read side of the Media Store.
type Source interface {
	ListSongs(ctx context.Context) ([]model.Song, error)
	ListPlaylists(ctx context.Context) ([]model.Playlist, error)
}

// Service exposes the song and playlist lists. Every call re-fetches; errors
// from the source are returned unchanged.
type Service struct {
	src Source
}

func NewService(src Source) *Service {
	return &Service{src: src}
}

func (s *Service) ListSongs(ctx context.Context) ([]model.Song, error) {
	return s.src.ListSongs(ctx)
}

func (s *Service) ListPlaylists(ctx context.Context) ([]model.Playlist, error) {
	return s.src.ListPlaylists(ctx)
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// FindSong resolves a user-typed name to a song: an exact case-insensitive
// match wins, otherwise the closest name by edit distance. Matches further
// than half the query length away are rejected.
func FindSong(songs []model.Song, query string) (model.Song, bool) {
	q := normalize(query)
	if q == "" {
		return model.Song{}, false
	}

	for _, s := range songs {
		if normalize(s.Name) == q || s.ID == query {
			return s, true
		}
	}

	best, bestDist := -1, 0
	for i, s := range songs {
		d := levenshtein.ComputeDistance(q, normalize(s.Name))
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 || bestDist > len([]rune(q))/2 {
		return model.Song{}, false
	}
	return songs[best], true
}

// FindPlaylist resolves a playlist by id or case-insensitive name.
func FindPlaylist(playlists []model.Playlist, query string) (model.Playlist, bool) {
	q := normalize(query)
	for _, p := range playlists {
		if p.ID == query || normalize(p.Name) == q {
			return p, true
		}
	}
	return model.Playlist{}, false
}
