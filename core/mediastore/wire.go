package mediastore

import (
	"time"

	"Tunebox/model"
)

// wireSong accepts every field spelling seen from Media Store deployments.
// Decoding collapses them into model.Song so nothing downstream has to care.
type wireSong struct {
	ID       string  `json:"id"`
	MongoID  string  `json:"_id"`
	Name     string  `json:"name"`
	Title    string  `json:"title"`
	Artist   string  `json:"artist"`
	Genre    string  `json:"genre"`
	File     string  `json:"file"`
	URL      string  `json:"url"`
	AudioURL string  `json:"audioUrl"`
	Image    string  `json:"image"`
	AlbumArt string  `json:"albumArt"`
	Duration float64 `json:"duration"`

	CreatedAt time.Time `json:"createdAt"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (w wireSong) toModel() model.Song {
	return model.Song{
		ID:        firstNonEmpty(w.ID, w.MongoID),
		Name:      firstNonEmpty(w.Name, w.Title),
		Artist:    w.Artist,
		Genre:     w.Genre,
		File:      firstNonEmpty(w.File, w.URL, w.AudioURL),
		Image:     firstNonEmpty(w.Image, w.AlbumArt),
		Duration:  w.Duration,
		CreatedAt: w.CreatedAt,
	}
}

type wirePlaylist struct {
	ID        string     `json:"id"`
	MongoID   string     `json:"_id"`
	Name      string     `json:"name"`
	Items     []wireSong `json:"items"`
	Songs     []wireSong `json:"songs"`
	CreatedAt time.Time  `json:"createdAt"`
}

func (w wirePlaylist) toModel() model.Playlist {
	src := w.Items
	if len(src) == 0 {
		src = w.Songs
	}
	items := make([]model.Song, 0, len(src))
	for _, s := range src {
		items = append(items, s.toModel())
	}
	return model.Playlist{
		ID:        firstNonEmpty(w.ID, w.MongoID),
		Name:      w.Name,
		Items:     items,
		CreatedAt: w.CreatedAt,
	}
}

func songsToModel(in []wireSong) []model.Song {
	out := make([]model.Song, 0, len(in))
	for _, s := range in {
		out = append(out, s.toModel())
	}
	return out
}

func playlistsToModel(in []wirePlaylist) []model.Playlist {
	out := make([]model.Playlist, 0, len(in))
	for _, p := range in {
		out = append(out, p.toModel())
	}
	return out
}
