package model

import "time"

// Playlist holds embedded copies of songs in the order they were appended.
type Playlist struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Items     []Song    `json:"items" bson:"items"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Contains reports whether a song with the given ID is already in the playlist.
func (p Playlist) Contains(songID string) bool {
	for _, item := range p.Items {
		if item.ID == songID {
			return true
		}
	}
	return false
}

// WithItem returns a copy of the playlist with song appended.
// The receiver's Items slice is never shared with the result.
func (p Playlist) WithItem(song Song) Playlist {
	items := make([]Song, 0, len(p.Items)+1)
	items = append(items, p.Items...)
	items = append(items, song)
	p.Items = items
	return p
}
