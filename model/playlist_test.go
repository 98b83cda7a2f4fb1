package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlaylistContains(t *testing.T) {
	p := Playlist{ID: "1", Items: []Song{{ID: "a"}, {ID: "b"}}}

	assert.True(t, p.Contains("a"))
	assert.True(t, p.Contains("b"))
	assert.False(t, p.Contains("c"))
	assert.False(t, Playlist{}.Contains("a"))
}

func TestPlaylistWithItemDoesNotAlias(t *testing.T) {
	items := make([]Song, 1, 4)
	items[0] = Song{ID: "a"}
	original := Playlist{ID: "1", Name: "mix", Items: items}

	updated := original.WithItem(Song{ID: "b"})

	assert.Len(t, original.Items, 1)
	assert.Len(t, updated.Items, 2)
	assert.Equal(t, "b", updated.Items[1].ID)
	assert.Equal(t, "mix", updated.Name)

	// appending to the original must not leak into the updated copy
	original.Items = append(original.Items, Song{ID: "z"})
	assert.Equal(t, "b", updated.Items[1].ID)
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
