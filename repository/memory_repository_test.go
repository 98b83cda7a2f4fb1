package repository

import (
	"context"
	"testing"

	"Tunebox/config"
	"Tunebox/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSongs(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	song := &model.Song{Name: "Blue", Artist: "Joni", Genre: "folk", File: "http://x/songs/blue.mp3"}
	require.NoError(t, store.CreateSong(ctx, song))
	assert.NotEmpty(t, song.ID)
	assert.False(t, song.CreatedAt.IsZero())

	got, err := store.GetSongByID(ctx, song.ID)
	require.NoError(t, err)
	assert.Equal(t, "Blue", got.Name)

	_, err = store.GetSongByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	songs, err := store.ListSongs(ctx)
	require.NoError(t, err)
	assert.Len(t, songs, 1)
}

func TestMemoryStoreAppendKeepsOrderAndDuplicates(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	p := &model.Playlist{Name: "road trip"}
	require.NoError(t, store.CreatePlaylist(ctx, p))
	assert.NotNil(t, p.Items)

	a := model.Song{ID: "a", Name: "A"}
	b := model.Song{ID: "b", Name: "B"}

	_, err := store.AppendItem(ctx, p.ID, a)
	require.NoError(t, err)
	_, err = store.AppendItem(ctx, p.ID, b)
	require.NoError(t, err)
	updated, err := store.AppendItem(ctx, p.ID, a)
	require.NoError(t, err)

	ids := []string{}
	for _, item := range updated.Items {
		ids = append(ids, item.ID)
	}
	// the store does not enforce uniqueness
	assert.Equal(t, []string{"a", "b", "a"}, ids)

	_, err = store.AppendItem(ctx, "missing", a)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	p := &model.Playlist{Name: "mix", Items: []model.Song{{ID: "a"}}}
	require.NoError(t, store.CreatePlaylist(ctx, p))

	got, err := store.GetPlaylistByID(ctx, p.ID)
	require.NoError(t, err)
	got.Items[0].Name = "mutated"

	again, err := store.GetPlaylistByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, again.Items[0].Name)
}

func TestOpenMemoryAndUnknownDriver(t *testing.T) {
	store, err := Open(context.Background(), &config.Config{DBDriver: "memory"})
	require.NoError(t, err)
	assert.NotNil(t, store.Songs)
	assert.NoError(t, store.Close())

	_, err = Open(context.Background(), &config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestPlaylistRowConversionKeepsItemOrder(t *testing.T) {
	row := playlistRow{
		ID:   "p1",
		Name: "mix",
		Items: []playlistItemRow{
			songToItemRow("p1", 0, model.Song{ID: "a", Name: "A"}),
			songToItemRow("p1", 1, model.Song{ID: "b", Name: "B"}),
		},
	}

	p := row.toModel()

	require.Len(t, p.Items, 2)
	assert.Equal(t, "a", p.Items[0].ID)
	assert.Equal(t, "B", p.Items[1].Name)
	assert.Equal(t, "songs", songRow{}.TableName())
}
