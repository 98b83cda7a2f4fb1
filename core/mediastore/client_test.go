package mediastore

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"Tunebox/config"
	"Tunebox/core/audio"
	"Tunebox/model"
	"Tunebox/repository"
	"Tunebox/server"
	"Tunebox/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMediaStore(t *testing.T) (*Client, *repository.MemoryStore) {
	t.Helper()
	files, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	store := repository.NewMemoryStore()

	cfg := &config.Config{}
	h := server.NewAPIHandler(store, store, files, audio.NopProber{}, cfg)
	ts := httptest.NewServer(server.NewRouter(h))
	t.Cleanup(ts.Close)
	cfg.PublicURL = ts.URL

	return NewClient(ts.URL + "/"), store
}

func TestClientRoundTrip(t *testing.T) {
	ctx := context.Background()
	client, _ := newMediaStore(t)

	fileURL, err := client.UploadSong(ctx, Upload{
		Filename: "first.mp3",
		Content:  strings.NewReader("audio-bytes"),
		Name:     "First",
		Artist:   "Band",
		Genre:    "Pop",
	})
	require.NoError(t, err)
	assert.Contains(t, fileURL, "/songs/")

	songs, err := client.ListSongs(ctx)
	require.NoError(t, err)
	require.Len(t, songs, 1)
	assert.Equal(t, "First", songs[0].Name)
	assert.Equal(t, fileURL, songs[0].File)

	id, err := client.CreatePlaylist(ctx, "Road trip", nil)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	require.NoError(t, client.AddSong(ctx, id, songs[0].ID))

	p, err := client.GetPlaylist(ctx, id)
	require.NoError(t, err)
	require.Len(t, p.Items, 1)
	assert.Equal(t, songs[0].ID, p.Items[0].ID)

	playlists, err := client.ListPlaylists(ctx)
	require.NoError(t, err)
	require.Len(t, playlists, 1)
	assert.True(t, playlists[0].Contains(songs[0].ID))
}

func TestAddSongToUnknownPlaylist(t *testing.T) {
	client, store := newMediaStore(t)
	song := &model.Song{Name: "x"}
	require.NoError(t, store.CreateSong(context.Background(), song))

	err := client.AddSong(context.Background(), "missing", song.ID)
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusNotFound, te.StatusCode)
	assert.Equal(t, "add song", te.Op)
}

func TestLegacyFieldNamesAreNormalized(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/song":
			w.Write([]byte(`{"songs":[{"_id":"64ab","title":"Old","artist":"A","albumArt":"http://img/a.jpg","audioUrl":"http://x/old.mp3"}]}`))
		case "/playlist":
			w.Write([]byte(`{"playlists":[{"_id":"p1","name":"Legacy","items":[{"_id":"64ab","name":"Old","url":"http://x/old.mp3","image":"i"}]}]}`))
		}
	}))
	defer ts.Close()

	client := NewClient(ts.URL)
	songs, err := client.ListSongs(context.Background())
	require.NoError(t, err)
	require.Len(t, songs, 1)
	assert.Equal(t, model.Song{ID: "64ab", Name: "Old", Artist: "A", Image: "http://img/a.jpg", File: "http://x/old.mp3"}, songs[0])

	playlists, err := client.ListPlaylists(context.Background())
	require.NoError(t, err)
	require.Len(t, playlists, 1)
	assert.Equal(t, "p1", playlists[0].ID)
	require.Len(t, playlists[0].Items, 1)
	assert.Equal(t, "http://x/old.mp3", playlists[0].Items[0].File)
	assert.Equal(t, "i", playlists[0].Items[0].Image)
}

func TestTransportErrors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/song":
			http.Error(w, `{"error":"db down"}`, http.StatusInternalServerError)
		case "/playlist":
			w.Write([]byte(`{"playlists": [`))
		}
	}))
	defer ts.Close()
	client := NewClient(ts.URL)

	_, err := client.ListSongs(context.Background())
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusInternalServerError, te.StatusCode)
	assert.Contains(t, err.Error(), "db down")

	_, err = client.ListPlaylists(context.Background())
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusOK, te.StatusCode)

	ts.Close()
	_, err = client.ListSongs(context.Background())
	require.True(t, errors.As(err, &te))
	assert.Zero(t, te.StatusCode)
}
