package cmd

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"Tunebox/config"
	"Tunebox/core/audio"
	"Tunebox/core/mediastore"
	"Tunebox/repository"
	"Tunebox/server"
	"Tunebox/storage"

	"github.com/stretchr/testify/require"
)

// newTestMediaStore serves the real router over httptest. wrap may replace
// individual routes.
func newTestMediaStore(t *testing.T, wrap func(http.Handler) http.Handler) (*mediastore.Client, *repository.MemoryStore) {
	t.Helper()
	files, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	store := repository.NewMemoryStore()

	cfg := &config.Config{}
	var handler http.Handler = server.NewRouter(server.NewAPIHandler(store, store, files, audio.NopProber{}, cfg))
	if wrap != nil {
		handler = wrap(handler)
	}
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	cfg.PublicURL = ts.URL

	return mediastore.NewClient(ts.URL), store
}
