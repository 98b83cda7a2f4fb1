package server

import (
	"net/http"

	"Tunebox/logger"

	"github.com/gorilla/mux"
)

// ServeSongHandler streams a stored audio object, honouring Range requests.
func (h *APIHandler) ServeSongHandler(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	object, err := h.files.Open(r.Context(), key)
	if err != nil {
		writeError(w, err, "File not found")
		return
	}
	defer object.Close()

	w.Header().Set("Content-Type", object.ContentType())
	w.Header().Set("Cache-Control", "public, max-age=31536000") // 缓存一年
	w.Header().Set("Accept-Ranges", "bytes")

	logger.Debug("Serving song file", logger.String("key", key), logger.String("range", r.Header.Get("Range")))
	http.ServeContent(w, r, key, object.ModTime(), object)
}
