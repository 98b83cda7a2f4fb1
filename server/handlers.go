package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"Tunebox/cache"
	"Tunebox/config"
	"Tunebox/core/audio"
	"Tunebox/logger"
	"Tunebox/repository"
	"Tunebox/storage"
)

var (
	// ErrValidation marks a malformed or incomplete request.
	ErrValidation = errors.New("validation failed")
	// ErrTooLarge marks a request body over the upload limit.
	ErrTooLarge = errors.New("request body too large")
)

// APIHandler 处理所有API请求
type APIHandler struct {
	songRepo     repository.SongRepository
	playlistRepo repository.PlaylistRepository
	files        storage.FileStore
	prober       audio.DurationProber
	cfg          *config.Config
}

// NewAPIHandler 创建新的API处理器
func NewAPIHandler(
	songRepo repository.SongRepository,
	playlistRepo repository.PlaylistRepository,
	files storage.FileStore,
	prober audio.DurationProber,
	cfg *config.Config,
) *APIHandler {
	if prober == nil {
		prober = audio.NopProber{}
	}
	return &APIHandler{
		songRepo:     songRepo,
		playlistRepo: playlistRepo,
		files:        files,
		prober:       prober,
		cfg:          cfg,
	}
}

// WithCatalogCache 为列表查询加上 Redis 缓存
func (h *APIHandler) WithCatalogCache(c *cache.CatalogCache) *APIHandler {
	h.songRepo = cache.WrapSongs(h.songRepo, c)
	h.playlistRepo = cache.WrapPlaylists(h.playlistRepo, c)
	return h
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Warn("Failed to encode response", logger.ErrorField(err))
	}
}

// writeError maps domain errors to status codes.
func writeError(w http.ResponseWriter, err error, msg string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, ErrTooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, storage.ErrObjectNotFound):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		logger.Error(msg, logger.ErrorField(err))
	}
	writeJSON(w, status, map[string]string{"error": msg + ": " + err.Error()})
}

// HealthHandler 健康检查
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
