package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Tunebox/cache"
	"Tunebox/config"
	"Tunebox/core/audio"
	"Tunebox/db"
	"Tunebox/logger"
	"Tunebox/repository"
	"Tunebox/storage"

	"github.com/gorilla/mux"
)

// corsMiddleware 添加 CORS 头并直接应答预检请求
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS, HEAD")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Range")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Length, Content-Range")
		w.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("HTTP request",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Duration("elapsed", time.Since(start)))
	})
}

// NewRouter registers the Media Store routes on a gorilla/mux router.
func NewRouter(h *APIHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(corsMiddleware)
	router.Use(requestLogger)

	router.HandleFunc("/healthz", h.HealthHandler).Methods(http.MethodGet)

	router.HandleFunc("/song", h.GetSongsHandler).Methods(http.MethodGet)
	router.HandleFunc("/song", h.UploadSongHandler).Methods(http.MethodPost)

	router.HandleFunc("/playlist", h.GetPlaylistsHandler).Methods(http.MethodGet)
	router.HandleFunc("/playlist", h.CreatePlaylistHandler).Methods(http.MethodPost)
	router.HandleFunc("/playlist/{playlistId}", h.GetPlaylistHandler).Methods(http.MethodGet)
	router.HandleFunc("/playlist/{playlistId}", h.AppendSongHandler).Methods(http.MethodPut)

	router.HandleFunc("/songs/{key}", h.ServeSongHandler).Methods(http.MethodGet, http.MethodHead)

	// OPTIONS 需要匹配到路由才能经过中间件
	router.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	return router
}

// Start wires the backends selected by cfg and serves until SIGINT/SIGTERM.
func Start(cfg *config.Config) error {
	ctx := context.Background()

	store, err := repository.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.DBDriver, err)
	}
	defer store.Close()
	logger.Info("Repository backend ready", logger.String("driver", cfg.DBDriver))

	files, err := storage.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize file storage: %w", err)
	}

	handler := NewAPIHandler(store.Songs, store.Playlists, files, audio.NewFFprobe(cfg.FFmpegPath), cfg)

	if cfg.RedisEnabled() {
		client, err := db.ConnectRedis(cfg)
		if err != nil {
			// 缓存是可选的，连接失败时直接访问存储
			logger.Warn("Redis unavailable, catalog cache disabled", logger.ErrorField(err))
		} else {
			defer client.Close()
			handler.WithCatalogCache(cache.NewCatalogCache(client, cfg.CacheTTL))
			logger.Info("Catalog cache enabled", logger.Duration("ttl", cfg.CacheTTL))
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      NewRouter(handler),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // 音频流可能持续较长时间
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting",
			logger.String("addr", srv.Addr),
			logger.String("publicUrl", cfg.PublicURL),
			logger.String("storage", files.Name()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-stop:
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}
