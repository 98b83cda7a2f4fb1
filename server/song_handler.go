package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"Tunebox/logger"
	"Tunebox/model"
	"Tunebox/storage"
)

const defaultMaxUploadSize = 200 << 20

// GetSongsHandler returns every stored song.
func (h *APIHandler) GetSongsHandler(w http.ResponseWriter, r *http.Request) {
	songs, err := h.songRepo.ListSongs(r.Context())
	if err != nil {
		writeError(w, err, "Failed to list songs")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"songs": songs})
}

// UploadSongHandler handles audio file uploads and metadata.
// Expected multipart form fields:
// - song: the audio file
// - name, artist, genre: text fields (optional)
// - image: cover image URL (optional)
func (h *APIHandler) UploadSongHandler(w http.ResponseWriter, r *http.Request) {
	limit := h.cfg.MaxUploadSize
	if limit <= 0 {
		limit = defaultMaxUploadSize
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(32 << 20); err != nil { // 32MB max memory
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, tooLarge.Limit), "Invalid upload")
			return
		}
		writeError(w, fmt.Errorf("%w: failed to parse multipart form: %v", ErrValidation, err), "Invalid upload")
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	file, header, err := r.FormFile("song")
	if err != nil {
		writeError(w, fmt.Errorf("%w: missing 'song' in form", ErrValidation), "Invalid upload")
		return
	}
	defer file.Close()

	originalName := filepath.Base(header.Filename)
	key := model.NewID() + "-" + sanitizeFilename(originalName)

	// 先写入临时文件，供 ffprobe 读取时长
	tmp, err := os.CreateTemp("", "tunebox-upload-*"+filepath.Ext(originalName))
	if err != nil {
		writeError(w, err, "Failed to buffer upload")
		return
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	size, err := io.Copy(tmp, file)
	if err != nil {
		writeError(w, err, "Failed to buffer upload")
		return
	}

	duration, err := h.prober.Duration(r.Context(), tmp.Name())
	if err != nil {
		logger.Warn("Could not probe audio duration, proceeding without it",
			logger.String("file", originalName), logger.ErrorField(err))
		duration = 0
	}

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		writeError(w, err, "Failed to buffer upload")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = storage.DetectContentType(originalName)
	}
	if err := h.files.Save(r.Context(), key, tmp, size, contentType); err != nil {
		writeError(w, err, "Failed to store audio file")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		name = strings.TrimSuffix(originalName, filepath.Ext(originalName))
	}

	fileURL := h.cfg.SongFileURL(key)
	song := &model.Song{
		Name:     name,
		Artist:   strings.TrimSpace(r.FormValue("artist")),
		Genre:    strings.TrimSpace(r.FormValue("genre")),
		File:     fileURL,
		Image:    strings.TrimSpace(r.FormValue("image")),
		Duration: duration,
	}
	if err := h.songRepo.CreateSong(r.Context(), song); err != nil {
		// 元数据写入失败时删除已存的文件，避免孤儿对象
		if derr := h.files.Delete(context.WithoutCancel(r.Context()), key); derr != nil {
			logger.Warn("Failed to remove orphaned audio file",
				logger.String("key", key), logger.ErrorField(derr))
		}
		writeError(w, err, "Failed to save song")
		return
	}

	logger.Info("Song uploaded",
		logger.String("songId", song.ID),
		logger.String("key", key),
		logger.Int64("size", size),
		logger.Float64("duration", duration),
		logger.String("store", h.files.Name()))

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "song uploaded successfully",
		"song":    fileURL,
	})
}

// sanitizeFilename keeps object keys URL and filesystem safe.
func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), ".")
	if out == "" {
		return "audio"
	}
	if len(out) > 150 {
		out = out[len(out)-150:]
	}
	return out
}
