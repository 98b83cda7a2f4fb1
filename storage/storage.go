package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
	"time"

	"Tunebox/config"
)

// ErrObjectNotFound is returned when a stored file does not exist.
var ErrObjectNotFound = errors.New("object not found")

// Object is a readable, seekable stored file.
type Object interface {
	io.ReadSeekCloser
	ModTime() time.Time
	ContentType() string
}

// FileStore persists uploaded audio files under flat keys.
type FileStore interface {
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, key string) (Object, error)
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Name() string
}

// New returns the file store selected by cfg.StorageDriver.
func New(ctx context.Context, cfg *config.Config) (FileStore, error) {
	switch cfg.StorageDriver {
	case "local", "":
		return NewLocalStore(cfg.AudioUploadDir)
	case "minio":
		return NewMinioStore(ctx, cfg)
	}
	return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
}

// CleanKey reduces key to a single safe path element.
func CleanKey(key string) (string, error) {
	key = strings.ReplaceAll(key, "\\", "/")
	clean := path.Base(path.Clean("/" + key))
	if clean == "/" || clean == "." || clean == ".." || clean == "" {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return clean, nil
}

// DetectContentType 根据扩展名推断内容类型
func DetectContentType(key string) string {
	ext := strings.ToLower(path.Ext(key))
	switch ext {
	case ".mp3":
		return "audio/mpeg"
	case ".m4a":
		return "audio/mp4"
	case ".flac":
		return "audio/flac"
	case ".wav":
		return "audio/wav"
	case ".ogg", ".oga":
		return "audio/ogg"
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
