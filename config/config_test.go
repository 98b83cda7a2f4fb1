package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	cfg := FromViper(newViper())

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, "local", cfg.StorageDriver)
	assert.Equal(t, filepath.Join("uploads", "audio"), cfg.AudioUploadDir)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, int64(200<<20), cfg.MaxUploadSize)
	assert.False(t, cfg.RedisEnabled())
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "Mongo")
	t.Setenv("PUBLIC_URL", "http://music.local:9090/")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("UPLOAD_DIR", "/srv/media")
	t.Setenv("MAX_UPLOAD_SIZE", "10mb")

	cfg := FromViper(newViper())

	assert.Equal(t, "mongo", cfg.DBDriver)
	assert.Equal(t, "http://music.local:9090", cfg.PublicURL)
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, 3, cfg.RedisDB)
	assert.True(t, cfg.MinioUseSSL)
	assert.Equal(t, filepath.Join("/srv/media", "audio"), cfg.AudioUploadDir)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadSize)
}

func TestSongFileURL(t *testing.T) {
	cfg := &Config{PublicURL: "http://localhost:8080"}
	assert.Equal(t, "http://localhost:8080/songs/abc-track.mp3", cfg.SongFileURL("abc-track.mp3"))
}
