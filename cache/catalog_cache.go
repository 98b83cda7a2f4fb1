package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"Tunebox/logger"
	"Tunebox/model"

	"github.com/redis/go-redis/v9"
)

const (
	songsKey     = "tunebox:catalog:songs"
	playlistsKey = "tunebox:catalog:playlists"
)

// CatalogCache caches the full song and playlist listings in Redis.
// A nil client disables it; every lookup then misses.
// Cache failures are logged and treated as misses so the store stays authoritative.
//
// Each listing is stored under a versioned key. Invalidation bumps the
// version instead of deleting the entry, so a listing read from the store
// before a write can only land under the old version and is never served.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCatalogCache creates a cache over client with the given TTL.
func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CatalogCache{client: client, ttl: ttl}
}

// Enabled reports whether a Redis client is attached.
func (c *CatalogCache) Enabled() bool {
	return c != nil && c.client != nil
}

func (c *CatalogCache) get(ctx context.Context, key string, dst interface{}) bool {
	if !c.Enabled() {
		return false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		logger.Warn("Catalog cache read failed", logger.String("key", key), logger.ErrorField(err))
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		logger.Warn("Catalog cache entry is corrupt, dropping it", logger.String("key", key), logger.ErrorField(err))
		c.del(ctx, key)
		return false
	}
	return true
}

func (c *CatalogCache) set(ctx context.Context, key string, value interface{}) {
	if !c.Enabled() {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		logger.Warn("Failed to marshal catalog cache entry", logger.String("key", key), logger.ErrorField(err))
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logger.Warn("Catalog cache write failed", logger.String("key", key), logger.ErrorField(err))
	}
}

func (c *CatalogCache) del(ctx context.Context, key string) {
	if !c.Enabled() {
		return
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		logger.Warn("Catalog cache invalidation failed", logger.String("key", key), logger.ErrorField(err))
	}
}

func versionKey(base string) string {
	return base + ":version"
}

func entryKey(base, version string) string {
	return base + ":" + version
}

// version 返回当前版本号，"" 表示缓存不可用
func (c *CatalogCache) version(ctx context.Context, base string) string {
	if !c.Enabled() {
		return ""
	}
	v, err := c.client.Get(ctx, versionKey(base)).Result()
	if errors.Is(err, redis.Nil) {
		return "0"
	}
	if err != nil {
		logger.Warn("Catalog cache version read failed", logger.String("key", base), logger.ErrorField(err))
		return ""
	}
	return v
}

func (c *CatalogCache) bump(ctx context.Context, base string) {
	if !c.Enabled() {
		return
	}
	if err := c.client.Incr(ctx, versionKey(base)).Err(); err != nil {
		logger.Warn("Catalog cache invalidation failed", logger.String("key", base), logger.ErrorField(err))
		// 无法升版本时至少删掉当前条目
		c.del(ctx, entryKey(base, c.version(ctx, base)))
	}
}

// Songs returns the cached song listing and the version it was looked up
// under. The version must be handed back to SetSongs.
func (c *CatalogCache) Songs(ctx context.Context) ([]model.Song, string, bool) {
	ver := c.version(ctx, songsKey)
	if ver == "" {
		return nil, "", false
	}
	var songs []model.Song
	if !c.get(ctx, entryKey(songsKey, ver), &songs) {
		return nil, ver, false
	}
	return songs, ver, true
}

// SetSongs stores the song listing under version. A stale version is never read again.
func (c *CatalogCache) SetSongs(ctx context.Context, version string, songs []model.Song) {
	if version == "" {
		return
	}
	c.set(ctx, entryKey(songsKey, version), songs)
}

// InvalidateSongs retires the current song listing.
func (c *CatalogCache) InvalidateSongs(ctx context.Context) {
	c.bump(ctx, songsKey)
}

// Playlists returns the cached playlist listing and its version.
func (c *CatalogCache) Playlists(ctx context.Context) ([]model.Playlist, string, bool) {
	ver := c.version(ctx, playlistsKey)
	if ver == "" {
		return nil, "", false
	}
	var playlists []model.Playlist
	if !c.get(ctx, entryKey(playlistsKey, ver), &playlists) {
		return nil, ver, false
	}
	return playlists, ver, true
}

// SetPlaylists stores the playlist listing under version.
func (c *CatalogCache) SetPlaylists(ctx context.Context, version string, playlists []model.Playlist) {
	if version == "" {
		return
	}
	c.set(ctx, entryKey(playlistsKey, version), playlists)
}

// InvalidatePlaylists retires the current playlist listing.
func (c *CatalogCache) InvalidatePlaylists(ctx context.Context) {
	c.bump(ctx, playlistsKey)
}
