package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"Tunebox/db"
	"Tunebox/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   gormlogger.Discard,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// 内存库每个连接各自独立，只保留一个连接
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrateModels(gdb, GormModels()...))
	return gdb
}

func itemIDs(p *model.Playlist) []string {
	ids := make([]string, 0, len(p.Items))
	for _, item := range p.Items {
		ids = append(ids, item.ID)
	}
	return ids
}

func TestGormSongs(t *testing.T) {
	ctx := context.Background()
	repo := NewGormSongRepository(newSQLiteDB(t))

	now := time.Now().UTC()
	later := &model.Song{Name: "Later", CreatedAt: now.Add(time.Minute)}
	earlier := &model.Song{Name: "Earlier", Artist: "Joni", Duration: 201.5, File: "http://x/songs/e.mp3", CreatedAt: now}
	require.NoError(t, repo.CreateSong(ctx, later))
	require.NoError(t, repo.CreateSong(ctx, earlier))
	assert.NotEmpty(t, earlier.ID)

	got, err := repo.GetSongByID(ctx, earlier.ID)
	require.NoError(t, err)
	assert.Equal(t, "Earlier", got.Name)
	assert.Equal(t, "Joni", got.Artist)
	assert.InDelta(t, 201.5, got.Duration, 1e-9)
	assert.Equal(t, "http://x/songs/e.mp3", got.File)

	_, err = repo.GetSongByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	songs, err := repo.ListSongs(ctx)
	require.NoError(t, err)
	require.Len(t, songs, 2)
	assert.Equal(t, "Earlier", songs[0].Name)
	assert.Equal(t, "Later", songs[1].Name)
}

func TestGormAppendKeepsOrderAndDuplicates(t *testing.T) {
	ctx := context.Background()
	repo := NewGormPlaylistRepository(newSQLiteDB(t))

	seed := model.Song{ID: "c", Name: "C", Artist: "Nina"}
	p := &model.Playlist{Name: "road trip", Items: []model.Song{seed}}
	require.NoError(t, repo.CreatePlaylist(ctx, p))

	a := model.Song{ID: "a", Name: "A", Duration: 180}
	b := model.Song{ID: "b", Name: "B"}

	_, err := repo.AppendItem(ctx, p.ID, a)
	require.NoError(t, err)
	_, err = repo.AppendItem(ctx, p.ID, b)
	require.NoError(t, err)
	updated, err := repo.AppendItem(ctx, p.ID, a)
	require.NoError(t, err)

	assert.Equal(t, []string{"c", "a", "b", "a"}, itemIDs(updated))
	assert.Equal(t, "Nina", updated.Items[0].Artist)
	assert.InDelta(t, 180, updated.Items[1].Duration, 1e-9)

	reloaded, err := repo.GetPlaylistByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "road trip", reloaded.Name)
	assert.Equal(t, itemIDs(updated), itemIDs(reloaded))

	_, err = repo.AppendItem(ctx, "missing", a)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetPlaylistByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormListPlaylistsPreloadsItemsInOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewGormPlaylistRepository(newSQLiteDB(t))

	now := time.Now().UTC()
	first := &model.Playlist{Name: "first", CreatedAt: now}
	second := &model.Playlist{Name: "second", CreatedAt: now.Add(time.Second)}
	empty := &model.Playlist{Name: "empty", CreatedAt: now.Add(2 * time.Second)}
	require.NoError(t, repo.CreatePlaylist(ctx, second))
	require.NoError(t, repo.CreatePlaylist(ctx, first))
	require.NoError(t, repo.CreatePlaylist(ctx, empty))

	// 交错追加，确认每个歌单各自按 position 排序
	for _, step := range []struct {
		playlist *model.Playlist
		songID   string
	}{
		{second, "x"}, {first, "1"}, {second, "y"}, {first, "2"}, {first, "3"}, {second, "x"},
	} {
		_, err := repo.AppendItem(ctx, step.playlist.ID, model.Song{ID: step.songID})
		require.NoError(t, err)
	}

	playlists, err := repo.ListPlaylists(ctx)
	require.NoError(t, err)
	require.Len(t, playlists, 3)

	assert.Equal(t, "first", playlists[0].Name)
	assert.Equal(t, []string{"1", "2", "3"}, itemIDs(&playlists[0]))
	assert.Equal(t, "second", playlists[1].Name)
	assert.Equal(t, []string{"x", "y", "x"}, itemIDs(&playlists[1]))
	assert.NotNil(t, playlists[2].Items)
	assert.Empty(t, playlists[2].Items)
}

func TestGormConcurrentAppendsGetDistinctPositions(t *testing.T) {
	ctx := context.Background()
	gdb := newSQLiteDB(t)
	repo := NewGormPlaylistRepository(gdb)

	p := &model.Playlist{Name: "party"}
	require.NoError(t, repo.CreatePlaylist(ctx, p))

	const n = 8
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.AppendItem(ctx, p.ID, model.Song{ID: model.NewID()})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var positions []int
	require.NoError(t, gdb.Model(&playlistItemRow{}).
		Where("playlist_id = ?", p.ID).
		Order("position ASC").
		Pluck("position", &positions).Error)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, positions)
}
