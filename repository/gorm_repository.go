package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Tunebox/logger"
	"Tunebox/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type songRow struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	Name      string `gorm:"type:varchar(255)"`
	Artist    string `gorm:"type:varchar(255)"`
	Genre     string `gorm:"type:varchar(100)"`
	File      string `gorm:"type:varchar(767)"`
	Image     string `gorm:"type:varchar(767)"`
	Duration  float64
	CreatedAt time.Time `gorm:"index"`
}

func (songRow) TableName() string { return "songs" }

type playlistRow struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	Name      string `gorm:"type:varchar(255)"`
	CreatedAt time.Time
	Items     []playlistItemRow `gorm:"foreignKey:PlaylistID"`
}

func (playlistRow) TableName() string { return "playlists" }

// playlistItemRow 是歌曲的内嵌副本，不引用 songs 表
type playlistItemRow struct {
	ID            uint   `gorm:"primaryKey;autoIncrement"`
	PlaylistID    string `gorm:"type:varchar(36);index:idx_playlist_position,priority:1"`
	Position      int    `gorm:"index:idx_playlist_position,priority:2"`
	SongID        string `gorm:"type:varchar(36)"`
	Name          string `gorm:"type:varchar(255)"`
	Artist        string `gorm:"type:varchar(255)"`
	Genre         string `gorm:"type:varchar(100)"`
	File          string `gorm:"type:varchar(767)"`
	Image         string `gorm:"type:varchar(767)"`
	Duration      float64
	SongCreatedAt time.Time
}

func (playlistItemRow) TableName() string { return "playlist_items" }

func songToRow(s model.Song) songRow {
	return songRow{
		ID:        s.ID,
		Name:      s.Name,
		Artist:    s.Artist,
		Genre:     s.Genre,
		File:      s.File,
		Image:     s.Image,
		Duration:  s.Duration,
		CreatedAt: s.CreatedAt,
	}
}

func (r songRow) toModel() model.Song {
	return model.Song{
		ID:        r.ID,
		Name:      r.Name,
		Artist:    r.Artist,
		Genre:     r.Genre,
		File:      r.File,
		Image:     r.Image,
		Duration:  r.Duration,
		CreatedAt: r.CreatedAt,
	}
}

func songToItemRow(playlistID string, position int, s model.Song) playlistItemRow {
	return playlistItemRow{
		PlaylistID:    playlistID,
		Position:      position,
		SongID:        s.ID,
		Name:          s.Name,
		Artist:        s.Artist,
		Genre:         s.Genre,
		File:          s.File,
		Image:         s.Image,
		Duration:      s.Duration,
		SongCreatedAt: s.CreatedAt,
	}
}

func (r playlistItemRow) toModel() model.Song {
	return model.Song{
		ID:        r.SongID,
		Name:      r.Name,
		Artist:    r.Artist,
		Genre:     r.Genre,
		File:      r.File,
		Image:     r.Image,
		Duration:  r.Duration,
		CreatedAt: r.SongCreatedAt,
	}
}

func (r playlistRow) toModel() model.Playlist {
	items := make([]model.Song, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, item.toModel())
	}
	return model.Playlist{ID: r.ID, Name: r.Name, Items: items, CreatedAt: r.CreatedAt}
}

// GormModels lists the tables to migrate for the SQL backends.
func GormModels() []interface{} {
	return []interface{}{&songRow{}, &playlistRow{}, &playlistItemRow{}}
}

// gormSongRepository implements SongRepository for MySQL/Postgres.
type gormSongRepository struct {
	db *gorm.DB
}

// NewGormSongRepository creates a new SQL-backed song repository.
func NewGormSongRepository(db *gorm.DB) SongRepository {
	return &gormSongRepository{db: db}
}

func (r *gormSongRepository) CreateSong(ctx context.Context, song *model.Song) error {
	prepareSong(song)
	row := songToRow(*song)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to create song: %w", err)
	}
	logger.Debug("Song created", logger.String("songId", song.ID), logger.String("name", song.Name))
	return nil
}

func (r *gormSongRepository) GetSongByID(ctx context.Context, id string) (*model.Song, error) {
	var row songRow
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get song %s: %w", id, err)
	}
	song := row.toModel()
	return &song, nil
}

func (r *gormSongRepository) ListSongs(ctx context.Context) ([]model.Song, error) {
	var rows []songRow
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list songs: %w", err)
	}
	songs := make([]model.Song, 0, len(rows))
	for _, row := range rows {
		songs = append(songs, row.toModel())
	}
	return songs, nil
}

// gormPlaylistRepository implements PlaylistRepository for MySQL/Postgres.
type gormPlaylistRepository struct {
	db *gorm.DB
}

// NewGormPlaylistRepository creates a new SQL-backed playlist repository.
func NewGormPlaylistRepository(db *gorm.DB) PlaylistRepository {
	return &gormPlaylistRepository{db: db}
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *gormPlaylistRepository) CreatePlaylist(ctx context.Context, playlist *model.Playlist) error {
	preparePlaylist(playlist)

	row := playlistRow{ID: playlist.ID, Name: playlist.Name, CreatedAt: playlist.CreatedAt}
	for i, item := range playlist.Items {
		row.Items = append(row.Items, songToItemRow(playlist.ID, i, item))
	}

	// Create 会连同 Items 一起插入
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}
	return nil
}

func (r *gormPlaylistRepository) GetPlaylistByID(ctx context.Context, id string) (*model.Playlist, error) {
	return r.getPlaylist(r.db.WithContext(ctx), id)
}

func (r *gormPlaylistRepository) getPlaylist(tx *gorm.DB, id string) (*model.Playlist, error) {
	var row playlistRow
	err := tx.Preload("Items", orderedItems).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist %s: %w", id, err)
	}
	p := row.toModel()
	return &p, nil
}

func (r *gormPlaylistRepository) ListPlaylists(ctx context.Context) ([]model.Playlist, error) {
	var rows []playlistRow
	err := r.db.WithContext(ctx).Preload("Items", orderedItems).Order("created_at ASC").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	playlists := make([]model.Playlist, 0, len(rows))
	for _, row := range rows {
		playlists = append(playlists, row.toModel())
	}
	return playlists, nil
}

func (r *gormPlaylistRepository) AppendItem(ctx context.Context, playlistID string, song model.Song) (*model.Playlist, error) {
	var updated *model.Playlist

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 锁定歌单行，保证并发追加时 position 连续
		var owner playlistRow
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").Where("id = ?", playlistID).First(&owner).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var next int
		err = tx.Model(&playlistItemRow{}).
			Where("playlist_id = ?", playlistID).
			Select("COALESCE(MAX(position), -1) + 1").
			Scan(&next).Error
		if err != nil {
			return err
		}

		item := songToItemRow(playlistID, next, song)
		if err := tx.Create(&item).Error; err != nil {
			return err
		}

		updated, err = r.getPlaylist(tx, playlistID)
		return err
	})
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to append song %s to playlist %s: %w", song.ID, playlistID, err)
	}

	logger.Debug("Song appended to playlist", logger.String("playlistId", playlistID), logger.String("songId", song.ID))
	return updated, nil
}
