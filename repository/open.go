package repository

import (
	"context"
	"fmt"

	"Tunebox/config"
	"Tunebox/db"
)

// Store bundles the repositories of one backend with its shutdown hook.
type Store struct {
	Songs     SongRepository
	Playlists PlaylistRepository
	Close     func() error
}

// Open connects the backend selected by cfg.DBDriver.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.DBDriver {
	case "memory":
		mem := NewMemoryStore()
		return &Store{Songs: mem, Playlists: mem, Close: func() error { return nil }}, nil

	case "mongo", "mongodb":
		database, err := db.ConnectMongo(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &Store{
			Songs:     NewMongoSongRepository(database),
			Playlists: NewMongoPlaylistRepository(database),
			Close:     func() error { return db.CloseMongo(database) },
		}, nil

	case "mysql", "postgres", "postgresql", "":
		gdb, err := db.ConnectGormDB(cfg)
		if err != nil {
			return nil, err
		}
		if err := db.AutoMigrateModels(gdb, GormModels()...); err != nil {
			db.CloseGormDB(gdb)
			return nil, err
		}
		return &Store{
			Songs:     NewGormSongRepository(gdb),
			Playlists: NewGormPlaylistRepository(gdb),
			Close:     func() error { return db.CloseGormDB(gdb) },
		}, nil
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
}
