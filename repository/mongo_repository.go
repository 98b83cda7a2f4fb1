package repository

import (
	"context"
	"errors"
	"fmt"

	"Tunebox/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	songsCollection     = "songs"
	playlistsCollection = "playlists"
)

// mongoSongRepository stores songs as documents keyed by their ID.
type mongoSongRepository struct {
	coll *mongo.Collection
}

// NewMongoSongRepository creates a song repository backed by MongoDB.
func NewMongoSongRepository(database *mongo.Database) SongRepository {
	return &mongoSongRepository{coll: database.Collection(songsCollection)}
}

func (r *mongoSongRepository) CreateSong(ctx context.Context, song *model.Song) error {
	prepareSong(song)
	if _, err := r.coll.InsertOne(ctx, song); err != nil {
		return fmt.Errorf("failed to insert song: %w", err)
	}
	return nil
}

func (r *mongoSongRepository) GetSongByID(ctx context.Context, id string) (*model.Song, error) {
	var song model.Song
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&song)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get song %s: %w", id, err)
	}
	return &song, nil
}

func (r *mongoSongRepository) ListSongs(ctx context.Context) ([]model.Song, error) {
	cursor, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list songs: %w", err)
	}
	songs := make([]model.Song, 0)
	if err := cursor.All(ctx, &songs); err != nil {
		return nil, fmt.Errorf("failed to decode songs: %w", err)
	}
	return songs, nil
}

// mongoPlaylistRepository keeps playlist items embedded in the playlist document.
type mongoPlaylistRepository struct {
	coll *mongo.Collection
}

// NewMongoPlaylistRepository creates a playlist repository backed by MongoDB.
func NewMongoPlaylistRepository(database *mongo.Database) PlaylistRepository {
	return &mongoPlaylistRepository{coll: database.Collection(playlistsCollection)}
}

func (r *mongoPlaylistRepository) CreatePlaylist(ctx context.Context, playlist *model.Playlist) error {
	// items 必须是数组而不是 null，否则后续 $push 会失败
	preparePlaylist(playlist)
	if _, err := r.coll.InsertOne(ctx, playlist); err != nil {
		return fmt.Errorf("failed to insert playlist: %w", err)
	}
	return nil
}

func (r *mongoPlaylistRepository) GetPlaylistByID(ctx context.Context, id string) (*model.Playlist, error) {
	var p model.Playlist
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist %s: %w", id, err)
	}
	if p.Items == nil {
		p.Items = []model.Song{}
	}
	return &p, nil
}

func (r *mongoPlaylistRepository) ListPlaylists(ctx context.Context) ([]model.Playlist, error) {
	cursor, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	playlists := make([]model.Playlist, 0)
	if err := cursor.All(ctx, &playlists); err != nil {
		return nil, fmt.Errorf("failed to decode playlists: %w", err)
	}
	for i := range playlists {
		if playlists[i].Items == nil {
			playlists[i].Items = []model.Song{}
		}
	}
	return playlists, nil
}

func (r *mongoPlaylistRepository) AppendItem(ctx context.Context, playlistID string, song model.Song) (*model.Playlist, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p model.Playlist
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": playlistID},
		bson.M{"$push": bson.M{"items": song}},
		opts,
	).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to append song %s to playlist %s: %w", song.ID, playlistID, err)
	}
	return &p, nil
}
