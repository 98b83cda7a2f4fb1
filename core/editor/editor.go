package editor

import (
	"context"
	"fmt"
	"sync"

	"Tunebox/logger"
	"Tunebox/model"
)

// Mutator sends the append mutation to the Media Store.
type Mutator interface {
	AddSong(ctx context.Context, playlistID, songID string) error
}

// Notifier shows a message to the user.
type Notifier interface {
	Notify(msg string)
}

// Editor tracks the selected playlist and appends songs to it.
// Playlist values are replaced, never mutated in place.
type Editor struct {
	mu        sync.RWMutex
	store     Mutator
	notifier  Notifier
	songs     []model.Song
	playlists []model.Playlist
	selected  *model.Playlist
}

func New(store Mutator, notifier Notifier) *Editor {
	return &Editor{store: store, notifier: notifier}
}

// SetSongs records the known catalog so appended items carry full song data.
func (e *Editor) SetSongs(songs []model.Song) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.songs = append([]model.Song(nil), songs...)
}

// SetPlaylists replaces the known playlists. The selection is refreshed from
// the new list, or cleared if its playlist disappeared.
func (e *Editor) SetPlaylists(playlists []model.Playlist) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.playlists = append([]model.Playlist(nil), playlists...)
	if e.selected == nil {
		return
	}
	for i := range e.playlists {
		if e.playlists[i].ID == e.selected.ID {
			p := e.playlists[i]
			e.selected = &p
			return
		}
	}
	e.selected = nil
}

func (e *Editor) Playlists() []model.Playlist {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]model.Playlist(nil), e.playlists...)
}

// SelectPlaylist sets the active playlist; nil clears the selection.
func (e *Editor) SelectPlaylist(p *model.Playlist) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p == nil {
		e.selected = nil
		return
	}
	cp := *p
	e.selected = &cp
}

// Selected returns a copy of the active playlist.
func (e *Editor) Selected() (model.Playlist, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.selected == nil {
		return model.Playlist{}, false
	}
	return *e.selected, true
}

// Addable returns the songs not yet in the selected playlist, compared by id.
// With no selection every song is addable.
func (e *Editor) Addable(all []model.Song) []model.Song {
	e.mu.RLock()
	selected := e.selected
	e.mu.RUnlock()

	out := make([]model.Song, 0, len(all))
	for _, s := range all {
		if selected != nil && selected.Contains(s.ID) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// AddSong appends songID to playlistID on the Media Store. On success the
// local playlist value is rebuilt with the song appended; on failure the
// notifier is told and local state is left as it was.
func (e *Editor) AddSong(ctx context.Context, playlistID, songID string) error {
	if err := e.store.AddSong(ctx, playlistID, songID); err != nil {
		logger.Warn("Failed to add song to playlist",
			logger.String("playlistId", playlistID),
			logger.String("songId", songID),
			logger.ErrorField(err))
		if e.notifier != nil {
			e.notifier.Notify(fmt.Sprintf("Could not add song: %v", err))
		}
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	song := e.lookupSong(songID)
	for i := range e.playlists {
		if e.playlists[i].ID == playlistID {
			e.playlists[i] = e.playlists[i].WithItem(song)
		}
	}
	if e.selected != nil && e.selected.ID == playlistID {
		updated := e.selected.WithItem(song)
		e.selected = &updated
	}
	return nil
}

func (e *Editor) lookupSong(id string) model.Song {
	for _, s := range e.songs {
		if s.ID == id {
			return s
		}
	}
	return model.Song{ID: id}
}
