package player

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSong is returned by operations that need a selected song.
	ErrNoSong = errors.New("no song selected")
	// ErrNoResource is returned when the selected song has no open resource.
	ErrNoResource = errors.New("playback resource not ready")
)

// PlaybackError reports that the playback resource refused to play a song.
type PlaybackError struct {
	SongID string
	Err    error
}

func (e *PlaybackError) Error() string {
	return fmt.Sprintf("playback of song %s failed: %v", e.SongID, e.Err)
}

func (e *PlaybackError) Unwrap() error { return e.Err }
