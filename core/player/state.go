package player

import "Tunebox/model"

// State is the playback controller state.
type State int

const (
	Empty  State = iota // no song selected
	Loaded              // song bound, not started
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Loaded:
		return "loaded"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	}
	return "unknown"
}

// PlaybackState is a point-in-time copy of the controller state.
type PlaybackState struct {
	Song        *model.Song
	State       State
	Progress    float64 // fraction of Duration, in [0,1]
	CurrentTime float64 // seconds
	Duration    float64 // seconds, 0 while unknown
	Volume      float64 // [0,1]
	Muted       bool
}

// IsPlaying reports whether the state is Playing.
func (s PlaybackState) IsPlaying() bool { return s.State == Playing }
