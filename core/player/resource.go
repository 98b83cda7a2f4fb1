package player

import "Tunebox/model"

// Tag identifies one binding of a resource to the controller. A song that is
// selected twice gets two different tags.
type Tag struct {
	SongID string
	Seq    uint64
}

// Sink receives notifications from a Resource. Every call carries the tag the
// resource was opened with; the controller drops calls whose tag is stale.
type Sink interface {
	OnMetadataReady(tag Tag, duration float64)
	OnTimeUpdate(tag Tag, currentTime float64)
	OnEnded(tag Tag)
}

// Resource plays one song. Implementations must not call the Sink while
// holding locks that their own methods take.
type Resource interface {
	// Play starts or resumes playback. An error means playback was refused.
	Play() error
	Pause()
	SetPosition(seconds float64)
	SetVolume(volume float64)
	// Close stops playback and releases the resource. No Sink calls are made
	// after Close returns.
	Close() error
}

// Opener creates the resource for a newly selected song.
type Opener interface {
	Open(song model.Song, tag Tag, sink Sink) (Resource, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(song model.Song, tag Tag, sink Sink) (Resource, error)

func (f OpenerFunc) Open(song model.Song, tag Tag, sink Sink) (Resource, error) {
	return f(song, tag, sink)
}
