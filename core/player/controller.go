package player

import (
	"sync"

	"Tunebox/logger"
	"Tunebox/model"
)

const defaultVolume = 0.7

// Controller is the playback state machine: Empty → Loaded → Playing ⇄ Paused.
// It is safe for concurrent use. Resource methods are never called while the
// controller lock is held, so resources may report back from any goroutine.
type Controller struct {
	mu sync.Mutex

	opener Opener
	res    Resource
	tag    Tag
	seq    uint64

	song        *model.Song
	state       State
	progress    float64
	currentTime float64
	duration    float64
	volume      float64
	muted       bool
	lastAudible float64

	observers  map[int]func(PlaybackState)
	nextObsID  int
	reportFunc func(error)
}

// Option configures a Controller.
type Option func(*Controller)

// WithErrorReporter sets the callback that receives playback failures.
func WithErrorReporter(fn func(error)) Option {
	return func(c *Controller) { c.reportFunc = fn }
}

// WithVolume sets the initial volume.
func WithVolume(v float64) Option {
	return func(c *Controller) {
		c.volume = clamp01(v)
		c.muted = c.volume == 0
		if c.volume > 0 {
			c.lastAudible = c.volume
		}
	}
}

// NewController creates a controller in the Empty state.
func NewController(opener Opener, opts ...Option) *Controller {
	c := &Controller{
		opener:      opener,
		volume:      defaultVolume,
		lastAudible: defaultVolume,
		observers:   make(map[int]func(PlaybackState)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnChange registers fn to be called after every state change. The returned
// function removes the registration.
func (c *Controller) OnChange(fn func(PlaybackState)) func() {
	c.mu.Lock()
	id := c.nextObsID
	c.nextObsID++
	c.observers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.observers, id)
		c.mu.Unlock()
	}
}

func (c *Controller) snapshotLocked() PlaybackState {
	s := PlaybackState{
		State:       c.state,
		Progress:    c.progress,
		CurrentTime: c.currentTime,
		Duration:    c.duration,
		Volume:      c.volume,
		Muted:       c.muted,
	}
	if c.song != nil {
		song := *c.song
		s.Song = &song
	}
	return s
}

// unlockAndNotify releases the lock and then calls the observers.
func (c *Controller) unlockAndNotify() {
	snap := c.snapshotLocked()
	fns := make([]func(PlaybackState), 0, len(c.observers))
	for _, fn := range c.observers {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func (c *Controller) report(err error) {
	logger.Warn("Playback error", logger.ErrorField(err))
	c.mu.Lock()
	fn := c.reportFunc
	c.mu.Unlock()
	if fn != nil {
		fn(err)
	}
}

// Snapshot returns a copy of the current playback state.
func (c *Controller) Snapshot() PlaybackState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// ProgressPercent returns progress in percent, 0 to 100.
func (c *Controller) ProgressPercent() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progress * 100
}

// SelectSong binds a new song from any state. The previous resource is
// closed, progress and time reset to 0 and the duration is unknown until the
// new resource reports metadata.
func (c *Controller) SelectSong(song model.Song) error {
	c.mu.Lock()
	c.seq++
	tag := Tag{SongID: song.ID, Seq: c.seq}
	old := c.res
	c.res = nil
	c.tag = tag
	c.song = &song
	c.state = Loaded
	c.progress = 0
	c.currentTime = 0
	c.duration = 0
	c.unlockAndNotify()

	if old != nil {
		if err := old.Close(); err != nil {
			logger.Warn("Failed to close playback resource", logger.ErrorField(err))
		}
	}

	res, err := c.opener.Open(song, tag, c)

	c.mu.Lock()
	if c.tag != tag {
		// 打开期间又选了别的歌
		c.mu.Unlock()
		if res != nil {
			res.Close()
		}
		return nil
	}
	if err != nil {
		c.mu.Unlock()
		perr := &PlaybackError{SongID: song.ID, Err: err}
		c.report(perr)
		return perr
	}
	c.res = res
	volume := c.volume
	c.mu.Unlock()

	c.applyVolume(res, volume)
	logger.Debug("Song selected", logger.String("songId", song.ID), logger.String("name", song.Name))
	return nil
}

// applyVolume pushes v to res and repeats until it matches the controller,
// so a SetVolume that lands in between is not overwritten.
func (c *Controller) applyVolume(res Resource, v float64) {
	for {
		res.SetVolume(v)

		c.mu.Lock()
		if c.res != res || c.volume == v {
			c.mu.Unlock()
			return
		}
		v = c.volume
		c.mu.Unlock()
	}
}

// OnMetadataReady records the duration reported by the current resource.
func (c *Controller) OnMetadataReady(tag Tag, duration float64) {
	c.mu.Lock()
	if tag != c.tag || c.state == Empty {
		c.mu.Unlock()
		return
	}
	c.duration = finite(duration)
	c.progress = fraction(c.currentTime, c.duration)
	c.unlockAndNotify()
}

// OnTimeUpdate recomputes progress while playing.
func (c *Controller) OnTimeUpdate(tag Tag, currentTime float64) {
	c.mu.Lock()
	if tag != c.tag || c.state != Playing {
		c.mu.Unlock()
		return
	}
	c.currentTime = finite(currentTime)
	c.progress = fraction(c.currentTime, c.duration)
	c.unlockAndNotify()
}

// OnEnded moves a playing song to Paused at its end.
func (c *Controller) OnEnded(tag Tag) {
	c.mu.Lock()
	if tag != c.tag || c.state != Playing {
		c.mu.Unlock()
		return
	}
	c.state = Paused
	if c.duration > 0 {
		c.currentTime = c.duration
	}
	c.progress = 1
	c.unlockAndNotify()
}

// TogglePlayPause starts playback from Loaded or Paused and pauses from
// Playing. It does nothing in Empty. If the resource refuses to play, the
// controller returns to the state it was in and the *PlaybackError is both
// reported and returned.
func (c *Controller) TogglePlayPause() error {
	c.mu.Lock()
	switch c.state {
	case Empty:
		c.mu.Unlock()
		return nil

	case Playing:
		c.state = Paused
		res := c.res
		c.unlockAndNotify()
		if res != nil {
			res.Pause()
		}
		return nil
	}

	prev := c.state
	prevTime, prevProgress := c.currentTime, c.progress
	tag := c.tag
	res := c.res
	restart := prev == Paused && c.progress >= 1
	if restart {
		// 播完后重新播放从头开始
		c.currentTime = 0
		c.progress = 0
	}
	c.state = Playing
	c.unlockAndNotify()

	var err error
	if res == nil {
		err = ErrNoResource
	} else {
		if restart {
			res.SetPosition(0)
		}
		err = res.Play()
	}
	if err == nil {
		return nil
	}

	c.mu.Lock()
	if c.tag == tag && c.state == Playing {
		c.state = prev
		c.currentTime = prevTime
		c.progress = prevProgress
	}
	c.unlockAndNotify()

	perr := &PlaybackError{SongID: tag.SongID, Err: err}
	c.report(perr)
	return perr
}

// Seek maps a click at offset on a progress track of the given width to a
// position in the song.
func (c *Controller) Seek(offset, width float64) error {
	if width <= 0 {
		return nil
	}
	c.mu.Lock()
	duration := c.duration
	c.mu.Unlock()
	return c.SeekTo(clamp01(offset/width) * duration)
}

// SeekTo moves playback to seconds, clamped to the known duration.
func (c *Controller) SeekTo(seconds float64) error {
	c.mu.Lock()
	if c.state == Empty {
		c.mu.Unlock()
		return ErrNoSong
	}
	target := finite(seconds)
	if c.duration > 0 && target > c.duration {
		target = c.duration
	}
	c.currentTime = target
	c.progress = fraction(target, c.duration)
	res := c.res
	c.unlockAndNotify()

	if res != nil {
		res.SetPosition(target)
	}
	return nil
}

// SetVolume clamps v to [0,1]; a volume of 0 means muted.
func (c *Controller) SetVolume(v float64) {
	v = clamp01(v)
	c.mu.Lock()
	c.volume = v
	c.muted = v == 0
	if v > 0 {
		c.lastAudible = v
	}
	res := c.res
	c.unlockAndNotify()

	if res != nil {
		res.SetVolume(v)
	}
}

// ToggleMute mutes, remembering the current volume, or restores it.
func (c *Controller) ToggleMute() {
	c.mu.Lock()
	if c.muted {
		c.volume = c.lastAudible
		if c.volume == 0 {
			c.volume = defaultVolume
		}
		c.muted = false
	} else {
		if c.volume > 0 {
			c.lastAudible = c.volume
		}
		c.volume = 0
		c.muted = true
	}
	v := c.volume
	res := c.res
	c.unlockAndNotify()

	if res != nil {
		res.SetVolume(v)
	}
}

// Close releases the bound resource and returns to Empty.
func (c *Controller) Close() error {
	c.mu.Lock()
	c.seq++
	c.tag = Tag{Seq: c.seq}
	res := c.res
	c.res = nil
	c.song = nil
	c.state = Empty
	c.progress = 0
	c.currentTime = 0
	c.duration = 0
	c.unlockAndNotify()

	if res != nil {
		return res.Close()
	}
	return nil
}
