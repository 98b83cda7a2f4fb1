package player

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"Tunebox/model"
)

// ClockResource is a headless Resource: it verifies the song's stream URL on
// first Play and then advances a clock, reporting time updates on a ticker.
// Metadata comes from the duration stored with the song.
type ClockResource struct {
	song     model.Song
	tag      Tag
	sink     Sink
	client   *http.Client
	interval time.Duration

	mu       sync.Mutex
	playing  bool
	checked  bool
	position float64
	volume   float64
	lastTick time.Time

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewClockOpener returns an Opener producing ClockResources that tick every
// interval. A nil client uses http.DefaultClient.
func NewClockOpener(client *http.Client, interval time.Duration) Opener {
	if client == nil {
		client = http.DefaultClient
	}
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	return OpenerFunc(func(song model.Song, tag Tag, sink Sink) (Resource, error) {
		if song.File == "" {
			return nil, errors.New("song has no audio file")
		}
		r := &ClockResource{
			song:     song,
			tag:      tag,
			sink:     sink,
			client:   client,
			interval: interval,
			stop:     make(chan struct{}),
			done:     make(chan struct{}),
		}
		go r.run()
		return r, nil
	})
}

func (r *ClockResource) run() {
	defer close(r.done)

	if r.song.Duration > 0 {
		r.sink.OnMetadataReady(r.tag, r.song.Duration)
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case now := <-ticker.C:
			pos, ended, active := r.advance(now)
			if !active {
				continue
			}
			// 回调时不持有自身的锁
			r.sink.OnTimeUpdate(r.tag, pos)
			if ended {
				r.sink.OnEnded(r.tag)
			}
		}
	}
}

func (r *ClockResource) advance(now time.Time) (pos float64, ended, active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.playing {
		return r.position, false, false
	}
	r.position += now.Sub(r.lastTick).Seconds()
	r.lastTick = now
	if d := r.song.Duration; d > 0 && r.position >= d {
		r.position = d
		r.playing = false
		ended = true
	}
	return r.position, ended, true
}

func (r *ClockResource) check() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, r.song.File, nil)
	if err != nil {
		return err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("stream %s answered %s", r.song.File, resp.Status)
	}
	return nil
}

func (r *ClockResource) Play() error {
	r.mu.Lock()
	checked := r.checked
	r.mu.Unlock()

	if !checked {
		if err := r.check(); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.checked = true
	if d := r.song.Duration; d > 0 && r.position >= d {
		r.position = 0
	}
	r.playing = true
	r.lastTick = time.Now()
	return nil
}

func (r *ClockResource) Pause() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.playing {
		r.position += time.Since(r.lastTick).Seconds()
	}
	r.playing = false
}

func (r *ClockResource) SetPosition(seconds float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.position = finite(seconds)
	r.lastTick = time.Now()
}

func (r *ClockResource) SetVolume(volume float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.volume = volume
}

// Volume returns the last volume applied to the resource.
func (r *ClockResource) Volume() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.volume
}

func (r *ClockResource) Close() error {
	r.closeOnce.Do(func() { close(r.stop) })
	<-r.done
	return nil
}
