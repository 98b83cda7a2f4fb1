package shell

import (
	"sort"
	"sync"

	"Tunebox/model"
)

// SongSelected is published when the user picks a song to play.
type SongSelected struct {
	Song model.Song
}

// Bus delivers SongSelected notifications to registered observers.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(SongSelected)
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]func(SongSelected))}
}

// Subscribe registers fn and returns a function that removes it.
func (b *Bus) Subscribe(fn func(SongSelected)) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Publish calls every observer in registration order. Observers run on the
// caller's goroutine after the bus lock is released.
func (b *Bus) Publish(ev SongSelected) {
	b.mu.RLock()
	ids := make([]int, 0, len(b.subs))
	for id := range b.subs {
		ids = append(ids, id)
	}
	b.mu.RUnlock()

	sort.Ints(ids)
	for _, id := range ids {
		b.mu.RLock()
		fn, ok := b.subs[id]
		b.mu.RUnlock()
		if ok {
			fn(ev)
		}
	}
}
