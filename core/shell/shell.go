package shell

import (
	"context"
	"fmt"
	"sync"

	"Tunebox/core/catalog"
	"Tunebox/core/editor"
	"Tunebox/core/player"
	"Tunebox/logger"
	"Tunebox/model"
)

// View is the screen currently shown by the shell.
type View int

const (
	Home View = iota
	Playlists
)

func (v View) String() string {
	switch v {
	case Home:
		return "home"
	case Playlists:
		return "playlists"
	}
	return "unknown"
}

// ParseView maps a view name to a View.
func ParseView(name string) (View, error) {
	switch name {
	case "home", "":
		return Home, nil
	case "playlists":
		return Playlists, nil
	}
	return Home, fmt.Errorf("unknown view %q", name)
}

// Notifier shows a message to the user.
type Notifier interface {
	Notify(msg string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(msg string)

func (f NotifierFunc) Notify(msg string) { f(msg) }

// Shell owns the selection bus and routes between views. The playback
// controller stays subscribed to the bus whichever view is active.
type Shell struct {
	mu   sync.RWMutex
	view View

	bus         *Bus
	catalog     *catalog.Service
	editor      *editor.Editor
	controller  *player.Controller
	notifier    Notifier
	unsubscribe func()
}

// New wires the controller to the bus and the editor and controller to the
// notifier.
func New(cat *catalog.Service, store editor.Mutator, opener player.Opener, notifier Notifier) *Shell {
	if notifier == nil {
		notifier = NotifierFunc(func(string) {})
	}
	s := &Shell{
		view:     Home,
		bus:      NewBus(),
		catalog:  cat,
		notifier: notifier,
	}
	s.editor = editor.New(store, notifier)
	s.controller = player.NewController(opener, player.WithErrorReporter(func(err error) {
		notifier.Notify(err.Error())
	}))
	s.unsubscribe = s.bus.Subscribe(func(ev SongSelected) {
		// 错误已经通过 reporter 通知用户
		_ = s.controller.SelectSong(ev.Song)
	})
	return s
}

func (s *Shell) Bus() *Bus                      { return s.bus }
func (s *Shell) Editor() *editor.Editor         { return s.editor }
func (s *Shell) Controller() *player.Controller { return s.controller }

// Navigate switches the active view.
func (s *Shell) Navigate(v View) {
	s.mu.Lock()
	s.view = v
	s.mu.Unlock()
	logger.Debug("Navigated", logger.String("view", v.String()))
}

func (s *Shell) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// Refresh reloads songs and playlists from the catalog into the editor.
// Failures are shown through the notifier and returned.
func (s *Shell) Refresh(ctx context.Context) ([]model.Song, error) {
	songs, err := s.catalog.ListSongs(ctx)
	if err != nil {
		s.notifier.Notify(fmt.Sprintf("Could not load songs: %v", err))
		return nil, err
	}
	playlists, err := s.catalog.ListPlaylists(ctx)
	if err != nil {
		s.notifier.Notify(fmt.Sprintf("Could not load playlists: %v", err))
		return nil, err
	}
	s.editor.SetSongs(songs)
	s.editor.SetPlaylists(playlists)
	return songs, nil
}

// SelectSong is the Home view action: it publishes the selection on the bus.
func (s *Shell) SelectSong(song model.Song) {
	s.bus.Publish(SongSelected{Song: song})
}

// Close detaches the controller from the bus and releases its resource.
func (s *Shell) Close() error {
	s.unsubscribe()
	return s.controller.Close()
}
