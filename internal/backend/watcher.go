package backend

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/lovebrew/nestdbg/internal/logging/events"
	"github.com/lovebrew/nestdbg/internal/registry"
)

// DefaultDebounce is how long the registry file must stay quiet before it is
// re-read.
const DefaultDebounce = 150 * time.Millisecond

// Kind represents the type of data emitted by the backend watcher.
type Kind int

const (
	KindRegistry Kind = iota
)

// Event conveys updated data or an error from the watcher. For KindRegistry,
// Data holds the reloaded []registry.Target.
type Event struct {
	Kind Kind
	Data interface{}
	Err  error
}

// Targets returns the reloaded registry list carried by a KindRegistry event.
func (e Event) Targets() []registry.Target {
	targets, _ := e.Data.([]registry.Target)
	return targets
}

// Watcher re-reads the registry file whenever it changes on disk and
// publishes the result.
type Watcher struct {
	path     string
	debounce time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	fs     *fsnotify.Watcher
	events chan Event
	wg     sync.WaitGroup
}

// NewWatcher starts watching the registry file at path. The parent directory
// is watched, not the file, so editors that save by rename are picked up and
// the file may be created after the watcher starts.
func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("start file watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:     filepath.Clean(path),
		debounce: debounce,
		ctx:      ctx,
		cancel:   cancel,
		fs:       fw,
		events:   make(chan Event, 16),
	}
	w.wg.Add(1)
	go w.loop()

	go func() {
		w.wg.Wait()
		close(w.events)
	}()
	return w, nil
}

// Events returns a channel of backend events. It is closed after Stop once
// the loop has exited.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop cancels the watcher.
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until the loop has exited and the events channel is closed.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	defer w.fs.Close()

	pending := newDebounce(w.debounce)
	defer pending.stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove) {
				pending.trigger()
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			if !w.emit(Event{Kind: KindRegistry, Err: fmt.Errorf("watch registry: %w", err)}) {
				return
			}
		case <-pending.C():
			if !w.emit(w.reload()) {
				return
			}
		}
	}
}

func (w *Watcher) reload() Event {
	reg, err := registry.Load(w.path)
	if err != nil {
		events.Registry.Reload(w.path, 0, err)
		return Event{Kind: KindRegistry, Err: err}
	}
	targets := reg.Targets()
	events.Registry.Reload(w.path, len(targets), nil)
	return Event{Kind: KindRegistry, Data: targets}
}

func (w *Watcher) emit(evt Event) bool {
	select {
	case <-w.ctx.Done():
		return false
	case w.events <- evt:
		return true
	}
}
