package prefabs

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 100 * time.Millisecond

// Watcher reports edited spec and script files by base name on Events.
// Editors often emit several writes per save; repeats inside the debounce
// window are dropped.
type Watcher struct {
	watcher  *fsnotify.Watcher
	Events   chan string
	Errors   chan error
	closeCh  chan struct{}
	once     sync.Once
	debounce time.Duration
	log      *slog.Logger
}

func NewWatcher(logger *slog.Logger, dirs ...string) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher:  w,
		Events:   make(chan string, 16),
		Errors:   make(chan error, 1),
		closeCh:  make(chan struct{}),
		debounce: defaultDebounce,
		log:      logger.With("component", "prefabs"),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

// Drain returns every pending changed file without blocking. It is meant to
// be called once per frame from the game loop.
func (w *Watcher) Drain() []string {
	if w == nil {
		return nil
	}
	var names []string
	seen := make(map[string]bool)
	for {
		select {
		case name := <-w.Events:
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		case err := <-w.Errors:
			w.log.Warn("watch error", "err", err)
		default:
			return names
		}
	}
}

func (w *Watcher) run() {
	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !isSpecFile(event.Name) && !isScriptFile(event.Name) {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < w.debounce {
				continue
			}
			last[event.Name] = now
			name := filepath.Base(event.Name)
			select {
			case w.Events <- name:
			case <-w.closeCh:
				return
			default:
				w.log.Warn("dropping change, consumer is behind", "file", name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func isSpecFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func isScriptFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".tengo")
}

// Reloader routes changed file names to reload callbacks. A failed reload is
// logged and leaves the previous values in place.
type Reloader struct {
	handlers map[string]func() error
	log      *slog.Logger
}

func NewReloader(logger *slog.Logger) *Reloader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reloader{
		handlers: make(map[string]func() error),
		log:      logger.With("component", "prefabs"),
	}
}

func (r *Reloader) Handle(name string, fn func() error) {
	r.handlers[filepath.Base(name)] = fn
}

// Apply runs the handler of every known name and returns how many succeeded.
func (r *Reloader) Apply(names []string) int {
	ok := 0
	for _, name := range names {
		fn := r.handlers[filepath.Base(name)]
		if fn == nil {
			continue
		}
		if err := fn(); err != nil {
			r.log.Warn("reload failed", "file", name, "err", err)
			continue
		}
		r.log.Info("reloaded", "file", name)
		ok++
	}
	return ok
}
