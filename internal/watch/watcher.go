package watch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher wraps fsnotify with recursive directory coverage and markdown
// filtering. fsnotify itself is non-recursive, so every subdirectory under
// the root is added explicitly, including directories created while
// watching.
type Watcher struct {
	fsw    *fsnotify.Watcher
	events chan string
	errors chan error
	done   chan struct{}
	wg     sync.WaitGroup

	mu      sync.Mutex
	running bool
	root    string
}

// NewWatcher creates a new Watcher. It must be started with Start before it
// emits events.
func NewWatcher() (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	return &Watcher{
		fsw:    fsw,
		events: make(chan string, 100),
		errors: make(chan error, 10),
		done:   make(chan struct{}),
	}, nil
}

// Start begins watching root and all of its subdirectories. Emitted events
// are paths of .md files that changed in any way; classification is the
// pipeline's job.
func (w *Watcher) Start(root string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("watcher already running")
	}
	w.root = root

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.fsw.Add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", root, err)
	}

	w.running = true
	w.wg.Add(1)
	go w.loop()
	return nil
}

// Stop shuts the watcher down and closes its channels. It blocks until the
// event loop has exited.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.mu.Unlock()

	close(w.done)
	if err := w.fsw.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	w.wg.Wait()

	close(w.events)
	close(w.errors)
	return nil
}

// Events returns the channel of changed markdown file paths. Closed when
// the watcher stops.
func (w *Watcher) Events() <-chan string {
	return w.events
}

// Errors returns the channel of watcher errors. Closed when the watcher
// stops.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// IsRunning reports whether the watcher is currently active.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if path, ok := w.convert(event); ok {
				select {
				case w.events <- path:
				case <-w.done:
					return
				}
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			case <-w.done:
				return
			}
		}
	}
}

// convert filters a raw fsnotify event down to a markdown file path worth
// processing, and extends the watch to newly created directories.
func (w *Watcher) convert(event fsnotify.Event) (string, bool) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			// Best effort; a failure here only means changes in the new
			// directory go unseen until a rescan.
			_ = w.fsw.Add(event.Name)
			return "", false
		}
	}

	if filepath.Ext(event.Name) != ".md" {
		return "", false
	}

	// Rename is observed as the old path disappearing; the new path will
	// arrive as a separate create event.
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return "", false
	}

	return event.Name, true
}
