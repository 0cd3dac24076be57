package watch

import (
	"log"
	"os"
	"sync"
	"time"

	"github.com/mdgraph/mdgraph/internal/cache"
	"github.com/mdgraph/mdgraph/internal/delta"
	"github.com/mdgraph/mdgraph/internal/metrics"
	"github.com/mdgraph/mdgraph/internal/scan"
)

// Config holds pipeline configuration.
type Config struct {
	// Debounce is how long a path must stay quiet before its pending
	// notification is processed. Repeated notifications for the same path
	// within the window coalesce into one logical event.
	Debounce time.Duration

	// EventBuffer is the capacity of the outgoing event channel.
	EventBuffer int

	// Logger for pipeline activity.
	Logger *log.Logger
}

// DefaultConfig returns sensible defaults. The 300ms debounce window is a
// fixed trade-off between responsiveness and duplicate work on a single
// logical edit, such as an editor's atomic save showing up as
// delete+create.
func DefaultConfig() *Config {
	return &Config{
		Debounce:    300 * time.Millisecond,
		EventBuffer: 256,
		Logger:      log.New(os.Stderr, "[watch] ", log.LstdFlags),
	}
}

// Pipeline drives the incremental graph sync: it debounces raw filesystem
// notifications, classifies each as create/modify/delete, runs the delta
// engine against the shared cache, and emits the flattened change events.
//
// A single background worker drains the debounced queue sequentially. The
// cache mutex is held for each full read-compute-commit sequence, so two
// events are never interleaved against the same cache state.
type Pipeline struct {
	root    string
	cache   *cache.Cache
	cacheMu sync.Mutex
	config  *Config

	watcher *Watcher

	pending   map[string]time.Time
	pendingMu sync.Mutex

	out  chan delta.Event
	done chan struct{}
	wg   sync.WaitGroup

	mu      sync.Mutex
	running bool
}

// New creates a pipeline over root using the given pre-seeded cache.
func New(root string, c *cache.Cache, config *Config) (*Pipeline, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Logger == nil {
		config.Logger = log.New(os.Stderr, "[watch] ", log.LstdFlags)
	}

	watcher, err := NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		root:    root,
		cache:   c,
		config:  config,
		watcher: watcher,
		pending: make(map[string]time.Time),
		out:     make(chan delta.Event, config.EventBuffer),
		done:    make(chan struct{}),
	}, nil
}

// Start begins watching and processing. Events become available on
// Events() until Stop is called.
func (p *Pipeline) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return nil
	}
	if err := p.watcher.Start(p.root); err != nil {
		return err
	}
	p.config.Logger.Printf("Watching: %s", p.root)

	p.running = true
	p.wg.Add(2)
	go p.collect()
	go p.drain()
	return nil
}

// Stop shuts the pipeline down and closes the event channel.
func (p *Pipeline) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.mu.Unlock()

	close(p.done)
	if err := p.watcher.Stop(); err != nil {
		p.config.Logger.Printf("Error stopping watcher: %v", err)
	}
	p.wg.Wait()
	close(p.out)

	p.config.Logger.Println("Pipeline stopped")
}

// Events returns the ordered stream of graph change events. The channel is
// closed when the pipeline stops.
func (p *Pipeline) Events() <-chan delta.Event {
	return p.out
}

// collect queues debounced notifications from the watcher.
func (p *Pipeline) collect() {
	defer p.wg.Done()

	for {
		select {
		case <-p.done:
			return

		case path, ok := <-p.watcher.Events():
			if !ok {
				return
			}
			p.pendingMu.Lock()
			p.pending[path] = time.Now()
			p.pendingMu.Unlock()

		case err, ok := <-p.watcher.Errors():
			if !ok {
				return
			}
			p.config.Logger.Printf("Watcher error: %v", err)
		}
	}
}

// drain is the single worker that processes paths whose debounce window has
// elapsed.
func (p *Pipeline) drain() {
	defer p.wg.Done()

	tick := p.config.Debounce / 4
	if tick <= 0 {
		tick = time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-p.done:
			return

		case <-ticker.C:
			for _, path := range p.takeReady() {
				p.process(path)
			}
		}
	}
}

// takeReady removes and returns pending paths whose debounce window has
// elapsed.
func (p *Pipeline) takeReady() []string {
	p.pendingMu.Lock()
	defer p.pendingMu.Unlock()

	now := time.Now()
	var ready []string
	for path, queuedAt := range p.pending {
		if now.Sub(queuedAt) < p.config.Debounce {
			continue
		}
		ready = append(ready, path)
		delete(p.pending, path)
	}
	return ready
}

// process classifies one debounced path and runs the matching delta
// handler under the cache lock.
func (p *Pipeline) process(path string) {
	id := scan.Stem(path)
	_, statErr := os.Stat(path)
	exists := statErr == nil

	var (
		d   *delta.Delta
		err error
		op  string
	)

	p.cacheMu.Lock()
	switch {
	case !exists:
		op = "delete"
		d, err = delta.OnDelete(path, p.cache)
	case p.cache.HasDocument(id):
		op = "modify"
		d, err = delta.OnModify(path, p.cache)
	default:
		op = "create"
		d, err = delta.OnCreate(path, p.cache)
	}
	p.cacheMu.Unlock()

	metrics.WatchEvents.WithLabelValues(op).Inc()

	if err != nil {
		// Skip the event; the cache is untouched and later events proceed.
		p.config.Logger.Printf("Error processing %s %s: %v", op, path, err)
		metrics.WatchErrors.Inc()
		return
	}
	if d.IsEmpty() {
		return
	}

	p.config.Logger.Printf("Delta for %s %s: +%dn -%dn +%de -%de",
		op, path, len(d.NodesAdded), len(d.NodesRemoved), len(d.EdgesAdded), len(d.EdgesRemoved))
	metrics.DeltasEmitted.Inc()

	for _, ev := range d.Events() {
		select {
		case p.out <- ev:
		case <-p.done:
			return
		}
	}
}
