// Package server provides the real-time surface toward visualization
// clients: a WebSocket stream of graph change events plus HTTP endpoints
// for full snapshots and note content.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mdgraph/mdgraph/internal/delta"
	"github.com/mdgraph/mdgraph/internal/graph"
	"github.com/mdgraph/mdgraph/internal/metrics"
)

// Config holds server configuration.
type Config struct {
	// Port to listen on (default: 8080). Port 0 picks a free port.
	Port int

	// Root is the vault directory served by /graph and /note.
	Root string

	// PreviewOffset is the number of leading lines skipped when serving
	// note content.
	PreviewOffset int

	// Logger for server activity (default: stderr logger).
	Logger *log.Logger
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:   8080,
		Logger: log.New(os.Stderr, "[server] ", log.LstdFlags),
	}
}

// Server broadcasts graph change events to connected WebSocket clients and
// answers snapshot and note queries over HTTP.
//
// The /graph endpoint rescans the vault from scratch on every request. It
// deliberately does not consult the watch pipeline's cache, so a manual
// snapshot and the live incremental view can diverge; reconciling the two
// is an accepted gap.
type Server struct {
	config   *Config
	addr     string
	listener net.Listener
	server   *http.Server

	clients   map[*websocket.Conn]bool
	clientsMu sync.RWMutex

	broadcast chan delta.Event

	// ctx spans the server's lifetime; connection reads hang off it so
	// they unwind on shutdown without per-connection bookkeeping.
	ctx    context.Context
	cancel context.CancelFunc

	done chan struct{}
	wg   sync.WaitGroup

	logger *log.Logger
}

// NewServer creates a new server.
func NewServer(config *Config) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Logger == nil {
		config.Logger = log.New(os.Stderr, "[server] ", log.LstdFlags)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		config:    config,
		addr:      fmt.Sprintf(":%d", config.Port),
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan delta.Event, 256),
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
		logger:    config.Logger,
	}
}

// Start begins the HTTP server and the broadcast loop.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.listener = ln

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/graph", s.handleGraph)
	mux.HandleFunc("/note/", s.handleNote)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	s.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	s.wg.Add(1)
	go s.broadcastLoop()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.logger.Printf("Listening on %s", ln.Addr())
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Printf("Server error: %v", err)
		}
	}()

	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop() error {
	s.logger.Println("Stopping server")

	close(s.done)
	s.cancel()

	s.clientsMu.Lock()
	for conn := range s.clients {
		_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
		delete(s.clients, conn)
	}
	metrics.ClientsConnected.Set(0)
	s.clientsMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.wg.Wait()
	s.logger.Println("Server stopped")
	return nil
}

// Publish queues an event for broadcast to all connected clients. When the
// buffer is full the event is dropped rather than blocking the watch
// worker.
func (s *Server) Publish(ev delta.Event) {
	select {
	case s.broadcast <- ev:
	case <-s.done:
	default:
		s.logger.Println("Warning: broadcast channel full, dropping event")
	}
}

// Relay publishes every event from the channel until it closes. Intended
// to run as a goroutine bridging the watch pipeline to the server.
func (s *Server) Relay(events <-chan delta.Event) {
	for ev := range events {
		s.Publish(ev)
	}
}

func (s *Server) broadcastLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.done:
			return

		case ev := <-s.broadcast:
			data, err := json.Marshal(ev)
			if err != nil {
				s.logger.Printf("Failed to marshal event: %v", err)
				continue
			}

			s.clientsMu.RLock()
			clients := make([]*websocket.Conn, 0, len(s.clients))
			for conn := range s.clients {
				clients = append(clients, conn)
			}
			s.clientsMu.RUnlock()

			for _, conn := range clients {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				err := conn.Write(ctx, websocket.MessageText, data)
				cancel()
				if err != nil {
					s.logger.Printf("Failed to send to client: %v", err)
					s.removeClient(conn)
				}
			}
		}
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		s.logger.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	s.clientsMu.Lock()
	s.clients[conn] = true
	clientCount := len(s.clients)
	s.clientsMu.Unlock()
	metrics.ClientsConnected.Set(float64(clientCount))

	s.logger.Printf("Client connected (total: %d)", clientCount)

	go s.readLoop(conn)
}

// readLoop keeps the connection alive and detects client disconnects.
// Client messages are not processed.
func (s *Server) readLoop(conn *websocket.Conn) {
	defer s.removeClient(conn)

	for {
		if _, _, err := conn.Read(s.ctx); err != nil {
			return
		}
	}
}

func (s *Server) removeClient(conn *websocket.Conn) {
	s.clientsMu.Lock()
	if _, exists := s.clients[conn]; exists {
		delete(s.clients, conn)
		clientCount := len(s.clients)
		s.clientsMu.Unlock()

		_ = conn.Close(websocket.StatusNormalClosure, "")
		metrics.ClientsConnected.Set(float64(clientCount))
		s.logger.Printf("Client disconnected (total: %d)", clientCount)
	} else {
		s.clientsMu.Unlock()
	}
}

// handleGraph serves a full snapshot built from a fresh scan of the vault.
func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	snap, err := graph.BuildFromDir(s.config.Root)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(snap)
}

// handleNote serves a note's raw content with the configured preview
// offset applied.
func (s *Server) handleNote(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/note/")
	if id == "" || strings.Contains(id, "/") || strings.Contains(id, "..") {
		http.Error(w, "invalid note id", http.StatusBadRequest)
		return
	}

	path := filepath.Join(s.config.Root, id+".md")
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, fmt.Sprintf("note does not exist: %s", id), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	lines := strings.Split(string(content), "\n")
	if s.config.PreviewOffset > 0 {
		if s.config.PreviewOffset >= len(lines) {
			lines = nil
		} else {
			lines = lines[s.config.PreviewOffset:]
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = fmt.Fprint(w, strings.Join(lines, "\n"))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.clientsMu.RLock()
	clientCount := len(s.clients)
	s.clientsMu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"clients": clientCount,
	})
}

// Addr returns the server's listening address.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// ClientCount returns the number of connected clients.
func (s *Server) ClientCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}
