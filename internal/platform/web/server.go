// Package web serves the game to browsers: an embedded canvas page and a
// websocket per player. The simulation runs on the server; the page only
// sends inputs and draws the snapshots it receives.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/flapper/internal/config"
	"github.com/vovakirdan/flapper/internal/storage"
)

//go:embed static
var staticFiles embed.FS

// Config holds configuration for the web server.
type Config struct {
	Address  string
	TickRate int   // Frames per second of every connection's session
	Seed     int64 // Seed for the first run of each connection, 0 means derive from the clock
	Game     config.FlappyConfig
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Address:  ":8080",
		TickRate: 60,
		Game:     config.DefaultFlappyConfig(),
	}
}

// Server owns the HTTP handlers and the live player connections.
type Server struct {
	config   Config
	journal  *storage.Store
	logger   *log.Logger
	upgrader websocket.Upgrader

	// ctx is cancelled by Close and ends every connection.
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer creates a server. journal may be nil.
func NewServer(cfg Config, journal *storage.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		config:   cfg,
		journal:  journal,
		logger:   logger,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Handler returns the routes: the page at / and the websocket at /ws.
func (s *Server) Handler() http.Handler {
	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err) // embedded directory is fixed at build time
	}

	mux := http.NewServeMux()
	mux.Handle("GET /", http.FileServerFS(static))
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

// handleWS upgrades the request and plays one session over it until the socket closes.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}

	id := uuid.NewString()
	logger := s.logger.With("conn", id)
	logger.Info("player connected", "remote", r.RemoteAddr)

	s.wg.Add(1)
	defer s.wg.Done()

	c := newConn(ws, s.newSeeds(), s.config, s.journal, logger)
	c.serve(s.ctx)
	logger.Info("player disconnected")
}

// newSeeds returns the per-run seed source of one connection.
func (s *Server) newSeeds() func() int64 {
	seed := s.config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	first := true
	return func() int64 {
		if first {
			first = false
			return seed
		}
		return rng.Int63()
	}
}

// Close ends every live connection and waits for them to finish.
func (s *Server) Close() {
	s.cancel()
	s.wg.Wait()
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting web server", "address", s.config.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.Close()
		if err != nil {
			return fmt.Errorf("web: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Hijacked websocket connections are not tracked by Shutdown
	s.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("web: shutdown: %w", err)
	}
	return nil
}
