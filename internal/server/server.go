// Package server exposes graph generation over HTTP. The server holds one
// current graph; building a new one replaces it.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"euclidean-graph/internal/builder"
	"euclidean-graph/internal/config"
	"euclidean-graph/internal/export"
	"euclidean-graph/internal/graph"
	"euclidean-graph/internal/metrics"
)

// ErrNoGraph is returned when an operation needs a current graph.
var ErrNoGraph = errors.New("server: no graph built")

// current is the graph the server answers for.
type current struct {
	id    string
	seed  int64
	cfg   config.Config
	g     *graph.Graph
	stats builder.Stats
}

// Server serves the current graph.
type Server struct {
	cfg    config.Config
	logger *log.Logger

	mu  sync.RWMutex
	cur *current

	// buildMu serializes replacing the current graph, so the existence
	// check in handleBuild and the swap happen as one step.
	buildMu sync.Mutex

	router chi.Router
}

// New returns a server whose builds start from cfg.
func New(cfg config.Config, logger *log.Logger) *Server {
	s := &Server{cfg: cfg, logger: logger}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.corsMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.loggingMiddleware)

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/graphs", func(r chi.Router) {
		r.Post("/", s.handleBuild)
		r.Route("/current", func(r chi.Router) {
			r.Get("/", s.handleCurrent)
			r.Get("/lines", s.handleLines)
			r.Get("/svg", s.handleSVG)
			r.Get("/geojson", s.handleGeoJSON)
			r.Post("/select", s.handleSelect)
		})
	})
	return r
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler { return s.router }

// build generates a graph with cfg and seed and makes it current. A zero seed
// is replaced by the current time.
func (s *Server) build(cfg config.Config, seed int64) (*current, error) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g, stats, err := builder.Generate(cfg, seed, builder.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}
	metrics.ObserveBuild(string(stats.Termination), stats.Pruned, stats.Duration)

	g.Paint(graph.Color(cfg.Theme.Vertex), graph.Color(cfg.Theme.Edge))
	c := &current{id: uuid.NewString(), seed: seed, cfg: cfg, g: g, stats: stats}
	s.setCurrent(c)
	return c, nil
}

// Load reads a JSON document and makes it the current graph.
func (s *Server) Load(path string) error {
	doc, err := export.LoadFile(path)
	if err != nil {
		return err
	}
	g, err := doc.Graph()
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	cfg := s.cfg
	if doc.Config != nil {
		cfg = *doc.Config
	}
	id := doc.ID
	if id == "" {
		id = uuid.NewString()
	}
	s.buildMu.Lock()
	s.setCurrent(&current{id: id, seed: doc.Seed, cfg: cfg, g: g})
	s.buildMu.Unlock()
	s.logger.Info("Loaded graph", "path", path, "vertices", g.VertexCount(), "edges", g.EdgeCount())
	return nil
}

func (s *Server) setCurrent(c *current) {
	s.mu.Lock()
	s.cur = c
	s.mu.Unlock()

	metrics.CurrentVertices.Set(float64(c.g.VertexCount()))
	metrics.CurrentEdges.Set(float64(c.g.EdgeCount()))
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server starting", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("Server shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}
