package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"euclidean-graph/internal/builder"
	"euclidean-graph/internal/config"
	"euclidean-graph/internal/export"
	"euclidean-graph/internal/geometry"
	"euclidean-graph/internal/graph"
)

// BuildRequest is the body of POST /graphs. Config holds overrides applied
// on top of the server configuration.
type BuildRequest struct {
	Seed   int64           `json:"seed,omitempty"`
	Config json.RawMessage `json:"config,omitempty"`
	Force  bool            `json:"force,omitempty"`
}

// BuildResponse describes a freshly built graph.
type BuildResponse struct {
	ID          string        `json:"id"`
	Seed        int64         `json:"seed"`
	NumVertices int           `json:"numVertices"`
	NumEdges    int           `json:"numEdges"`
	Stats       builder.Stats `json:"stats"`
}

// SelectRequest is the body of POST /graphs/current/select.
type SelectRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// SelectResponse names the selected vertex and its incident edges.
type SelectResponse struct {
	Index    int     `json:"index"`
	X        int     `json:"x"`
	Y        int     `json:"y"`
	Distance float64 `json:"distance"`
	Edges    []int   `json:"edges"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to write response", "status", status, "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// GET /health - Health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	hasGraph := s.cur != nil
	numVertices := 0
	if hasGraph {
		numVertices = s.cur.g.VertexCount()
	}
	s.mu.RUnlock()

	status := "ready"
	if !hasGraph {
		status = "waiting for graph"
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":      status,
		"hasGraph":    hasGraph,
		"numVertices": numVertices,
	})
}

// POST /graphs - Generate a new current graph
func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	var req BuildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	s.mu.RLock()
	alreadyExists := s.cur != nil
	s.mu.RUnlock()

	if alreadyExists && !req.Force {
		s.writeJSON(w, http.StatusConflict, map[string]any{
			"error":   "graph already exists",
			"message": "Set 'force: true' to rebuild.",
		})
		return
	}

	cfg := s.cfg
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid config overrides")
			return
		}
	}

	c, err := s.build(cfg, req.Seed)
	if err != nil {
		if errors.Is(err, config.ErrInvalidConfig) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("Build failed", "err", err)
		s.writeError(w, http.StatusInternalServerError, "build failed")
		return
	}

	s.writeJSON(w, http.StatusCreated, BuildResponse{
		ID:          c.id,
		Seed:        c.seed,
		NumVertices: c.g.VertexCount(),
		NumEdges:    c.g.EdgeCount(),
		Stats:       c.stats,
	})
}

// withCurrent runs fn under the read lock, or answers 404 without a graph.
func (s *Server) withCurrent(w http.ResponseWriter, fn func(c *current)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cur == nil {
		s.writeError(w, http.StatusNotFound, ErrNoGraph.Error())
		return
	}
	fn(s.cur)
}

// GET /graphs/current - Full graph document
func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	s.withCurrent(w, func(c *current) {
		doc := export.NewDocument(c.g)
		doc.ID = c.id
		doc.Seed = c.seed
		cfg := c.cfg
		doc.Config = &cfg
		s.writeJSON(w, http.StatusOK, doc)
	})
}

// GET /graphs/current/lines - Graph edges as segments for visualization
func (s *Server) handleLines(w http.ResponseWriter, r *http.Request) {
	s.withCurrent(w, func(c *current) {
		lines := c.g.Lines()
		s.writeJSON(w, http.StatusOK, map[string]any{
			"lines":       lines,
			"numVertices": c.g.VertexCount(),
			"numEdges":    len(lines),
		})
	})
}

// GET /graphs/current/svg - Rendered drawing
func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	s.withCurrent(w, func(c *current) {
		w.Header().Set("Content-Type", "image/svg+xml")
		export.WriteSVG(w, c.g, c.cfg)
	})
}

// GET /graphs/current/geojson - GeoJSON feature collection
func (s *Server) handleGeoJSON(w http.ResponseWriter, r *http.Request) {
	s.withCurrent(w, func(c *current) {
		data, err := export.MarshalGeoJSON(c.g)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/geo+json")
		if _, err := w.Write(data); err != nil {
			s.logger.Error("Failed to write response", "err", err)
		}
	})
}

// POST /graphs/current/select - Highlight the vertex nearest to a point
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur == nil {
		s.writeError(w, http.StatusNotFound, ErrNoGraph.Error())
		return
	}

	g, theme := s.cur.g, s.cur.cfg.Theme
	idx, dist := g.NearestVertex(geometry.Point{X: req.X, Y: req.Y})
	if idx < 0 {
		s.writeError(w, http.StatusNotFound, "graph has no vertices")
		return
	}

	g.Paint(graph.Color(theme.Vertex), graph.Color(theme.Edge))
	v := g.Vertex(idx)
	v.SetColor(graph.Color(theme.SelectedVertex))
	handles := v.EdgeHandles()
	for _, h := range handles {
		g.SetEdgeColor(h, graph.Color(theme.SelectedEdge))
	}

	s.writeJSON(w, http.StatusOK, SelectResponse{
		Index:    idx,
		X:        v.X(),
		Y:        v.Y(),
		Distance: dist,
		Edges:    handles,
	})
}
