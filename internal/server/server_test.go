package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"euclidean-graph/internal/builder"
	"euclidean-graph/internal/config"
	"euclidean-graph/internal/export"
	"euclidean-graph/internal/graph"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return New(config.Default(), log.New(io.Discard))
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["hasGraph"])
	assert.Equal(t, "waiting for graph", body["status"])
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCurrentWithoutGraph(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/graphs/current", "/graphs/current/lines", "/graphs/current/svg", "/graphs/current/geojson"} {
		t.Run(path, func(t *testing.T) {
			assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, path, "").Code)
		})
	}
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodPost, "/graphs/current/select", `{"x":1,"y":1}`).Code)
}

func TestBuildLifecycle(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/graphs", `{"seed": 7}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var built BuildResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &built))
	assert.NotEmpty(t, built.ID)
	assert.Equal(t, int64(7), built.Seed)
	assert.Equal(t, built.Stats.Vertices, built.NumVertices)
	assert.Equal(t, built.Stats.Edges, built.NumEdges)

	want, _, err := builder.Generate(config.Default(), 7)
	require.NoError(t, err)
	assert.Equal(t, want.VertexCount(), built.NumVertices)
	assert.Equal(t, want.EdgeCount(), built.NumEdges)

	t.Run("conflict without force", func(t *testing.T) {
		assert.Equal(t, http.StatusConflict, do(t, s, http.MethodPost, "/graphs", `{"seed": 8}`).Code)
	})

	t.Run("document", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/graphs/current", "")
		require.Equal(t, http.StatusOK, rec.Code)
		doc, err := export.ReadJSON(rec.Body)
		require.NoError(t, err)
		assert.Equal(t, built.ID, doc.ID)
		g, err := doc.Graph()
		require.NoError(t, err)
		assert.Equal(t, built.NumEdges, g.EdgeCount())
	})

	t.Run("lines", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/graphs/current/lines", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Lines    []json.RawMessage `json:"lines"`
			NumEdges int               `json:"numEdges"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Len(t, body.Lines, built.NumEdges)
		assert.Equal(t, built.NumEdges, body.NumEdges)
	})

	t.Run("svg", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/graphs/current/svg", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), "<svg")
	})

	t.Run("geojson", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/graphs/current/geojson", "")
		require.Equal(t, http.StatusOK, rec.Code)
		g, err := export.UnmarshalGeoJSON(rec.Body.Bytes())
		require.NoError(t, err)
		assert.Equal(t, built.NumVertices, g.VertexCount())
	})

	t.Run("force rebuild", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/graphs", `{"seed": 8, "force": true}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		var again BuildResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &again))
		assert.NotEqual(t, built.ID, again.ID)
	})

	t.Run("health reports graph", func(t *testing.T) {
		var body map[string]any
		require.NoError(t, json.Unmarshal(do(t, s, http.MethodGet, "/health", "").Body.Bytes(), &body))
		assert.Equal(t, true, body["hasGraph"])
		assert.Equal(t, "ready", body["status"])
	})
}

func TestBuildConfigOverrides(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/graphs", `{"seed": 3, "config": {"minVertices": 10, "maxVertices": 10}}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var built BuildResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &built))
	assert.Equal(t, 10, built.Stats.TargetVertices)

	rec = do(t, s, http.MethodPost, "/graphs", `{"force": true, "config": {"minVertices": 0}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/graphs", `{"force": true, "config": {"intersection": "fuzzy"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/graphs", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSelect(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, do(t, s, http.MethodPost, "/graphs", `{"seed": 11}`).Code)

	rec := do(t, s, http.MethodPost, "/graphs/current/select", `{"x": 500, "y": 500}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var sel SelectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sel))
	require.NotEmpty(t, sel.Edges)

	theme := config.Default().Theme
	s.mu.RLock()
	g := s.cur.g
	s.mu.RUnlock()

	assert.Equal(t, graph.Color(theme.SelectedVertex), g.Vertex(sel.Index).Color())
	selected := make(map[int]bool, len(sel.Edges))
	for _, h := range sel.Edges {
		selected[h] = true
	}
	for h, e := range g.Edges() {
		if selected[h] {
			assert.Equal(t, graph.Color(theme.SelectedEdge), e.Color())
		} else {
			assert.Equal(t, graph.Color(theme.Edge), e.Color())
		}
	}
	require.NoError(t, g.Validate())
}

func TestLoad(t *testing.T) {
	g, _, err := builder.Generate(config.Default(), 5)
	require.NoError(t, err)
	doc := export.NewDocument(g)
	doc.ID = "saved"
	path := filepath.Join(t.TempDir(), "graph.json")
	require.NoError(t, export.SaveFile(path, doc))

	s := newTestServer(t)
	require.NoError(t, s.Load(path))

	rec := do(t, s, http.MethodGet, "/graphs/current", "")
	require.Equal(t, http.StatusOK, rec.Code)
	loaded, err := export.ReadJSON(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, "saved", loaded.ID)
	assert.Len(t, loaded.Edges, g.EdgeCount())

	assert.Error(t, s.Load(filepath.Join(t.TempDir(), "missing.json")))
}

func TestPreflight(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodOptions, "/graphs", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodGet, "/health", "")

	rec := do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.Contains(rec.Body.Bytes(), []byte("euclidgraph_http_requests_total")))
}

func TestConcurrentBuildsCreateOnce(t *testing.T) {
	s := newTestServer(t)

	const n = 8
	codes := make([]int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			codes[i] = do(t, s, http.MethodPost, "/graphs", `{"seed":1}`).Code
		}()
	}
	wg.Wait()

	created, conflicts := 0, 0
	for _, code := range codes {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicts++
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, n-1, conflicts)
}

// brokenWriter accepts headers but fails every body write.
type brokenWriter struct {
	header http.Header
	status int
}

func (w *brokenWriter) Header() http.Header { return w.header }

func (w *brokenWriter) WriteHeader(status int) { w.status = status }

func (w *brokenWriter) Write([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestWriteFailuresAreLogged(t *testing.T) {
	var logs bytes.Buffer
	s := New(config.Default(), log.New(&logs))
	require.Equal(t, http.StatusCreated, do(t, s, http.MethodPost, "/graphs", `{"seed":3}`).Code)

	for _, path := range []string{"/graphs/current", "/graphs/current/geojson"} {
		t.Run(path, func(t *testing.T) {
			logs.Reset()
			w := &brokenWriter{header: http.Header{}}
			s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

			assert.Equal(t, http.StatusOK, w.status)
			assert.Contains(t, logs.String(), "Failed to write response")
			assert.Contains(t, logs.String(), "connection reset")
		})
	}
}
