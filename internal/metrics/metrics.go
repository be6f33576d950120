// Package metrics registers the Prometheus collectors of the graph service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts requests by method, route pattern and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "euclidgraph_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures response time.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "euclidgraph_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	// GraphsBuilt counts finished builds by how edge placement stopped.
	GraphsBuilt = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "euclidgraph_graphs_built_total",
			Help: "Total number of generated graphs by termination reason",
		},
		[]string{"termination"},
	)

	// BuildDuration measures a full place-vertices, place-edges, prune run.
	BuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "euclidgraph_build_duration_seconds",
			Help:    "Duration of graph generation in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		},
	)

	// PrunedVertices observes how many placed vertices never got an edge.
	PrunedVertices = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "euclidgraph_pruned_vertices",
			Help:    "Number of vertices removed by pruning per build",
			Buckets: prometheus.LinearBuckets(0, 10, 10),
		},
	)

	// CurrentVertices and CurrentEdges describe the graph held by the server.
	CurrentVertices = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "euclidgraph_current_vertices",
		Help: "Vertex count of the current graph",
	})
	CurrentEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "euclidgraph_current_edges",
		Help: "Edge count of the current graph",
	})
)

// ObserveBuild records one finished build.
func ObserveBuild(termination string, pruned int, d time.Duration) {
	GraphsBuilt.WithLabelValues(termination).Inc()
	BuildDuration.Observe(d.Seconds())
	PrunedVertices.Observe(float64(pruned))
}
