// Package config holds the tunable policy of graph generation: canvas
// bounds, vertex count range, edge weight cap, density cap and the
// consecutive-failure limit, plus the display theme handed to renderers.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"euclidean-graph/internal/geometry"
)

var (
	// ErrInvalidConfig is wrapped by every validation failure.
	ErrInvalidConfig = errors.New("config: invalid configuration")

	// ErrUnsupportedFormat is returned for config files that are neither
	// TOML nor YAML.
	ErrUnsupportedFormat = errors.New("config: unsupported file format")
)

// Theme carries the colors used by rendering collaborators.
type Theme struct {
	Background     string `toml:"background" yaml:"background" json:"background"`
	Title          string `toml:"title" yaml:"title" json:"title"`
	Vertex         string `toml:"vertex" yaml:"vertex" json:"vertex"`
	SelectedVertex string `toml:"selected_vertex" yaml:"selected_vertex" json:"selectedVertex"`
	Edge           string `toml:"edge" yaml:"edge" json:"edge"`
	SelectedEdge   string `toml:"selected_edge" yaml:"selected_edge" json:"selectedEdge"`
}

// Config is the generation policy.
type Config struct {
	CanvasWidth  int `toml:"canvas_width" yaml:"canvas_width" json:"canvasWidth"`
	CanvasHeight int `toml:"canvas_height" yaml:"canvas_height" json:"canvasHeight"`
	// TitleBand is the height reserved at the top of the canvas; vertices
	// are placed with Y in [TitleBand, CanvasHeight).
	TitleBand int `toml:"title_band" yaml:"title_band" json:"titleBand"`

	// MinVertices and MaxVertices bound the target vertex count, inclusive.
	MinVertices int `toml:"min_vertices" yaml:"min_vertices" json:"minVertices"`
	MaxVertices int `toml:"max_vertices" yaml:"max_vertices" json:"maxVertices"`

	// MaxWeight is the exclusive upper bound on edge length.
	MaxWeight float64 `toml:"max_weight" yaml:"max_weight" json:"maxWeight"`
	// EdgeRatio caps committed edges at EdgeRatio times the placed vertex count.
	EdgeRatio float64 `toml:"edge_ratio" yaml:"edge_ratio" json:"edgeRatio"`
	// FailureLimit is the number of consecutive non-committing draws after
	// which edge placement gives up.
	FailureLimit int `toml:"failure_limit" yaml:"failure_limit" json:"failureLimit"`
	// Intersection selects the segment intersection policy ("bbox" or "exact").
	Intersection string `toml:"intersection" yaml:"intersection" json:"intersection"`

	Title string `toml:"title" yaml:"title" json:"title"`
	Theme Theme  `toml:"theme" yaml:"theme" json:"theme"`
}

// Default returns the reference configuration.
func Default() Config {
	return Config{
		CanvasWidth:  1000,
		CanvasHeight: 1000,
		TitleBand:    100,
		MinVertices:  50,
		MaxVertices:  99,
		MaxWeight:    200,
		EdgeRatio:    2,
		FailureLimit: 400,
		Intersection: string(geometry.PolicyBoundingBox),
		Title:        "Euclidean Graph",
		Theme: Theme{
			Background:     "black",
			Title:          "white",
			Vertex:         "white",
			SelectedVertex: "cyan",
			Edge:           "gray",
			SelectedEdge:   "magenta",
		},
	}
}

// Load reads a TOML or YAML file over the defaults. Unknown keys are errors.
// An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return cfg, fmt.Errorf("TOML syntax error in %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return cfg, fmt.Errorf("unknown keys in %s: %v: %w", path, undecoded, ErrInvalidConfig)
		}
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(strings.NewReader(string(data)))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("YAML syntax error in %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}

	return cfg, nil
}

// Policy returns the parsed intersection policy.
func (c Config) Policy() (geometry.Policy, error) {
	return geometry.ParsePolicy(c.Intersection)
}

// PlaceableCells is the number of distinct integer points a vertex may take.
func (c Config) PlaceableCells() int64 {
	return int64(c.CanvasWidth) * int64(c.CanvasHeight-c.TitleBand)
}

// Validate reports the first problem that would make generation meaningless
// or unbounded.
func (c Config) Validate() error {
	switch {
	case c.CanvasWidth <= 0 || c.CanvasHeight <= 0:
		return fmt.Errorf("canvas %dx%d must have positive dimensions: %w", c.CanvasWidth, c.CanvasHeight, ErrInvalidConfig)
	case c.TitleBand < 0 || c.TitleBand >= c.CanvasHeight:
		return fmt.Errorf("title band %d must be in [0, %d): %w", c.TitleBand, c.CanvasHeight, ErrInvalidConfig)
	case c.MinVertices < 1:
		return fmt.Errorf("min vertices %d must be at least 1: %w", c.MinVertices, ErrInvalidConfig)
	case c.MaxVertices < c.MinVertices:
		return fmt.Errorf("max vertices %d is below min vertices %d: %w", c.MaxVertices, c.MinVertices, ErrInvalidConfig)
	case !(c.MaxWeight > 0):
		return fmt.Errorf("max weight %g must be positive: %w", c.MaxWeight, ErrInvalidConfig)
	case !(c.EdgeRatio > 0):
		return fmt.Errorf("edge ratio %g must be positive: %w", c.EdgeRatio, ErrInvalidConfig)
	case c.FailureLimit < 1:
		return fmt.Errorf("failure limit %d must be at least 1: %w", c.FailureLimit, ErrInvalidConfig)
	case c.PlaceableCells() < int64(c.MaxVertices):
		return fmt.Errorf("canvas holds %d positions, fewer than %d vertices: %w", c.PlaceableCells(), c.MaxVertices, ErrInvalidConfig)
	}
	if _, err := c.Policy(); err != nil {
		return fmt.Errorf("%v: %w", err, ErrInvalidConfig)
	}
	return nil
}
