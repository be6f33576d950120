package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"euclidean-graph/internal/builder"
	"euclidean-graph/internal/config"
	"euclidean-graph/internal/export"
	"euclidean-graph/internal/graph"
)

const (
	formatJSON    = "json"
	formatGeoJSON = "geojson"
	formatSVG     = "svg"
	formatDOT     = "dot"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	configPath string // TOML or YAML config file
	seed       int64  // 0 picks the current time
	format     string // json, geojson, svg or dot
	output     string // output file, stdout when empty
	render     bool   // lay out DOT output with neato and write SVG

	minVertices  int
	maxVertices  int
	maxWeight    float64
	failureLimit int
	intersection string
}

func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a random Euclidean graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			applyOverrides(cmd, &cfg, opts)
			return c.runGenerate(cmd.Context(), cmd, cfg, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "config file (.toml, .yaml)")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "random seed (0 uses the current time)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatJSON, "output format: json, geojson, svg, dot")
	cmd.Flags().StringVarP(&opts.output, "out", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.render, "render", false, "render dot output to SVG with neato")
	cmd.Flags().IntVar(&opts.minVertices, "min-vertices", 0, "lower bound of the target vertex count")
	cmd.Flags().IntVar(&opts.maxVertices, "max-vertices", 0, "upper bound of the target vertex count")
	cmd.Flags().Float64Var(&opts.maxWeight, "max-weight", 0, "exclusive upper bound on edge length")
	cmd.Flags().IntVar(&opts.failureLimit, "failure-limit", 0, "consecutive failed draws before edge placement stops")
	cmd.Flags().StringVar(&opts.intersection, "intersection", "", "intersection policy: bbox, exact")

	return cmd
}

// applyOverrides copies explicitly set flags over cfg.
func applyOverrides(cmd *cobra.Command, cfg *config.Config, opts generateOpts) {
	flags := cmd.Flags()
	if flags.Changed("min-vertices") {
		cfg.MinVertices = opts.minVertices
	}
	if flags.Changed("max-vertices") {
		cfg.MaxVertices = opts.maxVertices
	}
	if flags.Changed("max-weight") {
		cfg.MaxWeight = opts.maxWeight
	}
	if flags.Changed("failure-limit") {
		cfg.FailureLimit = opts.failureLimit
	}
	if flags.Changed("intersection") {
		cfg.Intersection = opts.intersection
	}
}

func validateFormat(format string) error {
	switch format {
	case formatJSON, formatGeoJSON, formatSVG, formatDOT:
		return nil
	}
	return fmt.Errorf("unknown format %q (want json, geojson, svg or dot): %w", format, config.ErrUnsupportedFormat)
}

func (c *CLI) runGenerate(ctx context.Context, cmd *cobra.Command, cfg config.Config, opts generateOpts) error {
	if err := validateFormat(opts.format); err != nil {
		return err
	}

	seed := opts.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
		c.Logger.Info("Using time seed", "seed", seed)
	}

	prog := newProgress(c.Logger)
	g, stats, err := builder.Generate(cfg, seed, builder.WithLogger(c.Logger))
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Generated %d vertices, %d edges", g.VertexCount(), g.EdgeCount()))

	if err := ctx.Err(); err != nil {
		return err
	}

	g.Paint(graph.Color(cfg.Theme.Vertex), graph.Color(cfg.Theme.Edge))

	data, err := encode(ctx, g, cfg, seed, opts)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	if opts.output == "" {
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return err
		}
	} else {
		if err := os.WriteFile(opts.output, data, 0o644); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}
	}

	printGraphSummary(stderr, cfg.Title, g)
	printBuildStats(stderr, seed, stats)
	if stats.Termination == builder.TerminationFailureCap && g.EdgeCount() == 0 {
		printWarning(stderr, "no edge could be placed; try a larger max weight")
	}
	if opts.output != "" {
		printSuccess(stderr, "Wrote %s", opts.format)
		printFile(stderr, opts.output)
	}
	return nil
}

func encode(ctx context.Context, g *graph.Graph, cfg config.Config, seed int64, opts generateOpts) ([]byte, error) {
	var buf bytes.Buffer
	switch opts.format {
	case formatJSON:
		doc := export.NewDocument(g)
		doc.Seed = seed
		doc.Config = &cfg
		if err := export.WriteJSON(&buf, doc); err != nil {
			return nil, err
		}
	case formatGeoJSON:
		return export.MarshalGeoJSON(g)
	case formatSVG:
		export.WriteSVG(&buf, g, cfg)
	case formatDOT:
		dot := export.ToDOT(g, cfg)
		if opts.render {
			return export.RenderDOT(ctx, dot)
		}
		buf.WriteString(dot)
	}
	return buf.Bytes(), nil
}
