package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"euclidean-graph/internal/export"
	"euclidean-graph/internal/graph"
)

func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [file]",
		Short: "Validate a saved graph and print a summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			g, err := readGraph(path)
			if err != nil {
				return err
			}
			c.Logger.Debug("Loaded graph", "path", path, "vertices", g.VertexCount(), "edges", g.EdgeCount())

			out := cmd.OutOrStdout()
			printGraphSummary(out, filepath.Base(path), g)
			printSuccess(out, "invariants hold")
			return nil
		},
	}
}

// readGraph loads a JSON document or, for .geojson files, a feature
// collection. Both readers reject graphs that break invariants.
func readGraph(path string) (*graph.Graph, error) {
	if strings.EqualFold(filepath.Ext(path), ".geojson") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		return export.UnmarshalGeoJSON(data)
	}

	doc, err := export.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return doc.Graph()
}
