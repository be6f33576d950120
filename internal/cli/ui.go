package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"euclidean-graph/internal/builder"
	"euclidean-graph/internal/graph"
)

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary values
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - labels
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(14)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconArrow   = "→"
)

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleWarning.Render(iconWarning)+" "+styleWarning.Render(fmt.Sprintf(format, args...)))
}

func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, "  "+styleKey.Render(key)+" "+styleValue.Render(value))
}

func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+styleDim.Render(iconArrow)+" "+styleValue.Render(path))
}

// printGraphSummary prints counts, weight and connectivity of g.
func printGraphSummary(w io.Writer, title string, g *graph.Graph) {
	fmt.Fprintln(w, styleTitle.Render(title))
	printKeyValue(w, "vertices", fmt.Sprint(g.VertexCount()))
	printKeyValue(w, "edges", fmt.Sprint(g.EdgeCount()))
	printKeyValue(w, "total weight", fmt.Sprintf("%.2f", g.TotalWeight()))
	if n := g.VertexCount(); n > 0 {
		printKeyValue(w, "mean degree", fmt.Sprintf("%.2f", 2*float64(g.EdgeCount())/float64(n)))
	}

	comps := g.Components()
	sizes := make([]string, 0, len(comps))
	for _, c := range comps {
		sizes = append(sizes, fmt.Sprint(len(c)))
	}
	printKeyValue(w, "components", fmt.Sprintf("%d %s", len(comps), styleDim.Render("["+strings.Join(sizes, " ")+"]")))
}

// printBuildStats prints how a build went.
func printBuildStats(w io.Writer, seed int64, s builder.Stats) {
	printKeyValue(w, "seed", fmt.Sprint(seed))
	printKeyValue(w, "target", fmt.Sprint(s.TargetVertices))
	printKeyValue(w, "pruned", fmt.Sprint(s.Pruned))
	printKeyValue(w, "iterations", fmt.Sprint(s.Iterations))
	printKeyValue(w, "rejected", fmt.Sprintf("%d %s", s.Rejected.Total(),
		styleDim.Render(fmt.Sprintf("(intersect %d · duplicate %d · weight %d · self %d · density %d)",
			s.Rejected.Intersect, s.Rejected.Duplicate, s.Rejected.Weight, s.Rejected.SelfLoop, s.Rejected.Density))))
	printKeyValue(w, "stopped by", string(s.Termination))
}
