// Package ui provides styled terminal output for the mdgraph CLI.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mdgraph/mdgraph/internal/graph"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	countStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	phantomStyle = lipgloss.NewStyle().Faint(true)
)

// ScanSummary renders a human-readable summary of a snapshot.
func ScanSummary(root string, snap *graph.Snapshot) string {
	var phantoms []string
	real := 0
	for _, node := range snap.Nodes {
		if node.Phantom() {
			phantoms = append(phantoms, node.ID)
		} else {
			real++
		}
	}

	var b strings.Builder
	fmt.Fprintln(&b, titleStyle.Render("Graph: "+root))
	fmt.Fprintf(&b, "  %s notes, %s links, %s phantom\n",
		countStyle.Render(fmt.Sprint(real)),
		countStyle.Render(fmt.Sprint(len(snap.Edges))),
		countStyle.Render(fmt.Sprint(len(phantoms))))
	if len(phantoms) > 0 {
		fmt.Fprintln(&b, phantomStyle.Render("  missing: "+strings.Join(phantoms, ", ")))
	}
	return b.String()
}
