package graph

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
)

// --- Color Palette ---
const (
	headerColor   = "lightblue"
	externalColor = "lightgrey"
	cycleColor    = "red" // Color for node border in cycles
)

// DotOptions controls WriteDot.
type DotOptions struct {
	LeftToRight bool
	// Base, when set, is stripped from node labels.
	Base string
}

// WriteDot renders g as a Graphviz digraph, nodes sorted by path, edges
// pointing from the including header to the included one.
func WriteDot(w io.Writer, g *Graph, opts DotOptions) error {
	inCycle := g.CycleMembers()

	var b strings.Builder
	b.WriteString("digraph includes {\n")
	rankDir := "TB"
	if opts.LeftToRight {
		rankDir = "LR"
	}
	fmt.Fprintf(&b, "  rankdir=\"%s\";\n", rankDir)
	b.WriteString("  node [shape=box, style=\"rounded,filled\", fontname=\"Helvetica\"];\n")
	b.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n")

	b.WriteString("\n  // Node Definitions\n")
	nodes := make([]*Node, len(g.order))
	copy(nodes, g.order)
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Path < nodes[j].Path })
	for _, n := range nodes {
		color := headerColor
		if n.External {
			color = externalColor
		}
		attrs := []string{
			fmt.Sprintf("label=\"%s\"", escape(label(n.Path, opts.Base))),
			fmt.Sprintf("fillcolor=\"%s\"", color),
		}
		if inCycle[n.Path] {
			attrs = append(attrs, fmt.Sprintf("color=\"%s\"", cycleColor), "penwidth=2")
		}
		fmt.Fprintf(&b, "  \"%s\" [%s];\n", escape(n.Path), strings.Join(attrs, ", "))
	}

	b.WriteString("\n  // Edges (Local Includes)\n")
	for _, n := range nodes {
		deps := make([]string, 0, len(n.deps))
		for _, d := range n.deps {
			deps = append(deps, d.Path)
		}
		sort.Strings(deps)
		for _, d := range deps {
			attrs := ""
			if inCycle[n.Path] && inCycle[d] {
				attrs = fmt.Sprintf(" [color=\"%s\", penwidth=1.5]", cycleColor)
			}
			fmt.Fprintf(&b, "  \"%s\" -> \"%s\"%s;\n", escape(n.Path), escape(d), attrs)
		}
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func label(path, base string) string {
	if base == "" {
		return path
	}
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "\\\"")
}
