// Package export renders nav graphs (DOT, SVG through graphviz) and floor
// plans (SVG) for debugging and round-tripping imports.
package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"venue-wayfinding/internal/wayfinding/graph"
	"venue-wayfinding/internal/wayfinding/models"
)

// Options configures nav graph rendering.
type Options struct {
	// Route highlights these node ids and the edges between consecutive ones.
	Route []string
	// InchesPerM scales node positions; 0 means 0.5.
	InchesPerM float64
}

var roleColors = map[models.NodeRole]string{
	models.RoleEntrance: "palegreen",
	models.RoleExit:     "lightsalmon",
	models.RoleElevator: "lightskyblue",
	models.RoleStairs:   "khaki",
}

// ToDOT converts a floor graph to DOT with pinned positions, for neato.
// Nodes and edges keep the graph's order so output is stable.
func ToDOT(g *graph.FloorGraph, opts Options) string {
	scale := opts.InchesPerM
	if scale <= 0 {
		scale = 0.5
	}
	onRoute := make(map[string]bool, len(opts.Route))
	routeEdges := make(map[[2]string]bool, len(opts.Route))
	for i, id := range opts.Route {
		onRoute[id] = true
		if i > 0 {
			routeEdges[[2]string{opts.Route[i-1], id}] = true
			routeEdges[[2]string{id, opts.Route[i-1]}] = true
		}
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %q {\n", g.FloorID)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=10, width=0.3, fixedsize=true];\n")
	buf.WriteString("  edge [arrowsize=0.5];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		// y-down drawing coordinates, y-up graphviz
		attrs := []string{
			fmt.Sprintf("label=%q", nodeLabel(n)),
			fmt.Sprintf("pos=\"%.3f,%.3f!\"", n.X*scale, 0-n.Y*scale),
		}
		if c, ok := roleColors[n.Role]; ok {
			attrs = append(attrs, "fillcolor="+c, "shape=box")
		}
		if !n.Accessible {
			attrs = append(attrs, "style=\"filled,dashed\"")
		}
		if onRoute[n.ID] {
			attrs = append(attrs, "penwidth=3", "color=red")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		attrs := []string{fmt.Sprintf("label=\"%.1f\"", e.DistanceM)}
		if e.Bidirectional {
			attrs = append(attrs, "dir=none")
		}
		if !e.Accessible {
			attrs = append(attrs, "style=dashed")
		}
		if routeEdges[[2]string{e.FromNodeID, e.ToNodeID}] {
			attrs = append(attrs, "penwidth=3", "color=red")
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.FromNodeID, e.ToNodeID, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(n models.NavNode) string {
	if l := n.MetaString("label"); l != "" {
		return l
	}
	if n.Role != "" && n.Role != models.RoleWaypoint {
		return string(n.Role)
	}
	return ""
}

// RenderSVG lays the DOT out with neato, keeping pinned positions.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
