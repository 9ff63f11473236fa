package graph

import (
	"fmt"

	"venue-wayfinding/internal/wayfinding/models"
)

// ============================================================
// Authored or generated
// ============================================================

// Build returns the authored graph of a floor when it has both nodes and
// edges, otherwise a freshly generated one. Authored edges leaving the floor
// are dropped; cross-floor connectivity comes only from links.
func (g *Generator) Build(floor models.Floor, objects []models.PlacedObject, nodes []models.NavNode, edges []models.NavEdge) (*FloorGraph, error) {
	scale := floor.ScalePxPerM
	if scale == 0 {
		scale = g.opts.DefaultScalePxM
	}
	if !(scale > 0) {
		return nil, fmt.Errorf("%w: floor %s has scale %v", ErrInvalidScale, floor.ID, floor.ScalePxPerM)
	}

	var floorNodes []models.NavNode
	ids := make(map[string]bool)
	for _, n := range nodes {
		if n.FloorID == floor.ID {
			floorNodes = append(floorNodes, n)
			ids[n.ID] = true
		}
	}
	var floorEdges []models.NavEdge
	for _, e := range edges {
		if ids[e.FromNodeID] && ids[e.ToNodeID] {
			floorEdges = append(floorEdges, e)
		}
	}

	if len(floorNodes) > 0 && len(floorEdges) > 0 {
		return &FloorGraph{FloorID: floor.ID, Nodes: floorNodes, Edges: floorEdges}, nil
	}

	var floorObjects []models.PlacedObject
	for _, o := range objects {
		if o.FloorID == floor.ID {
			floorObjects = append(floorObjects, o)
		}
	}
	return g.Generate(floor.ID, floorObjects, scale)
}

// Scale resolves the effective scale of a floor.
func (g *Generator) Scale(floor models.Floor) float64 {
	if floor.ScalePxPerM == 0 {
		return g.opts.DefaultScalePxM
	}
	return floor.ScalePxPerM
}

// BuildArena builds every floor graph and resolves cross-floor links once.
func (g *Generator) BuildArena(floors []models.Floor, objects []models.PlacedObject, nodes []models.NavNode, edges []models.NavEdge, links []models.CrossFloorLink) (*Arena, error) {
	graphs := make([]*FloorGraph, 0, len(floors))
	for _, f := range floors {
		fg, err := g.Build(f, objects, nodes, edges)
		if err != nil {
			return nil, err
		}
		graphs = append(graphs, fg)
	}
	return NewArena(floors, graphs, links, objects), nil
}
