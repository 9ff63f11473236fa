package pathfind

import (
	"venue-wayfinding/internal/wayfinding/graph"
	"venue-wayfinding/internal/wayfinding/models"
)

// ============================================================
// Cross-floor routing
// ============================================================

// PathSegment is the part of a path that stays on one floor.
type PathSegment struct {
	FloorID   string
	Nodes     []models.NavNode
	DistanceM float64
}

type CrossFloorResult struct {
	Segments       []PathSegment
	Transitions    []models.FloorTransition
	TotalDistanceM float64
	Cost           float64
}

// Nodes flattens the segments back into the full node sequence.
func (r *CrossFloorResult) Nodes() []models.NavNode {
	var out []models.NavNode
	for _, s := range r.Segments {
		out = append(out, s.Nodes...)
	}
	return out
}

// RouteAcrossFloors runs one search over every floor of the arena joined by
// its resolved links. Each link is walkable both ways at the fixed cost of
// its role and adds no walking distance. Stairs links are never accessible.
func RouteAcrossFloors(arena *graph.Arena, startID, goalID string, opts ...Option) (*CrossFloorResult, bool) {
	cfg := buildOptions(opts)
	net := newNetwork(arena.Nodes(), arena.Edges(), cfg)

	for _, l := range arena.Links() {
		if cfg.AccessibleOnly && l.Role == models.RoleStairs {
			continue
		}
		cost, ok := cfg.TransitionCosts[l.Role]
		if !ok {
			cost = cfg.TransitionCosts[models.RoleElevator]
		}
		net.connect(l.FromNodeID, l.ToNodeID, arc{cost: cost, via: l.Role})
		net.connect(l.ToNodeID, l.FromNodeID, arc{cost: cost, via: l.Role})
	}
	for id := range net.adj {
		sortArcs(net.adj[id])
	}

	ids, cost, ok := net.shortest(startID, goalID)
	if !ok {
		return nil, false
	}

	res := &CrossFloorResult{Cost: cost}
	first := net.nodes[ids[0]]
	cur := PathSegment{FloorID: first.FloorID, Nodes: []models.NavNode{first}}
	for i := 1; i < len(ids); i++ {
		prev, node := net.nodes[ids[i-1]], net.nodes[ids[i]]
		a, _ := net.arcBetween(prev.ID, node.ID)
		if node.FloorID != prev.FloorID {
			res.Segments = append(res.Segments, cur)
			res.Transitions = append(res.Transitions, models.FloorTransition{
				FromFloorID: prev.FloorID,
				ToFloorID:   node.FloorID,
				Via:         a.via,
			})
			cur = PathSegment{FloorID: node.FloorID, Nodes: []models.NavNode{node}}
			continue
		}
		cur.Nodes = append(cur.Nodes, node)
		cur.DistanceM += a.distance
		res.TotalDistanceM += a.distance
	}
	res.Segments = append(res.Segments, cur)
	return res, true
}
