package graph

import (
	"slices"

	"venue-wayfinding/internal/wayfinding/models"
)

// ============================================================
// Arena
// ============================================================

// Arena holds the nav graphs of every floor plus resolved cross-floor links.
// It is never mutated after NewArena returns.
type Arena struct {
	floors   []models.Floor
	graphs   map[string]*FloorGraph
	nodes    map[string]models.NavNode
	links    []models.CrossFloorLink
	dangling []DanglingLink
}

// DanglingLink is a link that could not be resolved into a transition.
type DanglingLink struct {
	FromID string
	ToID   string
	Reason string
}

func NewArena(floors []models.Floor, graphs []*FloorGraph, links []models.CrossFloorLink, objects []models.PlacedObject) *Arena {
	a := &Arena{
		floors: slices.Clone(floors),
		graphs: make(map[string]*FloorGraph, len(graphs)),
		nodes:  make(map[string]models.NavNode),
	}
	for _, g := range graphs {
		a.graphs[g.FloorID] = g
		for _, n := range g.Nodes {
			a.nodes[n.ID] = n
		}
	}
	a.resolveLinks(links, objects)
	return a
}

func (a *Arena) Floors() []models.Floor {
	return slices.Clone(a.floors)
}

func (a *Arena) Floor(id string) (models.Floor, bool) {
	for _, f := range a.floors {
		if f.ID == id {
			return f, true
		}
	}
	return models.Floor{}, false
}

func (a *Arena) Graph(floorID string) (*FloorGraph, bool) {
	g, ok := a.graphs[floorID]
	return g, ok
}

func (a *Arena) Node(id string) (models.NavNode, bool) {
	n, ok := a.nodes[id]
	return n, ok
}

// Nodes returns all nodes, floor by floor in floor order.
func (a *Arena) Nodes() []models.NavNode {
	var out []models.NavNode
	for _, f := range a.floors {
		if g, ok := a.graphs[f.ID]; ok {
			out = append(out, g.Nodes...)
		}
	}
	return out
}

// Edges returns all in-floor edges, floor by floor in floor order.
func (a *Arena) Edges() []models.NavEdge {
	var out []models.NavEdge
	for _, f := range a.floors {
		if g, ok := a.graphs[f.ID]; ok {
			out = append(out, g.Edges...)
		}
	}
	return out
}

func (a *Arena) Links() []models.CrossFloorLink {
	return slices.Clone(a.links)
}

func (a *Arena) Dangling() []DanglingLink {
	return slices.Clone(a.dangling)
}

// Empty reports whether no floor has any node.
func (a *Arena) Empty() bool {
	return len(a.nodes) == 0
}

// ============================================================
// Link resolution
// ============================================================

// resolveLinks turns explicit links, authored node links and the editor's
// linked_object_id metadata into one deduplicated, typed list.
func (a *Arena) resolveLinks(explicit []models.CrossFloorLink, objects []models.PlacedObject) {
	seen := make(map[[2]string]bool)

	add := func(l models.CrossFloorLink) {
		from, okFrom := a.nodes[l.FromNodeID]
		to, okTo := a.nodes[l.ToNodeID]
		switch {
		case !okFrom || !okTo:
			a.dangling = append(a.dangling, DanglingLink{FromID: l.FromNodeID, ToID: l.ToNodeID, Reason: "missing node"})
			return
		case from.FloorID == to.FloorID:
			a.dangling = append(a.dangling, DanglingLink{FromID: l.FromNodeID, ToID: l.ToNodeID, Reason: "same floor"})
			return
		}
		key := [2]string{l.FromNodeID, l.ToNodeID}
		if key[0] > key[1] {
			key[0], key[1] = key[1], key[0]
		}
		if seen[key] {
			return
		}
		seen[key] = true
		if l.Role == "" {
			l.Role = transitionRole(from.Role, to.Role)
		}
		a.links = append(a.links, l)
	}

	for _, l := range explicit {
		add(l)
	}

	for _, n := range a.Nodes() {
		if n.LinkedNodeID != "" {
			add(models.CrossFloorLink{FromNodeID: n.ID, ToNodeID: n.LinkedNodeID})
		}
	}

	byObject := make(map[string]string)
	for _, n := range a.Nodes() {
		if id := n.MetaString("object_id"); id != "" {
			if _, dup := byObject[id]; !dup {
				byObject[id] = n.ID
			}
		}
	}
	for _, obj := range objects {
		target := obj.MetaString("linked_object_id")
		if target == "" {
			continue
		}
		fromID, okFrom := byObject[obj.ID]
		toID, okTo := byObject[target]
		if !okFrom || !okTo {
			a.dangling = append(a.dangling, DanglingLink{FromID: obj.ID, ToID: target, Reason: "object has no node"})
			continue
		}
		add(models.CrossFloorLink{FromNodeID: fromID, ToNodeID: toID})
	}
}

func transitionRole(a, b models.NodeRole) models.NodeRole {
	if a == models.RoleStairs || b == models.RoleStairs {
		return models.RoleStairs
	}
	return models.RoleElevator
}
