// Package pathfind snaps points onto nav graphs and searches them for
// shortest paths, on one floor or across all floors of a venue.
package pathfind

import (
	"math"

	"venue-wayfinding/internal/wayfinding/models"
)

// Nearest returns the node closest to p by Euclidean distance. On equal
// distance the earlier node in the slice wins. ok is false for empty input.
func Nearest(nodes []models.NavNode, p models.Point) (models.NavNode, bool) {
	best := -1
	bestDist := math.Inf(1)
	for i, n := range nodes {
		if d := n.Position().DistanceTo(p); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return models.NavNode{}, false
	}
	return nodes[best], true
}

// NearestOnFloor restricts Nearest to the nodes of one floor.
func NearestOnFloor(nodes []models.NavNode, floorID string, p models.Point) (models.NavNode, bool) {
	onFloor := make([]models.NavNode, 0, len(nodes))
	for _, n := range nodes {
		if n.FloorID == floorID {
			onFloor = append(onFloor, n)
		}
	}
	return Nearest(onFloor, p)
}

// AccessibleNodes keeps the nodes an accessible-only search may use.
func AccessibleNodes(nodes []models.NavNode) []models.NavNode {
	out := make([]models.NavNode, 0, len(nodes))
	for _, n := range nodes {
		if n.Accessible {
			out = append(out, n)
		}
	}
	return out
}
