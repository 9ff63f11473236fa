package engine

import (
	"fmt"

	"venue-wayfinding/internal/wayfinding/graph"
	"venue-wayfinding/internal/wayfinding/models"
)

// FloorGraph returns the nav graph routing would use on one floor of v.
func (e *Engine) FloorGraph(v *models.Venue, floorID string) (*graph.FloorGraph, error) {
	floor, ok := v.Floor(floorID)
	if !ok {
		return nil, fmt.Errorf("%w: floor %q", ErrInvalidReference, floorID)
	}
	return e.gen.Build(floor, v.Objects, v.NavNodes, v.NavEdges)
}
