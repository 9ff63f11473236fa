package engine

import (
	"errors"
	"fmt"

	"venue-wayfinding/internal/wayfinding/graph"
)

// ErrNoRoute is wrapped by every "no route" outcome. ComputeRoute turns it
// into a nil route; Plan returns it so callers can tell the cases apart.
var ErrNoRoute = errors.New("no route")

var (
	ErrNoGraphData                = fmt.Errorf("%w: no graph data", ErrNoRoute)
	ErrUnreachable                = fmt.Errorf("%w: destination unreachable", ErrNoRoute)
	ErrInvalidReference           = fmt.Errorf("%w: invalid reference", ErrNoRoute)
	ErrAccessibleRouteUnavailable = fmt.Errorf("%w: accessible route unavailable", ErrNoRoute)
)

// ErrInvalidScale signals malformed input rather than an unroutable venue.
var ErrInvalidScale = graph.ErrInvalidScale

// Code is a stable machine-readable name for an engine error.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidReference):
		return "invalid_reference"
	case errors.Is(err, ErrAccessibleRouteUnavailable):
		return "accessible_route_unavailable"
	case errors.Is(err, ErrUnreachable):
		return "unreachable"
	case errors.Is(err, ErrNoGraphData):
		return "no_graph_data"
	case errors.Is(err, ErrNoRoute):
		return "no_route"
	case errors.Is(err, ErrInvalidScale):
		return "invalid_scale"
	default:
		return "internal"
	}
}
