// Package engine wires graph building, path search and direction composing
// into the route computation behind every public surface.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"venue-wayfinding/internal/wayfinding/directions"
	"venue-wayfinding/internal/wayfinding/graph"
	"venue-wayfinding/internal/wayfinding/models"
	"venue-wayfinding/internal/wayfinding/pathfind"
)

// Engine is stateless between calls and safe for concurrent use.
type Engine struct {
	gen      *graph.Generator
	composer *directions.Composer
	costs    map[models.NodeRole]float64
	logger   *log.Logger
}

type Option func(*Engine)

func WithGenerator(g *graph.Generator) Option {
	return func(e *Engine) {
		if g != nil {
			e.gen = g
		}
	}
}

func WithComposer(c *directions.Composer) Option {
	return func(e *Engine) {
		if c != nil {
			e.composer = c
		}
	}
}

// WithTransitionCosts overrides the default elevator and stairs penalties.
func WithTransitionCosts(costs map[models.NodeRole]float64) Option {
	return func(e *Engine) {
		for role, c := range costs {
			e.costs[role] = c
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func New(opts ...Option) *Engine {
	e := &Engine{
		gen:      graph.NewGenerator(nil),
		composer: directions.NewComposer(directions.DefaultConfig()),
		costs:    pathfind.DefaultTransitionCosts(),
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.WithPrefix("engine")
	return e
}

func (e *Engine) Generator() *graph.Generator {
	return e.gen
}

func (e *Engine) Composer() *directions.Composer {
	return e.composer
}

// ============================================================
// Requests
// ============================================================

// Request carries everything one route computation needs. Start
// coordinates are drawing units on From.FloorID.
type Request struct {
	Floors         []models.Floor
	Objects        []models.PlacedObject
	From           models.WayfindingPoint
	ToObjectID     string
	NavNodes       []models.NavNode
	NavEdges       []models.NavEdge
	Links          []models.CrossFloorLink
	AccessibleOnly bool
}

type RouteOption func(*Request)

func WithLinks(links ...models.CrossFloorLink) RouteOption {
	return func(r *Request) {
		r.Links = append(r.Links, links...)
	}
}

func AccessibleOnly(on bool) RouteOption {
	return func(r *Request) {
		r.AccessibleOnly = on
	}
}

// RequestForVenue builds a request from a stored venue document.
func RequestForVenue(v *models.Venue, from models.WayfindingPoint, toObjectID string, opts ...RouteOption) Request {
	req := Request{
		Floors:     v.Floors,
		Objects:    v.Objects,
		From:       from,
		ToObjectID: toObjectID,
		NavNodes:   v.NavNodes,
		NavEdges:   v.NavEdges,
		Links:      v.Links,
	}
	for _, opt := range opts {
		opt(&req)
	}
	return req
}

// ComputeRoute returns nil without an error whenever no route exists. Only
// malformed input such as a negative floor scale is reported as an error.
func (e *Engine) ComputeRoute(
	ctx context.Context,
	floors []models.Floor,
	objects []models.PlacedObject,
	from models.WayfindingPoint,
	toObjectID string,
	navNodes []models.NavNode,
	navEdges []models.NavEdge,
	opts ...RouteOption,
) (*models.Route, error) {
	req := Request{
		Floors:     floors,
		Objects:    objects,
		From:       from,
		ToObjectID: toObjectID,
		NavNodes:   navNodes,
		NavEdges:   navEdges,
	}
	for _, opt := range opts {
		opt(&req)
	}

	route, err := e.Plan(ctx, req)
	if errors.Is(err, ErrNoRoute) {
		return nil, nil
	}
	return route, err
}

// ============================================================
// Plan
// ============================================================

// Plan computes a route or explains, through the ErrNoRoute family, why
// there is none.
func (e *Engine) Plan(ctx context.Context, req Request) (*models.Route, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	target, ok := findObject(req.Objects, req.ToObjectID)
	if !ok {
		e.logger.Debug("destination object not found", "object", req.ToObjectID)
		return nil, fmt.Errorf("%w: object %q", ErrInvalidReference, req.ToObjectID)
	}
	fromFloor, ok := findFloor(req.Floors, req.From.FloorID)
	if !ok {
		return nil, fmt.Errorf("%w: floor %q", ErrInvalidReference, req.From.FloorID)
	}
	toFloor, ok := findFloor(req.Floors, target.FloorID)
	if !ok {
		return nil, fmt.Errorf("%w: floor %q of object %q", ErrInvalidReference, target.FloorID, target.ID)
	}

	arena, err := e.gen.BuildArena(req.Floors, req.Objects, req.NavNodes, req.NavEdges, req.Links)
	if err != nil {
		return nil, err
	}
	for _, d := range arena.Dangling() {
		e.logger.Warn("dropping cross-floor link", "from", d.FromID, "to", d.ToID, "reason", d.Reason)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	nodes := arena.Nodes()
	fromPt := models.Point{X: req.From.X, Y: req.From.Y}.Scale(e.gen.Scale(fromFloor))
	toPt := target.Center().Scale(e.gen.Scale(toFloor))

	start, ok := pathfind.NearestOnFloor(nodes, fromFloor.ID, fromPt)
	if !ok {
		e.logger.Debug("start floor has no nodes", "floor", fromFloor.ID)
		return nil, fmt.Errorf("%w: floor %q", ErrNoGraphData, fromFloor.ID)
	}
	goal, ok := pathfind.NearestOnFloor(nodes, toFloor.ID, toPt)
	if !ok {
		e.logger.Debug("destination floor has no nodes", "floor", toFloor.ID)
		return nil, fmt.Errorf("%w: floor %q", ErrNoGraphData, toFloor.ID)
	}

	if !req.AccessibleOnly {
		res, ok := e.search(arena, start, goal, false)
		if !ok {
			e.logger.Debug("no path", "start", start.ID, "goal", goal.ID)
			return nil, fmt.Errorf("%w: %s to %s", ErrUnreachable, start.ID, goal.ID)
		}
		return e.assemble(arena, res), nil
	}

	// accessible-only: both ends snap to accessible nodes
	usable := pathfind.AccessibleNodes(nodes)
	aStart, okStart := pathfind.NearestOnFloor(usable, fromFloor.ID, fromPt)
	aGoal, okGoal := pathfind.NearestOnFloor(usable, toFloor.ID, toPt)
	if okStart && okGoal {
		if res, ok := e.search(arena, aStart, aGoal, true); ok {
			return e.assemble(arena, res), nil
		}
	}
	if _, reachable := e.search(arena, start, goal, false); reachable {
		e.logger.Debug("only inaccessible routes", "start", start.ID, "goal", goal.ID)
		return nil, fmt.Errorf("%w: %s to %s", ErrAccessibleRouteUnavailable, start.ID, goal.ID)
	}
	e.logger.Debug("no path", "start", start.ID, "goal", goal.ID, "accessible", true)
	return nil, fmt.Errorf("%w: %s to %s", ErrUnreachable, start.ID, goal.ID)
}

// search tries the single-floor pathfinder first when both ends share a
// floor, then the composite graph over all floors.
func (e *Engine) search(arena *graph.Arena, start, goal models.NavNode, accessible bool) (*pathfind.CrossFloorResult, bool) {
	opts := []pathfind.Option{pathfind.AccessibleOnly(accessible), pathfind.WithTransitionCosts(e.costs)}

	if start.FloorID == goal.FloorID {
		if g, ok := arena.Graph(start.FloorID); ok {
			if path, ok := pathfind.FindPath(g.Nodes, g.Edges, start.ID, goal.ID, opts...); ok {
				return &pathfind.CrossFloorResult{
					Segments: []pathfind.PathSegment{{FloorID: start.FloorID, Nodes: path}},
				}, true
			}
		}
	}
	return pathfind.RouteAcrossFloors(arena, start.ID, goal.ID, opts...)
}

// assemble composes directions per segment. Every segment but the last
// ends with the floor change instead of an arrival.
func (e *Engine) assemble(arena *graph.Arena, res *pathfind.CrossFloorResult) *models.Route {
	route := &models.Route{
		Segments:         make([]models.RouteSegment, 0, len(res.Segments)),
		Directions:       []models.DirectionStep{},
		FloorTransitions: []models.FloorTransition{},
	}
	route.FloorTransitions = append(route.FloorTransitions, res.Transitions...)

	for i, seg := range res.Segments {
		points := make([]models.Point, len(seg.Nodes))
		for j, n := range seg.Nodes {
			points[j] = n.Position()
		}
		sum := e.composer.Compose(points)
		steps := sum.Steps
		if i < len(res.Transitions) {
			next, _ := arena.Floor(res.Transitions[i].ToFloorID)
			steps[len(steps)-1] = e.composer.Transition(res.Transitions[i].Via, next)
		}

		floor, _ := arena.Floor(seg.FloorID)
		route.Segments = append(route.Segments, models.RouteSegment{
			FloorID:     seg.FloorID,
			Points:      points,
			Directions:  steps,
			DistanceM:   sum.TotalDistanceM,
			ScalePxPerM: e.gen.Scale(floor),
		})
		route.Directions = append(route.Directions, steps...)
		route.TotalDistanceM += sum.TotalDistanceM
	}

	route.EstimatedTimeSeconds = e.composer.Estimate(route.TotalDistanceM)
	route.FormattedTime = directions.FormatTime(route.EstimatedTimeSeconds)
	return route
}

func findObject(objects []models.PlacedObject, id string) (models.PlacedObject, bool) {
	if id == "" {
		return models.PlacedObject{}, false
	}
	for _, o := range objects {
		if o.ID == id {
			return o, true
		}
	}
	return models.PlacedObject{}, false
}

func findFloor(floors []models.Floor, id string) (models.Floor, bool) {
	for _, f := range floors {
		if f.ID == id {
			return f, true
		}
	}
	return models.Floor{}, false
}
