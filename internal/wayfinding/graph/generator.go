package graph

import (
	"errors"
	"fmt"
	"math"

	"venue-wayfinding/internal/wayfinding/classify"
	"venue-wayfinding/internal/wayfinding/models"
)

// ============================================================
// Graph Generator
// ============================================================

const (
	defaultClearance     = 0.5  // metres kept between waypoints and obstacle sides
	defaultMergeDistance = 0.25 // waypoints closer than this to an earlier node are merged into it
	defaultWallThickness = 0.2  // metres, for walls without a thickness
)

// ErrInvalidScale is returned for a non-positive or non-finite scale factor.
var ErrInvalidScale = errors.New("graph: scale must be a positive number of drawing units per metre")

// FloorGraph is the nav graph of one floor.
type FloorGraph struct {
	FloorID   string
	Nodes     []models.NavNode
	Edges     []models.NavEdge
	Generated bool
}

type Options struct {
	ClearanceM      float64
	MergeDistanceM  float64
	WallThicknessM  float64
	DefaultScalePxM float64
}

type Option func(*Options)

func WithClearance(m float64) Option {
	return func(o *Options) {
		if m > 0 {
			o.ClearanceM = m
		}
	}
}

func WithMergeDistance(m float64) Option {
	return func(o *Options) {
		if m > 0 {
			o.MergeDistanceM = m
		}
	}
}

func WithWallThickness(m float64) Option {
	return func(o *Options) {
		if m > 0 {
			o.WallThicknessM = m
		}
	}
}

// WithDefaultScale sets the scale used for floors that carry none.
func WithDefaultScale(pxPerM float64) Option {
	return func(o *Options) {
		if pxPerM > 0 {
			o.DefaultScalePxM = pxPerM
		}
	}
}

type Generator struct {
	classifier classify.Classifier
	opts       Options
}

func NewGenerator(c classify.Classifier, opts ...Option) *Generator {
	if c == nil {
		c = classify.Default()
	}
	cfg := Options{
		ClearanceM:      defaultClearance,
		MergeDistanceM:  defaultMergeDistance,
		WallThicknessM:  defaultWallThickness,
		DefaultScalePxM: models.DefaultScalePxPerM,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Generator{classifier: c, opts: cfg}
}

func (g *Generator) Classifier() classify.Classifier {
	return g.classifier
}

type candidate struct {
	pos        models.Point
	role       models.NodeRole
	accessible bool
	meta       map[string]any
	special    bool
}

// Generate builds a visibility graph for one floor. Objects are visited in
// input order, so identical input always yields identical ids and ordering.
func (g *Generator) Generate(floorID string, objects []models.PlacedObject, scale float64) (*FloorGraph, error) {
	if !(scale > 0) || math.IsInf(scale, 0) {
		return nil, fmt.Errorf("%w: floor %s has scale %v", ErrInvalidScale, floorID, scale)
	}

	var (
		pending   []candidate
		obstacles []polygon
		tainted   []polygon
	)

	for _, obj := range objects {
		c := g.classifier.Classify(obj)
		switch c.Kind {
		case classify.KindNode:
			pending = append(pending, candidate{
				pos:        obj.Center().Scale(scale),
				role:       c.Role,
				accessible: c.Accessible,
				meta:       nodeMetadata(obj),
				special:    true,
			})
		case classify.KindObstacle:
			for _, poly := range footprint(obj, scale, g.opts.WallThicknessM) {
				obstacles = append(obstacles, poly)
				for _, p := range poly.corners(g.opts.ClearanceM) {
					pending = append(pending, candidate{pos: p, role: models.RoleWaypoint, accessible: true})
				}
			}
		case classify.KindZone:
			if !c.Accessible {
				tainted = append(tainted, footprint(obj, scale, g.opts.WallThicknessM)...)
			}
		}
	}

	kept := g.filterCandidates(pending, obstacles)

	out := &FloorGraph{FloorID: floorID, Generated: true}
	for i, c := range kept {
		out.Nodes = append(out.Nodes, models.NavNode{
			ID:         fmt.Sprintf("auto-%s-%d", floorID, i),
			FloorID:    floorID,
			X:          c.pos.X,
			Y:          c.pos.Y,
			Role:       c.role,
			Accessible: c.accessible,
			Metadata:   c.meta,
		})
	}

	for i := 0; i < len(out.Nodes); i++ {
		for j := i + 1; j < len(out.Nodes); j++ {
			a, b := out.Nodes[i].Position(), out.Nodes[j].Position()
			if !visible(a, b, obstacles) {
				continue
			}
			accessible := out.Nodes[i].Accessible && out.Nodes[j].Accessible && !crossesAny(a, b, tainted)
			out.Edges = append(out.Edges, models.NavEdge{
				ID:             fmt.Sprintf("auto-edge-%s-%d", floorID, len(out.Edges)),
				FromNodeID:     out.Nodes[i].ID,
				ToNodeID:       out.Nodes[j].ID,
				DistanceM:      a.DistanceTo(b),
				Accessible:     accessible,
				Bidirectional:  true,
				WeightModifier: 1,
			})
		}
	}

	return out, nil
}

// filterCandidates drops waypoints buried in obstacles and merges waypoints
// that land on top of an earlier node. Special nodes are always kept.
func (g *Generator) filterCandidates(pending []candidate, obstacles []polygon) []candidate {
	kept := make([]candidate, 0, len(pending))
	for _, c := range pending {
		if !c.special {
			if insideAny(c.pos, obstacles) {
				continue
			}
			if nearAny(c.pos, kept, g.opts.MergeDistanceM) {
				continue
			}
		}
		kept = append(kept, c)
	}
	return kept
}

// visible ignores obstacles that contain an endpoint, so nodes placed on a
// wall or inside a booth can still leave it.
func visible(a, b models.Point, obstacles []polygon) bool {
	for _, poly := range obstacles {
		if poly.contains(a) || poly.contains(b) {
			continue
		}
		if poly.blocks(a, b) {
			return false
		}
	}
	return true
}

func crossesAny(a, b models.Point, zones []polygon) bool {
	for _, z := range zones {
		if z.blocks(a, b) {
			return true
		}
	}
	return false
}

func insideAny(p models.Point, polys []polygon) bool {
	for _, poly := range polys {
		if poly.contains(p) {
			return true
		}
	}
	return false
}

func nearAny(p models.Point, kept []candidate, tolerance float64) bool {
	if tolerance <= 0 {
		return false
	}
	for _, k := range kept {
		if p.DistanceTo(k.pos) < tolerance {
			return true
		}
	}
	return false
}

func nodeMetadata(obj models.PlacedObject) map[string]any {
	meta := map[string]any{"object_id": obj.ID}
	if obj.Label != "" {
		meta["label"] = obj.Label
	}
	if v := obj.MetaString("linked_floor_id"); v != "" {
		meta["linked_floor_id"] = v
	}
	if v := obj.MetaString("linked_object_id"); v != "" {
		meta["linked_object_id"] = v
	}
	return meta
}
