package models

import (
	"math"
	"strconv"
	"strings"
)

// ============================================================
// Geometry primitives
// ============================================================

type Point struct {
	X float64 `json:"x" toml:"x"`
	Y float64 `json:"y" toml:"y"`
}

func (p Point) DistanceTo(o Point) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

// Scale divides both coordinates, converting drawing units to metres.
func (p Point) Scale(pxPerM float64) Point {
	return Point{X: p.X / pxPerM, Y: p.Y / pxPerM}
}

// ============================================================
// Floor plan input
// ============================================================

// DefaultScalePxPerM is used when a floor carries no scale.
const DefaultScalePxPerM = 20.0

type Floor struct {
	ID          string         `json:"id" toml:"id"`
	Name        string         `json:"name" toml:"name"`
	Level       int            `json:"level" toml:"level"`
	ScalePxPerM float64        `json:"scale_px_per_m" toml:"scale_px_per_m"`
	Metadata    map[string]any `json:"metadata,omitempty" toml:"metadata,omitempty"`
}

// Scale returns the floor scale, falling back to DefaultScalePxPerM when unset.
// Negative values are returned as-is so callers can reject them.
func (f Floor) Scale() float64 {
	if f.ScalePxPerM == 0 {
		return DefaultScalePxPerM
	}
	return f.ScalePxPerM
}

// DisplayName is used in transition instructions.
func (f Floor) DisplayName() string {
	if f.Name != "" {
		return f.Name
	}
	return "Level " + strconv.Itoa(f.Level)
}

// PlacedObject is a floor plan object in drawing units. (X, Y) is the
// object's origin; Rotation is in degrees around that origin.
type PlacedObject struct {
	ID       string         `json:"id" toml:"id"`
	FloorID  string         `json:"floor_id" toml:"floor_id"`
	Type     string         `json:"type" toml:"type"`
	X        float64        `json:"x" toml:"x"`
	Y        float64        `json:"y" toml:"y"`
	Width    float64        `json:"width" toml:"width"`
	Height   float64        `json:"height" toml:"height"`
	Rotation float64        `json:"rotation" toml:"rotation"`
	Label    string         `json:"label,omitempty" toml:"label,omitempty"`
	Points   []Point        `json:"points,omitempty" toml:"points,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty" toml:"metadata,omitempty"`
}

// Local converts a point in the object's local frame to drawing units.
func (o PlacedObject) Local(lx, ly float64) Point {
	if o.Rotation == 0 {
		return Point{X: o.X + lx, Y: o.Y + ly}
	}
	rad := o.Rotation * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return Point{
		X: o.X + lx*cos - ly*sin,
		Y: o.Y + lx*sin + ly*cos,
	}
}

// Center returns the geometric center in drawing units.
func (o PlacedObject) Center() Point {
	if len(o.Points) > 0 {
		var sx, sy float64
		for _, p := range o.Points {
			sx += p.X
			sy += p.Y
		}
		n := float64(len(o.Points))
		return o.Local(sx/n, sy/n)
	}
	return o.Local(o.Width/2, o.Height/2)
}

// Tags returns metadata["tags"] lower-cased. Both []string and []any are accepted.
func (o PlacedObject) Tags() []string {
	raw, ok := o.Metadata["tags"]
	if !ok {
		return nil
	}
	var tags []string
	switch v := raw.(type) {
	case []string:
		tags = append(tags, v...)
	case []any:
		for _, t := range v {
			if s, ok := t.(string); ok {
				tags = append(tags, s)
			}
		}
	case string:
		tags = strings.Split(v, ",")
	}
	for i := range tags {
		tags[i] = strings.ToLower(strings.TrimSpace(tags[i]))
	}
	return tags
}

func (o PlacedObject) MetaString(key string) string {
	if s, ok := o.Metadata[key].(string); ok {
		return s
	}
	return ""
}

// MetaBool reports the boolean at key and whether it was present.
func (o PlacedObject) MetaBool(key string) (bool, bool) {
	b, ok := o.Metadata[key].(bool)
	return b, ok
}

// ============================================================
// Navigation graph
// ============================================================

type NodeRole string

const (
	RoleWaypoint NodeRole = "waypoint"
	RoleEntrance NodeRole = "entrance"
	RoleExit     NodeRole = "exit"
	RoleElevator NodeRole = "elevator"
	RoleStairs   NodeRole = "stairs"
)

func (r NodeRole) IsTransition() bool {
	return r == RoleElevator || r == RoleStairs
}

// NavNode positions are in metres.
type NavNode struct {
	ID           string         `json:"id" toml:"id"`
	FloorID      string         `json:"floor_id" toml:"floor_id"`
	X            float64        `json:"x" toml:"x"`
	Y            float64        `json:"y" toml:"y"`
	Role         NodeRole       `json:"type" toml:"type"`
	Accessible   bool           `json:"accessible" toml:"accessible"`
	LinkedNodeID string         `json:"linked_floor_node_id,omitempty" toml:"linked_floor_node_id,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty" toml:"metadata,omitempty"`
}

func (n NavNode) Position() Point {
	return Point{X: n.X, Y: n.Y}
}

func (n NavNode) MetaString(key string) string {
	if s, ok := n.Metadata[key].(string); ok {
		return s
	}
	return ""
}

type NavEdge struct {
	ID             string  `json:"id" toml:"id"`
	FromNodeID     string  `json:"from_node_id" toml:"from_node_id"`
	ToNodeID       string  `json:"to_node_id" toml:"to_node_id"`
	DistanceM      float64 `json:"distance_m" toml:"distance_m"`
	Accessible     bool    `json:"accessible" toml:"accessible"`
	Bidirectional  bool    `json:"bidirectional" toml:"bidirectional"`
	WeightModifier float64 `json:"weight_modifier" toml:"weight_modifier"`
}

// Cost is the search weight of the edge.
func (e NavEdge) Cost() float64 {
	return e.DistanceM * e.WeightModifier
}

// CrossFloorLink pairs two nodes on different floors that are the same
// vertical transition point.
type CrossFloorLink struct {
	FromNodeID string   `json:"from_node_id" toml:"from_node_id"`
	ToNodeID   string   `json:"to_node_id" toml:"to_node_id"`
	Role       NodeRole `json:"role,omitempty" toml:"role,omitempty"`
}

// ============================================================
// Route output
// ============================================================

type Direction string

const (
	DirDepart      Direction = "depart"
	DirArrive      Direction = "arrive"
	DirStraight    Direction = "straight"
	DirSlightLeft  Direction = "slight-left"
	DirSlightRight Direction = "slight-right"
	DirLeft        Direction = "left"
	DirRight       Direction = "right"
	DirUTurn       Direction = "u-turn"
	DirTransition  Direction = "transition"
)

type DirectionStep struct {
	Instruction string    `json:"instruction"`
	Direction   Direction `json:"direction"`
	DistanceM   float64   `json:"distance_m"`
}

type RouteSegment struct {
	FloorID     string          `json:"floor_plan_id"`
	Points      []Point         `json:"points"`
	Directions  []DirectionStep `json:"directions"`
	DistanceM   float64         `json:"distance_m"`
	ScalePxPerM float64         `json:"scale_px_per_m"`
}

type FloorTransition struct {
	FromFloorID string   `json:"from_floor_id"`
	ToFloorID   string   `json:"to_floor_id"`
	Via         NodeRole `json:"via_type"`
}

type Route struct {
	Segments             []RouteSegment    `json:"segments"`
	TotalDistanceM       float64           `json:"total_distance_m"`
	EstimatedTimeSeconds float64           `json:"estimated_time_seconds"`
	FormattedTime        string            `json:"formatted_time"`
	Directions           []DirectionStep   `json:"directions"`
	FloorTransitions     []FloorTransition `json:"floor_transitions"`
}

// WayfindingPoint is a start position in drawing units.
type WayfindingPoint struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	FloorID string  `json:"floor_id"`
	Label   string  `json:"label,omitempty"`
}

type EntranceOption struct {
	NodeID   string  `json:"node_id,omitempty"`
	ObjectID string  `json:"object_id,omitempty"`
	Label    string  `json:"label"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	FloorID  string  `json:"floor_id"`
}

type BoothDestination struct {
	ObjectID string  `json:"object_id"`
	BoothID  string  `json:"booth_id,omitempty"`
	Label    string  `json:"label"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	FloorID  string  `json:"floor_id"`
}

// ============================================================
// Venue document
// ============================================================

type Venue struct {
	ID       string           `json:"id" toml:"id"`
	Name     string           `json:"name" toml:"name"`
	Version  int64            `json:"version" toml:"version"`
	Floors   []Floor          `json:"floors" toml:"floors"`
	Objects  []PlacedObject   `json:"objects" toml:"objects"`
	NavNodes []NavNode        `json:"nav_nodes,omitempty" toml:"nav_nodes,omitempty"`
	NavEdges []NavEdge        `json:"nav_edges,omitempty" toml:"nav_edges,omitempty"`
	Links    []CrossFloorLink `json:"links,omitempty" toml:"links,omitempty"`
}

func (v *Venue) Floor(id string) (Floor, bool) {
	for _, f := range v.Floors {
		if f.ID == id {
			return f, true
		}
	}
	return Floor{}, false
}

func (v *Venue) Object(id string) (PlacedObject, bool) {
	for _, o := range v.Objects {
		if o.ID == id {
			return o, true
		}
	}
	return PlacedObject{}, false
}
