// Package venuefile reads and writes venue documents as TOML or JSON.
//
// Navigation nodes and edges written by hand usually leave out the
// accessibility flags, so a missing "accessible" means true and a missing
// "bidirectional" means true. A missing weight_modifier means 1; an explicit
// 0 is kept and makes the edge free.
package venuefile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"venue-wayfinding/internal/wayfinding/models"
)

type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

var ErrUnknownFormat = errors.New("unknown venue file format")

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// ============================================================
// File layout
// ============================================================

type document struct {
	ID       string                  `json:"id" toml:"id"`
	Name     string                  `json:"name" toml:"name"`
	Version  int64                   `json:"version,omitempty" toml:"version,omitempty"`
	Floors   []models.Floor          `json:"floors" toml:"floors"`
	Objects  []models.PlacedObject   `json:"objects" toml:"objects"`
	NavNodes []node                  `json:"nav_nodes,omitempty" toml:"nav_nodes,omitempty"`
	NavEdges []edge                  `json:"nav_edges,omitempty" toml:"nav_edges,omitempty"`
	Links    []models.CrossFloorLink `json:"links,omitempty" toml:"links,omitempty"`
}

type node struct {
	ID           string          `json:"id" toml:"id"`
	FloorID      string          `json:"floor_id" toml:"floor_id"`
	X            float64         `json:"x" toml:"x"`
	Y            float64         `json:"y" toml:"y"`
	Role         models.NodeRole `json:"type" toml:"type"`
	Accessible   *bool           `json:"accessible,omitempty" toml:"accessible"`
	LinkedNodeID string          `json:"linked_floor_node_id,omitempty" toml:"linked_floor_node_id,omitempty"`
	Metadata     map[string]any  `json:"metadata,omitempty" toml:"metadata,omitempty"`
}

type edge struct {
	ID             string   `json:"id" toml:"id"`
	FromNodeID     string   `json:"from_node_id" toml:"from_node_id"`
	ToNodeID       string   `json:"to_node_id" toml:"to_node_id"`
	DistanceM      float64  `json:"distance_m" toml:"distance_m"`
	Accessible     *bool    `json:"accessible,omitempty" toml:"accessible"`
	Bidirectional  *bool    `json:"bidirectional,omitempty" toml:"bidirectional"`
	WeightModifier *float64 `json:"weight_modifier,omitempty" toml:"weight_modifier"`
}

func boolOr(b *bool, dflt bool) bool {
	if b == nil {
		return dflt
	}
	return *b
}

func boolPtr(b bool) *bool { return &b }

func floatOr(f *float64, dflt float64) float64 {
	if f == nil {
		return dflt
	}
	return *f
}

func floatPtr(f float64) *float64 { return &f }

func (d *document) venue() *models.Venue {
	v := &models.Venue{
		ID:      d.ID,
		Name:    d.Name,
		Version: d.Version,
		Floors:  d.Floors,
		Objects: d.Objects,
		Links:   d.Links,
	}
	for _, n := range d.NavNodes {
		v.NavNodes = append(v.NavNodes, models.NavNode{
			ID:           n.ID,
			FloorID:      n.FloorID,
			X:            n.X,
			Y:            n.Y,
			Role:         n.Role,
			Accessible:   boolOr(n.Accessible, true),
			LinkedNodeID: n.LinkedNodeID,
			Metadata:     n.Metadata,
		})
	}
	for _, e := range d.NavEdges {
		v.NavEdges = append(v.NavEdges, models.NavEdge{
			ID:             e.ID,
			FromNodeID:     e.FromNodeID,
			ToNodeID:       e.ToNodeID,
			DistanceM:      e.DistanceM,
			Accessible:     boolOr(e.Accessible, true),
			Bidirectional:  boolOr(e.Bidirectional, true),
			WeightModifier: floatOr(e.WeightModifier, 1),
		})
	}
	return v
}

func fromVenue(v *models.Venue) *document {
	d := &document{
		ID:      v.ID,
		Name:    v.Name,
		Version: v.Version,
		Floors:  v.Floors,
		Objects: v.Objects,
		Links:   v.Links,
	}
	for _, n := range v.NavNodes {
		d.NavNodes = append(d.NavNodes, node{
			ID:           n.ID,
			FloorID:      n.FloorID,
			X:            n.X,
			Y:            n.Y,
			Role:         n.Role,
			Accessible:   boolPtr(n.Accessible),
			LinkedNodeID: n.LinkedNodeID,
			Metadata:     n.Metadata,
		})
	}
	for _, e := range v.NavEdges {
		d.NavEdges = append(d.NavEdges, edge{
			ID:             e.ID,
			FromNodeID:     e.FromNodeID,
			ToNodeID:       e.ToNodeID,
			DistanceM:      e.DistanceM,
			Accessible:     boolPtr(e.Accessible),
			Bidirectional:  boolPtr(e.Bidirectional),
			WeightModifier: floatPtr(e.WeightModifier),
		})
	}
	return d
}

// ============================================================
// Read / write
// ============================================================

// Load reads and validates a venue file.
func Load(path string) (*models.Venue, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	v, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// Decode parses and validates a venue document.
func Decode(data []byte, format Format) (*models.Venue, error) {
	var d document
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &d)
		if err != nil {
			return nil, fmt.Errorf("failed to decode toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown keys: %v", undecoded)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("failed to decode json: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	v := d.venue()
	if err := Validate(v); err != nil {
		return nil, err
	}
	return v, nil
}

func Encode(w io.Writer, v *models.Venue, format Format) error {
	d := fromVenue(v)
	switch format {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(d)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

func Marshal(v *models.Venue, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, v, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ============================================================
// Validation
// ============================================================

// Validate reports every structural problem at once: duplicate ids and
// references to floors or nodes that do not exist. Links to missing nodes
// are left to the graph builder, which reports them as dangling.
func Validate(v *models.Venue) error {
	var errs []error

	floors := make(map[string]bool, len(v.Floors))
	for _, f := range v.Floors {
		if f.ID == "" {
			errs = append(errs, errors.New("floor without id"))
			continue
		}
		if floors[f.ID] {
			errs = append(errs, fmt.Errorf("duplicate floor %q", f.ID))
		}
		if f.ScalePxPerM < 0 {
			errs = append(errs, fmt.Errorf("floor %q: negative scale", f.ID))
		}
		floors[f.ID] = true
	}

	objects := make(map[string]bool, len(v.Objects))
	for _, o := range v.Objects {
		if o.ID == "" {
			errs = append(errs, errors.New("object without id"))
			continue
		}
		if objects[o.ID] {
			errs = append(errs, fmt.Errorf("duplicate object %q", o.ID))
		}
		objects[o.ID] = true
		if !floors[o.FloorID] {
			errs = append(errs, fmt.Errorf("object %q: unknown floor %q", o.ID, o.FloorID))
		}
	}

	nodes := make(map[string]bool, len(v.NavNodes))
	for _, n := range v.NavNodes {
		if nodes[n.ID] {
			errs = append(errs, fmt.Errorf("duplicate nav node %q", n.ID))
		}
		nodes[n.ID] = true
		if !floors[n.FloorID] {
			errs = append(errs, fmt.Errorf("nav node %q: unknown floor %q", n.ID, n.FloorID))
		}
	}
	for _, e := range v.NavEdges {
		for _, id := range []string{e.FromNodeID, e.ToNodeID} {
			if !nodes[id] {
				errs = append(errs, fmt.Errorf("nav edge %q: unknown node %q", e.ID, id))
			}
		}
	}
	return errors.Join(errs...)
}
