// Package parser imports floor plans drawn as SVG into placed objects.
package parser

import (
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/google/uuid"

	"venue-wayfinding/internal/wayfinding/models"
)

// ============================================================
// Parser
// ============================================================

// ParseSVG reads every rect, path, polygon, polyline and circle in the
// document. Elements whose type cannot be determined are skipped. Coordinates
// stay in drawing units; translate() transforms on the element and its
// ancestor groups are applied.
func ParseSVG(r io.Reader, floorID string) ([]models.PlacedObject, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("failed to read svg: %w", err)
	}
	root := doc.Root()
	if root == nil || root.Tag != "svg" {
		return nil, fmt.Errorf("not an svg document")
	}

	var objects []models.PlacedObject
	var walk func(el *etree.Element, off models.Point) error
	walk = func(el *etree.Element, off models.Point) error {
		for _, child := range el.ChildElements() {
			childOff := off
			if dx, dy, ok := translate(child.SelectAttrValue("transform", "")); ok {
				childOff = models.Point{X: off.X + dx, Y: off.Y + dy}
			}
			obj, ok, err := parseElement(child, childOff, floorID)
			if err != nil {
				return err
			}
			if ok {
				objects = append(objects, obj)
			}
			if err := walk(child, childOff); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(root, models.Point{}); err != nil {
		return nil, err
	}
	return objects, nil
}

// ParseSVGFile is ParseSVG over a file on disk.
func ParseSVGFile(path, floorID string) ([]models.PlacedObject, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseSVG(f, floorID)
}

func parseElement(el *etree.Element, off models.Point, floorID string) (models.PlacedObject, bool, error) {
	switch el.Tag {
	case "rect", "path", "polygon", "polyline", "circle":
	default:
		return models.PlacedObject{}, false, nil
	}

	id := el.SelectAttrValue("id", "")
	objType := strings.ToLower(strings.TrimSpace(el.SelectAttrValue("data-type", "")))
	if objType == "" {
		objType = classifyElementByID(id)
	}
	if objType == "" {
		return models.PlacedObject{}, false, nil
	}
	if id == "" {
		id = uuid.NewString()
	}

	obj := models.PlacedObject{
		ID:       id,
		FloorID:  floorID,
		Type:     objType,
		X:        off.X,
		Y:        off.Y,
		Label:    label(el, id),
		Metadata: metadata(el),
	}

	switch el.Tag {
	case "rect":
		obj.X += attrFloat(el, "x")
		obj.Y += attrFloat(el, "y")
		obj.Width = attrFloat(el, "width")
		obj.Height = attrFloat(el, "height")

	case "circle":
		r := attrFloat(el, "r")
		obj.X += attrFloat(el, "cx") - r
		obj.Y += attrFloat(el, "cy") - r
		obj.Width, obj.Height = 2*r, 2*r

	case "path":
		points, err := ParsePath(el.SelectAttrValue("d", ""))
		if err != nil {
			return models.PlacedObject{}, false, fmt.Errorf("path %s: %w", id, err)
		}
		obj.Points = points
		if len(points) > 2 && points[0] != points[len(points)-1] {
			obj.Metadata = setMeta(obj.Metadata, "open", true)
		}

	case "polygon", "polyline":
		obj.Points = pointPairs(parseCoords(el.SelectAttrValue("points", "")))
		if el.Tag == "polyline" {
			obj.Metadata = setMeta(obj.Metadata, "open", true)
		}
	}

	if len(obj.Points) > 0 {
		minX, minY, maxX, maxY := bounds(obj.Points)
		obj.Width, obj.Height = maxX-minX, maxY-minY
	}
	return obj, true, nil
}

// classifyElementByID maps the layer naming used by drawing tools to object types.
func classifyElementByID(id string) string {
	prefixes := []struct{ prefix, objType string }{
		{"Wall_", "wall"},
		{"Hui_Wall_", "wall"}, // legacy wall prefix
		{"Booth_", "booth"},
		{"Entrance_", "entrance"},
		{"Door_", "entrance"},
		{"Exit_", "exit"},
		{"Elevator_", "elevator"},
		{"Lift_", "elevator"},
		{"Stairs_", "stairs"},
		{"Escalator_", "escalator"},
		{"Column_", "column"},
		{"Room_", "room"},
		{"Balcony", "area"},
	}
	for _, p := range prefixes {
		if strings.HasPrefix(id, p.prefix) {
			return p.objType
		}
	}
	if strings.HasSuffix(id, "_room") || strings.HasSuffix(id, "_Room") { // Hall_room, Toilet_room
		return "room"
	}
	return ""
}

// ============================================================
// Attributes
// ============================================================

func label(el *etree.Element, id string) string {
	if l := strings.TrimSpace(el.SelectAttrValue("data-label", "")); l != "" {
		return l
	}
	if title := el.SelectElement("title"); title != nil {
		if l := strings.TrimSpace(title.Text()); l != "" {
			return l
		}
	}
	return id
}

// metadata collects data-* attributes the engine understands.
func metadata(el *etree.Element) map[string]any {
	var meta map[string]any
	for attr, key := range map[string]string{
		"data-tags":          "tags",
		"data-booth-id":      "booth_id",
		"data-linked-object": "linked_object_id",
		"data-thickness":     "thickness",
	} {
		v := strings.TrimSpace(el.SelectAttrValue(attr, ""))
		if v == "" {
			continue
		}
		if key == "thickness" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				continue
			}
			meta = setMeta(meta, key, f)
			continue
		}
		meta = setMeta(meta, key, v)
	}
	if v := el.SelectAttrValue("data-accessible", ""); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			meta = setMeta(meta, "accessible", b)
		}
	}
	return meta
}

func setMeta(meta map[string]any, key string, v any) map[string]any {
	if meta == nil {
		meta = make(map[string]any)
	}
	meta[key] = v
	return meta
}

func attrFloat(el *etree.Element, key string) float64 {
	v := strings.TrimSuffix(strings.TrimSpace(el.SelectAttrValue(key, "")), "px")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

var translateRe = regexp.MustCompile(`translate\(\s*([-+0-9.eE]+)(?:[\s,]+([-+0-9.eE]+))?\s*\)`)

func translate(transform string) (float64, float64, bool) {
	m := translateRe.FindStringSubmatch(transform)
	if m == nil {
		return 0, 0, false
	}
	dx, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, 0, false
	}
	var dy float64
	if m[2] != "" {
		if dy, err = strconv.ParseFloat(m[2], 64); err != nil {
			return 0, 0, false
		}
	}
	return dx, dy, true
}

func pointPairs(coords []float64) []models.Point {
	points := make([]models.Point, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		points = append(points, models.Point{X: coords[i], Y: coords[i+1]})
	}
	return points
}

func bounds(points []models.Point) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return minX, minY, maxX, maxY
}
