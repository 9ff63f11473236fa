package export

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"venue-wayfinding/internal/wayfinding/models"
)

// ============================================================
// Floor plan renderer
// ============================================================

var planFills = map[string]string{
	"booth":     "#f4d7a1",
	"entrance":  "#9be29b",
	"exit":      "#f2a38a",
	"elevator":  "#9fd0f5",
	"lift":      "#9fd0f5",
	"stairs":    "#eadf8c",
	"escalator": "#eadf8c",
	"room":      "#f3f3f3",
	"zone":      "#f3f3f3",
	"area":      "#f3f3f3",
}

// FloorPlanSVG draws one floor's objects in drawing units. Every element
// keeps its id and carries data-type and data-label, so the output imports
// back through parser.ParseSVG.
func FloorPlanSVG(floorID string, objects []models.PlacedObject) (string, error) {
	var floorObjects []models.PlacedObject
	for _, o := range objects {
		if o.FloorID == floorID {
			floorObjects = append(floorObjects, o)
		}
	}
	if len(floorObjects) == 0 {
		return "", fmt.Errorf("floor %q has no objects", floorID)
	}

	width, height := planSize(floorObjects)

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	svg := doc.CreateElement("svg")
	svg.CreateAttr("xmlns", "http://www.w3.org/2000/svg")
	svg.CreateAttr("width", formatFloat(width))
	svg.CreateAttr("height", formatFloat(height))
	svg.CreateAttr("viewBox", "0 0 "+formatFloat(width)+" "+formatFloat(height))
	svg.CreateAttr("data-floor", floorID)

	// areas at the bottom, walls on top
	for _, pass := range []func(models.PlacedObject) bool{isArea, isPlain, isWall} {
		for _, o := range floorObjects {
			if pass(o) {
				renderObject(svg, o)
			}
		}
	}

	doc.Indent(2)
	return doc.WriteToString()
}

func isWall(o models.PlacedObject) bool { return strings.EqualFold(o.Type, "wall") }

func isArea(o models.PlacedObject) bool {
	switch strings.ToLower(o.Type) {
	case "room", "zone", "area", "aisle", "carpet":
		return true
	}
	return false
}

func isPlain(o models.PlacedObject) bool { return !isWall(o) && !isArea(o) }

// renderObject writes a rect for unrotated rectangles, otherwise a polygon or polyline.
func renderObject(parent *etree.Element, o models.PlacedObject) {
	var el *etree.Element
	switch {
	case len(o.Points) >= 2:
		points := make([]string, len(o.Points))
		for i, p := range o.Points {
			points[i] = formatPoint(o.Local(p.X, p.Y))
		}
		open, _ := o.MetaBool("open")
		tag := "polygon"
		if open || isWall(o) || len(o.Points) == 2 {
			tag = "polyline"
		}
		el = parent.CreateElement(tag)
		el.CreateAttr("id", o.ID)
		el.CreateAttr("points", strings.Join(points, " "))

	case o.Rotation == 0:
		el = parent.CreateElement("rect")
		el.CreateAttr("id", o.ID)
		el.CreateAttr("x", formatFloat(o.X))
		el.CreateAttr("y", formatFloat(o.Y))
		el.CreateAttr("width", formatFloat(o.Width))
		el.CreateAttr("height", formatFloat(o.Height))

	default:
		corners := rectanglePoints(o)
		points := make([]string, len(corners))
		for i, p := range corners {
			points[i] = formatPoint(p)
		}
		el = parent.CreateElement("polygon")
		el.CreateAttr("id", o.ID)
		el.CreateAttr("points", strings.Join(points, " "))
	}

	el.CreateAttr("data-type", o.Type)
	if o.Label != "" {
		el.CreateAttr("data-label", o.Label)
	}
	if id := o.MetaString("booth_id"); id != "" {
		el.CreateAttr("data-booth-id", id)
	}
	if id := o.MetaString("linked_object_id"); id != "" {
		el.CreateAttr("data-linked-object", id)
	}
	if accessible, ok := o.MetaBool("accessible"); ok {
		el.CreateAttr("data-accessible", strconv.FormatBool(accessible))
	}

	if isWall(o) {
		el.CreateAttr("fill", "none")
		el.CreateAttr("stroke", "#333333")
		el.CreateAttr("stroke-width", "4")
		return
	}
	fill, ok := planFills[strings.ToLower(o.Type)]
	if !ok {
		fill = "#dddddd"
	}
	el.CreateAttr("fill", fill)
	el.CreateAttr("stroke", "#666666")
	el.CreateAttr("stroke-width", "1")
}

// ============================================================
// Sizing
// ============================================================

// planSize is the bounding box of every object corner, from the origin.
func planSize(objects []models.PlacedObject) (float64, float64) {
	maxX, maxY := 0.0, 0.0
	for _, o := range objects {
		var corners []models.Point
		if len(o.Points) > 0 {
			for _, p := range o.Points {
				corners = append(corners, o.Local(p.X, p.Y))
			}
		} else {
			corners = rectanglePoints(o)
		}
		for _, p := range corners {
			maxX = math.Max(maxX, p.X)
			maxY = math.Max(maxY, p.Y)
		}
	}
	if maxX <= 0 {
		maxX = 1000
	}
	if maxY <= 0 {
		maxY = 1000
	}
	return maxX, maxY
}

func rectanglePoints(o models.PlacedObject) []models.Point {
	return []models.Point{
		o.Local(0, 0),
		o.Local(o.Width, 0),
		o.Local(o.Width, o.Height),
		o.Local(0, o.Height),
	}
}

// ============================================================
// Formatting helpers
// ============================================================

func formatFloat(val float64) string {
	v := math.Round(val*1000) / 1000
	if v == 0 {
		v = 0 // no "-0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatPoint(p models.Point) string {
	return formatFloat(p.X) + "," + formatFloat(p.Y)
}
