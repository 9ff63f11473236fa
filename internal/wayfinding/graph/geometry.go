package graph

import (
	"math"
	"strconv"
	"strings"

	"venue-wayfinding/internal/wayfinding/models"
)

const epsilon = 1e-9

// ============================================================
// Footprints
// ============================================================

// polygon is a closed ring in metres; the last vertex connects to the first.
type polygon struct {
	pts                    []models.Point
	minX, minY, maxX, maxY float64
}

func newPolygon(pts []models.Point) polygon {
	p := polygon{pts: pts, minX: math.Inf(1), minY: math.Inf(1), maxX: math.Inf(-1), maxY: math.Inf(-1)}
	for _, v := range pts {
		p.minX = math.Min(p.minX, v.X)
		p.minY = math.Min(p.minY, v.Y)
		p.maxX = math.Max(p.maxX, v.X)
		p.maxY = math.Max(p.maxY, v.Y)
	}
	return p
}

// footprint returns the object's blocking shapes in metres. Open polylines
// (metadata open=true) and every wall become one thin rectangle per segment.
func footprint(obj models.PlacedObject, scale, wallThicknessM float64) []polygon {
	if len(obj.Points) >= 2 {
		world := make([]models.Point, len(obj.Points))
		for i, p := range obj.Points {
			world[i] = obj.Local(p.X, p.Y).Scale(scale)
		}
		open, _ := obj.MetaBool("open")
		closed := len(world) >= 3 && !open && !strings.EqualFold(obj.Type, "wall")
		if closed {
			if world[0].DistanceTo(world[len(world)-1]) < epsilon {
				world = world[:len(world)-1]
			}
			return []polygon{newPolygon(world)}
		}

		thickness := wallThicknessM
		if t := metaFloat(obj.Metadata, "thickness"); t > 0 {
			thickness = t / scale
		}
		var out []polygon
		for i := 1; i < len(world); i++ {
			if ring := thickSegment(world[i-1], world[i], thickness); ring != nil {
				out = append(out, newPolygon(ring))
			}
		}
		return out
	}

	if obj.Width <= 0 || obj.Height <= 0 {
		return nil
	}
	return []polygon{newPolygon([]models.Point{
		obj.Local(0, 0).Scale(scale),
		obj.Local(obj.Width, 0).Scale(scale),
		obj.Local(obj.Width, obj.Height).Scale(scale),
		obj.Local(0, obj.Height).Scale(scale),
	})}
}

func thickSegment(a, b models.Point, thickness float64) []models.Point {
	length := a.DistanceTo(b)
	if length < epsilon {
		return nil
	}
	half := thickness / 2
	nx := -(b.Y - a.Y) / length * half
	ny := (b.X - a.X) / length * half
	return []models.Point{
		{X: a.X + nx, Y: a.Y + ny},
		{X: b.X + nx, Y: b.Y + ny},
		{X: b.X - nx, Y: b.Y - ny},
		{X: a.X - nx, Y: a.Y - ny},
	}
}

// corners returns candidate waypoints pushed outward from each convex vertex
// so they keep clearance from both adjacent sides.
func (p polygon) corners(clearance float64) []models.Point {
	n := len(p.pts)
	if n < 3 {
		return nil
	}
	out := make([]models.Point, 0, n)
	for i, v := range p.pts {
		a := p.pts[(i+n-1)%n]
		b := p.pts[(i+1)%n]
		u1, ok1 := unit(v.X-a.X, v.Y-a.Y)
		u2, ok2 := unit(v.X-b.X, v.Y-b.Y)
		if !ok1 || !ok2 {
			continue
		}
		dir, ok := unit(u1.X+u2.X, u1.Y+u2.Y)
		if !ok {
			continue
		}
		// interior angle θ between the two sides; offset = clearance / sin(θ/2)
		cosTheta := u1.X*u2.X + u1.Y*u2.Y
		sinHalf := math.Sqrt(math.Max(0, (1-cosTheta)/2))
		offset := 3 * clearance
		if sinHalf > 1.0/3 {
			offset = clearance / sinHalf
		}
		out = append(out, models.Point{X: v.X + dir.X*offset, Y: v.Y + dir.Y*offset})
	}
	return out
}

// contains reports whether pt lies strictly inside the polygon.
func (p polygon) contains(pt models.Point) bool {
	if pt.X <= p.minX || pt.X >= p.maxX || pt.Y <= p.minY || pt.Y >= p.maxY {
		return false
	}
	inside := false
	n := len(p.pts)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := p.pts[i], p.pts[j]
		if onSegment(a, b, pt) {
			return false
		}
		if (a.Y > pt.Y) != (b.Y > pt.Y) {
			x := (b.X-a.X)*(pt.Y-a.Y)/(b.Y-a.Y) + a.X
			if pt.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// blocks reports whether the open segment a-b passes through the polygon interior.
func (p polygon) blocks(a, b models.Point) bool {
	if math.Max(a.X, b.X) <= p.minX || math.Min(a.X, b.X) >= p.maxX ||
		math.Max(a.Y, b.Y) <= p.minY || math.Min(a.Y, b.Y) >= p.maxY {
		return false
	}
	n := len(p.pts)
	for i := 0; i < n; i++ {
		if properIntersect(a, b, p.pts[i], p.pts[(i+1)%n]) {
			return true
		}
	}
	mid := models.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
	return p.contains(mid) || p.contains(a) || p.contains(b)
}

// ============================================================
// Primitives
// ============================================================

func unit(x, y float64) (models.Point, bool) {
	l := math.Hypot(x, y)
	if l < epsilon {
		return models.Point{}, false
	}
	return models.Point{X: x / l, Y: y / l}, true
}

func orient(a, b, c models.Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

func properIntersect(a, b, c, d models.Point) bool {
	o1 := orient(a, b, c)
	o2 := orient(a, b, d)
	o3 := orient(c, d, a)
	o4 := orient(c, d, b)
	return ((o1 > epsilon && o2 < -epsilon) || (o1 < -epsilon && o2 > epsilon)) &&
		((o3 > epsilon && o4 < -epsilon) || (o3 < -epsilon && o4 > epsilon))
}

func onSegment(a, b, p models.Point) bool {
	if math.Abs(orient(a, b, p)) > epsilon {
		return false
	}
	return p.X >= math.Min(a.X, b.X)-epsilon && p.X <= math.Max(a.X, b.X)+epsilon &&
		p.Y >= math.Min(a.Y, b.Y)-epsilon && p.Y <= math.Max(a.Y, b.Y)+epsilon
}

func metaFloat(meta map[string]any, key string) float64 {
	switch v := meta[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return 0
}
