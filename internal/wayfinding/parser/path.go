package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"venue-wayfinding/internal/wayfinding/models"
)

// ============================================================
// Path Parser
// ============================================================

// Handles M, m, L, l, H, h, V, v and Z. Curves are not supported.
var commandRe = regexp.MustCompile(`([MmLlHhVvZz])([^MmLlHhVvZz]*)`)

// ParsePath turns SVG path data into a list of points.
func ParsePath(d string) ([]models.Point, error) {
	d = strings.TrimSpace(d)
	if d == "" {
		return nil, fmt.Errorf("empty path")
	}

	var points []models.Point
	var currentX, currentY float64
	subpath := 0 // index of the current subpath's first point

	matches := commandRe.FindAllStringSubmatch(d, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("no path commands in %q", d)
	}

	for _, match := range matches {
		if len(match) < 2 {
			continue
		}

		cmd := match[1]
		args := strings.TrimSpace(match[2])

		switch cmd {
		case "M", "m", "L", "l": // MoveTo / LineTo; extra pairs are implicit LineTo
			coords := parseCoords(args)
			relative := cmd == "m" || cmd == "l"
			for i := 0; i+1 < len(coords); i += 2 {
				if relative {
					currentX += coords[i]
					currentY += coords[i+1]
				} else {
					currentX, currentY = coords[i], coords[i+1]
				}
				if i == 0 && (cmd == "M" || cmd == "m") {
					subpath = len(points)
				}
				points = append(points, models.Point{X: currentX, Y: currentY})
			}

		case "H": // Horizontal line absolute
			coords := parseCoords(args)
			if len(coords) >= 1 {
				currentX = coords[0]
				points = append(points, models.Point{X: currentX, Y: currentY})
			}

		case "h": // Horizontal line relative
			coords := parseCoords(args)
			if len(coords) >= 1 {
				currentX += coords[0]
				points = append(points, models.Point{X: currentX, Y: currentY})
			}

		case "V": // Vertical line absolute
			coords := parseCoords(args)
			if len(coords) >= 1 {
				currentY = coords[0]
				points = append(points, models.Point{X: currentX, Y: currentY})
			}

		case "v": // Vertical line relative
			coords := parseCoords(args)
			if len(coords) >= 1 {
				currentY += coords[0]
				points = append(points, models.Point{X: currentX, Y: currentY})
			}

		case "Z", "z": // Close path
			// close back to the subpath start
			if len(points) > subpath {
				first := points[subpath]
				points = append(points, first)
				currentX, currentY = first.X, first.Y
			}
		}
	}

	return points, nil
}

func parseCoords(s string) []float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	// separators are commas or whitespace
	s = strings.ReplaceAll(s, ",", " ")
	parts := strings.Fields(s)

	var coords []float64
	for _, part := range parts {
		val, err := strconv.ParseFloat(part, 64)
		if err == nil {
			coords = append(coords, val)
		}
	}

	return coords
}
