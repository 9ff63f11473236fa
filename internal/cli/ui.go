package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"venue-wayfinding/internal/wayfinding/directions"
	"venue-wayfinding/internal/wayfinding/models"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

// =============================================================================
// Styles
// =============================================================================

var (
	styleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleFloor     = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	styleStep      = lipgloss.NewStyle().Foreground(colorWhite)
	styleDistance  = lipgloss.NewStyle().Foreground(colorGray)
	styleDim       = lipgloss.NewStyle().Foreground(colorDim)
	styleArrive    = lipgloss.NewStyle().Foreground(colorGreen)
	styleTransfer  = lipgloss.NewStyle().Foreground(colorYellow)
	styleKey       = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
)

// =============================================================================
// Icons
// =============================================================================

var stepIcons = map[models.Direction]string{
	models.DirDepart:      "●",
	models.DirStraight:    "↑",
	models.DirSlightLeft:  "↖",
	models.DirSlightRight: "↗",
	models.DirLeft:        "←",
	models.DirRight:       "→",
	models.DirUTurn:       "↶",
	models.DirTransition:  "⇅",
	models.DirArrive:      "◎",
}

// =============================================================================
// Route Output
// =============================================================================

// printRoute renders directions grouped by floor.
func printRoute(w io.Writer, v *models.Venue, target models.PlacedObject, route *models.Route) {
	title := target.Label
	if title == "" {
		title = target.ID
	}
	fmt.Fprintln(w, styleTitle.Render("Route to "+title))
	fmt.Fprintln(w, styleDim.Render(fmt.Sprintf("%s · %s",
		directions.FormatDistance(route.TotalDistanceM), route.FormattedTime)))

	step := 1
	for _, seg := range route.Segments {
		name := seg.FloorID
		if f, ok := v.Floor(seg.FloorID); ok {
			name = f.DisplayName()
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, styleFloor.Render(name))
		for _, d := range seg.Directions {
			fmt.Fprintf(w, "%3d  %s\n", step, renderStep(d))
			step++
		}
	}
}

func renderStep(d models.DirectionStep) string {
	icon := stepIcons[d.Direction]
	text := styleStep.Render(d.Instruction)
	switch d.Direction {
	case models.DirArrive:
		text = styleArrive.Render(d.Instruction)
	case models.DirTransition:
		text = styleTransfer.Render(d.Instruction)
	}
	return styleHighlight.Render(icon) + " " + text
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleKey.Render(key)+" "+styleStep.Render(value))
}

func printNoRoute(w io.Writer, reason string) {
	fmt.Fprintln(w, styleTransfer.Render("No route: ")+reason)
}

// floorName shows the display name of a floor, falling back to the id.
func floorName(v *models.Venue, id string) string {
	if f, ok := v.Floor(id); ok {
		return f.DisplayName()
	}
	return id
}

func fmtPoint(x, y float64) string {
	return styleDistance.Render(fmt.Sprintf("(%.1f, %.1f)", x, y))
}
