// Package directions turns a walked polyline into turn-by-turn steps.
//
// Points are metres in drawing orientation: x grows east, y grows south.
package directions

import (
	"fmt"
	"math"
	"strconv"

	"venue-wayfinding/internal/wayfinding/models"
)

const minLegM = 1e-6

type Config struct {
	WalkingSpeedMPS float64 `toml:"walking_speed_mps"`
	StraightDeg     float64 `toml:"straight_deg"` // below: keep going
	SlightDeg       float64 `toml:"slight_deg"`   // below: bear left/right
	TurnDeg         float64 `toml:"turn_deg"`     // up to: turn; above: u-turn
}

func DefaultConfig() Config {
	return Config{
		WalkingSpeedMPS: 1.4,
		StraightDeg:     20,
		SlightDeg:       45,
		TurnDeg:         135,
	}
}

// Summary is the composed result for one point sequence.
type Summary struct {
	Steps                []models.DirectionStep
	TotalDistanceM       float64
	EstimatedTimeSeconds float64
	FormattedTime        string
}

type Composer struct {
	cfg Config
}

// NewComposer fills unset config fields from DefaultConfig.
func NewComposer(cfg Config) *Composer {
	def := DefaultConfig()
	if cfg.WalkingSpeedMPS <= 0 {
		cfg.WalkingSpeedMPS = def.WalkingSpeedMPS
	}
	if cfg.StraightDeg <= 0 {
		cfg.StraightDeg = def.StraightDeg
	}
	if cfg.SlightDeg <= cfg.StraightDeg {
		cfg.SlightDeg = math.Max(def.SlightDeg, cfg.StraightDeg)
	}
	if cfg.TurnDeg <= cfg.SlightDeg {
		cfg.TurnDeg = math.Max(def.TurnDeg, cfg.SlightDeg)
	}
	return &Composer{cfg: cfg}
}

func (c *Composer) Config() Config {
	return c.cfg
}

// ============================================================
// Compose
// ============================================================

// Compose walks consecutive legs and emits a depart step, one step per
// change of direction and an arrive step. Straight legs lengthen the step
// before them; consecutive slight bends to the same side are one step.
func (c *Composer) Compose(points []models.Point) Summary {
	pts := dedupe(points)
	if len(pts) < 2 {
		return Summary{
			Steps:         []models.DirectionStep{arrive()},
			FormattedTime: FormatTime(0),
		}
	}

	var total float64
	first := pts[1].DistanceTo(pts[0])
	total += first
	steps := []models.DirectionStep{{Direction: models.DirDepart, DistanceM: first}}
	heading := compass(pts[0], pts[1])

	for i := 1; i < len(pts)-1; i++ {
		leg := pts[i+1].DistanceTo(pts[i])
		total += leg
		dir := c.classify(pts[i-1], pts[i], pts[i+1])
		last := &steps[len(steps)-1]
		switch {
		case dir == models.DirStraight:
			last.DistanceM += leg
		case (dir == models.DirSlightLeft || dir == models.DirSlightRight) && last.Direction == dir:
			last.DistanceM += leg
		default:
			steps = append(steps, models.DirectionStep{Direction: dir, DistanceM: leg})
		}
	}

	for i := range steps {
		steps[i].Instruction = instruction(steps[i], heading)
	}
	steps = append(steps, arrive())

	secs := c.Estimate(total)
	return Summary{
		Steps:                steps,
		TotalDistanceM:       total,
		EstimatedTimeSeconds: secs,
		FormattedTime:        FormatTime(secs),
	}
}

// Estimate returns whole walking seconds for a distance.
func (c *Composer) Estimate(distanceM float64) float64 {
	if distanceM <= 0 {
		return 0
	}
	return math.Round(distanceM / c.cfg.WalkingSpeedMPS)
}

// Transition is the closing step of a segment that ends at a floor change.
func (c *Composer) Transition(via models.NodeRole, to models.Floor) models.DirectionStep {
	what := "elevator"
	if via == models.RoleStairs {
		what = "stairs"
	}
	return models.DirectionStep{
		Instruction: fmt.Sprintf("Take the %s to %s", what, to.DisplayName()),
		Direction:   models.DirTransition,
	}
}

// classify names the bend at b between legs a-b and b-c. With y growing
// downward a positive cross product is a clockwise, i.e. right, turn.
func (c *Composer) classify(a, b, p models.Point) models.Direction {
	ux, uy := b.X-a.X, b.Y-a.Y
	vx, vy := p.X-b.X, p.Y-b.Y
	cross := ux*vy - uy*vx
	dot := ux*vx + uy*vy
	deg := math.Abs(math.Atan2(cross, dot)) * 180 / math.Pi
	right := cross > 0

	switch {
	case deg < c.cfg.StraightDeg:
		return models.DirStraight
	case deg < c.cfg.SlightDeg:
		if right {
			return models.DirSlightRight
		}
		return models.DirSlightLeft
	case deg <= c.cfg.TurnDeg:
		if right {
			return models.DirRight
		}
		return models.DirLeft
	default:
		return models.DirUTurn
	}
}

// ============================================================
// Text
// ============================================================

func arrive() models.DirectionStep {
	return models.DirectionStep{Instruction: "Arrive at your destination", Direction: models.DirArrive}
}

func instruction(s models.DirectionStep, heading string) string {
	d := FormatDistance(s.DistanceM)
	switch s.Direction {
	case models.DirDepart:
		return fmt.Sprintf("Head %s for %s", heading, d)
	case models.DirSlightLeft:
		return fmt.Sprintf("Bear left and continue for %s", d)
	case models.DirSlightRight:
		return fmt.Sprintf("Bear right and continue for %s", d)
	case models.DirLeft:
		return fmt.Sprintf("Turn left and continue for %s", d)
	case models.DirRight:
		return fmt.Sprintf("Turn right and continue for %s", d)
	case models.DirUTurn:
		return fmt.Sprintf("Make a U-turn and continue for %s", d)
	default:
		return fmt.Sprintf("Continue straight for %s", d)
	}
}

var compassPoints = [...]string{"north", "northeast", "east", "southeast", "south", "southwest", "west", "northwest"}

func compass(from, to models.Point) string {
	deg := math.Atan2(to.X-from.X, from.Y-to.Y) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return compassPoints[int(math.Round(deg/45))%len(compassPoints)]
}

// FormatDistance renders whole metres from 10 m up and one decimal below.
func FormatDistance(m float64) string {
	if m >= 10 {
		return strconv.FormatFloat(math.Round(m), 'f', -1, 64) + " m"
	}
	return strconv.FormatFloat(math.Round(m*10)/10, 'f', -1, 64) + " m"
}

// FormatTime renders seconds under a minute as "N sec", otherwise rounded
// minutes as "N min".
func FormatTime(seconds float64) string {
	if seconds < 60 {
		return strconv.Itoa(int(math.Round(seconds))) + " sec"
	}
	return strconv.Itoa(int(math.Round(seconds/60))) + " min"
}

func dedupe(points []models.Point) []models.Point {
	out := make([]models.Point, 0, len(points))
	for _, p := range points {
		if len(out) > 0 && out[len(out)-1].DistanceTo(p) < minLegM {
			continue
		}
		out = append(out, p)
	}
	return out
}
