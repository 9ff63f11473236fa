package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"venue-wayfinding/internal/wayfinding/classify"
	"venue-wayfinding/internal/wayfinding/directions"
	"venue-wayfinding/internal/wayfinding/engine"
	"venue-wayfinding/internal/wayfinding/graph"
	"venue-wayfinding/internal/wayfinding/models"
)

// ============================================================
// Engine tunables (TOML)
// ============================================================

// Tunables is the optional engine configuration file:
//
//	[directions]
//	walking_speed_mps = 1.2
//
//	[graph]
//	clearance_m = 0.6
//
//	[transition_costs]
//	elevator = 20
//
//	[[rules]]
//	kind = "node"
//	role = "entrance"
//	types = ["turnstile"]
type Tunables struct {
	Directions      directions.Config  `toml:"directions"`
	Graph           GraphTunables      `toml:"graph"`
	TransitionCosts map[string]float64 `toml:"transition_costs"`
	Rules           []RuleConfig       `toml:"rules"`
}

type GraphTunables struct {
	ClearanceM         float64 `toml:"clearance_m"`
	MergeDistanceM     float64 `toml:"merge_distance_m"`
	WallThicknessM     float64 `toml:"wall_thickness_m"`
	DefaultScalePxPerM float64 `toml:"default_scale_px_per_m"`
}

type RuleConfig struct {
	Kind         string   `toml:"kind"`
	Role         string   `toml:"role"`
	Types        []string `toml:"types"`
	Keywords     []string `toml:"keywords"`
	Inaccessible bool     `toml:"inaccessible"`
}

// LoadTunables reads the TOML file. An empty path yields the defaults.
func LoadTunables(path string) (*Tunables, error) {
	t := &Tunables{Directions: directions.DefaultConfig()}
	if path == "" {
		return t, nil
	}
	md, err := toml.DecodeFile(path, t)
	if err != nil {
		return nil, fmt.Errorf("failed to read tunables %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown tunables keys in %s: %v", path, undecoded)
	}
	return t, nil
}

// Classifier returns the default rule table with the configured rules in front.
func (t *Tunables) Classifier() (*classify.RuleTable, error) {
	extra := make([]classify.Rule, 0, len(t.Rules))
	for i, rc := range t.Rules {
		kind, err := classify.ParseKind(rc.Kind)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		role := models.NodeRole(rc.Role)
		if kind == classify.KindNode && role == "" {
			return nil, fmt.Errorf("rule %d: node rules need a role", i)
		}
		extra = append(extra, classify.Rule{
			Kind:         kind,
			Role:         role,
			Types:        rc.Types,
			Keywords:     rc.Keywords,
			Inaccessible: rc.Inaccessible,
		})
	}
	return classify.Default().With(extra...), nil
}

// Engine assembles a route engine from the tunables.
func (t *Tunables) Engine(logger *log.Logger) (*engine.Engine, error) {
	rules, err := t.Classifier()
	if err != nil {
		return nil, err
	}
	gen := graph.NewGenerator(rules,
		graph.WithClearance(t.Graph.ClearanceM),
		graph.WithMergeDistance(t.Graph.MergeDistanceM),
		graph.WithWallThickness(t.Graph.WallThicknessM),
		graph.WithDefaultScale(t.Graph.DefaultScalePxPerM),
	)
	costs := make(map[models.NodeRole]float64, len(t.TransitionCosts))
	for role, c := range t.TransitionCosts {
		if c < 0 {
			return nil, fmt.Errorf("transition cost for %s must not be negative", role)
		}
		costs[models.NodeRole(role)] = c
	}
	return engine.New(
		engine.WithGenerator(gen),
		engine.WithComposer(directions.NewComposer(t.Directions)),
		engine.WithTransitionCosts(costs),
		engine.WithLogger(logger),
	), nil
}
