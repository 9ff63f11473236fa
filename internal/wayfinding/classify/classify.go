// Package classify labels floor plan objects with the semantic role they
// play in navigation: a dedicated graph node (entrance, exit, elevator,
// stairs, waypoint), an obstacle to route around, or a walkable zone.
package classify

import (
	"fmt"
	"slices"
	"strings"

	"venue-wayfinding/internal/wayfinding/models"
)

// ============================================================
// Classification
// ============================================================

type Kind int

const (
	// KindIgnore objects take no part in graph generation.
	KindIgnore Kind = iota
	// KindNode objects become one dedicated NavNode at their center.
	KindNode
	// KindObstacle footprints block visibility edges.
	KindObstacle
	// KindZone footprints are walkable; inaccessible zones taint edges crossing them.
	KindZone
)

func (k Kind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindObstacle:
		return "obstacle"
	case KindZone:
		return "zone"
	}
	return "ignore"
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "node":
		return KindNode, nil
	case "obstacle":
		return KindObstacle, nil
	case "zone":
		return KindZone, nil
	case "ignore", "":
		return KindIgnore, nil
	}
	return KindIgnore, fmt.Errorf("unknown classification kind %q", s)
}

type Classification struct {
	Kind       Kind
	Role       models.NodeRole
	Accessible bool
}

// Classifier is the single seam between keyword heuristics and graph construction.
type Classifier interface {
	Classify(obj models.PlacedObject) Classification
}

// ============================================================
// Rule table
// ============================================================

// Rule matches an object by explicit type or by keyword. Keywords are
// matched as substrings of the label and as whole tags.
type Rule struct {
	Kind         Kind
	Role         models.NodeRole
	Types        []string
	Keywords     []string
	Inaccessible bool
}

type RuleTable struct {
	rules []Rule
	// generic types allow keyword matching; other explicit types are trusted as-is.
	generic []string
}

// New builds a table from rules evaluated in order.
func New(rules ...Rule) *RuleTable {
	t := &RuleTable{generic: slices.Clone(defaultGeneric)}
	for _, r := range rules {
		t.rules = append(t.rules, normalize(r))
	}
	return t
}

// Default returns the built-in rule table.
func Default() *RuleTable {
	return New(defaultRules...)
}

// With returns a copy of t with extra rules evaluated before the existing ones.
func (t *RuleTable) With(extra ...Rule) *RuleTable {
	out := &RuleTable{generic: slices.Clone(t.generic)}
	for _, r := range extra {
		out.rules = append(out.rules, normalize(r))
	}
	out.rules = append(out.rules, t.rules...)
	return out
}

func (t *RuleTable) Rules() []Rule {
	return slices.Clone(t.rules)
}

func (t *RuleTable) Classify(obj models.PlacedObject) Classification {
	typ := strings.ToLower(strings.TrimSpace(obj.Type))
	label := strings.ToLower(obj.Label)
	tags := obj.Tags()

	var (
		rule Rule
		ok   bool
	)
	if slices.Contains(t.generic, typ) {
		rule, ok = t.byKeyword(label, tags)
	}
	if !ok {
		rule, ok = t.byType(typ)
	}

	var c Classification
	switch {
	case ok:
		c = Classification{Kind: rule.Kind, Role: rule.Role, Accessible: !rule.Inaccessible}
	case hasFootprint(obj):
		c = Classification{Kind: KindObstacle, Accessible: true}
	default:
		c = Classification{Kind: KindIgnore, Accessible: true}
	}

	if slices.Contains(tags, "inaccessible") {
		c.Accessible = false
	}
	if v, present := obj.MetaBool("accessible"); present {
		c.Accessible = v
	}
	return c
}

func (t *RuleTable) byType(typ string) (Rule, bool) {
	if typ == "" {
		return Rule{}, false
	}
	for _, r := range t.rules {
		if slices.Contains(r.Types, typ) {
			return r, true
		}
	}
	return Rule{}, false
}

func (t *RuleTable) byKeyword(label string, tags []string) (Rule, bool) {
	for _, r := range t.rules {
		for _, kw := range r.Keywords {
			if label != "" && strings.Contains(label, kw) {
				return r, true
			}
			if slices.Contains(tags, kw) {
				return r, true
			}
		}
	}
	return Rule{}, false
}

func normalize(r Rule) Rule {
	out := r
	out.Types = lowerAll(r.Types)
	out.Keywords = lowerAll(r.Keywords)
	return out
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(strings.TrimSpace(s)))
	}
	return out
}

func hasFootprint(obj models.PlacedObject) bool {
	if len(obj.Points) >= 2 {
		return true
	}
	return obj.Width > 0 && obj.Height > 0
}
