package classify

import "venue-wayfinding/internal/wayfinding/models"

// ============================================================
// Built-in rules
// ============================================================

// defaultGeneric are object types whose label and tags decide the role.
var defaultGeneric = []string{"", "infrastructure", "custom", "shape", "rect", "icon", "door", "other"}

var defaultRules = []Rule{
	{Kind: KindNode, Role: models.RoleEntrance, Types: []string{"entrance"}, Keywords: []string{"entrance", "entry", "gate"}},
	{Kind: KindNode, Role: models.RoleExit, Types: []string{"exit"}, Keywords: []string{"exit"}},
	{Kind: KindNode, Role: models.RoleElevator, Types: []string{"elevator", "lift"}, Keywords: []string{"elevator", "lift"}},
	{Kind: KindNode, Role: models.RoleStairs, Types: []string{"stairs", "staircase", "escalator"}, Keywords: []string{"stairs", "staircase", "escalator"}, Inaccessible: true},
	{Kind: KindNode, Role: models.RoleWaypoint, Types: []string{"waypoint"}},
	{Kind: KindObstacle, Types: []string{"wall", "booth", "furniture", "column", "pillar", "stage", "table", "infrastructure"}},
	{Kind: KindZone, Types: []string{"zone", "aisle", "carpet", "room", "area", "door"}},
	{Kind: KindIgnore, Types: []string{"text", "label", "marker", "image", "line"}},
}

