package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venue-wayfinding/internal/wayfinding/models"
)

func twoFloors() []models.Floor {
	return []models.Floor{
		{ID: "f1", Name: "Ground", Level: 0, ScalePxPerM: 1},
		{ID: "f2", Name: "Upper", Level: 1, ScalePxPerM: 1},
	}
}

func TestArena_ExplicitLinks(t *testing.T) {
	nodes := []models.NavNode{
		{ID: "a", FloorID: "f1", Role: models.RoleEntrance, Accessible: true},
		{ID: "e1", FloorID: "f1", X: 5, Role: models.RoleElevator, Accessible: true},
		{ID: "e2", FloorID: "f2", X: 5, Role: models.RoleElevator, Accessible: true},
		{ID: "b", FloorID: "f2", X: 10, Accessible: true},
	}
	edges := []models.NavEdge{
		{ID: "x1", FromNodeID: "a", ToNodeID: "e1", DistanceM: 5, Accessible: true, Bidirectional: true, WeightModifier: 1},
		{ID: "x2", FromNodeID: "e2", ToNodeID: "b", DistanceM: 5, Accessible: true, Bidirectional: true, WeightModifier: 1},
	}
	links := []models.CrossFloorLink{
		{FromNodeID: "e1", ToNodeID: "e2"},
		{FromNodeID: "e2", ToNodeID: "e1"},
		{FromNodeID: "e1", ToNodeID: "ghost"},
		{FromNodeID: "a", ToNodeID: "e1"},
	}

	arena, err := NewGenerator(nil).BuildArena(twoFloors(), nil, nodes, edges, links)
	require.NoError(t, err)

	got := arena.Links()
	require.Len(t, got, 1, "reversed duplicate collapses")
	assert.Equal(t, models.RoleElevator, got[0].Role)

	dangling := arena.Dangling()
	require.Len(t, dangling, 2)
	assert.Equal(t, "missing node", dangling[0].Reason)
	assert.Equal(t, "same floor", dangling[1].Reason)

	assert.Len(t, arena.Nodes(), 4)
	assert.Len(t, arena.Edges(), 2)
	assert.False(t, arena.Empty())

	n, ok := arena.Node("e2")
	require.True(t, ok)
	assert.Equal(t, "f2", n.FloorID)
}

func TestArena_AuthoredNodeLinks(t *testing.T) {
	nodes := []models.NavNode{
		{ID: "s1", FloorID: "f1", Role: models.RoleStairs, LinkedNodeID: "s2"},
		{ID: "w1", FloorID: "f1", X: 1, Accessible: true},
		{ID: "s2", FloorID: "f2", Role: models.RoleWaypoint, LinkedNodeID: "s1"},
		{ID: "w2", FloorID: "f2", X: 1, Accessible: true},
	}
	edges := []models.NavEdge{
		{FromNodeID: "s1", ToNodeID: "w1", DistanceM: 1, Bidirectional: true},
		{FromNodeID: "s2", ToNodeID: "w2", DistanceM: 1, Bidirectional: true},
	}

	arena, err := NewGenerator(nil).BuildArena(twoFloors(), nil, nodes, edges, nil)
	require.NoError(t, err)

	got := arena.Links()
	require.Len(t, got, 1)
	assert.Equal(t, models.RoleStairs, got[0].Role, "stairs on either side makes the link stairs")
	assert.Empty(t, arena.Dangling())
}

func TestArena_ObjectMetadataLinks(t *testing.T) {
	objects := []models.PlacedObject{
		{ID: "lift-g", FloorID: "f1", Type: "elevator", X: 5, Y: 5, Metadata: map[string]any{"linked_floor_id": "f2", "linked_object_id": "lift-u"}},
		{ID: "door", FloorID: "f1", Type: "entrance", X: 0, Y: 5},
		{ID: "lift-u", FloorID: "f2", Type: "elevator", X: 5, Y: 5, Metadata: map[string]any{"linked_floor_id": "f1", "linked_object_id": "lift-g"}},
		{ID: "booth", FloorID: "f2", Type: "booth", X: 20, Y: 0, Width: 4, Height: 4, Metadata: map[string]any{"linked_object_id": "door"}},
	}

	arena, err := NewGenerator(nil).BuildArena(twoFloors(), objects, nil, nil, nil)
	require.NoError(t, err)

	got := arena.Links()
	require.Len(t, got, 1)
	assert.Equal(t, "auto-f1-0", got[0].FromNodeID)
	assert.Equal(t, "auto-f2-0", got[0].ToNodeID)
	assert.Equal(t, models.RoleElevator, got[0].Role)

	dangling := arena.Dangling()
	require.Len(t, dangling, 1, "obstacles never get a node to link")
	assert.Equal(t, "booth", dangling[0].FromID)

	g, ok := arena.Graph("f2")
	require.True(t, ok)
	assert.True(t, g.Generated)
}

func TestArena_Empty(t *testing.T) {
	arena, err := NewGenerator(nil).BuildArena(twoFloors(), nil, nil, nil, nil)
	require.NoError(t, err)
	assert.True(t, arena.Empty())
	assert.Empty(t, arena.Links())

	_, ok := arena.Floor("f3")
	assert.False(t, ok)
	f, ok := arena.Floor("f2")
	require.True(t, ok)
	assert.Equal(t, "Upper", f.Name)
}
