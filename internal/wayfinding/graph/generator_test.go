package graph

import (
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venue-wayfinding/internal/wayfinding/classify"
	"venue-wayfinding/internal/wayfinding/models"
)

func hasEdge(g *FloorGraph, a, b string) (models.NavEdge, bool) {
	for _, e := range g.Edges {
		if (e.FromNodeID == a && e.ToNodeID == b) || (e.FromNodeID == b && e.ToNodeID == a) {
			return e, true
		}
	}
	return models.NavEdge{}, false
}

func entrance(id string, x, y float64) models.PlacedObject {
	return models.PlacedObject{ID: id, FloorID: "f1", Type: "entrance", X: x, Y: y, Label: id}
}

func TestGenerate_EmptyFloor(t *testing.T) {
	g, err := NewGenerator(nil).Generate("f1", nil, 20)
	require.NoError(t, err)
	assert.Empty(t, g.Nodes)
	assert.Empty(t, g.Edges)
	assert.True(t, g.Generated)
}

func TestGenerate_InvalidScale(t *testing.T) {
	gen := NewGenerator(nil)
	for _, scale := range []float64{0, -1} {
		_, err := gen.Generate("f1", nil, scale)
		assert.ErrorIs(t, err, ErrInvalidScale)
	}
}

func TestGenerate_RoutesAroundBooth(t *testing.T) {
	objects := []models.PlacedObject{
		entrance("a", 0, 5),
		{ID: "booth", FloorID: "f1", Type: "booth", X: 8, Y: 0, Width: 4, Height: 10, Label: "Acme"},
		entrance("b", 20, 5),
	}

	g, err := NewGenerator(nil).Generate("f1", objects, 1)
	require.NoError(t, err)
	require.Len(t, g.Nodes, 6)

	assert.Equal(t, "auto-f1-0", g.Nodes[0].ID)
	assert.Equal(t, models.RoleEntrance, g.Nodes[0].Role)
	assert.Equal(t, "a", g.Nodes[0].MetaString("object_id"))
	assert.Equal(t, "auto-f1-5", g.Nodes[5].ID)

	// corner waypoints sit diagonally off the booth by the clearance
	assert.InDelta(t, 7.5, g.Nodes[1].X, 1e-9)
	assert.InDelta(t, -0.5, g.Nodes[1].Y, 1e-9)

	_, direct := hasEdge(g, "auto-f1-0", "auto-f1-5")
	assert.False(t, direct, "booth blocks the direct line")

	e, ok := hasEdge(g, "auto-f1-0", "auto-f1-1")
	require.True(t, ok)
	assert.True(t, e.Bidirectional)
	assert.Equal(t, 1.0, e.WeightModifier)
	assert.True(t, e.Accessible)
	assert.InDelta(t, models.Point{X: 0, Y: 5}.DistanceTo(models.Point{X: 7.5, Y: -0.5}), e.DistanceM, 1e-9)

	for i, e := range g.Edges {
		assert.Equal(t, "auto-edge-f1-"+strconv.Itoa(i), e.ID)
	}
}

func TestGenerate_ConvertsDrawingUnits(t *testing.T) {
	objects := []models.PlacedObject{entrance("a", 0, 0), entrance("b", 200, 0)}

	g, err := NewGenerator(nil).Generate("f1", objects, 20)
	require.NoError(t, err)
	require.Len(t, g.Edges, 1)
	assert.InDelta(t, 10.0, g.Edges[0].DistanceM, 1e-9)
	assert.InDelta(t, 10.0, g.Nodes[1].X, 1e-9)
}

func TestGenerate_Deterministic(t *testing.T) {
	objects := []models.PlacedObject{
		entrance("a", 0, 5),
		{ID: "b1", FloorID: "f1", Type: "booth", X: 8, Y: 0, Width: 4, Height: 10},
		{ID: "b2", FloorID: "f1", Type: "booth", X: 14, Y: 2, Width: 3, Height: 3, Rotation: 30},
		{ID: "w", FloorID: "f1", Type: "wall", Points: []models.Point{{X: 0, Y: 12}, {X: 20, Y: 12}}},
		entrance("c", 25, 5),
	}
	gen := NewGenerator(nil)

	first, err := gen.Generate("f1", objects, 1)
	require.NoError(t, err)
	second, err := gen.Generate("f1", objects, 1)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("graphs differ (-first +second):\n%s", diff)
	}
}

func TestGenerate_DropsBuriedWaypoints(t *testing.T) {
	objects := []models.PlacedObject{
		{ID: "small", FloorID: "f1", Type: "booth", X: 0, Y: 0, Width: 10, Height: 10},
		{ID: "big", FloorID: "f1", Type: "booth", X: 9, Y: -5, Width: 10, Height: 20},
	}

	g, err := NewGenerator(nil).Generate("f1", objects, 1)
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 6, "two corners of the small booth are inside the big one")
}

func TestGenerate_MergesCoincidentWaypoints(t *testing.T) {
	booth := models.PlacedObject{ID: "x", FloorID: "f1", Type: "booth", X: 0, Y: 0, Width: 4, Height: 4}
	dup := booth
	dup.ID = "y"

	g, err := NewGenerator(nil).Generate("f1", []models.PlacedObject{booth, dup}, 1)
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 4)
}

func TestGenerate_WallPolylineBlocks(t *testing.T) {
	objects := []models.PlacedObject{
		entrance("a", 0, 0),
		{ID: "w", FloorID: "f1", Type: "wall", Points: []models.Point{{X: 10, Y: -10}, {X: 10, Y: 10}}},
		entrance("b", 20, 0),
	}

	g, err := NewGenerator(nil).Generate("f1", objects, 1)
	require.NoError(t, err)
	_, direct := hasEdge(g, "auto-f1-0", g.Nodes[len(g.Nodes)-1].ID)
	assert.False(t, direct)
}

func TestGenerate_Accessibility(t *testing.T) {
	t.Run("inaccessible zone taints crossing edges", func(t *testing.T) {
		objects := []models.PlacedObject{
			entrance("a", 0, 5),
			{ID: "steps", FloorID: "f1", Type: "zone", X: 8, Y: 0, Width: 4, Height: 10, Metadata: map[string]any{"tags": []any{"inaccessible"}}},
			entrance("b", 20, 5),
		}
		g, err := NewGenerator(nil).Generate("f1", objects, 1)
		require.NoError(t, err)
		require.Len(t, g.Nodes, 2)

		e, ok := hasEdge(g, "auto-f1-0", "auto-f1-1")
		require.True(t, ok, "zones never block")
		assert.False(t, e.Accessible)
	})

	t.Run("stairs nodes", func(t *testing.T) {
		objects := []models.PlacedObject{
			entrance("a", 0, 0),
			{ID: "s", FloorID: "f1", Type: "stairs", X: 10, Y: 0},
		}
		g, err := NewGenerator(nil).Generate("f1", objects, 1)
		require.NoError(t, err)
		require.Len(t, g.Edges, 1)
		assert.False(t, g.Nodes[1].Accessible)
		assert.False(t, g.Edges[0].Accessible)
	})
}

func TestGenerate_CustomClassifier(t *testing.T) {
	rules := classify.Default().With(classify.Rule{Kind: classify.KindNode, Role: models.RoleEntrance, Types: []string{"turnstile"}})
	objects := []models.PlacedObject{
		{ID: "t", FloorID: "f1", Type: "turnstile", X: 1, Y: 1, Width: 1, Height: 1},
	}

	g, err := NewGenerator(rules).Generate("f1", objects, 1)
	require.NoError(t, err)
	require.Len(t, g.Nodes, 1)
	assert.Equal(t, models.RoleEntrance, g.Nodes[0].Role)
}

func TestBuild(t *testing.T) {
	floor := models.Floor{ID: "f1", Level: 1}
	nodes := []models.NavNode{
		{ID: "n1", FloorID: "f1", Accessible: true},
		{ID: "n2", FloorID: "f1", X: 3, Accessible: true},
		{ID: "m1", FloorID: "f2", Accessible: true},
	}
	edges := []models.NavEdge{
		{ID: "e1", FromNodeID: "n1", ToNodeID: "n2", DistanceM: 3, Accessible: true, WeightModifier: 0},
		{ID: "e2", FromNodeID: "n2", ToNodeID: "m1", DistanceM: 1},
	}
	gen := NewGenerator(nil)

	t.Run("authored graph wins", func(t *testing.T) {
		g, err := gen.Build(floor, []models.PlacedObject{entrance("a", 0, 0)}, nodes, edges)
		require.NoError(t, err)
		assert.False(t, g.Generated)
		assert.Len(t, g.Nodes, 2)
		require.Len(t, g.Edges, 1, "edges leaving the floor are dropped")
		assert.Equal(t, 0.0, g.Edges[0].WeightModifier, "an authored zero modifier is kept")
	})

	t.Run("nodes without edges fall back to generation", func(t *testing.T) {
		objects := []models.PlacedObject{entrance("a", 0, 0), entrance("b", 40, 0)}
		g, err := gen.Build(floor, objects, nodes[:2], nil)
		require.NoError(t, err)
		assert.True(t, g.Generated)
		require.Len(t, g.Edges, 1)
		assert.InDelta(t, 2.0, g.Edges[0].DistanceM, 1e-9, "default scale is 20 units per metre")
	})

	t.Run("negative scale", func(t *testing.T) {
		_, err := gen.Build(models.Floor{ID: "f1", ScalePxPerM: -5}, nil, nil, nil)
		assert.ErrorIs(t, err, ErrInvalidScale)
	})
}
