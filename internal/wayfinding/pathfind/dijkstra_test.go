package pathfind

import (
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venue-wayfinding/internal/wayfinding/models"
)

func node(id string, x, y float64) models.NavNode {
	return models.NavNode{ID: id, FloorID: "f1", X: x, Y: y, Role: models.RoleWaypoint, Accessible: true}
}

func edge(from, to string, d float64) models.NavEdge {
	return models.NavEdge{ID: from + "-" + to, FromNodeID: from, ToNodeID: to, DistanceM: d, Accessible: true, Bidirectional: true, WeightModifier: 1}
}

func ids(path []models.NavNode) []string {
	out := make([]string, len(path))
	for i, n := range path {
		out[i] = n.ID
	}
	return out
}

func TestNearest(t *testing.T) {
	_, ok := Nearest(nil, models.Point{})
	assert.False(t, ok)

	nodes := []models.NavNode{node("a", 0, 0), node("b", 10, 0), node("c", 5, 0)}
	got, ok := Nearest(nodes, models.Point{X: 9, Y: 1})
	require.True(t, ok)
	assert.Equal(t, "b", got.ID)

	got, _ = Nearest(nodes, models.Point{X: 2.5, Y: 0})
	assert.Equal(t, "a", got.ID, "first node wins a tie")

	other := node("z", 9, 1)
	other.FloorID = "f2"
	got, ok = NearestOnFloor(append(nodes, other), "f1", models.Point{X: 9, Y: 1})
	require.True(t, ok)
	assert.Equal(t, "b", got.ID)
}

func TestFindPath_Empty(t *testing.T) {
	_, ok := FindPath(nil, nil, "a", "b")
	assert.False(t, ok)
}

func TestFindPath_Scenario1(t *testing.T) {
	nodes := []models.NavNode{node("a", 0, 0), node("b", 10, 0)}
	path, ok := FindPath(nodes, []models.NavEdge{edge("a", "b", 10)}, "a", "b")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, ids(path))
}

func TestFindPath_SameNode(t *testing.T) {
	path, ok := FindPath([]models.NavNode{node("a", 0, 0)}, nil, "a", "a")
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, ids(path))
}

func TestFindPath_WeightModifier(t *testing.T) {
	nodes := []models.NavNode{node("a", 0, 0), node("b", 10, 0), node("c", 5, 5)}
	stairs := edge("a", "b", 10)
	stairs.WeightModifier = 3
	edges := []models.NavEdge{stairs, edge("a", "c", 7), edge("c", "b", 7)}

	path, ok := FindPath(nodes, edges, "a", "b")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "c", "b"}, ids(path))

	cost, ok := PathCost(path, edges)
	require.True(t, ok)
	assert.InDelta(t, 14.0, cost, 1e-9)
}

func TestFindPath_Directed(t *testing.T) {
	nodes := []models.NavNode{node("a", 0, 0), node("b", 10, 0)}
	oneWay := edge("a", "b", 10)
	oneWay.Bidirectional = false

	_, ok := FindPath(nodes, []models.NavEdge{oneWay}, "a", "b")
	assert.True(t, ok)
	_, ok = FindPath(nodes, []models.NavEdge{oneWay}, "b", "a")
	assert.False(t, ok)
}

func TestFindPath_NegativeEdgesAreSkipped(t *testing.T) {
	nodes := []models.NavNode{node("a", 0, 0), node("b", 10, 0)}
	bad := edge("a", "b", -1)
	_, ok := FindPath(nodes, []models.NavEdge{bad}, "a", "b")
	assert.False(t, ok)
}

func TestFindPath_Scenario4_Accessibility(t *testing.T) {
	nodes := []models.NavNode{node("a", 0, 0), node("b", 10, 0), node("c", 5, 8)}
	short := edge("a", "b", 10)
	short.Accessible = false
	edges := []models.NavEdge{short, edge("a", "c", 9), edge("c", "b", 9)}

	path, ok := FindPath(nodes, edges, "a", "b")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, ids(path))

	path, ok = FindPath(nodes, edges, "a", "b", AccessibleOnly(true))
	require.True(t, ok)
	assert.Equal(t, []string{"a", "c", "b"}, ids(path), "detour around the inaccessible edge")

	_, ok = FindPath(nodes, edges[:1], "a", "b", AccessibleOnly(true))
	assert.False(t, ok, "no accessible alternative")

	blocked := nodes[2]
	blocked.Accessible = false
	_, ok = FindPath([]models.NavNode{nodes[0], nodes[1], blocked}, edges, "a", "b", AccessibleOnly(true))
	assert.False(t, ok, "inaccessible nodes are removed too")
}

func TestFindPath_TieBreakPrefersLowerIDs(t *testing.T) {
	nodes := []models.NavNode{node("start", 0, 0), node("y", 5, 5), node("x", 5, -5), node("goal", 10, 0)}
	edges := []models.NavEdge{
		edge("start", "y", 5), edge("y", "goal", 5),
		edge("start", "x", 5), edge("x", "goal", 5),
	}

	for range 5 {
		path, ok := FindPath(nodes, edges, "start", "goal")
		require.True(t, ok)
		assert.Equal(t, []string{"start", "x", "goal"}, ids(path))
	}

	// input order must not matter
	reversed := []models.NavEdge{edges[3], edges[2], edges[1], edges[0]}
	path, ok := FindPath(nodes, reversed, "start", "goal")
	require.True(t, ok)
	assert.Equal(t, []string{"start", "x", "goal"}, ids(path))
}

// ------------------------------------------------------------------------
// Property checks on random small graphs
// ------------------------------------------------------------------------

func randomGraph(r *rand.Rand, n int, bidirectional bool) ([]models.NavNode, []models.NavEdge) {
	nodes := make([]models.NavNode, n)
	for i := range nodes {
		nodes[i] = node(fmt.Sprintf("n%d", i), r.Float64()*50, r.Float64()*50)
	}
	var edges []models.NavEdge
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j || r.Float64() > 0.35 {
				continue
			}
			e := edge(nodes[i].ID, nodes[j].ID, float64(1+r.IntN(20)))
			e.WeightModifier = float64(1 + r.IntN(3))
			e.Bidirectional = bidirectional || r.IntN(2) == 0
			edges = append(edges, e)
		}
	}
	return nodes, edges
}

// bruteForce enumerates every simple path and returns the cheapest cost.
func bruteForce(nodes []models.NavNode, edges []models.NavEdge, start, goal string) (float64, bool) {
	adj := make(map[string][]models.NavEdge)
	for _, e := range edges {
		adj[e.FromNodeID] = append(adj[e.FromNodeID], e)
		if e.Bidirectional {
			rev := e
			rev.FromNodeID, rev.ToNodeID = e.ToNodeID, e.FromNodeID
			adj[rev.FromNodeID] = append(adj[rev.FromNodeID], rev)
		}
	}
	best := math.Inf(1)
	seen := map[string]bool{start: true}
	var walk func(at string, cost float64)
	walk = func(at string, cost float64) {
		if at == goal {
			best = math.Min(best, cost)
			return
		}
		for _, e := range adj[at] {
			if seen[e.ToNodeID] {
				continue
			}
			seen[e.ToNodeID] = true
			walk(e.ToNodeID, cost+e.Cost())
			seen[e.ToNodeID] = false
		}
	}
	walk(start, 0)
	return best, !math.IsInf(best, 1)
}

func TestFindPath_MatchesBruteForce(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 42))
	for trial := range 200 {
		n := 2 + r.IntN(7)
		nodes, edges := randomGraph(r, n, false)
		start, goal := nodes[0].ID, nodes[n-1].ID

		want, reachable := bruteForce(nodes, edges, start, goal)
		path, ok := FindPath(nodes, edges, start, goal)
		require.Equal(t, reachable, ok, "trial %d", trial)
		if !ok {
			continue
		}

		got, ok := PathCost(path, edges)
		require.True(t, ok, "trial %d: path uses a missing edge", trial)
		assert.InDelta(t, want, got, 1e-9, "trial %d", trial)

		visited := make(map[string]bool)
		for _, nd := range path {
			require.False(t, visited[nd.ID], "trial %d: node %s repeats", trial, nd.ID)
			visited[nd.ID] = true
		}
	}
}

func TestFindPath_Symmetric(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 9))
	for trial := range 100 {
		n := 2 + r.IntN(7)
		nodes, edges := randomGraph(r, n, true)
		a, b := nodes[0].ID, nodes[n-1].ID

		there, ok1 := FindPath(nodes, edges, a, b)
		back, ok2 := FindPath(nodes, edges, b, a)
		require.Equal(t, ok1, ok2, "trial %d", trial)
		if !ok1 {
			continue
		}
		c1, _ := PathCost(there, edges)
		c2, _ := PathCost(back, edges)
		assert.InDelta(t, c1, c2, 1e-9, "trial %d", trial)
	}
}

func TestAccessibleNodes(t *testing.T) {
	nodes := []models.NavNode{
		{ID: "ramp", Accessible: true},
		{ID: "steps", Role: models.RoleStairs},
		{ID: "lift", Role: models.RoleElevator, Accessible: true},
	}
	got := AccessibleNodes(nodes)
	require.Len(t, got, 2)
	assert.Equal(t, "ramp", got[0].ID)
	assert.Equal(t, "lift", got[1].ID)
	assert.Empty(t, AccessibleNodes(nil))
}
