package pathfind

import (
	"container/heap"
	"math"
	"slices"
	"strings"

	"venue-wayfinding/internal/wayfinding/models"
)

// costEpsilon absorbs float noise when two paths should cost the same.
const costEpsilon = 1e-9

// ============================================================
// Options
// ============================================================

type Options struct {
	AccessibleOnly  bool
	TransitionCosts map[models.NodeRole]float64
}

type Option func(*Options)

// AccessibleOnly removes every node and edge not flagged accessible.
func AccessibleOnly(on bool) Option {
	return func(o *Options) {
		o.AccessibleOnly = on
	}
}

// WithTransitionCosts overrides the fixed cost of a floor change per role.
// Negative costs are ignored.
func WithTransitionCosts(costs map[models.NodeRole]float64) Option {
	return func(o *Options) {
		for role, c := range costs {
			if c >= 0 {
				o.TransitionCosts[role] = c
			}
		}
	}
}

// DefaultTransitionCosts are metre-equivalent penalties for a floor change.
func DefaultTransitionCosts() map[models.NodeRole]float64 {
	return map[models.NodeRole]float64{
		models.RoleElevator: 15,
		models.RoleStairs:   10,
	}
}

func buildOptions(opts []Option) Options {
	cfg := Options{TransitionCosts: DefaultTransitionCosts()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// ============================================================
// Network
// ============================================================

type arc struct {
	to       string
	cost     float64
	distance float64
	via      models.NodeRole // set on floor transitions only
}

// network is the adjacency view searched by the runner. Arcs are sorted by
// target id so relaxation order never depends on input order.
type network struct {
	nodes map[string]models.NavNode
	adj   map[string][]arc
}

func newNetwork(nodes []models.NavNode, edges []models.NavEdge, cfg Options) *network {
	n := &network{
		nodes: make(map[string]models.NavNode, len(nodes)),
		adj:   make(map[string][]arc, len(nodes)),
	}
	for _, node := range nodes {
		if cfg.AccessibleOnly && !node.Accessible {
			continue
		}
		n.nodes[node.ID] = node
	}
	for _, e := range edges {
		if cfg.AccessibleOnly && !e.Accessible {
			continue
		}
		if e.DistanceM < 0 || e.WeightModifier < 0 || math.IsNaN(e.Cost()) {
			continue
		}
		n.connect(e.FromNodeID, e.ToNodeID, arc{cost: e.Cost(), distance: e.DistanceM})
		if e.Bidirectional {
			n.connect(e.ToNodeID, e.FromNodeID, arc{cost: e.Cost(), distance: e.DistanceM})
		}
	}
	for id := range n.adj {
		sortArcs(n.adj[id])
	}
	return n
}

func sortArcs(arcs []arc) {
	slices.SortStableFunc(arcs, func(a, b arc) int {
		return strings.Compare(a.to, b.to)
	})
}

func (n *network) connect(from, to string, a arc) {
	if _, ok := n.nodes[from]; !ok {
		return
	}
	if _, ok := n.nodes[to]; !ok {
		return
	}
	a.to = to
	n.adj[from] = append(n.adj[from], a)
}

// arcBetween returns the cheapest arc from u to v.
func (n *network) arcBetween(u, v string) (arc, bool) {
	var best arc
	found := false
	for _, a := range n.adj[u] {
		if a.to == v && (!found || a.cost < best.cost) {
			best, found = a, true
		}
	}
	return best, found
}

// ============================================================
// Runner
// ============================================================

// runner holds the mutable state of one search.
type runner struct {
	net     *network
	dist    map[string]float64
	prev    map[string]string
	visited map[string]bool
	pq      nodePQ
}

// shortest returns the node ids of the cheapest path from start to goal.
// Among equal-cost paths the one whose predecessors have the lowest ids wins.
func (n *network) shortest(start, goal string) ([]string, float64, bool) {
	if _, ok := n.nodes[start]; !ok {
		return nil, 0, false
	}
	if _, ok := n.nodes[goal]; !ok {
		return nil, 0, false
	}
	if start == goal {
		return []string{start}, 0, true
	}

	r := &runner{
		net:     n,
		dist:    map[string]float64{start: 0},
		prev:    make(map[string]string),
		visited: make(map[string]bool),
	}
	heap.Init(&r.pq)
	heap.Push(&r.pq, &nodeItem{id: start, dist: 0})

	for r.pq.Len() > 0 {
		item := heap.Pop(&r.pq).(*nodeItem)
		u := item.id
		if r.visited[u] {
			continue
		}
		r.visited[u] = true
		if u == goal {
			break
		}
		r.relax(u)
	}

	if !r.visited[goal] {
		return nil, 0, false
	}
	path := []string{goal}
	for cur := goal; cur != start; {
		cur = r.prev[cur]
		path = append(path, cur)
	}
	slices.Reverse(path)
	return path, r.dist[goal], true
}

func (r *runner) relax(u string) {
	for _, a := range r.net.adj[u] {
		v := a.to
		if r.visited[v] {
			continue
		}
		candidate := r.dist[u] + a.cost
		best, seen := r.dist[v]
		switch {
		case !seen || candidate < best-costEpsilon:
			r.dist[v] = candidate
			r.prev[v] = u
			heap.Push(&r.pq, &nodeItem{id: v, dist: candidate})
		case math.Abs(candidate-best) <= costEpsilon && u < r.prev[v]:
			r.prev[v] = u
		}
	}
}

// ============================================================
// Priority queue
// ============================================================

type nodeItem struct {
	id   string
	dist float64
}

// nodePQ is a min-heap ordered by (dist, id).
type nodePQ []*nodeItem

func (pq nodePQ) Len() int { return len(pq) }

func (pq nodePQ) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}
	return pq[i].id < pq[j].id
}

func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *nodePQ) Push(x any) { *pq = append(*pq, x.(*nodeItem)) }

func (pq *nodePQ) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}

// ============================================================
// Single floor
// ============================================================

// FindPath returns the cheapest path from startID to goalID, minimising
// distance times weight modifier. ok is false when either id is unknown or
// the two are disconnected under the active filter.
func FindPath(nodes []models.NavNode, edges []models.NavEdge, startID, goalID string, opts ...Option) ([]models.NavNode, bool) {
	net := newNetwork(nodes, edges, buildOptions(opts))
	ids, _, ok := net.shortest(startID, goalID)
	if !ok {
		return nil, false
	}
	path := make([]models.NavNode, len(ids))
	for i, id := range ids {
		path[i] = net.nodes[id]
	}
	return path, true
}

// PathCost sums edge costs along path using the cheapest usable edge for each
// hop. ok is false when a hop has no edge.
func PathCost(path []models.NavNode, edges []models.NavEdge, opts ...Option) (float64, bool) {
	net := newNetwork(path, edges, buildOptions(opts))
	var total float64
	for i := 1; i < len(path); i++ {
		a, ok := net.arcBetween(path[i-1].ID, path[i].ID)
		if !ok {
			return 0, false
		}
		total += a.cost
	}
	return total, true
}
