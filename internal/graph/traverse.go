package graph

import (
	"container/heap"

	"github.com/alexanderramin/taskgraph/internal/domain"
)

const (
	white = 0 // unvisited
	gray  = 1 // on the current DFS path
	black = 2 // fully processed
)

// pathBetween returns the dependency path from -> ... -> to, or nil when to
// is not reachable from from. Iterative DFS, O(V+E).
func (g *ProjectGraph) pathBetween(from, to string) []string {
	if from == to {
		return []string{from}
	}
	parent := map[string]string{from: ""}
	stack := []string{from}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, depID := range g.out[cur] {
			next := g.deps[depID].SuccessorID
			if _, seen := parent[next]; seen {
				continue
			}
			parent[next] = cur
			if next == to {
				var rev []string
				for n := to; n != ""; n = parent[n] {
					rev = append(rev, n)
				}
				path := make([]string, len(rev))
				for i, n := range rev {
					path[len(rev)-1-i] = n
				}
				return path
			}
			stack = append(stack, next)
		}
	}
	return nil
}

// Reachable returns every task transitively downstream of id (excluding id)
// in breadth-first order.
func (g *ProjectGraph) Reachable(id string) []string {
	seen := map[string]bool{id: true}
	queue := []string{id}
	var out []string
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, depID := range g.out[cur] {
			next := g.deps[depID].SuccessorID
			if seen[next] {
				continue
			}
			seen[next] = true
			out = append(out, next)
			queue = append(queue, next)
		}
	}
	return out
}

// rankHeap is a min-heap of task ids ordered by insertion rank.
type rankHeap struct {
	ids  []string
	rank map[string]int
}

func (h *rankHeap) Len() int           { return len(h.ids) }
func (h *rankHeap) Less(i, j int) bool { return h.rank[h.ids[i]] < h.rank[h.ids[j]] }
func (h *rankHeap) Swap(i, j int)      { h.ids[i], h.ids[j] = h.ids[j], h.ids[i] }
func (h *rankHeap) Push(x any)         { h.ids = append(h.ids, x.(string)) }
func (h *rankHeap) Pop() any {
	n := len(h.ids)
	x := h.ids[n-1]
	h.ids = h.ids[:n-1]
	return x
}

// TopologicalOrder returns every task id ordered so that each predecessor
// precedes its successors. Ties are broken by insertion order, which makes
// the result deterministic.
//
// The dependency guard in AddDependency keeps the graph acyclic, but the
// check is repeated here because graphs can also be assembled from stored
// records.
func (g *ProjectGraph) TopologicalOrder() ([]string, error) {
	indeg := make(map[string]int, len(g.tasks))
	ready := &rankHeap{rank: g.index}
	for id := range g.tasks {
		indeg[id] = len(g.in[id])
		if indeg[id] == 0 {
			ready.ids = append(ready.ids, id)
		}
	}
	heap.Init(ready)

	order := make([]string, 0, len(g.tasks))
	for ready.Len() > 0 {
		id := heap.Pop(ready).(string)
		order = append(order, id)
		for _, depID := range g.out[id] {
			succ := g.deps[depID].SuccessorID
			indeg[succ]--
			if indeg[succ] == 0 {
				heap.Push(ready, succ)
			}
		}
	}

	if len(order) != len(g.tasks) {
		return nil, &domain.CycleError{Graph: "dependency", Path: g.findCycle(g.successorIDs)}
	}
	return order, nil
}

// ValidateContainment checks that the parent links form a forest.
func (g *ProjectGraph) ValidateContainment() error {
	if path := g.findCycle(g.parentIDs); path != nil {
		return &domain.CycleError{Graph: "containment", Path: path}
	}
	return nil
}

func (g *ProjectGraph) successorIDs(id string) []string {
	out := make([]string, 0, len(g.out[id]))
	for _, depID := range g.out[id] {
		out = append(out, g.deps[depID].SuccessorID)
	}
	return out
}

func (g *ProjectGraph) parentIDs(id string) []string {
	t, ok := g.tasks[id]
	if !ok || !t.HasParent() {
		return nil
	}
	return []string{t.Parent()}
}

// findCycle runs an iterative three-color DFS over next and returns the
// first cycle found as a closed path (first element repeated at the end),
// or nil.
func (g *ProjectGraph) findCycle(next func(string) []string) []string {
	color := make(map[string]int, len(g.tasks))

	type frame struct {
		id    string
		edges []string
		pos   int
	}

	for _, root := range g.Tasks() {
		if color[root.ID] != white {
			continue
		}
		stack := []*frame{{id: root.ID, edges: next(root.ID)}}
		color[root.ID] = gray
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			if top.pos == len(top.edges) {
				color[top.id] = black
				stack = stack[:len(stack)-1]
				continue
			}
			n := top.edges[top.pos]
			top.pos++
			switch color[n] {
			case gray:
				var path []string
				start := 0
				for i, f := range stack {
					if f.id == n {
						start = i
						break
					}
				}
				for _, f := range stack[start:] {
					path = append(path, f.id)
				}
				return append(path, n)
			case white:
				if _, known := g.tasks[n]; !known {
					continue
				}
				color[n] = gray
				stack = append(stack, &frame{id: n, edges: next(n)})
			}
		}
	}
	return nil
}
