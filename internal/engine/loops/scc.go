// Package loops detects the loops of a build graph: maximal sets of nodes that are
// mutually reachable over cycle-capable edges.
package loops

import (
	"slices"

	"go.trai.ch/stamp/internal/core/domain"
)

type frame struct {
	id   domain.NodeID
	edge int
}

// Components returns the strongly connected components of g over the edges accepted by follow.
// Self edges are ignored. Components are emitted in reverse topological order: a component
// comes after every component it reaches. Nodes are visited in insertion order and edges in
// declaration order, so the result is stable for a given graph.
func Components(g *domain.Graph, follow func(domain.EdgeKind) bool) [][]domain.NodeID {
	index := make(map[domain.NodeID]int, g.Len())
	low := make(map[domain.NodeID]int, g.Len())
	onStack := make(map[domain.NodeID]bool)
	var stack []domain.NodeID
	var frames []frame
	var out [][]domain.NodeID
	counter := 0

	push := func(id domain.NodeID) {
		index[id] = counter
		low[id] = counter
		counter++
		stack = append(stack, id)
		onStack[id] = true
		frames = append(frames, frame{id: id})
	}

	for root := range g.Nodes() {
		if _, seen := index[root.ID]; seen {
			continue
		}
		push(root.ID)

		for len(frames) > 0 {
			f := &frames[len(frames)-1]
			node, _ := g.Node(f.id)

			if f.edge < len(node.Edges) {
				e := node.Edges[f.edge]
				f.edge++
				if !follow(e.Kind) || e.To == f.id {
					continue
				}
				if _, ok := g.Node(e.To); !ok {
					continue
				}
				if _, seen := index[e.To]; !seen {
					push(e.To)
				} else if onStack[e.To] {
					low[f.id] = min(low[f.id], index[e.To])
				}
				continue
			}

			id := f.id
			if low[id] == index[id] {
				var comp []domain.NodeID
				for {
					top := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[top] = false
					comp = append(comp, top)
					if top == id {
						break
					}
				}
				out = append(out, comp)
			}

			frames = frames[:len(frames)-1]
			if len(frames) > 0 {
				parent := frames[len(frames)-1].id
				low[parent] = min(low[parent], low[id])
			}
		}
	}

	return out
}

// Roots returns one entry node per source component of g over traversed edges: components
// no traversed edge enters from outside. Each contributes its first member in insertion
// order, and roots are returned in insertion order. A graph whose top level is a cycle
// still has a root.
func Roots(g *domain.Graph) []domain.NodeID {
	comps := Components(g, domain.EdgeKind.Traversed)
	compOf := make(map[domain.NodeID]int, g.Len())
	for i, comp := range comps {
		for _, id := range comp {
			compOf[id] = i
		}
	}

	entered := make([]bool, len(comps))
	for n := range g.Nodes() {
		for _, e := range n.Edges {
			if !e.Kind.Traversed() {
				continue
			}
			to, ok := compOf[e.To]
			if ok && to != compOf[n.ID] {
				entered[to] = true
			}
		}
	}

	roots := make([]domain.NodeID, 0)
	for i, comp := range comps {
		if entered[i] {
			continue
		}
		first := comp[0]
		for _, id := range comp[1:] {
			if g.Index(id) < g.Index(first) {
				first = id
			}
		}
		roots = append(roots, first)
	}
	slices.SortFunc(roots, func(a, b domain.NodeID) int {
		return g.Index(a) - g.Index(b)
	})
	return roots
}
