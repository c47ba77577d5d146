// Package domain contains the core domain models of the build graph and its fingerprints.
package domain

import (
	"iter"
	"slices"

	"go.trai.ch/zerr"
)

// Graph is a directed build graph. It may contain cycles.
// Nodes keep their insertion order, which is the stable input order used to break ties.
type Graph struct {
	nodes map[NodeID]*Node
	order []NodeID
	index map[NodeID]int
	vars  map[string]string
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[NodeID]*Node),
		index: make(map[NodeID]int),
		vars:  make(map[string]string),
	}
}

// AddNode adds a node to the graph.
// It returns an error if a node with the same identity already exists.
func (g *Graph) AddNode(n *Node) error {
	if _, exists := g.nodes[n.ID]; exists {
		return zerr.With(zerr.Wrap(ErrDuplicateNode, "cannot add node"), "node", n.ID.String())
	}
	for i := range n.Edges {
		n.Edges[i].From = n.ID
	}
	g.index[n.ID] = len(g.order)
	g.nodes[n.ID] = n
	g.order = append(g.order, n.ID)
	return nil
}

// AddEdge appends an outgoing edge to an existing node.
func (g *Graph) AddEdge(from, to NodeID, kind EdgeKind) error {
	n, ok := g.nodes[from]
	if !ok {
		return zerr.With(zerr.Wrap(ErrNodeNotFound, "cannot add edge"), "node", from.String())
	}
	n.Edges = append(n.Edges, Edge{From: from, To: to, Kind: kind})
	return nil
}

// SetVar defines a build variable available to macro expansion.
func (g *Graph) SetVar(name, value string) {
	g.vars[name] = value
}

// Var returns the raw value of a build variable.
func (g *Graph) Var(name string) (string, bool) {
	v, ok := g.vars[name]
	return v, ok
}

// VarNames returns the names of all build variables in sorted order.
func (g *Graph) VarNames() []string {
	names := make([]string, 0, len(g.vars))
	for name := range g.vars {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Node returns the node with the given identity.
func (g *Graph) Node(id NodeID) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Index returns the insertion position of a node, or -1 if it is unknown.
func (g *Graph) Index(id NodeID) int {
	i, ok := g.index[id]
	if !ok {
		return -1
	}
	return i
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.order)
}

// Nodes returns an iterator over all nodes in insertion order.
func (g *Graph) Nodes() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for _, id := range g.order {
			if !yield(g.nodes[id]) {
				return
			}
		}
	}
}

// Validate checks that every edge points at a known node.
func (g *Graph) Validate() error {
	for _, id := range g.order {
		for _, e := range g.nodes[id].Edges {
			if _, ok := g.nodes[e.To]; !ok {
				err := zerr.Wrap(ErrNodeNotFound, "edge target is not part of the graph")
				err = zerr.With(err, "from", id.String())
				return zerr.With(err, "to", e.To.String())
			}
		}
	}
	return nil
}

// Reachable returns every node reachable from the given roots over traversed edges,
// in depth-first preorder.
func (g *Graph) Reachable(roots []NodeID) []NodeID {
	seen := make(map[NodeID]bool, len(g.order))
	var out []NodeID
	var visit func(id NodeID)
	visit = func(id NodeID) {
		if seen[id] {
			return
		}
		seen[id] = true
		out = append(out, id)
		n, ok := g.nodes[id]
		if !ok {
			return
		}
		for _, e := range n.Edges {
			if e.Kind.Traversed() {
				visit(e.To)
			}
		}
	}
	for _, r := range roots {
		visit(r)
	}
	return out
}
