package loops

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"go.trai.ch/stamp/internal/core/domain"
	"go.trai.ch/stamp/internal/engine/fingerprint"
	"go.trai.ch/zerr"
)

// Loop is a maximal set of nodes mutually reachable over cycle-capable edges.
type Loop struct {
	ID domain.LoopID
	// Key identifies the loop across campaigns. It depends only on the membership.
	Key domain.LoopKey
	// Members are ordered by graph insertion order.
	Members []domain.NodeID
	// Deps are the traversed edges from a member to a node outside the loop.
	Deps []domain.Edge

	members map[domain.NodeID]struct{}
	// inner are the traversed edges between two distinct members.
	inner []domain.Edge
}

// Contains reports whether id is a member of the loop.
func (l *Loop) Contains(id domain.NodeID) bool {
	_, ok := l.members[id]
	return ok
}

// DepTargets returns the distinct targets of the loop's Deps in edge order.
func (l *Loop) DepTargets() []domain.NodeID {
	seen := make(map[domain.NodeID]bool, len(l.Deps))
	out := make([]domain.NodeID, 0, len(l.Deps))
	for _, e := range l.Deps {
		if !seen[e.To] {
			seen[e.To] = true
			out = append(out, e.To)
		}
	}
	return out
}

// Check verifies that only cycle-capable edges connect members.
// A traversed edge of any other kind between two members closes an illegal cycle.
func (l *Loop) Check() error {
	for _, e := range l.inner {
		if e.Kind.CycleCapable() {
			continue
		}
		err := zerr.Wrap(domain.ErrDependencyLoop, "loop contains an edge that may not close a cycle")
		err = zerr.With(err, "edge", fmt.Sprintf("%s -%s-> %s", e.From, e.Kind, e.To))
		return zerr.With(err, "loop", l.Dump())
	}
	return nil
}

// Dump renders the loop members and their connecting edges for diagnostics.
func (l *Loop) Dump() string {
	var b strings.Builder
	fmt.Fprintf(&b, "loop %d (%d members)", l.ID, len(l.Members))
	for _, m := range l.Members {
		fmt.Fprintf(&b, "\n  %s", m)
	}
	for _, e := range l.inner {
		fmt.Fprintf(&b, "\n  %s -%s-> %s", e.From, e.Kind, e.To)
	}
	return b.String()
}

// Set is the result of loop detection for one graph.
type Set struct {
	loops  []*Loop
	byNode map[domain.NodeID]*Loop
}

// Detect finds all loops of g. It never fails: nodes outside any loop are simply absent
// from the result. Singletons are never loops, even with a self edge.
func Detect(g *domain.Graph) *Set {
	s := &Set{byNode: make(map[domain.NodeID]*Loop)}

	for _, comp := range Components(g, domain.EdgeKind.CycleCapable) {
		if len(comp) < 2 {
			continue
		}
		slices.SortFunc(comp, func(a, b domain.NodeID) int {
			return cmp.Compare(g.Index(a), g.Index(b))
		})
		s.loops = append(s.loops, newLoop(g, comp))
	}

	slices.SortFunc(s.loops, func(a, b *Loop) int {
		return cmp.Compare(g.Index(a.Members[0]), g.Index(b.Members[0]))
	})
	for i, l := range s.loops {
		l.ID = domain.LoopID(i + 1)
		for _, m := range l.Members {
			s.byNode[m] = l
		}
	}
	return s
}

func newLoop(g *domain.Graph, members []domain.NodeID) *Loop {
	l := &Loop{
		Key:     KeyOf(members),
		Members: members,
		members: make(map[domain.NodeID]struct{}, len(members)),
	}
	for _, m := range members {
		l.members[m] = struct{}{}
	}
	for _, m := range members {
		n, _ := g.Node(m)
		for _, e := range n.Edges {
			if !e.Kind.Traversed() || e.To == m {
				continue
			}
			if l.Contains(e.To) {
				l.inner = append(l.inner, e)
			} else {
				l.Deps = append(l.Deps, e)
			}
		}
	}
	return l
}

// KeyOf computes the loop key of a membership, independent of member order.
func KeyOf(members []domain.NodeID) domain.LoopKey {
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.String()
	}
	slices.Sort(names)

	acc := fingerprint.New()
	for _, name := range names {
		acc.UpdateString(name, "member")
	}
	return domain.LoopKey(acc.Finalize())
}

// Of returns the loop owning id.
func (s *Set) Of(id domain.NodeID) (*Loop, bool) {
	l, ok := s.byNode[id]
	return l, ok
}

// Loops returns all loops ordered by the insertion position of their first member.
func (s *Set) Loops() []*Loop {
	return s.loops
}

// Len returns the number of loops.
func (s *Set) Len() int {
	return len(s.loops)
}

// SameLoop reports whether a and b are members of the same loop.
func (s *Set) SameLoop(a, b domain.NodeID) bool {
	la, ok := s.byNode[a]
	if !ok {
		return false
	}
	return la == s.byNode[b]
}
