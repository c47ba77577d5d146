package uid

import (
	"context"

	"go.trai.ch/stamp/internal/core/domain"
	"go.trai.ch/stamp/internal/core/ports"
	"go.trai.ch/stamp/internal/engine/fingerprint"
	"go.trai.ch/stamp/internal/engine/loops"
	"go.trai.ch/zerr"
)

type nodeState uint8

const (
	stateEntered nodeState = iota + 1
	stateLoopPending
	stateFinalized
)

// entry is the per-node state of a campaign.
type entry struct {
	node  *domain.Node
	state nodeState

	self *fingerprint.Accumulator
	ch   [numChannels]*fingerprint.Accumulator
	full *fingerprint.Accumulator

	// pre holds the channel values of a loop member before the loop signature is folded in.
	pre [numChannels]domain.Fingerprint

	record domain.UidRecord
	cached bool
}

// Campaign is one traversal producing a consistent set of uid records.
// A Campaign is not safe for concurrent use; independent campaigns may run concurrently.
type Campaign struct {
	id    string
	graph *domain.Graph
	loops *loops.Set

	expander ports.CommandExpander
	content  ports.ContentProvider
	oracle   ports.ChangeOracle
	store    ports.UidStore
	opts     Options

	entries    map[domain.NodeID]*entry
	order      []domain.NodeID
	loopStates map[domain.LoopID]*loopState
	stack      []domain.NodeID
	dirty      map[domain.NodeID]bool

	stats     domain.CacheStats
	ran       bool
	failed    bool
	committed bool
}

// ID returns the unique identifier of the campaign.
func (c *Campaign) ID() string {
	return c.id
}

// Loops returns the loops detected in the campaign graph.
func (c *Campaign) Loops() *loops.Set {
	return c.loops
}

// Run visits every root and everything reachable from it.
// With no roots, all roots of the graph are visited.
// On error the campaign is aborted and cannot be committed.
func (c *Campaign) Run(ctx context.Context, roots []domain.NodeID) (err error) {
	if c.ran {
		return zerr.With(zerr.New("campaign already ran"), "campaign", c.id)
	}
	c.ran = true
	defer func() {
		if err != nil {
			c.failed = true
		}
	}()

	if len(roots) == 0 {
		roots = loops.Roots(c.graph)
	}
	for _, r := range roots {
		if _, ok := c.graph.Node(r); !ok {
			return zerr.With(zerr.Wrap(domain.ErrNodeNotFound, "unknown root"), "node", r.String())
		}
	}

	if !c.opts.NoCache {
		c.computeDirty()
	}

	for _, r := range roots {
		if e, ok := c.entries[r]; ok && e.state == stateFinalized {
			continue
		}
		if err := c.visit(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func (c *Campaign) visit(ctx context.Context, id domain.NodeID) error {
	if err := ctx.Err(); err != nil {
		return zerr.Wrap(err, "campaign cancelled")
	}

	node, ok := c.graph.Node(id)
	if !ok {
		return zerr.With(zerr.Wrap(domain.ErrNodeNotFound, "edge target is not part of the graph"), "node", id.String())
	}

	var ls *loopState
	if loop, inLoop := c.loops.Of(id); inLoop {
		ls = c.loopState(loop)
		if !ls.checked {
			ls.checked = true
			if err := loop.Check(); err != nil {
				return err
			}
			if c.reuseLoop(ls) {
				return nil
			}
		}
	} else if c.reuseNode(node) {
		return nil
	}

	e, err := c.enter(node)
	if err != nil {
		return err
	}

	c.stack = append(c.stack, id)
	defer func() { c.stack = c.stack[:len(c.stack)-1] }()

	for _, edge := range node.Edges {
		if edge.To == id {
			continue
		}
		if edge.Kind.NameOnly() {
			c.leave(e, nil, edge)
			continue
		}

		sameLoop := c.loops.SameLoop(id, edge.To)
		child, seen := c.entries[edge.To]
		if !seen {
			if err := c.visit(ctx, edge.To); err != nil {
				return err
			}
			child = c.entries[edge.To]
		}

		if sameLoop {
			// Same-loop children contribute through the loop signature.
			continue
		}
		if child.state != stateFinalized {
			return c.dependencyLoopError(edge)
		}
		c.leave(e, child, edge)
	}

	if ls != nil {
		return c.memberDone(ls, e)
	}
	return c.finalize(e)
}

func (c *Campaign) newAccumulator() *fingerprint.Accumulator {
	if c.opts.Explain {
		return fingerprint.New(fingerprint.WithLog())
	}
	return fingerprint.New()
}

// enter allocates the accumulators of a node and seeds them by node kind.
func (c *Campaign) enter(node *domain.Node) (*entry, error) {
	e := &entry{
		node:  node,
		state: stateEntered,
		self:  c.newAccumulator(),
	}
	for i := range e.ch {
		e.ch[i] = c.newAccumulator()
	}
	c.entries[node.ID] = e
	c.order = append(c.order, node.ID)

	e.self.UpdateString(node.Kind.String(), "kind")
	e.self.UpdateString(node.ID.String(), "identity")

	if err := c.seed(e); err != nil {
		return nil, err
	}
	return e, nil
}

// leave folds the fingerprints of an edge target into its source.
// child is nil for name-only edges, whose target is never visited.
func (c *Campaign) leave(parent, child *entry, edge domain.Edge) {
	label := edge.To.String()
	for _, f := range channelTable[edge.Kind] {
		if f.from == fromName {
			parent.ch[f.into].UpdateString(label, label)
			continue
		}
		if child == nil {
			continue
		}
		parent.ch[f.into].UpdateFingerprint(sourceOf(&child.record, f.from), label)
	}

	if edge.Kind == domain.EdgeBuildFrom && child != nil && child.node.Kind == domain.KindGeneratedFile {
		parent.ch[Structure].UpdateString(label, label)
	}
}

// finalize computes the record of a node whose children and loop are complete.
func (c *Campaign) finalize(e *entry) error {
	if e.state == stateFinalized {
		return zerr.With(zerr.New("node finalized twice"), "node", e.node.ID.String())
	}

	rec := domain.UidRecord{
		Structure:        e.ch[Structure].Finalize(),
		IncludeStructure: e.ch[IncludeStructure].Finalize(),
		Content:          e.ch[Content].Finalize(),
		IncludeContent:   e.ch[IncludeContent].Finalize(),
		Self:             e.self.Finalize(),
		Completed:        true,
	}
	e.full = fullOf(e.self, &rec)
	rec.Full = e.full.Finalize()

	e.record = rec
	e.state = stateFinalized
	c.stats.ComputedNodes++
	c.compareWithCache(e)

	if !c.opts.Explain {
		e.self, e.full = nil, nil
		e.ch = [numChannels]*fingerprint.Accumulator{}
	}
	return nil
}

// fullOf branches the self accumulator and folds in the four channel values.
func fullOf(self *fingerprint.Accumulator, rec *domain.UidRecord) *fingerprint.Accumulator {
	full := self.Branch()
	for ch := range numChannels {
		full.UpdateFingerprint(channelOf(rec, ch), ch.String())
	}
	return full
}

// Record returns the record of a node. Nodes below a reused record are not visited;
// their records are served from the store as long as they are unchanged.
func (c *Campaign) Record(id domain.NodeID) (domain.UidRecord, bool) {
	if e, ok := c.entries[id]; ok {
		if e.state == stateFinalized {
			return e.record, true
		}
		return domain.UidRecord{}, false
	}
	if c.ran && !c.failed && c.clean(id) {
		if rec, ok := c.store.Load(id); ok && rec.Completed {
			return rec, true
		}
	}
	return domain.UidRecord{}, false
}

// UID returns the Full fingerprint of a node, the cache key of its build action.
func (c *Campaign) UID(id domain.NodeID) (domain.Fingerprint, bool) {
	rec, ok := c.Record(id)
	return rec.Full, ok
}

// SelfUID returns the Self fingerprint of a node.
func (c *Campaign) SelfUID(id domain.NodeID) (domain.Fingerprint, bool) {
	rec, ok := c.Record(id)
	return rec.Self, ok
}

// Visited returns the identities of the nodes visited so far, in visit order.
// Nodes reused from the cache are included.
func (c *Campaign) Visited() []domain.NodeID {
	return c.order
}
