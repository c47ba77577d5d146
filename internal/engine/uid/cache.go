package uid

import (
	"slices"

	"go.trai.ch/stamp/internal/core/domain"
	"go.trai.ch/stamp/internal/engine/loops"
	"go.trai.ch/zerr"
)

// computeDirty marks every node that changed or reaches a changed node over traversed edges.
// Components arrive in reverse topological order, so every target outside a component
// is resolved before the component itself.
func (c *Campaign) computeDirty() {
	c.dirty = make(map[domain.NodeID]bool, c.graph.Len())

	for _, comp := range loops.Components(c.graph, domain.EdgeKind.Traversed) {
		dirty := false
		for _, id := range comp {
			if c.oracle.Changed(id) {
				dirty = true
				break
			}
			node, _ := c.graph.Node(id)
			for _, e := range node.Edges {
				if e.Kind.Traversed() && c.dirty[e.To] {
					dirty = true
					break
				}
			}
			if dirty {
				break
			}
		}
		for _, id := range comp {
			c.dirty[id] = dirty
		}
	}
}

// clean reports whether the cached record of a node may be reused.
func (c *Campaign) clean(id domain.NodeID) bool {
	if c.dirty == nil {
		return false
	}
	dirty, known := c.dirty[id]
	return known && !dirty
}

// reuseNode completes a node from the store without descending into it.
func (c *Campaign) reuseNode(node *domain.Node) bool {
	if !c.clean(node.ID) {
		return false
	}
	rec, ok := c.store.Load(node.ID)
	if !ok || !rec.Completed {
		return false
	}
	c.complete(node, rec)
	return true
}

// reuseLoop completes every member of a loop from the store.
// The loop is reused as a whole or not at all.
func (c *Campaign) reuseLoop(ls *loopState) bool {
	for _, m := range ls.loop.Members {
		if !c.clean(m) {
			return false
		}
	}

	sig, ok := c.store.LoadLoop(ls.loop.Key)
	if !ok || !slices.Equal(sig.Members, sortedMembers(ls.loop)) {
		return false
	}

	records := make([]domain.UidRecord, len(ls.loop.Members))
	for i, m := range ls.loop.Members {
		rec, ok := c.store.Load(m)
		if !ok || !rec.Completed {
			return false
		}
		records[i] = rec
	}

	for i, m := range ls.loop.Members {
		node, _ := c.graph.Node(m)
		c.complete(node, records[i])
	}
	ls.sig = sig
	ls.closed = true
	ls.cached = true
	ls.pending = 0
	c.stats.LoadedLoops++
	return true
}

func (c *Campaign) complete(node *domain.Node, rec domain.UidRecord) {
	c.entries[node.ID] = &entry{
		node:   node,
		state:  stateFinalized,
		record: rec,
		cached: true,
	}
	c.order = append(c.order, node.ID)
	c.stats.LoadedNodes++
}

// compareWithCache updates the statistics of a freshly computed record
// against the record cached by a previous campaign.
func (c *Campaign) compareWithCache(e *entry) {
	if c.opts.NoCache {
		c.stats.StructureChanged = true
		return
	}
	prev, ok := c.store.Load(e.node.ID)
	if !ok {
		c.stats.StructureChanged = true
		return
	}
	c.stats.SkippedNodes++
	if prev.Structure != e.record.Structure {
		c.stats.StructureChanged = true
	}
}

// Stats returns the cache statistics of the campaign.
func (c *Campaign) Stats() domain.CacheStats {
	s := c.stats
	s.DiscardedNodes, s.DiscardedLoops = c.store.Discarded()
	return s
}

// Commit persists every record and loop signature computed by the campaign, then
// advances the change baseline of every visited node. An aborted campaign persists nothing.
func (c *Campaign) Commit() error {
	if !c.ran || c.failed {
		return zerr.With(zerr.Wrap(domain.ErrCampaignAborted, "cannot commit"), "campaign", c.id)
	}
	if c.committed {
		return nil
	}

	for _, id := range c.order {
		e := c.entries[id]
		if e.cached || e.state != stateFinalized {
			continue
		}
		if err := c.store.Save(id, e.record); err != nil {
			return err
		}
		c.stats.SavedNodes++
	}

	ids := make([]domain.LoopID, 0, len(c.loopStates))
	for id := range c.loopStates {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		ls := c.loopStates[id]
		if !ls.closed || ls.cached {
			continue
		}
		if err := c.store.SaveLoop(ls.loop.Key, ls.sig); err != nil {
			return err
		}
		c.stats.SavedLoops++
	}

	if err := c.store.Flush(); err != nil {
		return err
	}
	if err := c.oracle.Commit(c.order); err != nil {
		return err
	}
	c.committed = true
	return nil
}
