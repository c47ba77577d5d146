package uid

import (
	"slices"

	"go.trai.ch/stamp/internal/core/domain"
	"go.trai.ch/stamp/internal/engine/fingerprint"
	"go.trai.ch/stamp/internal/engine/loops"
	"go.trai.ch/zerr"
)

// loopState tracks a loop during a campaign.
// pending counts the members that have not yet finished their own edges.
type loopState struct {
	loop    *loops.Loop
	pending int
	checked bool
	closed  bool
	cached  bool
	sig     domain.LoopSignature
}

func (c *Campaign) loopState(l *loops.Loop) *loopState {
	ls, ok := c.loopStates[l.ID]
	if !ok {
		ls = &loopState{loop: l, pending: len(l.Members)}
		c.loopStates[l.ID] = ls
	}
	return ls
}

// LoopSignature returns the signature of a closed loop.
func (c *Campaign) LoopSignature(id domain.LoopID) (domain.LoopSignature, bool) {
	ls, ok := c.loopStates[id]
	if !ok || !ls.closed {
		return domain.LoopSignature{}, false
	}
	return ls.sig, true
}

// memberDone records the pre-loop state of a member that finished its own edges.
// The member that brings the counter to zero closes the loop.
func (c *Campaign) memberDone(ls *loopState, e *entry) error {
	for ch := range numChannels {
		e.pre[ch] = e.ch[ch].Finalize()
	}
	e.state = stateLoopPending
	ls.pending--
	if ls.pending > 0 {
		return nil
	}
	return c.closeLoop(ls)
}

// closeLoop computes the loop signature once every Deps target is complete,
// folds it into each member and finalizes all members.
func (c *Campaign) closeLoop(ls *loopState) error {
	if ls.closed {
		return zerr.With(zerr.New("loop closed twice"), "loop", ls.loop.Dump())
	}

	targets := ls.loop.DepTargets()
	deps := make([]depInput, 0, len(targets))
	for _, t := range targets {
		ce, ok := c.entries[t]
		if !ok || ce.state != stateFinalized {
			err := zerr.Wrap(domain.ErrLoopNotReady, "cannot close loop")
			err = zerr.With(err, "dependency", t.String())
			return zerr.With(err, "loop", ls.loop.Dump())
		}
		deps = append(deps, depInput{ID: t, Record: ce.record})
	}

	members := make([]memberInput, 0, len(ls.loop.Members))
	for _, id := range ls.loop.Members {
		e := c.entries[id]
		m := memberInput{ID: id, Pre: e.pre}
		pre := domain.UidRecord{
			Structure:        e.pre[Structure],
			IncludeStructure: e.pre[IncludeStructure],
			Content:          e.pre[Content],
			IncludeContent:   e.pre[IncludeContent],
		}
		m.Full = fullOf(e.self, &pre).Finalize()
		members = append(members, m)
	}

	sig := computeLoopSignature(members, deps)
	label := "loop " + ls.loop.Key.String()
	for _, id := range ls.loop.Members {
		e := c.entries[id]
		for ch := range numChannels {
			e.ch[ch].UpdateFingerprint(signatureChannel(&sig, ch), label)
		}
		if err := c.finalize(e); err != nil {
			return err
		}
	}

	ls.sig = sig
	ls.closed = true
	c.stats.ComputedLoops++
	if !c.opts.NoCache {
		if _, ok := c.store.LoadLoop(ls.loop.Key); ok {
			c.stats.SkippedLoops++
		}
	}
	return nil
}

type memberInput struct {
	ID   domain.NodeID
	Pre  [numChannels]domain.Fingerprint
	Full domain.Fingerprint
}

type depInput struct {
	ID     domain.NodeID
	Record domain.UidRecord
}

// computeLoopSignature combines the pre-loop state of all members and the records of all
// dependencies. Each channel is a fold sorted by identity, so the result does not depend on
// the member through which the loop was entered.
// Structure entries are keyed by role only, keeping file names out of Structure.
func computeLoopSignature(members []memberInput, deps []depInput) domain.LoopSignature {
	var folds [numChannels]fingerprint.Multi
	for _, m := range members {
		for ch := range numChannels {
			folds[ch].Add(loopEntryKey(ch, "member", m.ID), m.Pre[ch])
		}
	}
	for _, d := range deps {
		for ch := range numChannels {
			folds[ch].Add(loopEntryKey(ch, "dep", d.ID), channelOf(&d.Record, ch))
		}
	}

	sorted := slices.Clone(members)
	slices.SortFunc(sorted, func(a, b memberInput) int {
		return a.ID.Compare(b.ID)
	})

	sig := domain.LoopSignature{
		Structure:        folds[Structure].Sum(),
		IncludeStructure: folds[IncludeStructure].Sum(),
		Content:          folds[Content].Sum(),
		IncludeContent:   folds[IncludeContent].Sum(),
		Members:          make([]domain.NodeID, len(sorted)),
		Fingerprints:     make([]domain.Fingerprint, len(sorted)),
		DepsCount:        len(deps),
	}
	for i, m := range sorted {
		sig.Members[i] = m.ID
		sig.Fingerprints[i] = m.Full
	}
	return sig
}

func loopEntryKey(ch Channel, role string, id domain.NodeID) string {
	if ch == Structure {
		return role
	}
	return role + ":" + id.String()
}

// sortedMembers returns the loop members ordered by identity.
func sortedMembers(l *loops.Loop) []domain.NodeID {
	members := slices.Clone(l.Members)
	slices.SortFunc(members, domain.NodeID.Compare)
	return members
}
