// Package uid computes the content-addressed identities (uids) of build graph nodes.
//
// A Campaign performs one depth-first traversal from a set of root nodes. Every visited
// node gets a domain.UidRecord; every visited loop gets a domain.LoopSignature. Records
// of unchanged subgraphs are reused from the uid store instead of being recomputed.
package uid

import (
	"github.com/google/uuid"
	"go.trai.ch/stamp/internal/core/domain"
	"go.trai.ch/stamp/internal/core/ports"
	"go.trai.ch/stamp/internal/engine/loops"
)

// Options configure a single campaign.
type Options struct {
	// Salt is mixed into the structure of every command.
	Salt string
	// NoCache ignores cached records. Results are still committed.
	NoCache bool
	// Explain keeps the update log of every computed node for diagnostics.
	Explain bool
}

// Engine creates campaigns sharing the same collaborators.
// Campaigns never share fingerprint state; only the store is shared.
type Engine struct {
	expander ports.CommandExpander
	content  ports.ContentProvider
	oracle   ports.ChangeOracle
	store    ports.UidStore
}

// NewEngine creates a new Engine.
func NewEngine(
	expander ports.CommandExpander,
	content ports.ContentProvider,
	oracle ports.ChangeOracle,
	store ports.UidStore,
) *Engine {
	return &Engine{
		expander: expander,
		content:  content,
		oracle:   oracle,
		store:    store,
	}
}

// NewCampaign prepares a campaign over g. Loop detection runs here, before any fingerprinting.
func (e *Engine) NewCampaign(g *domain.Graph, opts Options) *Campaign {
	return &Campaign{
		id:         uuid.NewString(),
		graph:      g,
		loops:      loops.Detect(g),
		expander:   e.expander,
		content:    e.content,
		oracle:     e.oracle,
		store:      e.store,
		opts:       opts,
		entries:    make(map[domain.NodeID]*entry, g.Len()),
		loopStates: make(map[domain.LoopID]*loopState),
	}
}
