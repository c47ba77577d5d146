package ports

import (
	"context"

	"go.trai.ch/stamp/internal/core/domain"
)

// ChangeOracle defines the interface for detecting nodes changed since the last campaign.
//
//go:generate mockgen -source=oracle.go -destination=mocks/mock_oracle.go -package=mocks
type ChangeOracle interface {
	// Open loads the committed baseline from the snapshot file at path.
	Open(path string) error

	// Scan computes the current state of every node of the graph.
	Scan(ctx context.Context, g *domain.Graph) error

	// Changed reports whether the node differs from the last committed state.
	// Nodes unknown to the last committed state are changed.
	Changed(id domain.NodeID) bool

	// Commit persists the scanned state of the given nodes as the baseline for the next
	// campaign. Nodes not listed keep their previous baseline.
	Commit(ids []domain.NodeID) error
}
