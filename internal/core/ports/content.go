package ports

import (
	"context"

	"go.trai.ch/stamp/internal/core/domain"
)

// ContentProvider defines the interface for file content fingerprints.
//
//go:generate mockgen -source=content.go -destination=mocks/mock_content.go -package=mocks
type ContentProvider interface {
	// Open sets the directory file identities are relative to and the hashing parallelism.
	Open(root string, jobs int)

	// Prefetch fingerprints every file node of the graph ahead of a campaign.
	Prefetch(ctx context.Context, g *domain.Graph) error

	// ContentFingerprint returns the fingerprint of a file node.
	// The boolean is false when the file has no content on disk.
	ContentFingerprint(id domain.NodeID) (domain.Fingerprint, bool, error)
}
