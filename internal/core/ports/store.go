package ports

import "go.trai.ch/stamp/internal/core/domain"

// UidStore defines the interface for persisting uid records across campaigns.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type UidStore interface {
	// Open loads the cache file at path. A file written with another format version
	// or salt is discarded as a whole.
	Open(path, salt string) error

	// Load returns the cached record of a node.
	// It reports a miss for absent and for corrupt records; corrupt records are discarded.
	Load(id domain.NodeID) (domain.UidRecord, bool)

	// Save stores a completed record.
	Save(id domain.NodeID, rec domain.UidRecord) error

	// LoadLoop returns the cached signature of a loop.
	LoadLoop(key domain.LoopKey) (domain.LoopSignature, bool)

	// SaveLoop stores the signature of a loop.
	SaveLoop(key domain.LoopKey, sig domain.LoopSignature) error

	// Discarded returns the number of corrupt node and loop records dropped so far.
	Discarded() (nodes, loops int)

	// Flush writes the cache to disk.
	Flush() error
}
