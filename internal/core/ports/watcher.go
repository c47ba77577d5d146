package ports

import (
	"context"
	"iter"
)

// WatchOp is the kind of file system change.
type WatchOp uint8

const (
	// OpCreate indicates a file or directory was created.
	OpCreate WatchOp = iota
	// OpWrite indicates a file was modified.
	OpWrite
	// OpRemove indicates a file or directory was removed.
	OpRemove
	// OpRename indicates a file or directory was renamed.
	OpRename
)

// WatchEvent is one change reported by a Watcher.
type WatchEvent struct {
	// Path is the absolute path that changed.
	Path string
	// Operation is the kind of change.
	Operation WatchOp
}

// Watcher reports changes below a workspace root.
//
//go:generate mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type Watcher interface {
	// Start watches root recursively until ctx is done or Stop is called.
	Start(ctx context.Context, root string) error
	// Stop releases the watcher. Events ends once it returns.
	Stop() error
	// Events yields changes in the order they were observed.
	Events() iter.Seq[WatchEvent]
}
