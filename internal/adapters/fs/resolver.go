package fs

import (
	"path/filepath"

	"go.trai.ch/stamp/internal/core/domain"
)

// Resolver maps node identities to paths on disk.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Path returns the location of a node. Identities are slash-separated and relative to
// root unless absolute.
func (r *Resolver) Path(root string, id domain.NodeID) string {
	p := filepath.FromSlash(id.String())
	if filepath.IsAbs(p) || root == "" {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}
