// Package fs implements the file system adapters: content fingerprints and change detection.
package fs

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"runtime"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/stamp/internal/core/domain"
	"go.trai.ch/stamp/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var _ ports.ContentProvider = (*Hasher)(nil)

// secondSeed seeds the upper half of a content fingerprint.
const secondSeed = 0x9e3779b97f4a7c15

type content struct {
	fp domain.Fingerprint
	ok bool
}

// Hasher provides content fingerprints for file nodes.
// Results are memoized for the lifetime of a campaign and reset by Open.
type Hasher struct {
	resolver *Resolver

	mu    sync.RWMutex
	root  string
	jobs  int
	known map[domain.NodeID]content
}

// NewHasher creates a new Hasher.
func NewHasher(resolver *Resolver) *Hasher {
	return &Hasher{
		resolver: resolver,
		jobs:     runtime.NumCPU(),
		known:    make(map[domain.NodeID]content),
	}
}

// Open sets the directory file identities are relative to and forgets earlier results.
// A non-positive jobs value uses one worker per CPU.
func (h *Hasher) Open(root string, jobs int) {
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.root = root
	h.jobs = jobs
	h.known = make(map[domain.NodeID]content)
}

// Root returns the directory file identities are relative to.
func (h *Hasher) Root() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.root
}

// Prefetch fingerprints every file node of the graph in parallel.
func (h *Hasher) Prefetch(ctx context.Context, g *domain.Graph) error {
	h.mu.RLock()
	jobs := h.jobs
	h.mu.RUnlock()

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(jobs)

	for n := range g.Nodes() {
		if !n.Kind.IsFile() {
			continue
		}
		if egCtx.Err() != nil {
			break
		}
		id := n.ID
		eg.Go(func() error {
			_, _, err := h.ContentFingerprint(id)
			return err
		})
	}

	if err := eg.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// ContentFingerprint returns the fingerprint of a file's bytes.
// A missing file, or a path naming a directory, reports false.
func (h *Hasher) ContentFingerprint(id domain.NodeID) (domain.Fingerprint, bool, error) {
	h.mu.RLock()
	c, found := h.known[id]
	root := h.root
	h.mu.RUnlock()
	if found {
		return c.fp, c.ok, nil
	}

	fp, ok, err := h.ComputeFileHash(h.resolver.Path(root, id))
	if err != nil {
		return fp, false, err
	}

	h.mu.Lock()
	h.known[id] = content{fp: fp, ok: ok}
	h.mu.Unlock()
	return fp, ok, nil
}

// ComputeFileHash computes a 128-bit fingerprint of a file's content from two
// independently seeded XXHash digests.
func (h *Hasher) ComputeFileHash(path string) (domain.Fingerprint, bool, error) {
	var fp domain.Fingerprint

	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return fp, false, nil
		}
		return fp, false, zerr.With(zerr.Wrap(domain.ErrContentReadFailed, err.Error()), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	info, err := f.Stat()
	if err != nil {
		return fp, false, zerr.With(zerr.Wrap(domain.ErrContentReadFailed, err.Error()), "path", path)
	}
	if info.IsDir() {
		return fp, false, nil
	}

	lo, hi := xxhash.New(), xxhash.NewWithSeed(secondSeed)
	if _, err := io.Copy(io.MultiWriter(lo, hi), f); err != nil {
		return fp, false, zerr.With(zerr.Wrap(domain.ErrContentReadFailed, err.Error()), "path", path)
	}

	binary.LittleEndian.PutUint64(fp[:8], lo.Sum64())
	binary.LittleEndian.PutUint64(fp[8:], hi.Sum64())
	return fp, true, nil
}
