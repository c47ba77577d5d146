package fs

import (
	"cmp"
	"context"
	"encoding/binary"
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"
	"go.trai.ch/stamp/internal/core/domain"
	"go.trai.ch/stamp/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ChangeOracle = (*SnapshotOracle)(nil)

const snapshotVersion = 1

// snapshot is the persisted baseline: one digest per node identity.
type snapshot struct {
	Version int               `msgpack:"v"`
	Digests map[string]uint64 `msgpack:"d"`
}

// SnapshotOracle detects changed nodes by comparing per-node digests against the
// snapshot written by the last committed campaign.
// A node digest covers everything the node itself contributes: its attributes, its
// outgoing edges and, for files, their content.
type SnapshotOracle struct {
	logger   ports.Logger
	hasher   *Hasher
	walker   *Walker
	resolver *Resolver

	mu       sync.RWMutex
	path     string
	baseline map[domain.NodeID]uint64
	current  map[domain.NodeID]uint64
}

// NewSnapshotOracle creates a new SnapshotOracle.
func NewSnapshotOracle(logger ports.Logger, hasher *Hasher, walker *Walker, resolver *Resolver) *SnapshotOracle {
	return &SnapshotOracle{
		logger:   logger,
		hasher:   hasher,
		walker:   walker,
		resolver: resolver,
		baseline: make(map[domain.NodeID]uint64),
		current:  make(map[domain.NodeID]uint64),
	}
}

// Open loads the baseline snapshot from path.
// A missing, unreadable or outdated snapshot yields an empty baseline.
func (o *SnapshotOracle) Open(path string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.path = path
	o.baseline = make(map[domain.NodeID]uint64)
	o.current = make(map[domain.NodeID]uint64)

	data, err := os.ReadFile(path) //nolint:gosec // Path is controlled by configuration
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(domain.ErrStoreReadFailed, err.Error()), "path", path)
	}

	var snap snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil || snap.Version != snapshotVersion {
		o.logger.Warn("change snapshot is unreadable, treating every node as changed")
		return nil
	}
	for id, d := range snap.Digests {
		o.baseline[domain.NewNodeID(id)] = d
	}
	return nil
}

// Scan digests every node of the graph.
func (o *SnapshotOracle) Scan(ctx context.Context, g *domain.Graph) error {
	vars := varsDigest(g)
	current := make(map[domain.NodeID]uint64, g.Len())

	for n := range g.Nodes() {
		if err := ctx.Err(); err != nil {
			return err
		}
		d, err := o.digest(n, vars)
		if err != nil {
			return err
		}
		current[n.ID] = d
	}

	o.mu.Lock()
	o.current = current
	o.mu.Unlock()
	return nil
}

// Changed reports whether a node differs from the baseline.
// Nodes that were not scanned are always changed.
func (o *SnapshotOracle) Changed(id domain.NodeID) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()

	cur, ok := o.current[id]
	if !ok {
		return true
	}
	base, ok := o.baseline[id]
	return !ok || base != cur
}

// Commit makes the scanned digests of ids the new baseline and persists it.
func (o *SnapshotOracle) Commit(ids []domain.NodeID) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, id := range ids {
		if d, ok := o.current[id]; ok {
			o.baseline[id] = d
		}
	}
	if o.path == "" {
		return nil
	}

	snap := snapshot{Version: snapshotVersion, Digests: make(map[string]uint64, len(o.baseline))}
	for id, d := range o.baseline {
		snap.Digests[id.String()] = d
	}
	data, err := msgpack.Marshal(&snap)
	if err != nil {
		return zerr.Wrap(domain.ErrSnapshotWriteFailed, err.Error())
	}
	return writeAtomic(o.path, data)
}

func (o *SnapshotOracle) digest(n *domain.Node, vars uint64) (uint64, error) {
	d := xxhash.New()
	w := fieldWriter{d: d}

	w.num(uint64(n.Kind))
	w.num(uint64(len(n.Command)))
	for _, tok := range n.Command {
		w.str(tok)
	}
	w.str(n.Value)
	w.str(n.Module.Tag)
	w.flag(n.Module.Multimodule)
	w.flag(n.Module.Fake)

	edges := slices.Clone(n.Edges)
	slices.SortStableFunc(edges, func(a, b domain.Edge) int {
		return cmp.Or(cmp.Compare(a.Kind, b.Kind), a.To.Compare(b.To))
	})
	w.num(uint64(len(edges)))
	for _, e := range edges {
		w.num(uint64(e.Kind))
		w.str(e.To.String())
	}

	switch n.Kind {
	case domain.KindSourceFile, domain.KindGeneratedFile:
		fp, ok, err := o.hasher.ContentFingerprint(n.ID)
		if err != nil {
			return 0, err
		}
		w.flag(ok)
		w.bytes(fp[:])
	case domain.KindCommand, domain.KindVariable:
		w.num(vars)
	case domain.KindDirectory:
		for file := range o.walker.WalkFiles(o.resolver.Path(o.hasher.Root(), n.ID), nil) {
			w.str(file)
		}
	}
	return d.Sum64(), nil
}

// varsDigest covers the build variables, which any command or variable may expand.
func varsDigest(g *domain.Graph) uint64 {
	d := xxhash.New()
	w := fieldWriter{d: d}
	for _, name := range g.VarNames() {
		value, _ := g.Var(name)
		w.str(name)
		w.str(value)
	}
	return d.Sum64()
}

// fieldWriter writes length-prefixed fields so that adjacent fields cannot run together.
type fieldWriter struct {
	d   *xxhash.Digest
	buf [binary.MaxVarintLen64]byte
}

func (w *fieldWriter) num(v uint64) {
	n := binary.PutUvarint(w.buf[:], v)
	_, _ = w.d.Write(w.buf[:n])
}

func (w *fieldWriter) bytes(b []byte) {
	w.num(uint64(len(b)))
	_, _ = w.d.Write(b)
}

func (w *fieldWriter) str(s string) {
	w.num(uint64(len(s)))
	_, _ = w.d.WriteString(s)
}

func (w *fieldWriter) flag(b bool) {
	if b {
		w.num(1)
		return
	}
	w.num(0)
}

// writeAtomic replaces path with data through a temporary file.
func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrSnapshotWriteFailed, err.Error()), "path", path)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrSnapshotWriteFailed, err.Error()), "path", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return zerr.With(zerr.Wrap(domain.ErrSnapshotWriteFailed, err.Error()), "path", path)
	}
	return nil
}
