package fingerprint

import (
	"bytes"
	"cmp"
	"slices"

	"go.trai.ch/stamp/internal/core/domain"
)

type multiEntry struct {
	key string
	fp  domain.Fingerprint
}

// Multi folds keyed fingerprints independently of insertion order.
// Entries are sorted by key, then by fingerprint, before hashing.
type Multi struct {
	entries []multiEntry
}

// Add records a keyed fingerprint.
func (m *Multi) Add(key string, fp domain.Fingerprint) {
	m.entries = append(m.entries, multiEntry{key: key, fp: fp})
}

// Len returns the number of entries.
func (m *Multi) Len() int {
	return len(m.entries)
}

// Sum returns the fingerprint of the sorted entries.
func (m *Multi) Sum() domain.Fingerprint {
	sorted := slices.Clone(m.entries)
	slices.SortFunc(sorted, func(a, b multiEntry) int {
		if c := cmp.Compare(a.key, b.key); c != 0 {
			return c
		}
		return bytes.Compare(a.fp[:], b.fp[:])
	})

	acc := New()
	for _, e := range sorted {
		acc.UpdateString(e.key, "key")
		acc.UpdateFingerprint(e.fp, e.key)
	}
	return acc.Finalize()
}
