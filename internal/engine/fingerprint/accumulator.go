// Package fingerprint implements the rolling hash state used to compute node uids.
package fingerprint

import (
	"crypto/md5" //nolint:gosec // md5 is the uid format, not a security boundary
	"encoding"
	"encoding/binary"
	"hash"

	"go.trai.ch/stamp/internal/core/domain"
)

// LogEntry is one recorded update of an Accumulator.
type LogEntry struct {
	Label string
	Data  []byte
}

// Option configures an Accumulator.
type Option func(*Accumulator)

// WithLog records every update so the history can be replayed for diagnostics.
func WithLog() Option {
	return func(a *Accumulator) {
		a.logging = true
	}
}

// Accumulator is an append-only hash state.
// Identical ordered update sequences yield identical fingerprints; labels are never hashed.
type Accumulator struct {
	h       hash.Hash
	logging bool
	log     []LogEntry
}

// New creates an empty Accumulator.
func New(opts ...Option) *Accumulator {
	a := &Accumulator{h: md5.New()} //nolint:gosec // see import
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Update folds data into the state. Every update is length-prefixed,
// so splitting the same bytes differently yields a different fingerprint.
func (a *Accumulator) Update(data []byte, label string) {
	var prefix [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(prefix[:], uint64(len(data)))
	_, _ = a.h.Write(prefix[:n])
	_, _ = a.h.Write(data)

	if a.logging {
		a.log = append(a.log, LogEntry{Label: label, Data: append([]byte(nil), data...)})
	}
}

// UpdateString folds a string into the state.
func (a *Accumulator) UpdateString(s, label string) {
	a.Update([]byte(s), label)
}

// UpdateFingerprint folds another fingerprint into the state.
func (a *Accumulator) UpdateFingerprint(fp domain.Fingerprint, label string) {
	a.Update(fp[:], label)
}

// Branch returns an independent copy of the state and its log.
func (a *Accumulator) Branch() *Accumulator {
	state, err := a.h.(encoding.BinaryMarshaler).MarshalBinary()
	if err != nil {
		// md5 state always marshals.
		panic(err)
	}
	h := md5.New() //nolint:gosec // see import
	if err := h.(encoding.BinaryUnmarshaler).UnmarshalBinary(state); err != nil {
		panic(err)
	}

	b := &Accumulator{h: h, logging: a.logging}
	if a.logging {
		b.log = append([]LogEntry(nil), a.log...)
	}
	return b
}

// Finalize returns the fingerprint of everything folded so far.
// The state is not consumed and may be extended afterwards.
func (a *Accumulator) Finalize() domain.Fingerprint {
	var fp domain.Fingerprint
	copy(fp[:], a.h.Sum(nil))
	return fp
}

// Log returns the recorded updates. It is empty unless the Accumulator was created WithLog.
func (a *Accumulator) Log() []LogEntry {
	return a.log
}

// Replay folds the recorded updates of a log into a fresh Accumulator.
func Replay(log []LogEntry) domain.Fingerprint {
	a := New()
	for _, e := range log {
		a.Update(e.Data, e.Label)
	}
	return a.Finalize()
}
