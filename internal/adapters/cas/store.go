// Package cas implements the persistent uid cache.
//
// The cache is a single file: a header carrying the format version and the salt, followed
// by one frame per node record or loop signature. Every frame starts with a sync marker and
// ends with its own checksum, so a damaged frame costs only its own entry: the reader skips
// to the next marker whose frame checks out.
package cas

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"sync"

	"fortio.org/safecast"
	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/vmihailenco/msgpack/v5"
	"go.trai.ch/stamp/internal/core/domain"
	"go.trai.ch/stamp/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	magic         = "STMPUID\x00"
	formatVersion = uint32(2)
	headerSize    = len(magic) + 4 + 8

	frameNode byte = 1
	frameLoop byte = 2

	syncMarker = "\xa7UID"

	// frame layout: sync marker, kind u8, id length u16, id, payload length u32, payload,
	// checksum u64 over everything before it.
	frameFixed = len(syncMarker) + 1 + 2 + 4 + 8

	// DefaultMemoSize is the number of decoded records kept in memory.
	DefaultMemoSize = 4096
)

type recordPayload struct {
	Structure        []byte `msgpack:"s"`
	IncludeStructure []byte `msgpack:"is"`
	Content          []byte `msgpack:"c"`
	IncludeContent   []byte `msgpack:"ic"`
	Full             []byte `msgpack:"f"`
	Self             []byte `msgpack:"self"`
	Completed        bool   `msgpack:"done"`
}

type loopPayload struct {
	Structure        []byte   `msgpack:"s"`
	IncludeStructure []byte   `msgpack:"is"`
	Content          []byte   `msgpack:"c"`
	IncludeContent   []byte   `msgpack:"ic"`
	Members          []string `msgpack:"members"`
	Fingerprints     [][]byte `msgpack:"fps"`
	DepsCount        int      `msgpack:"deps"`
}

// Store implements ports.UidStore on a checksummed frame file.
// Payloads are decoded lazily on first Load and memoized.
type Store struct {
	logger ports.Logger

	mu   sync.RWMutex
	path string
	salt uint64

	nodes map[string][]byte
	loops map[string][]byte

	records *lru.Cache[string, domain.UidRecord]
	sigs    *lru.Cache[string, domain.LoopSignature]

	discardedNodes int
	discardedLoops int
}

// NewStore creates an empty Store. Open binds it to a cache file.
func NewStore(logger ports.Logger, memoSize int) (*Store, error) {
	if memoSize <= 0 {
		memoSize = DefaultMemoSize
	}
	records, err := lru.New[string, domain.UidRecord](memoSize)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create record memo")
	}
	sigs, err := lru.New[string, domain.LoopSignature](memoSize)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create loop memo")
	}
	return &Store{
		logger:  logger,
		nodes:   make(map[string][]byte),
		loops:   make(map[string][]byte),
		records: records,
		sigs:    sigs,
	}, nil
}

// Open loads the cache file at path, replacing any state held by the Store.
// A missing file is an empty cache.
func (s *Store) Open(path, salt string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.path = filepath.Clean(path)
	s.salt = xxhash.Sum64String(salt)
	s.nodes = make(map[string][]byte)
	s.loops = make(map[string][]byte)
	s.records.Purge()
	s.sigs.Purge()
	s.discardedNodes, s.discardedLoops = 0, 0

	//nolint:gosec // Path comes from the project configuration
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(domain.ErrStoreReadFailed, err.Error()), "path", s.path)
	}
	if len(data) == 0 {
		return nil
	}

	if !s.validHeader(data) {
		s.logger.Warn("uid cache " + s.path + " was written by another format or salt, discarding it")
		return nil
	}
	s.parseFrames(data[headerSize:])
	return nil
}

func (s *Store) validHeader(data []byte) bool {
	if len(data) < headerSize || string(data[:len(magic)]) != magic {
		return false
	}
	version := binary.LittleEndian.Uint32(data[len(magic):])
	salt := binary.LittleEndian.Uint64(data[len(magic)+4:])
	return version == formatVersion && salt == s.salt
}

// parseFrames indexes every intact frame. After a damaged frame the walk resumes at the
// next sync marker; a damaged stretch counts as one discarded entry.
func (s *Store) parseFrames(data []byte) {
	damaged, resyncing := false, false
	for len(data) > 0 {
		f, ok := readFrame(data)
		if !ok {
			if !resyncing {
				s.discard(f.kind)
				damaged, resyncing = true, true
			}
			next := bytes.Index(data[1:], []byte(syncMarker))
			if next < 0 {
				break
			}
			data = data[1+next:]
			continue
		}
		resyncing = false
		data = data[f.size:]

		switch f.kind {
		case frameNode:
			s.nodes[f.id] = f.payload
		case frameLoop:
			s.loops[f.id] = f.payload
		default:
			s.discard(f.kind)
		}
	}
	if damaged {
		s.logger.Warn("uid cache " + s.path + " has damaged entries, they will be recomputed")
	}
}

type frame struct {
	kind    byte
	id      string
	payload []byte
	size    int
}

// readFrame decodes the frame at the start of data. On failure only kind may be set.
func readFrame(data []byte) (frame, bool) {
	var f frame
	h := len(syncMarker)
	if len(data) <= h || string(data[:h]) != syncMarker {
		return f, false
	}
	f.kind = data[h]
	if len(data) < h+3 {
		return f, false
	}
	idLen := int(binary.LittleEndian.Uint16(data[h+1:]))
	if len(data) < h+3+idLen+4 {
		return f, false
	}
	payloadLen := int(binary.LittleEndian.Uint32(data[h+3+idLen:]))
	size := frameFixed + idLen + payloadLen
	if payloadLen > len(data) || len(data) < size {
		return f, false
	}

	body := data[:size-8]
	if xxhash.Sum64(body) != binary.LittleEndian.Uint64(data[size-8:]) {
		return f, false
	}
	f.id = string(body[h+3 : h+3+idLen])
	f.payload = bytes.Clone(body[h+3+idLen+4:])
	f.size = size
	return f, true
}

func (s *Store) discard(kind byte) {
	if kind == frameLoop {
		s.discardedLoops++
		return
	}
	s.discardedNodes++
}

// Load returns the cached record of a node.
func (s *Store) Load(id domain.NodeID) (domain.UidRecord, bool) {
	key := id.String()

	s.mu.RLock()
	rec, ok := s.records.Get(key)
	raw, present := s.nodes[key]
	s.mu.RUnlock()
	if ok {
		return rec, true
	}
	if !present {
		return domain.UidRecord{}, false
	}

	rec, err := decodeRecord(raw)
	s.mu.Lock()
	defer s.mu.Unlock()
	if !bytes.Equal(s.nodes[key], raw) {
		// Replaced by a concurrent Save.
		return s.records.Get(key)
	}
	if err != nil {
		delete(s.nodes, key)
		s.discardedNodes++
		return domain.UidRecord{}, false
	}
	s.records.Add(key, rec)
	return rec, true
}

// Save stores a completed record.
func (s *Store) Save(id domain.NodeID, rec domain.UidRecord) error {
	if !rec.Completed {
		return zerr.With(zerr.Wrap(domain.ErrIncompleteRecord, "refusing to cache record"), "node", id.String())
	}

	raw, err := msgpack.Marshal(recordPayload{
		Structure:        rec.Structure[:],
		IncludeStructure: rec.IncludeStructure[:],
		Content:          rec.Content[:],
		IncludeContent:   rec.IncludeContent[:],
		Full:             rec.Full[:],
		Self:             rec.Self[:],
		Completed:        rec.Completed,
	})
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to encode record"), "node", id.String())
	}

	key := id.String()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes[key] = raw
	s.records.Add(key, rec)
	return nil
}

// LoadLoop returns the cached signature of a loop.
func (s *Store) LoadLoop(key domain.LoopKey) (domain.LoopSignature, bool) {
	k := key.String()

	s.mu.RLock()
	sig, ok := s.sigs.Get(k)
	raw, present := s.loops[k]
	s.mu.RUnlock()
	if ok {
		return sig, true
	}
	if !present {
		return domain.LoopSignature{}, false
	}

	sig, err := decodeLoop(raw)
	s.mu.Lock()
	defer s.mu.Unlock()
	if !bytes.Equal(s.loops[k], raw) {
		return s.sigs.Get(k)
	}
	if err != nil {
		delete(s.loops, k)
		s.discardedLoops++
		return domain.LoopSignature{}, false
	}
	s.sigs.Add(k, sig)
	return sig, true
}

// SaveLoop stores the signature of a loop.
func (s *Store) SaveLoop(key domain.LoopKey, sig domain.LoopSignature) error {
	payload := loopPayload{
		Structure:        sig.Structure[:],
		IncludeStructure: sig.IncludeStructure[:],
		Content:          sig.Content[:],
		IncludeContent:   sig.IncludeContent[:],
		Members:          make([]string, len(sig.Members)),
		Fingerprints:     make([][]byte, len(sig.Fingerprints)),
		DepsCount:        sig.DepsCount,
	}
	for i, m := range sig.Members {
		payload.Members[i] = m.String()
	}
	for i, fp := range sig.Fingerprints {
		payload.Fingerprints[i] = fp[:]
	}

	raw, err := msgpack.Marshal(payload)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to encode loop signature"), "loop", key.String())
	}

	k := key.String()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loops[k] = raw
	s.sigs.Add(k, sig)
	return nil
}

// Discarded returns the number of corrupt node and loop records dropped since Open.
func (s *Store) Discarded() (nodes, loops int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.discardedNodes, s.discardedLoops
}

// Flush atomically rewrites the cache file.
func (s *Store) Flush() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.path == "" || s.path == "." {
		return zerr.Wrap(domain.ErrStoreWriteFailed, "store was not opened")
	}

	buf := make([]byte, 0, headerSize)
	buf = append(buf, magic...)
	buf = binary.LittleEndian.AppendUint32(buf, formatVersion)
	buf = binary.LittleEndian.AppendUint64(buf, s.salt)

	var err error
	if buf, err = appendFrames(buf, frameNode, s.nodes); err != nil {
		return err
	}
	if buf, err = appendFrames(buf, frameLoop, s.loops); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrStoreWriteFailed, err.Error()), "path", s.path)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buf, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrStoreWriteFailed, err.Error()), "path", tmp)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrStoreWriteFailed, err.Error()), "path", s.path)
	}
	return nil
}

// appendFrames writes the entries of one kind sorted by id, so equal caches are equal files.
func appendFrames(buf []byte, kind byte, entries map[string][]byte) ([]byte, error) {
	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		payload := entries[id]
		idLen, err := safecast.Conv[uint16](len(id))
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "identity too long for uid cache"), "id", id)
		}
		payloadLen, err := safecast.Conv[uint32](len(payload))
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "payload too large for uid cache"), "id", id)
		}

		start := len(buf)
		buf = append(buf, syncMarker...)
		buf = append(buf, kind)
		buf = binary.LittleEndian.AppendUint16(buf, idLen)
		buf = append(buf, id...)
		buf = binary.LittleEndian.AppendUint32(buf, payloadLen)
		buf = append(buf, payload...)
		buf = binary.LittleEndian.AppendUint64(buf, xxhash.Sum64(buf[start:]))
	}
	return buf, nil
}

func decodeRecord(raw []byte) (domain.UidRecord, error) {
	var p recordPayload
	if err := msgpack.Unmarshal(raw, &p); err != nil {
		return domain.UidRecord{}, err
	}

	var rec domain.UidRecord
	for _, f := range []struct {
		dst *domain.Fingerprint
		src []byte
	}{
		{&rec.Structure, p.Structure},
		{&rec.IncludeStructure, p.IncludeStructure},
		{&rec.Content, p.Content},
		{&rec.IncludeContent, p.IncludeContent},
		{&rec.Full, p.Full},
		{&rec.Self, p.Self},
	} {
		if err := copyFingerprint(f.dst, f.src); err != nil {
			return domain.UidRecord{}, err
		}
	}
	rec.Completed = p.Completed
	if !rec.Completed {
		return domain.UidRecord{}, domain.ErrIncompleteRecord
	}
	return rec, nil
}

func decodeLoop(raw []byte) (domain.LoopSignature, error) {
	var p loopPayload
	if err := msgpack.Unmarshal(raw, &p); err != nil {
		return domain.LoopSignature{}, err
	}
	if len(p.Members) != len(p.Fingerprints) {
		return domain.LoopSignature{}, zerr.New("loop member count does not match its fingerprints")
	}

	var sig domain.LoopSignature
	for _, f := range []struct {
		dst *domain.Fingerprint
		src []byte
	}{
		{&sig.Structure, p.Structure},
		{&sig.IncludeStructure, p.IncludeStructure},
		{&sig.Content, p.Content},
		{&sig.IncludeContent, p.IncludeContent},
	} {
		if err := copyFingerprint(f.dst, f.src); err != nil {
			return domain.LoopSignature{}, err
		}
	}

	sig.Members = domain.NewNodeIDs(p.Members)
	sig.Fingerprints = make([]domain.Fingerprint, len(p.Fingerprints))
	for i, fp := range p.Fingerprints {
		if err := copyFingerprint(&sig.Fingerprints[i], fp); err != nil {
			return domain.LoopSignature{}, err
		}
	}
	sig.DepsCount = p.DepsCount
	return sig, nil
}

func copyFingerprint(dst *domain.Fingerprint, src []byte) error {
	if len(src) != domain.FingerprintSize {
		return zerr.New("fingerprint has length " + strconv.Itoa(len(src)))
	}
	copy(dst[:], src)
	return nil
}
