package uid_test

import (
	"context"
	"crypto/sha256"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/stamp/internal/core/domain"
	"go.trai.ch/stamp/internal/engine/uid"
)

// contentOf derives a fingerprint from file text.
func contentOf(text string) domain.Fingerprint {
	var fp domain.Fingerprint
	sum := sha256.Sum256([]byte(text))
	copy(fp[:], sum[:])
	return fp
}

type fakeContent struct {
	files map[string]domain.Fingerprint
}

func newFakeContent(files map[string]string) *fakeContent {
	c := &fakeContent{files: make(map[string]domain.Fingerprint, len(files))}
	for name, text := range files {
		c.files[name] = contentOf(text)
	}
	return c
}

func (c *fakeContent) Open(string, int) {}

func (c *fakeContent) Prefetch(context.Context, *domain.Graph) error { return nil }

func (c *fakeContent) ContentFingerprint(id domain.NodeID) (domain.Fingerprint, bool, error) {
	fp, ok := c.files[id.String()]
	return fp, ok, nil
}

// fakeExpander treats command tokens prefixed with '@' as input references.
type fakeExpander struct {
	failures map[string]error
}

func (x *fakeExpander) Expand(_ *domain.Graph, node *domain.Node) (domain.CommandRepr, error) {
	if err, ok := x.failures[node.ID.String()]; ok {
		return domain.CommandRepr{}, err
	}
	var repr domain.CommandRepr
	if node.Kind == domain.KindVariable {
		repr.Tokens = append(repr.Tokens, domain.Literal(node.ID.String()+"="+node.Value))
		return repr, nil
	}
	for _, tok := range node.Command {
		if after, ok := strings.CutPrefix(tok, "@"); ok {
			repr.Tokens = append(repr.Tokens, domain.InputRef(domain.NewNodeID(after)))
			continue
		}
		repr.Tokens = append(repr.Tokens, domain.Literal(tok))
	}
	return repr, nil
}

type fakeOracle struct {
	mu        sync.Mutex
	changed   map[string]bool
	committed []domain.NodeID
}

func newFakeOracle(changed ...string) *fakeOracle {
	o := &fakeOracle{changed: make(map[string]bool)}
	for _, c := range changed {
		o.changed[c] = true
	}
	return o
}

func (o *fakeOracle) Open(string) error { return nil }

func (o *fakeOracle) Scan(context.Context, *domain.Graph) error { return nil }

func (o *fakeOracle) Changed(id domain.NodeID) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.changed[id.String()]
}

func (o *fakeOracle) Commit(ids []domain.NodeID) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.committed = append(o.committed, ids...)
	return nil
}

type memStore struct {
	mu      sync.Mutex
	records map[domain.NodeID]domain.UidRecord
	loops   map[domain.LoopKey]domain.LoopSignature
	flushes int
}

func newMemStore() *memStore {
	return &memStore{
		records: make(map[domain.NodeID]domain.UidRecord),
		loops:   make(map[domain.LoopKey]domain.LoopSignature),
	}
}

func (s *memStore) Open(string, string) error { return nil }

func (s *memStore) Load(id domain.NodeID) (domain.UidRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	return rec, ok
}

func (s *memStore) Save(id domain.NodeID, rec domain.UidRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[id] = rec
	return nil
}

func (s *memStore) LoadLoop(key domain.LoopKey) (domain.LoopSignature, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sig, ok := s.loops[key]
	return sig, ok
}

func (s *memStore) SaveLoop(key domain.LoopKey, sig domain.LoopSignature) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loops[key] = sig
	return nil
}

func (s *memStore) Discarded() (int, int) { return 0, 0 }

func (s *memStore) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushes++
	return nil
}

type graphBuilder struct {
	t *testing.T
	g *domain.Graph
}

func newGraph(t *testing.T) *graphBuilder {
	t.Helper()
	return &graphBuilder{t: t, g: domain.NewGraph()}
}

func (b *graphBuilder) source(ids ...string) *graphBuilder {
	for _, id := range ids {
		b.add(&domain.Node{ID: domain.NewNodeID(id), Kind: domain.KindSourceFile})
	}
	return b
}

func (b *graphBuilder) generated(ids ...string) *graphBuilder {
	for _, id := range ids {
		b.add(&domain.Node{ID: domain.NewNodeID(id), Kind: domain.KindGeneratedFile})
	}
	return b
}

func (b *graphBuilder) command(id string, tokens ...string) *graphBuilder {
	b.add(&domain.Node{ID: domain.NewNodeID(id), Kind: domain.KindCommand, Command: tokens})
	return b
}

func (b *graphBuilder) node(n *domain.Node) *graphBuilder {
	b.add(n)
	return b
}

func (b *graphBuilder) add(n *domain.Node) {
	b.t.Helper()
	require.NoError(b.t, b.g.AddNode(n))
}

func (b *graphBuilder) edge(from, to string, kind domain.EdgeKind) *graphBuilder {
	b.t.Helper()
	require.NoError(b.t, b.g.AddEdge(domain.NewNodeID(from), domain.NewNodeID(to), kind))
	return b
}

func (b *graphBuilder) build() *domain.Graph {
	b.t.Helper()
	require.NoError(b.t, b.g.Validate())
	return b.g
}

type harness struct {
	content  *fakeContent
	expander *fakeExpander
	oracle   *fakeOracle
	store    *memStore
	engine   *uid.Engine
}

func newHarness(files map[string]string) *harness {
	h := &harness{
		content:  newFakeContent(files),
		expander: &fakeExpander{},
		oracle:   newFakeOracle(),
		store:    newMemStore(),
	}
	h.engine = uid.NewEngine(h.expander, h.content, h.oracle, h.store)
	return h
}

// run executes and commits a campaign.
func (h *harness) run(t *testing.T, g *domain.Graph, opts uid.Options, roots ...string) *uid.Campaign {
	t.Helper()
	c := h.engine.NewCampaign(g, opts)
	require.NoError(t, c.Run(t.Context(), domain.NewNodeIDs(roots)))
	require.NoError(t, c.Commit())
	return c
}

func record(t *testing.T, c *uid.Campaign, id string) domain.UidRecord {
	t.Helper()
	rec, ok := c.Record(domain.NewNodeID(id))
	require.True(t, ok, "record of %s", id)
	require.True(t, rec.Completed)
	return rec
}
