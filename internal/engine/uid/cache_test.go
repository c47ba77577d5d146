package uid_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stamp/internal/core/domain"
	"go.trai.ch/stamp/internal/engine/uid"
)

// twoPrograms builds two independent programs from one source each.
func twoPrograms(t *testing.T) *domain.Graph {
	t.Helper()
	return newGraph(t).
		generated("prog1", "a.o", "prog2", "b.o").
		source("a.cpp", "b.cpp").
		edge("prog1", "a.o", domain.EdgeBuildFrom).
		edge("a.o", "a.cpp", domain.EdgeBuildFrom).
		edge("prog2", "b.o", domain.EdgeBuildFrom).
		edge("b.o", "b.cpp", domain.EdgeBuildFrom).
		build()
}

func TestCache_UnchangedGraphIsLoaded(t *testing.T) {
	t.Parallel()

	h := newHarness(map[string]string{"a.cpp": "a", "b.cpp": "b"})
	first := h.run(t, twoPrograms(t), uid.Options{})
	assert.Equal(t, 6, first.Stats().ComputedNodes)
	assert.Equal(t, 6, first.Stats().SavedNodes)
	assert.True(t, first.Stats().StructureChanged)

	second := h.run(t, twoPrograms(t), uid.Options{})
	stats := second.Stats()
	assert.Zero(t, stats.ComputedNodes)
	assert.Equal(t, 2, stats.LoadedNodes)
	assert.Zero(t, stats.SavedNodes)
	assert.False(t, stats.StructureChanged)

	for _, id := range []string{"prog1", "a.o", "a.cpp", "prog2", "b.o", "b.cpp"} {
		if diff := cmp.Diff(record(t, first, id), record(t, second, id)); diff != "" {
			t.Errorf("record of %s mismatch (-computed +loaded):\n%s", id, diff)
		}
	}
}

func TestCache_ChangedLeafInvalidatesAncestorsOnly(t *testing.T) {
	t.Parallel()

	h := newHarness(map[string]string{"a.cpp": "a", "b.cpp": "b"})
	first := h.run(t, twoPrograms(t), uid.Options{})

	h.content.files["a.cpp"] = contentOf("a, edited")
	h.oracle.changed["a.cpp"] = true

	second := h.run(t, twoPrograms(t), uid.Options{})
	stats := second.Stats()
	assert.Equal(t, 3, stats.ComputedNodes)
	assert.Equal(t, 3, stats.SkippedNodes)
	assert.Equal(t, 1, stats.LoadedNodes)
	assert.False(t, stats.StructureChanged)

	assert.NotEqual(t, record(t, first, "prog1").Full, record(t, second, "prog1").Full)
	assert.Equal(t, record(t, first, "prog2"), record(t, second, "prog2"))
	assert.Equal(t, record(t, first, "b.cpp"), record(t, second, "b.cpp"))

	// The fresh result agrees with a campaign that ignores the cache.
	fresh := h.engine.NewCampaign(twoPrograms(t), uid.Options{NoCache: true})
	require.NoError(t, fresh.Run(t.Context(), nil))
	for _, id := range []string{"prog1", "a.o", "a.cpp", "prog2"} {
		assert.Equal(t, record(t, fresh, id), record(t, second, id), id)
	}
}

func TestCache_NoCacheRecomputesEverything(t *testing.T) {
	t.Parallel()

	h := newHarness(map[string]string{"a.cpp": "a", "b.cpp": "b"})
	h.run(t, twoPrograms(t), uid.Options{})

	c := h.run(t, twoPrograms(t), uid.Options{NoCache: true})
	stats := c.Stats()
	assert.Equal(t, 6, stats.ComputedNodes)
	assert.Zero(t, stats.LoadedNodes)
	assert.Equal(t, 6, stats.SavedNodes)
	assert.True(t, stats.StructureChanged)
}

func TestCache_StructureChangeIsReported(t *testing.T) {
	t.Parallel()

	graph := func(flag string) *domain.Graph {
		return newGraph(t).
			generated("prog").
			command("cc", "cc", flag).
			edge("prog", "cc", domain.EdgeBuildCommand).
			build()
	}

	h := newHarness(nil)
	h.run(t, graph("-O0"), uid.Options{})

	h.oracle.changed["cc"] = true
	c := h.run(t, graph("-O2"), uid.Options{})
	assert.True(t, c.Stats().StructureChanged)
	assert.Equal(t, 2, c.Stats().SkippedNodes)
}

func TestCache_LoopIsReusedWhole(t *testing.T) {
	t.Parallel()

	h := newHarness(loopFiles)
	first := h.run(t, loopGraph(t), uid.Options{}, "c1")
	assert.Equal(t, 1, first.Stats().ComputedLoops)
	assert.Equal(t, 1, first.Stats().SavedLoops)

	second := h.run(t, loopGraph(t), uid.Options{}, "c3")
	stats := second.Stats()
	assert.Equal(t, 1, stats.LoadedLoops)
	assert.Equal(t, 3, stats.LoadedNodes)
	assert.Zero(t, stats.ComputedNodes)
	assert.Zero(t, stats.SavedLoops)

	for _, member := range []string{"c1", "c2", "c3"} {
		assert.Equal(t, record(t, first, member), record(t, second, member), member)
	}
	sig, ok := second.LoopSignature(1)
	require.True(t, ok)
	want, _ := first.LoopSignature(1)
	assert.Equal(t, want, sig)
}

func TestCache_LoopWithChangedDependencyIsRecomputed(t *testing.T) {
	t.Parallel()

	h := newHarness(loopFiles)
	first := h.run(t, loopGraph(t), uid.Options{}, "c1")

	h.content.files["h2"] = contentOf("two, edited")
	h.oracle.changed["h2"] = true

	second := h.run(t, loopGraph(t), uid.Options{}, "c1")
	stats := second.Stats()
	assert.Zero(t, stats.LoadedLoops)
	assert.Equal(t, 1, stats.ComputedLoops)
	assert.Equal(t, 1, stats.SkippedLoops)
	assert.Equal(t, 1, stats.SavedLoops)

	for _, member := range []string{"c1", "c2", "c3"} {
		assert.NotEqual(t, record(t, first, member).Full, record(t, second, member).Full, member)
	}
}

func TestCache_CommitAdvancesVisitedNodesOnly(t *testing.T) {
	t.Parallel()

	h := newHarness(map[string]string{"a.cpp": "a", "b.cpp": "b"})
	c := h.run(t, twoPrograms(t), uid.Options{}, "prog1")

	assert.ElementsMatch(t, domain.NewNodeIDs([]string{"prog1", "a.o", "a.cpp"}), h.oracle.committed)
	assert.Equal(t, c.Visited(), h.oracle.committed)
	assert.Equal(t, 1, h.store.flushes)
}

func TestCache_CommitIsIdempotent(t *testing.T) {
	t.Parallel()

	h := newHarness(map[string]string{"a.cpp": "a", "b.cpp": "b"})
	c := h.run(t, twoPrograms(t), uid.Options{})
	require.NoError(t, c.Commit())
	assert.Equal(t, 1, h.store.flushes)
}

func TestCache_CommitBeforeRun(t *testing.T) {
	t.Parallel()

	c := newHarness(nil).engine.NewCampaign(domain.NewGraph(), uid.Options{})
	require.ErrorIs(t, c.Commit(), domain.ErrCampaignAborted)
}
