package app_test

import (
	"context"
	"errors"
	"iter"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stamp/internal/app"
	"go.trai.ch/stamp/internal/core/domain"
	"go.trai.ch/stamp/internal/core/ports"
	"go.trai.ch/stamp/internal/core/ports/mocks"
	"go.trai.ch/stamp/internal/engine/uid"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	configLoader *mocks.MockConfigLoader
	graphLoader  *mocks.MockGraphLoader
	content      *mocks.MockContentProvider
	oracle       *mocks.MockChangeOracle
	store        *mocks.MockUidStore
	watcher      *mocks.MockWatcher
	logger       *mocks.MockLogger
	app          *app.App
	cfg          *domain.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		configLoader: mocks.NewMockConfigLoader(ctrl),
		graphLoader:  mocks.NewMockGraphLoader(ctrl),
		content:      mocks.NewMockContentProvider(ctrl),
		oracle:       mocks.NewMockChangeOracle(ctrl),
		store:        mocks.NewMockUidStore(ctrl),
		watcher:      mocks.NewMockWatcher(ctrl),
		logger:       mocks.NewMockLogger(ctrl),
	}
	dir := t.TempDir()
	f.cfg = &domain.Config{
		Root:      dir,
		GraphPath: filepath.Join(dir, domain.DefaultGraphFile),
		CacheDir:  filepath.Join(dir, domain.DefaultCacheDir),
		Salt:      "salt",
		Jobs:      2,
	}

	engine := uid.NewEngine(mocks.NewMockCommandExpander(ctrl), f.content, f.oracle, f.store)
	f.app = app.New(f.configLoader, f.graphLoader, f.content, f.oracle, f.store, engine, f.watcher, f.logger)
	f.logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	return f
}

// programGraph is main.o built from main.cpp.
func programGraph(t *testing.T) *domain.Graph {
	t.Helper()
	g := domain.NewGraph()
	require.NoError(t, g.AddNode(&domain.Node{
		ID:    domain.NewNodeID("main.o"),
		Kind:  domain.KindGeneratedFile,
		Edges: []domain.Edge{{To: domain.NewNodeID("main.cpp"), Kind: domain.EdgeBuildFrom}},
	}))
	require.NoError(t, g.AddNode(&domain.Node{ID: domain.NewNodeID("main.cpp"), Kind: domain.KindSourceFile}))
	return g
}

// expectOpen expects the collaborators to be opened in order on the fixture configuration.
func (f *fixture) expectOpen(g *domain.Graph, jobs int) {
	gomock.InOrder(
		f.configLoader.EXPECT().Load(domain.DefaultConfigFile).Return(f.cfg, nil),
		f.graphLoader.EXPECT().Load(f.cfg.GraphPath).Return(g, nil),
		f.content.EXPECT().Open(f.cfg.Root, jobs),
		f.content.EXPECT().Prefetch(gomock.Any(), g).Return(nil),
		f.oracle.EXPECT().Open(filepath.Join(f.cfg.CacheDir, domain.SnapshotFile)).Return(nil),
		f.oracle.EXPECT().Scan(gomock.Any(), g).Return(nil),
		f.store.EXPECT().Open(filepath.Join(f.cfg.CacheDir, domain.UIDCacheFile), "salt").Return(nil),
	)
}

// expectContent serves main.cpp and reports main.o as not built yet.
func (f *fixture) expectContent() {
	f.content.EXPECT().ContentFingerprint(gomock.Any()).DoAndReturn(
		func(id domain.NodeID) (domain.Fingerprint, bool, error) {
			if id.String() == "main.cpp" {
				return domain.Fingerprint{1, 2, 3}, true, nil
			}
			return domain.Fingerprint{}, false, nil
		},
	).AnyTimes()
}

func TestApp_Run(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	g := programGraph(t)
	f.expectOpen(g, 8)
	f.expectContent()

	f.oracle.EXPECT().Changed(gomock.Any()).Return(true).AnyTimes()
	f.store.EXPECT().Load(gomock.Any()).Return(domain.UidRecord{}, false).AnyTimes()
	f.store.EXPECT().Discarded().Return(0, 0).AnyTimes()

	saved := make(map[string]domain.UidRecord)
	f.store.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(id domain.NodeID, rec domain.UidRecord) error {
		saved[id.String()] = rec
		return nil
	}).Times(2)
	f.store.EXPECT().Flush().Return(nil)
	f.oracle.EXPECT().Commit(domain.NewNodeIDs([]string{"main.o", "main.cpp"})).Return(nil)

	report, err := f.app.Run(t.Context(), nil, app.Options{Jobs: 8})
	require.NoError(t, err)

	require.Len(t, report.Nodes, 2)
	assert.Equal(t, "main.o", report.Nodes[0].ID.String())
	assert.Equal(t, "main.cpp", report.Nodes[1].ID.String())
	for _, n := range report.Nodes {
		assert.Equal(t, saved[n.ID.String()].Full, n.Full)
		assert.Equal(t, saved[n.ID.String()].Self, n.Self)
		assert.False(t, n.Full.IsZero())
	}
	assert.NotEqual(t, report.Nodes[0].Full, report.Nodes[1].Full)
	assert.Equal(t, 2, report.Stats.ComputedNodes)
	assert.Equal(t, 2, report.Stats.SavedNodes)
	assert.NotEmpty(t, report.CampaignID)
}

func TestApp_Run_ConfigError(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.configLoader.EXPECT().Load("custom.yaml").
		Return(nil, zerr.Wrap(domain.ErrConfigReadFailed, "boom"))

	_, err := f.app.Run(t.Context(), nil, app.Options{ConfigPath: "custom.yaml"})
	require.ErrorIs(t, err, domain.ErrConfigReadFailed)
}

func TestApp_Run_UnknownRootPersistsNothing(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	g := programGraph(t)
	f.expectOpen(g, 2)

	_, err := f.app.Run(t.Context(), []string{"missing.o"}, app.Options{})
	require.ErrorIs(t, err, domain.ErrNodeNotFound)
}

func TestApp_Explain(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	g := programGraph(t)
	f.expectOpen(g, 2)
	f.expectContent()

	exp, err := f.app.Explain(t.Context(), "main.o", app.Options{})
	require.NoError(t, err)

	assert.Equal(t, "main.o", exp.ID.String())
	assert.True(t, exp.Record.Completed)
	require.Len(t, exp.Logs, 6)
	assert.Equal(t, "self", exp.Logs[0].Name)
	assert.Equal(t, exp.Record.Self, exp.Logs[0].Fingerprint)
	assert.Equal(t, "full", exp.Logs[5].Name)
	assert.Equal(t, exp.Record.Full, exp.Logs[5].Fingerprint)
}

func TestApp_Loops(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	g := domain.NewGraph()
	for _, n := range []*domain.Node{
		{ID: domain.NewNodeID("a.h"), Kind: domain.KindSourceFile, Edges: []domain.Edge{
			{To: domain.NewNodeID("b.h"), Kind: domain.EdgeInclude},
		}},
		{ID: domain.NewNodeID("b.h"), Kind: domain.KindSourceFile, Edges: []domain.Edge{
			{To: domain.NewNodeID("a.h"), Kind: domain.EdgeInclude},
		}},
		{ID: domain.NewNodeID("c.h"), Kind: domain.KindSourceFile},
	} {
		require.NoError(t, g.AddNode(n))
	}
	f.configLoader.EXPECT().Load(domain.DefaultConfigFile).Return(f.cfg, nil)
	f.graphLoader.EXPECT().Load(f.cfg.GraphPath).Return(g, nil)

	found, err := f.app.Loops(app.Options{})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, domain.NewNodeIDs([]string{"a.h", "b.h"}), found[0].Members)
}

func TestApp_Clean(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	require.NoError(t, os.MkdirAll(f.cfg.CacheDir, domain.DirPerm))
	require.NoError(t, os.WriteFile(filepath.Join(f.cfg.CacheDir, domain.UIDCacheFile), []byte("x"), domain.FilePerm))

	f.configLoader.EXPECT().Load(domain.DefaultConfigFile).Return(f.cfg, nil)
	f.logger.EXPECT().Info(gomock.Any())

	require.NoError(t, f.app.Clean(app.Options{}))
	_, err := os.Stat(f.cfg.CacheDir)
	assert.ErrorIs(t, err, os.ErrNotExist)

	// Cleaning twice is fine.
	f.configLoader.EXPECT().Load(domain.DefaultConfigFile).Return(f.cfg, nil)
	f.logger.EXPECT().Info(gomock.Any())
	require.NoError(t, f.app.Clean(app.Options{}))
}

// expectRuns allows any number of complete campaigns on the fixture graph.
func (f *fixture) expectRuns(g *domain.Graph) {
	f.configLoader.EXPECT().Load(domain.DefaultConfigFile).Return(f.cfg, nil).AnyTimes()
	f.graphLoader.EXPECT().Load(f.cfg.GraphPath).Return(g, nil).AnyTimes()
	f.content.EXPECT().Open(f.cfg.Root, 2).AnyTimes()
	f.content.EXPECT().Prefetch(gomock.Any(), g).Return(nil).AnyTimes()
	f.oracle.EXPECT().Open(gomock.Any()).Return(nil).AnyTimes()
	f.oracle.EXPECT().Scan(gomock.Any(), g).Return(nil).AnyTimes()
	f.oracle.EXPECT().Changed(gomock.Any()).Return(true).AnyTimes()
	f.oracle.EXPECT().Commit(gomock.Any()).Return(nil).AnyTimes()
	f.store.EXPECT().Open(gomock.Any(), "salt").Return(nil).AnyTimes()
	f.store.EXPECT().Load(gomock.Any()).Return(domain.UidRecord{}, false).AnyTimes()
	f.store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.store.EXPECT().Discarded().Return(0, 0).AnyTimes()
	f.store.EXPECT().Flush().Return(nil).AnyTimes()
	f.expectContent()
}

// expectWatch serves events from a channel that Stop closes.
func (f *fixture) expectWatch() chan<- ports.WatchEvent {
	events := make(chan ports.WatchEvent, 4)
	f.watcher.EXPECT().Start(gomock.Any(), f.cfg.Root).Return(nil)
	f.watcher.EXPECT().Events().Return(iter.Seq[ports.WatchEvent](func(yield func(ports.WatchEvent) bool) {
		for ev := range events {
			if !yield(ev) {
				return
			}
		}
	}))
	f.watcher.EXPECT().Stop().DoAndReturn(func() error {
		close(events)
		return nil
	})
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	return events
}

func TestApp_Watch_RerunsOnChange(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.expectRuns(programGraph(t))
	events := f.expectWatch()

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	var reports []*app.Report
	err := f.app.Watch(ctx, nil, app.Options{}, func(r *app.Report) error {
		reports = append(reports, r)
		switch len(reports) {
		case 1:
			events <- ports.WatchEvent{Path: filepath.Join(f.cfg.CacheDir, domain.UIDCacheFile), Operation: ports.OpWrite}
			events <- ports.WatchEvent{Path: filepath.Join(f.cfg.Root, "main.cpp"), Operation: ports.OpWrite}
		case 2:
			cancel()
		}
		return nil
	})
	require.NoError(t, err)

	require.Len(t, reports, 2)
	assert.NotEqual(t, reports[0].CampaignID, reports[1].CampaignID)
	assert.Equal(t, reports[0].Nodes, reports[1].Nodes)
}

func TestApp_Watch_EmitErrorStops(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.expectRuns(programGraph(t))
	errStop := errors.New("stop")

	err := f.app.Watch(t.Context(), nil, app.Options{}, func(*app.Report) error { return errStop })
	require.ErrorIs(t, err, errStop)
}

func TestApp_Watch_InitialRunFails(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.configLoader.EXPECT().Load(domain.DefaultConfigFile).
		Return(nil, zerr.Wrap(domain.ErrConfigReadFailed, "boom"))

	err := f.app.Watch(t.Context(), nil, app.Options{}, func(*app.Report) error {
		require.FailNow(t, "unexpected report")
		return nil
	})
	require.ErrorIs(t, err, domain.ErrConfigReadFailed)
}
