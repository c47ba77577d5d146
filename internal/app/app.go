// Package app implements the application layer for stamp.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/stamp/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/stamp/internal/core/domain"
	"go.trai.ch/stamp/internal/core/ports"
	"go.trai.ch/stamp/internal/engine/loops"
	"go.trai.ch/stamp/internal/engine/uid"
	"go.trai.ch/zerr"
)

// Options configure a single invocation.
type Options struct {
	// ConfigPath is the configuration file. Empty means stamp.yaml in the working directory.
	ConfigPath string
	// NoCache ignores cached records.
	NoCache bool
	// Jobs overrides the configured hashing parallelism when positive.
	Jobs int
}

// NodeUID is the identity pair of one node.
type NodeUID struct {
	ID   domain.NodeID
	Full domain.Fingerprint
	Self domain.Fingerprint
}

// Report is the outcome of a committed campaign.
type Report struct {
	CampaignID string
	Nodes      []NodeUID
	Stats      domain.CacheStats
}

// Explanation is the record of one node together with the update log of its accumulators.
type Explanation struct {
	ID     domain.NodeID
	Record domain.UidRecord
	Logs   []uid.ChannelLog
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	graphLoader  ports.GraphLoader
	content      ports.ContentProvider
	oracle       ports.ChangeOracle
	store        ports.UidStore
	engine       *uid.Engine
	watcher      ports.Watcher
	logger       ports.Logger
}

// New creates a new App instance.
func New(
	configLoader ports.ConfigLoader,
	graphLoader ports.GraphLoader,
	content ports.ContentProvider,
	oracle ports.ChangeOracle,
	store ports.UidStore,
	engine *uid.Engine,
	fileWatcher ports.Watcher,
	logger ports.Logger,
) *App {
	return &App{
		configLoader: configLoader,
		graphLoader:  graphLoader,
		content:      content,
		oracle:       oracle,
		store:        store,
		engine:       engine,
		watcher:      fileWatcher,
		logger:       logger,
	}
}

// Run computes the uids of every node reachable from roots and persists them.
// With no roots, all roots of the graph are used.
func (a *App) Run(ctx context.Context, roots []string, opts Options) (*Report, error) {
	report, _, err := a.run(ctx, roots, opts)
	return report, err
}

func (a *App) run(ctx context.Context, roots []string, opts Options) (*Report, *domain.Config, error) {
	cfg, g, err := a.prepare(ctx, opts)
	if err != nil {
		return nil, nil, err
	}

	c := a.engine.NewCampaign(g, uid.Options{Salt: cfg.Salt, NoCache: opts.NoCache})
	a.logger.Debug(fmt.Sprintf("campaign %s started", c.ID()))

	ids := domain.NewNodeIDs(roots)
	if err := c.Run(ctx, ids); err != nil {
		return nil, nil, zerr.With(zerr.Wrap(err, "uid computation failed"), "campaign", c.ID())
	}
	if err := c.Commit(); err != nil {
		return nil, nil, zerr.With(zerr.Wrap(err, "failed to persist uids"), "campaign", c.ID())
	}

	if len(ids) == 0 {
		ids = loops.Roots(g)
	}
	report := &Report{CampaignID: c.ID(), Stats: c.Stats()}
	for _, id := range g.Reachable(ids) {
		rec, ok := c.Record(id)
		if !ok {
			continue
		}
		report.Nodes = append(report.Nodes, NodeUID{ID: id, Full: rec.Full, Self: rec.Self})
	}

	s := report.Stats
	a.logger.Debug(fmt.Sprintf(
		"campaign %s finished: %d computed, %d loaded, %d skipped, %d discarded",
		c.ID(), s.ComputedNodes, s.LoadedNodes, s.SkippedNodes, s.DiscardedNodes,
	))
	return report, cfg, nil
}

// Watch runs like Run, then reruns after every burst of workspace changes until ctx is done.
// Each report is handed to emit. A failing rerun is logged and watching continues.
func (a *App) Watch(ctx context.Context, roots []string, opts Options, emit func(*Report) error) error {
	report, cfg, err := a.run(ctx, roots, opts)
	if err != nil {
		return err
	}
	if err := emit(report); err != nil {
		return err
	}

	if err := a.watcher.Start(ctx, cfg.Root); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to watch workspace"), "root", cfg.Root)
	}
	defer func() { _ = a.watcher.Stop() }()

	changes := make(chan []string)
	done := make(chan struct{})
	defer close(done)
	debouncer := watcher.NewDebouncer(watcher.DefaultDebounceWindow, func(paths []string) {
		select {
		case changes <- paths:
		case <-done:
		}
	})
	events := a.watcher.Events()
	go func() {
		for ev := range events {
			if !within(cfg.CacheDir, ev.Path) {
				debouncer.Add(ev.Path)
			}
		}
	}()

	a.logger.Info("watching " + cfg.Root)
	for {
		select {
		case <-ctx.Done():
			return nil
		case paths := <-changes:
			a.logger.Debug(fmt.Sprintf("%d paths changed: %s", len(paths), strings.Join(paths, ", ")))
			report, _, err := a.run(ctx, roots, opts)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				a.logger.Error(err)
				continue
			}
			if err := emit(report); err != nil {
				return err
			}
		}
	}
}

// within reports whether path is dir or below it.
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// Explain recomputes a single node without the cache and returns its update log.
// Nothing is persisted.
func (a *App) Explain(ctx context.Context, node string, opts Options) (*Explanation, error) {
	cfg, g, err := a.prepare(ctx, opts)
	if err != nil {
		return nil, err
	}

	id := domain.NewNodeID(node)
	c := a.engine.NewCampaign(g, uid.Options{Salt: cfg.Salt, NoCache: true, Explain: true})
	if err := c.Run(ctx, []domain.NodeID{id}); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "uid computation failed"), "campaign", c.ID())
	}

	logs, err := c.Explain(id)
	if err != nil {
		return nil, err
	}
	rec, _ := c.Record(id)
	return &Explanation{ID: id, Record: rec, Logs: logs}, nil
}

// Loops returns the loops of the graph in detection order.
func (a *App) Loops(opts Options) ([]*loops.Loop, error) {
	cfg, err := a.loadConfig(opts)
	if err != nil {
		return nil, err
	}
	g, err := a.graphLoader.Load(cfg.GraphPath)
	if err != nil {
		return nil, err
	}
	return loops.Detect(g).Loops(), nil
}

// Clean deletes the cache directory. The next run starts from an empty cache.
func (a *App) Clean(opts Options) error {
	cfg, err := a.loadConfig(opts)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(cfg.CacheDir); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to remove cache directory"), "path", cfg.CacheDir)
	}
	a.logger.Info("removed " + cfg.CacheDir)
	return nil
}

func (a *App) loadConfig(opts Options) (*domain.Config, error) {
	path := opts.ConfigPath
	if path == "" {
		path = domain.DefaultConfigFile
	}
	cfg, err := a.configLoader.Load(path)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	if opts.Jobs > 0 {
		cfg.Jobs = opts.Jobs
	}
	return cfg, nil
}

// prepare loads the graph and opens every collaborator of the engine on it.
func (a *App) prepare(ctx context.Context, opts Options) (*domain.Config, *domain.Graph, error) {
	cfg, err := a.loadConfig(opts)
	if err != nil {
		return nil, nil, err
	}

	g, err := a.graphLoader.Load(cfg.GraphPath)
	if err != nil {
		return nil, nil, err
	}

	a.content.Open(cfg.Root, cfg.Jobs)
	if err := a.content.Prefetch(ctx, g); err != nil {
		return nil, nil, zerr.Wrap(err, "failed to fingerprint files")
	}

	if err := a.oracle.Open(filepath.Join(cfg.CacheDir, domain.SnapshotFile)); err != nil {
		return nil, nil, err
	}
	if err := a.oracle.Scan(ctx, g); err != nil {
		return nil, nil, zerr.Wrap(err, "failed to scan for changes")
	}

	if err := a.store.Open(filepath.Join(cfg.CacheDir, domain.UIDCacheFile), cfg.Salt); err != nil {
		return nil, nil, err
	}
	return cfg, g, nil
}
