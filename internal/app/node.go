package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/stamp/internal/adapters/cas"     //nolint:depguard // Wired in app layer
	"go.trai.ch/stamp/internal/adapters/config"  //nolint:depguard // Wired in app layer
	"go.trai.ch/stamp/internal/adapters/fs"      //nolint:depguard // Wired in app layer
	"go.trai.ch/stamp/internal/adapters/logger"  //nolint:depguard // Wired in app layer
	"go.trai.ch/stamp/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/stamp/internal/core/ports"
	"go.trai.ch/stamp/internal/engine/uid"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			config.GraphNodeID,
			fs.ContentNodeID,
			fs.OracleNodeID,
			cas.NodeID,
			uid.NodeID,
			watcher.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewComponents(app, log), nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	configLoader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	graphLoader, err := graft.Dep[ports.GraphLoader](ctx)
	if err != nil {
		return nil, err
	}

	content, err := graft.Dep[ports.ContentProvider](ctx)
	if err != nil {
		return nil, err
	}

	oracle, err := graft.Dep[ports.ChangeOracle](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.UidStore](ctx)
	if err != nil {
		return nil, err
	}

	engine, err := graft.Dep[*uid.Engine](ctx)
	if err != nil {
		return nil, err
	}

	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(configLoader, graphLoader, content, oracle, store, engine, w, log), nil
}
