package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/stamp/internal/adapters/logger" //nolint:depguard // Wired in adapter wiring
	"go.trai.ch/stamp/internal/core/ports"
)

const (
	NodeID         graft.ID = "adapter.config_loader"
	GraphNodeID    graft.ID = "adapter.config.graph_loader"
	ExpanderNodeID graft.ID = "adapter.config.expander"
)

func init() {
	graft.Register(graft.Node[ports.ConfigLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.ConfigLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log), nil
		},
	})

	graft.Register(graft.Node[ports.GraphLoader]{
		ID:        GraphNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.GraphLoader, error) {
			return NewGraphLoader(), nil
		},
	})

	graft.Register(graft.Node[ports.CommandExpander]{
		ID:        ExpanderNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.CommandExpander, error) {
			return NewExpander(), nil
		},
	})
}
