package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/stamp/internal/adapters/logger" //nolint:depguard // Wired in adapter wiring
	"go.trai.ch/stamp/internal/core/ports"
)

const (
	WalkerNodeID   graft.ID = "adapter.fs.walker"
	ResolverNodeID graft.ID = "adapter.fs.resolver"
	HasherNodeID   graft.ID = "adapter.fs.hasher"
	ContentNodeID  graft.ID = "adapter.fs.content"
	OracleNodeID   graft.ID = "adapter.fs.oracle"
)

func init() {
	// Walker Node (Concrete implementation needed by the oracle)
	graft.Register(graft.Node[*Walker]{
		ID:        WalkerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Walker, error) {
			return NewWalker(), nil
		},
	})

	// Resolver Node
	graft.Register(graft.Node[*Resolver]{
		ID:        ResolverNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Resolver, error) {
			return NewResolver(), nil
		},
	})

	// Hasher Node (shared by the content provider and the oracle)
	graft.Register(graft.Node[*Hasher]{
		ID:        HasherNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{ResolverNodeID},
		Run: func(ctx context.Context) (*Hasher, error) {
			resolver, err := graft.Dep[*Resolver](ctx)
			if err != nil {
				return nil, err
			}
			return NewHasher(resolver), nil
		},
	})

	// Content Provider Node
	graft.Register(graft.Node[ports.ContentProvider]{
		ID:        ContentNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{HasherNodeID},
		Run: func(ctx context.Context) (ports.ContentProvider, error) {
			hasher, err := graft.Dep[*Hasher](ctx)
			if err != nil {
				return nil, err
			}
			return hasher, nil
		},
	})

	// Change Oracle Node
	graft.Register(graft.Node[ports.ChangeOracle]{
		ID:        OracleNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID, HasherNodeID, WalkerNodeID, ResolverNodeID},
		Run: func(ctx context.Context) (ports.ChangeOracle, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			hasher, err := graft.Dep[*Hasher](ctx)
			if err != nil {
				return nil, err
			}
			walker, err := graft.Dep[*Walker](ctx)
			if err != nil {
				return nil, err
			}
			resolver, err := graft.Dep[*Resolver](ctx)
			if err != nil {
				return nil, err
			}
			return NewSnapshotOracle(log, hasher, walker, resolver), nil
		},
	})
}
