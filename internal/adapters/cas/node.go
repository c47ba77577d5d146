package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/stamp/internal/adapters/logger" //nolint:depguard // Wired in adapter wiring
	"go.trai.ch/stamp/internal/core/ports"
)

// NodeID is the unique identifier for the uid store Graft node.
const NodeID graft.ID = "adapter.uid_store"

func init() {
	graft.Register(graft.Node[ports.UidStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.UidStore, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			store, err := NewStore(log, DefaultMemoSize)
			if err != nil {
				return nil, err
			}
			return store, nil
		},
	})
}
