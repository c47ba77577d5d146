package uid

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/stamp/internal/adapters/cas"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/stamp/internal/adapters/config" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/stamp/internal/adapters/fs"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/stamp/internal/core/ports"
)

// NodeID is the unique identifier for the uid engine Graft node.
const NodeID graft.ID = "engine.uid"

func init() {
	graft.Register(graft.Node[*Engine]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.ExpanderNodeID,
			fs.ContentNodeID,
			fs.OracleNodeID,
			cas.NodeID,
		},
		Run: func(ctx context.Context) (*Engine, error) {
			expander, err := graft.Dep[ports.CommandExpander](ctx)
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

			return NewEngine(expander, content, oracle, store), nil
		},
	})
}
