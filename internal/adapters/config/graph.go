package config

import (
	"os"

	"go.trai.ch/stamp/internal/core/domain"
	"go.trai.ch/stamp/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.GraphLoader = (*GraphLoader)(nil)

// GraphLoader implements ports.GraphLoader using a YAML graph description.
type GraphLoader struct{}

// NewGraphLoader creates a new GraphLoader.
func NewGraphLoader() *GraphLoader {
	return &GraphLoader{}
}

// Load reads a graph description from the given path and returns a validated domain.Graph.
// Nodes and their edges keep their declaration order.
func (l *GraphLoader) Load(path string) (*domain.Graph, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by configuration
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrGraphReadFailed, err.Error()), "path", path)
	}

	var gf GraphFile
	if err := decodeStrict(data, &gf); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrGraphReadFailed, err.Error()), "path", path)
	}
	if err := checkVersion(gf.Version, domain.ErrGraphReadFailed); err != nil {
		return nil, zerr.With(err, "path", path)
	}

	g, err := buildGraph(&gf)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "invalid graph description"), "path", path)
	}
	return g, nil
}

func buildGraph(gf *GraphFile) (*domain.Graph, error) {
	g := domain.NewGraph()
	for name, value := range gf.Vars {
		g.SetVar(name, value)
	}

	for i := range gf.Nodes {
		n, err := toNode(&gf.Nodes[i])
		if err != nil {
			return nil, err
		}
		if err := g.AddNode(n); err != nil {
			return nil, err
		}
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func toNode(dto *NodeDTO) (*domain.Node, error) {
	if dto.ID == "" {
		return nil, zerr.Wrap(domain.ErrGraphReadFailed, "node without id")
	}

	kind, err := domain.ParseNodeKind(dto.Kind)
	if err != nil {
		return nil, zerr.With(err, "node", dto.ID)
	}

	n := &domain.Node{
		ID:      domain.NewNodeID(dto.ID),
		Kind:    kind,
		Command: dto.Cmd,
		Value:   dto.Value,
		Module: domain.ModuleInfo{
			Tag:         dto.Tag,
			Multimodule: dto.Multimodule,
			Fake:        dto.Fake,
		},
		Edges: make([]domain.Edge, 0, len(dto.Edges)),
	}

	for _, e := range dto.Edges {
		ek, err := domain.ParseEdgeKind(e.Kind)
		if err != nil {
			return nil, zerr.With(err, "node", dto.ID)
		}
		n.Edges = append(n.Edges, domain.Edge{To: domain.NewNodeID(e.To), Kind: ek})
	}
	return n, nil
}
