package ports

import "go.trai.ch/stamp/internal/core/domain"

// GraphLoader defines the interface for loading the build graph.
//
//go:generate mockgen -source=graph_loader.go -destination=mocks/mock_graph_loader.go -package=mocks
type GraphLoader interface {
	// Load reads the graph description at path and returns a validated graph.
	Load(path string) (*domain.Graph, error)
}
