package ports

import "go.trai.ch/stamp/internal/core/domain"

// CommandExpander defines the interface for expanding macros in commands and variables.
//
//go:generate mockgen -source=expander.go -destination=mocks/mock_expander.go -package=mocks
type CommandExpander interface {
	// Expand returns the canonical representation of a Command or Variable node.
	// Input file references are returned as separate tokens, never as literal text.
	Expand(g *domain.Graph, node *domain.Node) (domain.CommandRepr, error)
}
