package uid

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.trai.ch/stamp/internal/core/domain"
	"go.trai.ch/zerr"
)

func missingContentError(node *domain.Node) error {
	err := zerr.Wrap(domain.ErrMissingContent, "leaf file has no content")
	err = zerr.With(err, "node", node.ID.String())
	return zerr.With(err, "kind", node.Kind.String())
}

func configurationError(node *domain.Node, cause error) error {
	err := zerr.Wrap(errors.Join(domain.ErrConfiguration, cause), "cannot expand "+strings.ToLower(node.Kind.String()))
	return zerr.With(err, "node", node.ID.String())
}

// dependencyLoopError reports a cycle closed by edge. The path runs from the edge target
// through the nodes currently being visited.
func (c *Campaign) dependencyLoopError(edge domain.Edge) error {
	path := c.stack
	if i := slices.Index(c.stack, edge.To); i >= 0 {
		path = c.stack[i:]
	}
	parts := make([]string, 0, len(path)+1)
	for _, id := range path {
		parts = append(parts, id.String())
	}
	parts = append(parts, edge.To.String())

	err := zerr.Wrap(domain.ErrDependencyLoop, "cycle closes through an edge that cannot form a loop")
	err = zerr.With(err, "edge", fmt.Sprintf("%s -%s-> %s", edge.From, edge.Kind, edge.To))
	return zerr.With(err, "path", strings.Join(parts, " -> "))
}
