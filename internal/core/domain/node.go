package domain

import "go.trai.ch/zerr"

// NodeID is the stable identity of a graph node.
// Identities are interned since file paths repeat across edges and records.
type NodeID = InternedString

// NewNodeID creates a NodeID from its textual identity.
func NewNodeID(s string) NodeID {
	return NewInternedString(s)
}

// NodeKind is the type tag of a graph node.
type NodeKind uint8

const (
	// KindSourceFile is a file checked into the source tree.
	KindSourceFile NodeKind = iota + 1
	// KindGeneratedFile is a file produced by a build command.
	KindGeneratedFile
	// KindDirectory is a directory used for include search.
	KindDirectory
	// KindCommand is an expanded build command.
	KindCommand
	// KindVariable is a build variable referenced by commands.
	KindVariable
	// KindModule is a module (a unit of the build description).
	KindModule
	// KindProperty is a named property attached to another node.
	KindProperty
)

var nodeKindNames = map[NodeKind]string{
	KindSourceFile:    "SourceFile",
	KindGeneratedFile: "GeneratedFile",
	KindDirectory:     "Directory",
	KindCommand:       "Command",
	KindVariable:      "Variable",
	KindModule:        "Module",
	KindProperty:      "Property",
}

// String returns the canonical name of the kind.
func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// ParseNodeKind resolves a kind from its canonical name.
func ParseNodeKind(s string) (NodeKind, error) {
	for k, name := range nodeKindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, zerr.With(zerr.Wrap(ErrUnknownNodeKind, "invalid node kind"), "kind", s)
}

// IsFile reports whether nodes of this kind carry file content.
func (k NodeKind) IsFile() bool {
	return k == KindSourceFile || k == KindGeneratedFile
}

// EdgeKind determines which fingerprint channels an edge feeds and whether it may close a cycle.
type EdgeKind uint8

const (
	// EdgeBuildFrom links an output to the inputs it is built from.
	EdgeBuildFrom EdgeKind = iota + 1
	// EdgeBuildCommand links an output to the command producing it.
	EdgeBuildCommand
	// EdgeInclude links a file to a file it includes.
	EdgeInclude
	// EdgeOutTogether links a main output to an additional output of the same command.
	EdgeOutTogether
	// EdgeOutTogetherBack links an additional output back to its main output.
	EdgeOutTogetherBack
	// EdgePeer links a module to a peer module.
	EdgePeer
	// EdgeProperty links a node to one of its properties.
	EdgeProperty
	// EdgeSearch links a node to a directory searched for includes.
	EdgeSearch
	// EdgeInnerCommand links a command to a nested command it runs.
	EdgeInnerCommand
)

var edgeKindNames = map[EdgeKind]string{
	EdgeBuildFrom:       "BuildFrom",
	EdgeBuildCommand:    "BuildCommand",
	EdgeInclude:         "Include",
	EdgeOutTogether:     "OutTogether",
	EdgeOutTogetherBack: "OutTogetherBack",
	EdgePeer:            "Peer",
	EdgeProperty:        "Property",
	EdgeSearch:          "Search",
	EdgeInnerCommand:    "InnerCommand",
}

// String returns the canonical name of the kind.
func (k EdgeKind) String() string {
	if name, ok := edgeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// ParseEdgeKind resolves a kind from its canonical name.
func ParseEdgeKind(s string) (EdgeKind, error) {
	for k, name := range edgeKindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, zerr.With(zerr.Wrap(ErrUnknownEdgeKind, "invalid edge kind"), "kind", s)
}

// CycleCapable reports whether an edge of this kind may legally be part of a loop.
func (k EdgeKind) CycleCapable() bool {
	return k == EdgeInclude || k == EdgeOutTogether
}

// NameOnly reports whether an edge of this kind contributes only the target identity.
// Such edges are never traversed.
func (k EdgeKind) NameOnly() bool {
	return k == EdgeSearch || k == EdgeOutTogetherBack
}

// Traversed reports whether the visitor descends into the target of an edge of this kind.
func (k EdgeKind) Traversed() bool {
	return !k.NameOnly()
}

// Edge is a directed, typed dependency between two nodes.
type Edge struct {
	From NodeID
	To   NodeID
	Kind EdgeKind
}

// ModuleInfo carries the attributes of a Module node.
type ModuleInfo struct {
	// Tag is the module tag, e.g. the language or platform variant.
	Tag string
	// Multimodule marks a module produced from a multimodule declaration.
	Multimodule bool
	// Fake marks a module that produces no artifacts of its own.
	Fake bool
}

// Node is a vertex of the build graph.
type Node struct {
	ID   NodeID
	Kind NodeKind

	// Command holds the raw tokens of a Command node, before macro expansion.
	Command []string
	// Value holds the raw value of a Variable node, before macro expansion.
	Value string
	// Module holds the attributes of a Module node.
	Module ModuleInfo

	// Edges are the outgoing edges in declaration order.
	Edges []Edge
}

// HasTraversedEdges reports whether any outgoing edge leads the visitor to another node.
func (n *Node) HasTraversedEdges() bool {
	for _, e := range n.Edges {
		if e.Kind.Traversed() && e.To != n.ID {
			return true
		}
	}
	return false
}

// NewNodeIDs converts a slice of identities to NodeIDs.
func NewNodeIDs(ss []string) []NodeID {
	ids := make([]NodeID, len(ss))
	for i, s := range ss {
		ids[i] = NewNodeID(s)
	}
	return ids
}
