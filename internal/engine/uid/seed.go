package uid

import (
	"strings"

	"go.trai.ch/stamp/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	// noUIDSuffix marks commands excluded from uid computation.
	noUIDSuffix = "__NO_UID__"
	// inputPlaceholder stands for an input file in the structure of a command.
	inputPlaceholder = "$(INPUT)"
	// multimoduleMark is appended to the tag of modules declared by a multimodule.
	multimoduleMark = "mm"
	// fakeModuleMark marks modules that produce no artifacts.
	fakeModuleMark = "FakeModuleTag"
)

func (e *entry) seedString(s, label string, channels ...Channel) {
	for _, ch := range channels {
		e.ch[ch].UpdateString(s, label)
	}
	e.self.UpdateString(s, label)
}

func (e *entry) seedFingerprint(fp domain.Fingerprint, label string, channels ...Channel) {
	for _, ch := range channels {
		e.ch[ch].UpdateFingerprint(fp, label)
	}
	e.self.UpdateFingerprint(fp, label)
}

// seed feeds the node's own contribution into its channels and into Self.
func (c *Campaign) seed(e *entry) error {
	node := e.node
	name := node.ID.String()

	switch node.Kind {
	case domain.KindSourceFile:
		fp, ok, err := c.contentOf(node)
		if err != nil {
			return err
		}
		if !ok {
			return missingContentError(node)
		}
		e.seedFingerprint(fp, "content", Content, IncludeContent)
		e.seedString(name, "name", IncludeStructure)
		// File names stay out of Structure, so renaming a file keeps command shapes intact.
		e.seedString(node.Kind.String(), "kind", Structure)

	case domain.KindGeneratedFile:
		fp, ok, err := c.contentOf(node)
		if err != nil {
			return err
		}
		if ok {
			e.seedFingerprint(fp, "content", Content, IncludeContent)
		} else if !node.HasTraversedEdges() {
			return missingContentError(node)
		}
		e.seedString(name, "name", Structure, IncludeStructure)

	case domain.KindCommand:
		if strings.HasSuffix(name, noUIDSuffix) {
			return nil
		}
		if err := c.seedExpansion(e); err != nil {
			return err
		}
		if c.opts.Salt != "" {
			e.seedString(c.opts.Salt, "salt", Structure)
		}

	case domain.KindVariable:
		return c.seedExpansion(e)

	case domain.KindModule:
		tag := node.Module.Tag
		if node.Module.Multimodule {
			tag += multimoduleMark
		}
		if tag != "" {
			e.seedString(tag, "module tag", Structure)
		}
		if node.Module.Fake {
			e.seedString(fakeModuleMark, "fake module", IncludeStructure)
		}
		e.seedString(name, "name", IncludeStructure)

	case domain.KindDirectory:
		e.seedString(name, "name", IncludeStructure)

	case domain.KindProperty:
		e.seedString(name, "name", Structure, IncludeStructure)

	default:
		return zerr.With(zerr.Wrap(domain.ErrUnknownNodeKind, "cannot fingerprint node"), "node", name)
	}
	return nil
}

// seedExpansion folds the canonical expansion of a command or variable.
// Literal text goes into Structure; input references are folded as positional placeholders,
// their identities feed IncludeStructure and their bytes arrive through edges.
func (c *Campaign) seedExpansion(e *entry) error {
	repr, err := c.expander.Expand(c.graph, e.node)
	if err != nil {
		return configurationError(e.node, err)
	}
	for _, tok := range repr.Tokens {
		switch tok.Kind {
		case domain.TokenLiteral:
			e.seedString(tok.Text, "arg", Structure)
		case domain.TokenInput:
			e.seedString(inputPlaceholder, "input", Structure)
			e.seedString(tok.Input.String(), "input", IncludeStructure)
		}
	}
	return nil
}

func (c *Campaign) contentOf(node *domain.Node) (domain.Fingerprint, bool, error) {
	fp, ok, err := c.content.ContentFingerprint(node.ID)
	if err != nil {
		return fp, false, zerr.With(zerr.Wrap(err, "cannot fingerprint file"), "node", node.ID.String())
	}
	return fp, ok, nil
}
