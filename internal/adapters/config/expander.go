package config

import (
	"strings"

	"go.trai.ch/stamp/internal/core/domain"
	"go.trai.ch/stamp/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.CommandExpander = (*Expander)(nil)

const inputPrefix = "input:"

// Expander expands the macros of command and variable nodes.
//
// Supported forms:
//   - $(NAME) is replaced by the value of the build variable NAME, expanded recursively.
//   - ${input:PATH} references the input file PATH.
//   - $$ is a literal dollar sign.
type Expander struct{}

// NewExpander creates a new Expander.
func NewExpander() *Expander {
	return &Expander{}
}

// Expand returns the canonical token list of a node.
// A variable node expands to a single "NAME=" literal followed by its expanded value.
func (x *Expander) Expand(g *domain.Graph, node *domain.Node) (domain.CommandRepr, error) {
	e := &expansion{g: g, active: make(map[string]bool)}

	switch node.Kind {
	case domain.KindVariable:
		e.lit.WriteString(node.ID.String() + "=")
		if err := e.expand(node.Value); err != nil {
			return domain.CommandRepr{}, err
		}
		e.flush()
	default:
		for _, raw := range node.Command {
			before := len(e.tokens)
			if err := e.expand(raw); err != nil {
				return domain.CommandRepr{}, err
			}
			e.flush()
			if len(e.tokens) == before {
				e.tokens = append(e.tokens, domain.Literal(""))
			}
		}
	}
	return domain.CommandRepr{Tokens: e.tokens}, nil
}

type expansion struct {
	g      *domain.Graph
	active map[string]bool
	tokens []domain.Token
	lit    strings.Builder
}

func (e *expansion) flush() {
	if e.lit.Len() == 0 {
		return
	}
	e.tokens = append(e.tokens, domain.Literal(e.lit.String()))
	e.lit.Reset()
}

func (e *expansion) expand(s string) error {
	for i := 0; i < len(s); i++ {
		if s[i] != '$' || i+1 == len(s) {
			e.lit.WriteByte(s[i])
			continue
		}

		switch s[i+1] {
		case '$':
			e.lit.WriteByte('$')
			i++
		case '(':
			end := strings.IndexByte(s[i+2:], ')')
			if end < 0 {
				return unevaluable("unterminated macro", s[i:])
			}
			if err := e.variable(s[i+2 : i+2+end]); err != nil {
				return err
			}
			i += 2 + end
		case '{':
			end := strings.IndexByte(s[i+2:], '}')
			if end < 0 {
				return unevaluable("unterminated macro", s[i:])
			}
			inner := s[i+2 : i+2+end]
			path, ok := strings.CutPrefix(inner, inputPrefix)
			if !ok || path == "" {
				return unevaluable("unknown macro", inner)
			}
			e.flush()
			e.tokens = append(e.tokens, domain.InputRef(domain.NewNodeID(path)))
			i += 2 + end
		default:
			e.lit.WriteByte('$')
		}
	}
	return nil
}

func (e *expansion) variable(name string) error {
	if e.active[name] {
		return zerr.With(zerr.Wrap(domain.ErrVariableRecursion, "cannot expand variable"), "variable", name)
	}
	value, ok := e.g.Var(name)
	if !ok {
		return unevaluable("undefined variable", name)
	}

	e.active[name] = true
	defer delete(e.active, name)
	return e.expand(value)
}

func unevaluable(msg, macro string) error {
	return zerr.With(zerr.Wrap(domain.ErrMacroUnevaluable, msg), "macro", macro)
}
