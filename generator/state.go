package generator

import (
	"strings"

	"github.com/acornjs/acorn-async-iteration/parser"
)

type state struct {
	out    *strings.Builder
	node   *parser.Node
	parent *state
	indent int
	// minPrec is the lowest precedence the node may print without
	// parentheses in its position.
	minPrec int
}

func (s *state) wrap(node *parser.Node) *state {
	return s.wrapExpr(node, 0)
}

func (s *state) wrapExpr(node *parser.Node, minPrec int) *state {
	return &state{
		out:     s.out,
		node:    node,
		parent:  s,
		indent:  s.indent,
		minPrec: minPrec,
	}
}

func (s *state) line() {
	s.out.WriteString("\n")
}

func (s *state) lineAndPad() {
	s.line()
	s.out.WriteString(strings.Repeat("    ", s.indent))
}

func (s *state) parentType() parser.NodeType {
	if s.parent == nil || s.parent.node == nil {
		return parser.NODE_UNTYPED
	}
	return s.parent.node.Type
}
