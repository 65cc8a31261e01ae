// Package generator prints an ESTree produced by the parser back to
// JavaScript source.
package generator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/acornjs/acorn-async-iteration/parser"
)

// Operator precedence levels. Higher binds tighter.
const (
	precSequence    = 0
	precAssign      = 1
	precConditional = 2
	precBinary      = 3 // plus the operator's level in binaryPrecedence
	precUnary       = 15
	precPostfix     = 16
	precCall        = 17
	precMember      = 18
	precAtom        = 19
)

var binaryPrecedence = map[string]int{
	"||": 1, "&&": 2, "|": 3, "^": 4, "&": 5,
	"==": 6, "!=": 6, "===": 6, "!==": 6,
	"<": 7, ">": 7, "<=": 7, ">=": 7, "in": 7, "instanceof": 7,
	"<<": 8, ">>": 8, ">>>": 8,
	"+": 9, "-": 9,
	"*": 10, "/": 10, "%": 10,
	"**": 11,
}

// Generate returns the source text of node.
func Generate(node *parser.Node) string {
	s := &state{
		out:  &strings.Builder{},
		node: node,
	}
	gen(s)
	return s.out.String()
}

func precedence(n *parser.Node) int {
	switch n.Type {
	case parser.NODE_SEQUENCE_EXPRESSION:
		return precSequence
	case parser.NODE_ASSIGNMENT_EXPRESSION, parser.NODE_ARROW_FUNCTION_EXPRESSION, parser.NODE_YIELD_EXPRESSION:
		return precAssign
	case parser.NODE_CONDITIONAL_EXPRESSION:
		return precConditional
	case parser.NODE_BINARY_EXPRESSION, parser.NODE_LOGICAL_EXPRESSION:
		return precBinary + binaryPrecedence[n.Operator]
	case parser.NODE_UNARY_EXPRESSION, parser.NODE_AWAIT_EXPRESSION:
		return precUnary
	case parser.NODE_UPDATE_EXPRESSION:
		if n.Prefix {
			return precUnary
		}
		return precPostfix
	case parser.NODE_CALL_EXPRESSION:
		return precCall
	case parser.NODE_NEW_EXPRESSION, parser.NODE_MEMBER_EXPRESSION, parser.NODE_TAGGED_TEMPLATE_EXPRESSION:
		return precMember
	}
	return precAtom
}

func gen(s *state) {
	n := s.node
	if n == nil {
		return
	}
	if precedence(n) < s.minPrec {
		s.out.WriteString("(")
		defer s.out.WriteString(")")
	}

	switch n.Type {
	case parser.NODE_PROGRAM:
		for i, st := range n.Body {
			if i > 0 {
				s.line()
			}
			gen(s.wrap(st))
		}

	case parser.NODE_EXPRESSION_STATEMENT:
		if n.Directive == "" && startsWithBraceOrFunction(n.Expression) {
			s.out.WriteString("(")
			gen(s.wrap(n.Expression))
			s.out.WriteString(")")
		} else {
			gen(s.wrap(n.Expression))
		}
		s.out.WriteString(";")

	case parser.NODE_BLOCK_STATEMENT, parser.NODE_CLASS_BODY:
		if len(n.Body) == 0 {
			s.out.WriteString("{}")
			return
		}
		s.out.WriteString("{")
		s.indent++
		for _, st := range n.Body {
			s.lineAndPad()
			gen(s.wrap(st))
		}
		s.indent--
		s.lineAndPad()
		s.out.WriteString("}")

	case parser.NODE_EMPTY_STATEMENT:
		s.out.WriteString(";")

	case parser.NODE_DEBUGGER_STATEMENT:
		s.out.WriteString("debugger;")

	case parser.NODE_WITH_STATEMENT:
		s.out.WriteString("with (")
		gen(s.wrap(n.Object))
		s.out.WriteString(") ")
		gen(s.wrap(n.BodyNode))

	case parser.NODE_RETURN_STATEMENT, parser.NODE_THROW_STATEMENT:
		if n.Type == parser.NODE_RETURN_STATEMENT {
			s.out.WriteString("return")
		} else {
			s.out.WriteString("throw")
		}
		if n.Argument != nil {
			s.out.WriteString(" ")
			gen(s.wrap(n.Argument))
		}
		s.out.WriteString(";")

	case parser.NODE_LABELED_STATEMENT:
		gen(s.wrap(n.Label))
		s.out.WriteString(": ")
		gen(s.wrap(n.BodyNode))

	case parser.NODE_BREAK_STATEMENT, parser.NODE_CONTINUE_STATEMENT:
		if n.Type == parser.NODE_BREAK_STATEMENT {
			s.out.WriteString("break")
		} else {
			s.out.WriteString("continue")
		}
		if n.Label != nil {
			s.out.WriteString(" ")
			gen(s.wrap(n.Label))
		}
		s.out.WriteString(";")

	case parser.NODE_IF_STATEMENT:
		s.out.WriteString("if (")
		gen(s.wrap(n.Test))
		s.out.WriteString(") ")
		consequent := n.Consequent
		if n.Alternate != nil && endsWithDanglingIf(consequent) {
			s.out.WriteString("{")
			s.indent++
			s.lineAndPad()
			gen(s.wrap(consequent))
			s.indent--
			s.lineAndPad()
			s.out.WriteString("}")
		} else {
			gen(s.wrap(consequent))
		}
		if n.Alternate != nil {
			s.out.WriteString(" else ")
			gen(s.wrap(n.Alternate))
		}

	case parser.NODE_SWITCH_STATEMENT:
		s.out.WriteString("switch (")
		gen(s.wrap(n.Discriminant))
		s.out.WriteString(") {")
		s.indent++
		for _, c := range n.Cases {
			s.lineAndPad()
			gen(s.wrap(c))
		}
		s.indent--
		s.lineAndPad()
		s.out.WriteString("}")

	case parser.NODE_SWITCH_CASE:
		if n.Test != nil {
			s.out.WriteString("case ")
			gen(s.wrap(n.Test))
			s.out.WriteString(":")
		} else {
			s.out.WriteString("default:")
		}
		s.indent++
		for _, st := range n.ConsequentSlice {
			s.lineAndPad()
			gen(s.wrap(st))
		}
		s.indent--

	case parser.NODE_TRY_STATEMENT:
		s.out.WriteString("try ")
		gen(s.wrap(n.Block))
		if n.Handler != nil {
			s.out.WriteString(" ")
			gen(s.wrap(n.Handler))
		}
		if n.Finalizer != nil {
			s.out.WriteString(" finally ")
			gen(s.wrap(n.Finalizer))
		}

	case parser.NODE_CATCH_CLAUSE:
		s.out.WriteString("catch ")
		if n.Param != nil {
			s.out.WriteString("(")
			gen(s.wrap(n.Param))
			s.out.WriteString(") ")
		}
		gen(s.wrap(n.BodyNode))

	case parser.NODE_WHILE_STATEMENT:
		s.out.WriteString("while (")
		gen(s.wrap(n.Test))
		s.out.WriteString(") ")
		gen(s.wrap(n.BodyNode))

	case parser.NODE_DO_WHILE_STATEMENT:
		s.out.WriteString("do ")
		gen(s.wrap(n.BodyNode))
		s.out.WriteString(" while (")
		gen(s.wrap(n.Test))
		s.out.WriteString(");")

	case parser.NODE_FOR_STATEMENT:
		s.out.WriteString("for (")
		if n.Init != nil {
			if n.Init.Type != parser.NODE_VARIABLE_DECLARATION && containsIn(n.Init) {
				s.out.WriteString("(")
				gen(s.wrap(n.Init))
				s.out.WriteString(")")
			} else {
				gen(s.wrap(n.Init))
			}
		}
		s.out.WriteString(";")
		if n.Test != nil {
			s.out.WriteString(" ")
			gen(s.wrap(n.Test))
		}
		s.out.WriteString(";")
		if n.Update != nil {
			s.out.WriteString(" ")
			gen(s.wrap(n.Update))
		}
		s.out.WriteString(") ")
		gen(s.wrap(n.BodyNode))

	case parser.NODE_FOR_IN_STATEMENT, parser.NODE_FOR_OF_STATEMENT:
		s.out.WriteString("for ")
		if n.Await {
			s.out.WriteString("await ")
		}
		s.out.WriteString("(")
		gen(s.wrapExpr(n.Left, precCall))
		if n.Type == parser.NODE_FOR_IN_STATEMENT {
			s.out.WriteString(" in ")
			gen(s.wrap(n.Right))
		} else {
			s.out.WriteString(" of ")
			gen(s.wrapExpr(n.Right, precAssign))
		}
		s.out.WriteString(") ")
		gen(s.wrap(n.BodyNode))

	case parser.NODE_FUNCTION_DECLARATION, parser.NODE_FUNCTION_EXPRESSION:
		if n.IsAsync {
			s.out.WriteString("async ")
		}
		s.out.WriteString("function")
		if n.IsGenerator {
			s.out.WriteString("*")
		}
		if n.Id != nil {
			s.out.WriteString(" ")
			gen(s.wrap(n.Id))
		}
		genParams(s, n.Params)
		s.out.WriteString(" ")
		gen(s.wrap(n.BodyNode))

	case parser.NODE_ARROW_FUNCTION_EXPRESSION:
		if n.IsAsync {
			s.out.WriteString("async ")
		}
		genParams(s, n.Params)
		s.out.WriteString(" => ")
		if n.IsExpression && startsWithBraceOrFunction(n.BodyNode) {
			s.out.WriteString("(")
			gen(s.wrap(n.BodyNode))
			s.out.WriteString(")")
		} else {
			gen(s.wrapExpr(n.BodyNode, precAssign))
		}

	case parser.NODE_VARIABLE_DECLARATION:
		s.out.WriteString(n.Kind.String())
		s.out.WriteString(" ")
		for i, decl := range n.Declarations {
			if i > 0 {
				s.out.WriteString(", ")
			}
			gen(s.wrap(decl))
		}
		if parent := s.parent; parent == nil || parent.node == nil ||
			(parent.node.Init != n && parent.node.Left != n) {
			s.out.WriteString(";")
		}

	case parser.NODE_VARIABLE_DECLARATOR:
		gen(s.wrap(n.Id))
		if n.Init != nil {
			s.out.WriteString(" = ")
			inForInit := s.parent != nil && s.parent.parentType() == parser.NODE_FOR_STATEMENT
			if inForInit && containsIn(n.Init) {
				s.out.WriteString("(")
				gen(s.wrap(n.Init))
				s.out.WriteString(")")
			} else {
				gen(s.wrapExpr(n.Init, precAssign))
			}
		}

	case parser.NODE_THIS_EXPRESSION:
		s.out.WriteString("this")

	case parser.NODE_SUPER:
		s.out.WriteString("super")

	case parser.NODE_IDENTIFIER:
		s.out.WriteString(n.Name)

	case parser.NODE_LITERAL:
		s.out.WriteString(literal(n))

	case parser.NODE_ARRAY_EXPRESSION, parser.NODE_ARRAY_PATTERN:
		s.out.WriteString("[")
		for i, el := range n.Elements {
			if i > 0 {
				s.out.WriteString(", ")
			}
			if el != nil {
				gen(s.wrapExpr(el, precAssign))
			}
		}
		if l := len(n.Elements); l > 0 && n.Elements[l-1] == nil {
			s.out.WriteString(",")
		}
		s.out.WriteString("]")

	case parser.NODE_OBJECT_EXPRESSION, parser.NODE_OBJECT_PATTERN:
		if len(n.Properties) == 0 {
			s.out.WriteString("{}")
			return
		}
		s.out.WriteString("{")
		for i, prop := range n.Properties {
			if i > 0 {
				s.out.WriteString(",")
			}
			s.out.WriteString(" ")
			gen(s.wrap(prop))
		}
		s.out.WriteString(" }")

	case parser.NODE_PROPERTY:
		value := n.ValueNode()
		switch {
		case n.Kind == parser.KIND_PROPERTY_GET || n.Kind == parser.KIND_PROPERTY_SET:
			s.out.WriteString(n.Kind.String())
			s.out.WriteString(" ")
			genKey(s, n)
			genParams(s, value.Params)
			s.out.WriteString(" ")
			gen(s.wrap(value.BodyNode))
		case n.IsMethod:
			genMethod(s, n, value)
		case n.Shorthand:
			if value != nil && value.Type == parser.NODE_ASSIGNMENT_PATTERN {
				gen(s.wrap(value))
			} else {
				genKey(s, n)
			}
		default:
			genKey(s, n)
			s.out.WriteString(": ")
			gen(s.wrapExpr(value, precAssign))
		}

	case parser.NODE_METHOD_DEFINITION:
		value := n.ValueNode()
		if n.IsStatic {
			s.out.WriteString("static ")
		}
		if n.Kind == parser.KIND_PROPERTY_GET || n.Kind == parser.KIND_PROPERTY_SET {
			s.out.WriteString(n.Kind.String())
			s.out.WriteString(" ")
			genKey(s, n)
			genParams(s, value.Params)
			s.out.WriteString(" ")
			gen(s.wrap(value.BodyNode))
		} else {
			genMethod(s, n, value)
		}

	case parser.NODE_UNARY_EXPRESSION:
		s.out.WriteString(n.Operator)
		if needsSpaceAfterPrefix(n.Operator, n.Argument) {
			s.out.WriteString(" ")
		}
		gen(s.wrapExpr(n.Argument, precUnary))

	case parser.NODE_UPDATE_EXPRESSION:
		if n.Prefix {
			s.out.WriteString(n.Operator)
			gen(s.wrapExpr(n.Argument, precCall))
		} else {
			gen(s.wrapExpr(n.Argument, precCall))
			s.out.WriteString(n.Operator)
		}

	case parser.NODE_AWAIT_EXPRESSION:
		s.out.WriteString("await ")
		gen(s.wrapExpr(n.Argument, precUnary))

	case parser.NODE_YIELD_EXPRESSION:
		s.out.WriteString("yield")
		if n.Delegate {
			s.out.WriteString("*")
		}
		if n.Argument != nil {
			s.out.WriteString(" ")
			gen(s.wrapExpr(n.Argument, precAssign))
		}

	case parser.NODE_BINARY_EXPRESSION, parser.NODE_LOGICAL_EXPRESSION:
		prec := precedence(n)
		leftPrec, rightPrec := prec, prec+1
		if n.Operator == "**" {
			leftPrec, rightPrec = precPostfix, prec
		}
		gen(s.wrapExpr(n.Left, leftPrec))
		s.out.WriteString(" " + n.Operator + " ")
		gen(s.wrapExpr(n.Right, rightPrec))

	case parser.NODE_ASSIGNMENT_EXPRESSION:
		gen(s.wrapExpr(n.Left, precCall))
		s.out.WriteString(" " + n.Operator + " ")
		gen(s.wrapExpr(n.Right, precAssign))

	case parser.NODE_ASSIGNMENT_PATTERN:
		gen(s.wrapExpr(n.Left, precCall))
		s.out.WriteString(" = ")
		gen(s.wrapExpr(n.Right, precAssign))

	case parser.NODE_CONDITIONAL_EXPRESSION:
		gen(s.wrapExpr(n.Test, precBinary))
		s.out.WriteString(" ? ")
		gen(s.wrapExpr(n.Consequent, precAssign))
		s.out.WriteString(" : ")
		gen(s.wrapExpr(n.Alternate, precAssign))

	case parser.NODE_MEMBER_EXPRESSION:
		if n.Object.Type == parser.NODE_LITERAL {
			if _, ok := n.Object.Value.(float64); ok {
				s.out.WriteString("(")
				gen(s.wrap(n.Object))
				s.out.WriteString(")")
			} else {
				gen(s.wrapExpr(n.Object, precCall))
			}
		} else {
			gen(s.wrapExpr(n.Object, precCall))
		}
		if n.Computed {
			s.out.WriteString("[")
			gen(s.wrap(n.Property))
			s.out.WriteString("]")
		} else {
			s.out.WriteString(".")
			gen(s.wrap(n.Property))
		}

	case parser.NODE_CALL_EXPRESSION:
		gen(s.wrapExpr(n.Callee, precCall))
		genArguments(s, n.Arguments)

	case parser.NODE_NEW_EXPRESSION:
		s.out.WriteString("new ")
		if chainHasCall(n.Callee) {
			s.out.WriteString("(")
			gen(s.wrap(n.Callee))
			s.out.WriteString(")")
		} else {
			gen(s.wrapExpr(n.Callee, precMember))
		}
		genArguments(s, n.Arguments)

	case parser.NODE_TAGGED_TEMPLATE_EXPRESSION:
		gen(s.wrapExpr(n.Tag, precCall))
		gen(s.wrap(n.Quasi))

	case parser.NODE_TEMPLATE_LITERAL:
		s.out.WriteString("`")
		for i, quasi := range n.Quasis {
			s.out.WriteString(quasi.Raw)
			if i < len(n.Expressions) {
				s.out.WriteString("${")
				gen(s.wrap(n.Expressions[i]))
				s.out.WriteString("}")
			}
		}
		s.out.WriteString("`")

	case parser.NODE_SEQUENCE_EXPRESSION:
		for i, ex := range n.Expressions {
			if i > 0 {
				s.out.WriteString(", ")
			}
			gen(s.wrapExpr(ex, precAssign))
		}

	case parser.NODE_SPREAD_ELEMENT, parser.NODE_REST_ELEMENT:
		s.out.WriteString("...")
		gen(s.wrapExpr(n.Argument, precAssign))

	case parser.NODE_CLASS_DECLARATION, parser.NODE_CLASS_EXPRESSION:
		s.out.WriteString("class")
		if n.Id != nil {
			s.out.WriteString(" ")
			gen(s.wrap(n.Id))
		}
		if n.SuperClass != nil {
			s.out.WriteString(" extends ")
			gen(s.wrapExpr(n.SuperClass, precCall))
		}
		s.out.WriteString(" ")
		gen(s.wrap(n.BodyNode))

	case parser.NODE_META_PROPERTY:
		gen(s.wrap(n.Meta))
		s.out.WriteString(".")
		gen(s.wrap(n.Property))

	case parser.NODE_PARENTHESIZED_EXPRESSION:
		s.out.WriteString("(")
		gen(s.wrap(n.Expression))
		s.out.WriteString(")")

	case parser.NODE_IMPORT_DECLARATION:
		s.out.WriteString("import ")
		if len(n.Specifiers) > 0 {
			genImportSpecifiers(s, n.Specifiers)
			s.out.WriteString(" from ")
		}
		gen(s.wrap(n.Source))
		s.out.WriteString(";")

	case parser.NODE_IMPORT_SPECIFIER:
		gen(s.wrap(n.Imported))
		if n.Local != nil && n.Local.Name != n.Imported.Name {
			s.out.WriteString(" as ")
			gen(s.wrap(n.Local))
		}

	case parser.NODE_IMPORT_DEFAULT_SPECIFIER:
		gen(s.wrap(n.Local))

	case parser.NODE_IMPORT_NAMESPACE_SPECIFIER:
		s.out.WriteString("* as ")
		gen(s.wrap(n.Local))

	case parser.NODE_EXPORT_NAMED_DECLARATION:
		s.out.WriteString("export ")
		if n.Declaration != nil {
			gen(s.wrap(n.Declaration))
			return
		}
		s.out.WriteString("{")
		for i, spec := range n.Specifiers {
			if i > 0 {
				s.out.WriteString(",")
			}
			s.out.WriteString(" ")
			gen(s.wrap(spec))
		}
		if len(n.Specifiers) > 0 {
			s.out.WriteString(" ")
		}
		s.out.WriteString("}")
		if n.Source != nil {
			s.out.WriteString(" from ")
			gen(s.wrap(n.Source))
		}
		s.out.WriteString(";")

	case parser.NODE_EXPORT_SPECIFIER:
		gen(s.wrap(n.Local))
		if n.Exported != nil && n.Exported.Name != n.Local.Name {
			s.out.WriteString(" as ")
			gen(s.wrap(n.Exported))
		}

	case parser.NODE_EXPORT_DEFAULT_DECLARATION:
		s.out.WriteString("export default ")
		switch decl := n.Declaration; decl.Type {
		case parser.NODE_FUNCTION_DECLARATION, parser.NODE_CLASS_DECLARATION:
			gen(s.wrap(decl))
		default:
			if startsWithBraceOrFunction(decl) {
				s.out.WriteString("(")
				gen(s.wrap(decl))
				s.out.WriteString(")")
			} else {
				gen(s.wrapExpr(decl, precAssign))
			}
			s.out.WriteString(";")
		}

	case parser.NODE_EXPORT_ALL_DECLARATION:
		s.out.WriteString("export * from ")
		gen(s.wrap(n.Source))
		s.out.WriteString(";")

	default:
		panic(fmt.Sprintf("gen: unexpected node type %s", n.Type))
	}
}

func genParams(s *state, params []*parser.Node) {
	s.out.WriteString("(")
	for i, param := range params {
		if i > 0 {
			s.out.WriteString(", ")
		}
		gen(s.wrapExpr(param, precAssign))
	}
	s.out.WriteString(")")
}

func genArguments(s *state, args []*parser.Node) {
	s.out.WriteString("(")
	for i, arg := range args {
		if i > 0 {
			s.out.WriteString(", ")
		}
		gen(s.wrapExpr(arg, precAssign))
	}
	s.out.WriteString(")")
}

func genKey(s *state, n *parser.Node) {
	if n.Computed {
		s.out.WriteString("[")
		gen(s.wrapExpr(n.Key, precAssign))
		s.out.WriteString("]")
		return
	}
	gen(s.wrap(n.Key))
}

// genMethod prints a method of an object literal or class body, with its
// async and generator modifiers.
func genMethod(s *state, n *parser.Node, value *parser.Node) {
	if value.IsAsync {
		s.out.WriteString("async ")
	}
	if value.IsGenerator {
		s.out.WriteString("*")
	}
	genKey(s, n)
	genParams(s, value.Params)
	s.out.WriteString(" ")
	gen(s.wrap(value.BodyNode))
}

func genImportSpecifiers(s *state, specs []*parser.Node) {
	named := false
	for i, spec := range specs {
		if i > 0 {
			s.out.WriteString(", ")
		}
		if spec.Type == parser.NODE_IMPORT_SPECIFIER {
			if !named {
				s.out.WriteString("{ ")
				named = true
			}
		}
		gen(s.wrap(spec))
	}
	if named {
		s.out.WriteString(" }")
	}
}

func literal(n *parser.Node) string {
	if n.Raw != "" {
		return n.Raw
	}
	switch v := n.Value.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return strconv.Quote(v)
	}
	return fmt.Sprint(n.Value)
}

func needsSpaceAfterPrefix(op string, arg *parser.Node) bool {
	switch op {
	case "!", "~":
		return false
	case "+", "-":
	default:
		return true
	}
	switch arg.Type {
	case parser.NODE_UNARY_EXPRESSION, parser.NODE_UPDATE_EXPRESSION:
		return arg.Prefix && arg.Operator[0] == op[0]
	}
	return false
}

// startsWithBraceOrFunction reports whether the printed expression would
// begin with `{`, `function`, `async function` or `class`, which would
// change its meaning at the start of a statement.
func startsWithBraceOrFunction(n *parser.Node) bool {
	for n != nil {
		switch n.Type {
		case parser.NODE_OBJECT_EXPRESSION, parser.NODE_OBJECT_PATTERN,
			parser.NODE_FUNCTION_EXPRESSION, parser.NODE_CLASS_EXPRESSION:
			return true
		case parser.NODE_BINARY_EXPRESSION, parser.NODE_LOGICAL_EXPRESSION, parser.NODE_ASSIGNMENT_EXPRESSION:
			if precedence(n.Left) < precedence(n) {
				return false
			}
			n = n.Left
		case parser.NODE_CONDITIONAL_EXPRESSION:
			if precedence(n.Test) < precBinary {
				return false
			}
			n = n.Test
		case parser.NODE_SEQUENCE_EXPRESSION:
			if len(n.Expressions) == 0 {
				return false
			}
			n = n.Expressions[0]
		case parser.NODE_MEMBER_EXPRESSION:
			n = n.Object
		case parser.NODE_CALL_EXPRESSION:
			n = n.Callee
		case parser.NODE_TAGGED_TEMPLATE_EXPRESSION:
			n = n.Tag
		case parser.NODE_UPDATE_EXPRESSION:
			if n.Prefix {
				return false
			}
			n = n.Argument
		default:
			return false
		}
	}
	return false
}

// endsWithDanglingIf reports whether an else following n would attach to
// an if nested inside it.
func endsWithDanglingIf(n *parser.Node) bool {
	for n != nil {
		switch n.Type {
		case parser.NODE_IF_STATEMENT:
			if n.Alternate == nil {
				return true
			}
			n = n.Alternate
		case parser.NODE_LABELED_STATEMENT, parser.NODE_WHILE_STATEMENT, parser.NODE_WITH_STATEMENT,
			parser.NODE_FOR_STATEMENT, parser.NODE_FOR_IN_STATEMENT, parser.NODE_FOR_OF_STATEMENT:
			n = n.BodyNode
		default:
			return false
		}
	}
	return false
}

// chainHasCall reports whether a `new` callee holds a call that would
// otherwise take the constructor's argument list.
func chainHasCall(n *parser.Node) bool {
	for n != nil {
		switch n.Type {
		case parser.NODE_CALL_EXPRESSION:
			return true
		case parser.NODE_MEMBER_EXPRESSION:
			n = n.Object
		case parser.NODE_TAGGED_TEMPLATE_EXPRESSION:
			n = n.Tag
		default:
			return false
		}
	}
	return false
}

func containsIn(n *parser.Node) bool {
	found := false
	parser.Walk(n, func(c *parser.Node) bool {
		if found {
			return false
		}
		switch c.Type {
		case parser.NODE_FUNCTION_EXPRESSION, parser.NODE_ARROW_FUNCTION_EXPRESSION, parser.NODE_CLASS_EXPRESSION:
			return false
		case parser.NODE_BINARY_EXPRESSION:
			if c.Operator == "in" {
				found = true
				return false
			}
		}
		return true
	})
	return found
}
