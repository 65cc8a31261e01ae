package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/kr/pretty"
	"go.uber.org/zap"
)

func (p *Parser) printState() {
	if p.lineStarts == nil {
		p.lineStarts = lineStartOffsets(p.input)
	}
	loc := getLineInfo(p.lineStarts, p.pos)
	p.logger.Debug("parser state",
		zap.String("position", fmt.Sprintf("%d:%d", loc.Line, loc.Column)),
		zap.Int("offset", p.pos),
		zap.Stringer("token", p.Type.identifier),
	)
}

// Maps for string conversion
var nodeTypeToString = map[NodeType]string{
	NODE_IDENTIFIER:                 "Identifier",
	NODE_LITERAL:                    "Literal",
	NODE_PROGRAM:                    "Program",
	NODE_EXPRESSION_STATEMENT:       "ExpressionStatement",
	NODE_BLOCK_STATEMENT:            "BlockStatement",
	NODE_EMPTY_STATEMENT:            "EmptyStatement",
	NODE_DEBUGGER_STATEMENT:         "DebuggerStatement",
	NODE_WITH_STATEMENT:             "WithStatement",
	NODE_RETURN_STATEMENT:           "ReturnStatement",
	NODE_LABELED_STATEMENT:          "LabeledStatement",
	NODE_BREAK_STATEMENT:            "BreakStatement",
	NODE_CONTINUE_STATEMENT:         "ContinueStatement",
	NODE_IF_STATEMENT:               "IfStatement",
	NODE_SWITCH_STATEMENT:           "SwitchStatement",
	NODE_SWITCH_CASE:                "SwitchCase",
	NODE_THROW_STATEMENT:            "ThrowStatement",
	NODE_TRY_STATEMENT:              "TryStatement",
	NODE_CATCH_CLAUSE:               "CatchClause",
	NODE_WHILE_STATEMENT:            "WhileStatement",
	NODE_DO_WHILE_STATEMENT:         "DoWhileStatement",
	NODE_FOR_STATEMENT:              "ForStatement",
	NODE_FOR_IN_STATEMENT:           "ForInStatement",
	NODE_FOR_OF_STATEMENT:           "ForOfStatement",
	NODE_FUNCTION_DECLARATION:       "FunctionDeclaration",
	NODE_VARIABLE_DECLARATION:       "VariableDeclaration",
	NODE_VARIABLE_DECLARATOR:        "VariableDeclarator",
	NODE_THIS_EXPRESSION:            "ThisExpression",
	NODE_ARRAY_EXPRESSION:           "ArrayExpression",
	NODE_OBJECT_EXPRESSION:          "ObjectExpression",
	NODE_PROPERTY:                   "Property",
	NODE_FUNCTION_EXPRESSION:        "FunctionExpression",
	NODE_ARROW_FUNCTION_EXPRESSION:  "ArrowFunctionExpression",
	NODE_UNARY_EXPRESSION:           "UnaryExpression",
	NODE_UPDATE_EXPRESSION:          "UpdateExpression",
	NODE_BINARY_EXPRESSION:          "BinaryExpression",
	NODE_ASSIGNMENT_EXPRESSION:      "AssignmentExpression",
	NODE_LOGICAL_EXPRESSION:         "LogicalExpression",
	NODE_MEMBER_EXPRESSION:          "MemberExpression",
	NODE_CONDITIONAL_EXPRESSION:     "ConditionalExpression",
	NODE_CALL_EXPRESSION:            "CallExpression",
	NODE_NEW_EXPRESSION:             "NewExpression",
	NODE_SEQUENCE_EXPRESSION:        "SequenceExpression",
	NODE_SUPER:                      "Super",
	NODE_SPREAD_ELEMENT:             "SpreadElement",
	NODE_YIELD_EXPRESSION:           "YieldExpression",
	NODE_AWAIT_EXPRESSION:           "AwaitExpression",
	NODE_OBJECT_PATTERN:             "ObjectPattern",
	NODE_ARRAY_PATTERN:              "ArrayPattern",
	NODE_REST_ELEMENT:               "RestElement",
	NODE_ASSIGNMENT_PATTERN:         "AssignmentPattern",
	NODE_CLASS_BODY:                 "ClassBody",
	NODE_METHOD_DEFINITION:          "MethodDefinition",
	NODE_CLASS_DECLARATION:          "ClassDeclaration",
	NODE_CLASS_EXPRESSION:           "ClassExpression",
	NODE_META_PROPERTY:              "MetaProperty",
	NODE_IMPORT_DECLARATION:         "ImportDeclaration",
	NODE_IMPORT_SPECIFIER:           "ImportSpecifier",
	NODE_IMPORT_DEFAULT_SPECIFIER:   "ImportDefaultSpecifier",
	NODE_IMPORT_NAMESPACE_SPECIFIER: "ImportNamespaceSpecifier",
	NODE_EXPORT_NAMED_DECLARATION:   "ExportNamedDeclaration",
	NODE_EXPORT_SPECIFIER:           "ExportSpecifier",
	NODE_EXPORT_DEFAULT_DECLARATION: "ExportDefaultDeclaration",
	NODE_EXPORT_ALL_DECLARATION:     "ExportAllDeclaration",
	NODE_PARENTHESIZED_EXPRESSION:   "ParenthesizedExpression",
	NODE_TEMPLATE_LITERAL:           "TemplateLiteral",
	NODE_TEMPLATE_ELEMENT:           "TemplateElement",
	NODE_TAGGED_TEMPLATE_EXPRESSION: "TaggedTemplateExpression",
	NODE_UNTYPED:                    "Untyped",
}

var kindToString = map[Kind]string{
	KIND_NOT_INITIALIZED:   "",
	KIND_DECLARATION_VAR:   "var",
	KIND_DECLARATION_LET:   "let",
	KIND_DECLARATION_CONST: "const",
	KIND_PROPERTY_GET:      "get",
	KIND_PROPERTY_SET:      "set",
	KIND_PROPERTY_INIT:     "init",
	KIND_PROPERTY_METHOD:   "method",
	KIND_CONSTRUCTOR:       "constructor",
}

var sourceTypeToString = map[SourceType]string{
	TYPE_SCRIPT: "script",
	TYPE_MODULE: "module",
}

func (t NodeType) String() string {
	if s, ok := nodeTypeToString[t]; ok {
		return s
	}
	return "Untyped"
}

func (k Kind) String() string {
	return kindToString[k]
}

func (s SourceType) String() string {
	return sourceTypeToString[s]
}

// Dump writes a Go-syntax rendering of the tree, the way a debugger would
// show it.
func Dump(w io.Writer, node *Node) error {
	_, err := fmt.Fprintf(w, "%# v\n", pretty.Formatter(node))
	return err
}

// Diff lists the field-level differences between two trees.
func Diff(a, b *Node) []string {
	return pretty.Diff(a, b)
}

// Outline writes one line per node: its type, offsets and the flags that
// distinguish async functions, generators and for-await loops. Children
// are indented under their parent.
func Outline(w io.Writer, node *Node) error {
	var b strings.Builder
	outlineNode(&b, node, 0)
	_, err := io.WriteString(w, b.String())
	return err
}

func outlineNode(b *strings.Builder, node *Node, indent int) {
	b.WriteString(strings.Repeat("  ", indent))
	if node == nil {
		b.WriteString("<nil>\n")
		return
	}

	fmt.Fprintf(b, "%s [%d, %d]", node.Type, node.Start, node.End)
	switch node.Type {
	case NODE_IDENTIFIER:
		fmt.Fprintf(b, " %s", node.Name)
	case NODE_LITERAL:
		fmt.Fprintf(b, " %s", node.Raw)
	case NODE_TEMPLATE_ELEMENT:
		fmt.Fprintf(b, " %q", node.Raw)
	}
	if node.IsAsync {
		b.WriteString(" async")
	}
	if node.IsGenerator {
		b.WriteString(" generator")
	}
	if node.Await {
		b.WriteString(" await")
	}
	if node.Kind != KIND_NOT_INITIALIZED {
		fmt.Fprintf(b, " kind=%s", node.Kind)
	}
	b.WriteString("\n")

	for _, child := range node.children() {
		outlineNode(b, child, indent+1)
	}
}
