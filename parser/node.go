package parser

type SourceType int

const (
	TYPE_SCRIPT SourceType = iota
	TYPE_MODULE
)

type NodeType int

const (
	NODE_IDENTIFIER NodeType = iota
	NODE_LITERAL
	NODE_PROGRAM
	NODE_EXPRESSION_STATEMENT
	NODE_BLOCK_STATEMENT
	NODE_EMPTY_STATEMENT
	NODE_DEBUGGER_STATEMENT
	NODE_WITH_STATEMENT
	NODE_RETURN_STATEMENT
	NODE_LABELED_STATEMENT
	NODE_BREAK_STATEMENT
	NODE_CONTINUE_STATEMENT
	NODE_IF_STATEMENT
	NODE_SWITCH_STATEMENT
	NODE_SWITCH_CASE
	NODE_THROW_STATEMENT
	NODE_TRY_STATEMENT
	NODE_CATCH_CLAUSE
	NODE_WHILE_STATEMENT
	NODE_DO_WHILE_STATEMENT
	NODE_FOR_STATEMENT
	NODE_FOR_IN_STATEMENT
	NODE_FOR_OF_STATEMENT
	NODE_FUNCTION_DECLARATION
	NODE_VARIABLE_DECLARATION
	NODE_VARIABLE_DECLARATOR
	NODE_THIS_EXPRESSION
	NODE_ARRAY_EXPRESSION
	NODE_OBJECT_EXPRESSION
	NODE_PROPERTY
	NODE_FUNCTION_EXPRESSION
	NODE_ARROW_FUNCTION_EXPRESSION
	NODE_UNARY_EXPRESSION
	NODE_UPDATE_EXPRESSION
	NODE_BINARY_EXPRESSION
	NODE_ASSIGNMENT_EXPRESSION
	NODE_LOGICAL_EXPRESSION
	NODE_MEMBER_EXPRESSION
	NODE_CONDITIONAL_EXPRESSION
	NODE_CALL_EXPRESSION
	NODE_NEW_EXPRESSION
	NODE_SEQUENCE_EXPRESSION
	NODE_SUPER
	NODE_SPREAD_ELEMENT
	NODE_YIELD_EXPRESSION
	NODE_AWAIT_EXPRESSION
	NODE_OBJECT_PATTERN
	NODE_ARRAY_PATTERN
	NODE_REST_ELEMENT
	NODE_ASSIGNMENT_PATTERN
	NODE_CLASS_BODY
	NODE_METHOD_DEFINITION
	NODE_CLASS_DECLARATION
	NODE_CLASS_EXPRESSION
	NODE_META_PROPERTY
	NODE_IMPORT_DECLARATION
	NODE_IMPORT_SPECIFIER
	NODE_IMPORT_DEFAULT_SPECIFIER
	NODE_IMPORT_NAMESPACE_SPECIFIER
	NODE_EXPORT_NAMED_DECLARATION
	NODE_EXPORT_SPECIFIER
	NODE_EXPORT_DEFAULT_DECLARATION
	NODE_EXPORT_ALL_DECLARATION
	NODE_PARENTHESIZED_EXPRESSION
	NODE_TEMPLATE_LITERAL
	NODE_TEMPLATE_ELEMENT
	NODE_TAGGED_TEMPLATE_EXPRESSION
	NODE_UNTYPED
)

type Kind int

const (
	KIND_NOT_INITIALIZED Kind = iota
	KIND_DECLARATION_VAR
	KIND_DECLARATION_LET
	KIND_DECLARATION_CONST
	KIND_PROPERTY_GET
	KIND_PROPERTY_SET
	KIND_PROPERTY_INIT
	KIND_PROPERTY_METHOD
	KIND_CONSTRUCTOR
)

// Node is a single ESTree node. Which fields are meaningful depends on Type;
// MarshalJSON emits exactly the ESTree fields of each type.
type Node struct {
	Type  NodeType
	Start int
	End   int
	Loc   *SourceLocation
	Range *[2]int

	Name  string
	Value any // string, bool, float64, nil for literals; *Node for Property and MethodDefinition; cooked string or nil for TemplateElement
	Raw   string
	Regex *RegExpValue

	Body       []*Node // Program, BlockStatement, ClassBody
	BodyNode   *Node   // functions, loops, labeled/with statements, classes
	SourceType SourceType
	Directive  string

	Id           *Node
	Params       []*Node
	IsGenerator  bool
	IsExpression bool
	IsAsync      bool
	Expression   *Node

	Argument        *Node
	Label           *Node
	Test            *Node
	Consequent      *Node
	ConsequentSlice []*Node // SwitchCase
	Alternate       *Node
	Discriminant    *Node
	Cases           []*Node
	Block           *Node
	Handler         *Node
	Finalizer       *Node
	Param           *Node
	Init            *Node
	Update          *Node
	Left            *Node
	Right           *Node
	Await           bool
	Declarations    []*Node
	Kind            Kind

	Elements    []*Node
	Properties  []*Node
	Key         *Node
	IsMethod    bool
	Shorthand   bool
	Computed    bool
	IsStatic    bool
	Operator    string
	Prefix      bool
	Object      *Node
	Property    *Node
	Callee      *Node
	Arguments   []*Node
	Expressions []*Node
	Delegate    bool
	SuperClass  *Node
	Meta        *Node

	Quasis []*Node
	Tail   bool
	Tag    *Node
	Quasi  *Node

	Specifiers  []*Node
	Source      *Node
	Imported    *Node
	Local       *Node
	Exported    *Node
	Declaration *Node
}

// RegExpValue is the pattern and flags of a regular expression literal.
type RegExpValue struct {
	Pattern string
	Flags   string
}

// ValueNode returns Value when it holds a node, as it does for properties
// and class methods.
func (n *Node) ValueNode() *Node {
	if v, ok := n.Value.(*Node); ok {
		return v
	}
	return nil
}

func NewNode(p *Parser, pos int, loc *Location) *Node {
	node := &Node{
		Type:  NODE_UNTYPED,
		Start: pos,
		End:   0,
	}

	if p.options.Locations {
		node.Loc = NewSourceLocation(p, loc, nil)
	}

	if p.options.Ranges {
		node.Range = &[2]int{pos, 0}
	}
	return node
}

// StartNode opens a node at the start of the current token.
func (p *Parser) StartNode() *Node {
	return NewNode(p, p.Start, p.StartLoc)
}

func (p *Parser) StartNodeAt(pos int, loc *Location) *Node {
	return NewNode(p, pos, loc)
}

func (p *Parser) finishNodeAt(node *Node, finishType NodeType, pos int, loc *Location) *Node {
	node.Type = finishType
	node.End = pos
	if p.options.Locations {
		node.Loc.End = loc
	}

	if p.options.Ranges {
		node.Range[1] = pos
	}
	return node
}

// FinishNode closes node at the end of the last consumed token.
func (p *Parser) FinishNode(node *Node, finishType NodeType) *Node {
	return p.finishNodeAt(node, finishType, p.LastTokEnd, p.LastTokEndLoc)
}

func (p *Parser) FinishNodeAt(node *Node, finishType NodeType, pos int, loc *Location) *Node {
	return p.finishNodeAt(node, finishType, pos, loc)
}

// copyNode is a shallow copy, used where acorn shares a key node between
// a shorthand property's key and value.
func (p *Parser) copyNode(node *Node) *Node {
	if node == nil {
		return nil
	}
	newNode := *node
	if node.Loc != nil {
		loc := *node.Loc
		newNode.Loc = &loc
	}
	if node.Range != nil {
		r := *node.Range
		newNode.Range = &r
	}
	return &newNode
}

// Walk calls fn for node and every node below it, depth first, stopping
// the descent into a subtree when fn returns false.
func Walk(node *Node, fn func(*Node) bool) {
	if node == nil || !fn(node) {
		return
	}
	for _, child := range node.children() {
		Walk(child, fn)
	}
}

func (n *Node) children() []*Node {
	var out []*Node
	add := func(nodes ...*Node) {
		for _, c := range nodes {
			if c != nil {
				out = append(out, c)
			}
		}
	}
	add(n.Id, n.Key)
	add(n.ValueNode())
	add(n.Params...)
	add(n.Body...)
	add(n.Expression, n.Argument, n.Label, n.Test, n.Consequent)
	add(n.ConsequentSlice...)
	add(n.Alternate, n.Discriminant)
	add(n.Cases...)
	add(n.Block, n.Handler, n.Finalizer, n.Param, n.Init, n.Update, n.Left, n.Right)
	add(n.Declarations...)
	add(n.Elements...)
	add(n.Properties...)
	add(n.Object, n.Property, n.Callee)
	add(n.Arguments...)
	add(n.Tag, n.Quasi)
	add(n.Quasis...)
	add(n.Expressions...)
	add(n.SuperClass, n.Meta)
	add(n.Specifiers...)
	add(n.Source, n.Imported, n.Local, n.Exported, n.Declaration)
	add(n.BodyNode)
	return out
}
