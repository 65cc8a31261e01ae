package parser

import (
	"bytes"
	"encoding/json"
	"math"
)

// objectWriter emits a JSON object with fields in insertion order.
type objectWriter struct {
	buf   bytes.Buffer
	err   error
	count int
}

func (w *objectWriter) field(key string, v any) {
	if w.err != nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		w.err = err
		return
	}
	if w.count > 0 {
		w.buf.WriteByte(',')
	}
	w.count++
	k, _ := json.Marshal(key)
	w.buf.Write(k)
	w.buf.WriteByte(':')
	w.buf.Write(raw)
}

func (w *objectWriter) node(key string, n *Node) {
	if n == nil {
		w.field(key, nil)
		return
	}
	w.field(key, n)
}

func (w *objectWriter) nodes(key string, list []*Node) {
	if list == nil {
		list = []*Node{}
	}
	w.field(key, list)
}

// object writes a nested object from alternating keys and values.
func (w *objectWriter) object(key string, pairs ...any) {
	inner := &objectWriter{}
	for i := 0; i+1 < len(pairs); i += 2 {
		inner.field(pairs[i].(string), pairs[i+1])
	}
	raw, err := inner.bytes()
	if err != nil {
		w.err = err
		return
	}
	w.field(key, json.RawMessage(raw))
}

func (w *objectWriter) bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	out := make([]byte, 0, w.buf.Len()+2)
	out = append(out, '{')
	out = append(out, w.buf.Bytes()...)
	return append(out, '}'), nil
}

func literalValue(v any) any {
	if f, ok := v.(float64); ok && (math.IsInf(f, 0) || math.IsNaN(f)) {
		return nil
	}
	return v
}

// MarshalJSON renders the node as ESTree.
func (n *Node) MarshalJSON() ([]byte, error) {
	w := &objectWriter{}
	w.field("type", n.Type.String())
	w.field("start", n.Start)
	w.field("end", n.End)
	if n.Loc != nil {
		w.field("loc", n.Loc)
	}
	if n.Range != nil {
		w.field("range", n.Range)
	}

	switch n.Type {
	case NODE_PROGRAM:
		w.nodes("body", n.Body)
		w.field("sourceType", n.SourceType.String())
	case NODE_IDENTIFIER:
		w.field("name", n.Name)
	case NODE_LITERAL:
		if n.Regex != nil {
			// A RegExp object serializes as an empty object.
			w.field("value", struct{}{})
			w.field("raw", n.Raw)
			w.object("regex", "pattern", n.Regex.Pattern, "flags", n.Regex.Flags)
			break
		}
		w.field("value", literalValue(n.Value))
		w.field("raw", n.Raw)
	case NODE_EXPRESSION_STATEMENT:
		w.node("expression", n.Expression)
		if n.Directive != "" {
			w.field("directive", n.Directive)
		}
	case NODE_BLOCK_STATEMENT, NODE_CLASS_BODY:
		w.nodes("body", n.Body)
	case NODE_EMPTY_STATEMENT, NODE_DEBUGGER_STATEMENT, NODE_THIS_EXPRESSION, NODE_SUPER:
	case NODE_WITH_STATEMENT:
		w.node("object", n.Object)
		w.node("body", n.BodyNode)
	case NODE_RETURN_STATEMENT, NODE_THROW_STATEMENT, NODE_SPREAD_ELEMENT, NODE_REST_ELEMENT, NODE_AWAIT_EXPRESSION:
		w.node("argument", n.Argument)
	case NODE_LABELED_STATEMENT:
		w.node("body", n.BodyNode)
		w.node("label", n.Label)
	case NODE_BREAK_STATEMENT, NODE_CONTINUE_STATEMENT:
		w.node("label", n.Label)
	case NODE_IF_STATEMENT:
		w.node("test", n.Test)
		w.node("consequent", n.Consequent)
		w.node("alternate", n.Alternate)
	case NODE_SWITCH_STATEMENT:
		w.node("discriminant", n.Discriminant)
		w.nodes("cases", n.Cases)
	case NODE_SWITCH_CASE:
		w.nodes("consequent", n.ConsequentSlice)
		w.node("test", n.Test)
	case NODE_TRY_STATEMENT:
		w.node("block", n.Block)
		w.node("handler", n.Handler)
		w.node("finalizer", n.Finalizer)
	case NODE_CATCH_CLAUSE:
		w.node("param", n.Param)
		w.node("body", n.BodyNode)
	case NODE_WHILE_STATEMENT:
		w.node("test", n.Test)
		w.node("body", n.BodyNode)
	case NODE_DO_WHILE_STATEMENT:
		w.node("body", n.BodyNode)
		w.node("test", n.Test)
	case NODE_FOR_STATEMENT:
		w.node("init", n.Init)
		w.node("test", n.Test)
		w.node("update", n.Update)
		w.node("body", n.BodyNode)
	case NODE_FOR_IN_STATEMENT, NODE_FOR_OF_STATEMENT:
		if n.Await {
			w.field("await", true)
		}
		w.node("left", n.Left)
		w.node("right", n.Right)
		w.node("body", n.BodyNode)
	case NODE_FUNCTION_DECLARATION, NODE_FUNCTION_EXPRESSION, NODE_ARROW_FUNCTION_EXPRESSION:
		w.node("id", n.Id)
		w.field("generator", n.IsGenerator)
		w.field("expression", n.IsExpression)
		w.field("async", n.IsAsync)
		w.nodes("params", n.Params)
		w.node("body", n.BodyNode)
	case NODE_VARIABLE_DECLARATION:
		w.nodes("declarations", n.Declarations)
		w.field("kind", n.Kind.String())
	case NODE_VARIABLE_DECLARATOR:
		w.node("id", n.Id)
		w.node("init", n.Init)
	case NODE_ARRAY_EXPRESSION, NODE_ARRAY_PATTERN:
		w.nodes("elements", n.Elements)
	case NODE_OBJECT_EXPRESSION, NODE_OBJECT_PATTERN:
		w.nodes("properties", n.Properties)
	case NODE_PROPERTY:
		w.field("method", n.IsMethod)
		w.field("shorthand", n.Shorthand)
		w.field("computed", n.Computed)
		w.node("key", n.Key)
		w.node("value", n.ValueNode())
		w.field("kind", n.Kind.String())
	case NODE_UNARY_EXPRESSION, NODE_UPDATE_EXPRESSION:
		w.field("operator", n.Operator)
		w.field("prefix", n.Prefix)
		w.node("argument", n.Argument)
	case NODE_BINARY_EXPRESSION, NODE_LOGICAL_EXPRESSION, NODE_ASSIGNMENT_EXPRESSION:
		w.node("left", n.Left)
		w.field("operator", n.Operator)
		w.node("right", n.Right)
	case NODE_ASSIGNMENT_PATTERN:
		w.node("left", n.Left)
		w.node("right", n.Right)
	case NODE_MEMBER_EXPRESSION:
		w.node("object", n.Object)
		w.node("property", n.Property)
		w.field("computed", n.Computed)
	case NODE_CONDITIONAL_EXPRESSION:
		w.node("test", n.Test)
		w.node("consequent", n.Consequent)
		w.node("alternate", n.Alternate)
	case NODE_CALL_EXPRESSION, NODE_NEW_EXPRESSION:
		w.node("callee", n.Callee)
		w.nodes("arguments", n.Arguments)
	case NODE_SEQUENCE_EXPRESSION:
		w.nodes("expressions", n.Expressions)
	case NODE_YIELD_EXPRESSION:
		w.field("delegate", n.Delegate)
		w.node("argument", n.Argument)
	case NODE_CLASS_DECLARATION, NODE_CLASS_EXPRESSION:
		w.node("id", n.Id)
		w.node("superClass", n.SuperClass)
		w.node("body", n.BodyNode)
	case NODE_METHOD_DEFINITION:
		w.field("static", n.IsStatic)
		w.field("computed", n.Computed)
		w.node("key", n.Key)
		w.field("kind", n.Kind.String())
		w.node("value", n.ValueNode())
	case NODE_META_PROPERTY:
		w.node("meta", n.Meta)
		w.node("property", n.Property)
	case NODE_IMPORT_DECLARATION:
		w.nodes("specifiers", n.Specifiers)
		w.node("source", n.Source)
	case NODE_IMPORT_SPECIFIER:
		w.node("imported", n.Imported)
		w.node("local", n.Local)
	case NODE_IMPORT_DEFAULT_SPECIFIER, NODE_IMPORT_NAMESPACE_SPECIFIER:
		w.node("local", n.Local)
	case NODE_EXPORT_NAMED_DECLARATION:
		w.node("declaration", n.Declaration)
		w.nodes("specifiers", n.Specifiers)
		w.node("source", n.Source)
	case NODE_EXPORT_SPECIFIER:
		w.node("local", n.Local)
		w.node("exported", n.Exported)
	case NODE_EXPORT_DEFAULT_DECLARATION:
		w.node("declaration", n.Declaration)
	case NODE_EXPORT_ALL_DECLARATION:
		w.node("source", n.Source)
	case NODE_PARENTHESIZED_EXPRESSION:
		w.node("expression", n.Expression)
	case NODE_TEMPLATE_LITERAL:
		w.nodes("expressions", n.Expressions)
		w.nodes("quasis", n.Quasis)
	case NODE_TEMPLATE_ELEMENT:
		w.object("value", "raw", n.Raw, "cooked", n.Value)
		w.field("tail", n.Tail)
	case NODE_TAGGED_TEMPLATE_EXPRESSION:
		w.node("tag", n.Tag)
		w.node("quasi", n.Quasi)
	}
	return w.bytes()
}
