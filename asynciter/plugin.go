// Package asynciter adds ES2018 asynchronous iteration to the parser:
// `for await (x of xs)`, `async function*` declarations and expressions,
// and async generator methods in object literals and classes.
//
// Importing the package registers the plugin; enable it per parse with
//
//	parser.Parse(src, &parser.Options{Plugins: map[string]bool{asynciter.Name: true}})
package asynciter

import (
	"github.com/acornjs/acorn-async-iteration/parser"
	"go.uber.org/zap"
)

// Name is the registry name of the plugin.
const Name = "asyncIteration"

func init() {
	parser.RegisterPlugin(Name, Plugin)
}

// Plugin wraps the grammar rules of one parser. Every wrapped rule keeps
// the slot it replaced and delegates to it.
func Plugin(p *parser.Parser, h *parser.Hooks) {
	ctx := &asyncGeneratorContext{}
	log := p.Logger().Named(Name)

	prevForStatement := h.ParseForStatement
	h.ParseForStatement = func(p *parser.Parser, node *parser.Node) (*parser.Node, error) {
		awaitAt := p.Start
		if isContextualKeyword(p, "await") {
			p.Next()
			node.Await = true
			log.Debug("for await", zap.Int("pos", awaitAt))
		}
		loop, err := prevForStatement(p, node)
		if err != nil {
			return nil, err
		}
		if node.Await && loop.Type != parser.NODE_FOR_OF_STATEMENT {
			return nil, p.Raise(awaitAt, "Unexpected token")
		}
		return loop, nil
	}

	prevInitFunction := h.InitFunction
	h.InitFunction = func(p *parser.Parser, node *parser.Node) {
		prevInitFunction(p, node)
		if ctx.inAsyncGenerator {
			node.IsGenerator = true
		}
	}

	prevFunction := h.ParseFunction
	h.ParseFunction = func(p *parser.Parser, node *parser.Node, statement int, allowExpressionBody bool, isAsync bool) (*parser.Node, error) {
		isAsyncGenerator := isAsync && p.Eat(parser.TOKEN_STAR)
		return ctx.with(isAsyncGenerator, func() (*parser.Node, error) {
			return prevFunction(p, node, statement, allowExpressionBody, isAsync)
		})
	}

	prevArrowExpression := h.ParseArrowExpression
	h.ParseArrowExpression = func(p *parser.Parser, node *parser.Node, params []*parser.Node, isAsync bool) (*parser.Node, error) {
		return ctx.with(false, func() (*parser.Node, error) {
			return prevArrowExpression(p, node, params, isAsync)
		})
	}

	prevMethod := h.ParseMethod
	h.ParseMethod = func(p *parser.Parser, isGenerator bool, isAsync bool) (*parser.Node, error) {
		return ctx.with(isAsync && isGenerator, func() (*parser.Node, error) {
			return prevMethod(p, isGenerator, isAsync)
		})
	}

	prevProperty := h.ParseProperty
	h.ParseProperty = func(p *parser.Parser, isPattern bool, refDestructuringErrors *parser.DestructuringErrors) (*parser.Node, error) {
		if isPattern || p.EcmaVersion() < 8 || !isContextualKeyword(p, "async") {
			return prevProperty(p, isPattern, refDestructuringErrors)
		}
		return parseAsyncProperty(p, refDestructuringErrors, log)
	}

	h.IsAsyncProp = isAsyncProp

	prevClassMember := h.ParseClassMember
	h.ParseClassMember = func(p *parser.Parser, classBody *parser.Node) (*parser.Node, error) {
		if !isContextualKeyword(p, "async") && !isContextualKeyword(p, "static") {
			return prevClassMember(p, classBody)
		}
		return parseClassMember(p, classBody, log)
	}

	// Inside an async generator only a superclass constructor call,
	// super(...), is rejected. Property access through super.x or super[x]
	// stays legal, so the atom is checked by the token that follows it.
	prevExprAtom := h.ParseExprAtom
	h.ParseExprAtom = func(p *parser.Parser, refDestructuringErrors *parser.DestructuringErrors) (*parser.Node, error) {
		if !ctx.inAsyncGenerator || !p.Type.Is(parser.TOKEN_SUPER) {
			return prevExprAtom(p, refDestructuringErrors)
		}
		atom, err := prevExprAtom(p, refDestructuringErrors)
		if err != nil {
			return nil, err
		}
		if p.Type.Is(parser.TOKEN_PARENL) {
			return nil, p.Raise(atom.Start, "'super' call in body of async generator")
		}
		return atom, nil
	}
}

// parseAsyncProperty parses an object literal member that starts with an
// unescaped `async`, which is either the key itself or the async modifier
// of a method, optionally a generator one.
func parseAsyncProperty(p *parser.Parser, refDestructuringErrors *parser.DestructuringErrors, log *zap.Logger) (*parser.Node, error) {
	prop := p.StartNode()
	startPos, startLoc := p.Start, p.StartLoc
	if _, err := p.ParsePropertyName(prop, nil); err != nil {
		return nil, err
	}

	isAsync, isGenerator := false, false
	if p.IsAsyncProp(prop) {
		isAsync = true
		isGenerator = p.Eat(parser.TOKEN_STAR)
		if _, err := p.ParsePropertyName(prop, refDestructuringErrors); err != nil {
			return nil, err
		}
		log.Debug("async method modifier", zap.Int("pos", startPos), zap.Bool("generator", isGenerator))
	} else {
		log.Debug("async property key", zap.Int("pos", startPos))
	}

	if err := p.ParsePropertyValue(prop, false, isGenerator, isAsync, startPos, startLoc, refDestructuringErrors, false); err != nil {
		return nil, err
	}
	return p.FinishNode(prop, parser.NODE_PROPERTY), nil
}

// isAsyncProp is called with the cursor just past an `async` key. The key
// is a modifier unless the next token ends or continues a plain property,
// or a line break separates the two.
func isAsyncProp(p *parser.Parser, prop *parser.Node) bool {
	if prop.Computed || prop.Key == nil || prop.Key.Type != parser.NODE_IDENTIFIER || prop.Key.Name != "async" {
		return false
	}
	switch p.Type.Token() {
	case parser.TOKEN_PARENL, parser.TOKEN_COLON, parser.TOKEN_COMMA, parser.TOKEN_EQ:
		return false
	}
	return !p.CanInsertSemicolon()
}
