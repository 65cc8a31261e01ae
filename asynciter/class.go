package asynciter

import (
	"github.com/acornjs/acorn-async-iteration/parser"
	"go.uber.org/zap"
)

// parseClassMember parses a class member whose modifiers may include
// `async` followed by `*`.
func parseClassMember(p *parser.Parser, classBody *parser.Node, log *zap.Logger) (*parser.Node, error) {
	method := p.StartNode()

	// tryContextual consumes the contextual word k. It reports true when
	// k acts as a modifier; otherwise k becomes the member's name.
	tryContextual := func(k string, noLineBreak bool) (bool, error) {
		start, startLoc := p.Start, p.StartLoc
		if !isContextualKeyword(p, k) {
			return false, nil
		}
		p.Next()
		if !p.Type.Is(parser.TOKEN_PARENL) && (!noLineBreak || noLineBreakBeforeCurrent(p)) {
			return true, nil
		}
		if method.Key != nil {
			return false, p.Unexpected()
		}
		method.Computed = false
		method.Key = p.StartNodeAt(start, startLoc)
		method.Key.Name = k
		p.FinishNode(method.Key, parser.NODE_IDENTIFIER)
		log.Debug("contextual word used as member name", zap.String("word", k), zap.Int("pos", start))
		return false, nil
	}

	method.Kind = parser.KIND_PROPERTY_METHOD
	isStatic, err := tryContextual("static", false)
	if err != nil {
		return nil, err
	}
	method.IsStatic = isStatic

	isGenerator := p.Eat(parser.TOKEN_STAR)
	isAsync := false
	if !isGenerator {
		if p.EcmaVersion() >= 8 {
			if isAsync, err = tryContextual("async", true); err != nil {
				return nil, err
			}
		}
		if isAsync {
			isGenerator = p.Eat(parser.TOKEN_STAR)
			log.Debug("async class method", zap.Int("pos", method.Start), zap.Bool("generator", isGenerator))
		} else {
			isGet, err := tryContextual("get", false)
			if err != nil {
				return nil, err
			}
			if isGet {
				method.Kind = parser.KIND_PROPERTY_GET
			} else {
				isSet, err := tryContextual("set", false)
				if err != nil {
					return nil, err
				}
				if isSet {
					method.Kind = parser.KIND_PROPERTY_SET
				}
			}
		}
	}
	if method.Key == nil {
		if _, err := p.ParsePropertyName(method, nil); err != nil {
			return nil, err
		}
	}

	key := method.Key
	if !method.Computed && !method.IsStatic && parser.IsConstructorKey(key) {
		if method.Kind != parser.KIND_PROPERTY_METHOD {
			return nil, p.Raise(key.Start, "Constructor can't have get/set modifier")
		}
		if isGenerator {
			return nil, p.Raise(key.Start, "Constructor can't be a generator")
		}
		if isAsync {
			return nil, p.Raise(key.Start, "Constructor can't be an async method")
		}
		method.Kind = parser.KIND_CONSTRUCTOR
	} else if method.IsStatic && key.Type == parser.NODE_IDENTIFIER && key.Name == "prototype" {
		return nil, p.Raise(key.Start, "Classes may not have a static property named prototype")
	}

	if err := p.ParseClassMethod(classBody, method, isGenerator, isAsync); err != nil {
		return nil, err
	}
	p.CheckAccessorParams(method.Kind, method.ValueNode())
	return method, nil
}
