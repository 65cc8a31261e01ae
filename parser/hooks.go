package parser

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Hooks holds the grammar rules a plugin may replace. Every slot starts as
// the base rule; a plugin wraps a slot by capturing its current value and
// installing a function that calls it. The base grammar always calls these
// rules through the slots, so a wrapped rule also sees nested uses.
type Hooks struct {
	// ParseForStatement runs after the `for` keyword was consumed.
	ParseForStatement    func(p *Parser, node *Node) (*Node, error)
	InitFunction         func(p *Parser, node *Node)
	ParseFunction        func(p *Parser, node *Node, statement int, allowExpressionBody bool, isAsync bool) (*Node, error)
	ParseArrowExpression func(p *Parser, node *Node, params []*Node, isAsync bool) (*Node, error)
	ParseMethod          func(p *Parser, isGenerator bool, isAsync bool) (*Node, error)
	ParseProperty        func(p *Parser, isPattern bool, refDestructuringErrors *DestructuringErrors) (*Node, error)
	IsAsyncProp          func(p *Parser, prop *Node) bool
	// ParseClassMember returns nil for an empty member (a stray `;`).
	ParseClassMember func(p *Parser, classBody *Node) (*Node, error)
	ParseExprAtom    func(p *Parser, refDestructuringErrors *DestructuringErrors) (*Node, error)
}

func baseHooks() *Hooks {
	return &Hooks{
		ParseForStatement:    (*Parser).parseForStatement,
		InitFunction:         (*Parser).initFunction,
		ParseFunction:        (*Parser).parseFunction,
		ParseArrowExpression: (*Parser).parseArrowExpression,
		ParseMethod:          (*Parser).parseMethod,
		ParseProperty:        (*Parser).parseProperty,
		IsAsyncProp:          (*Parser).isAsyncProp,
		ParseClassMember:     (*Parser).parseClassMember,
		ParseExprAtom:        (*Parser).parseExprAtom,
	}
}

// Plugin installs its rules into h for one parser instance. State a plugin
// keeps between rules belongs in variables captured by its closures, so
// each parser gets its own copy.
type Plugin func(p *Parser, h *Hooks)

var (
	pluginsMu sync.RWMutex
	plugins   = make(map[string]Plugin)
)

// RegisterPlugin makes a plugin available by name. It panics if the name
// is taken or the plugin is nil.
func RegisterPlugin(name string, plugin Plugin) {
	pluginsMu.Lock()
	defer pluginsMu.Unlock()
	if plugin == nil {
		panic("parser: RegisterPlugin plugin is nil")
	}
	if _, dup := plugins[name]; dup {
		panic("parser: RegisterPlugin called twice for plugin " + name)
	}
	plugins[name] = plugin
}

// RegisteredPlugins lists the registered plugin names in sorted order.
func RegisteredPlugins() []string {
	pluginsMu.RLock()
	defer pluginsMu.RUnlock()
	names := make([]string, 0, len(plugins))
	for name := range plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// loadPlugins applies the enabled plugins in name order.
func (p *Parser) loadPlugins(enabled map[string]bool) error {
	names := make([]string, 0, len(enabled))
	for name, on := range enabled {
		if on {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	pluginsMu.RLock()
	defer pluginsMu.RUnlock()
	for _, name := range names {
		plugin, ok := plugins[name]
		if !ok {
			return errors.Errorf("Plugin '%s' not found", name)
		}
		plugin(p, p.hooks)
		p.logger.Debug("plugin loaded", zap.String("plugin", name))
	}
	return nil
}

// Dispatchers. The grammar calls these, never the base rules directly.

func (p *Parser) ParseForStatement(node *Node) (*Node, error) {
	return p.hooks.ParseForStatement(p, node)
}

func (p *Parser) InitFunction(node *Node) {
	p.hooks.InitFunction(p, node)
}

func (p *Parser) ParseFunction(node *Node, statement int, allowExpressionBody bool, isAsync bool) (*Node, error) {
	return p.hooks.ParseFunction(p, node, statement, allowExpressionBody, isAsync)
}

func (p *Parser) ParseArrowExpression(node *Node, params []*Node, isAsync bool) (*Node, error) {
	return p.hooks.ParseArrowExpression(p, node, params, isAsync)
}

func (p *Parser) ParseMethod(isGenerator bool, isAsync bool) (*Node, error) {
	return p.hooks.ParseMethod(p, isGenerator, isAsync)
}

func (p *Parser) ParseProperty(isPattern bool, refDestructuringErrors *DestructuringErrors) (*Node, error) {
	return p.hooks.ParseProperty(p, isPattern, refDestructuringErrors)
}

func (p *Parser) IsAsyncProp(prop *Node) bool {
	return p.hooks.IsAsyncProp(p, prop)
}

func (p *Parser) ParseClassMember(classBody *Node) (*Node, error) {
	return p.hooks.ParseClassMember(p, classBody)
}

func (p *Parser) ParseExprAtom(refDestructuringErrors *DestructuringErrors) (*Node, error) {
	return p.hooks.ParseExprAtom(p, refDestructuringErrors)
}
