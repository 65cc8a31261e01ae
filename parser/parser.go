package parser

import (
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Parser struct {
	options *Options
	hooks   *Hooks
	logger  *zap.Logger

	input      []byte
	pos        int
	lineStarts []int
	lexErr     error

	// Current token
	Type        *TokenType
	Value       any
	Start       int
	End         int
	StartLoc    *Location
	EndLoc      *Location
	ContainsEsc bool
	// Whether the last template chunk ended at the closing backquote.
	templateTail bool

	// Previous token
	LastTokStart    int
	LastTokEnd      int
	LastTokStartLoc *Location
	LastTokEndLoc   *Location

	reservedWords           map[string]bool
	reservedWordsStrict     map[string]bool
	reservedWordsStrictBind map[string]bool

	inModule         bool
	strict           bool
	potentialArrowAt int
	yieldPos         int
	awaitPos         int
	labels           []Label
	scopeStack       []*Scope
	exports          map[string]bool
	diagnostics      []*SyntaxError
}

type Label struct {
	Kind           string
	Name           string
	StatementStart int
}

// Result is a parsed program, or the expression parsed by
// ParseExpressionAt, together with the recoverable diagnostics reported
// while parsing it.
type Result struct {
	Program     *Node
	Diagnostics []*SyntaxError
}

// NewParser prepares a parser for input positioned at startPos, which must
// lie within input. Enabled plugins are installed before the first token
// is read.
func NewParser(options *Options, input []byte, startPos int) (*Parser, error) {
	opts, err := GetOptions(options)
	if err != nil {
		return nil, err
	}
	if startPos < 0 || startPos > len(input) {
		return nil, errors.Errorf("start position %d out of range for input of length %d", startPos, len(input))
	}

	p := &Parser{
		options:          opts,
		hooks:            baseHooks(),
		logger:           opts.Logger,
		input:            input,
		potentialArrowAt: -1,
		exports:          make(map[string]bool),
	}

	reserved := []string{}
	if opts.AllowReserved != ALLOW_RESERVED_TRUE {
		for v := opts.EcmaVersion; v > 0; v-- {
			if words, ok := reservedWords[v]; ok {
				reserved = words
				break
			}
		}
		if opts.SourceType == "module" {
			reserved = append(append([]string{}, reserved...), "await")
		}
	}
	p.reservedWords = wordSet(reserved)
	p.reservedWordsStrict = wordSet(reserved, reservedWordsStrict)
	p.reservedWordsStrictBind = wordSet(reserved, reservedWordsStrict, reservedWordsStrictBind)

	p.inModule = opts.SourceType == "module"
	p.strict = p.inModule || p.strictDirective(startPos)

	if startPos > 0 {
		p.pos = startPos
	} else if opts.AllowHashBang && strings.HasPrefix(string(input), "#!") {
		p.skipLineComment(2)
	}

	if err := p.loadPlugins(opts.Plugins); err != nil {
		return nil, err
	}

	p.Type = tokenTypes[TOKEN_EOF]
	p.LastTokStart, p.LastTokEnd = p.pos, p.pos
	p.Start, p.End = p.pos, p.pos
	p.StartLoc = p.CurrentPosition()
	p.EndLoc = p.StartLoc
	p.LastTokStartLoc, p.LastTokEndLoc = p.StartLoc, p.StartLoc
	return p, nil
}

func wordSet(lists ...[]string) map[string]bool {
	set := make(map[string]bool)
	for _, list := range lists {
		for _, w := range list {
			set[w] = true
		}
	}
	return set
}

// Parse parses input as a whole program.
func Parse(input []byte, options *Options) (*Result, error) {
	p, err := NewParser(options, input, 0)
	if err != nil {
		return nil, err
	}
	return p.Parse()
}

func (p *Parser) Parse() (*Result, error) {
	node := p.StartNode()
	p.Next()
	program, err := p.parseTopLevel(node)
	if p.lexErr != nil {
		return nil, p.lexErr
	}
	if err != nil {
		return nil, err
	}
	return &Result{Program: program, Diagnostics: p.diagnostics}, nil
}

// GetAst parses input and returns the program node. A recoverable
// diagnostic is reported as an error here; use Parse to keep the tree.
func GetAst(input []byte, options *Options, startPos int) (*Node, error) {
	p, err := NewParser(options, input, startPos)
	if err != nil {
		return nil, err
	}
	result, err := p.Parse()
	if err != nil {
		return nil, err
	}
	if len(result.Diagnostics) > 0 {
		return result.Program, result.Diagnostics[0]
	}
	return result.Program, nil
}

// ParseExpressionAt parses a single expression starting at offset pos.
// The expression is returned as the Result's Program, together with the
// recoverable diagnostics reported while parsing it.
func ParseExpressionAt(input []byte, pos int, options *Options) (*Result, error) {
	p, err := NewParser(options, input, pos)
	if err != nil {
		return nil, err
	}
	p.enterScope(SCOPE_TOP)
	p.Next()
	expr, err := p.parseExpression(false, nil)
	if p.lexErr != nil {
		return nil, p.lexErr
	}
	if err != nil {
		return nil, err
	}
	return &Result{Program: expr, Diagnostics: p.diagnostics}, nil
}

// Options returns the normalized options the parser runs with.
func (p *Parser) Options() *Options {
	return p.options
}

func (p *Parser) EcmaVersion() int {
	return p.options.EcmaVersion
}

func (p *Parser) Logger() *zap.Logger {
	return p.logger
}

// Diagnostics returns the recoverable errors reported so far.
func (p *Parser) Diagnostics() []*SyntaxError {
	return p.diagnostics
}

func (p *Parser) Strict() bool {
	return p.strict
}

// Input is the source being parsed.
func (p *Parser) Input() []byte {
	return p.input
}
