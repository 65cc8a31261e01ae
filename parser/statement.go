package parser

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap/zapcore"
)

const (
	FUNC_STATEMENT         = 1
	FUNC_HANGING_STATEMENT = 2
	FUNC_NULLABLE_ID       = 4
)

var (
	loopLabel   = Label{Kind: "loop"}
	switchLabel = Label{Kind: "switch"}
)

func (p *Parser) parseTopLevel(node *Node) (*Node, error) {
	p.enterScope(SCOPE_TOP)
	node.Body = []*Node{}
	for p.Type.identifier != TOKEN_EOF {
		stmt, err := p.parseStatement("", true)
		if err != nil {
			return nil, err
		}
		node.Body = append(node.Body, stmt)
	}
	p.adaptDirectivePrologue(node.Body)
	p.next()
	if p.options.SourceType == "module" {
		node.SourceType = TYPE_MODULE
	}
	return p.FinishNode(node, NODE_PROGRAM), nil
}

// isLet tells whether the `let` name at the cursor starts a declaration.
func (p *Parser) isLet() bool {
	if p.Type.identifier != TOKEN_NAME || p.options.EcmaVersion < 6 || p.Value != "let" {
		return false
	}
	next := skipWhiteSpaceAt(p.input, p.pos)
	if next >= len(p.input) {
		return false
	}
	nextCh := p.input[next]
	if nextCh == '[' || nextCh == '{' {
		return true
	}
	r, size := utf8.DecodeRune(p.input[next:])
	if isIdentifierStart(r) {
		pos := next + size
		for pos < len(p.input) {
			r, size = utf8.DecodeRune(p.input[pos:])
			if !isIdentifierChar(r) {
				break
			}
			pos += size
		}
		ident := string(p.input[next:pos])
		if ident != "in" && ident != "instanceof" {
			return true
		}
	}
	return false
}

// isAsyncFunction checks for an unescaped `async` followed on the same
// line by `function`.
func (p *Parser) isAsyncFunction() bool {
	if p.options.EcmaVersion < 8 || !p.isContextual("async") {
		return false
	}
	next := skipWhiteSpaceAt(p.input, p.pos)
	if hasLineBreak(p.input[p.pos:next]) || next+8 > len(p.input) || string(p.input[next:next+8]) != "function" {
		return false
	}
	if next+8 == len(p.input) {
		return true
	}
	after, _ := utf8.DecodeRune(p.input[next+8:])
	return !isIdentifierChar(after)
}

// parseStatement parses a single statement. A non-empty context names the
// statement that owns this one ("if", "for", "label", ...); declarations
// are only allowed with an empty context.
func (p *Parser) parseStatement(context string, topLevel bool) (*Node, error) {
	if p.logger.Core().Enabled(zapcore.DebugLevel) {
		p.printState()
	}
	startType, node := p.Type, p.StartNode()
	kind := KIND_NOT_INITIALIZED

	if p.isLet() {
		startType = tokenTypes[TOKEN_VAR]
		kind = KIND_DECLARATION_LET
	}

	switch startType.identifier {
	case TOKEN_BREAK, TOKEN_CONTINUE:
		return p.parseBreakContinueStatement(node, startType.keyword)

	case TOKEN_DEBUGGER:
		return p.parseDebuggerStatement(node)

	case TOKEN_DO:
		return p.parseDoStatement(node)

	case TOKEN_FOR:
		p.next()
		return p.ParseForStatement(node)

	case TOKEN_FUNCTION:
		if context != "" && (p.strict || context != "if" && context != "label") && p.options.EcmaVersion >= 6 {
			return nil, p.unexpected(nil)
		}
		return p.parseFunctionStatement(node, false, context == "")

	case TOKEN_CLASS:
		if context != "" {
			return nil, p.unexpected(nil)
		}
		return p.parseClass(node, true, false)

	case TOKEN_IF:
		return p.parseIfStatement(node)

	case TOKEN_RETURN:
		return p.parseReturnStatement(node)

	case TOKEN_SWITCH:
		return p.parseSwitchStatement(node)

	case TOKEN_THROW:
		return p.parseThrowStatement(node)

	case TOKEN_TRY:
		return p.parseTryStatement(node)

	case TOKEN_CONST, TOKEN_VAR:
		if kind == KIND_NOT_INITIALIZED {
			kind = KIND_DECLARATION_VAR
			if startType.identifier == TOKEN_CONST {
				kind = KIND_DECLARATION_CONST
			}
		}
		if context != "" && kind != KIND_DECLARATION_VAR {
			return nil, p.unexpected(nil)
		}
		return p.parseVarStatement(node, kind)

	case TOKEN_WHILE:
		return p.parseWhileStatement(node)

	case TOKEN_WITH:
		return p.parseWithStatement(node)

	case TOKEN_BRACEL:
		return p.parseBlock(true, node)

	case TOKEN_SEMI:
		return p.parseEmptyStatement(node)

	case TOKEN_EXPORT, TOKEN_IMPORT:
		if !p.options.AllowImportExportEverywhere {
			if !topLevel {
				return nil, p.raise(p.Start, "'import' and 'export' may only appear at the top level")
			}
			if !p.inModule {
				return nil, p.raise(p.Start, "'import' and 'export' may appear only with 'sourceType: module'")
			}
		}
		if startType.identifier == TOKEN_IMPORT {
			return p.parseImport(node)
		}
		return p.parseExport(node)

	default:
		if p.isAsyncFunction() {
			if context != "" {
				return nil, p.unexpected(nil)
			}
			p.next()
			return p.parseFunctionStatement(node, true, true)
		}

		maybeName, _ := p.Value.(string)
		expr, err := p.parseExpression(false, nil)
		if err != nil {
			return nil, err
		}
		if startType.identifier == TOKEN_NAME && expr.Type == NODE_IDENTIFIER && p.eat(TOKEN_COLON) {
			return p.parseLabeledStatement(node, maybeName, expr, context)
		}
		return p.parseExpressionStatement(node, expr)
	}
}

func (p *Parser) parseBreakContinueStatement(node *Node, keyword string) (*Node, error) {
	isBreak := keyword == "break"
	p.next()

	if p.eat(TOKEN_SEMI) || p.insertSemicolon() {
		node.Label = nil
	} else if p.Type.identifier != TOKEN_NAME {
		return nil, p.unexpected(nil)
	} else {
		label, err := p.parseIdent(false)
		if err != nil {
			return nil, err
		}
		node.Label = label
		if err := p.semicolon(); err != nil {
			return nil, err
		}
	}

	// Verify that there is an actual destination to break or
	// continue to.
	i := 0
	for ; i < len(p.labels); i++ {
		lab := p.labels[i]
		if node.Label == nil || lab.Name == node.Label.Name {
			if lab.Kind != "" && (isBreak || lab.Kind == "loop") {
				break
			}
			if node.Label != nil && isBreak {
				break
			}
		}
	}
	if i == len(p.labels) {
		return nil, p.raise(node.Start, "Unsyntactic "+keyword)
	}
	if isBreak {
		return p.FinishNode(node, NODE_BREAK_STATEMENT), nil
	}
	return p.FinishNode(node, NODE_CONTINUE_STATEMENT), nil
}

func (p *Parser) parseDebuggerStatement(node *Node) (*Node, error) {
	p.next()
	if err := p.semicolon(); err != nil {
		return nil, err
	}
	return p.FinishNode(node, NODE_DEBUGGER_STATEMENT), nil
}

func (p *Parser) parseDoStatement(node *Node) (*Node, error) {
	p.next()
	p.labels = append(p.labels, loopLabel)
	body, err := p.parseStatement("do", false)
	if err != nil {
		return nil, err
	}
	node.BodyNode = body
	p.labels = p.labels[:len(p.labels)-1]

	if err := p.expect(TOKEN_WHILE); err != nil {
		return nil, err
	}
	test, err := p.parseParenExpression()
	if err != nil {
		return nil, err
	}
	node.Test = test

	if p.options.EcmaVersion >= 6 {
		p.eat(TOKEN_SEMI)
	} else if err := p.semicolon(); err != nil {
		return nil, err
	}
	return p.FinishNode(node, NODE_DO_WHILE_STATEMENT), nil
}

// Disambiguating between a `for` and a `for`/`in` or `for`/`of`
// loop is non-trivial. Basically, we have to parse the init `var`
// statement or expression, disallowing the `in` operator (see
// the second parameter to `parseExpression`), and then check
// whether the next token is `in` or `of`. When there is no init
// part (semicolon immediately after the opening parenthesis), it
// is a regular `for` loop.
//
// The `for` keyword has already been consumed.
func (p *Parser) parseForStatement(node *Node) (*Node, error) {
	p.labels = append(p.labels, loopLabel)
	p.enterScope(0)
	if err := p.expect(TOKEN_PARENL); err != nil {
		return nil, err
	}
	if p.Type.identifier == TOKEN_SEMI {
		return p.parseFor(node, nil)
	}

	isLet := p.isLet()
	if p.Type.identifier == TOKEN_VAR || p.Type.identifier == TOKEN_CONST || isLet {
		init := p.StartNode()
		kind := KIND_DECLARATION_VAR
		if isLet {
			kind = KIND_DECLARATION_LET
		} else if p.Type.identifier == TOKEN_CONST {
			kind = KIND_DECLARATION_CONST
		}
		p.next()
		if err := p.parseVar(init, true, kind); err != nil {
			return nil, err
		}
		p.FinishNode(init, NODE_VARIABLE_DECLARATION)
		if (p.Type.identifier == TOKEN_IN || p.options.EcmaVersion >= 6 && p.isContextual("of")) &&
			len(init.Declarations) == 1 &&
			!(kind != KIND_DECLARATION_VAR && init.Declarations[0].Init != nil) {
			return p.parseForIn(node, init)
		}
		return p.parseFor(node, init)
	}

	refDestructuringErrors := NewDestructuringErrors()
	init, err := p.parseExpression(true, refDestructuringErrors)
	if err != nil {
		return nil, err
	}
	if p.Type.identifier == TOKEN_IN || p.options.EcmaVersion >= 6 && p.isContextual("of") {
		if _, err := p.toAssignable(init, false, nil); err != nil {
			return nil, err
		}
		if err := p.checkLVal(init, BIND_NONE, nil); err != nil {
			return nil, err
		}
		p.checkPatternErrors(refDestructuringErrors, true)
		return p.parseForIn(node, init)
	}
	if _, err := p.checkExpressionErrors(refDestructuringErrors, true); err != nil {
		return nil, err
	}
	return p.parseFor(node, init)
}

// Parse a regular `for` loop. The disambiguation code in
// parseForStatement will already have parsed the init statement or
// expression.
func (p *Parser) parseFor(node *Node, init *Node) (*Node, error) {
	node.Init = init
	if err := p.expect(TOKEN_SEMI); err != nil {
		return nil, err
	}
	if p.Type.identifier != TOKEN_SEMI {
		test, err := p.parseExpression(false, nil)
		if err != nil {
			return nil, err
		}
		node.Test = test
	}
	if err := p.expect(TOKEN_SEMI); err != nil {
		return nil, err
	}
	if p.Type.identifier != TOKEN_PARENR {
		update, err := p.parseExpression(false, nil)
		if err != nil {
			return nil, err
		}
		node.Update = update
	}
	if err := p.expect(TOKEN_PARENR); err != nil {
		return nil, err
	}
	body, err := p.parseStatement("for", false)
	if err != nil {
		return nil, err
	}
	node.BodyNode = body
	p.exitScope()
	p.labels = p.labels[:len(p.labels)-1]
	return p.FinishNode(node, NODE_FOR_STATEMENT), nil
}

// Parse a `for`/`in` and `for`/`of` loop, which are almost
// same from parser's perspective.
func (p *Parser) parseForIn(node *Node, init *Node) (*Node, error) {
	nodeType := NODE_FOR_OF_STATEMENT
	if p.Type.identifier == TOKEN_IN {
		nodeType = NODE_FOR_IN_STATEMENT
	}
	p.next()

	if nodeType == NODE_FOR_IN_STATEMENT {
		if init.Type == NODE_ASSIGNMENT_PATTERN ||
			init.Type == NODE_VARIABLE_DECLARATION && init.Declarations[0].Init != nil &&
				(p.strict || init.Declarations[0].Id.Type != NODE_IDENTIFIER) {
			return nil, p.raise(init.Start, "Invalid assignment in for-in loop head")
		}
	}
	node.Left = init

	var (
		right *Node
		err   error
	)
	if nodeType == NODE_FOR_IN_STATEMENT {
		right, err = p.parseExpression(false, nil)
	} else {
		right, err = p.parseMaybeAssign(false, nil, nil)
	}
	if err != nil {
		return nil, err
	}
	node.Right = right

	if err := p.expect(TOKEN_PARENR); err != nil {
		return nil, err
	}
	body, err := p.parseStatement("for", false)
	if err != nil {
		return nil, err
	}
	node.BodyNode = body
	p.exitScope()
	p.labels = p.labels[:len(p.labels)-1]
	return p.FinishNode(node, nodeType), nil
}

func (p *Parser) parseFunctionStatement(node *Node, isAsync bool, declarationPosition bool) (*Node, error) {
	p.next()
	statement := FUNC_STATEMENT
	if !declarationPosition {
		statement |= FUNC_HANGING_STATEMENT
	}
	return p.ParseFunction(node, statement, false, isAsync)
}

func (p *Parser) parseIfStatement(node *Node) (*Node, error) {
	p.next()
	test, err := p.parseParenExpression()
	if err != nil {
		return nil, err
	}
	node.Test = test

	// allow function declarations in branches, but only in non-strict mode
	consequent, err := p.parseStatement("if", false)
	if err != nil {
		return nil, err
	}
	node.Consequent = consequent

	if p.eat(TOKEN_ELSE) {
		alternate, err := p.parseStatement("if", false)
		if err != nil {
			return nil, err
		}
		node.Alternate = alternate
	}
	return p.FinishNode(node, NODE_IF_STATEMENT), nil
}

func (p *Parser) parseReturnStatement(node *Node) (*Node, error) {
	if !p.inFunction() && !p.options.AllowReturnOutsideFunction {
		return nil, p.raise(p.Start, "'return' outside of function")
	}
	p.next()

	// In `return` (and `break`/`continue`), the keywords with
	// optional arguments, we eagerly look for a semicolon or the
	// possibility to insert one.
	if !p.eat(TOKEN_SEMI) && !p.insertSemicolon() {
		argument, err := p.parseExpression(false, nil)
		if err != nil {
			return nil, err
		}
		node.Argument = argument
		if err := p.semicolon(); err != nil {
			return nil, err
		}
	}
	return p.FinishNode(node, NODE_RETURN_STATEMENT), nil
}

func (p *Parser) parseSwitchStatement(node *Node) (*Node, error) {
	p.next()
	discriminant, err := p.parseParenExpression()
	if err != nil {
		return nil, err
	}
	node.Discriminant = discriminant
	node.Cases = []*Node{}
	if err := p.expect(TOKEN_BRACEL); err != nil {
		return nil, err
	}
	p.labels = append(p.labels, switchLabel)
	p.enterScope(0)

	// Statements under must be grouped (by label) in SwitchCase
	// nodes. `cur` is used to keep the node that we are currently
	// adding statements to.
	var cur *Node
	sawDefault := false
	for p.Type.identifier != TOKEN_BRACER {
		if p.Type.identifier == TOKEN_CASE || p.Type.identifier == TOKEN_DEFAULT {
			isCase := p.Type.identifier == TOKEN_CASE
			if cur != nil {
				p.FinishNode(cur, NODE_SWITCH_CASE)
			}
			cur = p.StartNode()
			cur.ConsequentSlice = []*Node{}
			node.Cases = append(node.Cases, cur)
			p.next()
			if isCase {
				test, err := p.parseExpression(false, nil)
				if err != nil {
					return nil, err
				}
				cur.Test = test
			} else {
				if sawDefault {
					p.raiseRecoverable(p.LastTokStart, "Multiple default clauses")
				}
				sawDefault = true
				cur.Test = nil
			}
			if err := p.expect(TOKEN_COLON); err != nil {
				return nil, err
			}
		} else {
			if cur == nil {
				return nil, p.unexpected(nil)
			}
			stmt, err := p.parseStatement("", false)
			if err != nil {
				return nil, err
			}
			cur.ConsequentSlice = append(cur.ConsequentSlice, stmt)
		}
	}
	p.exitScope()
	if cur != nil {
		p.FinishNode(cur, NODE_SWITCH_CASE)
	}
	p.next() // Closing brace
	p.labels = p.labels[:len(p.labels)-1]
	return p.FinishNode(node, NODE_SWITCH_STATEMENT), nil
}

func (p *Parser) parseThrowStatement(node *Node) (*Node, error) {
	p.next()
	if hasLineBreak(p.input[p.LastTokEnd:p.Start]) {
		return nil, p.raise(p.LastTokEnd, "Illegal newline after throw")
	}
	argument, err := p.parseExpression(false, nil)
	if err != nil {
		return nil, err
	}
	node.Argument = argument
	if err := p.semicolon(); err != nil {
		return nil, err
	}
	return p.FinishNode(node, NODE_THROW_STATEMENT), nil
}

func (p *Parser) parseTryStatement(node *Node) (*Node, error) {
	p.next()
	block, err := p.parseBlock(true, nil)
	if err != nil {
		return nil, err
	}
	node.Block = block

	if p.Type.identifier == TOKEN_CATCH {
		clause := p.StartNode()
		p.next()
		if err := p.expect(TOKEN_PARENL); err != nil {
			return nil, err
		}
		param, err := p.parseBindingAtom()
		if err != nil {
			return nil, err
		}
		clause.Param = param
		simple := param.Type == NODE_IDENTIFIER
		if simple {
			p.enterScope(SCOPE_SIMPLE_CATCH)
			err = p.checkLVal(param, BIND_SIMPLE_CATCH, nil)
		} else {
			p.enterScope(0)
			err = p.checkLVal(param, BIND_LEXICAL, nil)
		}
		if err != nil {
			return nil, err
		}
		if err := p.expect(TOKEN_PARENR); err != nil {
			return nil, err
		}
		body, err := p.parseBlock(false, nil)
		if err != nil {
			return nil, err
		}
		clause.BodyNode = body
		p.exitScope()
		node.Handler = p.FinishNode(clause, NODE_CATCH_CLAUSE)
	}

	if p.eat(TOKEN_FINALLY) {
		finalizer, err := p.parseBlock(true, nil)
		if err != nil {
			return nil, err
		}
		node.Finalizer = finalizer
	}
	if node.Handler == nil && node.Finalizer == nil {
		return nil, p.raise(node.Start, "Missing catch or finally clause")
	}
	return p.FinishNode(node, NODE_TRY_STATEMENT), nil
}

func (p *Parser) parseVarStatement(node *Node, kind Kind) (*Node, error) {
	p.next()
	if err := p.parseVar(node, false, kind); err != nil {
		return nil, err
	}
	if err := p.semicolon(); err != nil {
		return nil, err
	}
	return p.FinishNode(node, NODE_VARIABLE_DECLARATION), nil
}

func (p *Parser) parseWhileStatement(node *Node) (*Node, error) {
	p.next()
	test, err := p.parseParenExpression()
	if err != nil {
		return nil, err
	}
	node.Test = test
	p.labels = append(p.labels, loopLabel)
	body, err := p.parseStatement("while", false)
	if err != nil {
		return nil, err
	}
	node.BodyNode = body
	p.labels = p.labels[:len(p.labels)-1]
	return p.FinishNode(node, NODE_WHILE_STATEMENT), nil
}

func (p *Parser) parseWithStatement(node *Node) (*Node, error) {
	if p.strict {
		return nil, p.raise(p.Start, "'with' in strict mode")
	}
	p.next()
	object, err := p.parseParenExpression()
	if err != nil {
		return nil, err
	}
	node.Object = object
	body, err := p.parseStatement("with", false)
	if err != nil {
		return nil, err
	}
	node.BodyNode = body
	return p.FinishNode(node, NODE_WITH_STATEMENT), nil
}

func (p *Parser) parseEmptyStatement(node *Node) (*Node, error) {
	p.next()
	return p.FinishNode(node, NODE_EMPTY_STATEMENT), nil
}

func (p *Parser) parseLabeledStatement(node *Node, maybeName string, expr *Node, context string) (*Node, error) {
	for _, label := range p.labels {
		if label.Name == maybeName {
			return nil, p.raise(expr.Start, "Label '"+maybeName+"' is already declared")
		}
	}

	kind := ""
	if p.Type.isLoop {
		kind = "loop"
	} else if p.Type.identifier == TOKEN_SWITCH {
		kind = "switch"
	}
	for i := len(p.labels) - 1; i >= 0; i-- {
		if p.labels[i].StatementStart != node.Start {
			break
		}
		p.labels[i].StatementStart = p.Start
		p.labels[i].Kind = kind
	}
	p.labels = append(p.labels, Label{Name: maybeName, Kind: kind, StatementStart: p.Start})

	if context == "" {
		context = "label"
	} else if !strings.Contains(context, "label") {
		context += "label"
	}
	body, err := p.parseStatement(context, false)
	if err != nil {
		return nil, err
	}
	node.BodyNode = body
	p.labels = p.labels[:len(p.labels)-1]
	node.Label = expr
	return p.FinishNode(node, NODE_LABELED_STATEMENT), nil
}

func (p *Parser) parseExpressionStatement(node *Node, expr *Node) (*Node, error) {
	node.Expression = expr
	if err := p.semicolon(); err != nil {
		return nil, err
	}
	return p.FinishNode(node, NODE_EXPRESSION_STATEMENT), nil
}

// Parse a brace-enclosed block of statements. A nil node starts a fresh
// one at the cursor.
func (p *Parser) parseBlock(createNewLexicalScope bool, node *Node) (*Node, error) {
	if node == nil {
		node = p.StartNode()
	}
	node.Body = []*Node{}
	if err := p.expect(TOKEN_BRACEL); err != nil {
		return nil, err
	}
	if createNewLexicalScope {
		p.enterScope(0)
	}
	for !p.eat(TOKEN_BRACER) {
		if p.Type.identifier == TOKEN_EOF || p.Type.identifier == TOKEN_INVALID {
			return nil, p.unexpected(nil)
		}
		stmt, err := p.parseStatement("", false)
		if err != nil {
			return nil, err
		}
		node.Body = append(node.Body, stmt)
	}
	if createNewLexicalScope {
		p.exitScope()
	}
	return p.FinishNode(node, NODE_BLOCK_STATEMENT), nil
}

// Parse a list of variable declarations.
func (p *Parser) parseVar(node *Node, isFor bool, kind Kind) error {
	node.Declarations = []*Node{}
	node.Kind = kind
	for {
		decl := p.StartNode()
		if err := p.parseVarId(decl, kind); err != nil {
			return err
		}
		if p.eat(TOKEN_EQ) {
			init, err := p.parseMaybeAssign(isFor, nil, nil)
			if err != nil {
				return err
			}
			decl.Init = init
		} else if kind == KIND_DECLARATION_CONST && !(p.Type.identifier == TOKEN_IN || p.options.EcmaVersion >= 6 && p.isContextual("of")) {
			return p.unexpected(nil)
		} else if decl.Id.Type != NODE_IDENTIFIER && !(isFor && (p.Type.identifier == TOKEN_IN || p.isContextual("of"))) {
			return p.raise(p.LastTokEnd, "Complex binding patterns require an initialization value")
		}
		node.Declarations = append(node.Declarations, p.FinishNode(decl, NODE_VARIABLE_DECLARATOR))
		if !p.eat(TOKEN_COMMA) {
			break
		}
	}
	return nil
}

func (p *Parser) parseVarId(decl *Node, kind Kind) error {
	id, err := p.parseBindingAtom()
	if err != nil {
		return err
	}
	decl.Id = id
	bindingType := BIND_LEXICAL
	if kind == KIND_DECLARATION_VAR {
		bindingType = BIND_VAR
	}
	return p.checkLVal(id, bindingType, nil)
}

// Parse a function declaration or literal (depending on the
// `statement & FUNC_STATEMENT`). The caller has consumed `function`
// and, for async functions, `async`.
func (p *Parser) parseFunction(node *Node, statement int, allowExpressionBody bool, isAsync bool) (*Node, error) {
	p.InitFunction(node)
	if p.options.EcmaVersion >= 6 && !isAsync {
		node.IsGenerator = p.eat(TOKEN_STAR)
	}
	if p.options.EcmaVersion >= 8 {
		node.IsAsync = isAsync
	}

	if statement&FUNC_STATEMENT != 0 {
		if statement&FUNC_NULLABLE_ID != 0 && p.Type.identifier != TOKEN_NAME {
			node.Id = nil
		} else {
			id, err := p.parseIdent(false)
			if err != nil {
				return nil, err
			}
			node.Id = id
		}
		if node.Id != nil && statement&FUNC_HANGING_STATEMENT == 0 {
			// If it is a regular function declaration in sloppy mode, then it is
			// subject to Annex B semantics (BIND_FUNCTION). Otherwise, the binding
			// mode depends on properties of the current scope (see
			// treatFunctionsAsVar).
			bindingType := BIND_FUNCTION
			if p.strict || node.IsGenerator || node.IsAsync {
				bindingType = BIND_LEXICAL
				if p.treatFunctionsAsVar() {
					bindingType = BIND_VAR
				}
			}
			if err := p.checkLVal(node.Id, bindingType, nil); err != nil {
				return nil, err
			}
		}
	}

	oldYieldPos, oldAwaitPos := p.yieldPos, p.awaitPos
	p.yieldPos = 0
	p.awaitPos = 0
	p.enterScope(functionFlags(node.IsAsync, node.IsGenerator))

	if statement&FUNC_STATEMENT == 0 && p.Type.identifier == TOKEN_NAME {
		id, err := p.parseIdent(false)
		if err != nil {
			return nil, err
		}
		node.Id = id
	}

	if err := p.parseFunctionParams(node); err != nil {
		return nil, err
	}
	if err := p.parseFunctionBody(node, allowExpressionBody); err != nil {
		return nil, err
	}

	p.yieldPos = oldYieldPos
	p.awaitPos = oldAwaitPos
	if statement&FUNC_STATEMENT != 0 {
		return p.FinishNode(node, NODE_FUNCTION_DECLARATION), nil
	}
	return p.FinishNode(node, NODE_FUNCTION_EXPRESSION), nil
}

func (p *Parser) parseFunctionParams(node *Node) error {
	if err := p.expect(TOKEN_PARENL); err != nil {
		return err
	}
	params, err := p.parseBindingList(TOKEN_PARENR, false, p.options.EcmaVersion >= 8)
	if err != nil {
		return err
	}
	node.Params = params
	return p.checkYieldAwaitInDefaultParams()
}

// Parse a class declaration or literal (depending on isStatement).
// allowNullID lets a declaration omit its name, as in `export default class {}`.
func (p *Parser) parseClass(node *Node, isStatement bool, allowNullID bool) (*Node, error) {
	p.next()

	// A class definition is always strict mode code.
	oldStrict := p.strict
	p.strict = true

	if err := p.parseClassId(node, isStatement, allowNullID); err != nil {
		return nil, err
	}
	if err := p.parseClassSuper(node); err != nil {
		return nil, err
	}

	classBody := p.StartNode()
	hadConstructor := false
	classBody.Body = []*Node{}
	if err := p.expect(TOKEN_BRACEL); err != nil {
		return nil, err
	}
	for !p.eat(TOKEN_BRACER) {
		if p.Type.identifier == TOKEN_EOF || p.Type.identifier == TOKEN_INVALID {
			return nil, p.unexpected(nil)
		}
		member, err := p.ParseClassMember(classBody)
		if err != nil {
			return nil, err
		}
		if member != nil && member.Type == NODE_METHOD_DEFINITION && member.Kind == KIND_CONSTRUCTOR {
			if hadConstructor {
				return nil, p.raise(member.Start, "Duplicate constructor in the same class")
			}
			hadConstructor = true
		}
	}
	node.BodyNode = p.FinishNode(classBody, NODE_CLASS_BODY)
	p.strict = oldStrict

	if isStatement {
		return p.FinishNode(node, NODE_CLASS_DECLARATION), nil
	}
	return p.FinishNode(node, NODE_CLASS_EXPRESSION), nil
}

// parseClassMember parses one member into classBody. It returns nil for
// a stray semicolon.
func (p *Parser) parseClassMember(classBody *Node) (*Node, error) {
	if p.eat(TOKEN_SEMI) {
		return nil, nil
	}

	method := p.StartNode()
	tryContextual := func(k string, noLineBreak bool) (bool, error) {
		start, startLoc := p.Start, p.StartLoc
		if !p.eatContextual(k) {
			return false, nil
		}
		if p.Type.identifier != TOKEN_PARENL && (!noLineBreak || !p.canInsertSemicolon()) {
			return true, nil
		}
		if method.Key != nil {
			return false, p.unexpected(nil)
		}
		method.Computed = false
		method.Key = p.StartNodeAt(start, startLoc)
		method.Key.Name = k
		p.FinishNode(method.Key, NODE_IDENTIFIER)
		return false, nil
	}

	method.Kind = KIND_PROPERTY_METHOD
	isStatic, err := tryContextual("static", false)
	if err != nil {
		return nil, err
	}
	method.IsStatic = isStatic

	isGenerator := p.eat(TOKEN_STAR)
	isAsync := false
	if !isGenerator {
		if p.options.EcmaVersion >= 8 {
			if isAsync, err = tryContextual("async", true); err != nil {
				return nil, err
			}
		}
		if !isAsync {
			isGet, err := tryContextual("get", false)
			if err != nil {
				return nil, err
			}
			if isGet {
				method.Kind = KIND_PROPERTY_GET
			} else {
				isSet, err := tryContextual("set", false)
				if err != nil {
					return nil, err
				}
				if isSet {
					method.Kind = KIND_PROPERTY_SET
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
	if !method.Computed && !method.IsStatic && IsConstructorKey(key) {
		if method.Kind != KIND_PROPERTY_METHOD {
			return nil, p.raise(key.Start, "Constructor can't have get/set modifier")
		}
		if isGenerator {
			return nil, p.raise(key.Start, "Constructor can't be a generator")
		}
		if isAsync {
			return nil, p.raise(key.Start, "Constructor can't be an async method")
		}
		method.Kind = KIND_CONSTRUCTOR
	} else if method.IsStatic && key.Type == NODE_IDENTIFIER && key.Name == "prototype" {
		return nil, p.raise(key.Start, "Classes may not have a static property named prototype")
	}

	if err := p.ParseClassMethod(classBody, method, isGenerator, isAsync); err != nil {
		return nil, err
	}
	p.CheckAccessorParams(method.Kind, method.ValueNode())
	return method, nil
}

// IsConstructorKey reports whether key names a class constructor, either
// as the identifier or the string `constructor`.
func IsConstructorKey(key *Node) bool {
	switch key.Type {
	case NODE_IDENTIFIER:
		return key.Name == "constructor"
	case NODE_LITERAL:
		return key.Value == "constructor"
	}
	return false
}

// ParseClassMethod parses the method value and appends the finished
// MethodDefinition to classBody.
func (p *Parser) ParseClassMethod(classBody *Node, method *Node, isGenerator bool, isAsync bool) error {
	value, err := p.ParseMethod(isGenerator, isAsync)
	if err != nil {
		return err
	}
	method.Value = value
	classBody.Body = append(classBody.Body, p.FinishNode(method, NODE_METHOD_DEFINITION))
	return nil
}

// CheckAccessorParams reports getter and setter arity mistakes as
// recoverable diagnostics.
func (p *Parser) CheckAccessorParams(kind Kind, value *Node) {
	if value == nil {
		return
	}
	switch kind {
	case KIND_PROPERTY_GET:
		if len(value.Params) != 0 {
			p.raiseRecoverable(value.Start, "getter should have no params")
		}
	case KIND_PROPERTY_SET:
		if len(value.Params) != 1 {
			p.raiseRecoverable(value.Start, "setter should have exactly one param")
		}
		if len(value.Params) > 0 && value.Params[0].Type == NODE_REST_ELEMENT {
			p.raiseRecoverable(value.Params[0].Start, "Setter cannot use rest params")
		}
	}
}

func (p *Parser) parseClassId(node *Node, isStatement bool, allowNullID bool) error {
	if p.Type.identifier == TOKEN_NAME {
		id, err := p.parseIdent(false)
		if err != nil {
			return err
		}
		node.Id = id
		if isStatement {
			return p.checkLVal(id, BIND_LEXICAL, nil)
		}
		return nil
	}
	if isStatement && !allowNullID {
		return p.unexpected(nil)
	}
	node.Id = nil
	return nil
}

func (p *Parser) parseClassSuper(node *Node) error {
	if !p.eat(TOKEN_EXTENDS) {
		node.SuperClass = nil
		return nil
	}
	superClass, err := p.parseExprSubscripts(nil)
	if err != nil {
		return err
	}
	node.SuperClass = superClass
	return nil
}

// Parses module export declaration.
func (p *Parser) parseExport(node *Node) (*Node, error) {
	p.next()

	// export * from '...'
	if p.eat(TOKEN_STAR) {
		if err := p.expectContextual("from"); err != nil {
			return nil, err
		}
		if p.Type.identifier != TOKEN_STRING {
			return nil, p.unexpected(nil)
		}
		source, err := p.ParseExprAtom(nil)
		if err != nil {
			return nil, err
		}
		node.Source = source
		if err := p.semicolon(); err != nil {
			return nil, err
		}
		return p.FinishNode(node, NODE_EXPORT_ALL_DECLARATION), nil
	}

	// export default ...
	if p.eat(TOKEN_DEFAULT) {
		p.checkExport("default", p.LastTokStart)
		isAsync := false
		if p.Type.identifier == TOKEN_FUNCTION || p.isAsyncFunction() {
			isAsync = p.Type.identifier != TOKEN_FUNCTION
			fNode := p.StartNode()
			p.next()
			if isAsync {
				p.next()
			}
			decl, err := p.ParseFunction(fNode, FUNC_STATEMENT|FUNC_NULLABLE_ID, false, isAsync)
			if err != nil {
				return nil, err
			}
			node.Declaration = decl
		} else if p.Type.identifier == TOKEN_CLASS {
			decl, err := p.parseClass(p.StartNode(), true, true)
			if err != nil {
				return nil, err
			}
			node.Declaration = decl
		} else {
			decl, err := p.parseMaybeAssign(false, nil, nil)
			if err != nil {
				return nil, err
			}
			node.Declaration = decl
			if err := p.semicolon(); err != nil {
				return nil, err
			}
		}
		return p.FinishNode(node, NODE_EXPORT_DEFAULT_DECLARATION), nil
	}

	// export var|const|let|function|class ...
	if p.shouldParseExportStatement() {
		decl, err := p.parseStatement("", false)
		if err != nil {
			return nil, err
		}
		node.Declaration = decl
		if decl.Type == NODE_VARIABLE_DECLARATION {
			for _, d := range decl.Declarations {
				p.checkPatternExport(d.Id)
			}
		} else {
			p.checkExport(decl.Id.Name, decl.Id.Start)
		}
		node.Specifiers = []*Node{}
		node.Source = nil
		return p.FinishNode(node, NODE_EXPORT_NAMED_DECLARATION), nil
	}

	// export { x, y as z } [from '...']
	node.Declaration = nil
	specifiers, err := p.parseExportSpecifiers()
	if err != nil {
		return nil, err
	}
	node.Specifiers = specifiers
	if p.eatContextual("from") {
		if p.Type.identifier != TOKEN_STRING {
			return nil, p.unexpected(nil)
		}
		source, err := p.ParseExprAtom(nil)
		if err != nil {
			return nil, err
		}
		node.Source = source
	} else {
		// check for keywords used as local names
		for _, spec := range node.Specifiers {
			if err := p.checkUnreserved(spec.Local); err != nil {
				return nil, err
			}
		}
		node.Source = nil
	}
	if err := p.semicolon(); err != nil {
		return nil, err
	}
	return p.FinishNode(node, NODE_EXPORT_NAMED_DECLARATION), nil
}

func (p *Parser) checkExport(name string, pos int) {
	if p.exports[name] {
		p.raiseRecoverable(pos, "Duplicate export '"+name+"'")
	}
	p.exports[name] = true
}

func (p *Parser) checkPatternExport(pat *Node) {
	if pat == nil {
		return
	}
	switch pat.Type {
	case NODE_IDENTIFIER:
		p.checkExport(pat.Name, pat.Start)
	case NODE_OBJECT_PATTERN:
		for _, prop := range pat.Properties {
			p.checkPatternExport(prop)
		}
	case NODE_ARRAY_PATTERN:
		for _, elt := range pat.Elements {
			p.checkPatternExport(elt)
		}
	case NODE_PROPERTY:
		p.checkPatternExport(pat.ValueNode())
	case NODE_ASSIGNMENT_PATTERN:
		p.checkPatternExport(pat.Left)
	case NODE_REST_ELEMENT:
		p.checkPatternExport(pat.Argument)
	case NODE_PARENTHESIZED_EXPRESSION:
		p.checkPatternExport(pat.Expression)
	}
}

func (p *Parser) shouldParseExportStatement() bool {
	switch p.Type.keyword {
	case "var", "const", "class", "function":
		return true
	}
	return p.isLet() || p.isAsyncFunction()
}

// Parses a comma-separated list of module exports.
func (p *Parser) parseExportSpecifiers() ([]*Node, error) {
	nodes, first := []*Node{}, true
	if err := p.expect(TOKEN_BRACEL); err != nil {
		return nil, err
	}
	for !p.eat(TOKEN_BRACER) {
		if !first {
			if err := p.expect(TOKEN_COMMA); err != nil {
				return nil, err
			}
			if p.afterTrailingComma(TOKEN_BRACER, false) {
				break
			}
		} else {
			first = false
		}

		node := p.StartNode()
		local, err := p.parseIdent(true)
		if err != nil {
			return nil, err
		}
		node.Local = local
		if p.eatContextual("as") {
			exported, err := p.parseIdent(true)
			if err != nil {
				return nil, err
			}
			node.Exported = exported
		} else {
			node.Exported = p.copyNode(local)
		}
		p.checkExport(node.Exported.Name, node.Exported.Start)
		nodes = append(nodes, p.FinishNode(node, NODE_EXPORT_SPECIFIER))
	}
	return nodes, nil
}

// Parses import declaration.
func (p *Parser) parseImport(node *Node) (*Node, error) {
	p.next()

	// import '...'
	if p.Type.identifier == TOKEN_STRING {
		node.Specifiers = []*Node{}
	} else {
		specifiers, err := p.parseImportSpecifiers()
		if err != nil {
			return nil, err
		}
		node.Specifiers = specifiers
		if err := p.expectContextual("from"); err != nil {
			return nil, err
		}
		if p.Type.identifier != TOKEN_STRING {
			return nil, p.unexpected(nil)
		}
	}
	source, err := p.ParseExprAtom(nil)
	if err != nil {
		return nil, err
	}
	node.Source = source
	if err := p.semicolon(); err != nil {
		return nil, err
	}
	return p.FinishNode(node, NODE_IMPORT_DECLARATION), nil
}

// Parses a comma-separated list of module imports.
func (p *Parser) parseImportSpecifiers() ([]*Node, error) {
	nodes, first := []*Node{}, true

	if p.Type.identifier == TOKEN_NAME {
		// import defaultObj, { x, y as z } from '...'
		node := p.StartNode()
		local, err := p.parseIdent(false)
		if err != nil {
			return nil, err
		}
		node.Local = local
		if err := p.checkLVal(local, BIND_LEXICAL, nil); err != nil {
			return nil, err
		}
		nodes = append(nodes, p.FinishNode(node, NODE_IMPORT_DEFAULT_SPECIFIER))
		if !p.eat(TOKEN_COMMA) {
			return nodes, nil
		}
	}

	if p.Type.identifier == TOKEN_STAR {
		node := p.StartNode()
		p.next()
		if err := p.expectContextual("as"); err != nil {
			return nil, err
		}
		local, err := p.parseIdent(false)
		if err != nil {
			return nil, err
		}
		node.Local = local
		if err := p.checkLVal(local, BIND_LEXICAL, nil); err != nil {
			return nil, err
		}
		return append(nodes, p.FinishNode(node, NODE_IMPORT_NAMESPACE_SPECIFIER)), nil
	}

	if err := p.expect(TOKEN_BRACEL); err != nil {
		return nil, err
	}
	for !p.eat(TOKEN_BRACER) {
		if !first {
			if err := p.expect(TOKEN_COMMA); err != nil {
				return nil, err
			}
			if p.afterTrailingComma(TOKEN_BRACER, false) {
				break
			}
		} else {
			first = false
		}

		node := p.StartNode()
		imported, err := p.parseIdent(true)
		if err != nil {
			return nil, err
		}
		node.Imported = imported
		if p.eatContextual("as") {
			local, err := p.parseIdent(false)
			if err != nil {
				return nil, err
			}
			node.Local = local
		} else {
			if err := p.checkUnreserved(imported); err != nil {
				return nil, err
			}
			node.Local = p.copyNode(imported)
		}
		if err := p.checkLVal(node.Local, BIND_LEXICAL, nil); err != nil {
			return nil, err
		}
		nodes = append(nodes, p.FinishNode(node, NODE_IMPORT_SPECIFIER))
	}
	return nodes, nil
}

// Set `ExpressionStatement#directive` property for directive prologues.
func (p *Parser) adaptDirectivePrologue(statements []*Node) {
	for i := 0; i < len(statements) && p.isDirectiveCandidate(statements[i]); i++ {
		raw := statements[i].Expression.Raw
		statements[i].Directive = raw[1 : len(raw)-1]
	}
}

func (p *Parser) isDirectiveCandidate(statement *Node) bool {
	if p.options.EcmaVersion < 5 || statement.Type != NODE_EXPRESSION_STATEMENT || statement.Expression.Type != NODE_LITERAL {
		return false
	}
	if _, ok := statement.Expression.Value.(string); !ok {
		return false
	}
	// Reject parenthesized strings.
	return p.input[statement.Start] == '"' || p.input[statement.Start] == '\''
}
