package parser

// DestructuringErrors records positions that make an expression invalid
// as a pattern, or a pattern invalid as an expression, until the parser
// knows which one it is. -1 means unset.
type DestructuringErrors struct {
	shorthandAssign     int
	trailingComma       int
	parenthesizedAssign int
	parenthesizedBind   int
}

func NewDestructuringErrors() *DestructuringErrors {
	return &DestructuringErrors{
		shorthandAssign:     -1,
		trailingComma:       -1,
		parenthesizedAssign: -1,
		parenthesizedBind:   -1,
	}
}

// Eat consumes the current token if it is token.
func (p *Parser) Eat(token Token) bool {
	return p.eat(token)
}

func (p *Parser) eat(token Token) bool {
	if p.Type.identifier == token {
		p.next()
		return true
	}
	return false
}

func (p *Parser) Expect(token Token) error {
	return p.expect(token)
}

func (p *Parser) expect(token Token) error {
	if p.eat(token) {
		return nil
	}
	return p.unexpected(nil)
}

// IsContextual tests whether the current token is the unescaped name.
func (p *Parser) IsContextual(name string) bool {
	return p.isContextual(name)
}

func (p *Parser) isContextual(name string) bool {
	if value, ok := p.Value.(string); ok {
		return p.Type.identifier == TOKEN_NAME && value == name && !p.ContainsEsc
	}
	return false
}

// EatContextual consumes the current token if it is the unescaped name.
func (p *Parser) EatContextual(name string) bool {
	return p.eatContextual(name)
}

func (p *Parser) eatContextual(name string) bool {
	if !p.isContextual(name) {
		return false
	}
	p.next()
	return true
}

func (p *Parser) ExpectContextual(name string) error {
	return p.expectContextual(name)
}

func (p *Parser) expectContextual(name string) error {
	if !p.eatContextual(name) {
		return p.unexpected(nil)
	}
	return nil
}

// CanInsertSemicolon tests whether an automatic semicolon may end the
// statement before the current token.
func (p *Parser) CanInsertSemicolon() bool {
	return p.canInsertSemicolon()
}

func (p *Parser) canInsertSemicolon() bool {
	return p.Type.identifier == TOKEN_EOF ||
		p.Type.identifier == TOKEN_BRACER ||
		p.HasPrecedingLineBreak()
}

// HasPrecedingLineBreak reports a line terminator between the previous
// token and the current one.
func (p *Parser) HasPrecedingLineBreak() bool {
	if p.LastTokEnd > p.Start {
		return false
	}
	return hasLineBreak(p.input[p.LastTokEnd:p.Start])
}

func (p *Parser) insertSemicolon() bool {
	return p.canInsertSemicolon()
}

// Consume a semicolon, or, failing that, see if we are allowed to
// pretend that there is a semicolon at this position.
func (p *Parser) semicolon() error {
	if !p.eat(TOKEN_SEMI) && !p.insertSemicolon() {
		return p.unexpected(nil)
	}
	return nil
}

func (p *Parser) afterTrailingComma(tokType Token, notNext bool) bool {
	if p.Type.identifier == tokType {
		if !notNext {
			p.next()
		}
		return true
	}
	return false
}

func (p *Parser) checkPatternErrors(refDestructuringErrors *DestructuringErrors, isAssign bool) {
	if refDestructuringErrors == nil {
		return
	}
	if refDestructuringErrors.trailingComma > -1 {
		p.raiseRecoverable(refDestructuringErrors.trailingComma, "Comma is not permitted after the rest element")
	}
	parens := refDestructuringErrors.parenthesizedBind
	if isAssign {
		parens = refDestructuringErrors.parenthesizedAssign
	}
	if parens > -1 {
		msg := "Parenthesized pattern"
		if isAssign {
			msg = "Assigning to rvalue"
		}
		p.raiseRecoverable(parens, msg)
	}
}

// checkExpressionErrors reports whether refDestructuringErrors holds a
// shorthand assignment. With andThrow it raises it instead.
func (p *Parser) checkExpressionErrors(refDestructuringErrors *DestructuringErrors, andThrow bool) (bool, error) {
	if refDestructuringErrors == nil {
		return false, nil
	}
	pos := refDestructuringErrors.shorthandAssign
	if !andThrow {
		return pos >= 0, nil
	}
	if pos > -1 {
		return true, p.raise(pos, "Shorthand property assignments are valid only in destructuring patterns")
	}
	return false, nil
}

func (p *Parser) checkYieldAwaitInDefaultParams() error {
	if p.yieldPos != 0 && (p.awaitPos == 0 || p.yieldPos < p.awaitPos) {
		return p.raise(p.yieldPos, "Yield expression cannot be a default value")
	}
	if p.awaitPos != 0 {
		return p.raise(p.awaitPos, "Await expression cannot be a default value")
	}
	return nil
}

func (p *Parser) isSimpleAssignTarget(expr *Node) bool {
	if expr.Type == NODE_PARENTHESIZED_EXPRESSION {
		return p.isSimpleAssignTarget(expr.Expression)
	}
	return expr.Type == NODE_IDENTIFIER || expr.Type == NODE_MEMBER_EXPRESSION
}

// strictDirective scans the directive prologue starting at start for a
// "use strict" directive without moving the cursor.
func (p *Parser) strictDirective(start int) bool {
	for {
		start = skipWhiteSpaceAt(p.input, start)
		if start >= len(p.input) {
			return false
		}
		quote := p.input[start]
		if quote == ';' {
			start++
			continue
		}
		if quote != '\'' && quote != '"' {
			return false
		}
		end := start + 1
		for end < len(p.input) && p.input[end] != quote {
			if p.input[end] == '\\' {
				end++
			} else if p.input[end] == '\n' || p.input[end] == '\r' {
				return false
			}
			end++
		}
		if end >= len(p.input) {
			return false
		}
		if string(p.input[start+1:end]) == "use strict" {
			return true
		}
		start = end + 1
	}
}
