package parser

import (
	"strconv"
	"strings"
)

// EXPRESSION PARSING

// PropertyHash tracks the property names an object literal has defined so
// far, to report redefinitions.
type PropertyHash struct {
	proto bool
	m     map[string]map[Kind]bool
}

// Check if property name clashes with already added.
// Object/class getters and setters may not clash with each other or
// with an init property. In strict mode init properties may not repeat.
func (this *Parser) checkPropClash(prop *Node, propHash *PropertyHash) {
	if this.options.EcmaVersion >= 9 && prop.Type == NODE_SPREAD_ELEMENT {
		return
	}
	if this.options.EcmaVersion >= 6 && (prop.Computed || prop.IsMethod || prop.Shorthand) {
		return
	}

	key := prop.Key
	var name string
	switch key.Type {
	case NODE_IDENTIFIER:
		name = key.Name
	case NODE_LITERAL:
		switch v := key.Value.(type) {
		case string:
			name = v
		case float64:
			name = strconv.FormatFloat(v, 'g', -1, 64)
		default:
			return
		}
	default:
		return
	}

	kind := prop.Kind
	if this.options.EcmaVersion >= 6 {
		if name == "__proto__" && kind == KIND_PROPERTY_INIT {
			if propHash.proto {
				this.raiseRecoverable(key.Start, "Redefinition of __proto__ property")
			}
			propHash.proto = true
		}
		return
	}

	name = "$" + name
	other, found := propHash.m[name]
	if found {
		redefinition := false
		if kind == KIND_PROPERTY_INIT {
			redefinition = this.strict && other[KIND_PROPERTY_INIT] || other[KIND_PROPERTY_GET] || other[KIND_PROPERTY_SET]
		} else {
			redefinition = other[KIND_PROPERTY_INIT] || other[kind]
		}
		if redefinition {
			this.raiseRecoverable(key.Start, "Redefinition of property")
		}
	} else {
		other = map[Kind]bool{}
		propHash.m[name] = other
	}
	other[kind] = true
}

// ### Expression parsing

// These nest, from the most general expression type at the top to
// 'atomic', nondivisible expression types at the bottom. Most of
// the functions will simply let the function(s) below them parse,
// and, *if* the syntactic construct they handle is present, wrap
// the AST node that the inner parser gave them in another node.

// Parse a full expression. The noIn argument is used to forbid the `in`
// operator (in for loops initalization expressions).
func (this *Parser) parseExpression(noIn bool, refDestructuringErrors *DestructuringErrors) (*Node, error) {
	startPos, startLoc := this.Start, this.StartLoc
	expr, err := this.parseMaybeAssign(noIn, refDestructuringErrors, nil)
	if err != nil {
		return nil, err
	}
	if this.Type.identifier == TOKEN_COMMA {
		node := this.StartNodeAt(startPos, startLoc)
		node.Expressions = []*Node{expr}
		for this.eat(TOKEN_COMMA) {
			maybeAssign, err := this.parseMaybeAssign(noIn, refDestructuringErrors, nil)
			if err != nil {
				return nil, err
			}
			node.Expressions = append(node.Expressions, maybeAssign)
		}
		return this.FinishNode(node, NODE_SEQUENCE_EXPRESSION), nil
	}
	return expr, nil
}

// Parse an assignment expression. This includes applications of
// operators like `+=`.
func (this *Parser) parseMaybeAssign(noIn bool, refDestructuringErrors *DestructuringErrors, afterLeftParse func(left *Node, startPos int, startLoc *Location) (*Node, error)) (*Node, error) {
	if this.inGenerator() && this.isContextual("yield") {
		return this.parseYield()
	}

	ownDestructuringErrors, oldParenAssign, oldTrailingComma := false, -1, -1
	if refDestructuringErrors != nil {
		oldParenAssign = refDestructuringErrors.parenthesizedAssign
		oldTrailingComma = refDestructuringErrors.trailingComma
		refDestructuringErrors.parenthesizedAssign = -1
		refDestructuringErrors.trailingComma = -1
	} else {
		refDestructuringErrors = NewDestructuringErrors()
		ownDestructuringErrors = true
	}

	startPos, startLoc := this.Start, this.StartLoc
	if this.Type.identifier == TOKEN_PARENL || this.Type.identifier == TOKEN_NAME {
		this.potentialArrowAt = this.Start
	}
	left, err := this.parseMaybeConditional(noIn, refDestructuringErrors)
	if err != nil {
		return nil, err
	}
	if afterLeftParse != nil {
		if left, err = afterLeftParse(left, startPos, startLoc); err != nil {
			return nil, err
		}
	}

	if this.Type.isAssign {
		node := this.StartNodeAt(startPos, startLoc)
		node.Operator, _ = this.Value.(string)
		if this.Type.identifier == TOKEN_EQ {
			if left, err = this.toAssignable(left, false, refDestructuringErrors); err != nil {
				return nil, err
			}
		}
		node.Left = left
		if !ownDestructuringErrors {
			*refDestructuringErrors = *NewDestructuringErrors()
		}
		refDestructuringErrors.shorthandAssign = -1 // reset because shorthand default was used correctly
		if err := this.checkLVal(left, BIND_NONE, nil); err != nil {
			return nil, err
		}
		this.next()
		right, err := this.parseMaybeAssign(noIn, nil, nil)
		if err != nil {
			return nil, err
		}
		node.Right = right
		return this.FinishNode(node, NODE_ASSIGNMENT_EXPRESSION), nil
	}
	if ownDestructuringErrors {
		if _, err := this.checkExpressionErrors(refDestructuringErrors, true); err != nil {
			return nil, err
		}
	}
	if oldParenAssign > -1 {
		refDestructuringErrors.parenthesizedAssign = oldParenAssign
	}
	if oldTrailingComma > -1 {
		refDestructuringErrors.trailingComma = oldTrailingComma
	}
	return left, nil
}

// Parse a ternary conditional (`?:`) operator.
func (this *Parser) parseMaybeConditional(noIn bool, refDestructuringErrors *DestructuringErrors) (*Node, error) {
	startPos, startLoc := this.Start, this.StartLoc
	expr, err := this.parseExprOps(noIn, refDestructuringErrors)
	if err != nil {
		return nil, err
	}
	if has, _ := this.checkExpressionErrors(refDestructuringErrors, false); has {
		return expr, nil
	}
	if this.eat(TOKEN_QUESTION) {
		node := this.StartNodeAt(startPos, startLoc)
		node.Test = expr
		consequent, err := this.parseMaybeAssign(false, nil, nil)
		if err != nil {
			return nil, err
		}
		node.Consequent = consequent
		if err := this.expect(TOKEN_COLON); err != nil {
			return nil, err
		}
		alternate, err := this.parseMaybeAssign(noIn, nil, nil)
		if err != nil {
			return nil, err
		}
		node.Alternate = alternate
		return this.FinishNode(node, NODE_CONDITIONAL_EXPRESSION), nil
	}
	return expr, nil
}

// Start the precedence parser.
func (this *Parser) parseExprOps(noIn bool, refDestructuringErrors *DestructuringErrors) (*Node, error) {
	startPos, startLoc := this.Start, this.StartLoc
	expr, err := this.parseMaybeUnary(refDestructuringErrors, false)
	if err != nil {
		return nil, err
	}
	if has, _ := this.checkExpressionErrors(refDestructuringErrors, false); has {
		return expr, nil
	}
	if expr.Start == startPos && expr.Type == NODE_ARROW_FUNCTION_EXPRESSION {
		return expr, nil
	}
	return this.parseExprOp(expr, startPos, startLoc, -1, noIn)
}

// Parse binary operators with the operator precedence parsing
// algorithm. `left` is the left-hand side of the operator.
// `minPrec` provides context that allows the function to stop and
// defer further parser to one of its callers when it encounters an
// operator that has a lower precedence than the set it is parsing.
func (this *Parser) parseExprOp(left *Node, leftStartPos int, leftStartLoc *Location, minPrec int, noIn bool) (*Node, error) {
	prec := this.Type.binop
	if prec == 0 || noIn && this.Type.identifier == TOKEN_IN || prec <= minPrec {
		return left, nil
	}

	logical := this.Type.identifier == TOKEN_LOGICALOR || this.Type.identifier == TOKEN_LOGICALAND
	op, _ := this.Value.(string)
	this.next()
	startPos, startLoc := this.Start, this.StartLoc
	unary, err := this.parseMaybeUnary(nil, false)
	if err != nil {
		return nil, err
	}
	right, err := this.parseExprOp(unary, startPos, startLoc, prec, noIn)
	if err != nil {
		return nil, err
	}
	node := this.buildBinary(leftStartPos, leftStartLoc, left, right, op, logical)
	return this.parseExprOp(node, leftStartPos, leftStartLoc, minPrec, noIn)
}

func (this *Parser) buildBinary(startPos int, startLoc *Location, left *Node, right *Node, op string, logical bool) *Node {
	node := this.StartNodeAt(startPos, startLoc)
	node.Left = left
	node.Operator = op
	node.Right = right
	if logical {
		return this.FinishNode(node, NODE_LOGICAL_EXPRESSION)
	}
	return this.FinishNode(node, NODE_BINARY_EXPRESSION)
}

// Parse unary operators, both prefix and postfix.
func (this *Parser) parseMaybeUnary(refDestructuringErrors *DestructuringErrors, sawUnary bool) (*Node, error) {
	startPos, startLoc := this.Start, this.StartLoc
	var expr *Node

	if this.inAsync() && this.isContextual("await") {
		await, err := this.parseAwait()
		if err != nil {
			return nil, err
		}
		expr = await
		sawUnary = true
	} else if this.Type.prefix {
		node, update := this.StartNode(), this.Type.identifier == TOKEN_INCDEC
		node.Operator, _ = this.Value.(string)
		node.Prefix = true
		this.next()
		argument, err := this.parseMaybeUnary(nil, true)
		if err != nil {
			return nil, err
		}
		node.Argument = argument
		if _, err := this.checkExpressionErrors(refDestructuringErrors, true); err != nil {
			return nil, err
		}
		if update {
			if err := this.checkLVal(argument, BIND_NONE, nil); err != nil {
				return nil, err
			}
		} else if this.strict && node.Operator == "delete" && argument.Type == NODE_IDENTIFIER {
			this.raiseRecoverable(node.Start, "Deleting local variable in strict mode")
		} else {
			sawUnary = true
		}
		if update {
			expr = this.FinishNode(node, NODE_UPDATE_EXPRESSION)
		} else {
			expr = this.FinishNode(node, NODE_UNARY_EXPRESSION)
		}
	} else {
		subscripts, err := this.parseExprSubscripts(refDestructuringErrors)
		if err != nil {
			return nil, err
		}
		expr = subscripts
		if has, _ := this.checkExpressionErrors(refDestructuringErrors, false); has {
			return expr, nil
		}
		for this.Type.postfix && !this.canInsertSemicolon() {
			node := this.StartNodeAt(startPos, startLoc)
			node.Operator, _ = this.Value.(string)
			node.Prefix = false
			node.Argument = expr
			if err := this.checkLVal(expr, BIND_NONE, nil); err != nil {
				return nil, err
			}
			this.next()
			expr = this.FinishNode(node, NODE_UPDATE_EXPRESSION)
		}
	}

	if !sawUnary && this.eat(TOKEN_STARSTAR) {
		right, err := this.parseMaybeUnary(nil, false)
		if err != nil {
			return nil, err
		}
		return this.buildBinary(startPos, startLoc, expr, right, "**", false), nil
	}
	return expr, nil
}

// Parse call, dot, and `[]`-subscript expressions.
func (this *Parser) parseExprSubscripts(refDestructuringErrors *DestructuringErrors) (*Node, error) {
	startPos, startLoc := this.Start, this.StartLoc
	expr, err := this.ParseExprAtom(refDestructuringErrors)
	if err != nil {
		return nil, err
	}
	skipArrowSubscripts := expr.Type == NODE_ARROW_FUNCTION_EXPRESSION &&
		string(this.input[this.LastTokStart:this.LastTokEnd]) != ")"
	if has, _ := this.checkExpressionErrors(refDestructuringErrors, false); has || skipArrowSubscripts {
		return expr, nil
	}
	result, err := this.parseSubscripts(expr, startPos, startLoc, false)
	if err != nil {
		return nil, err
	}
	if refDestructuringErrors != nil && result.Type == NODE_MEMBER_EXPRESSION {
		if refDestructuringErrors.parenthesizedAssign >= result.Start {
			refDestructuringErrors.parenthesizedAssign = -1
		}
		if refDestructuringErrors.parenthesizedBind >= result.Start {
			refDestructuringErrors.parenthesizedBind = -1
		}
	}
	return result, nil
}

func (this *Parser) parseSubscripts(base *Node, startPos int, startLoc *Location, noCalls bool) (*Node, error) {
	maybeAsyncArrow := this.options.EcmaVersion >= 8 && base.Type == NODE_IDENTIFIER && base.Name == "async" &&
		this.LastTokEnd == base.End && !this.canInsertSemicolon() &&
		string(this.input[base.Start:base.End]) == "async"

	for {
		computed := this.eat(TOKEN_BRACKETL)
		if computed || this.eat(TOKEN_DOT) {
			node := this.StartNodeAt(startPos, startLoc)
			node.Object = base
			var (
				property *Node
				err      error
			)
			if computed {
				property, err = this.parseExpression(false, nil)
			} else {
				property, err = this.parseIdent(true)
			}
			if err != nil {
				return nil, err
			}
			node.Property = property
			node.Computed = computed
			if computed {
				if err := this.expect(TOKEN_BRACKETR); err != nil {
					return nil, err
				}
			}
			base = this.FinishNode(node, NODE_MEMBER_EXPRESSION)
		} else if !noCalls && this.eat(TOKEN_PARENL) {
			refDestructuringErrors := NewDestructuringErrors()
			oldYieldPos, oldAwaitPos := this.yieldPos, this.awaitPos
			this.yieldPos = 0
			this.awaitPos = 0
			exprList, err := this.parseExprList(TOKEN_PARENR, this.options.EcmaVersion >= 8, false, refDestructuringErrors)
			if err != nil {
				return nil, err
			}
			if maybeAsyncArrow && !this.canInsertSemicolon() && this.eat(TOKEN_ARROW) {
				this.checkPatternErrors(refDestructuringErrors, false)
				if err := this.checkYieldAwaitInDefaultParams(); err != nil {
					return nil, err
				}
				this.yieldPos = oldYieldPos
				this.awaitPos = oldAwaitPos
				return this.ParseArrowExpression(this.StartNodeAt(startPos, startLoc), exprList, true)
			}
			if _, err := this.checkExpressionErrors(refDestructuringErrors, true); err != nil {
				return nil, err
			}
			if oldYieldPos != 0 {
				this.yieldPos = oldYieldPos
			}
			if oldAwaitPos != 0 {
				this.awaitPos = oldAwaitPos
			}
			node := this.StartNodeAt(startPos, startLoc)
			node.Callee = base
			node.Arguments = exprList
			base = this.FinishNode(node, NODE_CALL_EXPRESSION)
		} else if this.Type.identifier == TOKEN_BACKQUOTE {
			node := this.StartNodeAt(startPos, startLoc)
			node.Tag = base
			quasi, err := this.parseTemplate(true)
			if err != nil {
				return nil, err
			}
			node.Quasi = quasi
			base = this.FinishNode(node, NODE_TAGGED_TEMPLATE_EXPRESSION)
		} else {
			return base, nil
		}
	}
}

// Parse an atomic expression: a single token that is an expression,
// or an expression started by a keyword or wrapped in punctuation.
func (this *Parser) parseExprAtom(refDestructuringErrors *DestructuringErrors) (*Node, error) {
	canBeArrow := this.potentialArrowAt == this.Start

	switch this.Type.identifier {
	case TOKEN_SUPER:
		if !this.inFunction() {
			return nil, this.raise(this.Start, "'super' outside of function or class")
		}
		node := this.StartNode()
		this.next()
		// The `super` keyword can appear at below:
		// SuperProperty:
		//     super [ Expression ]
		//     super . IdentifierName
		// SuperCall:
		//     super Arguments
		if this.Type.identifier != TOKEN_DOT && this.Type.identifier != TOKEN_BRACKETL && this.Type.identifier != TOKEN_PARENL {
			return nil, this.unexpected(nil)
		}
		return this.FinishNode(node, NODE_SUPER), nil

	case TOKEN_THIS:
		node := this.StartNode()
		this.next()
		return this.FinishNode(node, NODE_THIS_EXPRESSION), nil

	case TOKEN_NAME:
		startPos, startLoc := this.Start, this.StartLoc
		containsEsc := this.ContainsEsc
		id, err := this.parseIdent(false)
		if err != nil {
			return nil, err
		}
		isAsyncWord := this.options.EcmaVersion >= 8 && id.Name == "async" && !containsEsc
		if isAsyncWord && !this.canInsertSemicolon() && this.eat(TOKEN_FUNCTION) {
			return this.ParseFunction(this.StartNodeAt(startPos, startLoc), 0, false, true)
		}
		if canBeArrow && !this.canInsertSemicolon() {
			if this.eat(TOKEN_ARROW) {
				return this.ParseArrowExpression(this.StartNodeAt(startPos, startLoc), []*Node{id}, false)
			}
			if isAsyncWord && this.Type.identifier == TOKEN_NAME {
				param, err := this.parseIdent(false)
				if err != nil {
					return nil, err
				}
				if this.canInsertSemicolon() || !this.eat(TOKEN_ARROW) {
					return nil, this.unexpected(nil)
				}
				return this.ParseArrowExpression(this.StartNodeAt(startPos, startLoc), []*Node{param}, true)
			}
		}
		return id, nil

	case TOKEN_NUM, TOKEN_STRING:
		return this.parseLiteral(this.Value)

	case TOKEN_SLASH, TOKEN_ASSIGN:
		if !this.atSlash() {
			break
		}
		// The tokenizer read division; in expression position it starts a regexp.
		node := this.StartNode()
		this.readRegexp()
		if this.lexErr != nil {
			return nil, this.lexErr
		}
		node.Regex = this.Value.(*RegExpValue)
		node.Raw = string(this.input[this.Start:this.End])
		this.next()
		return this.FinishNode(node, NODE_LITERAL), nil

	case TOKEN_BACKQUOTE:
		return this.parseTemplate(false)

	case TOKEN_NULL, TOKEN_TRUE, TOKEN_FALSE:
		node := this.StartNode()
		switch this.Type.identifier {
		case TOKEN_NULL:
			node.Value = nil
		case TOKEN_TRUE:
			node.Value = true
		default:
			node.Value = false
		}
		node.Raw = this.Type.keyword
		this.next()
		return this.FinishNode(node, NODE_LITERAL), nil

	case TOKEN_PARENL:
		start := this.Start
		expr, err := this.parseParenAndDistinguishExpression(canBeArrow)
		if err != nil {
			return nil, err
		}
		if refDestructuringErrors != nil {
			if refDestructuringErrors.parenthesizedAssign < 0 && !this.isSimpleAssignTarget(expr) {
				refDestructuringErrors.parenthesizedAssign = start
			}
			if refDestructuringErrors.parenthesizedBind < 0 {
				refDestructuringErrors.parenthesizedBind = start
			}
		}
		return expr, nil

	case TOKEN_BRACKETL:
		node := this.StartNode()
		this.next()
		elements, err := this.parseExprList(TOKEN_BRACKETR, true, true, refDestructuringErrors)
		if err != nil {
			return nil, err
		}
		node.Elements = elements
		return this.FinishNode(node, NODE_ARRAY_EXPRESSION), nil

	case TOKEN_BRACEL:
		return this.parseObj(false, refDestructuringErrors)

	case TOKEN_FUNCTION:
		node := this.StartNode()
		this.next()
		return this.ParseFunction(node, 0, false, false)

	case TOKEN_CLASS:
		return this.parseClass(this.StartNode(), false, false)

	case TOKEN_NEW:
		return this.parseNew()
	}
	return nil, this.unexpected(nil)
}

func (this *Parser) parseLiteral(value any) (*Node, error) {
	node := this.StartNode()
	node.Value = value
	node.Raw = string(this.input[this.Start:this.End])
	this.next()
	return this.FinishNode(node, NODE_LITERAL), nil
}

func (this *Parser) atSlash() bool {
	return this.Type.identifier == TOKEN_SLASH || this.Type.identifier == TOKEN_ASSIGN && this.Value == "/="
}

// parseTemplate parses a template literal. The current token is its
// opening backquote.
func (this *Parser) parseTemplate(isTagged bool) (*Node, error) {
	node := this.StartNode()
	this.readTemplateToken()
	element, err := this.parseTemplateElement(isTagged)
	if err != nil {
		return nil, err
	}
	node.Quasis = []*Node{element}
	for !element.Tail {
		expr, err := this.parseExpression(false, nil)
		if err != nil {
			return nil, err
		}
		node.Expressions = append(node.Expressions, expr)
		if this.Type.identifier != TOKEN_BRACER {
			return nil, this.unexpected(nil)
		}
		this.readTemplateToken()
		if element, err = this.parseTemplateElement(isTagged); err != nil {
			return nil, err
		}
		node.Quasis = append(node.Quasis, element)
	}
	// The closing backquote is the last consumed token.
	end := element.End + 1
	this.LastTokStart, this.LastTokEnd = element.End, end
	this.LastTokStartLoc, this.LastTokEndLoc = this.locationAt(element.End), this.locationAt(end)
	return this.FinishNode(node, NODE_TEMPLATE_LITERAL), nil
}

func (this *Parser) parseTemplateElement(isTagged bool) (*Node, error) {
	if this.Type.identifier != TOKEN_TEMPLATE {
		if this.lexErr != nil {
			return nil, this.lexErr
		}
		return nil, this.unexpected(nil)
	}
	elem := this.StartNode()
	if this.Value == nil && !isTagged {
		this.raiseRecoverable(this.Start, "Bad escape sequence in untagged template literal")
	}
	raw := string(this.input[this.Start:this.End])
	elem.Raw = strings.ReplaceAll(strings.ReplaceAll(raw, "\r\n", "\n"), "\r", "\n")
	elem.Value = this.Value
	elem.Tail = this.templateTail
	this.next()
	return this.FinishNode(elem, NODE_TEMPLATE_ELEMENT), nil
}

func (this *Parser) parseParenExpression() (*Node, error) {
	if err := this.expect(TOKEN_PARENL); err != nil {
		return nil, err
	}
	val, err := this.parseExpression(false, nil)
	if err != nil {
		return nil, err
	}
	if err := this.expect(TOKEN_PARENR); err != nil {
		return nil, err
	}
	return val, nil
}

func (this *Parser) parseParenAndDistinguishExpression(canBeArrow bool) (*Node, error) {
	startPos, startLoc := this.Start, this.StartLoc
	allowTrailingComma := this.options.EcmaVersion >= 8
	var val *Node

	if this.options.EcmaVersion < 6 {
		expr, err := this.parseParenExpression()
		if err != nil {
			return nil, err
		}
		val = expr
	} else {
		this.next()

		innerStartPos, innerStartLoc := this.Start, this.StartLoc
		exprList, first, lastIsComma := []*Node{}, true, false
		refDestructuringErrors := NewDestructuringErrors()
		oldYieldPos, oldAwaitPos := this.yieldPos, this.awaitPos
		spreadStart := -1
		this.yieldPos = 0
		this.awaitPos = 0

		for this.Type.identifier != TOKEN_PARENR {
			if first {
				first = false
			} else if err := this.expect(TOKEN_COMMA); err != nil {
				return nil, err
			}
			if allowTrailingComma && this.afterTrailingComma(TOKEN_PARENR, true) {
				lastIsComma = true
				break
			} else if this.Type.identifier == TOKEN_ELLIPSIS {
				spreadStart = this.Start
				rest, err := this.parseRestBinding()
				if err != nil {
					return nil, err
				}
				exprList = append(exprList, rest)
				if this.Type.identifier == TOKEN_COMMA {
					return nil, this.raise(this.Start, "Comma is not permitted after the rest element")
				}
				break
			} else {
				item, err := this.parseMaybeAssign(false, refDestructuringErrors, nil)
				if err != nil {
					return nil, err
				}
				exprList = append(exprList, item)
			}
		}
		innerEndPos, innerEndLoc := this.Start, this.StartLoc
		if err := this.expect(TOKEN_PARENR); err != nil {
			return nil, err
		}

		if canBeArrow && !this.canInsertSemicolon() && this.eat(TOKEN_ARROW) {
			this.checkPatternErrors(refDestructuringErrors, false)
			if err := this.checkYieldAwaitInDefaultParams(); err != nil {
				return nil, err
			}
			this.yieldPos = oldYieldPos
			this.awaitPos = oldAwaitPos
			return this.ParseArrowExpression(this.StartNodeAt(startPos, startLoc), exprList, false)
		}

		if len(exprList) == 0 || lastIsComma {
			return nil, this.unexpected(&this.LastTokStart)
		}
		if spreadStart >= 0 {
			return nil, this.unexpected(&spreadStart)
		}
		if _, err := this.checkExpressionErrors(refDestructuringErrors, true); err != nil {
			return nil, err
		}
		if oldYieldPos != 0 {
			this.yieldPos = oldYieldPos
		}
		if oldAwaitPos != 0 {
			this.awaitPos = oldAwaitPos
		}

		if len(exprList) > 1 {
			val = this.StartNodeAt(innerStartPos, innerStartLoc)
			val.Expressions = exprList
			this.FinishNodeAt(val, NODE_SEQUENCE_EXPRESSION, innerEndPos, innerEndLoc)
		} else {
			val = exprList[0]
		}
	}

	if this.options.PreserveParens {
		par := this.StartNodeAt(startPos, startLoc)
		par.Expression = val
		return this.FinishNode(par, NODE_PARENTHESIZED_EXPRESSION), nil
	}
	return val, nil
}

// New's precedence is slightly tricky. It must allow its argument to
// be a `[]` or dot subscript expression, but not a call unless it is
// wrapped in parentheses. Thus, it uses the noCalls
// argument to parseSubscripts to prevent it from consuming the
// argument list.
func (this *Parser) parseNew() (*Node, error) {
	node := this.StartNode()
	meta, err := this.parseIdent(true)
	if err != nil {
		return nil, err
	}
	if this.options.EcmaVersion >= 6 && this.eat(TOKEN_DOT) {
		node.Meta = meta
		property, err := this.parseIdent(true)
		if err != nil {
			return nil, err
		}
		node.Property = property
		if property.Name != "target" {
			this.raiseRecoverable(property.Start, "The only valid meta property for new is new.target")
		}
		if len(this.scopeStack) == 0 || this.currentThisScope().Flags&SCOPE_FUNCTION == 0 {
			this.raiseRecoverable(node.Start, "new.target can only be used in functions")
		}
		return this.FinishNode(node, NODE_META_PROPERTY), nil
	}

	startPos, startLoc := this.Start, this.StartLoc
	atom, err := this.ParseExprAtom(nil)
	if err != nil {
		return nil, err
	}
	callee, err := this.parseSubscripts(atom, startPos, startLoc, true)
	if err != nil {
		return nil, err
	}
	node.Callee = callee
	if this.eat(TOKEN_PARENL) {
		arguments, err := this.parseExprList(TOKEN_PARENR, this.options.EcmaVersion >= 8, false, nil)
		if err != nil {
			return nil, err
		}
		node.Arguments = arguments
	} else {
		node.Arguments = []*Node{}
	}
	return this.FinishNode(node, NODE_NEW_EXPRESSION), nil
}

// Parse an object literal or binding pattern.
func (this *Parser) parseObj(isPattern bool, refDestructuringErrors *DestructuringErrors) (*Node, error) {
	node, first := this.StartNode(), true
	propHash := &PropertyHash{m: map[string]map[Kind]bool{}}
	node.Properties = []*Node{}
	this.next()
	for !this.eat(TOKEN_BRACER) {
		if !first {
			if err := this.expect(TOKEN_COMMA); err != nil {
				return nil, err
			}
			if this.afterTrailingComma(TOKEN_BRACER, false) {
				break
			}
		} else {
			first = false
		}

		prop, err := this.ParseProperty(isPattern, refDestructuringErrors)
		if err != nil {
			return nil, err
		}
		if !isPattern {
			this.checkPropClash(prop, propHash)
		}
		node.Properties = append(node.Properties, prop)
	}
	if isPattern {
		return this.FinishNode(node, NODE_OBJECT_PATTERN), nil
	}
	return this.FinishNode(node, NODE_OBJECT_EXPRESSION), nil
}

func (this *Parser) parseProperty(isPattern bool, refDestructuringErrors *DestructuringErrors) (*Node, error) {
	prop := this.StartNode()

	if this.options.EcmaVersion >= 9 && this.eat(TOKEN_ELLIPSIS) {
		if isPattern {
			argument, err := this.parseIdent(false)
			if err != nil {
				return nil, err
			}
			prop.Argument = argument
			if this.Type.identifier == TOKEN_COMMA {
				return nil, this.raise(this.Start, "Comma is not permitted after the rest element")
			}
			return this.FinishNode(prop, NODE_REST_ELEMENT), nil
		}
		// To disallow parenthesized identifier via `toAssignable`.
		if this.Type.identifier == TOKEN_PARENL && refDestructuringErrors != nil {
			if refDestructuringErrors.parenthesizedAssign < 0 {
				refDestructuringErrors.parenthesizedAssign = this.Start
			}
			if refDestructuringErrors.parenthesizedBind < 0 {
				refDestructuringErrors.parenthesizedBind = this.Start
			}
		}
		argument, err := this.parseMaybeAssign(false, refDestructuringErrors, nil)
		if err != nil {
			return nil, err
		}
		prop.Argument = argument
		// To disallow trailing comma via `toAssignable`.
		if this.Type.identifier == TOKEN_COMMA && refDestructuringErrors != nil && refDestructuringErrors.trailingComma < 0 {
			refDestructuringErrors.trailingComma = this.Start
		}
		return this.FinishNode(prop, NODE_SPREAD_ELEMENT), nil
	}

	isGenerator, isAsync := false, false
	startPos, startLoc := -1, (*Location)(nil)
	if this.options.EcmaVersion >= 6 {
		prop.IsMethod = false
		prop.Shorthand = false
		if isPattern || refDestructuringErrors != nil {
			startPos, startLoc = this.Start, this.StartLoc
		}
		if !isPattern {
			isGenerator = this.eat(TOKEN_STAR)
		}
	}
	containsEsc := this.ContainsEsc
	if _, err := this.ParsePropertyName(prop, nil); err != nil {
		return nil, err
	}
	if !isPattern && !containsEsc && this.options.EcmaVersion >= 8 && !isGenerator && this.IsAsyncProp(prop) {
		isAsync = true
		if _, err := this.ParsePropertyName(prop, refDestructuringErrors); err != nil {
			return nil, err
		}
	}
	if err := this.ParsePropertyValue(prop, isPattern, isGenerator, isAsync, startPos, startLoc, refDestructuringErrors, containsEsc); err != nil {
		return nil, err
	}
	return this.FinishNode(prop, NODE_PROPERTY), nil
}

// isAsyncProp decides whether an `async` key parsed so far is really the
// async modifier of a method.
func (this *Parser) isAsyncProp(prop *Node) bool {
	if prop.Computed || prop.Key.Type != NODE_IDENTIFIER || prop.Key.Name != "async" {
		return false
	}
	switch this.Type.identifier {
	case TOKEN_NAME, TOKEN_NUM, TOKEN_STRING, TOKEN_BRACKETL:
	default:
		if this.Type.keyword == "" {
			return false
		}
	}
	return !this.HasPrecedingLineBreak()
}

// ParsePropertyValue parses what follows a property key: a value after
// `:`, a method, an accessor, or a shorthand. containsEsc tells whether
// the key was spelled with an escape, which rules out get/set.
func (this *Parser) ParsePropertyValue(prop *Node, isPattern bool, isGenerator bool, isAsync bool, startPos int, startLoc *Location, refDestructuringErrors *DestructuringErrors, containsEsc bool) error {
	if (isGenerator || isAsync) && this.Type.identifier == TOKEN_COLON {
		return this.unexpected(nil)
	}

	if this.eat(TOKEN_COLON) {
		var (
			value *Node
			err   error
		)
		if isPattern {
			value, err = this.parseMaybeDefault(this.Start, this.StartLoc, nil)
		} else {
			value, err = this.parseMaybeAssign(false, refDestructuringErrors, nil)
		}
		if err != nil {
			return err
		}
		prop.Value = value
		prop.Kind = KIND_PROPERTY_INIT
		return nil
	}

	if this.options.EcmaVersion >= 6 && this.Type.identifier == TOKEN_PARENL {
		if isPattern {
			return this.unexpected(nil)
		}
		prop.Kind = KIND_PROPERTY_INIT
		prop.IsMethod = true
		value, err := this.ParseMethod(isGenerator, isAsync)
		if err != nil {
			return err
		}
		prop.Value = value
		return nil
	}

	if !isPattern && !containsEsc && this.options.EcmaVersion >= 5 && !prop.Computed &&
		prop.Key.Type == NODE_IDENTIFIER && (prop.Key.Name == "get" || prop.Key.Name == "set") &&
		this.Type.identifier != TOKEN_COMMA && this.Type.identifier != TOKEN_BRACER {
		if isGenerator || isAsync {
			return this.unexpected(nil)
		}
		prop.Kind = KIND_PROPERTY_GET
		if prop.Key.Name == "set" {
			prop.Kind = KIND_PROPERTY_SET
		}
		if _, err := this.ParsePropertyName(prop, nil); err != nil {
			return err
		}
		value, err := this.ParseMethod(false, false)
		if err != nil {
			return err
		}
		prop.Value = value
		this.CheckAccessorParams(prop.Kind, value)
		return nil
	}

	if this.options.EcmaVersion >= 6 && !prop.Computed && prop.Key.Type == NODE_IDENTIFIER {
		if err := this.checkUnreserved(prop.Key); err != nil {
			return err
		}
		prop.Kind = KIND_PROPERTY_INIT
		if isPattern {
			value, err := this.parseMaybeDefault(startPos, startLoc, this.copyNode(prop.Key))
			if err != nil {
				return err
			}
			prop.Value = value
		} else if this.Type.identifier == TOKEN_EQ && refDestructuringErrors != nil {
			if refDestructuringErrors.shorthandAssign < 0 {
				refDestructuringErrors.shorthandAssign = this.Start
			}
			value, err := this.parseMaybeDefault(startPos, startLoc, this.copyNode(prop.Key))
			if err != nil {
				return err
			}
			prop.Value = value
		} else {
			prop.Value = this.copyNode(prop.Key)
		}
		prop.Shorthand = true
		return nil
	}
	return this.unexpected(nil)
}

// ParsePropertyName parses a property key into prop, computed or not,
// and returns it.
func (this *Parser) ParsePropertyName(prop *Node, refDestructuringErrors *DestructuringErrors) (*Node, error) {
	if this.options.EcmaVersion >= 6 {
		if this.eat(TOKEN_BRACKETL) {
			prop.Computed = true
			key, err := this.parseMaybeAssign(false, nil, nil)
			if err != nil {
				return nil, err
			}
			prop.Key = key
			if err := this.expect(TOKEN_BRACKETR); err != nil {
				return nil, err
			}
			return prop.Key, nil
		}
		prop.Computed = false
	}

	var (
		key *Node
		err error
	)
	if this.Type.identifier == TOKEN_NUM || this.Type.identifier == TOKEN_STRING {
		key, err = this.ParseExprAtom(nil)
	} else {
		key, err = this.parseIdent(true)
	}
	if err != nil {
		return nil, err
	}
	prop.Key = key
	return key, nil
}

// Initialize empty function node.
func (this *Parser) initFunction(node *Node) {
	node.Id = nil
	if this.options.EcmaVersion >= 6 {
		node.IsGenerator = false
		node.IsExpression = false
	}
	if this.options.EcmaVersion >= 8 {
		node.IsAsync = false
	}
}

// Parse object or class method.
func (this *Parser) parseMethod(isGenerator bool, isAsync bool) (*Node, error) {
	node := this.StartNode()
	oldYieldPos, oldAwaitPos := this.yieldPos, this.awaitPos

	this.InitFunction(node)
	if this.options.EcmaVersion >= 6 {
		node.IsGenerator = isGenerator
	}
	if this.options.EcmaVersion >= 8 {
		node.IsAsync = isAsync
	}

	this.yieldPos = 0
	this.awaitPos = 0
	this.enterScope(functionFlags(isAsync, node.IsGenerator))

	if err := this.expect(TOKEN_PARENL); err != nil {
		return nil, err
	}
	params, err := this.parseBindingList(TOKEN_PARENR, false, this.options.EcmaVersion >= 8)
	if err != nil {
		return nil, err
	}
	node.Params = params
	if err := this.checkYieldAwaitInDefaultParams(); err != nil {
		return nil, err
	}
	if err := this.parseFunctionBody(node, false); err != nil {
		return nil, err
	}

	this.yieldPos = oldYieldPos
	this.awaitPos = oldAwaitPos
	return this.FinishNode(node, NODE_FUNCTION_EXPRESSION), nil
}

// Parse arrow function expression with given parameters.
func (this *Parser) parseArrowExpression(node *Node, params []*Node, isAsync bool) (*Node, error) {
	oldYieldPos, oldAwaitPos := this.yieldPos, this.awaitPos

	this.enterScope(functionFlags(isAsync, false) | SCOPE_ARROW)
	this.InitFunction(node)
	if this.options.EcmaVersion >= 8 {
		node.IsAsync = isAsync
	}

	this.yieldPos = 0
	this.awaitPos = 0

	assignable, err := this.toAssignableList(params, true)
	if err != nil {
		return nil, err
	}
	node.Params = assignable
	if err := this.parseFunctionBody(node, true); err != nil {
		return nil, err
	}

	this.yieldPos = oldYieldPos
	this.awaitPos = oldAwaitPos
	return this.FinishNode(node, NODE_ARROW_FUNCTION_EXPRESSION), nil
}

// Parse function body and check parameters.
func (this *Parser) parseFunctionBody(node *Node, isArrowFunction bool) error {
	isExpression := isArrowFunction && this.Type.identifier != TOKEN_BRACEL
	oldStrict, useStrict := this.strict, false

	if isExpression {
		body, err := this.parseMaybeAssign(false, nil, nil)
		if err != nil {
			return err
		}
		node.BodyNode = body
		node.IsExpression = true
		if err := this.checkParams(node, false); err != nil {
			return err
		}
	} else {
		nonSimple := this.options.EcmaVersion >= 7 && !this.isSimpleParamList(node.Params)
		if !oldStrict || nonSimple {
			useStrict = this.strictDirective(this.End)
			// If this is a strict mode function, verify that argument names
			// are not repeated, and it does not try to bind the words `eval`
			// or `arguments`.
			if useStrict && nonSimple {
				this.raiseRecoverable(node.Start, "Illegal 'use strict' directive in function with non-simple parameter list")
			}
		}
		// Start a new scope with regard to labels
		oldLabels := this.labels
		this.labels = []Label{}
		if useStrict {
			this.strict = true
		}

		// Add the params to varDeclaredNames to ensure that an error is thrown
		// if a let/const declaration in the function clashes with one of the params.
		allowDuplicates := !oldStrict && !useStrict && !isArrowFunction && this.isSimpleParamList(node.Params)
		if err := this.checkParams(node, allowDuplicates); err != nil {
			return err
		}
		body, err := this.parseBlock(false, nil)
		if err != nil {
			return err
		}
		node.BodyNode = body
		node.IsExpression = false
		this.adaptDirectivePrologue(body.Body)
		this.labels = oldLabels
	}
	this.exitScope()

	// Ensure the function name isn't a forbidden identifier in strict mode, e.g. 'eval'
	if this.strict && node.Id != nil {
		if err := this.checkLVal(node.Id, BIND_OUTSIDE, nil); err != nil {
			return err
		}
	}
	this.strict = oldStrict
	return nil
}

func (this *Parser) isSimpleParamList(params []*Node) bool {
	for _, param := range params {
		if param.Type != NODE_IDENTIFIER {
			return false
		}
	}
	return true
}

// Checks function params for various disallowed patterns such as using "eval"
// or "arguments" and duplicate parameters.
func (this *Parser) checkParams(node *Node, allowDuplicates bool) error {
	var nameHash map[string]bool
	if !allowDuplicates {
		nameHash = map[string]bool{}
	}
	for _, param := range node.Params {
		if err := this.checkLVal(param, BIND_VAR, nameHash); err != nil {
			return err
		}
	}
	return nil
}

// Parses a comma-separated list of expressions, and returns them as
// an array. `close` is the token type that ends the list, and
// `allowEmpty` can be turned on to allow subsequent commas with
// nothing in between them to be parsed as `null` (which is needed
// for array literals).
func (this *Parser) parseExprList(close Token, allowTrailingComma bool, allowEmpty bool, refDestructuringErrors *DestructuringErrors) ([]*Node, error) {
	elts, first := []*Node{}, true
	for !this.eat(close) {
		if !first {
			if err := this.expect(TOKEN_COMMA); err != nil {
				return nil, err
			}
			if allowTrailingComma && this.afterTrailingComma(close, false) {
				break
			}
		} else {
			first = false
		}

		var elt *Node
		if allowEmpty && this.Type.identifier == TOKEN_COMMA {
			elt = nil
		} else if this.Type.identifier == TOKEN_ELLIPSIS {
			spread, err := this.parseSpread(refDestructuringErrors)
			if err != nil {
				return nil, err
			}
			elt = spread
			if refDestructuringErrors != nil && this.Type.identifier == TOKEN_COMMA && refDestructuringErrors.trailingComma < 0 {
				refDestructuringErrors.trailingComma = this.Start
			}
		} else {
			item, err := this.parseMaybeAssign(false, refDestructuringErrors, nil)
			if err != nil {
				return nil, err
			}
			elt = item
		}
		elts = append(elts, elt)
	}
	return elts, nil
}

func (this *Parser) checkUnreserved(ident *Node) error {
	start, end, name := ident.Start, ident.End, ident.Name
	if this.inGenerator() && name == "yield" {
		this.raiseRecoverable(start, "Can not use 'yield' as identifier inside a generator")
	}
	if this.inAsync() && name == "await" {
		this.raiseRecoverable(start, "Can not use 'await' as identifier inside an async function")
	}
	if this.isKeyword(name) {
		return this.raise(start, "Unexpected keyword '"+name+"'")
	}
	if this.options.EcmaVersion < 6 {
		for _, c := range this.input[start:end] {
			if c == '\\' {
				return nil
			}
		}
	}
	reserved := this.reservedWords
	if this.strict {
		reserved = this.reservedWordsStrict
	}
	if reserved[name] {
		this.raiseRecoverable(start, "The keyword '"+name+"' is reserved")
	}
	return nil
}

// Parse the next token as an identifier. If `liberal` is true (used
// when parsing properties), it will also convert keywords into
// identifiers.
func (this *Parser) parseIdent(liberal bool) (*Node, error) {
	node := this.StartNode()
	if liberal && this.options.AllowReserved == ALLOW_RESERVED_NEVER {
		liberal = false
	}
	if this.Type.identifier == TOKEN_NAME {
		node.Name, _ = this.Value.(string)
	} else if this.Type.keyword != "" {
		node.Name = this.Type.keyword
	} else {
		return nil, this.unexpected(nil)
	}
	this.next()
	this.FinishNode(node, NODE_IDENTIFIER)
	if !liberal {
		if err := this.checkUnreserved(node); err != nil {
			return nil, err
		}
	}
	return node, nil
}

// Parses yield expression inside generator.
func (this *Parser) parseYield() (*Node, error) {
	if this.yieldPos == 0 {
		this.yieldPos = this.Start
	}

	node := this.StartNode()
	this.next()
	if this.Type.identifier == TOKEN_SEMI || this.canInsertSemicolon() ||
		this.Type.identifier != TOKEN_STAR && !this.Type.startsExpr && !this.atSlash() {
		node.Delegate = false
		node.Argument = nil
	} else {
		node.Delegate = this.eat(TOKEN_STAR)
		argument, err := this.parseMaybeAssign(false, nil, nil)
		if err != nil {
			return nil, err
		}
		node.Argument = argument
	}
	return this.FinishNode(node, NODE_YIELD_EXPRESSION), nil
}

func (this *Parser) parseAwait() (*Node, error) {
	if this.awaitPos == 0 {
		this.awaitPos = this.Start
	}

	node := this.StartNode()
	this.next()
	argument, err := this.parseMaybeUnary(nil, true)
	if err != nil {
		return nil, err
	}
	node.Argument = argument
	return this.FinishNode(node, NODE_AWAIT_EXPRESSION), nil
}
