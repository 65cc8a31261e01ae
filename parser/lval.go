package parser

// Convert existing expression atom to assignable pattern
// if possible.
func (this *Parser) toAssignable(node *Node, isBinding bool, refDestructuringErrors *DestructuringErrors) (*Node, error) {
	if this.options.EcmaVersion < 6 || node == nil {
		if refDestructuringErrors != nil {
			this.checkPatternErrors(refDestructuringErrors, true)
		}
		return node, nil
	}

	switch node.Type {
	case NODE_IDENTIFIER:
		if this.inAsync() && node.Name == "await" {
			return nil, this.raise(node.Start, "Can not use 'await' as identifier inside an async function")
		}

	case NODE_OBJECT_PATTERN, NODE_ARRAY_PATTERN, NODE_REST_ELEMENT, NODE_ASSIGNMENT_PATTERN:

	case NODE_OBJECT_EXPRESSION:
		node.Type = NODE_OBJECT_PATTERN
		if refDestructuringErrors != nil {
			this.checkPatternErrors(refDestructuringErrors, true)
		}
		for _, prop := range node.Properties {
			if _, err := this.toAssignable(prop, isBinding, nil); err != nil {
				return nil, err
			}
			// AssignmentRestProperty may only hold a simple target.
			if prop.Type == NODE_REST_ELEMENT &&
				(prop.Argument.Type == NODE_ARRAY_PATTERN || prop.Argument.Type == NODE_OBJECT_PATTERN) {
				return nil, this.raise(prop.Argument.Start, "Unexpected token")
			}
		}

	case NODE_PROPERTY:
		// AssignmentProperty has type == "Property"
		if node.Kind != KIND_PROPERTY_INIT {
			return nil, this.raise(node.Key.Start, "Object pattern can't contain getter or setter")
		}
		if _, err := this.toAssignable(node.ValueNode(), isBinding, nil); err != nil {
			return nil, err
		}

	case NODE_ARRAY_EXPRESSION:
		node.Type = NODE_ARRAY_PATTERN
		if refDestructuringErrors != nil {
			this.checkPatternErrors(refDestructuringErrors, true)
		}
		if _, err := this.toAssignableList(node.Elements, isBinding); err != nil {
			return nil, err
		}

	case NODE_SPREAD_ELEMENT:
		node.Type = NODE_REST_ELEMENT
		if _, err := this.toAssignable(node.Argument, isBinding, nil); err != nil {
			return nil, err
		}
		if node.Argument.Type == NODE_ASSIGNMENT_PATTERN {
			return nil, this.raise(node.Argument.Start, "Rest elements cannot have a default value")
		}

	case NODE_ASSIGNMENT_EXPRESSION:
		if node.Operator != "=" {
			return nil, this.raise(node.Left.End, "Only '=' operator can be used for specifying default value.")
		}
		node.Type = NODE_ASSIGNMENT_PATTERN
		node.Operator = ""
		if _, err := this.toAssignable(node.Left, isBinding, nil); err != nil {
			return nil, err
		}

	case NODE_PARENTHESIZED_EXPRESSION:
		if _, err := this.toAssignable(node.Expression, isBinding, nil); err != nil {
			return nil, err
		}

	case NODE_MEMBER_EXPRESSION:
		if isBinding {
			return nil, this.raise(node.Start, "Assigning to rvalue")
		}

	default:
		return nil, this.raise(node.Start, "Assigning to rvalue")
	}
	return node, nil
}

// Convert list of expression atoms to binding list.
func (this *Parser) toAssignableList(exprList []*Node, isBinding bool) ([]*Node, error) {
	for _, elt := range exprList {
		if elt == nil {
			continue
		}
		if _, err := this.toAssignable(elt, isBinding, nil); err != nil {
			return nil, err
		}
	}
	if end := len(exprList); end > 0 {
		last := exprList[end-1]
		if this.options.EcmaVersion == 6 && isBinding && last != nil &&
			last.Type == NODE_REST_ELEMENT && last.Argument.Type != NODE_IDENTIFIER {
			return nil, this.unexpected(&last.Argument.Start)
		}
	}
	return exprList, nil
}

// Parses spread element.
func (this *Parser) parseSpread(refDestructuringErrors *DestructuringErrors) (*Node, error) {
	node := this.StartNode()
	this.next()
	argument, err := this.parseMaybeAssign(false, refDestructuringErrors, nil)
	if err != nil {
		return nil, err
	}
	node.Argument = argument
	return this.FinishNode(node, NODE_SPREAD_ELEMENT), nil
}

func (this *Parser) parseRestBinding() (*Node, error) {
	node := this.StartNode()
	this.next()

	// RestElement inside of a function parameter must be an identifier
	if this.options.EcmaVersion == 6 && this.Type.identifier != TOKEN_NAME {
		return nil, this.unexpected(nil)
	}
	argument, err := this.parseBindingAtom()
	if err != nil {
		return nil, err
	}
	node.Argument = argument
	return this.FinishNode(node, NODE_REST_ELEMENT), nil
}

// Parses lvalue (assignable) atom.
func (this *Parser) parseBindingAtom() (*Node, error) {
	if this.options.EcmaVersion >= 6 {
		switch this.Type.identifier {
		case TOKEN_BRACKETL:
			node := this.StartNode()
			this.next()
			elements, err := this.parseBindingList(TOKEN_BRACKETR, true, true)
			if err != nil {
				return nil, err
			}
			node.Elements = elements
			return this.FinishNode(node, NODE_ARRAY_PATTERN), nil

		case TOKEN_BRACEL:
			return this.parseObj(true, nil)
		}
	}
	return this.parseIdent(false)
}

func (this *Parser) parseBindingList(close Token, allowEmpty bool, allowTrailingComma bool) ([]*Node, error) {
	elts, first := []*Node{}, true
	for !this.eat(close) {
		if first {
			first = false
		} else if err := this.expect(TOKEN_COMMA); err != nil {
			return nil, err
		}

		if allowEmpty && this.Type.identifier == TOKEN_COMMA {
			elts = append(elts, nil)
		} else if allowTrailingComma && this.afterTrailingComma(close, false) {
			break
		} else if this.Type.identifier == TOKEN_ELLIPSIS {
			rest, err := this.parseRestBinding()
			if err != nil {
				return nil, err
			}
			elts = append(elts, this.parseBindingListItem(rest))
			if this.Type.identifier == TOKEN_COMMA {
				return nil, this.raise(this.Start, "Comma is not permitted after the rest element")
			}
			if err := this.expect(close); err != nil {
				return nil, err
			}
			break
		} else {
			elem, err := this.parseMaybeDefault(this.Start, this.StartLoc, nil)
			if err != nil {
				return nil, err
			}
			elts = append(elts, this.parseBindingListItem(elem))
		}
	}
	return elts, nil
}

func (this *Parser) parseBindingListItem(param *Node) *Node {
	return param
}

// Parses assignment pattern around given atom if possible.
func (this *Parser) parseMaybeDefault(startPos int, startLoc *Location, left *Node) (*Node, error) {
	if left == nil {
		atom, err := this.parseBindingAtom()
		if err != nil {
			return nil, err
		}
		left = atom
	}
	if this.options.EcmaVersion < 6 || !this.eat(TOKEN_EQ) {
		return left, nil
	}
	node := this.StartNodeAt(startPos, startLoc)
	node.Left = left
	right, err := this.parseMaybeAssign(false, nil, nil)
	if err != nil {
		return nil, err
	}
	node.Right = right
	return this.FinishNode(node, NODE_ASSIGNMENT_PATTERN), nil
}

// Verify that a node is an lval, something that can be assigned
// to. bindingType can be either BIND_NONE or one of the binding
// kinds; checkClashes collects parameter names when duplicates are
// not allowed.
func (this *Parser) checkLVal(expr *Node, bindingType Flags, checkClashes map[string]bool) error {
	isBind := bindingType != BIND_NONE

	switch expr.Type {
	case NODE_IDENTIFIER:
		if this.strict && this.reservedWordsStrictBind[expr.Name] {
			msg := "Assigning to "
			if isBind {
				msg = "Binding "
			}
			this.raiseRecoverable(expr.Start, msg+expr.Name+" in strict mode")
		}
		if bindingType == BIND_LEXICAL && expr.Name == "let" {
			this.raiseRecoverable(expr.Start, "let is disallowed as a lexically bound name")
		}
		if checkClashes != nil {
			if checkClashes[expr.Name] {
				this.raiseRecoverable(expr.Start, "Argument name clash")
			}
			checkClashes[expr.Name] = true
		}
		if isBind && bindingType != BIND_OUTSIDE {
			this.declareName(expr.Name, bindingType, expr.Start)
		}

	case NODE_MEMBER_EXPRESSION:
		if isBind {
			this.raiseRecoverable(expr.Start, "Binding member expression")
		}

	case NODE_OBJECT_PATTERN:
		for _, prop := range expr.Properties {
			if err := this.checkLVal(prop, bindingType, checkClashes); err != nil {
				return err
			}
		}

	case NODE_PROPERTY:
		// AssignmentProperty has type == "Property"
		return this.checkLVal(expr.ValueNode(), bindingType, checkClashes)

	case NODE_ARRAY_PATTERN:
		for _, elem := range expr.Elements {
			if elem == nil {
				continue
			}
			if err := this.checkLVal(elem, bindingType, checkClashes); err != nil {
				return err
			}
		}

	case NODE_ASSIGNMENT_PATTERN:
		return this.checkLVal(expr.Left, bindingType, checkClashes)

	case NODE_REST_ELEMENT:
		return this.checkLVal(expr.Argument, bindingType, checkClashes)

	case NODE_PARENTHESIZED_EXPRESSION:
		return this.checkLVal(expr.Expression, bindingType, checkClashes)

	default:
		if isBind {
			return this.raise(expr.Start, "Binding rvalue")
		}
		return this.raise(expr.Start, "Assigning to rvalue")
	}
	return nil
}
