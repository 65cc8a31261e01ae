package parser

import "slices"

type Flags int

// Each scope gets a bitset that may contain these flags
const (
	SCOPE_TOP Flags = 1 << iota
	SCOPE_FUNCTION
	SCOPE_ASYNC
	SCOPE_GENERATOR
	SCOPE_ARROW
	SCOPE_SIMPLE_CATCH

	SCOPE_VAR = SCOPE_TOP | SCOPE_FUNCTION
)

// Used in checkLVal and declareName to determine the type of a binding
const (
	BIND_NONE         Flags = iota // Not a binding
	BIND_VAR                       // Var-style binding
	BIND_LEXICAL                   // Let- or const-style binding
	BIND_FUNCTION                  // Function declaration
	BIND_SIMPLE_CATCH              // Simple (identifier pattern) catch binding
	BIND_OUTSIDE                   // Special case for function names as bound inside the function
)

func functionFlags(async bool, generator bool) Flags {
	flags := SCOPE_FUNCTION
	if async {
		flags |= SCOPE_ASYNC
	}
	if generator {
		flags |= SCOPE_GENERATOR
	}
	return flags
}

type Scope struct {
	Flags     Flags
	Var       []string
	Lexical   []string
	Functions []string
}

func NewScope(flags Flags) *Scope {
	return &Scope{
		Flags:     flags,
		Var:       []string{},
		Lexical:   []string{},
		Functions: []string{},
	}
}

func (p *Parser) enterScope(flags Flags) {
	p.scopeStack = append(p.scopeStack, NewScope(flags))
}

func (p *Parser) exitScope() {
	p.scopeStack = p.scopeStack[:len(p.scopeStack)-1]
}

func (p *Parser) currentScope() *Scope {
	return p.scopeStack[len(p.scopeStack)-1]
}

func (p *Parser) currentVarScope() *Scope {
	for i := len(p.scopeStack) - 1; i >= 0; i-- {
		if scope := p.scopeStack[i]; scope.Flags&SCOPE_VAR != 0 {
			return scope
		}
	}
	return p.scopeStack[0]
}

// Could be useful for `this`, `new.target` and `super()`: the nearest
// scope that is not an arrow.
func (p *Parser) currentThisScope() *Scope {
	for i := len(p.scopeStack) - 1; i >= 0; i-- {
		if scope := p.scopeStack[i]; scope.Flags&SCOPE_VAR != 0 && scope.Flags&SCOPE_ARROW == 0 {
			return scope
		}
	}
	return p.scopeStack[0]
}

func (p *Parser) inFunction() bool {
	return len(p.scopeStack) > 0 && p.currentVarScope().Flags&SCOPE_FUNCTION != 0
}

func (p *Parser) inGenerator() bool {
	return len(p.scopeStack) > 0 && p.currentVarScope().Flags&SCOPE_GENERATOR != 0
}

func (p *Parser) inAsync() bool {
	return len(p.scopeStack) > 0 && p.currentVarScope().Flags&SCOPE_ASYNC != 0
}

// InFunction reports whether the cursor is inside a function body,
// arrows included.
func (p *Parser) InFunction() bool {
	return p.inFunction()
}

func (p *Parser) InAsync() bool {
	return p.inAsync()
}

func (p *Parser) InGenerator() bool {
	return p.inGenerator()
}

func (p *Parser) treatFunctionsAsVar() bool {
	return p.treatFunctionsAsVarInScope(p.currentScope())
}

func (p *Parser) treatFunctionsAsVarInScope(scope *Scope) bool {
	return (scope.Flags&SCOPE_FUNCTION != 0) || (!p.inModule && scope.Flags&SCOPE_TOP != 0)
}

func (p *Parser) declareName(name string, bindingType Flags, pos int) {
	redeclared := false

	scope := p.currentScope()
	switch bindingType {
	case BIND_LEXICAL:
		redeclared = slices.Contains(scope.Lexical, name) || slices.Contains(scope.Functions, name) || slices.Contains(scope.Var, name)
		scope.Lexical = append(scope.Lexical, name)
	case BIND_SIMPLE_CATCH:
		scope.Lexical = append(scope.Lexical, name)
	case BIND_FUNCTION:
		if p.treatFunctionsAsVar() {
			redeclared = slices.Contains(scope.Lexical, name)
		} else {
			redeclared = slices.Contains(scope.Lexical, name) || slices.Contains(scope.Var, name)
		}
		scope.Functions = append(scope.Functions, name)
	default:
		for i := len(p.scopeStack) - 1; i >= 0; i-- {
			scope := p.scopeStack[i]
			if slices.Contains(scope.Lexical, name) && !(scope.Flags&SCOPE_SIMPLE_CATCH != 0 && scope.Lexical[0] == name) ||
				!p.treatFunctionsAsVarInScope(scope) && slices.Contains(scope.Functions, name) {
				redeclared = true
				break
			}
			scope.Var = append(scope.Var, name)
			if scope.Flags&SCOPE_VAR != 0 {
				break
			}
		}
	}

	if redeclared {
		p.raiseRecoverable(pos, "Identifier '"+name+"' has already been declared")
	}
}
