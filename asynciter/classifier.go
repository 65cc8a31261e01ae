package asynciter

import "github.com/acornjs/acorn-async-iteration/parser"

// Words that act as keywords only in some positions. They always arrive
// from the tokenizer as plain name tokens.
var contextualKeywords = map[string]bool{
	"async":  true,
	"await":  true,
	"static": true,
	"get":    true,
	"set":    true,
}

// isContextualKeyword reports whether the current token is name spelled
// without escapes. An escaped spelling such as `\u0061sync` is an
// identifier, never a modifier.
func isContextualKeyword(p *parser.Parser, name string) bool {
	if !contextualKeywords[name] {
		return false
	}
	return p.IsContextual(name)
}

func noLineBreakBeforeCurrent(p *parser.Parser) bool {
	return !p.HasPrecedingLineBreak()
}
