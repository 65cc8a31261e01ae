package parser

import (
	"unicode"

	"golang.org/x/text/unicode/rangetable"
)

// ID_Start and ID_Continue from Unicode, the sets identifiers are built from.
var (
	idStartTable = rangetable.Merge(
		unicode.Lu, unicode.Ll, unicode.Lt, unicode.Lm, unicode.Lo, unicode.Nl,
		unicode.Other_ID_Start,
	)
	idContinueTable = rangetable.Merge(
		idStartTable,
		unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc,
		unicode.Other_ID_Continue,
	)
)

func isIdentifierStart(code rune) bool {
	switch {
	case code < 'A':
		return code == '$'
	case code <= 'Z':
		return true
	case code < 'a':
		return code == '_'
	case code <= 'z':
		return true
	case code < 0xaa:
		return false
	}
	return unicode.Is(idStartTable, code)
}

func isIdentifierChar(code rune) bool {
	switch {
	case code < '0':
		return code == '$'
	case code <= '9':
		return true
	case code < 'A':
		return false
	case code <= 'Z':
		return true
	case code < 'a':
		return code == '_'
	case code <= 'z':
		return true
	case code < 0xaa:
		return false
	case code == 0x200c || code == 0x200d:
		return true
	}
	return unicode.Is(idContinueTable, code)
}

// IsIdentifierName reports whether name can be written as an identifier
// without escapes.
func IsIdentifierName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if i == 0 && !isIdentifierStart(r) || i > 0 && !isIdentifierChar(r) {
			return false
		}
	}
	return true
}

func isNewLine(code rune) bool {
	return code == '\n' || code == '\r' || code == 0x2028 || code == 0x2029
}

func isWhiteSpace(code rune) bool {
	switch code {
	case ' ', '\t', '\v', '\f', 0xa0, 0x180e, 0xfeff:
		return true
	}
	return code > 0x7f && unicode.Is(unicode.Zs, code)
}
