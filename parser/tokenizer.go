package parser

import (
	"bytes"
	"strconv"
	"strings"
	"unicode/utf8"
)

// TOKEN RELATED CODE

// Next moves to the next token.
func (p *Parser) Next() {
	p.next()
}

func (p *Parser) next() {
	if p.lexErr != nil {
		return
	}
	if len(p.Type.keyword) != 0 && p.ContainsEsc {
		p.raiseRecoverable(p.Start, "Escape sequence in keyword "+p.Type.keyword)
	}

	p.LastTokEnd = p.End
	p.LastTokStart = p.Start
	p.LastTokEndLoc = p.EndLoc
	p.LastTokStartLoc = p.StartLoc
	p.nextToken()
}

func (p *Parser) nextToken() {
	p.ContainsEsc = false
	p.skipSpace()
	if p.lexErr != nil {
		return
	}

	p.Start = p.pos
	p.StartLoc = p.CurrentPosition()

	if p.pos >= len(p.input) {
		p.finishToken(tokenTypes[TOKEN_EOF], nil)
		return
	}

	code, _ := p.fullCharCodeAtPos()
	p.readToken(code)
}

func (p *Parser) readToken(code rune) {
	if isIdentifierStart(code) || code == '\\' {
		p.readWord()
		return
	}
	p.getTokenFromCode(code)
}

func (p *Parser) fullCharCodeAtPos() (rune, int) {
	if p.pos >= len(p.input) {
		return -1, 0
	}
	if c := p.input[p.pos]; c < utf8.RuneSelf {
		return rune(c), 1
	}
	return utf8.DecodeRune(p.input[p.pos:])
}

// peek returns the byte n positions after the cursor, or 0 past the end.
func (p *Parser) peek(n int) byte {
	if p.pos+n < len(p.input) {
		return p.input[p.pos+n]
	}
	return 0
}

func (p *Parser) skipBlockComment() {
	start := p.pos
	end := bytes.Index(p.input[p.pos+2:], []byte("*/"))
	if end == -1 {
		p.Start = start
		p.StartLoc = p.CurrentPosition()
		p.lexError(start, "Unterminated comment")
		return
	}
	p.pos += 2 + end + 2
}

func (p *Parser) skipLineComment(startSkip int) {
	p.pos += startSkip
	for p.pos < len(p.input) {
		ch, size := p.fullCharCodeAtPos()
		if isNewLine(ch) {
			return
		}
		p.pos += size
	}
}

// Called at the start of the parse and after every token. Skips
// whitespace and comments.
func (p *Parser) skipSpace() {
	for p.pos < len(p.input) {
		ch := p.input[p.pos]
		switch ch {
		case ' ', '\t', '\v', '\f', '\n', '\r':
			p.pos++
		case '/':
			switch p.peek(1) {
			case '*':
				p.skipBlockComment()
				if p.lexErr != nil {
					return
				}
			case '/':
				p.skipLineComment(2)
			default:
				return
			}
		default:
			if ch < utf8.RuneSelf {
				return
			}
			r, size := utf8.DecodeRune(p.input[p.pos:])
			if !isWhiteSpace(r) && !isNewLine(r) {
				return
			}
			p.pos += size
		}
	}
}

// skipWhiteSpaceAt is the lookahead version of skipSpace: it never fails
// and leaves the cursor alone.
func skipWhiteSpaceAt(input []byte, pos int) int {
	for pos < len(input) {
		ch := input[pos]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\v' || ch == '\f' || ch == '\n' || ch == '\r':
			pos++
		case ch == '/' && pos+1 < len(input) && input[pos+1] == '*':
			end := bytes.Index(input[pos+2:], []byte("*/"))
			if end == -1 {
				return pos
			}
			pos += 2 + end + 2
		case ch == '/' && pos+1 < len(input) && input[pos+1] == '/':
			for pos < len(input) && input[pos] != '\n' && input[pos] != '\r' {
				pos++
			}
		case ch >= utf8.RuneSelf:
			r, size := utf8.DecodeRune(input[pos:])
			if !isWhiteSpace(r) && !isNewLine(r) {
				return pos
			}
			pos += size
		default:
			return pos
		}
	}
	return pos
}

func hasLineBreak(b []byte) bool {
	if bytes.IndexByte(b, '\n') >= 0 || bytes.IndexByte(b, '\r') >= 0 {
		return true
	}
	return bytes.Contains(b, []byte("\u2028")) || bytes.Contains(b, []byte("\u2029"))
}

func (p *Parser) finishToken(token *TokenType, val any) {
	p.End = p.pos
	p.EndLoc = p.CurrentPosition()
	p.Type = token
	p.Value = val
}

func (p *Parser) finishOp(token *TokenType, size int) {
	str := string(p.input[p.pos : p.pos+size])
	p.pos += size
	p.finishToken(token, str)
}

func (p *Parser) getTokenFromCode(code rune) {
	switch code {
	case '.':
		p.readToken_dot()
		return
	case '(':
		p.pos++
		p.finishToken(tokenTypes[TOKEN_PARENL], nil)
		return
	case ')':
		p.pos++
		p.finishToken(tokenTypes[TOKEN_PARENR], nil)
		return
	case ';':
		p.pos++
		p.finishToken(tokenTypes[TOKEN_SEMI], nil)
		return
	case ',':
		p.pos++
		p.finishToken(tokenTypes[TOKEN_COMMA], nil)
		return
	case '[':
		p.pos++
		p.finishToken(tokenTypes[TOKEN_BRACKETL], nil)
		return
	case ']':
		p.pos++
		p.finishToken(tokenTypes[TOKEN_BRACKETR], nil)
		return
	case '{':
		p.pos++
		p.finishToken(tokenTypes[TOKEN_BRACEL], nil)
		return
	case '}':
		p.pos++
		p.finishToken(tokenTypes[TOKEN_BRACER], nil)
		return
	case ':':
		p.pos++
		p.finishToken(tokenTypes[TOKEN_COLON], nil)
		return
	case '?':
		p.pos++
		p.finishToken(tokenTypes[TOKEN_QUESTION], nil)
		return
	case '`':
		if p.options.EcmaVersion < 6 {
			break
		}
		p.pos++
		p.finishToken(tokenTypes[TOKEN_BACKQUOTE], nil)
		return

	case '0':
		next := p.peek(1)
		if next == 'x' || next == 'X' {
			p.readRadixNumber(16)
			return
		}
		if p.options.EcmaVersion >= 6 {
			if next == 'o' || next == 'O' {
				p.readRadixNumber(8)
				return
			}
			if next == 'b' || next == 'B' {
				p.readRadixNumber(2)
				return
			}
		}
		p.readNumber(false)
		return

	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		p.readNumber(false)
		return

	case '"', '\'':
		p.readString(byte(code))
		return

	case '/':
		p.readToken_slash()
		return
	case '%', '*':
		p.readToken_mult_modulo_exp(byte(code))
		return
	case '|', '&':
		p.readToken_pipe_amp(byte(code))
		return
	case '^':
		p.readToken_caret()
		return
	case '+', '-':
		p.readToken_plus_min(byte(code))
		return
	case '<', '>':
		p.readToken_lt_gt(byte(code))
		return
	case '=', '!':
		p.readToken_eq_excl(byte(code))
		return
	case '~':
		p.finishOp(tokenTypes[TOKEN_PREFIX], 1)
		return
	}

	p.lexError(p.pos, "Unexpected character '"+string(code)+"'")
}

func (p *Parser) readToken_dot() {
	next := p.peek(1)
	if next >= '0' && next <= '9' {
		p.readNumber(true)
		return
	}
	if p.options.EcmaVersion >= 6 && next == '.' && p.peek(2) == '.' {
		p.pos += 3
		p.finishToken(tokenTypes[TOKEN_ELLIPSIS], nil)
		return
	}
	p.pos++
	p.finishToken(tokenTypes[TOKEN_DOT], nil)
}

// A slash is read as division here. Where the grammar expects an
// expression the parser rescans it with readRegexp.
func (p *Parser) readToken_slash() {
	if p.peek(1) == '=' {
		p.finishOp(tokenTypes[TOKEN_ASSIGN], 2)
		return
	}
	p.finishOp(tokenTypes[TOKEN_SLASH], 1)
}

// readRegexp rescans the current `/` or `/=` token as a regular
// expression literal. Only the flags are validated.
func (p *Parser) readRegexp() {
	start := p.Start
	p.pos = start + 1
	escaped, inClass := false, false
	for {
		if p.pos >= len(p.input) {
			p.lexError(start, "Unterminated regular expression")
			return
		}
		ch, size := p.fullCharCodeAtPos()
		if isNewLine(ch) {
			p.lexError(start, "Unterminated regular expression")
			return
		}
		if !escaped {
			if ch == '[' {
				inClass = true
			} else if ch == ']' && inClass {
				inClass = false
			} else if ch == '/' && !inClass {
				break
			}
			escaped = ch == '\\'
		} else {
			escaped = false
		}
		p.pos += size
	}
	pattern := string(p.input[start+1 : p.pos])
	p.pos++
	flagsStart := p.pos
	flags, ok := p.readWord1()
	if !ok {
		return
	}
	if p.ContainsEsc {
		p.lexError(flagsStart, "Unexpected token")
		return
	}
	if msg := p.checkRegExpFlags(flags); msg != "" {
		p.lexError(start+1, msg)
		return
	}
	p.finishToken(tokenTypes[TOKEN_REGEXP], &RegExpValue{Pattern: pattern, Flags: flags})
}

func (p *Parser) checkRegExpFlags(flags string) string {
	valid := "gim"
	if p.options.EcmaVersion >= 6 {
		valid += "uy"
	}
	if p.options.EcmaVersion >= 9 {
		valid += "s"
	}
	for i, flag := range flags {
		if !strings.ContainsRune(valid, flag) {
			return "Invalid regular expression flag"
		}
		if strings.ContainsRune(flags[i+1:], flag) {
			return "Duplicate regular expression flag"
		}
	}
	return ""
}

// readTemplateToken reads the template chunk at the cursor, which the
// parser leaves just past a backquote or the `}` closing a substitution.
// The chunk ends before "${" or the closing backquote; the terminator is
// consumed and templateTail records which one it was.
func (p *Parser) readTemplateToken() {
	p.ContainsEsc = false
	p.Start = p.pos
	p.StartLoc = p.CurrentPosition()

	var out strings.Builder
	valid := true
	chunkStart := p.pos
	for {
		if p.pos >= len(p.input) {
			p.lexError(p.Start, "Unterminated template")
			return
		}
		ch := p.input[p.pos]
		if ch == '`' || ch == '$' && p.peek(1) == '{' {
			out.Write(p.input[chunkStart:p.pos])
			var cooked any
			if valid {
				cooked = out.String()
			}
			p.finishToken(tokenTypes[TOKEN_TEMPLATE], cooked)
			p.templateTail = ch == '`'
			if p.templateTail {
				p.pos++
			} else {
				p.pos += 2
			}
			return
		}
		switch ch {
		case '\\':
			if p.pos+1 >= len(p.input) {
				p.lexError(p.Start, "Unterminated template")
				return
			}
			out.Write(p.input[chunkStart:p.pos])
			if validTemplateEscape(p.input[p.pos+1:]) {
				escaped, ok := p.readEscapedChar()
				if !ok {
					return
				}
				out.WriteString(escaped)
			} else {
				// Tagged templates may carry these; the cooked value is then undefined.
				if p.options.EcmaVersion < 9 {
					p.lexError(p.pos, "Bad character escape sequence")
					return
				}
				valid = false
				p.pos += 2
			}
			chunkStart = p.pos
		case '\r':
			out.Write(p.input[chunkStart:p.pos])
			out.WriteByte('\n')
			p.pos++
			if p.peek(0) == '\n' {
				p.pos++
			}
			chunkStart = p.pos
		default:
			p.pos++
		}
	}
}

// validTemplateEscape reports whether the escape following a backslash
// has a cooked value. Octal escapes and malformed \x and \u forms do not.
func validTemplateEscape(rest []byte) bool {
	switch c := rest[0]; {
	case c == '0':
		return len(rest) < 2 || rest[1] < '0' || rest[1] > '9'
	case c >= '1' && c <= '9':
		return false
	case c == 'x':
		return len(rest) >= 3 && isHexDigit(rest[1]) && isHexDigit(rest[2])
	case c == 'u':
		if len(rest) >= 2 && rest[1] == '{' {
			end := bytes.IndexByte(rest, '}')
			if end < 3 {
				return false
			}
			code, err := strconv.ParseUint(string(rest[2:end]), 16, 32)
			return err == nil && code <= 0x10FFFF
		}
		return len(rest) >= 5 && isHexDigit(rest[1]) && isHexDigit(rest[2]) &&
			isHexDigit(rest[3]) && isHexDigit(rest[4])
	}
	return true
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func (p *Parser) readToken_mult_modulo_exp(code byte) {
	size := 1
	token := tokenTypes[TOKEN_MODULO]
	if code == '*' {
		token = tokenTypes[TOKEN_STAR]
	}
	next := p.peek(1)

	if p.options.EcmaVersion >= 7 && code == '*' && next == '*' {
		size++
		token = tokenTypes[TOKEN_STARSTAR]
		next = p.peek(2)
	}

	if next == '=' {
		p.finishOp(tokenTypes[TOKEN_ASSIGN], size+1)
		return
	}
	p.finishOp(token, size)
}

func (p *Parser) readToken_pipe_amp(code byte) {
	next := p.peek(1)
	if next == code {
		if code == '|' {
			p.finishOp(tokenTypes[TOKEN_LOGICALOR], 2)
		} else {
			p.finishOp(tokenTypes[TOKEN_LOGICALAND], 2)
		}
		return
	}
	if next == '=' {
		p.finishOp(tokenTypes[TOKEN_ASSIGN], 2)
		return
	}
	if code == '|' {
		p.finishOp(tokenTypes[TOKEN_BITWISEOR], 1)
	} else {
		p.finishOp(tokenTypes[TOKEN_BITWISEAND], 1)
	}
}

func (p *Parser) readToken_caret() {
	if p.peek(1) == '=' {
		p.finishOp(tokenTypes[TOKEN_ASSIGN], 2)
		return
	}
	p.finishOp(tokenTypes[TOKEN_BITWISEXOR], 1)
}

func (p *Parser) readToken_plus_min(code byte) {
	next := p.peek(1)
	if next == code {
		if next == '-' && !p.inModule && p.peek(2) == '>' &&
			(p.LastTokEnd == 0 || hasLineBreak(p.input[p.LastTokEnd:p.pos])) {
			// A `-->` line comment
			p.skipLineComment(3)
			p.nextToken()
			return
		}
		p.finishOp(tokenTypes[TOKEN_INCDEC], 2)
		return
	}

	if next == '=' {
		p.finishOp(tokenTypes[TOKEN_ASSIGN], 2)
		return
	}
	p.finishOp(tokenTypes[TOKEN_PLUSMIN], 1)
}

func (p *Parser) readToken_lt_gt(code byte) {
	next := p.peek(1)
	size := 1
	if next == code {
		size = 2
		if code == '>' && p.peek(2) == '>' {
			size = 3
		}
		if p.peek(size) == '=' {
			p.finishOp(tokenTypes[TOKEN_ASSIGN], size+1)
			return
		}
		p.finishOp(tokenTypes[TOKEN_BITSHIFT], size)
		return
	}

	if next == '!' && code == '<' && !p.inModule && p.peek(2) == '-' && p.peek(3) == '-' {
		// `<!--`, an XML-style comment that should be interpreted as a line comment
		p.skipLineComment(4)
		p.nextToken()
		return
	}

	if next == '=' {
		size = 2
	}
	p.finishOp(tokenTypes[TOKEN_RELATIONAL], size)
}

func (p *Parser) readToken_eq_excl(code byte) {
	next := p.peek(1)
	if next == '=' {
		if p.peek(2) == '=' {
			p.finishOp(tokenTypes[TOKEN_EQUALITY], 3)
		} else {
			p.finishOp(tokenTypes[TOKEN_EQUALITY], 2)
		}
		return
	}
	if code == '=' && next == '>' && p.options.EcmaVersion >= 6 {
		p.pos += 2
		p.finishToken(tokenTypes[TOKEN_ARROW], nil)
		return
	}
	if code == '=' {
		p.finishOp(tokenTypes[TOKEN_EQ], 1)
	} else {
		p.finishOp(tokenTypes[TOKEN_PREFIX], 1)
	}
}

// readInt reads digits in the given radix. len < 0 reads any number of
// digits. ok is false when no digit, or fewer than len digits, were read.
func (p *Parser) readInt(radix int, length int) (float64, bool) {
	start := p.pos
	total := 0.0
	for i := 0; length < 0 || i < length; i++ {
		code := p.peek(0)
		var val int
		switch {
		case code >= 'a' && code <= 'z':
			val = int(code-'a') + 10
		case code >= 'A' && code <= 'Z':
			val = int(code-'A') + 10
		case code >= '0' && code <= '9':
			val = int(code - '0')
		default:
			val = 36
		}
		if val >= radix {
			break
		}
		p.pos++
		total = total*float64(radix) + float64(val)
	}
	if p.pos == start || length >= 0 && p.pos-start != length {
		return 0, false
	}
	return total, true
}

func (p *Parser) readRadixNumber(radix int) {
	p.pos += 2 // 0x
	val, ok := p.readInt(radix, -1)
	if !ok {
		p.lexError(p.Start+2, "Expected number in radix "+strconv.Itoa(radix))
		return
	}
	if ch, _ := p.fullCharCodeAtPos(); ch >= 0 && isIdentifierStart(ch) {
		p.lexError(p.pos, "Identifier directly after number")
		return
	}
	p.finishToken(tokenTypes[TOKEN_NUM], val)
}

func (p *Parser) readNumber(startsWithDot bool) {
	start := p.pos
	if !startsWithDot {
		if _, ok := p.readInt(10, -1); !ok {
			p.lexError(start, "Invalid number")
			return
		}
	}
	octal := p.pos-start >= 2 && p.input[start] == '0'
	if octal && p.strict {
		p.lexError(start, "Invalid number")
		return
	}
	if octal && bytes.ContainsAny(p.input[start:p.pos], "89") {
		octal = false
	}

	next := p.peek(0)
	if next == '.' && !octal {
		p.pos++
		p.readInt(10, -1)
		next = p.peek(0)
	}
	if (next == 'e' || next == 'E') && !octal {
		p.pos++
		if sign := p.peek(0); sign == '+' || sign == '-' {
			p.pos++
		}
		if _, ok := p.readInt(10, -1); !ok {
			p.lexError(start, "Invalid number")
			return
		}
	}
	if ch, _ := p.fullCharCodeAtPos(); ch >= 0 && isIdentifierStart(ch) {
		p.lexError(p.pos, "Identifier directly after number")
		return
	}

	str := string(p.input[start:p.pos])
	var val float64
	if octal {
		n, _ := strconv.ParseInt(str, 8, 64)
		val = float64(n)
	} else {
		// Out of range literals parse to ±Inf, which is what they evaluate to.
		val, _ = strconv.ParseFloat(str, 64)
	}
	p.finishToken(tokenTypes[TOKEN_NUM], val)
}

// Read a string value, interpreting backslash-escapes.
func (p *Parser) readCodePoint() (rune, bool) {
	if p.peek(0) == '{' {
		if p.options.EcmaVersion < 6 {
			p.lexError(p.pos, "Unexpected token")
			return 0, false
		}
		codePos := p.pos
		p.pos++
		end := bytes.IndexByte(p.input[p.pos:], '}')
		if end < 0 {
			p.lexError(codePos, "Bad character escape sequence")
			return 0, false
		}
		code, ok := p.readHexChar(end)
		if !ok {
			return 0, false
		}
		p.pos++
		if code > 0x10FFFF {
			p.lexError(codePos, "Code point out of bounds")
			return 0, false
		}
		return code, true
	}
	return p.readHexChar(4)
}

func (p *Parser) readHexChar(length int) (rune, bool) {
	codePos := p.pos
	n, ok := p.readInt(16, length)
	if !ok {
		p.lexError(codePos, "Bad character escape sequence")
		return 0, false
	}
	return rune(n), true
}

func (p *Parser) readString(quote byte) {
	p.pos++
	var out strings.Builder
	chunkStart := p.pos
	for {
		if p.pos >= len(p.input) {
			p.lexError(p.Start, "Unterminated string constant")
			return
		}
		ch := p.input[p.pos]
		if ch == quote {
			break
		}
		if ch == '\\' {
			out.Write(p.input[chunkStart:p.pos])
			escaped, ok := p.readEscapedChar()
			if !ok {
				return
			}
			out.WriteString(escaped)
			chunkStart = p.pos
			continue
		}
		r, size := p.fullCharCodeAtPos()
		if isNewLine(r) {
			p.lexError(p.Start, "Unterminated string constant")
			return
		}
		p.pos += size
	}
	out.Write(p.input[chunkStart:p.pos])
	p.pos++
	p.finishToken(tokenTypes[TOKEN_STRING], out.String())
}

// Used to read escaped characters
func (p *Parser) readEscapedChar() (string, bool) {
	p.pos++ // Skip backslash
	if p.pos >= len(p.input) {
		p.lexError(p.Start, "Unterminated string constant")
		return "", false
	}
	ch := p.input[p.pos]
	p.pos++
	switch ch {
	case 'n':
		return "\n", true
	case 'r':
		return "\r", true
	case 'x':
		code, ok := p.readHexChar(2)
		return string(code), ok
	case 'u':
		code, ok := p.readCodePoint()
		return string(code), ok
	case 't':
		return "\t", true
	case 'b':
		return "\b", true
	case 'v':
		return "\v", true
	case 'f':
		return "\f", true
	case '\r':
		if p.peek(0) == '\n' {
			p.pos++
		}
		return "", true
	case '\n':
		return "", true
	}

	if ch >= '0' && ch <= '7' {
		digits := 1
		for digits < 3 && p.peek(digits-1) >= '0' && p.peek(digits-1) <= '7' {
			digits++
		}
		octalStr := string(p.input[p.pos-1 : p.pos-1+digits])
		octal, _ := strconv.ParseInt(octalStr, 8, 32)
		if octal > 255 {
			octalStr = octalStr[:len(octalStr)-1]
			octal, _ = strconv.ParseInt(octalStr, 8, 32)
		}
		p.pos += len(octalStr) - 1
		if octalStr != "0" && p.strict {
			p.lexError(p.pos-1-len(octalStr), "Octal literal in strict mode")
			return "", false
		}
		return string(rune(octal)), true
	}

	if ch >= utf8.RuneSelf {
		r, size := utf8.DecodeRune(p.input[p.pos-1:])
		p.pos += size - 1
		if r == 0x2028 || r == 0x2029 {
			return "", true
		}
		return string(r), true
	}
	return string(ch), true
}

// Read an identifier, and return it as a string. Sets ContainsEsc to
// whether the word contained a '\u' escape.
func (p *Parser) readWord1() (string, bool) {
	p.ContainsEsc = false
	var word strings.Builder
	first := true
	chunkStart := p.pos
	for p.pos < len(p.input) {
		ch, size := p.fullCharCodeAtPos()
		if ch == '\\' {
			p.ContainsEsc = true
			word.Write(p.input[chunkStart:p.pos])
			escStart := p.pos
			if p.peek(1) != 'u' {
				p.lexError(p.pos, "Expecting Unicode escape sequence \\uXXXX")
				return "", false
			}
			p.pos += 2
			esc, ok := p.readCodePoint()
			if !ok {
				return "", false
			}
			valid := isIdentifierChar(esc)
			if first {
				valid = isIdentifierStart(esc)
			}
			if !valid {
				p.lexError(escStart, "Invalid Unicode escape")
				return "", false
			}
			word.WriteRune(esc)
			chunkStart = p.pos
		} else if isIdentifierChar(ch) {
			p.pos += size
		} else {
			break
		}
		first = false
	}
	word.Write(p.input[chunkStart:p.pos])
	return word.String(), true
}

// Read an identifier or keyword token.
func (p *Parser) readWord() {
	word, ok := p.readWord1()
	if !ok {
		return
	}
	token := tokenTypes[TOKEN_NAME]
	if p.isKeyword(word) && (p.options.EcmaVersion >= 6 || !p.ContainsEsc) {
		token = keywords[word]
	}
	p.finishToken(token, word)
}

func (p *Parser) isKeyword(word string) bool {
	if _, ok := keywords[word]; !ok {
		return false
	}
	return p.options.EcmaVersion >= 6 || !es6Keywords[word]
}
