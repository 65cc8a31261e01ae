package parser

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// SyntaxError is a parse failure at a source offset. The message carries
// the line and column the way acorn renders them: "Unexpected token (1:4)".
type SyntaxError struct {
	Pos      int
	Loc      *Location
	RaisedAt int
	Message  string
}

func (e *SyntaxError) Error() string {
	return e.Message
}

// AsSyntaxError unwraps err to the SyntaxError it carries, if any.
func AsSyntaxError(err error) (*SyntaxError, bool) {
	var serr *SyntaxError
	if errors.As(err, &serr) {
		return serr, true
	}
	return nil, false
}

func (p *Parser) newSyntaxError(pos int, message string) *SyntaxError {
	if p.lineStarts == nil {
		p.lineStarts = lineStartOffsets(p.input)
	}
	loc := getLineInfo(p.lineStarts, pos)
	message = fmt.Sprintf("%s (%d:%d)", message, loc.Line, loc.Column)
	if p.options.SourceFile != "" {
		message += " in " + p.options.SourceFile
	}
	return &SyntaxError{Pos: pos, Loc: loc, RaisedAt: p.pos, Message: message}
}

// Raise builds the fatal error for pos. Callers return it up the stack.
func (p *Parser) Raise(pos int, message string) error {
	return p.raise(pos, message)
}

func (p *Parser) raise(pos int, message string) error {
	err := p.newSyntaxError(pos, message)
	p.logger.Debug("syntax error", zap.Int("pos", pos), zap.String("message", err.Message))
	return err
}

// RaiseRecoverable records a diagnostic and lets parsing continue.
func (p *Parser) RaiseRecoverable(pos int, message string) {
	p.raiseRecoverable(pos, message)
}

func (p *Parser) raiseRecoverable(pos int, message string) {
	err := p.newSyntaxError(pos, message)
	p.logger.Debug("recoverable syntax error", zap.Int("pos", pos), zap.String("message", err.Message))
	p.diagnostics = append(p.diagnostics, err)
}

// Unexpected raises "Unexpected token" at the current token.
func (p *Parser) Unexpected() error {
	return p.unexpected(nil)
}

func (p *Parser) unexpected(pos *int) error {
	if pos != nil {
		return p.raise(*pos, "Unexpected token")
	}
	return p.raise(p.Start, "Unexpected token")
}

// lexError makes a tokenizer failure sticky: the cursor moves to the
// invalid token so the grammar fails, and Parse reports this error.
func (p *Parser) lexError(pos int, message string) {
	if p.lexErr == nil {
		p.lexErr = p.raise(pos, message)
	}
	p.Type = tokenTypes[TOKEN_INVALID]
	p.Value = nil
	p.End = p.pos
	p.EndLoc = p.CurrentPosition()
}
