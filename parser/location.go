package parser

import (
	"sort"
	"unicode/utf8"
)

type SourceLocation struct {
	Start      *Location `json:"start"`
	End        *Location `json:"end"`
	Sourcefile string    `json:"source,omitempty"`
}

// Location is a 1-based line and a 0-based column, both counted in bytes.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func NewSourceLocation(p *Parser, start, end *Location) *SourceLocation {
	return &SourceLocation{Start: start, End: end, Sourcefile: p.options.SourceFile}
}

func NewLocation(line, column int) *Location {
	return &Location{
		Line:   line,
		Column: column,
	}
}

// lineStartOffsets returns the offset of the first byte of every line.
func lineStartOffsets(input []byte) []int {
	starts := []int{0}
	for i := 0; i < len(input); {
		switch c := input[i]; {
		case c == '\r':
			if i+1 < len(input) && input[i+1] == '\n' {
				i++
			}
			i++
			starts = append(starts, i)
		case c == '\n':
			i++
			starts = append(starts, i)
		case c < utf8.RuneSelf:
			i++
		default:
			r, size := utf8.DecodeRune(input[i:])
			i += size
			if r == 0x2028 || r == 0x2029 {
				starts = append(starts, i)
			}
		}
	}
	return starts
}

func getLineInfo(lineStarts []int, offset int) *Location {
	line := sort.Search(len(lineStarts), func(i int) bool { return lineStarts[i] > offset })
	return &Location{Line: line, Column: offset - lineStarts[line-1]}
}

func (p *Parser) locationAt(offset int) *Location {
	if !p.options.Locations {
		return nil
	}
	if p.lineStarts == nil {
		p.lineStarts = lineStartOffsets(p.input)
	}
	return getLineInfo(p.lineStarts, offset)
}

// CurrentPosition is the location of the tokenizer cursor, or nil when
// locations are not tracked.
func (p *Parser) CurrentPosition() *Location {
	return p.locationAt(p.pos)
}
