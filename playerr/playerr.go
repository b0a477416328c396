// Package playerr maps evaluator error messages onto the source they were
// produced from.
//
// The evaluator reports failures as free-form messages that contain the byte
// offset of the offending text as " at <start>[:<end>]", e.g.
//
//	unexpected token at 12:15
//
// Find turns that into a Span an editor can highlight.
package playerr

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Position is a zero indexed line and column. Column is a byte index into the line.
//
// The JSON form matches what browser editors expect: {"line": 0, "ch": 0}.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"ch"`
}

// String returns the one indexed line:column suitable for error messages.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Column+1)
}

// Before reports whether p comes before p2 in document order.
func (p Position) Before(p2 Position) bool {
	if p.Line != p2.Line {
		return p.Line < p2.Line
	}
	return p.Column < p2.Column
}

// Span is the half open range [From, To) of an error.
type Span struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// String looks like 2:3-2:4
func (s Span) String() string {
	return s.From.String() + "-" + s.To.String()
}

// OneLine returns true if the Span starts and ends on the same line.
func (s Span) OneLine() bool {
	return s.From.Line == s.To.Line
}

var offsetRegex = regexp.MustCompile(` at (\d+)(?::(\d+))?`)

// ParseOffsets extracts the start and optional end offset from msg.
// end is 0 when msg carries no end offset. ok is false when msg has no offset at all.
//
// Offsets too large for an int saturate to math.MaxInt.
func ParseOffsets(msg string) (start, end int, ok bool) {
	m := offsetRegex.FindStringSubmatch(msg)
	if m == nil {
		return 0, 0, false
	}
	start = atoi(m[1])
	if m[2] != "" {
		end = atoi(m[2])
	}
	return start, end, true
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		// The regex only admits digits so this can only be a range error.
		return math.MaxInt
	}
	return n
}

// Find computes the Span in code that errMessage points at.
//
// It returns false when errMessage carries no offset or code is empty.
//
// A start offset past the end of code is clamped to the last byte. A missing end
// offset, or one before start, makes the span a single byte long.
// An end offset past the end of code lands on the last line.
func Find(code, errMessage string) (Span, bool) {
	start, end, ok := ParseOffsets(errMessage)
	if !ok || code == "" {
		return Span{}, false
	}

	if start >= len(code) {
		start = len(code) - 1
	}
	if end == 0 || end < start {
		end = start + 1
	}

	lines := strings.Split(code, "\n")
	pos, line, lineStart := 0, 0, 0
	for pos <= start {
		lineStart = pos
		pos += len(lines[0]) + 1
		lines = lines[1:]
		line++
	}
	var s Span
	s.From = Position{Line: line - 1, Column: start - lineStart}

	for pos <= end && len(lines) > 0 {
		lineStart = pos
		pos += len(lines[0]) + 1
		lines = lines[1:]
		line++
	}
	s.To = Position{Line: line - 1, Column: end - lineStart}

	return s, true
}
