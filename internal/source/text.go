package source

import (
	"fmt"
	"strings"

	"fortio.org/safecast"
)

// Position is a 1-based line/column pair.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Text wraps one expression snippet and resolves offsets to positions.
type Text struct {
	src        string
	lineStarts []uint32
}

// NewText indexes the snippet's line starts.
func NewText(src string) *Text {
	starts := []uint32{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			next, err := safecast.Conv[uint32](i + 1)
			if err != nil {
				break
			}
			starts = append(starts, next)
		}
	}
	return &Text{src: src, lineStarts: starts}
}

// String returns the underlying snippet.
func (t *Text) String() string {
	return t.src
}

// Len returns the snippet length in bytes.
func (t *Text) Len() uint32 {
	n, err := safecast.Conv[uint32](len(t.src))
	if err != nil {
		return ^uint32(0)
	}
	return n
}

// Slice returns the source text covered by span.
func (t *Text) Slice(span Span) string {
	if t == nil {
		return ""
	}
	start, end := int(span.Start), int(span.End)
	if start < 0 || end > len(t.src) || start > end {
		return ""
	}
	return t.src[start:end]
}

// Resolve maps a byte offset to a 1-based position.
func (t *Text) Resolve(offset uint32) Position {
	if t == nil || len(t.lineStarts) == 0 {
		return Position{Line: 1, Column: 1}
	}
	lo, hi := 0, len(t.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if t.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return Position{Line: lo + 1, Column: int(offset-t.lineStarts[lo]) + 1}
}

// Line returns the full text of a 1-based line without its newline.
func (t *Text) Line(line int) string {
	if t == nil || line < 1 || line > len(t.lineStarts) {
		return ""
	}
	start := int(t.lineStarts[line-1])
	rest := t.src[start:]
	if idx := strings.IndexByte(rest, '\n'); idx >= 0 {
		rest = rest[:idx]
	}
	return strings.TrimSuffix(rest, "\r")
}
