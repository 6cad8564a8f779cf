package source

// Span is a half-open byte range [Start, End) inside one snippet.
type Span struct {
	Start uint32
	End   uint32
}

// Len returns the byte length of the span.
func (s Span) Len() uint32 {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start
}

// Contains reports whether offset falls inside the span.
func (s Span) Contains(offset uint32) bool {
	return offset >= s.Start && offset < s.End
}

// ContainsInclusive treats the end offset as inside the span. Editor
// queries use it so a cursor placed right after the last rune still
// hits the node.
func (s Span) ContainsInclusive(offset uint32) bool {
	return offset >= s.Start && offset <= s.End
}

// Covers reports whether s fully encloses other.
func (s Span) Covers(other Span) bool {
	return s.Start <= other.Start && other.End <= s.End
}
