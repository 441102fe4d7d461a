package csource

// Position is a 1-based line and rune column.
type Position struct {
	Line   int
	Column int
}

// IsValid reports whether both fields are positive.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

// Span is a 1-based range. Start is inclusive, end is exclusive.
type Span struct {
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// PointSpan covers a single character.
func PointSpan(line, col int) Span {
	return Span{StartLine: line, StartColumn: col, EndLine: line, EndColumn: col + 1}
}

// LineSpan covers columns [startCol, endCol) of one line.
func LineSpan(line, startCol, endCol int) Span {
	return Span{StartLine: line, StartColumn: startCol, EndLine: line, EndColumn: endCol}
}

// Start returns the start position.
func (s Span) Start() Position {
	return Position{Line: s.StartLine, Column: s.StartColumn}
}

// End returns the end position.
func (s Span) End() Position {
	return Position{Line: s.EndLine, Column: s.EndColumn}
}

// IsValid reports whether both ends are valid positions.
func (s Span) IsValid() bool {
	return s.Start().IsValid() && s.End().IsValid()
}

// Before orders spans by start position.
func (s Span) Before(other Span) bool {
	if s.StartLine != other.StartLine {
		return s.StartLine < other.StartLine
	}
	return s.StartColumn < other.StartColumn
}
