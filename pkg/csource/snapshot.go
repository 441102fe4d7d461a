// Package csource provides an immutable view of a C source buffer.
//
// A Snapshot carries the raw content, a line index, the lexical state at
// the start of every line and two masked copies of the content: Code with
// comments blanked, and Bare with comments and literal bodies blanked.
// Masked copies keep byte offsets, so a match in Bare maps straight back
// to Content.
package csource

import "github.com/yaklabco/cfmtlint/pkg/lexctx"

// Snapshot is an immutable view of a source buffer at a specific time.
type Snapshot struct {
	// Path is the file path (may be empty for in-memory content).
	Path string

	// Content is the full buffer.
	Content []byte

	// Lines contains metadata for each line.
	Lines []LineInfo

	// LineStates holds the lexical state at the start of each line.
	LineStates []lexctx.State

	// Code is Content with comments replaced by spaces.
	Code string

	// Bare is Content with comments and literal bodies replaced by spaces.
	Bare string
}

// LineInfo holds metadata for a single line.
type LineInfo struct {
	// StartOffset is the byte index of the line start.
	StartOffset int

	// NewlineStart is the byte index where newline characters begin.
	// For a line without a trailing newline this equals EndOffset.
	NewlineStart int

	// EndOffset is the byte index just after the newline (or end of buffer).
	EndOffset int
}

// NewSnapshot builds a snapshot of content.
func NewSnapshot(path string, content []byte) *Snapshot {
	text := string(content)

	return &Snapshot{
		Path:       path,
		Content:    content,
		Lines:      BuildLines(content),
		LineStates: lexctx.LineStarts(text),
		Code:       lexctx.Mask(text, lexctx.MaskComments),
		Bare:       lexctx.Mask(text, lexctx.MaskComments|lexctx.MaskLiterals),
	}
}

// Text returns the content as a string.
func (s *Snapshot) Text() string {
	return string(s.Content)
}

// StateAt returns the lexical state at the start of a 1-based line.
func (s *Snapshot) StateAt(line int) lexctx.State {
	if line < 1 || line > len(s.LineStates) {
		return lexctx.State{}
	}
	return s.LineStates[line-1]
}
