package csource

import (
	"sort"
	"unicode/utf8"
)

// BuildLines constructs line metadata from content.
// It handles both LF and CRLF line endings.
func BuildLines(content []byte) []LineInfo {
	if len(content) == 0 {
		return []LineInfo{}
	}

	var lines []LineInfo
	lineStart := 0

	for idx, char := range content {
		if char != '\n' {
			continue
		}

		newlineStart := idx
		if idx > 0 && content[idx-1] == '\r' {
			newlineStart = idx - 1
		}

		lines = append(lines, LineInfo{
			StartOffset:  lineStart,
			NewlineStart: newlineStart,
			EndOffset:    idx + 1,
		})
		lineStart = idx + 1
	}

	lines = append(lines, LineInfo{
		StartOffset:  lineStart,
		NewlineStart: len(content),
		EndOffset:    len(content),
	})

	return lines
}

// LineCount returns the number of lines.
func (s *Snapshot) LineCount() int {
	return len(s.Lines)
}

// LineContent returns a 1-based line without its newline, or "" when out of range.
func (s *Snapshot) LineContent(line int) string {
	return s.slice(s.Text(), line)
}

// CodeLine returns a 1-based line of Code.
func (s *Snapshot) CodeLine(line int) string {
	return s.slice(s.Code, line)
}

// BareLine returns a 1-based line of Bare.
func (s *Snapshot) BareLine(line int) string {
	return s.slice(s.Bare, line)
}

func (s *Snapshot) slice(text string, line int) string {
	if line < 1 || line > len(s.Lines) {
		return ""
	}
	info := s.Lines[line-1]
	if info.NewlineStart > len(text) {
		return ""
	}
	return text[info.StartOffset:info.NewlineStart]
}

// LineAt converts a byte offset to a 1-based line and rune column.
// Returns (0, 0) if the offset is out of range.
func (s *Snapshot) LineAt(offset int) (int, int) {
	if offset < 0 || len(s.Lines) == 0 || offset > len(s.Content) {
		return 0, 0
	}

	lineIdx := sort.Search(len(s.Lines), func(i int) bool {
		return s.Lines[i].EndOffset > offset
	})
	if lineIdx >= len(s.Lines) {
		lineIdx = len(s.Lines) - 1
	}

	info := s.Lines[lineIdx]
	if offset < info.StartOffset {
		return 0, 0
	}

	return lineIdx + 1, utf8.RuneCount(s.Content[info.StartOffset:offset]) + 1
}

// Offset converts a 1-based line and rune column to a byte offset.
// The column may point one past the end of the line.
func (s *Snapshot) Offset(line, col int) (int, bool) {
	if line < 1 || line > len(s.Lines) || col < 1 {
		return 0, false
	}

	info := s.Lines[line-1]
	offset := info.StartOffset

	for range col - 1 {
		if offset >= info.NewlineStart {
			return 0, false
		}
		_, size := utf8.DecodeRune(s.Content[offset:info.NewlineStart])
		offset += size
	}

	return offset, true
}

// Column converts a byte index within a line string to a 1-based rune column.
func Column(line string, byteIdx int) int {
	if byteIdx > len(line) {
		byteIdx = len(line)
	}
	if byteIdx < 0 {
		byteIdx = 0
	}
	return utf8.RuneCountInString(line[:byteIdx]) + 1
}
