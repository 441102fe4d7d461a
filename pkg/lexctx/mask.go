package lexctx

import (
	"strings"
	"unicode/utf8"
)

// MaskMode selects which character classes Mask blanks out.
type MaskMode uint8

const (
	// MaskComments blanks comment delimiters and bodies.
	MaskComments MaskMode = 1 << iota
	// MaskLiterals blanks string and char literal bodies. Quotes are kept.
	MaskLiterals
)

// Mask returns text with the selected classes replaced by spaces.
// Newlines are kept and every masked rune becomes as many spaces as it
// has bytes, so byte offsets in the result match the input. Unmasked
// bytes, invalid UTF-8 included, are copied through unchanged.
func Mask(text string, mode MaskMode) string {
	var builder strings.Builder
	builder.Grow(len(text))

	for char := range Chars(text) {
		masked := (char.Class == Comment && mode&MaskComments != 0) ||
			(char.Class == Literal && mode&MaskLiterals != 0)

		if masked && char.Rune != '\n' && char.Rune != '\r' {
			builder.WriteString(strings.Repeat(" ", char.Size))
			continue
		}
		builder.WriteString(text[char.Offset : char.Offset+char.Size])
	}

	return builder.String()
}

// StripComments blanks all comments in text.
func StripComments(text string) string {
	return Mask(text, MaskComments)
}

// LineStarts returns the lexical state at the start of each line.
// The result has one entry per line, counting a final unterminated line.
func LineStarts(text string) []State {
	states := make([]State, 1, strings.Count(text, "\n")+1)
	scanner := NewScanner(State{})

	for off := 0; off < len(text); {
		ch, size := utf8.DecodeRuneInString(text[off:])
		next, nextSize := peek(text, off+size)

		action := scanner.Feed(ch, next)
		off += size
		if action.Width == 2 {
			off += nextSize
		}

		if ch == '\n' {
			states = append(states, scanner.State())
		}
	}

	return states
}
