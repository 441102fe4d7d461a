package lexctx

import (
	"iter"
	"unicode/utf8"
)

// Scanner feeds characters through Step, tracking escapes inside literals.
// The zero value starts in plain code.
type Scanner struct {
	state   State
	escaped bool
}

// NewScanner returns a scanner starting in the given state.
func NewScanner(state State) *Scanner {
	return &Scanner{state: state}
}

// State returns the current lexical state.
func (s *Scanner) State() State {
	return s.state
}

// Feed consumes ch with one character of lookahead.
// When the returned Action has Width 2 the caller must not feed next.
func (s *Scanner) Feed(ch, next rune) Action {
	prev := s.state
	state, action := Step(prev, ch, next, s.escaped)

	s.escaped = prev.InLiteral() && ch == '\\' && !s.escaped
	if action.Width == 2 {
		s.escaped = false
	}
	s.state = state

	return action
}

// Line classifies every rune of line, which must not contain a newline,
// then consumes the line break that follows it.
// The result holds one Class per rune.
func (s *Scanner) Line(line string) []Class {
	classes := make([]Class, 0, len(line))

	for off := 0; off < len(line); {
		ch, size := utf8.DecodeRuneInString(line[off:])
		next, nextSize := peek(line, off+size)
		if off+size >= len(line) {
			next, nextSize = '\n', 0
		}

		action := s.Feed(ch, next)
		classes = append(classes, action.Class)
		off += size

		if action.Width == 2 && nextSize > 0 {
			classes = append(classes, action.Class)
			off += nextSize
		}
	}

	s.Feed('\n', 0)

	return classes
}

// Char is one character of a buffer together with its lexical context.
type Char struct {
	Rune rune

	// Offset is the byte offset of the rune and Size its encoded length.
	// An invalid byte decodes as utf8.RuneError with Size 1.
	Offset int
	Size   int

	// Line and Column are 1-based. Column counts runes.
	Line   int
	Column int

	// State is the lexical state in effect before the character.
	State State

	Class Class
}

// Live reports whether the character is live code.
func (c Char) Live() bool {
	return c.Class == Code
}

// Chars walks text rune by rune starting from plain code.
func Chars(text string) iter.Seq[Char] {
	return CharsFrom(State{}, text)
}

// CharsFrom walks text rune by rune starting from state.
func CharsFrom(state State, text string) iter.Seq[Char] {
	return func(yield func(Char) bool) {
		scanner := NewScanner(state)
		line, col := 1, 1

		emit := func(ch rune, off, size int, st State, class Class) bool {
			ok := yield(Char{Rune: ch, Offset: off, Size: size, Line: line, Column: col, State: st, Class: class})
			if ch == '\n' {
				line++
				col = 1
			} else {
				col++
			}
			return ok
		}

		for off := 0; off < len(text); {
			ch, size := utf8.DecodeRuneInString(text[off:])
			next, nextSize := peek(text, off+size)

			before := scanner.State()
			action := scanner.Feed(ch, next)

			if !emit(ch, off, size, before, action.Class) {
				return
			}
			off += size

			if action.Width == 2 && nextSize > 0 {
				if !emit(next, off, nextSize, before, action.Class) {
					return
				}
				off += nextSize
			}
		}
	}
}

func peek(text string, off int) (rune, int) {
	if off >= len(text) {
		return 0, 0
	}
	return utf8.DecodeRuneInString(text[off:])
}
