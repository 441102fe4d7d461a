// Package lexctx tracks the lexical context of C-like source text.
//
// The tracker answers one question for every character of a buffer: is it
// live code, or does it sit inside a line comment, block comment, string
// literal or character literal? The bracket validator, the heuristic rules
// and the reindent engine all read the buffer through this package so they
// agree on what counts as code.
package lexctx

// State is the instantaneous lexical context between two characters.
//
// At most one of InString, InChar and InBlockComment is true.
// InLineComment excludes all the others and is cleared at each newline.
type State struct {
	InLineComment  bool
	InBlockComment bool
	InString       bool
	InChar         bool
}

// InComment reports whether the state is inside either comment form.
func (s State) InComment() bool {
	return s.InLineComment || s.InBlockComment
}

// InLiteral reports whether the state is inside a string or char literal.
func (s State) InLiteral() bool {
	return s.InString || s.InChar
}

// IsCode reports whether the state is plain code.
func (s State) IsCode() bool {
	return !s.InComment() && !s.InLiteral()
}

// Class classifies a single character.
type Class uint8

const (
	// Code is live code.
	Code Class = iota
	// Comment covers comment delimiters and comment bodies.
	Comment
	// Quote is an opening or closing literal delimiter.
	Quote
	// Literal is the body of a string or char literal.
	Literal
)

// String returns the class name.
func (c Class) String() string {
	switch c {
	case Code:
		return "code"
	case Comment:
		return "comment"
	case Quote:
		return "quote"
	case Literal:
		return "literal"
	default:
		return "unknown"
	}
}

// Action describes how Step consumed input.
type Action struct {
	// Class is the classification of the consumed character(s).
	Class Class

	// Width is 2 when a two-character comment delimiter was consumed
	// (the lookahead character belongs to it), otherwise 1.
	Width int
}

// Live reports whether the consumed character is live code.
func (a Action) Live() bool {
	return a.Class == Code
}

// Step advances state past ch.
//
// next is the following character (0 at end of input) and escaped reports
// whether ch is preceded by an odd number of backslashes inside a literal.
// An unescaped newline terminates an unterminated string or char literal.
func Step(state State, ch, next rune, escaped bool) (State, Action) {
	switch {
	case state.InLineComment:
		if ch == '\n' {
			state.InLineComment = false
			return state, Action{Class: Code, Width: 1}
		}
		return state, Action{Class: Comment, Width: 1}

	case state.InBlockComment:
		if ch == '*' && next == '/' {
			state.InBlockComment = false
			return state, Action{Class: Comment, Width: 2}
		}
		return state, Action{Class: Comment, Width: 1}

	case state.InString:
		return stepLiteral(state, ch, '"', escaped)

	case state.InChar:
		return stepLiteral(state, ch, '\'', escaped)
	}

	switch {
	case ch == '/' && next == '/':
		state.InLineComment = true
		return state, Action{Class: Comment, Width: 2}
	case ch == '/' && next == '*':
		state.InBlockComment = true
		return state, Action{Class: Comment, Width: 2}
	case ch == '"':
		state.InString = true
		return state, Action{Class: Quote, Width: 1}
	case ch == '\'':
		state.InChar = true
		return state, Action{Class: Quote, Width: 1}
	}

	return state, Action{Class: Code, Width: 1}
}

func stepLiteral(state State, ch, closer rune, escaped bool) (State, Action) {
	if escaped {
		return state, Action{Class: Literal, Width: 1}
	}

	switch ch {
	case closer:
		state.InString = false
		state.InChar = false
		return state, Action{Class: Quote, Width: 1}
	case '\n':
		state.InString = false
		state.InChar = false
		return state, Action{Class: Code, Width: 1}
	}

	return state, Action{Class: Literal, Width: 1}
}
