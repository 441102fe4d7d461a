// Package bracket checks that braces, parentheses and square brackets in
// C-like source are balanced, ignoring any that appear inside comments,
// string literals or character literals.
package bracket

import (
	"fmt"

	"github.com/yaklabco/cfmtlint/pkg/lexctx"
)

// Kind classifies a bracket problem.
type Kind int

const (
	// Unmatched is a closing bracket with nothing open.
	Unmatched Kind = iota
	// Mismatched is a closing bracket that does not close the innermost opener.
	Mismatched
	// Unclosed is an opener still open at end of input.
	Unclosed
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Unmatched:
		return "unmatched"
	case Mismatched:
		return "mismatched"
	case Unclosed:
		return "unclosed"
	default:
		return "unknown"
	}
}

// Pair returns the partner of a bracket rune and whether r closes.
// ok is false when r is not a bracket.
func Pair(r rune) (match rune, closing, ok bool) {
	switch r {
	case '{':
		return '}', false, true
	case '}':
		return '{', true, true
	case '(':
		return ')', false, true
	case ')':
		return '(', true, true
	case '[':
		return ']', false, true
	case ']':
		return '[', true, true
	}
	return 0, false, false
}

// Frame is an open bracket awaiting its closer.
type Frame struct {
	Open     rune
	Expected rune
	Line     int
	Column   int
}

// Issue is a single bracket problem. Positions are 1-based and columns
// count runes.
type Issue struct {
	Kind Kind

	// Found is the offending character: the closer for Unmatched and
	// Mismatched, the opener for Unclosed.
	Found rune

	// Expected is the closer the innermost frame wanted. Zero for Unmatched.
	Expected rune

	Line   int
	Column int

	// OpenLine and OpenColumn locate the opener involved in a Mismatched issue.
	OpenLine   int
	OpenColumn int
}

// Message renders the issue for humans.
func (i Issue) Message() string {
	switch i.Kind {
	case Unmatched:
		return fmt.Sprintf("unmatched '%c'", i.Found)
	case Mismatched:
		return fmt.Sprintf("mismatched bracket: expected '%c' to close '%c' at %d:%d but found '%c'",
			i.Expected, i.openRune(), i.OpenLine, i.OpenColumn, i.Found)
	case Unclosed:
		return fmt.Sprintf("unclosed '%c', expected '%c'", i.Found, i.Expected)
	default:
		return "bracket problem"
	}
}

func (i Issue) openRune() rune {
	open, _, _ := Pair(i.Expected)
	return open
}

// Validate scans text once and reports bracket problems.
//
// Unmatched and Mismatched issues come in scan order. A mismatched closer
// still pops its frame so scanning continues. Frames left open at the end
// are reported as Unclosed, outermost first.
func Validate(text string) []Issue {
	var (
		issues []Issue
		stack  []Frame
	)

	for char := range lexctx.Chars(text) {
		if !char.Live() {
			continue
		}

		match, closing, ok := Pair(char.Rune)
		if !ok {
			continue
		}

		if !closing {
			stack = append(stack, Frame{
				Open:     char.Rune,
				Expected: match,
				Line:     char.Line,
				Column:   char.Column,
			})
			continue
		}

		if len(stack) == 0 {
			issues = append(issues, Issue{
				Kind:   Unmatched,
				Found:  char.Rune,
				Line:   char.Line,
				Column: char.Column,
			})
			continue
		}

		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if top.Expected != char.Rune {
			issues = append(issues, Issue{
				Kind:       Mismatched,
				Found:      char.Rune,
				Expected:   top.Expected,
				Line:       char.Line,
				Column:     char.Column,
				OpenLine:   top.Line,
				OpenColumn: top.Column,
			})
		}
	}

	for _, frame := range stack {
		issues = append(issues, Issue{
			Kind:     Unclosed,
			Found:    frame.Open,
			Expected: frame.Expected,
			Line:     frame.Line,
			Column:   frame.Column,
		})
	}

	return issues
}
