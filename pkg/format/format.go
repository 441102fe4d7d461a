package format

import (
	"context"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yaklabco/cfmtlint/internal/logging"
	"github.com/yaklabco/cfmtlint/pkg/lexctx"
)

// Processing bounds.
const (
	// MaxChars is the largest buffer, in characters, that is formatted at all.
	MaxChars = 100000

	// MaxLines is the number of leading lines that are formatted. Later
	// lines are appended unchanged.
	MaxLines = 1000

	// MaxIndent caps the running indent level.
	MaxIndent = 20
)

// Status describes what Reindent did with its input.
type Status int

const (
	// Formatted means every line was processed.
	Formatted Status = iota
	// Empty means the input was blank and the result is "".
	Empty
	// SkippedTooLarge means the input exceeded MaxChars and was returned unchanged.
	SkippedTooLarge
	// Truncated means only the first MaxLines lines were processed.
	Truncated
	// Failed means an internal fault occurred and the input was returned unchanged.
	Failed
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case Formatted:
		return "formatted"
	case Empty:
		return "empty"
	case SkippedTooLarge:
		return "skipped-too-large"
	case Truncated:
		return "truncated"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of Reindent.
type Result struct {
	Text   string
	Status Status
}

// Changed reports whether the text differs from input.
func (r Result) Changed(input string) bool {
	return r.Text != input
}

var (
	keywordParen = regexp.MustCompile(`\b(if|while|for|switch|return|sizeof)\(`)
	callParen    = regexp.MustCompile(`\b([A-Za-z_][A-Za-z0-9_]*)\(`)
	assignOp     = regexp.MustCompile(`([a-zA-Z0-9_])\s*=\s*([a-zA-Z0-9_])`)
	greaterOp    = regexp.MustCompile(`([a-zA-Z0-9_])\s*>\s*([a-zA-Z0-9_])`)
	lessOp       = regexp.MustCompile(`([a-zA-Z0-9_])\s*<\s*([a-zA-Z0-9_])`)
	commaSpace   = regexp.MustCompile(`,\s*`)
)

// Format reindents text with opts. It never fails: on any disqualifying
// condition it returns the input unchanged, and blank input yields "".
func Format(text string, opts Options) string {
	return Reindent(context.Background(), text, opts).Text
}

// Reindent is Format with an explicit status and a context carrying the logger.
func Reindent(ctx context.Context, text string, opts Options) (result Result) {
	logger := logging.FromContext(ctx)

	if strings.TrimSpace(text) == "" {
		return Result{Text: "", Status: Empty}
	}

	if chars := utf8.RuneCountInString(text); chars > MaxChars {
		logger.Warn("input too large, skipping format",
			logging.FieldChars, chars, logging.FieldLimit, MaxChars)
		return Result{Text: text, Status: SkippedTooLarge}
	}

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("format failed, returning input unchanged", logging.FieldError, rec)
			result = Result{Text: text, Status: Failed}
		}
	}()

	newline := "\n"
	if strings.Contains(text, "\r\n") {
		newline = "\r\n"
	}

	lines := strings.Split(text, "\n")
	for idx := range lines {
		lines[idx] = strings.TrimSuffix(lines[idx], "\r")
	}

	count := len(lines)
	if lines[count-1] == "" {
		count--
	}

	status := Formatted
	head, tail := lines, []string(nil)
	if count > MaxLines {
		head, tail = lines[:MaxLines], lines[MaxLines:]
		status = Truncated
		logger.Warn("input has too many lines, formatting prefix only",
			logging.FieldLines, count, logging.FieldLimit, MaxLines)
	}

	engine := newReindenter(ctx, opts.normalized())
	out := make([]string, 0, len(lines))
	for _, line := range head {
		out = append(out, engine.line(line))
	}
	out = append(out, tail...)

	return Result{Text: strings.Join(out, newline), Status: status}
}

type reindenter struct {
	ctx     context.Context
	opts    Options
	scanner *lexctx.Scanner
	level   int
	lineNo  int
}

func newReindenter(ctx context.Context, opts Options) *reindenter {
	return &reindenter{
		ctx:     ctx,
		opts:    opts,
		scanner: lexctx.NewScanner(lexctx.State{}),
	}
}

// line formats one input line and advances the running indent level.
// Output is sliced from raw, so bytes that are not valid UTF-8 survive.
func (r *reindenter) line(raw string) string {
	r.lineNo++

	start := r.scanner.State()
	classes := r.scanner.Line(raw)
	runes, offsets := runeOffsets(raw)

	lead, trail := 0, len(runes)
	for lead < trail && unicode.IsSpace(runes[lead]) {
		lead++
	}
	for trail > lead && unicode.IsSpace(runes[trail-1]) {
		trail--
	}

	if lead == trail {
		return ""
	}

	// Lines opened inside a block comment or a continued literal keep
	// their text, but braces after a closing "*/" still count.
	if start.InBlockComment || start.InLiteral() {
		r.advance(runes, classes)
		return raw
	}

	trimmed := raw[offsets[lead]:offsets[trail]]

	if strings.HasPrefix(trimmed, "#") {
		return raw
	}

	level := r.level
	if r.dedents(trimmed) {
		level = max(level-1, 0)
	}

	formatted := r.normalize(trimmed, offsets[lead:trail+1], classes[lead:trail])
	r.advance(runes, classes)

	return r.indent(level) + formatted
}

// runeOffsets returns the runes of s and the byte offset of each, followed
// by len(s). An invalid byte counts as one RuneError.
func runeOffsets(s string) ([]rune, []int) {
	runes := make([]rune, 0, len(s))
	offsets := make([]int, 0, len(s)+1)
	for off, ch := range s {
		runes = append(runes, ch)
		offsets = append(offsets, off)
	}
	return runes, append(offsets, len(s))
}

func (r *reindenter) dedents(trimmed string) bool {
	if strings.HasPrefix(trimmed, "}") || hasWord(trimmed, "else") {
		return true
	}
	if !r.opts.IndentCaseLabels {
		return hasWord(trimmed, "case") || hasWord(trimmed, "default")
	}
	return false
}

// hasWord reports whether s starts with word followed by a non-identifier
// character or the end of s.
func hasWord(s, word string) bool {
	if !strings.HasPrefix(s, word) {
		return false
	}
	rest := s[len(word):]
	if rest == "" {
		return true
	}
	next, _ := utf8.DecodeRuneInString(rest)
	return next != '_' && !unicode.IsLetter(next) && !unicode.IsDigit(next)
}

// advance applies the live brace delta of a line to the indent level.
func (r *reindenter) advance(runes []rune, classes []lexctx.Class) {
	delta := 0
	for idx, ch := range runes {
		if idx >= len(classes) || classes[idx] != lexctx.Code {
			continue
		}
		switch ch {
		case '{':
			delta++
		case '}':
			delta--
		}
	}
	r.level = min(max(r.level+delta, 0), MaxIndent)
}

func (r *reindenter) indent(level int) string {
	if r.opts.InsertSpaces {
		return strings.Repeat(" ", level*r.opts.TabSize)
	}
	return strings.Repeat("\t", level)
}

// normalize applies spacing rules to the live-code runs of a trimmed line.
// offsets holds the byte offset of each rune in the enclosing line plus the
// end offset. A fault here falls back to the trimmed line.
func (r *reindenter) normalize(body string, offsets []int, classes []lexctx.Class) (out string) {
	defer func() {
		if rec := recover(); rec != nil {
			logging.FromContext(r.ctx).Debug("spacing skipped for line",
				logging.FieldLine, r.lineNo, logging.FieldError, rec)
			out = body
		}
	}()

	base := offsets[0]

	var builder strings.Builder
	for start := 0; start < len(classes); {
		live := classes[start] == lexctx.Code
		end := start
		for end < len(classes) && (classes[end] == lexctx.Code) == live {
			end++
		}

		segment := body[offsets[start]-base : offsets[end]-base]
		if live {
			segment = r.space(segment)
		}
		builder.WriteString(segment)
		start = end
	}

	return strings.TrimRightFunc(builder.String(), unicode.IsSpace)
}

func (r *reindenter) space(code string) string {
	if r.opts.SpaceAfterKeywords {
		code = keywordParen.ReplaceAllString(code, "$1 (")
	}
	if r.opts.SpaceBeforeFunctionParens {
		code = callParen.ReplaceAllStringFunc(code, func(match string) string {
			name := strings.TrimSuffix(match, "(")
			if keywordParen.MatchString(match) {
				return match
			}
			return name + " ("
		})
	}

	code = assignOp.ReplaceAllString(code, "$1 = $2")
	code = greaterOp.ReplaceAllString(code, "$1 > $2")
	code = lessOp.ReplaceAllString(code, "$1 < $2")
	code = commaSpace.ReplaceAllString(code, ", ")

	return code
}
