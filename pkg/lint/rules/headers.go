package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yaklabco/cfmtlint/pkg/csource"
	"github.com/yaklabco/cfmtlint/pkg/fix"
	"github.com/yaklabco/cfmtlint/pkg/lint"
)

// headerCategory maps a standard header to functions that need it.
type headerCategory struct {
	name      string // "stdio"
	header    string // "stdio.h"
	functions []string
	uses      *regexp.Regexp
	include   *regexp.Regexp
}

func newHeaderCategory(name string, functions ...string) headerCategory {
	header := name + ".h"
	return headerCategory{
		name:      name,
		header:    header,
		functions: functions,
		uses:      regexp.MustCompile(`\b(?:` + strings.Join(functions, "|") + `)\b`),
		include:   regexp.MustCompile(`#\s*include\s*[<"]` + regexp.QuoteMeta(header) + `[>"]`),
	}
}

//nolint:gochecknoglobals // Compiled once, read-only.
var headerCategories = []headerCategory{
	newHeaderCategory("stdio", "printf", "scanf", "getchar", "putchar"),
	newHeaderCategory("stdlib", "malloc", "free", "exit", "rand"),
	newHeaderCategory("string", "strlen", "strcmp", "strcpy", "strcat"),
	newHeaderCategory("math", "sqrt", "pow", "fabs"),
}

// MissingHeaderRule warns when standard functions are used without their header.
type MissingHeaderRule struct {
	lint.BaseRule
}

// NewMissingHeaderRule creates the C002 rule.
func NewMissingHeaderRule() *MissingHeaderRule {
	return &MissingHeaderRule{
		BaseRule: lint.NewBaseRule(
			"C002",
			"missing-header",
			"Standard library functions require their header to be included",
			[]string{"headers", "preprocessor"},
			true,
		),
	}
}

// Apply emits one diagnostic per header category at the start of the buffer.
// Function names are matched in code only; includes are matched with comments
// masked, so a commented-out include does not count.
func (r *MissingHeaderRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil || len(ctx.File.Content) == 0 {
		return nil, nil
	}

	var diags []lint.Diagnostic

	for _, cat := range headerCategories {
		if !cat.uses.MatchString(ctx.File.Bare) || cat.include.MatchString(ctx.File.Code) {
			continue
		}

		directive := fmt.Sprintf("#include <%s>", cat.header)
		diags = append(diags, ctx.Diagnostic(r.ID(), csource.PointSpan(1, 1),
			fmt.Sprintf("uses %s functions, consider %s", cat.name, directive)).
			WithKind(lint.KindMissingHeader).
			WithSuggestion(fmt.Sprintf("Add %s at the top of the file", directive)).
			WithFix(fix.NewEditBuilder().Insert(0, directive+lineEnding(ctx.File))).
			Build())
	}

	return diags, nil
}

// lineEnding returns the newline style used by the file.
func lineEnding(file *csource.Snapshot) string {
	if len(file.Lines) > 0 {
		first := file.Lines[0]
		if first.EndOffset-first.NewlineStart == 2 {
			return "\r\n"
		}
	}
	return "\n"
}
