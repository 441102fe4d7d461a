package bracket_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/cfmtlint/pkg/bracket"
)

func TestValidate_Balanced(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"int main() { return a[0]; }",
		"if (x) {\n  f(\"}\");\n}",
		"char c = '{';",
		"// ( unclosed in comment\nint x;",
		"/* ] */ y[1];",
		`s = "\")";`,
	}

	for _, input := range inputs {
		assert.Empty(t, bracket.Validate(input), "input %q", input)
	}
}

func TestValidate_UnmatchedCloser(t *testing.T) {
	t.Parallel()

	issues := bracket.Validate(")")
	require.Len(t, issues, 1)
	assert.Equal(t, bracket.Unmatched, issues[0].Kind)
	assert.Equal(t, 1, issues[0].Line)
	assert.Equal(t, 1, issues[0].Column)
	assert.Equal(t, "unmatched ')'", issues[0].Message())
}

func TestValidate_Mismatched(t *testing.T) {
	t.Parallel()

	issues := bracket.Validate("(]")
	require.Len(t, issues, 1)

	issue := issues[0]
	assert.Equal(t, bracket.Mismatched, issue.Kind)
	assert.Equal(t, ']', issue.Found)
	assert.Equal(t, ')', issue.Expected)
	assert.Equal(t, 1, issue.Line)
	assert.Equal(t, 2, issue.Column)
	assert.Equal(t, 1, issue.OpenLine)
	assert.Equal(t, 1, issue.OpenColumn)
	assert.Contains(t, issue.Message(), "expected ')'")
	assert.Contains(t, issue.Message(), "found ']'")
}

func TestValidate_MismatchPopsFrame(t *testing.T) {
	t.Parallel()

	issues := bracket.Validate("{(]}")
	require.Len(t, issues, 1)
	assert.Equal(t, bracket.Mismatched, issues[0].Kind)
}

func TestValidate_SingleUnclosed(t *testing.T) {
	t.Parallel()

	issues := bracket.Validate("int main() {\n  if (x) {\n    y();\n  }\n")
	require.Len(t, issues, 1)
	assert.Equal(t, bracket.Unclosed, issues[0].Kind)
	assert.Equal(t, '{', issues[0].Found)
	assert.Equal(t, 1, issues[0].Line)
	assert.Equal(t, 12, issues[0].Column)
}

func TestValidate_UnclosedOutermostFirst(t *testing.T) {
	t.Parallel()

	issues := bracket.Validate("{\n[\n(")
	require.Len(t, issues, 3)
	assert.Equal(t, '{', issues[0].Found)
	assert.Equal(t, '[', issues[1].Found)
	assert.Equal(t, '(', issues[2].Found)
	assert.Equal(t, 3, issues[2].Line)
}

func TestValidate_ScanOrderBeforeUnclosed(t *testing.T) {
	t.Parallel()

	issues := bracket.Validate("{ ( ]")
	require.Len(t, issues, 2)
	assert.Equal(t, bracket.Mismatched, issues[0].Kind)
	assert.Equal(t, bracket.Unclosed, issues[1].Kind)
	assert.Equal(t, 1, issues[1].Column)

	issues = bracket.Validate("( ] ]")
	require.Len(t, issues, 2)
	assert.Equal(t, bracket.Mismatched, issues[0].Kind)
	assert.Equal(t, bracket.Unmatched, issues[1].Kind)
	assert.Equal(t, 5, issues[1].Column)
}

func TestPair(t *testing.T) {
	t.Parallel()

	match, closing, ok := bracket.Pair('[')
	assert.True(t, ok)
	assert.False(t, closing)
	assert.Equal(t, ']', match)

	match, closing, ok = bracket.Pair('}')
	assert.True(t, ok)
	assert.True(t, closing)
	assert.Equal(t, '{', match)

	_, _, ok = bracket.Pair('x')
	assert.False(t, ok)
}
