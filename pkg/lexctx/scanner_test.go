package lexctx_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/cfmtlint/pkg/lexctx"
)

func liveText(text string) string {
	var builder strings.Builder
	for char := range lexctx.Chars(text) {
		if char.Live() {
			builder.WriteRune(char.Rune)
		}
	}
	return builder.String()
}

func TestChars_LiveCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain", "a(b)", "a(b)"},
		{"line comment", "x; // {\ny", "x; \ny"},
		{"block comment", "a /* ( */ b", "a  b"},
		{"string", `f("{")`, "f()"},
		{"char", `c = '(';`, "c = ;"},
		{"escaped quote", `s = "a\"{";`, "s = ;"},
		{"double backslash ends string", `s = "\\"; {`, "s = ; {"},
		{"comment in string", `"//" x`, " x"},
		{"string in comment", `/* " */ y`, " y"},
		{"unterminated string stops at newline", "s = \"abc\n{", "s = \n{"},
		{"block comment does not reopen on slash", "/*/ x */ y", " y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, liveText(tt.text))
		})
	}
}

func TestChars_Positions(t *testing.T) {
	t.Parallel()

	var chars []lexctx.Char
	for char := range lexctx.Chars("a\nbé}") {
		chars = append(chars, char)
	}

	require.Len(t, chars, 5)
	assert.Equal(t, 1, chars[0].Line)
	assert.Equal(t, 1, chars[0].Column)
	assert.Equal(t, 2, chars[2].Line)
	assert.Equal(t, 1, chars[2].Column)
	assert.Equal(t, 'é', chars[3].Rune)
	assert.Equal(t, 2, chars[3].Column)
	assert.Equal(t, '}', chars[4].Rune)
	assert.Equal(t, 3, chars[4].Column)
	assert.Equal(t, 5, chars[4].Offset)
	assert.Equal(t, 2, chars[3].Size)
	assert.Equal(t, 1, chars[4].Size)
}

func TestChars_InvalidByteSize(t *testing.T) {
	t.Parallel()

	var chars []lexctx.Char
	for char := range lexctx.Chars("a\xe9b") {
		chars = append(chars, char)
	}

	require.Len(t, chars, 3)
	assert.Equal(t, utf8.RuneError, chars[1].Rune)
	assert.Equal(t, 1, chars[1].Size)
	assert.Equal(t, 2, chars[2].Offset)
}

func TestChars_EarlyStop(t *testing.T) {
	t.Parallel()

	count := 0
	for range lexctx.Chars("abcdef") {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestScanner_Line(t *testing.T) {
	t.Parallel()

	scanner := lexctx.NewScanner(lexctx.State{})

	classes := scanner.Line(`x = "a"; /* c`)
	require.Len(t, classes, 13)
	assert.Equal(t, lexctx.Code, classes[0])
	assert.Equal(t, lexctx.Quote, classes[4])
	assert.Equal(t, lexctx.Literal, classes[5])
	assert.Equal(t, lexctx.Comment, classes[9])
	assert.Equal(t, lexctx.Comment, classes[10])
	assert.True(t, scanner.State().InBlockComment)

	classes = scanner.Line("end */ {")
	assert.Equal(t, lexctx.Comment, classes[0])
	assert.Equal(t, lexctx.Code, classes[7])
	assert.True(t, scanner.State().IsCode())
}

func TestScanner_LineEndsLineComment(t *testing.T) {
	t.Parallel()

	scanner := lexctx.NewScanner(lexctx.State{})
	scanner.Line("int x; // note")
	assert.True(t, scanner.State().IsCode())
}
