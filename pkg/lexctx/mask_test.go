package lexctx_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/cfmtlint/pkg/lexctx"
)

func TestMask(t *testing.T) {
	t.Parallel()

	text := "a = \"str\"; // note\n/* x */ b;"

	assert.Equal(t, "a = \"str\";        \n        b;", lexctx.StripComments(text))
	assert.Equal(t, "a = \"   \"; // note\n/* x */ b;", lexctx.Mask(text, lexctx.MaskLiterals))
	assert.Equal(t, "a = \"   \";        \n        b;",
		lexctx.Mask(text, lexctx.MaskComments|lexctx.MaskLiterals))
}

func TestMask_PreservesByteOffsets(t *testing.T) {
	t.Parallel()

	text := "x; // héllo\ny"
	masked := lexctx.StripComments(text)
	assert.Len(t, masked, len(text))
	assert.Equal(t, byte('y'), masked[len(masked)-1])
}

func TestLineStarts(t *testing.T) {
	t.Parallel()

	states := lexctx.LineStarts("a\n/* b\nc */\nd // e\nf")

	assert.Len(t, states, 5)
	assert.True(t, states[0].IsCode())
	assert.True(t, states[1].IsCode())
	assert.True(t, states[2].InBlockComment)
	assert.True(t, states[3].IsCode())
	assert.True(t, states[4].IsCode())
}

func TestLineStarts_StringContinuation(t *testing.T) {
	t.Parallel()

	states := lexctx.LineStarts("s = \"a\\\nb\";\nc")

	assert.Len(t, states, 3)
	assert.True(t, states[1].InString)
	assert.True(t, states[2].IsCode())
}

func TestMask_InvalidUTF8(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		mode lexctx.MaskMode
		text string
		want string
	}{
		{
			name: "literal masked",
			mode: lexctx.MaskLiterals,
			text: "s = \"\xe9\xe9\";\nx",
			want: "s = \"  \";\nx",
		},
		{
			name: "comment masked",
			mode: lexctx.MaskComments,
			text: "a; // caf\xe9\nb",
			want: "a;        \nb",
		},
		{
			name: "code copied through",
			mode: lexctx.MaskComments | lexctx.MaskLiterals,
			text: "int \xff\xfe = 1;",
			want: "int \xff\xfe = 1;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := lexctx.Mask(tt.text, tt.mode)
			assert.Len(t, got, len(tt.text))
			assert.Equal(t, tt.want, got)
		})
	}
}
