package format_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/cfmtlint/internal/logging"
	"github.com/yaklabco/cfmtlint/pkg/format"
)

func TestFormat_EndToEnd(t *testing.T) {
	t.Parallel()

	input := `int main(){
int x=10,y=20;
if(x>y){
printf("x is greater\n");
}else{
printf("y is greater\n");
}
return 0;
}`

	want := `int main(){
    int x = 10, y = 20;
    if (x > y){
        printf("x is greater\n");
    }else{
        printf("y is greater\n");
    }
    return 0;
}`

	assert.Equal(t, want, format.Format(input, format.DefaultOptions()))
}

func TestFormat_Blank(t *testing.T) {
	t.Parallel()

	assert.Empty(t, format.Format("", format.DefaultOptions()))
	assert.Empty(t, format.Format("   \n  \n", format.DefaultOptions()))

	result := format.Reindent(context.Background(), "\t\n", format.DefaultOptions())
	assert.Equal(t, format.Empty, result.Status)
}

func TestFormat_TooLargeIsIdentity(t *testing.T) {
	t.Parallel()

	input := strings.Repeat("x=1;\n", format.MaxChars/5+1)
	require.Greater(t, len(input), format.MaxChars)

	result := format.Reindent(logging.WithLogger(context.Background(), logging.New("error")),
		input, format.DefaultOptions())
	assert.Equal(t, input, result.Text)
	assert.Equal(t, format.SkippedTooLarge, result.Status)
}

func TestFormat_LineCapAppendsRemainderVerbatim(t *testing.T) {
	t.Parallel()

	lines := make([]string, 0, format.MaxLines+2)
	for range format.MaxLines {
		lines = append(lines, "a=b;")
	}
	lines = append(lines, "  c=d;", "{")
	input := strings.Join(lines, "\n")

	result := format.Reindent(logging.WithLogger(context.Background(), logging.New("error")),
		input, format.DefaultOptions())
	assert.Equal(t, format.Truncated, result.Status)

	out := strings.Split(result.Text, "\n")
	require.Len(t, out, format.MaxLines+2)
	assert.Equal(t, "a = b;", out[0])
	assert.Equal(t, "  c=d;", out[format.MaxLines])
	assert.Equal(t, "{", out[format.MaxLines+1])
}

func TestFormat_Lines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		opts  func(*format.Options)
		want  string
	}{
		{
			name:  "preprocessor lines verbatim and ignored for depth",
			input: "void f() {\n  #define X {\nx;\n}",
			want:  "void f() {\n  #define X {\n    x;\n}",
		},
		{
			name:  "block comment lines keep their indentation",
			input: "void f() {\n/*\n      keep { me\n*/\nx;\n}",
			want:  "void f() {\n    /*\n      keep { me\n*/\n    x;\n}",
		},
		{
			name:  "braces in strings and comments do not count",
			input: "s = \"{\"; // {\nc = '{';\nx;",
			want:  "s = \"{\"; // {\nc = '{';\nx;",
		},
		{
			name:  "spacing skips string contents",
			input: "printf(\"a=b,c\",x=y);",
			want:  "printf(\"a=b,c\", x = y);",
		},
		{
			name:  "else dedents",
			input: "if (a) {\nx;\n}\nelse {\ny;\n}",
			want:  "if (a) {\n    x;\n}\nelse {\n    y;\n}",
		},
		{
			name:  "identifier starting with else does not dedent",
			input: "{\nelsewhere = 1;\n}",
			want:  "{\n    elsewhere = 1;\n}",
		},
		{
			name:  "tabs",
			input: "{\nx;\n}",
			opts:  func(o *format.Options) { o.InsertSpaces = false },
			want:  "{\n\tx;\n}",
		},
		{
			name:  "tab size",
			input: "{\nx;\n}",
			opts:  func(o *format.Options) { o.TabSize = 2 },
			want:  "{\n  x;\n}",
		},
		{
			name:  "keywords left alone when disabled",
			input: "while(x) f();",
			opts:  func(o *format.Options) { o.SpaceAfterKeywords = false },
			want:  "while(x) f();",
		},
		{
			name:  "space before function parens",
			input: "if(x) call(y);",
			opts:  func(o *format.Options) { o.SpaceBeforeFunctionParens = true },
			want:  "if (x) call (y);",
		},
		{
			name:  "case labels indented by default",
			input: "switch(c) {\ncase 1:\nbreak;\ndefault:\nbreak;\n}",
			want:  "switch (c) {\n    case 1:\n    break;\n    default:\n    break;\n}",
		},
		{
			name:  "case labels flush with switch",
			input: "switch(c) {\ncase 1:\nbreak;\n}",
			opts:  func(o *format.Options) { o.IndentCaseLabels = false },
			want:  "switch (c) {\ncase 1:\n    break;\n}",
		},
		{
			name:  "stray closers clamp at zero",
			input: "}\n}\nx;",
			want:  "}\n}\nx;",
		},
		{
			name:  "comparison operators already spaced or compound are kept",
			input: "if(a==b && c>=d && e->f) g<<1;",
			want:  "if (a==b && c>=d && e->f) g<<1;",
		},
		{
			name:  "trailing comma leaves no trailing space",
			input: "int a,\nb;",
			want:  "int a,\nb;",
		},
		{
			name:  "crlf preserved",
			input: "{\r\nx;\r\n}\r\n",
			want:  "{\r\n    x;\r\n}\r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := format.DefaultOptions()
			if tt.opts != nil {
				tt.opts(&opts)
			}
			assert.Equal(t, tt.want, format.Format(tt.input, opts))
		})
	}
}

func TestFormat_IndentClamp(t *testing.T) {
	t.Parallel()

	input := strings.Repeat("{\n", 30) + "x;"
	out := strings.Split(format.Format(input, format.DefaultOptions()), "\n")

	last := out[len(out)-1]
	assert.Equal(t, strings.Repeat(" ", format.MaxIndent*4)+"x;", last)
}

func TestFormat_InvalidOptionsFallBack(t *testing.T) {
	t.Parallel()

	opts := format.DefaultOptions()
	opts.TabSize = 0
	opts.BracketStyle = "weird"

	assert.Equal(t, "{\n    x;\n}", format.Format("{\nx;\n}", opts))
}

func TestReindent_Status(t *testing.T) {
	t.Parallel()

	result := format.Reindent(context.Background(), "x=1;", format.DefaultOptions())
	assert.Equal(t, format.Formatted, result.Status)
	assert.Equal(t, "x = 1;", result.Text)
	assert.True(t, result.Changed("x=1;"))
	assert.Equal(t, "truncated", format.Truncated.String())
}

func TestFormat_InvalidUTF8PreservesBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "latin-1 comment",
			input: "int main(){\nint x=1; // caf\xe9\n}\n",
			want:  "int main(){\n    int x = 1; // caf\xe9\n}\n",
		},
		{
			name:  "invalid byte in code",
			input: "{\nx=\xff;\n}",
			want:  "{\n    x=\xff;\n}",
		},
		{
			name:  "invalid byte in literal",
			input: "{\nputs(\"\xe9\xe9\",s);\n}",
			want:  "{\n    puts(\"\xe9\xe9\", s);\n}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, format.Format(tt.input, format.DefaultOptions()))
		})
	}
}

func TestReindent_ExactlyMaxLines(t *testing.T) {
	t.Parallel()

	input := strings.Repeat("x;\n", format.MaxLines)

	result := format.Reindent(context.Background(), input, format.DefaultOptions())
	assert.Equal(t, format.Formatted, result.Status)
	assert.Equal(t, input, result.Text)

	result = format.Reindent(context.Background(), input+"y;", format.DefaultOptions())
	assert.Equal(t, format.Truncated, result.Status)
}

func TestFormat_TabSizeClamped(t *testing.T) {
	t.Parallel()

	opts := format.DefaultOptions()
	opts.TabSize = 1 << 40

	want := "{\n" + strings.Repeat(" ", format.MaxTabSize) + "x;\n}"
	assert.Equal(t, want, format.Format("{\nx;\n}", opts))
}
