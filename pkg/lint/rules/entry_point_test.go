package rules

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/cfmtlint/pkg/config"
	"github.com/yaklabco/cfmtlint/pkg/lint"
)

func TestMissingEntryPointRule(t *testing.T) {
	rule := NewMissingEntryPointRule()
	assert.Equal(t, config.SeverityInfo, rule.DefaultSeverity())

	body := strings.Repeat("int value = 1;\n", 5)

	tests := []struct {
		name  string
		input string
		opts  map[string]any
		want  int
	}{
		{name: "short snippet", input: "int x;\n"},
		{name: "long without main", input: body, want: 1},
		{name: "with main", input: "int main(void) {\n" + body + "}\n"},
		{name: "main spread over lines", input: "int\nmain (int argc, char **argv)\n{\n" + body + "}\n"},
		{name: "main only in a comment", input: "/* int main() { */\n" + body, want: 1},
		{name: "threshold option", input: body, opts: map[string]any{"min_length": 1000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := applyRule(t, rule, tt.input, tt.opts)
			require.Len(t, diags, tt.want)
			if tt.want == 0 {
				return
			}
			assert.Equal(t, lint.KindMissingEntryPoint, diags[0].Kind)
			assert.Equal(t, 1, diags[0].StartLine)
			assert.Equal(t, 1, diags[0].StartColumn)
		})
	}
}
