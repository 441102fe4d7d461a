package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitFlagLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line     string
		wantFlag string
		wantDesc string
		wantOK   bool
	}{
		{"--fix              apply fixes", "--fix", "apply fixes", true},
		{"-j, --jobs int     parallel workers", "-j, --jobs int", "parallel workers", true},
		{"--tab-size int   spaces per indent level (default 4)", "--tab-size int", "spaces per indent level (default 4)", true},
		{"--strict", "--strict", "", false},
	}

	for _, tt := range tests {
		flag, desc, ok := splitFlagLine(tt.line)
		assert.Equal(t, tt.wantFlag, flag, tt.line)
		assert.Equal(t, tt.wantDesc, desc, tt.line)
		assert.Equal(t, tt.wantOK, ok, tt.line)
	}
}

func TestRpad(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "C004  ", rpad("C004", 6))
	assert.Equal(t, "missing-semicolon", rpad("missing-semicolon", 4))
}

func TestDisplayPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "src/main.c", displayPath("/work", "/work/src/main.c"))
	assert.Equal(t, "/other/main.c", displayPath("/work", "/other/main.c"))
	assert.Equal(t, "/work/main.c", displayPath("", "/work/main.c"))
}
