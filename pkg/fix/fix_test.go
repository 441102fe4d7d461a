package fix_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/cfmtlint/pkg/fix"
)

func TestEditBuilder(t *testing.T) {
	t.Parallel()

	builder := fix.NewEditBuilder()
	builder.Insert(0, "#include <stdio.h>\n").ReplaceRange(3, 6, "；").Delete(8, 9)

	require.Equal(t, 3, builder.Len())
	assert.True(t, builder.Edits[0].IsInsert())
	assert.Equal(t, fix.TextEdit{StartOffset: 8, EndOffset: 9, NewText: ""}, builder.Edits[2])
}

func TestApplyEdits(t *testing.T) {
	t.Parallel()

	content := []byte("int x = 1\nputs(s)")
	edits := []fix.TextEdit{
		{StartOffset: 0, EndOffset: 0, NewText: "#include <stdio.h>\n"},
		{StartOffset: 9, EndOffset: 9, NewText: ";"},
		{StartOffset: 17, EndOffset: 17, NewText: ";"},
	}

	got := fix.ApplyEdits(content, edits)
	assert.Equal(t, "#include <stdio.h>\nint x = 1;\nputs(s);", string(got))
	assert.Equal(t, content, fix.ApplyEdits(content, nil))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		edit fix.TextEdit
		want string
	}{
		{"negative start", fix.TextEdit{StartOffset: -1, EndOffset: 0}, "negative"},
		{"reversed", fix.TextEdit{StartOffset: 3, EndOffset: 2}, "before start"},
		{"past end", fix.TextEdit{StartOffset: 0, EndOffset: 11}, "exceeds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := fix.Validate([]fix.TextEdit{tt.edit}, 10)
			var validationErr *fix.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	assert.NoError(t, fix.Validate([]fix.TextEdit{{StartOffset: 10, EndOffset: 10}}, 10))
}

func TestPrepare(t *testing.T) {
	t.Parallel()

	edits := []fix.TextEdit{
		{StartOffset: 5, EndOffset: 5, NewText: ";"},
		{StartOffset: 0, EndOffset: 0, NewText: "a"},
		{StartOffset: 5, EndOffset: 5, NewText: ";"},
		{StartOffset: 2, EndOffset: 6, NewText: "x"},
		{StartOffset: 0, EndOffset: 0, NewText: "b"},
	}

	accepted, skipped, err := fix.Prepare(edits, 10)
	require.NoError(t, err)

	assert.Equal(t, []fix.TextEdit{
		{StartOffset: 0, EndOffset: 0, NewText: "a"},
		{StartOffset: 2, EndOffset: 6, NewText: "x"},
	}, accepted)
	assert.Len(t, skipped, 3)
}

func TestPrepare_InvalidAndEmpty(t *testing.T) {
	t.Parallel()

	accepted, skipped, err := fix.Prepare(nil, 0)
	require.NoError(t, err)
	assert.Nil(t, accepted)
	assert.Nil(t, skipped)

	_, _, err = fix.Prepare([]fix.TextEdit{{StartOffset: 0, EndOffset: 5}}, 1)
	assert.Error(t, err)
}
