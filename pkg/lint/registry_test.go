package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/cfmtlint/pkg/config"
)

type mockRule struct {
	id   string
	name string
}

func (m *mockRule) ID() string                               { return m.id }
func (m *mockRule) Name() string                             { return m.name }
func (m *mockRule) Description() string                      { return "mock" }
func (m *mockRule) DefaultEnabled() bool                     { return true }
func (m *mockRule) DefaultSeverity() config.Severity         { return config.SeverityWarning }
func (m *mockRule) Tags() []string                           { return nil }
func (m *mockRule) CanFix() bool                             { return false }
func (m *mockRule) Apply(*RuleContext) ([]Diagnostic, error) { return nil, nil }

func TestRegistry_Lookups(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&mockRule{id: "C001", name: "bracket-match"})
	reg.RegisterAlias("brackets", "C001")

	got, ok := reg.Get("C001")
	assert.True(t, ok)
	assert.Equal(t, "bracket-match", got.Name())

	got, ok = reg.Get("bracket-match")
	assert.True(t, ok)
	assert.Equal(t, "C001", got.ID())

	_, ok = reg.GetByName("C001")
	assert.False(t, ok)

	_, ok = reg.GetByID("bracket-match")
	assert.False(t, ok)
}

func TestRegistry_Resolve(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&mockRule{id: "C004", name: "missing-semicolon"})
	reg.RegisterAlias("semicolons", "C004")
	reg.RegisterAlias("dangling", "C999")

	tests := []struct {
		key    string
		wantID string
		wantOK bool
	}{
		{"C004", "C004", true},
		{"missing-semicolon", "C004", true},
		{"semicolons", "C004", true},
		{"dangling", "", false},
		{"nope", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			id, _, ok := reg.Resolve(tt.key)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestRegistry_SortedOutput(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&mockRule{id: "C003", name: "c"})
	reg.Register(&mockRule{id: "C001", name: "a"})
	reg.Register(&mockRule{id: "C002", name: "b"})
	reg.RegisterAlias("z-alias", "C001")

	assert.Equal(t, []string{"C001", "C002", "C003"}, reg.IDs())

	rules := reg.Rules()
	assert.Len(t, rules, 3)
	assert.Equal(t, "C001", rules[0].ID())

	assert.Equal(t, []string{"C001", "C002", "C003", "a", "b", "c", "z-alias"}, reg.Keys())
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&mockRule{id: "C001", name: "old"})
	reg.Register(&mockRule{id: "C001", name: "new"})

	got, ok := reg.GetByID("C001")
	assert.True(t, ok)
	assert.Equal(t, "new", got.Name())
	assert.Len(t, reg.Rules(), 1)
}
