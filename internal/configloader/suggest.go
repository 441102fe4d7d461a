package configloader

import (
	"fmt"
	"strings"

	"github.com/sajari/fuzzy"
)

// Suggester proposes the closest known key for a misspelt one.
type Suggester struct {
	model *fuzzy.Model
	keys  map[string]string // lowercase -> original spelling
}

// NewSuggester trains a suggester on keys.
func NewSuggester(keys []string) *Suggester {
	model := fuzzy.NewModel()
	model.SetThreshold(1)
	model.SetDepth(2)

	s := &Suggester{model: model, keys: make(map[string]string, len(keys))}
	for _, key := range keys {
		lower := strings.ToLower(key)
		s.keys[lower] = key
		model.SetCount(lower, 1, true)
	}
	return s
}

// Suggest returns the closest known key, or "" when nothing is near.
func (s *Suggester) Suggest(key string) string {
	if s == nil || key == "" {
		return ""
	}
	lower := strings.ToLower(key)
	if original, ok := s.keys[lower]; ok {
		return original
	}
	return s.keys[s.model.SpellCheck(lower)]
}

// didYouMean formats a suggestion suffix for messages.
func didYouMean(suggestion string) string {
	if suggestion == "" {
		return ""
	}
	return fmt.Sprintf("; did you mean %q?", suggestion)
}
