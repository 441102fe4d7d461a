package fix

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError describes an edit whose range does not fit the buffer.
type ValidationError struct {
	Edit    TextEdit
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid edit [%d:%d]: %s", e.Edit.StartOffset, e.Edit.EndOffset, e.Message)
}

// Validate checks every edit range against a buffer of contentLen bytes.
func Validate(edits []TextEdit, contentLen int) error {
	for _, edit := range edits {
		switch {
		case edit.StartOffset < 0:
			return &ValidationError{Edit: edit, Message: "start offset is negative"}
		case edit.EndOffset < edit.StartOffset:
			return &ValidationError{Edit: edit, Message: "end offset is before start offset"}
		case edit.EndOffset > contentLen:
			return &ValidationError{
				Edit:    edit,
				Message: fmt.Sprintf("end offset %d exceeds content length %d", edit.EndOffset, contentLen),
			}
		}
	}
	return nil
}

// Sort orders edits by start offset, then end offset, then text.
func Sort(edits []TextEdit) {
	slices.SortStableFunc(edits, func(a, b TextEdit) int {
		if a.StartOffset != b.StartOffset {
			return a.StartOffset - b.StartOffset
		}
		if a.EndOffset != b.EndOffset {
			return a.EndOffset - b.EndOffset
		}
		return strings.Compare(a.NewText, b.NewText)
	})
}

// Prepare validates and sorts edits, then drops duplicates and any edit
// that overlaps an earlier one. Two inserts at the same offset overlap.
// It returns the accepted edits and the skipped ones.
func Prepare(edits []TextEdit, contentLen int) ([]TextEdit, []TextEdit, error) {
	if len(edits) == 0 {
		return nil, nil, nil
	}

	if err := Validate(edits, contentLen); err != nil {
		return nil, nil, err
	}

	sorted := slices.Clone(edits)
	Sort(sorted)

	accepted := make([]TextEdit, 0, len(sorted))
	var skipped []TextEdit

	for _, edit := range sorted {
		if len(accepted) == 0 {
			accepted = append(accepted, edit)
			continue
		}

		last := accepted[len(accepted)-1]
		switch {
		case edit == last:
			// Same fix proposed twice.
		case edit.StartOffset > last.EndOffset,
			edit.StartOffset == last.EndOffset && !(edit.IsInsert() && last.IsInsert()):
			accepted = append(accepted, edit)
		default:
			skipped = append(skipped, edit)
		}
	}

	return accepted, skipped, nil
}
