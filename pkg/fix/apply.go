package fix

import "bytes"

// ApplyEdits applies sorted, non-overlapping edits to content.
// Use Prepare first when the edits come from several rules.
func ApplyEdits(content []byte, edits []TextEdit) []byte {
	if len(edits) == 0 {
		return content
	}

	growth := 0
	for _, edit := range edits {
		growth += len(edit.NewText) - (edit.EndOffset - edit.StartOffset)
	}

	var out bytes.Buffer
	out.Grow(max(len(content)+growth, 0))

	cursor := 0
	for _, edit := range edits {
		out.Write(content[cursor:edit.StartOffset])
		out.WriteString(edit.NewText)
		cursor = edit.EndOffset
	}
	out.Write(content[cursor:])

	return out.Bytes()
}
