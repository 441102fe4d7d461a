package fix

import (
	"fmt"
	"strings"
)

// contextLines is the number of unchanged lines kept around each change.
const contextLines = 3

// LineKind classifies a diff line.
type LineKind int

const (
	LineContext LineKind = iota
	LineAdd
	LineRemove
)

// prefix returns the unified diff marker for the kind.
func (k LineKind) prefix() string {
	switch k {
	case LineAdd:
		return "+"
	case LineRemove:
		return "-"
	default:
		return " "
	}
}

// DiffLine is one line of a hunk.
type DiffLine struct {
	Kind    LineKind
	Content string
}

// Hunk is a contiguous block of changes with surrounding context.
// Start lines are 1-based.
type Hunk struct {
	OriginalStart int
	OriginalCount int
	ModifiedStart int
	ModifiedCount int
	Lines         []DiffLine
}

// Diff is a unified diff between two versions of a buffer.
type Diff struct {
	Path      string
	Hunks     []Hunk
	Additions int
	Deletions int
}

// GenerateDiff compares original and modified line by line.
// It returns nil when they are identical.
func GenerateDiff(path string, original, modified []byte) *Diff {
	if string(original) == string(modified) {
		return nil
	}

	ops := diffLines(splitLines(original), splitLines(modified))
	hunks := groupHunks(ops)
	if len(hunks) == 0 {
		return nil
	}

	diff := &Diff{Path: path, Hunks: hunks}
	for _, op := range ops {
		switch op.Kind {
		case LineAdd:
			diff.Additions++
		case LineRemove:
			diff.Deletions++
		}
	}

	return diff
}

// HasChanges reports whether the diff contains any hunk.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

// GitHeader returns the "diff --git" header line.
func (d *Diff) GitHeader() string {
	if d == nil {
		return ""
	}
	path := strings.TrimPrefix(d.Path, "/")
	return fmt.Sprintf("diff --git a/%s b/%s", path, path)
}

// String renders the diff in unified format without the git header.
func (d *Diff) String() string {
	if !d.HasChanges() {
		return ""
	}

	path := strings.TrimPrefix(d.Path, "/")

	var builder strings.Builder
	fmt.Fprintf(&builder, "--- a/%s\n+++ b/%s\n", path, path)

	for _, hunk := range d.Hunks {
		fmt.Fprintf(&builder, "@@ -%s +%s @@\n",
			hunkRange(hunk.OriginalStart, hunk.OriginalCount),
			hunkRange(hunk.ModifiedStart, hunk.ModifiedCount))
		for _, line := range hunk.Lines {
			builder.WriteString(line.Kind.prefix())
			builder.WriteString(line.Content)
			builder.WriteByte('\n')
		}
	}

	return builder.String()
}

// FullString renders the git header followed by the unified diff.
func (d *Diff) FullString() string {
	if !d.HasChanges() {
		return ""
	}
	return d.GitHeader() + "\n" + d.String()
}

func hunkRange(start, count int) string {
	if count == 1 {
		return fmt.Sprintf("%d", start)
	}
	if count == 0 {
		start--
	}
	return fmt.Sprintf("%d,%d", start, count)
}

// splitLines splits content into lines without their terminators.
func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	text := strings.TrimSuffix(string(content), "\n")
	return strings.Split(text, "\n")
}

// diffOp is one line of the edit script, with 0-based line indexes into
// both sides (the side a line is absent from carries the next index).
type diffOp struct {
	DiffLine
	orig int
	mod  int
}

// diffLines builds an edit script from a longest-common-subsequence table.
func diffLines(orig, mod []string) []diffOp {
	rows, cols := len(orig), len(mod)

	// lcs[i][j] is the LCS length of orig[i:] and mod[j:].
	lcs := make([][]int, rows+1)
	for i := range lcs {
		lcs[i] = make([]int, cols+1)
	}
	for i := rows - 1; i >= 0; i-- {
		for j := cols - 1; j >= 0; j-- {
			if orig[i] == mod[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	ops := make([]diffOp, 0, rows+cols)
	i, j := 0, 0
	for i < rows || j < cols {
		switch {
		case i < rows && j < cols && orig[i] == mod[j]:
			ops = append(ops, diffOp{DiffLine{LineContext, orig[i]}, i, j})
			i++
			j++
		case i < rows && (j == cols || lcs[i+1][j] >= lcs[i][j+1]):
			ops = append(ops, diffOp{DiffLine{LineRemove, orig[i]}, i, j})
			i++
		default:
			ops = append(ops, diffOp{DiffLine{LineAdd, mod[j]}, i, j})
			j++
		}
	}

	return ops
}

// groupHunks cuts the edit script into hunks with contextLines of context.
func groupHunks(ops []diffOp) []Hunk {
	var hunks []Hunk

	for idx := 0; idx < len(ops); {
		if ops[idx].Kind == LineContext {
			idx++
			continue
		}

		start := max(idx-contextLines, 0)

		// Extend while the next change is within two context windows.
		end := idx
		for cursor := idx; cursor < len(ops); cursor++ {
			if ops[cursor].Kind != LineContext {
				end = cursor
				continue
			}
			if cursor-end > 2*contextLines {
				break
			}
		}
		stop := min(end+contextLines+1, len(ops))

		hunk := Hunk{
			OriginalStart: ops[start].orig + 1,
			ModifiedStart: ops[start].mod + 1,
		}
		for _, op := range ops[start:stop] {
			hunk.Lines = append(hunk.Lines, op.DiffLine)
			if op.Kind != LineAdd {
				hunk.OriginalCount++
			}
			if op.Kind != LineRemove {
				hunk.ModifiedCount++
			}
		}
		hunks = append(hunks, hunk)

		idx = stop
	}

	return hunks
}
