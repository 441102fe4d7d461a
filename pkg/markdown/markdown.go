// Package markdown finds C code blocks in Markdown documents so they can be
// linted in place.
package markdown

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/cfmtlint/pkg/langdetect"
	"github.com/yaklabco/cfmtlint/pkg/lint"
)

// Fence tags that mark a block as C.
const (
	TagC      = "c"
	TagHeader = "h"
)

// Block is one C code block.
type Block struct {
	// Lang is the fence tag, or "c" for an untagged block detected as C.
	Lang string

	// Content is the block body with container indentation removed.
	Content string

	// Lines maps each body line to its place in the Markdown file.
	Lines []Origin
}

// Origin locates one block line in the Markdown file.
type Origin struct {
	// Line is the 1-based Markdown line.
	Line int

	// Shift is the number of runes before the body text on that line.
	Shift int
}

// StartLine returns the Markdown line of the first body line.
func (b Block) StartLine() int {
	if len(b.Lines) == 0 {
		return 0
	}
	return b.Lines[0].Line
}

// Options configures an Extractor.
type Options struct {
	// DetectUntagged also returns fenced blocks without an info string
	// whose content is classified as C.
	DetectUntagged bool
}

// Extractor parses Markdown with goldmark (GFM) and collects C blocks.
type Extractor struct {
	md   goldmark.Markdown
	opts Options
}

// New creates an Extractor.
func New(opts Options) *Extractor {
	return &Extractor{
		md:   goldmark.New(goldmark.WithExtensions(extension.GFM)),
		opts: opts,
	}
}

// ExtractC returns the c and h fenced blocks of content in document order.
func ExtractC(content []byte) []Block {
	blocks, _ := New(Options{}).Extract(context.Background(), content)
	return blocks
}

// Extract returns the C blocks of content in document order.
func (x *Extractor) Extract(ctx context.Context, content []byte) ([]Block, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("extract cancelled: %w", err)
	}

	doc := x.md.Parser().Parse(text.NewReader(content), parser.WithContext(parser.NewContext()))
	starts := lineStarts(content)

	var blocks []Block
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fenced, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		lang := x.blockLanguage(fenced, content)
		if lang == "" || fenced.Lines().Len() == 0 {
			return ast.WalkSkipChildren, nil
		}

		blocks = append(blocks, buildBlock(lang, fenced, content, starts))
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk markdown: %w", err)
	}

	return blocks, nil
}

func (x *Extractor) blockLanguage(fenced *ast.FencedCodeBlock, content []byte) string {
	tag := strings.ToLower(string(fenced.Language(content)))
	switch tag {
	case TagC, TagHeader:
		return tag
	case "":
		if x.opts.DetectUntagged && langdetect.IsCSnippet(blockBody(fenced, content)) {
			return TagC
		}
	}
	return ""
}

func blockBody(fenced *ast.FencedCodeBlock, content []byte) []byte {
	var body []byte
	lines := fenced.Lines()
	for i := range lines.Len() {
		seg := lines.At(i)
		body = append(body, seg.Value(content)...)
	}
	return body
}

func buildBlock(lang string, fenced *ast.FencedCodeBlock, content []byte, starts []int) Block {
	var sb strings.Builder
	lines := fenced.Lines()
	block := Block{Lang: lang, Lines: make([]Origin, 0, lines.Len())}

	for i := range lines.Len() {
		seg := lines.At(i)
		line := sort.Search(len(starts), func(j int) bool { return starts[j] > seg.Start })
		lineStart := starts[line-1]

		sb.WriteString(strings.Repeat(" ", seg.Padding))
		sb.Write(seg.Value(content))

		block.Lines = append(block.Lines, Origin{
			Line:  line,
			Shift: utf8.RuneCount(content[lineStart:seg.Start]) - seg.Padding,
		})
	}

	block.Content = sb.String()
	return block
}

// lineStarts returns the byte offset of every line start.
func lineStarts(content []byte) []int {
	starts := []int{0}
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// Shift moves a diagnostic from block coordinates to Markdown coordinates.
// Fix edits are dropped because they address the block, not the file.
func (b Block) Shift(d lint.Diagnostic) lint.Diagnostic {
	d.StartLine, d.StartColumn = b.position(d.StartLine, d.StartColumn)
	d.EndLine, d.EndColumn = b.position(d.EndLine, d.EndColumn)
	d.FixEdits = nil
	return d
}

// ShiftAll applies Shift to every diagnostic.
func (b Block) ShiftAll(diags []lint.Diagnostic) []lint.Diagnostic {
	out := make([]lint.Diagnostic, 0, len(diags))
	for _, d := range diags {
		out = append(out, b.Shift(d))
	}
	return out
}

func (b Block) position(line, col int) (int, int) {
	if len(b.Lines) == 0 {
		return line, col
	}
	idx := min(max(line-1, 0), len(b.Lines)-1)
	origin := b.Lines[idx]
	// A position one past the last body line sits on the closing fence.
	if line-1 > idx {
		return origin.Line + (line - 1 - idx), col
	}
	return origin.Line, col + origin.Shift
}
