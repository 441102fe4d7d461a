// Package runner lints many C files concurrently.
package runner

import (
	"slices"

	"github.com/yaklabco/cfmtlint/pkg/config"
)

// Options controls multi-file linting behavior.
type Options struct {
	// Paths are files or directories to process. Empty means ".".
	Paths []string

	// WorkingDir resolves relative Paths. Empty means the process directory.
	WorkingDir string

	// Extensions lists C file extensions (lowercase, with leading dot).
	// Empty means DefaultExtensions().
	Extensions []string

	// Markdown also discovers Markdown files and lints their C code blocks.
	Markdown bool

	// IncludeGlobs restricts discovery to matching paths, relative to WorkingDir.
	IncludeGlobs []string

	// ExcludeGlobs skips matching files and directories.
	ExcludeGlobs []string

	// FollowSymlinks traverses directory symlinks.
	FollowSymlinks bool

	// SkipVendored skips directories such as vendor/ and third_party/.
	SkipVendored bool

	// Jobs is the number of workers. 0 or negative means runtime.NumCPU().
	Jobs int

	// Config is the resolved configuration for this run.
	Config *config.Config

	// Cache, when set, serves lint-only results for unchanged content.
	Cache *Cache
}

// DefaultExtensions returns the C source and header extensions.
func DefaultExtensions() []string {
	return []string{".c", ".h"}
}

// MarkdownExtensions returns the extensions treated as Markdown.
func MarkdownExtensions() []string {
	return []string{".md", ".markdown"}
}

func (o Options) effectiveExtensions() []string {
	exts := o.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions()
	}
	if o.Markdown {
		exts = append(slices.Clone(exts), MarkdownExtensions()...)
	}
	return exts
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
