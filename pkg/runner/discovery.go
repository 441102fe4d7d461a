package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yaklabco/cfmtlint/pkg/langdetect"
)

// Discover finds the files selected by opts.
// It returns a sorted, de-duplicated list of absolute paths.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	d := &discoverer{
		ctx:     ctx,
		workDir: workDir,
		exts:    opts.effectiveExtensions(),
		opts:    opts,
		seen:    make(map[string]struct{}),
		walked:  make(map[string]struct{}),
	}

	for _, input := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		abs := input
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(workDir, abs)
		}
		abs = filepath.Clean(abs)

		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}

		if !info.IsDir() {
			// Explicit files only need the right extension and no exclude match.
			if d.matches(abs) {
				d.add(abs)
			}
			continue
		}

		if err := d.walk(abs); err != nil {
			return nil, err
		}
	}

	slices.Sort(d.files)

	return d.files, nil
}

type discoverer struct {
	ctx     context.Context
	workDir string
	exts    []string
	opts    Options
	seen    map[string]struct{}
	walked  map[string]struct{}
	files   []string
}

func (d *discoverer) add(p string) {
	if _, ok := d.seen[p]; ok {
		return
	}
	d.seen[p] = struct{}{}
	d.files = append(d.files, p)
}

func (d *discoverer) rel(p string) string {
	rel, err := filepath.Rel(d.workDir, p)
	if err != nil {
		return p
	}
	return filepath.ToSlash(rel)
}

func (d *discoverer) walk(root string) error {
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		d.walked[resolved] = struct{}{}
	}

	err := filepath.WalkDir(root, func(p string, entry fs.DirEntry, walkErr error) error {
		if err := d.ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		rel := d.rel(p)

		if entry.IsDir() {
			if p == root {
				return nil
			}
			if strings.HasPrefix(entry.Name(), ".") || matchAny(rel, d.opts.ExcludeGlobs) {
				return filepath.SkipDir
			}
			if d.opts.SkipVendored && langdetect.IsVendored(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(entry.Name(), ".") {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			return d.symlink(p)
		}

		if d.matches(p) {
			d.add(p)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

// symlink handles a link found while walking. Broken links are ignored.
func (d *discoverer) symlink(p string) error {
	target, err := filepath.EvalSymlinks(p)
	if err != nil {
		return nil //nolint:nilerr // broken links are skipped
	}
	info, err := os.Stat(target)
	if err != nil {
		return nil //nolint:nilerr // unreadable targets are skipped
	}

	if !info.IsDir() {
		if d.matches(p) {
			d.add(p)
		}
		return nil
	}

	if !d.opts.FollowSymlinks {
		return nil
	}
	if _, ok := d.walked[target]; ok {
		return nil
	}
	// WalkDir does not follow links, so walk the resolved target.
	return d.walk(target)
}

func (d *discoverer) matches(p string) bool {
	ext := strings.ToLower(filepath.Ext(p))
	if !slices.ContainsFunc(d.exts, func(e string) bool { return strings.EqualFold(e, ext) }) {
		return false
	}

	rel := d.rel(p)
	if matchAny(rel, d.opts.ExcludeGlobs) {
		return false
	}
	if len(d.opts.IncludeGlobs) > 0 && !matchAny(rel, d.opts.IncludeGlobs) {
		return false
	}
	return true
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return abs, nil
}

func matchAny(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if MatchGlob(rel, pattern) {
			return true
		}
	}
	return false
}

// MatchGlob matches a slash-separated relative path against a pattern.
//
// "**" matches any number of path segments. A pattern without a slash
// also matches the base name, so "*.h" matches "include/list.h".
// A pattern matching a directory matches everything below it.
func MatchGlob(rel, pattern string) bool {
	rel = strings.Trim(filepath.ToSlash(rel), "/")
	pattern = strings.Trim(filepath.ToSlash(pattern), "/")

	if pattern == "" {
		return false
	}

	if !strings.Contains(pattern, "/") && !strings.Contains(pattern, "**") {
		if ok, _ := path.Match(pattern, path.Base(rel)); ok {
			return true
		}
	}

	return matchSegments(strings.Split(rel, "/"), strings.Split(pattern, "/"), true)
}

// matchSegments matches path segments against pattern segments. With
// prefix set, a pattern that is used up before the path matches too.
func matchSegments(segs, pats []string, prefix bool) bool {
	for len(pats) > 0 {
		if pats[0] == "**" {
			rest := pats[1:]
			for i := 0; i <= len(segs); i++ {
				if matchSegments(segs[i:], rest, prefix) {
					return true
				}
			}
			return false
		}
		if len(segs) == 0 {
			return false
		}
		if ok, err := path.Match(pats[0], segs[0]); err != nil || !ok {
			return false
		}
		segs, pats = segs[1:], pats[1:]
	}
	return len(segs) == 0 || prefix
}
