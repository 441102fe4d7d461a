//go:build stave

package main

import (
	"cmp"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

const binary = "bin/cfmtlint"

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b":      Build,
	"t":      Test.Default,
	"l":      Lint.Default,
	"ci":     CI,
	"corpus": Bench.Corpus,
}

type (
	Test  st.Namespace
	Lint  st.Namespace
	Bench st.Namespace
)

// Build compiles bin/cfmtlint when sources changed.
func Build() error {
	rebuild, err := target.Dir(binary, "cmd/", "pkg/", "internal/", "go.mod", "go.sum")
	if err != nil {
		return err
	}
	if !rebuild {
		fmt.Println(binary, "is up to date")
		return nil
	}
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", binary, "./cmd/cfmtlint")
}

// Clean removes bin/ and coverage output.
func Clean() error {
	for _, path := range []string{"bin", "coverage.out"} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	return nil
}

// CI runs the checks a pull request must pass, then builds for the
// platforms editor hosts ship on.
func CI() error {
	st.SerialDeps(Lint.Fmt, Lint.Default, Build, Test.Default)

	for _, platform := range []string{"linux/amd64", "darwin/arm64", "windows/amd64"} {
		goos, goarch, _ := strings.Cut(platform, "/")
		env := map[string]string{"GOOS": goos, "GOARCH": goarch, "CGO_ENABLED": "0"}
		if err := sh.RunWith(env, "go", "build", "-o", os.DevNull, "./cmd/cfmtlint"); err != nil {
			return fmt.Errorf("build %s: %w", platform, err)
		}
	}
	return nil
}

// Default runs all tests with the race detector and writes coverage.out.
func (Test) Default() error {
	return sh.RunV("go",
		"tool", "gotestsum",
		"-f", "pkgname-and-test-fails",
		"--",
		"-race",
		"-coverprofile=coverage.out",
		"./...",
	)
}

// Default runs golangci-lint.
func (Lint) Default() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Fmt fails when gofmt would change any file.
func (Lint) Fmt() error {
	out, err := sh.Output("gofmt", "-l", "cmd", "internal", "pkg")
	if err != nil {
		return fmt.Errorf("gofmt: %w", err)
	}
	if out != "" {
		return fmt.Errorf("unformatted files:\n%s", out)
	}
	return nil
}

// Default runs the package benchmarks.
func (Bench) Default() error {
	return sh.RunV("go", "test", "-run", "^$", "-bench", ".", "-benchmem", "./pkg/...")
}

// Corpus times stats and fmt --diff over a tree of C sources.
// CFMTLINT_CORPUS names the tree; it defaults to the working directory.
func (Bench) Corpus() error {
	st.Deps(Build)
	dir := cmp.Or(os.Getenv("CFMTLINT_CORPUS"), ".")

	start := time.Now()
	if err := sh.RunV(binary, "stats", "--top", "5", dir); err != nil {
		return fmt.Errorf("stats %s: %w", dir, err)
	}
	statsTook := time.Since(start)

	start = time.Now()
	if _, err := sh.Output(binary, "fmt", "--diff", dir); err != nil {
		return fmt.Errorf("fmt --diff %s: %w", dir, err)
	}
	fmtTook := time.Since(start)

	fmt.Printf("stats: %s  fmt --diff: %s\n", statsTook.Round(time.Millisecond), fmtTook.Round(time.Millisecond))
	return nil
}

// ldflags stamps main.version, main.commit and main.date.
func ldflags() string {
	git := func(args ...string) string {
		out, err := sh.Output("git", args...)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(out)
	}
	return fmt.Sprintf("-X main.version=%s -X main.commit=%s -X main.date=%s",
		cmp.Or(git("describe", "--tags", "--always", "--dirty"), "dev"),
		cmp.Or(git("rev-parse", "--short", "HEAD"), "none"),
		time.Now().UTC().Format(time.RFC3339))
}
