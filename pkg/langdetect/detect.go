// Package langdetect decides whether files and untagged snippets are C.
// It uses go-enry for extension and shebang lookups and falls back to a
// few strong textual markers before trusting the classifier.
package langdetect

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Language tags returned by Detect.
const (
	LangC      = "c"
	LangCPP    = "cpp"
	LangObjC   = "objective-c"
	LangGo     = "go"
	LangPython = "python"
	LangRust   = "rust"
	LangJS     = "javascript"
	LangBash   = "bash"
	LangText   = "text"
)

//nolint:gochecknoglobals // Read-only candidate list for the classifier.
var classifierCandidates = []string{
	"C", "C++", "Objective-C", "Go", "Python", "Shell",
	"JavaScript", "Rust", "Java",
}

// IsC reports whether a file should be linted as C.
//
// ".c" is always C. ".h" is shared with C++ and Objective-C, so the
// content decides: a header is C unless it carries a C++ or Objective-C
// marker. Other extensions go through enry and count only when the
// lookup is unambiguous.
func IsC(path string, content []byte) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".c":
		return true
	case ".h":
		return headerLanguage(content) == LangC
	}

	lang, safe := enry.GetLanguageByExtension(path)
	return safe && lang == "C"
}

// IsVendored reports whether path lies in a directory enry treats as
// third-party code (vendor/, node_modules/ and the like).
func IsVendored(path string) bool {
	return enry.IsVendor(filepath.ToSlash(path))
}

// Detect classifies a code snippet and returns a lower-case language tag.
// It returns "text" when nothing is confident.
func Detect(content []byte) string {
	if len(bytes.TrimSpace(content)) == 0 {
		return LangText
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang)
	}

	if lang := detectByPattern(content); lang != "" {
		return lang
	}

	if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe && lang != "" {
		return normalize(lang)
	}

	return LangText
}

// IsCSnippet reports whether Detect classifies content as C.
func IsCSnippet(content []byte) bool {
	return Detect(content) == LangC
}

func detectByPattern(content []byte) string {
	trimmed := bytes.TrimSpace(content)

	if bytes.HasPrefix(trimmed, []byte("package ")) {
		return LangGo
	}
	if lang := detectCFamily(content); lang != "" {
		return lang
	}
	if detectPython(content) {
		return LangPython
	}
	if bytes.Contains(content, []byte("fn main()")) || bytes.Contains(content, []byte("println!")) ||
		bytes.Contains(content, []byte("let mut ")) {
		return LangRust
	}
	if bytes.Contains(content, []byte("=>")) || bytes.Contains(content, []byte("console.log")) {
		return LangJS
	}

	return ""
}

// detectCFamily returns c, cpp or objective-c when the content has a
// preprocessor include or a typical C call, and "" otherwise.
func detectCFamily(content []byte) string {
	hasInclude := bytes.Contains(content, []byte("#include")) || bytes.Contains(content, []byte("#import"))
	hasCCall := false
	for _, marker := range cMarkers {
		if bytes.Contains(content, []byte(marker)) {
			hasCCall = true
			break
		}
	}
	if !hasInclude && !hasCCall {
		return ""
	}

	return headerLanguage(content)
}

//nolint:gochecknoglobals // Read-only marker tables.
var (
	cMarkers    = []string{"printf(", "malloc(", "int main(", "sizeof(", "struct ", "typedef "}
	cppMarkers  = []string{"std::", "#include <iostream>", "template<", "template <", "namespace ", "cout <<", "class ", "::~"}
	objcMarkers = []string{"@interface", "@implementation", "#import", "@end"}
)

// headerLanguage picks among the languages sharing the ".h" extension.
func headerLanguage(content []byte) string {
	for _, marker := range objcMarkers {
		if bytes.Contains(content, []byte(marker)) {
			return LangObjC
		}
	}
	for _, marker := range cppMarkers {
		if bytes.Contains(content, []byte(marker)) {
			return LangCPP
		}
	}
	return LangC
}

func detectPython(content []byte) bool {
	s := string(content)
	if strings.Contains(s, "def ") && strings.Contains(s, "):") {
		return true
	}
	return strings.Contains(s, "__name__") ||
		(strings.HasPrefix(strings.TrimSpace(s), "import ") && !strings.Contains(s, "import ("))
}

// normalize converts go-enry language names to fence tags.
func normalize(lang string) string {
	switch lang {
	case "Shell":
		return LangBash
	case "C++":
		return LangCPP
	default:
		return strings.ToLower(lang)
	}
}
