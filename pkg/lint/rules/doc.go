// Package rules provides the built-in lint rules for cfmtlint.
//
// # Rules
//
//   - C001 bracket-match: braces, parentheses and brackets must balance
//   - C002 missing-header: standard functions used without their header
//   - C003 missing-entry-point: no int main() in a non-trivial buffer
//   - C004 missing-semicolon: statement-like line without a trailing ';'
//   - C005 invalid-character: non-ASCII characters and full-width punctuation
//   - C006 include-syntax: #include not in <name> or "name" form
//   - C007 line-length: lines wider than formatter.max_line_length (off by default)
//
// C002 through C005 are line or pattern heuristics. They read the masked
// copies held by the snapshot so comments and literal contents never match,
// and they are expected to miss some cases and flag a few correct ones.
//
// # Packs
//
// Packs are configuration presets used by "cfmtlint init --pack":
// core, strict, relaxed and snippet.
package rules
