// Package diag defines the diagnostic model shared by every compiler phase.
//
// Two shapes coexist:
//
//   - Error is the fail-fast result of a pass (lexing, parsing, width
//     resolution, lowering). A compilation either succeeds completely or
//     returns exactly one *Error naming the offending symbol.
//   - Diagnostic, Bag and Reporter carry findings to the CLI, which turns an
//     *Error into a Diagnostic and renders it through internal/diagfmt.
//
// Codes are grouped by phase: LEX1xxx lexical, SYN2xxx syntax, SEM3xxx width
// resolution and lowering, IO4xxx file system, PRJ5xxx project manifest.
package diag
