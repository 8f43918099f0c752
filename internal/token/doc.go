// Package token defines the lexical token kinds of the dhl surface language.
// Invariants:
//   - Token.Text is a slice of the original source (no copies), except for
//     string literals whose Text holds the decoded, NFC-normalised value.
//   - Decorator and pin names (in, out, wire, clock) and attribute value words
//     (rgb, rgba, up, down, left, right, d) are identifiers; the parser
//     recognises them by position.
//   - Comments and whitespace never reach the token stream.
package token
