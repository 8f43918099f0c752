package lexer

import (
	"strings"

	"dhlc/internal/diag"
	"dhlc/internal/token"

	"golang.org/x/text/unicode/norm"
)

// scanString reads a double-quoted literal. Token.Text holds the unescaped,
// NFC-normalised value. Supported escapes: \n \r \" \\.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening quote

	var sb strings.Builder
	for {
		if lx.cursor.EOF() {
			sp := lx.cursor.SpanFrom(start)
			lx.report(diag.LexUnterminatedString, sp, "unterminated string literal")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
		}
		b := lx.cursor.Bump()
		switch b {
		case '"':
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.StringLit, Span: sp, Text: norm.NFC.String(sb.String())}
		case '\n', '\r':
			sp := lx.cursor.SpanFrom(start)
			lx.report(diag.LexUnterminatedString, sp, "newline in string literal")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
		case '\\':
			esc := lx.cursor.Bump()
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case '"', '\\':
				sb.WriteByte(esc)
			default:
				sp := lx.cursor.SpanFrom(start)
				lx.report(diag.LexBadEscape, sp, "unknown escape sequence \\%c", esc)
				return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
			}
		default:
			sb.WriteByte(b)
		}
	}
}
