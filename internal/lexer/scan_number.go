package lexer

import (
	"dhlc/internal/diag"
	"dhlc/internal/token"
)

// scanNumber accepts 123, 0x1F, 0b1010 and 0o17, optionally followed by the
// long suffix L. The suffix stays in Token.Text; the parser decides its meaning.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	digits := isDec
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '0' {
		switch b1 {
		case 'x':
			digits = isHex
		case 'b':
			digits = isBin
		case 'o':
			digits = isOct
		}
		if b1 == 'x' || b1 == 'b' || b1 == 'o' {
			lx.cursor.Bump()
			lx.cursor.Bump()
			if !digits(lx.cursor.Peek()) {
				sp := lx.cursor.SpanFrom(start)
				lx.report(diag.LexBadNumber, sp, "expected digits after %q", lx.text(sp))
				return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
			}
		}
	}

	for digits(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	lx.cursor.Eat('L')

	if isIdentContinueByte(lx.cursor.Peek()) {
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(start)
		lx.report(diag.LexBadNumber, sp, "malformed number %q", lx.text(sp))
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	}

	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.IntLit, Span: sp, Text: lx.text(sp)}
}
