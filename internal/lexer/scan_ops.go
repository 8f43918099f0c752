package lexer

import (
	"dhlc/internal/diag"
	"dhlc/internal/token"
)

var singleByteOps = map[byte]token.Kind{
	'@': token.At,
	'(': token.LParen,
	')': token.RParen,
	'{': token.LBrace,
	'}': token.RBrace,
	'[': token.LBracket,
	']': token.RBracket,
	':': token.Colon,
	',': token.Comma,
	'=': token.Assign,
	'*': token.Star,
	'-': token.Minus,
	'&': token.Amp,
	'|': token.Pipe,
	'^': token.Caret,
	'?': token.Question,
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	b := lx.cursor.Bump()

	kind := token.Invalid
	switch b {
	case '.':
		kind = token.Dot
		if lx.cursor.Eat('.') {
			kind = token.DotDot
		}
	case '!':
		kind = token.Bang
		switch lx.cursor.Peek() {
		case '&':
			lx.cursor.Bump()
			kind = token.BangAmp
		case '|':
			lx.cursor.Bump()
			kind = token.BangPipe
		case '^':
			lx.cursor.Bump()
			kind = token.BangCaret
		}
	default:
		if k, ok := singleByteOps[b]; ok {
			kind = k
		}
	}

	sp := lx.cursor.SpanFrom(start)
	if kind == token.Invalid {
		lx.report(diag.LexUnknownChar, sp, "unknown character %q", lx.text(sp))
	}
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
}
