package parser

import (
	"strconv"
	"strings"

	"dhlc/internal/diag"
	"dhlc/internal/token"

	"fortio.org/safecast"
)

// intValue decodes an IntLit token. long reports the L suffix.
func intValue(tok token.Token) (value uint64, long bool, err error) {
	text := tok.Text
	if strings.HasSuffix(text, "L") {
		long = true
		text = text[:len(text)-1]
	}
	base := 10
	if len(text) > 2 && text[0] == '0' {
		switch text[1] {
		case 'x':
			base = 16
		case 'b':
			base = 2
		case 'o':
			base = 8
		}
		if base != 10 {
			text = text[2:]
		}
	}
	value, perr := strconv.ParseUint(text, base, 64)
	if perr != nil {
		return 0, false, diag.Errorf(diag.LexBadNumber, tok.Span, tok.Text, "bad integer %q: %v", tok.Text, perr)
	}
	return value, long, nil
}

// parseUint32 consumes one IntLit that fits in 32 bits and has no L suffix.
func (p *Parser) parseUint32(what string) (uint32, error) {
	tok, err := p.expect(token.IntLit, diag.SynUnexpectedToken, what)
	if err != nil {
		return 0, err
	}
	v, long, err := intValue(tok)
	if err != nil {
		return 0, err
	}
	if long {
		return 0, diag.Errorf(diag.SynUnexpectedToken, tok.Span, tok.Text, "%s cannot be a long literal", what)
	}
	n, cerr := safecast.Conv[uint32](v)
	if cerr != nil {
		return 0, diag.Errorf(diag.SynUnexpectedToken, tok.Span, tok.Text, "%s %d is too large", what, v)
	}
	return n, nil
}

// parseSigned consumes an optionally negated integer, as used by pin offsets
// and attribute values.
func (p *Parser) parseSigned(what string) (value int64, long bool, err error) {
	neg := p.eat(token.Minus)
	tok, err := p.expect(token.IntLit, diag.SynUnexpectedToken, what)
	if err != nil {
		return 0, false, err
	}
	u, long, err := intValue(tok)
	if err != nil {
		return 0, false, err
	}
	v, cerr := safecast.Conv[int64](u)
	if cerr != nil {
		return 0, false, diag.Errorf(diag.SynBadAttributeValue, tok.Span, tok.Text, "%s %d is too large", what, u)
	}
	if neg {
		v = -v
	}
	return v, long, nil
}
