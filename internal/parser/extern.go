package parser

import (
	"dhlc/internal/ast"
	"dhlc/internal/diag"
	"dhlc/internal/netlist"
	"dhlc/internal/sema"
	"dhlc/internal/token"
	"dhlc/internal/types"

	"fortio.org/safecast"
)

// parseExtern reads `*Alias:Template { pins and attributes }`. Without the
// template part the alias doubles as the Digital element name.
func (p *Parser) parseExtern() (ast.StmtID, error) {
	star := p.advance() // '*'
	nameTok, err := p.expectIdent("external module name")
	if err != nil {
		return ast.NoStmtID, err
	}
	data := ast.ExternData{Name: nameTok.Text, Template: nameTok.Text}
	if p.eat(token.Colon) {
		tmpl, err := p.expectIdent("template name")
		if err != nil {
			return ast.NoStmtID, err
		}
		data.Template = tmpl.Text
	}
	open, err := p.expect(token.LBrace, diag.SynUnexpectedToken, "'{'")
	if err != nil {
		return ast.NoStmtID, err
	}

	sig := sema.Signature{Name: data.Name, External: true}
	for !p.at(token.RBrace) {
		switch {
		case p.at(token.EOF):
			return ast.NoStmtID, diag.Errorf(diag.SynUnclosedBrace, open.Span, data.Name,
				"external module %s is not closed", data.Name)
		case p.at(token.At):
			pin, err := p.parsePin()
			if err != nil {
				return ast.NoStmtID, err
			}
			port := ast.Port{Name: pin.Name, Width: types.Fixed(pin.Bits)}
			if pin.Dir == ast.PinIn {
				sig.Inputs = append(sig.Inputs, port)
			} else {
				sig.Outputs = append(sig.Outputs, port)
			}
			data.Pins = append(data.Pins, pin)
		default:
			attr, err := p.parseAttribute()
			if err != nil {
				return ast.NoStmtID, err
			}
			data.Attrs = append(data.Attrs, attr)
		}
	}
	p.advance() // '}'

	if err := p.res.Register(sig, nameTok.Span); err != nil {
		return ast.NoStmtID, err
	}
	return p.arenas.Stmts.NewExtern(p.spanFrom(star.Span), data), nil
}

// parsePin reads `@in(bits, name: "x") pin @(dx, dy)`.
func (p *Parser) parsePin() (ast.Pin, error) {
	at := p.advance() // '@'
	dirTok, err := p.expectIdent("'in' or 'out'")
	if err != nil {
		return ast.Pin{}, err
	}
	pin := ast.Pin{Bits: 1}
	switch dirTok.Text {
	case "in":
		pin.Dir = ast.PinIn
	case "out":
		pin.Dir = ast.PinOut
	default:
		return pin, diag.Errorf(diag.SynBadDecorator, dirTok.Span, dirTok.Text, "pins are @in or @out, not @%s", dirTok.Text)
	}

	var args []ast.Arg
	if p.at(token.LParen) {
		if args, err = p.parseArgs(); err != nil {
			return pin, err
		}
		bits, ok, err := p.bitsArg(args, "pin", "name")
		if err != nil {
			return pin, err
		}
		if ok {
			pin.Bits = bits
		}
	}

	nameTok, err := p.expectIdent("pin name")
	if err != nil {
		return pin, err
	}
	pin.Name, pin.External = nameTok.Text, nameTok.Text
	for _, a := range args {
		if a.Name != "name" {
			continue
		}
		lit, ok := p.arenas.Exprs.StringLit(a.Value)
		if !ok {
			return pin, diag.Errorf(diag.SynBadDecorator, a.Span, a.Name, "pin name must be a string literal")
		}
		pin.External = lit.Value
	}

	if _, err := p.expect(token.At, diag.SynUnexpectedToken, "'@' before pin offset"); err != nil {
		return pin, err
	}
	if _, err := p.expect(token.LParen, diag.SynUnexpectedToken, "'('"); err != nil {
		return pin, err
	}
	x, err := p.pinOffset()
	if err != nil {
		return pin, err
	}
	if _, err := p.expect(token.Comma, diag.SynUnexpectedToken, "','"); err != nil {
		return pin, err
	}
	y, err := p.pinOffset()
	if err != nil {
		return pin, err
	}
	if _, err := p.expect(token.RParen, diag.SynUnclosedParen, "')'"); err != nil {
		return pin, err
	}
	pin.Offset = netlist.Coordinate{X: x, Y: y}
	pin.Span = p.spanFrom(at.Span)
	return pin, nil
}

func (p *Parser) pinOffset() (int64, error) {
	v, long, err := p.parseSigned("pin offset")
	if err == nil && long {
		err = p.fail(diag.SynUnexpectedToken, "pin offset cannot be a long literal")
	}
	return v, err
}

// parseAttribute reads `key = value`; keys containing spaces are quoted.
func (p *Parser) parseAttribute() (netlist.Attribute, error) {
	var key string
	switch {
	case p.at(token.Ident), p.at(token.StringLit):
		key = p.advance().Text
	default:
		return netlist.Attribute{}, p.fail(diag.SynUnexpectedToken,
			"expected a pin or an attribute, found %s", describe(p.peek()))
	}
	if _, err := p.expect(token.Assign, diag.SynUnexpectedToken, "'=' after attribute key"); err != nil {
		return netlist.Attribute{}, err
	}
	value, err := p.parseAttrValue(key)
	if err != nil {
		return netlist.Attribute{}, err
	}
	return netlist.Attribute{Key: key, Value: value}, nil
}

func (p *Parser) parseAttrValue(key string) (netlist.Value, error) {
	tok := p.peek()
	switch tok.Kind {
	case token.IntLit, token.Minus:
		v, long, err := p.parseSigned("attribute " + key)
		if err != nil {
			return netlist.Value{}, err
		}
		if long {
			return netlist.Long(v), nil
		}
		n, cerr := safecast.Conv[int32](v)
		if cerr != nil {
			return netlist.Value{}, diag.Errorf(diag.SynBadAttributeValue, p.spanFrom(tok.Span), key,
				"attribute %s: %d does not fit in 32 bits, add an L suffix", key, v)
		}
		return netlist.Int(n), nil
	case token.StringLit:
		return netlist.String(p.advance().Text), nil
	case token.KwTrue:
		p.advance()
		return netlist.Bool(true), nil
	case token.KwFalse:
		p.advance()
		return netlist.Bool(false), nil
	case token.Ident:
		p.advance()
		if dir, ok := netlist.ParseDirection(tok.Text); ok {
			return netlist.Dir(dir), nil
		}
		switch tok.Text {
		case "rgb", "rgba":
			return p.parseColor(key, tok)
		case "d":
			data, err := p.expect(token.StringLit, diag.SynBadAttributeValue, "string after d")
			if err != nil {
				return netlist.Value{}, err
			}
			return netlist.Data(data.Text), nil
		}
	}
	return netlist.Value{}, diag.Errorf(diag.SynBadAttributeValue, tok.Span, key,
		"attribute %s has an unsupported value %s", key, describe(tok))
}

// parseColor reads the component list after rgb or rgba; rgb is opaque.
func (p *Parser) parseColor(key string, fn token.Token) (netlist.Value, error) {
	want := 3
	if fn.Text == "rgba" {
		want = 4
	}
	if _, err := p.expect(token.LParen, diag.SynBadAttributeValue, "'(' after "+fn.Text); err != nil {
		return netlist.Value{}, err
	}
	parts := []uint8{0, 0, 0, 255}
	for i := range want {
		if i > 0 {
			if _, err := p.expect(token.Comma, diag.SynBadAttributeValue, "','"); err != nil {
				return netlist.Value{}, err
			}
		}
		start := p.peek().Span
		v, _, err := p.parseSigned("colour component")
		if err != nil {
			return netlist.Value{}, err
		}
		c, cerr := safecast.Conv[uint8](v)
		if cerr != nil {
			return netlist.Value{}, diag.Errorf(diag.SynBadAttributeValue, p.spanFrom(start), key,
				"colour component %d is outside 0..255", v)
		}
		parts[i] = c
	}
	if _, err := p.expect(token.RParen, diag.SynUnclosedParen, "')'"); err != nil {
		return netlist.Value{}, err
	}
	return netlist.Color(netlist.RGBA{R: parts[0], G: parts[1], B: parts[2], A: parts[3]}), nil
}
