package parser

import (
	"slices"

	"dhlc/internal/ast"
	"dhlc/internal/diag"
	"dhlc/internal/sema"
	"dhlc/internal/token"
	"dhlc/internal/types"

	"fortio.org/safecast"
)

// parseStmts reads statements until the closing token (EOF or '}').
func (p *Parser) parseStmts(closing token.Kind) ([]ast.StmtID, error) {
	var stmts []ast.StmtID
	for !p.at(closing) {
		if p.at(token.EOF) {
			return nil, p.fail(diag.SynUnclosedBrace, "missing '}' before end of file")
		}
		id, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, id)
	}
	return stmts, nil
}

func (p *Parser) parseStmt() (ast.StmtID, error) {
	switch {
	case p.at(token.Star):
		return p.parseExtern()
	case p.at(token.At):
		dec, err := p.parseDecorator()
		if err != nil {
			return ast.NoStmtID, err
		}
		return p.parseVarDefs(dec, token.Token{})
	case p.at(token.Ident):
		name := p.advance()
		if p.at(token.LBrace) {
			return p.parseModule(name)
		}
		return p.parseVarDefs(ast.Decorator{}, name)
	default:
		return ast.NoStmtID, p.fail(diag.SynUnexpectedToken, "expected a statement, found %s", describe(p.peek()))
	}
}

// parseDecorator reads @in, @out, @wire or @clock with its optional arguments.
func (p *Parser) parseDecorator() (ast.Decorator, error) {
	at := p.advance()
	nameTok, err := p.expectIdent("decorator name")
	if err != nil {
		return ast.Decorator{}, err
	}
	dec := ast.Decorator{}
	switch nameTok.Text {
	case "in":
		dec.Kind = ast.DecIn
	case "out":
		dec.Kind = ast.DecOut
	case "wire":
		dec.Kind = ast.DecWire
	case "clock":
		dec.Kind = ast.DecClock
	default:
		return dec, diag.Errorf(diag.SynBadDecorator, nameTok.Span, nameTok.Text, "unknown decorator @%s", nameTok.Text)
	}

	if p.at(token.LParen) {
		args, err := p.parseArgs()
		if err != nil {
			return dec, err
		}
		bits, ok, err := p.bitsArg(args, "@"+nameTok.Text)
		if err != nil {
			return dec, err
		}
		if ok && dec.Kind == ast.DecClock {
			return dec, diag.Errorf(diag.SynBadDecorator, nameTok.Span, nameTok.Text, "@clock is always one bit wide")
		}
		dec.Bits, dec.HasBits = bits, ok
	}
	if !dec.HasBits && dec.Kind != ast.DecOut {
		dec.Bits, dec.HasBits = 1, true
	}
	dec.Span = p.spanFrom(at.Span)
	return dec, nil
}

// bitsArg extracts the width argument ("bits" or the first positional) of a
// decorator or pin. Other arguments are rejected unless allowed.
func (p *Parser) bitsArg(args []ast.Arg, owner string, allowed ...string) (uint32, bool, error) {
	var (
		bits  uint32
		found bool
	)
	for _, a := range args {
		switch {
		case a.Name == "bits" || a.Name == sema.PositionalName(0):
			lit, ok := p.arenas.Exprs.Int(a.Value)
			if !ok {
				return 0, false, diag.Errorf(diag.SynBadDecorator, a.Span, a.Name, "%s width must be an integer literal", owner)
			}
			n, err := safecast.Conv[uint32](lit.Value)
			if err != nil {
				return 0, false, diag.Errorf(diag.SynBadDecorator, a.Span, a.Name, "%s width %d is too large", owner, lit.Value)
			}
			if n == 0 {
				return 0, false, diag.Errorf(diag.SynBadDecorator, a.Span, a.Name, "%s width must be at least 1", owner)
			}
			bits, found = n, true
		case slices.Contains(allowed, a.Name):
		default:
			return 0, false, diag.Errorf(diag.SynBadDecorator, a.Span, a.Name, "%s does not take argument %q", owner, a.Name)
		}
	}
	return bits, found, nil
}

// parseVarDefs reads `vardef (',' vardef)*`. first is an already consumed
// name, or the zero token.
func (p *Parser) parseVarDefs(dec ast.Decorator, first token.Token) (ast.StmtID, error) {
	start := first.Span
	if first.Kind != token.Ident {
		start = dec.Span
	}

	var defs []ast.VarDef
	for {
		nameTok := first
		first = token.Token{}
		if nameTok.Kind != token.Ident {
			var err error
			if nameTok, err = p.expectIdent("variable name"); err != nil {
				return ast.NoStmtID, err
			}
		}
		def, err := p.parseVarDef(dec, nameTok)
		if err != nil {
			return ast.NoStmtID, err
		}
		defs = append(defs, def)
		if !p.eat(token.Comma) {
			break
		}
	}

	return p.arenas.Stmts.NewVarDefs(p.spanFrom(start), ast.VarDefsData{Decorator: dec, Defs: defs}), nil
}

func (p *Parser) parseVarDef(dec ast.Decorator, nameTok token.Token) (ast.VarDef, error) {
	def := ast.VarDef{Name: nameTok.Text, Span: nameTok.Span}
	if p.eat(token.Assign) {
		value, err := p.parseExpr()
		if err != nil {
			return def, err
		}
		def.Value = value
	}

	switch dec.Kind {
	case ast.DecIn, ast.DecClock, ast.DecWire:
		if def.Value.IsValid() {
			return def, diag.Errorf(diag.SynUnexpectedValue, nameTok.Span, def.Name,
				"%s %s cannot have a value", dec.Kind, def.Name)
		}
	default:
		if !def.Value.IsValid() {
			return def, diag.Errorf(diag.SynMissingValue, nameTok.Span, def.Name,
				"%s needs a value", def.Name)
		}
	}

	var err error
	switch dec.Kind {
	case ast.DecIn:
		err = p.res.Declare(def.Name, sema.SymInput, types.Fixed(dec.Bits), def.Span)
	case ast.DecClock:
		err = p.res.Declare(def.Name, sema.SymClock, types.Fixed(1), def.Span)
	case ast.DecWire:
		err = p.res.Declare(def.Name, sema.SymWire, types.Fixed(dec.Bits), def.Span)
	case ast.DecOut:
		w := types.Fixed(dec.Bits)
		if !dec.HasBits {
			size, ok := p.arenas.Exprs.Width(def.Value).Size()
			if !ok {
				return def, diag.Errorf(diag.SemTypeMismatch, def.Span, def.Name,
					"output %s needs a bus or a single-field record, got %s", def.Name, p.arenas.Exprs.Width(def.Value))
			}
			w = types.Fixed(size)
		}
		err = p.res.Declare(def.Name, sema.SymOutput, w, def.Span)
	default:
		err = p.res.Assign(def.Name, p.arenas.Exprs.Width(def.Value), def.Span)
	}
	return def, err
}

// parseModule reads `name { stmt* }` and registers its signature once the
// body is closed, so a module cannot use itself.
func (p *Parser) parseModule(name token.Token) (ast.StmtID, error) {
	p.advance() // '{'
	p.res.PushScope()
	body, err := p.parseStmts(token.RBrace)
	if err != nil {
		return ast.NoStmtID, err
	}
	p.advance() // '}'
	inputs, outputs := p.res.PopScope()

	sig := sema.Signature{Name: name.Text, Inputs: inputs, Outputs: outputs}
	if err := p.res.Register(sig, name.Span); err != nil {
		return ast.NoStmtID, err
	}
	return p.arenas.Stmts.NewModule(p.spanFrom(name.Span), ast.ModuleData{
		Name:    name.Text,
		Inputs:  inputs,
		Outputs: outputs,
		Body:    body,
	}), nil
}
