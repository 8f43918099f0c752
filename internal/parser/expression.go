package parser

import (
	"dhlc/internal/ast"
	"dhlc/internal/diag"
	"dhlc/internal/sema"
	"dhlc/internal/token"
)

var binaryOps = map[token.Kind]ast.BinaryOp{
	token.Amp:       ast.OpAnd,
	token.BangAmp:   ast.OpNand,
	token.Pipe:      ast.OpOr,
	token.BangPipe:  ast.OpNor,
	token.Caret:     ast.OpXor,
	token.BangCaret: ast.OpXnor,
}

// resolved annotates a freshly built node with its width.
func (p *Parser) resolved(id ast.ExprID) (ast.ExprID, error) {
	if _, err := p.res.Resolve(id); err != nil {
		return ast.NoExprID, err
	}
	return id, nil
}

func (p *Parser) parseExpr() (ast.ExprID, error) {
	return p.parseExprWith(token.Token{})
}

// parseExprWith parses `unary (binop unary)*`, left-associative with a single
// precedence level. first is an identifier the caller already consumed.
func (p *Parser) parseExprWith(first token.Token) (ast.ExprID, error) {
	start := p.peek().Span
	if first.Kind == token.Ident {
		start = first.Span
	}
	lhs, err := p.parseUnaryWith(first)
	if err != nil {
		return ast.NoExprID, err
	}

	for p.peek().Kind.IsBinaryOp() {
		opTok := p.advance()
		rhs, err := p.parseUnaryWith(token.Token{})
		if err != nil {
			return ast.NoExprID, err
		}
		span := p.spanFrom(start)
		var node ast.ExprID
		if opTok.Kind == token.Question {
			node = p.arenas.Exprs.NewMux(span, lhs, rhs)
		} else {
			node = p.arenas.Exprs.NewBinary(span, binaryOps[opTok.Kind], lhs, rhs)
		}
		if lhs, err = p.resolved(node); err != nil {
			return ast.NoExprID, err
		}
	}
	return lhs, nil
}

func (p *Parser) parseUnaryWith(first token.Token) (ast.ExprID, error) {
	if first.Kind != token.Ident && p.at(token.Bang) {
		bang := p.advance()
		operand, err := p.parseUnaryWith(token.Token{})
		if err != nil {
			return ast.NoExprID, err
		}
		return p.resolved(p.arenas.Exprs.NewNot(p.spanFrom(bang.Span), operand))
	}
	return p.parsePostfix(first)
}

func (p *Parser) parsePostfix(first token.Token) (ast.ExprID, error) {
	start := p.peek().Span
	if first.Kind == token.Ident {
		start = first.Span
	}
	expr, err := p.parsePrimary(first)
	if err != nil {
		return ast.NoExprID, err
	}

	for p.eat(token.Dot) {
		switch {
		case p.at(token.IntLit):
			from, err := p.parseUint32("bit index")
			if err != nil {
				return ast.NoExprID, err
			}
			if p.eat(token.DotDot) {
				to, err := p.parseUint32("range end")
				if err != nil {
					return ast.NoExprID, err
				}
				expr, err = p.resolved(p.arenas.Exprs.NewRange(p.spanFrom(start), expr, from, to))
			} else {
				expr, err = p.resolved(p.arenas.Exprs.NewBit(p.spanFrom(start), expr, from))
			}
			if err != nil {
				return ast.NoExprID, err
			}
		case p.at(token.Ident):
			name := p.advance()
			if expr, err = p.resolved(p.arenas.Exprs.NewName(p.spanFrom(start), expr, name.Text)); err != nil {
				return ast.NoExprID, err
			}
		default:
			return ast.NoExprID, p.fail(diag.SynUnexpectedToken,
				"expected bit index, range or field name after '.', found %s", describe(p.peek()))
		}
	}
	return expr, nil
}

func (p *Parser) parsePrimary(first token.Token) (ast.ExprID, error) {
	if first.Kind == token.Ident {
		return p.parseIdentOrUse(first)
	}

	switch tok := p.peek(); tok.Kind {
	case token.Ident:
		return p.parseIdentOrUse(p.advance())

	case token.IntLit:
		p.advance()
		v, long, err := intValue(tok)
		if err != nil {
			return ast.NoExprID, err
		}
		if long {
			return ast.NoExprID, diag.Errorf(diag.SynUnexpectedToken, tok.Span, tok.Text,
				"long literals are only valid as attribute values")
		}
		return p.resolved(p.arenas.Exprs.NewInt(tok.Span, v))

	case token.StringLit:
		p.advance()
		return p.resolved(p.arenas.Exprs.NewStringLit(tok.Span, tok.Text))

	case token.LParen:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return ast.NoExprID, err
		}
		if _, err := p.expect(token.RParen, diag.SynUnclosedParen, "')'"); err != nil {
			return ast.NoExprID, err
		}
		return inner, nil

	case token.LBracket:
		return p.parseCombine()

	default:
		return ast.NoExprID, p.fail(diag.SynExpectExpression, "expected expression, found %s", describe(tok))
	}
}

// parseIdentOrUse builds a variable reference, or a module use when the name
// is followed by an argument list.
func (p *Parser) parseIdentOrUse(name token.Token) (ast.ExprID, error) {
	if !p.at(token.LParen) {
		return p.resolved(p.arenas.Exprs.NewIdent(name.Span, name.Text))
	}
	args, err := p.parseArgs()
	if err != nil {
		return ast.NoExprID, err
	}
	return p.resolved(p.arenas.Exprs.NewUse(p.spanFrom(name.Span), name.Text, args))
}

// parseArgs reads `'(' (arg (',' arg)*)? ')'` where arg is `(IDENT ':')? expr`.
func (p *Parser) parseArgs() ([]ast.Arg, error) {
	open := p.advance() // '('
	var args []ast.Arg
	for !p.at(token.RParen) {
		if p.at(token.EOF) {
			return nil, diag.Errorf(diag.SynUnclosedParen, open.Span, "", "argument list is not closed")
		}
		start := p.peek().Span
		name := sema.PositionalName(len(args))
		var first token.Token
		if p.at(token.Ident) {
			first = p.advance()
			if p.eat(token.Colon) {
				name = first.Text
				first = token.Token{}
			}
		}
		value, err := p.parseExprWith(first)
		if err != nil {
			return nil, err
		}
		args = append(args, ast.Arg{Name: name, Value: value, Span: p.spanFrom(start)})
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, err := p.expect(token.RParen, diag.SynUnclosedParen, "')'"); err != nil {
		return nil, err
	}
	return args, nil
}
