package parser

import (
	"slices"

	"dhlc/internal/ast"
	"dhlc/internal/diag"
	"dhlc/internal/lexer"
	"dhlc/internal/sema"
	"dhlc/internal/source"
	"dhlc/internal/token"
)

type Options struct {
	// Reporter receives the diagnostic of a failed parse; may be nil.
	Reporter diag.Reporter
	Hints    ast.Hints
}

// Result is a fully width-annotated program.
type Result struct {
	Builder  *ast.Builder
	Program  ast.Program
	Resolver *sema.Resolver
}

// Parser is the state for one file. Parsing stops at the first error.
type Parser struct {
	lx       *lexer.Lexer
	arenas   *ast.Builder
	res      *sema.Resolver
	file     *source.File
	lastSpan source.Span
}

// ParseFile parses and width-resolves file.
func ParseFile(file *source.File, opts Options) (*Result, error) {
	lx := lexer.New(file, lexer.Options{})
	arenas := ast.NewBuilder(opts.Hints)
	p := &Parser{
		lx:       lx,
		arenas:   arenas,
		res:      sema.New(arenas.Exprs),
		file:     file,
		lastSpan: lx.EmptySpan(),
	}

	stmts, err := p.parseStmts(token.EOF)
	if err != nil {
		diag.ReportError(opts.Reporter, err)
		return nil, err
	}
	return &Result{
		Builder:  arenas,
		Program:  ast.Program{File: file.ID, Stmts: stmts},
		Resolver: p.res,
	}, nil
}

func (p *Parser) peek() token.Token {
	return p.lx.Peek()
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

// advance consumes the next token and remembers its span.
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF && tok.Kind != token.Invalid {
		p.lastSpan = tok.Span
	}
	return tok
}

// eat consumes the next token if it is of kind k.
func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

// diagSpan is the best span for an error at the current position.
func (p *Parser) diagSpan() source.Span {
	peek := p.peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

// fail builds a syntax error at the current token; lexical errors take precedence.
func (p *Parser) fail(code diag.Code, format string, args ...any) error {
	if p.at(token.Invalid) {
		if err := p.lx.Err(); err != nil {
			return err
		}
	}
	return diag.Errorf(code, p.diagSpan(), p.peek().Text, format, args...)
}

func (p *Parser) expect(k token.Kind, code diag.Code, what string) (token.Token, error) {
	if p.at(k) {
		return p.advance(), nil
	}
	return token.Token{}, p.fail(code, "expected %s, found %s", what, describe(p.peek()))
}

func (p *Parser) expectIdent(what string) (token.Token, error) {
	return p.expect(token.Ident, diag.SynExpectIdent, what)
}

// spanFrom covers start up to the last consumed token.
func (p *Parser) spanFrom(start source.Span) source.Span {
	return start.Cover(p.lastSpan)
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of file"
	case token.Ident, token.IntLit:
		return tok.Kind.String() + " " + tok.Text
	case token.StringLit:
		return "string literal"
	default:
		return "'" + tok.Kind.String() + "'"
	}
}
