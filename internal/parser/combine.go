package parser

import (
	"dhlc/internal/ast"
	"dhlc/internal/diag"
	"dhlc/internal/source"
	"dhlc/internal/token"
)

// maxVectorLanes bounds the lanes a keyed vector may expand to.
const maxVectorLanes = 1 << 16

type combineKey struct {
	lanes []uint32 // index list, or every lane of a range
	rng   bool
	names []string
	span  source.Span
}

type combineEntry struct {
	key   combineKey
	value ast.ExprID
}

// parseCombine reads `[key: expr, ...]`. Index keys build a bit vector,
// identifier keys build a record.
func (p *Parser) parseCombine() (ast.ExprID, error) {
	open := p.advance() // '['
	var entries []combineEntry
	for !p.at(token.RBracket) {
		if p.at(token.EOF) {
			return ast.NoExprID, diag.Errorf(diag.SynUnclosedBracket, open.Span, "", "combine is not closed")
		}
		key, err := p.parseCombineKey()
		if err != nil {
			return ast.NoExprID, err
		}
		if _, err := p.expect(token.Colon, diag.SynUnexpectedToken, "':' after combine key"); err != nil {
			return ast.NoExprID, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return ast.NoExprID, err
		}
		entries = append(entries, combineEntry{key: key, value: value})
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, err := p.expect(token.RBracket, diag.SynUnclosedBracket, "']'"); err != nil {
		return ast.NoExprID, err
	}
	span := p.spanFrom(open.Span)

	if len(entries) == 0 {
		return ast.NoExprID, diag.Errorf(diag.SynEmptyCombine, span, "", "combine needs at least one entry")
	}
	numeric := entries[0].key.names == nil
	for _, e := range entries[1:] {
		if (e.key.names == nil) != numeric {
			return ast.NoExprID, diag.Errorf(diag.SynMixedCombineKeys, e.key.span, "",
				"cannot mix index and name keys in one combine")
		}
	}
	if numeric {
		return p.buildVector(span, entries)
	}
	return p.buildRecord(span, entries)
}

func (p *Parser) parseCombineKey() (combineKey, error) {
	start := p.peek().Span
	switch {
	case p.at(token.IntLit):
		from, err := p.parseUint32("combine index")
		if err != nil {
			return combineKey{}, err
		}
		if p.eat(token.DotDot) {
			to, err := p.parseUint32("range end")
			if err != nil {
				return combineKey{}, err
			}
			span := p.spanFrom(start)
			if from > to {
				return combineKey{}, diag.Errorf(diag.SemMalformedRange, span, "", "range %d..%d runs backwards", from, to)
			}
			if to-from >= maxVectorLanes {
				return combineKey{}, diag.Errorf(diag.SemMalformedRange, span, "", "range %d..%d is too wide", from, to)
			}
			lanes := make([]uint32, 0, to-from+1)
			for i := from; i <= to; i++ {
				lanes = append(lanes, i)
			}
			return combineKey{lanes: lanes, rng: true, span: span}, nil
		}
		lanes := []uint32{from}
		for p.at(token.Comma) {
			p.advance()
			n, err := p.parseUint32("combine index")
			if err != nil {
				return combineKey{}, err
			}
			lanes = append(lanes, n)
		}
		return combineKey{lanes: lanes, span: p.spanFrom(start)}, nil

	case p.at(token.Ident):
		names := []string{p.advance().Text}
		for p.eat(token.Comma) {
			tok, err := p.expectIdent("field name")
			if err != nil {
				return combineKey{}, err
			}
			names = append(names, tok.Text)
		}
		return combineKey{names: names, span: p.spanFrom(start)}, nil
	}
	return combineKey{}, p.fail(diag.SynUnexpectedToken, "expected combine key, found %s", describe(p.peek()))
}

// buildVector expands keyed entries into one element per lane. Single indexes
// and index lists put the whole value on every listed lane; a range puts bit k
// of the value on its k-th lane. Later keys overwrite earlier ones and gaps
// are constant 0.
func (p *Parser) buildVector(span source.Span, entries []combineEntry) (ast.ExprID, error) {
	exprs := p.arenas.Exprs
	lanes := make(map[uint32]ast.ExprID)
	var largest uint32
	for _, e := range entries {
		for k, lane := range e.key.lanes {
			if lane >= maxVectorLanes {
				return ast.NoExprID, diag.Errorf(diag.SemMalformedRange, e.key.span, "", "lane %d is out of range", lane)
			}
			largest = max(largest, lane)
			if !e.key.rng {
				lanes[lane] = e.value
				continue
			}
			bit, err := p.resolved(exprs.NewBit(e.key.span, e.value, uint32(k)))
			if err != nil {
				return ast.NoExprID, err
			}
			lanes[lane] = bit
		}
	}

	elems := make([]ast.ExprID, 0, largest+1)
	for i := uint32(0); i <= largest; i++ {
		if id, ok := lanes[i]; ok {
			elems = append(elems, id)
			continue
		}
		zero, err := p.resolved(exprs.NewInt(span, 0))
		if err != nil {
			return ast.NoExprID, err
		}
		elems = append(elems, zero)
	}
	return p.resolved(exprs.NewVector(span, elems))
}

func (p *Parser) buildRecord(span source.Span, entries []combineEntry) (ast.ExprID, error) {
	var fields []ast.RecordField
	index := make(map[string]int)
	for _, e := range entries {
		for _, name := range e.key.names {
			f := ast.RecordField{Name: name, Value: e.value, Span: e.key.span}
			if i, ok := index[name]; ok {
				fields[i] = f
				continue
			}
			index[name] = len(fields)
			fields = append(fields, f)
		}
	}
	return p.resolved(p.arenas.Exprs.NewRecord(span, fields))
}
