package ast

import (
	"testing"

	"dhlc/internal/source"
	"dhlc/internal/types"
)

func TestArenaIDsAreOneBased(t *testing.T) {
	a := NewArena[int](0)
	if a.Get(0) != nil || a.Get(1) != nil {
		t.Fatalf("empty arena returned a value")
	}
	id := a.Allocate(7)
	if id != 1 || *a.Get(id) != 7 || a.Len() != 1 {
		t.Fatalf("Allocate returned %d", id)
	}
}

func TestExprPayloadAccessors(t *testing.T) {
	b := NewBuilder(Hints{})
	x := b.Exprs.NewIdent(source.Span{}, "x")
	one := b.Exprs.NewInt(source.Span{}, 1)
	and := b.Exprs.NewBinary(source.Span{}, OpAnd, x, one)
	b.Exprs.SetWidth(and, types.Fixed(4))

	bin, ok := b.Exprs.Binary(and)
	if !ok || bin.Left != x || bin.Right != one || bin.Op != OpAnd {
		t.Fatalf("Binary payload = %+v, %v", bin, ok)
	}
	if _, ok := b.Exprs.Ident(and); ok {
		t.Fatalf("Ident accessor accepted a binary node")
	}
	if w := b.Exprs.Width(and); !w.Equal(types.Fixed(4)) {
		t.Fatalf("width = %v", w)
	}
	if w := b.Exprs.Width(NoExprID); w.Kind != types.KindInvalid {
		t.Fatalf("missing node has width %v", w)
	}
}

func TestStmtAccessors(t *testing.T) {
	s := NewStmts(0)
	id := s.NewVarDefs(source.Span{}, VarDefsData{
		Decorator: Decorator{Kind: DecIn, Bits: 2, HasBits: true},
		Defs:      []VarDef{{Name: "a"}},
	})
	vd, ok := s.VarDefsOf(id)
	if !ok || vd.Decorator.Kind != DecIn || vd.Defs[0].Name != "a" {
		t.Fatalf("VarDefsOf = %+v, %v", vd, ok)
	}
	if _, ok := s.Module(id); ok {
		t.Fatalf("Module accessor accepted var defs")
	}
	if DecClock.String() != "@clock" || OpXnor.String() != "!^" {
		t.Fatalf("unexpected String output")
	}
}
