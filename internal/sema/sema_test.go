package sema

import (
	"testing"

	"dhlc/internal/ast"
	"dhlc/internal/diag"
	"dhlc/internal/source"
	"dhlc/internal/types"
)

type fixture struct {
	t     *testing.T
	exprs *ast.Exprs
	r     *Resolver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	exprs := ast.NewExprs(0)
	return &fixture{t: t, exprs: exprs, r: New(exprs)}
}

func (f *fixture) resolve(id ast.ExprID) types.BitWidth {
	f.t.Helper()
	w, err := f.r.Resolve(id)
	if err != nil {
		f.t.Fatalf("Resolve: %v", err)
	}
	return w
}

func (f *fixture) resolveErr(id ast.ExprID, code diag.Code) {
	f.t.Helper()
	_, err := f.r.Resolve(id)
	if !diag.IsCode(err, code) {
		f.t.Fatalf("Resolve error = %v, want %s", err, code.ID())
	}
}

func (f *fixture) num(v uint64) ast.ExprID {
	id := f.exprs.NewInt(source.Span{}, v)
	f.resolve(id)
	return id
}

func (f *fixture) ident(name string) ast.ExprID {
	id := f.exprs.NewIdent(source.Span{}, name)
	f.resolve(id)
	return id
}

func (f *fixture) declare(name string, w types.BitWidth) {
	f.t.Helper()
	if err := f.r.Declare(name, SymInput, w, source.Span{}); err != nil {
		f.t.Fatalf("Declare(%s): %v", name, err)
	}
}

func TestIntegerLiteralWidth(t *testing.T) {
	f := newFixture(t)
	for v, want := range map[uint64]uint32{0: 1, 1: 1, 5: 3, 255: 8, 256: 9} {
		if w := f.exprs.Width(f.num(v)); !w.Equal(types.Fixed(want)) {
			t.Errorf("width of %d = %v, want %d", v, w, want)
		}
	}
}

func TestOperatorWidths(t *testing.T) {
	f := newFixture(t)
	f.declare("a", types.Fixed(2))
	f.declare("b", types.Fixed(5))

	bin := f.exprs.NewBinary(source.Span{}, ast.OpXor, f.ident("a"), f.ident("b"))
	if w := f.resolve(bin); !w.Equal(types.Fixed(5)) {
		t.Fatalf("a ^ b = %v, want 5", w)
	}
	not := f.exprs.NewNot(source.Span{}, f.ident("a"))
	if w := f.resolve(not); !w.Equal(types.Fixed(2)) {
		t.Fatalf("!a = %v, want 2", w)
	}
	bit := f.exprs.NewBit(source.Span{}, f.ident("b"), 9)
	if w := f.resolve(bit); !w.Equal(types.Fixed(1)) {
		t.Fatalf("b.9 = %v, want 1", w)
	}
	rng := f.exprs.NewRange(source.Span{}, f.ident("b"), 1, 3)
	if w := f.resolve(rng); !w.Equal(types.Fixed(3)) {
		t.Fatalf("b.1..3 = %v, want 3", w)
	}
	bad := f.exprs.NewRange(source.Span{}, f.ident("b"), 3, 1)
	f.resolveErr(bad, diag.SemMalformedRange)
}

func TestUnresolvedReference(t *testing.T) {
	f := newFixture(t)
	id := f.exprs.NewIdent(source.Span{}, "ghost")
	f.resolveErr(id, diag.SemUnresolvedReference)
}

func TestRecordAndNameExtract(t *testing.T) {
	f := newFixture(t)
	f.declare("a", types.Fixed(3))
	rec := f.exprs.NewRecord(source.Span{}, []ast.RecordField{
		{Name: "s", Value: f.ident("a")},
		{Name: "c", Value: f.num(1)},
	})
	w := f.resolve(rec)
	want := types.Object(map[string]types.BitWidth{"s": types.Fixed(3), "c": types.Fixed(1)})
	if !w.Equal(want) {
		t.Fatalf("record width = %v, want %v", w, want)
	}
	f.declare("r", w)

	s := f.exprs.NewName(source.Span{}, f.ident("r"), "s")
	if got := f.resolve(s); !got.Equal(types.Fixed(3)) {
		t.Fatalf("r.s = %v", got)
	}
	missing := f.exprs.NewName(source.Span{}, f.ident("r"), "zz")
	f.resolveErr(missing, diag.SemUnresolvedReference)

	onBus := f.exprs.NewName(source.Span{}, f.ident("a"), "s")
	f.resolveErr(onBus, diag.SemTypeMismatch)

	// A two-field record has no single size, so it cannot feed a gate.
	and := f.exprs.NewBinary(source.Span{}, ast.OpAnd, f.ident("r"), f.ident("a"))
	f.resolveErr(and, diag.SemTypeMismatch)
}

func TestMultiplexWidth(t *testing.T) {
	f := newFixture(t)
	f.declare("a", types.Fixed(4))
	f.declare("sel", types.Fixed(1))
	vec := f.exprs.NewVector(source.Span{}, []ast.ExprID{f.ident("a"), f.num(1)})
	f.resolve(vec)
	mux := f.exprs.NewMux(source.Span{}, vec, f.ident("sel"))
	if w := f.resolve(mux); !w.Equal(types.Fixed(4)) {
		t.Fatalf("mux width = %v, want 4", w)
	}
	notVec := f.exprs.NewMux(source.Span{}, f.ident("a"), f.ident("sel"))
	f.resolveErr(notVec, diag.SemTypeMismatch)
}

func TestModuleUse(t *testing.T) {
	f := newFixture(t)
	use := f.exprs.NewUse(source.Span{}, "half", []ast.Arg{{Name: "a", Value: f.num(1)}})
	f.resolveErr(use, diag.SemSignatureNotDeclared)

	err := f.r.Register(Signature{
		Name:    "half",
		Inputs:  []ast.Port{{Name: "a", Width: types.Fixed(1)}, {Name: "b", Width: types.Fixed(1)}},
		Outputs: []ast.Port{{Name: "s", Width: types.Fixed(1)}, {Name: "c", Width: types.Fixed(1)}},
	}, source.Span{})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := f.r.Register(Signature{Name: "half"}, source.Span{}); !diag.IsCode(err, diag.SemDuplicateDefinition) {
		t.Fatalf("second Register = %v", err)
	}

	ok := f.exprs.NewUse(source.Span{}, "half", []ast.Arg{
		{Name: "a", Value: f.num(1)},
		{Name: "b", Value: f.num(0)},
	})
	w := f.resolve(ok)
	if s, _ := w.Field("s"); !s.Equal(types.Fixed(1)) || len(w.Fields) != 2 {
		t.Fatalf("use width = %v", w)
	}

	missing := f.exprs.NewUse(source.Span{}, "half", []ast.Arg{{Name: "a", Value: f.num(1)}})
	f.resolveErr(missing, diag.SemSignatureMismatch)
}

func TestBindArgs(t *testing.T) {
	one := []ast.Arg{{Name: PositionalName(0)}}
	two := []ast.Arg{{Name: "0"}, {Name: "1"}}

	bound, err := BindArgs("m", []string{"x"}, one, source.Span{}, BindInternal)
	if err != nil || bound["x"].Name != "0" {
		t.Fatalf("single positional = %v, %v", bound, err)
	}
	if _, err := BindArgs("m", []string{"x", "y"}, two, source.Span{}, BindInternal); !diag.IsCode(err, diag.SemSignatureMismatch) {
		t.Fatalf("two positionals accepted: %v", err)
	}
	if _, err := BindArgs("m", []string{"x"}, []ast.Arg{{Name: "x"}, {Name: "q"}}, source.Span{}, BindInternal); !diag.IsCode(err, diag.SemSignatureMismatch) {
		t.Fatalf("unknown argument accepted: %v", err)
	}

	bound, err = BindArgs("ext", []string{"A", "B"}, []ast.Arg{{Name: "A"}}, source.Span{}, BindExternal)
	if err != nil || len(bound) != 1 {
		t.Fatalf("external partial binding = %v, %v", bound, err)
	}
	if _, err := BindArgs("ext", []string{"A", "B"}, one, source.Span{}, BindExternal); !diag.IsCode(err, diag.SemSignatureMismatch) {
		t.Fatalf("external positional with two pins accepted: %v", err)
	}
	if bound, err := BindArgs("ext", []string{"A"}, one, source.Span{}, BindExternal); err != nil || bound["A"].Name != "0" {
		t.Fatalf("external positional with one pin = %v, %v", bound, err)
	}
}

func TestScopesAndCompletion(t *testing.T) {
	f := newFixture(t)
	span := source.Span{}
	if err := f.r.Declare("w", SymWire, types.Fixed(2), span); err != nil {
		t.Fatalf("Declare wire: %v", err)
	}
	if err := f.r.Assign("w", types.Fixed(2), span); err != nil {
		t.Fatalf("first completion: %v", err)
	}
	if err := f.r.Assign("w", types.Fixed(2), span); !diag.IsCode(err, diag.SemDuplicateDefinition) {
		t.Fatalf("second completion = %v", err)
	}
	if err := f.r.Assign("x", types.Fixed(1), span); err != nil {
		t.Fatalf("new local: %v", err)
	}
	if err := f.r.Assign("x", types.Fixed(1), span); !diag.IsCode(err, diag.SemDuplicateDefinition) {
		t.Fatalf("redefinition = %v", err)
	}

	f.r.PushScope()
	if err := f.r.Declare("a", SymInput, types.Fixed(3), span); err != nil {
		t.Fatalf("Declare input: %v", err)
	}
	if err := f.r.Declare("clk", SymClock, types.Fixed(1), span); err != nil {
		t.Fatalf("Declare clock: %v", err)
	}
	if err := f.r.Declare("y", SymOutput, types.Fixed(3), span); err != nil {
		t.Fatalf("Declare output: %v", err)
	}
	if _, ok := f.r.Lookup("x"); !ok {
		t.Fatalf("outer local not visible in module scope")
	}
	f.r.PushScope()
	if _, ok := f.r.Lookup("a"); ok {
		t.Fatalf("nested module body sees its enclosing body's input")
	}
	if sym, ok := f.r.Lookup("x"); !ok || sym.Kind != SymLocal {
		t.Fatalf("top-level local not visible from nested body: %+v", sym)
	}
	f.r.PopScope()

	if err := f.r.Assign("x", types.Fixed(1), span); err != nil {
		t.Fatalf("shadowing in inner scope: %v", err)
	}
	inputs, outputs := f.r.PopScope()
	if len(inputs) != 2 || inputs[0].Name != "a" || inputs[1].Name != "clk" {
		t.Fatalf("inputs = %+v", inputs)
	}
	if len(outputs) != 1 || outputs[0].Name != "y" {
		t.Fatalf("outputs = %+v", outputs)
	}
	if _, ok := f.r.Lookup("a"); ok {
		t.Fatalf("module input leaked out of its scope")
	}
}
