package lower_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"dhlc/internal/ast"
	"dhlc/internal/diag"
	"dhlc/internal/lower"
	"dhlc/internal/netlist"
	"dhlc/internal/source"
	"dhlc/internal/testkit"
	"dhlc/internal/types"
)

func attrString(t *testing.T, e netlist.Element, key string) string {
	t.Helper()
	v, ok := e.Attr(key)
	if !ok {
		t.Fatalf("%s has no %q attribute", e.Name, key)
	}
	return v.Text()
}

func TestScenarioAndGate(t *testing.T) {
	c := testkit.Lower(t, "@in(1) a, b\n@out(1) c = a & b")
	g := c.Graph()
	testkit.ExpectCounts(t, g, map[string]int{
		netlist.KindIn:       2,
		netlist.KindAnd:      1,
		netlist.KindOut:      1,
		netlist.KindSplitter: 0,
		"wires":              3,
	})
	if err := testkit.CheckGraphInvariants(g); err != nil {
		t.Fatal(err)
	}
}

func TestScenarioBitExtract(t *testing.T) {
	c := testkit.Lower(t, "@in(4) a\n@out(1) b = a.2")
	g := c.Graph()
	testkit.ExpectCounts(t, g, map[string]int{
		netlist.KindIn:       1,
		netlist.KindSplitter: 1,
		netlist.KindOut:      1,
		"wires":              2,
	})
	in := g.ElementsOf(netlist.KindIn)[0]
	split := g.ElementsOf(netlist.KindSplitter)[0]
	out := g.ElementsOf(netlist.KindOut)[0]
	if got := attrString(t, in, "Bits"); got != "4" {
		t.Errorf("input bits = %s", got)
	}
	if got := attrString(t, split, "Output Splitting"); got != "2-2" {
		t.Errorf("splitter output = %q", got)
	}
	if got := attrString(t, out, "Bits"); got != "1" {
		t.Errorf("output bits = %s", got)
	}
	want := []netlist.Wire{
		{Start: in.Pos, End: split.Pos.Offset(netlist.SplitterInput(0))},
		{Start: split.Pos.Offset(netlist.SplitterOutput(0)), End: out.Pos},
	}
	if !reflect.DeepEqual(g.Wires, want) {
		t.Fatalf("wires = %v, want %v", g.Wires, want)
	}
}

func TestScenarioForwardWire(t *testing.T) {
	c := testkit.Lower(t, "@in(8) a\n@wire(8) x\nx = a")
	g := c.Graph()
	if len(g.Elements) != 1 {
		t.Fatalf("elements = %d, want only the input", len(g.Elements))
	}
	x, ok := c.Lookup("x")
	if !ok {
		t.Fatal("x is not bound")
	}
	want := []netlist.Wire{{Start: g.Elements[0].Pos, End: x.Pos}}
	if !reflect.DeepEqual(g.Wires, want) {
		t.Fatalf("wires = %v, want %v", g.Wires, want)
	}
}

func TestForwardWireFeedsEarlierReaders(t *testing.T) {
	c := testkit.Lower(t, "@in a\n@wire q\n@out o = !q\nq = a")
	if err := testkit.CheckGraphInvariants(c.Graph()); err != nil {
		t.Fatal(err)
	}
	testkit.ExpectCounts(t, c.Graph(), map[string]int{netlist.KindNot: 1, "wires": 3})
}

func newCircuit(t *testing.T, b *ast.Builder) *lower.Circuit {
	t.Helper()
	c, err := lower.New(b, lower.Options{Layout: netlist.DefaultLayout()})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestCastValue(t *testing.T) {
	tests := []struct {
		name     string
		from, to uint32
		elements []string
		wires    int
	}{
		{"equal", 4, 4, nil, 0},
		{"truncate", 8, 3, []string{netlist.KindSplitter}, 1},
		{"zero extend", 2, 6, []string{netlist.KindConst, netlist.KindSplitter}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCircuit(t, ast.NewBuilder(ast.Hints{}))
			src := lower.Wire(tt.from, netlist.Coordinate{X: -100, Y: -100})
			pos, err := c.CastValue(src, tt.to, source.Span{})
			if err != nil {
				t.Fatal(err)
			}
			g := c.Graph()
			if len(g.Elements) != len(tt.elements) || len(g.Wires) != tt.wires {
				t.Fatalf("elements = %v, wires = %d", g.Kinds(), len(g.Wires))
			}
			for i, kind := range tt.elements {
				if g.Elements[i].Name != kind {
					t.Errorf("element %d = %s, want %s", i, g.Elements[i].Name, kind)
				}
			}
			if tt.from == tt.to && pos != src.Pos {
				t.Errorf("equal cast moved the anchor to %s", pos)
			}
		})
	}
}

func TestCastValueSplitting(t *testing.T) {
	c := newCircuit(t, ast.NewBuilder(ast.Hints{}))
	if _, err := c.CastValue(lower.Wire(2, netlist.Coordinate{}), 6, source.Span{}); err != nil {
		t.Fatal(err)
	}
	g := c.Graph()
	zero, ext := g.Elements[0], g.Elements[1]
	if attrString(t, zero, "Bits") != "4" || attrString(t, zero, "Value") != "0" {
		t.Errorf("zero source = %v", zero.Attributes)
	}
	if attrString(t, ext, "Input Splitting") != "2,4" || attrString(t, ext, "Output Splitting") != "6" {
		t.Errorf("extender = %v", ext.Attributes)
	}
	if g.Wires[0] != (netlist.Wire{Start: zero.Pos, End: ext.Pos.Offset(netlist.SplitterInput(1))}) {
		t.Errorf("zero wire = %v", g.Wires[0])
	}
}

func TestCastValueRejectsRecord(t *testing.T) {
	c := newCircuit(t, ast.NewBuilder(ast.Hints{}))
	rec := lower.Object(map[string]*lower.Data{
		"a": lower.Wire(1, netlist.Coordinate{}),
		"b": lower.Wire(1, netlist.Coordinate{X: 20}),
	})
	if _, err := c.CastValue(rec, 1, source.Span{}); !diag.IsCode(err, diag.SemTypeMismatch) {
		t.Fatalf("err = %v, want type mismatch", err)
	}
	single := lower.Object(map[string]*lower.Data{"a": lower.Wire(3, netlist.Coordinate{X: 7})})
	pos, err := c.CastValue(single, 3, source.Span{})
	if err != nil || pos != (netlist.Coordinate{X: 7}) {
		t.Fatalf("single-field record cast = %s, %v", pos, err)
	}
}

func TestBinaryGateArray(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		gates     int
		splitters int
		consts    int
	}{
		{"one bit", "@in a, b\nx = a ^ b", 1, 0, 0},
		{"matched", "@in(4) a, b\nx = a & b", 4, 3, 0},
		{"widened rhs", "@in(4) a\n@in(2) b\nx = a & b", 4, 4, 1},
		{"widened literal", "@in(3) a\nx = a & 1", 3, 4, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := testkit.Lower(t, tt.src).Graph()
			counts := g.CountByKind()
			gates := 0
			for _, kind := range g.Kinds() {
				if netlist.IsGate(kind) {
					gates += counts[kind]
				}
			}
			if gates != tt.gates || counts[netlist.KindSplitter] != tt.splitters || counts[netlist.KindConst] != tt.consts {
				t.Fatalf("counts = %v", counts)
			}
			if err := testkit.CheckGraphInvariants(g); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestGateNames(t *testing.T) {
	ops := map[string]string{
		"&": netlist.KindAnd, "!&": netlist.KindNAnd,
		"|": netlist.KindOr, "!|": netlist.KindNOr,
		"^": netlist.KindXOr, "!^": netlist.KindXNOr,
	}
	for op, kind := range ops {
		t.Run(kind, func(t *testing.T) {
			c := testkit.Lower(t, "@in a, b\n@out o = a "+op+" b")
			g := c.Graph()
			gates := g.ElementsOf(kind)
			if len(gates) != 1 {
				t.Fatalf("kinds = %v", g.Kinds())
			}
			out := g.ElementsOf(netlist.KindOut)[0]
			last := g.Wires[len(g.Wires)-1]
			if last.Start != gates[0].Pos.Offset(netlist.GateOutput(kind)) || last.End != out.Pos {
				t.Fatalf("output wire = %v", last)
			}
		})
	}
}

func TestNotArray(t *testing.T) {
	g := testkit.Lower(t, "@in(3) a\n@out o = !a").Graph()
	testkit.ExpectCounts(t, g, map[string]int{
		netlist.KindNot:      3,
		netlist.KindSplitter: 2,
		// in->split, 3 lanes in, 3 lanes out, combiner->out
		"wires": 8,
	})
	nots := g.ElementsOf(netlist.KindNot)
	for i := 1; i < len(nots); i++ {
		if nots[i].Pos.X != nots[0].Pos.X || nots[i].Pos.Y <= nots[i-1].Pos.Y {
			t.Fatalf("not gates are not stacked by lane: %v", nots)
		}
	}
	if err := testkit.CheckGraphInvariants(g); err != nil {
		t.Fatal(err)
	}
}

func TestBitPastWidthIsZero(t *testing.T) {
	c := testkit.Lower(t, "@in(2) a\nx = a.5")
	g := c.Graph()
	testkit.ExpectCounts(t, g, map[string]int{netlist.KindSplitter: 0, netlist.KindConst: 1, "wires": 0})
	k := g.ElementsOf(netlist.KindConst)[0]
	if attrString(t, k, "Value") != "0" || attrString(t, k, "Bits") != "1" {
		t.Fatalf("const = %v", k.Attributes)
	}
	x, _ := c.Lookup("x")
	if x.Bits != 1 || x.Pos != k.Pos {
		t.Fatalf("x = %+v", x)
	}
}

func TestRangeExtract(t *testing.T) {
	c := testkit.Lower(t, "@in(4) a\nx = a.1..2\ny = a.2..5")
	g := c.Graph()
	splits := g.ElementsOf(netlist.KindSplitter)
	// x: one extract. y: zero extension to 6 bits, then the extract.
	if len(splits) != 3 {
		t.Fatalf("splitters = %d", len(splits))
	}
	if got := attrString(t, splits[0], "Output Splitting"); got != "1-2" {
		t.Errorf("x extract = %q", got)
	}
	if got := attrString(t, splits[2], "Input Splitting"); got != "6" {
		t.Errorf("y extract input = %q", got)
	}
	x, _ := c.Lookup("x")
	y, _ := c.Lookup("y")
	if x.Bits != 2 || y.Bits != 4 {
		t.Fatalf("widths = %d, %d", x.Bits, y.Bits)
	}
}

func TestVectorAndRecord(t *testing.T) {
	c := testkit.Lower(t, "@in a, b\nv = [0: a, 2: b]\nr = [lo: a, hi: v]\n@out o = r.hi")
	g := c.Graph()
	// The literal gap in v and the combiner; records cost nothing.
	testkit.ExpectCounts(t, g, map[string]int{netlist.KindConst: 1, netlist.KindSplitter: 1})
	r, _ := c.Lookup("r")
	if r.Kind != lower.DataObject || !reflect.DeepEqual(r.Keys(), []string{"hi", "lo"}) {
		t.Fatalf("r = %+v", r)
	}
	o, _ := c.Lookup("o")
	if o.Bits != 3 {
		t.Fatalf("o bits = %d", o.Bits)
	}
}

const halfAdder = `
half_adder {
	@in a, b
	@out s = a ^ b
	@out c = a & b
}
`

func TestInlineModule(t *testing.T) {
	c := testkit.Lower(t, halfAdder+"@in x, y\nr = half_adder(a: x, b: y)\n@out sum = r.s\n@out carry = r.c")
	g := c.Graph()
	testkit.ExpectCounts(t, g, map[string]int{
		netlist.KindXOr: 1, netlist.KindAnd: 1, netlist.KindIn: 2, netlist.KindOut: 2,
	})
	if c.Depth() != 1 {
		t.Fatalf("depth after use = %d", c.Depth())
	}
	if err := testkit.CheckGraphInvariants(g); err != nil {
		t.Fatal(err)
	}
}

func TestInstantiationsAreIsolated(t *testing.T) {
	c := testkit.Lower(t, halfAdder+"@in x, y, z\nr1 = half_adder(a: x, b: y)\nr2 = half_adder(a: r1.s, b: z)")
	g := c.Graph()
	testkit.ExpectCounts(t, g, map[string]int{netlist.KindXOr: 2, netlist.KindAnd: 2})
	for _, name := range []string{"a", "b", "s", "c"} {
		if _, ok := c.Lookup(name); ok {
			t.Errorf("%s leaked out of half_adder", name)
		}
	}
	r1, _ := c.Lookup("r1")
	r2, _ := c.Lookup("r2")
	p1, _ := r1.Fields["s"].Position()
	p2, _ := r2.Fields["s"].Position()
	if p1 == p2 {
		t.Fatal("two instantiations share an output anchor")
	}
	if err := testkit.CheckGraphInvariants(g); err != nil {
		t.Fatal(err)
	}
}

func TestModuleBodyResolvesTopLevelNames(t *testing.T) {
	// n defines its own 4-bit g before calling m; m must still read the
	// 1-bit top-level g it was resolved against.
	src := "@in(1) g\n" +
		"m { @in(1) a\n@out(1) b = a & g }\n" +
		"n { @in(4) x\ng = x\n@out(1) y = m(x.0).b }\n" +
		"@in(4) z\n@out(1) r = n(z).y"
	c := testkit.Lower(t, src)
	g := c.Graph()
	testkit.ExpectCounts(t, g, map[string]int{netlist.KindAnd: 1})

	var top *netlist.Element
	for _, in := range g.ElementsOf(netlist.KindIn) {
		if attrString(t, in, "Label") == "g" {
			top = &in
		}
	}
	if top == nil {
		t.Fatal("no input labelled g")
	}
	drives := false
	for _, w := range g.Wires {
		drives = drives || w.Start == top.Pos
	}
	if !drives {
		t.Fatal("top-level g drives no wire inside m")
	}
	if err := testkit.CheckGraphInvariants(g); err != nil {
		t.Fatal(err)
	}
}

const outerWithDeclarations = `
outer {
	@in x
	inner { @in a
	@out b = !a }
	*Inv:Buffer {
		@in A @(0, 0)
		@out Y @(20, 0)
	}
	@out y = inner(x).b
	@out z = Inv(x).Y
}
`

func TestNestedDeclarationsSurviveRepeatedUse(t *testing.T) {
	c := testkit.Lower(t, outerWithDeclarations+"@in p, q
r1 = outer(p)
r2 = outer(q)
@out o = inner(p).b")
	g := c.Graph()
	testkit.ExpectCounts(t, g, map[string]int{netlist.KindNot: 3, "Buffer": 2, netlist.KindOut: 1})
	for _, name := range []string{"outer", "inner", "Inv"} {
		if _, ok := c.Module(name); !ok {
			t.Errorf("module %s is not registered", name)
		}
	}
	if err := testkit.CheckGraphInvariants(g); err != nil {
		t.Fatal(err)
	}
}

func TestNestedDeclarationVisibleBeforeOuterUse(t *testing.T) {
	c := testkit.Lower(t, outerWithDeclarations+"@in p
@out o = inner(p).b")
	testkit.ExpectCounts(t, c.Graph(), map[string]int{netlist.KindNot: 1, "Buffer": 0})
}

func TestIndexListReplicatesValue(t *testing.T) {
	c := testkit.Lower(t, "@in(1) s\n@out(3) v = [0, 1, 2: s]")
	g := c.Graph()
	testkit.ExpectCounts(t, g, map[string]int{
		netlist.KindConst:    0,
		netlist.KindSplitter: 1,
		"wires":              4,
	})
	s := g.ElementsOf(netlist.KindIn)[0]
	from := 0
	for _, w := range g.Wires {
		if w.Start == s.Pos {
			from++
		}
	}
	if from != 3 {
		t.Fatalf("s feeds %d lanes, want 3", from)
	}
}

func TestSingleArgumentFallback(t *testing.T) {
	c := testkit.Lower(t, "inv { @in a\n@out o = !a }\n@in x\n@out y = inv(x).o")
	testkit.ExpectCounts(t, c.Graph(), map[string]int{netlist.KindNot: 1, "wires": 2})
}

func TestArgumentsAreCast(t *testing.T) {
	c := testkit.Lower(t, "inv { @in(4) a\n@out o = !a }\n@in(2) x\ny = inv(x)")
	g := c.Graph()
	// zero extension to 4 bits, then the 4-lane not array.
	testkit.ExpectCounts(t, g, map[string]int{netlist.KindNot: 4, netlist.KindConst: 1, netlist.KindSplitter: 3})
}

const counter = `
*Counter {
	@in C @(0, 0)
	@in en @(0, 40)
	@out(4) out @(60, 0)
	Bits = 4
}
`

func TestExternalTemplate(t *testing.T) {
	c := testkit.Lower(t, counter+"@clock clk\n@in run\n@out q = Counter(C: clk, en: run).out")
	g := c.Graph()
	tmpl := g.ElementsOf("Counter")
	if len(tmpl) != 1 {
		t.Fatalf("kinds = %v", g.Kinds())
	}
	anchor := tmpl[0].Pos
	clk := g.ElementsOf(netlist.KindClock)[0]
	run := g.ElementsOf(netlist.KindIn)[0]
	out := g.ElementsOf(netlist.KindOut)[0]
	want := []netlist.Wire{
		{Start: clk.Pos, End: anchor},
		{Start: run.Pos, End: anchor.Add(0, 40)},
		{Start: anchor.Add(60, 0), End: out.Pos},
	}
	if !reflect.DeepEqual(g.Wires, want) {
		t.Fatalf("wires = %v, want %v", g.Wires, want)
	}
	if attrString(t, tmpl[0], "Bits") != "4" {
		t.Fatalf("template attrs = %v", tmpl[0].Attributes)
	}
}

func TestExternalUnconnectedPin(t *testing.T) {
	c := testkit.Lower(t, counter+"@clock clk\nq = Counter(C: clk)")
	if n := len(c.Graph().Wires); n != 1 {
		t.Fatalf("wires = %d, want 1", n)
	}
}

func TestExternalAlias(t *testing.T) {
	src := "*Reg:Register { @in(8) D @(0, 0) @in C @(0, 40) @out(8) Q @(60, 0) }\n@in(8) d\n@clock c\nq = Reg(D: d, C: c).Q"
	g := testkit.Lower(t, src).Graph()
	if len(g.ElementsOf("Register")) != 1 || len(g.ElementsOf("Reg")) != 0 {
		t.Fatalf("kinds = %v", g.Kinds())
	}
}

const twoOutputs = "m { @in a\n@out o = a\n@out p = a }\n"

func TestLoweringErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
	}{
		{"multiplex", "@in a, b, s\nx = [0: a, 1: b] ? s", diag.SemUnsupportedOperator},
		{"record into external", "*T { @in I @(0, 0) }\n" + twoOutputs + "@in x\ny = T(I: m(x))", diag.SemTypeMismatch},
		{"record into module", twoOutputs + "inv { @in a\n@out o = !a }\n@in x\ny = inv(m(x))", diag.SemTypeMismatch},
		{"string value", "x = \"hi\"", diag.SemTypeMismatch},
		{"unassigned wire", "@wire(2) w\n@out o = w", diag.SemSignatureMismatch},
		{"unassigned wire in module", "m { @in a\n@wire t\n@out o = a }\n@in x\ny = m(x)", diag.SemSignatureMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := testkit.TryLower(t, tt.src)
			if !diag.IsCode(err, tt.code) {
				t.Fatalf("err = %v, want %s", err, tt.code.ID())
			}
			if c.Depth() != 1 {
				t.Fatalf("frames left open after error: %d", c.Depth())
			}
		})
	}
}

// stmtBuilder assembles programs directly, bypassing the parser's own checks.
type stmtBuilder struct {
	b     *ast.Builder
	stmts []ast.StmtID
}

func (sb *stmtBuilder) lit(v uint64) ast.ExprID {
	id := sb.b.Exprs.NewInt(source.Span{}, v)
	sb.b.Exprs.SetWidth(id, types.Fixed(types.IntegerWidth(v)))
	return id
}

func (sb *stmtBuilder) def(dec ast.Decorator, name string, value ast.ExprID) {
	sb.stmts = append(sb.stmts, sb.b.Stmts.NewVarDefs(source.Span{}, ast.VarDefsData{
		Decorator: dec,
		Defs:      []ast.VarDef{{Name: name, Value: value}},
	}))
}

func (sb *stmtBuilder) run(t *testing.T) (*lower.Circuit, error) {
	t.Helper()
	c := newCircuit(t, sb.b)
	return c, c.Run(context.Background(), ast.Program{Stmts: sb.stmts})
}

func TestRedefinitionFails(t *testing.T) {
	sb := &stmtBuilder{b: ast.NewBuilder(ast.Hints{})}
	sb.def(ast.Decorator{}, "x", sb.lit(1))
	sb.def(ast.Decorator{}, "x", sb.lit(0))
	if _, err := sb.run(t); !diag.IsCode(err, diag.SemDuplicateDefinition) {
		t.Fatalf("err = %v, want duplicate definition", err)
	}
}

func TestWireCompletesOnce(t *testing.T) {
	wire := ast.Decorator{Kind: ast.DecWire, Bits: 1, HasBits: true}

	sb := &stmtBuilder{b: ast.NewBuilder(ast.Hints{})}
	sb.def(wire, "w", ast.NoExprID)
	sb.def(ast.Decorator{}, "w", sb.lit(1))
	c, err := sb.run(t)
	if err != nil {
		t.Fatal(err)
	}
	if n := len(c.Graph().Wires); n != 1 {
		t.Fatalf("completion added %d wires, want 1", n)
	}

	sb.def(ast.Decorator{}, "w", sb.lit(0))
	if _, err := sb.run(t); !diag.IsCode(err, diag.SemDuplicateDefinition) {
		t.Fatalf("second completion err = %v, want duplicate definition", err)
	}
}

func TestLoweringIsDeterministic(t *testing.T) {
	src := halfAdder + "@in(3) x, y\nr = half_adder(a: x.0, b: y.1)\n@out o = !(x ^ y)\n@out s = r.s"
	a := testkit.Lower(t, src).Graph()
	b := testkit.Lower(t, src).Graph()
	if !reflect.DeepEqual(a, b) {
		t.Fatal("same program and seed produced different graphs")
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	res, _ := testkit.Parse(t, "@in a\n@out o = !a")
	c := newCircuit(t, res.Builder)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Run(ctx, res.Program); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(c.Graph().Elements) != 0 {
		t.Fatal("cancelled run emitted elements")
	}
}
