package lower

import (
	"dhlc/internal/ast"
	"dhlc/internal/diag"
	"dhlc/internal/netlist"

	"fortio.org/safecast"
)

var gateNames = map[ast.BinaryOp]string{
	ast.OpAnd:  netlist.KindAnd,
	ast.OpNand: netlist.KindNAnd,
	ast.OpOr:   netlist.KindOr,
	ast.OpNor:  netlist.KindNOr,
	ast.OpXor:  netlist.KindXOr,
	ast.OpXnor: netlist.KindXNOr,
}

// Vertical pitch between the lanes of a gate array, in grid cells.
const (
	notPitch  = 2
	gatePitch = 3
)

// Lower emits the elements for id and returns its value.
func (c *Circuit) Lower(id ast.ExprID) (*Data, error) {
	ex := c.exprs.Get(id)
	if ex == nil {
		panic("lower: missing expression")
	}

	switch ex.Kind {
	case ast.ExprInt:
		lit, _ := c.exprs.Int(id)
		value, err := safecast.Conv[int64](lit.Value)
		if err != nil {
			return nil, diag.Errorf(diag.SemTypeMismatch, ex.Span, "", "constant %d does not fit in 63 bits", lit.Value)
		}
		bits, _ := ex.Width.Size()
		pos := c.place(1, func(p netlist.Coordinate) netlist.Element {
			return netlist.NewConst(p, value, bits)
		})
		return Wire(bits, pos), nil

	case ast.ExprString:
		return nil, diag.Errorf(diag.SemTypeMismatch, ex.Span, "", "a string literal has no circuit value")

	case ast.ExprIdent:
		ident, _ := c.exprs.Ident(id)
		d, ok := c.Lookup(ident.Name)
		if !ok {
			return nil, diag.Errorf(diag.SemUnresolvedReference, ex.Span, ident.Name,
				"variable %q is not defined", ident.Name)
		}
		return d, nil

	case ast.ExprNot:
		not, _ := c.exprs.Not(id)
		return c.lowerNot(not)

	case ast.ExprBinary:
		bin, _ := c.exprs.Binary(id)
		return c.lowerBinary(bin)

	case ast.ExprMux:
		return nil, diag.Errorf(diag.SemUnsupportedOperator, ex.Span, "?",
			"the multiplex operator cannot be lowered to gates yet")

	case ast.ExprBit:
		bit, _ := c.exprs.Bit(id)
		return c.lowerBit(bit)

	case ast.ExprRange:
		rng, _ := c.exprs.Range(id)
		return c.lowerRange(rng)

	case ast.ExprName:
		name, _ := c.exprs.Name(id)
		inner, err := c.Lower(name.Operand)
		if err != nil {
			return nil, err
		}
		if inner.Kind != DataObject {
			return nil, diag.Errorf(diag.SemTypeMismatch, ex.Span, name.Name,
				"cannot take field %q of %s", name.Name, describe(inner))
		}
		f, ok := inner.Field(name.Name)
		if !ok {
			return nil, diag.Errorf(diag.SemUnresolvedReference, ex.Span, name.Name,
				"record has no field %q", name.Name)
		}
		return f, nil

	case ast.ExprVector:
		vec, _ := c.exprs.Vector(id)
		return c.lowerVector(vec)

	case ast.ExprRecord:
		rec, _ := c.exprs.Record(id)
		fields := make(map[string]*Data, len(rec.Fields))
		for _, f := range rec.Fields {
			d, err := c.Lower(f.Value)
			if err != nil {
				return nil, err
			}
			fields[f.Name] = d
		}
		return Object(fields), nil

	case ast.ExprUse:
		use, _ := c.exprs.Use(id)
		return c.Instantiate(use, ex.Span)
	}

	panic("lower: unknown expression kind " + ex.Kind.String())
}

func (c *Circuit) lowerNot(not *ast.ExprNotData) (*Data, error) {
	in, err := c.Lower(not.Operand)
	if err != nil {
		return nil, err
	}
	w, pos, err := wire(in, c.span(not.Operand), "!")
	if err != nil {
		return nil, err
	}

	if w == 1 {
		gate := c.place(1, netlist.NewNot)
		c.graph.Connect(pos, gate.Offset(netlist.NotInput()))
		return Wire(1, gate.Offset(netlist.NotOutput())), nil
	}

	split := c.laneSplitter(pos, w)
	lanes := laneCount(w)
	base := c.alloc.NextBlock(notPitch * lanes)
	outs := make([]netlist.Coordinate, lanes)
	for i := range lanes {
		gate := base.Add(0, int64(i*notPitch)*netlist.Grid)
		c.graph.Add(netlist.NewNot(gate))
		c.graph.Connect(split.Offset(netlist.SplitterOutput(i)), gate.Offset(netlist.NotInput()))
		outs[i] = gate.Offset(netlist.NotOutput())
	}
	return c.combine(outs), nil
}

func (c *Circuit) lowerBinary(bin *ast.ExprBinaryData) (*Data, error) {
	l, err := c.Lower(bin.Left)
	if err != nil {
		return nil, err
	}
	r, err := c.Lower(bin.Right)
	if err != nil {
		return nil, err
	}
	lw, _, err := wire(l, c.span(bin.Left), bin.Op.String())
	if err != nil {
		return nil, err
	}
	rw, _, err := wire(r, c.span(bin.Right), bin.Op.String())
	if err != nil {
		return nil, err
	}
	w := max(lw, rw)
	lpos, err := c.CastValue(l, w, c.span(bin.Left))
	if err != nil {
		return nil, err
	}
	rpos, err := c.CastValue(r, w, c.span(bin.Right))
	if err != nil {
		return nil, err
	}

	name := gateNames[bin.Op]
	ins := netlist.GateInputs()
	if w == 1 {
		gate := c.place(1, func(p netlist.Coordinate) netlist.Element { return netlist.NewGate(name, p) })
		c.graph.Connect(lpos, gate.Offset(ins[0]))
		c.graph.Connect(rpos, gate.Offset(ins[1]))
		return Wire(1, gate.Offset(netlist.GateOutput(name))), nil
	}

	ls := c.laneSplitter(lpos, w)
	rs := c.laneSplitter(rpos, w)
	lanes := laneCount(w)
	base := c.alloc.NextBlock(gatePitch * lanes)
	outs := make([]netlist.Coordinate, lanes)
	for i := range lanes {
		gate := base.Add(0, int64(i*gatePitch)*netlist.Grid)
		c.graph.Add(netlist.NewGate(name, gate))
		c.graph.Connect(ls.Offset(netlist.SplitterOutput(i)), gate.Offset(ins[0]))
		c.graph.Connect(rs.Offset(netlist.SplitterOutput(i)), gate.Offset(ins[1]))
		outs[i] = gate.Offset(netlist.GateOutput(name))
	}
	return c.combine(outs), nil
}

func (c *Circuit) lowerBit(bit *ast.ExprBitData) (*Data, error) {
	in, err := c.Lower(bit.Operand)
	if err != nil {
		return nil, err
	}
	w, pos, err := wire(in, c.span(bit.Operand), "bit extract")
	if err != nil {
		return nil, err
	}
	if bit.Bit >= w {
		// Reading past the top of a bus yields 0.
		zero := c.place(1, func(p netlist.Coordinate) netlist.Element { return netlist.NewConst(p, 0, 1) })
		return Wire(1, zero), nil
	}
	at := c.place(1, func(p netlist.Coordinate) netlist.Element {
		return netlist.NewExtract(p, w, bit.Bit, bit.Bit)
	})
	c.graph.Connect(pos, at.Offset(netlist.SplitterInput(0)))
	return Wire(1, at.Offset(netlist.SplitterOutput(0))), nil
}

func (c *Circuit) lowerRange(rng *ast.ExprRangeData) (*Data, error) {
	if rng.From > rng.To {
		return nil, diag.Errorf(diag.SemMalformedRange, c.span(rng.Operand), "",
			"range %d..%d runs backwards", rng.From, rng.To)
	}
	in, err := c.Lower(rng.Operand)
	if err != nil {
		return nil, err
	}
	w, _, err := wire(in, c.span(rng.Operand), "range extract")
	if err != nil {
		return nil, err
	}
	w = max(w, rng.To+1)
	pos, err := c.CastValue(in, w, c.span(rng.Operand))
	if err != nil {
		return nil, err
	}
	at := c.place(1, func(p netlist.Coordinate) netlist.Element {
		return netlist.NewExtract(p, w, rng.From, rng.To)
	})
	c.graph.Connect(pos, at.Offset(netlist.SplitterInput(0)))
	return Wire(rng.To-rng.From+1, at.Offset(netlist.SplitterOutput(0))), nil
}

// lowerVector joins one bit per element into a bus; element 0 is the low bit.
// An element shared by several lanes is lowered and cast once.
func (c *Circuit) lowerVector(vec *ast.ExprVectorData) (*Data, error) {
	lanes := make([]netlist.Coordinate, len(vec.Elems))
	seen := make(map[ast.ExprID]netlist.Coordinate, len(vec.Elems))
	for i, e := range vec.Elems {
		if pos, ok := seen[e]; ok {
			lanes[i] = pos
			continue
		}
		d, err := c.Lower(e)
		if err != nil {
			return nil, err
		}
		pos, err := c.CastValue(d, 1, c.span(e))
		if err != nil {
			return nil, err
		}
		seen[e] = pos
		lanes[i] = pos
	}
	return c.combine(lanes), nil
}

// laneSplitter fans the w-bit bus at pos out into single lanes and returns
// the splitter anchor.
func (c *Circuit) laneSplitter(pos netlist.Coordinate, w uint32) netlist.Coordinate {
	at := c.place(laneCount(w), func(p netlist.Coordinate) netlist.Element {
		return netlist.NewLaneSplitter(p, w)
	})
	c.graph.Connect(pos, at.Offset(netlist.SplitterInput(0)))
	return at
}

// combine joins single-bit lanes into one bus.
func (c *Circuit) combine(lanes []netlist.Coordinate) *Data {
	w := laneWidth(len(lanes))
	at := c.place(len(lanes), func(p netlist.Coordinate) netlist.Element {
		return netlist.NewCombiner(p, w)
	})
	for i, lane := range lanes {
		c.graph.Connect(lane, at.Offset(netlist.SplitterInput(i)))
	}
	return Wire(w, at.Offset(netlist.SplitterOutput(0)))
}

func laneCount(w uint32) int {
	n, err := safecast.Conv[int](w)
	if err != nil {
		panic(err)
	}
	return n
}

func laneWidth(n int) uint32 {
	w, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(err)
	}
	return w
}
