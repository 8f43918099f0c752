package lower

import (
	"dhlc/internal/ast"
	"dhlc/internal/diag"
	"dhlc/internal/netlist"
)

// LowerStmt lowers one statement in the current frame.
func (c *Circuit) LowerStmt(id ast.StmtID) error {
	st := c.stmts.Get(id)
	if st == nil {
		panic("lower: missing statement")
	}
	switch st.Kind {
	case ast.StmtModule, ast.StmtExtern:
		if !c.atTop() {
			// Registered once, with the enclosing module.
			return nil
		}
		return c.declareStmt(id)
	case ast.StmtVarDefs:
		data, _ := c.stmts.VarDefsOf(id)
		for i := range data.Defs {
			if err := c.lowerDef(data.Decorator, &data.Defs[i]); err != nil {
				return err
			}
		}
		return nil
	}
	panic("lower: unknown statement kind " + st.Kind.String())
}

func (c *Circuit) lowerDef(dec ast.Decorator, def *ast.VarDef) error {
	switch dec.Kind {
	case ast.DecIn, ast.DecClock:
		if !c.atTop() {
			// Bound by the instantiation.
			if _, ok := c.top().vars[def.Name]; !ok {
				return diag.Errorf(diag.SemSignatureMismatch, def.Span, def.Name,
					"input %q of %s was not bound", def.Name, c.top().module)
			}
			return nil
		}
		bits := dec.Bits
		var pos netlist.Coordinate
		if dec.Kind == ast.DecClock {
			bits = 1
			pos = c.place(1, func(p netlist.Coordinate) netlist.Element { return netlist.NewClock(p, def.Name) })
		} else {
			pos = c.place(1, func(p netlist.Coordinate) netlist.Element { return netlist.NewIn(p, def.Name, bits) })
		}
		_, err := c.bind(def.Name, bindInput, Wire(bits, pos), def.Span)
		return err

	case ast.DecOut:
		d, err := c.Lower(def.Value)
		if err != nil {
			return err
		}
		target := dec.Bits
		if !dec.HasBits {
			if target, _, err = wire(d, def.Span, "output "+def.Name); err != nil {
				return err
			}
		}
		pos, err := c.CastValue(d, target, def.Span)
		if err != nil {
			return err
		}
		if c.atTop() {
			out := c.place(1, func(p netlist.Coordinate) netlist.Element { return netlist.NewOut(p, def.Name, target) })
			c.graph.Connect(pos, out)
		}
		_, err = c.bind(def.Name, bindOutput, Wire(target, pos), def.Span)
		return err

	case ast.DecWire:
		anchor := c.alloc.Next()
		_, err := c.bind(def.Name, bindWire, Wire(dec.Bits, anchor), def.Span)
		return err

	default:
		return c.assign(def)
	}
}

// assign completes a pending wire of the current frame, or defines a local.
func (c *Circuit) assign(def *ast.VarDef) error {
	if b, ok := c.top().vars[def.Name]; ok {
		if !b.pending {
			return diag.Errorf(diag.SemDuplicateDefinition, def.Span, def.Name, "%q is already defined", def.Name)
		}
		d, err := c.Lower(def.Value)
		if err != nil {
			return err
		}
		pos, err := c.CastValue(d, b.data.Bits, def.Span)
		if err != nil {
			return err
		}
		c.graph.Connect(pos, b.data.Pos)
		b.pending = false
		return nil
	}

	d, err := c.Lower(def.Value)
	if err != nil {
		return err
	}
	_, err = c.bind(def.Name, bindLocal, d, def.Span)
	return err
}
