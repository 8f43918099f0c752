package lower

import (
	"dhlc/internal/ast"
	"dhlc/internal/diag"
	"dhlc/internal/netlist"
	"dhlc/internal/sema"
	"dhlc/internal/source"
)

// Instantiate lowers a module use. Internal modules are inlined in a fresh
// frame; external modules are placed as a single template element.
func (c *Circuit) Instantiate(use *ast.ExprUseData, span source.Span) (*Data, error) {
	m, ok := c.modules[use.Module]
	if !ok {
		return nil, diag.Errorf(diag.SemSignatureNotDeclared, span, use.Module,
			"module %q is used before it is declared", use.Module)
	}
	if m.Kind == ModuleExternal {
		return c.instantiateExternal(m, use, span)
	}
	return c.instantiateInternal(m, use, span)
}

// argValue lowers each distinct argument once, in the caller's frame.
func (c *Circuit) argValue(values map[ast.ExprID]*Data, arg ast.Arg) (*Data, error) {
	if d, ok := values[arg.Value]; ok {
		return d, nil
	}
	d, err := c.Lower(arg.Value)
	if err != nil {
		return nil, err
	}
	values[arg.Value] = d
	return d, nil
}

func (c *Circuit) instantiateInternal(m *Module, use *ast.ExprUseData, span source.Span) (*Data, error) {
	bound, err := sema.BindArgs(m.Name, m.inputNames(), use.Args, span, sema.BindInternal)
	if err != nil {
		return nil, err
	}

	values := make(map[ast.ExprID]*Data, len(use.Args))
	inputs := make(map[string]*Data, len(m.Inputs))
	for _, in := range m.Inputs {
		arg := bound[in.Name]
		d, err := c.argValue(values, arg)
		if err != nil {
			return nil, err
		}
		bits, ok := in.Width.Size()
		if !ok {
			return nil, diag.Errorf(diag.SemTypeMismatch, arg.Span, in.Name, "input %q of %s is not a bus", in.Name, m.Name)
		}
		pos, err := c.CastValue(d, bits, arg.Span)
		if err != nil {
			return nil, err
		}
		inputs[in.Name] = Wire(bits, pos)
	}

	c.push(m.Name)
	defer c.pop()
	c.log.Debug("inline module", "name", m.Name, "depth", c.Depth())

	for _, in := range m.Inputs {
		if _, err := c.bind(in.Name, bindInput, inputs[in.Name], span); err != nil {
			return nil, err
		}
	}
	for _, id := range m.Body {
		if err := c.LowerStmt(id); err != nil {
			return nil, err
		}
	}
	if err := c.top().unassigned(); err != nil {
		return nil, err
	}

	result := make(map[string]*Data, len(m.Outputs))
	for _, out := range m.Outputs {
		b, ok := c.top().vars[out.Name]
		if !ok || b.pending {
			return nil, diag.Errorf(diag.SemSignatureMismatch, span, out.Name,
				"output %q of %s is never assigned", out.Name, m.Name)
		}
		result[out.Name] = b.data
	}
	return Object(result), nil
}

func (c *Circuit) instantiateExternal(m *Module, use *ast.ExprUseData, span source.Span) (*Data, error) {
	bound, err := sema.BindArgs(m.Name, m.inputNames(), use.Args, span, sema.BindExternal)
	if err != nil {
		return nil, err
	}

	values := make(map[ast.ExprID]*Data, len(use.Args))
	for _, pin := range m.Pins {
		if arg, ok := bound[pin.Name]; ok && pin.Dir == ast.PinIn {
			if _, err := c.argValue(values, arg); err != nil {
				return nil, err
			}
		}
	}

	offsets := make([]netlist.Coordinate, len(m.Pins))
	var rows int64
	for i, pin := range m.Pins {
		offsets[i] = pin.Offset
		rows = max(rows, pin.Offset.Y/netlist.Grid+1)
	}
	anchor := c.place(int(rows), func(p netlist.Coordinate) netlist.Element {
		return netlist.NewTemplate(m.Template, p, m.Attrs, offsets)
	})
	c.log.Debug("place template", "name", m.Name, "template", m.Template, "at", anchor)

	result := make(map[string]*Data)
	for _, pin := range m.Pins {
		end := anchor.Offset(pin.Offset)
		if pin.Dir == ast.PinOut {
			result[pin.Name] = Wire(pin.Bits, end)
			continue
		}
		arg, ok := bound[pin.Name]
		if !ok {
			continue
		}
		pos, err := c.CastValue(values[arg.Value], pin.Bits, arg.Span)
		if err != nil {
			return nil, err
		}
		c.graph.Connect(pos, end)
	}
	return Object(result), nil
}
