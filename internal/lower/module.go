package lower

import (
	"dhlc/internal/ast"
	"dhlc/internal/diag"
	"dhlc/internal/netlist"
	"dhlc/internal/source"
)

type ModuleKind uint8

const (
	ModuleInternal ModuleKind = iota + 1
	ModuleExternal
)

// Module is a registered callable. Internal modules keep their body for
// inlining; external modules keep their template geometry.
type Module struct {
	Kind    ModuleKind
	Name    string
	Inputs  []ast.Port
	Outputs []ast.Port
	Body    []ast.StmtID

	Template string
	Pins     []ast.Pin
	Attrs    []netlist.Attribute
}

func (m *Module) inputNames() []string {
	if m.Kind == ModuleExternal {
		var names []string
		for _, p := range m.Pins {
			if p.Dir == ast.PinIn {
				names = append(names, p.Name)
			}
		}
		return names
	}
	names := make([]string, len(m.Inputs))
	for i, p := range m.Inputs {
		names[i] = p.Name
	}
	return names
}

// declareStmt registers the module or extern declared by id.
func (c *Circuit) declareStmt(id ast.StmtID) error {
	st := c.stmts.Get(id)
	if data, ok := c.stmts.Module(id); ok {
		return c.DeclareInternal(data, st.Span)
	}
	data, _ := c.stmts.Extern(id)
	return c.DeclareExternal(data, st.Span)
}

// DeclareInternal registers an inlinable module. Modules and externs declared
// inside its body are registered first, in source order, so every name is
// registered exactly once however often the module is instantiated. No
// elements are emitted.
func (c *Circuit) DeclareInternal(data *ast.ModuleData, span source.Span) error {
	for _, id := range data.Body {
		if k := c.stmts.Get(id).Kind; k != ast.StmtModule && k != ast.StmtExtern {
			continue
		}
		if err := c.declareStmt(id); err != nil {
			return err
		}
	}
	return c.declare(&Module{
		Kind:    ModuleInternal,
		Name:    data.Name,
		Inputs:  data.Inputs,
		Outputs: data.Outputs,
		Body:    data.Body,
	}, span)
}

// DeclareExternal registers a template module. No elements are emitted.
func (c *Circuit) DeclareExternal(data *ast.ExternData, span source.Span) error {
	return c.declare(&Module{
		Kind:     ModuleExternal,
		Name:     data.Name,
		Template: data.Template,
		Pins:     data.Pins,
		Attrs:    data.Attrs,
	}, span)
}

func (c *Circuit) declare(m *Module, span source.Span) error {
	if _, ok := c.modules[m.Name]; ok {
		return diag.Errorf(diag.SemDuplicateDefinition, span, m.Name, "module %q is already declared", m.Name)
	}
	c.modules[m.Name] = m
	c.log.Debug("declare module", "name", m.Name, "external", m.Kind == ModuleExternal)
	return nil
}

// Module looks up a registered module by name.
func (c *Circuit) Module(name string) (*Module, bool) {
	m, ok := c.modules[name]
	return m, ok
}
