package sema

import (
	"dhlc/internal/ast"
	"dhlc/internal/diag"
	"dhlc/internal/source"
	"dhlc/internal/types"
)

// SymbolKind says how a name entered a scope.
type SymbolKind uint8

const (
	SymLocal SymbolKind = iota + 1
	SymInput
	SymClock
	SymOutput
	SymWire
)

type Symbol struct {
	Name  string
	Kind  SymbolKind
	Width types.BitWidth
	Span  source.Span
	// Completed is set once a forward-declared wire has been assigned.
	Completed bool
}

type scope struct {
	symbols map[string]*Symbol
	inputs  []ast.Port
	outputs []ast.Port
}

func newScope() *scope {
	return &scope{symbols: make(map[string]*Symbol)}
}

func (r *Resolver) current() *scope {
	return r.scopes[len(r.scopes)-1]
}

// PushScope opens the body of an internal module.
func (r *Resolver) PushScope() {
	r.scopes = append(r.scopes, newScope())
}

// PopScope closes the innermost module body and returns its signature in
// declaration order. The top-level scope cannot be popped.
func (r *Resolver) PopScope() (inputs, outputs []ast.Port) {
	if len(r.scopes) == 1 {
		panic("sema: PopScope on top-level scope")
	}
	s := r.current()
	r.scopes = r.scopes[:len(r.scopes)-1]
	return s.inputs, s.outputs
}

// Depth is 1 at top level.
func (r *Resolver) Depth() int { return len(r.scopes) }

// Lookup searches the current scope, then the top level. A module body never
// sees the names of an enclosing module body.
func (r *Resolver) Lookup(name string) (*Symbol, bool) {
	if sym, ok := r.current().symbols[name]; ok {
		return sym, true
	}
	sym, ok := r.scopes[0].symbols[name]
	return sym, ok
}

// Declare introduces name in the current scope.
func (r *Resolver) Declare(name string, kind SymbolKind, w types.BitWidth, span source.Span) error {
	s := r.current()
	if prev, ok := s.symbols[name]; ok {
		return diag.Errorf(diag.SemDuplicateDefinition, span, name,
			"%q is already defined at offset %d", name, prev.Span.Start)
	}
	s.symbols[name] = &Symbol{Name: name, Kind: kind, Width: w, Span: span}
	switch kind {
	case SymInput, SymClock:
		s.inputs = append(s.inputs, ast.Port{Name: name, Width: w})
	case SymOutput:
		s.outputs = append(s.outputs, ast.Port{Name: name, Width: w})
	}
	return nil
}

// Assign handles a bare `name = value`. A pending wire of the current scope is
// completed; any other existing name is a redefinition; a new name becomes a local.
func (r *Resolver) Assign(name string, w types.BitWidth, span source.Span) error {
	s := r.current()
	if sym, ok := s.symbols[name]; ok {
		if sym.Kind == SymWire && !sym.Completed {
			sym.Completed = true
			return nil
		}
		return diag.Errorf(diag.SemDuplicateDefinition, span, name, "%q is already defined", name)
	}
	return r.Declare(name, SymLocal, w, span)
}

// TopOutputs lists the outputs declared at top level.
func (r *Resolver) TopOutputs() []ast.Port {
	return r.scopes[0].outputs
}

// TopInputs lists the inputs and clocks declared at top level.
func (r *Resolver) TopInputs() []ast.Port {
	return r.scopes[0].inputs
}
