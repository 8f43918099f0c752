package sema

import (
	"slices"
	"strconv"

	"dhlc/internal/ast"
	"dhlc/internal/diag"
	"dhlc/internal/source"
	"dhlc/internal/types"
)

// Signature is the callable shape of an internal or external module.
type Signature struct {
	Name     string
	Inputs   []ast.Port
	Outputs  []ast.Port
	External bool
}

// InputNames returns the input names in declaration order.
func (s *Signature) InputNames() []string {
	names := make([]string, len(s.Inputs))
	for i, p := range s.Inputs {
		names[i] = p.Name
	}
	return names
}

// Result is the record width produced by a use of the module.
func (s *Signature) Result() types.BitWidth {
	fields := make(map[string]types.BitWidth, len(s.Outputs))
	for _, p := range s.Outputs {
		fields[p.Name] = p.Width
	}
	return types.Object(fields)
}

// Register adds sig to the registry. Names are write-once.
func (r *Resolver) Register(sig Signature, span source.Span) error {
	if _, ok := r.sigs[sig.Name]; ok {
		return diag.Errorf(diag.SemDuplicateDefinition, span, sig.Name, "module %q is already declared", sig.Name)
	}
	r.sigs[sig.Name] = &sig
	return nil
}

func (r *Resolver) Signature(name string) (*Signature, bool) {
	sig, ok := r.sigs[name]
	return sig, ok
}

// BindMode selects the argument binding rules of a module kind.
type BindMode uint8

const (
	// BindInternal requires every input; a single unnamed argument feeds
	// every input that has no named argument.
	BindInternal BindMode = iota
	// BindExternal leaves unconnected pins alone; a single unnamed argument
	// is accepted only by a template with exactly one input pin.
	BindExternal
)

// PositionalName is the key of the i-th unnamed argument.
func PositionalName(i int) string { return strconv.Itoa(i) }

func isPositional(a ast.Arg) bool {
	return a.Name != "" && a.Name[0] >= '0' && a.Name[0] <= '9'
}

// BindArgs maps each input name to the argument feeding it.
func BindArgs(callee string, inputs []string, args []ast.Arg, span source.Span, mode BindMode) (map[string]ast.Arg, error) {
	byName := make(map[string]ast.Arg, len(args))
	for _, a := range args {
		byName[a.Name] = a
	}

	fallback := len(args) == 1 && isPositional(args[0])
	if mode == BindExternal {
		fallback = fallback && len(inputs) == 1
	}

	for _, a := range args {
		if slices.Contains(inputs, a.Name) {
			continue
		}
		if fallback && a.Name == PositionalName(0) {
			continue
		}
		return nil, diag.Errorf(diag.SemSignatureMismatch, a.Span, a.Name,
			"module %q has no input matching argument %q", callee, a.Name)
	}

	bound := make(map[string]ast.Arg, len(inputs))
	for _, in := range inputs {
		if a, ok := byName[in]; ok {
			bound[in] = a
			continue
		}
		if fallback {
			bound[in] = args[0]
			continue
		}
		if mode == BindInternal {
			return nil, diag.Errorf(diag.SemSignatureMismatch, span, in,
				"missing argument for input %q of module %q", in, callee)
		}
	}
	return bound, nil
}
