package sema

import (
	"dhlc/internal/ast"
	"dhlc/internal/diag"
	"dhlc/internal/types"

	"fortio.org/safecast"
)

// Resolver assigns widths to expressions of one program.
type Resolver struct {
	exprs  *ast.Exprs
	scopes []*scope
	sigs   map[string]*Signature
}

func New(exprs *ast.Exprs) *Resolver {
	return &Resolver{
		exprs:  exprs,
		scopes: []*scope{newScope()},
		sigs:   make(map[string]*Signature),
	}
}

// Resolve computes and stores the width of id. Every child of id must have
// been resolved already.
func (r *Resolver) Resolve(id ast.ExprID) (types.BitWidth, error) {
	w, err := r.widthOf(id)
	if err != nil {
		return types.BitWidth{}, err
	}
	r.exprs.SetWidth(id, w)
	return w, nil
}

func (r *Resolver) sized(id ast.ExprID, what string) (uint32, error) {
	w := r.exprs.Width(id)
	n, ok := w.Size()
	if !ok {
		ex := r.exprs.Get(id)
		return 0, diag.Errorf(diag.SemTypeMismatch, ex.Span, "",
			"%s needs a bus or a single-field record, got %s", what, w)
	}
	return n, nil
}

func (r *Resolver) widthOf(id ast.ExprID) (types.BitWidth, error) {
	ex := r.exprs.Get(id)
	if ex == nil {
		panic("sema: resolving a missing expression")
	}

	switch ex.Kind {
	case ast.ExprInt:
		lit, _ := r.exprs.Int(id)
		return types.Fixed(types.IntegerWidth(lit.Value)), nil

	case ast.ExprString:
		return types.Fixed(0), nil

	case ast.ExprIdent:
		ident, _ := r.exprs.Ident(id)
		sym, ok := r.Lookup(ident.Name)
		if !ok {
			return types.BitWidth{}, diag.Errorf(diag.SemUnresolvedReference, ex.Span, ident.Name,
				"variable %q is not declared", ident.Name)
		}
		return sym.Width, nil

	case ast.ExprNot:
		not, _ := r.exprs.Not(id)
		n, err := r.sized(not.Operand, "!")
		if err != nil {
			return types.BitWidth{}, err
		}
		return types.Fixed(n), nil

	case ast.ExprBinary:
		bin, _ := r.exprs.Binary(id)
		l, err := r.sized(bin.Left, bin.Op.String())
		if err != nil {
			return types.BitWidth{}, err
		}
		rr, err := r.sized(bin.Right, bin.Op.String())
		if err != nil {
			return types.BitWidth{}, err
		}
		return types.Fixed(max(l, rr)), nil

	case ast.ExprMux:
		mux, _ := r.exprs.Mux(id)
		vec, ok := r.exprs.Vector(mux.Vector)
		if !ok {
			return types.BitWidth{}, diag.Errorf(diag.SemTypeMismatch, ex.Span, "",
				"left operand of ? must be a bit-vector combine")
		}
		if len(vec.Elems) == 0 {
			return types.BitWidth{}, diag.Errorf(diag.SemTypeMismatch, ex.Span, "",
				"left operand of ? is an empty vector")
		}
		if _, err := r.sized(mux.Select, "select of ?"); err != nil {
			return types.BitWidth{}, err
		}
		var widest uint32
		for _, e := range vec.Elems {
			n, err := r.sized(e, "element of ?")
			if err != nil {
				return types.BitWidth{}, err
			}
			widest = max(widest, n)
		}
		return types.Fixed(widest), nil

	case ast.ExprBit:
		bit, _ := r.exprs.Bit(id)
		if _, err := r.sized(bit.Operand, "bit extract"); err != nil {
			return types.BitWidth{}, err
		}
		return types.Fixed(1), nil

	case ast.ExprRange:
		rng, _ := r.exprs.Range(id)
		if rng.From > rng.To {
			return types.BitWidth{}, diag.Errorf(diag.SemMalformedRange, ex.Span, "",
				"range %d..%d runs backwards", rng.From, rng.To)
		}
		if _, err := r.sized(rng.Operand, "range extract"); err != nil {
			return types.BitWidth{}, err
		}
		return types.Fixed(rng.To - rng.From + 1), nil

	case ast.ExprName:
		name, _ := r.exprs.Name(id)
		inner := r.exprs.Width(name.Operand)
		if !inner.IsObject() {
			return types.BitWidth{}, diag.Errorf(diag.SemTypeMismatch, ex.Span, name.Name,
				"cannot take field %q of a %s-bit bus", name.Name, inner)
		}
		f, ok := inner.Field(name.Name)
		if !ok {
			return types.BitWidth{}, diag.Errorf(diag.SemUnresolvedReference, ex.Span, name.Name,
				"record %s has no field %q", inner, name.Name)
		}
		return f, nil

	case ast.ExprVector:
		vec, _ := r.exprs.Vector(id)
		for _, e := range vec.Elems {
			if _, err := r.sized(e, "vector element"); err != nil {
				return types.BitWidth{}, err
			}
		}
		n, err := safecast.Conv[uint32](len(vec.Elems))
		if err != nil {
			return types.BitWidth{}, diag.Errorf(diag.SemTypeMismatch, ex.Span, "", "vector too wide: %v", err)
		}
		return types.Fixed(n), nil

	case ast.ExprRecord:
		rec, _ := r.exprs.Record(id)
		fields := make(map[string]types.BitWidth, len(rec.Fields))
		for _, f := range rec.Fields {
			fields[f.Name] = r.exprs.Width(f.Value)
		}
		return types.Object(fields), nil

	case ast.ExprUse:
		use, _ := r.exprs.Use(id)
		sig, ok := r.Signature(use.Module)
		if !ok {
			return types.BitWidth{}, diag.Errorf(diag.SemSignatureNotDeclared, ex.Span, use.Module,
				"module %q is used before it is declared", use.Module)
		}
		mode := BindInternal
		if sig.External {
			mode = BindExternal
		}
		if _, err := BindArgs(sig.Name, sig.InputNames(), use.Args, ex.Span, mode); err != nil {
			return types.BitWidth{}, err
		}
		return sig.Result(), nil
	}

	panic("sema: unknown expression kind " + ex.Kind.String())
}
