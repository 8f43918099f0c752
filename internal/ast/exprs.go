package ast

import (
	"dhlc/internal/source"
	"dhlc/internal/types"
)

// Exprs manages allocation of expressions.
type Exprs struct {
	Arena    *Arena[Expr]
	Ints     *Arena[ExprIntData]
	Strings  *Arena[ExprStringData]
	Idents   *Arena[ExprIdentData]
	Nots     *Arena[ExprNotData]
	Binaries *Arena[ExprBinaryData]
	Muxes    *Arena[ExprMuxData]
	Bits     *Arena[ExprBitData]
	Ranges   *Arena[ExprRangeData]
	Names    *Arena[ExprNameData]
	Vectors  *Arena[ExprVectorData]
	Records  *Arena[ExprRecordData]
	Uses     *Arena[ExprUseData]
}

// NewExprs creates the expression arenas; capHint 0 means 1<<8.
func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	small := max(capHint/8, 8)
	return &Exprs{
		Arena:    NewArena[Expr](capHint),
		Ints:     NewArena[ExprIntData](small),
		Strings:  NewArena[ExprStringData](small),
		Idents:   NewArena[ExprIdentData](capHint),
		Nots:     NewArena[ExprNotData](small),
		Binaries: NewArena[ExprBinaryData](capHint),
		Muxes:    NewArena[ExprMuxData](small),
		Bits:     NewArena[ExprBitData](small),
		Ranges:   NewArena[ExprRangeData](small),
		Names:    NewArena[ExprNameData](small),
		Vectors:  NewArena[ExprVectorData](small),
		Records:  NewArena[ExprRecordData](small),
		Uses:     NewArena[ExprUseData](small),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload uint32) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind:    kind,
		Span:    span,
		Payload: PayloadID(payload),
	}))
}

// Get returns the expression with the given ID.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

// Width returns the resolved width of id; the zero BitWidth if unknown.
func (e *Exprs) Width(id ExprID) types.BitWidth {
	if ex := e.Get(id); ex != nil {
		return ex.Width
	}
	return types.BitWidth{}
}

// SetWidth annotates id with its resolved width.
func (e *Exprs) SetWidth(id ExprID, w types.BitWidth) {
	if ex := e.Get(id); ex != nil {
		ex.Width = w
	}
}

func (e *Exprs) payload(id ExprID, kind ExprKind) (uint32, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != kind {
		return 0, false
	}
	return uint32(expr.Payload), true
}

func (e *Exprs) NewInt(span source.Span, value uint64) ExprID {
	return e.new(ExprInt, span, e.Ints.Allocate(ExprIntData{Value: value}))
}

func (e *Exprs) Int(id ExprID) (*ExprIntData, bool) {
	p, ok := e.payload(id, ExprInt)
	if !ok {
		return nil, false
	}
	return e.Ints.Get(p), true
}

func (e *Exprs) NewStringLit(span source.Span, value string) ExprID {
	return e.new(ExprString, span, e.Strings.Allocate(ExprStringData{Value: value}))
}

func (e *Exprs) StringLit(id ExprID) (*ExprStringData, bool) {
	p, ok := e.payload(id, ExprString)
	if !ok {
		return nil, false
	}
	return e.Strings.Get(p), true
}

func (e *Exprs) NewIdent(span source.Span, name string) ExprID {
	return e.new(ExprIdent, span, e.Idents.Allocate(ExprIdentData{Name: name}))
}

func (e *Exprs) Ident(id ExprID) (*ExprIdentData, bool) {
	p, ok := e.payload(id, ExprIdent)
	if !ok {
		return nil, false
	}
	return e.Idents.Get(p), true
}

func (e *Exprs) NewNot(span source.Span, operand ExprID) ExprID {
	return e.new(ExprNot, span, e.Nots.Allocate(ExprNotData{Operand: operand}))
}

func (e *Exprs) Not(id ExprID) (*ExprNotData, bool) {
	p, ok := e.payload(id, ExprNot)
	if !ok {
		return nil, false
	}
	return e.Nots.Get(p), true
}

func (e *Exprs) NewBinary(span source.Span, op BinaryOp, left, right ExprID) ExprID {
	return e.new(ExprBinary, span, e.Binaries.Allocate(ExprBinaryData{Op: op, Left: left, Right: right}))
}

func (e *Exprs) Binary(id ExprID) (*ExprBinaryData, bool) {
	p, ok := e.payload(id, ExprBinary)
	if !ok {
		return nil, false
	}
	return e.Binaries.Get(p), true
}

func (e *Exprs) NewMux(span source.Span, vector, sel ExprID) ExprID {
	return e.new(ExprMux, span, e.Muxes.Allocate(ExprMuxData{Vector: vector, Select: sel}))
}

func (e *Exprs) Mux(id ExprID) (*ExprMuxData, bool) {
	p, ok := e.payload(id, ExprMux)
	if !ok {
		return nil, false
	}
	return e.Muxes.Get(p), true
}

func (e *Exprs) NewBit(span source.Span, operand ExprID, bit uint32) ExprID {
	return e.new(ExprBit, span, e.Bits.Allocate(ExprBitData{Operand: operand, Bit: bit}))
}

func (e *Exprs) Bit(id ExprID) (*ExprBitData, bool) {
	p, ok := e.payload(id, ExprBit)
	if !ok {
		return nil, false
	}
	return e.Bits.Get(p), true
}

func (e *Exprs) NewRange(span source.Span, operand ExprID, from, to uint32) ExprID {
	return e.new(ExprRange, span, e.Ranges.Allocate(ExprRangeData{Operand: operand, From: from, To: to}))
}

func (e *Exprs) Range(id ExprID) (*ExprRangeData, bool) {
	p, ok := e.payload(id, ExprRange)
	if !ok {
		return nil, false
	}
	return e.Ranges.Get(p), true
}

func (e *Exprs) NewName(span source.Span, operand ExprID, name string) ExprID {
	return e.new(ExprName, span, e.Names.Allocate(ExprNameData{Operand: operand, Name: name}))
}

func (e *Exprs) Name(id ExprID) (*ExprNameData, bool) {
	p, ok := e.payload(id, ExprName)
	if !ok {
		return nil, false
	}
	return e.Names.Get(p), true
}

func (e *Exprs) NewVector(span source.Span, elems []ExprID) ExprID {
	return e.new(ExprVector, span, e.Vectors.Allocate(ExprVectorData{Elems: elems}))
}

func (e *Exprs) Vector(id ExprID) (*ExprVectorData, bool) {
	p, ok := e.payload(id, ExprVector)
	if !ok {
		return nil, false
	}
	return e.Vectors.Get(p), true
}

func (e *Exprs) NewRecord(span source.Span, fields []RecordField) ExprID {
	return e.new(ExprRecord, span, e.Records.Allocate(ExprRecordData{Fields: fields}))
}

func (e *Exprs) Record(id ExprID) (*ExprRecordData, bool) {
	p, ok := e.payload(id, ExprRecord)
	if !ok {
		return nil, false
	}
	return e.Records.Get(p), true
}

func (e *Exprs) NewUse(span source.Span, module string, args []Arg) ExprID {
	return e.new(ExprUse, span, e.Uses.Allocate(ExprUseData{Module: module, Args: args}))
}

func (e *Exprs) Use(id ExprID) (*ExprUseData, bool) {
	p, ok := e.payload(id, ExprUse)
	if !ok {
		return nil, false
	}
	return e.Uses.Get(p), true
}
