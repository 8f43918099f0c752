package ast

import (
	"fmt"

	"dhlc/internal/netlist"
	"dhlc/internal/source"
	"dhlc/internal/types"
)

type StmtKind uint8

const (
	StmtVarDefs StmtKind = iota + 1
	StmtExtern
	StmtModule
)

func (k StmtKind) String() string {
	switch k {
	case StmtVarDefs:
		return "VarDefs"
	case StmtExtern:
		return "Extern"
	case StmtModule:
		return "Module"
	default:
		return fmt.Sprintf("StmtKind(%d)", k)
	}
}

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

type DecoratorKind uint8

const (
	DecNone DecoratorKind = iota
	DecIn
	DecOut
	DecWire
	DecClock
)

func (k DecoratorKind) String() string {
	switch k {
	case DecNone:
		return ""
	case DecIn:
		return "@in"
	case DecOut:
		return "@out"
	case DecWire:
		return "@wire"
	case DecClock:
		return "@clock"
	default:
		return fmt.Sprintf("DecoratorKind(%d)", k)
	}
}

type Decorator struct {
	Kind DecoratorKind
	// Bits is meaningful only when HasBits is set.
	Bits    uint32
	HasBits bool
	Span    source.Span
}

type VarDef struct {
	Name  string
	Span  source.Span
	Value ExprID // NoExprID when the definition has no initialiser
}

type VarDefsData struct {
	Decorator Decorator
	Defs      []VarDef
}

type PinDir uint8

const (
	PinIn PinDir = iota + 1
	PinOut
)

// Pin is one terminal of an external template.
type Pin struct {
	Dir  PinDir
	Name string
	// External is the pin name inside the template; defaults to Name.
	External string
	Bits     uint32
	Offset   netlist.Coordinate
	Span     source.Span
}

// ExternData declares an opaque Digital component usable like a module.
type ExternData struct {
	Name     string
	Template string
	Pins     []Pin
	Attrs    []netlist.Attribute
}

// Port is one entry of an internal module signature.
type Port struct {
	Name  string
	Width types.BitWidth
}

type ModuleData struct {
	Name    string
	Inputs  []Port
	Outputs []Port
	Body    []StmtID
}

type Stmts struct {
	Arena   *Arena[Stmt]
	VarDefs *Arena[VarDefsData]
	Externs *Arena[ExternData]
	Modules *Arena[ModuleData]
}

func NewStmts(capHint uint) *Stmts {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &Stmts{
		Arena:   NewArena[Stmt](capHint),
		VarDefs: NewArena[VarDefsData](capHint),
		Externs: NewArena[ExternData](max(capHint/8, 4)),
		Modules: NewArena[ModuleData](max(capHint/8, 4)),
	}
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

func (s *Stmts) new(kind StmtKind, span source.Span, payload uint32) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{Kind: kind, Span: span, Payload: PayloadID(payload)}))
}

func (s *Stmts) NewVarDefs(span source.Span, data VarDefsData) StmtID {
	return s.new(StmtVarDefs, span, s.VarDefs.Allocate(data))
}

func (s *Stmts) NewExtern(span source.Span, data ExternData) StmtID {
	return s.new(StmtExtern, span, s.Externs.Allocate(data))
}

func (s *Stmts) NewModule(span source.Span, data ModuleData) StmtID {
	return s.new(StmtModule, span, s.Modules.Allocate(data))
}

func (s *Stmts) VarDefsOf(id StmtID) (*VarDefsData, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtVarDefs {
		return nil, false
	}
	return s.VarDefs.Get(uint32(st.Payload)), true
}

func (s *Stmts) Extern(id StmtID) (*ExternData, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtExtern {
		return nil, false
	}
	return s.Externs.Get(uint32(st.Payload)), true
}

func (s *Stmts) Module(id StmtID) (*ModuleData, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtModule {
		return nil, false
	}
	return s.Modules.Get(uint32(st.Payload)), true
}
