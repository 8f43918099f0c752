package ast

import (
	"fmt"

	"dhlc/internal/source"
	"dhlc/internal/types"
)

type ExprKind uint8

const (
	ExprInt ExprKind = iota + 1
	ExprString
	ExprIdent
	ExprNot
	ExprBinary
	ExprMux
	ExprBit
	ExprRange
	ExprName
	ExprVector
	ExprRecord
	ExprUse
)

func (k ExprKind) String() string {
	switch k {
	case ExprInt:
		return "Int"
	case ExprString:
		return "String"
	case ExprIdent:
		return "Ident"
	case ExprNot:
		return "Not"
	case ExprBinary:
		return "Binary"
	case ExprMux:
		return "Mux"
	case ExprBit:
		return "Bit"
	case ExprRange:
		return "Range"
	case ExprName:
		return "Name"
	case ExprVector:
		return "Vector"
	case ExprRecord:
		return "Record"
	case ExprUse:
		return "Use"
	default:
		return fmt.Sprintf("ExprKind(%d)", k)
	}
}

// Expr is one node of the expression arena. Width is filled in by the
// resolver as soon as the node is built.
type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
	Width   types.BitWidth
}

type BinaryOp uint8

const (
	OpAnd BinaryOp = iota + 1
	OpNand
	OpOr
	OpNor
	OpXor
	OpXnor
)

func (op BinaryOp) String() string {
	switch op {
	case OpAnd:
		return "&"
	case OpNand:
		return "!&"
	case OpOr:
		return "|"
	case OpNor:
		return "!|"
	case OpXor:
		return "^"
	case OpXnor:
		return "!^"
	default:
		return fmt.Sprintf("BinaryOp(%d)", op)
	}
}

type ExprIntData struct {
	Value uint64
}

type ExprStringData struct {
	Value string
}

type ExprIdentData struct {
	Name string
}

type ExprNotData struct {
	Operand ExprID
}

type ExprBinaryData struct {
	Op    BinaryOp
	Left  ExprID
	Right ExprID
}

// ExprMuxData is `vector ? select`.
type ExprMuxData struct {
	Vector ExprID
	Select ExprID
}

type ExprBitData struct {
	Operand ExprID
	Bit     uint32
}

// ExprRangeData selects bits From..To inclusive.
type ExprRangeData struct {
	Operand ExprID
	From    uint32
	To      uint32
}

type ExprNameData struct {
	Operand ExprID
	Name    string
}

// ExprVectorData lists one element per lane, lane 0 first.
type ExprVectorData struct {
	Elems []ExprID
}

type RecordField struct {
	Name  string
	Value ExprID
	Span  source.Span
}

type ExprRecordData struct {
	Fields []RecordField
}

// Arg is a named call argument. Unnamed arguments are keyed "0", "1", ....
type Arg struct {
	Name  string
	Value ExprID
	Span  source.Span
}

type ExprUseData struct {
	Module string
	Args   []Arg
}
