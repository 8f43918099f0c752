package netlist

import "fmt"

// Element names understood by Digital.
const (
	KindIn       = "In"
	KindOut      = "Out"
	KindConst    = "Const"
	KindClock    = "Clock"
	KindNot      = "Not"
	KindAnd      = "And"
	KindNAnd     = "NAnd"
	KindOr       = "Or"
	KindNOr      = "NOr"
	KindXOr      = "XOr"
	KindXNOr     = "XNOr"
	KindSplitter = "Splitter"
)

// Grid is the Digital canvas pitch.
const Grid = 20

// Pin offsets relative to an element anchor.
var (
	notInput  = Coordinate{}
	notOutput = Coordinate{X: 40}

	gateInputs = [2]Coordinate{{}, {Y: 40}}
	gateOutput = Coordinate{X: 80, Y: 20}
	// Negated gates carry an inversion bubble that pushes the output one cell right.
	negGateOutput = Coordinate{X: 100, Y: 20}
)

// IsGate reports whether name is a two-input wide-shape gate.
func IsGate(name string) bool {
	switch name {
	case KindAnd, KindNAnd, KindOr, KindNOr, KindXOr, KindXNOr:
		return true
	}
	return false
}

// GateInputs returns the two input pin offsets of a wide-shape gate.
func GateInputs() [2]Coordinate { return gateInputs }

// GateOutput returns the output pin offset of the named gate.
func GateOutput(name string) Coordinate {
	switch name {
	case KindNAnd, KindNOr, KindXNOr:
		return negGateOutput
	case KindAnd, KindOr, KindXOr:
		return gateOutput
	}
	panic(fmt.Sprintf("netlist: %q is not a gate", name))
}

func NotInput() Coordinate  { return notInput }
func NotOutput() Coordinate { return notOutput }

// SplitterInput is the offset of input lane i.
func SplitterInput(i int) Coordinate {
	return Coordinate{Y: int64(i) * Grid}
}

// SplitterOutput is the offset of output lane j.
func SplitterOutput(j int) Coordinate {
	return Coordinate{X: Grid, Y: int64(j) * Grid}
}
