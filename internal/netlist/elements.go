package netlist

import (
	"fmt"

	"fortio.org/safecast"
)

func bitsAttr(bits uint32) Attribute {
	n, err := safecast.Conv[int32](bits)
	if err != nil {
		panic(fmt.Errorf("netlist: bit width %d overflows int32: %w", bits, err))
	}
	return Attribute{Key: "Bits", Value: Int(n)}
}

// NewConst is a constant source driving value on a bits-wide bus.
func NewConst(pos Coordinate, value int64, bits uint32) Element {
	return Element{
		Name: KindConst,
		Attributes: []Attribute{
			{Key: "Value", Value: Long(value)},
			bitsAttr(bits),
		},
		Pos:  pos,
		Pins: []Coordinate{pos},
	}
}

// NewIn is a labelled top-level input pin.
func NewIn(pos Coordinate, label string, bits uint32) Element {
	return Element{
		Name: KindIn,
		Attributes: []Attribute{
			{Key: "Label", Value: String(label)},
			bitsAttr(bits),
		},
		Pos:  pos,
		Pins: []Coordinate{pos},
	}
}

// NewOut is a labelled top-level output pin.
func NewOut(pos Coordinate, label string, bits uint32) Element {
	return Element{
		Name: KindOut,
		Attributes: []Attribute{
			{Key: "Label", Value: String(label)},
			bitsAttr(bits),
		},
		Pos:  pos,
		Pins: []Coordinate{pos},
	}
}

// NewClock is a labelled 1-bit clock source.
func NewClock(pos Coordinate, label string) Element {
	return Element{
		Name:       KindClock,
		Attributes: []Attribute{{Key: "Label", Value: String(label)}},
		Pos:        pos,
		Pins:       []Coordinate{pos},
	}
}

func NewNot(pos Coordinate) Element {
	return Element{
		Name: KindNot,
		Pos:  pos,
		Pins: []Coordinate{pos.Offset(notInput), pos.Offset(notOutput)},
	}
}

// NewGate places a two-input gate drawn with the wide shape.
func NewGate(name string, pos Coordinate) Element {
	return Element{
		Name:       name,
		Attributes: []Attribute{{Key: "wideShape", Value: Bool(true)}},
		Pos:        pos,
		Pins: []Coordinate{
			pos.Offset(gateInputs[0]),
			pos.Offset(gateInputs[1]),
			pos.Offset(GateOutput(name)),
		},
	}
}

// NewSplitter places a splitter; ins and outs are the lane counts on each side,
// used only to record pin positions.
func NewSplitter(pos Coordinate, input, output string, ins, outs int) Element {
	pins := make([]Coordinate, 0, ins+outs)
	for i := range ins {
		pins = append(pins, pos.Offset(SplitterInput(i)))
	}
	for j := range outs {
		pins = append(pins, pos.Offset(SplitterOutput(j)))
	}
	return Element{
		Name: KindSplitter,
		Attributes: []Attribute{
			{Key: "Input Splitting", Value: String(input)},
			{Key: "Output Splitting", Value: String(output)},
		},
		Pos:  pos,
		Pins: pins,
	}
}

// NewCombiner joins w single-bit lanes into one w-bit bus.
func NewCombiner(pos Coordinate, w uint32) Element {
	return NewSplitter(pos, fmt.Sprintf("1*%d", w), fmt.Sprintf("%d", w), int(w), 1)
}

// NewLaneSplitter fans a w-bit bus out into w single-bit lanes.
func NewLaneSplitter(pos Coordinate, w uint32) Element {
	return NewSplitter(pos, fmt.Sprintf("%d", w), fmt.Sprintf("1*%d", w), 1, int(w))
}

// NewExtract taps bits from..to (inclusive) of a width-bit bus on output lane 0.
func NewExtract(pos Coordinate, width, from, to uint32) Element {
	return NewSplitter(pos, fmt.Sprintf("%d", width), fmt.Sprintf("%d-%d", from, to), 1, 1)
}

// NewTruncate keeps the low to bits of a from-bit bus on output lane 0.
func NewTruncate(pos Coordinate, from, to uint32) Element {
	return NewSplitter(pos, fmt.Sprintf("%d", from), fmt.Sprintf("%d,%d", to, from-to), 1, 2)
}

// NewZeroExtend joins a from-bit bus (lane 0) with a zero bus (lane 1) into to bits.
func NewZeroExtend(pos Coordinate, from, to uint32) Element {
	return NewSplitter(pos, fmt.Sprintf("%d,%d", from, to-from), fmt.Sprintf("%d", to), 2, 1)
}

// NewTemplate places an opaque external element with static attributes and
// the given pin offsets.
func NewTemplate(name string, pos Coordinate, attrs []Attribute, pins []Coordinate) Element {
	abs := make([]Coordinate, len(pins))
	for i, p := range pins {
		abs[i] = pos.Offset(p)
	}
	return Element{
		Name:       name,
		Attributes: append([]Attribute(nil), attrs...),
		Pos:        pos,
		Pins:       abs,
	}
}
