package lower

import (
	"maps"
	"slices"

	"dhlc/internal/netlist"
)

type DataKind uint8

const (
	DataEmpty DataKind = iota
	DataWire
	DataObject
)

// Data is the lowered value of an expression: nothing, one bus at a pin
// position, or a record of named values.
type Data struct {
	Kind   DataKind
	Bits   uint32
	Pos    netlist.Coordinate
	Fields map[string]*Data
}

func Wire(bits uint32, pos netlist.Coordinate) *Data {
	return &Data{Kind: DataWire, Bits: bits, Pos: pos}
}

func Object(fields map[string]*Data) *Data {
	return &Data{Kind: DataObject, Fields: fields}
}

// single unwraps one-field records down to a bus.
func (d *Data) single() (*Data, bool) {
	for d != nil && d.Kind == DataObject {
		if len(d.Fields) != 1 {
			return nil, false
		}
		for _, f := range d.Fields {
			d = f
		}
	}
	if d == nil || d.Kind != DataWire {
		return nil, false
	}
	return d, true
}

// Size is the bus width of d. Records qualify only with exactly one field.
func (d *Data) Size() (uint32, bool) {
	w, ok := d.single()
	if !ok {
		return 0, false
	}
	return w.Bits, true
}

// Position is the pin position of d, with the same one-field rule as Size.
func (d *Data) Position() (netlist.Coordinate, bool) {
	w, ok := d.single()
	if !ok {
		return netlist.Coordinate{}, false
	}
	return w.Pos, true
}

// Field returns the named entry of a record.
func (d *Data) Field(name string) (*Data, bool) {
	if d == nil || d.Kind != DataObject {
		return nil, false
	}
	f, ok := d.Fields[name]
	return f, ok
}

func (d *Data) Keys() []string {
	if d == nil || d.Kind != DataObject {
		return nil
	}
	return slices.Sorted(maps.Keys(d.Fields))
}
