package lower

import (
	"strings"

	"dhlc/internal/diag"
	"dhlc/internal/netlist"
	"dhlc/internal/source"
)

// wire requires d to be a single bus and returns its width and position.
func wire(d *Data, span source.Span, what string) (uint32, netlist.Coordinate, error) {
	bits, ok := d.Size()
	if !ok {
		return 0, netlist.Coordinate{}, diag.Errorf(diag.SemTypeMismatch, span, "",
			"%s needs a bus or a single-field record, got %s", what, describe(d))
	}
	pos, _ := d.Position()
	return bits, pos, nil
}

func describe(d *Data) string {
	switch {
	case d == nil || d.Kind == DataEmpty:
		return "no value"
	case d.Kind == DataObject:
		return "a record with fields {" + strings.Join(d.Keys(), ", ") + "}"
	default:
		return "a bus"
	}
}

// CastValue adapts d to target bits and returns the position of the adapted
// bus. Equal widths emit nothing; wider buses lose their high lanes through a
// splitter; narrower buses are zero-extended on the high side.
func (c *Circuit) CastValue(d *Data, target uint32, span source.Span) (netlist.Coordinate, error) {
	from, pos, err := wire(d, span, "cast")
	if err != nil {
		return netlist.Coordinate{}, err
	}
	switch {
	case from == target:
		return pos, nil

	case from > target:
		at := c.place(1, func(p netlist.Coordinate) netlist.Element {
			return netlist.NewTruncate(p, from, target)
		})
		c.graph.Connect(pos, at.Offset(netlist.SplitterInput(0)))
		return at.Offset(netlist.SplitterOutput(0)), nil

	default:
		zero := c.place(1, func(p netlist.Coordinate) netlist.Element {
			return netlist.NewConst(p, 0, target-from)
		})
		at := c.place(2, func(p netlist.Coordinate) netlist.Element {
			return netlist.NewZeroExtend(p, from, target)
		})
		c.graph.Connect(zero, at.Offset(netlist.SplitterInput(1)))
		c.graph.Connect(pos, at.Offset(netlist.SplitterInput(0)))
		return at.Offset(netlist.SplitterOutput(0)), nil
	}
}
