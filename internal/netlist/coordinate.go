package netlist

import "fmt"

// Coordinate is a position on the Digital canvas, in pixels.
type Coordinate struct {
	X int64 `msgpack:"x"`
	Y int64 `msgpack:"y"`
}

// Add offsets c by (dx, dy).
func (c Coordinate) Add(dx, dy int64) Coordinate {
	return Coordinate{X: c.X + dx, Y: c.Y + dy}
}

// Offset adds another coordinate treated as a relative offset.
func (c Coordinate) Offset(o Coordinate) Coordinate {
	return c.Add(o.X, o.Y)
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}
