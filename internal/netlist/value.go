package netlist

import (
	"fmt"
	"strconv"
)

// ValueKind tags the payload of a Value.
type ValueKind uint8

const (
	ValueString ValueKind = iota + 1
	ValueInt
	ValueLong
	ValueBool
	ValueColor
	ValueDirection
	ValueData
)

func (k ValueKind) String() string {
	switch k {
	case ValueString:
		return "string"
	case ValueInt:
		return "int"
	case ValueLong:
		return "long"
	case ValueBool:
		return "boolean"
	case ValueColor:
		return "awt-color"
	case ValueDirection:
		return "direction"
	case ValueData:
		return "data"
	default:
		return fmt.Sprintf("ValueKind(%d)", k)
	}
}

// Direction is a Digital orientation attribute.
type Direction uint8

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return fmt.Sprintf("Direction(%d)", d)
	}
}

// ParseDirection maps up/down/left/right to a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "up":
		return DirUp, true
	case "down":
		return DirDown, true
	case "left":
		return DirLeft, true
	case "right":
		return DirRight, true
	}
	return 0, false
}

type RGBA struct {
	R uint8 `msgpack:"r"`
	G uint8 `msgpack:"g"`
	B uint8 `msgpack:"b"`
	A uint8 `msgpack:"a"`
}

// Value is a tagged attribute value; only the field matching Kind is meaningful.
type Value struct {
	Kind  ValueKind `msgpack:"k"`
	Str   string    `msgpack:"s,omitempty"`
	Int   int32     `msgpack:"i,omitempty"`
	Long  int64     `msgpack:"l,omitempty"`
	Bool  bool      `msgpack:"b,omitempty"`
	Color RGBA      `msgpack:"c,omitempty"`
	Dir   Direction `msgpack:"d,omitempty"`
}

func String(s string) Value { return Value{Kind: ValueString, Str: s} }
func Int(i int32) Value { return Value{Kind: ValueInt, Int: i} }
func Long(l int64) Value { return Value{Kind: ValueLong, Long: l} }
func Bool(b bool) Value { return Value{Kind: ValueBool, Bool: b} }
func Color(c RGBA) Value { return Value{Kind: ValueColor, Color: c} }
func Dir(d Direction) Value { return Value{Kind: ValueDirection, Dir: d} }
func Data(s string) Value { return Value{Kind: ValueData, Str: s} }

// Text is the textual payload written inside the value's XML element.
func (v Value) Text() string {
	switch v.Kind {
	case ValueString, ValueData:
		return v.Str
	case ValueInt:
		return strconv.FormatInt(int64(v.Int), 10)
	case ValueLong:
		return strconv.FormatInt(v.Long, 10)
	case ValueBool:
		return strconv.FormatBool(v.Bool)
	case ValueColor:
		return fmt.Sprintf("rgba(%d,%d,%d,%d)", v.Color.R, v.Color.G, v.Color.B, v.Color.A)
	case ValueDirection:
		return v.Dir.String()
	default:
		return ""
	}
}

func (v Value) String() string {
	if v.Kind == ValueString || v.Kind == ValueData {
		return strconv.Quote(v.Str)
	}
	return v.Text()
}
