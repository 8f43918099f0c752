package netlist

// Attribute is one key/value entry of an element.
type Attribute struct {
	Key   string `msgpack:"key"`
	Value Value  `msgpack:"value"`
}

// Element is a placed Digital component.
type Element struct {
	Name       string      `msgpack:"name"`
	Attributes []Attribute `msgpack:"attrs"`
	Pos        Coordinate  `msgpack:"pos"`
	// Pins holds the absolute positions of every known pin. It is not part
	// of the .dig output; renderers use it to attach wires to elements.
	Pins []Coordinate `msgpack:"pins,omitempty"`
}

// Attr returns the value stored under key.
func (e *Element) Attr(key string) (Value, bool) {
	for _, a := range e.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return Value{}, false
}

// Wire is a straight connection between two pin positions.
type Wire struct {
	Start Coordinate `msgpack:"start"`
	End   Coordinate `msgpack:"end"`
}
