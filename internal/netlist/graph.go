package netlist

import (
	"maps"
	"slices"
)

// Graph is the ordered output of one compilation.
type Graph struct {
	Elements []Element `msgpack:"elements"`
	Wires    []Wire    `msgpack:"wires"`
}

// Add appends e and returns its index.
func (g *Graph) Add(e Element) int {
	g.Elements = append(g.Elements, e)
	return len(g.Elements) - 1
}

// Connect appends a wire from start to end.
func (g *Graph) Connect(start, end Coordinate) {
	g.Wires = append(g.Wires, Wire{Start: start, End: end})
}

// CountByKind tallies elements per element name.
func (g *Graph) CountByKind() map[string]int {
	counts := make(map[string]int)
	for i := range g.Elements {
		counts[g.Elements[i].Name]++
	}
	return counts
}

// Kinds returns the element names present in g, sorted.
func (g *Graph) Kinds() []string {
	return slices.Sorted(maps.Keys(g.CountByKind()))
}

// ElementsOf returns the elements named kind in emission order.
func (g *Graph) ElementsOf(kind string) []Element {
	var out []Element
	for _, e := range g.Elements {
		if e.Name == kind {
			out = append(out, e)
		}
	}
	return out
}
