package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"dhlc/internal/ast"
	"dhlc/internal/netlist"
	"dhlc/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed file:
// every top-level statement span is non-empty, points at sf and lies within
// its content, and statements appear in source order.
func CheckSpanInvariants(b *ast.Builder, prog ast.Program, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var prevEnd uint32
	for _, id := range prog.Stmts {
		st := b.Stmts.Get(id)
		if st == nil {
			return fmt.Errorf("nil statement for id=%d", id)
		}
		sp := st.Span
		if sp.End <= sp.Start {
			return fmt.Errorf("empty statement span: %v", sp)
		}
		if sp.File != sf.ID {
			return fmt.Errorf("statement span file mismatch: got=%d want=%d", sp.File, sf.ID)
		}
		if sp.End > lenContent {
			return fmt.Errorf("statement span end beyond content: %d > %d", sp.End, lenContent)
		}
		if sp.Start < prevEnd {
			return fmt.Errorf("statement span %v overlaps its predecessor ending at %d", sp, prevEnd)
		}
		prevEnd = sp.End
	}
	return nil
}

// CheckGraphInvariants verifies the placement contract of a lowered graph:
// 1) no two elements share an anchor
// 2) no wire has zero length
// 3) every wire endpoint lands on an element pin or is shared with another wire
func CheckGraphInvariants(g *netlist.Graph) error {
	if g == nil {
		return fmt.Errorf("nil graph")
	}

	anchors := make(map[netlist.Coordinate]int, len(g.Elements))
	pins := make(map[netlist.Coordinate]bool)
	for i, e := range g.Elements {
		if j, ok := anchors[e.Pos]; ok {
			return fmt.Errorf("elements %d (%s) and %d (%s) share anchor %s", j, g.Elements[j].Name, i, e.Name, e.Pos)
		}
		anchors[e.Pos] = i
		for _, p := range e.Pins {
			pins[p] = true
		}
	}

	ends := make(map[netlist.Coordinate]int, 2*len(g.Wires))
	for i, w := range g.Wires {
		if w.Start == w.End {
			return fmt.Errorf("wire %d has zero length at %s", i, w.Start)
		}
		ends[w.Start]++
		ends[w.End]++
	}
	for i, w := range g.Wires {
		for _, p := range []netlist.Coordinate{w.Start, w.End} {
			if !pins[p] && ends[p] < 2 {
				return fmt.Errorf("wire %d endpoint %s is not connected to anything", i, p)
			}
		}
	}
	return nil
}
