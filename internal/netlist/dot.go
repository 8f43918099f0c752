package netlist

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
)

// ToDOT renders g as a Graphviz digraph. Every element is a node; a wire
// becomes an edge between the elements owning its endpoints. Endpoints that no
// element owns (forward-declared wires) become point nodes.
func ToDOT(g *Graph) string {
	owner := make(map[Coordinate]int, len(g.Elements)*2)
	for i := range g.Elements {
		e := &g.Elements[i]
		owner[e.Pos] = i
		for _, p := range e.Pins {
			if _, taken := owner[p]; !taken {
				owner[p] = i
			}
		}
	}
	nodeID := func(c Coordinate) string {
		if i, ok := owner[c]; ok {
			return fmt.Sprintf("e%d", i)
		}
		return fmt.Sprintf("p_%d_%d", c.X, c.Y)
	}

	var buf bytes.Buffer
	buf.WriteString("digraph netlist {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12];\n")
	buf.WriteString("\n")

	for i := range g.Elements {
		e := &g.Elements[i]
		fmt.Fprintf(&buf, "  e%d [label=%q];\n", i, elementLabel(e))
	}

	points := map[string]bool{}
	var edges strings.Builder
	for _, w := range g.Wires {
		from, to := nodeID(w.Start), nodeID(w.End)
		for _, id := range [...]string{from, to} {
			if strings.HasPrefix(id, "p_") && !points[id] {
				points[id] = true
				fmt.Fprintf(&buf, "  %s [shape=point, label=\"\"];\n", id)
			}
		}
		fmt.Fprintf(&edges, "  %s -> %s;\n", from, to)
	}

	buf.WriteString("\n")
	buf.WriteString(edges.String())
	buf.WriteString("}\n")
	return buf.String()
}

func elementLabel(e *Element) string {
	label := e.Name
	if v, ok := e.Attr("Label"); ok {
		label += "\n" + v.Text()
	}
	if v, ok := e.Attr("Bits"); ok {
		label += fmt.Sprintf("\n%s bit", v.Text())
	}
	if v, ok := e.Attr("Value"); ok && e.Name == KindConst {
		label += "\n= " + v.Text()
	}
	return label
}

// RenderSVG lays out g with Graphviz and returns the SVG document.
func RenderSVG(ctx context.Context, g *Graph) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	graph, err := graphviz.ParseBytes([]byte(ToDOT(g)))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer graph.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
