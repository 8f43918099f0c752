package netlist

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
)

// DigOptions controls .dig formatting.
type DigOptions struct {
	// Indent pretty-prints with the given indent; empty writes a single line.
	Indent string
}

type digWriter struct {
	enc *xml.Encoder
	err error
}

func (w *digWriter) start(name string, attrs ...xml.Attr) {
	if w.err != nil {
		return
	}
	w.err = w.enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs})
}

func (w *digWriter) end(name string) {
	if w.err != nil {
		return
	}
	w.err = w.enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: name}})
}

func (w *digWriter) text(name, s string) {
	w.start(name)
	if w.err == nil && s != "" {
		w.err = w.enc.EncodeToken(xml.CharData(s))
	}
	w.end(name)
}

func (w *digWriter) empty(name string) {
	w.start(name)
	w.end(name)
}

func (w *digWriter) point(name string, c Coordinate) {
	w.start(name,
		xml.Attr{Name: xml.Name{Local: "x"}, Value: strconv.FormatInt(c.X, 10)},
		xml.Attr{Name: xml.Name{Local: "y"}, Value: strconv.FormatInt(c.Y, 10)},
	)
	w.end(name)
}

func (w *digWriter) value(v Value) {
	switch v.Kind {
	case ValueColor:
		w.start("awt-color")
		w.text("red", strconv.Itoa(int(v.Color.R)))
		w.text("green", strconv.Itoa(int(v.Color.G)))
		w.text("blue", strconv.Itoa(int(v.Color.B)))
		w.text("alpha", strconv.Itoa(int(v.Color.A)))
		w.end("awt-color")
	case ValueString, ValueInt, ValueLong, ValueBool, ValueDirection, ValueData:
		w.text(v.Kind.String(), v.Text())
	default:
		if w.err == nil {
			w.err = fmt.Errorf("netlist: attribute value has no kind")
		}
	}
}

func (w *digWriter) element(e *Element) {
	w.start("visualElement")
	w.text("elementName", e.Name)
	w.start("elementAttributes")
	for _, a := range e.Attributes {
		w.start("entry")
		w.text("string", a.Key)
		w.value(a.Value)
		w.end("entry")
	}
	w.end("elementAttributes")
	w.point("pos", e.Pos)
	w.end("visualElement")
}

// WriteDig serialises g as a Digital circuit file.
func WriteDig(out io.Writer, g *Graph, opts DigOptions) error {
	if _, err := io.WriteString(out, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(out)
	if opts.Indent != "" {
		enc.Indent("", opts.Indent)
	}
	w := &digWriter{enc: enc}

	w.start("circuit")
	w.text("version", "2")
	w.empty("attributes")
	w.start("visualElements")
	for i := range g.Elements {
		w.element(&g.Elements[i])
	}
	w.end("visualElements")
	w.start("wires")
	for _, wire := range g.Wires {
		w.start("wire")
		w.point("p1", wire.Start)
		w.point("p2", wire.End)
		w.end("wire")
	}
	w.end("wires")
	w.empty("measurementOrdering")
	w.end("circuit")

	if w.err != nil {
		return fmt.Errorf("write dig: %w", w.err)
	}
	if err := enc.Flush(); err != nil {
		return fmt.Errorf("write dig: %w", err)
	}
	return nil
}

// MarshalDig returns the .dig document for g.
func MarshalDig(g *Graph, opts DigOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteDig(&buf, g, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
