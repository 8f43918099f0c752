package driver

import (
	"context"
	"fmt"
	"io"

	"dhlc/internal/netlist"
	"dhlc/internal/project"
)

// Emit serialises g to w in format (dig, dot or svg).
func Emit(ctx context.Context, w io.Writer, g *netlist.Graph, format string) error {
	switch format {
	case project.FormatDig, "":
		return netlist.WriteDig(w, g, netlist.DigOptions{Indent: "  "})
	case project.FormatDOT:
		_, err := io.WriteString(w, netlist.ToDOT(g))
		return err
	case project.FormatSVG:
		svg, err := netlist.RenderSVG(ctx, g)
		if err != nil {
			return err
		}
		_, err = w.Write(svg)
		return err
	default:
		return fmt.Errorf("%w: %q", project.ErrUnknownFormat, format)
	}
}
