package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"dhlc/internal/diag"
	"dhlc/internal/diagfmt"
	"dhlc/internal/netlist"
	"dhlc/internal/observ"
	"dhlc/internal/source"
)

var (
	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
	styleDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleNumber = lipgloss.NewStyle().Foreground(lipgloss.Color("36"))
	styleCached = lipgloss.NewStyle().Foreground(lipgloss.Color("35"))
)

func printDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet) {
	if bag == nil || bag.Len() == 0 || fs == nil {
		return
	}
	bag.Sort()
	diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
		Color:     !color.NoColor,
		Context:   1,
		PathMode:  diagfmt.PathModeRelative,
		ShowNotes: true,
	})
}

func printTimings(w io.Writer, path string, t *observ.Timer) {
	if !timings || t == nil {
		return
	}
	fmt.Fprintf(w, "%s\n%s", styleDim.Render(path), t.Summary())
}

// renderStats draws the per-kind element table of g.
func renderStats(path string, g *netlist.Graph, cached bool) string {
	counts := g.CountByKind()
	kinds := g.Kinds()

	nameWidth := runewidth.StringWidth("elements")
	for _, k := range kinds {
		nameWidth = max(nameWidth, runewidth.StringWidth(k))
	}

	var b strings.Builder
	title := styleTitle.Render(path)
	if cached {
		title += " " + styleCached.Render("(cached)")
	}
	b.WriteString(title + "\n")
	row := func(name string, n int) {
		b.WriteString("  ")
		b.WriteString(runewidth.FillRight(name, nameWidth))
		b.WriteString("  ")
		b.WriteString(styleNumber.Render(runewidth.FillLeft(strconv.Itoa(n), 6)))
		b.WriteByte('\n')
	}
	for _, k := range kinds {
		row(k, counts[k])
	}
	b.WriteString("  " + styleDim.Render(strings.Repeat("-", nameWidth+8)) + "\n")
	row("elements", len(g.Elements))
	row("wires", len(g.Wires))
	return b.String()
}
