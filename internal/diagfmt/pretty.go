package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"dhlc/internal/diag"
	"dhlc/internal/source"
)

type palette struct {
	err, warn, info, code, gutter, caret, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.gutter, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty renders diagnostics in bag order, so callers usually Sort first.
// Each diagnostic prints as
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// followed by the source line with a ^~~~ underline below the primary span
// and, with ShowNotes, every note in the same location format.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, d, fs, opts, p)
	}
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	if int(d.Primary.File) >= fs.Len() {
		fmt.Fprintf(w, "%s %s: %s\n",
			p.severity(d.Severity).Sprint(d.Severity.String()),
			p.code.Sprint(d.Code.ID()),
			d.Message)
		return
	}
	f := fs.Get(d.Primary.File)
	start, end := fs.Resolve(d.Primary)
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		location(f, start, opts),
		p.severity(d.Severity).Sprint(d.Severity.String()),
		p.code.Sprint(d.Code.ID()),
		d.Message)
	writeExcerpt(w, f, start, end, opts.Context, p)

	if !opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		if int(n.Span.File) >= fs.Len() {
			fmt.Fprintf(w, "%s %s\n", p.note.Sprint("note:"), n.Msg)
			continue
		}
		nf := fs.Get(n.Span.File)
		ns, _ := fs.Resolve(n.Span)
		fmt.Fprintf(w, "%s %s: %s\n", p.note.Sprint("note:"), location(nf, ns, opts), n.Msg)
	}
}

func location(f *source.File, pos source.LineCol, opts PrettyOpts) string {
	return fmt.Sprintf("%s:%d:%d", formatPath(f.Path, opts.PathMode, opts.BaseDir), pos.Line, pos.Col)
}

func writeExcerpt(w io.Writer, f *source.File, start, end source.LineCol, context int8, p palette) {
	if start.Line == 0 {
		return
	}
	ctx := uint32(max(context, 0))
	first := uint32(1)
	if start.Line > ctx {
		first = start.Line - ctx
	}
	last := start.Line + ctx
	gutterWidth := len(fmt.Sprint(last))

	for n := first; n <= last; n++ {
		if n > lineCount(f) {
			break
		}
		line := f.GetLine(n)
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", gutterWidth, n), line)
		if n != start.Line {
			continue
		}
		endCol := end.Col
		if end.Line != start.Line {
			endCol = uint32(len(line)) + 1 // #nosec G115 -- line comes from a bounded file
		}
		fmt.Fprintf(w, "%s %s\n",
			p.gutter.Sprintf("%*s |", gutterWidth, ""),
			p.caret.Sprint(underline(line, start.Col, endCol)))
	}
}

// underline builds the ^~~~ marker for the 1-based byte columns [from, to),
// padded by display width so wide runes and tabs line up with the source.
func underline(line string, from, to uint32) string {
	if from == 0 {
		from = 1
	}
	lo := min(int(from-1), len(line))
	hi := min(max(int(to-1), lo), len(line))

	var b strings.Builder
	for _, r := range line[:lo] {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	width := max(runewidth.StringWidth(line[lo:hi]), 1)
	b.WriteByte('^')
	b.WriteString(strings.Repeat("~", width-1))
	return b.String()
}

func lineCount(f *source.File) uint32 {
	return uint32(len(f.LineIdx)) + 1 // #nosec G115 -- bounded in source.FileSet.Add
}
