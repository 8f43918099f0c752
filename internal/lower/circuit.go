package lower

import (
	"context"
	"io"
	"slices"

	"dhlc/internal/ast"
	"dhlc/internal/diag"
	"dhlc/internal/netlist"
	"dhlc/internal/source"

	"github.com/charmbracelet/log"
)

type Options struct {
	Layout netlist.Layout
	// Logger receives debug events; nil discards them.
	Logger *log.Logger
}

type bindKind uint8

const (
	bindLocal bindKind = iota
	bindInput
	bindOutput
	bindWire
)

type binding struct {
	kind bindKind
	data *Data
	span source.Span
	// pending marks a forward-declared wire that has not been completed.
	pending bool
}

// frame holds the variables of one module instantiation, or of the top level.
type frame struct {
	module string
	vars   map[string]*binding
}

// Circuit is the build context of one compilation. It is not safe for
// concurrent use.
type Circuit struct {
	exprs *ast.Exprs
	stmts *ast.Stmts
	graph *netlist.Graph
	alloc *netlist.Allocator
	log   *log.Logger

	modules map[string]*Module
	frames  []*frame
}

// New creates a circuit with an empty top-level frame over the arenas of b.
func New(b *ast.Builder, opts Options) (*Circuit, error) {
	alloc, err := netlist.NewAllocator(opts.Layout)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Circuit{
		exprs:   b.Exprs,
		stmts:   b.Stmts,
		graph:   &netlist.Graph{},
		alloc:   alloc,
		log:     logger,
		modules: make(map[string]*Module),
		frames:  []*frame{newFrame("")},
	}, nil
}

func newFrame(module string) *frame {
	return &frame{module: module, vars: make(map[string]*binding)}
}

// unassigned fails on the first forward-declared wire, by name, that was
// never completed in f.
func (f *frame) unassigned() error {
	var names []string
	for name, b := range f.vars {
		if b.pending {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil
	}
	slices.Sort(names)
	b := f.vars[names[0]]
	where := "the top level"
	if f.module != "" {
		where = f.module
	}
	return diag.Errorf(diag.SemSignatureMismatch, b.span, names[0],
		"wire %q in %s is declared but never assigned", names[0], where)
}

func (c *Circuit) Graph() *netlist.Graph { return c.graph }

func (c *Circuit) Allocator() *netlist.Allocator { return c.alloc }

// Depth is the number of open frames; 1 at the top level.
func (c *Circuit) Depth() int { return len(c.frames) }

func (c *Circuit) atTop() bool { return len(c.frames) == 1 }

func (c *Circuit) top() *frame { return c.frames[len(c.frames)-1] }

func (c *Circuit) push(module string) {
	c.frames = append(c.frames, newFrame(module))
}

func (c *Circuit) pop() {
	if c.atTop() {
		panic("lower: popping the top-level frame")
	}
	c.frames = c.frames[:len(c.frames)-1]
}

// lookup searches the current frame, then the top-level frame. Callers'
// frames are never consulted, matching the resolver's lexical view.
func (c *Circuit) lookup(name string) (*binding, bool) {
	if b, ok := c.top().vars[name]; ok {
		return b, true
	}
	b, ok := c.frames[0].vars[name]
	return b, ok
}

// Lookup returns the data bound to name in the visible frames.
func (c *Circuit) Lookup(name string) (*Data, bool) {
	b, ok := c.lookup(name)
	if !ok {
		return nil, false
	}
	return b.data, true
}

// bind defines name in the current frame. Names are write-once per frame.
func (c *Circuit) bind(name string, kind bindKind, data *Data, span source.Span) (*binding, error) {
	f := c.top()
	if _, ok := f.vars[name]; ok {
		return nil, diag.Errorf(diag.SemDuplicateDefinition, span, name, "%q is already defined", name)
	}
	b := &binding{kind: kind, data: data, span: span, pending: kind == bindWire}
	f.vars[name] = b
	return b, nil
}

// Run lowers every top-level statement of prog. The context is checked
// between statements.
func (c *Circuit) Run(ctx context.Context, prog ast.Program) error {
	for _, id := range prog.Stmts {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.LowerStmt(id); err != nil {
			return err
		}
	}
	if err := c.top().unassigned(); err != nil {
		return err
	}
	c.log.Debug("lowered", "elements", len(c.graph.Elements), "wires", len(c.graph.Wires))
	return nil
}

// place allocates an anchor for e and adds it to the graph. lanes is the
// number of grid rows e spans.
func (c *Circuit) place(lanes int, build func(netlist.Coordinate) netlist.Element) netlist.Coordinate {
	pos := c.alloc.NextBlock(lanes)
	c.graph.Add(build(pos))
	return pos
}

func (c *Circuit) span(id ast.ExprID) source.Span {
	if e := c.exprs.Get(id); e != nil {
		return e.Span
	}
	return source.Span{}
}
