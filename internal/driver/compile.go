package driver

import (
	"context"
	"fmt"
	"time"

	"fortio.org/safecast"

	"dhlc/internal/ast"
	"dhlc/internal/buildcache"
	"dhlc/internal/diag"
	"dhlc/internal/lower"
	"dhlc/internal/netlist"
	"dhlc/internal/observ"
	"dhlc/internal/parser"
	"dhlc/internal/project"
	"dhlc/internal/source"
)

// Options configures one compilation.
type Options struct {
	Layout project.LayoutConfig
	// Cache is consulted before parsing and filled after lowering; may be nil.
	Cache          *buildcache.DiskCache
	MaxDiagnostics int
	// Jobs bounds CompileFiles; zero means GOMAXPROCS.
	Jobs int
	// Progress receives per-file stage events; may be nil.
	Progress ProgressSink
}

// DefaultOptions compiles with the default layout and no cache.
func DefaultOptions() Options {
	return Options{Layout: project.DefaultLayoutConfig(), MaxDiagnostics: 16}
}

// Result is the outcome of compiling one file. On failure Graph is nil and
// Bag holds the diagnostic; FileSet resolves its spans.
type Result struct {
	Path    string
	FileSet *source.FileSet
	Graph   *netlist.Graph
	Outputs []buildcache.Output
	Bag     *diag.Bag
	Timer   *observ.Timer
	Cached  bool
}

// CompileFile loads, parses and lowers the file at path.
func CompileFile(ctx context.Context, path string, opts Options) (*Result, error) {
	start := time.Now()
	res, err := compileFile(ctx, path, opts)
	status := StatusDone
	if err != nil {
		status = StatusError
	}
	opts.emit(Event{File: path, Status: status, Err: err, Elapsed: time.Since(start)})
	return res, err
}

func compileFile(ctx context.Context, path string, opts Options) (*Result, error) {
	logger := Logger(ctx).With("file", path)
	res := &Result{
		Path:    path,
		FileSet: source.NewFileSet(),
		Bag:     diag.NewBag(opts.MaxDiagnostics),
		Timer:   observ.NewTimer(),
	}

	opts.emit(Event{File: path, Stage: StageLoad, Status: StatusWorking})
	var file *source.File
	err := res.Timer.Track("load", func() error {
		id, err := res.FileSet.Load(path)
		if err != nil {
			return err
		}
		file = res.FileSet.Get(id)
		return nil
	})
	if err != nil {
		res.Bag.Add(diag.Diagnostic{
			Severity: diag.SevError,
			Code:     diag.IOLoadFileError,
			Message:  err.Error(),
		})
		return res, fmt.Errorf("load %s: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	key := buildcache.Key(project.Digest(file.Hash), opts.Layout)
	if opts.Cache != nil {
		var payload buildcache.Payload
		hit, err := opts.Cache.Get(key, &payload)
		if err != nil {
			logger.Warn("cache read failed", "err", err)
		}
		if hit {
			logger.Debug("cache hit", "elements", len(payload.Graph.Elements))
			res.Graph = &payload.Graph
			res.Outputs = payload.Outputs
			res.Cached = true
			return res, nil
		}
	}

	opts.emit(Event{File: path, Stage: StageParse, Status: StatusWorking})
	parsed, err := parse(res, file)
	if err != nil {
		return res, err
	}
	logger.Debug("parsed", "statements", len(parsed.Program.Stmts))

	opts.emit(Event{File: path, Stage: StageLower, Status: StatusWorking})
	var circuit *lower.Circuit
	err = res.Timer.Track("lower", func() error {
		c, err := lower.New(parsed.Builder, lower.Options{Layout: opts.Layout.Layout(), Logger: logger})
		if err != nil {
			return err
		}
		circuit = c
		return c.Run(ctx, parsed.Program)
	})
	if err != nil {
		if ctx.Err() == nil {
			diag.ReportError(diag.BagReporter{Bag: res.Bag}, err)
		}
		return res, fmt.Errorf("%s: %w", path, err)
	}
	res.Graph = circuit.Graph()

	if opts.Cache != nil {
		payload := &buildcache.Payload{
			Path:        path,
			ContentHash: project.Digest(file.Hash),
			LayoutHash:  opts.Layout.Digest(),
			Graph:       *res.Graph,
			Outputs:     res.Outputs,
		}
		if err := opts.Cache.Put(key, payload); err != nil {
			logger.Warn("cache write failed", "err", err)
		}
	}
	logger.Debug("compiled", "elements", len(res.Graph.Elements), "wires", len(res.Graph.Wires))
	return res, nil
}

func parse(res *Result, file *source.File) (*parser.Result, error) {
	var parsed *parser.Result
	err := res.Timer.Track("parse", func() error {
		p, err := parser.ParseFile(file, parser.Options{
			Reporter: diag.BagReporter{Bag: res.Bag},
			Hints:    hintsFor(file),
		})
		parsed = p
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", res.Path, err)
	}
	res.Outputs = outputsOf(parsed)
	return parsed, nil
}

func outputsOf(parsed *parser.Result) []buildcache.Output {
	ports := parsed.Resolver.TopOutputs()
	out := make([]buildcache.Output, 0, len(ports))
	for _, p := range ports {
		bits, _ := p.Width.Size()
		out = append(out, buildcache.Output{Name: p.Name, Bits: bits})
	}
	return out
}

// hintsFor sizes the AST arenas from the file length.
func hintsFor(file *source.File) ast.Hints {
	n, err := safecast.Conv[uint](len(file.Content))
	if err != nil {
		return ast.Hints{}
	}
	return ast.Hints{Stmts: n / 32, Exprs: n / 8}
}
