package driver

import (
	"context"
	"fmt"

	"dhlc/internal/ast"
	"dhlc/internal/diag"
	"dhlc/internal/observ"
	"dhlc/internal/source"
)

// CheckResult describes the top-level interface of a file that parsed and
// width-resolved cleanly.
type CheckResult struct {
	Path    string
	FileSet *source.FileSet
	Inputs  []ast.Port
	Outputs []ast.Port
	Bag     *diag.Bag
	Timer   *observ.Timer
}

// Check parses and width-resolves the file at path without lowering it.
func Check(ctx context.Context, path string, maxDiagnostics int) (*CheckResult, error) {
	res := &Result{
		Path:    path,
		FileSet: source.NewFileSet(),
		Bag:     diag.NewBag(maxDiagnostics),
		Timer:   observ.NewTimer(),
	}
	out := &CheckResult{Path: path, FileSet: res.FileSet, Bag: res.Bag, Timer: res.Timer}

	id, err := res.FileSet.Load(path)
	if err != nil {
		res.Bag.Add(diag.Diagnostic{Severity: diag.SevError, Code: diag.IOLoadFileError, Message: err.Error()})
		return out, fmt.Errorf("load %s: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return out, err
	}
	parsed, err := parse(res, res.FileSet.Get(id))
	if err != nil {
		return out, err
	}
	out.Inputs = parsed.Resolver.TopInputs()
	out.Outputs = parsed.Resolver.TopOutputs()
	Logger(ctx).Debug("checked", "file", path, "inputs", len(out.Inputs), "outputs", len(out.Outputs))
	return out, nil
}
