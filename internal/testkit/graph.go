package testkit

import (
	"context"
	"testing"

	"dhlc/internal/lower"
	"dhlc/internal/netlist"
	"dhlc/internal/parser"
	"dhlc/internal/source"
)

// Parse parses src as a virtual file and fails the test on error.
func Parse(t testing.TB, src string) (*parser.Result, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.dhl", []byte(src)))
	res, err := parser.ParseFile(file, parser.Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return res, file
}

// Lower parses and lowers src with the default layout.
func Lower(t testing.TB, src string) *lower.Circuit {
	t.Helper()
	c, err := TryLower(t, src)
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	return c
}

// TryLower is Lower that hands the lowering error back to the caller.
func TryLower(t testing.TB, src string) (*lower.Circuit, error) {
	t.Helper()
	res, _ := Parse(t, src)
	c, err := lower.New(res.Builder, lower.Options{Layout: netlist.DefaultLayout()})
	if err != nil {
		t.Fatalf("lower.New: %v", err)
	}
	return c, c.Run(context.Background(), res.Program)
}

// Counts is the per-kind element tally of g with wires under "wires".
func Counts(g *netlist.Graph) map[string]int {
	counts := g.CountByKind()
	counts["wires"] = len(g.Wires)
	return counts
}

// ExpectCounts fails when any listed kind has a different count. Unlisted
// kinds are not checked.
func ExpectCounts(t testing.TB, g *netlist.Graph, want map[string]int) {
	t.Helper()
	got := Counts(g)
	for kind, n := range want {
		if got[kind] != n {
			t.Errorf("%s count = %d, want %d (all: %v)", kind, got[kind], n, got)
		}
	}
}
