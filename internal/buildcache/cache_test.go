package buildcache

import (
	"os"
	"reflect"
	"testing"

	"dhlc/internal/netlist"
	"dhlc/internal/project"
	"dhlc/internal/version"
)

func sampleGraph() netlist.Graph {
	var g netlist.Graph
	in := netlist.Coordinate{}
	gate := netlist.Coordinate{X: 500, Y: 300}
	g.Add(netlist.NewIn(in, "a", 1))
	g.Add(netlist.NewGate(netlist.KindNAnd, gate))
	g.Add(netlist.NewTemplate("Counter", netlist.Coordinate{X: 1000, Y: 600}, []netlist.Attribute{
		{Key: "Color", Value: netlist.Color(netlist.RGBA{R: 1, G: 2, B: 3, A: 4})},
		{Key: "rotation", Value: netlist.Dir(netlist.DirDown)},
		{Key: "Data", Value: netlist.Data("1,2")},
	}, []netlist.Coordinate{{}, {X: 60}}))
	g.Connect(in, gate)
	g.Connect(in, gate.Add(0, 40))
	return g
}

func TestRoundTrip(t *testing.T) {
	c, err := OpenDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := Key(project.Digest{1}, project.DefaultLayoutConfig())
	in := &Payload{
		Path:    "adder.dhl",
		Graph:   sampleGraph(),
		Outputs: []Output{{Name: "s", Bits: 4}},
	}
	if err := c.Put(key, in); err != nil {
		t.Fatal(err)
	}

	var out Payload
	ok, err := c.Get(key, &out)
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	if !reflect.DeepEqual(out.Graph, in.Graph) {
		t.Fatalf("graph changed in the cache:\n got %+v\nwant %+v", out.Graph, in.Graph)
	}
	if out.Path != in.Path || !reflect.DeepEqual(out.Outputs, in.Outputs) {
		t.Fatalf("payload = %+v", out)
	}
}

func TestMissAndSchema(t *testing.T) {
	dir := t.TempDir()
	c, err := OpenDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var out Payload
	if ok, err := c.Get(project.Digest{9}, &out); ok || err != nil {
		t.Fatalf("empty cache Get = %v, %v", ok, err)
	}

	key := project.Digest{2}
	if err := c.Put(key, &Payload{Path: "x"}); err != nil {
		t.Fatal(err)
	}
	// Rewrite the entry with a foreign schema.
	stale, err := os.Create(c.pathFor(key))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := stale.Write([]byte{0x81, 0xa6, 's', 'c', 'h', 'e', 'm', 'a', 0x63}); err != nil {
		t.Fatal(err)
	}
	stale.Close()
	if ok, err := c.Get(key, &out); ok || err != nil {
		t.Fatalf("stale schema Get = %v, %v", ok, err)
	}
}

func TestKeyDependsOnLayout(t *testing.T) {
	a := project.DefaultLayoutConfig()
	b := a
	b.StepX += 20
	if Key(project.Digest{}, a) == Key(project.Digest{}, b) {
		t.Fatal("layout change kept the same key")
	}
}

func TestKeyDependsOnCompilerVersion(t *testing.T) {
	layout := project.DefaultLayoutConfig()
	before := Key(project.Digest{7}, layout)

	saved := version.Patch
	t.Cleanup(func() { version.Patch = saved })
	version.Patch += "1"
	if Key(project.Digest{7}, layout) == before {
		t.Fatal("compiler version change kept the same key")
	}
}

func TestDropAll(t *testing.T) {
	c, err := OpenDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := project.Digest{3}
	if err := c.Put(key, &Payload{}); err != nil {
		t.Fatal(err)
	}
	if err := c.DropAll(); err != nil {
		t.Fatal(err)
	}
	var out Payload
	if ok, _ := c.Get(key, &out); ok {
		t.Fatal("entry survived DropAll")
	}
	if err := c.Put(key, &Payload{}); err != nil {
		t.Fatalf("Put after DropAll: %v", err)
	}
}

func TestNilCache(t *testing.T) {
	var c *DiskCache
	if err := c.Put(project.Digest{}, &Payload{}); err != nil {
		t.Fatal(err)
	}
	if ok, err := c.Get(project.Digest{}, &Payload{}); ok || err != nil {
		t.Fatalf("nil Get = %v, %v", ok, err)
	}
}
