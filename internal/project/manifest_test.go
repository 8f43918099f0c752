package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
[package]
name = "adder"

[build]
main = "src/adder.dhl"

[layout]
seed = 7
jitter = 0
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Build.Format != FormatDig {
		t.Errorf("format = %q, want default dig", cfg.Build.Format)
	}
	want := DefaultLayoutConfig()
	want.Seed, want.Jitter = 7, 0
	if cfg.Layout != want {
		t.Errorf("layout = %+v, want %+v", cfg.Layout, want)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
		substr  string
	}{
		{"no package", "[build]\nmain = \"a.dhl\"\n", ErrPackageSectionMissing, ""},
		{"blank name", "[package]\nname = \" \"\n[build]\nmain = \"a.dhl\"\n", ErrPackageNameMissing, ""},
		{"no main", "[package]\nname = \"x\"\n", ErrBuildMainMissing, ""},
		{"bad format", "[package]\nname = \"x\"\n[build]\nmain = \"a.dhl\"\nformat = \"png\"\n", ErrUnknownFormat, ""},
		{"bad layout", "[package]\nname = \"x\"\n[build]\nmain = \"a.dhl\"\n[layout]\nstep_y = 10\n", nil, "step_y"},
		{"unknown key", "[package]\nname = \"x\"\nversion = 2\n[build]\nmain = \"a.dhl\"\n", nil, "unknown key"},
		{"bad toml", "[package\n", nil, "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tt.content)
			_, err := LoadConfig(path)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if tt.substr != "" && !strings.Contains(err.Error(), tt.substr) {
				t.Fatalf("err = %v, want it to mention %q", err, tt.substr)
			}
		})
	}
}

func TestLoadManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[package]\nname = \"x\"\n[build]\nmain = \"top.dhl\"\nformat = \"dot\"\n")
	if err := os.WriteFile(filepath.Join(root, "top.dhl"), []byte("@in a\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o750); err != nil {
		t.Fatal(err)
	}

	m, ok, err := LoadManifest(nested)
	if err != nil || !ok {
		t.Fatalf("LoadManifest = %v, %v", ok, err)
	}
	main, err := m.MainPath()
	if err != nil {
		t.Fatal(err)
	}
	if got := m.OutputPath(main); got != filepath.Join(root, "top.dot") {
		t.Fatalf("output = %s", got)
	}
}

func TestLoadManifestMissing(t *testing.T) {
	_, ok, err := LoadManifest(t.TempDir())
	if err != nil || ok {
		t.Fatalf("LoadManifest in empty dir = %v, %v", ok, err)
	}
}

func TestLayoutDigestChanges(t *testing.T) {
	a := DefaultLayoutConfig()
	b := a
	b.Seed++
	if a.Digest() == b.Digest() {
		t.Fatal("seed change did not change the layout digest")
	}
}
