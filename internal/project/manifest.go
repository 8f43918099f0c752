package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"dhlc/internal/netlist"
)

// Output formats accepted by [build].format and --format.
const (
	FormatDig = "dig"
	FormatDOT = "dot"
	FormatSVG = "svg"
)

var (
	// ErrPackageSectionMissing indicates that [package] is missing in dhl.toml.
	ErrPackageSectionMissing = errors.New("missing [package]")
	// ErrPackageNameMissing indicates that [package].name is missing or blank.
	ErrPackageNameMissing = errors.New("missing [package].name")
	// ErrBuildMainMissing indicates that [build].main is missing or blank.
	ErrBuildMainMissing = errors.New("missing [build].main")
	ErrUnknownFormat    = errors.New("unknown output format")
)

// Manifest is a loaded dhl.toml with the directory it governs.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

type Config struct {
	Package PackageConfig `toml:"package"`
	Build   BuildConfig   `toml:"build"`
	Layout  LayoutConfig  `toml:"layout"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

type BuildConfig struct {
	Main   string `toml:"main"`
	Output string `toml:"output"`
	Format string `toml:"format"`
}

// LayoutConfig mirrors netlist.Layout with TOML keys.
type LayoutConfig struct {
	StepX  int64  `toml:"step_x"`
	StepY  int64  `toml:"step_y"`
	Grid   int64  `toml:"grid"`
	Jitter int64  `toml:"jitter"`
	WrapX  int64  `toml:"wrap_x"`
	Seed   uint64 `toml:"seed"`
}

func DefaultLayoutConfig() LayoutConfig {
	l := netlist.DefaultLayout()
	return LayoutConfig{StepX: l.StepX, StepY: l.StepY, Grid: l.Grid, Jitter: l.Jitter, WrapX: l.WrapX, Seed: l.Seed}
}

func (l LayoutConfig) Layout() netlist.Layout {
	return netlist.Layout{StepX: l.StepX, StepY: l.StepY, Grid: l.Grid, Jitter: l.Jitter, WrapX: l.WrapX, Seed: l.Seed}
}

// ValidFormat reports whether f names a supported output format.
func ValidFormat(f string) bool {
	switch f {
	case FormatDig, FormatDOT, FormatSVG:
		return true
	}
	return false
}

// LoadManifest finds dhl.toml above startDir and loads it.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

// LoadConfig decodes and validates one dhl.toml. Layout keys that are not
// set keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := Config{Layout: DefaultLayoutConfig()}
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	if !meta.IsDefined("package") {
		return Config{}, fmt.Errorf("%s: %w", path, ErrPackageSectionMissing)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, fmt.Errorf("%s: %w", path, ErrPackageNameMissing)
	}
	if !meta.IsDefined("build", "main") || strings.TrimSpace(cfg.Build.Main) == "" {
		return Config{}, fmt.Errorf("%s: %w", path, ErrBuildMainMissing)
	}
	if !meta.IsDefined("build", "format") {
		cfg.Build.Format = FormatDig
	}
	if !ValidFormat(cfg.Build.Format) {
		return Config{}, fmt.Errorf("%s: %w %q in [build].format", path, ErrUnknownFormat, cfg.Build.Format)
	}
	if err := cfg.Layout.Layout().Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: [layout]: %w", path, err)
	}
	return cfg, nil
}

// MainPath resolves [build].main against the project root.
func (m *Manifest) MainPath() (string, error) {
	if m == nil {
		return "", fmt.Errorf("missing project manifest")
	}
	mainRel := strings.TrimSpace(m.Config.Build.Main)
	mainPath := filepath.Join(m.Root, filepath.FromSlash(mainRel))
	info, err := os.Stat(mainPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%s: [build].main path does not exist: %s", m.Path, mainPath)
		}
		return "", fmt.Errorf("%s: failed to stat [build].main: %w", m.Path, err)
	}
	if info.IsDir() || filepath.Ext(mainPath) != ".dhl" {
		return "", fmt.Errorf("%s: [build].main must be a .dhl file", m.Path)
	}
	return mainPath, nil
}

// OutputPath is [build].output resolved against the root, or the main file
// with its extension replaced by the format.
func (m *Manifest) OutputPath(mainPath string) string {
	if out := strings.TrimSpace(m.Config.Build.Output); out != "" {
		return filepath.Join(m.Root, filepath.FromSlash(out))
	}
	return strings.TrimSuffix(mainPath, filepath.Ext(mainPath)) + "." + m.Config.Build.Format
}
