package diagfmt

import (
	"os"
	"path/filepath"
	"strings"
)

const autoPathLimit = 40

func formatPath(path string, mode PathMode, baseDir string) string {
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return filepath.ToSlash(abs)
		}
		return path
	case PathModeRelative:
		base := baseDir
		if base == "" {
			wd, err := os.Getwd()
			if err != nil {
				return path
			}
			base = wd
		}
		if rel, err := filepath.Rel(base, path); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
		return path
	case PathModeBasename:
		return filepath.Base(path)
	default:
		if filepath.IsAbs(path) && len(path) > autoPathLimit {
			return filepath.Base(path)
		}
		return path
	}
}
