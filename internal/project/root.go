package project

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ManifestName is the project manifest file looked up by the CLI.
const ManifestName = "dhl.toml"

// FindManifest returns the nearest dhl.toml in startDir or one of its
// parents. ok is false when the walk reaches the file system root.
func FindManifest(startDir string) (path string, ok bool, err error) {
	dir, err := filepath.Abs(cmp.Or(startDir, "."))
	if err != nil {
		return "", false, fmt.Errorf("resolve %q: %w", startDir, err)
	}
	for prev := ""; dir != prev; prev, dir = dir, filepath.Dir(dir) {
		candidate := filepath.Join(dir, ManifestName)
		_, statErr := os.Stat(candidate)
		switch {
		case statErr == nil:
			return candidate, true, nil
		case !errors.Is(statErr, os.ErrNotExist):
			return "", false, fmt.Errorf("stat %q: %w", candidate, statErr)
		}
	}
	return "", false, nil
}

