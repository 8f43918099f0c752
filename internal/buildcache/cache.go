// Package buildcache stores lowered graphs on disk, keyed by source content
// and layout, so unchanged files skip parsing and lowering.
package buildcache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"dhlc/internal/netlist"
	"dhlc/internal/project"
	"dhlc/internal/version"
)

// Current schema version - increment when Payload format or lowering
// semantics change
const schemaVersion uint16 = 2

// DiskCache keeps payloads under one directory. Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// Payload is one cached compilation result.
type Payload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16 `msgpack:"schema"`

	Path        string         `msgpack:"path"`
	ContentHash project.Digest `msgpack:"content"`
	LayoutHash  project.Digest `msgpack:"layout"`
	Graph       netlist.Graph  `msgpack:"graph"`
	// Outputs lists the top-level output names and widths, in order.
	Outputs []Output `msgpack:"outputs"`
}

type Output struct {
	Name string `msgpack:"name"`
	Bits uint32 `msgpack:"bits"`
}

// Key is the cache key of a source file compiled with a given layout by this
// build of dhlc.
func Key(content project.Digest, layout project.LayoutConfig) project.Digest {
	return project.Combine(content, layout.Digest(), compilerDigest())
}

// compilerDigest identifies the compiler that produced a payload, so graphs
// lowered by another release or commit are never served.
func compilerDigest() project.Digest {
	id := fmt.Sprintf("dhlc %s %s schema=%d", version.Version(), version.GitCommit, schemaVersion)
	return sha256.Sum256([]byte(id))
}

// Open initializes a disk cache at the standard user cache location.
func Open(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDir(filepath.Join(base, app))
}

// OpenDir initializes a disk cache rooted at dir.
func OpenDir(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key project.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "graphs", hexKey+".mp")
}

// Put serializes payload and atomically replaces the entry for key.
func (c *DiskCache) Put(key project.Digest, payload *Payload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	payload.Schema = schemaVersion
	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	renamed := false
	defer func() {
		if !renamed {
			_ = os.Remove(f.Name())
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Rename(f.Name(), p); err != nil {
		return err
	}
	renamed = true
	return nil
}

// Get reads the entry for key. Entries written with another schema are
// reported as misses.
func (c *DiskCache) Get(key project.Digest, out *Payload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	if out.Schema != schemaVersion {
		*out = Payload{}
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o750)
}
