package source

import (
	"crypto/sha256"
	"fmt"
	"os"

	"fortio.org/safecast"
)

// FileSet owns every source file of one compiler invocation. IDs are
// indexes into files and stay valid for the lifetime of the set.
type FileSet struct {
	files  []File
	byPath map[string]FileID
}

func NewFileSet() *FileSet {
	return &FileSet{byPath: make(map[string]FileID)}
}

// Add registers content under path. Adding the same path twice keeps both
// versions; Lookup returns the newer one.
func (s *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		panic(fmt.Errorf("%s: %w", path, err))
	}
	next, err := safecast.Conv[uint32](len(s.files))
	if err != nil {
		panic(fmt.Errorf("too many files: %w", err))
	}
	id := FileID(next)
	key := cleanPath(path)
	s.files = append(s.files, File{
		ID:      id,
		Path:    key,
		Content: content,
		LineIdx: lineStarts(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	s.byPath[key] = id
	return id
}

// Load reads path from disk and normalises it before Add.
func (s *FileSet) Load(path string) (FileID, error) {
	raw, err := os.ReadFile(path) // #nosec G304 -- caller-supplied input file
	if err != nil {
		return 0, err
	}
	content, flags := normalize(raw)
	return s.Add(path, content, flags), nil
}

// AddVirtual registers an in-memory file.
func (s *FileSet) AddVirtual(name string, content []byte) FileID {
	return s.Add(name, content, FileVirtual)
}

// Get panics on ids not issued by this set.
func (s *FileSet) Get(id FileID) *File { return &s.files[id] }

func (s *FileSet) Lookup(path string) (FileID, bool) {
	id, ok := s.byPath[cleanPath(path)]
	return id, ok
}

func (s *FileSet) Len() int { return len(s.files) }

// Resolve maps both ends of span to line/column positions.
func (s *FileSet) Resolve(span Span) (start, end LineCol) {
	idx := s.files[span.File].LineIdx
	return toLineCol(idx, span.Start), toLineCol(idx, span.End)
}

// GetLine returns line n (1-based) without its newline, or "" when n is
// out of range.
func (f *File) GetLine(n uint32) string {
	if n == 0 || int(n) > len(f.LineIdx)+1 {
		return ""
	}
	from := 0
	if n > 1 {
		from = int(f.LineIdx[n-2]) + 1
	}
	to := len(f.Content)
	if int(n) <= len(f.LineIdx) {
		to = int(f.LineIdx[n-1])
	}
	if from > to {
		return ""
	}
	return string(f.Content[from:to])
}
