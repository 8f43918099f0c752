package source

import (
	"bytes"
	"path/filepath"
	"slices"
)

var (
	utf8BOM = []byte{0xEF, 0xBB, 0xBF}
	crlf    = []byte("\r\n")
)

// normalize strips a leading BOM and folds CRLF pairs into LF. Lone CR
// bytes are kept.
func normalize(content []byte) ([]byte, FileFlags) {
	var flags FileFlags
	if rest, ok := bytes.CutPrefix(content, utf8BOM); ok {
		content = rest
		flags |= FileHadBOM
	}
	if bytes.Contains(content, crlf) {
		content = bytes.ReplaceAll(content, crlf, []byte{'\n'})
		flags |= FileNormalizedCRLF
	}
	return content, flags
}

// lineStarts records the offset of every '\n'.
func lineStarts(content []byte) []uint32 {
	idx := make([]uint32, 0, bytes.Count(content, []byte{'\n'}))
	for off := 0; ; {
		n := bytes.IndexByte(content[off:], '\n')
		if n < 0 {
			return idx
		}
		off += n
		idx = append(idx, uint32(off)) // #nosec G115 -- FileSet.Add bounds len(content)
		off++
	}
}

// toLineCol finds the line holding off by binary search over the newline
// offsets. Both results are 1-based.
func toLineCol(newlines []uint32, off uint32) LineCol {
	n, _ := slices.BinarySearch(newlines, off)
	lineStart := uint32(0)
	if n > 0 {
		lineStart = newlines[n-1] + 1
	}
	return LineCol{Line: uint32(n) + 1, Col: off - lineStart + 1} // #nosec G115 -- n <= len(newlines)
}

func cleanPath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
