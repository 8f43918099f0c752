package lexer

import (
	"fmt"

	"dhlc/internal/source"

	"fortio.org/safecast"
)

// Cursor walks the bytes of one file. Off never exceeds the content length.
type Cursor struct {
	File *source.File
	Off  uint32
	end  uint32
}

// NewCursor positions a cursor at the start of f.
func NewCursor(f *source.File) Cursor {
	end, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("%s: file too large: %w", f.Path, err))
	}
	return Cursor{File: f, end: end}
}

func (c *Cursor) EOF() bool { return c.Off >= c.end }

func (c *Cursor) at(off uint32) byte {
	if off >= c.end {
		return 0
	}
	return c.File.Content[off]
}

// Peek returns the byte under the cursor, 0 at EOF.
func (c *Cursor) Peek() byte { return c.at(c.Off) }

// Peek2 returns the byte under the cursor and its successor; ok is false
// when fewer than two bytes remain.
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if c.EOF() || c.end-c.Off < 2 {
		return 0, 0, false
	}
	return c.at(c.Off), c.at(c.Off + 1), true
}

// Bump consumes one byte.
func (c *Cursor) Bump() byte {
	b := c.at(c.Off)
	if !c.EOF() {
		c.Off++
	}
	return b
}

// Eat consumes b if it is next.
func (c *Cursor) Eat(b byte) bool {
	if c.EOF() || c.at(c.Off) != b {
		return false
	}
	c.Off++
	return true
}

// Mark remembers an offset for SpanFrom.
type Mark uint32

func (c *Cursor) Mark() Mark { return Mark(c.Off) }

func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.File.ID, Start: uint32(m), End: c.Off}
}
