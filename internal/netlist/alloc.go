package netlist

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// Layout parameterises the allocator. All distances are in pixels.
type Layout struct {
	StepX  int64
	StepY  int64
	Grid   int64
	Jitter int64
	WrapX  int64
	Seed   uint64
}

// DefaultLayout mirrors the spacing Digital users expect from generated circuits.
func DefaultLayout() Layout {
	return Layout{
		StepX:  500,
		StepY:  300,
		Grid:   Grid,
		Jitter: 5,
		WrapX:  5000,
		Seed:   1,
	}
}

var errLayout = errors.New("invalid layout")

// Validate checks that every allocation strictly advances y.
func (l Layout) Validate() error {
	switch {
	case l.Grid <= 0:
		return fmt.Errorf("%w: grid must be positive, got %d", errLayout, l.Grid)
	case l.StepX <= 0:
		return fmt.Errorf("%w: step_x must be positive, got %d", errLayout, l.StepX)
	case l.Jitter < 0:
		return fmt.Errorf("%w: jitter must not be negative, got %d", errLayout, l.Jitter)
	case l.StepY <= l.Grid*l.Jitter:
		return fmt.Errorf("%w: step_y (%d) must exceed grid*jitter (%d)", errLayout, l.StepY, l.Grid*l.Jitter)
	case l.WrapX <= 0:
		return fmt.Errorf("%w: wrap_x must be positive, got %d", errLayout, l.WrapX)
	}
	return nil
}

// Allocator hands out anchors. It is owned by one build context and is not
// safe for concurrent use.
type Allocator struct {
	layout Layout
	rng    *rand.Rand
	cur    Coordinate
	row    int64
	count  int
}

func NewAllocator(layout Layout) (*Allocator, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	return &Allocator{
		layout: layout,
		rng:    rand.New(rand.NewPCG(layout.Seed, layout.Seed^0x9e3779b97f4a7c15)),
	}, nil
}

// Next returns the current cursor and advances it.
func (a *Allocator) Next() Coordinate {
	ret := a.cur
	a.count++

	a.cur.X += a.layout.StepX + a.jitter()
	a.cur.Y += a.layout.StepY + a.jitter()

	if a.cur.X > a.layout.WrapX {
		a.cur.X = (a.row * a.layout.Grid) % a.layout.StepX
		a.row++
	}
	return ret
}

// NextBlock is Next for an element spanning lanes rows of the grid. The
// following anchor is pushed down so the block's lanes stay clear of it.
func (a *Allocator) NextBlock(lanes int) Coordinate {
	ret := a.Next()
	if extra := int64(lanes) * a.layout.Grid; lanes > 1 {
		a.cur.Y += extra
	}
	return ret
}

// Count is the number of anchors handed out so far.
func (a *Allocator) Count() int { return a.count }

func (a *Allocator) Layout() Layout { return a.layout }

func (a *Allocator) jitter() int64 {
	j := a.layout.Jitter
	if j == 0 {
		return 0
	}
	return a.layout.Grid * (a.rng.Int64N(2*j+1) - j)
}
