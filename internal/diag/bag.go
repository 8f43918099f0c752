package diag

import (
	"cmp"
	"slices"
)

// Bag collects the diagnostics of one compilation up to a fixed limit.
type Bag struct {
	items []Diagnostic
	limit int
}

// NewBag creates a bag keeping at most limit diagnostics; limit <= 0 means 100.
func NewBag(limit int) *Bag {
	if limit <= 0 {
		limit = 100
	}
	return &Bag{items: make([]Diagnostic, 0, min(limit, 4)), limit: limit}
}

// Add appends d unless the bag is full; it reports whether d was kept.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= b.limit {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// HasErrors reports whether any diagnostic has error severity.
func (b *Bag) HasErrors() bool {
	return slices.ContainsFunc(b.items, func(d Diagnostic) bool { return d.Severity >= SevError })
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns the backing slice; callers must not modify it.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Sort orders diagnostics by position (file, start, end), then by severity
// with errors first, then by code.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}
