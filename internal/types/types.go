// Package types describes the structural bit widths the resolver assigns to
// every expression.
package types

import (
	"fmt"
	"math/bits"
	"slices"
	"strings"

	"fortio.org/safecast"
)

// Kind enumerates the shapes of a BitWidth.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindFixed
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindFixed:
		return "fixed"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// BitWidth is either a plain bus of Bits lanes or a record of named widths.
// The zero value is invalid.
type BitWidth struct {
	Kind   Kind
	Bits   uint32
	Fields map[string]BitWidth
}

func Fixed(n uint32) BitWidth {
	return BitWidth{Kind: KindFixed, Bits: n}
}

// Object builds a record width. The map is owned by the result.
func Object(fields map[string]BitWidth) BitWidth {
	if fields == nil {
		fields = map[string]BitWidth{}
	}
	return BitWidth{Kind: KindObject, Fields: fields}
}

func (w BitWidth) IsFixed() bool  { return w.Kind == KindFixed }
func (w BitWidth) IsObject() bool { return w.Kind == KindObject }

// Size returns the number of lanes. Records are only sized when they hold exactly
// one field, in which case that field's size is returned.
func (w BitWidth) Size() (uint32, bool) {
	switch w.Kind {
	case KindFixed:
		return w.Bits, true
	case KindObject:
		if len(w.Fields) != 1 {
			return 0, false
		}
		for _, f := range w.Fields {
			return f.Size()
		}
	}
	return 0, false
}

// Field returns the width bound to name in a record.
func (w BitWidth) Field(name string) (BitWidth, bool) {
	if w.Kind != KindObject {
		return BitWidth{}, false
	}
	f, ok := w.Fields[name]
	return f, ok
}

// Keys returns record field names in sorted order.
func (w BitWidth) Keys() []string {
	keys := make([]string, 0, len(w.Fields))
	for k := range w.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Equal reports structural equality.
func (w BitWidth) Equal(other BitWidth) bool {
	if w.Kind != other.Kind {
		return false
	}
	switch w.Kind {
	case KindFixed:
		return w.Bits == other.Bits
	case KindObject:
		if len(w.Fields) != len(other.Fields) {
			return false
		}
		for k, f := range w.Fields {
			o, ok := other.Fields[k]
			if !ok || !f.Equal(o) {
				return false
			}
		}
	}
	return true
}

func (w BitWidth) String() string {
	switch w.Kind {
	case KindFixed:
		return fmt.Sprintf("%d", w.Bits)
	case KindObject:
		var sb strings.Builder
		sb.WriteByte('{')
		for i, k := range w.Keys() {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(k)
			sb.WriteString(": ")
			sb.WriteString(w.Fields[k].String())
		}
		sb.WriteByte('}')
		return sb.String()
	default:
		return "invalid"
	}
}

// Max is the Fixed width of the wider operand.
func Max(a, b BitWidth) (BitWidth, bool) {
	sa, ok := a.Size()
	if !ok {
		return BitWidth{}, false
	}
	sb, ok := b.Size()
	if !ok {
		return BitWidth{}, false
	}
	return Fixed(max(sa, sb)), true
}

// IntegerWidth is the number of bits needed to represent v, at least 1.
func IntegerWidth(v uint64) uint32 {
	if v == 0 {
		return 1
	}
	n, err := safecast.Conv[uint32](bits.Len64(v))
	if err != nil {
		panic(err)
	}
	return n
}
