package types

import "testing"

func TestIntegerWidth(t *testing.T) {
	tests := map[uint64]uint32{
		0:   1,
		1:   1,
		2:   2,
		3:   2,
		7:   3,
		8:   4,
		255: 8,
		256: 9,
	}
	for v, want := range tests {
		if got := IntegerWidth(v); got != want {
			t.Errorf("IntegerWidth(%d) = %d, want %d", v, got, want)
		}
	}
}

func TestSize(t *testing.T) {
	if n, ok := Fixed(4).Size(); !ok || n != 4 {
		t.Fatalf("Fixed(4).Size() = %d, %v", n, ok)
	}
	single := Object(map[string]BitWidth{"s": Fixed(3)})
	if n, ok := single.Size(); !ok || n != 3 {
		t.Fatalf("single-key object size = %d, %v", n, ok)
	}
	nested := Object(map[string]BitWidth{"o": single})
	if n, ok := nested.Size(); !ok || n != 3 {
		t.Fatalf("nested single-key object size = %d, %v", n, ok)
	}
	pair := Object(map[string]BitWidth{"s": Fixed(1), "c": Fixed(1)})
	if _, ok := pair.Size(); ok {
		t.Fatalf("two-key object must not have a size")
	}
	if _, ok := Object(nil).Size(); ok {
		t.Fatalf("empty object must not have a size")
	}
}

func TestMax(t *testing.T) {
	w, ok := Max(Fixed(2), Fixed(5))
	if !ok || !w.Equal(Fixed(5)) {
		t.Fatalf("Max = %v, %v", w, ok)
	}
	pair := Object(map[string]BitWidth{"a": Fixed(1), "b": Fixed(1)})
	if _, ok := Max(pair, Fixed(1)); ok {
		t.Fatalf("Max over multi-key object should fail")
	}
}

func TestEqualAndString(t *testing.T) {
	a := Object(map[string]BitWidth{"s": Fixed(1), "c": Object(map[string]BitWidth{"x": Fixed(2)})})
	b := Object(map[string]BitWidth{"c": Object(map[string]BitWidth{"x": Fixed(2)}), "s": Fixed(1)})
	if !a.Equal(b) {
		t.Fatalf("structurally equal objects compare unequal")
	}
	if a.Equal(Fixed(1)) {
		t.Fatalf("object equal to fixed")
	}
	if got := a.String(); got != "{c: {x: 2}, s: 1}" {
		t.Fatalf("String() = %q", got)
	}
	if _, ok := Fixed(1).Field("s"); ok {
		t.Fatalf("Field on fixed width should fail")
	}
}
