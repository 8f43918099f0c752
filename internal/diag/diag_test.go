package diag

import (
	"fmt"
	"testing"

	"dhlc/internal/source"
)

func TestCodeID(t *testing.T) {
	tests := map[Code]string{
		LexUnknownChar:         "LEX1001",
		SynUnexpectedToken:     "SYN2001",
		SemDuplicateDefinition: "SEM3006",
		IOLoadFileError:        "IO4001",
		ProjManifestInvalid:    "PRJ5001",
		UnknownCode:            "E0000",
	}
	for code, want := range tests {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", code, got, want)
		}
	}
	if Code(3999).Title() != "Unknown error" {
		t.Fatalf("unregistered code should fall back to the unknown title")
	}
}

func TestErrorWrapping(t *testing.T) {
	base := Errorf(SemUnresolvedReference, source.Span{Start: 3, End: 4}, "x", "variable %q is not declared", "x")
	wrapped := fmt.Errorf("lower main: %w", base)

	if !IsCode(wrapped, SemUnresolvedReference) {
		t.Fatalf("IsCode should see through wrapping")
	}
	if IsCode(wrapped, SemTypeMismatch) {
		t.Fatalf("IsCode matched the wrong code")
	}
	de, ok := AsError(wrapped)
	if !ok || de.Name != "x" {
		t.Fatalf("AsError = %+v, %v", de, ok)
	}
	if got := base.Error(); got != `SEM3001: variable "x" is not declared (x)` {
		t.Fatalf("Error() = %q", got)
	}
}

func TestBagReporterAndSort(t *testing.T) {
	bag := NewBag(2)
	r := BagReporter{Bag: bag}
	ReportError(r, Errorf(SemTypeMismatch, source.Span{Start: 9}, "", "late"))
	ReportError(r, Errorf(SemMalformedRange, source.Span{Start: 1}, "", "early"))
	ReportError(r, Errorf(SemMalformedRange, source.Span{Start: 0}, "", "dropped"))

	if bag.Len() != 2 {
		t.Fatalf("bag should respect its limit, len=%d", bag.Len())
	}
	bag.Sort()
	if bag.Items()[0].Message != "early" {
		t.Fatalf("sort order wrong: %+v", bag.Items())
	}
	if !bag.HasErrors() {
		t.Fatalf("HasErrors = false")
	}
}
