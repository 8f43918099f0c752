package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestVersionDefault(t *testing.T) {
	if got := Version(); got != "0.1.0-dev" {
		t.Fatalf("Version() = %q", got)
	}
}

func TestVersionWithoutPrerelease(t *testing.T) {
	orig := Pre
	t.Cleanup(func() { Pre = orig })
	Pre = ""
	if got := Version(); got != "0.1.0" {
		t.Fatalf("Version() = %q", got)
	}
}

func TestColoredMatchesPlainWithoutColor(t *testing.T) {
	orig := color.NoColor
	t.Cleanup(func() { color.NoColor = orig })
	color.NoColor = true
	if Colored() != Version() {
		t.Fatalf("Colored() = %q, Version() = %q", Colored(), Version())
	}
}

func TestInfoOptionalFields(t *testing.T) {
	origCommit, origDate := GitCommit, BuildDate
	t.Cleanup(func() { GitCommit, BuildDate = origCommit, origDate })

	GitCommit, BuildDate = "", ""
	if got := Info(false); got != "dhlc "+Version()+"\n" {
		t.Fatalf("Info() = %q", got)
	}

	GitCommit, BuildDate = "abc123def456", "2024-01-15T10:30:00Z"
	got := Info(false)
	for _, want := range []string{"commit: abc123def456", "built:  2024-01-15T10:30:00Z"} {
		if !strings.Contains(got, want) {
			t.Errorf("Info() missing %q:\n%s", want, got)
		}
	}
}
