package version

import (
	"strings"

	"github.com/fatih/color"
)

// Build metadata of the dhlc binary; overridable via -ldflags.
var (
	Major = "0"
	Minor = "1"
	Patch = "0"
	Pre   = "dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)
)

// Version is the plain semantic version.
func Version() string {
	v := Major + "." + Minor + "." + Patch
	if Pre != "" {
		v += "-" + Pre
	}
	return v
}

// Colored renders the version with one colour per component. Colours follow
// color.NoColor.
func Colored() string {
	v := versionMajorColor.Sprint(Major) + "." + versionMinorColor.Sprint(Minor) + "." + versionPatchColor.Sprint(Patch)
	if Pre != "" {
		v += "-" + Pre
	}
	return v
}

// Info is the multi-line report printed by `dhlc version`.
func Info(colored bool) string {
	var b strings.Builder
	b.WriteString("dhlc ")
	if colored {
		b.WriteString(Colored())
	} else {
		b.WriteString(Version())
	}
	b.WriteByte('\n')
	if GitCommit != "" {
		b.WriteString("commit: " + GitCommit + "\n")
	}
	if BuildDate != "" {
		b.WriteString("built:  " + BuildDate + "\n")
	}
	return b.String()
}
