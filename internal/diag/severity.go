package diag

// Severity ranks a diagnostic. Higher values are more severe.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	// SevError aborts the compilation of its file.
	SevError
)

var severityNames = [...]string{
	SevInfo:    "INFO",
	SevWarning: "WARNING",
	SevError:   "ERROR",
}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "UNKNOWN"
}
