package diag

import "dhlc/internal/source"

// Reporter is the minimal sink for diagnostics.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string, notes []Note)
}

// ReportError stores err in r. Errors that are not *Error get UnknownCode.
func ReportError(r Reporter, err error) {
	if r == nil || err == nil {
		return
	}
	if de, ok := AsError(err); ok {
		r.Report(de.Code, SevError, de.Span, de.Message, nil)
		return
	}
	r.Report(UnknownCode, SevError, source.Span{}, err.Error(), nil)
}

// BagReporter writes into a *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(Diagnostic{
		Severity: sev, Code: code, Message: msg,
		Primary: primary, Notes: notes,
	})
}
