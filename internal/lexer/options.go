package lexer

import (
	"dhlc/internal/diag"
	"dhlc/internal/source"
)

type Options struct {
	// Reporter receives every lexical diagnostic; may be nil.
	Reporter diag.Reporter
}

func (lx *Lexer) report(code diag.Code, sp source.Span, format string, args ...any) {
	err := diag.Errorf(code, sp, "", format, args...)
	if lx.err == nil {
		lx.err = err
	}
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, sp, err.Message, nil)
	}
}
