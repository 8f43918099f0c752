package ast

import (
	"dhlc/internal/source"
)

type Hints struct{ Stmts, Exprs uint }

type Builder struct {
	Stmts *Stmts
	Exprs *Exprs
}

func NewBuilder(hints Hints) *Builder {
	return &Builder{
		Stmts: NewStmts(hints.Stmts),
		Exprs: NewExprs(hints.Exprs),
	}
}

// Program is the ordered list of top-level statements of one file.
type Program struct {
	File  source.FileID
	Stmts []StmtID
}
