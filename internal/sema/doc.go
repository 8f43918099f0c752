// Package sema resolves the bit width of every expression while the parser
// builds it. It owns the parse-time scope stack, the forward-declared wires
// awaiting completion, and the registry of module signatures.
//
// Resolution is fail-fast: the first problem is returned as a *diag.Error with
// one of the SEM3xxx codes.
package sema
