package token

import "fmt"

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	Ident
	IntLit
	StringLit

	KwTrue
	KwFalse

	At         // @
	LParen     // (
	RParen     // )
	LBrace     // {
	RBrace     // }
	LBracket   // [
	RBracket   // ]
	Colon      // :
	Comma      // ,
	Assign     // =
	Dot        // .
	DotDot     // ..
	Star       // *
	Minus      // -
	Amp        // &
	Pipe       // |
	Caret      // ^
	Bang       // !
	BangAmp    // !&
	BangPipe   // !|
	BangCaret  // !^
	Question   // ?
)

var kindNames = [...]string{
	Invalid:   "Invalid",
	EOF:       "EOF",
	Ident:     "Ident",
	IntLit:    "IntLit",
	StringLit: "StringLit",
	KwTrue:    "true",
	KwFalse:   "false",
	At:        "@",
	LParen:    "(",
	RParen:    ")",
	LBrace:    "{",
	RBrace:    "}",
	LBracket:  "[",
	RBracket:  "]",
	Colon:     ":",
	Comma:     ",",
	Assign:    "=",
	Dot:       ".",
	DotDot:    "..",
	Star:      "*",
	Minus:     "-",
	Amp:       "&",
	Pipe:      "|",
	Caret:     "^",
	Bang:      "!",
	BangAmp:   "!&",
	BangPipe:  "!|",
	BangCaret: "!^",
	Question:  "?",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsBinaryOp reports whether k may appear between two operands.
func (k Kind) IsBinaryOp() bool {
	switch k {
	case Amp, Pipe, Caret, BangAmp, BangPipe, BangCaret, Question:
		return true
	default:
		return false
	}
}
