package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadNumber          Code = 1003
	LexBadEscape          Code = 1004

	// Syntax
	SynUnexpectedToken   Code = 2001
	SynExpectIdent       Code = 2002
	SynExpectExpression  Code = 2003
	SynUnclosedParen     Code = 2004
	SynUnclosedBrace     Code = 2005
	SynUnclosedBracket   Code = 2006
	SynEmptyCombine      Code = 2007
	SynMixedCombineKeys  Code = 2008
	SynBadDecorator      Code = 2009
	SynBadAttributeValue Code = 2010
	SynMissingValue      Code = 2011
	SynUnexpectedValue   Code = 2012

	// Width resolution and lowering
	SemUnresolvedReference  Code = 3001
	SemTypeMismatch         Code = 3002
	SemSignatureMismatch    Code = 3003
	SemMalformedRange       Code = 3004
	SemSignatureNotDeclared Code = 3005
	SemDuplicateDefinition  Code = 3006
	SemUnsupportedOperator  Code = 3007

	// I/O
	IOLoadFileError  Code = 4001
	IOWriteFileError Code = 4002

	// Project manifest
	ProjManifestInvalid  Code = 5001
	ProjManifestNotFound Code = 5002
)

var codeDescription = map[Code]string{
	UnknownCode:             "Unknown error",
	LexUnknownChar:          "Unknown character",
	LexUnterminatedString:   "Unterminated string",
	LexBadNumber:            "Bad number",
	LexBadEscape:            "Bad escape sequence",
	SynUnexpectedToken:      "Unexpected token",
	SynExpectIdent:          "Expected identifier",
	SynExpectExpression:     "Expected expression",
	SynUnclosedParen:        "Unclosed parenthesis",
	SynUnclosedBrace:        "Unclosed brace",
	SynUnclosedBracket:      "Unclosed square bracket",
	SynEmptyCombine:         "Empty combine expression",
	SynMixedCombineKeys:     "Mixed index and name keys in combine",
	SynBadDecorator:         "Bad decorator",
	SynBadAttributeValue:    "Bad attribute value",
	SynMissingValue:         "Missing value",
	SynUnexpectedValue:      "Unexpected value",
	SemUnresolvedReference:  "Unresolved reference",
	SemTypeMismatch:         "Type mismatch",
	SemSignatureMismatch:    "Arity or signature mismatch",
	SemMalformedRange:       "Malformed range",
	SemSignatureNotDeclared: "Signature not yet declared",
	SemDuplicateDefinition:  "Duplicate definition",
	SemUnsupportedOperator:  "Unsupported operator",
	IOLoadFileError:         "Failed to load file",
	IOWriteFileError:        "Failed to write file",
	ProjManifestInvalid:     "Invalid project manifest",
	ProjManifestNotFound:    "Project manifest not found",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
