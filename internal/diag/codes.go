package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexUnterminatedChar         Code = 1005

	// Парсерные
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynUnclosedDelimiter  Code = 2002
	SynExpectSemicolon    Code = 2003
	SynExpectIdentifier   Code = 2004
	SynExpectType         Code = 2005
	SynExpectExpression   Code = 2006
	SynExpectBlock        Code = 2007
	SynUnexpectedTopLevel Code = 2008
	SynExpectPattern      Code = 2009
	SynBadAttribute       Code = 2010
	SynMacroBody          Code = 2011

	// IO
	IOLoadFileError Code = 4001

	// Project / configuration
	ProjInfo          Code = 5000
	ProjUnknownLint   Code = 5001
	ProjInvalidConfig Code = 5002

	// Lints
	LintCollapsibleIf           Code = 9001
	LintNewWithoutDefault       Code = 9002
	LintNewWithoutDefaultDerive Code = 9003
	LintInternalError           Code = 9900
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string literal",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Malformed number literal",
	LexUnterminatedChar:         "Unterminated character literal",

	SynInfo:               "Syntax information",
	SynUnexpectedToken:    "Unexpected token",
	SynUnclosedDelimiter:  "Unclosed delimiter",
	SynExpectSemicolon:    "Expected semicolon",
	SynExpectIdentifier:   "Expected identifier",
	SynExpectType:         "Expected type",
	SynExpectExpression:   "Expected expression",
	SynExpectBlock:        "Expected block",
	SynUnexpectedTopLevel: "Unexpected top-level construct",
	SynExpectPattern:      "Expected pattern",
	SynBadAttribute:       "Malformed attribute",
	SynMacroBody:          "Malformed macro invocation",

	IOLoadFileError: "I/O load file error",

	ProjInfo:          "Project information",
	ProjUnknownLint:   "Unknown lint name",
	ProjInvalidConfig: "Invalid configuration",

	LintCollapsibleIf:           "collapsible_if",
	LintNewWithoutDefault:       "new_without_default",
	LintNewWithoutDefaultDerive: "new_without_default_derive",
	LintInternalError:           "internal lint error",
}

// ID returns the stable string form of the code, e.g. LEX1001 or HON9001.
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("HON%04d", ic)
	}
	return "E0000"
}

// IsLint reports whether the code belongs to a lint rule.
func (c Code) IsLint() bool {
	return c >= 9000 && c < 10000
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
