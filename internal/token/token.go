// Package token defines the token types produced by the lexer.
package token

import (
	"fmt"

	"bella-lang/internal/span"
)

// Kind represents the type of a token.
type Kind int

const (
	// Special tokens
	ILLEGAL Kind = iota
	EOF
	NEWLINE

	// Literals
	IDENT   // identifiers: x, hypot, π
	NUMERAL // numeric literals: 123, 3.14, 2e10

	// Operators
	ASSIGN   // =
	PLUS     // +
	MINUS    // -
	STAR     // *
	SLASH    // /
	PERCENT  // %
	STARSTAR // **
	BANG     // !

	EQ  // ==
	NEQ // !=
	LT  // <
	LTE // <=
	GT  // >
	GTE // >=

	AND // &&
	OR  // ||

	QUESTION // ?

	// Delimiters
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LBRACKET  // [
	RBRACKET  // ]
	COMMA     // ,
	SEMICOLON // ;
	COLON     // :

	// Keywords
	KW_LET
	KW_PRINT
	KW_WHILE
	KW_FUNCTION
	KW_TRUE
	KW_FALSE
)

var kindNames = map[Kind]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",
	NEWLINE: "NEWLINE",

	IDENT:   "IDENT",
	NUMERAL: "NUMERAL",

	ASSIGN:   "=",
	PLUS:     "+",
	MINUS:    "-",
	STAR:     "*",
	SLASH:    "/",
	PERCENT:  "%",
	STARSTAR: "**",
	BANG:     "!",
	EQ:       "==",
	NEQ:      "!=",
	LT:       "<",
	LTE:      "<=",
	GT:       ">",
	GTE:      ">=",
	AND:      "&&",
	OR:       "||",
	QUESTION: "?",

	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	LBRACKET:  "[",
	RBRACKET:  "]",
	COMMA:     ",",
	SEMICOLON: ";",
	COLON:     ":",

	KW_LET:      "let",
	KW_PRINT:    "print",
	KW_WHILE:    "while",
	KW_FUNCTION: "function",
	KW_TRUE:     "true",
	KW_FALSE:    "false",
}

// String returns the human-readable name for a token kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsKeyword returns true if the kind is a keyword.
func (k Kind) IsKeyword() bool {
	return k >= KW_LET && k <= KW_FALSE
}

var keywords = map[string]Kind{
	"let":      KW_LET,
	"print":    KW_PRINT,
	"while":    KW_WHILE,
	"function": KW_FUNCTION,
	"true":     KW_TRUE,
	"false":    KW_FALSE,
}

// LookupIdent returns the keyword Kind for ident, or IDENT if it is not a keyword.
func LookupIdent(ident string) Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return IDENT
}

// Token represents a lexical token with its kind, text, and source location.
type Token struct {
	Kind   Kind      `json:"kind"`
	Lexeme string    `json:"lexeme"`
	Span   span.Span `json:"span"`
}

// String returns a human-readable representation of the token.
func (t Token) String() string {
	return fmt.Sprintf("%s %q %s", t.Kind, t.Lexeme, t.Span.Start)
}
