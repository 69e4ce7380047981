package descent

import "fmt"

// TokenKind classifies a lexeme against the fixed vocabulary.
type TokenKind int

const (
	TokenOther     TokenKind = iota // any lexeme outside the vocabulary
	TokenProgram                    // program
	TokenBegin                      // begin
	TokenEnd                        // end
	TokenEndDot                     // end.
	TokenIf                         // if
	TokenThen                       // then
	TokenElse                       // else
	TokenWhile                      // while
	TokenDo                         // do
	TokenDot                        // .
	TokenSemicolon                  // ;
	TokenAssign                     // =
	TokenLessEqual                  // <=
	TokenPlus                       // +
	TokenStar                       // *
	TokenVariable                   // a | b | c
	TokenDigit                      // 0 | 1 | 2
)

var tokenNames = map[TokenKind]string{
	TokenOther:     "lexeme",
	TokenProgram:   "'program'",
	TokenBegin:     "'begin'",
	TokenEnd:       "'end'",
	TokenEndDot:    "'end.'",
	TokenIf:        "'if'",
	TokenThen:      "'then'",
	TokenElse:      "'else'",
	TokenWhile:     "'while'",
	TokenDo:        "'do'",
	TokenDot:       "'.'",
	TokenSemicolon: "';'",
	TokenAssign:    "'='",
	TokenLessEqual: "'<='",
	TokenPlus:      "'+'",
	TokenStar:      "'*'",
	TokenVariable:  "variable",
	TokenDigit:     "digit",
}

func (k TokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Position is a 1-based source location.
type Position struct {
	Line   int
	Column int
}

// Token is a single lexeme together with its classification.
type Token struct {
	Kind    TokenKind
	Literal string
	Pos     Position
}

func (t Token) String() string {
	if t.Kind == TokenOther {
		return fmt.Sprintf("%q", t.Literal)
	}
	return fmt.Sprintf("%s (%q)", t.Kind, t.Literal)
}

// vocabulary maps every recognised lexeme to its kind. Matching is exact and
// case-sensitive.
var vocabulary = map[string]TokenKind{
	"program": TokenProgram,
	"begin":   TokenBegin,
	"end":     TokenEnd,
	"end.":    TokenEndDot,
	"if":      TokenIf,
	"then":    TokenThen,
	"else":    TokenElse,
	"while":   TokenWhile,
	"do":      TokenDo,
	".":       TokenDot,
	";":       TokenSemicolon,
	"=":       TokenAssign,
	"<=":      TokenLessEqual,
	"+":       TokenPlus,
	"*":       TokenStar,
	"a":       TokenVariable,
	"b":       TokenVariable,
	"c":       TokenVariable,
	"0":       TokenDigit,
	"1":       TokenDigit,
	"2":       TokenDigit,
}

// Classify returns the kind of a lexeme.
func Classify(literal string) TokenKind {
	if kind, ok := vocabulary[literal]; ok {
		return kind
	}
	return TokenOther
}
