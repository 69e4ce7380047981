package descent

import (
	"errors"
	"fmt"
)

var (
	// ErrInputExhausted is returned when the line source runs dry while the
	// parser still needs a token.
	ErrInputExhausted = errors.New("input exhausted")
	// ErrTokenTooLong is returned for a lexeme longer than the lexer limit.
	ErrTokenTooLong = errors.New("token too long")
)

// ParseError is the base error type for all descent errors.
type ParseError struct {
	Message string
	Pos     Position
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Pos.Line > 0 {
		return fmt.Sprintf("line %d, col %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
	}
	return e.Message
}

func (e *ParseError) Unwrap() error { return e.Cause }

// LexError represents a lexer-level failure (exhausted input, over-long
// lexeme, read error).
type LexError struct{ ParseError }

// ExitCode returns the process status for the failure.
func (e *LexError) ExitCode() int {
	switch {
	case errors.Is(e.Cause, ErrInputExhausted):
		return ExitInputExhausted
	case errors.Is(e.Cause, ErrTokenTooLong):
		return ExitTokenTooLong
	default:
		return ExitFailure
	}
}

// SyntaxError is a fatal grammar violation.
type SyntaxError struct {
	ParseError
	Rule       Rule
	Expected   string
	Got        string
	Source     string // raw text of the offending line
	SourceLine int
}

func (e *SyntaxError) Error() string {
	if e.Pos.Line > 0 {
		return fmt.Sprintf("line %d, col %d: %s: %s", e.Pos.Line, e.Pos.Column, e.Rule, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Rule, e.Message)
}

// ExitCode returns the status code of the violated production.
func (e *SyntaxError) ExitCode() int { return e.Rule.Code() }

// Coded is implemented by errors that carry their own process status.
type Coded interface {
	error
	ExitCode() int
}

// ExitCode maps err to a process status: 0 for nil, the error's own code
// when it has one, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var coded Coded
	if errors.As(err, &coded) {
		return coded.ExitCode()
	}
	return ExitFailure
}
