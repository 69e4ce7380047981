package descent

import (
	"errors"
	"fmt"
	"io"
)

// DefaultMaxTokenLength is the longest lexeme the Lexer accepts unless
// configured otherwise.
const DefaultMaxTokenLength = 2047

// Lexer splits lines from a LineSource into lexemes. Lexemes are delimited
// by spaces and line ends; spaces and tabs before a lexeme are skipped, but a
// tab inside a lexeme is part of it.
type Lexer struct {
	src      LineSource
	maxToken int

	line   string // current raw line
	lineNo int    // physical line number of line
	cursor int    // byte offset into line, never past len(line)
	read   int    // physical lines pulled from src
	tok    Token  // current lookahead

	marks   int
	fetched []sourceLine // lines pulled while a checkpoint is open
	pending []sourceLine // lines rewound by Restore, served before src

	// OnLine, if set, is called for each physical line pulled from the
	// source, including blank ones. Lines replayed after a Restore are not
	// reported again.
	OnLine func(lineNo int, text string)
}

type sourceLine struct {
	no   int
	text string
}

// LexerOption configures a Lexer.
type LexerOption func(*Lexer)

// WithMaxTokenLength sets the longest accepted lexeme. Values below 1 keep
// the default.
func WithMaxTokenLength(n int) LexerOption {
	return func(l *Lexer) {
		if n > 0 {
			l.maxToken = n
		}
	}
}

// NewLexer creates a Lexer pulling lines from src.
func NewLexer(src LineSource, opts ...LexerOption) *Lexer {
	l := &Lexer{src: src, maxToken: DefaultMaxTokenLength}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Current returns the lookahead token produced by the last call to Next.
func (l *Lexer) Current() Token { return l.tok }

// Line returns the raw text of the line the cursor is in.
func (l *Lexer) Line() string { return l.line }

// LineNumber returns the physical number of the current line.
func (l *Lexer) LineNumber() int { return l.lineNo }

// LinesRead returns how many physical lines have been pulled from the source.
func (l *Lexer) LinesRead() int { return l.read }

// Next scans the next lexeme, makes it the current token and returns it.
// Running out of lines is an error wrapping ErrInputExhausted.
func (l *Lexer) Next() (Token, error) {
	l.skipWhitespace()
	for l.atEOL() {
		if err := l.refill(); err != nil {
			return Token{}, err
		}
		l.skipWhitespace()
	}

	start := l.cursor
	for !l.atEOL() && l.line[l.cursor] != ' ' {
		l.cursor++
	}
	literal := l.line[start:l.cursor]
	pos := Position{Line: l.lineNo, Column: start + 1}

	if len(literal) > l.maxToken {
		return Token{}, &LexError{ParseError{
			Message: fmt.Sprintf("lexeme of %d bytes exceeds limit of %d", len(literal), l.maxToken),
			Pos:     pos,
			Cause:   ErrTokenTooLong,
		}}
	}

	l.tok = Token{Kind: Classify(literal), Literal: literal, Pos: pos}
	return l.tok, nil
}

func (l *Lexer) atEOL() bool {
	return l.cursor >= len(l.line)
}

func (l *Lexer) skipWhitespace() {
	for !l.atEOL() && (l.line[l.cursor] == ' ' || l.line[l.cursor] == '\t') {
		l.cursor++
	}
}

// refill replaces the current line with the next non-empty one.
func (l *Lexer) refill() error {
	for {
		sl, err := l.fetch()
		if err != nil {
			return err
		}
		if sl.text == "" {
			continue
		}
		l.line, l.lineNo, l.cursor = sl.text, sl.no, 0
		return nil
	}
}

func (l *Lexer) fetch() (sourceLine, error) {
	if len(l.pending) > 0 {
		sl := l.pending[0]
		l.pending = l.pending[1:]
		l.record(sl)
		return sl, nil
	}

	text, err := l.src.NextLine()
	if errors.Is(err, io.EOF) {
		return sourceLine{}, &LexError{ParseError{
			Message: "unexpected end of input",
			Pos:     Position{Line: l.read + 1, Column: 1},
			Cause:   ErrInputExhausted,
		}}
	}
	if err != nil {
		return sourceLine{}, &LexError{ParseError{
			Message: fmt.Sprintf("reading line %d: %v", l.read+1, err),
			Cause:   err,
		}}
	}

	l.read++
	sl := sourceLine{no: l.read, text: text}
	if l.OnLine != nil {
		l.OnLine(sl.no, sl.text)
	}
	l.record(sl)
	return sl, nil
}

func (l *Lexer) record(sl sourceLine) {
	if l.marks > 0 {
		l.fetched = append(l.fetched, sl)
	}
}

// Checkpoint is a saved lexer position created by Mark.
type Checkpoint struct {
	line    string
	lineNo  int
	cursor  int
	tok     Token
	fetched int
}

// Mark saves the current position. Every Mark must be closed by exactly one
// Restore or Release; checkpoints nest.
func (l *Lexer) Mark() Checkpoint {
	l.marks++
	return Checkpoint{
		line:    l.line,
		lineNo:  l.lineNo,
		cursor:  l.cursor,
		tok:     l.tok,
		fetched: len(l.fetched),
	}
}

// Restore rewinds to cp, including any lines pulled since it was taken, and
// closes it.
func (l *Lexer) Restore(cp Checkpoint) {
	if rewound := l.fetched[cp.fetched:]; len(rewound) > 0 {
		pending := make([]sourceLine, 0, len(rewound)+len(l.pending))
		pending = append(pending, rewound...)
		l.pending = append(pending, l.pending...)
	}
	l.fetched = l.fetched[:cp.fetched]
	l.line, l.lineNo, l.cursor, l.tok = cp.line, cp.lineNo, cp.cursor, cp.tok
	l.Release(cp)
}

// Release closes cp, keeping everything consumed since it was taken.
func (l *Lexer) Release(Checkpoint) {
	if l.marks == 0 {
		return
	}
	l.marks--
	if l.marks == 0 {
		l.fetched = nil
	}
}
