package descent

import (
	"bufio"
	"io"
	"strings"
)

// LineSource supplies raw input lines on demand.
type LineSource interface {
	// NextLine returns the next line with its terminator stripped. It
	// returns io.EOF once no lines remain.
	NextLine() (string, error)
}

// ReaderSource reads lines from an io.Reader. Lines have no length limit;
// over-long lexemes are rejected by the Lexer instead.
type ReaderSource struct {
	r   *bufio.Reader
	eof bool
}

// NewReaderSource creates a ReaderSource reading from r.
func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{r: bufio.NewReader(r)}
}

// NextLine implements LineSource. A final line without a terminator is
// still returned.
func (s *ReaderSource) NextLine() (string, error) {
	if s.eof {
		return "", io.EOF
	}
	line, err := s.r.ReadString('\n')
	if err == io.EOF {
		s.eof = true
		if line == "" {
			return "", io.EOF
		}
		return trimTerminator(line), nil
	}
	if err != nil {
		return "", err
	}
	return trimTerminator(line), nil
}

func trimTerminator(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}

// SliceSource serves a fixed list of lines.
type SliceSource struct {
	lines []string
	next  int
}

// NewSliceSource creates a SliceSource over lines.
func NewSliceSource(lines ...string) *SliceSource {
	return &SliceSource{lines: lines}
}

// NextLine implements LineSource.
func (s *SliceSource) NextLine() (string, error) {
	if s.next >= len(s.lines) {
		return "", io.EOF
	}
	line := s.lines[s.next]
	s.next++
	return line, nil
}
