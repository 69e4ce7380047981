package main

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/peterh/liner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedPrompter answers prompts from a fixed script, then returns err.
type scriptedPrompter struct {
	lines   []string
	err     error
	prompts []string
	history []string
}

func (s *scriptedPrompter) Prompt(prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.lines) == 0 {
		return "", s.err
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func (s *scriptedPrompter) AppendHistory(item string) {
	s.history = append(s.history, item)
}

func TestReplLoopValidatesEachProgram(t *testing.T) {
	p := &scriptedPrompter{
		lines: []string{
			"program begin a = 0 end.",
			"",
			"program",
			"begin b = * a c",
			"end.",
			"program begin a 0 end.",
		},
		err: io.EOF,
	}

	var out, diag bytes.Buffer
	require.NoError(t, replLoop(p, textSettings(), &out, &diag))

	assert.Equal(t,
		"1 assignments, 1 variable references\nCode successfully parsed.\n"+
			"1 assignments, 3 variable references\nCode successfully parsed.\n"+
			"Error: bad stmt\n"+
			"<stmt> ::= <assign> | <ifstmt> | <whilestmt> | <block>\n"+
			"line 1: \"program begin a 0 end.\"\n"+
			"\n",
		out.String())

	assert.Equal(t, []string{
		promptMain, promptMain, promptMain, promptCont, promptCont, promptMain, promptMain,
	}, p.prompts)
	assert.Equal(t, []string{
		"program begin a = 0 end.", "program", "begin b = * a c", "end.", "program begin a 0 end.",
	}, p.history)
}

func TestReplLoopQuit(t *testing.T) {
	p := &scriptedPrompter{lines: []string{":quit", "program begin a = 0 end."}}
	var out, diag bytes.Buffer
	require.NoError(t, replLoop(p, textSettings(), &out, &diag))
	assert.Empty(t, out.String())
}

func TestReplLoopAbortMidProgram(t *testing.T) {
	p := &scriptedPrompter{lines: []string{"program begin"}, err: liner.ErrPromptAborted}
	var out, diag bytes.Buffer
	require.NoError(t, replLoop(p, textSettings(), &out, &diag))
	assert.Contains(t, out.String(), "unexpected end of input")
}

func TestReplLoopPromptError(t *testing.T) {
	boom := errors.New("terminal gone")
	p := &scriptedPrompter{err: boom}
	var out, diag bytes.Buffer
	err := replLoop(p, textSettings(), &out, &diag)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}
