package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hennessytj/recdec/descent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func textSettings() settings {
	return settings{Format: formatText, MaxTokenLength: descent.DefaultMaxTokenLength}
}

func TestValidateSuccessText(t *testing.T) {
	var out, diag bytes.Buffer
	res, err := validate(descent.NewSliceSource("program begin a = + b 1 ; c = a end."), "-", textSettings(), &out, &diag)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Assignments)
	assert.Equal(t, "2 assignments, 4 variable references\nCode successfully parsed.\n", out.String())
	assert.Empty(t, diag.String())
}

func TestValidateFailureText(t *testing.T) {
	var out, diag bytes.Buffer
	_, err := validate(descent.NewSliceSource("program starts begin a = 0 end."), "-", textSettings(), &out, &diag)
	require.Error(t, err)

	var reported reportedError
	assert.True(t, errors.As(err, &reported))
	assert.Equal(t, 101, descent.ExitCode(err))
	assert.Equal(t,
		"Error: block missing reserved word \"begin\"\n"+
			"<block> ::= begin <stmtlist> end\n"+
			"line 1: \"program starts begin a = 0 end.\"\n",
		out.String())
}

func TestValidateStatusCodes(t *testing.T) {
	tests := []struct {
		src  string
		code int
	}{
		{"program begin a = 0 end.", 0},
		{"begin a = 0 end.", 100},
		{"program starts begin a = 0 end.", 101},
		{"program begin a = 0 ! end.", 103},
		{"program begin a 0 end.", 104},
		{"program begin if a then a = 0 else a = 1 end.", 106},
		{"program begin while a <= 1 a = 0 end.", 107},
		{"program begin a = + 1 end.", 109},
		{"program begin", 112},
	}
	for _, tt := range tests {
		var out, diag bytes.Buffer
		_, err := validate(descent.NewSliceSource(tt.src), "-", textSettings(), &out, &diag)
		assert.Equal(t, tt.code, descent.ExitCode(err), "input: %s", tt.src)
	}
}

func TestValidateLexErrorText(t *testing.T) {
	var out, diag bytes.Buffer
	_, err := validate(descent.NewSliceSource("program begin"), "-", textSettings(), &out, &diag)
	require.Error(t, err)
	assert.Equal(t, "Error: line 2, col 1: unexpected end of input\n", out.String())
}

func TestValidateEchoesLines(t *testing.T) {
	cfg := textSettings()
	cfg.Echo = true

	var out, diag bytes.Buffer
	_, err := validate(descent.NewSliceSource("program", "begin a = 0", "end."), "-", cfg, &out, &diag)
	require.NoError(t, err)
	assert.Equal(t,
		"program\nbegin a = 0\nend.\n1 assignments, 1 variable references\nCode successfully parsed.\n",
		out.String())
}

func TestValidateDebugTrace(t *testing.T) {
	cfg := textSettings()
	cfg.Debug = true

	var out, diag bytes.Buffer
	_, err := validate(descent.NewSliceSource("program begin a 0 end."), "-", cfg, &out, &diag)
	require.Error(t, err)

	trace := diag.String()
	assert.Contains(t, trace, "[trace] -> program at \"program\"")
	assert.Contains(t, trace, "consumed \"program\" (line 1)")
	assert.Contains(t, trace, "assign backtracked to \"a\"")
	assert.Contains(t, trace, "!! failed stmt at \"a\"")
}

func TestValidateVerbose(t *testing.T) {
	cfg := textSettings()
	cfg.Verbose = true

	var out, diag bytes.Buffer
	_, err := validate(descent.NewSliceSource("program begin a = 0 end."), "prog.txt", cfg, &out, &diag)
	require.NoError(t, err)
	assert.Contains(t, diag.String(), "[recdec] Validating prog.txt")
	assert.Contains(t, diag.String(), "[recdec] Parsed 1 line(s)")
}

func TestValidateNestedExprSetting(t *testing.T) {
	cfg := textSettings()
	var out, diag bytes.Buffer

	_, err := validate(descent.NewSliceSource("program begin a = * + b 1 c end."), "-", cfg, &out, &diag)
	assert.Equal(t, 109, descent.ExitCode(err))

	cfg.NestedExpr = true
	out.Reset()
	_, err = validate(descent.NewSliceSource("program begin a = * + b 1 c end."), "-", cfg, &out, &diag)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "1 assignments, 3 variable references")
}

func TestValidateJSONReport(t *testing.T) {
	cfg := textSettings()
	cfg.Format = formatJSON

	var out, diag bytes.Buffer
	_, err := validate(descent.NewSliceSource("program begin a = 1 ;", "  b = 2 end."), "prog.txt", cfg, &out, &diag)
	require.NoError(t, err)

	var rep report
	require.NoError(t, json.Unmarshal(out.Bytes(), &rep))
	assert.True(t, rep.OK)
	assert.Equal(t, "prog.txt", rep.Source)
	assert.Equal(t, 2, rep.Assignments)
	assert.Equal(t, 2, rep.VariableRefs)
	assert.Equal(t, 2, rep.Lines)
	assert.Equal(t, 0, rep.Code)
}

func TestValidateYAMLFailureReport(t *testing.T) {
	cfg := textSettings()
	cfg.Format = formatYAML

	var out, diag bytes.Buffer
	_, err := validate(descent.NewSliceSource("program begin", "  a = 0 ;", "  while b <= 1 c = 0", "end."), "-", cfg, &out, &diag)
	require.Error(t, err)

	var rep report
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &rep))
	assert.False(t, rep.OK)
	assert.Equal(t, "<stdin>", rep.Source)
	assert.Equal(t, 107, rep.Code)
	assert.Equal(t, "whilestmt", rep.Rule)
	assert.Equal(t, "improperly formed whilestmt", rep.Message)
	assert.Equal(t, 3, rep.Line)
	assert.Equal(t, 16, rep.Column)
	assert.Equal(t, "  while b <= 1 c = 0", rep.Text)
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ok.prog")
	require.NoError(t, os.WriteFile(path, []byte("program\nbegin\n  a = 0\nend.\n"), 0o644))

	var out, diag bytes.Buffer
	res, err := validateFile(path, nil, textSettings(), &out, &diag)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Lines)

	_, err = validateFile(filepath.Join(dir, "missing.prog"), nil, textSettings(), &out, &diag)
	require.Error(t, err)
	assert.Equal(t, 1, descent.ExitCode(err))
}

func TestValidateStdin(t *testing.T) {
	var out, diag bytes.Buffer
	stdin := strings.NewReader("program begin c = 2 end.\n")
	_, err := validateFile("-", stdin, textSettings(), &out, &diag)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "1 assignments, 1 variable references")
}

func TestSettingsValidate(t *testing.T) {
	cfg := textSettings()
	assert.NoError(t, cfg.validate())

	cfg.Format = "xml"
	assert.Error(t, cfg.validate())

	cfg = textSettings()
	cfg.MaxTokenLength = 0
	assert.Error(t, cfg.validate())
}

func TestRootCommandRunsCheck(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.txt")
	require.NoError(t, os.WriteFile(path, []byte("program begin while a <= 1 do a = 0 end.\n"), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{path})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "1 assignments, 2 variable references\nCode successfully parsed.\n", out.String())
}
