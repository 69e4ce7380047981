package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/hennessytj/recdec/descent"
	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// report is the outcome of validating one source.
type report struct {
	Source       string `json:"source" yaml:"source"`
	OK           bool   `json:"ok" yaml:"ok"`
	Code         int    `json:"code" yaml:"code"`
	Assignments  int    `json:"assignments" yaml:"assignments"`
	VariableRefs int    `json:"variable_refs" yaml:"variable_refs"`
	Lines        int    `json:"lines,omitempty" yaml:"lines,omitempty"`
	Rule         string `json:"rule,omitempty" yaml:"rule,omitempty"`
	Production   string `json:"production,omitempty" yaml:"production,omitempty"`
	Message      string `json:"message,omitempty" yaml:"message,omitempty"`
	Line         int    `json:"line,omitempty" yaml:"line,omitempty"`
	Column       int    `json:"column,omitempty" yaml:"column,omitempty"`
	Text         string `json:"text,omitempty" yaml:"text,omitempty"`
}

func newReport(name string, res *descent.Result, err error) report {
	rep := report{Source: displayName(name), OK: err == nil, Code: descent.ExitCode(err)}
	if res != nil {
		rep.Assignments = res.Assignments
		rep.VariableRefs = res.VariableRefs
		rep.Lines = res.Lines
	}
	if err == nil {
		return rep
	}

	var serr *descent.SyntaxError
	if errors.As(err, &serr) {
		rep.Rule = serr.Rule.String()
		rep.Production = serr.Rule.Production()
		rep.Message = serr.Message
		rep.Line = serr.Pos.Line
		rep.Column = serr.Pos.Column
		rep.Text = serr.Source
		return rep
	}
	rep.Message = err.Error()
	return rep
}

func writeReport(w io.Writer, rep report, cfg settings) error {
	switch cfg.Format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return err
		}
		return enc.Close()
	case formatText, "":
		return writeText(w, rep, newPalette(w, cfg.Color))
	default:
		return fmt.Errorf("unknown report format %q", cfg.Format)
	}
}

func writeText(w io.Writer, rep report, pal palette) error {
	if rep.OK {
		_, err := fmt.Fprintf(w, "%d assignments, %d variable references\n%s\n",
			rep.Assignments, rep.VariableRefs, pal.paint(pal.success, "Code successfully parsed."))
		return err
	}

	if _, err := fmt.Fprintf(w, "%s\n", pal.paint(pal.failure, "Error: "+rep.Message)); err != nil {
		return err
	}
	if rep.Production != "" {
		if _, err := fmt.Fprintf(w, "%s\n", pal.paint(pal.muted, rep.Production)); err != nil {
			return err
		}
	}
	if rep.Line > 0 && rep.Rule != "" {
		_, err := fmt.Fprintf(w, "line %d: %q\n", rep.Line, rep.Text)
		return err
	}
	return nil
}

// palette holds the text report styles. Colours follow the mDW TUI palette.
type palette struct {
	enabled bool
	success lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style
}

func newPalette(w io.Writer, enabled bool) palette {
	r := lipgloss.NewRenderer(w)
	return palette{
		enabled: enabled,
		success: r.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true),
		failure: r.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true),
		muted:   r.NewStyle().Foreground(lipgloss.Color("#6B7280")).Italic(true),
	}
}

func (p palette) paint(style lipgloss.Style, text string) string {
	if !p.enabled {
		return text
	}
	return style.Render(text)
}
