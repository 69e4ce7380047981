package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hennessytj/recdec/descent"
)

// terminalEventListener returns an event listener that echoes source lines
// to out and prints rule traces and summaries to diag.
func terminalEventListener(out, diag io.Writer, cfg settings) func(descent.Event) {
	return func(e descent.Event) {
		switch e.Type {
		case descent.EventLineRead:
			if cfg.Echo {
				text, _ := e.Data["text"].(string)
				fmt.Fprintln(out, text)
			}

		case descent.EventRuleEntered, descent.EventRuleMatched, descent.EventRuleRejected, descent.EventRuleFailed:
			if !cfg.Debug {
				return
			}
			rule, _ := e.Data["rule"].(string)
			depth, _ := e.Data["depth"].(int)
			token, _ := e.Data["token"].(string)
			fmt.Fprintf(diag, "[trace] %s%s %s at %q\n", indent(depth), ruleArrow(e.Type), rule, token)

		case descent.EventTokenConsumed:
			if !cfg.Debug {
				return
			}
			depth, _ := e.Data["depth"].(int)
			token, _ := e.Data["token"].(string)
			line, _ := e.Data["line"].(int)
			fmt.Fprintf(diag, "[trace] %s  consumed %q (line %d)\n", indent(depth), token, line)

		case descent.EventBacktracked:
			if !cfg.Debug {
				return
			}
			depth, _ := e.Data["depth"].(int)
			rule, _ := e.Data["rule"].(string)
			token, _ := e.Data["token"].(string)
			fmt.Fprintf(diag, "[trace] %s  %s backtracked to %q\n", indent(depth), rule, token)

		case descent.EventParseCompleted:
			if cfg.Verbose {
				lines, _ := e.Data["lines"].(int)
				durationMs, _ := e.Data["duration_ms"].(int64)
				fmt.Fprintf(diag, "[recdec] Parsed %d line(s) in %s\n", lines, time.Duration(durationMs)*time.Millisecond)
			}

		case descent.EventParseFailed:
			if cfg.Verbose {
				code, _ := e.Data["code"].(int)
				fmt.Fprintf(diag, "[recdec] Failed with status %d\n", code)
			}
		}
	}
}

func ruleArrow(t descent.EventType) string {
	switch t {
	case descent.EventRuleEntered:
		return "->"
	case descent.EventRuleMatched:
		return "<- matched"
	case descent.EventRuleRejected:
		return "<- rejected"
	default:
		return "!! failed"
	}
}

func indent(depth int) string {
	if depth <= 1 {
		return ""
	}
	return strings.Repeat("  ", depth-1)
}
