package main

import (
	"fmt"
	"io"
	"os"

	"github.com/hennessytj/recdec/descent"
	"github.com/spf13/cobra"
)

func runCheck(cmd *cobra.Command, args []string) error {
	path := "-"
	if len(args) == 1 {
		path = args[0]
	}
	_, err := validateFile(path, cmd.InOrStdin(), loadSettings(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	return err
}

// validateFile validates the program in path, or in stdin when path is "-".
func validateFile(path string, stdin io.Reader, cfg settings, out, diag io.Writer) (*descent.Result, error) {
	in := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		in = f
	}
	return validate(descent.NewReaderSource(in), path, cfg, out, diag)
}

// validate parses one program from src and writes its report to out. Parse
// failures come back as reportedError so the caller only maps the exit code.
func validate(src descent.LineSource, name string, cfg settings, out, diag io.Writer) (*descent.Result, error) {
	opts := cfg.options()
	if cfg.Echo || cfg.Debug || cfg.Verbose {
		opts.Events = descent.NewEventEmitter()
		opts.Events.On(terminalEventListener(out, diag, cfg))
	}

	if cfg.Verbose {
		fmt.Fprintf(diag, "[recdec] Validating %s\n", displayName(name))
	}

	res, parseErr := descent.Parse(src, opts)
	if err := writeReport(out, newReport(name, res, parseErr), cfg); err != nil {
		return res, fmt.Errorf("writing report: %w", err)
	}
	if parseErr != nil {
		return nil, reportedError{parseErr}
	}
	return res, nil
}

func displayName(name string) string {
	if name == "-" || name == "" {
		return "<stdin>"
	}
	return name
}
