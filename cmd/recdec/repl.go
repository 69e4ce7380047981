package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	promptMain  = "recdec> "
	promptCont  = "   ...> "
	historyFile = ".recdec_history"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Validate programs typed at an interactive prompt",
	Long: "Read programs from a line-editing prompt. Each program may span several lines; " +
		"it is validated as soon as it is complete. Type :quit or press Ctrl-D to leave.",
	Args: cobra.NoArgs,
	RunE: runRepl,
}

func init() {
	replCmd.Flags().String("history-file", "", "History file (default: ~/"+historyFile+")")
	_ = viper.BindPFlag("history_file", replCmd.Flags().Lookup("history-file"))

	rootCmd.AddCommand(replCmd)
}

// prompter is the part of *liner.State the REPL uses.
type prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

func runRepl(cmd *cobra.Command, _ []string) error {
	cfg := loadSettings()

	histPath := cfg.HistoryFile
	if histPath == "" {
		home, _ := os.UserHomeDir()
		histPath = filepath.Join(home, historyFile)
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	return replLoop(ln, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// replLoop validates one program per iteration until the prompt is closed.
func replLoop(p prompter, cfg settings, out, diag io.Writer) error {
	for {
		first, err := p.Prompt(promptMain)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(out)
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading prompt: %w", err)
		}

		switch strings.TrimSpace(first) {
		case "":
			continue
		case ":quit", ":q":
			return nil
		}

		src := &promptSource{p: p, pending: []string{first}}
		if _, err := validate(src, "<repl>", cfg, out, diag); err != nil {
			var reported reportedError
			if !errors.As(err, &reported) {
				return err
			}
		}
	}
}

// promptSource is a LineSource over a prompt. Lines after the first of a
// program are read with the continuation prompt.
type promptSource struct {
	p       prompter
	pending []string
}

func (s *promptSource) NextLine() (string, error) {
	var line string
	if len(s.pending) > 0 {
		line, s.pending = s.pending[0], s.pending[1:]
	} else {
		var err error
		line, err = s.p.Prompt(promptCont)
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", io.EOF
		}
		if err != nil {
			return "", err
		}
	}
	if strings.TrimSpace(line) != "" {
		s.p.AppendHistory(line)
	}
	return line, nil
}
