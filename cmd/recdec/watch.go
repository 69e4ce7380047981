package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Revalidate a file every time it changes",
	Long:  "Validate the file once, then again after every write until interrupted.",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	return watchFile(ctx, w, path, loadSettings(), cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// watchFile validates path now and after every write or re-creation. The
// parent directory is watched so editors that replace the file are seen.
func watchFile(ctx context.Context, w *fsnotify.Watcher, path string, cfg settings, out, diag io.Writer) error {
	path = filepath.Clean(path)
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(path), err)
	}

	check := func() {
		fmt.Fprintf(diag, "[watch] %s\n", path)
		if _, err := validateFile(path, nil, cfg, out, diag); err != nil {
			var reported reportedError
			if !errors.As(err, &reported) {
				fmt.Fprintf(diag, "[watch] %v\n", err)
			}
		}
	}
	check()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				check()
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(diag, "[watch] error: %v\n", err)
		}
	}
}
