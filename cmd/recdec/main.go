package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/hennessytj/recdec/descent"
)

// reportedError marks an error whose diagnostic has already been written.
type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

func main() {
	if err := rootCmd.Execute(); err != nil {
		var reported reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(descent.ExitCode(err))
	}
}
