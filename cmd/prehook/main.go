// Package main is the entry point for the prehook CLI.
package main

import (
	"fmt"
	"os"

	"github.com/prehook/prehook/cmd/prehook/commands"
	"github.com/prehook/prehook/internal/errors"
)

func main() {
	if err := commands.Execute(); err != nil {
		var exitErr *errors.ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", exitErr.Err)
			}
			if exitErr.Suggestion != "" {
				fmt.Fprintf(os.Stderr, "hint: %s\n", exitErr.Suggestion)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(errors.ExitUser)
	}
}
