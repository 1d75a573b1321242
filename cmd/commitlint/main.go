// Package main is the entry point for the commitlint CLI.
//
// This file is intentionally minimal - all logic lives in the commands package.
// The main function only wires signals, executes the root command and maps
// errors to exit codes.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/JNZader/commitlint/cmd/commitlint/commands"
	"github.com/JNZader/commitlint/internal/lint"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.ExecuteContext(ctx)
	stop()

	if err == nil {
		return
	}

	code := lint.ExitFailure
	var exitErr *commands.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.Code
		if exitErr.Err == nil {
			// the report already explained the failure
			os.Exit(code)
		}
	}

	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(code)
}
