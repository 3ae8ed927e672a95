package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/multi-llm/bootstrap/internal/cli"
	"github.com/multi-llm/bootstrap/internal/core/workspace"
)

const (
	// exitInterrupt is the conventional code for termination by signal.
	exitInterrupt = 130
	// exitUnexpected covers failures outside the category taxonomy.
	exitUnexpected = 255
)

func main() {
	os.Exit(run())
}

// run executes the CLI and maps the outcome onto the exit-code
// taxonomy. Exit codes are decided here and nowhere else.
func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.Execute(ctx)
	if err == nil {
		return 0
	}

	_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)

	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return exitInterrupt
	}
	var opErr *workspace.OpError
	if errors.As(err, &opErr) {
		return opErr.ExitCode()
	}
	return exitUnexpected
}
