package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/roach88/eligsim/internal/cli"
)

func main() {
	// Cancelling a batch turns in-flight cases into failed results.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := cli.NewRootCommand().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "eligsim:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
