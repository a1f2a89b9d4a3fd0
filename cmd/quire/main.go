// Command quire is a markdown notebook backed by a SQLite file.
//
// Usage:
//
//	quire doc list
//	echo "# Notes" | quire edit --title Notes
//	quire export --as html -o notes.html
//	quire snapshot list
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/roach88/quire/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cli.NewRootCommand().ExecuteContext(ctx)
	if err == nil {
		return
	}

	// ExitErrors were already written by the command.
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintln(os.Stderr, "quire:", err)
	}
	stop()
	os.Exit(cli.GetExitCode(err))
}
