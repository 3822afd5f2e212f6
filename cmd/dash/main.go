package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"dashboard/internal/cli"
	"dashboard/internal/config"
)

func main() {
	// Interrupts cancel the running command; overview --watch ends cleanly
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(config.NewLoader(), cli.DefaultBootstrap, os.Stdout, os.Stdin)
	if err := root.Execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
