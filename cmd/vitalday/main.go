package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sandeepkv93/vitalday/internal/cli"
)

// Set by ldflags at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	cli.SetVersionInfo(version, commit)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "vitalday: %v\n", err)
		stop()
		os.Exit(1)
	}
}
