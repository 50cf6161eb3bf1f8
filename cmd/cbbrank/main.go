package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}
	// An interrupted ingest has already logged what it finished.
	if !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "cbbrank:", err)
	}
	os.Exit(1)
}
