// Command bytescope analyzes CPython bytecode from Python source, exported
// code objects or disassembly listings.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	a := newApp(os.Stdin, os.Stdout, os.Stderr)
	err := a.rootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		a.printError(err)
		os.Exit(1)
	}
}
