// cmd/wom/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/law-makers/wom/internal/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Interrupts cancel in-flight requests; the report is still printed
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code := cli.Execute(ctx)
	if ctx.Err() != nil {
		log.Warn().Msg("Interrupt received, shut down early")
	}
	return code
}
