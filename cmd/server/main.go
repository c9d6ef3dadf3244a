package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/RomanSolomatin/2d-platformer-pathfinding/internal/app"
	"github.com/RomanSolomatin/2d-platformer-pathfinding/internal/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := app.LoadConfig(telemetry.WrapLogger(log.Default()))
	if err := app.Run(ctx, cfg); err != nil {
		log.Fatalf("%v", err)
	}
}
