package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/NastyaGoryachaya/crypto-market-service/internal/commands"
)

func main() {
	// context + signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := commands.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
