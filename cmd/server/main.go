package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/PhuD203/Admissions-consultant-sub001/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Printf("server failed: %v", err)
		stop()
		os.Exit(1)
	}
}
