package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"captureserver/internal/app"
	"captureserver/internal/config"
)

func main() {
	application, err := app.NewApp(config.Load())
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = application.Run(ctx)
	stop()
	closeResources(application, log.Printf)

	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// closeResources releases c and reports a failure through logf.
func closeResources(c io.Closer, logf func(format string, v ...interface{})) {
	if err := c.Close(); err != nil {
		logf("Failed to close server resources: %v", err)
	}
}
