package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"tradeaudit/internal/logger"
	"tradeaudit/internal/trace"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	inputPath := flag.String("input", "", "broker tradebook CSV (required when source is FILE)")
	flag.Parse()

	if err := initializeSystem(); err != nil {
		fmt.Fprintf(os.Stderr, "init failed: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	defer func() {
		if err := trace.Shutdown(ctx); err != nil {
			logger.Warn(ctx, "Tracer shutdown failed", "error", err)
		}
	}()

	if err := run(ctx, *configPath, *inputPath); err != nil {
		logger.ErrorWithErr(ctx, "Analysis run failed", err)
		os.Exit(1)
	}
}
