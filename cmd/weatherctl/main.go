package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/i474232898/weather-tagger/internal/cli"
	"github.com/i474232898/weather-tagger/internal/client"
	"github.com/i474232898/weather-tagger/internal/config"
	"github.com/i474232898/weather-tagger/internal/logger"
)

func main() {
	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Diagnostics go to stderr so they never mix with command output.
	log := logger.NewWithWriter("weatherctl", os.Stderr)
	logger.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := cli.NewRootCmd(client.New(cfg.APIBaseURL, cfg.APITimeout), log)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
