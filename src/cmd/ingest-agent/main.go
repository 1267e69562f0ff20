// Package main provides the standalone ingest agent binary.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ragbridge/src/broker"
	"ragbridge/src/config"
	"ragbridge/src/groundx"
	"ragbridge/src/ingest"
	"ragbridge/src/logger"
	"ragbridge/src/store"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	if len(cfg.RedpandaBrokers) == 0 {
		fmt.Fprintln(os.Stderr, "ERROR: REDPANDA_BROKERS environment variable is required for the ingest agent")
		fmt.Fprintln(os.Stderr, "Example: export REDPANDA_BROKERS=localhost:19092")
		os.Exit(1)
	}

	log := logger.NewConsoleLogger()

	log.Info("Starting ragbridge ingest agent")
	log.Info("Redpanda brokers: %v", cfg.RedpandaBrokers)
	log.Info("GroundX bucket: %d", cfg.BucketID)

	brk, err := broker.NewRedpandaBroker(cfg.RedpandaBrokers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create broker: %v\n", err)
		os.Exit(1)
	}
	defer brk.Close()

	// The store is optional for the agent; status updates are still published
	// to the broker without it.
	var st store.Store
	if cfg.PostgresDSN != "" {
		postgresStore, err := store.NewPostgresStore(cfg.PostgresDSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect to Postgres: %v\n", err)
			os.Exit(1)
		}
		defer postgresStore.Close()
		st = postgresStore
	}

	client := groundx.NewClient(cfg.GroundXAPIKey)
	agent := ingest.NewAgent(brk, client, st, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("Shutdown signal received, stopping agent...")
		cancel()
	}()

	log.Info("Ingest agent started, waiting for requests...")
	if err := agent.Run(ctx); err != nil && err != context.Canceled {
		fmt.Fprintf(os.Stderr, "Agent error: %v\n", err)
		os.Exit(1)
	}

	log.Info("Ingest agent stopped")
}
