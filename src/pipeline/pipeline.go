// Package pipeline wires the ingestion components together. It is used by
// both the CLI and the MCP server, and selects between a single-process
// direct mode and a distributed agentic mode based on configuration.
package pipeline

import (
	"context"
	"fmt"
	"os"

	"ragbridge/src/broker"
	"ragbridge/src/config"
	"ragbridge/src/contracts"
	"ragbridge/src/groundx"
	"ragbridge/src/ingest"
	"ragbridge/src/logger"
	"ragbridge/src/store"
)

// Mode identifies which pipeline implementation is in use.
type Mode int

const (
	// DirectMode runs everything in-process with an in-memory broker.
	DirectMode Mode = iota
	// AgenticMode publishes requests to Redpanda for external ingest agents
	// and records state in Postgres.
	AgenticMode
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case AgenticMode:
		return "agentic"
	default:
		return "direct"
	}
}

// DetectMode selects the pipeline mode from configuration. Redpanda brokers
// being configured is the signal for agentic mode.
func DetectMode(cfg *config.Config) Mode {
	if len(cfg.RedpandaBrokers) > 0 {
		return AgenticMode
	}
	return DirectMode
}

// Pipeline submits documents for ingestion and exposes their status.
type Pipeline interface {
	// SubmitIngest queues a document for ingestion and returns a request ID.
	SubmitIngest(ctx context.Context, filePath string) (string, error)

	// IngestStatus returns the current state of an ingest request.
	IngestStatus(ctx context.Context, requestID string) (*contracts.IngestRecord, error)

	// Store exposes the audit store backing this pipeline.
	Store() store.Store

	// Close shuts down the pipeline.
	Close() error
}

// New creates the pipeline matching the detected mode.
func New(cfg *config.Config, client *groundx.Client) (Pipeline, error) {
	switch DetectMode(cfg) {
	case AgenticMode:
		return NewAgenticPipeline(cfg)
	default:
		return NewDirectPipeline(cfg, client)
	}
}

// startIngestAgent launches the ingest agent as a persistent goroutine with
// silent logging, so agent chatter never pollutes stdout in TUI or MCP
// server mode. The subscription is established before returning so requests
// published immediately after are not lost. Errors still go to stderr.
func startIngestAgent(ctx context.Context, brk broker.Broker, client *groundx.Client, st store.Store) error {
	agent := ingest.NewAgent(brk, client, st, logger.NewSilentLogger())
	msgChan, err := agent.Listen(ctx)
	if err != nil {
		return err
	}
	go func() {
		if err := agent.Serve(ctx, msgChan); err != nil && err != context.Canceled {
			fmt.Fprintf(os.Stderr, "[Pipeline] Ingest agent error: %v\n", err)
		}
	}()
	return nil
}
