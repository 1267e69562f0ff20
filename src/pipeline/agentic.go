package pipeline

import (
	"context"
	"fmt"

	"ragbridge/src/broker"
	"ragbridge/src/config"
	"ragbridge/src/contracts"
	"ragbridge/src/store"
)

// AgenticPipeline publishes ingest requests to Redpanda and tracks them in
// Postgres. The ingest agents run as separate processes consuming the same
// topics.
type AgenticPipeline struct {
	broker   broker.Broker
	store    store.Store
	bucketID int
}

// NewAgenticPipeline creates the distributed pipeline. Agentic mode tracks
// request state in Postgres, so a DSN is required alongside the brokers.
func NewAgenticPipeline(cfg *config.Config) (*AgenticPipeline, error) {
	if cfg.PostgresDSN == "" {
		return nil, fmt.Errorf("POSTGRES_DSN environment variable is required when REDPANDA_BROKERS is set")
	}

	redpandaBroker, err := broker.NewRedpandaBroker(cfg.RedpandaBrokers)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redpanda broker: %w", err)
	}

	postgresStore, err := store.NewPostgresStore(cfg.PostgresDSN)
	if err != nil {
		redpandaBroker.Close()
		return nil, fmt.Errorf("failed to create Postgres store: %w", err)
	}

	return &AgenticPipeline{
		broker:   redpandaBroker,
		store:    postgresStore,
		bucketID: cfg.BucketID,
	}, nil
}

// SubmitIngest queues a document for ingestion by a remote agent. The file
// path must be reachable from the agent's filesystem.
func (p *AgenticPipeline) SubmitIngest(ctx context.Context, filePath string) (string, error) {
	return submitIngest(ctx, p.broker, p.store, p.bucketID, filePath)
}

// IngestStatus returns the current state of an ingest request from Postgres.
func (p *AgenticPipeline) IngestStatus(ctx context.Context, requestID string) (*contracts.IngestRecord, error) {
	return p.store.GetIngest(ctx, requestID)
}

// Store exposes the Postgres audit store.
func (p *AgenticPipeline) Store() store.Store {
	return p.store
}

// Close shuts down the pipeline.
func (p *AgenticPipeline) Close() error {
	if err := p.broker.Close(); err != nil {
		return err
	}
	return p.store.Close()
}
