package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"ragbridge/src/broker"
	"ragbridge/src/config"
	"ragbridge/src/contracts"
	"ragbridge/src/groundx"
	"ragbridge/src/store"
)

// DirectPipeline runs the ingest agent in-process on top of an in-memory
// broker and store. This is the default single-binary mode.
type DirectPipeline struct {
	broker   *broker.InMemoryBroker
	store    *store.InMemoryStore
	bucketID int
	cancel   context.CancelFunc
}

// NewDirectPipeline creates the in-process pipeline and starts its agent.
func NewDirectPipeline(cfg *config.Config, client *groundx.Client) (*DirectPipeline, error) {
	memBroker := broker.NewInMemoryBroker()
	memStore := store.NewInMemoryStore()

	ctx, cancel := context.WithCancel(context.Background())
	if err := startIngestAgent(ctx, memBroker, client, memStore); err != nil {
		cancel()
		memBroker.Close()
		memStore.Close()
		return nil, err
	}

	return &DirectPipeline{
		broker:   memBroker,
		store:    memStore,
		bucketID: cfg.BucketID,
		cancel:   cancel,
	}, nil
}

// SubmitIngest queues a document for ingestion.
func (p *DirectPipeline) SubmitIngest(ctx context.Context, filePath string) (string, error) {
	return submitIngest(ctx, p.broker, p.store, p.bucketID, filePath)
}

// IngestStatus returns the current state of an ingest request.
func (p *DirectPipeline) IngestStatus(ctx context.Context, requestID string) (*contracts.IngestRecord, error) {
	return p.store.GetIngest(ctx, requestID)
}

// Store exposes the in-memory audit store.
func (p *DirectPipeline) Store() store.Store {
	return p.store
}

// Close stops the agent and shuts down the broker and store.
func (p *DirectPipeline) Close() error {
	p.cancel()
	if err := p.broker.Close(); err != nil {
		return err
	}
	return p.store.Close()
}

// submitIngest publishes an ingest request and records it as pending. Shared
// by both pipeline modes.
func submitIngest(ctx context.Context, brk broker.Broker, st store.Store, bucketID int, filePath string) (string, error) {
	requestID := fmt.Sprintf("req-%d", time.Now().UnixNano())
	fileName := filepath.Base(filePath)

	request := contracts.IngestRequest{
		RequestID: requestID,
		FilePath:  filePath,
		FileName:  fileName,
		BucketID:  bucketID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	data, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	record := &contracts.IngestRecord{
		RequestID: requestID,
		FileName:  fileName,
		BucketID:  bucketID,
		Status:    contracts.IngestStatusPending,
	}
	if err := st.RecordIngest(ctx, record); err != nil {
		return "", fmt.Errorf("failed to record request: %w", err)
	}

	if err := brk.Publish(ctx, contracts.TopicIngestRequests, requestID, data); err != nil {
		return "", fmt.Errorf("failed to publish request: %w", err)
	}

	return requestID, nil
}
