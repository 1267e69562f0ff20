package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ragbridge/src/broker"
	"ragbridge/src/contracts"
	"ragbridge/src/groundx"
	"ragbridge/src/logger"
	"ragbridge/src/store"
)

// agentIngestTimeout bounds the time spent on a single document, upload and
// status polling included.
const agentIngestTimeout = 10 * time.Minute

// Agent consumes ingest requests from the broker, uploads documents to
// GroundX, polls ingestion to completion, and publishes status updates.
type Agent struct {
	broker broker.Broker
	client *groundx.Client
	store  store.Store
	logger logger.Logger

	pollInterval time.Duration
}

// NewAgent creates a new ingest agent. store may be nil when no audit store
// is configured.
func NewAgent(brk broker.Broker, client *groundx.Client, st store.Store, log logger.Logger) *Agent {
	if log == nil {
		log = logger.NewSilentLogger()
	}
	return &Agent{
		broker:       brk,
		client:       client,
		store:        st,
		logger:       log,
		pollInterval: DefaultPollInterval,
	}
}

// SetPollInterval overrides the status poll interval. Used in tests.
func (a *Agent) SetPollInterval(d time.Duration) {
	a.pollInterval = d
}

// Run starts the agent's main loop. It subscribes to the ingest request
// topic and processes incoming requests until the context is cancelled.
func (a *Agent) Run(ctx context.Context) error {
	msgChan, err := a.Listen(ctx)
	if err != nil {
		return err
	}
	return a.Serve(ctx, msgChan)
}

// Listen subscribes to the ingest request topic. Callers that need the
// subscription established before any request is published subscribe here
// first and run Serve in a goroutine.
func (a *Agent) Listen(ctx context.Context) (<-chan broker.Message, error) {
	a.logger.Info("[IngestAgent] Starting...")

	msgChan, err := a.broker.Subscribe(ctx, contracts.TopicIngestRequests, "ragbridge-ingest")
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", contracts.TopicIngestRequests, err)
	}

	a.logger.Info("[IngestAgent] Listening for requests on '%s' topic...", contracts.TopicIngestRequests)
	return msgChan, nil
}

// Serve processes incoming requests until the context is cancelled or the
// channel closes.
func (a *Agent) Serve(ctx context.Context, msgChan <-chan broker.Message) error {
	for {
		select {
		case msg, ok := <-msgChan:
			if !ok {
				a.logger.Info("[IngestAgent] Message channel closed, shutting down")
				return nil
			}

			if err := a.processRequest(ctx, msg); err != nil {
				a.logger.Error("[IngestAgent] Error processing request: %v", err)
			}

		case <-ctx.Done():
			a.logger.Info("[IngestAgent] Context cancelled, shutting down")
			return ctx.Err()
		}
	}
}

// processRequest handles a single ingest request end to end.
func (a *Agent) processRequest(ctx context.Context, msg broker.Message) error {
	var request contracts.IngestRequest
	if err := json.Unmarshal(msg.Value, &request); err != nil {
		return fmt.Errorf("failed to unmarshal request: %w", err)
	}

	a.logger.Info("[IngestAgent] Processing request %s: %s -> bucket %d",
		request.RequestID, request.FileName, request.BucketID)

	reqCtx, cancel := context.WithTimeout(ctx, agentIngestTimeout)
	defer cancel()

	a.setStatus(reqCtx, request.RequestID, "", contracts.IngestStatusUploading, "")

	ingest, err := UploadDocument(reqCtx, a.client, request.BucketID, request.FilePath)
	if err != nil {
		a.setStatus(reqCtx, request.RequestID, "", contracts.IngestStatusError, err.Error())
		return fmt.Errorf("upload failed for %s: %w", request.RequestID, err)
	}

	a.logger.Info("[IngestAgent] Uploaded %s, process id %s", request.FileName, ingest.ProcessID)
	a.setStatus(reqCtx, request.RequestID, ingest.ProcessID, contracts.IngestStatusProcessing, "")

	final, err := WaitForCompletion(reqCtx, a.client, ingest.ProcessID, a.pollInterval)
	if err != nil {
		a.setStatus(reqCtx, request.RequestID, ingest.ProcessID, contracts.IngestStatusError, err.Error())
		return fmt.Errorf("ingestion polling failed for %s: %w", request.RequestID, err)
	}

	if final.Status == "complete" {
		a.setStatus(reqCtx, request.RequestID, ingest.ProcessID, contracts.IngestStatusComplete, "")
		a.logger.Info("[IngestAgent] Request %s complete", request.RequestID)
	} else {
		a.setStatus(reqCtx, request.RequestID, ingest.ProcessID, contracts.IngestStatusError,
			fmt.Sprintf("ingestion ended with status %s", final.Status))
		a.logger.Error("[IngestAgent] Request %s ended with status %s", request.RequestID, final.Status)
	}

	return nil
}

// setStatus records the status in the store (when configured) and publishes
// an IngestUpdate. Failures here are logged, not fatal: the ingestion itself
// already succeeded or failed independently of the bookkeeping.
func (a *Agent) setStatus(ctx context.Context, requestID, processID, status, errMsg string) {
	if a.store != nil {
		if err := a.store.UpdateIngestStatus(ctx, requestID, processID, status, errMsg); err != nil {
			a.logger.Error("[IngestAgent] Failed to update store for %s: %v", requestID, err)
		}
	}

	update := contracts.IngestUpdate{
		RequestID: requestID,
		ProcessID: processID,
		Status:    status,
		Error:     errMsg,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	data, err := json.Marshal(update)
	if err != nil {
		a.logger.Error("[IngestAgent] Failed to marshal update for %s: %v", requestID, err)
		return
	}

	if err := a.broker.Publish(ctx, contracts.TopicIngestUpdates, requestID, data); err != nil {
		a.logger.Error("[IngestAgent] Failed to publish update for %s: %v", requestID, err)
	}
}
