// Package store defines the interface for the audit store. It records
// ingestion requests and query history; document content itself is never
// stored, since GroundX owns document lifecycle after upload.
package store

import (
	"context"
	"errors"

	"ragbridge/src/contracts"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Store defines the interface for persisting ingest records and query history.
type Store interface {
	// RecordIngest creates a new ingestion record in pending state.
	RecordIngest(ctx context.Context, record *contracts.IngestRecord) error

	// UpdateIngestStatus updates status, process ID, and error for a request.
	UpdateIngestStatus(ctx context.Context, requestID, processID, status, errMsg string) error

	// GetIngest returns the ingestion record for a request.
	GetIngest(ctx context.Context, requestID string) (*contracts.IngestRecord, error)

	// ListIngests returns the most recent ingestion records, newest first.
	ListIngests(ctx context.Context, limit int) ([]contracts.IngestRecord, error)

	// RecordQuery appends a query audit entry.
	RecordQuery(ctx context.Context, record *contracts.QueryRecord) error

	// ListQueries returns the most recent query entries, newest first.
	ListQueries(ctx context.Context, limit int) ([]contracts.QueryRecord, error)

	// Close closes the store connection.
	Close() error
}
