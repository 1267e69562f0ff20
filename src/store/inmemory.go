package store

import (
	"context"
	"sync"

	"ragbridge/src/contracts"
)

// InMemoryStore is a thread-safe in-memory Store for direct mode, where no
// Postgres is configured. History is lost when the process exits.
type InMemoryStore struct {
	mu      sync.RWMutex
	ingests []contracts.IngestRecord // append order = chronological
	byID    map[string]int           // request_id -> index into ingests
	queries []contracts.QueryRecord
}

// NewInMemoryStore creates a new in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byID: make(map[string]int),
	}
}

// RecordIngest creates a new ingestion record.
func (s *InMemoryStore) RecordIngest(ctx context.Context, record *contracts.IngestRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID[record.RequestID] = len(s.ingests)
	s.ingests = append(s.ingests, *record)
	return nil
}

// UpdateIngestStatus updates status, process ID, and error for a request.
func (s *InMemoryStore) UpdateIngestStatus(ctx context.Context, requestID, processID, status, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.byID[requestID]
	if !ok {
		return ErrNotFound
	}

	if processID != "" {
		s.ingests[idx].ProcessID = processID
	}
	s.ingests[idx].Status = status
	s.ingests[idx].Error = errMsg
	return nil
}

// GetIngest returns the ingestion record for a request.
func (s *InMemoryStore) GetIngest(ctx context.Context, requestID string) (*contracts.IngestRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byID[requestID]
	if !ok {
		return nil, ErrNotFound
	}

	record := s.ingests[idx]
	return &record, nil
}

// ListIngests returns the most recent ingestion records, newest first.
func (s *InMemoryStore) ListIngests(ctx context.Context, limit int) ([]contracts.IngestRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.ingests)
	if limit <= 0 || limit > n {
		limit = n
	}

	records := make([]contracts.IngestRecord, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		records = append(records, s.ingests[i])
	}
	return records, nil
}

// RecordQuery appends a query audit entry.
func (s *InMemoryStore) RecordQuery(ctx context.Context, record *contracts.QueryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queries = append(s.queries, *record)
	return nil
}

// ListQueries returns the most recent query entries, newest first.
func (s *InMemoryStore) ListQueries(ctx context.Context, limit int) ([]contracts.QueryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.queries)
	if limit <= 0 || limit > n {
		limit = n
	}

	records := make([]contracts.QueryRecord, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		records = append(records, s.queries[i])
	}
	return records, nil
}

// Close is a no-op for the in-memory store.
func (s *InMemoryStore) Close() error {
	return nil
}
