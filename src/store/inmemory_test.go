package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"ragbridge/src/contracts"
)

func TestInMemoryStoreIngestLifecycle(t *testing.T) {
	s := NewInMemoryStore()
	defer s.Close()
	ctx := context.Background()

	record := &contracts.IngestRecord{
		RequestID: "req-1",
		FileName:  "report.pdf",
		BucketID:  42,
		Status:    contracts.IngestStatusPending,
	}

	if err := s.RecordIngest(ctx, record); err != nil {
		t.Fatalf("RecordIngest() unexpected error: %v", err)
	}

	if err := s.UpdateIngestStatus(ctx, "req-1", "proc-9", contracts.IngestStatusProcessing, ""); err != nil {
		t.Fatalf("UpdateIngestStatus() unexpected error: %v", err)
	}

	got, err := s.GetIngest(ctx, "req-1")
	if err != nil {
		t.Fatalf("GetIngest() unexpected error: %v", err)
	}
	if got.ProcessID != "proc-9" {
		t.Errorf("ProcessID = %v, want proc-9", got.ProcessID)
	}
	if got.Status != contracts.IngestStatusProcessing {
		t.Errorf("Status = %v, want processing", got.Status)
	}

	// Empty process ID on update preserves the existing one.
	if err := s.UpdateIngestStatus(ctx, "req-1", "", contracts.IngestStatusComplete, ""); err != nil {
		t.Fatalf("UpdateIngestStatus() unexpected error: %v", err)
	}
	got, _ = s.GetIngest(ctx, "req-1")
	if got.ProcessID != "proc-9" {
		t.Errorf("ProcessID after empty update = %v, want proc-9", got.ProcessID)
	}
	if got.Status != contracts.IngestStatusComplete {
		t.Errorf("Status = %v, want complete", got.Status)
	}
}

func TestInMemoryStoreNotFound(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	if _, err := s.GetIngest(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetIngest() error = %v, want ErrNotFound", err)
	}
	if err := s.UpdateIngestStatus(ctx, "missing", "", "complete", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateIngestStatus() error = %v, want ErrNotFound", err)
	}
}

func TestInMemoryStoreListIngests(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		s.RecordIngest(ctx, &contracts.IngestRecord{
			RequestID: fmt.Sprintf("req-%d", i),
			FileName:  "doc.pdf",
			Status:    contracts.IngestStatusPending,
		})
	}

	records, err := s.ListIngests(ctx, 3)
	if err != nil {
		t.Fatalf("ListIngests() unexpected error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len = %d, want 3", len(records))
	}
	// Newest first.
	if records[0].RequestID != "req-4" {
		t.Errorf("records[0].RequestID = %v, want req-4", records[0].RequestID)
	}

	all, _ := s.ListIngests(ctx, 0)
	if len(all) != 5 {
		t.Errorf("ListIngests(0) len = %d, want 5", len(all))
	}
}

func TestInMemoryStoreQueries(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		s.RecordQuery(ctx, &contracts.QueryRecord{
			RequestID: fmt.Sprintf("q-%d", i),
			Query:     "question",
			Answer:    "answer",
			Model:     "gpt-4o",
		})
	}

	records, err := s.ListQueries(ctx, 2)
	if err != nil {
		t.Fatalf("ListQueries() unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len = %d, want 2", len(records))
	}
	if records[0].RequestID != "q-2" {
		t.Errorf("records[0].RequestID = %v, want q-2", records[0].RequestID)
	}
}
