// Package ingest provides document ingestion: path validation, upload to the
// knowledge base, and ingestion status polling. The distributed agent that
// consumes ingest requests from the broker also lives here.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ragbridge/src/groundx"
)

var (
	// ErrFileNotFound is returned when the document path does not exist.
	ErrFileNotFound = errors.New("file not found")
	// ErrUnsupportedFileType is returned for non-PDF documents.
	ErrUnsupportedFileType = errors.New("only PDF files are supported")
)

// DefaultPollInterval is the delay between ingestion status polls.
const DefaultPollInterval = 5 * time.Second

// ValidateDocumentPath checks that the path points to an existing PDF file.
func ValidateDocumentPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrUnsupportedFileType, path)
	}
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return fmt.Errorf("%w: %s", ErrUnsupportedFileType, path)
	}
	return nil
}

// UploadDocument validates the path and uploads the document to the bucket.
// Document content is not retained after the call returns.
func UploadDocument(ctx context.Context, client *groundx.Client, bucketID int, path string) (*groundx.Ingest, error) {
	if err := ValidateDocumentPath(path); err != nil {
		return nil, err
	}
	return client.IngestLocalDocument(ctx, bucketID, path)
}

// WaitForCompletion polls the ingestion status until GroundX reports a
// terminal state or the context is cancelled.
func WaitForCompletion(ctx context.Context, client *groundx.Client, processID string, interval time.Duration) (*groundx.Ingest, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		status, err := client.GetIngestStatus(ctx, processID)
		if err != nil {
			return nil, fmt.Errorf("failed to poll ingestion %s: %w", processID, err)
		}

		if isTerminalStatus(status.Status) {
			return status, nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// isTerminalStatus reports whether a GroundX ingestion status is final.
func isTerminalStatus(status string) bool {
	switch status {
	case "complete", "error", "cancelled":
		return true
	}
	return false
}
