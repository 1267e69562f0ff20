// Package contracts defines the message types and topic names shared between
// the CLI, the MCP server, and the ingest agent.
package contracts

// IngestRequest asks the ingest agent to upload a local document to GroundX.
// Published to: ragbridge.ingest.requests
// Key: {request_id}
type IngestRequest struct {
	RequestID string `json:"request_id"`
	// Absolute or relative path to the document on the local filesystem.
	FilePath string `json:"file_path"`
	// Base name of the file, used as the document name in the bucket.
	FileName string `json:"file_name"`
	// GroundX bucket the document is ingested into.
	BucketID  int    `json:"bucket_id"`
	Timestamp string `json:"timestamp"`
}

// IngestUpdate reports ingestion progress for a request.
// Published to: ragbridge.ingest.updates
// Key: {request_id}
type IngestUpdate struct {
	RequestID string `json:"request_id"`
	// ProcessID is the ingestion handle assigned by GroundX.
	ProcessID string `json:"process_id,omitempty"`
	// Status is one of: pending, uploading, processing, complete, error.
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Ingestion status values carried by IngestUpdate and the store.
const (
	IngestStatusPending    = "pending"
	IngestStatusUploading  = "uploading"
	IngestStatusProcessing = "processing"
	IngestStatusComplete   = "complete"
	IngestStatusError      = "error"
)

// IngestRecord is the stored view of an ingestion request.
type IngestRecord struct {
	RequestID string
	FileName  string
	BucketID  int
	ProcessID string
	Status    string
	Error     string
}

// QueryRecord is the stored audit entry for a query-time operation.
// Retrieved snippets and answers are transient; only this summary is kept.
type QueryRecord struct {
	RequestID    string
	Query        string
	Answer       string
	SnippetCount int
	TopScore     float64
	Model        string
}

// Topic names used in distributed (agentic) mode.
const (
	// TopicIngestRequests carries IngestRequest messages.
	TopicIngestRequests = "ragbridge.ingest.requests"

	// TopicIngestUpdates carries IngestUpdate messages.
	TopicIngestUpdates = "ragbridge.ingest.updates"
)
