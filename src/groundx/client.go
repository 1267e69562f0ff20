// Package groundx provides a client for interacting with the GroundX
// knowledge-base API. Ingestion, indexing, and retrieval ranking are owned by
// the GroundX service; this client only forwards documents and queries.
package groundx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	// APIBaseURL is the base URL for the GroundX API.
	APIBaseURL = "https://api.eyelevel.ai/api/v1"
)

const (
	// defaultTimeout bounds status polls and searches.
	defaultTimeout = 30 * time.Second
	// uploadTimeout bounds document uploads, which dominate the time budget.
	uploadTimeout = 120 * time.Second
)

// Client is a GroundX API client.
type Client struct {
	apiKey       string
	baseURL      string
	httpClient   *http.Client
	uploadClient *http.Client
}

// Ingest represents the state of a document ingestion.
type Ingest struct {
	// ProcessID is the handle assigned by GroundX for status polling.
	ProcessID string `json:"processId"`
	// Status is the service-reported ingestion status
	// (queued, processing, complete, error, cancelled).
	Status string `json:"status"`
}

// Snippet is a single retrieved piece of text with its relevance score.
type Snippet struct {
	DocumentID string  `json:"documentId"`
	FileName   string  `json:"fileName"`
	Text       string  `json:"text"`
	Score      float64 `json:"score"`
}

// SearchResult holds ranked snippets for a query. The snippet schema is owned
// by GroundX; fields not needed for prompt assembly are not decoded.
type SearchResult struct {
	Count int `json:"count"`
	// Text is the service-composed concatenation of all result snippets.
	Text string `json:"text"`
	// Score is the relevance score of the top result.
	Score    float64   `json:"score"`
	Snippets []Snippet `json:"results"`
}

// ingestEnvelope wraps ingest responses: {"ingest": {...}}.
type ingestEnvelope struct {
	Ingest Ingest `json:"ingest"`
}

// searchEnvelope wraps search responses: {"search": {...}}.
type searchEnvelope struct {
	Search SearchResult `json:"search"`
}

// NewClient creates a new GroundX API client.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:       apiKey,
		baseURL:      APIBaseURL,
		httpClient:   &http.Client{Timeout: defaultTimeout},
		uploadClient: &http.Client{Timeout: uploadTimeout},
	}
}

// SetBaseURL overrides the API base URL. Used in tests.
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// IngestLocalDocument uploads a local file into the given bucket and returns
// the ingestion handle. Document content is not retained after the call
// returns; lifecycle is owned by GroundX.
func (c *Client) IngestLocalDocument(ctx context.Context, bucketID int, filePath string) (*Ingest, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer file.Close()

	fileName := filepath.Base(filePath)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	metadata := map[string]interface{}{
		"bucketId": bucketID,
		"fileName": fileName,
		"fileType": "pdf",
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := writer.WriteField("metadata", string(metadataJSON)); err != nil {
		return nil, fmt.Errorf("failed to write metadata field: %w", err)
	}

	part, err := writer.CreateFormFile("blob", fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to read document content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize upload body: %w", err)
	}

	url := fmt.Sprintf("%s/ingest/documents/local", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := c.uploadClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var envelope ingestEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &envelope.Ingest, nil
}

// GetIngestStatus fetches the current status of an ingestion by its process ID.
func (c *Client) GetIngestStatus(ctx context.Context, processID string) (*Ingest, error) {
	url := fmt.Sprintf("%s/ingest/%s", c.baseURL, processID)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var envelope ingestEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &envelope.Ingest, nil
}

// SearchContent issues a query against a bucket and returns ranked snippets.
// Searching an empty bucket returns an empty snippet set, not an error.
// n limits the number of results; n <= 0 uses the service default.
func (c *Client) SearchContent(ctx context.Context, bucketID int, query string, n int) (*SearchResult, error) {
	payload := map[string]interface{}{
		"query": query,
	}
	if n > 0 {
		payload["n"] = n
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search payload: %w", err)
	}

	url := fmt.Sprintf("%s/search/content/%d", c.baseURL, bucketID)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payloadJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var envelope searchEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &envelope.Search, nil
}
