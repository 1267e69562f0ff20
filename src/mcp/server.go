// Package mcp exposes the retrieval and ingestion operations as MCP tools
// over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"ragbridge/src/contracts"
	"ragbridge/src/ingest"
	"ragbridge/src/pipeline"
	"ragbridge/src/rag"
)

// submitPollInterval is how often ingest_document checks for the upload to
// be acknowledged before returning the confirmation.
const submitPollInterval = 200 * time.Millisecond

// submitTimeout bounds how long ingest_document waits for the upload
// acknowledgement.
const submitTimeout = 2 * time.Minute

// Server is the MCP server for ragbridge.
type Server struct {
	mcpServer *server.MCPServer
	rag       *rag.Service
	pipeline  pipeline.Pipeline
}

// NewServer creates a new MCP server.
func NewServer(ragService *rag.Service, p pipeline.Pipeline) *Server {
	s := server.NewMCPServer(
		"ragbridge",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	srv := &Server{
		mcpServer: s,
		rag:       ragService,
		pipeline:  p,
	}
	srv.registerTools()

	return srv
}

// registerTools registers all available tools.
func (s *Server) registerTools() {
	ingestTool := mcp.NewTool("ingest_document",
		mcp.WithDescription("Ingest a local PDF document into the knowledge base. Returns a confirmation with the ingestion process ID; processing continues in the background."),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Path to a local PDF file"),
		),
	)

	searchTool := mcp.NewTool("search_doc_for_rag_context",
		mcp.WithDescription("Search the knowledge base and return the retrieved text for use as RAG context. Returns an empty result when nothing relevant is stored."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query"),
		),
		mcp.WithNumber("n",
			mcp.Description("Max snippets to retrieve (default: 5)"),
		),
	)

	answerTool := mcp.NewTool("process_search_query",
		mcp.WithDescription("Search the knowledge base and generate an answer grounded in the retrieved context. Returns JSON with the query, top relevance score, and the answer text."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Question to answer"),
		),
	)

	s.mcpServer.AddTool(ingestTool, s.handleIngestDocument)
	s.mcpServer.AddTool(searchTool, s.handleSearchContext)
	s.mcpServer.AddTool(answerTool, s.handleProcessSearchQuery)
}

// Run starts the MCP server on stdio.
func (s *Server) Run() error {
	return server.ServeStdio(s.mcpServer)
}

// handleIngestDocument handles the ingest_document tool call. It validates
// the path up front so bad input fails immediately, then submits the upload
// and waits for it to be acknowledged before returning.
func (s *Server) handleIngestDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filePath := request.GetString("file_path", "")
	if filePath == "" {
		return mcp.NewToolResultError("file_path parameter is required"), nil
	}

	if err := ingest.ValidateDocumentPath(filePath); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	requestID, err := s.pipeline.SubmitIngest(ctx, filePath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to submit ingestion: %v", err)), nil
	}

	record, err := s.waitForUpload(ctx, requestID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ingestion submission failed: %v", err)), nil
	}
	if record.Status == contracts.IngestStatusError {
		return mcp.NewToolResultError(fmt.Sprintf("ingestion failed: %s", record.Error)), nil
	}

	confirmation := struct {
		RequestID string `json:"request_id"`
		ProcessID string `json:"process_id"`
		Status    string `json:"status"`
		FileName  string `json:"file_name"`
	}{
		RequestID: record.RequestID,
		ProcessID: record.ProcessID,
		Status:    record.Status,
		FileName:  record.FileName,
	}
	jsonBytes, err := json.Marshal(confirmation)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// waitForUpload polls the pipeline until the upload is acknowledged with a
// process ID or reaches a terminal state.
func (s *Server) waitForUpload(ctx context.Context, requestID string) (*contracts.IngestRecord, error) {
	timeout := time.After(submitTimeout)

	for {
		record, err := s.pipeline.IngestStatus(ctx, requestID)
		if err != nil {
			return nil, err
		}
		if record.ProcessID != "" ||
			record.Status == contracts.IngestStatusComplete ||
			record.Status == contracts.IngestStatusError {
			return record, nil
		}

		select {
		case <-time.After(submitPollInterval):
		case <-timeout:
			return record, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// handleSearchContext handles the search_doc_for_rag_context tool call.
func (s *Server) handleSearchContext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := request.GetString("query", "")
	if query == "" {
		return mcp.NewToolResultError("query parameter is required"), nil
	}

	n := request.GetInt("n", rag.DefaultSnippetCount)

	contextText, _, err := s.rag.RetrieveContext(ctx, query, n)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", rag.WrapError(err))), nil
	}

	if contextText == "" {
		return mcp.NewToolResultText("No relevant context found in the knowledge base."), nil
	}

	return mcp.NewToolResultText(contextText), nil
}

// handleProcessSearchQuery handles the process_search_query tool call.
func (s *Server) handleProcessSearchQuery(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := request.GetString("query", "")
	if query == "" {
		return mcp.NewToolResultError("query parameter is required"), nil
	}

	answer, err := s.rag.Answer(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", rag.WrapError(err))), nil
	}

	s.recordQuery(ctx, answer)

	jsonBytes, err := json.Marshal(answer)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// recordQuery writes the answer to the audit store. Failures are ignored:
// auditing never blocks a response.
func (s *Server) recordQuery(ctx context.Context, answer *rag.Answer) {
	if s.pipeline == nil {
		return
	}

	record := &contracts.QueryRecord{
		RequestID:    fmt.Sprintf("qry-%d", time.Now().UnixNano()),
		Query:        answer.Query,
		Answer:       answer.Text,
		SnippetCount: answer.SnippetCount,
		TopScore:     answer.Score,
		Model:        s.rag.Model(),
	}
	_ = s.pipeline.Store().RecordQuery(ctx, record)
}
