// Package main provides the unified ragbridge CLI with mode detection.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"ragbridge/src/config"
	"ragbridge/src/contracts"
	"ragbridge/src/groundx"
	"ragbridge/src/logger"
	"ragbridge/src/mcp"
	"ragbridge/src/openai"
	"ragbridge/src/pipeline"
	"ragbridge/src/rag"
	"ragbridge/src/store"
	"ragbridge/src/tui"
)

var (
	appConfig *config.Config
	mode      pipeline.Mode
)

var snippetCount int
var historyLimit int

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "ragbridge",
	Short: "ragbridge - retrieval-augmented answers over a GroundX knowledge base",
	Long: `ragbridge ingests PDF documents into a GroundX knowledge base, searches
it for relevant context, and generates answers grounded in the retrieved text.

It supports two modes:
- Direct Mode: in-process ingestion (default)
- Agentic Mode: Redpanda + Postgres, distributed ingest agents

Mode is auto-detected based on the REDPANDA_BROKERS environment variable.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var err error
		appConfig, err = config.LoadFromEnv()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
			os.Exit(1)
		}

		mode = pipeline.DetectMode(appConfig)
	},
}

// newRAGService builds the query-time service from the loaded configuration.
func newRAGService(log logger.Logger) (*rag.Service, *groundx.Client) {
	gxClient := groundx.NewClient(appConfig.GroundXAPIKey)
	oaClient := openai.NewClient(appConfig.OpenAIAPIKey)
	return rag.NewService(gxClient, oaClient, appConfig.BucketID, appConfig.CompletionModel, log), gxClient
}

// serveCmd runs the MCP server on stdio
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server on stdio",
	Long: `Expose the ingestion and retrieval operations as MCP tools over stdio.

Logging goes to stderr; stdout carries the MCP protocol.`,
	Run: func(cmd *cobra.Command, args []string) {
		// stdout is the protocol channel, so all logging goes to stderr
		log := logger.NewStderrLogger()
		ragService, gxClient := newRAGService(log)

		p, err := pipeline.New(appConfig, gxClient)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create pipeline: %v\n", err)
			os.Exit(1)
		}
		defer p.Close()

		log.Info("Starting ragbridge MCP server (%s mode, bucket %d)", mode, appConfig.BucketID)

		srv := mcp.NewServer(ragService, p)
		if err := srv.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "MCP server error: %v\n", err)
			os.Exit(1)
		}
	},
}

// ingestCmd uploads a document to the knowledge base
var ingestCmd = &cobra.Command{
	Use:   "ingest [file-path]",
	Short: "Ingest a PDF document into the knowledge base",
	Long: `Upload a local PDF document to the configured GroundX bucket.

Direct Mode (default): uploads and waits for ingestion to finish.
Agentic Mode: publishes the request to Redpanda and returns a request ID.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		filePath := args[0]
		ctx := context.Background()

		gxClient := groundx.NewClient(appConfig.GroundXAPIKey)

		p, err := pipeline.New(appConfig, gxClient)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create pipeline: %v\n", err)
			os.Exit(1)
		}
		defer p.Close()

		requestID, err := p.SubmitIngest(ctx, filePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to submit ingestion: %v\n", err)
			os.Exit(1)
		}

		if mode == pipeline.AgenticMode {
			fmt.Printf("Submitted ingest request: %s\n", requestID)
			fmt.Printf("  File: %s\n", filePath)
			fmt.Println()
			fmt.Println("The ingest agents will upload and process this document.")
			fmt.Printf("Check status: ragbridge status %s\n", requestID)
			return
		}

		fmt.Printf("Ingesting %s ...\n", filePath)
		if err := waitForIngest(ctx, p, requestID); err != nil {
			fmt.Fprintf(os.Stderr, "Ingestion failed: %v\n", err)
			os.Exit(1)
		}
	},
}

// waitForIngest polls the pipeline until the request reaches a terminal state,
// printing status transitions along the way.
func waitForIngest(ctx context.Context, p pipeline.Pipeline, requestID string) error {
	lastStatus := ""
	for {
		record, err := p.IngestStatus(ctx, requestID)
		if err != nil {
			return err
		}

		if record.Status != lastStatus {
			lastStatus = record.Status
			fmt.Printf("  status: %s\n", record.Status)
		}

		switch record.Status {
		case contracts.IngestStatusComplete:
			fmt.Printf("Done. Process ID: %s\n", record.ProcessID)
			return nil
		case contracts.IngestStatusError:
			return fmt.Errorf("%s", record.Error)
		}

		select {
		case <-time.After(500 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// statusCmd shows the state of an ingest request
var statusCmd = &cobra.Command{
	Use:   "status [request-id]",
	Short: "Check the status of an ingest request",
	Long:  `Query Postgres for the status of an ingest request (agentic mode only).`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		requestID := args[0]
		ctx := context.Background()

		if appConfig.PostgresDSN == "" {
			fmt.Fprintln(os.Stderr, "ERROR: POSTGRES_DSN environment variable is required for the status command")
			os.Exit(1)
		}

		st, err := store.NewPostgresStore(appConfig.PostgresDSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect to Postgres: %v\n", err)
			os.Exit(1)
		}
		defer st.Close()

		record, err := st.GetIngest(ctx, requestID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to get status: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Request ID: %s\n", record.RequestID)
		fmt.Printf("File:       %s\n", record.FileName)
		fmt.Printf("Bucket:     %d\n", record.BucketID)
		fmt.Printf("Process ID: %s\n", record.ProcessID)
		fmt.Printf("Status:     %s\n", record.Status)
		if record.Error != "" {
			fmt.Printf("Error:      %s\n", record.Error)
		}
	},
}

// searchCmd retrieves context for a query
var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the knowledge base and print the retrieved context",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		query := args[0]
		ctx := context.Background()

		ragService, _ := newRAGService(logger.NewSilentLogger())

		contextText, ranked, err := ragService.RetrieveContext(ctx, query, snippetCount)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", rag.WrapError(err))
			os.Exit(1)
		}

		if len(ranked) == 0 {
			fmt.Println("No relevant context found in the knowledge base.")
			return
		}

		fmt.Printf("Retrieved %d snippets (top score %.2f):\n\n", len(ranked), ranked[0].Snippet.Score)
		fmt.Println(contextText)
	},
}

// askCmd generates an answer for a query
var askCmd = &cobra.Command{
	Use:   "ask [query]",
	Short: "Answer a question using retrieved context",
	Long: `Search the knowledge base, assemble a grounded prompt, and generate
an answer with the configured completion model. When nothing relevant is
stored, the answer falls back to the model's general knowledge and is
flagged as ungrounded.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		query := args[0]
		ctx := context.Background()

		ragService, _ := newRAGService(logger.NewSilentLogger())

		answer, err := ragService.Answer(ctx, query)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Query failed: %v\n", rag.WrapError(err))
			os.Exit(1)
		}

		fmt.Println(answer.Text)
		fmt.Println()
		if answer.Grounded {
			fmt.Printf("(grounded in %d snippets, top score %.2f, model %s)\n",
				answer.SnippetCount, answer.Score, appConfig.CompletionModel)
		} else {
			fmt.Printf("(ungrounded - no relevant context found, model %s)\n", appConfig.CompletionModel)
		}
	},
}

// historyCmd lists recent answered queries
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently answered queries",
	Long:  `Query Postgres for the query audit log (agentic mode only).`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		if appConfig.PostgresDSN == "" {
			fmt.Fprintln(os.Stderr, "ERROR: POSTGRES_DSN environment variable is required for the history command")
			os.Exit(1)
		}

		st, err := store.NewPostgresStore(appConfig.PostgresDSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect to Postgres: %v\n", err)
			os.Exit(1)
		}
		defer st.Close()

		records, err := st.ListQueries(ctx, historyLimit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list queries: %v\n", err)
			os.Exit(1)
		}

		if len(records) == 0 {
			fmt.Println("No queries recorded yet.")
			return
		}

		for _, r := range records {
			fmt.Printf("%s  score=%.2f  snippets=%d  model=%s\n", r.RequestID, r.TopScore, r.SnippetCount, r.Model)
			fmt.Printf("  Q: %s\n", r.Query)
			fmt.Printf("  A: %s\n\n", r.Answer)
		}
	},
}

// viewCmd browses search results in the TUI
var viewCmd = &cobra.Command{
	Use:   "view [query]",
	Short: "Browse search results in an interactive TUI",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		query := args[0]
		ctx := context.Background()

		ragService, _ := newRAGService(logger.NewSilentLogger())

		_, ranked, err := ragService.RetrieveContext(ctx, query, snippetCount)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", rag.WrapError(err))
			os.Exit(1)
		}

		if err := tui.Run(query, ranked); err != nil {
			fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	searchCmd.Flags().IntVarP(&snippetCount, "n", "n", rag.DefaultSnippetCount, "max snippets to retrieve")
	viewCmd.Flags().IntVarP(&snippetCount, "n", "n", rag.DefaultSnippetCount, "max snippets to retrieve")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "max entries to list")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(viewCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
