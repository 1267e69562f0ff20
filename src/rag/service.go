// Package rag implements the query-time orchestration: search the knowledge
// base, rank and clean the retrieved snippets, assemble a grounded prompt,
// and forward it to the completion model. Control flow is strictly linear
// and synchronous; any provider failure propagates to the caller.
package rag

import (
	"context"
	"fmt"

	"ragbridge/src/groundx"
	"ragbridge/src/logger"
	"ragbridge/src/openai"
	"ragbridge/src/prompt"
	"ragbridge/src/ranking"
	"ragbridge/src/sanitize"
)

// DefaultSnippetCount is the number of snippets requested per search when the
// caller does not specify one.
const DefaultSnippetCount = 5

// Service wires the retrieval and generation clients together.
type Service struct {
	groundx  *groundx.Client
	openai   *openai.Client
	bucketID int
	model    string
	logger   logger.Logger
}

// Answer is the result of a query-time operation. It is transient, produced
// per request and never stored beyond the audit summary.
type Answer struct {
	Query string `json:"query"`
	// Score is the relevance score of the top retrieved snippet.
	Score float64 `json:"score"`
	// Text is the generated answer.
	Text string `json:"result"`
	// Grounded is false when retrieval found nothing and the answer came
	// from the model's general knowledge.
	Grounded     bool `json:"grounded"`
	SnippetCount int  `json:"snippet_count"`
}

// NewService creates a query-time service for the given bucket and model.
func NewService(gx *groundx.Client, oa *openai.Client, bucketID int, model string, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewSilentLogger()
	}
	return &Service{
		groundx:  gx,
		openai:   oa,
		bucketID: bucketID,
		model:    model,
		logger:   log,
	}
}

// Model returns the completion model this service uses.
func (s *Service) Model() string {
	return s.model
}

// RetrieveContext searches the bucket and returns the ranked, cleaned snippet
// context for a query, along with the individual ranked snippets.
// An empty bucket yields empty context and no error.
func (s *Service) RetrieveContext(ctx context.Context, query string, n int) (string, []ranking.RankedSnippet, error) {
	if !sanitize.IsPrintableQuery(query) {
		return "", nil, ErrEmptyQuery
	}
	if n <= 0 {
		n = DefaultSnippetCount
	}

	s.logger.Info("[RAG] Searching bucket %d: %q (n=%d)", s.bucketID, query, n)

	result, err := s.groundx.SearchContent(ctx, s.bucketID, query, n)
	if err != nil {
		return "", nil, fmt.Errorf("knowledge base search failed: %w", err)
	}

	ranked := ranking.RankSnippets(result.Snippets)
	contextText, included := ranking.BuildContext(ranked, 0)

	s.logger.Info("[RAG] Retrieved %d snippets, %d included in context", len(ranked), included)

	return contextText, ranked, nil
}

// Answer runs the full RAG flow for a query: retrieve, rank, prompt,
// generate. When retrieval finds nothing the answer degrades to ungrounded
// general knowledge rather than failing.
func (s *Service) Answer(ctx context.Context, query string) (*Answer, error) {
	contextText, ranked, err := s.RetrieveContext(ctx, query, DefaultSnippetCount)
	if err != nil {
		return nil, err
	}

	systemPrompt := prompt.BuildSystemPrompt(contextText)

	messages := []openai.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: query},
	}

	s.logger.Info("[RAG] Requesting completion from %s (grounded=%v)", s.model, prompt.IsGrounded(systemPrompt))

	text, err := s.openai.ChatCompletion(ctx, s.model, messages)
	if err != nil {
		return nil, fmt.Errorf("answer generation failed: %w", err)
	}

	answer := &Answer{
		Query:        query,
		Text:         text,
		Grounded:     prompt.IsGrounded(systemPrompt),
		SnippetCount: len(ranked),
	}
	if len(ranked) > 0 {
		answer.Score = ranked[0].Snippet.Score
	}

	return answer, nil
}
