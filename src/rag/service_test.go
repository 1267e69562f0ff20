package rag

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ragbridge/src/groundx"
	"ragbridge/src/openai"
)

// newTestService builds a Service backed by httptest doubles for GroundX and
// OpenAI. The GroundX double serves the given snippets; the OpenAI double
// echoes a canned answer and captures the system prompt it was sent.
func newTestService(t *testing.T, snippets []map[string]interface{}, capturedPrompt *string) *Service {
	t.Helper()

	gxServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		text := ""
		score := 0.0
		if len(snippets) > 0 {
			text = snippets[0]["text"].(string)
			score = snippets[0]["score"].(float64)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"search": map[string]interface{}{
				"count":   len(snippets),
				"text":    text,
				"score":   score,
				"results": snippets,
			},
		})
	}))
	t.Cleanup(gxServer.Close)

	oaServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Messages []openai.Message `json:"messages"`
		}
		json.NewDecoder(r.Body).Decode(&payload)
		if capturedPrompt != nil && len(payload.Messages) > 0 {
			*capturedPrompt = payload.Messages[0].Content
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "generated answer"}},
			},
		})
	}))
	t.Cleanup(oaServer.Close)

	gx := groundx.NewClient("gx-key")
	gx.SetBaseURL(gxServer.URL)
	oa := openai.NewClient("sk-key")
	oa.SetBaseURL(oaServer.URL)

	return NewService(gx, oa, 42, "gpt-4o", nil)
}

func TestAnswerGrounded(t *testing.T) {
	var sysPrompt string
	svc := newTestService(t, []map[string]interface{}{
		{"documentId": "d1", "fileName": "report.pdf", "text": "Q3 revenue was $4.2M.", "score": 150.0},
		{"documentId": "d2", "fileName": "report.pdf", "text": "Q2 revenue was $3.9M.", "score": 120.0},
	}, &sysPrompt)

	answer, err := svc.Answer(context.Background(), "what was Q3 revenue?")
	if err != nil {
		t.Fatalf("Answer() unexpected error: %v", err)
	}

	if answer.Text != "generated answer" {
		t.Errorf("Text = %q, want generated answer", answer.Text)
	}
	if !answer.Grounded {
		t.Error("Grounded = false, want true")
	}
	if answer.SnippetCount != 2 {
		t.Errorf("SnippetCount = %d, want 2", answer.SnippetCount)
	}
	if answer.Score != 150.0 {
		t.Errorf("Score = %v, want 150.0", answer.Score)
	}
	if !strings.Contains(sysPrompt, "Q3 revenue was $4.2M.") {
		t.Errorf("system prompt missing retrieved context:\n%s", sysPrompt)
	}
}

func TestAnswerDegradesOnEmptyRetrieval(t *testing.T) {
	var sysPrompt string
	svc := newTestService(t, nil, &sysPrompt)

	answer, err := svc.Answer(context.Background(), "anything at all")
	if err != nil {
		t.Fatalf("Answer() with empty retrieval should not fail, got: %v", err)
	}

	if answer.Text == "" {
		t.Error("degraded answer must still be non-empty")
	}
	if answer.Grounded {
		t.Error("Grounded = true, want false for empty retrieval")
	}
	if answer.SnippetCount != 0 {
		t.Errorf("SnippetCount = %d, want 0", answer.SnippetCount)
	}
	if !strings.Contains(sysPrompt, "general knowledge") {
		t.Errorf("degraded system prompt not used:\n%s", sysPrompt)
	}
}

func TestAnswerRejectsInvalidQuery(t *testing.T) {
	svc := newTestService(t, nil, nil)

	tests := []struct {
		name  string
		query string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"control characters", "query\x00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Answer(context.Background(), tt.query)
			if err == nil {
				t.Error("Answer() expected error for invalid query, got nil")
			}
		})
	}
}

func TestRetrieveContextEmptyBucket(t *testing.T) {
	svc := newTestService(t, nil, nil)

	contextText, ranked, err := svc.RetrieveContext(context.Background(), "anything", 5)
	if err != nil {
		t.Fatalf("RetrieveContext() on empty bucket should not error, got: %v", err)
	}
	if contextText != "" {
		t.Errorf("contextText = %q, want empty", contextText)
	}
	if len(ranked) != 0 {
		t.Errorf("ranked len = %d, want 0", len(ranked))
	}
}

func TestAnswerPropagatesSearchFailure(t *testing.T) {
	gxServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer gxServer.Close()

	gx := groundx.NewClient("bad-key")
	gx.SetBaseURL(gxServer.URL)
	svc := NewService(gx, openai.NewClient("sk-key"), 42, "gpt-4o", nil)

	_, err := svc.Answer(context.Background(), "valid query")
	if err == nil {
		t.Fatal("Answer() expected error when search fails, got nil")
	}

	wrapped := WrapError(err)
	var userErr *UserError
	if !errors.As(wrapped, &userErr) {
		t.Fatalf("WrapError() did not produce a UserError for 401: %v", wrapped)
	}
	if userErr.Message != "Authentication failed" {
		t.Errorf("UserError.Message = %q, want Authentication failed", userErr.Message)
	}
}
