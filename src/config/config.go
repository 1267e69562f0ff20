// Package config provides configuration management for the ragbridge application.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultCompletionModel is used when COMPLETION_MODEL is not set.
const DefaultCompletionModel = "gpt-4o"

// Config holds the application configuration.
// It is loaded once at startup and immutable for the process lifetime.
type Config struct {
	// GroundXAPIKey authenticates against the GroundX knowledge-base API.
	GroundXAPIKey string
	// OpenAIAPIKey authenticates against the OpenAI chat-completion API.
	OpenAIAPIKey string
	// BucketID is the GroundX bucket documents are ingested into and searched.
	BucketID int
	// CompletionModel is the chat model used for answer generation.
	CompletionModel string

	// RedpandaBrokers enables distributed (agentic) mode when non-empty.
	RedpandaBrokers []string
	// PostgresDSN enables the Postgres audit store when non-empty.
	// Required when RedpandaBrokers is set: agentic mode tracks request
	// state in Postgres.
	PostgresDSN string
}

// LoadFromEnv loads configuration from environment variables.
// Required keys fail here, at startup, rather than at first use.
func LoadFromEnv() (*Config, error) {
	groundxKey := os.Getenv("GROUNDX_API_KEY")
	if groundxKey == "" {
		return nil, fmt.Errorf("GROUNDX_API_KEY environment variable is required")
	}

	openaiKey := os.Getenv("OPENAI_API_KEY")
	if openaiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required")
	}

	bucketRaw := os.Getenv("GROUNDX_BUCKET_ID")
	if bucketRaw == "" {
		return nil, fmt.Errorf("GROUNDX_BUCKET_ID environment variable is required")
	}
	bucketID, err := strconv.Atoi(bucketRaw)
	if err != nil {
		return nil, fmt.Errorf("GROUNDX_BUCKET_ID must be an integer, got %q", bucketRaw)
	}

	model := os.Getenv("COMPLETION_MODEL")
	if model == "" {
		model = DefaultCompletionModel
	}

	cfg := &Config{
		GroundXAPIKey:   groundxKey,
		OpenAIAPIKey:    openaiKey,
		BucketID:        bucketID,
		CompletionModel: model,
		PostgresDSN:     os.Getenv("POSTGRES_DSN"),
	}

	if brokers := os.Getenv("REDPANDA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.RedpandaBrokers = append(cfg.RedpandaBrokers, b)
			}
		}
	}

	return cfg, nil
}

// MustLoadFromEnv loads configuration from environment variables and panics on error.
// This is useful for initialization in main() where configuration errors should be fatal.
func MustLoadFromEnv() *Config {
	cfg, err := LoadFromEnv()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}
