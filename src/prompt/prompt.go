// Package prompt assembles the system prompt that grounds answer generation
// in retrieved knowledge-base context.
package prompt

import (
	"fmt"
	"strings"
)

// groundedTemplate instructs the model to answer from the retrieved context.
// The context is fenced so the model can distinguish it from instructions.
const groundedTemplate = `You are a highly knowledgeable assistant. Answer the user's question using only the reference material below, retrieved from the knowledge base. Cite specifics from the material where possible. If the material does not contain the answer, say so rather than guessing.

Reference material:
===
%s
===`

// degradedPrompt is used when retrieval produced no snippets. The answer
// operation degrades rather than fails: the model is told there is no
// context and asked to answer from general knowledge with a caveat.
const degradedPrompt = `You are a highly knowledgeable assistant. The knowledge base returned no material relevant to the user's question. Answer from general knowledge, and state clearly that the answer is not grounded in the knowledge base.`

// BuildSystemPrompt returns the system prompt for answer generation.
// contextText is the ranked, cleaned snippet text; empty means retrieval
// found nothing.
func BuildSystemPrompt(contextText string) string {
	if strings.TrimSpace(contextText) == "" {
		return degradedPrompt
	}
	return fmt.Sprintf(groundedTemplate, contextText)
}

// IsGrounded reports whether a system prompt produced by BuildSystemPrompt
// carries retrieved context.
func IsGrounded(systemPrompt string) bool {
	return strings.Contains(systemPrompt, "===")
}
