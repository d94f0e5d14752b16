package rag

import (
	"context"
	"strings"
)

// Prompt is the assembled prompt for the downstream generation step.
// When retrieval fails the prompt degrades to system prompt + query and
// FallbackReason retains the failure for logging; the error itself is
// never propagated, because prompt assembly is best-effort enrichment,
// not a critical path.
type Prompt struct {
	Text           string `json:"prompt"`
	UsedContext    bool   `json:"usedContext"`
	ResultCount    int    `json:"resultCount"`
	FallbackReason string `json:"fallbackReason,omitempty"`
}

// BuildPrompt concatenates the optional system prompt, the retrieved
// context block (omitted entirely when empty) and the mandatory user
// query block.
func (s *Service) BuildPrompt(ctx context.Context, query, systemPrompt string, opts SearchOptions) (*Prompt, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, validationErr("query", "must not be empty")
	}

	prompt := &Prompt{}

	resp, err := s.Search(ctx, query, opts)
	switch {
	case err != nil:
		prompt.FallbackReason = err.Error()
	case resp.Context != "":
		prompt.UsedContext = true
		prompt.ResultCount = resp.TotalResults
	}

	var b strings.Builder
	if systemPrompt != "" {
		b.WriteString(systemPrompt)
		b.WriteString("\n\n")
	}
	if prompt.UsedContext {
		b.WriteString("# Relevant Context:\n")
		b.WriteString(resp.Context)
		b.WriteString("\n\n")
	}
	b.WriteString("# User Query:\n")
	b.WriteString(query)

	prompt.Text = b.String()
	return prompt, nil
}
