package llm

import (
	"context"
	"os"
	"testing"
)

// mockProvider records completion calls for assertions.
type mockProvider struct {
	calls    []CompletionRequest
	response *CompletionResponse
	err      error
}

func (m *mockProvider) Complete(_ context.Context, req CompletionRequest) (*CompletionResponse, error) {
	m.calls = append(m.calls, req)
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *mockProvider) Name() string { return "mock" }

func TestMockProviderRecordsCalls(t *testing.T) {
	m := &mockProvider{response: &CompletionResponse{Content: "hi"}}

	resp, err := m.Complete(context.Background(), CompletionRequest{
		Model:    "test-model",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content != "hi" {
		t.Errorf("content = %q, want %q", resp.Content, "hi")
	}
	if len(m.calls) != 1 {
		t.Fatalf("recorded %d calls, want 1", len(m.calls))
	}
	if m.calls[0].Model != "test-model" {
		t.Errorf("recorded model = %q", m.calls[0].Model)
	}
}

func TestFactoryReturnsErrorForMissingAPIKey(t *testing.T) {
	old := os.Getenv("OPENAI_API_KEY")
	os.Unsetenv("OPENAI_API_KEY")
	defer os.Setenv("OPENAI_API_KEY", old)

	if _, err := NewProvider("openai", "gpt-4o-mini", ""); err == nil {
		t.Error("expected error when OPENAI_API_KEY is unset")
	}
}

func TestFactoryReturnsErrorForUnknownProvider(t *testing.T) {
	if _, err := NewProvider("anthropic", "model", ""); err == nil {
		t.Error("expected error for unsupported provider")
	}
}

func TestFactoryCreatesOllamaWithoutAPIKey(t *testing.T) {
	p, err := NewProvider("ollama", "llama3", "http://ollama.internal:11434")
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	if p.Name() != "ollama" {
		t.Errorf("name = %q, want ollama", p.Name())
	}
}

func TestFactoryCreatesOllamaWithDefaultHost(t *testing.T) {
	old := os.Getenv("OLLAMA_HOST")
	os.Unsetenv("OLLAMA_HOST")
	defer os.Setenv("OLLAMA_HOST", old)

	p, err := NewProvider("ollama", "llama3", "")
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	op, ok := p.(*OllamaProvider)
	if !ok {
		t.Fatalf("provider type %T", p)
	}
	if op.baseURL != "http://localhost:11434" {
		t.Errorf("baseURL = %q", op.baseURL)
	}
}

func TestFactoryCreatesOpenAIProvider(t *testing.T) {
	os.Setenv("OPENAI_API_KEY", "test-key")
	defer os.Unsetenv("OPENAI_API_KEY")

	p, err := NewProvider("openai", "gpt-4o-mini", "")
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	if p.Name() != "openai" {
		t.Errorf("name = %q, want openai", p.Name())
	}
}

func TestRoles(t *testing.T) {
	if RoleSystem != "system" || RoleUser != "user" || RoleAssistant != "assistant" {
		t.Error("role constants changed")
	}
}
