package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Embedding.Provider != ProviderOllama {
		t.Errorf("expected default embedding provider %q, got %q", ProviderOllama, cfg.Embedding.Provider)
	}
	if cfg.Embedding.Dimensions != 1024 {
		t.Errorf("expected default dimensions 1024, got %d", cfg.Embedding.Dimensions)
	}
	if cfg.Store.Backend != StoreMemory {
		t.Errorf("expected default store backend %q, got %q", StoreMemory, cfg.Store.Backend)
	}
	if cfg.Store.Collection != "diagrams" {
		t.Errorf("expected default collection %q, got %q", "diagrams", cfg.Store.Collection)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default server port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Search.Limit != 5 {
		t.Errorf("expected default search limit 5, got %d", cfg.Search.Limit)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.diagrag.yml")

	original := DefaultConfig()
	original.Embedding.Provider = ProviderOpenAI
	original.Embedding.Model = "text-embedding-3-small"
	original.Store.Backend = StoreQdrant
	original.Store.Qdrant.Host = "qdrant.internal"
	original.Store.Qdrant.Port = 7443
	original.Include = []string{"diagrams/**/*.puml", "docs/**/*.mmd"}
	original.Search.Threshold = 0.55

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Embedding.Provider != original.Embedding.Provider {
		t.Errorf("embedding.provider: got %q, want %q", loaded.Embedding.Provider, original.Embedding.Provider)
	}
	if loaded.Store.Backend != original.Store.Backend {
		t.Errorf("store.backend: got %q, want %q", loaded.Store.Backend, original.Store.Backend)
	}
	if loaded.Store.Qdrant.Host != original.Store.Qdrant.Host {
		t.Errorf("store.qdrant.host: got %q, want %q", loaded.Store.Qdrant.Host, original.Store.Qdrant.Host)
	}
	if loaded.Store.Qdrant.Port != original.Store.Qdrant.Port {
		t.Errorf("store.qdrant.port: got %d, want %d", loaded.Store.Qdrant.Port, original.Store.Qdrant.Port)
	}
	if loaded.Search.Threshold != original.Search.Threshold {
		t.Errorf("search.threshold: got %f, want %f", loaded.Search.Threshold, original.Search.Threshold)
	}
	if len(loaded.Include) != len(original.Include) {
		t.Fatalf("include length: got %d, want %d", len(loaded.Include), len(original.Include))
	}
	for i, v := range loaded.Include {
		if v != original.Include[i] {
			t.Errorf("include[%d]: got %q, want %q", i, v, original.Include[i])
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.Embedding.Provider != ProviderOllama {
		t.Errorf("expected default embedding provider, got %q", cfg.Embedding.Provider)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	os.Setenv("DIAGRAG_EMBEDDING_PROVIDER", "openai")
	os.Setenv("DIAGRAG_SERVER_PORT", "9090")
	defer os.Unsetenv("DIAGRAG_EMBEDDING_PROVIDER")
	defer os.Unsetenv("DIAGRAG_SERVER_PORT")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Embedding.Provider != ProviderOpenAI {
		t.Errorf("env override failed: got %q, want %q", loaded.Embedding.Provider, ProviderOpenAI)
	}
	if loaded.Server.Port != 9090 {
		t.Errorf("env override failed: got %d, want 9090", loaded.Server.Port)
	}
}

func TestValidateValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should be valid, got: %v", err)
	}
}

func TestValidateInvalidEmbeddingProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Embedding.Provider = "anthropic"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for unsupported embedding provider")
	}
}

func TestValidateEmptyModel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Embedding.Model = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for empty embedding model")
	}
}

func TestValidateBadDimensions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Embedding.Dimensions = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for zero dimensions")
	}
}

func TestValidateInvalidBackend(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Store.Backend = "pinecone"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for unsupported store backend")
	}
}

func TestValidateQdrantRequiresHost(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Store.Backend = StoreQdrant
	cfg.Store.Qdrant.Host = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for qdrant backend without host")
	}
}

func TestValidateBadPort(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for out-of-range server port")
	}
}

func TestValidateBadThreshold(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Search.Threshold = 1.5
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for threshold above 1")
	}
}

func TestDefaultModels(t *testing.T) {
	if m := DefaultEmbeddingModel(ProviderOllama); m != "bge-m3" {
		t.Errorf("expected bge-m3, got %q", m)
	}
	if m := DefaultEmbeddingModel(ProviderOpenAI); m != "text-embedding-3-small" {
		t.Errorf("expected text-embedding-3-small, got %q", m)
	}
	// Unknown provider falls back.
	if m := DefaultEmbeddingModel("unknown"); m != "bge-m3" {
		t.Errorf("expected fallback to bge-m3, got %q", m)
	}
}

func TestAPIKeyEnvVar(t *testing.T) {
	tests := []struct {
		provider ProviderType
		want     string
	}{
		{ProviderOpenAI, "OPENAI_API_KEY"},
		{ProviderOllama, ""},
	}
	for _, tt := range tests {
		got := APIKeyEnvVar(tt.provider)
		if got != tt.want {
			t.Errorf("APIKeyEnvVar(%q) = %q, want %q", tt.provider, got, tt.want)
		}
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"**/*.puml", []string{"**/*.puml"}},
		{"", nil},
		{"  ,  , ", nil},
	}
	for _, tt := range tests {
		got := splitAndTrim(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("splitAndTrim(%q) len = %d, want %d", tt.input, len(got), len(tt.want))
			continue
		}
		for i, v := range got {
			if v != tt.want[i] {
				t.Errorf("splitAndTrim(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
			}
		}
	}
}
