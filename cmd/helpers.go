package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ziadkadry99/diagram-rag/internal/config"
	"github.com/ziadkadry99/diagram-rag/internal/embeddings"
	"github.com/ziadkadry99/diagram-rag/internal/llm"
	"github.com/ziadkadry99/diagram-rag/internal/rag"
	"github.com/ziadkadry99/diagram-rag/internal/vectordb"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `diagrag init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// createEmbedderFromConfig creates an embeddings.Embedder based on config.
func createEmbedderFromConfig(cfg *config.Config) (embeddings.Embedder, error) {
	ec := cfg.Embedding
	switch ec.Provider {
	case config.ProviderOpenAI:
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for OpenAI embeddings")
		}
		return embeddings.NewOpenAIEmbedder(apiKey, ec.Model, ec.Dimensions), nil
	case config.ProviderOllama:
		return embeddings.NewOllamaEmbedder(ec.Model, ec.Dimensions, ec.BaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider %q", ec.Provider)
	}
}

// createStoreFromConfig creates the configured vector store backend.
// The memory backend embeds with the same embedder used for queries.
func createStoreFromConfig(cfg *config.Config, embedder embeddings.Embedder) (vectordb.VectorStore, error) {
	switch cfg.Store.Backend {
	case config.StoreQdrant:
		return vectordb.NewQdrantStore(vectordb.QdrantConfig{
			Host:       cfg.Store.Qdrant.Host,
			Port:       cfg.Store.Qdrant.Port,
			APIKey:     os.Getenv("QDRANT_API_KEY"),
			Collection: cfg.Store.Collection,
			VectorSize: uint64(cfg.Embedding.Dimensions),
		})
	case config.StoreMemory:
		store, err := vectordb.NewMemoryStore(embedder, uint64(cfg.Embedding.Dimensions))
		if err != nil {
			return nil, err
		}
		if dir := cfg.Store.DataDir; dir != "" {
			if _, statErr := os.Stat(filepath.Join(dir, "chromem.gob.gz")); statErr == nil {
				if err := store.Load(context.Background(), dir); err != nil {
					return nil, fmt.Errorf("loading snapshot from %s: %w", dir, err)
				}
			}
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.Store.Backend)
	}
}

// createServiceFromConfig wires embedder, provider and store into a RAG
// service. The service still needs Initialize before use.
func createServiceFromConfig(cfg *config.Config) (*rag.Service, error) {
	svc, _, err := createServiceAndStore(cfg)
	return svc, err
}

// createServiceAndStore additionally returns the underlying store, for
// commands that snapshot the memory backend after writes.
func createServiceAndStore(cfg *config.Config) (*rag.Service, vectordb.VectorStore, error) {
	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("creating embedder: %w", err)
	}
	store, err := createStoreFromConfig(cfg, embedder)
	if err != nil {
		return nil, nil, fmt.Errorf("creating vector store: %w", err)
	}
	provider := embeddings.NewProvider(embedder, cfg.Embedding.BatchSize)
	return rag.New(store, provider), store, nil
}

// createLLMProviderFromConfig creates an LLM provider based on config settings.
func createLLMProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	return llm.NewProvider(string(cfg.LLM.Provider), cfg.LLM.Model, cfg.LLM.BaseURL)
}
