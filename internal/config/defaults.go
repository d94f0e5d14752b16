package config

// DefaultFilename is the config file looked up in the working directory.
const DefaultFilename = ".diagrag.yml"

// embeddingModels maps each provider to its default embedding model.
// Both produce 1024-dimensional vectors: bge-m3 natively, the OpenAI
// model truncated via the dimensions request parameter.
var embeddingModels = map[ProviderType]string{
	ProviderOllama: "bge-m3",
	ProviderOpenAI: "text-embedding-3-small",
}

// llmModels maps each provider to its default generation model.
var llmModels = map[ProviderType]string{
	ProviderOllama: "llama3",
	ProviderOpenAI: "gpt-4o-mini",
}

// DefaultIncludes are glob patterns matched against diagram source files.
var DefaultIncludes = []string{
	"**/*.puml",
	"**/*.plantuml",
	"**/*.uml",
	"**/*.mmd",
	"**/*.mermaid",
}

// DefaultExcludes are glob patterns skipped during ingestion scans.
var DefaultExcludes = []string{
	"vendor/**",
	"node_modules/**",
	".git/**",
	"dist/**",
	"build/**",
}

// DefaultConfig returns a Config with sensible defaults: local Ollama
// embeddings, in-memory vector store, HTTP server on 8080.
func DefaultConfig() *Config {
	return &Config{
		Embedding: EmbeddingConfig{
			Provider:   ProviderOllama,
			Model:      embeddingModels[ProviderOllama],
			Dimensions: 1024,
			BaseURL:    "http://localhost:11434",
			BatchSize:  8,
		},
		Store: StoreConfig{
			Backend:    StoreMemory,
			Collection: "diagrams",
			Qdrant: QdrantConfig{
				Host: "localhost",
				Port: 6334,
			},
		},
		LLM: LLMConfig{
			Provider: ProviderOllama,
			Model:    llmModels[ProviderOllama],
			BaseURL:  "http://localhost:11434",
		},
		Server: ServerConfig{
			Port: 8080,
		},
		Search: SearchConfig{
			Limit:     5,
			Threshold: 0.7,
		},
		Include: DefaultIncludes,
		Exclude: DefaultExcludes,
	}
}

// DefaultEmbeddingModel returns the default embedding model for the
// given provider, falling back to the Ollama default.
func DefaultEmbeddingModel(provider ProviderType) string {
	if m, ok := embeddingModels[provider]; ok {
		return m
	}
	return embeddingModels[ProviderOllama]
}

// DefaultLLMModel returns the default generation model for the given
// provider, falling back to the Ollama default.
func DefaultLLMModel(provider ProviderType) string {
	if m, ok := llmModels[provider]; ok {
		return m
	}
	return llmModels[ProviderOllama]
}
