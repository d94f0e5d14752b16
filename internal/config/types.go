package config

// ProviderType identifies an embedding or LLM provider.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
)

// StoreBackend identifies a vector store implementation.
type StoreBackend string

const (
	StoreQdrant StoreBackend = "qdrant"
	StoreMemory StoreBackend = "memory"
)

// Config is the top-level configuration, corresponding to .diagrag.yml.
type Config struct {
	Embedding EmbeddingConfig `yaml:"embedding" koanf:"embedding"`
	Store     StoreConfig     `yaml:"store" koanf:"store"`
	LLM       LLMConfig       `yaml:"llm" koanf:"llm"`
	Server    ServerConfig    `yaml:"server" koanf:"server"`
	Search    SearchConfig    `yaml:"search" koanf:"search"`
	Include   []string        `yaml:"include" koanf:"include"`
	Exclude   []string        `yaml:"exclude" koanf:"exclude"`
}

// EmbeddingConfig selects the embedding provider and its model.
type EmbeddingConfig struct {
	Provider   ProviderType `yaml:"provider" koanf:"provider"`
	Model      string       `yaml:"model" koanf:"model"`
	Dimensions int          `yaml:"dimensions" koanf:"dimensions"`
	BaseURL    string       `yaml:"base_url" koanf:"base_url"`
	BatchSize  int          `yaml:"batch_size" koanf:"batch_size"`
}

// StoreConfig selects and configures the vector store backend.
type StoreConfig struct {
	Backend    StoreBackend `yaml:"backend" koanf:"backend"`
	Collection string       `yaml:"collection" koanf:"collection"`
	// DataDir, when set with the memory backend, is where the store
	// snapshots its contents between runs. Ignored for qdrant.
	DataDir string       `yaml:"data_dir,omitempty" koanf:"data_dir"`
	Qdrant  QdrantConfig `yaml:"qdrant" koanf:"qdrant"`
}

// QdrantConfig holds Qdrant connection settings. The API key is read
// from QDRANT_API_KEY, never from the config file.
type QdrantConfig struct {
	Host string `yaml:"host" koanf:"host"`
	Port int    `yaml:"port" koanf:"port"`
}

// LLMConfig selects the generation model used by the query command.
type LLMConfig struct {
	Provider ProviderType `yaml:"provider" koanf:"provider"`
	Model    string       `yaml:"model" koanf:"model"`
	BaseURL  string       `yaml:"base_url" koanf:"base_url"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port" koanf:"port"`
}

// SearchConfig holds default retrieval parameters. Per-request values
// override these.
type SearchConfig struct {
	Limit     int     `yaml:"limit" koanf:"limit"`
	Threshold float32 `yaml:"threshold" koanf:"threshold"`
}
