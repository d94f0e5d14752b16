package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .diagrag.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to diagrag! Let's configure your diagram index.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Embedding provider.
	embedPrompt := promptui.Select{
		Label: "Select embedding provider",
		Items: []string{"ollama", "openai"},
	}
	_, embedStr, err := embedPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("embedding provider selection: %w", err)
	}
	cfg.Embedding.Provider = ProviderType(embedStr)
	cfg.Embedding.Model = DefaultEmbeddingModel(cfg.Embedding.Provider)

	// 2. Vector store backend.
	storePrompt := promptui.Select{
		Label: "Select vector store backend",
		Items: []string{"memory", "qdrant"},
	}
	_, storeStr, err := storePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("store backend selection: %w", err)
	}
	cfg.Store.Backend = StoreBackend(storeStr)

	if cfg.Store.Backend == StoreQdrant {
		hostPrompt := promptui.Prompt{
			Label:   "Qdrant host",
			Default: cfg.Store.Qdrant.Host,
		}
		host, err := hostPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("qdrant host: %w", err)
		}
		cfg.Store.Qdrant.Host = host

		portPrompt := promptui.Prompt{
			Label:   "Qdrant gRPC port",
			Default: strconv.Itoa(cfg.Store.Qdrant.Port),
			Validate: func(s string) error {
				n, err := strconv.Atoi(s)
				if err != nil || n <= 0 || n > 65535 {
					return fmt.Errorf("must be a port number")
				}
				return nil
			},
		}
		portStr, err := portPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("qdrant port: %w", err)
		}
		cfg.Store.Qdrant.Port, _ = strconv.Atoi(portStr)
	}

	if cfg.Store.Backend == StoreMemory {
		dirPrompt := promptui.Prompt{
			Label:   "Snapshot directory (empty to keep the index in memory only)",
			Default: cfg.Store.DataDir,
		}
		dir, err := dirPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("snapshot directory: %w", err)
		}
		cfg.Store.DataDir = dir
	}

	// 3. Collection name.
	collectionPrompt := promptui.Prompt{
		Label:   "Collection name",
		Default: cfg.Store.Collection,
	}
	collection, err := collectionPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("collection name: %w", err)
	}
	cfg.Store.Collection = collection

	// 4. LLM provider for the query command.
	llmPrompt := promptui.Select{
		Label: "Select LLM provider for answering queries",
		Items: []string{"ollama", "openai"},
	}
	_, llmStr, err := llmPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("llm provider selection: %w", err)
	}
	cfg.LLM.Provider = ProviderType(llmStr)
	cfg.LLM.Model = DefaultLLMModel(cfg.LLM.Provider)

	// 5. Include patterns for the ingest scan.
	includePrompt := promptui.Prompt{
		Label:   "Include patterns (comma-separated globs)",
		Default: strings.Join(DefaultIncludes, ","),
	}
	includeStr, err := includePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("include patterns: %w", err)
	}
	cfg.Include = splitAndTrim(includeStr)

	for _, p := range []ProviderType{cfg.Embedding.Provider, cfg.LLM.Provider} {
		if envVar := APIKeyEnvVar(p); envVar != "" && os.Getenv(envVar) == "" {
			fmt.Printf("\nNote: Set %s in your environment before running diagrag.\n", envVar)
			break
		}
	}

	if err := cfg.Save(DefaultFilename); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", DefaultFilename)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
