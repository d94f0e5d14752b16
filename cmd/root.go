package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/diagram-rag/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "diagrag",
	Short: "Semantic search and retrieval over software diagrams",
	Long: `Diagrag indexes PlantUML and Mermaid diagram descriptions into a
vector database and retrieves them by meaning. It serves the index over
HTTP, answers questions with retrieval-augmented prompts, and exposes
search tools to AI agents via MCP.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultFilename, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
