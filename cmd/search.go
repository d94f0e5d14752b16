package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/diagram-rag/internal/diagrams"
	"github.com/ziadkadry99/diagram-rag/internal/rag"
	"github.com/ziadkadry99/diagram-rag/internal/vectordb"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Semantically search the diagram index",
	Long:  `Searches the vector store using a natural language query and prints the most relevant diagrams.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().Int("limit", 0, "maximum number of results (default from config)")
	searchCmd.Flags().String("type", "", "filter by diagram type: class, sequence, component, state, usecase")
	searchCmd.Flags().Float32("threshold", -1, "minimum similarity score between 0 and 1")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	queryText := args[0]

	limit, _ := cmd.Flags().GetInt("limit")
	typeFilter, _ := cmd.Flags().GetString("type")
	threshold, _ := cmd.Flags().GetFloat32("threshold")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	svc, err := createServiceFromConfig(cfg)
	if err != nil {
		return err
	}
	if err := svc.Initialize(ctx); err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}

	opts := rag.SearchOptions{
		Limit:       limit,
		DiagramType: diagrams.Type(typeFilter),
	}
	if opts.Limit == 0 {
		opts.Limit = cfg.Search.Limit
	}
	if threshold >= 0 {
		opts.Threshold = &threshold
	} else {
		th := cfg.Search.Threshold
		opts.Threshold = &th
	}

	resp, err := svc.Search(ctx, queryText, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if resp.TotalResults == 0 {
		fmt.Println("No results found. Run `diagrag ingest` to index diagrams.")
		return nil
	}

	if jsonOutput {
		return printSearchResultsJSON(resp.Documents)
	}

	printSearchResultsTable(resp.Documents)
	return nil
}

type searchResultJSON struct {
	Rank        int     `json:"rank"`
	Score       float32 `json:"score"`
	ID          string  `json:"id"`
	DiagramType string  `json:"diagramType"`
	Source      string  `json:"source,omitempty"`
	Summary     string  `json:"summary"`
}

func printSearchResultsJSON(results []vectordb.SearchResult) error {
	var out []searchResultJSON
	for i, r := range results {
		out = append(out, searchResultJSON{
			Rank:        i + 1,
			Score:       r.Score,
			ID:          r.ID,
			DiagramType: string(r.Document.DiagramType),
			Source:      r.Document.Source,
			Summary:     truncate(r.Document.Content, 200),
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printSearchResultsTable(results []vectordb.SearchResult) {
	fmt.Printf("Found %d results:\n\n", len(results))
	for i, r := range results {
		location := r.Document.Source
		if location == "" {
			location = r.ID
		}

		fmt.Printf("  %d. [%.1f%%] %s\n", i+1, r.Score*100, location)
		fmt.Printf("     Type: %s\n", r.Document.DiagramType)
		fmt.Printf("     %s\n\n", truncate(r.Document.Content, 120))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
