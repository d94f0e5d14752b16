package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/diagram-rag/internal/diagrams"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show diagram index statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
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

		stats, err := svc.Stats(ctx)
		if err != nil {
			return fmt.Errorf("collecting stats: %w", err)
		}

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(stats)
		}

		fmt.Printf("Total documents: %d\n", stats.TotalDocuments)
		for _, typ := range diagrams.KnownTypes {
			fmt.Printf("  %-10s %d\n", typ, stats.ByDiagramType[typ])
		}
		if stats.Collection != nil {
			fmt.Printf("Collection: %s (status %s, vector size %d)\n",
				stats.Collection.Name, stats.Collection.Status, stats.Collection.VectorSize)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Bool("json", false, "output stats as JSON")
	rootCmd.AddCommand(statsCmd)
}
