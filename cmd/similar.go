package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var similarCmd = &cobra.Command{
	Use:   "similar [file]",
	Short: "Find diagrams similar to the given diagram file",
	Long: `Reads a diagram file (or stdin when no argument is given) and prints
indexed diagrams with similar content.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		limit, _ := cmd.Flags().GetInt("limit")
		excludeID, _ := cmd.Flags().GetString("exclude-id")

		var content []byte
		var err error
		if len(args) == 1 {
			content, err = os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
		} else {
			content, err = io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
		}

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

		results, err := svc.FindSimilar(ctx, string(content), limit, excludeID)
		if err != nil {
			return fmt.Errorf("similarity search failed: %w", err)
		}

		if len(results) == 0 {
			fmt.Println("No similar diagrams found.")
			return nil
		}

		printSearchResultsTable(results)
		return nil
	},
}

func init() {
	similarCmd.Flags().Int("limit", 0, "maximum number of results")
	similarCmd.Flags().String("exclude-id", "", "document id to omit from results")
	rootCmd.AddCommand(similarCmd)
}
