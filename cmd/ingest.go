package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/diagram-rag/internal/progress"
	"github.com/ziadkadry99/diagram-rag/internal/rag"
	"github.com/ziadkadry99/diagram-rag/internal/scanner"
	"github.com/ziadkadry99/diagram-rag/internal/vectordb"
)

// ingestBatchSize is the number of files embedded and upserted per call.
const ingestBatchSize = 16

var ingestReplace bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [dir]",
	Short: "Scan a directory for diagram files and index them",
	Long: `Walks the given directory (default: current), finds PlantUML and
Mermaid files matching the configured include/exclude patterns, and
indexes their content into the vector store. Each file's relative path
becomes the document source.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		root := "."
		if len(args) == 1 {
			root = args[0]
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		files, err := scanner.Scan(scanner.Config{
			RootDir: root,
			Include: cfg.Include,
			Exclude: cfg.Exclude,
		})
		if err != nil {
			return fmt.Errorf("scanning %s: %w", root, err)
		}
		if len(files) == 0 {
			fmt.Println("No diagram files found.")
			return nil
		}

		svc, store, err := createServiceAndStore(cfg)
		if err != nil {
			return err
		}
		if err := svc.Initialize(ctx); err != nil {
			return fmt.Errorf("initializing service: %w", err)
		}

		reporter := progress.NewReporter()
		reporter.Start(len(files))

		var (
			batch    []rag.DocumentInput
			indexed  int
			skipped  int
			finished int
		)

		flush := func() error {
			if len(batch) == 0 {
				return nil
			}
			if _, err := svc.Ingest(ctx, batch); err != nil {
				return fmt.Errorf("indexing batch: %w", err)
			}
			indexed += len(batch)
			batch = batch[:0]
			return nil
		}

		for _, f := range files {
			finished++
			reporter.Update(finished, f.RelPath)

			content, err := os.ReadFile(f.Path)
			if err != nil || len(content) == 0 {
				skipped++
				continue
			}

			if ingestReplace {
				if err := svc.DeleteBySource(ctx, f.RelPath); err != nil {
					return fmt.Errorf("removing stale documents for %s: %w", f.RelPath, err)
				}
			}

			batch = append(batch, rag.DocumentInput{
				Content: string(content),
				Source:  f.RelPath,
				Metadata: map[string]string{
					"format":      f.Format,
					"contentHash": f.ContentHash,
				},
			})

			if len(batch) >= ingestBatchSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
		if err := flush(); err != nil {
			return err
		}

		reporter.Finish()

		fmt.Printf("Indexed %d diagram file(s)", indexed)
		if skipped > 0 {
			fmt.Printf(", skipped %d unreadable or empty", skipped)
		}
		fmt.Println()

		// The memory backend lives in this process only; snapshot it
		// so later commands see what we just indexed.
		if ms, ok := store.(*vectordb.MemoryStore); ok && cfg.Store.DataDir != "" {
			if err := os.MkdirAll(cfg.Store.DataDir, 0o755); err != nil {
				return fmt.Errorf("creating data dir: %w", err)
			}
			if err := ms.Persist(ctx, cfg.Store.DataDir); err != nil {
				return fmt.Errorf("saving snapshot: %w", err)
			}
			fmt.Printf("Saved snapshot to %s\n", cfg.Store.DataDir)
		}
		return nil
	},
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestReplace, "replace", false, "delete previously indexed documents from each file before re-indexing")
	rootCmd.AddCommand(ingestCmd)
}
