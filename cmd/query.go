package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/diagram-rag/internal/diagrams"
	"github.com/ziadkadry99/diagram-rag/internal/llm"
	"github.com/ziadkadry99/diagram-rag/internal/rag"
)

// querySystemPrompt frames the LLM's role for diagram questions.
const querySystemPrompt = `You are an assistant that answers questions about a software system
using its architecture and design diagrams. Base your answers on the
diagram context when it is provided; say so when the context does not
cover the question.`

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Answer a question using retrieved diagram context",
	Long: `Retrieves the diagrams most relevant to the question, assembles a
retrieval-augmented prompt, and sends it to the configured LLM.`,
	Args: cobra.ExactArgs(1),
	RunE: runQueryCmd,
}

func init() {
	queryCmd.Flags().Int("limit", 0, "maximum number of context diagrams")
	queryCmd.Flags().String("type", "", "restrict context to one diagram type")
	queryCmd.Flags().Bool("show-prompt", false, "print the assembled prompt instead of querying the LLM")
	rootCmd.AddCommand(queryCmd)
}

func runQueryCmd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	question := args[0]

	limit, _ := cmd.Flags().GetInt("limit")
	typeFilter, _ := cmd.Flags().GetString("type")
	showPrompt, _ := cmd.Flags().GetBool("show-prompt")

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
	th := cfg.Search.Threshold
	opts.Threshold = &th

	prompt, err := svc.BuildPrompt(ctx, question, querySystemPrompt, opts)
	if err != nil {
		return fmt.Errorf("building prompt: %w", err)
	}

	if verbose || prompt.FallbackReason != "" {
		if prompt.FallbackReason != "" {
			fmt.Fprintf(os.Stderr, "Warning: retrieval unavailable (%s); answering without context\n", prompt.FallbackReason)
		} else {
			fmt.Fprintf(os.Stderr, "Using %d context diagram(s)\n", prompt.ResultCount)
		}
	}

	if showPrompt {
		fmt.Println(prompt.Text)
		return nil
	}

	provider, err := createLLMProviderFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("creating LLM provider: %w", err)
	}

	resp, err := provider.Complete(ctx, llm.CompletionRequest{
		Model: cfg.LLM.Model,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: prompt.Text},
		},
	})
	if err != nil {
		return fmt.Errorf("LLM completion failed: %w", err)
	}

	fmt.Println(resp.Content)
	return nil
}
