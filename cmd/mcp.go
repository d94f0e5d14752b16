package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/diagram-rag/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing diagram search tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		svc, err := createServiceFromConfig(cfg)
		if err != nil {
			return err
		}

		// Stdout carries MCP protocol messages; everything else goes
		// to stderr.
		if err := svc.Initialize(context.Background()); err != nil {
			return fmt.Errorf("initializing service: %w", err)
		}

		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "diagrag MCP server started on stdio (store=%s, collection=%s)\n",
			cfg.Store.Backend, cfg.Store.Collection)

		srv := mcpserver.NewServer(svc)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
