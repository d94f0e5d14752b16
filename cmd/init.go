package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/diagram-rag/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize diagrag configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure diagrag for your project and generates a .diagrag.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
