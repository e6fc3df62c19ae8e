package cli

import (
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "fixflow",
	Short: "Automated issue-to-pull-request resolution",
	Long: `fixflow-agent resolves reported defects automatically: it extracts
search signals from an issue, locates the relevant source files, asks a
text-generation service for a unified diff, applies the diff without a
local checkout, and publishes the result as a pull request.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(indexCmd)
}
