package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/swinton/go-probot/probot"

	"fixflow-agent/packages/config"
	"fixflow-agent/packages/handlers"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the GitHub App webhook server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := config.LoadConfig(cfgPath); err != nil {
			return err
		}

		appID := os.Getenv("GITHUB_APP_ID")
		slog.Info("Starting webhook server", "appID", appID)

		probot.HandleEvent("issues", handlers.HandleIssues)
		probot.Start()
		return nil
	},
}
