package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/go-github/github"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"fixflow-agent/packages/ai"
	"fixflow-agent/packages/config"
	"fixflow-agent/packages/locate"
	"fixflow-agent/packages/pipeline"
	"fixflow-agent/packages/publish"
)

var (
	fixRepo     string
	fixIssue    int
	fixTitle    string
	fixBody     string
	fixBodyFile string
)

// fixCmd runs one pipeline for a locally supplied issue, using a
// token-authenticated client instead of the webhook surface.
var fixCmd = &cobra.Command{
	Use:   "fix",
	Short: "Run the fix pipeline once for a single issue",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(cfgPath)
		if err != nil {
			return err
		}

		token := os.Getenv("GITHUB_TOKEN")
		if token == "" {
			return fmt.Errorf("GITHUB_TOKEN not set in environment")
		}
		parts := strings.Split(fixRepo, "/")
		if len(parts) != 2 {
			return fmt.Errorf("--repo must be owner/name, got %q", fixRepo)
		}

		body := fixBody
		if fixBodyFile != "" {
			data, err := os.ReadFile(fixBodyFile)
			if err != nil {
				return fmt.Errorf("read body file: %w", err)
			}
			body = string(data)
		}

		ctx := cmd.Context()

		gen, err := ai.NewGeminiFromEnv(ctx, cfg.AI)
		if err != nil {
			return err
		}
		defer gen.Close()

		tc := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
		platform := publish.NewGitHubPlatform(github.NewClient(tc), parts[0], parts[1])

		deps := pipeline.Deps{
			Cfg:       cfg,
			Gen:       gen,
			Search:    locate.NewRipgrepSearcher(cfg.Locator),
			Publisher: publish.NewPublisher(platform, cfg.Issues.BranchPrefix, cfg.Publish.PRTitlePrefix),
		}

		res, err := pipeline.Run(ctx, deps, pipeline.Issue{
			Number: fixIssue,
			Title:  fixTitle,
			Body:   body,
		})
		for _, line := range res.Logs {
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		if err != nil {
			return fmt.Errorf("pipeline halted at %s: %w", res.LastStage, err)
		}
		if res.NoPatch {
			fmt.Fprintln(cmd.OutOrStdout(), "nothing to apply")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.PRURL)
		return nil
	},
}

func init() {
	fixCmd.Flags().StringVar(&fixRepo, "repo", "", "target repository as owner/name")
	fixCmd.Flags().IntVar(&fixIssue, "issue", 0, "issue number")
	fixCmd.Flags().StringVar(&fixTitle, "title", "", "issue title")
	fixCmd.Flags().StringVar(&fixBody, "body", "", "issue body text")
	fixCmd.Flags().StringVar(&fixBodyFile, "body-file", "", "file containing the issue body")
	fixCmd.MarkFlagRequired("repo")
	fixCmd.MarkFlagRequired("issue")
	fixCmd.MarkFlagRequired("title")
}
