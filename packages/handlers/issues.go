package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/go-github/github"
	"github.com/swinton/go-probot/probot"

	"fixflow-agent/packages/ai"
	"fixflow-agent/packages/config"
	"fixflow-agent/packages/locate"
	"fixflow-agent/packages/pipeline"
	"fixflow-agent/packages/publish"
)

func HandleIssues(ctx *probot.Context) error {
	event := ctx.Payload.(*github.IssuesEvent)

	issueTitle := event.Issue.GetTitle()
	issueNumber := event.Issue.GetNumber()
	repoName := event.Repo.GetFullName()
	action := event.GetAction()

	slog.Info("Issue event", "action", action, "issueNumber", issueNumber, "issueTitle", issueTitle)
	slog.Info("Repository", "repoName", repoName)

	switch action {
	case "opened":
		slog.Info("Issue opened - will process when labeled", "issueNumber", issueNumber)
		return nil
	case "labeled":
		return handleIssueLabeled(ctx, event, repoName, issueNumber)
	default:
		slog.Info("Skipping action", "action", action)
		return nil
	}
}

func handleIssueLabeled(ctx *probot.Context, event *github.IssuesEvent, repoName string, issueNumber int) error {
	cfg := config.GetConfig()

	if !hasRequiredLabels(event.Issue.Labels) {
		slog.Info("Issue labeled but still missing required labels", "issueNumber", issueNumber)
		return nil
	}

	// Deduplication: an open fix PR for this issue means it is already
	// being handled.
	if openFixExists(ctx, repoName, issueNumber, cfg.Issues.BranchPrefix) {
		slog.Info("Issue already processed - open fix PR exists", "issueNumber", issueNumber)
		return nil
	}

	slog.Info("Issue labeled with required labels - proceeding with fix pipeline", "issueNumber", issueNumber)
	return processIssue(ctx, repoName, event.Issue)
}

func processIssue(ctx *probot.Context, repoName string, issue *github.Issue) error {
	cfg := config.GetConfig()

	parts := strings.Split(repoName, "/")
	if len(parts) != 2 {
		slog.Error("Invalid repo name format", "repoName", repoName)
		return nil
	}
	owner, repo := parts[0], parts[1]

	runCtx := context.Background()

	gen, err := ai.NewGeminiFromEnv(runCtx, cfg.AI)
	if err != nil {
		slog.Error("Failed to create text generator", "error", err)
		return err
	}
	defer gen.Close()

	platform := publish.NewGitHubPlatform(ctx.GitHub, owner, repo)
	deps := pipeline.Deps{
		Cfg:       cfg,
		Gen:       gen,
		Search:    locate.NewRipgrepSearcher(cfg.Locator),
		Publisher: publish.NewPublisher(platform, cfg.Issues.BranchPrefix, cfg.Publish.PRTitlePrefix),
	}

	res, err := pipeline.Run(runCtx, deps, pipeline.Issue{
		Number: issue.GetNumber(),
		Title:  issue.GetTitle(),
		Body:   issue.GetBody(),
	})
	for _, line := range res.Logs {
		slog.Info("Pipeline", "entry", line)
	}
	if err != nil {
		slog.Error("Pipeline halted", "issueNumber", issue.GetNumber(), "lastStage", res.LastStage, "error", err)
		return err
	}
	if res.NoPatch {
		slog.Info("Nothing to apply for issue", "issueNumber", issue.GetNumber())
		return nil
	}

	slog.Info("Issue resolved", "issueNumber", issue.GetNumber(), "pr", res.PRURL)
	return nil
}

// openFixExists reports whether an open PR whose head matches this
// issue's fix-branch naming already exists.
func openFixExists(ctx *probot.Context, repoName string, issueNumber int, branchPrefix string) bool {
	parts := strings.Split(repoName, "/")
	if len(parts) != 2 {
		return false
	}
	owner, repo := parts[0], parts[1]

	prefix := fmt.Sprintf("%sissue-%d-", branchPrefix, issueNumber)
	prs, _, err := ctx.GitHub.PullRequests.List(context.Background(), owner, repo,
		&github.PullRequestListOptions{State: "open"})
	if err != nil {
		slog.Error("Failed to list pull requests for dedup check", "error", err)
		return false
	}
	for _, pr := range prs {
		if strings.HasPrefix(pr.Head.GetRef(), prefix) {
			return true
		}
	}
	return false
}

// hasRequiredLabels checks if the issue has any of the required labels
func hasRequiredLabels(labels []github.Label) bool {
	cfg := config.GetConfig()

	issueLabelMap := make(map[string]bool)
	for _, label := range labels {
		if label.Name != nil {
			issueLabelMap[strings.ToLower(*label.Name)] = true
		}
	}

	for _, required := range cfg.Issues.RequiredLabels {
		if issueLabelMap[strings.ToLower(required)] {
			slog.Info("Found required label", "label", required)
			return true
		}
	}

	slog.Info("Required labels not found", "labels", labelNames(labels))
	return false
}

func labelNames(labels []github.Label) []string {
	var names []string
	for _, label := range labels {
		if label.Name != nil {
			names = append(names, *label.Name)
		}
	}
	return names
}
