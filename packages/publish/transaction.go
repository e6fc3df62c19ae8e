// Package publish turns a unified diff into committed file blobs on a
// new branch and opens a pull request for review.
package publish

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fixflow-agent/packages/diff"
)

// State records how far a publish transaction got. It grows
// monotonically: a failure after N commits leaves exactly those N
// commits on the branch, and the State names them so an operator can
// resume or clean up manually. No rollback is performed.
type State struct {
	Branch    string
	BaseSHA   string
	Committed []string
}

// Publisher runs the non-atomic branch-and-commit sequence. Each remote
// write is an independent call; nothing is retried automatically.
type Publisher struct {
	platform     Platform
	branchPrefix string
	titlePrefix  string

	// now is swappable for tests.
	now func() time.Time
}

func NewPublisher(platform Platform, branchPrefix, titlePrefix string) *Publisher {
	return &Publisher{
		platform:     platform,
		branchPrefix: branchPrefix,
		titlePrefix:  titlePrefix,
		now:          time.Now,
	}
}

// Publish applies the patch file by file against the default branch's
// content and commits each result to a fresh branch, then opens a pull
// request embedding the full diff. The returned State is non-nil from
// the moment the branch name is chosen, whatever happens afterwards.
func (p *Publisher) Publish(ctx context.Context, issueNumber int, issueTitle, patch string) (*State, string, error) {
	sections := diff.SplitByFile(patch)
	if len(sections) == 0 {
		return nil, "", fmt.Errorf("patch touches no files")
	}

	base, headSHA, err := p.platform.DefaultBranch(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("resolve default branch: %w", err)
	}

	// Collision-resistant, not collision-proof.
	branch := fmt.Sprintf("%sissue-%d-%d", p.branchPrefix, issueNumber, p.now().Unix())
	st := &State{Branch: branch, BaseSHA: headSHA}

	if err := p.platform.CreateBranch(ctx, branch, headSHA); err != nil {
		return st, "", fmt.Errorf("create branch %s: %w", branch, err)
	}
	slog.Info("Branch created", "branch", branch, "base", base)

	message := fmt.Sprintf("fix: apply AI-generated patch for issue #%d", issueNumber)
	for _, sec := range sections {
		blobID, content, found, err := p.platform.GetFile(ctx, sec.Path, base)
		if err != nil {
			return st, "", fmt.Errorf("fetch %s on %s: %w", sec.Path, base, err)
		}
		if !found {
			blobID = ""
		}

		patched := diff.Apply(content, diff.ParseFileDiff(sec))
		if err := p.platform.WriteFile(ctx, sec.Path, patched, message, branch, blobID); err != nil {
			return st, "", fmt.Errorf("commit %s on %s: %w", sec.Path, branch, err)
		}
		st.Committed = append(st.Committed, sec.Path)
		slog.Info("Committed change", "path", sec.Path, "branch", branch)
	}

	title := p.titlePrefix + issueTitle
	url, err := p.platform.CreatePullRequest(ctx, title, prBody(issueNumber, patch), branch, base)
	if err != nil {
		return st, "", fmt.Errorf("open pull request from %s: %w", branch, err)
	}

	slog.Info("Pull request created", "url", url)
	return st, url, nil
}

func prBody(issueNumber int, patch string) string {
	return fmt.Sprintf(`Resolves #%d

## AI-Generated Patch

This PR was automatically generated by fixflow-agent.

**Review carefully before merging.** The patch is AI-generated and
should be validated by a human engineer.

`+"```diff\n%s\n```", issueNumber, patch)
}
