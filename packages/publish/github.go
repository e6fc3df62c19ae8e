package publish

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/github"
)

// GitHubPlatform implements Platform on the GitHub REST API.
type GitHubPlatform struct {
	client *github.Client
	owner  string
	repo   string
}

func NewGitHubPlatform(client *github.Client, owner, repo string) *GitHubPlatform {
	return &GitHubPlatform{client: client, owner: owner, repo: repo}
}

func (g *GitHubPlatform) DefaultBranch(ctx context.Context) (string, string, error) {
	repository, _, err := g.client.Repositories.Get(ctx, g.owner, g.repo)
	if err != nil {
		return "", "", wrapGitHubErr(err)
	}
	branch := repository.GetDefaultBranch()

	ref, _, err := g.client.Git.GetRef(ctx, g.owner, g.repo, "refs/heads/"+branch)
	if err != nil {
		return "", "", wrapGitHubErr(err)
	}
	return branch, ref.Object.GetSHA(), nil
}

func (g *GitHubPlatform) GetFile(ctx context.Context, path, ref string) (string, string, bool, error) {
	file, _, resp, err := g.client.Repositories.GetContents(ctx, g.owner, g.repo, path,
		&github.RepositoryContentGetOptions{Ref: ref})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return "", "", false, nil
		}
		return "", "", false, wrapGitHubErr(err)
	}
	if file == nil {
		// Path is a directory, not a file.
		return "", "", false, nil
	}

	content, err := file.GetContent()
	if err != nil {
		return "", "", false, fmt.Errorf("decode %s: %w", path, err)
	}
	return file.GetSHA(), content, true, nil
}

func (g *GitHubPlatform) CreateBranch(ctx context.Context, name, fromSHA string) error {
	newRef := &github.Reference{
		Ref: github.String("refs/heads/" + name),
		Object: &github.GitObject{
			SHA: github.String(fromSHA),
		},
	}
	if _, _, err := g.client.Git.CreateRef(ctx, g.owner, g.repo, newRef); err != nil {
		return wrapGitHubErr(err)
	}
	return nil
}

func (g *GitHubPlatform) WriteFile(ctx context.Context, path, content, message, branch, blobID string) error {
	opts := &github.RepositoryContentFileOptions{
		Message: github.String(message),
		Content: []byte(content),
		Branch:  github.String(branch),
	}

	var err error
	if blobID == "" {
		_, _, err = g.client.Repositories.CreateFile(ctx, g.owner, g.repo, path, opts)
	} else {
		opts.SHA = github.String(blobID)
		_, _, err = g.client.Repositories.UpdateFile(ctx, g.owner, g.repo, path, opts)
	}
	if err != nil {
		return wrapGitHubErr(err)
	}
	return nil
}

func (g *GitHubPlatform) CreatePullRequest(ctx context.Context, title, body, head, base string) (string, error) {
	pr, _, err := g.client.PullRequests.Create(ctx, g.owner, g.repo, &github.NewPullRequest{
		Title: github.String(title),
		Body:  github.String(body),
		Head:  github.String(head),
		Base:  github.String(base),
	})
	if err != nil {
		return "", wrapGitHubErr(err)
	}
	return pr.GetHTMLURL(), nil
}

func wrapGitHubErr(err error) error {
	if er, ok := err.(*github.ErrorResponse); ok && er.Response != nil {
		return &PlatformError{StatusCode: er.Response.StatusCode, Message: er.Message}
	}
	return err
}
