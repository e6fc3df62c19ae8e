package publish

import (
	"context"
	"fmt"
)

// PlatformError carries the remote platform's status code and message.
// It is surfaced to the operator, never masked.
type PlatformError struct {
	StatusCode int
	Message    string
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("platform error %d: %s", e.StatusCode, e.Message)
}

// Platform is the remote repository collaborator: a ref/content/PR store
// with optimistic-concurrency file writes. A blob ID is required to
// update existing content and must be empty to create.
type Platform interface {
	// DefaultBranch resolves the repository's default branch name and
	// its current head commit SHA.
	DefaultBranch(ctx context.Context) (name, headSHA string, err error)

	// GetFile fetches a file's blob ID and decoded content at ref.
	// found is false when the path does not exist there.
	GetFile(ctx context.Context, path, ref string) (blobID, content string, found bool, err error)

	// CreateBranch creates a new branch pointing at fromSHA.
	CreateBranch(ctx context.Context, name, fromSHA string) error

	// WriteFile commits content to path on branch. An empty blobID
	// creates the file; a non-empty one updates it.
	WriteFile(ctx context.Context, path, content, message, branch, blobID string) error

	// CreatePullRequest opens a pull request from head to base and
	// returns its URL.
	CreatePullRequest(ctx context.Context, title, body, head, base string) (url string, err error)
}
