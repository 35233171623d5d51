package autofix

import (
	"context"
	"errors"
	"fmt"

	"github.com/autofix-dev/autofix/internal/github"
)

// NewGitHubTracker adapts a GitHub API client to the Tracker interface,
// translating transport errors into the pipeline taxonomy.
func NewGitHubTracker(client *github.Client) Tracker {
	return &githubTracker{client: client}
}

type githubTracker struct {
	client *github.Client
}

func (t *githubTracker) CheckAuth(ctx context.Context) (string, error) {
	login, err := t.client.CheckAuth(ctx)
	if err != nil {
		return "", mapGitHubError(err)
	}
	return login, nil
}

func (t *githubTracker) FetchIssue(ctx context.Context, number int) (*Issue, error) {
	issue, err := t.client.FetchIssue(ctx, number)
	if err != nil {
		return nil, mapGitHubError(err)
	}
	return &Issue{
		Number: issue.Number,
		Title:  issue.Title,
		URL:    issue.HTMLURL,
	}, nil
}

// NewGitHubDispatcher adapts a GitHub API client to the Dispatcher
// interface for the named workflow file. Any failure is a DispatchFailed:
// by the time dispatch runs, auth and repo access have already been proven.
func NewGitHubDispatcher(client *github.Client, workflowFile string) Dispatcher {
	return &githubDispatcher{client: client, workflow: workflowFile}
}

type githubDispatcher struct {
	client   *github.Client
	workflow string
}

func (d *githubDispatcher) Dispatch(ctx context.Context, req WorkflowRequest) (*RunHandle, error) {
	handle, err := d.client.DispatchWorkflow(ctx, d.workflow, req.Branch.Short(), github.DispatchInputs{
		Branch:      req.Branch.Short(),
		BaseBranch:  req.BaseBranch,
		IssueNumber: req.IssueNumber,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}
	return &RunHandle{
		Workflow: handle.Workflow,
		Ref:      handle.Ref,
		URL:      handle.URL,
	}, nil
}

// mapGitHubError folds GitHub client sentinels into the pipeline taxonomy.
func mapGitHubError(err error) error {
	switch {
	case errors.Is(err, github.ErrAuthRequired):
		return fmt.Errorf("%w: %v", ErrAuthRequired, err)
	case errors.Is(err, github.ErrNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, github.ErrUnavailable):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	default:
		return err
	}
}
