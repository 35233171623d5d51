// Package autofix sequences the fix-branch pipeline: resolve the issue,
// derive the branch name, reconcile it against remote state, sync git, and
// dispatch the automated-fix workflow.
//
// The pipeline consumes its collaborators through narrow interfaces so the
// decision logic runs against in-memory fakes in tests, with no process
// execution or network access.
package autofix

import (
	"context"
	"fmt"

	"github.com/autofix-dev/autofix/internal/branch"
)

// Issue is the slice of issue metadata the pipeline needs. Immutable once
// fetched.
type Issue struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	URL    string `json:"url,omitempty"`
}

// WorkflowRequest carries the named parameters for one workflow dispatch.
// Constructed once the branch decision is finalized; sent exactly once per
// non-aborted run.
type WorkflowRequest struct {
	Branch      branch.Name `json:"branch"`
	BaseBranch  string      `json:"base_branch"`
	IssueNumber int         `json:"issue_number"`
}

// RunHandle identifies the dispatched workflow run to the operator.
type RunHandle struct {
	Workflow string `json:"workflow"`
	Ref      string `json:"ref"`
	URL      string `json:"url"`
}

// Tracker resolves issues and validates the caller's session with the
// issue backend.
type Tracker interface {
	CheckAuth(ctx context.Context) (login string, err error)
	FetchIssue(ctx context.Context, number int) (*Issue, error)
}

// RepoStateInspector answers whether a branch exists on the remote. The
// answer must reflect remote truth at call time; a stale answer corrupts
// the create-vs-reuse decision.
type RepoStateInspector interface {
	RemoteBranchExists(ctx context.Context, remote string, name branch.Name) (branch.State, error)
}

// GitSync performs the ref and branch operations along the create and
// reuse paths. Never called when reconciliation aborts.
type GitSync interface {
	FetchRef(ctx context.Context, remote, ref string) error
	LocalBranchExists(ctx context.Context, name branch.Name) (bool, error)
	CreateBranchFrom(ctx context.Context, remote string, name branch.Name, baseRef string) error
	Publish(ctx context.Context, remote string, name branch.Name) error
	CheckoutExisting(ctx context.Context, remote string, name branch.Name) error
}

// Dispatcher submits the automated-fix workflow run request.
type Dispatcher interface {
	Dispatch(ctx context.Context, req WorkflowRequest) (*RunHandle, error)
}

// Pipeline wires the collaborators for one end-to-end run.
type Pipeline struct {
	Tracker    Tracker
	Inspector  RepoStateInspector
	Git        GitSync
	Dispatcher Dispatcher

	// Logf receives verbose step tracing. Nil means silent.
	Logf func(format string, args ...any)
}

// Options control a single run.
type Options struct {
	IssueNumber int
	BaseBranch  string
	Remote      string

	// Confirm supplies the operator's reuse decision when the branch
	// already exists remotely. Nil declines, which aborts.
	Confirm branch.ConfirmFunc

	// DryRun computes the decision and prints the plan but performs no
	// branch mutation and no dispatch.
	DryRun bool
}

// Result summarizes what one run observed and did.
type Result struct {
	Login      string          `json:"login"`
	Issue      Issue           `json:"issue"`
	Branch     branch.Name     `json:"branch"`
	BaseBranch string          `json:"base_branch"`
	State      branch.State    `json:"-"`
	StateName  string          `json:"state"`
	Decision   branch.Decision `json:"-"`
	Action     string          `json:"action"`
	Aborted    bool            `json:"aborted"`
	Created    bool            `json:"created"`
	Published  bool            `json:"published"`
	Dispatched bool            `json:"dispatched"`
	DryRun     bool            `json:"dry_run,omitempty"`
	Run        *RunHandle      `json:"run,omitempty"`
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.Logf != nil {
		p.Logf(format, args...)
	}
}

// Run executes the pipeline. It fails fast: no step is attempted after a
// fatal failure in an earlier step. An aborted run returns a Result with
// Aborted set and a nil error, since abort is a successful no-op.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.IssueNumber <= 0 {
		return nil, fmt.Errorf("%w: issue number must be a positive integer", ErrInvalidInput)
	}
	if opts.BaseBranch == "" {
		return nil, fmt.Errorf("%w: base branch must not be empty", ErrInvalidInput)
	}
	if opts.Remote == "" {
		return nil, fmt.Errorf("%w: remote must not be empty", ErrInvalidInput)
	}

	res := &Result{BaseBranch: opts.BaseBranch, DryRun: opts.DryRun}

	login, err := p.Tracker.CheckAuth(ctx)
	if err != nil {
		return nil, err
	}
	res.Login = login
	p.logf("authenticated as %s", login)

	issue, err := p.Tracker.FetchIssue(ctx, opts.IssueNumber)
	if err != nil {
		return nil, err
	}
	res.Issue = *issue
	p.logf("issue #%d: %s", issue.Number, issue.Title)

	name, err := branch.New(issue.Number, issue.Title)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	res.Branch = name
	p.logf("branch name: %s", name)

	state, err := p.Inspector.RemoteBranchExists(ctx, opts.Remote, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	res.State = state
	res.StateName = state.String()
	p.logf("remote state: %s", state)

	decision, err := branch.Reconcile(name, state, opts.Confirm)
	if err != nil {
		return nil, err
	}
	res.Decision = decision
	res.Action = decision.String()
	p.logf("decision: %s", decision)

	if decision == branch.DecisionAbort {
		res.Aborted = true
		return res, nil
	}

	switch decision {
	case branch.DecisionCreateNew:
		// A local branch without a remote counterpart is ambiguous state:
		// a previous run may have died between create and publish, or the
		// name may be taken by unrelated work. Surface it, don't guess.
		exists, err := p.Git.LocalBranchExists(ctx, name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("%w: branch %s exists locally but not on %s", ErrRefConflict, name, opts.Remote)
		}

		if opts.DryRun {
			return res, nil
		}

		if err := p.Git.FetchRef(ctx, opts.Remote, opts.BaseBranch); err != nil {
			return nil, err
		}
		if err := p.Git.CreateBranchFrom(ctx, opts.Remote, name, opts.BaseBranch); err != nil {
			return nil, err
		}
		res.Created = true
		p.logf("created %s from %s/%s", name, opts.Remote, opts.BaseBranch)

		if err := p.Git.Publish(ctx, opts.Remote, name); err != nil {
			return nil, err
		}
		res.Published = true
		p.logf("published %s", name)

	case branch.DecisionReuseExisting:
		if opts.DryRun {
			return res, nil
		}

		// The remote check above used ls-remote, which never updates
		// local remote-tracking refs. Fetch the branch first so the
		// tracking checkout resolves in clones that have not seen it.
		if err := p.Git.FetchRef(ctx, opts.Remote, name.Short()); err != nil {
			return nil, err
		}
		if err := p.Git.CheckoutExisting(ctx, opts.Remote, name); err != nil {
			return nil, err
		}
		p.logf("checked out existing %s", name)
	}

	// By now the target branch exists remotely either way; dispatch the
	// workflow against it, exactly once. A dispatch failure does not roll
	// the branch back: the published branch is the recovery path for the
	// next invocation.
	handle, err := p.Dispatcher.Dispatch(ctx, WorkflowRequest{
		Branch:      name,
		BaseBranch:  opts.BaseBranch,
		IssueNumber: issue.Number,
	})
	if err != nil {
		return res, err
	}
	res.Dispatched = true
	res.Run = handle
	p.logf("dispatched %s on %s", handle.Workflow, handle.Ref)

	return res, nil
}
