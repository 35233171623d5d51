// Package git wraps the git CLI for the handful of ref and branch
// operations the fix pipeline needs. All commands run against a fixed
// working tree and inherit the caller's context for cancellation.
package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/autofix-dev/autofix/internal/branch"
)

// Sentinel errors callers branch on.
var (
	// ErrNotARepo means the directory is not inside a git working tree.
	ErrNotARepo = errors.New("not a git repository")

	// ErrBranchExists means a local branch with the requested name is
	// already present.
	ErrBranchExists = errors.New("local branch already exists")

	// ErrRefNotFound means the requested ref does not exist on the remote.
	ErrRefNotFound = errors.New("ref not found")
)

// Repo runs git commands against a single working tree.
type Repo struct {
	Dir string // working tree root ("" means process CWD)
}

// Open verifies dir is inside a git working tree and returns a Repo for it.
func Open(ctx context.Context, dir string) (*Repo, error) {
	r := &Repo{Dir: dir}
	if _, err := r.run(ctx, "rev-parse", "--git-dir"); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotARepo, dir)
	}
	return r, nil
}

// run executes a git command and returns trimmed stdout. Stderr is folded
// into the error message so failures are self-describing.
func (r *Repo) run(ctx context.Context, args ...string) (string, error) {
	cmdArgs := args
	if r.Dir != "" {
		cmdArgs = append([]string{"-C", r.Dir}, args...)
	}

	cmd := exec.CommandContext(ctx, "git", cmdArgs...) //nolint:gosec // args are fixed subcommands plus validated refs
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("git %s: %s", args[0], strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return strings.TrimSpace(string(out)), nil
}

// RemoteURL returns the configured URL for a remote.
func (r *Repo) RemoteURL(ctx context.Context, remote string) (string, error) {
	out, err := r.run(ctx, "remote", "get-url", remote)
	if err != nil {
		return "", fmt.Errorf("remote %q: %w", remote, err)
	}
	return out, nil
}

// FetchRef fetches a single ref from the remote. A ref the remote does not
// advertise surfaces as ErrRefNotFound.
func (r *Repo) FetchRef(ctx context.Context, remote, ref string) error {
	if _, err := r.run(ctx, "fetch", remote, ref); err != nil {
		if strings.Contains(err.Error(), "couldn't find remote ref") {
			return fmt.Errorf("%w: %s/%s", ErrRefNotFound, remote, ref)
		}
		return fmt.Errorf("fetching %s/%s: %w", remote, ref, err)
	}
	return nil
}

// RemoteBranchExists asks the remote directly whether a branch exists.
// ls-remote talks to the remote at call time, so the answer reflects remote
// truth rather than a possibly stale local ref cache. A stale answer here
// would corrupt the create-vs-reuse decision.
func (r *Repo) RemoteBranchExists(ctx context.Context, remote string, name branch.Name) (branch.State, error) {
	if err := name.Validate(); err != nil {
		return branch.StateAbsent, err
	}
	out, err := r.run(ctx, "ls-remote", "--heads", remote, name.Short())
	if err != nil {
		return branch.StateAbsent, fmt.Errorf("listing %s on %s: %w", name, remote, err)
	}
	if out == "" {
		return branch.StateAbsent, nil
	}
	return branch.StateExistsRemotely, nil
}

// LocalBranchExists reports whether a local branch with the given name exists.
func (r *Repo) LocalBranchExists(ctx context.Context, name branch.Name) (bool, error) {
	if err := name.Validate(); err != nil {
		return false, err
	}
	_, err := r.run(ctx, "rev-parse", "--verify", "--quiet", "refs/heads/"+name.Short())
	if err == nil {
		return true, nil
	}
	// rev-parse --quiet exits non-zero without a message when the ref is
	// simply absent; anything with stderr output is a real failure.
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && len(exitErr.Stderr) == 0 {
		return false, nil
	}
	return false, fmt.Errorf("checking local branch %s: %w", name, err)
}

// CreateBranchFrom creates and checks out a new local branch tracking
// remote/baseRef. It refuses to proceed if the branch already exists
// locally; the reconciler handles that case before we get here.
func (r *Repo) CreateBranchFrom(ctx context.Context, remote string, name branch.Name, baseRef string) error {
	exists, err := r.LocalBranchExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrBranchExists, name)
	}

	if _, err := r.run(ctx, "checkout", "-b", name.Short(), remote+"/"+baseRef); err != nil {
		return fmt.Errorf("creating %s from %s/%s: %w", name, remote, baseRef, err)
	}
	return nil
}

// Publish pushes a branch upstream with tracking configured.
func (r *Repo) Publish(ctx context.Context, remote string, name branch.Name) error {
	if err := name.Validate(); err != nil {
		return err
	}
	if _, err := r.run(ctx, "push", "--set-upstream", remote, name.Short()); err != nil {
		return fmt.Errorf("publishing %s to %s: %w", name, remote, err)
	}
	return nil
}

// CheckoutExisting switches the working tree to a branch that already
// exists on the remote, creating a local tracking branch if needed. The
// caller fetches the branch beforehand; the tracking ref must resolve.
// It never mutates remote state.
func (r *Repo) CheckoutExisting(ctx context.Context, remote string, name branch.Name) error {
	exists, err := r.LocalBranchExists(ctx, name)
	if err != nil {
		return err
	}

	if exists {
		if _, err := r.run(ctx, "checkout", name.Short()); err != nil {
			return fmt.Errorf("checking out %s: %w", name, err)
		}
		// Fast-forward to the remote tip. A divergent local branch is a
		// real conflict the operator has to untangle; never force it.
		if _, err := r.run(ctx, "merge", "--ff-only", remote+"/"+name.Short()); err != nil {
			return fmt.Errorf("fast-forwarding %s to %s: %w", name, remote, err)
		}
		return nil
	}

	if _, err := r.run(ctx, "checkout", "-b", name.Short(), "--track", remote+"/"+name.Short()); err != nil {
		return fmt.Errorf("checking out %s from %s: %w", name, remote, err)
	}
	return nil
}
