package autofix

import "errors"

// Error taxonomy for the fix pipeline. Every failure terminates the run
// with a non-zero status; nothing is retried automatically. The one
// deliberate exception is reconciliation's Abort, which is not an error
// at all.
var (
	// ErrInvalidInput covers missing or malformed arguments such as a
	// non-positive issue number or an empty base branch.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAuthRequired means there is no valid session for the issue
	// backend. The tool never authenticates on its own.
	ErrAuthRequired = errors.New("authentication required")

	// ErrNotFound means the issue number does not resolve to an
	// accessible issue.
	ErrNotFound = errors.New("issue not found")

	// ErrRefConflict means local and remote branch state disagree: the
	// local branch exists but the remote one does not. The ambiguity is
	// surfaced rather than silently resolved either way.
	ErrRefConflict = errors.New("local and remote branch state conflict")

	// ErrUnavailable means a collaborator (issue backend, git remote)
	// could not be reached.
	ErrUnavailable = errors.New("service unavailable")

	// ErrDispatchFailed means the remote workflow accepted no run. A
	// branch published earlier in the same run is left in place; the next
	// invocation reuses it.
	ErrDispatchFailed = errors.New("workflow dispatch failed")
)
