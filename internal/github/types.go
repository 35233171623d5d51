// Package github provides a client and data types for the GitHub REST API.
//
// The client covers the three calls this tool needs: verifying the caller's
// session, resolving an issue by number, and dispatching a workflow run.
package github

import (
	"errors"
	"net/http"
	"time"
)

// API configuration constants.
const (
	// DefaultAPIEndpoint is the GitHub REST API base URL.
	DefaultAPIEndpoint = "https://api.github.com"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second
)

// Sentinel errors for API failures the caller needs to tell apart.
var (
	// ErrAuthRequired means there is no usable session: the token is
	// missing, expired, or rejected.
	ErrAuthRequired = errors.New("github authentication required")

	// ErrNotFound means the requested resource does not exist or is not
	// accessible with the current token.
	ErrNotFound = errors.New("github resource not found")

	// ErrUnavailable means GitHub could not be reached or answered with a
	// server error.
	ErrUnavailable = errors.New("github unavailable")
)

// Client provides methods to interact with the GitHub REST API.
type Client struct {
	Token      string       // GitHub personal access token
	Owner      string       // Repository owner (user or org)
	Repo       string       // Repository name
	BaseURL    string       // API base URL (default: https://api.github.com)
	HTTPClient *http.Client // Optional custom HTTP client
}

// Issue represents an issue from the GitHub API.
type Issue struct {
	ID          int      `json:"id"`     // Global unique ID
	Number      int      `json:"number"` // Repository-scoped issue number
	Title       string   `json:"title"`
	Body        string   `json:"body"`
	State       string   `json:"state"` // "open" or "closed"
	HTMLURL     string   `json:"html_url"`
	User        *User    `json:"user,omitempty"`         // Author
	PullRequest *PullRef `json:"pull_request,omitempty"` // Non-nil if this is a PR
}

// PullRef indicates an issue is actually a pull request. The GitHub Issues
// API returns PRs alongside issues; this field distinguishes them.
type PullRef struct {
	URL string `json:"url,omitempty"`
}

// User represents a GitHub user.
type User struct {
	ID      int    `json:"id"`
	Login   string `json:"login"`
	HTMLURL string `json:"html_url,omitempty"`
}

// DispatchInputs are the named parameters passed to the automated-fix
// workflow. Field order is irrelevant on the wire.
type DispatchInputs struct {
	Branch      string `json:"branch"`
	BaseBranch  string `json:"base_branch"`
	IssueNumber int    `json:"issue_number"`
}

// dispatchRequest is the body of a workflow_dispatch API call.
type dispatchRequest struct {
	Ref    string         `json:"ref"`
	Inputs DispatchInputs `json:"inputs"`
}

// RunHandle identifies a dispatched workflow run to the operator. The
// dispatch endpoint returns no run ID, so the handle carries the browsable
// workflow URL instead.
type RunHandle struct {
	Workflow string `json:"workflow"`
	Ref      string `json:"ref"`
	URL      string `json:"url"`
}
