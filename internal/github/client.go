package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

// NewClient creates a new GitHub client.
func NewClient(token, owner, repo string) *Client {
	return &Client{
		Token:   token,
		Owner:   owner,
		Repo:    repo,
		BaseURL: DefaultAPIEndpoint,
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// WithHTTPClient returns a new client with a custom HTTP client.
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	return &Client{
		Token:      c.Token,
		Owner:      c.Owner,
		Repo:       c.Repo,
		BaseURL:    c.BaseURL,
		HTTPClient: httpClient,
	}
}

// WithBaseURL returns a new client with a custom base URL (for testing or
// GitHub Enterprise).
func (c *Client) WithBaseURL(baseURL string) *Client {
	return &Client{
		Token:      c.Token,
		Owner:      c.Owner,
		Repo:       c.Repo,
		BaseURL:    baseURL,
		HTTPClient: c.HTTPClient,
	}
}

// repoPath returns the "owner/repo" path segment.
func (c *Client) repoPath() string {
	return c.Owner + "/" + c.Repo
}

// buildURL constructs a full API URL.
func (c *Client) buildURL(path string, params map[string]string) string {
	u := c.BaseURL + path

	if len(params) > 0 {
		values := url.Values{}
		for k, v := range params {
			values.Set(k, v)
		}
		u += "?" + values.Encode()
	}

	return u
}

// doRequest performs a single authenticated HTTP request. Failures are
// classified into the package sentinels; nothing is retried here. The one
// workflow dispatch this tool performs must happen at most once, and issue
// lookups are cheap to re-run by invoking the tool again.
func (c *Client) doRequest(ctx context.Context, method, urlStr string, body interface{}) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, urlStr, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	const maxResponseSize = 10 * 1024 * 1024
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	_ = resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, fmt.Errorf("%w (status 401)", ErrAuthRequired)
	case resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: %s (status 403)", ErrAuthRequired, compactBody(respBody))
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w (status 404)", ErrNotFound)
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: %s (status %d)", ErrUnavailable, compactBody(respBody), resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("API error: %s (status %d)", compactBody(respBody), resp.StatusCode)
	}

	return respBody, nil
}

// compactBody trims an error response body down to something printable.
func compactBody(body []byte) string {
	const maxErrBody = 512
	s := string(bytes.TrimSpace(body))
	if len(s) > maxErrBody {
		s = s[:maxErrBody] + "..."
	}
	return s
}

// CheckAuth verifies the token resolves to a user session. It is the
// fail-fast precondition for every run: we never attempt git or dispatch
// work with a dead token.
func (c *Client) CheckAuth(ctx context.Context) (string, error) {
	if c.Token == "" {
		return "", fmt.Errorf("%w: no token configured", ErrAuthRequired)
	}

	respBody, err := c.doRequest(ctx, http.MethodGet, c.buildURL("/user", nil), nil)
	if err != nil {
		return "", err
	}

	var user User
	if err := json.Unmarshal(respBody, &user); err != nil {
		return "", fmt.Errorf("failed to parse user response: %w", err)
	}

	return user.Login, nil
}

// FetchIssue retrieves a single issue by its number. Pull requests share
// the issue number space; a number that resolves to a PR is reported as
// not found, since a PR is not a fixable issue.
func (c *Client) FetchIssue(ctx context.Context, number int) (*Issue, error) {
	urlStr := c.buildURL("/repos/"+c.repoPath()+"/issues/"+strconv.Itoa(number), nil)
	respBody, err := c.doRequest(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("issue #%d: %w", number, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch issue #%d: %w", number, err)
	}

	var issue Issue
	if err := json.Unmarshal(respBody, &issue); err != nil {
		return nil, fmt.Errorf("failed to parse issue response: %w", err)
	}

	if issue.PullRequest != nil {
		return nil, fmt.Errorf("#%d is a pull request, not an issue: %w", number, ErrNotFound)
	}

	return &issue, nil
}

// DispatchWorkflow submits a workflow_dispatch run request for the named
// workflow file against ref. GitHub answers 204 with no body; the returned
// handle points the operator at the workflow's run list.
func (c *Client) DispatchWorkflow(ctx context.Context, workflowFile, ref string, inputs DispatchInputs) (*RunHandle, error) {
	urlStr := c.buildURL("/repos/"+c.repoPath()+"/actions/workflows/"+url.PathEscape(workflowFile)+"/dispatches", nil)
	body := dispatchRequest{Ref: ref, Inputs: inputs}

	if _, err := c.doRequest(ctx, http.MethodPost, urlStr, body); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("workflow %q not found: %w", workflowFile, err)
		}
		return nil, fmt.Errorf("failed to dispatch workflow %q: %w", workflowFile, err)
	}

	return &RunHandle{
		Workflow: workflowFile,
		Ref:      ref,
		URL:      fmt.Sprintf("https://github.com/%s/actions/workflows/%s", c.repoPath(), workflowFile),
	}, nil
}
