package autofix

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autofix-dev/autofix/internal/github"
)

func newAPIClient(t *testing.T, handler http.HandlerFunc) *github.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return github.NewClient("test-token", "owner", "repo").WithBaseURL(server.URL)
}

func TestGitHubTrackerFetchIssue(t *testing.T) {
	client := newAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user":
			_ = json.NewEncoder(w).Encode(github.User{Login: "octocat"})
		case "/repos/owner/repo/issues/42":
			_ = json.NewEncoder(w).Encode(github.Issue{
				Number:  42,
				Title:   "Fix Bug: Crash!!",
				HTMLURL: "https://github.com/owner/repo/issues/42",
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	tracker := NewGitHubTracker(client)

	login, err := tracker.CheckAuth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "octocat", login)

	issue, err := tracker.FetchIssue(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 42, issue.Number)
	assert.Equal(t, "Fix Bug: Crash!!", issue.Title)
	assert.Equal(t, "https://github.com/owner/repo/issues/42", issue.URL)
}

// TestGitHubTrackerErrorMapping verifies transport sentinels are folded
// into the pipeline taxonomy.
func TestGitHubTrackerErrorMapping(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		client := newAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		_, err := NewGitHubTracker(client).FetchIssue(context.Background(), 999)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("auth required", func(t *testing.T) {
		client := newAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
		_, err := NewGitHubTracker(client).CheckAuth(context.Background())
		assert.ErrorIs(t, err, ErrAuthRequired)
	})

	t.Run("unavailable", func(t *testing.T) {
		client := newAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
		_, err := NewGitHubTracker(client).FetchIssue(context.Background(), 42)
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}

func TestGitHubDispatcher(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	client := newAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusNoContent)
	})

	d := NewGitHubDispatcher(client, "autofix.yaml")
	handle, err := d.Dispatch(context.Background(), WorkflowRequest{
		Branch:      "fix/42-fix-bug-crash",
		BaseBranch:  "dev",
		IssueNumber: 42,
	})
	require.NoError(t, err)

	assert.Equal(t, "/repos/owner/repo/actions/workflows/autofix.yaml/dispatches", gotPath)
	assert.Equal(t, "fix/42-fix-bug-crash", gotBody["ref"])

	inputs, ok := gotBody["inputs"].(map[string]any)
	require.True(t, ok, "inputs missing from dispatch body")
	assert.Equal(t, "fix/42-fix-bug-crash", inputs["branch"])
	assert.Equal(t, "dev", inputs["base_branch"])
	assert.Equal(t, float64(42), inputs["issue_number"])

	assert.Equal(t, "autofix.yaml", handle.Workflow)
	assert.Equal(t, "fix/42-fix-bug-crash", handle.Ref)
}

func TestGitHubDispatcherFailure(t *testing.T) {
	client := newAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"Workflow does not have workflow_dispatch trigger"}`))
	})

	_, err := NewGitHubDispatcher(client, "autofix.yaml").Dispatch(context.Background(), WorkflowRequest{
		Branch:      "fix/1",
		BaseBranch:  "dev",
		IssueNumber: 1,
	})
	assert.ErrorIs(t, err, ErrDispatchFailed)
}
