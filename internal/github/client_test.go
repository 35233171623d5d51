package github

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// TestNewClient verifies the constructor creates a properly configured client.
func TestNewClient(t *testing.T) {
	client := NewClient("test-token", "owner", "repo")

	if client.Token != "test-token" {
		t.Errorf("Token = %q, want %q", client.Token, "test-token")
	}
	if client.Owner != "owner" {
		t.Errorf("Owner = %q, want %q", client.Owner, "owner")
	}
	if client.Repo != "repo" {
		t.Errorf("Repo = %q, want %q", client.Repo, "repo")
	}
	if client.BaseURL != DefaultAPIEndpoint {
		t.Errorf("BaseURL = %q, want %q", client.BaseURL, DefaultAPIEndpoint)
	}
	if client.HTTPClient == nil {
		t.Error("HTTPClient is nil, want non-nil default client")
	}
}

// TestClientBuilders verifies the builder pattern for custom HTTP client and URL.
func TestClientBuilders(t *testing.T) {
	customClient := &http.Client{Timeout: 60 * time.Second}
	client := NewClient("token", "owner", "repo").
		WithHTTPClient(customClient).
		WithBaseURL("https://github.example.com/api/v3")

	if client.HTTPClient != customClient {
		t.Error("HTTPClient not set to custom client")
	}
	if client.BaseURL != "https://github.example.com/api/v3" {
		t.Errorf("BaseURL = %q, want custom URL", client.BaseURL)
	}
	if client.Token != "token" {
		t.Errorf("Token = %q, want %q", client.Token, "token")
	}
}

// newTestClient returns a client pointed at an httptest server running handler.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient("test-token", "owner", "repo").WithBaseURL(server.URL)
}

func TestCheckAuth(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user" {
			t.Errorf("path = %q, want /user", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		_ = json.NewEncoder(w).Encode(User{ID: 1, Login: "octocat"})
	})

	login, err := client.CheckAuth(context.Background())
	if err != nil {
		t.Fatalf("CheckAuth: %v", err)
	}
	if login != "octocat" {
		t.Errorf("login = %q, want %q", login, "octocat")
	}
}

func TestCheckAuthNoToken(t *testing.T) {
	client := NewClient("", "owner", "repo")

	_, err := client.CheckAuth(context.Background())
	if !errors.Is(err, ErrAuthRequired) {
		t.Fatalf("CheckAuth with empty token = %v, want ErrAuthRequired", err)
	}
}

func TestCheckAuthRejectedToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.CheckAuth(context.Background())
	if !errors.Is(err, ErrAuthRequired) {
		t.Fatalf("CheckAuth with 401 = %v, want ErrAuthRequired", err)
	}
}

func TestFetchIssue(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/owner/repo/issues/42" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Accept"); got != "application/vnd.github+json" {
			t.Errorf("Accept = %q", got)
		}
		_ = json.NewEncoder(w).Encode(Issue{Number: 42, Title: "Fix Bug: Crash!!", State: "open"})
	})

	issue, err := client.FetchIssue(context.Background(), 42)
	if err != nil {
		t.Fatalf("FetchIssue: %v", err)
	}
	if issue.Number != 42 {
		t.Errorf("Number = %d, want 42", issue.Number)
	}
	if issue.Title != "Fix Bug: Crash!!" {
		t.Errorf("Title = %q", issue.Title)
	}
}

func TestFetchIssueNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.FetchIssue(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("FetchIssue(999) = %v, want ErrNotFound", err)
	}
}

// TestFetchIssuePullRequest verifies that a number resolving to a PR is
// reported as not found: PRs share the issue number space but are not
// fixable issues.
func TestFetchIssuePullRequest(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(Issue{
			Number:      17,
			Title:       "Some PR",
			PullRequest: &PullRef{URL: "https://api.github.com/repos/owner/repo/pulls/17"},
		})
	})

	_, err := client.FetchIssue(context.Background(), 17)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("FetchIssue(PR) = %v, want ErrNotFound", err)
	}
}

func TestFetchIssueServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.FetchIssue(context.Background(), 42)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("FetchIssue with 502 = %v, want ErrUnavailable", err)
	}
}

func TestDispatchWorkflow(t *testing.T) {
	var gotBody dispatchRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		if r.URL.Path != "/repos/owner/repo/actions/workflows/autofix.yaml/dispatches" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding dispatch body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	inputs := DispatchInputs{Branch: "fix/42-fix-bug-crash", BaseBranch: "dev", IssueNumber: 42}
	handle, err := client.DispatchWorkflow(context.Background(), "autofix.yaml", "fix/42-fix-bug-crash", inputs)
	if err != nil {
		t.Fatalf("DispatchWorkflow: %v", err)
	}

	if gotBody.Ref != "fix/42-fix-bug-crash" {
		t.Errorf("ref = %q", gotBody.Ref)
	}
	if gotBody.Inputs != inputs {
		t.Errorf("inputs = %+v, want %+v", gotBody.Inputs, inputs)
	}
	if handle.Workflow != "autofix.yaml" {
		t.Errorf("handle.Workflow = %q", handle.Workflow)
	}
	if handle.URL == "" {
		t.Error("handle.URL is empty")
	}
}

func TestDispatchWorkflowNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.DispatchWorkflow(context.Background(), "missing.yaml", "fix/1", DispatchInputs{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("DispatchWorkflow = %v, want ErrNotFound", err)
	}
}

// TestDispatchWorkflowUnprocessable covers GitHub's 422 answer for refs or
// inputs the workflow rejects.
func TestDispatchWorkflowUnprocessable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"No ref found"}`))
	})

	_, err := client.DispatchWorkflow(context.Background(), "autofix.yaml", "fix/1", DispatchInputs{})
	if err == nil {
		t.Fatal("DispatchWorkflow with 422 succeeded, want error")
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrAuthRequired) || errors.Is(err, ErrUnavailable) {
		t.Fatalf("422 should be a plain API error, got %v", err)
	}
}
