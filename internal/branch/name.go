// Package branch computes fix-branch names and decides how to reconcile
// them against remote state.
package branch

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/autofix-dev/autofix/internal/slug"
)

// Prefix is the namespace every fix branch lives under.
const Prefix = "fix/"

// Name is a canonical fix-branch identifier, e.g. "fix/42-crash-on-start".
type Name string

// namePattern validates branch names against git-check-ref-format rules,
// restricted to the subset this tool ever generates.
var namePattern = regexp.MustCompile(`^fix/[1-9][0-9]*(-[a-z0-9]+)*$`)

// New derives the branch name for an issue. The result is a pure function
// of (issueNumber, title): re-running against the same issue always targets
// the same branch. Fails only when issueNumber is not positive.
func New(issueNumber int, title string) (Name, error) {
	if issueNumber <= 0 {
		return "", fmt.Errorf("issue number must be a positive integer, got %d", issueNumber)
	}

	n := Prefix + strconv.Itoa(issueNumber)
	if s := slug.Make(title); s != "" {
		n += "-" + s
	}
	return Name(n), nil
}

// Short returns the branch name without the refs/heads/ style qualifier,
// which is just the name itself; it exists so call sites read naturally.
func (n Name) Short() string { return string(n) }

// Validate checks that a name is one this tool could have produced.
func (n Name) Validate() error {
	if n == "" {
		return fmt.Errorf("empty branch name")
	}
	if len(n) > 255 {
		return fmt.Errorf("branch name too long (max 255 characters)")
	}
	if !namePattern.MatchString(string(n)) {
		return fmt.Errorf("invalid fix branch name: %q", string(n))
	}
	return nil
}
