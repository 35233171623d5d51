package branch

import "fmt"

// State is the observed remote state for a branch name. It is recomputed on
// every run; a stale answer here is a correctness bug upstream.
type State int

const (
	// StateAbsent means the branch does not exist on the remote.
	StateAbsent State = iota
	// StateExistsRemotely means the remote already has the branch.
	StateExistsRemotely
)

func (s State) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StateExistsRemotely:
		return "exists-remotely"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Decision is the terminal outcome of reconciliation.
type Decision int

const (
	// DecisionCreateNew creates and publishes a fresh branch from the base.
	DecisionCreateNew Decision = iota
	// DecisionReuseExisting targets the branch already on the remote.
	DecisionReuseExisting
	// DecisionAbort stops the run without touching anything. Abort is a
	// successful no-op, not a failure.
	DecisionAbort
)

func (d Decision) String() string {
	switch d {
	case DecisionCreateNew:
		return "create-new"
	case DecisionReuseExisting:
		return "reuse-existing"
	case DecisionAbort:
		return "abort"
	default:
		return fmt.Sprintf("decision(%d)", int(d))
	}
}

// ConfirmFunc reports whether the operator wants to reuse an existing
// remote branch. It is supplied by the caller so reconciliation stays pure:
// the CLI wires an interactive prompt, tests wire a canned answer.
type ConfirmFunc func(name Name) (bool, error)

// Reconcile decides what to do about a desired branch given its remote
// state. This is the only branching logic in the pipeline and the only
// place operator input affects control flow.
//
//   - StateAbsent always yields DecisionCreateNew.
//   - StateExistsRemotely asks confirm: yes yields DecisionReuseExisting,
//     no yields DecisionAbort.
//
// A nil confirm is treated as a declined confirmation.
func Reconcile(name Name, state State, confirm ConfirmFunc) (Decision, error) {
	switch state {
	case StateAbsent:
		return DecisionCreateNew, nil
	case StateExistsRemotely:
		if confirm == nil {
			return DecisionAbort, nil
		}
		reuse, err := confirm(name)
		if err != nil {
			return DecisionAbort, fmt.Errorf("reuse confirmation for %s: %w", name, err)
		}
		if reuse {
			return DecisionReuseExisting, nil
		}
		return DecisionAbort, nil
	default:
		return DecisionAbort, fmt.Errorf("unknown branch state %d", int(state))
	}
}
