package session

import "errors"

// State is the lifecycle state of a sync session.
type State string

const (
	// StateFetching means the source fetch and diff are in progress.
	StateFetching State = "fetching"
	// StateDiffed means a plan is computed and awaits an explicit confirm.
	StateDiffed State = "diffed"
	// StateApplying means the plan is being written to the store.
	StateApplying State = "applying"
	// StateDone means the apply finished, possibly with failed batches.
	StateDone State = "done"
	// StateFailed means the fetch or the apply aborted.
	StateFailed State = "failed"
)

var (
	// ErrSessionBusy is returned when a fetch or apply is requested while a
	// session of the same scope is still fetching or applying.
	ErrSessionBusy = errors.New("a sync session is already in progress for this scope")

	// ErrNoSession is returned when an operation targets a scope without a
	// session.
	ErrNoSession = errors.New("no sync session exists for this scope")

	// ErrNotDiffed is returned when apply or cancel hits a session that is
	// not in a state permitting the operation.
	ErrNotDiffed = errors.New("session has no pending plan to apply")

	// ErrConfirmRequired is returned when apply is requested without the
	// explicit confirmation flag.
	ErrConfirmRequired = errors.New("applying a plan requires explicit confirmation")

	// ErrNotCancellable is returned when cancel hits a session that is
	// neither diffed nor applying.
	ErrNotCancellable = errors.New("session is not in a cancellable state")
)

// busy reports whether the state blocks starting new work on the scope.
func (s State) busy() bool {
	return s == StateFetching || s == StateApplying
}
