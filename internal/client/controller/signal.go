package controller

import "github.com/atinyakov/UserKeeper/internal/models"

// SignalType enumerates what the controller reports to the view.
type SignalType int

const (
	// SignalLoading reports a change of the busy flag, see Signal.Loading.
	SignalLoading SignalType = iota
	// SignalFetchFailed reports a failed list refresh.
	SignalFetchFailed
	// SignalMutationSucceeded reports a successful create, update or delete.
	SignalMutationSucceeded
	// SignalMutationFailed reports a store failure during a mutation.
	SignalMutationFailed
	// SignalValidationError reports an empty field; the store was not called.
	SignalValidationError
)

func (t SignalType) String() string {
	switch t {
	case SignalLoading:
		return "loading"
	case SignalFetchFailed:
		return "fetch_failed"
	case SignalMutationSucceeded:
		return "mutation_succeeded"
	case SignalMutationFailed:
		return "mutation_failed"
	case SignalValidationError:
		return "validation_error"
	default:
		return "unknown"
	}
}

// Signal is an observable side effect of a controller operation.
type Signal struct {
	Type SignalType
	// Loading is the new busy value for SignalLoading.
	Loading bool
	// Kind is set for mutation signals.
	Kind models.MutationKind
	// Err is the underlying failure, if any.
	Err error
}

// Notifier receives signals in the order they happen. Notify must not call
// controller operations; it may call the read accessors.
type Notifier interface {
	Notify(Signal)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Signal)

// Notify calls f(s).
func (f NotifierFunc) Notify(s Signal) { f(s) }
