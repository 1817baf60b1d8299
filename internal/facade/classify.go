package facade

import "errors"

// Outcome is the closed classification of a collaborator failure. It decides
// snapshot-versus-error propagation and is never exposed to callers as a raw
// collaborator error type.
type Outcome int

const (
	// OutcomeFatal propagates the cause to the caller; no snapshot is
	// returned.
	OutcomeFatal Outcome = iota
	// OutcomeEmpty converts the failure into an absent snapshot.
	OutcomeEmpty
	// OutcomeSuppressed converts the failure into a benign success value.
	OutcomeSuppressed
)

// Classified is a collaborator failure after classification. Cause is set
// only for OutcomeFatal, where the original error must survive unwrapped.
type Classified struct {
	Outcome Outcome
	Cause   error
}

// classifyStatus applies the status-read policy: a bad configuration file or
// a wrong working directory is fatal, every other failure resolves to an
// empty snapshot.
func classifyStatus(err error) Classified {
	if errors.Is(err, ErrBadConfigFile) || errors.Is(err, ErrOutsideWorkingTree) {
		return Classified{Outcome: OutcomeFatal, Cause: err}
	}
	return Classified{Outcome: OutcomeEmpty}
}

// classifyFetch suppresses the no-remote condition, treating the fetch as a
// successful no-op. Anything else propagates.
func classifyFetch(err error) Classified {
	if errors.Is(err, ErrNoRemote) {
		return Classified{Outcome: OutcomeSuppressed}
	}
	return Classified{Outcome: OutcomeFatal, Cause: err}
}

// classifyContent suppresses reads of paths that are simply absent at the
// requested revision. Anything else propagates.
func classifyContent(err error) Classified {
	if errors.Is(err, ErrNotFoundAtRevision) {
		return Classified{Outcome: OutcomeSuppressed}
	}
	return Classified{Outcome: OutcomeFatal, Cause: err}
}
