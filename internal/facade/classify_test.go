package facade

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifyStatus(t *testing.T) {
	wrapped := fmt.Errorf("failed to read status: %w", ErrBadConfigFile)
	if c := classifyStatus(wrapped); c.Outcome != OutcomeFatal {
		t.Errorf("Expected fatal outcome for bad config file, got %v", c.Outcome)
	}

	c := classifyStatus(fmt.Errorf("wrapped: %w", ErrOutsideWorkingTree))
	if c.Outcome != OutcomeFatal {
		t.Errorf("Expected fatal outcome for wrong working directory, got %v", c.Outcome)
	}
	if !errors.Is(c.Cause, ErrOutsideWorkingTree) {
		t.Error("Expected cause to keep the original error chain")
	}

	if c := classifyStatus(errors.New("object database corrupt")); c.Outcome != OutcomeEmpty {
		t.Errorf("Expected empty outcome for a generic failure, got %v", c.Outcome)
	}
}

func TestClassifyFetch(t *testing.T) {
	if c := classifyFetch(ErrNoRemote); c.Outcome != OutcomeSuppressed {
		t.Errorf("Expected suppressed outcome for missing remote, got %v", c.Outcome)
	}
	if c := classifyFetch(errors.New("connection refused")); c.Outcome != OutcomeFatal {
		t.Errorf("Expected fatal outcome for a network failure, got %v", c.Outcome)
	}
}

func TestClassifyContent(t *testing.T) {
	err := fmt.Errorf("%w: README.md at HEAD~3", ErrNotFoundAtRevision)
	if c := classifyContent(err); c.Outcome != OutcomeSuppressed {
		t.Errorf("Expected suppressed outcome for an absent path, got %v", c.Outcome)
	}
	if c := classifyContent(errors.New("pack file truncated")); c.Outcome != OutcomeFatal {
		t.Errorf("Expected fatal outcome for a storage failure, got %v", c.Outcome)
	}
}
