package history

import (
	"time"

	"github.com/google/uuid"
)

type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
)

// Command is one recorded mutating intent dispatched through the facade.
type Command struct {
	ID uuid.UUID

	Op      string
	Args    []string
	Outcome Outcome
	Error   string // failure text, empty on success

	StartedAt  time.Time
	FinishedAt time.Time
	CreatedAt  time.Time
}
