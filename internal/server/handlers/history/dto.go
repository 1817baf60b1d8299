package history

import (
	"time"

	"github.com/google/uuid"

	"github.com/gitbridge/gitbridge/internal/history"
)

// CommandResponse is one recorded command from the audit trail.
type CommandResponse struct {
	ID uuid.UUID `json:"id"`

	Op      string   `json:"op"`
	Args    []string `json:"args,omitempty"`
	Outcome string   `json:"outcome"`
	Error   string   `json:"error,omitempty"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	CreatedAt  time.Time `json:"created_at"`
}

func toResponse(command *history.Command) CommandResponse {
	return CommandResponse{
		ID: command.ID,

		Op:      command.Op,
		Args:    command.Args,
		Outcome: string(command.Outcome),
		Error:   command.Error,

		StartedAt:  command.StartedAt,
		FinishedAt: command.FinishedAt,
		CreatedAt:  command.CreatedAt,
	}
}
