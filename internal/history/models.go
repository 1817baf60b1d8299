package history

import (
	"encoding/json"
	"time"

	"github.com/gitbridge/gitbridge/internal/storage"
	"github.com/gitbridge/gitbridge/pkg/badgerfx"
)

const (
	prefixByID   = "command:id:"
	prefixByTime = "command:time:"
)

// commandModel is the persisted form of a Command. Primary keys embed the
// UUIDv7 id, so iterating the id prefix yields creation order.
type commandModel struct {
	storage.BaseEntity

	Op      string   `json:"op"`
	Args    []string `json:"args"`
	Outcome Outcome  `json:"outcome"`
	Error   string   `json:"error,omitempty"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

var _ badgerfx.Entity = (*commandModel)(nil)

func newCommandModel(command *Command) *commandModel {
	return &commandModel{
		BaseEntity: storage.NewBaseEntity(),
		Op:         command.Op,
		Args:       command.Args,
		Outcome:    command.Outcome,
		Error:      command.Error,
		StartedAt:  command.StartedAt,
		FinishedAt: command.FinishedAt,
	}
}

func newCommand(model *commandModel) Command {
	return Command{
		ID:         model.ID,
		Op:         model.Op,
		Args:       model.Args,
		Outcome:    model.Outcome,
		Error:      model.Error,
		StartedAt:  model.StartedAt,
		FinishedAt: model.FinishedAt,
		CreatedAt:  model.CreatedAt,
	}
}

// StorageKey implements badgerfx.Entity.
func (m *commandModel) StorageKey() string {
	return prefixByID + m.ID.String()
}

// StorageIndexes implements badgerfx.Entity. The time index keeps records
// addressable by creation instant; the id suffix disambiguates same-second
// records.
func (m *commandModel) StorageIndexes() []string {
	return []string{
		prefixByTime + m.CreatedAt.UTC().Format(time.RFC3339) + ":" + m.ID.String(),
	}
}

// MarshalStorage implements badgerfx.Entity.
func (m *commandModel) MarshalStorage() ([]byte, error) {
	return json.Marshal(m)
}

// UnmarshalStorage implements badgerfx.Entity.
func (m *commandModel) UnmarshalStorage(data []byte) error {
	return json.Unmarshal(data, m)
}
