package history

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/gitbridge/gitbridge/pkg/badgerfx"
)

// Repository persists command records in badger.
type Repository struct {
	db       *badger.DB
	commands *badgerfx.Repository[*commandModel]
}

func NewRepository(db *badger.DB) *Repository {
	return &Repository{
		db:       db,
		commands: badgerfx.NewRepository(func() *commandModel { return &commandModel{} }),
	}
}

// Create stores a new command record and returns it with its assigned id.
func (r *Repository) Create(_ context.Context, command *Command) (*Command, error) {
	model := newCommandModel(command)

	err := r.db.Update(func(txn *badger.Txn) error {
		return r.commands.Write(txn, model)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create command record: %w", err)
	}

	created := newCommand(model)
	return &created, nil
}

// GetByID retrieves one command record.
func (r *Repository) GetByID(_ context.Context, id uuid.UUID) (*Command, error) {
	var command *Command

	err := r.db.View(func(txn *badger.Txn) error {
		model, err := r.commands.Read(txn, prefixByID+id.String())
		if err != nil {
			return err
		}
		found := newCommand(model)
		command = &found
		return nil
	})
	if err != nil {
		if errors.Is(err, badgerfx.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}

	return command, nil
}

// List returns the most recent command records, newest first, up to limit.
// A non-positive limit returns everything.
func (r *Repository) List(_ context.Context, limit int) ([]Command, error) {
	var commands []Command

	err := r.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Reverse = true

		models, err := r.commands.List(txn, prefixByID, options, limit)
		if err != nil {
			return err
		}

		for _, model := range models {
			commands = append(commands, newCommand(model))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list command records: %w", err)
	}

	return commands, nil
}
