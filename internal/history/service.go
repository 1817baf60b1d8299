package history

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gitbridge/gitbridge/internal/facade"
)

// Service records every mutating intent dispatched through the facade and
// serves the audit trail back. It is the facade's Recorder port, so the
// aggregation core stays free of storage and metrics concerns.
type Service struct {
	commands *Repository

	logger *zap.Logger
}

var _ facade.Recorder = (*Service)(nil)

func NewService(commands *Repository, logger *zap.Logger) *Service {
	return &Service{
		commands: commands,
		logger:   logger,
	}
}

// Record implements facade.Recorder. Recording failures are logged, never
// propagated into the dispatch path.
func (s *Service) Record(ctx context.Context, rec facade.CommandRecord) {
	command := Command{
		Op:         rec.Op,
		Args:       rec.Args,
		Outcome:    OutcomeSuccess,
		StartedAt:  rec.StartedAt,
		FinishedAt: rec.FinishedAt,
	}
	if rec.Err != nil {
		command.Outcome = OutcomeFailed
		command.Error = rec.Err.Error()
	}

	commandsTotal.WithLabelValues(command.Op, string(command.Outcome)).Inc()

	if _, err := s.commands.Create(ctx, &command); err != nil {
		s.logger.Error("failed to record command",
			zap.String("op", command.Op), zap.Error(err))
		return
	}

	s.logger.Debug("command recorded",
		zap.String("op", command.Op), zap.String("outcome", string(command.Outcome)))
}

// List returns the most recent commands, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]Command, error) {
	commands, err := s.commands.List(ctx, limit)
	if err != nil {
		s.logger.Error("failed to list commands", zap.Error(err))
		return nil, err
	}
	return commands, nil
}

// Get retrieves one recorded command.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Command, error) {
	return s.commands.GetByID(ctx, id)
}
