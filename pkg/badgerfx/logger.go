package badgerfx

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// badgerLogger adapts a zap logger to the badger.Logger interface.
type badgerLogger struct {
	logger *zap.Logger
}

var _ badger.Logger = (*badgerLogger)(nil)

func newBadgerLogger(l *zap.Logger) *badgerLogger {
	return &badgerLogger{logger: l}
}

// Debugf implements badger.Logger.
func (l *badgerLogger) Debugf(format string, a ...any) {
	l.logger.Debug(fmt.Sprintf(format, a...))
}

// Infof implements badger.Logger.
func (l *badgerLogger) Infof(format string, a ...any) {
	l.logger.Info(fmt.Sprintf(format, a...))
}

// Warningf implements badger.Logger.
func (l *badgerLogger) Warningf(format string, a ...any) {
	l.logger.Warn(fmt.Sprintf(format, a...))
}

// Errorf implements badger.Logger.
func (l *badgerLogger) Errorf(format string, a ...any) {
	l.logger.Error(fmt.Sprintf(format, a...))
}
