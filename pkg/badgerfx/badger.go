package badgerfx

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// SeekEnd is appended to a key prefix to seek past every key under it when
// iterating in reverse.
const SeekEnd = byte(0xFF)

func New(config Config, logger *badgerLogger) (*badger.DB, error) {
	opts := config.Build()
	if logger != nil {
		opts = opts.WithLogger(logger)
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open BadgerDB: %w", err)
	}

	return db, nil
}
