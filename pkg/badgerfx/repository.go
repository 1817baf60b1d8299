package badgerfx

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

var ErrNotFound = errors.New("entity not found")

// Entity is anything the generic repository can persist. StorageKey returns
// the entity's own key; StorageIndexes returns secondary keys whose values
// point back at the primary key.
type Entity interface {
	StorageKey() string
	StorageIndexes() []string
	MarshalStorage() ([]byte, error)
	UnmarshalStorage(data []byte) error
}

type EntityFactory[T Entity] func() T

// Repository provides key-prefix CRUD over a badger transaction for one
// entity type.
type Repository[T Entity] struct {
	factory EntityFactory[T]
}

func NewRepository[T Entity](factory EntityFactory[T]) *Repository[T] {
	return &Repository[T]{factory: factory}
}

// List returns entities under prefix in iteration order, up to limit; a
// non-positive limit returns everything. For reverse iteration the seek
// position is placed past the prefix. Iteration stops as soon as the limit
// is reached, so untouched records are never deserialized.
func (r *Repository[T]) List(txn *badger.Txn, prefix string, options badger.IteratorOptions, limit int) ([]T, error) {
	validPrefix := []byte(prefix)
	seekPrefix := []byte(prefix)
	if options.Reverse {
		seekPrefix = append(seekPrefix, SeekEnd)
	}

	it := txn.NewIterator(options)
	defer it.Close()

	var entities []T
	for it.Seek(seekPrefix); it.ValidForPrefix(validPrefix); it.Next() {
		if limit > 0 && len(entities) == limit {
			break
		}
		item := it.Item()

		entity := r.factory()
		if err := item.Value(func(val []byte) error {
			return entity.UnmarshalStorage(val)
		}); err != nil {
			return nil, fmt.Errorf("failed to unmarshal entity: %w", err)
		}

		entities = append(entities, entity)
	}

	return entities, nil
}

func (r *Repository[T]) Read(txn *badger.Txn, key string) (T, error) {
	var zero T

	item, err := txn.Get([]byte(key))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return zero, ErrNotFound
		}
		return zero, fmt.Errorf("failed to get entity: %w", err)
	}

	entity := r.factory()
	if valErr := item.Value(func(val []byte) error {
		return entity.UnmarshalStorage(val)
	}); valErr != nil {
		return zero, fmt.Errorf("failed to unmarshal entity: %w", valErr)
	}

	return entity, nil
}

// ReadByIndex resolves a secondary index to its primary key and reads the
// entity it points at.
func (r *Repository[T]) ReadByIndex(txn *badger.Txn, index string) (T, error) {
	var zero T

	item, err := txn.Get([]byte(index))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return zero, ErrNotFound
		}
		return zero, fmt.Errorf("failed to get entity index: %w", err)
	}

	key, err := item.ValueCopy(nil)
	if err != nil {
		return zero, fmt.Errorf("failed to get entity key: %w", err)
	}

	return r.Read(txn, string(key))
}

func (r *Repository[T]) Write(txn *badger.Txn, entity T) error {
	data, err := entity.MarshalStorage()
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	if indexErr := r.CreateIndexes(txn, entity); indexErr != nil {
		return indexErr
	}

	if setErr := txn.Set([]byte(entity.StorageKey()), data); setErr != nil {
		return fmt.Errorf("failed to store entity: %w", setErr)
	}

	return nil
}

func (r *Repository[T]) Delete(txn *badger.Txn, key string) error {
	entity, err := r.Read(txn, key)
	if err != nil {
		return err
	}

	if indexErr := r.DeleteIndexes(txn, entity); indexErr != nil {
		return indexErr
	}

	if delErr := txn.Delete([]byte(key)); delErr != nil {
		return fmt.Errorf("failed to delete entity: %w", delErr)
	}

	return nil
}

func (r *Repository[T]) CreateIndexes(txn *badger.Txn, entity T) error {
	key := []byte(entity.StorageKey())
	for _, index := range entity.StorageIndexes() {
		if err := txn.Set([]byte(index), key); err != nil {
			return fmt.Errorf("failed to set entity index: %w", err)
		}
	}

	return nil
}

func (r *Repository[T]) DeleteIndexes(txn *badger.Txn, entity T) error {
	for _, index := range entity.StorageIndexes() {
		if err := txn.Delete([]byte(index)); err != nil {
			return fmt.Errorf("failed to delete entity index: %w", err)
		}
	}

	return nil
}
