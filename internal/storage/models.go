package storage

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries the fields shared by every persisted entity. IDs are
// UUIDv7 so primary keys iterate in creation order.
type BaseEntity struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

func NewBaseEntity() BaseEntity {
	return BaseEntity{
		ID:        uuid.Must(uuid.NewV7()),
		CreatedAt: time.Now(),
	}
}
