package output

import (
	"context"
	"errors"
	"time"
)

// ErrCheckpointNotFound is returned when an order has no stored checkpoint
var ErrCheckpointNotFound = errors.New("checkpoint not found")

// CheckpointRecord is one stored checkpoint of an order
type CheckpointRecord struct {
	ID          string
	OrderNumber uint64
	State       string
	Format      string
	Data        []byte
	CreatedAt   time.Time
}

// CheckpointStore persists encoded checkpoints. Records of one order are
// kept in the order they were appended.
type CheckpointStore interface {
	// Append stores data as the newest checkpoint of the order and returns its ID
	Append(ctx context.Context, orderNumber uint64, state, format string, data []byte) (string, error)

	// Latest returns the newest checkpoint of the order
	Latest(ctx context.Context, orderNumber uint64) (*CheckpointRecord, error)

	// History returns every checkpoint of the order, oldest first
	History(ctx context.Context, orderNumber uint64) ([]*CheckpointRecord, error)
}
