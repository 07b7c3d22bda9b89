// Package engine defines the backing storage engine interface and its
// implementations. An Engine is a durable mapping from string key to a
// timestamped record; all bulk operations consume the canonical scan order,
// ascending by creation time with insertion sequence as the tiebreak.
package engine

import (
	"context"
	"errors"
	"time"

	"github.com/sw3do/quickdb/value"
)

// ErrInvalidKey is returned by write operations given an empty key.
var ErrInvalidKey = errors.New("invalid key: must be non-empty")

// ErrCorruptValue is returned when a stored payload fails to decode.
// It is the engine-level name for value.ErrCorrupt.
var ErrCorruptValue = value.ErrCorrupt

// Record is a stored (key, value, created_at, updated_at) tuple. Seq is the
// insertion sequence number used to break created_at ties in scan order.
type Record struct {
	Key       string
	Value     value.Value
	CreatedAt time.Time
	UpdatedAt time.Time
	Seq       uint64
}

// Engine is the interface that all backing engines implement.
type Engine interface {
	// Put upserts a value under key and returns the resulting record.
	// Updating an existing key preserves CreatedAt and Seq and advances
	// UpdatedAt. Fails with ErrInvalidKey on an empty key.
	Put(ctx context.Context, key string, v value.Value) (Record, error)

	// Get returns the record under key, or nil if absent.
	Get(ctx context.Context, key string) (*Record, error)

	// Delete removes a record. Returns true if it existed. Idempotent.
	Delete(ctx context.Context, key string) (bool, error)

	// Exists reports whether a record is stored under key.
	Exists(ctx context.Context, key string) (bool, error)

	// ScanAll returns every record ascending by (CreatedAt, Seq). The
	// returned slice is a snapshot: a concurrent Clear is observed either
	// in full or not at all.
	ScanAll(ctx context.Context) ([]Record, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Clear removes every record and returns how many were removed.
	Clear(ctx context.Context) (int, error)

	// Close releases underlying resources.
	Close() error
}
