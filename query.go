package quickdb

import (
	"context"
	"strings"

	"github.com/sw3do/quickdb/engine"
	"github.com/sw3do/quickdb/value"
)

// Predicate decides whether a record matches. It receives the stored value
// and its key.
//
// Every query method evaluates its predicate over a single snapshot taken
// when the method is called, so the iterated set never shifts under the
// predicate. Calling back into the DB from inside a predicate is undefined
// behavior and not supported.
type Predicate func(v value.Value, key string) bool

// Filter returns the records whose value/key satisfy p, in creation order.
func (db *DB) Filter(ctx context.Context, p Predicate) ([]engine.Record, error) {
	recs, err := db.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]engine.Record, 0, len(recs))
	for _, r := range recs {
		if p(r.Value, r.Key) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Find returns the first record in creation order satisfying p, or nil if
// none matches.
func (db *DB) Find(ctx context.Context, p Predicate) (*engine.Record, error) {
	recs, err := db.All(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range recs {
		if p(r.Value, r.Key) {
			return &r, nil
		}
	}
	return nil, nil
}

// Some reports whether any record satisfies p. False on an empty store.
func (db *DB) Some(ctx context.Context, p Predicate) (bool, error) {
	rec, err := db.Find(ctx, p)
	return rec != nil, err
}

// Every reports whether all records satisfy p. Vacuously true on an empty
// store.
func (db *DB) Every(ctx context.Context, p Predicate) (bool, error) {
	recs, err := db.All(ctx)
	if err != nil {
		return false, err
	}
	for _, r := range recs {
		if !p(r.Value, r.Key) {
			return false, nil
		}
	}
	return true, nil
}

// MapValues applies fn to every record in creation order and returns the
// results. For result types other than value.Value use the package-level
// Map.
func (db *DB) MapValues(ctx context.Context, fn func(v value.Value, key string) value.Value) ([]value.Value, error) {
	return Map(ctx, db, fn)
}

// Map applies fn to every record, in creation order, over one snapshot.
func Map[T any](ctx context.Context, db *DB, fn func(v value.Value, key string) T) ([]T, error) {
	recs, err := db.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, len(recs))
	for i, r := range recs {
		out[i] = fn(r.Value, r.Key)
	}
	return out, nil
}

// StartsWith returns the records whose key starts with prefix.
// Matching is case-sensitive and literal.
func (db *DB) StartsWith(ctx context.Context, prefix string) ([]engine.Record, error) {
	return db.Filter(ctx, func(_ value.Value, key string) bool {
		return strings.HasPrefix(key, prefix)
	})
}

// EndsWith returns the records whose key ends with suffix.
func (db *DB) EndsWith(ctx context.Context, suffix string) ([]engine.Record, error) {
	return db.Filter(ctx, func(_ value.Value, key string) bool {
		return strings.HasSuffix(key, suffix)
	})
}

// Includes returns the records whose key contains substr.
func (db *DB) Includes(ctx context.Context, substr string) ([]engine.Record, error) {
	return db.Filter(ctx, func(_ value.Value, key string) bool {
		return strings.Contains(key, substr)
	})
}
