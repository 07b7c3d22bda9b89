// Package quickdb is an embedded key-value store with JSON-typed values,
// atomic compound mutations (numeric add/subtract, array push/pull) and an
// in-process query layer (filter/map/find/some/every) over the full key
// space.
//
// The backing store is selected by a connection descriptor at construction
// (see engine.Open). By default the connection is lazy: the first data
// operation dials the store. Records keep their creation time across
// updates, and every bulk operation iterates in creation order.
package quickdb

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/sw3do/quickdb/engine"
	"github.com/sw3do/quickdb/value"
)

type connState int

const (
	stateDisconnected connState = iota
	stateConnecting
	stateConnected
)

// Options configures a DB. The zero value means lazy connect and the
// default logger.
type Options struct {
	// EagerConnect dials the backing store inside New instead of on the
	// first operation.
	EagerConnect bool

	// Logger receives structured events. Defaults to slog.Default().
	Logger *slog.Logger
}

// DB is the public store handle. Safe for concurrent use.
type DB struct {
	dsn string
	log *slog.Logger

	connMu sync.Mutex
	state  connState
	eng    engine.Engine

	locks *lockTable
}

// New creates a DB for the given connection descriptor. No connection is
// made unless opts.EagerConnect is set; otherwise the first operation
// connects implicitly.
func New(dsn string, opts *Options) (*DB, error) {
	if opts == nil {
		opts = &Options{}
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	db := &DB{
		dsn:   dsn,
		log:   log.With(slog.String("db", uuid.NewString())),
		locks: newLockTable(),
	}
	if opts.EagerConnect {
		if err := db.Connect(context.Background()); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// Connect opens the backing store. No-op if already connected.
func (db *DB) Connect(ctx context.Context) error {
	db.connMu.Lock()
	defer db.connMu.Unlock()
	_, err := db.connectLocked(ctx)
	return err
}

// connectLocked transitions Disconnected -> Connecting -> Connected.
// Caller holds connMu, which also covers the Connecting window.
func (db *DB) connectLocked(ctx context.Context) (engine.Engine, error) {
	if db.state == stateConnected {
		return db.eng, nil
	}
	db.state = stateConnecting
	eng, err := engine.Open(db.dsn)
	if err != nil {
		db.state = stateDisconnected
		return nil, fmt.Errorf("%w: connect %q: %w", ErrConnection, db.dsn, err)
	}
	db.eng = eng
	db.state = stateConnected
	db.log.Info("connected", slog.String("dsn", db.dsn))
	return eng, nil
}

// Disconnect releases the backing store. No-op if already disconnected.
func (db *DB) Disconnect() error {
	db.connMu.Lock()
	defer db.connMu.Unlock()
	if db.state != stateConnected {
		return nil
	}
	err := db.eng.Close()
	db.eng = nil
	db.state = stateDisconnected
	db.log.Info("disconnected", slog.String("dsn", db.dsn))
	return err
}

// Connected reports whether the backing store is currently open.
func (db *DB) Connected() bool {
	db.connMu.Lock()
	defer db.connMu.Unlock()
	return db.state == stateConnected
}

// ensure returns the engine, connecting first if needed.
func (db *DB) ensure(ctx context.Context) (engine.Engine, error) {
	db.connMu.Lock()
	defer db.connMu.Unlock()
	return db.connectLocked(ctx)
}

// Set stores v under key (upsert) and returns the stored value. A repeated
// set preserves the record's creation time and advances its update time.
func (db *DB) Set(ctx context.Context, key string, v value.Value) (value.Value, error) {
	eng, err := db.ensure(ctx)
	if err != nil {
		return value.Null(), err
	}
	rec, err := eng.Put(ctx, key, v)
	if err != nil {
		return value.Null(), err
	}
	db.log.Debug("set", slog.String("key", key))
	return rec.Value, nil
}

// Get returns the value under key. The boolean reports presence; a missing
// key is not an error.
func (db *DB) Get(ctx context.Context, key string) (value.Value, bool, error) {
	eng, err := db.ensure(ctx)
	if err != nil {
		return value.Null(), false, err
	}
	rec, err := eng.Get(ctx, key)
	if err != nil {
		return value.Null(), false, err
	}
	if rec == nil {
		return value.Null(), false, nil
	}
	return rec.Value, true, nil
}

// Delete removes key. Returns true if a record existed. Idempotent.
func (db *DB) Delete(ctx context.Context, key string) (bool, error) {
	eng, err := db.ensure(ctx)
	if err != nil {
		return false, err
	}
	existed, err := eng.Delete(ctx, key)
	if err != nil {
		return false, err
	}
	db.log.Debug("delete", slog.String("key", key), slog.Bool("existed", existed))
	return existed, nil
}

// Has reports whether key is stored.
func (db *DB) Has(ctx context.Context, key string) (bool, error) {
	eng, err := db.ensure(ctx)
	if err != nil {
		return false, err
	}
	return eng.Exists(ctx, key)
}

// Type returns the stored value's kind and whether the key exists.
func (db *DB) Type(ctx context.Context, key string) (value.Kind, bool, error) {
	v, ok, err := db.Get(ctx, key)
	if err != nil || !ok {
		return value.KindNull, false, err
	}
	return v.Kind(), true, nil
}

// All returns a snapshot of every record, ascending by creation time.
func (db *DB) All(ctx context.Context) ([]engine.Record, error) {
	eng, err := db.ensure(ctx)
	if err != nil {
		return nil, err
	}
	return eng.ScanAll(ctx)
}

// Keys returns every key in creation order.
func (db *DB) Keys(ctx context.Context) ([]string, error) {
	recs, err := db.All(ctx)
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(recs))
	for i, r := range recs {
		keys[i] = r.Key
	}
	return keys, nil
}

// Values returns every value in creation order.
func (db *DB) Values(ctx context.Context) ([]value.Value, error) {
	recs, err := db.All(ctx)
	if err != nil {
		return nil, err
	}
	vals := make([]value.Value, len(recs))
	for i, r := range recs {
		vals[i] = r.Value
	}
	return vals, nil
}

// Size returns the number of stored records.
func (db *DB) Size(ctx context.Context) (int, error) {
	eng, err := db.ensure(ctx)
	if err != nil {
		return 0, err
	}
	return eng.Count(ctx)
}

// Clear removes every record and returns how many were removed.
func (db *DB) Clear(ctx context.Context) (int, error) {
	eng, err := db.ensure(ctx)
	if err != nil {
		return 0, err
	}
	n, err := eng.Clear(ctx)
	if err != nil {
		return 0, err
	}
	db.log.Info("cleared", slog.Int("records", n))
	return n, nil
}
