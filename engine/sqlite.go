package engine

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/sw3do/quickdb/value"
)

// SQLiteEngine stores all records in a single SQLite database.
//
// Table:
//
//	records(key, value, created_at, updated_at)  PRIMARY KEY (key)
//
// The implicit rowid is the insertion sequence; the canonical scan orders
// by (created_at, rowid).
type SQLiteEngine struct {
	mu sync.RWMutex
	db *sql.DB
}

// timeLayout is RFC 3339 with a fixed-width 9-digit fraction. Timestamps are
// compared as text by ORDER BY, so the encoding must sort lexicographically
// in chronological order; RFC3339Nano would trim trailing zeros and break
// that ("...00.15Z" sorts before "...00.1Z").
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// NewSQLiteEngine opens (or creates) the database at dbPath.
func NewSQLiteEngine(dbPath string) (*SQLiteEngine, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", dbPath, err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS records (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteEngine{db: db}, nil
}

func (s *SQLiteEngine) Close() error {
	return s.db.Close()
}

func (s *SQLiteEngine) Put(ctx context.Context, key string, v value.Value) (Record, error) {
	if key == "" {
		return Record{}, ErrInvalidKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	encoded, err := value.Encode(v)
	if err != nil {
		return Record{}, err
	}
	now := time.Now().UTC().Format(timeLayout)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO records (key, value, created_at, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(encoded), now, now,
	)
	if err != nil {
		return Record{}, fmt.Errorf("put %q: %w", key, err)
	}

	var createdAt, updatedAt string
	var rowid int64
	err = s.db.QueryRowContext(ctx,
		"SELECT rowid, created_at, updated_at FROM records WHERE key = ?", key,
	).Scan(&rowid, &createdAt, &updatedAt)
	if err != nil {
		return Record{}, fmt.Errorf("put %q: %w", key, err)
	}
	rec := Record{Key: key, Value: v, Seq: uint64(rowid)}
	if rec.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return Record{}, fmt.Errorf("put %q: %w", key, err)
	}
	if rec.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return Record{}, fmt.Errorf("put %q: %w", key, err)
	}
	return rec, nil
}

func (s *SQLiteEngine) Get(ctx context.Context, key string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var raw, createdAt, updatedAt string
	var rowid int64
	err := s.db.QueryRowContext(ctx,
		"SELECT rowid, value, created_at, updated_at FROM records WHERE key = ?", key,
	).Scan(&rowid, &raw, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", key, err)
	}
	rec, err := buildRecord(key, raw, createdAt, updatedAt, rowid)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *SQLiteEngine) Delete(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM records WHERE key = ?", key)
	if err != nil {
		return false, fmt.Errorf("delete %q: %w", key, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *SQLiteEngine) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM records WHERE key = ?", key,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists %q: %w", key, err)
	}
	return true, nil
}

func (s *SQLiteEngine) ScanAll(ctx context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT rowid, key, value, created_at, updated_at FROM records ORDER BY created_at, rowid")
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var key, raw, createdAt, updatedAt string
		var rowid int64
		if err := rows.Scan(&rowid, &key, &raw, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		rec, err := buildRecord(key, raw, createdAt, updatedAt, rowid)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLiteEngine) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records").Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

func (s *SQLiteEngine) Clear(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM records")
	if err != nil {
		return 0, fmt.Errorf("clear: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func buildRecord(key, raw, createdAt, updatedAt string, rowid int64) (Record, error) {
	v, err := value.Decode([]byte(raw))
	if err != nil {
		return Record{}, fmt.Errorf("decode %q: %w", key, err)
	}
	rec := Record{Key: key, Value: v, Seq: uint64(rowid)}
	if rec.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return Record{}, fmt.Errorf("decode %q: %w", key, err)
	}
	if rec.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return Record{}, fmt.Errorf("decode %q: %w", key, err)
	}
	return rec, nil
}
