package engine

import (
	"context"
	"sync"
	"time"

	"github.com/google/btree"

	"github.com/sw3do/quickdb/value"
)

// MemoryEngine keeps everything in memory. Data is lost on Close.
// Safe for concurrent use.
//
// Records live in two structures: a map for point operations and a B-tree
// ordered by (CreatedAt, Seq) so ScanAll walks the canonical order without
// sorting. Both reference the same *memRecord, so an update is visible to
// the tree without reinsertion.
type MemoryEngine struct {
	mu      sync.RWMutex
	byKey   map[string]*memRecord
	tree    *btree.BTree
	nextSeq uint64
}

type memRecord struct {
	key       string
	val       value.Value
	createdAt time.Time
	updatedAt time.Time
	seq       uint64
}

type treeItem struct {
	rec *memRecord
}

func (i *treeItem) Less(than btree.Item) bool {
	o := than.(*treeItem)
	if !i.rec.createdAt.Equal(o.rec.createdAt) {
		return i.rec.createdAt.Before(o.rec.createdAt)
	}
	return i.rec.seq < o.rec.seq
}

// NewMemoryEngine creates an empty in-memory engine.
func NewMemoryEngine() *MemoryEngine {
	return &MemoryEngine{
		byKey: make(map[string]*memRecord),
		tree:  btree.New(32),
	}
}

func (m *MemoryEngine) record(r *memRecord) Record {
	return Record{
		Key:       r.key,
		Value:     r.val,
		CreatedAt: r.createdAt,
		UpdatedAt: r.updatedAt,
		Seq:       r.seq,
	}
}

func (m *MemoryEngine) Put(ctx context.Context, key string, v value.Value) (Record, error) {
	if key == "" {
		return Record{}, ErrInvalidKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := m.byKey[key]; ok {
		existing.val = v
		existing.updatedAt = now
		return m.record(existing), nil
	}

	rec := &memRecord{
		key:       key,
		val:       v,
		createdAt: now,
		updatedAt: now,
		seq:       m.nextSeq,
	}
	m.nextSeq++
	m.byKey[key] = rec
	m.tree.ReplaceOrInsert(&treeItem{rec: rec})
	return m.record(rec), nil
}

func (m *MemoryEngine) Get(ctx context.Context, key string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.byKey[key]
	if !ok {
		return nil, nil
	}
	out := m.record(rec)
	return &out, nil
}

func (m *MemoryEngine) Delete(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.byKey[key]
	if !ok {
		return false, nil
	}
	delete(m.byKey, key)
	m.tree.Delete(&treeItem{rec: rec})
	return true, nil
}

func (m *MemoryEngine) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.byKey[key]
	return ok, nil
}

func (m *MemoryEngine) ScanAll(ctx context.Context) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Record, 0, len(m.byKey))
	m.tree.Ascend(func(i btree.Item) bool {
		out = append(out, m.record(i.(*treeItem).rec))
		return true
	})
	return out, nil
}

func (m *MemoryEngine) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byKey), nil
}

func (m *MemoryEngine) Clear(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.byKey)
	m.byKey = make(map[string]*memRecord)
	m.tree.Clear(false)
	return n, nil
}

func (m *MemoryEngine) Close() error { return nil }
