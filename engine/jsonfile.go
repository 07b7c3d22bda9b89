package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/sw3do/quickdb/value"
)

// JSONFileEngine stores all records in a single JSON file on disk.
//
// Layout:
//
//	data_dir/
//	  records.json
//
// Each operation loads the file, applies the change, and writes it back via
// a temp file + rename so readers never observe a half-written file. Fine
// for small stores and tests; use the sqlite engine for anything bigger.
type JSONFileEngine struct {
	mu  sync.RWMutex
	dir string
}

type jsonFile struct {
	NextSeq uint64                `json:"next_seq"`
	Records map[string]jsonRecord `json:"records"`
}

type jsonRecord struct {
	Value     json.RawMessage `json:"value"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Seq       uint64          `json:"seq"`
}

// NewJSONFileEngine creates a file-backed engine rooted at dir.
func NewJSONFileEngine(dir string) (*JSONFileEngine, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &JSONFileEngine{dir: dir}, nil
}

func (j *JSONFileEngine) path() string {
	return filepath.Join(j.dir, "records.json")
}

func (j *JSONFileEngine) load() (*jsonFile, error) {
	data, err := os.ReadFile(j.path())
	if err != nil {
		if os.IsNotExist(err) {
			return &jsonFile{Records: map[string]jsonRecord{}}, nil
		}
		return nil, err
	}
	var f jsonFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("load %q: %w", j.path(), err)
	}
	if f.Records == nil {
		f.Records = map[string]jsonRecord{}
	}
	return &f, nil
}

func (j *JSONFileEngine) save(f *jsonFile) error {
	b, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	tmp := j.path() + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, j.path())
}

func (j *JSONFileEngine) toRecord(key string, r jsonRecord) (Record, error) {
	v, err := value.Decode(r.Value)
	if err != nil {
		return Record{}, fmt.Errorf("decode %q: %w", key, err)
	}
	return Record{
		Key:       key,
		Value:     v,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		Seq:       r.Seq,
	}, nil
}

func (j *JSONFileEngine) Put(ctx context.Context, key string, v value.Value) (Record, error) {
	if key == "" {
		return Record{}, ErrInvalidKey
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	f, err := j.load()
	if err != nil {
		return Record{}, err
	}
	encoded, err := value.Encode(v)
	if err != nil {
		return Record{}, err
	}
	now := time.Now().UTC()
	rec, ok := f.Records[key]
	if ok {
		rec.Value = encoded
		rec.UpdatedAt = now
	} else {
		rec = jsonRecord{
			Value:     encoded,
			CreatedAt: now,
			UpdatedAt: now,
			Seq:       f.NextSeq,
		}
		f.NextSeq++
	}
	f.Records[key] = rec
	if err := j.save(f); err != nil {
		return Record{}, err
	}
	return j.toRecord(key, rec)
}

func (j *JSONFileEngine) Get(ctx context.Context, key string) (*Record, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	f, err := j.load()
	if err != nil {
		return nil, err
	}
	r, ok := f.Records[key]
	if !ok {
		return nil, nil
	}
	rec, err := j.toRecord(key, r)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (j *JSONFileEngine) Delete(ctx context.Context, key string) (bool, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	f, err := j.load()
	if err != nil {
		return false, err
	}
	if _, ok := f.Records[key]; !ok {
		return false, nil
	}
	delete(f.Records, key)
	return true, j.save(f)
}

func (j *JSONFileEngine) Exists(ctx context.Context, key string) (bool, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	f, err := j.load()
	if err != nil {
		return false, err
	}
	_, ok := f.Records[key]
	return ok, nil
}

func (j *JSONFileEngine) ScanAll(ctx context.Context) ([]Record, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	f, err := j.load()
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(f.Records))
	for key, r := range f.Records {
		rec, err := j.toRecord(key, r)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(a, b int) bool {
		if !out[a].CreatedAt.Equal(out[b].CreatedAt) {
			return out[a].CreatedAt.Before(out[b].CreatedAt)
		}
		return out[a].Seq < out[b].Seq
	})
	return out, nil
}

func (j *JSONFileEngine) Count(ctx context.Context) (int, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	f, err := j.load()
	if err != nil {
		return 0, err
	}
	return len(f.Records), nil
}

func (j *JSONFileEngine) Clear(ctx context.Context) (int, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	f, err := j.load()
	if err != nil {
		return 0, err
	}
	n := len(f.Records)
	if n == 0 {
		return 0, nil
	}
	f.Records = map[string]jsonRecord{}
	return n, j.save(f)
}

func (j *JSONFileEngine) Close() error { return nil }
