package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps every collection in one JSON document, rewritten wholesale
// on each mutation. With an empty path it never touches disk, which is what
// the tests run against.
type FileStore struct {
	mu     sync.RWMutex
	path   string
	data   map[string][]Record
	closed bool
}

// OpenFile loads path if it exists. A missing file starts an empty store that
// is created on the first write.
func OpenFile(path string) (*FileStore, error) {
	s := &FileStore{path: path, data: map[string][]Record{}}
	if path == "" {
		return s, nil
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(raw) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	normalizeLoaded(s.data)
	return s, nil
}

// normalizeLoaded brings records written before normalization existed into
// canonical form. Values that cannot be parsed are kept as they are.
func normalizeLoaded(data map[string][]Record) {
	for collection, records := range data {
		for i, r := range records {
			if out, err := Normalize(collection, r); err == nil {
				records[i] = out
			}
		}
	}
}

// NewMemory returns a FileStore that never persists.
func NewMemory() *FileStore {
	s, _ := OpenFile("")
	return s
}

func (s *FileStore) Name() string {
	if s.path == "" {
		return "memory"
	}
	return "file"
}

func (s *FileStore) FetchAll(ctx context.Context, collection string) ([]Record, error) {
	return s.Find(ctx, collection, nil, nil)
}

func (s *FileStore) Find(_ context.Context, collection string, filter Filter, sort *Sort) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, wrap("find", collection, ErrUnavailable)
	}

	out := []Record{}
	for _, r := range s.data[collection] {
		if matches(r, filter) {
			out = append(out, r.Clone())
		}
	}
	sortRecords(out, sort)
	return out, nil
}

func (s *FileStore) Count(_ context.Context, collection string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, wrap("count", collection, ErrUnavailable)
	}
	return int64(len(s.data[collection])), nil
}

func (s *FileStore) InsertOne(ctx context.Context, collection string, record Record) (string, error) {
	r := withID(record)
	if _, err := s.insert(collection, []Record{r}); err != nil {
		return "", err
	}
	return r.ID(), nil
}

func (s *FileStore) InsertMany(_ context.Context, collection string, records []Record) (int, error) {
	prepared := make([]Record, len(records))
	for i, r := range records {
		prepared[i] = withID(r)
	}
	return s.insert(collection, prepared)
}

func (s *FileStore) insert(collection string, records []Record) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, wrap("insert", collection, ErrUnavailable)
	}

	current := s.data[collection]
	next := make([]Record, 0, len(current)+len(records))
	next = append(next, current...)
	next = append(next, records...)
	if err := s.commit(collection, next); err != nil {
		return 0, wrap("insert", collection, err)
	}
	return len(records), nil
}

func (s *FileStore) DeleteMany(_ context.Context, collection string, filter Filter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, wrap("delete", collection, ErrUnavailable)
	}

	var kept []Record
	var deleted int64
	for _, r := range s.data[collection] {
		if matches(r, filter) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	if deleted == 0 {
		return 0, nil
	}
	if err := s.commit(collection, kept); err != nil {
		return 0, wrap("delete", collection, err)
	}
	return deleted, nil
}

func (s *FileStore) DeleteOne(_ context.Context, collection, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, wrap("delete", collection, ErrUnavailable)
	}

	current := s.data[collection]
	for i, r := range current {
		if r.ID() != id {
			continue
		}
		next := make([]Record, 0, len(current)-1)
		next = append(next, current[:i]...)
		next = append(next, current[i+1:]...)
		if err := s.commit(collection, next); err != nil {
			return false, wrap("delete", collection, err)
		}
		return true, nil
	}
	return false, nil
}

func (s *FileStore) UpdateOne(_ context.Context, collection, id string, fields Record) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, wrap("update", collection, ErrUnavailable)
	}

	current := s.data[collection]
	for i, r := range current {
		if r.ID() != id {
			continue
		}
		updated := r.Clone()
		for k, v := range withoutID(fields) {
			updated[k] = v
		}
		next := make([]Record, len(current))
		copy(next, current)
		next[i] = updated
		if err := s.commit(collection, next); err != nil {
			return false, wrap("update", collection, err)
		}
		return true, nil
	}
	return false, nil
}

// ReplaceAll swaps the collection in one rewrite, so no reader observes an
// empty collection in between.
func (s *FileStore) ReplaceAll(_ context.Context, collection string, records []Record) (int, error) {
	prepared := make([]Record, len(records))
	for i, r := range records {
		prepared[i] = withID(r)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, wrap("replace", collection, ErrUnavailable)
	}
	if err := s.commit(collection, prepared); err != nil {
		return 0, wrap("replace", collection, err)
	}
	return len(prepared), nil
}

func (s *FileStore) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// commit persists the store with collection set to records and only then
// makes the change visible. Callers hold s.mu.
func (s *FileStore) commit(collection string, records []Record) error {
	next := make(map[string][]Record, len(s.data)+1)
	for k, v := range s.data {
		next[k] = v
	}
	if records == nil {
		records = []Record{}
	}
	next[collection] = records

	if err := s.persist(next); err != nil {
		return err
	}
	s.data = next
	return nil
}

func (s *FileStore) persist(data map[string][]Record) error {
	if s.path == "" {
		return nil
	}
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
