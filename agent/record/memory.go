package record

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MemoryStore keeps every collection in process memory.
type MemoryStore struct {
	tables Tables

	mu   sync.RWMutex
	data map[string]map[string][]byte
}

func NewMemoryStore(tables Tables) *MemoryStore {
	if tables == nil {
		tables = DefaultTables()
	}
	return &MemoryStore{
		tables: tables,
		data:   make(map[string]map[string][]byte, len(all)),
	}
}

func (s *MemoryStore) Accessor(c Collection) (Accessor, error) {
	table, err := s.tables.Name(c)
	if err != nil {
		return nil, err
	}
	return &memoryAccessor{store: s, table: table}, nil
}

func (s *MemoryStore) Close() error {
	return nil
}

type memoryAccessor struct {
	store *MemoryStore
	table string
}

func (a *memoryAccessor) Get(ctx context.Context, id string) (Record, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrEmptyID
	}
	a.store.mu.RLock()
	raw, ok := a.store.data[a.table][id]
	a.store.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, a.table, id)
	}
	return decode(raw)
}

func (a *memoryAccessor) Put(ctx context.Context, rec Record) (string, error) {
	rec, err := prepare(rec)
	if err != nil {
		return "", err
	}
	raw, err := encode(rec)
	if err != nil {
		return "", err
	}

	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	rows, ok := a.store.data[a.table]
	if !ok {
		rows = make(map[string][]byte, 16)
		a.store.data[a.table] = rows
	}
	rows[rec.ID()] = raw
	return rec.ID(), nil
}

func (a *memoryAccessor) Query(ctx context.Context, filter Filter) ([]Record, error) {
	filter, err := normalizeFilter(filter)
	if err != nil {
		return nil, err
	}

	a.store.mu.RLock()
	rows := make([][]byte, 0, len(a.store.data[a.table]))
	for _, raw := range a.store.data[a.table] {
		rows = append(rows, raw)
	}
	a.store.mu.RUnlock()

	recs := make([]Record, 0, len(rows))
	for _, raw := range rows {
		rec, err := decode(raw)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return filterSorted(recs, filter), nil
}
