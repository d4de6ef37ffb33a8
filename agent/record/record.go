package record

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/google/uuid"
)

const (
	FieldID        = "id"
	FieldWeddingID = "wedding_id"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrUnknownCollection = errors.New("unknown collection")
	ErrInvalidRecord     = errors.New("invalid record")
	ErrEmptyID           = errors.New("record id is empty")
)

// Record is one JSON object stored in a collection.
type Record map[string]any

func (r Record) ID() string {
	return stringField(r, FieldID)
}

func (r Record) WeddingID() string {
	return stringField(r, FieldWeddingID)
}

// Filter matches records whose top-level fields equal every filter value.
type Filter map[string]any

func (f Filter) WeddingID() string {
	return stringField(f, FieldWeddingID)
}

func (f Filter) Matches(r Record) bool {
	for k, want := range f {
		got, ok := r[k]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

// Accessor is the capability surface of one collection.
type Accessor interface {
	Get(ctx context.Context, id string) (Record, error)
	Put(ctx context.Context, rec Record) (string, error)
	Query(ctx context.Context, filter Filter) ([]Record, error)
}

// Store hands out one Accessor per collection.
type Store interface {
	Accessor(c Collection) (Accessor, error)
	Close() error
}

// Tables maps a collection to its physical table name.
type Tables map[Collection]string

func (t Tables) Name(c Collection) (string, error) {
	if !c.Valid() {
		return "", fmt.Errorf("%w: %s", ErrUnknownCollection, c)
	}
	if name := strings.TrimSpace(t[c]); name != "" {
		return name, nil
	}
	return string(c), nil
}

// DefaultTables uses the collection name as the table name.
func DefaultTables() Tables {
	out := make(Tables, len(all))
	for _, c := range all {
		out[c] = string(c)
	}
	return out
}

// prepare normalises a record for storage and assigns an id when missing.
func prepare(rec Record) (Record, error) {
	if rec == nil {
		return nil, fmt.Errorf("%w: record is nil", ErrInvalidRecord)
	}
	out, err := normalize(rec)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.ID()) == "" {
		out[FieldID] = uuid.New().String()
	}
	return out, nil
}

func normalize(rec Record) (Record, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return decode(raw)
}

func normalizeFilter(f Filter) (Filter, error) {
	if len(f) == 0 {
		return Filter{}, nil
	}
	raw, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("%w: filter: %v", ErrInvalidRecord, err)
	}
	var out Filter
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: filter: %v", ErrInvalidRecord, err)
	}
	return out, nil
}

func decode(raw []byte) (Record, error) {
	var out Record
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if out == nil {
		return nil, fmt.Errorf("%w: record is null", ErrInvalidRecord)
	}
	return out, nil
}

// filterSorted applies the filter and orders the result by id.
func filterSorted(in []Record, f Filter) []Record {
	out := make([]Record, 0, len(in))
	for _, r := range in {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

func stringField(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func encode(rec Record) ([]byte, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return raw, nil
}
