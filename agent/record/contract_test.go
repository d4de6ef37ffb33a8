package record

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

// exerciseAccessor runs the accessor behaviour every backend must share.
func exerciseAccessor(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	vendors, err := store.Accessor(Vendors)
	if err != nil {
		t.Fatalf("Accessor(vendors) error = %v", err)
	}

	seed := []Record{
		{"id": "v-2", "wedding_id": "W1", "name": "Bloom & Co", "category": "florist"},
		{"id": "v-1", "wedding_id": "W1", "name": "Sound Wave", "category": "music"},
		{"id": "v-3", "wedding_id": "W2", "name": "Cake Street", "category": "bakery"},
	}
	for _, rec := range seed {
		id, err := vendors.Put(ctx, rec)
		if err != nil {
			t.Fatalf("Put(%v) error = %v", rec.ID(), err)
		}
		if id != rec.ID() {
			t.Fatalf("Put() id = %q, want %q", id, rec.ID())
		}
	}

	got, err := vendors.Get(ctx, "v-1")
	if err != nil {
		t.Fatalf("Get(v-1) error = %v", err)
	}
	if got["name"] != "Sound Wave" {
		t.Fatalf("Get(v-1) name = %v, want Sound Wave", got["name"])
	}

	if _, err := vendors.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := vendors.Get(ctx, " "); !errors.Is(err, ErrEmptyID) {
		t.Fatalf("Get(blank) error = %v, want ErrEmptyID", err)
	}

	first, err := vendors.Query(ctx, Filter{"wedding_id": "W1"})
	if err != nil {
		t.Fatalf("Query(W1) error = %v", err)
	}
	if len(first) != 2 || first[0].ID() != "v-1" || first[1].ID() != "v-2" {
		t.Fatalf("Query(W1) = %v, want [v-1 v-2]", ids(first))
	}

	second, err := vendors.Query(ctx, Filter{"wedding_id": "W1"})
	if err != nil {
		t.Fatalf("Query(W1) second error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated Query() differs: %v vs %v", first, second)
	}

	florists, err := vendors.Query(ctx, Filter{"wedding_id": "W1", "category": "florist"})
	if err != nil {
		t.Fatalf("Query(florist) error = %v", err)
	}
	if len(florists) != 1 || florists[0].ID() != "v-2" {
		t.Fatalf("Query(florist) = %v, want [v-2]", ids(florists))
	}

	everything, err := vendors.Query(ctx, nil)
	if err != nil {
		t.Fatalf("Query(nil) error = %v", err)
	}
	if len(everything) != 3 {
		t.Fatalf("Query(nil) len = %d, want 3", len(everything))
	}

	if _, err := vendors.Put(ctx, Record{"id": "v-1", "wedding_id": "W1", "name": "Sound Wave Live"}); err != nil {
		t.Fatalf("Put(update) error = %v", err)
	}
	updated, err := vendors.Get(ctx, "v-1")
	if err != nil {
		t.Fatalf("Get(updated) error = %v", err)
	}
	if updated["name"] != "Sound Wave Live" {
		t.Fatalf("Get(updated) name = %v", updated["name"])
	}

	generated, err := vendors.Put(ctx, Record{"wedding_id": "W3", "name": "Photo Booth"})
	if err != nil {
		t.Fatalf("Put(no id) error = %v", err)
	}
	if generated == "" {
		t.Fatal("Put(no id) returned empty id")
	}
	if _, err := vendors.Get(ctx, generated); err != nil {
		t.Fatalf("Get(generated) error = %v", err)
	}

	guests, err := store.Accessor(Guests)
	if err != nil {
		t.Fatalf("Accessor(guests) error = %v", err)
	}
	if _, err := guests.Get(ctx, "v-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("collections are not isolated: %v", err)
	}

	if _, err := store.Accessor(Collection("unicorns")); !errors.Is(err, ErrUnknownCollection) {
		t.Fatalf("Accessor(unicorns) error = %v, want ErrUnknownCollection", err)
	}
}

func ids(recs []Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID()
	}
	return out
}
