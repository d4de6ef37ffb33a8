package tool

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	contractx "github.com/tanpawarit/enchanted-day-orchestrator/agent/contract"
	"github.com/tanpawarit/enchanted-day-orchestrator/agent/record"
)

type failingStore struct {
	err error
}

func (f failingStore) Accessor(c record.Collection) (record.Accessor, error) {
	return failingAccessor{err: f.err}, nil
}

func (f failingStore) Close() error { return nil }

type failingAccessor struct {
	err error
}

func (f failingAccessor) Get(ctx context.Context, id string) (record.Record, error) {
	return nil, f.err
}

func (f failingAccessor) Put(ctx context.Context, rec record.Record) (string, error) {
	return "", f.err
}

func (f failingAccessor) Query(ctx context.Context, filter record.Filter) ([]record.Record, error) {
	return nil, f.err
}

func decodeResult(t *testing.T, raw string) contractx.ToolResult {
	t.Helper()
	var out contractx.ToolResult
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		t.Fatalf("decode tool result %q: %v", raw, err)
	}
	return out
}

func TestRecordToolPutGetQuery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	vendors, err := NewRecordTool(record.NewMemoryStore(nil), record.Vendors)
	if err != nil {
		t.Fatalf("NewRecordTool() error = %v", err)
	}

	info, err := vendors.Info(ctx)
	if err != nil || info.Name != "vendors" {
		t.Fatalf("unexpected info: %#v, %v", info, err)
	}

	out, err := vendors.InvokableRun(ctx, `{"operation":"put","record":{"id":"v1","wedding_id":"W1","name":"Bloom"}}`)
	if err != nil {
		t.Fatalf("put error = %v", err)
	}
	if res := decodeResult(t, out); res.Error != "" {
		t.Fatalf("put tool error = %s", res.Error)
	}

	out, err = vendors.InvokableRun(ctx, `{"operation":"get","id":"v1"}`)
	if err != nil {
		t.Fatalf("get error = %v", err)
	}
	if !strings.Contains(out, `"found":true`) || !strings.Contains(out, `"name":"Bloom"`) {
		t.Fatalf("unexpected get result: %s", out)
	}

	out, err = vendors.InvokableRun(ctx, `{"operation":"get","id":"v2"}`)
	if err != nil {
		t.Fatalf("get missing error = %v", err)
	}
	if !strings.Contains(out, `"found":false`) {
		t.Fatalf("unexpected get missing result: %s", out)
	}

	out, err = vendors.InvokableRun(ctx, `{"operation":"query","filter":{"wedding_id":"W1"}}`)
	if err != nil {
		t.Fatalf("query error = %v", err)
	}
	if !strings.Contains(out, `"count":1`) {
		t.Fatalf("unexpected query result: %s", out)
	}
}

func TestRecordToolMalformedArgumentsAreSoft(t *testing.T) {
	t.Parallel()

	guests, err := NewRecordTool(record.NewMemoryStore(nil), record.Guests)
	if err != nil {
		t.Fatalf("NewRecordTool() error = %v", err)
	}

	cases := []string{
		`not json`,
		`{"operation":"delete","id":"g1"}`,
		`{"operation":"get"}`,
		`{"operation":"put"}`,
	}
	for _, args := range cases {
		out, err := guests.InvokableRun(context.Background(), args)
		if err != nil {
			t.Fatalf("args=%s: unexpected hard error %v", args, err)
		}
		if res := decodeResult(t, out); res.Error == "" {
			t.Fatalf("args=%s: expected tool error, got %s", args, out)
		}
	}
}

func TestRecordToolBackendFailureIsCapabilityError(t *testing.T) {
	t.Parallel()

	backend := errors.New("table unavailable")
	guests, err := NewRecordTool(failingStore{err: backend}, record.Guests)
	if err != nil {
		t.Fatalf("NewRecordTool() error = %v", err)
	}

	_, err = guests.InvokableRun(context.Background(), `{"operation":"query"}`)
	var capErr *contractx.CapabilityError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected CapabilityError, got %v", err)
	}
	if capErr.Tool != "guests" || !errors.Is(err, backend) {
		t.Fatalf("unexpected capability error: %#v", capErr)
	}
}

func TestForCollectionsNames(t *testing.T) {
	t.Parallel()

	tools, err := ForCollections(record.NewMemoryStore(nil), []record.Collection{record.Milestones, record.Tasks})
	if err != nil {
		t.Fatalf("ForCollections() error = %v", err)
	}
	names := Names(context.Background(), tools)
	if len(names) != 2 || names[0] != "milestones" || names[1] != "tasks" {
		t.Fatalf("unexpected names: %#v", names)
	}
}

func TestNewRecordToolUnknownCollection(t *testing.T) {
	t.Parallel()

	if _, err := NewRecordTool(record.NewMemoryStore(nil), record.Collection("unicorns")); !errors.Is(err, record.ErrUnknownCollection) {
		t.Fatalf("expected ErrUnknownCollection, got %v", err)
	}
}
