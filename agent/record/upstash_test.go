package record

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewUpstashStoreValidatesConfig(t *testing.T) {
	t.Parallel()

	if _, err := NewUpstashStore(UpstashConfig{Token: "t"}, nil); err == nil {
		t.Fatal("expected error for missing url")
	}
	if _, err := NewUpstashStore(UpstashConfig{URL: "https://example.upstash.io"}, nil); err == nil {
		t.Fatal("expected error for missing token")
	}
}

func TestUpstashStorePutRunsTransaction(t *testing.T) {
	t.Parallel()

	var (
		gotPath     string
		gotAuth     string
		gotCommands [][]any
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotCommands); err != nil {
			t.Errorf("decode commands: %v", err)
		}
		fmt.Fprint(w, `[{"result":"OK"},{"result":1},{"result":1}]`)
	}))
	t.Cleanup(server.Close)

	store, err := NewUpstashStore(UpstashConfig{URL: server.URL, Token: "token"}, nil,
		WithHTTPClient(server.Client()), WithKeyPrefix("ed:"))
	if err != nil {
		t.Fatalf("NewUpstashStore() error = %v", err)
	}
	acc, err := store.Accessor(Guests)
	if err != nil {
		t.Fatalf("Accessor() error = %v", err)
	}

	id, err := acc.Put(context.Background(), Record{"id": "g1", "wedding_id": "W1"})
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if id != "g1" {
		t.Fatalf("Put() id = %q", id)
	}
	if gotPath != "/multi-exec" {
		t.Fatalf("path = %q, want /multi-exec", gotPath)
	}
	if gotAuth != "Bearer token" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if len(gotCommands) != 3 {
		t.Fatalf("commands = %#v, want 3", gotCommands)
	}
	if gotCommands[0][0] != "SET" || gotCommands[0][1] != "ed:guests:rec:g1" {
		t.Fatalf("command[0] = %#v", gotCommands[0])
	}
	if gotCommands[2][1] != "ed:guests:wedding:W1" {
		t.Fatalf("command[2] = %#v", gotCommands[2])
	}
}

func TestUpstashStoreGetMissing(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result":null}`)
	}))
	t.Cleanup(server.Close)

	store, err := NewUpstashStore(UpstashConfig{URL: server.URL, Token: "token"}, nil, WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("NewUpstashStore() error = %v", err)
	}
	acc, _ := store.Accessor(Vendors)

	if _, err := acc.Get(context.Background(), "v9"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestUpstashStoreQuery(t *testing.T) {
	t.Parallel()

	v1, _ := json.Marshal(`{"id":"v1","wedding_id":"W1","name":"Bloom"}`)
	v2, _ := json.Marshal(`{"id":"v2","wedding_id":"W1","name":"Sound"}`)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var cmd []any
		if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
			t.Errorf("decode command: %v", err)
			return
		}
		switch cmd[0] {
		case "SMEMBERS":
			if cmd[1] != "enchantedday:vendors:wedding:W1" {
				t.Errorf("SMEMBERS key = %v", cmd[1])
			}
			fmt.Fprint(w, `{"result":["v2","v1","gone"]}`)
		case "MGET":
			fmt.Fprintf(w, `{"result":[%s,%s,null]}`, v2, v1)
		default:
			fmt.Fprint(w, `{"error":"unexpected command"}`)
		}
	}))
	t.Cleanup(server.Close)

	store, err := NewUpstashStore(UpstashConfig{URL: server.URL, Token: "token"}, nil, WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("NewUpstashStore() error = %v", err)
	}
	acc, _ := store.Accessor(Vendors)

	got, err := acc.Query(context.Background(), Filter{"wedding_id": "W1"})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(got) != 2 || got[0].ID() != "v1" || got[1].ID() != "v2" {
		t.Fatalf("Query() = %v, want [v1 v2]", ids(got))
	}
}

func TestUpstashStoreQueryLargeCollection(t *testing.T) {
	t.Parallel()

	const total = 300
	notes := strings.Repeat("x", 10<<10)
	values := make(map[string]string, total)
	members := make([]string, 0, total)
	for i := 0; i < total; i++ {
		id := fmt.Sprintf("g%03d", i)
		members = append(members, id)
		raw, _ := json.Marshal(map[string]any{"id": id, "wedding_id": "W1", "notes": notes})
		values["enchantedday:guests:rec:"+id] = string(raw)
	}

	var mgets int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var cmd []string
		if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
			t.Errorf("decode command: %v", err)
			return
		}
		switch cmd[0] {
		case "SMEMBERS":
			_ = json.NewEncoder(w).Encode(map[string]any{"result": members})
		case "MGET":
			mgets++
			out := make([]*string, 0, len(cmd)-1)
			for _, key := range cmd[1:] {
				if v, ok := values[key]; ok {
					out = append(out, &v)
				} else {
					out = append(out, nil)
				}
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"result": out})
		default:
			fmt.Fprint(w, `{"error":"unexpected command"}`)
		}
	}))
	t.Cleanup(server.Close)

	store, err := NewUpstashStore(UpstashConfig{URL: server.URL, Token: "token"}, nil, WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("NewUpstashStore() error = %v", err)
	}
	acc, _ := store.Accessor(Guests)

	got, err := acc.Query(context.Background(), Filter{"wedding_id": "W1"})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(got) != total {
		t.Fatalf("Query() returned %d records, want %d", len(got), total)
	}
	if got[0].ID() != "g000" || got[total-1].ID() != "g299" {
		t.Fatalf("Query() order = %s..%s", got[0].ID(), got[total-1].ID())
	}
	if mgets < 2 {
		t.Fatalf("expected batched MGET, got %d calls", mgets)
	}
}

func TestUpstashStoreRejectsOversizedResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"result":%q}`, strings.Repeat("y", maxResponseSizeBytes))
	}))
	t.Cleanup(server.Close)

	store, err := NewUpstashStore(UpstashConfig{URL: server.URL, Token: "token"}, nil, WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("NewUpstashStore() error = %v", err)
	}
	acc, _ := store.Accessor(Vendors)

	_, err = acc.Get(context.Background(), "v1")
	if err == nil || !strings.Contains(err.Error(), "exceeds") {
		t.Fatalf("Get() error = %v, want size error", err)
	}
}

func TestUpstashStoreSurfacesRedisError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":"WRONGTYPE"}`)
	}))
	t.Cleanup(server.Close)

	store, err := NewUpstashStore(UpstashConfig{URL: server.URL, Token: "token"}, nil, WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("NewUpstashStore() error = %v", err)
	}
	acc, _ := store.Accessor(Vendors)

	_, err = acc.Get(context.Background(), "v1")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() error = %v, want backend error", err)
	}
}
