package record

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	maxResponseSizeBytes = 2 << 20
	mgetBatchSize        = 64
)

// UpstashOption customizes UpstashStore.
type UpstashOption func(*UpstashStore)

func WithKeyPrefix(prefix string) UpstashOption {
	return func(s *UpstashStore) {
		trimmed := strings.TrimSpace(prefix)
		if trimmed != "" {
			s.keyPrefix = trimmed
		}
	}
}

func WithHTTPClient(client *http.Client) UpstashOption {
	return func(s *UpstashStore) {
		if client != nil {
			s.httpClient = client
		}
	}
}

type UpstashConfig struct {
	URL     string        `envconfig:"URL" split_words:"true"`
	Token   string        `envconfig:"TOKEN" split_words:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

// UpstashStore persists records in Upstash Redis through its REST API.
// It shares the key layout of RedisStore.
type UpstashStore struct {
	baseURL    string
	token      string
	httpClient *http.Client
	keyPrefix  string
	tables     Tables
}

type redisRESTResponse struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

func NewUpstashStore(cfg UpstashConfig, tables Tables, opts ...UpstashOption) (*UpstashStore, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if baseURL == "" {
		return nil, errors.New("upstash redis url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid redis rest url: %w", err)
	}

	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errors.New("upstash redis token is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if tables == nil {
		tables = DefaultTables()
	}

	store := &UpstashStore{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		keyPrefix:  defaultKeyPrefix,
		tables:     tables,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	return store, nil
}

func (s *UpstashStore) Accessor(c Collection) (Accessor, error) {
	table, err := s.tables.Name(c)
	if err != nil {
		return nil, err
	}
	return &upstashAccessor{store: s, keys: newKeyspace(s.keyPrefix, table)}, nil
}

func (s *UpstashStore) Close() error {
	s.httpClient.CloseIdleConnections()
	return nil
}

type upstashAccessor struct {
	store *UpstashStore
	keys  keyspace
}

func (a *upstashAccessor) Get(ctx context.Context, id string) (Record, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrEmptyID
	}
	resp, err := a.store.exec(ctx, []any{"GET", a.keys.record(id)})
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", a.keys.table, id, err)
	}

	result := bytes.TrimSpace(resp.Result)
	if len(result) == 0 || bytes.Equal(result, []byte("null")) {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, a.keys.table, id)
	}

	var encoded string
	if err := json.Unmarshal(result, &encoded); err != nil {
		return nil, fmt.Errorf("decode record payload: %w", err)
	}
	return decode([]byte(encoded))
}

func (a *upstashAccessor) Put(ctx context.Context, rec Record) (string, error) {
	rec, err := prepare(rec)
	if err != nil {
		return "", err
	}
	raw, err := encode(rec)
	if err != nil {
		return "", err
	}

	id := rec.ID()
	commands := [][]any{
		{"SET", a.keys.record(id), string(raw)},
		{"SADD", a.keys.ids(), id},
	}
	if wid := rec.WeddingID(); wid != "" {
		commands = append(commands, []any{"SADD", a.keys.wedding(wid), id})
	}

	if err := a.store.execMulti(ctx, commands); err != nil {
		return "", fmt.Errorf("put %s/%s: %w", a.keys.table, id, err)
	}
	return id, nil
}

func (a *upstashAccessor) Query(ctx context.Context, filter Filter) ([]Record, error) {
	filter, err := normalizeFilter(filter)
	if err != nil {
		return nil, err
	}

	resp, err := a.store.exec(ctx, []any{"SMEMBERS", a.keys.index(filter)})
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", a.keys.table, err)
	}
	var ids []string
	if err := json.Unmarshal(resp.Result, &ids); err != nil {
		return nil, fmt.Errorf("decode id set: %w", err)
	}
	if len(ids) == 0 {
		return []Record{}, nil
	}

	keys := a.keys.records(ids)
	recs := make([]Record, 0, len(keys))
	for start := 0; start < len(keys); start += mgetBatchSize {
		end := min(start+mgetBatchSize, len(keys))
		batch, err := a.mget(ctx, keys[start:end])
		if err != nil {
			return nil, err
		}
		recs = append(recs, batch...)
	}
	return filterSorted(recs, filter), nil
}

func (a *upstashAccessor) mget(ctx context.Context, keys []string) ([]Record, error) {
	cmd := make([]any, 0, len(keys)+1)
	cmd = append(cmd, "MGET")
	for _, key := range keys {
		cmd = append(cmd, key)
	}
	resp, err := a.store.exec(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", a.keys.table, err)
	}
	var values []*string
	if err := json.Unmarshal(resp.Result, &values); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}

	recs := make([]Record, 0, len(values))
	for _, v := range values {
		if v == nil {
			continue
		}
		rec, err := decode([]byte(*v))
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (s *UpstashStore) exec(ctx context.Context, command []any) (*redisRESTResponse, error) {
	if len(command) == 0 {
		return nil, errors.New("empty redis command")
	}
	raw, err := s.post(ctx, s.baseURL, command)
	if err != nil {
		return nil, err
	}

	var parsed redisRESTResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode redis response: %w", err)
	}
	if parsed.Error != "" {
		return nil, errors.New(parsed.Error)
	}
	return &parsed, nil
}

// execMulti runs the commands as one MULTI/EXEC transaction.
func (s *UpstashStore) execMulti(ctx context.Context, commands [][]any) error {
	raw, err := s.post(ctx, s.baseURL+"/multi-exec", commands)
	if err != nil {
		return err
	}

	var parsed []redisRESTResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		var single redisRESTResponse
		if jsonErr := json.Unmarshal(raw, &single); jsonErr == nil && single.Error != "" {
			return errors.New(single.Error)
		}
		return fmt.Errorf("decode redis transaction response: %w", err)
	}
	for _, r := range parsed {
		if r.Error != "" {
			return errors.New(r.Error)
		}
	}
	return nil
}

func (s *UpstashStore) post(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal redis command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build redis request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute redis request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read redis response: %w", err)
	}
	if len(raw) > maxResponseSizeBytes {
		return nil, fmt.Errorf("redis response exceeds %d bytes", maxResponseSizeBytes)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("redis http status=%d body=%s", resp.StatusCode, string(raw))
	}
	return raw, nil
}
