package record

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr      string `envconfig:"ADDR" split_words:"true" default:"localhost:6379"`
	Password  string `envconfig:"PASSWORD" split_words:"true"`
	DB        int    `envconfig:"DB" split_words:"true" default:"0"`
	KeyPrefix string `envconfig:"KEY_PREFIX" split_words:"true" default:"enchantedday:"`
}

// RedisStore persists records in Redis, one JSON value per record.
type RedisStore struct {
	client    *redis.Client
	tables    Tables
	keyPrefix string
}

func NewRedisStore(client *redis.Client, tables Tables, keyPrefix string) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if tables == nil {
		tables = DefaultTables()
	}
	return &RedisStore{
		client:    client,
		tables:    tables,
		keyPrefix: keyPrefix,
	}, nil
}

func OpenRedis(ctx context.Context, cfg RedisConfig, tables Tables) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     strings.TrimSpace(cfg.Addr),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisStore(client, tables, cfg.KeyPrefix)
}

func (s *RedisStore) Accessor(c Collection) (Accessor, error) {
	table, err := s.tables.Name(c)
	if err != nil {
		return nil, err
	}
	return &redisAccessor{client: s.client, keys: newKeyspace(s.keyPrefix, table)}, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

type redisAccessor struct {
	client *redis.Client
	keys   keyspace
}

func (a *redisAccessor) Get(ctx context.Context, id string) (Record, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrEmptyID
	}
	data, err := a.client.Get(ctx, a.keys.record(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, a.keys.table, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", a.keys.table, id, err)
	}
	return decode([]byte(data))
}

func (a *redisAccessor) Put(ctx context.Context, rec Record) (string, error) {
	rec, err := prepare(rec)
	if err != nil {
		return "", err
	}
	raw, err := encode(rec)
	if err != nil {
		return "", err
	}

	id := rec.ID()
	_, err = a.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, a.keys.record(id), raw, 0)
		pipe.SAdd(ctx, a.keys.ids(), id)
		if wid := rec.WeddingID(); wid != "" {
			pipe.SAdd(ctx, a.keys.wedding(wid), id)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("put %s/%s: %w", a.keys.table, id, err)
	}
	return id, nil
}

func (a *redisAccessor) Query(ctx context.Context, filter Filter) ([]Record, error) {
	filter, err := normalizeFilter(filter)
	if err != nil {
		return nil, err
	}

	ids, err := a.client.SMembers(ctx, a.keys.index(filter)).Result()
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", a.keys.table, err)
	}
	if len(ids) == 0 {
		return []Record{}, nil
	}

	values, err := a.client.MGet(ctx, a.keys.records(ids)...).Result()
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", a.keys.table, err)
	}

	recs := make([]Record, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		rec, err := decode([]byte(s))
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return filterSorted(recs, filter), nil
}
