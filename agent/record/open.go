package record

import (
	"context"
	"fmt"
	"strings"
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendUpstash  = "upstash"
)

// Config selects and configures the record backend. Loaded with prefix RECORD.
type Config struct {
	Backend  string         `envconfig:"BACKEND" split_words:"true" default:"memory"`
	Redis    RedisConfig    `envconfig:"REDIS" split_words:"true"`
	Postgres PostgresConfig `envconfig:"POSTGRES" split_words:"true"`
	Upstash  UpstashConfig  `envconfig:"UPSTASH" split_words:"true"`
}

// Open builds the configured backend bound to the given table names.
func Open(ctx context.Context, cfg Config, tables Tables) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendMemory:
		return NewMemoryStore(tables), nil
	case BackendRedis:
		return OpenRedis(ctx, cfg.Redis, tables)
	case BackendPostgres:
		return OpenPostgres(ctx, cfg.Postgres, tables)
	case BackendUpstash:
		return NewUpstashStore(cfg.Upstash, tables, WithKeyPrefix(cfg.Redis.KeyPrefix))
	default:
		return nil, fmt.Errorf("unsupported record backend %q", cfg.Backend)
	}
}
