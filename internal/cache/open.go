package cache

import (
	"context"
	"fmt"
)

const (
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
	BackendLibsql = "libsql"
	BackendMemory = "memory"
)

type Config struct {
	Backend string       `json:"backend"`
	Redis   RedisConfig  `json:"redis"`
	SQLite  SQLiteConfig `json:"sqlite"`
	Libsql  LibsqlConfig `json:"libsql"`
}

// Open creates the store selected by config.Backend, redis when empty.
func Open(ctx context.Context, config Config) (Store, error) {
	switch config.Backend {
	case "", BackendRedis:
		return NewRedisStore(config.Redis), nil
	case BackendSQLite:
		return OpenSQLite(ctx, config.SQLite)
	case BackendLibsql:
		return OpenLibsql(ctx, config.Libsql)
	case BackendMemory:
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown cache backend %q", config.Backend)
}
