package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "embed"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

type SQLiteConfig struct {
	File string `json:"file"`
}

type LibsqlConfig struct {
	URL       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

// SQLStore stores values in a single table of a sqlite compatible database.
type SQLStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLStore creates the schema if needed and takes ownership of db.
func NewSQLStore(ctx context.Context, db *sql.DB) (*SQLStore, error) {
	_, err := db.ExecContext(ctx, Schema)
	if err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLStore{db: db, now: time.Now}, nil
}

// OpenSQLite opens (or creates) a local sqlite file, ":memory:" is allowed.
func OpenSQLite(ctx context.Context, config SQLiteConfig) (*SQLStore, error) {
	if config.File == "" {
		return nil, fmt.Errorf("a path was not specified")
	}
	if config.File != ":memory:" {
		err := os.MkdirAll(filepath.Dir(config.File), 0755)
		if err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", config.File)
	if err != nil {
		return nil, err
	}
	// sqlite allows one writer at a time
	db.SetMaxOpenConns(1)
	if config.File != ":memory:" {
		_, err = db.ExecContext(ctx, "PRAGMA journal_mode=WAL")
		if err != nil {
			db.Close()
			return nil, err
		}
	}

	store, err := NewSQLStore(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// OpenLibsql connects to a remote libsql database.
func OpenLibsql(ctx context.Context, config LibsqlConfig) (*SQLStore, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("a libsql url was not specified")
	}
	dsn := config.URL
	if config.AuthToken != "" {
		parsed, err := url.Parse(config.URL)
		if err != nil {
			return nil, err
		}
		query := parsed.Query()
		query.Set("authToken", config.AuthToken)
		parsed.RawQuery = query.Encode()
		dsn = parsed.String()
	}

	db, err := sql.Open("libsql", dsn)
	if err != nil {
		return nil, err
	}
	store, err := NewSQLStore(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "select value from cache_entry where key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("sql get: %w", err)
	}
	return value, true, nil
}

func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(
		ctx,
		`insert into cache_entry (key, value, updated_at) values (?, ?, ?)
		on conflict (key) do update set value = excluded.value, updated_at = excluded.updated_at`,
		key, value, s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("sql set: %w", err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
