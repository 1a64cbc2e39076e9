package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `CREATE TABLE IF NOT EXISTS kv_entries (
    namespace TEXT NOT NULL,
    key TEXT NOT NULL,
    value BYTEA NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (namespace, key)
)`

// PostgresStore persists values in a single kv_entries table partitioned by namespace.
type PostgresStore struct {
	db        *pgxpool.Pool
	namespace string
}

// NewPostgresStore builds a Postgres-backed store. Call EnsureSchema once at startup.
func NewPostgresStore(db *pgxpool.Pool, namespace string) *PostgresStore {
	if namespace == "" {
		namespace = defaultPrefix
	}
	return &PostgresStore{db: db, namespace: namespace}
}

// EnsureSchema creates the backing table when it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create kv schema: %w", err)
	}
	return nil
}

// Get fetches the value stored under key.
func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(ctx, `SELECT value FROM kv_entries WHERE namespace = $1 AND key = $2`, s.namespace, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("postgres get: %w", err)
	}
	return value, nil
}

// Put upserts the value stored under key.
func (s *PostgresStore) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.Exec(ctx, `INSERT INTO kv_entries (namespace, key, value) VALUES ($1, $2, $3)
        ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`, s.namespace, key, value)
	if err != nil {
		return fmt.Errorf("postgres put: %w", err)
	}
	return nil
}

// PutIfAbsent inserts the value unless the key already exists.
func (s *PostgresStore) PutIfAbsent(ctx context.Context, key string, value []byte) (bool, error) {
	cmd, err := s.db.Exec(ctx, `INSERT INTO kv_entries (namespace, key, value) VALUES ($1, $2, $3)
        ON CONFLICT (namespace, key) DO NOTHING`, s.namespace, key, value)
	if err != nil {
		return false, fmt.Errorf("postgres insert: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM kv_entries WHERE namespace = $1 AND key = $2`, s.namespace, key); err != nil {
		return fmt.Errorf("postgres delete: %w", err)
	}
	return nil
}

// Ping checks connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
