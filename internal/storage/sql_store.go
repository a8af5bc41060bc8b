package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"handsaround/internal/logger"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS local_storage (
	storage_key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_on TIMESTAMP NOT NULL
)`

// SQLStore keeps local storage in a single key/value table.
// sqlite is the default; postgres lets several fronts share one store.
type SQLStore struct {
	db     *sql.DB
	driver string
}

// Open connects to the configured driver and makes sure the table exists.
func Open(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open local storage: %w", err)
	}
	if driver == "sqlite" {
		// sqlite allows one writer at a time
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping local storage: %w", err)
	}

	s := NewSQLStore(db, driver)
	if err := s.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLStore wraps an existing connection.
func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create local storage table: %w", err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStore) arg(n int) string {
	if s.driver == "postgres" {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, error) {
	logger.StoreCall("get", key)
	query := fmt.Sprintf(`SELECT value FROM local_storage WHERE storage_key = %s`, s.arg(1))

	var value string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		logger.StoreResult("get", key, nil, "found", false)
		return "", ErrNotFound
	}
	logger.StoreResult("get", key, err)
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	logger.StoreCall("set", key)
	query := fmt.Sprintf(`INSERT INTO local_storage (storage_key, value, updated_on) VALUES (%s, %s, %s)
	          ON CONFLICT (storage_key) DO UPDATE SET value = excluded.value, updated_on = excluded.updated_on`,
		s.arg(1), s.arg(2), s.arg(3))

	_, err := s.db.ExecContext(ctx, query, key, value, time.Now().UTC())
	logger.StoreResult("set", key, err)
	return err
}

func (s *SQLStore) Remove(ctx context.Context, key string) error {
	logger.StoreCall("remove", key)
	query := fmt.Sprintf(`DELETE FROM local_storage WHERE storage_key = %s`, s.arg(1))

	_, err := s.db.ExecContext(ctx, query, key)
	logger.StoreResult("remove", key, err)
	return err
}
