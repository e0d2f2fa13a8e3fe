package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/julianstephens/tracklit/internal/constants"
	"github.com/julianstephens/tracklit/internal/logger"
	"github.com/julianstephens/tracklit/internal/migration"
	"github.com/julianstephens/tracklit/internal/storage"
	"github.com/julianstephens/tracklit/migrations"
)

const (
	usageQuery = `SELECT COALESCE(SUM(octet_length(key) + octet_length(value)), 0) FROM kv`
	// Serializes capacity checks across concurrent writers.
	lockQuery = `SELECT pg_advisory_xact_lock(hashtext('tracklit.kv'))`
)

type Store struct {
	connStr  string
	capacity int
	db       *sql.DB
}

var _ storage.Provider = (*Store)(nil)

func New(connStr string, capacity int) *Store {
	return &Store{connStr: withSearchPath(connStr), capacity: capacity}
}

func (s *Store) connect() error {
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		if strings.Contains(err.Error(), "SSL is not enabled on the server") && !hasParam(s.connStr, "sslmode") {
			return fmt.Errorf("failed to connect to database: %w (hint: try adding ?sslmode=disable to your connection string)", err)
		}
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = db
	return nil
}

func (s *Store) migrate() error {
	subFS, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		return fmt.Errorf("failed to access postgres migrations: %w", err)
	}
	if _, err := migration.NewRunner(s.db, subFS, migration.Postgres).Apply(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) Init() error {
	if s.db == nil {
		if err := s.connect(); err != nil {
			return err
		}
	}
	if _, err := s.db.Exec("CREATE SCHEMA IF NOT EXISTS " + constants.AppName); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return s.migrate()
}

func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}
	if err := s.connect(); err != nil {
		return err
	}
	return s.migrate()
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) Get(key string) (string, bool, error) {
	if s.db == nil {
		return "", false, storage.ErrNotLoaded
	}
	var v string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = $1", key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return v, true, nil
}

func (s *Store) Set(key, value string) error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(lockQuery); err != nil {
		return fmt.Errorf("failed to lock store: %w", err)
	}
	var usage int
	if err := tx.QueryRow(usageQuery).Scan(&usage); err != nil {
		return fmt.Errorf("failed to compute usage: %w", err)
	}
	prev := 0
	var old string
	switch err := tx.QueryRow("SELECT value FROM kv WHERE key = $1", key).Scan(&old); {
	case err == nil:
		prev = storage.EntrySize(key, old)
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("failed to read %q: %w", key, err)
	}
	if err := storage.CheckQuota(key, usage, prev, storage.EntrySize(key, value), s.capacity); err != nil {
		logger.Debug("Rejected write", "key", key, "usage", usage, "capacity", s.capacity)
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, value)
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return tx.Commit()
}

func (s *Store) Delete(key string) error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}
	if _, err := s.db.Exec("DELETE FROM kv WHERE key = $1", key); err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

func (s *Store) Keys() ([]string, error) {
	if s.db == nil {
		return nil, storage.ErrNotLoaded
	}
	rows, err := s.db.Query("SELECT key FROM kv ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (s *Store) All() (map[string]string, error) {
	if s.db == nil {
		return nil, storage.ErrNotLoaded
	}
	rows, err := s.db.Query("SELECT key, value FROM kv")
	if err != nil {
		return nil, fmt.Errorf("failed to read entries: %w", err)
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}

func (s *Store) Usage() (int, error) {
	if s.db == nil {
		return 0, storage.ErrNotLoaded
	}
	var n int
	if err := s.db.QueryRow(usageQuery).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to compute usage: %w", err)
	}
	return n, nil
}

func (s *Store) Capacity() int {
	return s.capacity
}

// GetConfigPath returns a fixed identifier so the connection string never
// reaches logs or output.
func (s *Store) GetConfigPath() string {
	return "postgresql"
}
