// Package postgres implements the snapshot key-value store on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register the pgx database/sql driver
	"github.com/pressly/goose/v3"

	"github.com/phrazzld/mnemo-api/internal/store"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Ensure SnapshotStore implements store.KVStore
var _ store.KVStore = (*SnapshotStore)(nil)

// SnapshotStore is a PostgreSQL-backed store.KVStore. Each key maps to one
// row in the snapshots table; Set upserts the whole value.
type SnapshotStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open connects to PostgreSQL, applies pending migrations, and returns a
// ready SnapshotStore.
func Open(ctx context.Context, url string, logger *slog.Logger) (*SnapshotStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With(slog.String("component", "postgres_snapshot_store"))

	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("open database connection: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	log.Info("database connection established")
	return &SnapshotStore{db: db, logger: log}, nil
}

// Get implements store.KVStore.Get.
func (s *SnapshotStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM snapshots WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot %q: %w", key, err)
	}
	return value, nil
}

// Set implements store.KVStore.Set.
func (s *SnapshotStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO snapshots (key, value, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, value)
	if err != nil {
		return fmt.Errorf("set snapshot %q: %w", key, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}
