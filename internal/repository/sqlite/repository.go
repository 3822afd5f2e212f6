package sqlite

import (
	"context"
	"database/sql"
	"time"

	"dashboard/internal/errors"
	"dashboard/internal/repository"
	"dashboard/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

var _ repository.Repository = (*SQLiteRepository)(nil)

// Options tunes the repository's statement deadlines
type Options struct {
	QueryTimeout time.Duration
	WriteTimeout time.Duration
}

// SQLiteRepository implements repository.Repository on a single SQLite table
type SQLiteRepository struct {
	db   *sql.DB
	opts Options
	now  func() time.Time
}

// New creates a new SQLite repository instance
func New(dbPath string) (*SQLiteRepository, error) {
	return NewWithOptions(dbPath, Options{})
}

// NewWithOptions creates a repository with statement deadlines
func NewWithOptions(dbPath string, opts Options) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewStorageError("open database", err)
	}
	if dbPath == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	// Run migrations
	if err := migrations.RunMigrations(db); err != nil {
		db.Close()
		return nil, errors.NewStorageError("run migrations", err)
	}

	return &SQLiteRepository{db: db, opts: opts, now: time.Now}, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Get returns the blob stored under key
func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, error) {
	slot, err := r.GetSlot(ctx, key)
	if err != nil {
		return nil, err
	}
	return slot.Value, nil
}

// GetSlot returns the full row stored under key
func (r *SQLiteRepository) GetSlot(ctx context.Context, key string) (*Slot, error) {
	ctx, cancel := r.withTimeout(ctx, r.opts.QueryTimeout)
	defer cancel()

	query := `SELECT key, value, updated_at FROM slots WHERE key = ?`
	return QuerySingle(ctx, r.db, query, ScanSlot, "slot", key, key)
}

// Put overwrites the blob stored under key
func (r *SQLiteRepository) Put(ctx context.Context, key string, value []byte) error {
	ctx, cancel := r.withTimeout(ctx, r.opts.WriteTimeout)
	defer cancel()

	query := `
	INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	return Execute(ctx, r.db, "put "+key, query, key, string(value), FormatTimeForDB(r.now()))
}

// Delete removes key
func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	ctx, cancel := r.withTimeout(ctx, r.opts.WriteTimeout)
	defer cancel()

	return Execute(ctx, r.db, "delete "+key, `DELETE FROM slots WHERE key = ?`, key)
}

// Keys lists every stored key in ascending order
func (r *SQLiteRepository) Keys(ctx context.Context) ([]string, error) {
	ctx, cancel := r.withTimeout(ctx, r.opts.QueryTimeout)
	defer cancel()

	rows, err := QueryMultiple(ctx, r.db, `SELECT key FROM slots ORDER BY key ASC`, ScanKeys, "slots")
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(rows))
	for i, k := range rows {
		keys[i] = *k
	}
	return keys, nil
}

func (r *SQLiteRepository) withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
