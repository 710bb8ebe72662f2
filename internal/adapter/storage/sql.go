package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/niksmo/custom-tee/internal/core/port"
)

var _ port.KVStorage = (*SQLStorage)(nil)

// A SQLStorage keeps records in the kv_records table.
type SQLStorage struct {
	sqldb sqldb
}

func NewSQLStorage(sqldb sqldb) SQLStorage {
	return SQLStorage{sqldb}
}

func (s SQLStorage) Get(ctx context.Context, key string) ([]byte, error) {
	const op = "SQLStorage.Get"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT value FROM kv_records WHERE key = $1`

	var v []byte
	err := s.sqldb.QueryRowContext(ctx, query, key).Scan(&v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %q: %w", op, key, port.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

func (s SQLStorage) Put(ctx context.Context, key string, value []byte) error {
	const op = "SQLStorage.Put"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `
		INSERT INTO kv_records (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at`

	_, err := s.sqldb.ExecContext(ctx, query, key, value)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s SQLStorage) Close() {
	const op = "SQLStorage.Close"
	log := slog.With("op", op)

	log.Info("closing sql database...")
	if err := s.sqldb.Close(); err != nil {
		log.Error("failed to close", "err", err)
		return
	}
	log.Info("sql database is closed")
}
