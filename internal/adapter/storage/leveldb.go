package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/niksmo/custom-tee/internal/core/port"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

var _ port.KVStorage = (*LevelDBStorage)(nil)

// A LevelDBStorage keeps records in a local LevelDB directory.
type LevelDBStorage struct {
	db *leveldb.DB
}

func NewLevelDBStorage(path string) (LevelDBStorage, error) {
	const op = "NewLevelDBStorage"
	log := slog.With("op", op)

	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return LevelDBStorage{}, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("local storage is open", "path", path)
	return LevelDBStorage{db}, nil
}

func (s LevelDBStorage) Get(ctx context.Context, key string) ([]byte, error) {
	const op = "LevelDBStorage.Get"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	v, err := s.db.Get([]byte(key), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, fmt.Errorf("%s: %q: %w", op, key, port.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

func (s LevelDBStorage) Put(ctx context.Context, key string, value []byte) error {
	const op = "LevelDBStorage.Put"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err := s.db.Put([]byte(key), value, &opt.WriteOptions{Sync: true})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s LevelDBStorage) Close() {
	const op = "LevelDBStorage.Close"
	log := slog.With("op", op)

	log.Info("closing local storage...")
	if err := s.db.Close(); err != nil {
		log.Error("failed to close", "err", err)
		return
	}
	log.Info("local storage is closed")
}
