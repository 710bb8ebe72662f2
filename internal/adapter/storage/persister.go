package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/niksmo/custom-tee/internal/core/port"
	"github.com/niksmo/custom-tee/pkg/retry"
)

var _ port.Persister = (*Persister)(nil)

const DefaultNamespace = "customTee"

type PersisterOpt func(*persisterOpts) error

type persisterOpts struct {
	namespace string
	retry     retry.RetryConfig
}

func NamespaceOpt(namespace string) PersisterOpt {
	return func(opts *persisterOpts) error {
		if namespace == "" {
			return errors.New("namespace is empty string")
		}
		opts.namespace = namespace
		return nil
	}
}

func RetryOpt(c retry.RetryConfig) PersisterOpt {
	return func(opts *persisterOpts) error {
		if c.MaxAttempts < 0 {
			return errors.New("negative max attempts")
		}
		opts.retry = c
		return nil
	}
}

// SaveAttemptsOpt limits the writes of one save, keeping the default
// backoff and retry policy.
func SaveAttemptsOpt(n int) PersisterOpt {
	return func(opts *persisterOpts) error {
		if n < 1 {
			return errors.New("save attempts must be positive")
		}
		opts.retry.MaxAttempts = n
		return nil
	}
}

// A Persister stores JSON encoded records in a [port.KVStorage].
type Persister struct {
	kv        port.KVStorage
	namespace string
	retry     retry.RetryConfig
}

func NewPersister(kv port.KVStorage, opts ...PersisterOpt) (Persister, error) {
	const op = "NewPersister"

	if kv == nil {
		panic(fmt.Errorf("%s: storage is nil", op)) // develop mistake
	}

	options := persisterOpts{
		namespace: DefaultNamespace,
		retry:     retry.RetryConfig{MaxAttempts: 3, ShouldRetry: retryable},
	}
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return Persister{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	return Persister{
		kv:        kv,
		namespace: options.namespace,
		retry:     options.retry,
	}, nil
}

// Key returns the storage key of the named record.
func (p Persister) Key(name string) string {
	return p.namespace + name
}

// LoadInto decodes the named record into v. It reports false when the
// record is missing, unreadable or malformed; the failure is logged.
func (p Persister) LoadInto(ctx context.Context, name string, v any) bool {
	const op = "Persister.LoadInto"
	key := p.Key(name)
	log := slog.With("op", op, "key", key)

	data, err := p.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, port.ErrNotFound) {
			log.Debug("record is missing, using default")
			return false
		}
		log.Error("failed to read record, using default", "err", err)
		return false
	}

	if err := json.Unmarshal(data, v); err != nil {
		log.Warn("malformed record, using default", "err", err)
		return false
	}
	return true
}

// Save encodes v and writes it under the named record, retrying
// transient failures.
func (p Persister) Save(ctx context.Context, name string, v any) error {
	const op = "Persister.Save"
	key := p.Key(name)
	log := slog.With("op", op, "key", key)

	data, err := json.Marshal(v)
	if err != nil {
		log.Error("failed to encode record", "err", err)
		return fmt.Errorf("%s: %w", op, err)
	}

	err = retry.Do(ctx, p.retry, func() error {
		return p.kv.Put(ctx, key, data)
	})
	if err != nil {
		log.Error("failed to save record", "err", err)
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func retryable(err error) bool {
	return !errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}
