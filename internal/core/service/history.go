package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/niksmo/custom-tee/internal/core/port"
)

var _ port.History[struct{}] = (*Log[struct{}])(nil)

// A Log is a persisted append-only record list. When capacity is positive
// the oldest entries are evicted beyond it.
type Log[T any] struct {
	persister port.Persister
	record    string
	capacity  int

	mu      sync.Mutex
	entries []T
}

func NewLog[T any](
	ctx context.Context, persister port.Persister, record string, capacity int,
) *Log[T] {
	const op = "NewLog"

	if persister == nil {
		panic(fmt.Errorf("%s: persister is nil", op)) // develop mistake
	}

	l := &Log[T]{
		persister: persister,
		record:    record,
		capacity:  capacity,
		entries:   load(ctx, persister, record, []T{}),
	}
	l.evict()
	return l
}

func (l *Log[T]) Append(ctx context.Context, v T) {
	const op = "Log.Append"

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, v)
	l.evict()

	err := l.persister.Save(ctx, l.record, l.entries)
	if err != nil {
		slog.Warn(
			"log entry may not be saved", "op", op, "record", l.record, "err", err,
		)
	}
}

// Entries returns a copy of the log, oldest first.
func (l *Log[T]) Entries() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.entries)
}

func (l *Log[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *Log[T]) evict() {
	if l.entries == nil {
		l.entries = []T{}
	}
	if l.capacity > 0 && len(l.entries) > l.capacity {
		l.entries = slices.Clone(l.entries[len(l.entries)-l.capacity:])
	}
}
