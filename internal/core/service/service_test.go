package service

import (
	"context"
	"testing"

	"github.com/niksmo/custom-tee/internal/adapter/storage"
	"github.com/niksmo/custom-tee/internal/core/domain"
	"github.com/niksmo/custom-tee/internal/core/port"
	"github.com/niksmo/custom-tee/pkg/retry"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var _ port.Persister = (*MockPersister)(nil)

type MockPersister struct {
	mock.Mock
}

func (m *MockPersister) LoadInto(ctx context.Context, key string, v any) bool {
	args := m.Called(ctx, key, v)
	return args.Bool(0)
}

func (m *MockPersister) Save(ctx context.Context, key string, v any) error {
	args := m.Called(ctx, key, v)
	return args.Error(0)
}

type MockOrderPublisher struct {
	mock.Mock
}

func (m *MockOrderPublisher) PublishOrder(
	ctx context.Context, order domain.Order,
) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

type MockSubscriberEmitter struct {
	mock.Mock
}

func (m *MockSubscriberEmitter) EmitSubscriber(
	ctx context.Context, sub domain.Subscriber,
) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

// newPersister returns a persister over a fresh in-memory storage.
func newPersister(t *testing.T) (storage.Persister, *storage.MemoryStorage) {
	t.Helper()
	kv := storage.NewMemoryStorage()
	p, err := storage.NewPersister(
		kv, storage.RetryOpt(retry.RetryConfig{MaxAttempts: 1}),
	)
	require.NoError(t, err)
	return p, kv
}
