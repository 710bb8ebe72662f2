package payment_test

import (
	"context"
	"testing"
	"time"

	"github.com/niksmo/custom-tee/internal/adapter/payment"
	"github.com/niksmo/custom-tee/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulated(t *testing.T) {
	order := domain.Order{ID: "ORD-1"}

	t.Run("Approves", func(t *testing.T) {
		g := payment.NewSimulated(time.Millisecond, 0)
		for range 3 {
			require.NoError(t, g.Charge(t.Context(), order))
		}
	})

	t.Run("DeclinesEveryN", func(t *testing.T) {
		g := payment.NewSimulated(0, 2)
		require.NoError(t, g.Charge(t.Context(), order))
		assert.ErrorIs(t, g.Charge(t.Context(), order), payment.ErrDeclined)
		require.NoError(t, g.Charge(t.Context(), order))
	})

	t.Run("Canceled", func(t *testing.T) {
		g := payment.NewSimulated(time.Hour, 0)
		ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
		defer cancel()
		err := g.Charge(ctx, order)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
