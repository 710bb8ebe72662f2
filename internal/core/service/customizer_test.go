package service

import (
	"context"
	"testing"
	"time"

	"github.com/niksmo/custom-tee/internal/core/domain"
	"github.com/niksmo/custom-tee/internal/core/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticPreferences domain.Preferences

func (p staticPreferences) Preferences() domain.Preferences {
	return domain.Preferences(p)
}

func TestCustomizationSession(t *testing.T) {
	setup := func(t *testing.T, opts ...SessionOpt) (
		*CustomizationSession, *CartStore, *Log[domain.SavedCustomization],
	) {
		t.Helper()
		p, _ := newPersister(t)
		cart := NewCartStore(t.Context(), p)
		history := NewLog[domain.SavedCustomization](
			t.Context(), p, port.SavedCustomizationsRecord, 50,
		)
		opts = append([]SessionOpt{SessionHistoryOpt(history)}, opts...)
		return NewCustomizationSession(cart, opts...), cart, history
	}

	t.Run("Defaults", func(t *testing.T) {
		s, _, _ := setup(t)

		assert.Equal(t, domain.DefaultCustomization(), s.Snapshot())
		assert.Equal(t, "24.99", s.Price().StringFixed(2))
	})

	t.Run("ThemeFromPreferences", func(t *testing.T) {
		s, _, _ := setup(t, SessionPreferencesOpt(staticPreferences{ThemeVariant: 5}))
		assert.Equal(t, 2, s.Snapshot().ThemeVariant)
	})

	t.Run("PriceFollowsProductType", func(t *testing.T) {
		s, _, _ := setup(t)

		pt := domain.Hoodie
		s.Update(domain.CustomizationPatch{ProductType: &pt})
		assert.Equal(t, "49.99", s.Price().StringFixed(2))
	})

	t.Run("CommitKeepsSession", func(t *testing.T) {
		s, cart, history := setup(t)

		pt, size, qty, text := domain.Hoodie, domain.SizeXL, 2, "tee"
		s.Update(domain.CustomizationPatch{
			ProductType: &pt, Size: &size, Quantity: &qty, CustomText: &text,
		})
		before := s.Snapshot()

		item, err := s.Commit(t.Context())
		require.NoError(t, err)

		assert.Equal(t, before, s.Snapshot())
		assert.Equal(t, []domain.CartItem{item}, cart.Items())
		assert.Equal(t, domain.Hoodie, item.ProductType)
		assert.Equal(t, domain.SizeXL, item.Size)
		assert.Equal(t, 2, item.Quantity)
		assert.Equal(t, "99.98", cart.Total().StringFixed(2))

		saved := history.Entries()
		require.Len(t, saved, 1)
		assert.Equal(t, item.ID, saved[0].ID)
		assert.Equal(t, before, saved[0].Customization)
		assert.False(t, saved[0].Timestamp.IsZero())
	})

	t.Run("CommitTwiceAddsTwoItems", func(t *testing.T) {
		s, cart, _ := setup(t)

		a, err := s.Commit(t.Context())
		require.NoError(t, err)
		b, err := s.Commit(t.Context())
		require.NoError(t, err)

		assert.NotEqual(t, a.ID, b.ID)
		assert.Equal(t, 2, cart.Count())
	})

	t.Run("CommitCanceledDuringDelay", func(t *testing.T) {
		s, cart, history := setup(t, SessionAddDelayOpt(time.Hour))

		ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
		defer cancel()

		_, err := s.Commit(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Empty(t, cart.Items())
		assert.Zero(t, history.Len())
	})

	t.Run("Reset", func(t *testing.T) {
		s, _, _ := setup(t)

		c := domain.Red
		s.Update(domain.CustomizationPatch{Color: &c})
		assert.Equal(t, domain.DefaultCustomization(), s.Reset())
	})
}
