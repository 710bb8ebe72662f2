package service

import (
	"errors"
	"sync"
	"testing"

	"github.com/niksmo/custom-tee/internal/core/domain"
	"github.com/niksmo/custom-tee/internal/core/port"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func hoodie(quantity int) domain.CartItem {
	return domain.CartItem{
		ProductType: domain.Hoodie,
		Size:        domain.SizeL,
		Color:       domain.Black,
		TextColor:   domain.DefaultTextColor,
		Quantity:    quantity,
		Price:       domain.ResolvePrice(domain.Hoodie),
	}
}

func TestCartStore(t *testing.T) {
	t.Run("EmptyOnFirstLoad", func(t *testing.T) {
		p, _ := newPersister(t)
		s := NewCartStore(t.Context(), p)

		assert.True(t, s.Ready())
		assert.Empty(t, s.Items())
		assert.NotNil(t, s.Items())
		assert.Zero(t, s.Count())
		assert.True(t, s.Total().IsZero())
	})

	t.Run("AddAssignsUniqueIDs", func(t *testing.T) {
		p, _ := newPersister(t)
		s := NewCartStore(t.Context(), p)

		a := s.AddToCart(t.Context(), hoodie(1))
		b := s.AddToCart(t.Context(), hoodie(1))

		assert.NotEmpty(t, a.ID)
		assert.NotEqual(t, a.ID, b.ID)
		assert.Equal(t, []domain.CartItem{a, b}, s.Items())
	})

	t.Run("AddRegeneratesCollidingID", func(t *testing.T) {
		p, _ := newPersister(t)
		s := NewCartStore(t.Context(), p)
		ids := []string{"x", "x", "y"}
		s.newID = func() string {
			id := ids[0]
			ids = ids[1:]
			return id
		}

		a := s.AddToCart(t.Context(), hoodie(1))
		b := s.AddToCart(t.Context(), hoodie(1))
		assert.Equal(t, "x", a.ID)
		assert.Equal(t, "y", b.ID)
	})

	t.Run("TwoHoodies", func(t *testing.T) {
		p, _ := newPersister(t)
		s := NewCartStore(t.Context(), p)

		s.AddToCart(t.Context(), hoodie(2))

		assert.Equal(t, 2, s.Count())
		assert.Equal(t, "99.98", s.Total().StringFixed(2))
		assert.Equal(t, "113.97", s.Summary().Total.StringFixed(2))
	})

	t.Run("UpdateOnlyQuantity", func(t *testing.T) {
		p, _ := newPersister(t)
		s := NewCartStore(t.Context(), p)
		item := s.AddToCart(t.Context(), hoodie(1))

		q := 3
		s.UpdateCartItem(t.Context(), item.ID, domain.CartItemPatch{Quantity: &q})

		want := item
		want.Quantity = 3
		assert.Equal(t, []domain.CartItem{want}, s.Items())
		assert.Equal(t, "149.97", s.Total().StringFixed(2))
	})

	t.Run("UpdateUnknownIDIsNoop", func(t *testing.T) {
		p, _ := newPersister(t)
		s := NewCartStore(t.Context(), p)
		item := s.AddToCart(t.Context(), hoodie(1))

		q := 5
		s.UpdateCartItem(t.Context(), "missing", domain.CartItemPatch{Quantity: &q})
		s.RemoveFromCart(t.Context(), "missing")

		assert.Equal(t, []domain.CartItem{item}, s.Items())
	})

	t.Run("Remove", func(t *testing.T) {
		p, _ := newPersister(t)
		s := NewCartStore(t.Context(), p)
		a := s.AddToCart(t.Context(), hoodie(1))
		b := s.AddToCart(t.Context(), hoodie(2))

		s.RemoveFromCart(t.Context(), a.ID)

		assert.Equal(t, []domain.CartItem{b}, s.Items())
		assert.Equal(t, 2, s.Count())
	})

	t.Run("RemoveItems", func(t *testing.T) {
		p, _ := newPersister(t)
		s := NewCartStore(t.Context(), p)
		a := s.AddToCart(t.Context(), hoodie(1))
		b := s.AddToCart(t.Context(), hoodie(2))
		c := s.AddToCart(t.Context(), hoodie(3))

		s.RemoveItems(t.Context(), []string{a.ID, c.ID, "unknown"})

		assert.Equal(t, []domain.CartItem{b}, s.Items())
		assert.Equal(t, []domain.CartItem{b}, NewCartStore(t.Context(), p).Items())
	})

	t.Run("RemoveUnknownItemsDoesNotSave", func(t *testing.T) {
		p := &MockPersister{}
		p.On("LoadInto", mock.Anything, port.CartRecord, mock.Anything).Return(false)
		s := NewCartStore(t.Context(), p)

		s.RemoveItems(t.Context(), []string{"unknown"})

		p.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("SnapshotIsConsistent", func(t *testing.T) {
		p, _ := newPersister(t)
		s := NewCartStore(t.Context(), p)

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				s.AddToCart(t.Context(), hoodie(1))
			}
		}()

		for range 50 {
			items, summary := s.Snapshot()
			subtotal := decimal.Zero
			for _, item := range items {
				subtotal = subtotal.Add(item.LineTotal())
			}
			require.True(t, subtotal.Equal(summary.Subtotal),
				"items %s, summary %s", subtotal, summary.Subtotal)
		}
		wg.Wait()

		items, summary := s.Snapshot()
		assert.Len(t, items, 50)
		assert.Equal(t, "2499.50", summary.Subtotal.StringFixed(2))
	})

	t.Run("Clear", func(t *testing.T) {
		p, _ := newPersister(t)
		s := NewCartStore(t.Context(), p)
		s.AddToCart(t.Context(), hoodie(1))

		s.ClearCart(t.Context())

		assert.Empty(t, s.Items())
		assert.True(t, s.Total().IsZero())
		assert.True(t, s.Summary().Total.IsZero())
	})

	t.Run("ItemsIsACopy", func(t *testing.T) {
		p, _ := newPersister(t)
		s := NewCartStore(t.Context(), p)
		s.AddToCart(t.Context(), hoodie(1))

		items := s.Items()
		items[0].Quantity = 9

		assert.Equal(t, 1, s.Items()[0].Quantity)
	})

	t.Run("RoundTripThroughStorage", func(t *testing.T) {
		p, _ := newPersister(t)
		s := NewCartStore(t.Context(), p)
		a := s.AddToCart(t.Context(), hoodie(2))
		capItem := domain.CartItem{
			ProductType: domain.Cap,
			Size:        domain.SizeM,
			Color:       domain.Red,
			DesignImage: domain.SampleDesignImage,
			CustomText:  "hello\nworld",
			TextColor:   "#ff0000",
			Quantity:    1,
			Price:       domain.ResolvePrice(domain.Cap),
		}
		b := s.AddToCart(t.Context(), capItem)

		reloaded := NewCartStore(t.Context(), p)

		items := reloaded.Items()
		require.Len(t, items, 2)
		assert.Equal(t, a.ID, items[0].ID)
		assert.Equal(t, b.ID, items[1].ID)
		assert.Equal(t, b.DesignImage, items[1].DesignImage)
		assert.Equal(t, b.CustomText, items[1].CustomText)
		assert.True(t, s.Total().Equal(reloaded.Total()))
		assert.Equal(t, s.Count(), reloaded.Count())
	})

	t.Run("PricesArePersistedAsNumbers", func(t *testing.T) {
		p, kv := newPersister(t)
		s := NewCartStore(t.Context(), p)
		s.AddToCart(t.Context(), hoodie(2))

		data, err := kv.Get(t.Context(), p.Key(port.CartRecord))
		require.NoError(t, err)
		assert.Contains(t, string(data), `"price":49.99`)
		assert.Contains(t, string(data), `"quantity":2`)
		assert.NotContains(t, string(data), `"price":"`)
	})

	t.Run("MalformedRecordFallsBackToEmpty", func(t *testing.T) {
		p, kv := newPersister(t)
		err := kv.Put(t.Context(), p.Key(port.CartRecord), []byte("{not json"))
		require.NoError(t, err)

		s := NewCartStore(t.Context(), p)
		assert.True(t, s.Ready())
		assert.Empty(t, s.Items())

		s.AddToCart(t.Context(), hoodie(1))
		assert.Equal(t, 1, NewCartStore(t.Context(), p).Count())
	})

	t.Run("SaveFailureKeepsMemoryState", func(t *testing.T) {
		p := &MockPersister{}
		p.On("LoadInto", mock.Anything, port.CartRecord, mock.Anything).
			Return(false).Once()
		p.On("Save", mock.Anything, port.CartRecord, mock.Anything).
			Return(errors.New("disk full")).Once()
		p.On("Save", mock.Anything, port.CartRecord, mock.Anything).
			Return(nil).Once()

		s := NewCartStore(t.Context(), p)
		s.AddToCart(t.Context(), hoodie(1))

		assert.Equal(t, 1, s.Count())
		assert.True(t, s.Unsaved())

		s.AddToCart(t.Context(), hoodie(1))
		assert.Equal(t, 2, s.Count())
		assert.False(t, s.Unsaved())
		p.AssertExpectations(t)
	})

	t.Run("WritesThroughInOrder", func(t *testing.T) {
		p := &MockPersister{}
		p.On("LoadInto", mock.Anything, port.CartRecord, mock.Anything).
			Return(false)

		var saved [][]domain.CartItem
		p.On("Save", mock.Anything, port.CartRecord, mock.Anything).
			Run(func(args mock.Arguments) {
				items := args.Get(2).([]domain.CartItem)
				saved = append(saved, append([]domain.CartItem(nil), items...))
			}).
			Return(nil)

		s := NewCartStore(t.Context(), p)
		a := s.AddToCart(t.Context(), hoodie(1))
		s.RemoveFromCart(t.Context(), a.ID)

		require.Len(t, saved, 2)
		assert.Len(t, saved[0], 1)
		assert.Empty(t, saved[1])
	})
}
