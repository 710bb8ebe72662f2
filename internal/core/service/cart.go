package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/niksmo/custom-tee/internal/core/domain"
	"github.com/niksmo/custom-tee/internal/core/port"
	"github.com/shopspring/decimal"
)

var _ port.Cart = (*CartStore)(nil)

// A CartStore owns the cart line items. Every mutation is written through
// to the persister before it returns.
type CartStore struct {
	persister port.Persister
	newID     func() string

	mu      sync.Mutex
	items   []domain.CartItem
	ready   bool
	unsaved bool
}

func NewCartStore(ctx context.Context, persister port.Persister) *CartStore {
	const op = "NewCartStore"

	if persister == nil {
		panic(fmt.Errorf("%s: persister is nil", op)) // develop mistake
	}

	s := &CartStore{
		persister: persister,
		newID:     uuid.NewString,
	}

	items := load(ctx, persister, port.CartRecord, []domain.CartItem{})
	if items == nil {
		items = []domain.CartItem{}
	}
	s.items = items
	s.ready = true

	slog.Debug("cart is loaded", "op", op, "nItems", len(items))
	return s
}

// AddToCart stores item under a fresh id and returns the stored copy.
func (s *CartStore) AddToCart(
	ctx context.Context, item domain.CartItem,
) domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	item.ID = s.newID()
	for s.indexOf(item.ID) >= 0 {
		item.ID = s.newID()
	}
	s.items = append(s.items, item)
	s.save(ctx)
	return item
}

// UpdateCartItem merges patch into the item with the given id.
// Unknown ids are ignored.
func (s *CartStore) UpdateCartItem(
	ctx context.Context, id string, patch domain.CartItemPatch,
) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return
	}
	s.items[i] = patch.Apply(s.items[i])
	s.save(ctx)
}

// RemoveFromCart deletes the item with the given id if present.
func (s *CartStore) RemoveFromCart(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return
	}
	s.items = slices.Delete(s.items, i, i+1)
	s.save(ctx)
}

// RemoveItems deletes the items with the given ids in one write.
// Unknown ids are ignored.
func (s *CartStore) RemoveItems(ctx context.Context, ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.items)
	s.items = slices.DeleteFunc(s.items, func(item domain.CartItem) bool {
		return slices.Contains(ids, item.ID)
	})
	if len(s.items) == n {
		return
	}
	s.save(ctx)
}

func (s *CartStore) ClearCart(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = []domain.CartItem{}
	s.save(ctx)
}

// Items returns a copy of the line items in insertion order.
func (s *CartStore) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// Total is the sum of price * quantity over the current items.
func (s *CartStore) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total()
}

// Count is the number of units in the cart.
func (s *CartStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	for _, item := range s.items {
		n += item.Quantity
	}
	return n
}

func (s *CartStore) Summary() domain.OrderSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Summarize(s.total())
}

func (s *CartStore) Snapshot() ([]domain.CartItem, domain.OrderSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items), domain.Summarize(s.total())
}

func (s *CartStore) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// Unsaved reports whether the last write-through failed.
func (s *CartStore) Unsaved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unsaved
}

func (s *CartStore) total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.LineTotal())
	}
	return total
}

func (s *CartStore) indexOf(id string) int {
	return slices.IndexFunc(s.items, func(item domain.CartItem) bool {
		return item.ID == id
	})
}

func (s *CartStore) save(ctx context.Context) {
	const op = "CartStore.save"

	err := s.persister.Save(ctx, port.CartRecord, s.items)
	s.unsaved = err != nil
	if err != nil {
		slog.Warn("cart changes may not be saved", "op", op, "err", err)
	}
}
