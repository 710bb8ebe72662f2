package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/niksmo/custom-tee/internal/core/domain"
	"github.com/niksmo/custom-tee/internal/core/port"
	"github.com/shopspring/decimal"
)

var _ port.Customizer = (*CustomizationSession)(nil)

type customizationRecorder interface {
	Append(context.Context, domain.SavedCustomization)
}

type SessionOpt func(*sessionOpts)

type sessionOpts struct {
	prefs    port.PreferencesReader
	history  customizationRecorder
	addDelay time.Duration
}

// SessionPreferencesOpt starts the session with the stored theme variant.
func SessionPreferencesOpt(prefs port.PreferencesReader) SessionOpt {
	return func(opts *sessionOpts) {
		opts.prefs = prefs
	}
}

// SessionHistoryOpt records every committed configuration.
func SessionHistoryOpt(history customizationRecorder) SessionOpt {
	return func(opts *sessionOpts) {
		opts.history = history
	}
}

// SessionAddDelayOpt holds every commit for d before it reaches the cart.
func SessionAddDelayOpt(d time.Duration) SessionOpt {
	return func(opts *sessionOpts) {
		opts.addDelay = d
	}
}

// A CustomizationSession holds the configuration of one product until it
// is committed to the cart.
type CustomizationSession struct {
	cart     port.CartAdder
	prefs    port.PreferencesReader
	history  customizationRecorder
	addDelay time.Duration
	now      func() time.Time

	mu      sync.Mutex
	options domain.Customization
}

func NewCustomizationSession(
	cart port.CartAdder, opts ...SessionOpt,
) *CustomizationSession {
	const op = "NewCustomizationSession"

	if cart == nil {
		panic(fmt.Errorf("%s: cart is nil", op)) // develop mistake
	}

	var options sessionOpts
	for _, opt := range opts {
		opt(&options)
	}

	s := &CustomizationSession{
		cart:     cart,
		prefs:    options.prefs,
		history:  options.history,
		addDelay: options.addDelay,
		now:      time.Now,
	}
	s.options = s.defaults()
	return s
}

func (s *CustomizationSession) Snapshot() domain.Customization {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.options
}

// Price is the unit price of the configured product type.
func (s *CustomizationSession) Price() decimal.Decimal {
	return domain.ResolvePrice(s.Snapshot().ProductType)
}

func (s *CustomizationSession) Update(
	patch domain.CustomizationPatch,
) domain.Customization {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.options = patch.Apply(s.options)
	return s.options
}

func (s *CustomizationSession) Reset() domain.Customization {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.options = s.defaults()
	return s.options
}

// Commit adds the current configuration to the cart. The session keeps
// its selections.
func (s *CustomizationSession) Commit(
	ctx context.Context,
) (domain.CartItem, error) {
	const op = "CustomizationSession.Commit"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return domain.CartItem{}, fmt.Errorf("%s: %w", op, err)
	}

	snapshot := s.Snapshot()

	if s.addDelay > 0 {
		timer := time.NewTimer(s.addDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return domain.CartItem{}, fmt.Errorf("%s: %w", op, ctx.Err())
		case <-timer.C:
		}
	}

	item := s.cart.AddToCart(ctx, snapshot.CartItem())

	if s.history != nil {
		s.history.Append(ctx, domain.SavedCustomization{
			ID:            item.ID,
			Customization: snapshot,
			Timestamp:     s.now().UTC(),
		})
	}

	log.Info(
		"added to cart",
		"productType", item.ProductType,
		"size", item.Size,
		"color", item.Color,
		"quantity", item.Quantity,
	)
	return item, nil
}

func (s *CustomizationSession) defaults() domain.Customization {
	c := domain.DefaultCustomization()
	if s.prefs != nil {
		c.ThemeVariant = domain.WrapThemeVariant(s.prefs.Preferences().ThemeVariant)
	}
	return c
}
