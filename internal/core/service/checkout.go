package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/niksmo/custom-tee/internal/core/domain"
	"github.com/niksmo/custom-tee/internal/core/port"
)

var _ port.OrderPlacer = (*Checkout)(nil)

type checkoutCart interface {
	port.CartReader
	port.CartRemover
}

type orderLog interface {
	Append(context.Context, domain.Order)
}

// A Checkout turns the cart into an order.
//
// States: idle -> processing -> idle on success, processing -> failed when
// the payment is declined, failed -> processing on retry. Cancel and Close
// return it to idle and invalidate the attempt in flight, so a late
// completion never touches the cart or the order log.
type Checkout struct {
	cart      checkoutCart
	orders    orderLog
	gateway   port.PaymentGateway
	publisher port.OrderPublisher
	now       func() time.Time

	mu         sync.Mutex
	state      domain.CheckoutState
	generation uint64
	cancel     context.CancelFunc
	lastErr    error
	closed     bool
}

// NewCheckout returns an idle checkout. The publisher is optional.
func NewCheckout(
	cart checkoutCart,
	orders orderLog,
	gateway port.PaymentGateway,
	publisher port.OrderPublisher,
) *Checkout {
	const op = "NewCheckout"

	if cart == nil || orders == nil || gateway == nil {
		panic(fmt.Errorf("%s: nil dependency", op)) // develop mistake
	}

	return &Checkout{
		cart:      cart,
		orders:    orders,
		gateway:   gateway,
		publisher: publisher,
		now:       time.Now,
		state:     domain.CheckoutIdle,
	}
}

func (c *Checkout) State() domain.CheckoutState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastError returns the cause of the failed state.
func (c *Checkout) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Place charges the current cart. It blocks for the payment latency and
// can be interrupted through ctx or Cancel.
func (c *Checkout) Place(ctx context.Context) (domain.Order, error) {
	const op = "Checkout.Place"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	order, attemptCtx, gen, err := c.begin(ctx)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("processing order", "orderID", order.ID, "total", order.Total)

	chargeErr := c.gateway.Charge(attemptCtx, order)

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		log.Info("dropping stale checkout completion", "orderID", order.ID)
		return domain.Order{}, fmt.Errorf("%s: %w", op, ErrCheckoutCanceled)
	}
	c.cancel()
	c.cancel = nil

	if chargeErr != nil {
		if ctx.Err() != nil {
			c.state = domain.CheckoutIdle
			c.mu.Unlock()
			log.Info("checkout is canceled", "orderID", order.ID)
			return domain.Order{}, fmt.Errorf(
				"%s: %w: %w", op, ErrCheckoutCanceled, chargeErr,
			)
		}
		c.state = domain.CheckoutFailed
		c.lastErr = chargeErr
		c.mu.Unlock()
		log.Warn("payment failed", "orderID", order.ID, "err", chargeErr)
		return domain.Order{}, fmt.Errorf(
			"%s: %w: %w", op, ErrPaymentFailed, chargeErr,
		)
	}

	// The charge went through; persist even if the caller has gone.
	// Items added while the payment was pending stay in the cart.
	saveCtx := context.WithoutCancel(ctx)
	c.orders.Append(saveCtx, order)
	c.cart.RemoveItems(saveCtx, order.ItemIDs())
	c.state = domain.CheckoutIdle
	c.lastErr = nil
	c.mu.Unlock()

	log.Info("order is placed", "orderID", order.ID)

	if c.publisher != nil {
		if err := c.publisher.PublishOrder(saveCtx, order); err != nil {
			log.Error("failed to publish order", "orderID", order.ID, "err", err)
		}
	}
	return order, nil
}

// Retry places the order again after a failed payment.
func (c *Checkout) Retry(ctx context.Context) (domain.Order, error) {
	const op = "Checkout.Retry"

	if c.State() != domain.CheckoutFailed {
		return domain.Order{}, fmt.Errorf("%s: %w", op, ErrNothingToRetry)
	}
	order, err := c.Place(ctx)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	return order, nil
}

// Cancel abandons the attempt in flight, if any.
func (c *Checkout) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.abort()
}

// Close cancels the attempt in flight and rejects further ones.
func (c *Checkout) Close() {
	const op = "Checkout.Close"
	log := slog.With("op", op)

	log.Info("closing checkout...")
	c.mu.Lock()
	c.closed = true
	c.abort()
	c.mu.Unlock()
	log.Info("checkout is closed")
}

func (c *Checkout) begin(
	ctx context.Context,
) (domain.Order, context.Context, uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.closed:
		return domain.Order{}, nil, 0, ErrCheckoutClosed
	case c.state == domain.CheckoutProcessing:
		return domain.Order{}, nil, 0, ErrCheckoutInProgress
	}

	items, summary := c.cart.Snapshot()
	if len(items) == 0 {
		return domain.Order{}, nil, 0, ErrEmptyCart
	}

	now := c.now().UTC()
	order := domain.Order{
		ID:           domain.NewOrderID(now),
		Items:        items,
		OrderSummary: summary,
		Date:         now,
		Status:       domain.OrderProcessing,
	}

	attemptCtx, cancel := context.WithCancel(ctx)
	c.generation++
	c.cancel = cancel
	c.state = domain.CheckoutProcessing
	c.lastErr = nil
	return order, attemptCtx, c.generation, nil
}

func (c *Checkout) abort() {
	if c.state != domain.CheckoutProcessing {
		if c.state == domain.CheckoutFailed {
			c.state = domain.CheckoutIdle
			c.lastErr = nil
		}
		return
	}
	c.generation++
	c.cancel()
	c.cancel = nil
	c.state = domain.CheckoutIdle
}
