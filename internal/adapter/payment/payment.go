package payment

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/niksmo/custom-tee/internal/core/domain"
	"github.com/niksmo/custom-tee/internal/core/port"
)

var _ port.PaymentGateway = (*Simulated)(nil)

var ErrDeclined = errors.New("payment declined")

// A Simulated gateway approves every charge after a fixed latency.
// When failEvery is positive every failEvery-th charge is declined.
type Simulated struct {
	latency   time.Duration
	failEvery int64
	calls     atomic.Int64
}

func NewSimulated(latency time.Duration, failEvery int) *Simulated {
	return &Simulated{latency: latency, failEvery: int64(failEvery)}
}

func (g *Simulated) Charge(ctx context.Context, order domain.Order) error {
	const op = "Simulated.Charge"

	timer := time.NewTimer(g.latency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	case <-timer.C:
	}

	n := g.calls.Add(1)
	if g.failEvery > 0 && n%g.failEvery == 0 {
		return fmt.Errorf("%s: order %s: %w", op, order.ID, ErrDeclined)
	}
	return nil
}
