package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/niksmo/custom-tee/internal/core/domain"
	"github.com/niksmo/custom-tee/internal/core/port"
)

var _ port.Subscriber = (*Newsletter)(nil)

type subscriberLog interface {
	Append(context.Context, domain.Subscriber)
	Entries() []domain.Subscriber
}

type Newsletter struct {
	subscribers subscriberLog
	emitter     port.SubscriberEmitter
	now         func() time.Time

	mu sync.Mutex
}

// NewNewsletter returns a signup service. The emitter is optional.
func NewNewsletter(
	subscribers subscriberLog, emitter port.SubscriberEmitter,
) *Newsletter {
	const op = "NewNewsletter"

	if subscribers == nil {
		panic(fmt.Errorf("%s: subscribers log is nil", op)) // develop mistake
	}
	return &Newsletter{
		subscribers: subscribers,
		emitter:     emitter,
		now:         time.Now,
	}
}

// Subscribe records email. It reports false when the address is already
// subscribed.
func (n *Newsletter) Subscribe(
	ctx context.Context, email string,
) (domain.Subscriber, bool, error) {
	const op = "Newsletter.Subscribe"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return domain.Subscriber{}, false, fmt.Errorf("%s: %w", op, err)
	}

	addr, err := normalizeEmail(email)
	if err != nil {
		return domain.Subscriber{}, false, fmt.Errorf("%s: %w", op, err)
	}

	n.mu.Lock()
	entries := n.subscribers.Entries()
	i := slices.IndexFunc(entries, func(s domain.Subscriber) bool {
		return s.Email == addr
	})
	if i >= 0 {
		n.mu.Unlock()
		return entries[i], false, nil
	}
	sub := domain.Subscriber{Email: addr, Date: n.now().UTC()}
	n.subscribers.Append(ctx, sub)
	n.mu.Unlock()

	if n.emitter != nil {
		if err := n.emitter.EmitSubscriber(ctx, sub); err != nil {
			log.Error("failed to emit subscriber", "err", err)
		}
	}

	log.Info("subscribed")
	return sub, true, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%q: %w", email, ErrInvalidEmail)
	}
	return strings.ToLower(addr.Address), nil
}
