package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/niksmo/custom-tee/internal/core/domain"
	"github.com/niksmo/custom-tee/internal/core/port"
)

var _ port.MessageSender = (*ContactDesk)(nil)

type messageLog interface {
	Append(context.Context, domain.ContactMessage)
}

// A ContactDesk accepts contact form messages. Sending is simulated:
// the message is held for the send delay, then logged and recorded.
type ContactDesk struct {
	messages  messageLog
	sendDelay time.Duration
	now       func() time.Time
}

func NewContactDesk(messages messageLog, sendDelay time.Duration) *ContactDesk {
	const op = "NewContactDesk"

	if messages == nil {
		panic(fmt.Errorf("%s: messages log is nil", op)) // develop mistake
	}
	return &ContactDesk{
		messages:  messages,
		sendDelay: sendDelay,
		now:       time.Now,
	}
}

// Send validates msg and records it once the send delay has passed.
// Nothing is recorded when ctx is done first.
func (d *ContactDesk) Send(
	ctx context.Context, msg domain.ContactMessage,
) (domain.ContactMessage, error) {
	const op = "ContactDesk.Send"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return domain.ContactMessage{}, fmt.Errorf("%s: %w", op, err)
	}

	addr, err := normalizeEmail(msg.Email)
	if err != nil {
		return domain.ContactMessage{}, fmt.Errorf("%s: %w", op, err)
	}
	msg.Email = addr
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Subject = strings.TrimSpace(msg.Subject)
	msg.Message = strings.TrimSpace(msg.Message)
	if msg.Name == "" || msg.Message == "" {
		return domain.ContactMessage{}, fmt.Errorf(
			"%s: %w", op, ErrIncompleteMessage,
		)
	}

	if d.sendDelay > 0 {
		timer := time.NewTimer(d.sendDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return domain.ContactMessage{}, fmt.Errorf("%s: %w", op, ctx.Err())
		case <-timer.C:
		}
	}

	msg.Date = d.now().UTC()
	d.messages.Append(ctx, msg)

	log.Info(
		"message is sent",
		"email", msg.Email,
		"subject", msg.Subject,
		"nChars", len(msg.Message),
	)
	return msg, nil
}
