package sigctx

import (
	"context"
	"os/signal"
	"syscall"
)

// NotifyContext is done on the first SIGINT, SIGTERM or SIGQUIT. A nil
// parent means [context.Background].
func NotifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
}
