package shutdown

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func WithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(ch)
		select {
		case <-ctx.Done():
			return
		case <-ch:
			cancel()
		}
	}()

	return ctx, cancel
}

// Graceful runs every stop func in order under a shared deadline and joins
// their errors. Stop funcs that outlive the deadline see a cancelled context.
func Graceful(timeout time.Duration, stops ...func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var err error
	for _, stop := range stops {
		if stop == nil {
			continue
		}
		err = errors.Join(err, stop(ctx))
	}
	return err
}

// Stack collects release funcs as resources are acquired and runs them in
// reverse order.
type Stack struct {
	funcs []func(context.Context) error
}

func (s *Stack) Push(fn func(context.Context) error) {
	if fn != nil {
		s.funcs = append(s.funcs, fn)
	}
}

// Release runs every pushed func, last first, and joins their errors. The
// stack is empty afterwards, so a second call does nothing.
func (s *Stack) Release(ctx context.Context) error {
	var err error
	for i := len(s.funcs) - 1; i >= 0; i-- {
		err = errors.Join(err, s.funcs[i](ctx))
	}
	s.funcs = nil
	return err
}
