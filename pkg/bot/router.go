package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/getsentry/sentry-go"
)

type HandlerFunc func(ctx context.Context, ev Event) error

// Router maps event kinds to handlers. Dispatch is safe for concurrent use;
// one failing or panicking handler never affects other events.
type Router struct {
	mu       sync.RWMutex
	handlers map[Kind]HandlerFunc
	logger   *slog.Logger
}

func NewRouter(logger *slog.Logger) *Router {
	return &Router{
		handlers: make(map[Kind]HandlerFunc),
		logger:   logger,
	}
}

func (r *Router) Handle(kind Kind, fn HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[kind] = fn
}

func (r *Router) Dispatch(ctx context.Context, ev Event) (err error) {
	r.mu.RLock()
	fn, ok := r.handlers[ev.Kind()]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoHandler, ev.Kind())
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, rec)
		}
		if err != nil {
			r.report(ev, err)
		}
	}()
	return fn(ctx, ev)
}

func (r *Router) report(ev Event, err error) {
	if !reportable(err) {
		r.logger.Debug("event rejected", "kind", ev.Kind(), "error", err)
		return
	}
	r.logger.Error("event failed", "kind", ev.Kind(), "error", err)
	sentry.CaptureException(err)
}
