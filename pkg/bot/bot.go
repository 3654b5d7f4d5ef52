package bot

import (
	"context"
	"log/slog"
	"time"

	"github.com/meower-media/reactions/pkg/emojis"
	"github.com/meower-media/reactions/pkg/reactions"
)

type Deps struct {
	Set       *emojis.Set
	Store     reactions.Store
	Transport Transport
	Emitter   Emitter // optional
	Logger    *slog.Logger
	Admins    []int64

	// AckTimeout bounds each tap acknowledgement, 10s when zero.
	AckTimeout time.Duration
}

// Bot wires the handlers to a Router.
type Bot struct {
	Router *Router
	Posts  *PostHandler
	Taps   *TapHandler
	Stats  *StatsQuery
}

func New(d Deps) *Bot {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.AckTimeout <= 0 {
		d.AckTimeout = defaultAckTimeout
	}

	admins := make(map[int64]struct{}, len(d.Admins))
	for _, id := range d.Admins {
		admins[id] = struct{}{}
	}

	b := &Bot{
		Router: NewRouter(d.Logger),
		Posts: &PostHandler{
			set:       d.Set,
			transport: d.Transport,
			emitter:   d.Emitter,
			logger:    d.Logger,
		},
		Taps: &TapHandler{
			set:        d.Set,
			engine:     reactions.NewEngine(d.Store),
			store:      d.Store,
			transport:  d.Transport,
			emitter:    d.Emitter,
			logger:     d.Logger,
			posts:      reactions.NewLocker[reactions.PostKey](),
			ackTimeout: d.AckTimeout,
		},
		Stats: &StatsQuery{
			admins:    admins,
			store:     d.Store,
			transport: d.Transport,
		},
	}

	b.Router.Handle(KindNewPost, func(ctx context.Context, ev Event) error {
		return b.Posts.Handle(ctx, ev.(NewPost))
	})
	b.Router.Handle(KindTap, func(ctx context.Context, ev Event) error {
		return b.Taps.Handle(ctx, ev.(Tap))
	})
	b.Router.Handle(KindAdminCommand, func(ctx context.Context, ev Event) error {
		return b.Stats.Handle(ctx, ev.(AdminCommand))
	})
	return b
}

// Dispatch routes ev to its handler.
func (b *Bot) Dispatch(ctx context.Context, ev Event) error {
	return b.Router.Dispatch(ctx, ev)
}

// Shutdown waits for background acknowledgements.
func (b *Bot) Shutdown() {
	b.Taps.Wait()
}
