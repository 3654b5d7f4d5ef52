package bot

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouterRecoversPanics(t *testing.T) {
	r := NewRouter(slog.New(slog.NewTextHandler(io.Discard, nil)))
	r.Handle(KindTap, func(context.Context, Event) error {
		panic("boom")
	})

	err := r.Dispatch(context.Background(), Tap{})
	assert.ErrorIs(t, err, ErrPanic)
}

func TestRouterNoHandler(t *testing.T) {
	r := NewRouter(slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := r.Dispatch(context.Background(), NewPost{})
	assert.ErrorIs(t, err, ErrNoHandler)
}

func TestRouterDispatchesByKind(t *testing.T) {
	r := NewRouter(slog.New(slog.NewTextHandler(io.Discard, nil)))
	var got []Kind
	for _, k := range []Kind{KindNewPost, KindTap, KindAdminCommand} {
		r.Handle(k, func(_ context.Context, ev Event) error {
			got = append(got, ev.Kind())
			return nil
		})
	}

	require.NoError(t, r.Dispatch(context.Background(), AdminCommand{}))
	require.NoError(t, r.Dispatch(context.Background(), NewPost{}))
	assert.Equal(t, []Kind{KindAdminCommand, KindNewPost}, got)
	assert.Equal(t, "tap", KindTap.String())
}
