package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/meower-media/reactions/pkg/emojis"
	"github.com/meower-media/reactions/pkg/events"
	"github.com/meower-media/reactions/pkg/panel"
	"github.com/meower-media/reactions/pkg/reactions"
)

const defaultAckTimeout = 10 * time.Second

// TapHandler applies panel taps and repaints the tapped post.
type TapHandler struct {
	set       *emojis.Set
	engine    *reactions.Engine
	store     reactions.Store
	transport Transport
	emitter   Emitter
	logger    *slog.Logger

	// Repaints of one post are issued one at a time, each with counts read
	// after the tap that triggered it committed.
	posts *reactions.Locker[reactions.PostKey]

	ackTimeout time.Duration
	acks       sync.WaitGroup
}

func (h *TapHandler) Handle(ctx context.Context, tap Tap) error {
	// Validate token
	target, err := h.set.ParseToken(tap.Token)
	if err != nil {
		h.acknowledge(ctx, tap.Id, MsgUnsupported)
		return fmt.Errorf("%w: token %q: %w", ErrValidation, tap.Token, err)
	}

	// Apply tap
	key := reactions.Key{ChatId: tap.ChatId, MessageId: tap.MessageId, UserId: tap.UserId}
	out, err := h.engine.Tap(ctx, key, tap.UserName, target)
	if err != nil {
		h.acknowledge(ctx, tap.Id, MsgTapFailed)
		return err
	}
	h.acknowledge(ctx, tap.Id, AckText(out))

	// Repaint
	counts, err := h.repaint(ctx, key.Post())
	if err != nil {
		return err
	}

	// Emit event
	if h.emitter != nil {
		if err := h.emitter.EmitPostReactionEvent(ctx, events.OpForAction(out.Action), &events.PostReaction{
			ChatId:    tap.ChatId,
			MessageId: tap.MessageId,
			UserId:    tap.UserId,
			Emoji:     out.Emoji.String(),
			Previous:  out.Previous.String(),
			Counts:    CountsByGlyph(counts),
		}); err != nil {
			h.logger.Warn("emitting reaction event failed", "error", err)
		}
	}
	return nil
}

func (h *TapHandler) repaint(ctx context.Context, post reactions.PostKey) (reactions.Counts, error) {
	unlock := h.posts.Lock(post)
	defer unlock()

	counts, err := h.store.CountsByEmoji(ctx, post)
	if err != nil {
		return nil, err
	}
	if err := h.transport.ReplacePanel(ctx, post, panel.Render(counts, h.set)); err != nil {
		return counts, fmt.Errorf("%w: repaint %d/%d: %w", ErrDelivery, post.ChatId, post.MessageId, err)
	}
	return counts, nil
}

// acknowledge answers the tap in the background. A failed answer is only
// logged, the tap itself stays applied.
func (h *TapHandler) acknowledge(ctx context.Context, tapId string, text string) {
	h.acks.Add(1)
	go func() {
		defer h.acks.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.ackTimeout)
		defer cancel()
		if err := h.transport.AcknowledgeTap(ctx, tapId, text); err != nil {
			err = fmt.Errorf("%w: acknowledge tap %s: %w", ErrDelivery, tapId, err)
			h.logger.Warn("acknowledging tap failed", "error", err)
			sentry.CaptureException(err)
		}
	}()
}

// Wait blocks until every pending acknowledgement finished.
func (h *TapHandler) Wait() {
	h.acks.Wait()
}

// CountsByGlyph converts counts to plain strings for the wire.
func CountsByGlyph(counts reactions.Counts) map[string]int {
	out := make(map[string]int, len(counts))
	for e, n := range counts {
		out[e.String()] = n
	}
	return out
}
