package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/meower-media/reactions/pkg/emojis"
	"github.com/meower-media/reactions/pkg/events"
	"github.com/meower-media/reactions/pkg/panel"
	"github.com/meower-media/reactions/pkg/reactions"
)

// PostHandler attaches an empty panel to every new channel post.
type PostHandler struct {
	set       *emojis.Set
	transport Transport
	emitter   Emitter
	logger    *slog.Logger
}

func (h *PostHandler) Handle(ctx context.Context, post NewPost) error {
	if !post.Content.Supported() {
		return nil
	}

	key := reactions.PostKey{ChatId: post.ChatId, MessageId: post.MessageId}
	if err := h.transport.AttachPanel(ctx, key, panel.Empty(h.set)); err != nil {
		return fmt.Errorf("%w: attach panel to %d/%d: %w", ErrDelivery, post.ChatId, post.MessageId, err)
	}
	h.logger.Info("reactions attached to post", "chat", post.ChatId, "message", post.MessageId, "content", post.Content)

	if h.emitter != nil {
		if err := h.emitter.EmitCreatePostEvent(ctx, &events.CreatePost{
			ChatId:    post.ChatId,
			MessageId: post.MessageId,
			Kind:      string(post.Content),
		}); err != nil {
			h.logger.Warn("emitting create post event failed", "error", err)
		}
	}
	return nil
}
