package bot

import (
	"context"

	"github.com/meower-media/reactions/pkg/events"
	"github.com/meower-media/reactions/pkg/panel"
	"github.com/meower-media/reactions/pkg/reactions"
)

// Transport is the chat platform the bot talks back to.
type Transport interface {
	// AttachPanel sets a post's buttons for the first time.
	AttachPanel(ctx context.Context, post reactions.PostKey, p panel.Panel) error
	// ReplacePanel overwrites a post's buttons.
	ReplacePanel(ctx context.Context, post reactions.PostKey, p panel.Panel) error
	// AcknowledgeTap shows transient feedback to the user who tapped.
	AcknowledgeTap(ctx context.Context, tapId string, text string) error
	// SendText sends an HTML formatted message to a user.
	SendText(ctx context.Context, userId int64, text string) error
}

// Emitter publishes bot activity to other services. It may be nil.
type Emitter interface {
	EmitPostReactionEvent(ctx context.Context, op uint8, ev *events.PostReaction) error
	EmitCreatePostEvent(ctx context.Context, ev *events.CreatePost) error
}
