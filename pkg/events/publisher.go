package events

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Publisher sends events to other instances over Redis pub/sub.
type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

func (p *Publisher) publish(ctx context.Context, chatId int64, op uint8, v interface{}) error {
	// Marshal packet
	marshaledPacket, err := Marshal(op, v)
	if err != nil {
		return err
	}

	// Send packet
	return p.client.Publish(ctx, ChatChannel(chatId), marshaledPacket).Err()
}

func (p *Publisher) EmitPostReactionEvent(ctx context.Context, op uint8, ev *PostReaction) error {
	return p.publish(ctx, ev.ChatId, op, ev)
}

func (p *Publisher) EmitCreatePostEvent(ctx context.Context, ev *CreatePost) error {
	return p.publish(ctx, ev.ChatId, OpCreatePost, ev)
}
