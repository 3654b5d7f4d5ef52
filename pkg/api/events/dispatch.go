package events

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/meower-media/reactions/pkg/api/events/packets"
	"github.com/meower-media/reactions/pkg/events"
	"github.com/vmihailenco/msgpack/v5"
)

var (
	ErrBadChannel = errors.New("bad channel")
	ErrUnknownOp  = errors.New("unknown op code")
)

// Dispatch decodes one published packet and sends it to the chat's clients.
func (s *Server) Dispatch(channel string, payload []byte) error {
	// Parse channel
	chatId, err := strconv.ParseInt(strings.TrimPrefix(channel, "c"), 10, 64)
	if err != nil || !strings.HasPrefix(channel, "c") {
		return fmt.Errorf("%w: %q", ErrBadChannel, channel)
	}

	// Parse event
	op, body, err := events.Split(payload)
	if err != nil {
		return err
	}

	// Construct and send event
	if action, ok := events.ActionForOp(op); ok {
		var ev events.PostReaction
		if err := msgpack.Unmarshal(body, &ev); err != nil {
			return err
		}
		p, err := createPacket(s, "reaction_update", &packets.ReactionUpdate{
			ChatId:   strconv.FormatInt(ev.ChatId, 10),
			PostId:   strconv.FormatInt(ev.MessageId, 10),
			UserId:   strconv.FormatInt(ev.UserId, 10),
			Action:   action.String(),
			Emoji:    ev.Emoji,
			Previous: ev.Previous,
			Counts:   ev.Counts,
		})
		if err != nil {
			return err
		}
		s.broadcast(chatId, p)
		return nil
	}

	switch op {
	case events.OpCreatePost:
		var ev events.CreatePost
		if err := msgpack.Unmarshal(body, &ev); err != nil {
			return err
		}
		p, err := createPacket(s, "post_attached", &packets.PostAttached{
			ChatId: strconv.FormatInt(ev.ChatId, 10),
			PostId: strconv.FormatInt(ev.MessageId, 10),
			Kind:   ev.Kind,
		})
		if err != nil {
			return err
		}
		s.broadcast(chatId, p)
		return nil
	}

	return fmt.Errorf("%w: %d", ErrUnknownOp, op)
}
