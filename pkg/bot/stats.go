package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/meower-media/reactions/pkg/reactions"
)

// StatsQuery answers "/stats <message_id>" for configured admins.
type StatsQuery struct {
	admins    map[int64]struct{}
	store     reactions.Store
	transport Transport
}

func (q *StatsQuery) IsAdmin(userId int64) bool {
	_, ok := q.admins[userId]
	return ok
}

// ParseStatsCommand extracts the message id from "/stats <message_id>".
func ParseStatsCommand(text string) (int64, error) {
	args := strings.Fields(text)
	if len(args) < 2 {
		return 0, fmt.Errorf("%w: missing message id", ErrValidation)
	}
	messageId, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: message id %q", ErrValidation, args[1])
	}
	return messageId, nil
}

// Query returns who reacted with what on messageId, in the order the
// reactions were first made.
func (q *StatsQuery) Query(ctx context.Context, userId int64, messageId int64) ([]reactions.Entry, error) {
	if !q.IsAdmin(userId) {
		return nil, ErrUnauthorized
	}
	return q.store.ListReactions(ctx, messageId)
}

func (q *StatsQuery) Handle(ctx context.Context, cmd AdminCommand) error {
	if !q.IsAdmin(cmd.UserId) {
		return q.reply(ctx, cmd.UserId, MsgStatsForbidden, ErrUnauthorized)
	}

	messageId, err := ParseStatsCommand(cmd.Text)
	if err != nil {
		return q.reply(ctx, cmd.UserId, MsgStatsUsage, err)
	}

	entries, err := q.Query(ctx, cmd.UserId, messageId)
	if err != nil {
		return q.reply(ctx, cmd.UserId, MsgStatsFailed, err)
	}
	if len(entries) == 0 {
		return q.reply(ctx, cmd.UserId, MsgStatsEmpty, nil)
	}
	return q.reply(ctx, cmd.UserId, FormatStats(entries), nil)
}

// reply sends text and returns cause, or the delivery failure if there is
// no cause.
func (q *StatsQuery) reply(ctx context.Context, userId int64, text string, cause error) error {
	if err := q.transport.SendText(ctx, userId, text); err != nil && cause == nil {
		return fmt.Errorf("%w: send stats to %d: %w", ErrDelivery, userId, err)
	}
	return cause
}
