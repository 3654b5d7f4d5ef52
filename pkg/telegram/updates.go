package telegram

import (
	"context"
	"strings"

	"github.com/meower-media/reactions/pkg/bot"
	tele "gopkg.in/telebot.v3"
)

// Dispatcher receives the events translated from updates.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev bot.Event) error
}

// Register routes channel posts, panel taps and the stats command into d.
// Handlers never return errors to telebot, the dispatcher reports them.
func Register(tb *tele.Bot, d Dispatcher) {
	tb.Handle(tele.OnChannelPost, func(c tele.Context) error {
		if ev, ok := NewPostFromMessage(c.Message()); ok {
			_ = d.Dispatch(context.Background(), ev)
		}
		return nil
	})

	tb.Handle(tele.OnCallback, func(c tele.Context) error {
		if ev, ok := TapFromCallback(c.Callback()); ok {
			_ = d.Dispatch(context.Background(), ev)
		}
		return nil
	})

	tb.Handle(StatsCommand, func(c tele.Context) error {
		if ev, ok := AdminCommandFromMessage(c.Message()); ok {
			_ = d.Dispatch(context.Background(), ev)
		}
		return nil
	})
}

func ContentKindOf(m *tele.Message) bot.ContentKind {
	switch {
	case m.Photo != nil:
		return bot.ContentPhoto
	case m.Video != nil:
		return bot.ContentVideo
	case m.Document != nil:
		return bot.ContentDocument
	case m.Text != "":
		return bot.ContentText
	}
	return bot.ContentOther
}

func NewPostFromMessage(m *tele.Message) (bot.NewPost, bool) {
	if m == nil || m.Chat == nil {
		return bot.NewPost{}, false
	}
	return bot.NewPost{
		ChatId:    m.Chat.ID,
		MessageId: int64(m.ID),
		Content:   ContentKindOf(m),
	}, true
}

// TapFromCallback ignores callbacks without a message, e.g. from inline mode.
func TapFromCallback(cb *tele.Callback) (bot.Tap, bool) {
	if cb == nil || cb.Message == nil || cb.Message.Chat == nil || cb.Sender == nil {
		return bot.Tap{}, false
	}
	return bot.Tap{
		Id:        cb.ID,
		ChatId:    cb.Message.Chat.ID,
		MessageId: int64(cb.Message.ID),
		UserId:    cb.Sender.ID,
		UserName:  FullName(cb.Sender),
		Token:     cb.Data,
	}, true
}

func AdminCommandFromMessage(m *tele.Message) (bot.AdminCommand, bool) {
	if m == nil || m.Sender == nil {
		return bot.AdminCommand{}, false
	}
	return bot.AdminCommand{UserId: m.Sender.ID, Text: m.Text}, true
}

// FullName is "First Last", falling back to the username.
func FullName(u *tele.User) string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = u.Username
	}
	return name
}

// isStatsCommand accepts "/stats", "/stats 12" and "/stats@somebot 12".
func isStatsCommand(text string) bool {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return false
	}
	cmd, _, _ := strings.Cut(fields[0], "@")
	return cmd == StatsCommand
}
