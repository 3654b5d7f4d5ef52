package telegram

import (
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	tele "gopkg.in/telebot.v3"
)

// AllowedUpdates are the update types the bot routes.
var AllowedUpdates = []string{"channel_post", "callback_query", "message"}

const StatsCommand = "/stats"

// New creates a long-polling bot that only receives updates Filter accepts.
func New(token string, timeout time.Duration, logger *slog.Logger) (*tele.Bot, error) {
	poller := tele.NewMiddlewarePoller(&tele.LongPoller{
		Timeout:        timeout,
		AllowedUpdates: AllowedUpdates,
	}, Filter)

	return tele.NewBot(tele.Settings{
		Token:  token,
		Poller: poller,
		OnError: func(err error, c tele.Context) {
			logger.Error("telegram update failed", "error", err)
			sentry.CaptureException(err)
		},
	})
}

// Filter drops updates that no handler would route.
func Filter(upd *tele.Update) bool {
	switch {
	case upd.ChannelPost != nil:
		return true
	case upd.Callback != nil:
		return upd.Callback.Message != nil
	case upd.Message != nil:
		return isStatsCommand(upd.Message.Text)
	}
	return false
}
