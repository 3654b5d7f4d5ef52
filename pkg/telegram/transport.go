package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/meower-media/reactions/pkg/bot"
	"github.com/meower-media/reactions/pkg/panel"
	"github.com/meower-media/reactions/pkg/reactions"
	tele "gopkg.in/telebot.v3"
)

// API is the part of *tele.Bot the transport calls.
type API interface {
	EditReplyMarkup(msg tele.Editable, markup *tele.ReplyMarkup) (*tele.Message, error)
	Respond(c *tele.Callback, resp ...*tele.CallbackResponse) error
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

type Transport struct {
	api API
}

var _ bot.Transport = (*Transport)(nil)

func NewTransport(api API) *Transport {
	return &Transport{api: api}
}

// Markup converts a panel to an inline keyboard.
func Markup(p panel.Panel) *tele.ReplyMarkup {
	rows := make([][]tele.InlineButton, 0, len(p))
	for _, row := range p {
		buttons := make([]tele.InlineButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tele.InlineButton{Text: b.Text, Data: b.Token})
		}
		rows = append(rows, buttons)
	}
	return &tele.ReplyMarkup{InlineKeyboard: rows}
}

func (t *Transport) AttachPanel(ctx context.Context, post reactions.PostKey, p panel.Panel) error {
	return t.editMarkup(ctx, post, p)
}

func (t *Transport) ReplacePanel(ctx context.Context, post reactions.PostKey, p panel.Panel) error {
	return t.editMarkup(ctx, post, p)
}

func (t *Transport) editMarkup(ctx context.Context, post reactions.PostKey, p panel.Panel) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tele.StoredMessage{
		MessageID: strconv.FormatInt(post.MessageId, 10),
		ChatID:    post.ChatId,
	}
	if _, err := t.api.EditReplyMarkup(msg, Markup(p)); err != nil && !isNotModified(err) {
		return fmt.Errorf("edit markup of %d/%d: %w", post.ChatId, post.MessageId, err)
	}
	return nil
}

func (t *Transport) AcknowledgeTap(ctx context.Context, tapId string, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return t.api.Respond(&tele.Callback{ID: tapId}, &tele.CallbackResponse{Text: text})
}

func (t *Transport) SendText(ctx context.Context, userId int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := t.api.Send(&tele.User{ID: userId}, text, tele.ModeHTML)
	return err
}

// Telegram refuses edits that leave a message as it was; for panels that
// means the repaint already happened.
func isNotModified(err error) bool {
	return strings.Contains(err.Error(), "message is not modified")
}
