package bot

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/meower-media/reactions/pkg/db"
	"github.com/meower-media/reactions/pkg/emojis"
	"github.com/meower-media/reactions/pkg/events"
	"github.com/meower-media/reactions/pkg/meowid"
	"github.com/meower-media/reactions/pkg/panel"
	"github.com/meower-media/reactions/pkg/reactions"
	"github.com/stretchr/testify/require"
)

var testSet = emojis.MustSet(emojis.Default)

type paint struct {
	Post   reactions.PostKey
	Panel  panel.Panel
	Attach bool
}

type fakeTransport struct {
	mu     sync.Mutex
	paints []paint
	acks   map[string]string
	texts  map[int64][]string

	paintErr error
	ackErr   error
	textErr  error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		acks:  make(map[string]string),
		texts: make(map[int64][]string),
	}
}

func (f *fakeTransport) AttachPanel(_ context.Context, post reactions.PostKey, p panel.Panel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.paintErr != nil {
		return f.paintErr
	}
	f.paints = append(f.paints, paint{Post: post, Panel: p, Attach: true})
	return nil
}

func (f *fakeTransport) ReplacePanel(_ context.Context, post reactions.PostKey, p panel.Panel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.paintErr != nil {
		return f.paintErr
	}
	f.paints = append(f.paints, paint{Post: post, Panel: p})
	return nil
}

func (f *fakeTransport) AcknowledgeTap(_ context.Context, tapId string, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ackErr != nil {
		return f.ackErr
	}
	f.acks[tapId] = text
	return nil
}

func (f *fakeTransport) SendText(_ context.Context, userId int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.textErr != nil {
		return f.textErr
	}
	f.texts[userId] = append(f.texts[userId], text)
	return nil
}

func (f *fakeTransport) lastPaint(t *testing.T) paint {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.paints)
	return f.paints[len(f.paints)-1]
}

func (f *fakeTransport) paintCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.paints)
}

func (f *fakeTransport) ack(id string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.acks[id]
}

type fakeEmitter struct {
	mu        sync.Mutex
	reactions []*events.PostReaction
	ops       []uint8
	posts     []*events.CreatePost
}

func (e *fakeEmitter) EmitPostReactionEvent(_ context.Context, op uint8, ev *events.PostReaction) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ops = append(e.ops, op)
	e.reactions = append(e.reactions, ev)
	return nil
}

func (e *fakeEmitter) EmitCreatePostEvent(_ context.Context, ev *events.CreatePost) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.posts = append(e.posts, ev)
	return nil
}

type harness struct {
	bot       *Bot
	store     *reactions.SQLStore
	transport *fakeTransport
	emitter   *fakeEmitter
}

func newHarness(t *testing.T, admins ...int64) *harness {
	t.Helper()
	conn, err := db.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	ids, err := meowid.NewGenerator(0)
	require.NoError(t, err)
	store := reactions.NewSQLStore(conn, ids)
	require.NoError(t, store.Init(context.Background()))
	t.Cleanup(func() { _ = store.Close() })

	h := &harness{
		store:     store,
		transport: newFakeTransport(),
		emitter:   &fakeEmitter{},
	}
	h.bot = New(Deps{
		Set:       testSet,
		Store:     store,
		Transport: h.transport,
		Emitter:   h.emitter,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Admins:    admins,
	})
	return h
}

func (h *harness) tap(t *testing.T, id string, user int64, name string, glyph string) error {
	t.Helper()
	err := h.bot.Dispatch(context.Background(), Tap{
		Id:        id,
		ChatId:    1,
		MessageId: 100,
		UserId:    user,
		UserName:  name,
		Token:     emojis.TokenPrefix + glyph,
	})
	h.bot.Shutdown()
	return err
}

func labels(p panel.Panel) []string {
	var out []string
	for _, b := range p.Buttons() {
		out = append(out, b.Text)
	}
	return out
}
