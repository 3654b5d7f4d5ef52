package reactions

import (
	"context"

	"github.com/meower-media/reactions/pkg/emojis"
)

// Key identifies one user's reaction on one post.
type Key struct {
	ChatId    int64
	MessageId int64
	UserId    int64
}

func (k Key) Post() PostKey {
	return PostKey{ChatId: k.ChatId, MessageId: k.MessageId}
}

type PostKey struct {
	ChatId    int64
	MessageId int64
}

// Counts is the number of active reactions per emoji on one post.
// Emojis nobody picked are absent.
type Counts map[emojis.Emoji]int

func (c Counts) Total() int {
	var n int
	for _, v := range c {
		n += v
	}
	return n
}

// Entry is one line of the admin report.
type Entry struct {
	UserName string
	Emoji    emojis.Emoji
}

type ChangeKind uint8

const (
	ChangeNone ChangeKind = iota
	ChangeInsert
	ChangeUpdate
	ChangeDelete
)

// Change is the write a MutateFunc asks the store to apply.
type Change struct {
	Kind  ChangeKind
	Emoji emojis.Emoji
}

// MutateFunc receives the stored emoji (zero and found=false when the user
// has no reaction) and returns the change to apply.
type MutateFunc func(current emojis.Emoji, found bool) Change

// Store owns every reaction record. All methods commit before returning.
type Store interface {
	Init(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error

	GetReaction(ctx context.Context, key Key) (emojis.Emoji, bool, error)
	UpsertReaction(ctx context.Context, key Key, userName string, emoji emojis.Emoji) error
	DeleteReaction(ctx context.Context, key Key) error
	CountsByEmoji(ctx context.Context, post PostKey) (Counts, error)

	// ListReactions returns every reaction on messageId across chats,
	// ordered by record creation.
	ListReactions(ctx context.Context, messageId int64) ([]Entry, error)

	// Mutate reads the current emoji for key, calls fn and applies the
	// returned change as one atomic unit. ErrConflict means the record
	// changed between the read and the write.
	Mutate(ctx context.Context, key Key, userName string, fn MutateFunc) (Change, error)
}
