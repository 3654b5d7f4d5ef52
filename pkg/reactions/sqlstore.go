package reactions

import (
	"context"
	"database/sql"
	"errors"

	"github.com/meower-media/reactions/pkg/db"
	"github.com/meower-media/reactions/pkg/emojis"
	"github.com/meower-media/reactions/pkg/meowid"
)

var _ Store = (*SQLStore)(nil)

// SQLStore keeps reactions in SQLite.
type SQLStore struct {
	conn *sql.DB
	ids  *meowid.Generator
}

func NewSQLStore(conn *sql.DB, ids *meowid.Generator) *SQLStore {
	return &SQLStore{conn: conn, ids: ids}
}

func (s *SQLStore) Init(ctx context.Context) error {
	return fault(db.InitSchema(ctx, s.conn))
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return fault(s.conn.PingContext(ctx))
}

func (s *SQLStore) Close() error {
	return s.conn.Close()
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getReaction(ctx context.Context, q queryer, key Key) (emojis.Emoji, bool, error) {
	var glyph string
	err := q.QueryRowContext(ctx, `
		SELECT emoji FROM reactions
		WHERE chat_id = ? AND message_id = ? AND user_id = ?
	`, key.ChatId, key.MessageId, key.UserId).Scan(&glyph)
	if errors.Is(err, sql.ErrNoRows) {
		return emojis.Emoji{}, false, nil
	}
	if err != nil {
		return emojis.Emoji{}, false, err
	}
	return emojis.Decode(glyph), true, nil
}

func (s *SQLStore) GetReaction(ctx context.Context, key Key) (emojis.Emoji, bool, error) {
	e, found, err := getReaction(ctx, s.conn, key)
	return e, found, fault(err)
}

func (s *SQLStore) UpsertReaction(ctx context.Context, key Key, userName string, emoji emojis.Emoji) error {
	if emoji.IsZero() {
		return ErrNoEmoji
	}
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO reactions (chat_id, message_id, user_id, user_name, emoji, created)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (chat_id, message_id, user_id) DO UPDATE SET emoji = excluded.emoji
	`, key.ChatId, key.MessageId, key.UserId, userName, emoji.String(), s.ids.GenId())
	return fault(err)
}

func (s *SQLStore) DeleteReaction(ctx context.Context, key Key) error {
	_, err := s.conn.ExecContext(ctx, `
		DELETE FROM reactions
		WHERE chat_id = ? AND message_id = ? AND user_id = ?
	`, key.ChatId, key.MessageId, key.UserId)
	return fault(err)
}

func (s *SQLStore) CountsByEmoji(ctx context.Context, post PostKey) (Counts, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT emoji, COUNT(*) FROM reactions
		WHERE chat_id = ? AND message_id = ?
		GROUP BY emoji
	`, post.ChatId, post.MessageId)
	if err != nil {
		return nil, fault(err)
	}
	defer rows.Close()

	counts := make(Counts)
	for rows.Next() {
		var glyph string
		var n int
		if err := rows.Scan(&glyph, &n); err != nil {
			return nil, fault(err)
		}
		counts[emojis.Decode(glyph)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fault(err)
	}
	return counts, nil
}

func (s *SQLStore) ListReactions(ctx context.Context, messageId int64) ([]Entry, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT user_name, emoji FROM reactions
		WHERE message_id = ?
		ORDER BY created ASC, chat_id ASC, user_id ASC
	`, messageId)
	if err != nil {
		return nil, fault(err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var name, glyph string
		if err := rows.Scan(&name, &glyph); err != nil {
			return nil, fault(err)
		}
		entries = append(entries, Entry{UserName: name, Emoji: emojis.Decode(glyph)})
	}
	if err := rows.Err(); err != nil {
		return nil, fault(err)
	}
	return entries, nil
}

func (s *SQLStore) Mutate(ctx context.Context, key Key, userName string, fn MutateFunc) (Change, error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return Change{}, fault(err)
	}
	defer tx.Rollback()

	current, found, err := getReaction(ctx, tx, key)
	if err != nil {
		return Change{}, fault(err)
	}

	change := fn(current, found)
	switch change.Kind {
	case ChangeInsert:
		if found {
			return Change{}, ErrConflict
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO reactions (chat_id, message_id, user_id, user_name, emoji, created)
			VALUES (?, ?, ?, ?, ?, ?)
		`, key.ChatId, key.MessageId, key.UserId, userName, change.Emoji.String(), s.ids.GenId())
	case ChangeUpdate:
		if !found {
			return Change{}, ErrConflict
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE reactions SET emoji = ?
			WHERE chat_id = ? AND message_id = ? AND user_id = ?
		`, change.Emoji.String(), key.ChatId, key.MessageId, key.UserId)
	case ChangeDelete:
		if !found {
			return Change{}, ErrConflict
		}
		_, err = tx.ExecContext(ctx, `
			DELETE FROM reactions
			WHERE chat_id = ? AND message_id = ? AND user_id = ?
		`, key.ChatId, key.MessageId, key.UserId)
	case ChangeNone:
		return change, nil
	}
	if err != nil {
		return Change{}, fault(err)
	}

	if err := tx.Commit(); err != nil {
		return Change{}, fault(err)
	}
	return change, nil
}
