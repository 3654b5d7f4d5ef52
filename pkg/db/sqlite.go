package db

import (
	"context"
	"database/sql"
	"net/url"

	_ "modernc.org/sqlite"
)

const schemaSQL = `
-- One row per (chat, message, user): the user's current reaction on a post
CREATE TABLE IF NOT EXISTS reactions (
  chat_id INTEGER NOT NULL,
  message_id INTEGER NOT NULL,
  user_id INTEGER NOT NULL,
  user_name TEXT NOT NULL,             -- display name when the reaction was created
  emoji TEXT NOT NULL,
  created INTEGER NOT NULL,            -- meowid assigned on insert, listing order
  PRIMARY KEY (chat_id, message_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_reactions_message ON reactions(message_id, created);
`

// OpenSQLite opens the SQLite database at path. Transactions begin
// IMMEDIATE so a read-modify-write holds the write lock from its first read.
func OpenSQLite(path string) (*sql.DB, error) {
	q := url.Values{}
	q.Add("_txlock", "immediate")
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "synchronous(FULL)")
	dsn := "file:" + path + "?" + q.Encode()

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}

// InitSchema creates the tables if they don't exist yet.
func InitSchema(ctx context.Context, conn *sql.DB) error {
	_, err := conn.ExecContext(ctx, schemaSQL)
	return err
}
