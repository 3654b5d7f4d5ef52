package reactions

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/meower-media/reactions/pkg/db"
	"github.com/meower-media/reactions/pkg/emojis"
	"github.com/meower-media/reactions/pkg/meowid"
	"github.com/stretchr/testify/require"
)

var testSet = emojis.MustSet(emojis.Default)

func emoji(t *testing.T, glyph string) emojis.Emoji {
	t.Helper()
	e, err := testSet.Parse(glyph)
	require.NoError(t, err)
	return e
}

func openTestStore(t *testing.T) *SQLStore {
	t.Helper()
	conn, err := db.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	ids, err := meowid.NewGenerator(0)
	require.NoError(t, err)

	store := NewSQLStore(conn, ids)
	require.NoError(t, store.Init(context.Background()))
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func countsOf(t *testing.T, s Store, post PostKey) map[string]int {
	t.Helper()
	counts, err := s.CountsByEmoji(context.Background(), post)
	require.NoError(t, err)
	out := make(map[string]int, len(counts))
	for e, n := range counts {
		out[e.String()] = n
	}
	return out
}
