package reactions

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/meower-media/reactions/pkg/db"
	"github.com/meower-media/reactions/pkg/emojis"
	"github.com/meower-media/reactions/pkg/meowid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real server only when MONGO_TEST_URI is set.
func openMongoTestStore(t *testing.T) *MongoStore {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	database, err := db.Connect(ctx, uri, fmt.Sprint("reactions_test_", time.Now().UnixNano()))
	require.NoError(t, err)

	ids, err := meowid.NewGenerator(0)
	require.NoError(t, err)
	store := NewMongoStore(db.Reactions(database), ids)
	require.NoError(t, store.Init(ctx))
	t.Cleanup(func() {
		_ = database.Drop(context.Background())
		_ = store.Close()
	})
	return store
}

func TestMongoStoreWorkedExample(t *testing.T) {
	ctx := context.Background()
	store := openMongoTestStore(t)
	engine := NewEngine(store)
	post := PostKey{ChatId: 1, MessageId: 100}
	a := Key{ChatId: 1, MessageId: 100, UserId: 1}
	b := Key{ChatId: 1, MessageId: 100, UserId: 2}

	_, err := engine.Tap(ctx, a, "A", emoji(t, "🔥"))
	require.NoError(t, err)
	_, err = engine.Tap(ctx, b, "B", emoji(t, "🔥"))
	require.NoError(t, err)
	_, err = engine.Tap(ctx, a, "A", emoji(t, "❤️"))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"🔥": 1, "❤️": 1}, countsOf(t, store, post))

	_, err = engine.Tap(ctx, a, "A", emoji(t, "❤️"))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"🔥": 1}, countsOf(t, store, post))

	entries, err := store.ListReactions(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{UserName: "B", Emoji: emoji(t, "🔥")}}, entries)
}

func TestMongoStoreStaleWriteConflicts(t *testing.T) {
	ctx := context.Background()
	store := openMongoTestStore(t)
	key := Key{ChatId: 1, MessageId: 1, UserId: 1}
	require.NoError(t, store.UpsertReaction(ctx, key, "A", emoji(t, "🔥")))

	// Another writer removes the record between our read and write
	_, err := store.Mutate(ctx, key, "A", func(emojis.Emoji, bool) Change {
		require.NoError(t, store.DeleteReaction(ctx, key))
		return Change{Kind: ChangeUpdate, Emoji: emoji(t, "👍")}
	})
	assert.ErrorIs(t, err, ErrConflict)
}
