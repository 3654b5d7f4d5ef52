package reactions

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/meower-media/reactions/pkg/emojis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition(t *testing.T) {
	fire, heart := emoji(t, "🔥"), emoji(t, "❤️")

	tests := []struct {
		name    string
		current emojis.Emoji
		found   bool
		target  emojis.Emoji
		want    Outcome
		change  ChangeKind
	}{
		{"first tap adds", emojis.Emoji{}, false, fire, Outcome{Action: ActionAdded, Emoji: fire}, ChangeInsert},
		{"same emoji removes", fire, true, fire, Outcome{Action: ActionRemoved, Previous: fire}, ChangeDelete},
		{"other emoji switches", fire, true, heart, Outcome{Action: ActionChanged, Emoji: heart, Previous: fire}, ChangeUpdate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Transition(tt.current, tt.found, tt.target)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.change, got.Change().Kind)
		})
	}
}

func TestEngineToggleReturnsToPreviousCount(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	engine := NewEngine(store)
	post := PostKey{ChatId: 1, MessageId: 100}

	require.NoError(t, store.UpsertReaction(ctx, Key{ChatId: 1, MessageId: 100, UserId: 2}, "B", emoji(t, "🔥")))
	before := countsOf(t, store, post)

	key := Key{ChatId: 1, MessageId: 100, UserId: 1}
	out, err := engine.Tap(ctx, key, "A", emoji(t, "🔥"))
	require.NoError(t, err)
	assert.Equal(t, ActionAdded, out.Action)

	out, err = engine.Tap(ctx, key, "A", emoji(t, "🔥"))
	require.NoError(t, err)
	assert.Equal(t, ActionRemoved, out.Action)

	_, found, err := store.GetReaction(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, before, countsOf(t, store, post))
}

func TestEngineSwitchKeepsTotal(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	engine := NewEngine(store)
	post := PostKey{ChatId: 1, MessageId: 100}
	key := Key{ChatId: 1, MessageId: 100, UserId: 1}

	_, err := engine.Tap(ctx, key, "A", emoji(t, "😂"))
	require.NoError(t, err)
	_, err = engine.Tap(ctx, Key{ChatId: 1, MessageId: 100, UserId: 2}, "B", emoji(t, "👍"))
	require.NoError(t, err)

	out, err := engine.Tap(ctx, key, "A", emoji(t, "👍"))
	require.NoError(t, err)
	assert.Equal(t, Outcome{Action: ActionChanged, Emoji: emoji(t, "👍"), Previous: emoji(t, "😂")}, out)

	counts := countsOf(t, store, post)
	assert.Equal(t, map[string]int{"👍": 2}, counts)

	got, found, err := store.GetReaction(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, emoji(t, "👍"), got)
}

func TestEngineWorkedExample(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	engine := NewEngine(store)
	post := PostKey{ChatId: 1, MessageId: 100}
	a := Key{ChatId: 1, MessageId: 100, UserId: 1}
	b := Key{ChatId: 1, MessageId: 100, UserId: 2}

	steps := []struct {
		key   Key
		name  string
		glyph string
		want  map[string]int
	}{
		{a, "A", "🔥", map[string]int{"🔥": 1}},
		{b, "B", "🔥", map[string]int{"🔥": 2}},
		{a, "A", "❤️", map[string]int{"🔥": 1, "❤️": 1}},
		{a, "A", "❤️", map[string]int{"🔥": 1}},
	}
	for _, step := range steps {
		_, err := engine.Tap(ctx, step.key, step.name, emoji(t, step.glyph))
		require.NoError(t, err)
		assert.Equal(t, step.want, countsOf(t, store, post))
	}
}

func TestEngineConcurrentSameUserTapsSerialize(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	engine := NewEngine(store)
	key := Key{ChatId: 1, MessageId: 100, UserId: 1}
	fire := emoji(t, "🔥")

	// An even number of taps on one emoji must cancel out exactly
	const taps = 20
	var wg sync.WaitGroup
	errs := make(chan error, taps)
	for i := 0; i < taps; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.Tap(ctx, key, "A", fire)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	_, found, err := store.GetReaction(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, countsOf(t, store, key.Post()))
	assert.Equal(t, 0, engine.locks.size())
}

func TestEngineConcurrentUsersAggregateConsistency(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	engine := NewEngine(store)
	post := PostKey{ChatId: 1, MessageId: 100}
	all := testSet.All()

	const users = 12
	var wg sync.WaitGroup
	for u := 0; u < users; u++ {
		wg.Add(1)
		go func(u int) {
			defer wg.Done()
			key := Key{ChatId: post.ChatId, MessageId: post.MessageId, UserId: int64(u)}
			// Three taps on distinct emojis: added, changed, changed
			for i := 0; i < 3; i++ {
				_, err := engine.Tap(ctx, key, "user", all[(u+i)%len(all)])
				assert.NoError(t, err)
			}
		}(u)
	}
	wg.Wait()

	counts, err := store.CountsByEmoji(ctx, post)
	require.NoError(t, err)
	assert.Equal(t, users, counts.Total())

	entries, err := store.ListReactions(ctx, post.MessageId)
	require.NoError(t, err)
	assert.Len(t, entries, users)
}

type stubStore struct {
	Store
	mutate func() error
	calls  int
}

func (s *stubStore) Mutate(_ context.Context, _ Key, _ string, fn MutateFunc) (Change, error) {
	s.calls++
	if err := s.mutate(); err != nil {
		return Change{}, err
	}
	return fn(emojis.Emoji{}, false), nil
}

func TestEngineStorageFault(t *testing.T) {
	store := &stubStore{mutate: func() error { return errors.New("disk I/O error") }}
	engine := NewEngine(store)

	_, err := engine.Tap(context.Background(), Key{ChatId: 1, MessageId: 1, UserId: 1}, "A", emoji(t, "🔥"))
	assert.ErrorIs(t, err, ErrStorageFault)
	assert.Equal(t, 1, store.calls)
}

func TestEngineRetriesConflicts(t *testing.T) {
	failures := 2
	store := &stubStore{mutate: func() error {
		if failures > 0 {
			failures--
			return ErrConflict
		}
		return nil
	}}
	engine := NewEngine(store)

	out, err := engine.Tap(context.Background(), Key{ChatId: 1, MessageId: 1, UserId: 1}, "A", emoji(t, "🔥"))
	require.NoError(t, err)
	assert.Equal(t, ActionAdded, out.Action)
	assert.Equal(t, 3, store.calls)
}

func TestEngineGivesUpOnPersistentConflict(t *testing.T) {
	store := &stubStore{mutate: func() error { return ErrConflict }}
	engine := NewEngine(store)

	_, err := engine.Tap(context.Background(), Key{ChatId: 1, MessageId: 1, UserId: 1}, "A", emoji(t, "🔥"))
	assert.ErrorIs(t, err, ErrStorageFault)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, maxMutateAttempts, store.calls)
}

func TestEngineRejectsZeroEmoji(t *testing.T) {
	engine := NewEngine(openTestStore(t))
	_, err := engine.Tap(context.Background(), Key{ChatId: 1, MessageId: 1, UserId: 1}, "A", emojis.Emoji{})
	assert.ErrorIs(t, err, ErrNoEmoji)
}
