package reactions

import (
	"context"
	"errors"

	"github.com/meower-media/reactions/pkg/emojis"
)

// Attempts made when the store reports a concurrent change.
const maxMutateAttempts = 3

type Action uint8

const (
	ActionAdded Action = iota + 1
	ActionRemoved
	ActionChanged
)

func (a Action) String() string {
	switch a {
	case ActionAdded:
		return "added"
	case ActionRemoved:
		return "removed"
	case ActionChanged:
		return "changed"
	}
	return "unknown"
}

// Outcome describes one applied tap.
type Outcome struct {
	Action   Action
	Emoji    emojis.Emoji // emoji active after the tap, zero when removed
	Previous emojis.Emoji // emoji active before the tap, zero when there was none
}

func (o Outcome) Change() Change {
	switch o.Action {
	case ActionAdded:
		return Change{Kind: ChangeInsert, Emoji: o.Emoji}
	case ActionChanged:
		return Change{Kind: ChangeUpdate, Emoji: o.Emoji}
	case ActionRemoved:
		return Change{Kind: ChangeDelete}
	}
	return Change{}
}

// Transition computes what a tap on target does to a user's reaction.
//
//	none     --tap(t)--> t       (added)
//	e        --tap(e)--> none    (removed)
//	e        --tap(t)--> t       (changed)
func Transition(current emojis.Emoji, found bool, target emojis.Emoji) Outcome {
	switch {
	case !found:
		return Outcome{Action: ActionAdded, Emoji: target}
	case current == target:
		return Outcome{Action: ActionRemoved, Previous: current}
	default:
		return Outcome{Action: ActionChanged, Emoji: target, Previous: current}
	}
}

// Engine applies taps to a Store. Taps on the same key never interleave.
type Engine struct {
	store Store
	locks *Locker[Key]
}

func NewEngine(store Store) *Engine {
	return &Engine{
		store: store,
		locks: NewLocker[Key](),
	}
}

// Tap applies a tap on target for key and returns what happened. The
// transition either commits entirely or not at all. Cancellation of ctx does
// not abort a tap once it has started.
func (e *Engine) Tap(ctx context.Context, key Key, userName string, target emojis.Emoji) (Outcome, error) {
	if target.IsZero() {
		return Outcome{}, ErrNoEmoji
	}
	ctx = context.WithoutCancel(ctx)

	unlock := e.locks.Lock(key)
	defer unlock()

	var err error
	for attempt := 0; attempt < maxMutateAttempts; attempt++ {
		var out Outcome
		_, err = e.store.Mutate(ctx, key, userName, func(current emojis.Emoji, found bool) Change {
			out = Transition(current, found, target)
			return out.Change()
		})
		if err == nil {
			return out, nil
		}
		if !errors.Is(err, ErrConflict) {
			break
		}
	}
	return Outcome{}, fault(err)
}
