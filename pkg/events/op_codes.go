package events

import "github.com/meower-media/reactions/pkg/reactions"

// Op codes are appended as the last byte of every published packet.
const (
	OpCreatePost uint8 = 16

	OpPostReactionAdd    uint8 = 20
	OpPostReactionRemove uint8 = 21
	OpPostReactionChange uint8 = 22
)

// OpForAction maps an applied tap to the op code announcing it.
func OpForAction(a reactions.Action) uint8 {
	switch a {
	case reactions.ActionRemoved:
		return OpPostReactionRemove
	case reactions.ActionChanged:
		return OpPostReactionChange
	}
	return OpPostReactionAdd
}

// ActionForOp is the inverse of OpForAction.
func ActionForOp(op uint8) (reactions.Action, bool) {
	switch op {
	case OpPostReactionAdd:
		return reactions.ActionAdded, true
	case OpPostReactionRemove:
		return reactions.ActionRemoved, true
	case OpPostReactionChange:
		return reactions.ActionChanged, true
	}
	return 0, false
}
