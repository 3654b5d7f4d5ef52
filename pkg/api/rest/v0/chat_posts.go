package v0_rest

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/go-chi/chi/v5"
	"github.com/meower-media/reactions/pkg/reactions"
)

func (h *Handlers) ChatPostsRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Get("/{postId}/reactions", h.getPostReactions)

	return r
}

func (h *Handlers) getPostReactions(w http.ResponseWriter, r *http.Request) {
	// Get post key
	chatId, ok := int64Param(w, r, "chatId")
	if !ok {
		return
	}
	postId, ok := int64Param(w, r, "postId")
	if !ok {
		return
	}
	post := reactions.PostKey{ChatId: chatId, MessageId: postId}

	// Get counts
	counts, err := h.Store.CountsByEmoji(r.Context(), post)
	if err != nil {
		h.Logger.Error("failed to get reaction counts", "chat", chatId, "post", postId, "error", err)
		sentry.CaptureException(err)
		returnErr(w, http.StatusInternalServerError, ErrInternal, nil)
		return
	}

	// Order by the configured emoji set
	resp := ReactionsResp{
		ChatId:    chatId,
		PostId:    postId,
		Reactions: make([]ReactionCount, 0, h.Set.Len()),
		Total:     counts.Total(),
	}
	for _, e := range h.Set.All() {
		resp.Reactions = append(resp.Reactions, ReactionCount{
			Emoji: e.String(),
			Count: counts[e],
		})
	}

	returnData(w, http.StatusOK, resp)
}
