package v0_rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meower-media/reactions/pkg/emojis"
	"github.com/meower-media/reactions/pkg/networks"
	"github.com/meower-media/reactions/pkg/reactions"
)

// Handlers serves the read-only reactions API.
type Handlers struct {
	Store     reactions.Store
	Set       *emojis.Set
	Allowlist *networks.Allowlist
	Logger    *slog.Logger
}

func (h *Handlers) Router() *chi.Mux {
	r := chi.NewRouter()

	// Network allowlist
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, err := h.Allowlist.Allows(r.RemoteAddr)
			if err != nil || !allowed {
				returnErr(w, http.StatusForbidden, ErrIPBlocked, nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		returnErr(w, http.StatusNotFound, ErrNotFound, nil)
	})

	r.Mount("/", h.RootRouter())
	r.Mount("/chats/{chatId}/posts", h.ChatPostsRouter())

	return r
}
