package v0_rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handlers) RootRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Get("/status", h.getStatus)
	r.Get("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {})

	return r
}

func (h *Handlers) getStatus(w http.ResponseWriter, r *http.Request) {
	storeOk := true
	if err := h.Store.Ping(r.Context()); err != nil {
		h.Logger.Warn("store ping failed", "error", err)
		storeOk = false
	}

	allowed, err := h.Allowlist.Allows(r.RemoteAddr)
	if err != nil {
		allowed = false
	}

	glyphs := make([]string, 0, h.Set.Len())
	for _, e := range h.Set.All() {
		glyphs = append(glyphs, e.String())
	}

	code := http.StatusOK
	if !storeOk {
		code = http.StatusServiceUnavailable
	}
	returnData(w, code, StatusResp{
		Error:     !storeOk,
		Store:     storeOk,
		IPAllowed: allowed,
		Emojis:    glyphs,
	})
}
