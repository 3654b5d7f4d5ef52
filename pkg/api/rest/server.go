package rest

import (
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	v0_rest "github.com/meower-media/reactions/pkg/api/rest/v0"
	"github.com/rs/cors"
)

// Router builds the REST API. When realIPHeader is set the client address
// is taken from that header instead of the connection.
func Router(h *v0_rest.Handlers, realIPHeader string) *chi.Mux {
	r := chi.NewRouter()

	// CORS middleware
	r.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"OPTIONS", "GET"},
		AllowedHeaders: []string{"*"},
	}).Handler)

	// IP address middleware
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if realIPHeader != "" {
				r.RemoteAddr = r.Header.Get(realIPHeader)
			} else if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
				r.RemoteAddr = host
			}
			next.ServeHTTP(w, r)
		})
	})

	// Mount routers
	v0 := h.Router()
	r.Mount("/", v0) // default
	r.Mount("/v0", v0)

	return r
}
