package transport

import (
	"net/http"

	"github.com/sigil-dev/sigil/pkg/auth"
)

// Routes builds the ServeMux mapping each endpoint to its handler and
// required authorization. Role requirements are declared here, in one
// place, rather than scattered through handler bodies.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	// Public authentication endpoints.
	mux.HandleFunc("POST /api/v1/auth/register", h.handleRegister)
	mux.HandleFunc("POST /api/v1/auth/authenticate", h.handleAuthenticate)

	// Any authenticated identity.
	mux.Handle("GET /api/v1/users/me", h.authenticated(h.handleMe))

	// ADMIN only.
	mux.Handle("GET /api/v1/admin/users", h.secured(auth.RoleAdmin, h.handleListUsers))
	mux.Handle("DELETE /api/v1/admin/delete/{id}", h.secured(auth.RoleAdmin, h.handleDeleteUser))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})

	// Unmatched paths get the standard envelope instead of the framework
	// default body.
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, &auth.NotFoundError{Message: "resource not found"})
	})

	return mux
}

// authenticated gates a route on the presence of any authenticated
// principal.
func (h *Handler) authenticated(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := auth.RequireAuthenticated(r.Context()); err != nil {
			WriteError(w, r, err)
			return
		}
		next(w, r)
	})
}

// secured gates a route on an exact role match, evaluated after the
// authentication middleware and before the handler body.
func (h *Handler) secured(role auth.Role, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := auth.Require(r.Context(), role); err != nil {
			WriteError(w, r, err)
			return
		}
		next(w, r)
	})
}
