// internal/api/middleware.go
//
// Session-cookie authorization middleware.
//
// Context
// -------
// RequireAuth reads the session token from the request cookie, resolves it
// through the authorization flow, and either attaches the identity to the
// request context or answers 401 with the standard envelope.  Handlers
// behind it can assume auth.FromContext yields an authorized identity.
package api

import (
	"net/http"

	"github.com/surgemusic/surge/internal/auth"
	"github.com/surgemusic/surge/internal/cookie"
	"github.com/surgemusic/surge/internal/response"
)

// RequireAuth gates a route on a live session.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := cookie.SessionToken(r)
		if !ok {
			response.Error("Unauthorized", nil).WriteJSON(w, http.StatusUnauthorized)
			return
		}

		authz := h.auth.Authorize(r.Context(), token)
		if !authz.IsAuthorized() {
			response.Error("Unauthorized", nil).WriteJSON(w, http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithAuthorization(r.Context(), authz)))
	})
}
