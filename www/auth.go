package www

import (
	"errors"
	"net/http"

	"fabcatalogue/auth"
	"fabcatalogue/logger"
)

// requireAuth resolves the caller from the bearer token or session cookie and
// rejects the request when there is none. The user is re-read from the store
// on every request.
func (h *Handlers) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, claims, err := h.engine.Gate().ResolveCaller(r)
		if err != nil {
			if !errors.Is(err, auth.ErrUnauthenticated) {
				h.writeError(w, r, err)
				return
			}
			logger.FromContext(r.Context()).WithError(err).Debug("www: unauthenticated request")
			h.jsonError(w, msgUnauthenticated, http.StatusUnauthorized)
			return
		}
		ctx := auth.ContextWithCaller(r.Context(), user, claims)
		ctx, _ = logger.ContextWithLoggerIdentity(ctx, user.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin must run after requireAuth.
func (h *Handlers) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := auth.RequireAdmin(caller(r)); err != nil {
			h.writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}
