package api

import (
	"net/http"
	"strings"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/jmcadiz/sari-store/internal/domain/auth"
)

// requireAuth verifies the bearer token and stores the caller identity in
// the request context.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, auth.ErrUnauthenticated.Error())
			return
		}

		identity, err := h.verifier.VerifyToken(token)
		if err != nil {
			zctx.From(r.Context()).Debug("Token rejected", zap.Error(err))
			writeError(w, http.StatusUnauthorized, auth.ErrUnauthenticated.Error())
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
	})
}

// requireAdmin gates a route on the caller's profile carrying the admin
// role. Must be nested inside requireAuth.
func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, auth.ErrUnauthenticated.Error())
			return
		}

		isAdmin, err := h.profiles.IsAdmin(r.Context(), identity.UserID)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		if !isAdmin {
			writeError(w, http.StatusForbidden, auth.ErrForbidden.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return header[len(prefix):], true
}
