package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"gestor/internal/metrics"
)

// Middleware gates protected routes. Authenticate verifies the bearer
// token and attaches the caller's identity; Require checks the
// resolved grants for a module/action pair. This is the single place
// where the core's typed failures become HTTP statuses.
type Middleware struct {
	tokens   *TokenService
	users    UserReader
	resolver *PermissionResolver
	lg       *zap.SugaredLogger
}

func NewMiddleware(tokens *TokenService, users UserReader, resolver *PermissionResolver, lg *zap.SugaredLogger) *Middleware {
	return &Middleware{tokens: tokens, users: users, resolver: resolver, lg: lg}
}

// bearerToken extracts the token from an Authorization header. The
// header must be exactly two space-separated parts with a Bearer
// scheme; anything else is treated as missing.
func bearerToken(h string) (string, error) {
	parts := strings.Split(h, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", ErrMissingToken
	}
	return parts[1], nil
}

// Authenticate verifies the bearer token and loads the user's company
// so downstream permission checks have tenant context. Token failures
// are logged with their real reason but answered generically.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := bearerToken(r.Header.Get("Authorization"))
		if err != nil {
			unauthorized(w, "missing bearer token")
			return
		}
		claims, err := m.tokens.Verify(raw)
		if err != nil {
			m.lg.Infow("token rejected", "reason", err)
			unauthorized(w, "invalid or expired token")
			return
		}
		id := Identity{UserID: claims.UserID, RoleID: claims.RoleID}
		u, err := m.users.FindUserByID(r.Context(), claims.UserID)
		switch {
		case err == nil:
			if u.CompanyID != nil {
				id.CompanyID = *u.CompanyID
			}
		case errors.Is(err, ErrNotFound):
			// Token outlived its user.
			unauthorized(w, "invalid or expired token")
			return
		default:
			m.lg.Errorw("user lookup failed", "error", err)
			storeError(w)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// Require rejects the request with 403 unless the caller's role holds
// the given action on the given module. Must run after Authenticate.
func (m *Middleware) Require(module string, action Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				unauthorized(w, "missing bearer token")
				return
			}
			grants, err := m.resolver.Resolve(r.Context(), id.RoleID, module, id.CompanyID)
			if err != nil {
				m.lg.Errorw("permission resolution failed", "error", err, "module", module)
				storeError(w)
				return
			}
			if !grants.Allows(action) {
				forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	metrics.AuthErrors.WithLabelValues("unauthorized").Inc()
	writeJSONError(w, http.StatusUnauthorized, msg)
}

func forbidden(w http.ResponseWriter) {
	metrics.AuthErrors.WithLabelValues("forbidden").Inc()
	writeJSONError(w, http.StatusForbidden, "insufficient permissions")
}

func storeError(w http.ResponseWriter) {
	metrics.AuthErrors.WithLabelValues("store_error").Inc()
	writeJSONError(w, http.StatusInternalServerError, "internal error")
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
