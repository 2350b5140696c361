package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/amirjon-1/interview-backend/internal/service/auth"
	"github.com/amirjon-1/interview-backend/pkg/utils"
)

type contextKey string

const identityKey contextKey = "identity"

// IdentityFromContext returns the authenticated owner identity, if any.
func IdentityFromContext(ctx context.Context) (uuid.UUID, bool) {
	identity, ok := ctx.Value(identityKey).(uuid.UUID)
	return identity, ok
}

// WithIdentity injects an identity into the context, for tests.
func WithIdentity(ctx context.Context, identity uuid.UUID) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// RequireAuth rejects requests without a valid caller token and stores the
// verified identity in the request context.
func RequireAuth(verifier *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				utils.RespondError(w, http.StatusUnauthorized, "missing or invalid token")
				return
			}

			identity, err := verifier.ParseIdentity(token)
			if err != nil {
				utils.RespondError(w, http.StatusUnauthorized, "missing or invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// extractToken accepts a bearer header or a token query parameter; websocket
// clients cannot always set headers.
func extractToken(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return header[7:]
	}
	return ""
}
