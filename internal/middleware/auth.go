package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bryanwahyu/csv-sentiment/internal/domain/auth"
	"github.com/bryanwahyu/csv-sentiment/pkg/respond"
)

type contextKey string

const PrincipalKey contextKey = "principal"

// Authenticator resolves a raw bearer token.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (auth.Principal, error)
}

// BearerAuth rejects requests without a valid "Authorization: Bearer <token>"
// header and stores the Principal in the request context. Rejections are
// logged at debug on logger.
func BearerAuth(a Authenticator, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := a.Authenticate(r.Context(), BearerToken(r))
			if err != nil {
				msg := auth.ErrInvalidToken.Error()
				if errors.Is(err, auth.ErrMissingToken) {
					msg = auth.ErrMissingToken.Error()
				}
				logger.LogAttrs(r.Context(), slog.LevelDebug, "bearer auth rejected",
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()),
				)
				respond.Unauthorized(w, msg)
				return
			}

			ctx := context.WithValue(r.Context(), PrincipalKey, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token of a Bearer Authorization header. Any other
// scheme counts as no token.
func BearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (auth.Principal, bool) {
	p, ok := ctx.Value(PrincipalKey).(auth.Principal)
	return p, ok
}
