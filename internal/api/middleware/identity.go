package middleware

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/futig/resource-assistant/internal/pkg/logger"
)

const (
	UserIDHeader = "X-User-ID"
	UserIDQuery  = "user_id"
)

type userIDKey struct{}

var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,64}$`)

// UserIDFromContext returns the caller id stored by Identity
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey{}).(string); ok {
		return v
	}
	return ""
}

// WithUserID stores the caller id in ctx
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// Identity resolves the caller from the X-User-ID header or the user_id query
// parameter. Missing or malformed ids fall back to defaultUserID.
func Identity(defaultUserID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := strings.TrimSpace(r.Header.Get(UserIDHeader))
			if userID == "" {
				userID = strings.TrimSpace(r.URL.Query().Get(UserIDQuery))
			}
			if !userIDPattern.MatchString(userID) {
				userID = defaultUserID
			}

			ctx := WithUserID(r.Context(), userID)
			ctx = logger.WithUser(ctx, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
