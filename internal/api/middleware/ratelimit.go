package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/futig/resource-assistant/internal/entity"
	"github.com/futig/resource-assistant/internal/pkg/response"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const (
	// Limiters of users silent for this long are dropped
	inactiveUserTTL = time.Hour
	limiterCleanup  = 10 * time.Minute

	TooManyRequestsMessage = "Too many requests, please try again later."
)

// UserLimiter is a per-user token bucket holding perMinute tokens that
// refills at perMinute per minute
type UserLimiter struct {
	mu      sync.Mutex
	buckets *gocache.Cache
	limit   rate.Limit
	burst   int
	now     func() time.Time
}

func NewUserLimiter(perMinute int) *UserLimiter {
	if perMinute < 1 {
		perMinute = 1
	}

	return &UserLimiter{
		buckets: gocache.New(inactiveUserTTL, limiterCleanup),
		limit:   rate.Limit(float64(perMinute) / 60.0),
		burst:   perMinute,
		now:     time.Now,
	}
}

// Allow takes one token from userID's bucket
func (l *UserLimiter) Allow(userID string) bool {
	return l.bucket(userID).AllowN(l.now(), 1)
}

func (l *UserLimiter) bucket(userID string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if v, ok := l.buckets.Get(userID); ok {
		limiter := v.(*rate.Limiter)
		l.buckets.SetDefault(userID, limiter)
		return limiter
	}

	limiter := rate.NewLimiter(l.limit, l.burst)
	l.buckets.SetDefault(userID, limiter)
	return limiter
}

// RateLimit rejects requests from callers over their limit with 429.
// It must run after Identity. A nil limiter disables it.
func RateLimit(limiter *UserLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(UserIDFromContext(r.Context())) {
				ctxzap.Warn(r.Context(), "chat rate limit exceeded")
				response.JSON(w, http.StatusTooManyRequests, entity.ErrorResponse{Error: TooManyRequestsMessage})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
