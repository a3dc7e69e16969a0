package middleware

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/futig/resource-assistant/internal/telegram/render"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// Limiters of users silent for this long are dropped
	inactiveUserTTL = time.Hour
	limiterCleanup  = 10 * time.Minute

	warningInterval = 30 * time.Second
)

// userLimit tracks rate limit state for a single user
type userLimit struct {
	limiter       *rate.Limiter
	mu            sync.Mutex
	warningsSent  int
	lastWarningAt time.Time
}

// RateLimiterMiddleware implements token bucket rate limiting per user
type RateLimiterMiddleware struct {
	limits   *gocache.Cache
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	notifier Notifier
	now      func() time.Time
}

// NewRateLimiterMiddleware creates a new rate limiter middleware
func NewRateLimiterMiddleware(requestsPerMinute, burstSize int, notifier Notifier) *RateLimiterMiddleware {
	if burstSize < 1 {
		burstSize = 1
	}

	return &RateLimiterMiddleware{
		limits:   gocache.New(inactiveUserTTL, limiterCleanup),
		limit:    rate.Limit(float64(requestsPerMinute) / 60.0),
		burst:    burstSize,
		notifier: notifier,
		now:      time.Now,
	}
}

// Handle drops the update when its sender is over the limit
func (rl *RateLimiterMiddleware) Handle(ctx context.Context, update tgbotapi.Update, next Next) {
	userID, chatID := updateIDs(update)
	if userID == 0 {
		next(ctx, update)
		return
	}

	if !rl.allowRequest(ctx, userID, chatID) {
		ctxzap.Warn(ctx, "rate limit exceeded")
		return
	}

	next(ctx, update)
}

func (rl *RateLimiterMiddleware) userLimit(userID int64) *userLimit {
	key := strconv.FormatInt(userID, 10)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if v, ok := rl.limits.Get(key); ok {
		limit := v.(*userLimit)
		rl.limits.SetDefault(key, limit)
		return limit
	}

	limit := &userLimit{limiter: rate.NewLimiter(rl.limit, rl.burst)}
	rl.limits.SetDefault(key, limit)
	return limit
}

// allowRequest checks if request is allowed under rate limit
func (rl *RateLimiterMiddleware) allowRequest(ctx context.Context, userID, chatID int64) bool {
	limit := rl.userLimit(userID)

	limit.mu.Lock()
	defer limit.mu.Unlock()

	now := rl.now()
	if limit.limiter.AllowN(now, 1) {
		limit.warningsSent = 0
		return true
	}

	if now.Sub(limit.lastWarningAt) > warningInterval {
		limit.warningsSent++
		limit.lastWarningAt = now
		rl.sendRateLimitWarning(ctx, chatID, limit.warningsSent)
	}

	return false
}

func (rl *RateLimiterMiddleware) sendRateLimitWarning(ctx context.Context, chatID int64, warningCount int) {
	if chatID == 0 {
		return
	}

	text := render.WarnRateLimit
	if warningCount >= 2 {
		text = render.WarnRateLimitRepeated
	}

	if err := rl.notifier.Send(chatID, text, nil); err != nil {
		ctxzap.Error(ctx, "failed to send rate limit warning", zap.Error(err))
	}
}
