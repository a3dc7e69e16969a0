package retry

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	defaultAttempts = 5
	defaultDelay    = 50 * time.Millisecond
	defaultMaxDelay = time.Second
)

type RetryConfig struct {
	Attempts uint          `env:"ATTEMPTS" envDefault:"5"`
	Delay    time.Duration `env:"DELAY" envDefault:"50ms"`
	MaxDelay time.Duration `env:"MAX_DELAY" envDefault:"1s"`
}

func (rc *RetryConfig) ToRetryOptions() []retry.Option {
	return []retry.Option{
		retry.Attempts(rc.Attempts),
		retry.Delay(rc.Delay),
		retry.MaxDelay(rc.MaxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	}
}

func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		Attempts: defaultAttempts,
		Delay:    defaultDelay,
		MaxDelay: defaultMaxDelay,
	}
}

// Do runs fn until it succeeds, ctx is done, or retryIf rejects the error.
func Do(ctx context.Context, cfg *RetryConfig, retryIf func(error) bool, fn func() error) error {
	if cfg == nil {
		cfg = DefaultRetryConfig()
	}

	opts := append(cfg.ToRetryOptions(),
		retry.Context(ctx),
		retry.RetryIf(retryIf),
	)

	return retry.Do(fn, opts...)
}
