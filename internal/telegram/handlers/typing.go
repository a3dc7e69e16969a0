package handlers

import (
	"context"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Telegram drops the typing action after five seconds
const typingInterval = 4 * time.Second

// TypingNotifier sends periodic "typing" actions while a slow operation runs
type TypingNotifier struct {
	sender   Sender
	chatID   int64
	interval time.Duration
	done     chan struct{}
	started  bool
}

// NewTypingNotifier creates a new typing indicator
func NewTypingNotifier(sender Sender, chatID int64) *TypingNotifier {
	return &TypingNotifier{
		sender:   sender,
		chatID:   chatID,
		interval: typingInterval,
		done:     make(chan struct{}),
	}
}

// Start sends a typing action now and then every interval until Stop
func (t *TypingNotifier) Start(ctx context.Context) {
	if t.started {
		return
	}
	t.started = true

	t.send(ctx)

	go func() {
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				t.send(ctx)
			case <-t.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (t *TypingNotifier) send(ctx context.Context) {
	if err := t.sender.SendTyping(t.chatID); err != nil {
		ctxzap.Warn(ctx, "failed to send typing action",
			zap.Error(err),
			zap.Int64("chat_id", t.chatID),
		)
	}
}

// Stop stops sending typing indicators
func (t *TypingNotifier) Stop() {
	if !t.started {
		return
	}

	close(t.done)
	t.started = false
}
