package state

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/futig/resource-assistant/internal/entity"
	gocache "github.com/patrickmn/go-cache"
)

var ErrStateNotFound = errors.New("telegram chat state not found")

type ChatMode string

const (
	// ModeChat routes free text to the action plan assistant
	ModeChat ChatMode = "chat"
	// ModeIntake routes free text to the running intake session
	ModeIntake ChatMode = "intake"
)

// ChatState is the per user UI state of the bot
type ChatState struct {
	UserID int64
	Mode   ChatMode

	// IntakeSessionID is the running or last finished intake session, kept for exports
	IntakeSessionID string
	// LastQuestion is re-sent when an answer is rejected
	LastQuestion *entity.Question

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *ChatState) clone() *ChatState {
	c := *s
	if s.LastQuestion != nil {
		q := *s.LastQuestion
		c.LastQuestion = &q
	}
	return &c
}

// Storage defines the interface for chat state persistence
type Storage interface {
	Get(ctx context.Context, userID int64) (*ChatState, error)
	Set(ctx context.Context, state *ChatState) error
	Delete(ctx context.Context, userID int64) error
}

// MemoryStorage keeps chat states in process memory. States expire after ttl
// without writes, which also drops the link to an expired intake session.
type MemoryStorage struct {
	cache *gocache.Cache
}

func NewMemoryStorage(ttl, cleanupInterval time.Duration) *MemoryStorage {
	return &MemoryStorage{
		cache: gocache.New(ttl, cleanupInterval),
	}
}

func (s *MemoryStorage) Get(_ context.Context, userID int64) (*ChatState, error) {
	v, ok := s.cache.Get(key(userID))
	if !ok {
		return nil, ErrStateNotFound
	}

	st, ok := v.(*ChatState)
	if !ok {
		return nil, ErrStateNotFound
	}

	return st.clone(), nil
}

func (s *MemoryStorage) Set(_ context.Context, state *ChatState) error {
	s.cache.SetDefault(key(state.UserID), state.clone())
	return nil
}

func (s *MemoryStorage) Delete(_ context.Context, userID int64) error {
	s.cache.Delete(key(userID))
	return nil
}

func key(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
