package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/futig/resource-assistant/internal/entity"
)

// Manager manages telegram chat states
type Manager struct {
	storage Storage
	now     func() time.Time
}

// NewManager creates a new state manager
func NewManager(storage Storage) *Manager {
	return &Manager{
		storage: storage,
		now:     time.Now,
	}
}

// Get returns the state of the user, a fresh chat mode state when none is stored
func (m *Manager) Get(ctx context.Context, userID int64) (*ChatState, error) {
	st, err := m.storage.Get(ctx, userID)
	if errors.Is(err, ErrStateNotFound) {
		now := m.now()
		return &ChatState{
			UserID:    userID,
			Mode:      ModeChat,
			CreatedAt: now,
			UpdatedAt: now,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get chat state from storage: %w", err)
	}

	return st, nil
}

func (m *Manager) save(ctx context.Context, st *ChatState) error {
	st.UpdatedAt = m.now()

	if err := m.storage.Set(ctx, st); err != nil {
		return fmt.Errorf("save chat state to storage: %w", err)
	}

	return nil
}

// StartIntake switches the user into intake mode for sessionID
func (m *Manager) StartIntake(ctx context.Context, userID int64, sessionID string, question *entity.Question) error {
	st, err := m.Get(ctx, userID)
	if err != nil {
		return err
	}

	st.Mode = ModeIntake
	st.IntakeSessionID = sessionID
	st.LastQuestion = question

	return m.save(ctx, st)
}

// SetQuestion remembers the question the user is expected to answer next
func (m *Manager) SetQuestion(ctx context.Context, userID int64, question *entity.Question) error {
	st, err := m.Get(ctx, userID)
	if err != nil {
		return err
	}

	st.LastQuestion = question

	return m.save(ctx, st)
}

// FinishIntake returns the user to chat mode and keeps the session id for exports
func (m *Manager) FinishIntake(ctx context.Context, userID int64) error {
	st, err := m.Get(ctx, userID)
	if err != nil {
		return err
	}

	st.Mode = ModeChat
	st.LastQuestion = nil

	return m.save(ctx, st)
}

// Reset forgets everything about the user
func (m *Manager) Reset(ctx context.Context, userID int64) error {
	if err := m.storage.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete chat state from storage: %w", err)
	}

	return nil
}
