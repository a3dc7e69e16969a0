package state

import (
	"context"
	"testing"
	"time"

	"github.com/futig/resource-assistant/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerDefaultsToChatMode(t *testing.T) {
	m := NewManager(NewMemoryStorage(time.Minute, time.Minute))

	st, err := m.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), st.UserID)
	assert.Equal(t, ModeChat, st.Mode)
	assert.Empty(t, st.IntakeSessionID)
}

func TestManagerIntakeLifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStorage(time.Minute, time.Minute))

	q := &entity.Question{Type: entity.IntakeStepEmergency, Text: "emergency?"}
	require.NoError(t, m.StartIntake(ctx, 7, "s-1", q))

	st, err := m.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, ModeIntake, st.Mode)
	assert.Equal(t, "s-1", st.IntakeSessionID)
	assert.Equal(t, q, st.LastQuestion)

	next := &entity.Question{Type: entity.IntakeStepZipCode, Text: "zip?"}
	require.NoError(t, m.SetQuestion(ctx, 7, next))

	st, err = m.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, entity.IntakeStepZipCode, st.LastQuestion.Type)

	require.NoError(t, m.FinishIntake(ctx, 7))

	st, err = m.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, ModeChat, st.Mode)
	assert.Equal(t, "s-1", st.IntakeSessionID)
	assert.Nil(t, st.LastQuestion)

	require.NoError(t, m.Reset(ctx, 7))

	st, err = m.Get(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, st.IntakeSessionID)
}

func TestMemoryStorageCopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage(time.Minute, time.Minute)

	require.NoError(t, s.Set(ctx, &ChatState{UserID: 1, LastQuestion: &entity.Question{Text: "a"}}))

	st, err := s.Get(ctx, 1)
	require.NoError(t, err)
	st.LastQuestion.Text = "changed"

	again, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "a", again.LastQuestion.Text)

	_, err = s.Get(ctx, 2)
	assert.ErrorIs(t, err, ErrStateNotFound)
}
