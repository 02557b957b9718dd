package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interview-companion/internal/session"
	"interview-companion/pkg/models"
)

type stubModel struct {
	reply      string
	err        error
	gotHistory []models.ChatMessage
}

func (s *stubModel) Chat(_ context.Context, history []models.ChatMessage, _ string) (string, error) {
	s.gotHistory = history
	return s.reply, s.err
}

func TestReplyCreatesSessionAndKeepsHistory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sessions := session.NewMemoryStore(time.Hour, 50)
	model := &stubModel{reply: "Practice out loud."}
	svc := NewService(model, sessions, 50, nil)

	reply, sessionID, err := svc.Reply(ctx, "", "How do I prepare?")
	require.NoError(t, err)
	assert.Equal(t, "Practice out loud.", reply)
	require.NotEmpty(t, sessionID)
	assert.Empty(t, model.gotHistory)

	model.reply = "Use STAR."
	_, again, err := svc.Reply(ctx, sessionID, "  And behavioural questions? ")
	require.NoError(t, err)
	assert.Equal(t, sessionID, again)
	require.Len(t, model.gotHistory, 2)
	assert.Equal(t, "How do I prepare?", model.gotHistory[0].Content)
	assert.Equal(t, models.ChatRoleAssistant, model.gotHistory[1].Role)

	msgs, err := sessions.History(ctx, sessionID, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 4)
	assert.Equal(t, "And behavioural questions?", msgs[2].Content)
}

func TestReplyHistoryLimit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sessions := session.NewMemoryStore(time.Hour, 50)
	model := &stubModel{reply: "ok"}
	svc := NewService(model, sessions, 3, nil)

	_, id, err := svc.Reply(ctx, "", "one")
	require.NoError(t, err)
	_, _, err = svc.Reply(ctx, id, "two")
	require.NoError(t, err)
	_, _, err = svc.Reply(ctx, id, "three")
	require.NoError(t, err)

	require.Len(t, model.gotHistory, 3)
	assert.Equal(t, "ok", model.gotHistory[0].Content)
	assert.Equal(t, "two", model.gotHistory[1].Content)
}

func TestReplyErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sessions := session.NewMemoryStore(time.Hour, 50)

	svc := NewService(&stubModel{reply: "ok"}, sessions, 10, nil)
	_, _, err := svc.Reply(ctx, "", "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, _, err = svc.Reply(ctx, "unknown", "hi")
	assert.ErrorIs(t, err, session.ErrNotFound)

}

type countingStore struct {
	session.Store
	created int
}

func (c *countingStore) Create(ctx context.Context, s *models.Session) error {
	c.created++
	return c.Store.Create(ctx, s)
}

func TestReplyModelFailureLeavesNoSession(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sessions := &countingStore{Store: session.NewMemoryStore(time.Hour, 50)}

	upstream := errors.New("LLM provider is not available")
	svc := NewService(&stubModel{err: upstream}, sessions, 10, nil)
	_, id, err := svc.Reply(ctx, "", "hi")
	assert.ErrorIs(t, err, upstream)
	assert.Empty(t, id)
	assert.Zero(t, sessions.created)

	existing := &models.Session{}
	require.NoError(t, sessions.Create(ctx, existing))
	_, id, err = svc.Reply(ctx, existing.ID, "hi")
	assert.ErrorIs(t, err, upstream)
	assert.Equal(t, existing.ID, id)

	msgs, err := sessions.History(ctx, existing.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, msgs, "failed turns are not stored")
}
