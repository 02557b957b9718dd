package interview

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
	questions []string
	feedback  string
	err       error

	gotRole   string
	gotRound  string
	gotCount  int
	gotResume string
}

func (s *stubModel) GenerateQuestions(_ context.Context, role, round string, count int, resumeText string) ([]string, error) {
	s.gotRole, s.gotRound, s.gotCount, s.gotResume = role, round, count, resumeText
	return s.questions, s.err
}

func (s *stubModel) EvaluateAnswer(context.Context, string, string) (string, error) {
	return s.feedback, s.err
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sessions := session.NewMemoryStore(time.Hour, 50)
	sess := &models.Session{Role: "Backend Developer", ResumeText: "Go services"}
	require.NoError(t, sessions.Create(ctx, sess))

	tests := []struct {
		name       string
		role       string
		round      string
		sessionID  string
		wantRole   string
		wantRound  models.InterviewRound
		wantResume string
		wantErr    error
	}{
		{name: "default round", role: "QA Engineer", wantRole: "QA Engineer", wantRound: models.RoundTechnical},
		{name: "case insensitive round", role: "QA Engineer", round: "HR", wantRole: "QA Engineer", wantRound: models.RoundHR},
		{name: "tailored from session", role: "SRE", round: "managerial", sessionID: sess.ID, wantRole: "SRE", wantRound: models.RoundManagerial, wantResume: "Go services"},
		{name: "role from session", sessionID: sess.ID, wantRole: "Backend Developer", wantRound: models.RoundTechnical, wantResume: "Go services"},
		{name: "unknown round", role: "SRE", round: "culture", wantErr: ErrUnknownRound},
		{name: "blank role", role: " ", wantErr: ErrEmptyRole},
		{name: "unknown session", role: "SRE", sessionID: "nope", wantErr: session.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			model := &stubModel{questions: []string{"Q1?", "Q2?"}}
			svc := NewService(model, sessions, 0, nil)

			questions, round, err := svc.Generate(ctx, tt.role, tt.round, tt.sessionID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []string{"Q1?", "Q2?"}, questions)
			assert.Equal(t, tt.wantRound, round)
			assert.Equal(t, tt.wantRole, model.gotRole)
			assert.Equal(t, string(tt.wantRound), model.gotRound)
			assert.Equal(t, DefaultQuestionCount, model.gotCount)
			assert.Equal(t, tt.wantResume, model.gotResume)
		})
	}
}

func TestGenerateModelError(t *testing.T) {
	t.Parallel()

	upstream := errors.New("LLM provider is not available")
	svc := NewService(&stubModel{err: upstream}, session.NewMemoryStore(time.Hour, 50), 3, nil)

	_, _, err := svc.Generate(context.Background(), "Developer", "technical", "")
	assert.ErrorIs(t, err, upstream)
}

func TestEvaluateRecordsExchange(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sessions := session.NewMemoryStore(time.Hour, 50)
	sess := &models.Session{}
	require.NoError(t, sessions.Create(ctx, sess))

	svc := NewService(&stubModel{feedback: "Use the STAR method."}, sessions, 5, nil)

	feedback, err := svc.Evaluate(ctx, "Describe a conflict.", "I talked to them.", sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "Use the STAR method.", feedback)

	msgs, err := sessions.History(ctx, sess.ID, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, models.ChatRoleAssistant, msgs[0].Role)
	assert.Equal(t, "Describe a conflict.", msgs[0].Content)
	assert.Equal(t, models.ChatRoleUser, msgs[1].Role)
	assert.Equal(t, "Use the STAR method.", msgs[2].Content)
}

func TestEvaluateErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sessions := session.NewMemoryStore(time.Hour, 50)

	svc := NewService(&stubModel{feedback: "ok"}, sessions, 5, nil)
	_, err := svc.Evaluate(ctx, "Q?", "   ", "")
	assert.ErrorIs(t, err, ErrEmptyAnswer)

	_, err = svc.Evaluate(ctx, "Q?", "A", "missing")
	assert.ErrorIs(t, err, session.ErrNotFound)

	upstream := errors.New("timeout")
	svc = NewService(&stubModel{err: upstream}, sessions, 5, nil)
	_, err = svc.Evaluate(ctx, "Q?", "A", "")
	assert.ErrorIs(t, err, upstream)
}
