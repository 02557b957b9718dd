package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interview-companion/internal/extract"
	"interview-companion/internal/history"
	"interview-companion/internal/scoring"
	"interview-companion/internal/session"
	"interview-companion/pkg/models"
)

type stubExtractor struct {
	text string
	err  error
}

func (s stubExtractor) Extract(context.Context, string, []byte) (string, error) {
	return s.text, s.err
}

type stubAnalyzer struct {
	insights *models.ResumeInsights
	err      error
	gotRole  string
}

func (s *stubAnalyzer) AnalyzeResume(_ context.Context, _ string, role string) (*models.ResumeInsights, error) {
	s.gotRole = role
	return s.insights, s.err
}

type failingHistory struct{}

func (failingHistory) Append(context.Context, *models.HistoryEntry) error {
	return errors.New("db down")
}

func (failingHistory) List(context.Context, string, int) ([]models.HistoryEntry, error) {
	return nil, nil
}

func (failingHistory) Close() error { return nil }

func newTestService(ext extract.TextExtractor, analyzer Analyzer, opts ...Option) (*Service, *session.MemoryStore) {
	sessions := session.NewMemoryStore(time.Hour, 50)
	return NewService(ext, analyzer, scoring.NewScorer(scoring.DefaultBaseline), sessions, nil, opts...), sessions
}

func TestAnalyzeUsesAIInsights(t *testing.T) {
	t.Parallel()

	analyzer := &stubAnalyzer{insights: &models.ResumeInsights{
		MatchScore:      77,
		MissingKeywords: []string{"Kubernetes"},
		Opinion:         "Strong backend profile",
		Suggestions:     []string{"Add cloud experience"},
	}}
	svc, sessions := newTestService(stubExtractor{text: "Go and Postgres"}, analyzer)

	out, err := svc.Analyze(context.Background(), AnalyzeInput{Role: "Backend Developer", Filename: "cv.pdf", Data: []byte("x")})
	require.NoError(t, err)
	assert.Equal(t, "Backend Developer", out.Role)
	assert.Equal(t, 77, out.Insights.MatchScore)
	assert.Equal(t, models.InsightSourceAI, out.Insights.Source)
	assert.False(t, out.Insights.Degraded)

	sess, err := sessions.Get(context.Background(), out.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "Go and Postgres", sess.ResumeText)
	assert.Equal(t, 77, sess.Insights.MatchScore)
}

func TestAnalyzeFallsBackToScorer(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(stubExtractor{text: ""}, &stubAnalyzer{err: errors.New("AI returned invalid JSON format")})

	out, err := svc.Analyze(context.Background(), AnalyzeInput{Role: "Frontend Developer", Filename: "cv.txt"})
	require.NoError(t, err)
	assert.Equal(t, 65, out.Insights.MatchScore)
	assert.Equal(t, []string{"react", "javascript", "project"}, out.Insights.MissingKeywords)
	assert.Equal(t, models.InsightSourceHeuristic, out.Insights.Source)
	assert.True(t, out.Insights.Degraded)
}

func TestAnalyzeWithoutAnalyzer(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(stubExtractor{text: "Led a team with strong communication"}, nil)

	out, err := svc.Analyze(context.Background(), AnalyzeInput{Role: "Engineering Manager"})
	require.NoError(t, err)
	assert.Equal(t, scoring.DefaultBaseline, out.Insights.MatchScore)
	assert.Equal(t, []string{scoring.AlignedMessage}, out.Insights.Suggestions)
}

func TestAnalyzeDefaultsRole(t *testing.T) {
	t.Parallel()

	analyzer := &stubAnalyzer{insights: &models.ResumeInsights{MatchScore: 50}}
	svc, _ := newTestService(stubExtractor{text: "text"}, analyzer)

	out, err := svc.Analyze(context.Background(), AnalyzeInput{Role: "   "})
	require.NoError(t, err)
	assert.Equal(t, DefaultRole, out.Role)
	assert.Equal(t, DefaultRole, analyzer.gotRole)

	svc, _ = newTestService(stubExtractor{text: "text"}, analyzer, WithDefaultRole("Data Engineer"))
	out, err = svc.Analyze(context.Background(), AnalyzeInput{})
	require.NoError(t, err)
	assert.Equal(t, "Data Engineer", out.Role)
}

func TestAnalyzeExtractionErrorSkipsScoring(t *testing.T) {
	t.Parallel()

	analyzer := &stubAnalyzer{}
	svc, _ := newTestService(stubExtractor{err: extract.ErrUnsupportedType}, analyzer)

	out, err := svc.Analyze(context.Background(), AnalyzeInput{Role: "Developer", Filename: "cv.png"})
	assert.Nil(t, out)
	assert.ErrorIs(t, err, extract.ErrUnsupportedType)
	assert.Empty(t, analyzer.gotRole)
}

func TestAnalyzeRecordsHistory(t *testing.T) {
	t.Parallel()

	store := history.NewMemoryStore(10)
	svc, _ := newTestService(stubExtractor{text: "figma portfolio"}, nil, WithHistory(store))

	_, err := svc.Analyze(context.Background(), AnalyzeInput{Role: "UI Designer", Filename: "cv.pdf", Email: "Ada@Example.com"})
	require.NoError(t, err)
	_, err = svc.Analyze(context.Background(), AnalyzeInput{Role: "UI Designer", Filename: "anon.pdf"})
	require.NoError(t, err)

	entries, err := store.List(context.Background(), "ada@example.com", 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "cv.pdf", entries[0].Filename)
	assert.Equal(t, 90, entries[0].MatchScore)
	assert.Equal(t, models.InsightSourceHeuristic, entries[0].Source)
}

func TestAnalyzeHistoryFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(stubExtractor{text: "text"}, nil, WithHistory(failingHistory{}))

	out, err := svc.Analyze(context.Background(), AnalyzeInput{Role: "Developer", Email: "a@b.co"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.SessionID)
}

func TestScore(t *testing.T) {
	t.Parallel()

	svc, sessions := newTestService(stubExtractor{}, nil)
	ctx := context.Background()

	sess := &models.Session{Role: "Product Designer", ResumeText: "Figma work, portfolio at example.com"}
	require.NoError(t, sessions.Create(ctx, sess))

	tests := []struct {
		name      string
		role      string
		text      string
		sessionID string
		want      int
		wantErr   error
	}{
		{name: "explicit text", role: "Frontend Developer", text: "React JavaScript project", want: 90},
		{name: "text from session", role: "Product Designer", sessionID: sess.ID, want: 90},
		{name: "role from session", sessionID: sess.ID, want: 90},
		{name: "session role overridden", role: "Developer", sessionID: sess.ID, want: 65},
		{name: "unknown session", role: "Developer", sessionID: "missing", wantErr: session.ErrNotFound},
		{name: "nothing to score", role: "Developer", wantErr: ErrNoResumeText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := svc.Score(ctx, tt.role, tt.text, tt.sessionID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.MatchScore)
		})
	}
}
