package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interview-companion/pkg/models"
)

func TestRoleName(t *testing.T) {
	t.Parallel()

	v := New()
	tests := []struct {
		role string
		ok   bool
	}{
		{"Frontend Developer", true},
		{"C++ Developer", true},
		{"UI/UX Designer (Senior)", true},
		{"Développeur Web", true},
		{"", false},
		{"   ", false},
		{"<script>", false},
		{"-Developer", false},
	}
	for _, tt := range tests {
		err := v.Var(tt.role, "role_name")
		if tt.ok {
			assert.NoError(t, err, tt.role)
		} else {
			assert.Error(t, err, tt.role)
		}
	}
}

func TestInterviewRound(t *testing.T) {
	t.Parallel()

	v := New()
	for _, round := range []string{"technical", "Managerial", "HR"} {
		assert.NoError(t, v.Var(round, "interview_round"), round)
	}
	assert.Error(t, v.Var("culture-fit", "interview_round"))
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	v := New()

	err := v.Struct(&models.ScoreResumeRequest{Role: "Developer"})
	require.Error(t, err)
	assert.Equal(t, "ResumeText is required when SessionID is not set", Describe(err))

	err = v.Struct(&models.GenerateQuestionsRequest{Role: "Developer", Round: "lunch"})
	require.Error(t, err)
	assert.Equal(t, "Round must be one of technical, managerial, hr", Describe(err))

	err = v.Struct(&models.ChatRequest{})
	require.Error(t, err)
	assert.Equal(t, "Message is required", Describe(err))
}
