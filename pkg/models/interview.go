package models

import "strings"

// InterviewRound selects the flavour of generated questions
type InterviewRound string

const (
	RoundTechnical  InterviewRound = "technical"
	RoundManagerial InterviewRound = "managerial"
	RoundHR         InterviewRound = "hr"
)

// Rounds lists the supported rounds
var Rounds = []InterviewRound{RoundTechnical, RoundManagerial, RoundHR}

// ParseRound normalises a round name; blank means technical
func ParseRound(s string) (InterviewRound, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return RoundTechnical, true
	}
	for _, r := range Rounds {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

// GenerateQuestionsResponse lists generated questions
type GenerateQuestionsResponse struct {
	Role      string         `json:"role"`
	Round     InterviewRound `json:"round"`
	Questions []string       `json:"questions"`
}

// EvaluateAnswerResponse carries feedback for one answer
type EvaluateAnswerResponse struct {
	Feedback string `json:"feedback"`
}
