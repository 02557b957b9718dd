package models

// ScoreResumeRequest asks for the offline heuristic score.
// Either ResumeText or SessionID must be supplied.
type ScoreResumeRequest struct {
	Role       string `json:"role" validate:"required,role_name"`
	ResumeText string `json:"resumeText,omitempty" validate:"required_without=SessionID"`
	SessionID  string `json:"sessionId,omitempty" validate:"omitempty,uuid4"`
}

// GenerateQuestionsRequest asks for interview questions for a role and round
type GenerateQuestionsRequest struct {
	Role      string `json:"role" validate:"required,role_name"`
	Round     string `json:"round,omitempty" validate:"omitempty,interview_round"`
	SessionID string `json:"sessionId,omitempty" validate:"omitempty,uuid4"`
}

// EvaluateAnswerRequest asks for feedback on a single answer
type EvaluateAnswerRequest struct {
	Question  string `json:"question" validate:"required,max=2000"`
	Answer    string `json:"answer" validate:"required,max=10000"`
	SessionID string `json:"sessionId,omitempty" validate:"omitempty,uuid4"`
}

// ChatRequest carries one user message to the assistant
type ChatRequest struct {
	Message   string `json:"message" validate:"required,max=4000"`
	SessionID string `json:"sessionId,omitempty" validate:"omitempty,uuid4"`
}
