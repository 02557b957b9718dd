package models

import "time"

// InsightSource records which engine produced a ResumeInsights value
type InsightSource string

const (
	InsightSourceAI        InsightSource = "ai"
	InsightSourceHeuristic InsightSource = "heuristic"
)

// ResumeInsights is the feedback payload for an analysed resume.
// matchScore, missingKeywords and suggestions share their names with the
// heuristic MatchResult so clients can render either.
type ResumeInsights struct {
	MatchScore      int           `json:"matchScore"`
	MissingKeywords []string      `json:"missingKeywords"`
	Opinion         string        `json:"opinion,omitempty"`
	Suggestions     []string      `json:"suggestions"`
	Source          InsightSource `json:"source"`
	Degraded        bool          `json:"degraded,omitempty"`
}

// UploadResumeResponse is returned by the resume upload endpoint
type UploadResumeResponse struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	SessionID string          `json:"sessionId"`
	Role      string          `json:"role"`
	Insights  *ResumeInsights `json:"insights"`
}

// HistoryEntry is one stored analysis for a user
type HistoryEntry struct {
	ID         string        `json:"id"`
	Email      string        `json:"email"`
	Role       string        `json:"role"`
	Filename   string        `json:"filename,omitempty"`
	MatchScore int           `json:"matchScore"`
	Source     InsightSource `json:"source"`
	CreatedAt  time.Time     `json:"createdAt"`

	MissingKeywords []string `json:"missingKeywords"`
}

// HistoryResponse lists a user's past analyses, newest first
type HistoryResponse struct {
	Email   string         `json:"email"`
	Entries []HistoryEntry `json:"entries"`
	Count   int            `json:"count"`
}
