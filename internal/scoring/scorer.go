// Package scoring implements the offline resume-to-role match heuristic.
//
// The scorer is pure: the same role and resume text always yield the same
// MatchResult, and a Scorer may be shared between goroutines.
package scoring

import "strings"

const (
	// DefaultBaseline is the score a resume starts from before penalties
	DefaultBaseline = 90
	// MinScore is the floor applied after all penalties
	MinScore = 40
	// MaxScore is the upper bound for any configured baseline
	MaxScore = 100

	// AlignedMessage is emitted when no keyword rule is unmet
	AlignedMessage = "Resume aligns well with the role."
)

// MatchResult is the heuristic verdict for a resume. Its JSON shape is a
// subset of the AI insights payload so callers can use either.
type MatchResult struct {
	MatchScore      int      `json:"matchScore"`
	MissingKeywords []string `json:"missingKeywords"`
	Suggestions     []string `json:"suggestions"`
}

// Scorer scores resumes against role keyword rules
type Scorer struct {
	baseline int
}

// NewScorer creates a scorer starting from baseline, clamped to [MinScore, MaxScore]
func NewScorer(baseline int) *Scorer {
	if baseline < MinScore {
		baseline = MinScore
	}
	if baseline > MaxScore {
		baseline = MaxScore
	}
	return &Scorer{baseline: baseline}
}

// Baseline returns the starting score
func (s *Scorer) Baseline() int {
	return s.baseline
}

// Score computes the match score and improvement suggestions for resumeText
func (s *Scorer) Score(role, resumeText string) MatchResult {
	lower := strings.ToLower(resumeText)

	result := MatchResult{
		MatchScore:      s.baseline,
		MissingKeywords: []string{},
		Suggestions:     []string{},
	}

	for _, category := range Categories(role) {
		for _, rule := range defaultRules[category] {
			if rule.Satisfied(lower) {
				continue
			}
			result.Suggestions = append(result.Suggestions, rule.Suggestion)
			result.MissingKeywords = append(result.MissingKeywords, rule.Keyword)
			result.MatchScore -= rule.Penalty
		}
	}

	if len(result.Suggestions) == 0 {
		result.Suggestions = append(result.Suggestions, AlignedMessage)
	}

	if result.MatchScore < MinScore {
		result.MatchScore = MinScore
	}

	return result
}

var defaultScorer = NewScorer(DefaultBaseline)

// Score scores resumeText against role using the default baseline
func Score(role, resumeText string) MatchResult {
	return defaultScorer.Score(role, resumeText)
}
