// Package processors cleans up raw model output into service types.
package processors

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"interview-companion/pkg/models"
)

// ErrInvalidJSON is returned when the model output holds no decodable JSON object
var ErrInvalidJSON = errors.New("AI returned invalid JSON format")

// StripCodeFence removes a surrounding markdown code block, if any
func StripCodeFence(raw string) string {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```JSON")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx != -1 {
			text = text[:idx]
		}
	}
	return strings.TrimSpace(text)
}

// extractObject trims any prose around the outermost JSON object
func extractObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return text
	}
	return text[start : end+1]
}

// ParseInsights decodes resume insights leniently: numbers may arrive as
// strings, lists as a single string, and the score is clamped to [0, 100].
func ParseInsights(raw string) (*models.ResumeInsights, error) {
	cleaned := extractObject(StripCodeFence(raw))

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	score := coerceFloat(data["matchScore"])
	if math.IsNaN(score) {
		return nil, fmt.Errorf("%w: matchScore missing or not a number", ErrInvalidJSON)
	}

	return &models.ResumeInsights{
		MatchScore:      clampScore(score),
		MissingKeywords: coerceStrings(data["missingKeywords"]),
		Opinion:         coerceString(data["opinion"]),
		Suggestions:     coerceStrings(data["suggestions"]),
		Source:          models.InsightSourceAI,
	}, nil
}

var listMarker = regexp.MustCompile(`^\s*(?:[-*•]+|\d+[.)]|Q\d+[.:)]|Question\s+\d+[.:)])\s*`)

// SplitQuestions turns a newline separated list into at most limit questions,
// dropping blank lines, headings and list markers.
func SplitQuestions(raw string, limit int) []string {
	questions := make([]string, 0, limit)
	for _, line := range strings.Split(StripCodeFence(raw), "\n") {
		line = strings.TrimSpace(listMarker.ReplaceAllString(line, ""))
		line = strings.Trim(line, "*\"")
		line = strings.TrimSpace(line)
		if line == "" || strings.HasSuffix(line, ":") {
			continue
		}
		questions = append(questions, line)
		if limit > 0 && len(questions) == limit {
			break
		}
	}
	return questions
}

func clampScore(score float64) int {
	rounded := int(math.Round(score))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case string:
		trimmed := strings.TrimSuffix(strings.TrimSpace(val), "%")
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", val))
	}
}

func coerceStrings(v any) []string {
	out := []string{}
	switch val := v.(type) {
	case []any:
		for _, item := range val {
			if s := coerceString(item); s != "" {
				out = append(out, s)
			}
		}
	case string:
		for _, part := range strings.Split(val, ",") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
