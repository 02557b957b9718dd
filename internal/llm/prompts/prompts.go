// Package prompts builds the prompt texts sent to the hosted model.
package prompts

import (
	"fmt"
	"strings"
)

const ResumeEvaluatorSystem = "You are an expert resume evaluator. Always respond with valid JSON."

const InterviewerSystem = "You are an experienced interviewer preparing candidates for job interviews. Be concise and practical."

const ChatSystem = `You are Interview Companion, a friendly assistant that helps people prepare for job interviews.
Answer questions about interview preparation, resumes and career growth. Keep replies short and actionable.`

// ResumeInsights asks for the structured resume feedback payload
func ResumeInsights(role, resumeText string) string {
	return fmt.Sprintf(`You are an expert technical recruiter and hiring manager.
Analyze the following resume for the role of %q.

Resume Content:
%s

Provide the output in the following JSON format ONLY (no markdown, no extra text):
{
    "matchScore": <number between 0-100>,
    "missingKeywords": [<array of strings>],
    "opinion": "<short professional opinion on the candidate's suitability>",
    "suggestions": [<array of strings for improvement>]
}`, role, resumeText)
}

// Questions asks for count interview questions, one per line
func Questions(role, round string, count int, resumeText string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d %s interview questions for %s.\n", count, round, role)
	if strings.TrimSpace(resumeText) != "" {
		b.WriteString("Tailor them to the candidate's background:\n")
		b.WriteString(resumeText)
		b.WriteString("\n")
	}
	b.WriteString("Return only the questions, one per line, without numbering or commentary.")
	return b.String()
}

// EvaluateAnswer asks for short feedback on one answer
func EvaluateAnswer(question, answer string) string {
	return fmt.Sprintf(`Question: %s
Answer: %s

Give short constructive feedback and improvement tips.`, question, answer)
}
