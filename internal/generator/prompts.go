package generator

import (
	"fmt"
	"strings"

	"github.com/studyswaps/learning-service/internal/ai"
)

const systemPrompt = "You write accurate, age-appropriate study material for pupils in the English national curriculum."

var questionSetSchema = &ai.Schema{
	Name:        "question-set",
	Description: "A list of multiple choice questions with one correct option each",
	Definition: map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"questions"},
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []string{"id", "question", "options", "correct", "explanation"},
					"properties": map[string]any{
						"id":       map[string]any{"type": "string"},
						"question": map[string]any{"type": "string"},
						"options": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
						"correct":     map[string]any{"type": "integer"},
						"explanation": map[string]any{"type": "string"},
					},
				},
			},
		},
	},
}

func questionPrompt(req QuestionRequest) string {
	return fmt.Sprintf(`Generate %d multiple choice questions for %s - %s suitable for %s students.
Each question has exactly %d options. "correct" is the zero-based index of the right option.
Number the ids q1, q2, ... in order and give a one or two sentence explanation for each answer.`,
		req.Count, req.Subject, req.Topic, req.KeyStage, OptionsPerQuestion)
}

func guidePrompt(req GuideRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a comprehensive revision guide for %s - %s for %s students.\n", req.Subject, req.Topic, req.KeyStage)

	if source := strings.TrimSpace(req.SourceText); source != "" {
		if len(source) > MaxSourceChars {
			source = source[:MaxSourceChars]
		}
		fmt.Fprintf(&b, "Base it on this content:\n%s\n", source)
	}

	b.WriteString(`
Include:
- Key concepts and definitions
- Important facts and figures
- Practice questions
- Memory techniques

Format as clear, structured content suitable for students.`)
	return b.String()
}
