package generator

import (
	"encoding/json"
	"fmt"

	"github.com/studyswaps/learning-service/internal/ai"
	"github.com/studyswaps/learning-service/internal/models"
)

// NewOfflineProvider answers every prompt with placeholder content so the service can
// run locally without an API key (AI_PROVIDER=mock).
func NewOfflineProvider() *ai.MockProvider {
	p := ai.NewMockProvider()
	p.Fallback = func(req ai.Request) (string, error) {
		if req.Schema == nil {
			return "Key concepts\n- Placeholder revision notes generated offline.", nil
		}

		var count int
		if _, err := fmt.Sscanf(req.Prompt, "Generate %d", &count); err != nil || count < 1 {
			count = DefaultQuestions
		}

		set := questionSet{Questions: make([]models.Question, count)}
		for i := range set.Questions {
			set.Questions[i] = models.Question{
				ID:          fmt.Sprintf("q%d", i+1),
				Question:    fmt.Sprintf("Sample question %d", i+1),
				Options:     []string{"A", "B", "C", "D"},
				Correct:     i % OptionsPerQuestion,
				Explanation: "Offline placeholder.",
			}
		}
		out, err := json.Marshal(set)
		return string(out), err
	}
	return p
}
