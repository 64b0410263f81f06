// Package scoring computes assessment scores and folds them into a user's running stats.
// Everything here is pure; persistence belongs to the callers.
package scoring

import (
	"errors"
	"math"
	"time"

	"github.com/studyswaps/learning-service/internal/models"
)

var (
	ErrAlreadyCompleted    = errors.New("assessment already completed")
	ErrAnswerCountMismatch = errors.New("answer count does not match question count")
	ErrNoQuestions         = errors.New("assessment has no questions")
)

// QuestionResult is the per-question outcome shown on the review screen
type QuestionResult struct {
	QuestionID string `json:"questionId"`
	Selected   int    `json:"selected"`
	Correct    int    `json:"correct"`
	IsCorrect  bool   `json:"isCorrect"`
}

type Result struct {
	Score          float64          `json:"score"`
	CorrectCount   int              `json:"correctCount"`
	TotalQuestions int              `json:"totalQuestions"`
	PointsEarned   int              `json:"pointsEarned"`
	Results        []QuestionResult `json:"results"`
}

// Score compares answers position by position with each question's correct option.
// The returned Score is rounded to hundredths, PointsEarned is its floor.
func Score(assessment *models.Assessment, answers []int) (*Result, error) {
	if assessment.IsCompleted {
		return nil, ErrAlreadyCompleted
	}
	total := len(assessment.Questions)
	if total == 0 {
		return nil, ErrNoQuestions
	}
	if len(answers) != total {
		return nil, ErrAnswerCountMismatch
	}

	result := &Result{
		TotalQuestions: total,
		Results:        make([]QuestionResult, total),
	}
	for i, q := range assessment.Questions {
		ok := answers[i] == q.Correct
		if ok {
			result.CorrectCount++
		}
		result.Results[i] = QuestionResult{
			QuestionID: q.ID,
			Selected:   answers[i],
			Correct:    q.Correct,
			IsCorrect:  ok,
		}
	}

	result.Score = RoundHundredths(100 * float64(result.CorrectCount) / float64(total))
	result.PointsEarned = Points(result.Score)
	return result, nil
}

// Points is floor(score), the integer contribution to a user's total
func Points(score float64) int {
	return int(math.Floor(score))
}

func RoundHundredths(v float64) float64 {
	return math.Round(v*100) / 100
}

// ApplyScore folds one new score into prev. A zero-valued prev is a user with no history.
// The average is the exact weighted running mean; the streak counts consecutive UTC days.
func ApplyScore(prev models.UserStats, score float64, at time.Time) models.UserStats {
	next := prev
	oldCount := prev.AssessmentsCompleted

	next.AssessmentsCompleted = oldCount + 1
	next.AverageScore = (prev.AverageScore*float64(oldCount) + score) / float64(next.AssessmentsCompleted)
	next.TotalPoints = prev.TotalPoints + Points(score)
	next.Streak = nextStreak(prev, at)

	completed := at.UTC()
	next.LastCompletedAt = &completed
	return next
}

func nextStreak(prev models.UserStats, at time.Time) int {
	if prev.LastCompletedAt == nil || prev.Streak == 0 {
		return 1
	}
	switch daysBetween(*prev.LastCompletedAt, at) {
	case 0:
		return prev.Streak
	case 1:
		return prev.Streak + 1
	default:
		return 1
	}
}

func daysBetween(from, to time.Time) int {
	y1, m1, d1 := from.UTC().Date()
	y2, m2, d2 := to.UTC().Date()
	a := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	b := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
