package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/studyswaps/learning-service/internal/models"
	"github.com/studyswaps/learning-service/internal/repositories"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet  = "Assessments"
	questionSheet = "Answers"
)

var (
	summaryHeaders = []string{
		"Assessment ID", "Subject", "Topic", "Key Stage", "Questions",
		"Completed", "Score", "Created At", "Completed At",
	}
	questionHeaders = []string{
		"Assessment ID", "Question ID", "Question", "Your Answer", "Correct Answer", "Is Correct",
	}
)

func (s *assessmentService) Export(ctx context.Context, userID string) ([]byte, error) {
	assessments, err := s.repo.Assessment().ListByUser(ctx, nil, userID, repositories.AssessmentFilters{})
	if err != nil {
		return nil, storeError("list assessments", err)
	}

	data, err := renderAssessmentWorkbook(assessments)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Exported assessments",
		"user_id", userID,
		"count", len(assessments),
		"bytes", len(data))
	return data, nil
}

// renderAssessmentWorkbook writes one summary row per assessment and one answer row
// per question of every completed assessment
func renderAssessmentWorkbook(assessments []*models.Assessment) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	if _, err := f.NewSheet(questionSheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	if err := writeRow(f, summarySheet, 1, toCells(summaryHeaders)); err != nil {
		return nil, err
	}
	if err := writeRow(f, questionSheet, 1, toCells(questionHeaders)); err != nil {
		return nil, err
	}

	answerRow := 2
	for i, a := range assessments {
		if err := writeRow(f, summarySheet, i+2, summaryRow(a)); err != nil {
			return nil, err
		}
		if !a.IsCompleted {
			continue
		}
		for qi, q := range a.Questions {
			selected := -1
			if qi < len(a.UserAnswers) {
				selected = a.UserAnswers[qi]
			}
			row := []interface{}{
				a.ID, q.ID, q.Question,
				optionLabel(q, selected), optionLabel(q, q.Correct), selected == q.Correct,
			}
			if err := writeRow(f, questionSheet, answerRow, row); err != nil {
				return nil, err
			}
			answerRow++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func summaryRow(a *models.Assessment) []interface{} {
	score := ""
	if a.Score != nil {
		score = fmt.Sprintf("%.2f", *a.Score)
	}
	completedAt := ""
	if a.CompletedAt != nil {
		completedAt = a.CompletedAt.UTC().Format("2006-01-02 15:04")
	}
	return []interface{}{
		a.ID, a.Subject, a.Topic, string(a.KeyStage), len(a.Questions),
		a.IsCompleted, score, a.CreatedAt.UTC().Format("2006-01-02 15:04"), completedAt,
	}
}

func optionLabel(q models.Question, idx int) string {
	if idx < 0 || idx >= len(q.Options) {
		return "-"
	}
	return fmt.Sprintf("%c. %s", 'A'+idx, strings.TrimSpace(q.Options[idx]))
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toCells(headers []string) []interface{} {
	out := make([]interface{}, len(headers))
	for i, h := range headers {
		out[i] = h
	}
	return out
}
