package assessment

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"genai-maturity/backend/internal/metrics"
	"genai-maturity/backend/internal/scoring"
	"genai-maturity/backend/internal/store"
	"genai-maturity/backend/internal/util"
)

// ResponseInput is one answer in a submission.
type ResponseInput struct {
	QuestionID uint
	Value      int
}

// SubmitResponses stores the answers and rescores the assessment over every stored response.
// Either all responses are stored and the scores written, or nothing changes.
func (s *Service) SubmitResponses(ctx context.Context, assessmentID uint, responses []ResponseInput) (*store.Assessment, error) {
	if len(responses) == 0 {
		return nil, fmt.Errorf("%w: at least one response is required", ErrInvalidInput)
	}
	for _, resp := range responses {
		if err := scoring.ValidateValue(resp.Value); err != nil {
			return nil, fmt.Errorf("question %d: %w", resp.QuestionID, err)
		}
	}

	timer := util.StartTimer()
	var (
		updated *store.Assessment
		result  scoring.Result
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *store.Database) error {
		record, err := loadAssessment(tx, assessmentID)
		if err != nil {
			return err
		}

		ids := make([]uint, 0, len(responses))
		for _, resp := range responses {
			ids = append(ids, resp.QuestionID)
		}
		known, err := tx.QuestionsByID(ids)
		if err != nil {
			return fmt.Errorf("load questions: %w", err)
		}
		rows := make([]store.Response, 0, len(responses))
		for _, resp := range responses {
			if _, ok := known[resp.QuestionID]; !ok {
				return fmt.Errorf("question %d: %w", resp.QuestionID, ErrNotFound)
			}
			rows = append(rows, store.Response{
				AssessmentID:  assessmentID,
				QuestionID:    resp.QuestionID,
				ResponseValue: resp.Value,
			})
		}
		if err := tx.InsertResponses(rows); err != nil {
			return fmt.Errorf("store responses: %w", err)
		}

		scored, err := tx.ScoredResponses(assessmentID)
		if err != nil {
			return fmt.Errorf("load scored responses: %w", err)
		}
		result, err = scoring.ComputeScores(scored)
		if err != nil {
			return err
		}
		record.ApplyScores(result, scoring.Classify(result.Overall))
		if err := tx.SaveAssessmentScores(record); err != nil {
			return fmt.Errorf("save scores: %w", err)
		}
		updated = record
		return nil
	})
	if err != nil {
		return nil, err
	}

	archetype := updated.ArchetypeOrClassify()
	metrics.ResponsesStored.Add(float64(len(responses)))
	metrics.AssessmentsScored.WithLabelValues(string(archetype)).Inc()
	metrics.ObserveScoring(timer.Elapsed())
	logrus.WithFields(logrus.Fields{
		"assessment_id": assessmentID,
		"responses":     len(responses),
		"scored_total":  result.Responses,
		"archetype":     archetype,
		"duration_ms":   timer.ElapsedMs(),
	}).Info("assessment scored")
	return updated, nil
}
