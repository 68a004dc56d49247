package assessment

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"genai-maturity/backend/internal/metrics"
	"genai-maturity/backend/internal/scoring"
	"genai-maturity/backend/internal/store"
)

// GenerateRecommendations runs the rule table against the stored scores and appends the drafts.
// Calling it again appends another full set.
func (s *Service) GenerateRecommendations(ctx context.Context, assessmentID uint) ([]store.Recommendation, error) {
	var (
		recs      []store.Recommendation
		archetype scoring.Archetype
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *store.Database) error {
		record, err := loadAssessment(tx, assessmentID)
		if err != nil {
			return err
		}
		archetype = record.ArchetypeOrClassify()
		drafts := scoring.GenerateRecommendations(archetype, record.DimensionScores())
		recs = make([]store.Recommendation, 0, len(drafts))
		for _, draft := range drafts {
			recs = append(recs, store.RecommendationFromDraft(assessmentID, draft))
		}
		if err := tx.InsertRecommendations(recs); err != nil {
			return fmt.Errorf("store recommendations: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, rec := range recs {
		metrics.RecommendationsGenerated.WithLabelValues(rec.Category).Inc()
	}
	logrus.WithFields(logrus.Fields{
		"assessment_id":   assessmentID,
		"archetype":       archetype,
		"recommendations": len(recs),
	}).Info("recommendations generated")
	return recs, nil
}

func draftFromRecommendation(rec store.Recommendation) scoring.Draft {
	draft := scoring.Draft{
		Category:    scoring.Category(rec.Category),
		Title:       rec.Title,
		Description: rec.Description,
		Priority:    rec.PriorityLevel,
		Critical:    rec.IsCriticalImperative,
	}
	if rec.ExpectedImpact != nil {
		draft.ExpectedImpact = *rec.ExpectedImpact
	}
	if rec.ImplementationTimeline != nil {
		draft.Timeline = *rec.ImplementationTimeline
	}
	return draft
}
