package assessment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"genai-maturity/backend/internal/ai"
	"genai-maturity/backend/internal/metrics"
	"genai-maturity/backend/internal/scoring"
)

// Summary builds the executive narrative for an assessment. It never writes to storage;
// when no recommendations were generated yet the rule table is evaluated in memory.
func (s *Service) Summary(ctx context.Context, assessmentID uint) (ai.Summary, error) {
	db := s.db.WithContext(ctx)
	record, err := loadAssessment(db, assessmentID)
	if err != nil {
		return ai.Summary{}, err
	}
	archetype := record.ArchetypeOrClassify()
	scores := record.DimensionScores()

	stored, err := db.ListRecommendations(assessmentID)
	if err != nil {
		return ai.Summary{}, fmt.Errorf("list recommendations: %w", err)
	}
	var drafts []scoring.Draft
	if len(stored) == 0 {
		drafts = scoring.GenerateRecommendations(archetype, scores)
	} else {
		drafts = make([]scoring.Draft, 0, len(stored))
		for _, rec := range stored {
			drafts = append(drafts, draftFromRecommendation(rec))
		}
	}

	input := ai.SummaryInput{
		Organization:    record.GCCName,
		Archetype:       archetype,
		Overall:         record.OverallMaturityScore,
		Scores:          scores,
		Recommendations: drafts,
	}
	summary, err := s.narrate(ctx, assessmentID, input)
	if err != nil {
		return ai.Summary{}, err
	}
	metrics.SummariesGenerated.WithLabelValues(summary.Source).Inc()
	return summary, nil
}

// narrate asks the AI summarizer first and falls back to the template when it is
// missing, disabled, failing or returns an empty narrative.
func (s *Service) narrate(ctx context.Context, assessmentID uint, input ai.SummaryInput) (ai.Summary, error) {
	if s.summarizer == nil || !s.summarizer.Enabled() {
		return s.template.Summarize(ctx, input)
	}
	summary, err := s.summarizer.Summarize(ctx, input)
	if err == nil && strings.TrimSpace(summary.Narrative) == "" {
		err = errors.New("empty narrative")
	}
	if err == nil {
		return summary, nil
	}
	logrus.WithError(err).WithField("assessment_id", assessmentID).Warn("ai summary failed, using template")
	return s.template.Summarize(ctx, input)
}
