package assessment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"genai-maturity/backend/internal/ai"
	"genai-maturity/backend/internal/catalog"
	"genai-maturity/backend/internal/metrics"
	"genai-maturity/backend/internal/store"
)

var (
	// ErrNotFound marks a missing assessment or question.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput marks a request the service rejects before touching storage.
	ErrInvalidInput = errors.New("invalid input")
)

// Service coordinates scoring, classification and persistence for assessments.
type Service struct {
	db         *store.Database
	catalog    *catalog.Service
	summarizer ai.Summarizer
	template   *ai.TemplateSummarizer
}

// NewService wires the orchestrator. A nil summarizer means template-only summaries.
func NewService(db *store.Database, resources *catalog.Service, summarizer ai.Summarizer) *Service {
	return &Service{
		db:         db,
		catalog:    resources,
		summarizer: summarizer,
		template:   ai.NewTemplateSummarizer(),
	}
}

// NewAssessment is the intake form for an organization.
type NewAssessment struct {
	GCCName                      string
	ContactEmail                 string
	AnnualProductivityUpliftment decimal.Decimal
	AttritionRate                decimal.Decimal
	GenAIUseCasesDeveloped       int
}

func (n NewAssessment) validate() error {
	if strings.TrimSpace(n.GCCName) == "" {
		return fmt.Errorf("%w: gcc_name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(n.ContactEmail) == "" {
		return fmt.Errorf("%w: contact_email is required", ErrInvalidInput)
	}
	if n.AnnualProductivityUpliftment.IsNegative() {
		return fmt.Errorf("%w: annual_productivity_upliftment must be non-negative", ErrInvalidInput)
	}
	if n.AttritionRate.IsNegative() {
		return fmt.Errorf("%w: attrition_rate must be non-negative", ErrInvalidInput)
	}
	if n.GenAIUseCasesDeveloped < 0 {
		return fmt.Errorf("%w: genai_use_cases_developed must be non-negative", ErrInvalidInput)
	}
	return nil
}

// CreateAssessment stores a new, unscored assessment.
func (s *Service) CreateAssessment(ctx context.Context, input NewAssessment) (*store.Assessment, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	record := &store.Assessment{
		GCCName:                      strings.TrimSpace(input.GCCName),
		ContactEmail:                 strings.TrimSpace(input.ContactEmail),
		AnnualProductivityUpliftment: input.AnnualProductivityUpliftment.Round(2),
		AttritionRate:                input.AttritionRate.Round(2),
		GenAIUseCasesDeveloped:       input.GenAIUseCasesDeveloped,
	}
	if err := s.db.WithContext(ctx).CreateAssessment(record); err != nil {
		return nil, fmt.Errorf("create assessment: %w", err)
	}
	metrics.AssessmentsCreated.Inc()
	logrus.WithFields(logrus.Fields{
		"assessment_id": record.ID,
		"gcc_name":      record.GCCName,
	}).Info("assessment created")
	return record, nil
}

// GetAssessment loads one assessment.
func (s *Service) GetAssessment(ctx context.Context, id uint) (*store.Assessment, error) {
	return loadAssessment(s.db.WithContext(ctx), id)
}

// ListQuestions returns the questionnaire in dimension order.
func (s *Service) ListQuestions(ctx context.Context) ([]store.Question, error) {
	questions, err := s.db.WithContext(ctx).ListQuestions()
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return questions, nil
}

// Results bundles everything stored for one assessment.
type Results struct {
	Assessment      store.Assessment
	Responses       []store.Response
	Recommendations []store.Recommendation
	BusinessQueries []store.BusinessQuery
}

// GetResults returns the assessment with its responses, recommendations and business queries.
func (s *Service) GetResults(ctx context.Context, id uint) (*Results, error) {
	db := s.db.WithContext(ctx)
	record, err := loadAssessment(db, id)
	if err != nil {
		return nil, err
	}
	responses, err := db.ListResponses(id)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	recs, err := db.ListRecommendations(id)
	if err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}
	queries, err := db.ListBusinessQueries(id)
	if err != nil {
		return nil, fmt.Errorf("list business queries: %w", err)
	}
	return &Results{
		Assessment:      *record,
		Responses:       responses,
		Recommendations: recs,
		BusinessQueries: queries,
	}, nil
}

func loadAssessment(db *store.Database, id uint) (*store.Assessment, error) {
	record, err := db.GetAssessment(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("assessment %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("load assessment %d: %w", id, err)
	}
	return record, nil
}
