package assessment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"genai-maturity/backend/internal/catalog"
	"genai-maturity/backend/internal/store"
)

// Business functions a query can target.
const (
	FunctionFinance         = "finance"
	FunctionHR              = "hr"
	FunctionOperations      = "operations"
	FunctionTechnology      = "technology"
	FunctionMarketing       = "marketing"
	FunctionCustomerService = "customer_service"
	FunctionProcurement     = "procurement"
	FunctionRiskManagement  = "risk_management"
)

var businessFunctions = map[string]struct{}{
	FunctionFinance:         {},
	FunctionHR:              {},
	FunctionOperations:      {},
	FunctionTechnology:      {},
	FunctionMarketing:       {},
	FunctionCustomerService: {},
	FunctionProcurement:     {},
	FunctionRiskManagement:  {},
}

// ValidBusinessFunction reports whether value names a supported business function.
func ValidBusinessFunction(value string) bool {
	_, ok := businessFunctions[value]
	return ok
}

// NewBusinessQuery is a free-text question raised against an assessment.
type NewBusinessQuery struct {
	AssessmentID   uint
	QueryText      string
	TargetFunction string
}

// CreateBusinessQuery stores a business query for an existing assessment.
func (s *Service) CreateBusinessQuery(ctx context.Context, input NewBusinessQuery) (*store.BusinessQuery, error) {
	text := strings.TrimSpace(input.QueryText)
	if text == "" {
		return nil, fmt.Errorf("%w: query_text is required", ErrInvalidInput)
	}
	function := strings.ToLower(strings.TrimSpace(input.TargetFunction))
	if !ValidBusinessFunction(function) {
		return nil, fmt.Errorf("%w: unknown target_function %q", ErrInvalidInput, input.TargetFunction)
	}

	db := s.db.WithContext(ctx)
	if _, err := loadAssessment(db, input.AssessmentID); err != nil {
		return nil, err
	}
	query := &store.BusinessQuery{
		AssessmentID:   input.AssessmentID,
		QueryText:      text,
		TargetFunction: function,
	}
	if err := db.CreateBusinessQuery(query); err != nil {
		return nil, fmt.Errorf("create business query: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"assessment_id":   input.AssessmentID,
		"target_function": function,
	}).Info("business query recorded")
	return query, nil
}

// Resources returns Resource Hub entries matching the optional filters.
func (s *Service) Resources(archetype, dimension string) ([]store.Resource, error) {
	if s.catalog == nil {
		return nil, errors.New("resource catalog not configured")
	}
	rows, err := s.catalog.Find(archetype, dimension)
	if err != nil {
		if errors.Is(err, catalog.ErrInvalidFilter) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, fmt.Errorf("list resources: %w", err)
	}
	return rows, nil
}
