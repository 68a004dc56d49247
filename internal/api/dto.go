package api

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"genai-maturity/backend/internal/ai"
	"genai-maturity/backend/internal/assessment"
	"genai-maturity/backend/internal/store"
)

// CreateAssessmentRequest is the intake form payload.
type CreateAssessmentRequest struct {
	GCCName                      string           `json:"gcc_name" binding:"required"`
	ContactEmail                 string           `json:"contact_email" binding:"required,email"`
	AnnualProductivityUpliftment *decimal.Decimal `json:"annual_productivity_upliftment" binding:"required"`
	AttritionRate                *decimal.Decimal `json:"attrition_rate" binding:"required"`
	GenAIUseCasesDeveloped       *int             `json:"genai_use_cases_developed" binding:"required,gte=0"`
}

// SubmitResponsesRequest carries one batch of questionnaire answers.
type SubmitResponsesRequest struct {
	Responses []ResponseItem `json:"responses" binding:"required,min=1,dive"`
}

// ResponseItem is a single answer. Range checks happen in the service so that
// out-of-range values report the scoring error.
type ResponseItem struct {
	QuestionID    uint `json:"question_id" binding:"required"`
	ResponseValue int  `json:"response_value"`
}

// CreateBusinessQueryRequest submits a free-text question about a business function.
type CreateBusinessQueryRequest struct {
	AssessmentID   uint   `json:"assessment_id" binding:"required"`
	QueryText      string `json:"query_text" binding:"required"`
	TargetFunction string `json:"target_function" binding:"required"`
}

// AssessmentDTO is the API representation of an assessment. Scores carry two decimals or null.
type AssessmentDTO struct {
	ID                           uint         `json:"id"`
	GCCName                      string       `json:"gcc_name"`
	ContactEmail                 string       `json:"contact_email"`
	AnnualProductivityUpliftment json.Number  `json:"annual_productivity_upliftment"`
	AttritionRate                json.Number  `json:"attrition_rate"`
	GenAIUseCasesDeveloped       int          `json:"genai_use_cases_developed"`
	OverallMaturityScore         *json.Number `json:"overall_maturity_score"`
	StrategyScore                *json.Number `json:"strategy_score"`
	TalentScore                  *json.Number `json:"talent_score"`
	OperatingModelScore          *json.Number `json:"operating_model_score"`
	TechnologyScore              *json.Number `json:"technology_score"`
	DataScore                    *json.Number `json:"data_score"`
	AdoptionScalingScore         *json.Number `json:"adoption_scaling_score"`
	AITrustScore                 *json.Number `json:"ai_trust_score"`
	Archetype                    *string      `json:"archetype"`
	CreatedAt                    time.Time    `json:"created_at"`
	UpdatedAt                    time.Time    `json:"updated_at"`
}

// QuestionDTO is one questionnaire entry.
type QuestionDTO struct {
	ID            uint   `json:"id"`
	Dimension     string `json:"dimension"`
	QuestionText  string `json:"question_text"`
	QuestionOrder int    `json:"question_order"`
}

// ResponseDTO is a stored answer.
type ResponseDTO struct {
	ID            uint      `json:"id"`
	AssessmentID  uint      `json:"assessment_id"`
	QuestionID    uint      `json:"question_id"`
	ResponseValue int       `json:"response_value"`
	CreatedAt     time.Time `json:"created_at"`
}

// RecommendationDTO is a persisted recommendation.
type RecommendationDTO struct {
	ID                     uint      `json:"id"`
	AssessmentID           uint      `json:"assessment_id"`
	Category               string    `json:"category"`
	Title                  string    `json:"title"`
	Description            string    `json:"description"`
	PriorityLevel          int       `json:"priority_level"`
	IsCriticalImperative   bool      `json:"is_critical_imperative"`
	ExpectedImpact         *string   `json:"expected_impact"`
	ImplementationTimeline *string   `json:"implementation_timeline"`
	CreatedAt              time.Time `json:"created_at"`
}

// BusinessQueryDTO is a stored business query.
type BusinessQueryDTO struct {
	ID             uint      `json:"id"`
	AssessmentID   uint      `json:"assessment_id"`
	QueryText      string    `json:"query_text"`
	TargetFunction string    `json:"target_function"`
	CreatedAt      time.Time `json:"created_at"`
}

// ResourceDTO is a Resource Hub entry.
type ResourceDTO struct {
	ID              uint      `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	ContentType     string    `json:"content_type"`
	TargetArchetype *string   `json:"target_archetype"`
	TargetDimension *string   `json:"target_dimension"`
	ContentURL      *string   `json:"content_url"`
	CreatedAt       time.Time `json:"created_at"`
}

// ResultsResponse bundles an assessment with everything recorded against it.
type ResultsResponse struct {
	Assessment      AssessmentDTO       `json:"assessment"`
	Responses       []ResponseDTO       `json:"responses"`
	Recommendations []RecommendationDTO `json:"recommendations"`
	BusinessQueries []BusinessQueryDTO  `json:"business_queries"`
}

// SummaryResponse is the executive narrative for an assessment.
type SummaryResponse struct {
	AssessmentID uint     `json:"assessment_id"`
	Narrative    string   `json:"narrative"`
	Highlights   []string `json:"highlights"`
	Source       string   `json:"source"`
}

// AssessmentFromModel converts a store.Assessment into a DTO.
func AssessmentFromModel(a store.Assessment) AssessmentDTO {
	return AssessmentDTO{
		ID:                           a.ID,
		GCCName:                      a.GCCName,
		ContactEmail:                 a.ContactEmail,
		AnnualProductivityUpliftment: fixed2(a.AnnualProductivityUpliftment),
		AttritionRate:                fixed2(a.AttritionRate),
		GenAIUseCasesDeveloped:       a.GenAIUseCasesDeveloped,
		OverallMaturityScore:         nullableFixed2(a.OverallMaturityScore),
		StrategyScore:                nullableFixed2(a.StrategyScore),
		TalentScore:                  nullableFixed2(a.TalentScore),
		OperatingModelScore:          nullableFixed2(a.OperatingModelScore),
		TechnologyScore:              nullableFixed2(a.TechnologyScore),
		DataScore:                    nullableFixed2(a.DataScore),
		AdoptionScalingScore:         nullableFixed2(a.AdoptionScalingScore),
		AITrustScore:                 nullableFixed2(a.AITrustScore),
		Archetype:                    a.Archetype,
		CreatedAt:                    a.CreatedAt,
		UpdatedAt:                    a.UpdatedAt,
	}
}

func QuestionsFromModel(rows []store.Question) []QuestionDTO {
	out := make([]QuestionDTO, 0, len(rows))
	for _, q := range rows {
		out = append(out, QuestionDTO{
			ID:            q.ID,
			Dimension:     q.Dimension,
			QuestionText:  strings.TrimSpace(q.QuestionText),
			QuestionOrder: q.QuestionOrder,
		})
	}
	return out
}

func ResponsesFromModel(rows []store.Response) []ResponseDTO {
	out := make([]ResponseDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, ResponseDTO{
			ID:            r.ID,
			AssessmentID:  r.AssessmentID,
			QuestionID:    r.QuestionID,
			ResponseValue: r.ResponseValue,
			CreatedAt:     r.CreatedAt,
		})
	}
	return out
}

func RecommendationsFromModel(rows []store.Recommendation) []RecommendationDTO {
	out := make([]RecommendationDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, RecommendationDTO{
			ID:                     r.ID,
			AssessmentID:           r.AssessmentID,
			Category:               r.Category,
			Title:                  r.Title,
			Description:            r.Description,
			PriorityLevel:          r.PriorityLevel,
			IsCriticalImperative:   r.IsCriticalImperative,
			ExpectedImpact:         r.ExpectedImpact,
			ImplementationTimeline: r.ImplementationTimeline,
			CreatedAt:              r.CreatedAt,
		})
	}
	return out
}

// BusinessQueryFromModel converts a store.BusinessQuery into a DTO.
func BusinessQueryFromModel(q store.BusinessQuery) BusinessQueryDTO {
	return BusinessQueryDTO{
		ID:             q.ID,
		AssessmentID:   q.AssessmentID,
		QueryText:      q.QueryText,
		TargetFunction: q.TargetFunction,
		CreatedAt:      q.CreatedAt,
	}
}

func ResourcesFromModel(rows []store.Resource) []ResourceDTO {
	out := make([]ResourceDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, ResourceDTO{
			ID:              r.ID,
			Title:           r.Title,
			Description:     r.Description,
			ContentType:     r.ContentType,
			TargetArchetype: r.TargetArchetype,
			TargetDimension: r.TargetDimension,
			ContentURL:      r.ContentURL,
			CreatedAt:       r.CreatedAt,
		})
	}
	return out
}

// ResultsFromModel converts the orchestrator's result bundle.
func ResultsFromModel(r *assessment.Results) ResultsResponse {
	queries := make([]BusinessQueryDTO, 0, len(r.BusinessQueries))
	for _, q := range r.BusinessQueries {
		queries = append(queries, BusinessQueryFromModel(q))
	}
	return ResultsResponse{
		Assessment:      AssessmentFromModel(r.Assessment),
		Responses:       ResponsesFromModel(r.Responses),
		Recommendations: RecommendationsFromModel(r.Recommendations),
		BusinessQueries: queries,
	}
}

func SummaryFromModel(assessmentID uint, s ai.Summary) SummaryResponse {
	highlights := s.Highlights
	if highlights == nil {
		highlights = []string{}
	}
	return SummaryResponse{
		AssessmentID: assessmentID,
		Narrative:    s.Narrative,
		Highlights:   highlights,
		Source:       s.Source,
	}
}

func fixed2(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

func nullableFixed2(d decimal.NullDecimal) *json.Number {
	if !d.Valid {
		return nil
	}
	n := fixed2(d.Decimal)
	return &n
}
