package store

import (
	"time"

	"github.com/shopspring/decimal"

	"genai-maturity/backend/internal/scoring"
)

// Question is a static questionnaire entry.
type Question struct {
	ID            uint   `gorm:"primaryKey"`
	Dimension     string `gorm:"size:32;not null;uniqueIndex:idx_questions_dimension_order,priority:1"`
	QuestionText  string `gorm:"type:text;not null"`
	QuestionOrder int    `gorm:"not null;uniqueIndex:idx_questions_dimension_order,priority:2"`
	CreatedAt     time.Time
}

func (Question) TableName() string { return "assessment_questions" }

// Assessment is one organization's maturity assessment. Scores stay null until responses are scored.
type Assessment struct {
	ID                           uint                `gorm:"primaryKey"`
	GCCName                      string              `gorm:"column:gcc_name;size:255;not null"`
	ContactEmail                 string              `gorm:"column:contact_email;size:255;not null"`
	AnnualProductivityUpliftment decimal.Decimal     `gorm:"column:annual_productivity_upliftment;type:numeric(10,2);not null"`
	AttritionRate                decimal.Decimal     `gorm:"column:attrition_rate;type:numeric(5,2);not null"`
	GenAIUseCasesDeveloped       int                 `gorm:"column:genai_use_cases_developed;not null"`
	OverallMaturityScore         decimal.NullDecimal `gorm:"column:overall_maturity_score;type:numeric(5,2)"`
	StrategyScore                decimal.NullDecimal `gorm:"column:strategy_score;type:numeric(5,2)"`
	TalentScore                  decimal.NullDecimal `gorm:"column:talent_score;type:numeric(5,2)"`
	OperatingModelScore          decimal.NullDecimal `gorm:"column:operating_model_score;type:numeric(5,2)"`
	TechnologyScore              decimal.NullDecimal `gorm:"column:technology_score;type:numeric(5,2)"`
	DataScore                    decimal.NullDecimal `gorm:"column:data_score;type:numeric(5,2)"`
	AdoptionScalingScore         decimal.NullDecimal `gorm:"column:adoption_scaling_score;type:numeric(5,2)"`
	AITrustScore                 decimal.NullDecimal `gorm:"column:ai_trust_score;type:numeric(5,2)"`
	Archetype                    *string             `gorm:"column:archetype;size:16;index"`
	CreatedAt                    time.Time
	UpdatedAt                    time.Time
}

// DimensionScores returns the stored per-dimension scores keyed by dimension.
func (a *Assessment) DimensionScores() map[scoring.Dimension]decimal.NullDecimal {
	return map[scoring.Dimension]decimal.NullDecimal{
		scoring.DimensionStrategy:        a.StrategyScore,
		scoring.DimensionTalent:          a.TalentScore,
		scoring.DimensionOperatingModel:  a.OperatingModelScore,
		scoring.DimensionTechnology:      a.TechnologyScore,
		scoring.DimensionData:            a.DataScore,
		scoring.DimensionAdoptionScaling: a.AdoptionScalingScore,
		scoring.DimensionAITrust:         a.AITrustScore,
	}
}

// ApplyScores copies a scoring result and its archetype onto the record.
func (a *Assessment) ApplyScores(result scoring.Result, archetype scoring.Archetype) {
	a.OverallMaturityScore = result.Overall
	a.StrategyScore = result.Score(scoring.DimensionStrategy)
	a.TalentScore = result.Score(scoring.DimensionTalent)
	a.OperatingModelScore = result.Score(scoring.DimensionOperatingModel)
	a.TechnologyScore = result.Score(scoring.DimensionTechnology)
	a.DataScore = result.Score(scoring.DimensionData)
	a.AdoptionScalingScore = result.Score(scoring.DimensionAdoptionScaling)
	a.AITrustScore = result.Score(scoring.DimensionAITrust)
	value := string(archetype)
	a.Archetype = &value
}

// ArchetypeOrClassify returns the stored archetype, classifying the overall score when none was written.
func (a *Assessment) ArchetypeOrClassify() scoring.Archetype {
	if a.Archetype != nil {
		if archetype, err := scoring.ParseArchetype(*a.Archetype); err == nil {
			return archetype
		}
	}
	return scoring.Classify(a.OverallMaturityScore)
}

// Response is a single stored answer. Rows are append-only.
type Response struct {
	ID            uint `gorm:"primaryKey"`
	AssessmentID  uint `gorm:"not null;index"`
	QuestionID    uint `gorm:"not null;index"`
	ResponseValue int  `gorm:"not null"`
	CreatedAt     time.Time
}

func (Response) TableName() string { return "assessment_responses" }

// Recommendation is a persisted recommendation draft. Rows are append-only.
type Recommendation struct {
	ID                     uint    `gorm:"primaryKey"`
	AssessmentID           uint    `gorm:"not null;index"`
	Category               string  `gorm:"size:48;not null"`
	Title                  string  `gorm:"size:255;not null"`
	Description            string  `gorm:"type:text;not null"`
	PriorityLevel          int     `gorm:"not null"`
	IsCriticalImperative   bool    `gorm:"not null"`
	ExpectedImpact         *string `gorm:"type:text"`
	ImplementationTimeline *string `gorm:"size:64"`
	CreatedAt              time.Time
}

// RecommendationFromDraft builds an unsaved row for the given assessment.
func RecommendationFromDraft(assessmentID uint, d scoring.Draft) Recommendation {
	rec := Recommendation{
		AssessmentID:         assessmentID,
		Category:             string(d.Category),
		Title:                d.Title,
		Description:          d.Description,
		PriorityLevel:        d.Priority,
		IsCriticalImperative: d.Critical,
	}
	if d.ExpectedImpact != "" {
		impact := d.ExpectedImpact
		rec.ExpectedImpact = &impact
	}
	if d.Timeline != "" {
		timeline := d.Timeline
		rec.ImplementationTimeline = &timeline
	}
	return rec
}

// BusinessQuery is a free-text question an organization raises about a business function.
type BusinessQuery struct {
	ID             uint   `gorm:"primaryKey"`
	AssessmentID   uint   `gorm:"not null;index"`
	QueryText      string `gorm:"type:text;not null"`
	TargetFunction string `gorm:"size:32;not null"`
	CreatedAt      time.Time
}

// Resource is a Resource Hub entry, optionally targeted at an archetype and/or dimension.
type Resource struct {
	ID              uint      `gorm:"primaryKey"`
	Title           string    `gorm:"size:255;not null"`
	Description     string    `gorm:"type:text;not null"`
	ContentType     string    `gorm:"size:32;not null"`
	TargetArchetype *string   `gorm:"size:16;index"`
	TargetDimension *string   `gorm:"size:32;index"`
	ContentURL      *string   `gorm:"size:512"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
}
