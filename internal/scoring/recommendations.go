package scoring

import "github.com/shopspring/decimal"

// Category groups recommendations by the imperative they address.
type Category string

const (
	CategoryStrategicAlignment          Category = "strategic_alignment"
	CategoryTalentCapabilityBuilding    Category = "talent_capability_building"
	CategoryInnovationValueCreation     Category = "innovation_value_creation"
	CategoryOperatingModelTechnology    Category = "operating_model_technology"
	CategoryRiskResilience              Category = "risk_resilience"
	CategoryImpactMeasurementGovernance Category = "impact_measurement_governance"
)

// Categories lists every recommendation category.
var Categories = []Category{
	CategoryStrategicAlignment,
	CategoryTalentCapabilityBuilding,
	CategoryInnovationValueCreation,
	CategoryOperatingModelTechnology,
	CategoryRiskResilience,
	CategoryImpactMeasurementGovernance,
}

// Draft is a recommendation before it is assigned an id and persisted.
type Draft struct {
	Category       Category `json:"category"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Priority       int      `json:"priority_level"`
	Critical       bool     `json:"is_critical_imperative"`
	ExpectedImpact string   `json:"expected_impact"`
	Timeline       string   `json:"implementation_timeline"`
}

// Profile is the input to the rule table.
type Profile struct {
	Archetype Archetype
	Scores    map[Dimension]decimal.NullDecimal
}

// Below reports whether the dimension score is missing or strictly under threshold.
func (p Profile) Below(d Dimension, threshold decimal.Decimal) bool {
	score, ok := p.Scores[d]
	if !ok || !score.Valid {
		return true
	}
	return score.Decimal.LessThan(threshold)
}

// Rule emits one draft when its guard holds.
type Rule struct {
	Name  string
	Guard func(Profile) bool
	Draft func(Profile) Draft
}

var (
	threshold2   = decimal.NewFromInt(2)
	threshold3   = decimal.NewFromInt(3)
	threshold3_5 = decimal.RequireFromString("3.5")
)

// Rules is evaluated in order and every matching rule fires.
var Rules = []Rule{
	{
		Name:  "strategy_roadmap",
		Guard: func(p Profile) bool { return p.Below(DimensionStrategy, threshold3) },
		Draft: func(p Profile) Draft {
			priority := 4
			if p.Archetype == ArchetypeLaggards {
				priority = 5
			}
			return Draft{
				Category:       CategoryStrategicAlignment,
				Title:          "Develop GenAI Strategic Roadmap",
				Description:    "Create a comprehensive GenAI strategy aligned with business objectives and establish clear governance frameworks.",
				Priority:       priority,
				Critical:       true,
				ExpectedImpact: "Improved strategic focus and resource allocation for GenAI initiatives",
				Timeline:       "30-60 days",
			}
		},
	},
	{
		Name:  "talent_upskilling",
		Guard: func(p Profile) bool { return p.Below(DimensionTalent, threshold3) },
		Draft: func(Profile) Draft {
			return Draft{
				Category:       CategoryTalentCapabilityBuilding,
				Title:          "Implement GenAI Upskilling Program",
				Description:    "Launch comprehensive training programs to build GenAI capabilities across all business functions.",
				Priority:       5,
				Critical:       true,
				ExpectedImpact: "Enhanced workforce readiness and reduced skill gaps in GenAI adoption",
				Timeline:       "60-90 days",
			}
		},
	},
	{
		Name:  "center_of_excellence",
		Guard: func(p Profile) bool { return p.Below(DimensionAdoptionScaling, threshold3) },
		Draft: func(p Profile) Draft {
			return Draft{
				Category:       CategoryInnovationValueCreation,
				Title:          "Establish GenAI Center of Excellence",
				Description:    "Create a dedicated center to drive innovation, standardize practices, and scale successful GenAI use cases.",
				Priority:       4,
				Critical:       p.Archetype != ArchetypeLeaders,
				ExpectedImpact: "Accelerated innovation and systematic scaling of GenAI solutions",
				Timeline:       "30-90 days",
			}
		},
	},
	{
		Name: "modernize_infrastructure",
		Guard: func(p Profile) bool {
			return p.Below(DimensionTechnology, threshold3) || p.Below(DimensionOperatingModel, threshold3)
		},
		Draft: func(p Profile) Draft {
			tech := p.Scores[DimensionTechnology]
			return Draft{
				Category:       CategoryOperatingModelTechnology,
				Title:          "Modernize GenAI Infrastructure",
				Description:    "Upgrade technology infrastructure and establish robust operating models to support GenAI workloads.",
				Priority:       4,
				Critical:       tech.Valid && tech.Decimal.LessThan(threshold2),
				ExpectedImpact: "Improved performance, scalability, and reliability of GenAI applications",
				Timeline:       "60-90 days",
			}
		},
	},
	{
		Name:  "ethics_risk_framework",
		Guard: func(p Profile) bool { return p.Below(DimensionAITrust, threshold3_5) },
		Draft: func(Profile) Draft {
			return Draft{
				Category:       CategoryRiskResilience,
				Title:          "Implement AI Ethics and Risk Framework",
				Description:    "Establish comprehensive AI governance, ethics guidelines, and risk management practices for responsible GenAI deployment.",
				Priority:       5,
				Critical:       true,
				ExpectedImpact: "Reduced compliance risks and enhanced stakeholder trust in GenAI initiatives",
				Timeline:       "30-60 days",
			}
		},
	},
	{
		Name:  "performance_metrics",
		Guard: func(Profile) bool { return true },
		Draft: func(Profile) Draft {
			return Draft{
				Category:       CategoryImpactMeasurementGovernance,
				Title:          "Establish GenAI Performance Metrics",
				Description:    "Define and implement comprehensive KPIs and measurement frameworks to track GenAI impact and ROI.",
				Priority:       3,
				Critical:       false,
				ExpectedImpact: "Better visibility into GenAI value creation and data-driven decision making",
				Timeline:       "30-60 days",
			}
		},
	},
	{
		Name:  "readiness_assessment",
		Guard: func(p Profile) bool { return p.Archetype == ArchetypeLaggards },
		Draft: func(Profile) Draft {
			return Draft{
				Category:       CategoryStrategicAlignment,
				Title:          "GenAI Readiness Assessment",
				Description:    "Conduct comprehensive organizational readiness assessment before large-scale GenAI implementation.",
				Priority:       5,
				Critical:       true,
				ExpectedImpact: "Clear understanding of organizational gaps and priority areas for GenAI adoption",
				Timeline:       "30 days",
			}
		},
	},
	{
		Name:  "advanced_research",
		Guard: func(p Profile) bool { return p.Archetype == ArchetypeLeaders },
		Draft: func(Profile) Draft {
			return Draft{
				Category:       CategoryInnovationValueCreation,
				Title:          "Advanced GenAI Research Initiatives",
				Description:    "Invest in cutting-edge GenAI research and development to maintain competitive advantage.",
				Priority:       2,
				Critical:       false,
				ExpectedImpact: "Sustained innovation leadership and competitive differentiation",
				Timeline:       "90+ days",
			}
		},
	},
}

// GenerateRecommendations runs the rule table. Output keeps rule order; no sorting by priority.
func GenerateRecommendations(archetype Archetype, scores map[Dimension]decimal.NullDecimal) []Draft {
	profile := Profile{Archetype: archetype, Scores: scores}
	drafts := make([]Draft, 0, len(Rules))
	for _, rule := range Rules {
		if rule.Guard(profile) {
			drafts = append(drafts, rule.Draft(profile))
		}
	}
	return drafts
}
