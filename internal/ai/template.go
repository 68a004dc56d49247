package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"genai-maturity/backend/internal/scoring"
)

// TemplateSummarizer builds a deterministic narrative from the scores alone.
type TemplateSummarizer struct{}

// NewTemplateSummarizer returns the offline summarizer.
func NewTemplateSummarizer() *TemplateSummarizer {
	return &TemplateSummarizer{}
}

func (t *TemplateSummarizer) Enabled() bool {
	return t != nil
}

func (t *TemplateSummarizer) Summarize(_ context.Context, input SummaryInput) (Summary, error) {
	name := strings.TrimSpace(input.Organization)
	if name == "" {
		name = "This organization"
	}

	builder := &strings.Builder{}
	if input.Overall.Valid {
		fmt.Fprintf(builder, "%s is classified as %s with an overall maturity score of %s.", name, input.Archetype, input.Overall.Decimal.StringFixed(2))
	} else {
		fmt.Fprintf(builder, "%s has not submitted any responses yet and is treated as %s.", name, input.Archetype)
	}

	strongest, weakest, ok := extremes(input.Scores)
	if ok {
		if strongest.dimension == weakest.dimension {
			fmt.Fprintf(builder, " Only %s has been scored (%s).", label(strongest.dimension), strongest.score.StringFixed(2))
		} else {
			fmt.Fprintf(builder, " Strongest dimension is %s (%s); weakest is %s (%s).",
				label(strongest.dimension), strongest.score.StringFixed(2),
				label(weakest.dimension), weakest.score.StringFixed(2))
		}
	}

	var critical []string
	for _, rec := range input.Recommendations {
		if rec.Critical {
			critical = append(critical, rec.Title)
		}
	}
	if len(critical) > 0 {
		fmt.Fprintf(builder, " Critical imperatives: %s.", strings.Join(critical, "; "))
	}

	return Summary{
		Narrative:  builder.String(),
		Highlights: critical,
		Source:     SourceTemplate,
	}, nil
}

type dimensionScore struct {
	dimension scoring.Dimension
	score     decimal.Decimal
}

// extremes walks dimensions in declaration order so ties resolve to the earlier dimension.
func extremes(scores map[scoring.Dimension]decimal.NullDecimal) (strongest, weakest dimensionScore, ok bool) {
	for _, d := range scoring.Dimensions {
		s, present := scores[d]
		if !present || !s.Valid {
			continue
		}
		current := dimensionScore{dimension: d, score: s.Decimal}
		if !ok {
			strongest, weakest, ok = current, current, true
			continue
		}
		if s.Decimal.GreaterThan(strongest.score) {
			strongest = current
		}
		if s.Decimal.LessThan(weakest.score) {
			weakest = current
		}
	}
	return strongest, weakest, ok
}

func label(d scoring.Dimension) string {
	return strings.ReplaceAll(string(d), "_", " ")
}
