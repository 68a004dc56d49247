package scoring

import (
	"fmt"
	"strings"
)

// Dimension is one of the seven maturity categories covered by the questionnaire.
type Dimension string

const (
	DimensionStrategy        Dimension = "strategy"
	DimensionTalent          Dimension = "talent"
	DimensionOperatingModel  Dimension = "operating_model"
	DimensionTechnology      Dimension = "technology"
	DimensionData            Dimension = "data"
	DimensionAdoptionScaling Dimension = "adoption_scaling"
	DimensionAITrust         Dimension = "ai_trust"
)

// Dimensions lists every dimension in declaration order. Question listings are sorted by it.
var Dimensions = []Dimension{
	DimensionStrategy,
	DimensionTalent,
	DimensionOperatingModel,
	DimensionTechnology,
	DimensionData,
	DimensionAdoptionScaling,
	DimensionAITrust,
}

// Valid reports whether d is a known dimension.
func (d Dimension) Valid() bool {
	return d.Index() >= 0
}

// Index returns the declaration position of d, or -1 when unknown.
func (d Dimension) Index() int {
	for i, known := range Dimensions {
		if known == d {
			return i
		}
	}
	return -1
}

// ParseDimension normalizes and validates a dimension name.
func ParseDimension(value string) (Dimension, error) {
	d := Dimension(strings.ToLower(strings.TrimSpace(value)))
	if !d.Valid() {
		return "", fmt.Errorf("unknown dimension %q", value)
	}
	return d, nil
}
