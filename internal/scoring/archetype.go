package scoring

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Archetype is the maturity tier derived from the overall score.
type Archetype string

const (
	ArchetypeLeaders     Archetype = "leaders"
	ArchetypeProgressors Archetype = "progressors"
	ArchetypeEmergents   Archetype = "emergents"
	ArchetypeLaggards    Archetype = "laggards"
)

// Archetypes lists the tiers from most to least mature.
var Archetypes = []Archetype{ArchetypeLeaders, ArchetypeProgressors, ArchetypeEmergents, ArchetypeLaggards}

var (
	leadersThreshold     = decimal.NewFromInt(4)
	progressorsThreshold = decimal.NewFromInt(3)
	emergentsThreshold   = decimal.NewFromInt(2)
)

// Classify maps an overall score to its archetype. Lower bounds are inclusive and a
// missing score counts as the lowest tier.
func Classify(overall decimal.NullDecimal) Archetype {
	if !overall.Valid {
		return ArchetypeLaggards
	}
	switch score := overall.Decimal; {
	case score.GreaterThanOrEqual(leadersThreshold):
		return ArchetypeLeaders
	case score.GreaterThanOrEqual(progressorsThreshold):
		return ArchetypeProgressors
	case score.GreaterThanOrEqual(emergentsThreshold):
		return ArchetypeEmergents
	default:
		return ArchetypeLaggards
	}
}

// Valid reports whether a is a known archetype.
func (a Archetype) Valid() bool {
	for _, known := range Archetypes {
		if known == a {
			return true
		}
	}
	return false
}

// ParseArchetype normalizes and validates an archetype name.
func ParseArchetype(value string) (Archetype, error) {
	a := Archetype(strings.ToLower(strings.TrimSpace(value)))
	if !a.Valid() {
		return "", fmt.Errorf("unknown archetype %q", value)
	}
	return a, nil
}
