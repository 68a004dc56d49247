package scoring

import (
	"testing"

	"github.com/shopspring/decimal"
)

func score(value string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(value), Valid: true}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		overall  decimal.NullDecimal
		expected Archetype
	}{
		{"leaders", score("4.5"), ArchetypeLeaders},
		{"leaders lower bound", score("4.0"), ArchetypeLeaders},
		{"progressors", score("3.5"), ArchetypeProgressors},
		{"progressors lower bound", score("3.00"), ArchetypeProgressors},
		{"just below leaders", score("3.99"), ArchetypeProgressors},
		{"emergents", score("2.5"), ArchetypeEmergents},
		{"emergents lower bound", score("2"), ArchetypeEmergents},
		{"laggards", score("1.5"), ArchetypeLaggards},
		{"just below emergents", score("1.99"), ArchetypeLaggards},
		{"null", decimal.NullDecimal{}, ArchetypeLaggards},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.overall); got != tc.expected {
				t.Fatalf("expected %s got %s", tc.expected, got)
			}
		})
	}
}

func TestClassifyMonotonic(t *testing.T) {
	rank := map[Archetype]int{ArchetypeLaggards: 0, ArchetypeEmergents: 1, ArchetypeProgressors: 2, ArchetypeLeaders: 3}
	prev := -1
	for cents := int64(100); cents <= 500; cents++ {
		got := rank[Classify(decimal.NullDecimal{Decimal: decimal.New(cents, -2), Valid: true})]
		if got < prev {
			t.Fatalf("classification decreased at %d cents", cents)
		}
		prev = got
	}
}

func TestParseArchetype(t *testing.T) {
	a, err := ParseArchetype("Leaders")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if a != ArchetypeLeaders {
		t.Fatalf("expected leaders got %s", a)
	}
	if _, err := ParseArchetype("pioneers"); err == nil {
		t.Fatal("expected error for unknown archetype")
	}
}
