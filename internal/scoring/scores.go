package scoring

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	MinResponseValue = 1
	MaxResponseValue = 5

	scoreScale = 2
)

// ErrInvalidResponseValue is returned when a response falls outside the 1-5 scale.
var ErrInvalidResponseValue = errors.New("invalid response value")

// Response is a single questionnaire answer tagged with the dimension of its question.
type Response struct {
	Dimension Dimension
	Value     int
}

// Result holds the computed scores for one response set. Unset entries mean no responses.
type Result struct {
	Overall      decimal.NullDecimal
	PerDimension map[Dimension]decimal.NullDecimal
	Responses    int
}

// Score returns the score of a dimension, null when it has no responses.
func (r Result) Score(d Dimension) decimal.NullDecimal {
	return r.PerDimension[d]
}

// ValidateValue checks a raw response value against the answer scale.
func ValidateValue(value int) error {
	if value < MinResponseValue || value > MaxResponseValue {
		return fmt.Errorf("%w: %d not in [%d,%d]", ErrInvalidResponseValue, value, MinResponseValue, MaxResponseValue)
	}
	return nil
}

// ComputeScores averages response values per dimension and across the whole set.
// The overall score is the mean of all values, not the mean of dimension means.
func ComputeScores(responses []Response) (Result, error) {
	type tally struct {
		sum   int64
		count int64
	}

	perDimension := make(map[Dimension]*tally, len(Dimensions))
	var total tally
	for _, resp := range responses {
		if err := ValidateValue(resp.Value); err != nil {
			return Result{}, err
		}
		if !resp.Dimension.Valid() {
			return Result{}, fmt.Errorf("response scored against unknown dimension %q", resp.Dimension)
		}
		t, ok := perDimension[resp.Dimension]
		if !ok {
			t = &tally{}
			perDimension[resp.Dimension] = t
		}
		t.sum += int64(resp.Value)
		t.count++
		total.sum += int64(resp.Value)
		total.count++
	}

	result := Result{
		PerDimension: make(map[Dimension]decimal.NullDecimal, len(Dimensions)),
		Responses:    int(total.count),
	}
	for _, d := range Dimensions {
		if t, ok := perDimension[d]; ok {
			result.PerDimension[d] = mean(t.sum, t.count)
		} else {
			result.PerDimension[d] = decimal.NullDecimal{}
		}
	}
	result.Overall = mean(total.sum, total.count)
	return result, nil
}

func mean(sum, count int64) decimal.NullDecimal {
	if count == 0 {
		return decimal.NullDecimal{}
	}
	avg := decimal.NewFromInt(sum).DivRound(decimal.NewFromInt(count), scoreScale)
	return decimal.NullDecimal{Decimal: avg, Valid: true}
}
