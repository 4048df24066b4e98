package identify

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
)

// SumTolerance: los porcentajes forman una composición; su suma debe ser 100 ± SumTolerance.
const SumTolerance = 0.5

var ErrInvalidResults = errors.New("invalid classification results")

// SortResults ordena por percentage desc (estable).
func SortResults(in []Result) []Result {
	out := slices.Clone(in)
	slices.SortStableFunc(out, func(a, b Result) int { return cmp.Compare(b.Percentage, a.Percentage) })
	return out
}

// ValidateResults verifica el invariante sobre una lista ya ordenada.
func ValidateResults(rs []Result) error {
	if len(rs) == 0 {
		return fmt.Errorf("%w: empty result list", ErrInvalidResults)
	}

	sum := 0.0
	for i, r := range rs {
		if strings.TrimSpace(r.Breed) == "" {
			return fmt.Errorf("%w: result %d has no breed", ErrInvalidResults, i)
		}
		if math.IsNaN(r.Percentage) || r.Percentage < 0 || r.Percentage > 100 {
			return fmt.Errorf("%w: %s percentage %v out of [0,100]", ErrInvalidResults, r.Breed, r.Percentage)
		}
		if math.IsNaN(r.Confidence) || r.Confidence < 0 || r.Confidence > 1 {
			return fmt.Errorf("%w: %s confidence %v out of [0,1]", ErrInvalidResults, r.Breed, r.Confidence)
		}
		if i > 0 && r.Percentage > rs[i-1].Percentage {
			return fmt.Errorf("%w: results not ordered by percentage", ErrInvalidResults)
		}
		sum += r.Percentage
	}

	if math.Abs(sum-100) > SumTolerance {
		return fmt.Errorf("%w: percentages sum to %v, want 100", ErrInvalidResults, sum)
	}
	return nil
}
