// Package allocation validates target allocations: the share of total
// portfolio value each stock should represent.
package allocation

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// ErrInvalidAllocation is returned when fractions are out of range or do not add up to 1.
var ErrInvalidAllocation = errors.New("allocations must add 1 (100%)")

// Places is the number of decimal places the fraction total is rounded to
// before it is compared with 1. Totals within half a unit of the last place
// (0.00005) are accepted.
const Places = 4

var one = decimal.NewFromInt(1)

// Map associates a stock name with its target fraction in [0,1].
type Map map[string]float64

// Build checks that every fraction is a finite number within [0,1] and that
// they sum to 1.
// It returns a copy of the mapping with the same entries.
func Build(fractions map[string]float64) (Map, error) {
	for _, name := range sortedNames(fractions) {
		f := fractions[name]
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w: %q has non-finite fraction %v", ErrInvalidAllocation, name, f)
		}
		if f < 0 || f > 1 {
			return nil, fmt.Errorf("%w: %q has fraction %v outside [0,1]", ErrInvalidAllocation, name, f)
		}
	}
	total := Sum(fractions)
	if !total.Round(Places).Equal(one) {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidAllocation, total.String())
	}

	out := make(Map, len(fractions))
	for name, f := range fractions {
		out[name] = f
	}
	return out, nil
}

// Sum adds the fractions exactly. Each float is taken at its shortest decimal
// representation, so 0.1+0.2+0.7 is exactly 1.
func Sum(fractions map[string]float64) decimal.Decimal {
	total := decimal.Zero
	for _, f := range fractions {
		total = total.Add(decimal.NewFromFloat(f))
	}
	return total
}

// Remaining is what is left to allocate after fractions, rounded to Places.
func Remaining(fractions map[string]float64) float64 {
	r, _ := one.Sub(Sum(fractions)).Round(Places).Float64()
	return r
}

// Target returns the target fraction for name, 0 when it has none.
func (m Map) Target(name string) float64 {
	return m[name]
}

// Names returns the allocated stock names in lexical order.
func (m Map) Names() []string {
	return sortedNames(m)
}

func sortedNames(m map[string]float64) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
