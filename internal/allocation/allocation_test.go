package allocation

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_AcceptsExactSums(t *testing.T) {
	tests := []struct {
		name      string
		fractions map[string]float64
	}{
		{"single", map[string]float64{"META": 1}},
		{"halves", map[string]float64{"A": 0.5, "B": 0.5}},
		{"original example", map[string]float64{"META": 0.4, "APPL": 0.45, "MSFT": 0.15}},
		{"binary fractions", map[string]float64{"A": 0.1, "B": 0.2, "C": 0.7}},
		{"thirds to four places", map[string]float64{"A": 0.3333, "B": 0.3333, "C": 0.3334}},
		{"zero weight allowed", map[string]float64{"A": 0, "B": 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Build(tt.fractions)
			require.NoError(t, err)
			assert.Equal(t, Map(tt.fractions), m)
		})
	}
}

func TestBuild_RejectsWrongSums(t *testing.T) {
	tests := []struct {
		name      string
		fractions map[string]float64
	}{
		{"empty", map[string]float64{}},
		{"under", map[string]float64{"A": 0.5, "B": 0.4}},
		{"over", map[string]float64{"A": 0.7, "B": 0.7}},
		{"one unit under at four places", map[string]float64{"A": 0.5, "B": 0.4999}},
		{"one unit over at four places", map[string]float64{"A": 0.5, "B": 0.5001}},
		{"negative fraction", map[string]float64{"A": -0.5, "B": 1.5}},
		{"fraction above one", map[string]float64{"A": 1.2}},
		{"NaN fraction", map[string]float64{"A": math.NaN()}},
		{"NaN beside a full share", map[string]float64{"A": 1, "B": math.NaN()}},
		{"infinite fraction", map[string]float64{"A": math.Inf(1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Build(tt.fractions)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidAllocation))
			assert.Nil(t, m)
		})
	}
}

func TestBuild_ReturnsCopy(t *testing.T) {
	in := map[string]float64{"A": 0.25, "B": 0.75}
	m, err := Build(in)
	require.NoError(t, err)

	in["A"] = 0.9
	assert.Equal(t, 0.25, m.Target("A"))
}

func TestRemaining(t *testing.T) {
	assert.Equal(t, 1.0, Remaining(map[string]float64{}))
	assert.Equal(t, 0.7, Remaining(map[string]float64{"A": 0.1, "B": 0.2}))
	assert.Equal(t, 0.0, Remaining(map[string]float64{"A": 0.4, "B": 0.6}))
}

func TestMap_TargetAndNames(t *testing.T) {
	m := Map{"MSFT": 0.15, "APPL": 0.45, "META": 0.4}
	assert.Equal(t, []string{"APPL", "META", "MSFT"}, m.Names())
	assert.Equal(t, 0.0, m.Target("TSLA"))
}
