package scale

import (
	"math"
	"testing"

	"zheatmap/domain/table"
	"zheatmap/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioSet(t *testing.T) *table.SeriesSet {
	t.Helper()
	set, err := table.NewSeriesSet(
		[]string{"Mouse1", "Mouse2"},
		[][]float64{{1, 0.5, 0}, {-1, -0.5, 0}},
	)
	require.NoError(t, err)
	return set
}

func ptr(v float64) *float64 { return &v }

func TestResolveAuto(t *testing.T) {
	res, err := Resolve(scenarioSet(t), Bounds{})
	require.NoError(t, err)
	assert.Equal(t, DisplayRange{Low: -1, High: 1}, res.Range)
	assert.False(t, res.LowExplicit)
	assert.False(t, res.HighExplicit)
	assert.Empty(t, res.Warnings())
}

func TestResolveExplicitIgnoresData(t *testing.T) {
	res, err := Resolve(scenarioSet(t), Explicit(-2, 2))
	require.NoError(t, err)
	assert.Equal(t, DisplayRange{Low: -2, High: 2}, res.Range)
	assert.Len(t, res.Warnings(), 2)
}

func TestResolveBoundsIndependently(t *testing.T) {
	tests := []struct {
		name     string
		bounds   Bounds
		expected DisplayRange
	}{
		{"low fixed", Bounds{Low: ptr(-3)}, DisplayRange{Low: -3, High: 1}},
		{"high fixed", Bounds{High: ptr(0.25)}, DisplayRange{Low: -1, High: 0.25}},
		{"both fixed inside data", Explicit(-0.5, 0.5), DisplayRange{Low: -0.5, High: 0.5}},
		{"equal bounds", Explicit(0, 0), DisplayRange{Low: 0, High: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Resolve(scenarioSet(t), tt.bounds)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, res.Range)
		})
	}
}

func TestResolveRejectsInvertedRange(t *testing.T) {
	_, err := Resolve(scenarioSet(t), Explicit(2, -2))
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	// An explicit low above the computed high is inverted too.
	_, err = Resolve(scenarioSet(t), Bounds{Low: ptr(5)})
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestResolveSkipsMissingValues(t *testing.T) {
	set, err := table.NewSeriesSet([]string{"m"}, [][]float64{{math.NaN(), 4, -7, math.NaN()}})
	require.NoError(t, err)

	res, err := Resolve(set, Bounds{})
	require.NoError(t, err)
	assert.Equal(t, DisplayRange{Low: -7, High: 4}, res.Range)
}

func TestResolveAllMissing(t *testing.T) {
	set, err := table.NewSeriesSet([]string{"m"}, [][]float64{{math.NaN(), math.NaN()}})
	require.NoError(t, err)

	_, err = Resolve(set, Bounds{High: ptr(1)})
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	res, err := Resolve(set, Explicit(-1, 1))
	require.NoError(t, err, "explicit bounds need no data")
	assert.Nil(t, res.Extent)
	assert.Empty(t, res.Warnings())
}

func TestFraction(t *testing.T) {
	r := DisplayRange{Low: -1, High: 1}
	assert.Equal(t, 0.0, r.Fraction(-1))
	assert.Equal(t, 0.5, r.Fraction(0))
	assert.Equal(t, 1.0, r.Fraction(1))
	assert.Equal(t, 0.0, r.Fraction(-5), "below range saturates")
	assert.Equal(t, 1.0, r.Fraction(5), "above range saturates")
	assert.True(t, math.IsNaN(r.Fraction(math.NaN())))
	assert.Equal(t, 0.0, DisplayRange{Low: 2, High: 2}.Fraction(3))
}
