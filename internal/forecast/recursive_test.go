package forecast

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecursiveForecastFeedsPredictionsBack(t *testing.T) {
	scaler, err := Fit([]float64{100, 200})
	require.NoError(t, err)
	var inputs [][]float64
	step := funcRegressor{lookback: 3, fn: func(lb []float64) float64 {
		inputs = append(inputs, append([]float64(nil), lb...))
		return lb[2] + 0.25
	}}
	last := time.Date(2024, 7, 19, 0, 0, 0, 0, time.UTC)

	out, err := RecursiveForecast(step, scaler, []float64{0.25, 0.5, 0.75}, last, 3)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, [][]float64{
		{0.25, 0.5, 0.75},
		{0.5, 0.75, 1.0},
		{0.75, 1.0, 1.25},
	}, inputs)
	assert.InDelta(t, 200, out[0].Price, 1e-9)
	assert.InDelta(t, 225, out[1].Price, 1e-9)
	assert.InDelta(t, 250, out[2].Price, 1e-9)

	for k, p := range out {
		assert.True(t, p.Date.Equal(last.AddDate(0, 0, k+1)))
	}
}

func TestRecursiveForecastDatesStrictlyIncrease(t *testing.T) {
	scaler, err := Fit([]float64{1, 2})
	require.NoError(t, err)
	flat := funcRegressor{lookback: 2, fn: func([]float64) float64 { return 0.5 }}
	// a Friday: weekends are not skipped
	last := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)

	for _, h := range []int{1, 7, 30} {
		out, err := RecursiveForecast(flat, scaler, []float64{0.1, 0.2}, last, h)
		require.NoError(t, err)
		require.Len(t, out, h)
		prev := last
		for _, p := range out {
			require.True(t, p.Date.After(prev))
			require.Equal(t, 24*time.Hour, p.Date.Sub(prev))
			prev = p.Date
		}
	}
}

func TestRecursiveForecastPreconditions(t *testing.T) {
	scaler, err := Fit([]float64{1, 2})
	require.NoError(t, err)
	m := funcRegressor{lookback: 2, fn: func([]float64) float64 { return 0 }}
	now := time.Now()

	_, err = RecursiveForecast(m, scaler, []float64{0.1, 0.2}, now, 0)
	var ide *InsufficientDataError
	assert.ErrorAs(t, err, &ide)

	_, err = RecursiveForecast(m, scaler, []float64{0.1}, now, 3)
	assert.ErrorAs(t, err, &ide)

	_, err = RecursiveForecast(m, &Scaler{}, []float64{0.1, 0.2}, now, 3)
	assert.ErrorIs(t, err, ErrNotFitted)

	nan := funcRegressor{lookback: 2, fn: func([]float64) float64 { return math.NaN() }}
	out, err := RecursiveForecast(nan, scaler, []float64{0.1, 0.2}, now, 3)
	assert.ErrorIs(t, err, ErrNonFinitePrediction)
	assert.Nil(t, out)
}
