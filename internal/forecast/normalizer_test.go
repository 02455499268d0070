package forecast

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalerRoundTrip(t *testing.T) {
	series := []float64{187.3, 190.1, 185.0, 201.7, 199.9, 195.2}
	s, err := Fit(series)
	require.NoError(t, err)
	assert.Equal(t, 185.0, s.Min())
	assert.Equal(t, 201.7, s.Max())

	norm, err := s.Transform(series)
	require.NoError(t, err)
	for _, v := range norm {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
	assert.Equal(t, 0.0, norm[2])
	assert.Equal(t, 1.0, norm[3])

	back, err := s.Inverse(norm)
	require.NoError(t, err)
	assert.InDeltaSlice(t, series, back, 1e-9)

	v, err := s.TransformValue(201.7)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
	p, err := s.InverseValue(0.5)
	require.NoError(t, err)
	assert.InDelta(t, 193.35, p, 1e-9)
}

func TestFitTooShort(t *testing.T) {
	for _, series := range [][]float64{nil, {42}} {
		_, err := Fit(series)
		var ese *EmptySeriesError
		require.ErrorAs(t, err, &ese)
		assert.Equal(t, len(series), ese.Len)
	}
}

func TestConstantSeriesIsDegenerate(t *testing.T) {
	s, err := Fit([]float64{50, 50, 50, 50})
	require.NoError(t, err)

	_, err = s.Transform([]float64{50, 50})
	var dre *DegenerateRangeError
	require.ErrorAs(t, err, &dre)
	assert.Equal(t, 50.0, dre.Value)

	_, err = s.Inverse([]float64{0.5})
	require.ErrorAs(t, err, &dre)
}

func TestUnfittedScaler(t *testing.T) {
	var nilScaler *Scaler
	_, err := nilScaler.Transform([]float64{1})
	assert.True(t, errors.Is(err, ErrNotFitted))

	_, err = (&Scaler{}).InverseValue(1)
	assert.ErrorIs(t, err, ErrNotFitted)
}
