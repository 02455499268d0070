package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribeKnownValues(t *testing.T) {
	s := Describe([]float64{4, 1, 3, 2, 5})

	assert.Equal(t, 5, s.Count)
	assert.InDelta(t, 3.0, s.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(2.5), s.Std, 1e-12)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 5.0, s.Max)
	assert.InDelta(t, 2.0, s.P25, 1e-12)
	assert.InDelta(t, 3.0, s.Median, 1e-12)
	assert.InDelta(t, 4.0, s.P75, 1e-12)
}

func TestDescribeInterpolatesQuartiles(t *testing.T) {
	s := Describe([]float64{1, 2, 3, 4})
	assert.InDelta(t, 1.75, s.P25, 1e-12)
	assert.InDelta(t, 2.5, s.Median, 1e-12)
	assert.InDelta(t, 3.25, s.P75, 1e-12)
}

func TestDescribeDegenerate(t *testing.T) {
	assert.Equal(t, 0, Describe(nil).Count)

	one := Describe([]float64{7})
	assert.Equal(t, 1, one.Count)
	assert.Equal(t, 0.0, one.Std)
	assert.Equal(t, 7.0, one.Median)
	assert.Equal(t, 0.0, one.Volatility)
}

func TestLogReturns(t *testing.T) {
	r := LogReturns([]float64{100, 110, 0, 50})
	assert.Len(t, r, 3)
	assert.InDelta(t, math.Log(1.1), r[0], 1e-12)
	assert.Equal(t, 0.0, r[1])
	assert.Equal(t, 0.0, r[2])
	assert.Nil(t, LogReturns([]float64{1}))
}

func TestAnnualizedVolatilityConstantGrowth(t *testing.T) {
	closes := []float64{100}
	for i := 0; i < 20; i++ {
		closes = append(closes, closes[len(closes)-1]*1.01)
	}
	assert.InDelta(t, 0, AnnualizedVolatility(closes), 1e-9)

	alt := []float64{100, 110, 100, 110, 100}
	assert.Greater(t, AnnualizedVolatility(alt), 1.0)
}
