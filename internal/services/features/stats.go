package features

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"StockHub/internal/domain/models"
)

// TradingDaysPerYear annualizes daily volatility.
const TradingDaysPerYear = 252

// LogReturns computes r_t = ln(C_t / C_{t-1}). Non-positive prices yield 0.
// It returns nil when fewer than two closes are given.
func LogReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	out := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		prev, cur := closes[i-1], closes[i]
		if prev <= 0 || cur <= 0 {
			continue
		}
		out[i-1] = math.Log(cur / prev)
	}
	return out
}

// AnnualizedVolatility is the sample std of daily log returns scaled by sqrt(252).
func AnnualizedVolatility(closes []float64) float64 {
	r := LogReturns(closes)
	if len(r) < 2 {
		return 0
	}
	return stat.StdDev(r, nil) * math.Sqrt(TradingDaysPerYear)
}

// Describe summarizes closes the way a describe() table does: sample std and
// linearly interpolated quartiles.
func Describe(closes []float64) models.SeriesSummary {
	n := len(closes)
	if n == 0 {
		return models.SeriesSummary{}
	}
	sorted := make([]float64, n)
	copy(sorted, closes)
	sort.Float64s(sorted)

	s := models.SeriesSummary{
		Count:      n,
		Mean:       stat.Mean(closes, nil),
		Min:        floats.Min(closes),
		Max:        floats.Max(closes),
		P25:        quantile(sorted, 0.25),
		Median:     quantile(sorted, 0.5),
		P75:        quantile(sorted, 0.75),
		Volatility: AnnualizedVolatility(closes),
	}
	if n > 1 {
		s.Std = stat.StdDev(closes, nil)
	}
	return s
}

// quantile interpolates between order statistics at h = (n-1)p.
// gonum's stat.Quantile has no variant with this definition.
func quantile(sorted []float64, p float64) float64 {
	h := float64(len(sorted)-1) * p
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo])
}
