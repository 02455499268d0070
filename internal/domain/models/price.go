package models

import (
	"fmt"
	"sort"
	"time"
)

// PricePoint is one closing price.
type PricePoint struct {
	Time  time.Time `json:"time"`
	Close float64   `json:"close"`
}

// PriceSeries is a chronologically sorted sequence of closes for one ticker.
type PriceSeries struct {
	Symbol string       `json:"symbol"`
	Points []PricePoint `json:"points"`
}

// Len returns the number of points.
func (s PriceSeries) Len() int { return len(s.Points) }

// Validate checks that timestamps are strictly increasing.
func (s PriceSeries) Validate() error {
	for i := 1; i < len(s.Points); i++ {
		prev, cur := s.Points[i-1].Time, s.Points[i].Time
		if !cur.After(prev) {
			if cur.Equal(prev) {
				return fmt.Errorf("duplicate timestamp %s at index %d", cur.Format(time.RFC3339), i)
			}
			return fmt.Errorf("series not sorted: %s before %s at index %d",
				cur.Format(time.RFC3339), prev.Format(time.RFC3339), i)
		}
	}
	return nil
}

// Closes returns the closing prices in order.
func (s PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Close
	}
	return out
}

// Last returns the most recent point; ok is false for an empty series.
func (s PriceSeries) Last() (PricePoint, bool) {
	if len(s.Points) == 0 {
		return PricePoint{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// Candle represents a daily OHLCV record as stored or fetched from a provider.
type Candle struct {
	Time   time.Time
	Symbol string
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// CandlesToSeries sorts candles by time and keeps the last close per timestamp.
func CandlesToSeries(symbol string, candles []Candle) PriceSeries {
	sorted := make([]Candle, len(candles))
	copy(sorted, candles)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	pts := make([]PricePoint, 0, len(sorted))
	for _, c := range sorted {
		if n := len(pts); n > 0 && pts[n-1].Time.Equal(c.Time) {
			pts[n-1].Close = c.Close
			continue
		}
		pts = append(pts, PricePoint{Time: c.Time, Close: c.Close})
	}
	return PriceSeries{Symbol: symbol, Points: pts}
}
