package usecase

import (
	"context"
	"sync"
	"time"

	"StockHub/internal/domain/models"
	domsvc "StockHub/internal/domain/service"
)

var today = time.Date(2024, 6, 14, 15, 30, 0, 0, time.UTC)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

type fakeStore struct {
	candles []models.Candle
	err     error
	calls   int
}

func (f *fakeStore) Candles(_ context.Context, symbol string, from, to time.Time) ([]models.Candle, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Candle, 0, len(f.candles))
	for _, c := range f.candles {
		if !c.Time.Before(from) && !c.Time.After(to) {
			c.Symbol = symbol
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) Health(context.Context) error { return f.err }
func (f *fakeStore) Close() error                 { return nil }

func rampCandles(from time.Time, n int) []models.Candle {
	out := make([]models.Candle, n)
	for i := range out {
		out[i] = models.Candle{Time: from.AddDate(0, 0, i), Close: 100 + float64(i)}
	}
	return out
}

type fakeForecaster struct {
	mu     sync.Mutex
	calls  int
	params domsvc.ForecastParams
	err    error
	block  chan struct{}
	ctxErr error
}

func (f *fakeForecaster) Forecast(ctx context.Context, series models.PriceSeries, p domsvc.ForecastParams) (*models.ForecastReport, error) {
	f.mu.Lock()
	f.calls++
	f.params = p
	f.mu.Unlock()
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			f.mu.Lock()
			f.ctxErr = ctx.Err()
			f.mu.Unlock()
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	last, _ := series.Last()
	return &models.ForecastReport{
		Symbol:   series.Symbol,
		Horizon:  p.Horizon,
		Lookback: p.Lookback,
		Forecast: []models.ForecastPoint{{Date: last.Time.AddDate(0, 0, 1), Price: last.Close + 1}},
	}, nil
}

type fakePublisher struct {
	mu      sync.Mutex
	reports []*models.ForecastReport
	err     error
}

func (f *fakePublisher) PublishForecast(_ context.Context, r *models.ForecastReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reports = append(f.reports, r)
	return f.err
}

func (f *fakePublisher) Close() error { return nil }

type fakeMetrics struct {
	mu       sync.Mutex
	runs     map[string]int
	failures map[string]int
	hits     int
	misses   int
	last     map[string]float64
	pubErrs  int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{runs: map[string]int{}, failures: map[string]int{}, last: map[string]float64{}}
}

func (m *fakeMetrics) RecordStageFailure(stage string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[stage]++
}

func (m *fakeMetrics) RecordRun(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[result]++
}

func (m *fakeMetrics) RecordForecast(symbol string, price float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last[symbol] = price
}

func (m *fakeMetrics) RecordCache(hit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hit {
		m.hits++
	} else {
		m.misses++
	}
}

func (m *fakeMetrics) RecordPublish(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.pubErrs++
	}
}
