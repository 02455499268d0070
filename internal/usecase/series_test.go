package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeriesReport(t *testing.T) {
	store := &fakeStore{candles: rampCandles(day("2024-01-01"), 5)}
	uc := NewSeriesUseCase(store, []string{"AAPL", "MSFT"}, 365)
	uc.now = func() time.Time { return today }

	r, err := uc.Series(context.Background(), "msft", day("2024-01-01"), day("2024-01-31"))
	require.NoError(t, err)
	assert.Equal(t, "MSFT", r.Symbol)
	assert.Len(t, r.Points, 5)
	assert.Equal(t, 5, r.Summary.Count)
	assert.InDelta(t, 102, r.Summary.Mean, 1e-9)
	assert.Equal(t, 104.0, r.Summary.Max)
}

func TestSeriesErrors(t *testing.T) {
	uc := NewSeriesUseCase(&fakeStore{}, nil, 30)
	uc.now = func() time.Time { return today }

	_, err := uc.Series(context.Background(), "AAPL", day("2024-01-01"), day("2024-03-01"))
	var re *RangeError
	assert.ErrorAs(t, err, &re)

	_, err = uc.Series(context.Background(), "AAPL", day("2024-01-01"), day("2024-01-10"))
	assert.ErrorIs(t, err, ErrNoPriceData)
}

func TestTickersReturnsCopy(t *testing.T) {
	uc := NewSeriesUseCase(&fakeStore{}, []string{"AAPL"}, 30)
	got := uc.Tickers()
	got[0] = "X"
	assert.Equal(t, []string{"AAPL"}, uc.Tickers())
}
