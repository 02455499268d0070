package usecase

import (
	"context"
	"fmt"
	"time"

	"StockHub/internal/domain/models"
	domrepo "StockHub/internal/domain/repository"
	"StockHub/internal/services/features"
	"StockHub/pkg/util"
)

// SeriesUseCase serves historical closes and their summary statistics.
type SeriesUseCase struct {
	store     domrepo.PriceStore
	watchlist []string
	maxDays   int
	now       func() time.Time
}

func NewSeriesUseCase(store domrepo.PriceStore, watchlist []string, maxDays int) *SeriesUseCase {
	return &SeriesUseCase{store: store, watchlist: watchlist, maxDays: maxDays, now: time.Now}
}

// Series returns closes in [from, to] with describe statistics.
func (uc *SeriesUseCase) Series(ctx context.Context, symbol string, from, to time.Time) (*models.SeriesReport, error) {
	symbol = util.NormalizeSymbol(symbol)
	if err := checkRange(from, to, uc.now(), uc.maxDays); err != nil {
		return nil, err
	}
	candles, err := uc.store.Candles(ctx, symbol, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetch prices: %w: %w", ErrPriceSource, err)
	}
	series := models.CandlesToSeries(symbol, candles)
	if series.Len() == 0 {
		return nil, ErrNoPriceData
	}
	return &models.SeriesReport{
		Symbol:  symbol,
		Summary: features.Describe(series.Closes()),
		Points:  series.Points,
	}, nil
}

// Tickers returns the configured watchlist.
func (uc *SeriesUseCase) Tickers() []string {
	out := make([]string, len(uc.watchlist))
	copy(out, uc.watchlist)
	return out
}

// Health checks the price store.
func (uc *SeriesUseCase) Health(ctx context.Context) error {
	return uc.store.Health(ctx)
}
