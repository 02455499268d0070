package repository

import (
	"context"
	"errors"
	"time"

	"StockHub/internal/domain/models"
	domrepo "StockHub/internal/domain/repository"
	applogger "StockHub/pkg/logger"
)

// CandleSink persists candles.
type CandleSink interface {
	StoreCandles(ctx context.Context, candles []models.Candle) error
	Close() error
}

// ArchivingPriceStore serves reads from primary and mirrors every non-empty
// result into sink. Sink failures are logged and never fail the read.
type ArchivingPriceStore struct {
	primary domrepo.PriceStore
	sink    CandleSink
	l       *applogger.Logger
}

func NewArchivingPriceStore(primary domrepo.PriceStore, sink CandleSink, l *applogger.Logger) *ArchivingPriceStore {
	if l == nil {
		l = applogger.Nop()
	}
	return &ArchivingPriceStore{primary: primary, sink: sink, l: l}
}

func (s *ArchivingPriceStore) Candles(ctx context.Context, symbol string, from, to time.Time) ([]models.Candle, error) {
	out, err := s.primary.Candles(ctx, symbol, from, to)
	if err != nil || len(out) == 0 {
		return out, err
	}
	if err := s.sink.StoreCandles(ctx, out); err != nil {
		s.l.Warn("candle archive write failed",
			applogger.Symbol(symbol),
			applogger.Int("rows", len(out)),
			applogger.Error(err),
		)
	}
	return out, nil
}

func (s *ArchivingPriceStore) Health(ctx context.Context) error {
	return s.primary.Health(ctx)
}

func (s *ArchivingPriceStore) Close() error {
	return errors.Join(s.primary.Close(), s.sink.Close())
}

var _ domrepo.PriceStore = (*ArchivingPriceStore)(nil)
