package repository

import (
	"context"
	"time"

	"StockHub/internal/domain/models"
)

// PriceStore returns daily candles for a symbol in [from, to].
type PriceStore interface {
	Candles(ctx context.Context, symbol string, from, to time.Time) ([]models.Candle, error)
	Health(ctx context.Context) error
	Close() error
}

// ForecastPublisher emits completed forecast reports.
type ForecastPublisher interface {
	PublishForecast(ctx context.Context, r *models.ForecastReport) error
	Close() error
}

type Metrics interface {
	RecordStageFailure(stage string)
	RecordRun(result string)
	RecordForecast(symbol string, price float64)
	RecordCache(hit bool)
	RecordPublish(err error)
}
