package service

import (
	"context"

	"StockHub/internal/domain/models"
)

// ForecastParams are the per-request pipeline knobs.
type ForecastParams struct {
	Lookback int
	Epochs   int
	Horizon  int
}

// Forecaster trains a model on series and returns the full report body.
// From, To and GeneratedAt are left for the caller to fill.
type Forecaster interface {
	Forecast(ctx context.Context, series models.PriceSeries, p ForecastParams) (*models.ForecastReport, error)
}
