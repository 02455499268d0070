package forecasting

import (
	"context"

	"StockHub/internal/domain/models"
	domsvc "StockHub/internal/domain/service"
	"StockHub/internal/forecast"
	"StockHub/internal/services/features"
)

// PipelineForecaster adapts forecast.Pipeline to the domain Forecaster interface.
type PipelineForecaster struct {
	pipeline *forecast.Pipeline
	base     forecast.Config
}

// NewPipelineForecaster runs pipeline with base, overridden per request.
func NewPipelineForecaster(pipeline *forecast.Pipeline, base forecast.Config) *PipelineForecaster {
	return &PipelineForecaster{pipeline: pipeline, base: base}
}

func (f *PipelineForecaster) Forecast(ctx context.Context, series models.PriceSeries, p domsvc.ForecastParams) (*models.ForecastReport, error) {
	cfg := f.base
	if p.Lookback > 0 {
		cfg.LookbackLength = p.Lookback
	}
	if p.Epochs > 0 {
		cfg.Epochs = p.Epochs
	}
	if p.Horizon > 0 {
		cfg.Horizon = p.Horizon
	}

	res, err := f.pipeline.Run(ctx, series, cfg)
	if err != nil {
		return nil, err
	}
	r := ToReport(res)
	r.Summary = features.Describe(series.Closes())
	r.Lookback = cfg.LookbackLength
	r.Horizon = cfg.Horizon
	return r, nil
}

// ToReport maps a pipeline result onto the API model.
func ToReport(res *forecast.Result) *models.ForecastReport {
	r := &models.ForecastReport{
		Symbol:     res.Symbol,
		Losses:     make([]models.LossEpoch, len(res.Losses)),
		Holdout:    make([]models.HoldoutRow, len(res.Holdout)),
		Forecast:   make([]models.ForecastPoint, len(res.Forecast)),
		Warnings:   res.Warnings,
		StageTimes: make(map[string]float64, len(res.Durations)),
	}
	for i, e := range res.Losses {
		le := models.LossEpoch{Epoch: e.Epoch, TrainLoss: e.TrainLoss}
		if e.HasVal {
			v := e.ValLoss
			le.ValLoss = &v
		}
		r.Losses[i] = le
	}
	if m := res.Metrics; m != nil {
		r.Metrics = models.EvaluationMetrics{RMSE: m.RMSE, R2: m.R2}
		if m.MAPEDefined {
			v := m.MAPE
			r.Metrics.MAPE = &v
		}
	}
	for i, h := range res.Holdout {
		r.Holdout[i] = models.HoldoutRow{Time: h.Time, Actual: h.Actual, Predicted: h.Predicted}
	}
	for i, p := range res.Forecast {
		r.Forecast[i] = models.ForecastPoint{Date: p.Date, Price: p.Price}
	}
	for stage, d := range res.Durations {
		r.StageTimes[string(stage)] = d.Seconds()
	}
	return r
}

var _ domsvc.Forecaster = (*PipelineForecaster)(nil)
