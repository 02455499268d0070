package forecasting

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockHub/internal/domain/models"
	domsvc "StockHub/internal/domain/service"
	"StockHub/internal/forecast"
)

func TestToReportMapsOptionalFields(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	res := &forecast.Result{
		Symbol: "AAPL",
		Losses: forecast.LossHistory{
			{Epoch: 1, TrainLoss: 0.4, ValLoss: 0.5, HasVal: true},
			{Epoch: 2, TrainLoss: 0.3},
		},
		Metrics:  &forecast.Metrics{RMSE: 1.5, R2: 0.9, MAPE: 2},
		Holdout:  []forecast.HoldoutRow{{Time: day, Actual: 10, Predicted: 11}},
		Forecast: []forecast.ForecastPoint{{Date: day.AddDate(0, 0, 1), Price: 12}},
		Durations: map[forecast.Stage]time.Duration{
			forecast.StageTrain: 1500 * time.Millisecond,
		},
	}

	r := ToReport(res)
	require.Len(t, r.Losses, 2)
	require.NotNil(t, r.Losses[0].ValLoss)
	assert.Equal(t, 0.5, *r.Losses[0].ValLoss)
	assert.Nil(t, r.Losses[1].ValLoss)
	assert.Nil(t, r.Metrics.MAPE, "MAPE is only reported when defined")
	assert.Equal(t, 1.5, r.Metrics.RMSE)
	assert.Equal(t, 12.0, r.Forecast[0].Price)
	assert.Equal(t, day, r.Holdout[0].Time)
	assert.InDelta(t, 1.5, r.StageTimes["train"], 1e-9)
}

func TestPipelineForecasterOverridesConfig(t *testing.T) {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	pts := make([]models.PricePoint, 40)
	for i := range pts {
		pts[i] = models.PricePoint{Time: start.AddDate(0, 0, i), Close: 100 + float64(i)}
	}
	series := models.PriceSeries{Symbol: "MSFT", Points: pts}

	base := forecast.DefaultConfig()
	base.HiddenWidth, base.DenseWidth = 4, 2
	f := NewPipelineForecaster(forecast.NewPipeline(), base)

	r, err := f.Forecast(context.Background(), series, domsvc.ForecastParams{Lookback: 5, Epochs: 2, Horizon: 3})
	require.NoError(t, err)
	assert.Equal(t, "MSFT", r.Symbol)
	assert.Equal(t, 5, r.Lookback)
	assert.Equal(t, 3, r.Horizon)
	assert.Len(t, r.Losses, 2)
	assert.Len(t, r.Forecast, 3)
	assert.Equal(t, 40, r.Summary.Count)
	assert.NotNil(t, r.Metrics.MAPE)
}

func TestPipelineForecasterInsufficientData(t *testing.T) {
	series := models.PriceSeries{Symbol: "X", Points: []models.PricePoint{
		{Time: time.Unix(0, 0), Close: 1},
		{Time: time.Unix(86400, 0), Close: 2},
	}}
	f := NewPipelineForecaster(forecast.NewPipeline(), forecast.DefaultConfig())
	_, err := f.Forecast(context.Background(), series, domsvc.ForecastParams{})

	var ide *forecast.InsufficientDataError
	assert.ErrorAs(t, err, &ide)
}
