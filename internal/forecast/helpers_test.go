package forecast

import (
	"time"

	"StockHub/internal/domain/models"
)

// funcRegressor adapts a function to Regressor.
type funcRegressor struct {
	lookback int
	fn       func([]float64) float64
}

func (r funcRegressor) Predict(lb []float64) (float64, error) { return r.fn(lb), nil }
func (r funcRegressor) LookbackLen() int                      { return r.lookback }

// rampSeries is n daily closes rising linearly from lo to hi.
func rampSeries(symbol string, n int, lo, hi float64) models.PriceSeries {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	pts := make([]models.PricePoint, n)
	for i := range pts {
		pts[i] = models.PricePoint{
			Time:  start.AddDate(0, 0, i),
			Close: lo + (hi-lo)*float64(i)/float64(n-1),
		}
	}
	return models.PriceSeries{Symbol: symbol, Points: pts}
}

// rampConfig trains a small network quickly and deterministically.
func rampConfig() Config {
	cfg := DefaultConfig()
	cfg.Epochs = 5
	cfg.HiddenWidth = 16
	cfg.DenseWidth = 8
	cfg.Optimizer = OptimizerSGD
	cfg.LearningRate = 0.05
	return cfg
}
