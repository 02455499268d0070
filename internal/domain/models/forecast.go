package models

import "time"

// ForecastPoint is one predicted future close.
type ForecastPoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

type LossEpoch struct {
	Epoch     int      `json:"epoch"`
	TrainLoss float64  `json:"loss"`
	ValLoss   *float64 `json:"val_loss,omitempty"`
}

// EvaluationMetrics are holdout diagnostics in price units. MAPE is a percentage
// and is nil when a true value was zero.
type EvaluationMetrics struct {
	RMSE float64  `json:"rmse"`
	MAPE *float64 `json:"mape,omitempty"`
	R2   float64  `json:"r2"`
}

// HoldoutRow aligns an actual close with the model's one-step prediction.
type HoldoutRow struct {
	Time      time.Time `json:"time"`
	Actual    float64   `json:"actual"`
	Predicted float64   `json:"predicted"`
}

// SeriesSummary mirrors a describe() table over closing prices.
type SeriesSummary struct {
	Count      int     `json:"count"`
	Mean       float64 `json:"mean"`
	Std        float64 `json:"std"`
	Min        float64 `json:"min"`
	P25        float64 `json:"p25"`
	Median     float64 `json:"p50"`
	P75        float64 `json:"p75"`
	Max        float64 `json:"max"`
	Volatility float64 `json:"annualized_volatility"`
}

// ForecastReport is the API response and the Kafka event payload.
type ForecastReport struct {
	Symbol      string             `json:"symbol"`
	From        time.Time          `json:"from"`
	To          time.Time          `json:"to"`
	GeneratedAt time.Time          `json:"generated_at"`
	Lookback    int                `json:"lookback"`
	Horizon     int                `json:"horizon"`
	Summary     SeriesSummary      `json:"summary"`
	Losses      []LossEpoch        `json:"losses"`
	Metrics     EvaluationMetrics  `json:"metrics"`
	Holdout     []HoldoutRow       `json:"holdout"`
	Forecast    []ForecastPoint    `json:"forecast"`
	Warnings    []string           `json:"warnings,omitempty"`
	StageTimes  map[string]float64 `json:"stage_seconds,omitempty"`
}

// SeriesReport is the historical view of one ticker.
type SeriesReport struct {
	Symbol  string        `json:"symbol"`
	Summary SeriesSummary `json:"summary"`
	Points  []PricePoint  `json:"points"`
}
