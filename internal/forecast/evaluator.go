package forecast

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Metrics are computed on denormalized holdout predictions.
type Metrics struct {
	RMSE        float64   `json:"rmse"`
	MAPE        float64   `json:"mape"`
	MAPEDefined bool      `json:"mape_defined"`
	R2          float64   `json:"r2"`
	Predictions []float64 `json:"-"`
	Actuals     []float64 `json:"-"`
}

// Evaluate scores model on holdout in price units. When a true value is
// exactly zero, MAPE stays 0 with MAPEDefined false and an *UndefinedMetricError is returned
// together with the otherwise complete Metrics.
func Evaluate(model Regressor, holdout *WindowDataset, scaler *Scaler) (*Metrics, error) {
	if holdout.Len() == 0 {
		return nil, &SplitTooSmallError{Total: 0}
	}
	norm := make([]float64, holdout.Len())
	for i, w := range holdout.Windows {
		p, err := model.Predict(w.Lookback)
		if err != nil {
			return nil, err
		}
		if !finite(p) {
			return nil, ErrNonFinitePrediction
		}
		norm[i] = p
	}
	preds, err := scaler.Inverse(norm)
	if err != nil {
		return nil, err
	}
	actuals, err := scaler.Inverse(holdout.Targets())
	if err != nil {
		return nil, err
	}
	return Score(actuals, preds)
}

// Score computes RMSE, MAPE (percent) and R² for aligned slices.
func Score(actuals, preds []float64) (*Metrics, error) {
	if len(actuals) == 0 || len(actuals) != len(preds) {
		return nil, &InsufficientDataError{Need: 1, Have: min(len(actuals), len(preds)), What: "aligned predictions"}
	}
	n := float64(len(actuals))
	m := &Metrics{Predictions: preds, Actuals: actuals}

	dist := floats.Distance(actuals, preds, 2)
	m.RMSE = dist / math.Sqrt(n)

	centered := make([]float64, len(actuals))
	copy(centered, actuals)
	floats.AddConst(-stat.Mean(actuals, nil), centered)
	switch {
	case floats.Dot(centered, centered) > 0:
		m.R2 = stat.RSquaredFrom(preds, actuals, nil)
	case dist == 0:
		m.R2 = 1
	default:
		m.R2 = 0
	}

	var sum float64
	for i, a := range actuals {
		if a == 0 {
			return m, &UndefinedMetricError{Metric: "mape", Reason: "true value is zero"}
		}
		sum += math.Abs((a - preds[i]) / a)
	}
	m.MAPE = sum / n * 100
	m.MAPEDefined = true
	return m, nil
}
