package forecast

import "time"

// ForecastPoint is one future (date, price) pair in price units.
type ForecastPoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// RecursiveForecast rolls the model forward horizon steps, feeding every
// prediction back as the newest lookback value. Errors compound with the
// horizon; the buffer is never re-anchored to observed data.
// Dates advance one calendar day at a time from lastObserved.
func RecursiveForecast(model Regressor, scaler *Scaler, lastL []float64, lastObserved time.Time, horizon int) ([]ForecastPoint, error) {
	L := model.LookbackLen()
	if horizon <= 0 {
		return nil, &InsufficientDataError{Need: 1, Have: horizon, What: "forecast steps"}
	}
	if len(lastL) != L {
		return nil, &InsufficientDataError{Need: L, Have: len(lastL), What: "lookback values"}
	}

	buf := make([]float64, L, L+horizon)
	copy(buf, lastL)
	preds := make([]float64, horizon)
	for k := 0; k < horizon; k++ {
		p, err := model.Predict(buf[len(buf)-L:])
		if err != nil {
			return nil, err
		}
		if !finite(p) {
			return nil, ErrNonFinitePrediction
		}
		preds[k] = p
		buf = append(buf, p)
	}

	prices, err := scaler.Inverse(preds)
	if err != nil {
		return nil, err
	}
	out := make([]ForecastPoint, horizon)
	for k, price := range prices {
		out[k] = ForecastPoint{Date: lastObserved.AddDate(0, 0, k+1), Price: price}
	}
	return out, nil
}
