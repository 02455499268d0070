package usecase

import (
	"errors"
	"fmt"
)

var (
	// ErrForecastInProgress means an identical forecast is already training.
	ErrForecastInProgress = errors.New("forecast already in progress")
	// ErrNoPriceData means the store returned no candles for the range.
	ErrNoPriceData = errors.New("no price data for range")
	// ErrPriceSource wraps failures of the configured price store.
	ErrPriceSource = errors.New("price source unavailable")
)

// RangeError rejects a date range before any data is fetched.
type RangeError struct {
	Field  string
	Reason string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
