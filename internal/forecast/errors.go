package forecast

import (
	"errors"
	"fmt"
)

// ErrNotFitted is returned when a Scaler is used before Fit.
var ErrNotFitted = errors.New("scaler not fitted")

// ErrNonFinitePrediction is returned when the model emits NaN or Inf during forecasting.
var ErrNonFinitePrediction = errors.New("model produced a non-finite prediction")

// EmptySeriesError means the series is too short to derive a min/max range.
type EmptySeriesError struct {
	Len int
}

func (e *EmptySeriesError) Error() string {
	return fmt.Sprintf("series has %d points, need at least 2", e.Len)
}

// DegenerateRangeError means every value in the fitted series was equal.
type DegenerateRangeError struct {
	Value float64
}

func (e *DegenerateRangeError) Error() string {
	return fmt.Sprintf("degenerate range: min == max == %g", e.Value)
}

// InsufficientDataError means there are not enough points for the requested window.
type InsufficientDataError struct {
	Need int
	Have int
	What string
}

func (e *InsufficientDataError) Error() string {
	what := e.What
	if what == "" {
		what = "points"
	}
	return fmt.Sprintf("insufficient data: need at least %d %s, have %d", e.Need, what, e.Have)
}

// SplitTooSmallError means a contiguous split left one side empty.
type SplitTooSmallError struct {
	Total    int
	Train    int
	Holdout  int
	Fraction float64
}

func (e *SplitTooSmallError) Error() string {
	return fmt.Sprintf("split of %d windows at fraction %.3f leaves train=%d holdout=%d",
		e.Total, e.Fraction, e.Train, e.Holdout)
}

// NonConvergentTrainingError means the loss became NaN or Inf.
type NonConvergentTrainingError struct {
	Epoch int
	Loss  float64
}

func (e *NonConvergentTrainingError) Error() string {
	return fmt.Sprintf("training diverged at epoch %d: loss=%v", e.Epoch, e.Loss)
}

// UndefinedMetricError is scoped to a single metric; the other metrics stay valid.
type UndefinedMetricError struct {
	Metric string
	Reason string
}

func (e *UndefinedMetricError) Error() string {
	return fmt.Sprintf("metric %s undefined: %s", e.Metric, e.Reason)
}

// StageError names the pipeline stage that failed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// IsUndefinedMetric reports whether err carries an UndefinedMetricError.
func IsUndefinedMetric(err error) bool {
	var ume *UndefinedMetricError
	return errors.As(err, &ume)
}
