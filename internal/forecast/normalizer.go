package forecast

import "gonum.org/v1/gonum/floats"

// Scaler maps prices into [0,1] using the min and max observed at Fit time.
// It is immutable once fit; the zero value is unfit.
type Scaler struct {
	min    float64
	max    float64
	fitted bool
}

// Fit computes the observed range of series.
func Fit(series []float64) (*Scaler, error) {
	if len(series) < 2 {
		return nil, &EmptySeriesError{Len: len(series)}
	}
	return &Scaler{min: floats.Min(series), max: floats.Max(series), fitted: true}, nil
}

// Min returns the fitted minimum.
func (s *Scaler) Min() float64 { return s.min }

// Max returns the fitted maximum.
func (s *Scaler) Max() float64 { return s.max }

func (s *Scaler) check() error {
	if s == nil || !s.fitted {
		return ErrNotFitted
	}
	if s.max == s.min {
		return &DegenerateRangeError{Value: s.min}
	}
	return nil
}

// Transform maps each value to (x-min)/(max-min).
func (s *Scaler) Transform(series []float64) ([]float64, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	span := s.max - s.min
	out := make([]float64, len(series))
	for i, v := range series {
		out[i] = (v - s.min) / span
	}
	return out, nil
}

// Inverse maps normalized values back to price units.
func (s *Scaler) Inverse(normalized []float64) ([]float64, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	span := s.max - s.min
	out := make([]float64, len(normalized))
	for i, v := range normalized {
		out[i] = v*span + s.min
	}
	return out, nil
}

// TransformValue normalizes a single price.
func (s *Scaler) TransformValue(v float64) (float64, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	return (v - s.min) / (s.max - s.min), nil
}

// InverseValue denormalizes a single value.
func (s *Scaler) InverseValue(v float64) (float64, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	return v*(s.max-s.min) + s.min, nil
}
