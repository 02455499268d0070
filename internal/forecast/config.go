package forecast

import (
	"fmt"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
)

const (
	OptimizerAdam = "adam"
	OptimizerSGD  = "sgd"
)

// Config holds the knobs for one pipeline run.
type Config struct {
	LookbackLength     int     `json:"lookback_length" default:"60" validate:"gte=1"`
	Epochs             int     `json:"epochs" default:"10" validate:"gte=1"`
	BatchSize          int     `json:"batch_size" default:"32" validate:"gte=1"`
	ValidationFraction float64 `json:"validation_fraction" default:"0.1" validate:"gte=0,lt=1"`
	TrainFraction      float64 `json:"train_fraction" default:"0.95" validate:"gt=0,lte=1"`
	Horizon            int     `json:"horizon" default:"7" validate:"gte=1"`
	HiddenWidth        int     `json:"hidden_width" default:"64" validate:"gte=1"`
	DenseWidth         int     `json:"dense_width" default:"32" validate:"gte=1"`
	LearningRate       float64 `json:"learning_rate" default:"0.001" validate:"gt=0"`
	Optimizer          string  `json:"optimizer" default:"adam" validate:"oneof=adam sgd"`
	// ClipNorm caps the global gradient L2 norm per step; 0 disables clipping.
	ClipNorm float64 `json:"clip_norm" default:"1" validate:"gte=0"`
	// ResidualHead makes the network predict the step from the last lookback value.
	ResidualHead bool  `json:"residual_head" default:"true"`
	Seed         int64 `json:"seed" default:"42"`
	// Shuffle permutes batch order each epoch (never crosses the fit/monitor boundary).
	Shuffle bool `json:"shuffle"`
}

// DefaultConfig mirrors the dashboard defaults: 60-day lookback, 10 epochs, 7-day horizon.
func DefaultConfig() Config {
	var c Config
	if err := defaults.Set(&c); err != nil {
		panic(fmt.Sprintf("forecast config defaults: %v", err))
	}
	return c
}

var validate = validator.New()

// Validate checks ranges of every option.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid forecast config: %w", err)
	}
	return nil
}
