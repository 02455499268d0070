package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigFromTags(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, Config{
		LookbackLength:     60,
		Epochs:             10,
		BatchSize:          32,
		ValidationFraction: 0.1,
		TrainFraction:      0.95,
		Horizon:            7,
		HiddenWidth:        64,
		DenseWidth:         32,
		LearningRate:       0.001,
		Optimizer:          OptimizerAdam,
		ClipNorm:           1,
		ResidualHead:       true,
		Seed:               42,
	}, cfg)
}

func TestConfigValidateRejectsOutOfRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ValidationFraction = 1
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Optimizer = "rmsprop"
	assert.Error(t, cfg.Validate())
}
