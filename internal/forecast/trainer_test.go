package forecast

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallRampDataset(t *testing.T, n, lookback int) *WindowDataset {
	t.Helper()
	series := make([]float64, n)
	for i := range series {
		series[i] = float64(i) / float64(n-1)
	}
	ds, err := BuildWindows(series, lookback)
	require.NoError(t, err)
	return ds
}

func smallTrainConfig() Config {
	cfg := rampConfig()
	cfg.LookbackLength = 10
	cfg.HiddenWidth = 4
	cfg.DenseWidth = 4
	cfg.BatchSize = 8
	return cfg
}

func TestTrainRecordsEveryEpoch(t *testing.T) {
	ds := smallRampDataset(t, 60, 10)
	cfg := smallTrainConfig()

	var seen []int
	model, history, err := NewTrainer(cfg).
		OnEpoch(func(e LossEpoch) { seen = append(seen, e.Epoch) }).
		Run(context.Background(), ds)
	require.NoError(t, err)
	require.NotNil(t, model)
	require.Len(t, history, cfg.Epochs)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, seen)
	for i, e := range history {
		assert.Equal(t, i+1, e.Epoch)
		assert.True(t, e.HasVal)
		assert.False(t, math.IsNaN(e.TrainLoss))
	}

	first := history[0]
	last, ok := history.Final()
	require.True(t, ok)
	assert.Less(t, last.TrainLoss, first.TrainLoss)
}

func TestTrainWithoutMonitorSplit(t *testing.T) {
	ds := smallRampDataset(t, 40, 10)
	cfg := smallTrainConfig()
	cfg.ValidationFraction = 0
	cfg.Epochs = 2

	_, history, err := Train(context.Background(), ds, cfg)
	require.NoError(t, err)
	for _, e := range history {
		assert.False(t, e.HasVal)
		assert.Zero(t, e.ValLoss)
	}
}

func TestTrainSingleWindowSkipsMonitorSplit(t *testing.T) {
	ds := smallRampDataset(t, 11, 10)
	require.Equal(t, 1, ds.Len())
	cfg := smallTrainConfig()
	cfg.Epochs = 2

	model, history, err := Train(context.Background(), ds, cfg)
	require.NoError(t, err)
	require.NotNil(t, model)
	require.Len(t, history, 2)
	for _, e := range history {
		assert.False(t, e.HasVal)
	}
}

func TestTrainIsReproducible(t *testing.T) {
	ds := smallRampDataset(t, 40, 10)
	cfg := smallTrainConfig()
	cfg.Epochs = 2
	cfg.Shuffle = true

	m1, h1, err := Train(context.Background(), ds, cfg)
	require.NoError(t, err)
	m2, h2, err := Train(context.Background(), ds, cfg)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	p1, _ := m1.Predict(ds.Windows[0].Lookback)
	p2, _ := m2.Predict(ds.Windows[0].Lookback)
	assert.Equal(t, p1, p2)
}

func TestTrainNonFiniteLoss(t *testing.T) {
	ds := smallRampDataset(t, 40, 10)
	ds.Windows[3].Target = math.NaN()
	cfg := smallTrainConfig()

	model, history, err := Train(context.Background(), ds, cfg)
	var nce *NonConvergentTrainingError
	require.ErrorAs(t, err, &nce)
	assert.Equal(t, 1, nce.Epoch)
	assert.True(t, math.IsNaN(nce.Loss))
	assert.Nil(t, model)
	assert.Len(t, history, 1)
}

func TestTrainCancelled(t *testing.T) {
	ds := smallRampDataset(t, 40, 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Train(ctx, ds, smallTrainConfig())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTrainRejectsBadInput(t *testing.T) {
	cfg := smallTrainConfig()

	_, _, err := Train(context.Background(), &WindowDataset{Lookback: 10}, cfg)
	var ste *SplitTooSmallError
	assert.ErrorAs(t, err, &ste)

	ds := smallRampDataset(t, 40, 5)
	_, _, err = Train(context.Background(), ds, cfg)
	var ide *InsufficientDataError
	assert.ErrorAs(t, err, &ide)

	cfg.Optimizer = "rmsprop"
	_, _, err = Train(context.Background(), smallRampDataset(t, 40, 10), cfg)
	assert.Error(t, err)
}
