package forecast

import (
	"context"
	"math"
	"math/rand"
)

// LossEpoch is the training and monitor loss after one epoch.
type LossEpoch struct {
	Epoch     int     `json:"epoch"`
	TrainLoss float64 `json:"train_loss"`
	ValLoss   float64 `json:"val_loss"`
	HasVal    bool    `json:"has_val"`
}

// LossHistory is ordered by epoch.
type LossHistory []LossEpoch

// Final returns the last recorded epoch, or false if none.
func (h LossHistory) Final() (LossEpoch, bool) {
	if len(h) == 0 {
		return LossEpoch{}, false
	}
	return h[len(h)-1], true
}

// Trainer fits a BiLSTM on a training WindowDataset.
type Trainer struct {
	cfg     Config
	onEpoch func(LossEpoch)
}

// NewTrainer returns a Trainer for cfg.
func NewTrainer(cfg Config) *Trainer {
	return &Trainer{cfg: cfg}
}

// OnEpoch registers a callback invoked after every epoch.
func (tr *Trainer) OnEpoch(fn func(LossEpoch)) *Trainer {
	tr.onEpoch = fn
	return tr
}

// Train is a shorthand for NewTrainer(cfg).Run.
func Train(ctx context.Context, train *WindowDataset, cfg Config) (*BiLSTM, LossHistory, error) {
	return NewTrainer(cfg).Run(ctx, train)
}

// Run holds out the last ValidationFraction of train for monitoring and
// performs Epochs passes of mini-batch gradient descent over the rest.
// When the monitor subset would leave nothing to fit, every window is fit
// and no validation loss is recorded.
func (tr *Trainer) Run(ctx context.Context, train *WindowDataset) (*BiLSTM, LossHistory, error) {
	cfg := tr.cfg
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if train.Len() == 0 {
		return nil, nil, &SplitTooSmallError{Total: 0, Fraction: cfg.TrainFraction}
	}
	if train.Lookback != cfg.LookbackLength {
		return nil, nil, &InsufficientDataError{Need: cfg.LookbackLength, Have: train.Lookback, What: "lookback steps"}
	}

	n := train.Len()
	at := n
	if cfg.ValidationFraction > 0 {
		at = int(float64(n) * (1 - cfg.ValidationFraction))
	}
	// too few windows to spare a monitor subset
	if at <= 0 {
		at = n
	}
	fit := train.Windows[:at]
	monitor := train.Windows[at:]

	model := NewBiLSTM(cfg)
	opt, err := newOptimizer(cfg.Optimizer, cfg.LearningRate)
	if err != nil {
		return nil, nil, err
	}
	ps := model.params()
	rng := rand.New(rand.NewSource(cfg.Seed + 1))

	type span struct{ lo, hi int }
	var batches []span
	for lo := 0; lo < len(fit); lo += cfg.BatchSize {
		batches = append(batches, span{lo, min(lo+cfg.BatchSize, len(fit))})
	}

	history := make(LossHistory, 0, cfg.Epochs)
	for epoch := 1; epoch <= cfg.Epochs; epoch++ {
		if cfg.Shuffle {
			rng.Shuffle(len(batches), func(i, j int) { batches[i], batches[j] = batches[j], batches[i] })
		}
		var total float64
		for _, b := range batches {
			if err := ctx.Err(); err != nil {
				return nil, history, err
			}
			total += trainBatch(model, opt, ps, fit[b.lo:b.hi], cfg.ClipNorm) * float64(b.hi-b.lo)
		}
		le := LossEpoch{Epoch: epoch, TrainLoss: total / float64(len(fit))}
		if len(monitor) > 0 {
			le.ValLoss = meanSquaredError(model, monitor)
			le.HasVal = true
		}
		history = append(history, le)
		if tr.onEpoch != nil {
			tr.onEpoch(le)
		}
		if !finite(le.TrainLoss) {
			return nil, history, &NonConvergentTrainingError{Epoch: epoch, Loss: le.TrainLoss}
		}
		if le.HasVal && !finite(le.ValLoss) {
			return nil, history, &NonConvergentTrainingError{Epoch: epoch, Loss: le.ValLoss}
		}
	}
	return model, history, nil
}

// trainBatch performs one optimizer step and returns the batch MSE before the step.
func trainBatch(m *BiLSTM, opt optimizer, ps []*param, batch []Window, clip float64) float64 {
	zeroGrads(ps)
	scale := 2.0 / float64(len(batch))
	var loss float64
	for _, w := range batch {
		a := m.forward(w.Lookback)
		diff := a.pred - w.Target
		loss += diff * diff
		m.backward(a, scale*diff)
	}
	clipGrads(ps, clip)
	opt.step(ps)
	return loss / float64(len(batch))
}

func meanSquaredError(m Regressor, ws []Window) float64 {
	var sum float64
	for _, w := range ws {
		p, err := m.Predict(w.Lookback)
		if err != nil {
			return math.NaN()
		}
		d := p - w.Target
		sum += d * d
	}
	return sum / float64(len(ws))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
