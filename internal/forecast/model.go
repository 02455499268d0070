package forecast

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// Regressor maps one lookback window to the next normalized value.
// Implementations must not mutate state in Predict.
type Regressor interface {
	Predict(lookback []float64) (float64, error)
	LookbackLen() int
}

// BiLSTM is two stacked bidirectional LSTM layers followed by two dense
// layers collapsing to a single scalar.
type BiLSTM struct {
	lookback int
	hidden   int
	residual bool

	fwd1, bwd1 *lstm
	fwd2, bwd2 *lstm
	head       *dense
	out        *dense
}

// NewBiLSTM initializes a model from cfg. The same seed yields identical weights.
func NewBiLSTM(cfg Config) *BiLSTM {
	rng := rand.New(rand.NewSource(cfg.Seed))
	H := cfg.HiddenWidth
	return &BiLSTM{
		lookback: cfg.LookbackLength,
		hidden:   H,
		residual: cfg.ResidualHead,
		fwd1:     newLSTM("bilstm1.forward", 1, H, rng),
		bwd1:     newLSTM("bilstm1.backward", 1, H, rng),
		fwd2:     newLSTM("bilstm2.forward", 2*H, H, rng),
		bwd2:     newLSTM("bilstm2.backward", 2*H, H, rng),
		head:     newDense("dense1", 2*H, cfg.DenseWidth, rng, false),
		out:      newDense("dense2", cfg.DenseWidth, 1, rng, cfg.ResidualHead),
	}
}

// LookbackLen implements Regressor.
func (m *BiLSTM) LookbackLen() int { return m.lookback }

func (m *BiLSTM) params() []*param {
	var ps []*param
	for _, l := range []*lstm{m.fwd1, m.bwd1, m.fwd2, m.bwd2} {
		ps = append(ps, l.params()...)
	}
	ps = append(ps, m.head.params()...)
	ps = append(ps, m.out.params()...)
	return ps
}

// NumParams returns the number of trainable weights.
func (m *BiLSTM) NumParams() int {
	n := 0
	for _, p := range m.params() {
		n += len(p.w)
	}
	return n
}

// activations holds one forward pass for backprop.
type activations struct {
	f1, b1 *lstmTrace
	f2, b2 *lstmTrace
	seq2   [][]float64
	enc    []float64
	h1     []float64
	pred   float64
}

func reversed(xs [][]float64) [][]float64 {
	out := make([][]float64, len(xs))
	for i := range xs {
		out[len(xs)-1-i] = xs[i]
	}
	return out
}

func (m *BiLSTM) forward(lookback []float64) *activations {
	T := len(lookback)
	xs := make([][]float64, T)
	for t, v := range lookback {
		xs[t] = []float64{v}
	}
	a := &activations{}
	a.f1 = m.fwd1.forward(xs)
	a.b1 = m.bwd1.forward(reversed(xs))

	H := m.hidden
	a.seq2 = make([][]float64, T)
	for t := 0; t < T; t++ {
		row := make([]float64, 2*H)
		copy(row[:H], a.f1.steps[t].h)
		copy(row[H:], a.b1.steps[T-1-t].h)
		a.seq2[t] = row
	}
	a.f2 = m.fwd2.forward(a.seq2)
	a.b2 = m.bwd2.forward(reversed(a.seq2))

	a.enc = make([]float64, 2*H)
	copy(a.enc[:H], a.f2.last())
	copy(a.enc[H:], a.b2.last())
	a.h1 = m.head.forward(a.enc)
	a.pred = m.out.forward(a.h1)[0]
	if m.residual {
		a.pred += lookback[T-1]
	}
	return a
}

// backward accumulates parameter gradients for dPred = dLoss/dPrediction.
func (m *BiLSTM) backward(a *activations, dPred float64) {
	H := m.hidden
	T := len(a.seq2)

	dh1 := m.out.backward(a.h1, []float64{dPred})
	dEnc := m.head.backward(a.enc, dh1)

	dF2 := make([][]float64, T)
	dF2[T-1] = dEnc[:H]
	dB2 := make([][]float64, T)
	dB2[T-1] = dEnc[H:]
	dSeqF := m.fwd2.backward(a.f2, dF2, true)
	dSeqB := m.bwd2.backward(a.b2, dB2, true)

	dF1 := make([][]float64, T)
	dB1 := make([][]float64, T)
	for t := 0; t < T; t++ {
		d := floats.AddTo(make([]float64, 2*H), dSeqF[t], dSeqB[T-1-t])
		dF1[t] = d[:H]
		dB1[T-1-t] = d[H:]
	}
	m.fwd1.backward(a.f1, dF1, false)
	m.bwd1.backward(a.b1, dB1, false)
}

// Predict runs a forward pass without touching the weights.
func (m *BiLSTM) Predict(lookback []float64) (float64, error) {
	if len(lookback) != m.lookback {
		return 0, fmt.Errorf("lookback has %d values, model expects %d", len(lookback), m.lookback)
	}
	return m.forward(lookback).pred, nil
}

var _ Regressor = (*BiLSTM)(nil)
