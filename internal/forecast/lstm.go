package forecast

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/floats"
)

// lstm is a single-direction LSTM layer. Gate order in the packed
// weights is input, forget, cell, output.
type lstm struct {
	in     int
	hidden int
	w      *param // 4H x in
	u      *param // 4H x H
	b      *param // 4H
}

func newLSTM(name string, in, hidden int, rng *rand.Rand) *lstm {
	l := &lstm{
		in:     in,
		hidden: hidden,
		w:      newParam(name+".kernel", 4*hidden*in),
		u:      newParam(name+".recurrent", 4*hidden*hidden),
		b:      newParam(name+".bias", 4*hidden),
	}
	l.w.glorotUniform(rng, in, 4*hidden)
	l.u.glorotUniform(rng, hidden, 4*hidden)
	// unit forget bias
	for j := hidden; j < 2*hidden; j++ {
		l.b.w[j] = 1
	}
	return l
}

func (l *lstm) params() []*param { return []*param{l.w, l.u, l.b} }

// lstmStep caches everything the backward pass needs for one timestep.
type lstmStep struct {
	x     []float64
	hPrev []float64
	cPrev []float64
	i     []float64
	f     []float64
	g     []float64
	o     []float64
	c     []float64
	tanhC []float64
	h     []float64
}

type lstmTrace struct {
	steps []lstmStep
}

// outputs returns h for every step in processing order.
func (t *lstmTrace) outputs() [][]float64 {
	out := make([][]float64, len(t.steps))
	for s := range t.steps {
		out[s] = t.steps[s].h
	}
	return out
}

func (t *lstmTrace) last() []float64 { return t.steps[len(t.steps)-1].h }

// forward runs the layer over xs in the given order from zero state.
func (l *lstm) forward(xs [][]float64) *lstmTrace {
	H := l.hidden
	tr := &lstmTrace{steps: make([]lstmStep, len(xs))}
	hPrev := make([]float64, H)
	cPrev := make([]float64, H)
	z := make([]float64, 4*H)
	for t, x := range xs {
		copy(z, l.b.w)
		blas64.Gemv(blas.NoTrans, 1, l.w.weights(4*H, l.in), vec(x), 1, vec(z))
		blas64.Gemv(blas.NoTrans, 1, l.u.weights(4*H, H), vec(hPrev), 1, vec(z))
		st := lstmStep{
			x:     x,
			hPrev: hPrev,
			cPrev: cPrev,
			i:     make([]float64, H),
			f:     make([]float64, H),
			g:     make([]float64, H),
			o:     make([]float64, H),
			c:     make([]float64, H),
			tanhC: make([]float64, H),
			h:     make([]float64, H),
		}
		for j := 0; j < H; j++ {
			st.i[j] = sigmoid(z[j])
			st.f[j] = sigmoid(z[H+j])
			st.g[j] = math.Tanh(z[2*H+j])
			st.o[j] = sigmoid(z[3*H+j])
			st.c[j] = st.f[j]*cPrev[j] + st.i[j]*st.g[j]
			st.tanhC[j] = math.Tanh(st.c[j])
			st.h[j] = st.o[j] * st.tanhC[j]
		}
		tr.steps[t] = st
		hPrev, cPrev = st.h, st.c
	}
	return tr
}

// backward runs BPTT. dhs[s] is the upstream gradient for the output at
// processing step s and may be nil. Gradients accumulate into the params.
// When needDx is false the input gradients are not computed.
func (l *lstm) backward(tr *lstmTrace, dhs [][]float64, needDx bool) [][]float64 {
	H := l.hidden
	T := len(tr.steps)
	var dxs [][]float64
	if needDx {
		dxs = make([][]float64, T)
	}
	dhNext := make([]float64, H)
	dcNext := make([]float64, H)
	dz := make([]float64, 4*H)
	for t := T - 1; t >= 0; t-- {
		st := &tr.steps[t]
		for j := 0; j < H; j++ {
			dh := dhNext[j]
			if dhs[t] != nil {
				dh += dhs[t][j]
			}
			do := dh * st.tanhC[j]
			dc := dh*st.o[j]*(1-st.tanhC[j]*st.tanhC[j]) + dcNext[j]
			di := dc * st.g[j]
			dg := dc * st.i[j]
			df := dc * st.cPrev[j]
			dz[j] = di * st.i[j] * (1 - st.i[j])
			dz[H+j] = df * st.f[j] * (1 - st.f[j])
			dz[2*H+j] = dg * (1 - st.g[j]*st.g[j])
			dz[3*H+j] = do * st.o[j] * (1 - st.o[j])
			dcNext[j] = dc * st.f[j]
		}
		floats.Add(l.b.g, dz)
		blas64.Ger(1, vec(dz), vec(st.x), l.w.grads(4*H, l.in))
		blas64.Ger(1, vec(dz), vec(st.hPrev), l.u.grads(4*H, H))
		dhPrev := make([]float64, H)
		blas64.Gemv(blas.Trans, 1, l.u.weights(4*H, H), vec(dz), 0, vec(dhPrev))
		var dx []float64
		if needDx {
			dx = make([]float64, l.in)
			blas64.Gemv(blas.Trans, 1, l.w.weights(4*H, l.in), vec(dz), 0, vec(dx))
		}
		dhNext = dhPrev
		if needDx {
			dxs[t] = dx
		}
	}
	return dxs
}
