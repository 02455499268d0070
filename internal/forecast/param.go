package forecast

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/floats"
)

// param is a flat trainable tensor with its accumulated gradient.
type param struct {
	name string
	w    []float64
	g    []float64
}

func newParam(name string, n int) *param {
	return &param{name: name, w: make([]float64, n), g: make([]float64, n)}
}

// glorotUniform fills p with U(-limit, limit), limit = sqrt(6/(fanIn+fanOut)).
func (p *param) glorotUniform(rng *rand.Rand, fanIn, fanOut int) {
	limit := math.Sqrt(6.0 / float64(fanIn+fanOut))
	for i := range p.w {
		p.w[i] = (rng.Float64()*2 - 1) * limit
	}
}

// weights views w as a row-major rows x cols matrix sharing storage.
func (p *param) weights(rows, cols int) blas64.General {
	return blas64.General{Rows: rows, Cols: cols, Stride: cols, Data: p.w}
}

// grads views g the same way as weights.
func (p *param) grads(rows, cols int) blas64.General {
	return blas64.General{Rows: rows, Cols: cols, Stride: cols, Data: p.g}
}

func vec(x []float64) blas64.Vector {
	return blas64.Vector{N: len(x), Inc: 1, Data: x}
}

func zeroGrads(ps []*param) {
	for _, p := range ps {
		clear(p.g)
	}
}

func gradNorm(ps []*param) float64 {
	var sum float64
	for _, p := range ps {
		sum += floats.Dot(p.g, p.g)
	}
	return math.Sqrt(sum)
}

// clipGrads rescales all gradients so their global norm is at most maxNorm.
func clipGrads(ps []*param, maxNorm float64) {
	if maxNorm <= 0 {
		return
	}
	norm := gradNorm(ps)
	if norm <= maxNorm || math.IsNaN(norm) || math.IsInf(norm, 0) {
		return
	}
	scale := maxNorm / norm
	for _, p := range ps {
		floats.Scale(scale, p.g)
	}
}

func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}
