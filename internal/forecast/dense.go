package forecast

import (
	"math/rand"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/floats"
)

// dense is a linear layer y = Wx + b (no activation, as in the original head).
type dense struct {
	in  int
	out int
	w   *param // out x in
	b   *param
}

func newDense(name string, in, out int, rng *rand.Rand, zeroInit bool) *dense {
	d := &dense{
		in:  in,
		out: out,
		w:   newParam(name+".kernel", out*in),
		b:   newParam(name+".bias", out),
	}
	if !zeroInit {
		d.w.glorotUniform(rng, in, out)
	}
	return d
}

func (d *dense) params() []*param { return []*param{d.w, d.b} }

func (d *dense) forward(x []float64) []float64 {
	y := make([]float64, d.out)
	copy(y, d.b.w)
	blas64.Gemv(blas.NoTrans, 1, d.w.weights(d.out, d.in), vec(x), 1, vec(y))
	return y
}

// backward accumulates gradients for dy and returns dx.
func (d *dense) backward(x, dy []float64) []float64 {
	floats.Add(d.b.g, dy)
	blas64.Ger(1, vec(dy), vec(x), d.w.grads(d.out, d.in))
	dx := make([]float64, d.in)
	blas64.Gemv(blas.Trans, 1, d.w.weights(d.out, d.in), vec(dy), 0, vec(dx))
	return dx
}
