package forecast

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

type optimizer interface {
	step(ps []*param)
}

func newOptimizer(name string, lr float64) (optimizer, error) {
	switch name {
	case OptimizerAdam, "":
		return &adam{lr: lr, beta1: 0.9, beta2: 0.999, eps: 1e-7}, nil
	case OptimizerSGD:
		return &sgd{lr: lr}, nil
	default:
		return nil, fmt.Errorf("unknown optimizer %q", name)
	}
}

type sgd struct {
	lr float64
}

func (o *sgd) step(ps []*param) {
	for _, p := range ps {
		floats.AddScaled(p.w, -o.lr, p.g)
	}
}

// adam uses the Keras default hyper-parameters.
type adam struct {
	lr    float64
	beta1 float64
	beta2 float64
	eps   float64
	t     int
	m     map[*param][]float64
	v     map[*param][]float64
	sq    []float64
}

func (o *adam) step(ps []*param) {
	if o.m == nil {
		o.m = make(map[*param][]float64, len(ps))
		o.v = make(map[*param][]float64, len(ps))
	}
	o.t++
	c1 := 1 - math.Pow(o.beta1, float64(o.t))
	c2 := 1 - math.Pow(o.beta2, float64(o.t))
	for _, p := range ps {
		m, ok := o.m[p]
		if !ok {
			m = make([]float64, len(p.w))
			o.m[p] = m
			o.v[p] = make([]float64, len(p.w))
		}
		v := o.v[p]
		if cap(o.sq) < len(p.g) {
			o.sq = make([]float64, len(p.g))
		}
		sq := floats.MulTo(o.sq[:len(p.g)], p.g, p.g)

		floats.Scale(o.beta1, m)
		floats.AddScaled(m, 1-o.beta1, p.g)
		floats.Scale(o.beta2, v)
		floats.AddScaled(v, 1-o.beta2, sq)
		for i := range p.w {
			p.w[i] -= o.lr * (m[i] / c1) / (math.Sqrt(v[i]/c2) + o.eps)
		}
	}
}
