// Package nn implements the sequence model that scores a vectorized prompt:
// an embedding table feeding two stacked LSTM layers and a small dense head
// with one sigmoid output per record slot.
package nn

import (
	"math"
	"math/rand/v2"
)

// param is a trainable tensor stored row-major, with its gradient and Adam moments.
type param struct {
	name string
	w    []float64
	g    []float64
	m    []float64
	v    []float64
	rows int
	cols int
}

func newParam(name string, rows, cols int) *param {
	n := rows * cols
	return &param{
		name: name,
		w:    make([]float64, n),
		g:    make([]float64, n),
		rows: rows,
		cols: cols,
	}
}

func (p *param) row(r int) []float64 {
	return p.w[r*p.cols : (r+1)*p.cols]
}

func (p *param) gradRow(r int) []float64 {
	return p.g[r*p.cols : (r+1)*p.cols]
}

// glorot fills p uniformly in ±sqrt(6/(fanIn+fanOut)).
func (p *param) glorot(rng *rand.Rand, fanIn, fanOut int) {
	p.uniform(rng, math.Sqrt(6/float64(fanIn+fanOut)))
}

func (p *param) uniform(rng *rand.Rand, limit float64) {
	for i := range p.w {
		p.w[i] = (rng.Float64()*2 - 1) * limit
	}
}

// adam implements the Adam optimiser with bias correction.
type adam struct {
	lr    float64
	beta1 float64
	beta2 float64
	eps   float64
	t     int
}

func newAdam(lr float64) *adam {
	return &adam{lr: lr, beta1: 0.9, beta2: 0.999, eps: 1e-7}
}

func (a *adam) step(params []*param) {
	a.t++
	lrT := a.lr * math.Sqrt(1-math.Pow(a.beta2, float64(a.t))) / (1 - math.Pow(a.beta1, float64(a.t)))

	for _, p := range params {
		if p.m == nil {
			p.m = make([]float64, len(p.w))
			p.v = make([]float64, len(p.w))
		}
		for i, g := range p.g {
			p.m[i] = a.beta1*p.m[i] + (1-a.beta1)*g
			p.v[i] = a.beta2*p.v[i] + (1-a.beta2)*g*g
			p.w[i] -= lrT * p.m[i] / (math.Sqrt(p.v[i]) + a.eps)
		}
	}
}

func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}
