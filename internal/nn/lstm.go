package nn

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// lstm is a single LSTM layer. Gate rows are laid out input, forget, cell, output.
type lstm struct {
	wx     *param // [4*hidden][in]
	wh     *param // [4*hidden][hidden]
	b      *param
	in     int
	hidden int
}

// lstmStep caches one timestep of the forward pass for backpropagation.
type lstmStep struct {
	x     []float64
	hPrev []float64
	cPrev []float64
	i     []float64
	f     []float64
	g     []float64
	o     []float64
	c     []float64
	tc    []float64
	h     []float64
}

func newLSTM(name string, in, hidden int) *lstm {
	return &lstm{
		wx:     newParam(name+".kernel", 4*hidden, in),
		wh:     newParam(name+".recurrent", 4*hidden, hidden),
		b:      newParam(name+".bias", 1, 4*hidden),
		in:     in,
		hidden: hidden,
	}
}

func (l *lstm) forward(xs [][]float64) []lstmStep {
	h := make([]float64, l.hidden)
	c := make([]float64, l.hidden)
	z := make([]float64, 4*l.hidden)
	steps := make([]lstmStep, len(xs))

	for t, x := range xs {
		for r := range z {
			z[r] = l.b.w[r] + floats.Dot(l.wx.row(r), x) + floats.Dot(l.wh.row(r), h)
		}

		s := lstmStep{
			x:     x,
			hPrev: h,
			cPrev: c,
			i:     make([]float64, l.hidden),
			f:     make([]float64, l.hidden),
			g:     make([]float64, l.hidden),
			o:     make([]float64, l.hidden),
			c:     make([]float64, l.hidden),
			tc:    make([]float64, l.hidden),
			h:     make([]float64, l.hidden),
		}
		for j := 0; j < l.hidden; j++ {
			s.i[j] = sigmoid(z[j])
			s.f[j] = sigmoid(z[l.hidden+j])
			s.g[j] = math.Tanh(z[2*l.hidden+j])
			s.o[j] = sigmoid(z[3*l.hidden+j])
			s.c[j] = s.f[j]*c[j] + s.i[j]*s.g[j]
			s.tc[j] = math.Tanh(s.c[j])
			s.h[j] = s.o[j] * s.tc[j]
		}

		steps[t] = s
		h, c = s.h, s.c
	}

	return steps
}

// backward runs backpropagation through time. dhs[t] is the gradient flowing
// into h at step t from above and may be nil. It returns the gradient with
// respect to each input x.
func (l *lstm) backward(steps []lstmStep, dhs [][]float64) [][]float64 {
	n := l.hidden
	dhNext := make([]float64, n)
	dcNext := make([]float64, n)
	dz := make([]float64, 4*n)
	dxs := make([][]float64, len(steps))

	for t := len(steps) - 1; t >= 0; t-- {
		s := steps[t]
		for j := 0; j < n; j++ {
			dh := dhNext[j]
			if dhs[t] != nil {
				dh += dhs[t][j]
			}
			dc := dh*s.o[j]*(1-s.tc[j]*s.tc[j]) + dcNext[j]

			dz[j] = dc * s.g[j] * s.i[j] * (1 - s.i[j])
			dz[n+j] = dc * s.cPrev[j] * s.f[j] * (1 - s.f[j])
			dz[2*n+j] = dc * s.i[j] * (1 - s.g[j]*s.g[j])
			dz[3*n+j] = dh * s.tc[j] * s.o[j] * (1 - s.o[j])

			dcNext[j] = dc * s.f[j]
		}

		clear(dhNext)
		dx := make([]float64, l.in)
		for r, g := range dz {
			floats.AddScaled(l.wx.gradRow(r), g, s.x)
			floats.AddScaled(l.wh.gradRow(r), g, s.hPrev)
			l.b.g[r] += g
			floats.AddScaled(dx, g, l.wx.row(r))
			floats.AddScaled(dhNext, g, l.wh.row(r))
		}
		dxs[t] = dx
	}

	return dxs
}

func (l *lstm) params() []*param {
	return []*param{l.wx, l.wh, l.b}
}
