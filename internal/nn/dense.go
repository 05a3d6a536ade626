package nn

import "gonum.org/v1/gonum/floats"

// dense is a fully connected layer y = Wx + b. Activations are applied by the caller.
type dense struct {
	w   *param
	b   *param
	in  int
	out int
}

func newDense(name string, in, out int) *dense {
	return &dense{
		w:   newParam(name+".kernel", out, in),
		b:   newParam(name+".bias", 1, out),
		in:  in,
		out: out,
	}
}

func (d *dense) forward(x []float64) []float64 {
	y := make([]float64, d.out)
	for o := range y {
		y[o] = floats.Dot(d.w.row(o), x) + d.b.w[o]
	}
	return y
}

// backward accumulates parameter gradients for upstream gradient dy at
// input x and returns the gradient with respect to x.
func (d *dense) backward(x, dy []float64) []float64 {
	dx := make([]float64, d.in)
	for o, g := range dy {
		floats.AddScaled(d.w.gradRow(o), g, x)
		d.b.g[o] += g
		floats.AddScaled(dx, g, d.w.row(o))
	}
	return dx
}

func (d *dense) params() []*param {
	return []*param{d.w, d.b}
}
