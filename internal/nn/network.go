package nn

import (
	"fmt"
	"math/rand/v2"

	"github.com/Veraticus/evento/internal/common"
	"gonum.org/v1/gonum/floats"
)

// Config fixes the layer sizes of a Network.
type Config struct {
	VocabSize    int `json:"vocab_size"`
	SeqLen       int `json:"seq_len"`
	EmbeddingDim int `json:"embedding_dim"`
	Hidden1      int `json:"hidden1"`
	Hidden2      int `json:"hidden2"`
	DenseUnits   int `json:"dense_units"`
	Outputs      int `json:"outputs"`
}

// DefaultConfig returns the standard layer sizes for a vocabulary of the given size.
func DefaultConfig(vocabSize int) Config {
	return Config{
		VocabSize:    vocabSize,
		SeqLen:       50,
		EmbeddingDim: 64,
		Hidden1:      64,
		Hidden2:      32,
		DenseUnits:   32,
		Outputs:      8,
	}
}

// Validate checks that every dimension is usable.
func (c Config) Validate() error {
	dims := []struct {
		name  string
		value int
	}{
		{"vocab_size", c.VocabSize},
		{"seq_len", c.SeqLen},
		{"embedding_dim", c.EmbeddingDim},
		{"hidden1", c.Hidden1},
		{"hidden2", c.Hidden2},
		{"dense_units", c.DenseUnits},
		{"outputs", c.Outputs},
	}
	for _, d := range dims {
		if d.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", common.ErrInvalidConfig, d.name, d.value)
		}
	}
	return nil
}

// Network is the embedding → LSTM → LSTM → dense → sigmoid stack.
//
// Predict only reads the weights and may be called concurrently. Fit mutates
// them and must have exclusive access to the Network.
type Network struct {
	embedding *param
	lstm1     *lstm
	lstm2     *lstm
	hidden    *dense
	output    *dense
	cfg       Config
}

// New creates a network with freshly initialised weights drawn from seed.
func New(cfg Config, seed uint64) (*Network, error) {
	n, err := build(cfg)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	n.embedding.uniform(rng, 0.05)
	for _, l := range []*lstm{n.lstm1, n.lstm2} {
		l.wx.glorot(rng, l.in, 4*l.hidden)
		l.wh.glorot(rng, l.hidden, 4*l.hidden)
		// Forget gate bias starts at 1.
		for j := l.hidden; j < 2*l.hidden; j++ {
			l.b.w[j] = 1
		}
	}
	for _, d := range []*dense{n.hidden, n.output} {
		d.w.glorot(rng, d.in, d.out)
	}

	return n, nil
}

func build(cfg Config) (*Network, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Network{
		embedding: newParam("embedding", cfg.VocabSize, cfg.EmbeddingDim),
		lstm1:     newLSTM("lstm1", cfg.EmbeddingDim, cfg.Hidden1),
		lstm2:     newLSTM("lstm2", cfg.Hidden1, cfg.Hidden2),
		hidden:    newDense("dense1", cfg.Hidden2, cfg.DenseUnits),
		output:    newDense("dense2", cfg.DenseUnits, cfg.Outputs),
		cfg:       cfg,
	}, nil
}

// Config returns the layer sizes of the network.
func (n *Network) Config() Config {
	return n.cfg
}

func (n *Network) params() []*param {
	ps := []*param{n.embedding}
	ps = append(ps, n.lstm1.params()...)
	ps = append(ps, n.lstm2.params()...)
	ps = append(ps, n.hidden.params()...)
	ps = append(ps, n.output.params()...)
	return ps
}

// trace holds the intermediate values of one forward pass.
type trace struct {
	ids    []int
	steps1 []lstmStep
	steps2 []lstmStep
	last   []float64
	pre    []float64
	act    []float64
	logits []float64
	probs  []float64
}

func (n *Network) checkSequence(ids []int) error {
	if len(ids) != n.cfg.SeqLen {
		return fmt.Errorf("%w: sequence length %d, want %d", common.ErrShapeMismatch, len(ids), n.cfg.SeqLen)
	}
	for t, id := range ids {
		if id < 0 || id >= n.cfg.VocabSize {
			return fmt.Errorf("%w: token id %d at position %d outside vocabulary of %d", common.ErrShapeMismatch, id, t, n.cfg.VocabSize)
		}
	}
	return nil
}

func (n *Network) forward(ids []int) *trace {
	xs := make([][]float64, len(ids))
	for t, id := range ids {
		xs[t] = n.embedding.row(id)
	}

	tr := &trace{ids: ids}
	tr.steps1 = n.lstm1.forward(xs)

	hs := make([][]float64, len(tr.steps1))
	for t, s := range tr.steps1 {
		hs[t] = s.h
	}
	tr.steps2 = n.lstm2.forward(hs)
	tr.last = tr.steps2[len(tr.steps2)-1].h

	tr.pre = n.hidden.forward(tr.last)
	tr.act = make([]float64, len(tr.pre))
	for i, v := range tr.pre {
		tr.act[i] = max(v, 0)
	}

	tr.logits = n.output.forward(tr.act)
	tr.probs = make([]float64, len(tr.logits))
	for i, v := range tr.logits {
		tr.probs[i] = sigmoid(v)
	}

	return tr
}

// backward accumulates parameter gradients given the loss gradient with
// respect to the output logits.
func (n *Network) backward(tr *trace, dLogits []float64) {
	dAct := n.output.backward(tr.act, dLogits)
	for i, v := range tr.pre {
		if v <= 0 {
			dAct[i] = 0
		}
	}
	dLast := n.hidden.backward(tr.last, dAct)

	dhs2 := make([][]float64, len(tr.steps2))
	dhs2[len(dhs2)-1] = dLast
	dhs1 := n.lstm2.backward(tr.steps2, dhs2)
	dxs := n.lstm1.backward(tr.steps1, dhs1)

	for t, id := range tr.ids {
		floats.AddScaled(n.embedding.gradRow(id), 1, dxs[t])
	}
}

func (n *Network) zeroGrad() {
	for _, p := range n.params() {
		clear(p.g)
	}
}

// Predict returns one sigmoid confidence per output slot for a sequence of
// exactly SeqLen token ids.
func (n *Network) Predict(ids []int) ([]float64, error) {
	if err := n.checkSequence(ids); err != nil {
		return nil, err
	}
	return n.forward(ids).probs, nil
}

// State is the serialisable form of a Network.
type State struct {
	Params map[string][]float64 `json:"params"`
	Config Config               `json:"config"`
}

// State returns a copy of the network's configuration and weights.
func (n *Network) State() State {
	s := State{Config: n.cfg, Params: make(map[string][]float64)}
	for _, p := range n.params() {
		s.Params[p.name] = append([]float64(nil), p.w...)
	}
	return s
}

// FromState rebuilds a network from a saved State.
func FromState(s State) (*Network, error) {
	n, err := build(s.Config)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrArtifactMismatch, err)
	}

	for _, p := range n.params() {
		w, ok := s.Params[p.name]
		if !ok {
			return nil, fmt.Errorf("%w: missing weights %q", common.ErrArtifactMismatch, p.name)
		}
		if len(w) != len(p.w) {
			return nil, fmt.Errorf("%w: weights %q have %d values, want %d", common.ErrArtifactMismatch, p.name, len(w), len(p.w))
		}
		copy(p.w, w)
	}
	if len(s.Params) != len(n.params()) {
		return nil, fmt.Errorf("%w: %d weight tensors, want %d", common.ErrArtifactMismatch, len(s.Params), len(n.params()))
	}

	return n, nil
}
