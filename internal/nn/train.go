package nn

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/Veraticus/evento/internal/common"
)

// FitOptions controls a training run.
type FitOptions struct {
	OnEpoch      func(EpochStats)
	Epochs       int
	BatchSize    int
	LearningRate float64
	Seed         uint64
}

// EpochStats reports the mean loss and binary accuracy seen during one epoch.
type EpochStats struct {
	Epoch    int
	Loss     float64
	Accuracy float64
}

// History holds the stats of every completed epoch.
type History []EpochStats

// Final returns the stats of the last epoch.
func (h History) Final() EpochStats {
	if len(h) == 0 {
		return EpochStats{}
	}
	return h[len(h)-1]
}

const probEpsilon = 1e-7

// Fit trains the network with Adam on the per-slot binary cross-entropy,
// summed over slots and averaged over each mini-batch. Inputs are validated
// up front; any shape mismatch aborts before a single weight changes.
func (n *Network) Fit(ctx context.Context, seqs [][]int, targets [][]float64, opts FitOptions) (History, error) {
	if err := n.checkTrainingSet(seqs, targets); err != nil {
		return nil, err
	}
	if opts.Epochs <= 0 {
		return nil, fmt.Errorf("%w: epochs must be positive, got %d", common.ErrInvalidConfig, opts.Epochs)
	}
	if opts.BatchSize <= 0 {
		return nil, fmt.Errorf("%w: batch size must be positive, got %d", common.ErrInvalidConfig, opts.BatchSize)
	}
	if opts.LearningRate <= 0 {
		opts.LearningRate = 0.001
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed+1))
	opt := newAdam(opts.LearningRate)
	params := n.params()
	order := make([]int, len(seqs))
	for i := range order {
		order[i] = i
	}

	history := make(History, 0, opts.Epochs)
	for epoch := 1; epoch <= opts.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return history, err
		}

		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		var lossSum, hits float64
		for start := 0; start < len(order); start += opts.BatchSize {
			end := min(start+opts.BatchSize, len(order))
			batch := order[start:end]
			scale := 1 / float64(len(batch))

			n.zeroGrad()
			for _, idx := range batch {
				tr := n.forward(seqs[idx])
				loss, correct, grad := lossAndGrad(tr.probs, targets[idx], scale)
				lossSum += loss
				hits += correct
				n.backward(tr, grad)
			}
			opt.step(params)
		}

		stats := EpochStats{
			Epoch:    epoch,
			Loss:     lossSum / float64(len(seqs)),
			Accuracy: hits / float64(len(seqs)*n.cfg.Outputs),
		}
		history = append(history, stats)
		if opts.OnEpoch != nil {
			opts.OnEpoch(stats)
		}
	}

	return history, nil
}

// Loss returns the mean summed binary cross-entropy over a data set without training.
func (n *Network) Loss(seqs [][]int, targets [][]float64) (float64, error) {
	if err := n.checkTrainingSet(seqs, targets); err != nil {
		return 0, err
	}
	var sum float64
	for i, seq := range seqs {
		loss, _, _ := lossAndGrad(n.forward(seq).probs, targets[i], 1)
		sum += loss
	}
	return sum / float64(len(seqs)), nil
}

func (n *Network) checkTrainingSet(seqs [][]int, targets [][]float64) error {
	if len(seqs) == 0 {
		return fmt.Errorf("%w: empty training set", common.ErrShapeMismatch)
	}
	if len(seqs) != len(targets) {
		return fmt.Errorf("%w: %d sequences but %d label rows", common.ErrShapeMismatch, len(seqs), len(targets))
	}
	for i := range seqs {
		if err := n.checkSequence(seqs[i]); err != nil {
			return fmt.Errorf("example %d: %w", i, err)
		}
		if len(targets[i]) != n.cfg.Outputs {
			return fmt.Errorf("%w: example %d has label width %d, want %d", common.ErrShapeMismatch, i, len(targets[i]), n.cfg.Outputs)
		}
		for j, y := range targets[i] {
			if math.IsNaN(y) || math.IsInf(y, 0) {
				return fmt.Errorf("%w: example %d slot %d is not finite", common.ErrShapeMismatch, i, j)
			}
		}
	}
	return nil
}

// lossAndGrad returns the summed cross-entropy of probs against y, the number
// of slots on the correct side of 0.5, and the loss gradient with respect to
// the logits multiplied by scale.
func lossAndGrad(probs, y []float64, scale float64) (float64, float64, []float64) {
	var loss, correct float64
	grad := make([]float64, len(probs))
	for i, p := range probs {
		pc := math.Min(math.Max(p, probEpsilon), 1-probEpsilon)
		loss -= y[i]*math.Log(pc) + (1-y[i])*math.Log(1-pc)
		if (p > 0.5) == (y[i] > 0.5) {
			correct++
		}
		grad[i] = (p - y[i]) * scale
	}
	return loss, correct, grad
}
