package engine

import "github.com/Veraticus/evento/internal/nn"

// EpochObserver receives training progress. Start is called once before the
// first epoch, Epoch after every completed epoch and Finish once training ends,
// whether or not it succeeded.
type EpochObserver interface {
	Start(totalEpochs int)
	Epoch(stats nn.EpochStats)
	Finish()
}

type noopObserver struct{}

func (noopObserver) Start(int)           {}
func (noopObserver) Epoch(nn.EpochStats) {}
func (noopObserver) Finish()             {}
