package anyenn

import "github.com/unixpickle/anydiff"

// A NoiseFunc perturbs a batch of data based on an
// epistemic index.
type NoiseFunc[D any] func(batch D, index Index) D

// AddDataNoise wraps a SingleIndexLoss so that every batch
// passes through a NoiseFunc before the loss sees it.
//
// The wrapped loss satisfies the same contract as the
// original, so it can still be fed to an Averager.
func AddDataNoise[I, D any](loss SingleIndexLoss[I, D],
	noise NoiseFunc[D]) SingleIndexLoss[I, D] {
	return &noisyLoss[I, D]{loss: loss, noise: noise}
}

type noisyLoss[I, D any] struct {
	loss  SingleIndexLoss[I, D]
	noise NoiseFunc[D]
}

func (n *noisyLoss[I, D]) Evaluate(apply ApplyFunc[I],
	params []*anydiff.Var, state State, batch D, index Index) *LossOutput {
	return n.loss.Evaluate(apply, params, state, n.noise(batch, index), index)
}
