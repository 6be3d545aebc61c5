package anyenn

import (
	"math/rand"

	"github.com/unixpickle/anydiff"
)

// Metrics maps metric names to scalar diagnostics produced
// during one loss evaluation.
type Metrics map[string]float64

// A LossOutput is the result of a loss evaluation: a
// scalar loss, the replacement network state, and any
// diagnostic metrics.
type LossOutput struct {
	Loss    anydiff.Res
	State   State
	Metrics Metrics
}

// A SingleIndexLoss measures a network's loss on one batch
// of data under a single epistemic index.
//
// Use AverageSingleIndexLoss to turn a SingleIndexLoss
// into a LossFunc which averages over several sampled
// indices.
//
// The type parameters are the network's input type and the
// batch type.
// The losses in this package all use the instantiation
// with anydiff.Res inputs and *Batch data.
type SingleIndexLoss[I, D any] interface {
	Evaluate(apply ApplyFunc[I], params []*anydiff.Var, state State,
		batch D, index Index) *LossOutput
}

// A LossFunc measures a network's training loss on one
// batch of data, sampling whatever indices it needs from
// rng.
type LossFunc[I, D any] func(net *Network[I], params []*anydiff.Var,
	state State, batch D, rng *rand.Rand) *LossOutput
