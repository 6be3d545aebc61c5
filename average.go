package anyenn

import (
	"math/rand"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anyvec"
)

// AverageSingleIndexLoss averages a SingleIndexLoss over
// numIndexSamples sampled indices.
//
// See Averager for details on the averaging semantics.
func AverageSingleIndexLoss[I, D any](single SingleIndexLoss[I, D],
	numIndexSamples int) LossFunc[I, D] {
	a := &Averager[I, D]{Loss: single, NumIndexSamples: numIndexSamples}
	return a.TrainLoss
}

// An Averager turns a SingleIndexLoss into a training loss
// by sampling several indices and averaging the per-index
// results.
//
// The network state is averaged across indices as well.
// This is not equivalent to NumIndexSamples sequential
// updates; models with position-sensitive state (e.g.
// counters) should use a NumIndexSamples of 1.
type Averager[I, D any] struct {
	Loss SingleIndexLoss[I, D]

	// NumIndexSamples is the number of indices to sample
	// per evaluation.
	// If it is 0, 1 is used.
	NumIndexSamples int

	// CounterLayer, if non-empty, names a state layer whose
	// "counter" leaf is reported as a "state_counter"
	// metric after every evaluation.
	// The named layer and leaf must exist whenever the
	// state is non-empty.
	CounterLayer string
}

// TrainLoss evaluates the averaged loss.
//
// It samples the indices with SampleIndices, evaluates the
// loss once per index with every other argument shared,
// and averages the losses, states, and metrics.
// The averaged state must have exactly the shape of the
// input state.
func (a *Averager[I, D]) TrainLoss(net *Network[I], params []*anydiff.Var,
	state State, batch D, rng *rand.Rand) *LossOutput {
	n := a.NumIndexSamples
	if n == 0 {
		n = 1
	}
	indices := SampleIndices(net.Indexer, rng, n)

	losses := make([]anydiff.Res, n)
	states := make([]State, n)
	metrics := make([]Metrics, n)
	for i, index := range indices {
		out := a.Loss.Evaluate(net.Apply, params, state, batch, index)
		losses[i] = out.Loss
		states[i] = out.State
		metrics[i] = out.Metrics
	}

	meanLoss := losses[0]
	if n > 1 {
		sum := losses[0]
		for _, l := range losses[1:] {
			sum = anydiff.Add(sum, l)
		}
		scaler := sum.Output().Creator().MakeNumeric(1 / float64(n))
		meanLoss = anydiff.Scale(sum, scaler)
	}

	newState := states[0]
	if len(newState) > 0 {
		newState = meanStates(states)
		assertStateShape(newState, state)
	}

	mean := averageMetrics(metrics)
	if a.CounterLayer != "" && len(newState) > 0 {
		mean["state_counter"] = counterMean(newState, a.CounterLayer)
	}
	return &LossOutput{Loss: meanLoss, State: newState, Metrics: mean}
}

// averageMetrics averages the metrics keywise.
// Every evaluation of the same loss produces the same
// keys, so the keys of the first map are used.
func averageMetrics(ms []Metrics) Metrics {
	res := Metrics{}
	for key := range ms[0] {
		var sum float64
		for _, m := range ms {
			sum += m[key]
		}
		res[key] = sum / float64(len(ms))
	}
	return res
}

// counterMean averages the components of a state layer's
// "counter" leaf.
func counterMean(state State, layerName string) float64 {
	layer, ok := state[layerName]
	if !ok {
		panic("no state layer named: " + layerName)
	}
	counter, ok := layer["counter"]
	if !ok {
		panic("state layer " + layerName + " has no counter leaf")
	}
	return numericValue(anyvec.Sum(counter)) / float64(counter.Len())
}
