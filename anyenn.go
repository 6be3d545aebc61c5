// Package anyenn provides loss functions for epistemic
// neural networks: networks which take an explicit
// epistemic index alongside their input, where the index
// selects one member of an implicit ensemble or posterior.
// Networks may also carry auxiliary state (e.g. running
// normalization statistics) which is threaded functionally
// through every forward pass.
package anyenn

import (
	"math/rand"

	"github.com/unixpickle/anydiff"
)

// An Index identifies one sample from the implicit
// ensemble or posterior that a network represents.
// Its structure is meaningful only to the network and to
// the Indexer which produced it.
type Index interface{}

// An Indexer samples epistemic indices from a source of
// randomness.
type Indexer interface {
	Sample(rng *rand.Rand) Index
}

// A BatchIndexer is an Indexer which can sample several
// indices in a single call.
//
// Sampling all the indices at once makes them a pure
// function of the rng state, no matter how a particular
// Indexer consumes randomness per index.
type BatchIndexer interface {
	Indexer

	SampleBatch(rng *rand.Rand, n int) []Index
}

// SampleIndices samples n indices from an Indexer.
//
// If the Indexer is a BatchIndexer, the indices come from
// one call to SampleBatch.
// Otherwise, Sample is called n times in sequence.
func SampleIndices(ix Indexer, rng *rand.Rand, n int) []Index {
	if b, ok := ix.(BatchIndexer); ok {
		return b.SampleBatch(rng, n)
	}
	res := make([]Index, n)
	for i := range res {
		res[i] = ix.Sample(rng)
	}
	return res
}

// An ApplyFunc runs a network forward on a batch of inputs
// under a single epistemic index.
// It returns the network output and a replacement for the
// state it was given.
//
// An ApplyFunc may read the parameters and the state, but
// it must not modify them.
//
// The type parameter is the network's input type.
type ApplyFunc[I any] func(params []*anydiff.Var, state State, x I,
	index Index) (Output, State)

// A Network pairs a network's forward function with the
// Indexer which samples its epistemic indices.
type Network[I any] struct {
	Apply   ApplyFunc[I]
	Indexer Indexer
}
