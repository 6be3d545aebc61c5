// Package ennff provides tools for training feed-forward
// epistemic neural networks.
package ennff

import (
	"errors"
	"math/rand"
	"runtime"
	"sync"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anyenn"
	"github.com/unixpickle/anynet/anysgd"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/essentials"
)

// A Trainer can construct batches and compute gradients
// for a feed-forward epistemic neural network.
type Trainer struct {
	Net    *anyenn.Network[anydiff.Res]
	Loss   anyenn.LossFunc[anydiff.Res, *anyenn.Batch]
	Params []*anydiff.Var

	// State is the network state threaded through gradient
	// computations.
	// It is replaced after every call to Gradient, and the
	// caller owns persisting it across training runs.
	State anyenn.State

	// Rng drives the index sampling.
	// If it is nil, a randomly seeded source is created on
	// first use.
	Rng *rand.Rand

	// After every gradient computation, LastCost is set to
	// the loss from the batch and LastMetrics to its
	// diagnostic metrics.
	LastCost    anyvec.Numeric
	LastMetrics anyenn.Metrics

	// MaxGos specifies the maximum goroutines to use
	// simultaneously for fetching samples.
	// If it is 0, GOMAXPROCS is used.
	MaxGos int
}

// Fetch produces an *anyenn.Batch for the subset of
// samples.
// The s argument must implement SampleList.
// The batch may not be empty.
func (t *Trainer) Fetch(s anysgd.SampleList) (anysgd.Batch, error) {
	if s.Len() == 0 {
		return nil, errors.New("fetch batch: empty batch")
	}

	l := s.(SampleList)
	ins := make([]anyvec.Vector, l.Len())
	outs := make([]anyvec.Vector, l.Len())

	idxChan := make(chan int, l.Len())
	for i := 0; i < l.Len(); i++ {
		idxChan <- i
	}
	close(idxChan)

	maxGos := t.MaxGos
	if maxGos == 0 {
		maxGos = runtime.GOMAXPROCS(0)
	}

	wg := sync.WaitGroup{}
	errChan := make(chan error, maxGos)
	for i := 0; i < maxGos; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idxChan {
				sample, err := l.GetSample(i)
				if err != nil {
					errChan <- essentials.AddCtx("fetch batch", err)
					return
				}
				ins[i] = sample.Input
				outs[i] = sample.Output
			}
		}()
	}

	wg.Wait()
	close(errChan)

	if err := <-errChan; err != nil {
		return nil, err
	}

	c := ins[0].Creator()
	joinedIns := c.Concat(ins...)
	joinedOuts := c.Concat(outs...)

	return &anyenn.Batch{
		X:         anydiff.NewConst(joinedIns),
		Y:         anydiff.NewConst(joinedOuts),
		DataIndex: dataIndices(c, l),
		Weights:   sampleWeights(c, l),
		Num:       l.Len(),
	}, nil
}

// Gradient computes the gradient for the batch's loss.
// It also sets t.LastCost and t.LastMetrics, and replaces
// t.State with the state the loss returned.
//
// The b argument must be an *anyenn.Batch.
func (t *Trainer) Gradient(b anysgd.Batch) anydiff.Grad {
	res := anydiff.NewGrad(t.Params...)

	out := t.Loss(t.Net, t.Params, t.State, b.(*anyenn.Batch), t.rng())
	t.LastCost = anyvec.Sum(out.Loss.Output())
	t.LastMetrics = out.Metrics
	t.State = out.State

	c := out.Loss.Output().Creator()
	upstream := c.MakeVectorData(c.MakeNumericList([]float64{1}))
	out.Loss.Propagate(upstream, res)

	return res
}

func (t *Trainer) rng() *rand.Rand {
	if t.Rng == nil {
		t.Rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return t.Rng
}

func dataIndices(c anyvec.Creator, l SampleList) anyvec.Vector {
	ids := make([]float64, l.Len())
	if ider, ok := l.(Identifier); ok {
		for i := range ids {
			ids[i] = ider.SampleID(i)
		}
	} else {
		for i := range ids {
			ids[i] = float64(i)
		}
	}
	return c.MakeVectorData(c.MakeNumericList(ids))
}

func sampleWeights(c anyvec.Creator, l SampleList) anyvec.Vector {
	weighter, ok := l.(Weighter)
	if !ok {
		return nil
	}
	weights := make([]float64, l.Len())
	for i := range weights {
		weights[i] = weighter.SampleWeight(i)
	}
	return c.MakeVectorData(c.MakeNumericList(weights))
}
