// Command ensemble trains an ensemble of small networks as
// one epistemic neural network on a noisy 1-D regression
// problem.
// The epistemic index picks which ensemble member to
// evaluate, and the training loss averages over several
// sampled members per step.
package main

import (
	"log"
	"math"
	"math/rand"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anyenn"
	"github.com/unixpickle/anyenn/ennff"
	"github.com/unixpickle/anynet"
	"github.com/unixpickle/anynet/anysgd"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/anyvec/anyvec32"
)

const (
	EnsembleSize    = 8
	NumIndexSamples = 4
	NumSamples      = 256
	NumBatches      = 500
	BatchSize       = 32
)

var Creator anyvec.Creator

func main() {
	log.Println("Setting up...")

	Creator = anyvec32.CurrentCreator()

	members := make([]anynet.Net, EnsembleSize)
	var params []*anydiff.Var
	for i := range members {
		members[i] = anynet.Net{
			anynet.NewFC(Creator, 1, 50),
			anynet.Tanh,
			anynet.NewFC(Creator, 50, 1),
		}
		params = append(params, members[i].Parameters()...)
	}

	state := anyenn.State{
		"ensemble": {"counter": Creator.MakeVector(1)},
	}

	net := &anyenn.Network[anydiff.Res]{
		Apply: func(p []*anydiff.Var, state anyenn.State, x anydiff.Res,
			index anyenn.Index) (anyenn.Output, anyenn.State) {
			member := members[index.(int)]
			newState := state.Copy()
			newState["ensemble"]["counter"].AddScalar(Creator.MakeNumeric(1))
			return member.Apply(x, x.Output().Len()), newState
		},
		Indexer: ensembleIndexer(EnsembleSize),
	}

	averager := &anyenn.Averager[anydiff.Res, *anyenn.Batch]{
		Loss:            anyenn.L2Loss{},
		NumIndexSamples: NumIndexSamples,
		CounterLayer:    "ensemble",
	}

	t := &ennff.Trainer{
		Net:    net,
		Loss:   averager.TrainLoss,
		Params: params,
		State:  state,
		Rng:    rand.New(rand.NewSource(1)),
	}

	log.Println("Training...")

	var iterNum int
	stop := make(chan struct{})
	s := &anysgd.SGD{
		Fetcher:     t,
		Gradienter:  t,
		Transformer: &anysgd.Adam{},
		Samples:     makeSamples(),
		Rater:       anysgd.ConstRater(0.001),
		StatusFunc: func(b anysgd.Batch) {
			if iterNum%100 == 0 {
				log.Printf("iter %d: cost=%v state_counter=%v", iterNum,
					t.LastCost, t.LastMetrics["state_counter"])
			}
			iterNum++
			if iterNum == NumBatches {
				close(stop)
			}
		},
		BatchSize: BatchSize,
	}
	s.Run(stop)

	log.Println("Sampling the posterior at x=0...")
	probe := anydiff.NewConst(Creator.MakeVector(1))
	for i, member := range members {
		pred := member.Apply(probe, 1).Output().Data()
		log.Printf("member %d: %v", i, pred)
	}
}

type ensembleIndexer int

func (e ensembleIndexer) Sample(rng *rand.Rand) anyenn.Index {
	return rng.Intn(int(e))
}

func makeSamples() ennff.SliceSampleList {
	rng := rand.New(rand.NewSource(2))
	samples := make(ennff.SliceSampleList, NumSamples)
	for i := range samples {
		x := rng.Float64()*6 - 3
		y := math.Sin(x) + rng.NormFloat64()*0.1
		samples[i] = &ennff.Sample{
			Input:  Creator.MakeVectorData(Creator.MakeNumericList([]float64{x})),
			Output: Creator.MakeVectorData(Creator.MakeNumericList([]float64{y})),
		}
	}
	return samples
}
