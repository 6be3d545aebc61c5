package anyenn

import (
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anyvec/anyvec32"
)

func TestAverageMeanReduction(t *testing.T) {
	indexer := &batchSeqIndexer{seqIndexer{indices: []Index{1, 2, 3}}}
	net := &Network[anydiff.Res]{Apply: scaleApply(), Indexer: indexer}
	batch := testBatch([]float32{1, 2}, []float32{1, 1})

	lossFn := AverageSingleIndexLoss[anydiff.Res, *Batch](L2Loss{}, 3)
	out := lossFn(net, nil, State{}, batch, rand.New(rand.NewSource(0)))

	// Evaluate the same indices by hand.
	var sum float64
	for _, index := range []Index{1, 2, 3} {
		single := L2Loss{}.Evaluate(scaleApply(), nil, State{}, batch, index)
		sum += float64(single.Loss.Output().Data().([]float32)[0])
	}
	assertScalar(t, out.Loss, sum/3)
}

func TestAverageSingleSampleIdentity(t *testing.T) {
	indexer := &batchSeqIndexer{seqIndexer{indices: []Index{2}}}
	state := State{"norm": {"counter": anyvec32.MakeVectorData([]float32{3})}}
	net := &Network[anydiff.Res]{Apply: scaleApply(), Indexer: indexer}
	batch := testBatch([]float32{1, 2}, []float32{1, 1})

	lossFn := AverageSingleIndexLoss[anydiff.Res, *Batch](L2Loss{}, 1)
	averaged := lossFn(net, nil, state, batch, rand.New(rand.NewSource(0)))
	single := L2Loss{}.Evaluate(scaleApply(), nil, state, batch, 2)

	ad := averaged.Loss.Output().Data().([]float32)
	sd := single.Loss.Output().Data().([]float32)
	if !reflect.DeepEqual(ad, sd) {
		t.Errorf("averaged loss %v should equal single loss %v", ad, sd)
	}
	if !reflect.DeepEqual(averaged.Metrics, single.Metrics) {
		t.Errorf("averaged metrics %v should equal single metrics %v",
			averaged.Metrics, single.Metrics)
	}
	av := averaged.State["norm"]["counter"].Data().([]float32)
	sv := single.State["norm"]["counter"].Data().([]float32)
	if !reflect.DeepEqual(av, sv) {
		t.Errorf("averaged state %v should equal single state %v", av, sv)
	}
}

func TestAverageState(t *testing.T) {
	for _, k := range []int{1, 2, 5} {
		indexer := &batchSeqIndexer{seqIndexer{indices: []Index{1, 2, 3}}}
		state := State{
			"norm":  {"counter": anyvec32.MakeVectorData([]float32{3})},
			"other": {"stat": anyvec32.MakeVectorData([]float32{1, 2})},
		}
		net := &Network[anydiff.Res]{Apply: scaleApply(), Indexer: indexer}
		batch := testBatch([]float32{1, 2}, []float32{1, 1})

		a := &Averager[anydiff.Res, *Batch]{
			Loss:            L2Loss{},
			NumIndexSamples: k,
			CounterLayer:    "norm",
		}
		out := a.TrainLoss(net, nil, state, batch, rand.New(rand.NewSource(0)))

		// Every index evaluation bumps the counter from the
		// same input state, so the average stays input+1.
		counter := out.State["norm"]["counter"].Data().([]float32)
		if len(counter) != 1 || math.Abs(float64(counter[0])-4) > 1e-4 {
			t.Errorf("k=%d: counter should be [4], but got %v", k, counter)
		}
		if out.State["other"]["stat"].Len() != 2 {
			t.Errorf("k=%d: stat leaf changed shape", k)
		}
		if math.Abs(out.Metrics["state_counter"]-4) > 1e-4 {
			t.Errorf("k=%d: state_counter should be 4, but got %f",
				k, out.Metrics["state_counter"])
		}
	}
}

func TestAverageEmptyState(t *testing.T) {
	indexer := &batchSeqIndexer{seqIndexer{indices: []Index{1, 2}}}
	net := &Network[anydiff.Res]{Apply: scaleApply(), Indexer: indexer}
	batch := testBatch([]float32{1, 2}, []float32{1, 1})

	a := &Averager[anydiff.Res, *Batch]{
		Loss:            L2Loss{},
		NumIndexSamples: 2,
		CounterLayer:    "norm",
	}
	out := a.TrainLoss(net, nil, State{}, batch, rand.New(rand.NewSource(0)))

	if len(out.State) != 0 {
		t.Errorf("state should be empty, but got %v", out.State)
	}
	if _, ok := out.Metrics["state_counter"]; ok {
		t.Error("state_counter should not be reported for empty state")
	}
}

func TestAverageMetrics(t *testing.T) {
	indexer := &batchSeqIndexer{seqIndexer{indices: []Index{1, 2, 3}}}
	net := &Network[anydiff.Res]{Apply: scaleApply(), Indexer: indexer}
	batch := testBatch([]float32{0}, []float32{0})

	lossFn := AverageSingleIndexLoss[anydiff.Res, *Batch](indexEchoLoss{}, 3)
	out := lossFn(net, nil, State{}, batch, rand.New(rand.NewSource(0)))

	assertScalar(t, out.Loss, 2)
	if math.Abs(out.Metrics["m"]-2) > 1e-4 {
		t.Errorf("metric m should be 2, but got %f", out.Metrics["m"])
	}
}

func TestAverageStateShapeMismatch(t *testing.T) {
	// The model grows its counter leaf, so the averaged
	// state cannot match the input state's shape.
	badApply := func(params []*anydiff.Var, state State, x anydiff.Res,
		index Index) (Output, State) {
		return x, State{
			"norm": {"counter": anyvec32.MakeVectorData([]float32{1, 2})},
		}
	}
	indexer := &batchSeqIndexer{seqIndexer{indices: []Index{1, 2}}}
	state := State{"norm": {"counter": anyvec32.MakeVectorData([]float32{3})}}
	net := &Network[anydiff.Res]{Apply: badApply, Indexer: indexer}
	batch := testBatch([]float32{1, 2}, []float32{1, 1})

	lossFn := AverageSingleIndexLoss[anydiff.Res, *Batch](L2Loss{}, 2)
	mustPanic(t, func() {
		lossFn(net, nil, state, batch, rand.New(rand.NewSource(0)))
	})
}

// indexEchoLoss reports the integer index as both its loss
// and an "m" metric.
type indexEchoLoss struct{}

func (indexEchoLoss) Evaluate(apply ApplyFunc[anydiff.Res],
	params []*anydiff.Var, state State, batch *Batch,
	index Index) *LossOutput {
	v := float32(index.(int))
	return &LossOutput{
		Loss:    anydiff.NewConst(anyvec32.MakeVectorData([]float32{v})),
		State:   State{},
		Metrics: Metrics{"m": float64(v)},
	}
}
