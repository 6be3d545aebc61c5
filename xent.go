package anyenn

import (
	"fmt"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"
)

func init() {
	var x XentLoss
	serializer.RegisterTypedDeserializer(x.SerializerType(),
		DeserializeXentLoss)
}

// A Labeller converts a raw target column into a packed
// label matrix with one row of class probabilities per
// target.
type Labeller func(targets anyvec.Vector) anydiff.Res

// XentLossCustomLabels creates a softmax cross-entropy
// loss which uses a custom Labeller to derive the per-row
// labels.
func XentLossCustomLabels(l Labeller) SingleIndexLoss[anydiff.Res, *Batch] {
	return &xentLoss{labeller: l}
}

// XentLoss is softmax cross-entropy against one-hot labels
// for a single epistemic index.
type XentLoss struct {
	NumClasses int

	loss SingleIndexLoss[anydiff.Res, *Batch]
}

// NewXentLoss creates a cross-entropy loss for a number of
// classes.
//
// It panics if numClasses is less than 2.
func NewXentLoss(numClasses int) *XentLoss {
	if numClasses <= 1 {
		panic(fmt.Sprintf("cross-entropy needs at least 2 classes, but got %d",
			numClasses))
	}
	return &XentLoss{
		NumClasses: numClasses,
		loss: XentLossCustomLabels(func(targets anyvec.Vector) anydiff.Res {
			return oneHot(targets, numClasses)
		}),
	}
}

// DeserializeXentLoss deserializes a XentLoss.
func DeserializeXentLoss(d []byte) (*XentLoss, error) {
	var numClasses serializer.Int
	if err := serializer.DeserializeAny(d, &numClasses); err != nil {
		return nil, essentials.AddCtx("deserialize XentLoss", err)
	}
	return NewXentLoss(int(numClasses)), nil
}

// Evaluate computes the mean weighted cross-entropy for
// one index.
// The loss value is also reported as a "loss" metric.
func (x *XentLoss) Evaluate(apply ApplyFunc[anydiff.Res],
	params []*anydiff.Var, state State, batch *Batch,
	index Index) *LossOutput {
	return x.loss.Evaluate(apply, params, state, batch, index)
}

// SerializerType returns the unique ID used to serialize
// a XentLoss with the serializer package.
func (x *XentLoss) SerializerType() string {
	return "github.com/unixpickle/anyenn.XentLoss"
}

// Serialize serializes the XentLoss.
func (x *XentLoss) Serialize() ([]byte, error) {
	return serializer.SerializeAny(serializer.Int(x.NumClasses))
}

type xentLoss struct {
	labeller Labeller
}

func (x *xentLoss) Evaluate(apply ApplyFunc[anydiff.Res],
	params []*anydiff.Var, state State, batch *Batch,
	index Index) *LossOutput {
	assertColumn("targets", batch.Y.Output().Len(), batch.Num)
	out, newState := apply(params, state, batch.X, index)
	logits := ParseNetOutput(out)
	if logits.Output().Len()%batch.Num != 0 {
		panic("batch size must divide logit count")
	}
	numClasses := logits.Output().Len() / batch.Num

	labels := x.labeller(batch.Y.Output())
	assertEqualLen("labels", labels.Output().Len(),
		"logits", logits.Output().Len())

	logProbs := anydiff.LogSoftmax(logits, numClasses)
	rowXent := anydiff.Scale(anydiff.SumCols(&anydiff.Matrix{
		Data: anydiff.Mul(labels, logProbs),
		Rows: batch.Num,
		Cols: numClasses,
	}), logits.Output().Creator().MakeNumeric(-1))

	loss := meanRes(batch.weightLoss(rowXent))
	return &LossOutput{
		Loss:    loss,
		State:   newState,
		Metrics: Metrics{"loss": numericValue(anyvec.Sum(loss.Output()))},
	}
}

// oneHot creates a packed one-hot label matrix from a
// column of class labels.
// Out-of-range labels produce all-zero rows.
func oneHot(targets anyvec.Vector, numClasses int) anydiff.Res {
	classes := floatData(targets)
	data := make([]float64, len(classes)*numClasses)
	for i, x := range classes {
		class := int(x)
		if class >= 0 && class < numClasses {
			data[i*numClasses+class] = 1
		}
	}
	c := targets.Creator()
	return anydiff.NewConst(c.MakeVectorData(c.MakeNumericList(data)))
}
