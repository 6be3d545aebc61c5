package anyenn

import (
	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/serializer"
)

func init() {
	serializer.RegisterTypedDeserializer(AccuracyError{}.SerializerType(),
		DeserializeAccuracyError)
}

// AccuracyError measures how often a greedy argmax
// predictor mislabels its input.
//
// The loss is 1 - accuracy, so minimizing it maximizes
// accuracy.
// The loss carries no gradient; it is meant for
// evaluation, not for training.
type AccuracyError struct{}

// DeserializeAccuracyError deserializes an AccuracyError.
func DeserializeAccuracyError(d []byte) (AccuracyError, error) {
	return AccuracyError{}, nil
}

// Evaluate computes the error rate for one index.
// The accuracy itself is reported as an "accuracy" metric.
func (AccuracyError) Evaluate(apply ApplyFunc[anydiff.Res],
	params []*anydiff.Var, state State, batch *Batch,
	index Index) *LossOutput {
	assertColumn("targets", batch.Y.Output().Len(), batch.Num)
	out, newState := apply(params, state, batch.X, index)
	logits := ParseNetOutput(out).Output()
	if logits.Len()%batch.Num != 0 {
		panic("batch size must divide logit count")
	}
	numClasses := logits.Len() / batch.Num

	targets := floatData(batch.Y.Output())
	var numCorrect int
	for i := 0; i < batch.Num; i++ {
		row := logits.Slice(i*numClasses, (i+1)*numClasses)
		if anyvec.MaxIndex(row) == int(targets[i]) {
			numCorrect++
		}
	}
	accuracy := float64(numCorrect) / float64(batch.Num)

	c := logits.Creator()
	loss := c.MakeVectorData(c.MakeNumericList([]float64{1 - accuracy}))
	return &LossOutput{
		Loss:    anydiff.NewConst(loss),
		State:   newState,
		Metrics: Metrics{"accuracy": accuracy},
	}
}

// SerializerType returns the unique ID used to serialize
// an AccuracyError with the serializer package.
func (AccuracyError) SerializerType() string {
	return "github.com/unixpickle/anyenn.AccuracyError"
}

// Serialize serializes the AccuracyError.
func (AccuracyError) Serialize() ([]byte, error) {
	return []byte{}, nil
}
