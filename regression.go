package anyenn

import (
	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/serializer"
)

func init() {
	serializer.RegisterTypedDeserializer(L2Loss{}.SerializerType(),
		DeserializeL2Loss)
}

// L2Loss is squared-error regression applied to a single
// epistemic index.
type L2Loss struct{}

// DeserializeL2Loss deserializes an L2Loss.
func DeserializeL2Loss(d []byte) (L2Loss, error) {
	return L2Loss{}, nil
}

// Evaluate computes the mean weighted squared error
// between the network's predictions and the targets.
func (L2Loss) Evaluate(apply ApplyFunc[anydiff.Res], params []*anydiff.Var,
	state State, batch *Batch, index Index) *LossOutput {
	batch.checkColumns()
	out, newState := apply(params, state, batch.X, index)
	preds := ParseNetOutput(out)
	assertEqualLen("network output", preds.Output().Len(),
		"targets", batch.Y.Output().Len())
	sq := anydiff.Square(anydiff.Sub(preds, batch.Y))
	return &LossOutput{
		Loss:    meanRes(batch.weightLoss(sq)),
		State:   newState,
		Metrics: Metrics{},
	}
}

// SerializerType returns the unique ID used to serialize
// an L2Loss with the serializer package.
func (L2Loss) SerializerType() string {
	return "github.com/unixpickle/anyenn.L2Loss"
}

// Serialize serializes the L2Loss.
func (L2Loss) Serialize() ([]byte, error) {
	return []byte{}, nil
}
