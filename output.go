package anyenn

import (
	"fmt"

	"github.com/unixpickle/anydiff"
)

// An Output is whatever a network's forward pass returns.
//
// The losses in this package accept a plain anydiff.Res or
// an *OutputWithPrior.
type Output interface{}

// An OutputWithPrior is a network output split into a
// trainable component and a fixed prior component.
type OutputWithPrior struct {
	Train anydiff.Res
	Prior anydiff.Res
}

// Preds returns the combined predictions.
// The prior contributes its values but no gradient.
func (o *OutputWithPrior) Preds() anydiff.Res {
	return anydiff.Add(o.Train, anydiff.NewConst(o.Prior.Output()))
}

// ParseNetOutput extracts a plain prediction matrix from a
// network output.
func ParseNetOutput(out Output) anydiff.Res {
	switch out := out.(type) {
	case *OutputWithPrior:
		return out.Preds()
	case anydiff.Res:
		return out
	default:
		panic(fmt.Sprintf("unsupported network output: %T", out))
	}
}
