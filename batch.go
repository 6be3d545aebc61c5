package anyenn

import (
	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anyvec"
)

// A Batch stores a mini-batch of training data in a packed
// format.
type Batch struct {
	// X packs Num equally-long input rows.
	X anydiff.Res

	// Y stores one target value per row.
	Y anydiff.Res

	// DataIndex stores one identifier per row.
	DataIndex anyvec.Vector

	// Weights optionally stores one non-negative weight
	// per row.
	// A nil Weights is equivalent to a weight of 1 for
	// every row.
	Weights anyvec.Vector

	// Num is the number of rows.
	Num int
}

// checkColumns panics unless the targets and data indices
// contain exactly one value per row.
func (b *Batch) checkColumns() {
	assertColumn("targets", b.Y.Output().Len(), b.Num)
	assertColumn("data indices", b.DataIndex.Len(), b.Num)
}

// weightLoss multiplies a per-row loss by the batch's
// weights, if it has any.
func (b *Batch) weightLoss(loss anydiff.Res) anydiff.Res {
	if b.Weights == nil {
		return loss
	}
	assertEqualLen("weights", b.Weights.Len(),
		"per-row loss", loss.Output().Len())
	return anydiff.Mul(loss, anydiff.NewConst(b.Weights))
}
