package anyenn

import (
	"fmt"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anyvec"
)

// floatData extracts a vector's components as float64s.
//
// The vector's creator must use a []float32 or []float64
// numeric list type.
func floatData(v anyvec.Vector) []float64 {
	switch d := v.Data().(type) {
	case []float64:
		return d
	case []float32:
		res := make([]float64, len(d))
		for i, x := range d {
			res[i] = float64(x)
		}
		return res
	default:
		panic(fmt.Sprintf("unsupported numeric type: %T", d))
	}
}

// numericValue converts a scalar numeric to a float64.
func numericValue(n anyvec.Numeric) float64 {
	switch n := n.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	default:
		panic(fmt.Sprintf("unsupported numeric type: %T", n))
	}
}

// meanRes averages all the components of a Res.
func meanRes(r anydiff.Res) anydiff.Res {
	sum := anydiff.Sum(r)
	scaler := sum.Output().Creator().MakeNumeric(1 / float64(r.Output().Len()))
	return anydiff.Scale(sum, scaler)
}
