package anyenn

import (
	"fmt"

	"github.com/unixpickle/anyvec"
)

// State stores a network's auxiliary state (e.g. running
// normalization statistics) as vector leaves grouped by
// layer name.
//
// A State is treated as a value: forward passes return a
// replacement rather than modifying the state they were
// given.
type State map[string]map[string]anyvec.Vector

// Copy creates a deep copy of the state.
func (s State) Copy() State {
	res := make(State, len(s))
	for name, layer := range s {
		newLayer := make(map[string]anyvec.Vector, len(layer))
		for leaf, v := range layer {
			newLayer[leaf] = v.Copy()
		}
		res[name] = newLayer
	}
	return res
}

// meanStates averages a non-empty list of states
// elementwise.
// Every state must have the same structure.
func meanStates(states []State) State {
	if len(states) == 1 {
		return states[0]
	}
	res := states[0].Copy()
	for _, s := range states[1:] {
		for name, layer := range res {
			other, ok := s[name]
			if !ok {
				panic("mismatching state structure: missing layer " + name)
			}
			for leaf, v := range layer {
				o, ok := other[leaf]
				if !ok {
					panic("mismatching state structure: missing leaf " +
						name + "/" + leaf)
				}
				assertEqualLen("state leaf "+name+"/"+leaf, o.Len(),
					"first state leaf", v.Len())
				v.Add(o)
			}
		}
	}
	for _, layer := range res {
		for _, v := range layer {
			v.Scale(v.Creator().MakeNumeric(1 / float64(len(states))))
		}
	}
	return res
}

// assertStateShape panics unless got has exactly the
// structure and leaf sizes of want.
func assertStateShape(got, want State) {
	if len(got) != len(want) {
		panic(fmt.Sprintf("state has %d layers, but should have %d",
			len(got), len(want)))
	}
	for name, wantLayer := range want {
		gotLayer, ok := got[name]
		if !ok {
			panic("state is missing layer: " + name)
		}
		if len(gotLayer) != len(wantLayer) {
			panic(fmt.Sprintf("state layer %s has %d leaves, but should have %d",
				name, len(gotLayer), len(wantLayer)))
		}
		for leaf, wantVec := range wantLayer {
			gotVec, ok := gotLayer[leaf]
			if !ok {
				panic("state layer " + name + " is missing leaf: " + leaf)
			}
			assertEqualLen("state leaf "+name+"/"+leaf, gotVec.Len(),
				"input state leaf", wantVec.Len())
		}
	}
}
