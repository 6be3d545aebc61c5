package anyenn

import (
	"testing"

	"github.com/unixpickle/serializer"
)

func TestL2LossSerialize(t *testing.T) {
	data, err := serializer.SerializeAny(L2Loss{})
	if err != nil {
		t.Fatal(err)
	}
	var loss L2Loss
	if err := serializer.DeserializeAny(data, &loss); err != nil {
		t.Fatal(err)
	}
}

func TestXentLossSerialize(t *testing.T) {
	data, err := serializer.SerializeAny(NewXentLoss(10))
	if err != nil {
		t.Fatal(err)
	}
	var loss *XentLoss
	if err := serializer.DeserializeAny(data, &loss); err != nil {
		t.Fatal(err)
	}
	if loss.NumClasses != 10 {
		t.Errorf("NumClasses should be 10, but got %d", loss.NumClasses)
	}
}

func TestAccuracyErrorSerialize(t *testing.T) {
	data, err := serializer.SerializeAny(AccuracyError{})
	if err != nil {
		t.Fatal(err)
	}
	var loss AccuracyError
	if err := serializer.DeserializeAny(data, &loss); err != nil {
		t.Fatal(err)
	}
}
