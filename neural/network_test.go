package neural

import (
	"math"
	"math/rand"
	"testing"
)

func TestWeightCount(t *testing.T) {
	if got := WeightCount(DefaultInputs, DefaultHidden, DefaultOutputs); got != 249 {
		t.Errorf("WeightCount = %d, want 249", got)
	}
	n := NewNetwork(rand.New(rand.NewSource(1)), DefaultInputs, DefaultHidden, DefaultOutputs)
	if len(n.Weights) != 249 {
		t.Errorf("len(Weights) = %d, want 249", len(n.Weights))
	}
}

func TestNewNetworkWeightRange(t *testing.T) {
	n := NewNetwork(rand.New(rand.NewSource(42)), DefaultInputs, DefaultHidden, DefaultOutputs)
	for i, w := range n.Weights {
		if w < -1 || w >= 1 {
			t.Fatalf("weight %d = %v, want in [-1,1)", i, w)
		}
	}
}

func TestForwardDeterministic(t *testing.T) {
	n := NewNetwork(rand.New(rand.NewSource(42)), DefaultInputs, DefaultHidden, DefaultOutputs)
	inputs := make([]float64, DefaultInputs)
	for i := range inputs {
		inputs[i] = float64(i) / 10
	}

	a := n.Forward(inputs)
	b := n.Forward(inputs)
	if len(a) != DefaultOutputs {
		t.Fatalf("output length = %d, want %d", len(a), DefaultOutputs)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("output %d differs between identical calls: %v vs %v", i, a[i], b[i])
		}
		if a[i] <= -1 || a[i] >= 1 {
			t.Errorf("output %d = %v, want inside (-1,1)", i, a[i])
		}
	}
}

func TestMutateClampsAndRespectsRate(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	n := NewNetwork(rng, DefaultInputs, DefaultHidden, DefaultOutputs)

	frozen := n.Clone()
	frozen.Mutate(rng, 0, 0.5)
	for i := range frozen.Weights {
		if frozen.Weights[i] != n.Weights[i] {
			t.Fatal("zero mutation rate changed a weight")
		}
	}

	hot := n.Clone()
	for i := 0; i < 1000; i++ {
		hot.Mutate(rng, 1.0, 0.5)
	}
	for i, w := range hot.Weights {
		if math.Abs(w) > weightLimit {
			t.Fatalf("weight %d = %v, escaped clamp", i, w)
		}
	}
}

func TestCrossoverGeneMembership(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	a := NewNetwork(rng, DefaultInputs, DefaultHidden, DefaultOutputs)
	b := NewNetwork(rng, DefaultInputs, DefaultHidden, DefaultOutputs)

	child := a.Crossover(rng, b)
	var fromA, fromB int
	for i, w := range child.Weights {
		switch w {
		case a.Weights[i]:
			fromA++
		case b.Weights[i]:
			fromB++
		default:
			t.Fatalf("gene %d = %v matches neither parent", i, w)
		}
	}
	if fromA == 0 || fromB == 0 {
		t.Errorf("one-sided crossover: %d from a, %d from b", fromA, fromB)
	}
}

func TestCloneIsDeep(t *testing.T) {
	n := NewNetwork(rand.New(rand.NewSource(42)), DefaultInputs, DefaultHidden, DefaultOutputs)
	c := n.Clone()
	c.Weights[0] = 99
	if n.Weights[0] == 99 {
		t.Error("clone shares the weight slice")
	}
}

func TestFromWeightsLengthCheck(t *testing.T) {
	if n := FromWeights(make([]float64, 10), DefaultInputs, DefaultHidden, DefaultOutputs); n != nil {
		t.Error("FromWeights accepted a wrong-length genome")
	}
	w := make([]float64, WeightCount(DefaultInputs, DefaultHidden, DefaultOutputs))
	if n := FromWeights(w, DefaultInputs, DefaultHidden, DefaultOutputs); n == nil {
		t.Error("FromWeights rejected a correct genome")
	}
}
