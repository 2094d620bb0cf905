// Package neural provides feedforward neural network brains for organisms
// and the genetic machinery that evolves them.
package neural

import (
	"math"
	"math/rand"
)

// Default network dimensions. Inputs are the 8 neighbor cells plus the
// organism's normalized energy and age; outputs are the 8 movement
// directions plus stay.
const (
	DefaultInputs  = 10
	DefaultHidden  = 12
	DefaultOutputs = 9
)

const weightLimit = 2.0

// Network is a two-layer feedforward network over a flat weight vector.
// The vector doubles as the genome: mutation and crossover operate on it
// gene by gene, so the layout is fixed. Input-to-hidden weights come first
// in row-major order, then hidden biases, then hidden-to-output weights,
// then output biases.
type Network struct {
	Inputs  int
	Hidden  int
	Outputs int
	Weights []float64
}

// WeightCount returns the genome length for the given dimensions.
func WeightCount(inputs, hidden, outputs int) int {
	return inputs*hidden + hidden + hidden*outputs + outputs
}

// NewNetwork creates a network with weights drawn uniformly from [-1,1).
func NewNetwork(rng *rand.Rand, inputs, hidden, outputs int) *Network {
	n := &Network{
		Inputs:  inputs,
		Hidden:  hidden,
		Outputs: outputs,
		Weights: make([]float64, WeightCount(inputs, hidden, outputs)),
	}
	for i := range n.Weights {
		n.Weights[i] = rng.Float64()*2 - 1
	}
	return n
}

// FromWeights builds a network around an existing genome. The slice is
// owned by the network afterwards.
func FromWeights(weights []float64, inputs, hidden, outputs int) *Network {
	if len(weights) != WeightCount(inputs, hidden, outputs) {
		return nil
	}
	return &Network{Inputs: inputs, Hidden: hidden, Outputs: outputs, Weights: weights}
}

// Forward computes the network output. Both layers use tanh activation.
func (n *Network) Forward(inputs []float64) []float64 {
	w := n.Weights
	off := 0

	hidden := make([]float64, n.Hidden)
	for h := 0; h < n.Hidden; h++ {
		sum := 0.0
		for i := 0; i < n.Inputs; i++ {
			sum += inputs[i] * w[off+h*n.Inputs+i]
		}
		hidden[h] = sum
	}
	off += n.Inputs * n.Hidden
	for h := 0; h < n.Hidden; h++ {
		hidden[h] = math.Tanh(hidden[h] + w[off+h])
	}
	off += n.Hidden

	outputs := make([]float64, n.Outputs)
	for o := 0; o < n.Outputs; o++ {
		sum := 0.0
		for h := 0; h < n.Hidden; h++ {
			sum += hidden[h] * w[off+o*n.Hidden+h]
		}
		outputs[o] = sum
	}
	off += n.Hidden * n.Outputs
	for o := 0; o < n.Outputs; o++ {
		outputs[o] = math.Tanh(outputs[o] + w[off+o])
	}
	return outputs
}

// Mutate perturbs each gene with probability rate by a uniform delta in
// [-strength, strength), clamping to the weight limit.
func (n *Network) Mutate(rng *rand.Rand, rate, strength float64) {
	for i := range n.Weights {
		if rng.Float64() >= rate {
			continue
		}
		w := n.Weights[i] + (rng.Float64()*2-1)*strength
		if w > weightLimit {
			w = weightLimit
		} else if w < -weightLimit {
			w = -weightLimit
		}
		n.Weights[i] = w
	}
}

// Crossover produces a child genome taking each gene from either parent
// with equal probability. The parents must share dimensions.
func (n *Network) Crossover(rng *rand.Rand, other *Network) *Network {
	child := &Network{
		Inputs:  n.Inputs,
		Hidden:  n.Hidden,
		Outputs: n.Outputs,
		Weights: make([]float64, len(n.Weights)),
	}
	for i := range child.Weights {
		if rng.Float64() < 0.5 {
			child.Weights[i] = n.Weights[i]
		} else {
			child.Weights[i] = other.Weights[i]
		}
	}
	return child
}

// Clone returns a deep copy.
func (n *Network) Clone() *Network {
	return &Network{
		Inputs:  n.Inputs,
		Hidden:  n.Hidden,
		Outputs: n.Outputs,
		Weights: append([]float64(nil), n.Weights...),
	}
}
