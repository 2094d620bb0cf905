package neural

import "math/rand"

// Cell signals fed into the vision inputs. The grid reports what occupies
// each neighbor cell as one scalar.
const (
	SignalOutOfBounds = -1.0
	SignalEmpty       = 0.0
	SignalPlant       = 0.5
	SignalHerbivore   = 0.7
	SignalCarnivore   = 1.0
)

// Directions maps the first eight outputs to {row, col} grid offsets,
// clockwise from north. The ninth output means stay put.
var Directions = [9][2]int{
	{-1, 0},  // N
	{-1, 1},  // NE
	{0, 1},   // E
	{1, 1},   // SE
	{1, 0},   // S
	{1, -1},  // SW
	{0, -1},  // W
	{-1, -1}, // NW
	{0, 0},   // stay
}

// Brain wraps a network with the lifetime statistics selection feeds on.
type Brain struct {
	Net *Network

	Age          int
	EnergyGained float64
	Offspring    int
	Fitness      float64
}

// NewBrain creates a brain around a fresh random network of the default
// dimensions.
func NewBrain(rng *rand.Rand) *Brain {
	return NewBrainSized(rng, DefaultHidden)
}

// NewBrainSized creates a brain with the given hidden layer width. A
// non-positive width falls back to DefaultHidden.
func NewBrainSized(rng *rand.Rand, hidden int) *Brain {
	if hidden <= 0 {
		hidden = DefaultHidden
	}
	return &Brain{Net: NewNetwork(rng, DefaultInputs, hidden, DefaultOutputs)}
}

// WrapNetwork creates a brain around an existing network, with zeroed
// lifetime statistics.
func WrapNetwork(net *Network) *Brain {
	return &Brain{Net: net}
}

// Decide picks a {row, col} grid offset from the sensory inputs. The
// highest output wins; on exact ties the lowest index does.
func (b *Brain) Decide(inputs []float64) (dr, dc int) {
	outputs := b.Net.Forward(inputs)
	best := 0
	for i := 1; i < len(outputs); i++ {
		if outputs[i] > outputs[best] {
			best = i
		}
	}
	return Directions[best][0], Directions[best][1]
}

// RecordEnergyGain credits energy the organism acquired during its life.
func (b *Brain) RecordEnergyGain(amount float64) {
	b.EnergyGained += amount
}

// RecordDeath fixes the brain's fitness at the end of its life. Survival
// dominates, with smaller credit for remaining energy and foraging, and a
// strong bonus per descendant.
func (b *Brain) RecordDeath(age int, energy float64) {
	b.Age = age
	b.Fitness = float64(age) + energy*0.1 + b.EnergyGained*0.05 + float64(b.Offspring)*10
}

// Reproduce creates an offspring brain: a mutated copy of this one with
// fresh statistics. The parent's descendant count goes up.
func (b *Brain) Reproduce(rng *rand.Rand, rate, strength float64) *Brain {
	child := &Brain{Net: b.Net.Clone()}
	child.Net.Mutate(rng, rate, strength)
	b.Offspring++
	return child
}
