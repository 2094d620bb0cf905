package world

import (
	"cosmarium/components"
	"cosmarium/neural"
)

// senseInputs builds the brain's input vector: one scalar per neighbor
// cell clockwise from north, then normalized energy and age.
func (w *World) senseInputs(pos *components.Position, animal *components.Animal) []float64 {
	inputs := make([]float64, w.cfg.Derived.NumInputs)

	for i, d := range neural.Directions[:8] {
		inputs[i] = w.senseCell(pos.Row+d[0], pos.Col+d[1])
	}

	energy := float64(animal.Energy) / 100
	if energy > 1 {
		energy = 1
	}
	inputs[8] = energy

	age := float64(animal.Age) / 100
	if age > 1 {
		age = 1
	}
	inputs[9] = age

	return inputs
}

func (w *World) senseCell(row, col int) float64 {
	if !w.inBounds(row, col) {
		return neural.SignalOutOfBounds
	}
	e := w.grid[w.index(row, col)]
	if e == zeroEntity {
		return neural.SignalEmpty
	}
	switch w.metaMap.Get(e).Kind {
	case components.KindPlant:
		return neural.SignalPlant
	case components.KindHerbivore:
		return neural.SignalHerbivore
	default:
		return neural.SignalCarnivore
	}
}
