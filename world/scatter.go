package world

import (
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"cosmarium/chem"
)

// rawMaterials are the kinds of material the world scatters and animals
// scrape together while foraging.
var rawMaterials = []struct {
	name  string
	props []string
}{
	{"Roca", []string{"hard"}},
	{"Palo", []string{"organic", "fragile"}},
	{"Hoja", []string{"organic", "flexible"}},
}

func (w *World) newRawMaterial() *chem.Object {
	m := rawMaterials[w.rng.Intn(len(rawMaterials))]
	return chem.NewObject(w.chemistry.Catalog(), m.name, m.props...)
}

// ScatterMaterials drops n raw materials onto cells without one, weighted
// by a smooth noise field so materials cluster into deposits instead of
// spreading uniformly.
func (w *World) ScatterMaterials(n int) {
	noise := opensimplex.NewNormalized(w.rng.Int63())
	scale := w.cfg.Scatter.NoiseScale

	var cells []int
	var weights []float64
	for idx := range w.grid {
		if _, taken := w.materials[idx]; taken {
			continue
		}
		row, col := idx/w.width, idx%w.width
		cells = append(cells, idx)
		weights = append(weights, noise.Eval2(float64(col)*scale, float64(row)*scale))
	}

	for placed := 0; placed < n && len(cells) > 0; placed++ {
		pick := weightedIndex(w.rng, weights)
		idx := cells[pick]

		obj := w.newRawMaterial()
		obj.X, obj.Y = idx%w.width, idx/w.width
		w.materials[idx] = obj

		cells[pick] = cells[len(cells)-1]
		weights[pick] = weights[len(weights)-1]
		cells = cells[:len(cells)-1]
		weights = weights[:len(weights)-1]
	}
}

// weightedIndex draws an index proportionally to its weight, with a small
// floor so flat noise still places something.
func weightedIndex(rng *rand.Rand, weights []float64) int {
	total := 0.0
	for _, v := range weights {
		total += v + 0.01
	}
	r := rng.Float64() * total
	for i, v := range weights {
		r -= v + 0.01
		if r < 0 {
			return i
		}
	}
	return len(weights) - 1
}
