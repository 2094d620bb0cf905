package world

import (
	"fmt"

	"cosmarium/components"
)

// Minimum sizes each species is restocked to at a generation boundary.
const (
	minHerbivores = 5
	minCarnivores = 2
)

// evolveGenerations turns the dead pools into fresh animals at the end of
// a generation. Targets scale with the living population so a thriving
// species gets more evolved newcomers than a struggling one.
func (w *World) evolveGenerations() {
	stats := w.Statistics()

	herbTarget := stats.Herbivores / 4
	if herbTarget < minHerbivores {
		herbTarget = minHerbivores
	}
	carnTarget := stats.Carnivores / 4
	if carnTarget < minCarnivores {
		carnTarget = minCarnivores
	}

	herbBrains := w.herbEvo.Evolve(w.herbPool, herbTarget)
	carnBrains := w.carnEvo.Evolve(w.carnPool, carnTarget)
	w.herbPool = nil
	w.carnPool = nil

	cells := w.emptyCells()
	w.rng.Shuffle(len(cells), func(i, j int) { cells[i], cells[j] = cells[j], cells[i] })

	at := 0
	spawnedHerb, spawnedCarn := 0, 0
	for _, brain := range herbBrains {
		if at >= len(cells) {
			break
		}
		w.spawnAnimal(cells[at]/w.width, cells[at]%w.width, components.KindHerbivore,
			w.cfg.Herbivore.InitialEnergy, brain)
		at++
		spawnedHerb++
	}
	for _, brain := range carnBrains {
		if at >= len(cells) {
			break
		}
		w.spawnAnimal(cells[at]/w.width, cells[at]%w.width, components.KindCarnivore,
			w.cfg.Carnivore.InitialEnergy, brain)
		at++
		spawnedCarn++
	}

	w.log.Info("generation turnover",
		"tick", w.tick,
		"herbivores_spawned", spawnedHerb,
		"carnivores_spawned", spawnedCarn,
		"herbivore_generation", w.herbEvo.Generation(),
		"carnivore_generation", w.carnEvo.Generation(),
	)
}

// EvolutionReport summarizes the latest generation of both species.
func (w *World) EvolutionReport() string {
	return fmt.Sprintf("Herbivores: %s\nCarnivores: %s",
		w.herbEvo.Report(), w.carnEvo.Report())
}
