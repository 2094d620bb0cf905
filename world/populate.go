package world

import (
	"errors"
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"cosmarium/components"
	"cosmarium/config"
	"cosmarium/neural"
)

// ErrNotEnoughSpace is returned when the initial population does not fit
// on the grid.
var ErrNotEnoughSpace = errors.New("world: not enough empty cells for initial population")

// Populate seeds the configured initial population and scatters starting
// materials. Failing the space check leaves the world untouched.
func (w *World) Populate() error {
	p := w.cfg.Population
	total := p.Plants + p.Herbivores + p.Carnivores

	cells := w.emptyCells()
	if len(cells) < total {
		return fmt.Errorf("%w: need %d, have %d", ErrNotEnoughSpace, total, len(cells))
	}
	w.rng.Shuffle(len(cells), func(i, j int) { cells[i], cells[j] = cells[j], cells[i] })

	at := 0
	for i := 0; i < p.Plants; i++ {
		w.spawnPlant(cells[at]/w.width, cells[at]%w.width)
		at++
	}
	for i := 0; i < p.Herbivores; i++ {
		w.spawnAnimal(cells[at]/w.width, cells[at]%w.width, components.KindHerbivore,
			w.cfg.Herbivore.InitialEnergy, nil)
		at++
	}
	for i := 0; i < p.Carnivores; i++ {
		w.spawnAnimal(cells[at]/w.width, cells[at]%w.width, components.KindCarnivore,
			w.cfg.Carnivore.InitialEnergy, nil)
		at++
	}

	w.ScatterMaterials(w.cfg.Scatter.Materials)

	w.log.Info("world populated",
		"plants", p.Plants,
		"herbivores", p.Herbivores,
		"carnivores", p.Carnivores,
		"materials", len(w.materials),
	)
	return nil
}

// emptyCells returns the indices of unoccupied grid cells.
func (w *World) emptyCells() []int {
	var out []int
	for i, e := range w.grid {
		if e == zeroEntity {
			out = append(out, i)
		}
	}
	return out
}

func (w *World) spawnPlant(row, col int) ecs.Entity {
	pos := components.Position{Row: row, Col: col}
	meta := components.Meta{ID: w.nextID, Kind: components.KindPlant}
	w.nextID++
	plant := components.Plant{}

	e := w.plantMapper.NewEntity(&pos, &meta, &plant)
	w.grid[w.index(row, col)] = e
	return e
}

// spawnAnimal places an animal with the given brain, or a fresh random one
// when brain is nil.
func (w *World) spawnAnimal(row, col int, kind components.Kind, energy int, brain *neural.Brain) ecs.Entity {
	pos := components.Position{Row: row, Col: col}
	meta := components.Meta{ID: w.nextID, Kind: kind}
	w.nextID++
	animal := components.Animal{
		Energy:    energy,
		Curiosity: 0.1 + w.rng.Float64()*0.8,
	}

	e := w.animalMapper.NewEntity(&pos, &meta, &animal)
	w.grid[w.index(row, col)] = e

	if brain == nil {
		brain = neural.NewBrainSized(w.rng, w.cfg.Neural.Hidden)
	}
	w.brains[meta.ID] = brain
	w.known[meta.ID] = make(map[string]bool)
	return e
}

func (w *World) speciesCfg(kind components.Kind) config.SpeciesConfig {
	if kind == components.KindCarnivore {
		return w.cfg.Carnivore
	}
	return w.cfg.Herbivore
}
