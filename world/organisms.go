package world

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"cosmarium/chem"
	"cosmarium/components"
	"cosmarium/neural"
)

// birth is a buffered offspring waiting for placement after the tick pass.
type birth struct {
	row, col int
	kind     components.Kind
	energy   int
	brain    *neural.Brain
}

func (w *World) stepPlant(e ecs.Entity, births *[]birth) {
	meta := w.metaMap.Get(e)
	plant := w.plantMap.Get(e)
	pos := w.posMap.Get(e)

	plant.Age++
	if plant.Age >= w.cfg.Plant.MaxAge {
		w.collector.RecordDeath(meta.Kind)
		w.removeEntity(e, meta)
		return
	}

	repro := w.cfg.Plant.ReproductionAge
	if plant.Age >= repro && plant.Age%repro == 0 {
		if row, col, ok := w.randomEmptyNeighbor(pos.Row, pos.Col); ok {
			*births = append(*births, birth{row: row, col: col, kind: components.KindPlant})
		}
	}
}

func (w *World) stepAnimal(e ecs.Entity, meta *components.Meta, removed map[ecs.Entity]bool, births *[]birth) {
	pos := w.posMap.Get(e)
	animal := w.animalMap.Get(e)
	sc := w.speciesCfg(meta.Kind)
	brain := w.brains[meta.ID]

	animal.Age++
	animal.Energy -= sc.Upkeep
	if animal.DiscoveryCooldown > 0 {
		animal.DiscoveryCooldown--
	}

	if animal.Energy <= 0 {
		w.killAnimal(e, meta, animal)
		return
	}

	w.forage(pos, meta)
	w.attemptDiscovery(pos, meta, animal, brain)

	dr, dc := brain.Decide(w.senseInputs(pos, animal))
	if dr != 0 || dc != 0 {
		w.moveOrEat(e, pos, meta, animal, brain, dr, dc, removed)
	}

	if animal.Energy >= sc.ReproductionThreshold {
		if row, col, ok := w.randomEmptyNeighbor(pos.Row, pos.Col); ok {
			animal.Energy /= 2
			child := brain.Reproduce(w.rng, w.cfg.Evolution.MutationRate, w.cfg.Evolution.MutationStrength)
			*births = append(*births, birth{
				row:    row,
				col:    col,
				kind:   meta.Kind,
				energy: animal.Energy / 2,
				brain:  child,
			})
		}
	}
}

// moveOrEat tries to step into the chosen cell, consuming prey found there.
func (w *World) moveOrEat(e ecs.Entity, pos *components.Position, meta *components.Meta,
	animal *components.Animal, brain *neural.Brain, dr, dc int, removed map[ecs.Entity]bool) {

	row, col := pos.Row+dr, pos.Col+dc
	if !w.inBounds(row, col) {
		return
	}

	target := w.grid[w.index(row, col)]
	if target == zeroEntity {
		w.moveTo(e, pos, row, col)
		return
	}

	tmeta := w.metaMap.Get(target)
	if tmeta.Kind != preyOf(meta.Kind) {
		return
	}

	w.consume(target, tmeta, removed)
	sc := w.speciesCfg(meta.Kind)
	animal.Energy += sc.EnergyPerMeal
	brain.RecordEnergyGain(float64(sc.EnergyPerMeal))
	w.moveTo(e, pos, row, col)
}

// preyOf returns what a species eats.
func preyOf(kind components.Kind) components.Kind {
	if kind == components.KindCarnivore {
		return components.KindHerbivore
	}
	return components.KindPlant
}

func (w *World) moveTo(e ecs.Entity, pos *components.Position, row, col int) {
	w.grid[w.index(pos.Row, pos.Col)] = zeroEntity
	w.grid[w.index(row, col)] = e
	pos.Row, pos.Col = row, col
}

// consume removes prey mid-tick. An eaten herbivore's genome still counts:
// it joins the species pool with its life recorded up to this point.
func (w *World) consume(target ecs.Entity, tmeta *components.Meta, removed map[ecs.Entity]bool) {
	removed[target] = true
	w.collector.RecordKill()
	w.collector.RecordDeath(tmeta.Kind)
	if tmeta.Kind == components.KindHerbivore {
		prey := w.animalMap.Get(target)
		if brain := w.brains[tmeta.ID]; brain != nil {
			brain.RecordDeath(prey.Age, 0)
			w.herbPool = append(w.herbPool, brain)
			delete(w.brains, tmeta.ID)
		}
	}
	w.removeEntity(target, tmeta)
}

// killAnimal handles starvation: the brain's life is scored and pooled for
// the next generation.
func (w *World) killAnimal(e ecs.Entity, meta *components.Meta, animal *components.Animal) {
	if brain := w.brains[meta.ID]; brain != nil {
		energy := animal.Energy
		if energy < 0 {
			energy = 0
		}
		brain.RecordDeath(animal.Age, float64(energy))
		if meta.Kind == components.KindCarnivore {
			w.carnPool = append(w.carnPool, brain)
		} else {
			w.herbPool = append(w.herbPool, brain)
		}
		delete(w.brains, meta.ID)
	}
	w.collector.RecordDeath(meta.Kind)
	w.removeEntity(e, meta)
}

// placeBirths inserts buffered offspring. A birth cell taken during the
// pass drops the offspring; the energy its parent spent stays spent.
func (w *World) placeBirths(births []birth) {
	for _, b := range births {
		if !w.empty(b.row, b.col) {
			continue
		}
		if b.kind == components.KindPlant {
			w.spawnPlant(b.row, b.col)
		} else {
			w.spawnAnimal(b.row, b.col, b.kind, b.energy, b.brain)
		}
		w.collector.RecordBirth(b.kind)
	}
}

// randomEmptyNeighbor picks a uniformly random empty cell in the Moore
// neighborhood.
func (w *World) randomEmptyNeighbor(row, col int) (int, int, bool) {
	var cells [][2]int
	for _, d := range neural.Directions[:8] {
		r, c := row+d[0], col+d[1]
		if w.inBounds(r, c) && w.empty(r, c) {
			cells = append(cells, [2]int{r, c})
		}
	}
	if len(cells) == 0 {
		return 0, 0, false
	}
	pick := cells[w.rng.Intn(len(cells))]
	return pick[0], pick[1], true
}

// forage gathers materials: anything underfoot is taken, adjacent finds
// are chancy, and only when nothing was picked up does an animal with
// spare hands occasionally scrape together a raw material.
func (w *World) forage(pos *components.Position, meta *components.Meta) {
	inv := w.inventories[meta.ID]
	picked := false

	if len(inv) < w.cfg.Forage.MaxInventory {
		if obj, ok := w.takeMaterial(pos.Row, pos.Col, 1.0); ok {
			inv = append(inv, obj)
			picked = true
		} else {
			for _, d := range neural.Directions[:8] {
				r, c := pos.Row+d[0], pos.Col+d[1]
				if !w.inBounds(r, c) {
					continue
				}
				if obj, ok := w.takeMaterial(r, c, w.cfg.Forage.AdjacentChance); ok {
					inv = append(inv, obj)
					picked = true
					break
				}
			}
		}
	}

	if !picked && len(inv) < 2 && w.rng.Float64() < w.cfg.Forage.MaterializeChance {
		obj := w.newRawMaterial()
		obj.X, obj.Y = pos.Col, pos.Row
		inv = append(inv, obj)
	}

	w.inventories[meta.ID] = inv
}

// takeMaterial removes the material at a cell with the given chance.
func (w *World) takeMaterial(row, col int, chance float64) (*chem.Object, bool) {
	idx := w.index(row, col)
	obj, ok := w.materials[idx]
	if !ok {
		return nil, false
	}
	if chance < 1.0 && w.rng.Float64() >= chance {
		return nil, false
	}
	delete(w.materials, idx)
	return obj, true
}

// attemptDiscovery lets a curious animal combine two carried items. Any
// attempt, fruitful or not, starts the cooldown.
func (w *World) attemptDiscovery(pos *components.Position, meta *components.Meta,
	animal *components.Animal, brain *neural.Brain) {

	if animal.DiscoveryCooldown > 0 {
		return
	}
	inv := w.inventories[meta.ID]
	if len(inv) < 2 || w.rng.Float64() >= animal.Curiosity {
		return
	}

	i := w.rng.Intn(len(inv))
	j := w.rng.Intn(len(inv) - 1)
	if j >= i {
		j++
	}
	actor, target := inv[i], inv[j]

	res, err := w.chemistry.Interact(actor, target, chem.Combine, nil)
	animal.DiscoveryCooldown = w.cfg.Discovery.Cooldown
	w.collector.RecordDiscoveryAttempt()
	w.detector.RecordInteraction(fmt.Sprintf("%s: %s + %s",
		animalName(meta), actor.Name, target.Name))
	if err != nil {
		return
	}

	inv = dropDestroyed(inv, res.Destroyed)
	for _, obj := range res.New {
		obj.X, obj.Y = pos.Col, pos.Row
		inv = append(inv, obj)
	}
	w.inventories[meta.ID] = inv

	if !res.Success {
		return
	}
	found := w.detector.Analyze(res, animalName(meta), w.tick)
	for _, disc := range found {
		if w.known[meta.ID][disc.ID] {
			continue
		}
		w.known[meta.ID][disc.ID] = true
		brain.RecordEnergyGain(10)
		w.collector.RecordDiscovery()
		w.shareDiscovery(pos, meta, disc.ID, res)
	}
}

// shareDiscovery spreads a finding to adjacent animals. Each learner gets
// the id and a clone of one product, so no object ends up owned twice.
func (w *World) shareDiscovery(pos *components.Position, meta *components.Meta, discID string, res *chem.Result) {
	for _, d := range neural.Directions[:8] {
		r, c := pos.Row+d[0], pos.Col+d[1]
		if !w.inBounds(r, c) {
			continue
		}
		e := w.grid[w.index(r, c)]
		if e == zeroEntity {
			continue
		}
		nmeta := w.metaMap.Get(e)
		if nmeta.Kind == components.KindPlant || w.known[nmeta.ID][discID] {
			continue
		}
		w.known[nmeta.ID][discID] = true
		if len(res.New) > 0 {
			gift := res.New[0].Clone()
			gift.X, gift.Y = c, r
			w.inventories[nmeta.ID] = append(w.inventories[nmeta.ID], gift)
		}
	}
}

func dropDestroyed(inv []*chem.Object, destroyed []*chem.Object) []*chem.Object {
	if len(destroyed) == 0 {
		return inv
	}
	out := inv[:0]
	for _, obj := range inv {
		gone := false
		for _, dead := range destroyed {
			if obj == dead {
				gone = true
				break
			}
		}
		if !gone && obj.State.Active {
			out = append(out, obj)
		}
	}
	return out
}

func animalName(meta *components.Meta) string {
	prefix := "H"
	if meta.Kind == components.KindCarnivore {
		prefix = "C"
	}
	return fmt.Sprintf("%s%d", prefix, meta.ID)
}
