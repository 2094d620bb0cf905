// Package world runs the grid simulation: organisms living on cells,
// scattered materials, and the tick loop that drives foraging, discovery,
// predation, reproduction, and generational evolution.
package world

import (
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"cosmarium/chem"
	"cosmarium/components"
	"cosmarium/config"
	"cosmarium/discovery"
	"cosmarium/neural"
	"cosmarium/telemetry"
)

// World holds the complete simulation state.
type World struct {
	cfg *config.Config
	rng *rand.Rand
	log *slog.Logger

	ecs *ecs.World

	plantMapper *ecs.Map3[
		components.Position,
		components.Meta,
		components.Plant,
	]
	animalMapper *ecs.Map3[
		components.Position,
		components.Meta,
		components.Animal,
	]

	plantFilter *ecs.Filter3[
		components.Position,
		components.Meta,
		components.Plant,
	]
	animalFilter *ecs.Filter3[
		components.Position,
		components.Meta,
		components.Animal,
	]

	// Individual component mappers for lookups
	posMap    *ecs.Map1[components.Position]
	metaMap   *ecs.Map1[components.Meta]
	plantMap  *ecs.Map1[components.Plant]
	animalMap *ecs.Map1[components.Animal]

	// Occupancy grid, row-major. The zero entity means an empty cell.
	grid []ecs.Entity

	width  int
	height int
	tick   int
	nextID uint32

	// Brain and culture storage per animal ID. Brains stay out of the ECS
	// so genomes survive their owner and feed the evolution pools.
	brains      map[uint32]*neural.Brain
	inventories map[uint32][]*chem.Object
	known       map[uint32]map[string]bool

	// Scattered materials by cell index. An object is either here or in
	// exactly one inventory.
	materials map[int]*chem.Object

	chemistry *chem.Engine
	detector  *discovery.Detector
	collector *telemetry.Collector

	herbEvo  *neural.Engine
	carnEvo  *neural.Engine
	herbPool []*neural.Brain
	carnPool []*neural.Brain
}

// New creates an empty world. Populate seeds the initial organisms.
func New(cfg *config.Config, rng *rand.Rand, log *slog.Logger) *World {
	if log == nil {
		log = slog.Default()
	}
	world := ecs.NewWorld()

	evoParams := neural.Params{
		MutationRate:     cfg.Evolution.MutationRate,
		MutationStrength: cfg.Evolution.MutationStrength,
		ElitePct:         cfg.Evolution.ElitePercent,
		CrossoverRate:    cfg.Evolution.CrossoverRate,
		Hidden:           cfg.Neural.Hidden,
	}

	cat := chem.NewCatalog()
	w := &World{
		cfg:    cfg,
		rng:    rng,
		log:    log,
		ecs:    world,
		width:  cfg.World.Width,
		height: cfg.World.Height,
		nextID: 1,
		plantMapper: ecs.NewMap3[
			components.Position,
			components.Meta,
			components.Plant,
		](world),
		animalMapper: ecs.NewMap3[
			components.Position,
			components.Meta,
			components.Animal,
		](world),
		plantFilter: ecs.NewFilter3[
			components.Position,
			components.Meta,
			components.Plant,
		](world),
		animalFilter: ecs.NewFilter3[
			components.Position,
			components.Meta,
			components.Animal,
		](world),
		posMap:    ecs.NewMap1[components.Position](world),
		metaMap:   ecs.NewMap1[components.Meta](world),
		plantMap:  ecs.NewMap1[components.Plant](world),
		animalMap: ecs.NewMap1[components.Animal](world),

		grid:        make([]ecs.Entity, cfg.World.Width*cfg.World.Height),
		brains:      make(map[uint32]*neural.Brain),
		inventories: make(map[uint32][]*chem.Object),
		known:       make(map[uint32]map[string]bool),
		materials:   make(map[int]*chem.Object),

		chemistry: chem.NewEngine(cat, rng, log),
		detector:  discovery.NewDetector(cfg.Discovery.Threshold, log),
		herbEvo:   neural.NewEngine(evoParams, rng, log),
		carnEvo:   neural.NewEngine(evoParams, rng, log),
	}
	return w
}

// SetCollector attaches an event collector. A nil collector disables
// telemetry.
func (w *World) SetCollector(c *telemetry.Collector) { w.collector = c }

// Tick returns the number of completed steps.
func (w *World) Tick() int { return w.tick }

// Width returns the grid width in cells.
func (w *World) Width() int { return w.width }

// Height returns the grid height in cells.
func (w *World) Height() int { return w.height }

// Chemistry returns the interaction engine.
func (w *World) Chemistry() *chem.Engine { return w.chemistry }

// Discoveries returns the discovery detector.
func (w *World) Discoveries() *discovery.Detector { return w.detector }

// HerbivoreEvolution returns the herbivore species' evolution engine.
func (w *World) HerbivoreEvolution() *neural.Engine { return w.herbEvo }

// CarnivoreEvolution returns the carnivore species' evolution engine.
func (w *World) CarnivoreEvolution() *neural.Engine { return w.carnEvo }

func (w *World) index(row, col int) int { return row*w.width + col }

func (w *World) inBounds(row, col int) bool {
	return row >= 0 && row < w.height && col >= 0 && col < w.width
}

var zeroEntity ecs.Entity

func (w *World) empty(row, col int) bool {
	return w.grid[w.index(row, col)] == zeroEntity
}

// Step advances the simulation one tick. Occupants are processed in a
// shuffled snapshot; organisms consumed mid-tick are skipped, grid moves
// take effect immediately, and births land after the pass so offspring
// never act on the tick they appear.
func (w *World) Step() {
	w.tick++

	snapshot := make([]ecs.Entity, 0, len(w.grid))
	for _, e := range w.grid {
		if e != zeroEntity {
			snapshot = append(snapshot, e)
		}
	}
	w.rng.Shuffle(len(snapshot), func(i, j int) {
		snapshot[i], snapshot[j] = snapshot[j], snapshot[i]
	})

	removed := make(map[ecs.Entity]bool)
	var births []birth
	for _, e := range snapshot {
		if removed[e] {
			continue
		}
		meta := w.metaMap.Get(e)
		if meta.Kind == components.KindPlant {
			w.stepPlant(e, &births)
		} else {
			w.stepAnimal(e, meta, removed, &births)
		}
	}
	w.placeBirths(births)

	w.updateMaterials()

	if w.tick%w.cfg.World.GenerationLength == 0 {
		w.evolveGenerations()
	}
}

// updateMaterials ages scattered materials and drops the ones that decayed
// to destruction.
func (w *World) updateMaterials() {
	for idx, obj := range w.materials {
		obj.Update(w.rng)
		if !obj.State.Active {
			delete(w.materials, idx)
		}
	}
}

// removeEntity clears an organism from the grid and the ECS. Animal brains
// are the caller's responsibility; they usually outlive their owner in a
// species pool.
func (w *World) removeEntity(e ecs.Entity, meta *components.Meta) {
	pos := w.posMap.Get(e)
	w.grid[w.index(pos.Row, pos.Col)] = zeroEntity

	if meta.Kind == components.KindPlant {
		w.plantMapper.Remove(e)
		return
	}
	delete(w.inventories, meta.ID)
	delete(w.known, meta.ID)
	w.animalMapper.Remove(e)
}
