package world

import (
	"cosmarium/components"
	"cosmarium/telemetry"
)

// Statistics is a point-in-time census of the world.
type Statistics struct {
	Tick       int
	Plants     int
	Herbivores int
	Carnivores int

	MeanHerbivoreEnergy float64
	MeanCarnivoreEnergy float64

	Materials   int
	Discoveries int
}

// Statistics counts the living population and averages animal energy.
func (w *World) Statistics() Statistics {
	s := Statistics{
		Tick:        w.tick,
		Materials:   len(w.materials),
		Discoveries: w.detector.Count(),
	}

	query := w.plantFilter.Query()
	for query.Next() {
		s.Plants++
	}

	var herbEnergy, carnEnergy int
	aq := w.animalFilter.Query()
	for aq.Next() {
		_, meta, animal := aq.Get()
		if meta.Kind == components.KindCarnivore {
			s.Carnivores++
			carnEnergy += animal.Energy
		} else {
			s.Herbivores++
			herbEnergy += animal.Energy
		}
	}
	if s.Herbivores > 0 {
		s.MeanHerbivoreEnergy = float64(herbEnergy) / float64(s.Herbivores)
	}
	if s.Carnivores > 0 {
		s.MeanCarnivoreEnergy = float64(carnEnergy) / float64(s.Carnivores)
	}
	return s
}

// Census samples the world for a telemetry window flush.
func (w *World) Census() telemetry.Census {
	c := telemetry.Census{
		Materials:        len(w.materials),
		TotalDiscoveries: w.detector.Count(),
	}

	query := w.plantFilter.Query()
	for query.Next() {
		c.Plants++
	}

	aq := w.animalFilter.Query()
	for aq.Next() {
		_, meta, animal := aq.Get()
		if meta.Kind == components.KindCarnivore {
			c.Carnivores++
			c.CarnEnergies = append(c.CarnEnergies, float64(animal.Energy))
		} else {
			c.Herbivores++
			c.HerbEnergies = append(c.HerbEnergies, float64(animal.Energy))
		}
	}
	return c
}
