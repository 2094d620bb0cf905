package telemetry

import (
	"testing"

	"cosmarium/components"
)

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(50)

	c.RecordBirth(components.KindPlant)
	c.RecordBirth(components.KindPlant)
	c.RecordBirth(components.KindHerbivore)
	c.RecordDeath(components.KindCarnivore)
	c.RecordKill()
	c.RecordDeath(components.KindHerbivore)
	c.RecordDiscoveryAttempt()
	c.RecordDiscoveryAttempt()
	c.RecordDiscovery()

	census := Census{
		Plants:           12,
		Herbivores:       4,
		Carnivores:       2,
		HerbEnergies:     []float64{10, 20, 30, 40},
		CarnEnergies:     []float64{50, 70},
		Materials:        8,
		TotalDiscoveries: 3,
	}
	s := c.Flush(50, census)

	if s.WindowStartTick != 0 || s.WindowEndTick != 50 {
		t.Errorf("window = [%d, %d], want [0, 50]", s.WindowStartTick, s.WindowEndTick)
	}
	if s.PlantBirths != 2 || s.HerbivoreBirths != 1 || s.CarnivoreBirths != 0 {
		t.Errorf("births = %d/%d/%d, want 2/1/0", s.PlantBirths, s.HerbivoreBirths, s.CarnivoreBirths)
	}
	if s.HerbivoreDeaths != 1 || s.CarnivoreDeaths != 1 || s.Kills != 1 {
		t.Errorf("deaths/kills = %d/%d/%d", s.HerbivoreDeaths, s.CarnivoreDeaths, s.Kills)
	}
	if s.DiscoveryAttempts != 2 || s.Discoveries != 1 || s.TotalDiscoveries != 3 {
		t.Errorf("discovery counters = %d/%d/%d", s.DiscoveryAttempts, s.Discoveries, s.TotalDiscoveries)
	}
	if s.Plants != 12 || s.Herbivores != 4 || s.Carnivores != 2 || s.Materials != 8 {
		t.Errorf("census passthrough wrong: %+v", s)
	}
	if s.HerbEnergyMean != 25 {
		t.Errorf("herb energy mean = %v, want 25", s.HerbEnergyMean)
	}
	if s.CarnEnergyMean != 60 {
		t.Errorf("carn energy mean = %v, want 60", s.CarnEnergyMean)
	}
}

func TestCollectorResetsAfterFlush(t *testing.T) {
	c := NewCollector(10)
	c.RecordBirth(components.KindPlant)
	c.RecordKill()
	c.Flush(10, Census{})

	s := c.Flush(20, Census{})
	if s.WindowStartTick != 10 || s.WindowEndTick != 20 {
		t.Errorf("second window = [%d, %d], want [10, 20]", s.WindowStartTick, s.WindowEndTick)
	}
	if s.PlantBirths != 0 || s.Kills != 0 {
		t.Errorf("counters not reset: births=%d kills=%d", s.PlantBirths, s.Kills)
	}
}

func TestCollectorShouldFlush(t *testing.T) {
	c := NewCollector(50)

	if c.ShouldFlush(49) {
		t.Error("should not flush before window end")
	}
	if !c.ShouldFlush(50) {
		t.Error("should flush at window end")
	}
	c.Flush(50, Census{})
	if c.ShouldFlush(99) {
		t.Error("should not flush mid second window")
	}
	if !c.ShouldFlush(100) {
		t.Error("should flush at second window end")
	}
}

func TestNilCollectorIsNoOp(t *testing.T) {
	var c *Collector

	// None of these may panic.
	c.RecordBirth(components.KindPlant)
	c.RecordDeath(components.KindHerbivore)
	c.RecordKill()
	c.RecordDiscoveryAttempt()
	c.RecordDiscovery()

	if c.ShouldFlush(1000) {
		t.Error("nil collector should never flush")
	}
}
