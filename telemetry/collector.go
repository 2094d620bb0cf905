package telemetry

import "cosmarium/components"

// Collector accumulates events within tick windows and produces
// WindowStats. A nil collector is a no-op, so the simulation can run
// without telemetry wired in.
type Collector struct {
	windowTicks     int
	windowStartTick int

	plantBirths     int
	herbivoreBirths int
	carnivoreBirths int
	plantDeaths     int
	herbivoreDeaths int
	carnivoreDeaths int
	kills           int

	discoveryAttempts int
	discoveries       int
}

// NewCollector creates a collector flushing every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: windowTicks}
}

// RecordBirth records a birth event.
func (c *Collector) RecordBirth(kind components.Kind) {
	if c == nil {
		return
	}
	switch kind {
	case components.KindPlant:
		c.plantBirths++
	case components.KindHerbivore:
		c.herbivoreBirths++
	default:
		c.carnivoreBirths++
	}
}

// RecordDeath records a death event.
func (c *Collector) RecordDeath(kind components.Kind) {
	if c == nil {
		return
	}
	switch kind {
	case components.KindPlant:
		c.plantDeaths++
	case components.KindHerbivore:
		c.herbivoreDeaths++
	default:
		c.carnivoreDeaths++
	}
}

// RecordKill records a predation event. The prey's death is recorded
// separately.
func (c *Collector) RecordKill() {
	if c == nil {
		return
	}
	c.kills++
}

// RecordDiscoveryAttempt records one material combination attempt.
func (c *Collector) RecordDiscoveryAttempt() {
	if c == nil {
		return
	}
	c.discoveryAttempts++
}

// RecordDiscovery records a genuinely new discovery.
func (c *Collector) RecordDiscovery() {
	if c == nil {
		return
	}
	c.discoveries++
}

// ShouldFlush reports whether the current window is complete.
func (c *Collector) ShouldFlush(tick int) bool {
	if c == nil {
		return false
	}
	return tick-c.windowStartTick >= c.windowTicks
}

// Census holds the point-in-time values sampled at flush.
type Census struct {
	Plants           int
	Herbivores       int
	Carnivores       int
	HerbEnergies     []float64
	CarnEnergies     []float64
	Materials        int
	TotalDiscoveries int
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(tick int, census Census) WindowStats {
	s := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   tick,

		Plants:     census.Plants,
		Herbivores: census.Herbivores,
		Carnivores: census.Carnivores,

		PlantBirths:     c.plantBirths,
		HerbivoreBirths: c.herbivoreBirths,
		CarnivoreBirths: c.carnivoreBirths,
		PlantDeaths:     c.plantDeaths,
		HerbivoreDeaths: c.herbivoreDeaths,
		CarnivoreDeaths: c.carnivoreDeaths,
		Kills:           c.kills,

		DiscoveryAttempts: c.discoveryAttempts,
		Discoveries:       c.discoveries,
		TotalDiscoveries:  census.TotalDiscoveries,

		Materials: census.Materials,
	}
	s.HerbEnergyMean, s.HerbEnergyP10, s.HerbEnergyP50, s.HerbEnergyP90 = ComputeEnergyStats(census.HerbEnergies)
	s.CarnEnergyMean, s.CarnEnergyP10, s.CarnEnergyP50, s.CarnEnergyP90 = ComputeEnergyStats(census.CarnEnergies)

	c.windowStartTick = tick
	c.plantBirths, c.herbivoreBirths, c.carnivoreBirths = 0, 0, 0
	c.plantDeaths, c.herbivoreDeaths, c.carnivoreDeaths = 0, 0, 0
	c.kills = 0
	c.discoveryAttempts, c.discoveries = 0, 0

	return s
}
