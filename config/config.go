// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation parameters. A loaded Config is passed by
// value into the components that need it; nothing reads it globally.
type Config struct {
	World      WorldConfig      `yaml:"world"`
	Population PopulationConfig `yaml:"population"`
	Plant      PlantConfig      `yaml:"plant"`
	Herbivore  SpeciesConfig    `yaml:"herbivore"`
	Carnivore  SpeciesConfig    `yaml:"carnivore"`
	Evolution  EvolutionConfig  `yaml:"evolution"`
	Neural     NeuralConfig     `yaml:"neural"`
	Discovery  DiscoveryConfig  `yaml:"discovery"`
	Forage     ForageConfig     `yaml:"forage"`
	Scatter    ScatterConfig    `yaml:"scatter"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Storage    StorageConfig    `yaml:"storage"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds grid dimensions and run parameters.
type WorldConfig struct {
	Width            int   `yaml:"width"`
	Height           int   `yaml:"height"`
	Seed             int64 `yaml:"seed"`
	Ticks            int   `yaml:"ticks"`
	GenerationLength int   `yaml:"generation_length"`
}

// PopulationConfig holds the initial organism counts.
type PopulationConfig struct {
	Plants     int `yaml:"plants"`
	Herbivores int `yaml:"herbivores"`
	Carnivores int `yaml:"carnivores"`
}

// PlantConfig holds plant lifecycle parameters.
type PlantConfig struct {
	ReproductionAge int `yaml:"reproduction_age"`
	MaxAge          int `yaml:"max_age"`
}

// SpeciesConfig holds the energy economy of one animal species.
type SpeciesConfig struct {
	InitialEnergy         int `yaml:"initial_energy"`
	EnergyPerMeal         int `yaml:"energy_per_meal"`
	ReproductionThreshold int `yaml:"reproduction_threshold"`
	Upkeep                int `yaml:"upkeep"`
}

// EvolutionConfig holds the genetic algorithm parameters shared by both
// animal species.
type EvolutionConfig struct {
	MutationRate     float64 `yaml:"mutation_rate"`
	MutationStrength float64 `yaml:"mutation_strength"`
	ElitePercent     float64 `yaml:"elite_percent"`
	CrossoverRate    float64 `yaml:"crossover_rate"`
}

// NeuralConfig holds brain dimensions. Inputs and outputs are fixed by the
// sensor and action layout; only the hidden layer is tunable.
type NeuralConfig struct {
	Hidden int `yaml:"hidden"`
}

// DiscoveryConfig holds discovery behavior parameters.
type DiscoveryConfig struct {
	Threshold float64 `yaml:"threshold"`
	Cooldown  int     `yaml:"cooldown"`
}

// ForageConfig holds material gathering parameters.
type ForageConfig struct {
	MaxInventory      int     `yaml:"max_inventory"`
	AdjacentChance    float64 `yaml:"adjacent_chance"`
	MaterializeChance float64 `yaml:"materialize_chance"`
}

// ScatterConfig holds material scattering parameters.
type ScatterConfig struct {
	Materials  int     `yaml:"materials"`
	NoiseScale float64 `yaml:"noise_scale"`
}

// TelemetryConfig holds CSV output parameters.
type TelemetryConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Directory string `yaml:"directory"`
	Window    int    `yaml:"window"`
}

// StorageConfig holds the run archive parameters.
type StorageConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Cells     int // World.Width * World.Height
	NumInputs int // 8 neighbor cells + energy + age
}

// Load loads configuration from a YAML file, merging with embedded
// defaults. An empty path uses only the embedded defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into the same struct - only overwrites fields present
		// in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()
	return cfg, nil
}

func (c *Config) validate() error {
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return fmt.Errorf("config: world dimensions %dx%d must be positive", c.World.Width, c.World.Height)
	}
	if c.World.GenerationLength <= 0 {
		return fmt.Errorf("config: generation_length must be positive")
	}
	if c.Neural.Hidden <= 0 {
		return fmt.Errorf("config: neural.hidden must be positive")
	}
	total := c.Population.Plants + c.Population.Herbivores + c.Population.Carnivores
	if total > c.World.Width*c.World.Height {
		return fmt.Errorf("config: %d organisms exceed %d cells", total, c.World.Width*c.World.Height)
	}
	return nil
}

// computeDerived calculates values derived from the loaded config.
func (c *Config) computeDerived() {
	c.Derived.Cells = c.World.Width * c.World.Height
	c.Derived.NumInputs = 8 + 2
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
