package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"cosmarium/config"
	"cosmarium/neural"
)

// GenerationRecord is one evolved generation of one species, flattened
// for CSV output.
type GenerationRecord struct {
	Species    string `csv:"species" db:"species"`
	Tick       int    `csv:"tick" db:"tick"`
	Generation int    `csv:"generation" db:"generation"`
	PoolSize   int    `csv:"pool_size" db:"pool_size"`

	MeanFitness float64 `csv:"mean_fitness" db:"mean_fitness"`
	MaxFitness  float64 `csv:"max_fitness" db:"max_fitness"`
	MinFitness  float64 `csv:"min_fitness" db:"min_fitness"`

	MeanAge          float64 `csv:"mean_age" db:"mean_age"`
	MaxAge           int     `csv:"max_age" db:"max_age"`
	MeanEnergyGained float64 `csv:"mean_energy_gained" db:"mean_energy_gained"`

	TotalOffspring int     `csv:"total_offspring" db:"total_offspring"`
	MeanOffspring  float64 `csv:"mean_offspring" db:"mean_offspring"`
}

// NewGenerationRecord flattens an evolution engine's generation stats.
func NewGenerationRecord(species string, tick int, gs neural.GenStats) GenerationRecord {
	return GenerationRecord{
		Species:          species,
		Tick:             tick,
		Generation:       gs.Generation,
		PoolSize:         gs.PoolSize,
		MeanFitness:      gs.MeanFitness,
		MaxFitness:       gs.MaxFitness,
		MinFitness:       gs.MinFitness,
		MeanAge:          gs.MeanAge,
		MaxAge:           gs.MaxAge,
		MeanEnergyGained: gs.MeanEnergyGained,
		TotalOffspring:   gs.TotalOffspring,
		MeanOffspring:    gs.MeanOffspring,
	}
}

// OutputManager handles structured experiment output with CSV logging.
type OutputManager struct {
	dir            string
	telemetryFile  *os.File
	generationFile *os.File

	// Track if headers have been written
	telemetryHeaderWritten  bool
	generationHeaderWritten bool
}

// NewOutputManager creates an output manager and initializes the output
// directory. Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating telemetry.csv: %w", err)
	}
	om.telemetryFile = f

	f, err = os.Create(filepath.Join(dir, "generations.csv"))
	if err != nil {
		om.telemetryFile.Close()
		return nil, fmt.Errorf("creating generations.csv: %w", err)
	}
	om.generationFile = f

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTelemetry writes a window stats record to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}

	records := []WindowStats{stats}

	if !om.telemetryHeaderWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, om.telemetryFile); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		om.telemetryHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.telemetryFile); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
	}
	return nil
}

// WriteGeneration writes a generation record to generations.csv.
func (om *OutputManager) WriteGeneration(rec GenerationRecord) error {
	if om == nil {
		return nil
	}

	records := []GenerationRecord{rec}

	if !om.generationHeaderWritten {
		if err := gocsv.Marshal(records, om.generationFile); err != nil {
			return fmt.Errorf("writing generation: %w", err)
		}
		om.generationHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.generationFile); err != nil {
			return fmt.Errorf("writing generation: %w", err)
		}
	}
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	if om.telemetryFile != nil {
		if err := om.telemetryFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if om.generationFile != nil {
		if err := om.generationFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
