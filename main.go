package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"cosmarium/config"
	"cosmarium/discovery"
	"cosmarium/neural"
	"cosmarium/storage"
	"cosmarium/telemetry"
	"cosmarium/world"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = use config, config 0 = time-based)")
	ticks := flag.Int("ticks", 0, "Run length in ticks (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs (overrides config)")
	dbPath := flag.String("db", "", "SQLite archive path (overrides config)")
	renderEvery := flag.Int("render-every", 0, "Print the grid every N ticks (0 = never)")

	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = cfg.World.Seed
	}
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(rngSeed))

	totalTicks := *ticks
	if totalTicks == 0 {
		totalTicks = cfg.World.Ticks
	}

	if err := run(cfg, rng, logger, rngSeed, totalTicks, *outputDir, *dbPath, *renderEvery); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, rng *rand.Rand, logger *slog.Logger,
	seed int64, totalTicks int, outputDir, dbPath string, renderEvery int) error {

	w := world.New(cfg, rng, logger)
	if err := w.Populate(); err != nil {
		return fmt.Errorf("populating world: %w", err)
	}

	// Telemetry output. A nil manager and collector disable it entirely.
	dir := outputDir
	if dir == "" && cfg.Telemetry.Enabled {
		dir = cfg.Telemetry.Directory
	}
	om, err := telemetry.NewOutputManager(dir)
	if err != nil {
		return fmt.Errorf("setting up output: %w", err)
	}
	defer om.Close()
	if err := om.WriteConfig(cfg); err != nil {
		return fmt.Errorf("writing config snapshot: %w", err)
	}

	var collector *telemetry.Collector
	if om != nil {
		collector = telemetry.NewCollector(cfg.Telemetry.Window)
		w.SetCollector(collector)
	}

	logger.Info("starting simulation",
		"seed", seed,
		"ticks", totalTicks,
		"grid", fmt.Sprintf("%dx%d", cfg.World.Width, cfg.World.Height),
		"output", om.Dir(),
	)

	// Generation records are appended as each species' history grows.
	var genRecords []telemetry.GenerationRecord
	herbSeen, carnSeen := 0, 0

	for t := 0; t < totalTicks; t++ {
		w.Step()

		if collector.ShouldFlush(w.Tick()) {
			stats := collector.Flush(w.Tick(), w.Census())
			if err := om.WriteTelemetry(stats); err != nil {
				return fmt.Errorf("writing telemetry: %w", err)
			}
			logger.Info("window", "stats", stats)
		}

		genRecords, herbSeen = appendGenerations(genRecords, om, "herbivore", w.Tick(), w.HerbivoreEvolution(), herbSeen)
		genRecords, carnSeen = appendGenerations(genRecords, om, "carnivore", w.Tick(), w.CarnivoreEvolution(), carnSeen)

		if renderEvery > 0 && w.Tick()%renderEvery == 0 {
			fmt.Println(w.Render())
		}
	}

	printSummary(w, seed, totalTicks)

	if om != nil {
		if err := exportDiscoveries(w.Discoveries(), filepath.Join(om.Dir(), "discoveries.json")); err != nil {
			return fmt.Errorf("exporting discoveries: %w", err)
		}
	}

	path := dbPath
	if path == "" && cfg.Storage.Enabled {
		path = cfg.Storage.Path
	}
	if path != "" {
		if err := archive(w, path, seed, genRecords); err != nil {
			return fmt.Errorf("archiving run: %w", err)
		}
		logger.Info("run archived", "path", path)
	}

	return nil
}

// appendGenerations drains new entries from one species' evolution history,
// writing each to the generations CSV.
func appendGenerations(records []telemetry.GenerationRecord, om *telemetry.OutputManager,
	species string, tick int, evo *neural.Engine, seen int) ([]telemetry.GenerationRecord, int) {

	history := evo.History()
	for ; seen < len(history); seen++ {
		rec := telemetry.NewGenerationRecord(species, tick, history[seen])
		if err := om.WriteGeneration(rec); err != nil {
			slog.Warn("writing generation record", "species", species, "error", err)
		}
		records = append(records, rec)
	}
	return records, seen
}

func printSummary(w *world.World, seed int64, totalTicks int) {
	s := w.Statistics()
	chemStats := w.Chemistry().Stats()

	fmt.Println()
	fmt.Println("=== SIMULATION SUMMARY ===")
	fmt.Printf("Seed: %d, ticks: %s\n", seed, humanize.Comma(int64(totalTicks)))
	fmt.Printf("Survivors: %d plants, %d herbivores, %d carnivores\n",
		s.Plants, s.Herbivores, s.Carnivores)
	fmt.Printf("Interactions: %s total, %s successful, %s failed\n",
		humanize.Comma(int64(chemStats.TotalInteractions)),
		humanize.Comma(int64(chemStats.SuccessfulCombinations)),
		humanize.Comma(int64(chemStats.FailedAttempts)))
	fmt.Println()
	fmt.Println(w.Discoveries().Report())
	fmt.Println()
	fmt.Println(w.EvolutionReport())
}

func exportDiscoveries(d *discovery.Detector, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return d.ExportJSON(f)
}

// archive saves the run's discoveries and generation history to SQLite.
func archive(w *world.World, path string, seed int64, genRecords []telemetry.GenerationRecord) error {
	store, err := storage.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SaveDiscoveries(w.Discoveries().All()); err != nil {
		return fmt.Errorf("saving discoveries: %w", err)
	}
	if err := store.SaveGenerations(genRecords); err != nil {
		return fmt.Errorf("saving generations: %w", err)
	}
	if err := store.SaveMeta("seed", fmt.Sprintf("%d", seed)); err != nil {
		return fmt.Errorf("saving meta: %w", err)
	}
	if err := store.SaveMeta("last_tick", fmt.Sprintf("%d", w.Tick())); err != nil {
		return fmt.Errorf("saving meta: %w", err)
	}
	return nil
}
