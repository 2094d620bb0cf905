// Package storage archives a finished run to SQLite so discoveries and
// generation histories can be queried across runs.
package storage

import (
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"cosmarium/discovery"
	"cosmarium/telemetry"
)

// Store wraps a SQLite connection for run archival.
type Store struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS discoveries (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		significance REAL NOT NULL,
		tick INTEGER NOT NULL,
		discoverer TEXT NOT NULL,
		reproducible INTEGER NOT NULL,
		objects_json TEXT NOT NULL,
		properties_json TEXT NOT NULL,
		applications_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS generations (
		species TEXT NOT NULL,
		generation INTEGER NOT NULL,
		tick INTEGER NOT NULL,
		pool_size INTEGER NOT NULL,
		mean_fitness REAL NOT NULL,
		max_fitness REAL NOT NULL,
		min_fitness REAL NOT NULL,
		mean_age REAL NOT NULL,
		max_age INTEGER NOT NULL,
		mean_energy_gained REAL NOT NULL,
		total_offspring INTEGER NOT NULL,
		mean_offspring REAL NOT NULL,
		PRIMARY KEY (species, generation)
	);

	CREATE TABLE IF NOT EXISTS run_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_discoveries_tick ON discoveries(tick);
	CREATE INDEX IF NOT EXISTS idx_discoveries_type ON discoveries(type);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// SaveDiscoveries writes all discoveries to the database (full replace).
func (s *Store) SaveDiscoveries(discoveries []*discovery.Discovery) error {
	tx, err := s.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM discoveries"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO discoveries
		(id, type, name, description, significance, tick, discoverer,
		 reproducible, objects_json, properties_json, applications_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, d := range discoveries {
		objectsJSON, _ := json.Marshal(d.Objects)
		propertiesJSON, _ := json.Marshal(d.Properties)
		applicationsJSON, _ := json.Marshal(d.Applications)

		reproducible := 0
		if d.Reproducible {
			reproducible = 1
		}

		_, err := stmt.Exec(
			d.ID, d.Type.String(), d.Name, d.Description, d.Significance,
			d.Tick, d.Discoverer, reproducible,
			string(objectsJSON), string(propertiesJSON), string(applicationsJSON),
		)
		if err != nil {
			return fmt.Errorf("insert discovery %s: %w", d.ID, err)
		}
	}

	return tx.Commit()
}

// SaveGenerations appends generation records to the database. Records for
// a (species, generation) pair already present are replaced.
func (s *Store) SaveGenerations(records []telemetry.GenerationRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, r := range records {
		_, err := tx.Exec(`INSERT OR REPLACE INTO generations
			(species, generation, tick, pool_size, mean_fitness, max_fitness,
			 min_fitness, mean_age, max_age, mean_energy_gained,
			 total_offspring, mean_offspring)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.Species, r.Generation, r.Tick, r.PoolSize,
			r.MeanFitness, r.MaxFitness, r.MinFitness,
			r.MeanAge, r.MaxAge, r.MeanEnergyGained,
			r.TotalOffspring, r.MeanOffspring,
		)
		if err != nil {
			return fmt.Errorf("insert generation %s/%d: %w", r.Species, r.Generation, err)
		}
	}

	return tx.Commit()
}

// SaveMeta stores a key-value pair in run metadata.
func (s *Store) SaveMeta(key, value string) error {
	_, err := s.conn.Exec(
		"INSERT OR REPLACE INTO run_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (s *Store) GetMeta(key string) (string, error) {
	var value string
	err := s.conn.Get(&value, "SELECT value FROM run_meta WHERE key = ?", key)
	return value, err
}

// DiscoveryRow is one archived discovery as read back from the database.
type DiscoveryRow struct {
	ID           string  `db:"id"`
	Type         string  `db:"type"`
	Name         string  `db:"name"`
	Significance float64 `db:"significance"`
	Tick         int     `db:"tick"`
	Discoverer   string  `db:"discoverer"`
	Reproducible bool    `db:"reproducible"`
}

// TopDiscoveries returns the most significant archived discoveries.
func (s *Store) TopDiscoveries(limit int) ([]DiscoveryRow, error) {
	var rows []DiscoveryRow
	err := s.conn.Select(&rows,
		`SELECT id, type, name, significance, tick, discoverer, reproducible
		 FROM discoveries ORDER BY significance DESC, id ASC LIMIT ?`,
		limit,
	)
	return rows, err
}

// GenerationRows returns the archived generation history for one species,
// oldest first.
func (s *Store) GenerationRows(species string) ([]telemetry.GenerationRecord, error) {
	var rows []telemetry.GenerationRecord
	err := s.conn.Select(&rows,
		`SELECT species, generation, tick, pool_size, mean_fitness, max_fitness,
		        min_fitness, mean_age, max_age, mean_energy_gained,
		        total_offspring, mean_offspring
		 FROM generations WHERE species = ? ORDER BY generation ASC`,
		species,
	)
	return rows, err
}
