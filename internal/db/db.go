// Package db caches imported velocity models in SQLite so repeated
// runs and the HTTP server skip re-parsing large model files.
package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/seismo-data/tomo.report/internal/model"
)

type DB struct {
	*sql.DB
}

// NewDB opens (creating if needed) a cache database at path and runs
// any pending migrations.
func NewDB(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	db := &DB{sqlDB}
	if err := db.MigrateUp(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// ModelInfo describes one cached model.
type ModelInfo struct {
	ModelID    string    `json:"model_id"`
	Name       string    `json:"name"`
	SourceFile string    `json:"source_file"`
	ImportedAt time.Time `json:"imported_at"`
	Samples    int       `json:"samples"`
}

// ImportTable stores a parsed table under a fresh model id. The insert
// is transactional so a failed import leaves no partial model behind.
func (db *DB) ImportTable(name, sourceFile string, t *model.Table) (string, error) {
	modelID := uuid.NewString()

	tx, err := db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO models (model_id, name, source_file) VALUES (?, ?, ?)`,
		modelID, name, sourceFile,
	); err != nil {
		return "", fmt.Errorf("insert model: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO samples (
		model_id, seq, lon, lat, depth_km, vp, vp_resolution, vs, vs_resolution
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare sample insert: %w", err)
	}
	defer stmt.Close()

	for i, s := range t.Samples {
		if _, err := stmt.Exec(
			modelID, i, s.Lon, s.Lat, s.Depth,
			s.Vp, s.VpResolution, s.Vs, s.VsResolution,
		); err != nil {
			return "", fmt.Errorf("insert sample %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit import: %w", err)
	}
	return modelID, nil
}

// ListModels returns all cached models, newest first.
func (db *DB) ListModels() ([]ModelInfo, error) {
	rows, err := db.Query(`
		SELECT m.model_id, m.name, m.source_file, m.imported_at, COUNT(s.model_id)
		FROM models m LEFT JOIN samples s ON s.model_id = m.model_id
		GROUP BY m.model_id
		ORDER BY m.imported_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var models []ModelInfo
	for rows.Next() {
		var m ModelInfo
		if err := rows.Scan(&m.ModelID, &m.Name, &m.SourceFile, &m.ImportedAt, &m.Samples); err != nil {
			return nil, err
		}
		models = append(models, m)
	}
	return models, rows.Err()
}

// FindModel looks a model up by name, returning the most recent import
// when several share the name.
func (db *DB) FindModel(name string) (*ModelInfo, error) {
	row := db.QueryRow(`
		SELECT model_id, name, source_file, imported_at FROM models
		WHERE name = ? ORDER BY imported_at DESC LIMIT 1`, name)

	var m ModelInfo
	if err := row.Scan(&m.ModelID, &m.Name, &m.SourceFile, &m.ImportedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("no cached model named %q", name)
		}
		return nil, err
	}
	return &m, nil
}

// Depths returns the sorted distinct depths of a cached model.
func (db *DB) Depths(modelID string) ([]float64, error) {
	rows, err := db.Query(
		`SELECT DISTINCT depth_km FROM samples WHERE model_id = ? ORDER BY depth_km`,
		modelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var depths []float64
	for rows.Next() {
		var d float64
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		depths = append(depths, d)
	}
	return depths, rows.Err()
}

// Table reloads a full cached model in original row order.
func (db *DB) Table(modelID string) (*model.Table, error) {
	return db.queryTable(modelID,
		`SELECT s.lon, s.lat, s.depth_km, s.vp, s.vp_resolution, s.vs, s.vs_resolution
		 FROM samples s WHERE s.model_id = ? ORDER BY s.seq`, modelID)
}

// SliceTable loads only the rows at exactly depth, in original row
// order, so binning a cached model matches binning the file.
func (db *DB) SliceTable(modelID string, depth float64) (*model.Table, error) {
	return db.queryTable(modelID,
		`SELECT s.lon, s.lat, s.depth_km, s.vp, s.vp_resolution, s.vs, s.vs_resolution
		 FROM samples s WHERE s.model_id = ? AND s.depth_km = ? ORDER BY s.seq`,
		modelID, depth)
}

func (db *DB) queryTable(modelID, query string, args ...any) (*model.Table, error) {
	var name string
	err := db.QueryRow(`SELECT name FROM models WHERE model_id = ?`, modelID).Scan(&name)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("unknown model id %q", modelID)
	}
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	t := &model.Table{Name: name}
	for rows.Next() {
		var s model.Sample
		if err := rows.Scan(&s.Lon, &s.Lat, &s.Depth,
			&s.Vp, &s.VpResolution, &s.Vs, &s.VsResolution); err != nil {
			return nil, err
		}
		t.Samples = append(t.Samples, s)
	}
	return t, rows.Err()
}
