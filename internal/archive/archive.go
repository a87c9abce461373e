// Package archive persists planning runs to a local sqlite database so
// search experiments can be compared after the fact.
package archive

import (
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/firewatch/internal/monitoring"
	"github.com/banshee-data/firewatch/internal/plan"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Archive wraps the sqlite database holding recorded planning runs.
type Archive struct {
	*sql.DB
}

// Open opens (creating if needed) the archive at path and applies any
// pending schema migrations.
func Open(path string) (*Archive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	a := &Archive{db}
	if err := a.migrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return a, nil
}

// migrateUp applies the embedded migrations. Already-current databases are
// not an error.
func (a *Archive) migrateUp() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load embedded migrations: %w", err)
	}
	driver, err := migratesqlite.WithInstance(a.DB, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create sqlite migrate driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	// Note: we don't close m because it would close the underlying DB
	// connection.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// Run is one recorded planning run.
type Run struct {
	RunID       string
	CreatedAt   time.Time
	Utility     float64
	Duration    float64
	NumSegments int
	Notes       string
	Metadata    plan.Metadata
}

// RecordRun stores the plan's metadata under a fresh run ID and returns
// the ID.
func (a *Archive) RecordRun(p *plan.Plan, notes string) (string, error) {
	md := p.Metadata()
	blob, err := json.Marshal(md)
	if err != nil {
		return "", fmt.Errorf("failed to encode plan metadata: %w", err)
	}

	runID := uuid.NewString()
	_, err = a.Exec(
		`INSERT INTO runs (run_id, utility, duration, num_segments, notes, metadata) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, md.Utility, md.Duration, md.NumSegments, notes, string(blob),
	)
	if err != nil {
		return "", fmt.Errorf("failed to record run: %w", err)
	}
	monitoring.Logf("archive: recorded run %s (utility=%.2f, segments=%d)", runID, md.Utility, md.NumSegments)
	return runID, nil
}

// Runs lists the most recent runs, best utility first within equal
// timestamps.
func (a *Archive) Runs(limit int) ([]Run, error) {
	rows, err := a.Query(
		`SELECT run_id, created_at, utility, duration, num_segments, notes, metadata
		 FROM runs ORDER BY created_at DESC, utility ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun loads a single run by ID.
func (a *Archive) GetRun(runID string) (Run, error) {
	row := a.QueryRow(
		`SELECT run_id, created_at, utility, duration, num_segments, notes, metadata
		 FROM runs WHERE run_id = ?`, runID)
	return scanRun(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var r Run
	var createdAt string
	var blob string
	if err := row.Scan(&r.RunID, &createdAt, &r.Utility, &r.Duration, &r.NumSegments, &r.Notes, &blob); err != nil {
		return Run{}, fmt.Errorf("failed to scan run: %w", err)
	}
	if ts, err := time.Parse("2006-01-02 15:04:05", createdAt); err == nil {
		r.CreatedAt = ts
	}
	if err := json.Unmarshal([]byte(blob), &r.Metadata); err != nil {
		return Run{}, fmt.Errorf("failed to decode run metadata: %w", err)
	}
	return r, nil
}
