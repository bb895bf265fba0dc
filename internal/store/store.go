// Package store persists generation metadata in SQLite: one row per
// component group per run, whether the group generated an artifact or was
// skipped. The history subcommand reads it back.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// GenerationRecord is one materialization outcome.
type GenerationRecord struct {
	ID           int64     `json:"id"`
	RunID        string    `json:"run_id"`
	DerivedName  string    `json:"derived_name"`
	SourceID     string    `json:"source_id"`
	Category     string    `json:"category"`
	GeneratedAt  time.Time `json:"generated_at"`
	UsageExample string    `json:"usage_example,omitempty"`
	VariantCount int       `json:"variant_count"`
	Skipped      bool      `json:"skipped"`
	Reason       string    `json:"reason,omitempty"`
}

// Store wraps the SQLite metadata database.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS generations (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id        TEXT NOT NULL,
	derived_name  TEXT NOT NULL,
	source_id     TEXT NOT NULL,
	category      TEXT NOT NULL,
	generated_at  TEXT NOT NULL,
	usage_example TEXT NOT NULL DEFAULT '',
	variant_count INTEGER NOT NULL DEFAULT 0,
	skipped       INTEGER NOT NULL DEFAULT 0,
	reason        TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_generations_name ON generations(derived_name);
`

// Open creates or opens the metadata database at path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open metadata store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize metadata schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert appends one generation record.
func (s *Store) Insert(ctx context.Context, rec GenerationRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO generations
			(run_id, derived_name, source_id, category, generated_at, usage_example, variant_count, skipped, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.DerivedName, rec.SourceID, rec.Category,
		rec.GeneratedAt.UTC().Format(time.RFC3339), rec.UsageExample,
		rec.VariantCount, boolToInt(rec.Skipped), rec.Reason,
	)
	if err != nil {
		return fmt.Errorf("insert generation record: %w", err)
	}
	return nil
}

// List returns the most recent records, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]GenerationRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, derived_name, source_id, category, generated_at, usage_example, variant_count, skipped, reason
		FROM generations ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list generation records: %w", err)
	}
	defer rows.Close()

	var records []GenerationRecord
	for rows.Next() {
		var (
			rec     GenerationRecord
			at      string
			skipped int
		)
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.DerivedName, &rec.SourceID, &rec.Category,
			&at, &rec.UsageExample, &rec.VariantCount, &skipped, &rec.Reason); err != nil {
			return nil, fmt.Errorf("scan generation record: %w", err)
		}
		rec.GeneratedAt, _ = time.Parse(time.RFC3339, at)
		rec.Skipped = skipped != 0
		records = append(records, rec)
	}
	return records, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
