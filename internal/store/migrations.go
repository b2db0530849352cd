package store

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// SchemaVersion is the latest schema version the store migrates to.
const SchemaVersion = 2

// Migration is one forward-only schema change.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE TABLE IF NOT EXISTS runs (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				created_at DATETIME NOT NULL,
				tables_version TEXT NOT NULL,
				total_economic_loss REAL NOT NULL,
				request TEXT NOT NULL,
				result TEXT NOT NULL
			)`)
			return err
		},
	},
	{
		Version:     2,
		Description: "Add input hash for duplicate lookups",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`ALTER TABLE runs ADD COLUMN input_hash TEXT NOT NULL DEFAULT ''`,
				`CREATE INDEX idx_runs_input_hash ON runs(input_hash)`,
				`CREATE INDEX idx_runs_created_at ON runs(created_at)`,
			}
			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
}

// Migrate applies every migration newer than the database's user_version.
func (s *Store) Migrate(ctx context.Context) error {
	var currentVersion int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		if err := migration.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}

		s.logger.Debug("applied migration",
			zap.String("op", "store.Migrate"),
			zap.Int("version", migration.Version),
			zap.String("description", migration.Description),
		)
	}
	return nil
}
