// Package store keeps a history of analysis runs in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"github.com/iwvelando/economic-loss/internal/analysis"
	"go.uber.org/zap"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// ErrNotFound is returned when no run has the requested ID.
var ErrNotFound = errors.New("run not found")

// Store is a SQLite-backed run history.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// RunSummary describes one stored run.
type RunSummary struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	CreatedAt         time.Time `json:"createdAt"`
	TablesVersion     string    `json:"tablesVersion"`
	TotalEconomicLoss float64   `json:"totalEconomicLoss"`
	InputHash         string    `json:"inputHash"`
}

// StoredRun is a run with its request and the JSON-encoded result.
type StoredRun struct {
	RunSummary
	Request analysis.Request `json:"request"`
	Result  json.RawMessage  `json:"result"`
}

// Open opens (creating if needed) the database at path and migrates it.
func Open(ctx context.Context, path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db, logger: logger}
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun records a completed analysis.
func (s *Store) SaveRun(ctx context.Context, req analysis.Request, result *analysis.Result, inputHash string) error {
	if result == nil {
		return fmt.Errorf("cannot save a nil result")
	}
	requestJSON, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, name, created_at, tables_version, total_economic_loss, request, result, input_hash)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		result.RunID, result.Profile.Name, result.CreatedAt.UTC(), result.TablesVersion,
		result.TotalEconomicLoss, string(requestJSON), string(resultJSON), inputHash,
	)
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", result.RunID, err)
	}

	s.logger.Debug("saved run",
		zap.String("op", "store.SaveRun"),
		zap.String("runId", result.RunID),
	)
	return nil
}

// ListRuns returns up to limit runs, newest first. A limit of zero or less
// returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	query := `SELECT id, name, created_at, tables_version, total_economic_loss, input_hash
		FROM runs ORDER BY created_at DESC, id`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	runs := []RunSummary{}
	for rows.Next() {
		var run RunSummary
		if err := rows.Scan(&run.ID, &run.Name, &run.CreatedAt, &run.TablesVersion, &run.TotalEconomicLoss, &run.InputHash); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun returns the run with the given ID or ErrNotFound.
func (s *Store) GetRun(ctx context.Context, id string) (*StoredRun, error) {
	var (
		run         StoredRun
		requestJSON string
		resultJSON  string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, tables_version, total_economic_loss, input_hash, request, result
		 FROM runs WHERE id = ?`, id,
	).Scan(&run.ID, &run.Name, &run.CreatedAt, &run.TablesVersion, &run.TotalEconomicLoss, &run.InputHash, &requestJSON, &resultJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", id, err)
	}

	if err := json.Unmarshal([]byte(requestJSON), &run.Request); err != nil {
		return nil, fmt.Errorf("failed to decode stored request for run %s: %w", id, err)
	}
	run.Result = json.RawMessage(resultJSON)
	return &run, nil
}

// FindByInputHash returns the newest run recorded for inputHash or ErrNotFound.
func (s *Store) FindByInputHash(ctx context.Context, inputHash string) (*StoredRun, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM runs WHERE input_hash = ? ORDER BY created_at DESC LIMIT 1`, inputHash,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: input hash %s", ErrNotFound, inputHash)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up input hash: %w", err)
	}
	return s.GetRun(ctx, id)
}
