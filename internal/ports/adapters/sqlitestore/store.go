// Package sqlitestore keeps a local history of ranked runs in SQLite.
package sqlitestore

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/forPelevin/cutline/internal/types"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// timeLayout is fixed width so generated_at sorts chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps the database connection.
type Store struct {
	db  *sql.DB
	log logrus.FieldLogger
}

// RunSummary is one row of the run history.
type RunSummary struct {
	ID          string
	Input       string
	Mode        string
	GeneratedAt time.Time
	Segments    int
	Spikes      int
	TopScore    float64
}

// NewStore opens (creating if needed) the database at dbPath.
func NewStore(ctx context.Context, dbPath string, log logrus.FieldLogger) (*Store, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	return &Store{db: db, log: log}, nil
}

// Open is NewStore followed by Migrate.
func Open(ctx context.Context, dbPath string, log logrus.FieldLogger) (*Store, error) {
	s, err := NewStore(ctx, dbPath, log)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Migrate applies pending embedded migrations in file name order.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	applied, err := s.appliedMigrations(ctx)
	if err != nil {
		return err
	}

	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, file := range files {
		if applied[file] {
			continue
		}
		content, err := fs.ReadFile(migrationsFS, path.Join("migrations", file))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		if _, err := tx.ExecContext(ctx, upMigration(string(content))); err != nil {
			tx.Rollback()
			return fmt.Errorf("execute migration %s: %w", file, err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", file); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %s: %w", file, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", file, err)
		}
		s.log.WithField("file", file).Debug("migration applied")
	}
	return nil
}

func (s *Store) appliedMigrations(ctx context.Context) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan migration: %w", err)
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

// upMigration returns the part of a migration file before "-- +migrate Down".
func upMigration(content string) string {
	if i := strings.Index(content, "-- +migrate Down"); i >= 0 {
		content = content[:i]
	}
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(content), "-- +migrate Up"))
}

// SaveRun records the manifest and its spikes in one transaction.
func (s *Store) SaveRun(ctx context.Context, m types.Manifest) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, input, mode, generated_at, window_seconds, step_seconds, words_per_second, segments)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.RunID, m.Input, m.Mode, m.GeneratedAt.UTC().Format(timeLayout),
		m.WindowSeconds, m.StepSeconds, m.WordsPerSecond, m.Segments,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", m.RunID, err)
	}

	for i, sp := range m.Spikes {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO spikes (run_id, spike_rank, start_time, end_time, duration, liquidity_score, text)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			m.RunID, i+1, sp.StartTime, sp.EndTime, sp.Duration, sp.LiquidityScore, sp.Text,
		)
		if err != nil {
			return fmt.Errorf("insert spike %d of run %s: %w", i+1, m.RunID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", m.RunID, err)
	}
	s.log.WithFields(logrus.Fields{"run_id": m.RunID, "spikes": len(m.Spikes)}).Debug("run recorded")
	return nil
}

// ListRuns returns the most recent runs first. limit <= 0 means no limit.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.input, r.mode, r.generated_at, r.segments,
		       COUNT(s.spike_rank), COALESCE(MAX(s.liquidity_score), 0)
		FROM runs r
		LEFT JOIN spikes s ON s.run_id = r.id
		GROUP BY r.id
		ORDER BY r.generated_at DESC, r.id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			r  RunSummary
			ts string
		)
		if err := rows.Scan(&r.ID, &r.Input, &r.Mode, &ts, &r.Segments, &r.Spikes, &r.TopScore); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if r.GeneratedAt, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("parse generated_at of run %s: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Spikes returns the recorded spikes of a run in rank order.
func (s *Store) Spikes(ctx context.Context, runID string) ([]types.ScoredSegment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT start_time, end_time, duration, liquidity_score, text
		FROM spikes WHERE run_id = ? ORDER BY spike_rank`, runID)
	if err != nil {
		return nil, fmt.Errorf("query spikes: %w", err)
	}
	defer rows.Close()

	var out []types.ScoredSegment
	for rows.Next() {
		var sp types.ScoredSegment
		if err := rows.Scan(&sp.StartTime, &sp.EndTime, &sp.Duration, &sp.LiquidityScore, &sp.Text); err != nil {
			return nil, fmt.Errorf("scan spike: %w", err)
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
