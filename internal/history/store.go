// Package history keeps a local SQLite log of every persisted assessment.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/harrison/cardiorisk/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// timeLayout keeps created_at fixed-width so text ordering is chronological.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store manages the SQLite assessment history
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (creating if needed) the history database at dbPath
// and brings its schema up to date. ":memory:" opens a private in-memory database.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection: the CLI is single-user and :memory: is per-connection
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	store := &Store{db: db, dbPath: dbPath}
	if err := store.ApplyMigrations(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record appends an assessment. Recording the same ID twice replaces the row.
func (s *Store) Record(ctx context.Context, a *models.PersistedAssessment) error {
	if a == nil {
		return fmt.Errorf("record assessment: nil assessment")
	}
	if a.ID == "" {
		return fmt.Errorf("record assessment: missing id")
	}

	formJSON, err := json.Marshal(a.Form)
	if err != nil {
		return fmt.Errorf("marshal form data: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO assessments (id, prediction, probability, form_data, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		a.ID,
		a.Prediction,
		a.Probability,
		string(formJSON),
		a.Timestamp.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert assessment: %w", err)
	}
	return nil
}

// Recent returns up to limit assessments, newest first. limit <= 0 returns all.
func (s *Store) Recent(ctx context.Context, limit int) ([]*models.PersistedAssessment, error) {
	query := `SELECT id, prediction, probability, form_data, created_at
		FROM assessments
		ORDER BY created_at DESC, rowid DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query assessments: %w", err)
	}
	defer rows.Close()

	var out []*models.PersistedAssessment
	for rows.Next() {
		a := &models.PersistedAssessment{}
		var formJSON, createdAt string
		if err := rows.Scan(&a.ID, &a.Prediction, &a.Probability, &formJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scan assessment row: %w", err)
		}
		if err := json.Unmarshal([]byte(formJSON), &a.Form); err != nil {
			return nil, fmt.Errorf("unmarshal form data for %s: %w", a.ID, err)
		}
		ts, err := time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp for %s: %w", a.ID, err)
		}
		a.Timestamp = ts
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assessment rows: %w", err)
	}
	return out, nil
}

// Stats summarizes the recorded history.
type Stats struct {
	Total           int
	HighRisk        int
	LowRisk         int
	MeanProbability float64
}

// GetStats returns counts by prediction and the mean reported probability.
func (s *Store) GetStats(ctx context.Context) (*Stats, error) {
	var stats Stats
	var mean sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `SELECT
		COUNT(*),
		COALESCE(SUM(CASE WHEN prediction = 1 THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN prediction = 0 THEN 1 ELSE 0 END), 0),
		AVG(probability)
		FROM assessments`).Scan(&stats.Total, &stats.HighRisk, &stats.LowRisk, &mean)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	if mean.Valid {
		stats.MeanProbability = mean.Float64
	}
	return &stats, nil
}

// Count returns the number of recorded assessments.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM assessments`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count assessments: %w", err)
	}
	return n, nil
}
