// Package db persists analysis results in PostgreSQL or SQLite.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS analyses (
	id            UUID PRIMARY KEY,
	fingerprint   TEXT NOT NULL,
	role          TEXT NOT NULL,
	selected_role TEXT NOT NULL DEFAULT '',
	overall_score DOUBLE PRECISION NOT NULL,
	source        TEXT NOT NULL,
	report_key    TEXT NOT NULL DEFAULT '',
	result        JSONB NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS analyses_fingerprint_idx ON analyses (fingerprint);
CREATE INDEX IF NOT EXISTS analyses_created_at_idx ON analyses (created_at DESC);
`

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database and applies the schema.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() error {
	if db.pool != nil {
		db.pool.Close()
	}
	return nil
}

// SaveAnalysis inserts or replaces an analysis record.
func (db *DB) SaveAnalysis(ctx context.Context, rec *Record) error {
	result, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO analyses (id, fingerprint, role, selected_role, overall_score, source, report_key, result, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO UPDATE SET report_key = $7, result = $8, overall_score = $5`,
		rec.ID, rec.Fingerprint, rec.Role, rec.SelectedRole, rec.OverallScore, rec.Source, rec.ReportKey, result, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis %s: %w", rec.ID, err)
	}
	return nil
}

const selectRecord = `SELECT id, fingerprint, role, selected_role, overall_score, source, report_key, result, created_at FROM analyses`

// GetAnalysis retrieves an analysis by ID
func (db *DB) GetAnalysis(ctx context.Context, id uuid.UUID) (*Record, error) {
	rec, err := scanRecord(db.pool.QueryRow(ctx, selectRecord+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return rec, nil
}

// FindByFingerprint returns the newest analysis of identical inputs.
func (db *DB) FindByFingerprint(ctx context.Context, fingerprint string) (*Record, error) {
	rec, err := scanRecord(db.pool.QueryRow(ctx,
		selectRecord+` WHERE fingerprint = $1 ORDER BY created_at DESC LIMIT 1`, fingerprint))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find analysis: %w", err)
	}
	return rec, nil
}

// ListAnalyses retrieves recent analyses, newest first.
func (db *DB) ListAnalyses(ctx context.Context, limit int) ([]Record, error) {
	rows, err := db.pool.Query(ctx, selectRecord+` ORDER BY created_at DESC LIMIT $1`, listLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// row is satisfied by pgx.Row, pgx.Rows and *sql.Row(s).
type row interface {
	Scan(dest ...any) error
}

func scanRecord(r row) (*Record, error) {
	var (
		rec    Record
		result []byte
	)
	if err := r.Scan(&rec.ID, &rec.Fingerprint, &rec.Role, &rec.SelectedRole, &rec.OverallScore,
		&rec.Source, &rec.ReportKey, &result, &rec.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(result, &rec.Result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis: %w", err)
	}
	return &rec, nil
}

var _ Store = (*DB)(nil)
