package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS analyses (
	id            TEXT PRIMARY KEY,
	fingerprint   TEXT NOT NULL,
	role          TEXT NOT NULL,
	selected_role TEXT NOT NULL DEFAULT '',
	overall_score REAL NOT NULL,
	source        TEXT NOT NULL,
	report_key    TEXT NOT NULL DEFAULT '',
	result        TEXT NOT NULL,
	created_at    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS analyses_fingerprint_idx ON analyses (fingerprint);
CREATE INDEX IF NOT EXISTS analyses_created_at_idx ON analyses (created_at);
`

// sqliteTime sorts lexically in chronological order.
const sqliteTime = "2006-01-02T15:04:05.000000000Z"

// SQLite stores analyses in a single SQLite file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path. ":memory:" gives a
// private in-memory database.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer; also keeps ":memory:" on one connection

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// SaveAnalysis inserts or replaces an analysis record.
func (s *SQLite) SaveAnalysis(ctx context.Context, rec *Record) error {
	result, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analyses (id, fingerprint, role, selected_role, overall_score, source, report_key, result, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET report_key = excluded.report_key, result = excluded.result,
		 overall_score = excluded.overall_score`,
		rec.ID.String(), rec.Fingerprint, rec.Role, rec.SelectedRole, rec.OverallScore, rec.Source, rec.ReportKey,
		string(result), rec.CreatedAt.UTC().Format(sqliteTime),
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis %s: %w", rec.ID, err)
	}
	return nil
}

// GetAnalysis retrieves an analysis by ID.
func (s *SQLite) GetAnalysis(ctx context.Context, id uuid.UUID) (*Record, error) {
	rec, err := scanSQLiteRecord(s.db.QueryRowContext(ctx, selectRecord+` WHERE id = ?`, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return rec, nil
}

// FindByFingerprint returns the newest analysis of identical inputs.
func (s *SQLite) FindByFingerprint(ctx context.Context, fingerprint string) (*Record, error) {
	rec, err := scanSQLiteRecord(s.db.QueryRowContext(ctx,
		selectRecord+` WHERE fingerprint = ? ORDER BY created_at DESC LIMIT 1`, fingerprint))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find analysis: %w", err)
	}
	return rec, nil
}

// ListAnalyses retrieves recent analyses, newest first.
func (s *SQLite) ListAnalyses(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, selectRecord+` ORDER BY created_at DESC LIMIT ?`, listLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []Record
	for rows.Next() {
		rec, err := scanSQLiteRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// scanSQLiteRecord differs from scanRecord in that ids and timestamps are stored as text.
func scanSQLiteRecord(r row) (*Record, error) {
	var (
		rec       Record
		id        string
		result    string
		createdAt string
	)
	if err := r.Scan(&id, &rec.Fingerprint, &rec.Role, &rec.SelectedRole, &rec.OverallScore,
		&rec.Source, &rec.ReportKey, &result, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if rec.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid analysis id %q: %w", id, err)
	}
	if rec.CreatedAt, err = time.Parse(sqliteTime, createdAt); err != nil {
		return nil, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}
	if err := json.Unmarshal([]byte(result), &rec.Result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis: %w", err)
	}
	return &rec, nil
}

var _ Store = (*SQLite)(nil)
