package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned when no application matches the query.
var ErrNotFound = errors.New("application not found")

// Application is one generated job application.
type Application struct {
	ID        int64
	JobID     string
	Company   string
	Position  string
	URL       string
	OutputDir string
	ATSScore  *float64
	Status    string
	CreatedAt time.Time
}

// Create inserts a new application record. The job ID must be unique;
// generating materials for the same posting twice is an update, not a
// second row.
func (db *DB) Create(app *Application) error {
	if app.Status == "" {
		app.Status = "generated"
	}
	now := time.Now().UTC()

	res, err := db.sqlDB.Exec(
		`INSERT INTO applications (job_id, company, position, url, output_dir, ats_score, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		app.JobID, app.Company, app.Position, app.URL, app.OutputDir,
		app.ATSScore, app.Status, now.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert application: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get application id: %w", err)
	}
	app.ID = id
	app.CreatedAt = now
	return nil
}

// GetByJobID fetches a single application.
func (db *DB) GetByJobID(jobID string) (*Application, error) {
	row := db.sqlDB.QueryRow(
		`SELECT id, job_id, company, position, url, output_dir, ats_score, status, created_at
		 FROM applications WHERE job_id = ?`, jobID)

	app, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return app, err
}

// List returns applications newest first, optionally filtered by
// company (case-insensitive substring). limit <= 0 means no limit.
func (db *DB) List(company string, limit int) ([]*Application, error) {
	query := `SELECT id, job_id, company, position, url, output_dir, ats_score, status, created_at
		 FROM applications`
	var args []any
	if company != "" {
		query += " WHERE LOWER(company) LIKE ?"
		args = append(args, "%"+strings.ToLower(company)+"%")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.sqlDB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []*Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

// UpdateScore records the ATS score measured for an application.
func (db *DB) UpdateScore(jobID string, score float64) error {
	res, err := db.sqlDB.Exec(
		"UPDATE applications SET ats_score = ? WHERE job_id = ?", score, jobID)
	if err != nil {
		return fmt.Errorf("failed to update score: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateStatus moves an application through its lifecycle, e.g. from
// "generated" to "submitted".
func (db *DB) UpdateStatus(jobID, status string) error {
	res, err := db.sqlDB.Exec(
		"UPDATE applications SET status = ? WHERE job_id = ?", status, jobID)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (*Application, error) {
	var app Application
	var createdAt string
	var score sql.NullFloat64

	if err := row.Scan(&app.ID, &app.JobID, &app.Company, &app.Position,
		&app.URL, &app.OutputDir, &score, &app.Status, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan application: %w", err)
	}

	if score.Valid {
		app.ATSScore = &score.Float64
	}

	ts, err := parseTimeString(createdAt)
	if err != nil {
		return nil, err
	}
	app.CreatedAt = ts
	return &app, nil
}

func parseTimeString(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}

	if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return ts, nil
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts, nil
	}
	if ts, err := time.Parse("2006-01-02 15:04:05.999999999 -0700 MST", value); err == nil {
		return ts, nil
	}

	return time.Time{}, fmt.Errorf("invalid time format: %q", value)
}
