// Package history provides SQLite-based persistence of audit run
// summaries, so past analyses can be listed and compared.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/Baillie11/seo/internal/model"
)

// Store provides SQLite-based storage for audit run history.
// It manages connection pooling and provides methods for saving and
// listing runs.
//
// Design decision: We store a compact summary plus the full report as
// JSON rather than normalizing every analyzer result into columns.
// The report shape varies per analyzer and the history views only
// need the summary fields.
type Store struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures Store behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance. This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default store options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Run is one persisted audit run summary.
type Run struct {
	// ID is the auto-assigned row identifier.
	ID int64 `json:"id"`

	// URL is the analyzed website.
	URL string `json:"url"`

	// AnalysisDate is when the analysis ran.
	AnalysisDate time.Time `json:"analysis_date"`

	// Categories are the category names that produced results.
	Categories []string `json:"categories"`

	// WarningCount is the number of top-level warnings.
	WarningCount int `json:"warning_count"`

	// ErrorCount is the number of failed sections.
	ErrorCount int `json:"error_count"`

	// PDFFilename is the rendered report's filename, empty when no
	// PDF was produced.
	PDFFilename string `json:"pdf_filename,omitempty"`
}

// Open opens or creates a Store at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*Store, error) {
	dbPath := filepath.Join(dbDir, "seoaudit.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to prevent creating new files
	// and mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL,
		analysis_date DATETIME NOT NULL,
		categories TEXT NOT NULL,
		warning_count INTEGER NOT NULL,
		error_count INTEGER NOT NULL,
		pdf_filename TEXT,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_url ON runs(url);
	CREATE INDEX IF NOT EXISTS idx_runs_date ON runs(analysis_date);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// Save persists one audit run. The pdfFilename may be empty when PDF
// rendering was skipped or failed.
func (s *Store) Save(ctx context.Context, report *model.Report, pdfFilename string) (int64, error) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize report: %w", err)
	}

	categories := make([]string, 0, len(report.Categories))
	for _, section := range report.Categories {
		categories = append(categories, section.Name)
	}
	categoriesJSON, _ := json.Marshal(categories) //nolint:errcheck,errchkjson // string slice; Marshal won't fail

	query := `
	INSERT INTO runs (url, analysis_date, categories, warning_count, error_count, pdf_filename, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		report.URL,
		report.AnalysisDate.UTC().Format(time.RFC3339),
		string(categoriesJSON),
		len(report.Warnings),
		report.ErrorCount(),
		pdfFilename,
		string(reportJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}
	return id, nil
}

// Recent returns the most recent runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	query := `
	SELECT id, url, analysis_date, categories, warning_count, error_count, COALESCE(pdf_filename, '')
	FROM runs
	ORDER BY analysis_date DESC, id DESC
	LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var date, categoriesJSON string
		if err := rows.Scan(&run.ID, &run.URL, &date, &categoriesJSON, &run.WarningCount, &run.ErrorCount, &run.PDFFilename); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.AnalysisDate = parseTimestamp(date)
		if err := json.Unmarshal([]byte(categoriesJSON), &run.Categories); err != nil {
			return nil, fmt.Errorf("failed to parse categories: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// CountForURL returns how many stored runs analyzed the given URL.
func (s *Store) CountForURL(ctx context.Context, url string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE url = ?`, url).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return count, nil
}

// Report loads the full stored report for a run.
// Returns nil without error when the run does not exist.
func (s *Store) Report(ctx context.Context, id int64) (*model.Report, error) {
	query := `SELECT report_json FROM runs WHERE id = ?`

	var reportJSON string
	err := s.db.QueryRowContext(ctx, query, id).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	var report model.Report
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &report, nil
}

// parseTimestamp parses a stored RFC3339 timestamp, returning the zero
// time on failure.
func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
