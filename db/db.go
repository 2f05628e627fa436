// Package db provides the PostgreSQL persistence layer: website records
// keyed by URL, user accounts, and per-user chats with ordered messages.
package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/zombar/categorizer/metrics"
	"github.com/zombar/categorizer/models"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when registration collides with an existing
// account.
var ErrDuplicateEmail = errors.New("email already registered")

// DB wraps the database connection and provides data access methods
type DB struct {
	conn *sql.DB
}

// Config contains database configuration
type Config struct {
	DSN string // PostgreSQL connection string
}

// New creates a new database connection and runs pending migrations
func New(config Config) (*DB, error) {
	conn, err := sql.Open("postgres", config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)

	if err := Migrate(conn); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying connection for metrics collection
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// observe records a query duration sample under the given name
func observe(queryName string, start time.Time) {
	metrics.DBQueryDuration.WithLabelValues(queryName).Observe(time.Since(start).Seconds())
}

// MarkWebsiteProcessing upserts the record for url and moves it into the
// processing state. A fresh URL is created on the spot; a known URL re-enters
// processing from whatever state it was in.
func (db *DB) MarkWebsiteProcessing(url string) (*models.Website, error) {
	defer observe("mark_website_processing", time.Now())

	row := db.conn.QueryRow(`
		INSERT INTO websites (url, status, processed_pages, last_processed, created_at, updated_at)
		VALUES ($1, $2, 0, NOW(), NOW(), NOW())
		ON CONFLICT (url) DO UPDATE SET
			status = excluded.status,
			error_message = '',
			updated_at = NOW()
		RETURNING url, categories, processed_pages, status, error_message, last_processed, created_at, updated_at
	`, url, models.StatusProcessing)

	return scanWebsite(row)
}

// CompleteWebsite records a successful processing attempt
func (db *DB) CompleteWebsite(url string, categories *models.Categories, processedPages int) (*models.Website, error) {
	defer observe("complete_website", time.Now())

	categoriesJSON, err := json.Marshal(categories)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal categories: %w", err)
	}

	result, err := db.conn.Exec(`
		UPDATE websites SET
			categories = $2,
			status = $3,
			processed_pages = $4,
			error_message = '',
			last_processed = NOW(),
			updated_at = NOW()
		WHERE url = $1
	`, url, categoriesJSON, models.StatusCompleted, processedPages)
	if err != nil {
		return nil, fmt.Errorf("failed to complete website: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return nil, ErrNotFound
	}

	return db.GetWebsiteByURL(url)
}

// FailWebsite records a failed processing attempt
func (db *DB) FailWebsite(url, errorMessage string) error {
	defer observe("fail_website", time.Now())

	result, err := db.conn.Exec(`
		UPDATE websites SET
			status = $2,
			error_message = $3,
			last_processed = NOW(),
			updated_at = NOW()
		WHERE url = $1
	`, url, models.StatusFailed, errorMessage)
	if err != nil {
		return fmt.Errorf("failed to mark website failed: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

// GetWebsiteByURL retrieves a website record by its URL
func (db *DB) GetWebsiteByURL(url string) (*models.Website, error) {
	defer observe("get_website_by_url", time.Now())

	row := db.conn.QueryRow(`
		SELECT url, categories, processed_pages, status, error_message, last_processed, created_at, updated_at
		FROM websites
		WHERE url = $1
	`, url)

	return scanWebsite(row)
}

// ListWebsites returns summaries of all records, most recently processed first
func (db *DB) ListWebsites() ([]*models.WebsiteSummary, error) {
	defer observe("list_websites", time.Now())

	rows, err := db.conn.Query(`
		SELECT url, status,
			COALESCE(categories->>'primary_industry', ''),
			COALESCE(categories->>'website_type', ''),
			processed_pages, last_processed
		FROM websites
		ORDER BY last_processed DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list websites: %w", err)
	}
	defer rows.Close()

	summaries := []*models.WebsiteSummary{}
	for rows.Next() {
		s := &models.WebsiteSummary{}
		if err := rows.Scan(&s.URL, &s.Status, &s.PrimaryIndustry, &s.WebsiteType, &s.ProcessedPages, &s.LastProcessed); err != nil {
			return nil, fmt.Errorf("failed to scan website summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// ListWebsitesByIndustry returns records whose primary industry matches,
// most recently processed first
func (db *DB) ListWebsitesByIndustry(industry string) ([]*models.Website, error) {
	defer observe("list_websites_by_industry", time.Now())
	return db.listWebsitesWhere("categories->>'primary_industry' = $1", industry)
}

// ListWebsitesByType returns records whose website type matches, most
// recently processed first
func (db *DB) ListWebsitesByType(websiteType string) ([]*models.Website, error) {
	defer observe("list_websites_by_type", time.Now())
	return db.listWebsitesWhere("categories->>'website_type' = $1", websiteType)
}

func (db *DB) listWebsitesWhere(condition string, arg interface{}) ([]*models.Website, error) {
	rows, err := db.conn.Query(`
		SELECT url, categories, processed_pages, status, error_message, last_processed, created_at, updated_at
		FROM websites
		WHERE `+condition+`
		ORDER BY last_processed DESC
	`, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query websites: %w", err)
	}
	defer rows.Close()

	websites := []*models.Website{}
	for rows.Next() {
		w, err := scanWebsite(rows)
		if err != nil {
			return nil, err
		}
		websites = append(websites, w)
	}
	return websites, rows.Err()
}

// CountWebsites returns the total number of website records
func (db *DB) CountWebsites() (int, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM websites").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count websites: %w", err)
	}
	return count, nil
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanWebsite(s scanner) (*models.Website, error) {
	w := &models.Website{}
	var categoriesJSON []byte
	var errorMessage sql.NullString

	err := s.Scan(&w.URL, &categoriesJSON, &w.ProcessedPages, &w.Status, &errorMessage, &w.LastProcessed, &w.CreatedAt, &w.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan website: %w", err)
	}

	w.ErrorMessage = errorMessage.String
	if len(categoriesJSON) > 0 {
		w.Categories = &models.Categories{}
		if err := json.Unmarshal(categoriesJSON, w.Categories); err != nil {
			return nil, fmt.Errorf("failed to unmarshal categories: %w", err)
		}
	}
	return w, nil
}
