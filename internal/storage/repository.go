// Package storage persists collector runs to SQLite: the unfiltered raw
// snapshot for backup and the derived dashboard table for display.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mduse88/family-expenses/internal/dashboard"
	"github.com/mduse88/family-expenses/internal/table"

	_ "modernc.org/sqlite"
)

type Repository struct {
	db *sql.DB
}

// Snapshot describes one stored raw fetch.
type Snapshot struct {
	ID          int64
	FetchedAt   time.Time
	RecordCount int
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SaveSnapshot stores the raw table as a new snapshot and returns its ID.
// Rows are stored as JSON so the open-ended field set survives unchanged.
func (r *Repository) SaveSnapshot(ctx context.Context, rows table.Table) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (fetched_at, record_count) VALUES (?, ?)`,
		time.Now().UTC().Format(time.RFC3339), len(rows))
	if err != nil {
		return 0, fmt.Errorf("insert snapshot: %w", err)
	}
	snapshotID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("snapshot id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO raw_expenses (snapshot_id, position, record) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare raw insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range rows {
		record, err := json.Marshal(row)
		if err != nil {
			return 0, fmt.Errorf("marshal raw record %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, snapshotID, i, string(record)); err != nil {
			return 0, fmt.Errorf("insert raw record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Raw snapshot saved",
		"snapshot_id", snapshotID,
		"records", len(rows))
	return snapshotID, nil
}

// LatestSnapshot returns the most recent snapshot, or nil when none exist.
func (r *Repository) LatestSnapshot(ctx context.Context) (*Snapshot, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, fetched_at, record_count FROM snapshots ORDER BY id DESC LIMIT 1`)

	var s Snapshot
	var fetchedAt string
	if err := row.Scan(&s.ID, &fetchedAt, &s.RecordCount); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan snapshot: %w", err)
	}
	t, err := time.Parse(time.RFC3339, fetchedAt)
	if err != nil {
		return nil, fmt.Errorf("parse fetched_at: %w", err)
	}
	s.FetchedAt = t
	return &s, nil
}

// RawExpenses loads the raw rows of a snapshot in fetch order.
func (r *Repository) RawExpenses(ctx context.Context, snapshotID int64) (table.Table, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT record FROM raw_expenses WHERE snapshot_id = ? ORDER BY position`, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("query raw expenses: %w", err)
	}
	defer rows.Close()

	var out table.Table
	for rows.Next() {
		var record string
		if err := rows.Scan(&record); err != nil {
			return nil, fmt.Errorf("scan raw record: %w", err)
		}
		var row table.Row
		if err := json.Unmarshal([]byte(record), &row); err != nil {
			return nil, fmt.Errorf("unmarshal raw record: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// ReplaceDashboard swaps the dashboard table for the given rows in one
// transaction, preserving their order.
func (r *Repository) ReplaceDashboard(ctx context.Context, rows []dashboard.Row) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin dashboard tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM dashboard_expenses`); err != nil {
		return fmt.Errorf("clear dashboard table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO dashboard_expenses
		(position, expense_id, description, cost, currency_code, date, category_name, month, month_str)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare dashboard insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range rows {
		category := sql.NullString{String: row.CategoryName, Valid: row.HasCategory}
		_, err := stmt.ExecContext(ctx, i, row.ID, row.Description, row.Cost,
			row.CurrencyCode, row.Date.Format(time.RFC3339), category,
			row.Month.Format("2006-01-02"), row.MonthStr)
		if err != nil {
			return fmt.Errorf("insert dashboard row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit dashboard: %w", err)
	}

	slog.InfoContext(ctx, "Dashboard table replaced", "rows", len(rows))
	return nil
}

// ListDashboard reads back the dashboard table in stored order.
func (r *Repository) ListDashboard(ctx context.Context) ([]dashboard.Row, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT expense_id, description, cost,
		currency_code, date, category_name, month, month_str
		FROM dashboard_expenses ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query dashboard: %w", err)
	}
	defer rows.Close()

	var out []dashboard.Row
	for rows.Next() {
		var row dashboard.Row
		var date, month string
		var category sql.NullString
		if err := rows.Scan(&row.ID, &row.Description, &row.Cost,
			&row.CurrencyCode, &date, &category, &month, &row.MonthStr); err != nil {
			return nil, fmt.Errorf("scan dashboard row: %w", err)
		}
		if row.Date, err = time.Parse(time.RFC3339, date); err != nil {
			return nil, fmt.Errorf("parse dashboard date: %w", err)
		}
		if row.Month, err = time.Parse("2006-01-02", month); err != nil {
			return nil, fmt.Errorf("parse dashboard month: %w", err)
		}
		row.CategoryName = category.String
		row.HasCategory = category.Valid
		out = append(out, row)
	}
	return out, rows.Err()
}
