package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"donations/internal/core"
	applog "donations/internal/log"

	_ "modernc.org/sqlite"
)

// SQLiteRepository persists preferences and serves the monthly records.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
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

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks the database connection.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Get implements prefs.Store
func (r *SQLiteRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get preference %s: %w", key, err)
	}
	return value, true, nil
}

// Set implements prefs.Store
func (r *SQLiteRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		return fmt.Errorf("set preference %s: %w", key, err)
	}

	applog.FromContext(ctx).WithComponent(applog.ComponentStorage).
		DebugContext(ctx, "Preference saved to SQLite", "key", key, "value", value)
	return nil
}

// Load implements dataset.Source, returning the months in position order.
func (r *SQLiteRepository) Load(ctx context.Context) ([]core.Record, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT label, amount, donors FROM donation_months ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query donation months: %w", err)
	}
	defer rows.Close()

	var records []core.Record
	for rows.Next() {
		var (
			label, amount string
			donors        int64
		)
		if err := rows.Scan(&label, &amount, &donors); err != nil {
			return nil, fmt.Errorf("scan donation month: %w", err)
		}
		d, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parse amount for %s: %w", label, err)
		}
		records = append(records, core.Record{Label: label, Amount: d, Donors: int(donors)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate donation months: %w", err)
	}
	return records, nil
}

// ReplaceRecords swaps the stored months for records, keeping their order.
func (r *SQLiteRepository) ReplaceRecords(ctx context.Context, records []core.Record) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM donation_months`); err != nil {
		return fmt.Errorf("clear donation months: %w", err)
	}
	for i, rec := range records {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO donation_months (position, label, amount, donors) VALUES (?, ?, ?, ?)`,
			i+1, rec.Label, rec.Amount.String(), rec.Donors); err != nil {
			return fmt.Errorf("insert donation month %s: %w", rec.Label, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit donation months: %w", err)
	}

	applog.FromContext(ctx).WithComponent(applog.ComponentStorage).
		InfoContext(ctx, "Donation months replaced", applog.FieldRecords, len(records))
	return nil
}
