package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"amfiflow/pkg/contracts/domain"
)

// UpsertInflow inserts or updates one (period, category) record. Re-ingesting
// the same pair overwrites the stored value; last writer wins.
func (s *SQLiteStore) UpsertInflow(ctx context.Context, rec domain.InflowRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if rec.Period == "" || rec.Category == "" {
		return fmt.Errorf("period and category cannot be empty")
	}

	query := `
		INSERT INTO monthly_inflows (period, category, net_inflow)
		VALUES (?, ?, ?)
		ON CONFLICT(period, category) DO UPDATE SET
			net_inflow = excluded.net_inflow,
			updated_at = CURRENT_TIMESTAMP`

	if _, err := s.db.ExecContext(ctx, query, rec.Period, rec.Category, rec.NetInflow); err != nil {
		return fmt.Errorf("failed to upsert inflow: %w", err)
	}
	return nil
}

// UpsertInflows applies a batch of records in one transaction. Either the
// whole batch is stored or none of it is.
func (s *SQLiteStore) UpsertInflows(ctx context.Context, recs []domain.InflowRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO monthly_inflows (period, category, net_inflow)
		VALUES (?, ?, ?)
		ON CONFLICT(period, category) DO UPDATE SET
			net_inflow = excluded.net_inflow,
			updated_at = CURRENT_TIMESTAMP`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range recs {
		if rec.Period == "" || rec.Category == "" {
			return fmt.Errorf("period and category cannot be empty")
		}
		if _, err := stmt.ExecContext(ctx, rec.Period, rec.Category, rec.NetInflow); err != nil {
			return fmt.Errorf("failed to upsert inflow %s/%s: %w", rec.Period, rec.Category, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit upserts: %w", err)
	}

	s.logger.Debug("upserted inflow records", slog.Int("count", len(recs)))
	return nil
}

// GetInflowsByYear returns all stored records whose period label carries the
// given year's 2-digit suffix, ordered by period then category.
func (s *SQLiteStore) GetInflowsByYear(ctx context.Context, year int) ([]domain.MonthlyInflow, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	// Period labels end in the 2-digit year ("01-Oct-25"); match the suffix.
	suffix := fmt.Sprintf("-%02d", year%100)
	query := `
		SELECT id, period, category, net_inflow, created_at, updated_at
		FROM monthly_inflows
		WHERE period LIKE '%' || ?
		ORDER BY period, category`

	rows, err := s.db.QueryContext(ctx, query, suffix)
	if err != nil {
		return nil, fmt.Errorf("failed to query inflows: %w", err)
	}
	defer rows.Close()

	return scanInflows(rows)
}

// GetInflowsByPeriod returns all stored records for one period label, ordered
// by category.
func (s *SQLiteStore) GetInflowsByPeriod(ctx context.Context, period string) ([]domain.MonthlyInflow, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if period == "" {
		return nil, fmt.Errorf("period cannot be empty")
	}

	query := `
		SELECT id, period, category, net_inflow, created_at, updated_at
		FROM monthly_inflows
		WHERE period = ?
		ORDER BY category`

	rows, err := s.db.QueryContext(ctx, query, period)
	if err != nil {
		return nil, fmt.Errorf("failed to query inflows: %w", err)
	}
	defer rows.Close()

	return scanInflows(rows)
}

// CountInflows returns the number of stored records, used by tests and the
// health surface.
func (s *SQLiteStore) CountInflows(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM monthly_inflows`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count inflows: %w", err)
	}
	return n, nil
}

func scanInflows(rows *sql.Rows) ([]domain.MonthlyInflow, error) {
	var out []domain.MonthlyInflow
	for rows.Next() {
		var rec domain.MonthlyInflow
		if err := rows.Scan(&rec.ID, &rec.Period, &rec.Category, &rec.NetInflow,
			&rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan inflow: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating inflows: %w", err)
	}
	return out, nil
}
