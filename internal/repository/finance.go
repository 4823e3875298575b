package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"lucha-gm/internal/constants"
	"lucha-gm/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type FinanceRepository struct {
	q      DBTX
	logger zerolog.Logger
}

func NewFinanceRepository(sqlDB *sql.DB, logger zerolog.Logger) *FinanceRepository {
	return &FinanceRepository{q: sqlDB, logger: logger}
}

func (r *FinanceRepository) WithTx(tx *sql.Tx) *FinanceRepository {
	return &FinanceRepository{q: tx, logger: r.logger}
}

// Insert appends a ledger entry. Entries are never updated or deleted. A
// nanoid reference code is stamped on each row.
func (r *FinanceRepository) Insert(ctx context.Context, e *domain.FinanceEntry) (int64, error) {
	reference, err := gonanoid.New(constants.FinanceReferenceLength)
	if err != nil {
		return 0, fmt.Errorf("failed to generate reference: %w", err)
	}

	res, err := r.q.ExecContext(ctx, `
		INSERT INTO finance_entries (save_id, week, category, description, amount, kind, reference, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.SaveID, e.Week, e.Category, e.Description, e.Amount, e.Kind, reference, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to insert finance entry: %w", err)
	}
	e.Reference = reference
	return res.LastInsertId()
}

const financeColumns = `id, save_id, week, category, description, amount, kind, reference, created_at`

func scanFinanceEntries(rows *sql.Rows) ([]domain.FinanceEntry, error) {
	defer rows.Close()
	entries := []domain.FinanceEntry{}
	for rows.Next() {
		var e domain.FinanceEntry
		if err := rows.Scan(&e.ID, &e.SaveID, &e.Week, &e.Category, &e.Description,
			&e.Amount, &e.Kind, &e.Reference, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *FinanceRepository) ListByWeek(ctx context.Context, saveID int64, week int) ([]domain.FinanceEntry, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+financeColumns+` FROM finance_entries
		WHERE save_id = ? AND week = ? ORDER BY id`, saveID, week)
	if err != nil {
		return nil, err
	}
	return scanFinanceEntries(rows)
}

func (r *FinanceRepository) ListBySave(ctx context.Context, saveID int64) ([]domain.FinanceEntry, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+financeColumns+` FROM finance_entries
		WHERE save_id = ? ORDER BY id DESC`, saveID)
	if err != nil {
		return nil, err
	}
	return scanFinanceEntries(rows)
}

func (r *FinanceRepository) InsertSummary(ctx context.Context, s *domain.WeeklySummary) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO weekly_summaries (save_id, week, avg_rating, total_income, total_expenses, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		s.SaveID, s.Week, s.AvgRating, s.TotalIncome, s.TotalExpenses, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to insert weekly summary: %w", err)
	}
	return res.LastInsertId()
}

func (r *FinanceRepository) ListSummaries(ctx context.Context, saveID int64) ([]domain.WeeklySummary, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, save_id, week, avg_rating, total_income, total_expenses, created_at
		FROM weekly_summaries WHERE save_id = ? ORDER BY week DESC`, saveID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []domain.WeeklySummary{}
	for rows.Next() {
		var s domain.WeeklySummary
		if err := rows.Scan(&s.ID, &s.SaveID, &s.Week, &s.AvgRating,
			&s.TotalIncome, &s.TotalExpenses, &s.CreatedAt); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// GetSummary returns the settled summary for one week, nil when the week
// has not been closed.
func (r *FinanceRepository) GetSummary(ctx context.Context, saveID int64, week int) (*domain.WeeklySummary, error) {
	var s domain.WeeklySummary
	err := r.q.QueryRowContext(ctx, `
		SELECT id, save_id, week, avg_rating, total_income, total_expenses, created_at
		FROM weekly_summaries WHERE save_id = ? AND week = ?`, saveID, week).
		Scan(&s.ID, &s.SaveID, &s.Week, &s.AvgRating, &s.TotalIncome, &s.TotalExpenses, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
