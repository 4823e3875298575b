package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lucha-gm/internal/domain"

	"github.com/rs/zerolog"
)

type SaveRepository struct {
	q      DBTX
	logger zerolog.Logger
}

func NewSaveRepository(sqlDB *sql.DB, logger zerolog.Logger) *SaveRepository {
	return &SaveRepository{q: sqlDB, logger: logger}
}

func (r *SaveRepository) WithTx(tx *sql.Tx) *SaveRepository {
	return &SaveRepository{q: tx, logger: r.logger}
}

func (r *SaveRepository) Create(ctx context.Context, save *domain.Save) (int64, error) {
	now := time.Now()
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO saves (name, brand, theme_color, current_week, current_cash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		save.Name, save.Brand, save.ThemeColor, save.CurrentWeek, save.CurrentCash, now, now)
	if err != nil {
		return 0, fmt.Errorf("failed to create save: %w", err)
	}
	return res.LastInsertId()
}

func (r *SaveRepository) Get(ctx context.Context, saveID int64) (*domain.Save, error) {
	var s domain.Save
	err := r.q.QueryRowContext(ctx, `
		SELECT id, name, brand, theme_color, current_week, current_cash, created_at, updated_at
		FROM saves WHERE id = ?`, saveID).
		Scan(&s.ID, &s.Name, &s.Brand, &s.ThemeColor, &s.CurrentWeek, &s.CurrentCash, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SaveRepository) List(ctx context.Context) ([]domain.Save, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, name, brand, theme_color, current_week, current_cash, created_at, updated_at
		FROM saves ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	saves := []domain.Save{}
	for rows.Next() {
		var s domain.Save
		if err := rows.Scan(&s.ID, &s.Name, &s.Brand, &s.ThemeColor, &s.CurrentWeek, &s.CurrentCash, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		saves = append(saves, s)
	}
	return saves, rows.Err()
}

func (r *SaveRepository) Delete(ctx context.Context, saveID int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM saves WHERE id = ?`, saveID)
	if err != nil {
		return fmt.Errorf("failed to delete save: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AdjustCash applies a signed delta to the save's cash balance.
func (r *SaveRepository) AdjustCash(ctx context.Context, saveID int64, delta int64) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE saves SET current_cash = current_cash + ?, updated_at = ? WHERE id = ?`,
		delta, time.Now(), saveID)
	if err != nil {
		return fmt.Errorf("failed to adjust cash: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CloseWeek settles the week in one statement: cash delta plus week bump.
func (r *SaveRepository) CloseWeek(ctx context.Context, saveID int64, cashDelta int64) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE saves
		SET current_cash = current_cash + ?, current_week = current_week + 1, updated_at = ?
		WHERE id = ?`,
		cashDelta, time.Now(), saveID)
	if err != nil {
		return fmt.Errorf("failed to close week: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
