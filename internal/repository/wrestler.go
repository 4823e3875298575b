package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"lucha-gm/internal/domain"

	"github.com/rs/zerolog"
)

type WrestlerRepository struct {
	q      DBTX
	logger zerolog.Logger
}

func NewWrestlerRepository(sqlDB *sql.DB, logger zerolog.Logger) *WrestlerRepository {
	return &WrestlerRepository{q: sqlDB, logger: logger}
}

func (r *WrestlerRepository) WithTx(tx *sql.Tx) *WrestlerRepository {
	return &WrestlerRepository{q: tx, logger: r.logger}
}

const wrestlerColumns = `id, save_id, name, gender, alignment, ring_level, mic,
	main_class, alt_class, is_permanent, weeks_remaining, salary, wins, losses,
	image_ref, created_at, updated_at`

func scanWrestler(row interface{ Scan(...any) error }) (domain.Wrestler, error) {
	var w domain.Wrestler
	err := row.Scan(&w.ID, &w.SaveID, &w.Name, &w.Gender, &w.Alignment, &w.RingLevel, &w.Mic,
		&w.MainClass, &w.AltClass, &w.IsPermanent, &w.WeeksRemaining, &w.Salary, &w.Wins, &w.Losses,
		&w.ImageRef, &w.CreatedAt, &w.UpdatedAt)
	return w, err
}

func (r *WrestlerRepository) Insert(ctx context.Context, w *domain.Wrestler) (int64, error) {
	now := time.Now()
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO wrestlers (save_id, name, gender, alignment, ring_level, mic,
			main_class, alt_class, is_permanent, weeks_remaining, salary, wins, losses,
			image_ref, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.SaveID, w.Name, w.Gender, w.Alignment, w.RingLevel, w.Mic,
		w.MainClass, w.AltClass, w.IsPermanent, w.WeeksRemaining, w.Salary, w.Wins, w.Losses,
		w.ImageRef, now, now)
	if err != nil {
		return 0, fmt.Errorf("failed to insert wrestler: %w", err)
	}
	return res.LastInsertId()
}

func (r *WrestlerRepository) Get(ctx context.Context, saveID, wrestlerID int64) (*domain.Wrestler, error) {
	w, err := scanWrestler(r.q.QueryRowContext(ctx,
		`SELECT `+wrestlerColumns+` FROM wrestlers WHERE id = ? AND save_id = ?`,
		wrestlerID, saveID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WrestlerRepository) ListBySave(ctx context.Context, saveID int64) ([]domain.Wrestler, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+wrestlerColumns+` FROM wrestlers WHERE save_id = ? ORDER BY name`, saveID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	wrestlers := []domain.Wrestler{}
	for rows.Next() {
		w, err := scanWrestler(rows)
		if err != nil {
			return nil, err
		}
		wrestlers = append(wrestlers, w)
	}
	return wrestlers, rows.Err()
}

// GetMany loads a wrestler set by id, scoped to the save.
func (r *WrestlerRepository) GetMany(ctx context.Context, saveID int64, ids []int64) (map[int64]domain.Wrestler, error) {
	result := make(map[int64]domain.Wrestler, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids)+1)
	args = append(args, saveID)
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := r.q.QueryContext(ctx,
		`SELECT `+wrestlerColumns+` FROM wrestlers WHERE save_id = ? AND id IN (`+placeholders+`)`,
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		w, err := scanWrestler(rows)
		if err != nil {
			return nil, err
		}
		result[w.ID] = w
	}
	return result, rows.Err()
}

func (r *WrestlerRepository) Update(ctx context.Context, w *domain.Wrestler) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE wrestlers
		SET name = ?, gender = ?, alignment = ?, ring_level = ?, mic = ?,
			main_class = ?, alt_class = ?, is_permanent = ?, weeks_remaining = ?,
			salary = ?, image_ref = ?, updated_at = ?
		WHERE id = ? AND save_id = ?`,
		w.Name, w.Gender, w.Alignment, w.RingLevel, w.Mic,
		w.MainClass, w.AltClass, w.IsPermanent, w.WeeksRemaining,
		w.Salary, w.ImageRef, time.Now(), w.ID, w.SaveID)
	if err != nil {
		return fmt.Errorf("failed to update wrestler: %w", err)
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

func (r *WrestlerRepository) Delete(ctx context.Context, saveID, wrestlerID int64) error {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM wrestlers WHERE id = ? AND save_id = ?`, wrestlerID, saveID)
	if err != nil {
		return fmt.Errorf("failed to delete wrestler: %w", err)
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

// RecordResults bumps win counters for winners and loss counters for losers.
func (r *WrestlerRepository) RecordResults(ctx context.Context, saveID int64, winners, losers []int64) error {
	for _, id := range winners {
		if _, err := r.q.ExecContext(ctx,
			`UPDATE wrestlers SET wins = wins + 1, updated_at = ? WHERE id = ? AND save_id = ?`,
			time.Now(), id, saveID); err != nil {
			return fmt.Errorf("failed to record win for wrestler %d: %w", id, err)
		}
	}
	for _, id := range losers {
		if _, err := r.q.ExecContext(ctx,
			`UPDATE wrestlers SET losses = losses + 1, updated_at = ? WHERE id = ? AND save_id = ?`,
			time.Now(), id, saveID); err != nil {
			return fmt.Errorf("failed to record loss for wrestler %d: %w", id, err)
		}
	}
	return nil
}

// AddContractWeeks extends a non-permanent contract.
func (r *WrestlerRepository) AddContractWeeks(ctx context.Context, saveID, wrestlerID int64, weeks int) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE wrestlers SET weeks_remaining = weeks_remaining + ?, updated_at = ?
		WHERE id = ? AND save_id = ?`,
		weeks, time.Now(), wrestlerID, saveID)
	if err != nil {
		return fmt.Errorf("failed to add contract weeks: %w", err)
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

// TickContracts decrements every non-permanent contract by one week. No
// floor: expiry is a read-time check, not an enforced minimum.
func (r *WrestlerRepository) TickContracts(ctx context.Context, saveID int64) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE wrestlers SET weeks_remaining = weeks_remaining - 1, updated_at = ?
		WHERE save_id = ? AND is_permanent = 0`,
		time.Now(), saveID)
	if err != nil {
		return fmt.Errorf("failed to tick contracts: %w", err)
	}
	return nil
}
