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

type TitleRepository struct {
	q      DBTX
	logger zerolog.Logger
}

func NewTitleRepository(sqlDB *sql.DB, logger zerolog.Logger) *TitleRepository {
	return &TitleRepository{q: sqlDB, logger: logger}
}

func (r *TitleRepository) WithTx(tx *sql.Tx) *TitleRepository {
	return &TitleRepository{q: tx, logger: r.logger}
}

const titleColumns = `id, save_id, name, category, gender, holder1_id, holder2_id,
	week_won, created_at, updated_at`

func scanTitle(row interface{ Scan(...any) error }) (domain.Title, error) {
	var t domain.Title
	err := row.Scan(&t.ID, &t.SaveID, &t.Name, &t.Category, &t.Gender, &t.Holder1ID, &t.Holder2ID,
		&t.WeekWon, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *TitleRepository) Insert(ctx context.Context, t *domain.Title) (int64, error) {
	now := time.Now()
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO titles (save_id, name, category, gender, holder1_id, holder2_id, week_won, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.SaveID, t.Name, t.Category, t.Gender, t.Holder1ID, t.Holder2ID, t.WeekWon, now, now)
	if err != nil {
		return 0, fmt.Errorf("failed to insert title: %w", err)
	}
	return res.LastInsertId()
}

func (r *TitleRepository) Get(ctx context.Context, saveID, titleID int64) (*domain.Title, error) {
	t, err := scanTitle(r.q.QueryRowContext(ctx,
		`SELECT `+titleColumns+` FROM titles WHERE id = ? AND save_id = ?`, titleID, saveID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TitleRepository) ListBySave(ctx context.Context, saveID int64) ([]domain.Title, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+titleColumns+` FROM titles WHERE save_id = ? ORDER BY id`, saveID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	titles := []domain.Title{}
	for rows.Next() {
		t, err := scanTitle(rows)
		if err != nil {
			return nil, err
		}
		titles = append(titles, t)
	}
	return titles, rows.Err()
}

func (r *TitleRepository) Delete(ctx context.Context, saveID, titleID int64) error {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM titles WHERE id = ? AND save_id = ?`, titleID, saveID)
	if err != nil {
		return fmt.Errorf("failed to delete title: %w", err)
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

// SetHolders crowns a new holder set and stamps the week the reign began.
func (r *TitleRepository) SetHolders(ctx context.Context, titleID int64, holder1, holder2 *int64, weekWon int) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE titles SET holder1_id = ?, holder2_id = ?, week_won = ?, updated_at = ?
		WHERE id = ?`,
		holder1, holder2, weekWon, time.Now(), titleID)
	if err != nil {
		return fmt.Errorf("failed to set title holders: %w", err)
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

func (r *TitleRepository) InsertReign(ctx context.Context, reign *domain.TitleReign) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO title_reigns (save_id, title_id, holder1_id, holder2_id, holder1_name, holder2_name,
			week_won, week_lost, defeated_by1_id, defeated_by2_id, defeated_by1, defeated_by2, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		reign.SaveID, reign.TitleID, reign.Holder1ID, reign.Holder2ID, reign.Holder1Name, reign.Holder2Name,
		reign.WeekWon, reign.WeekLost, reign.DefeatedBy1ID, reign.DefeatedBy2ID, reign.DefeatedBy1, reign.DefeatedBy2,
		time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to insert title reign: %w", err)
	}
	return res.LastInsertId()
}

func (r *TitleRepository) ListReigns(ctx context.Context, saveID, titleID int64) ([]domain.TitleReign, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, save_id, title_id, holder1_id, holder2_id, holder1_name, holder2_name,
			week_won, week_lost, defeated_by1_id, defeated_by2_id, defeated_by1, defeated_by2, created_at
		FROM title_reigns
		WHERE save_id = ? AND title_id = ?
		ORDER BY week_lost DESC, id DESC`, saveID, titleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reigns := []domain.TitleReign{}
	for rows.Next() {
		var reign domain.TitleReign
		if err := rows.Scan(&reign.ID, &reign.SaveID, &reign.TitleID, &reign.Holder1ID, &reign.Holder2ID,
			&reign.Holder1Name, &reign.Holder2Name, &reign.WeekWon, &reign.WeekLost,
			&reign.DefeatedBy1ID, &reign.DefeatedBy2ID, &reign.DefeatedBy1, &reign.DefeatedBy2,
			&reign.CreatedAt); err != nil {
			return nil, err
		}
		reigns = append(reigns, reign)
	}
	return reigns, rows.Err()
}
