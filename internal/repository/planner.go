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

type PlannerRepository struct {
	q      DBTX
	logger zerolog.Logger
}

func NewPlannerRepository(sqlDB *sql.DB, logger zerolog.Logger) *PlannerRepository {
	return &PlannerRepository{q: sqlDB, logger: logger}
}

func (r *PlannerRepository) WithTx(tx *sql.Tx) *PlannerRepository {
	return &PlannerRepository{q: tx, logger: r.logger}
}

const plannedMatchColumns = `id, save_id, week, match_type, stipulation, cost,
	is_title_match, title_id, is_completed, result_text, sort_order, created_at, updated_at`

func scanPlannedMatch(row interface{ Scan(...any) error }) (domain.PlannedMatch, error) {
	var m domain.PlannedMatch
	err := row.Scan(&m.ID, &m.SaveID, &m.Week, &m.Type, &m.Stipulation, &m.Cost,
		&m.IsTitleMatch, &m.TitleID, &m.IsCompleted, &m.ResultText, &m.SortOrder,
		&m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// Insert writes the match row plus one participant row per wrestler slot.
// The match lands at the end of the week's running order.
func (r *PlannerRepository) Insert(ctx context.Context, m *domain.PlannedMatch) (int64, error) {
	now := time.Now()
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO planned_matches (save_id, week, match_type, stipulation, cost,
			is_title_match, title_id, is_completed, result_text, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, '',
			COALESCE((SELECT MAX(sort_order) FROM planned_matches WHERE save_id = ? AND week = ?), 0) + 1,
			?, ?)`,
		m.SaveID, m.Week, m.Type, m.Stipulation, m.Cost,
		m.IsTitleMatch, m.TitleID, m.SaveID, m.Week, now, now)
	if err != nil {
		return 0, fmt.Errorf("failed to insert planned match: %w", err)
	}
	matchID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for teamIdx, team := range m.Participants {
		for _, wrestlerID := range team {
			if _, err := r.q.ExecContext(ctx, `
				INSERT INTO match_participants (match_id, team_index, wrestler_id)
				VALUES (?, ?, ?)`,
				matchID, teamIdx, wrestlerID); err != nil {
				return 0, fmt.Errorf("failed to insert participant %d: %w", wrestlerID, err)
			}
		}
	}
	return matchID, nil
}

func (r *PlannerRepository) Get(ctx context.Context, saveID, matchID int64) (*domain.PlannedMatch, error) {
	m, err := scanPlannedMatch(r.q.QueryRowContext(ctx,
		`SELECT `+plannedMatchColumns+` FROM planned_matches WHERE id = ? AND save_id = ?`,
		matchID, saveID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if m.Participants, err = r.participants(ctx, m.ID); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PlannerRepository) participants(ctx context.Context, matchID int64) (map[int][]int64, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT team_index, wrestler_id FROM match_participants
		WHERE match_id = ? ORDER BY team_index, wrestler_id`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make(map[int][]int64)
	for rows.Next() {
		var teamIdx int
		var wrestlerID int64
		if err := rows.Scan(&teamIdx, &wrestlerID); err != nil {
			return nil, err
		}
		teams[teamIdx] = append(teams[teamIdx], wrestlerID)
	}
	return teams, rows.Err()
}

// ListByWeek returns the week's card in running order, participants included.
func (r *PlannerRepository) ListByWeek(ctx context.Context, saveID int64, week int) ([]domain.PlannedMatch, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+plannedMatchColumns+` FROM planned_matches
		WHERE save_id = ? AND week = ? ORDER BY sort_order`, saveID, week)
	if err != nil {
		return nil, err
	}

	matches := []domain.PlannedMatch{}
	for rows.Next() {
		m, err := scanPlannedMatch(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range matches {
		if matches[i].Participants, err = r.participants(ctx, matches[i].ID); err != nil {
			return nil, err
		}
	}
	return matches, nil
}

// Update rewrites the editable fields and replaces the participant rows.
func (r *PlannerRepository) Update(ctx context.Context, m *domain.PlannedMatch) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE planned_matches
		SET match_type = ?, stipulation = ?, cost = ?, is_title_match = ?, title_id = ?, updated_at = ?
		WHERE id = ? AND save_id = ?`,
		m.Type, m.Stipulation, m.Cost, m.IsTitleMatch, m.TitleID, time.Now(), m.ID, m.SaveID)
	if err != nil {
		return fmt.Errorf("failed to update planned match: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	if _, err := r.q.ExecContext(ctx,
		`DELETE FROM match_participants WHERE match_id = ?`, m.ID); err != nil {
		return fmt.Errorf("failed to clear participants: %w", err)
	}
	for teamIdx, team := range m.Participants {
		for _, wrestlerID := range team {
			if _, err := r.q.ExecContext(ctx, `
				INSERT INTO match_participants (match_id, team_index, wrestler_id)
				VALUES (?, ?, ?)`,
				m.ID, teamIdx, wrestlerID); err != nil {
				return fmt.Errorf("failed to insert participant %d: %w", wrestlerID, err)
			}
		}
	}
	return nil
}

func (r *PlannerRepository) Delete(ctx context.Context, saveID, matchID int64) error {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM planned_matches WHERE id = ? AND save_id = ?`, matchID, saveID)
	if err != nil {
		return fmt.Errorf("failed to delete planned match: %w", err)
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

// SetOrder rewrites sort_order for one match.
func (r *PlannerRepository) SetOrder(ctx context.Context, saveID, matchID int64, order int) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE planned_matches SET sort_order = ?, updated_at = ?
		WHERE id = ? AND save_id = ?`,
		order, time.Now(), matchID, saveID)
	if err != nil {
		return fmt.Errorf("failed to set sort order: %w", err)
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

// MarkCompleted flips the completion flag and stores the readable result.
func (r *PlannerRepository) MarkCompleted(ctx context.Context, matchID int64, resultText string) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE planned_matches SET is_completed = 1, result_text = ?, updated_at = ?
		WHERE id = ?`,
		resultText, time.Now(), matchID)
	if err != nil {
		return fmt.Errorf("failed to mark match completed: %w", err)
	}
	return nil
}

// ShowCost sums booking costs for the week, resolved or not. Cost is
// incurred at booking time.
func (r *PlannerRepository) ShowCost(ctx context.Context, saveID int64, week int) (int64, error) {
	var cost int64
	err := r.q.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(cost), 0) FROM planned_matches
		WHERE save_id = ? AND week = ?`, saveID, week).Scan(&cost)
	if err != nil {
		return 0, err
	}
	return cost, nil
}

func (r *PlannerRepository) CountIncomplete(ctx context.Context, saveID int64, week int) (int, error) {
	var count int
	err := r.q.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM planned_matches
		WHERE save_id = ? AND week = ? AND is_completed = 0`, saveID, week).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
