package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"lucha-gm/internal/domain"

	"github.com/rs/zerolog"
)

type MatchLogRepository struct {
	q      DBTX
	logger zerolog.Logger
}

func NewMatchLogRepository(sqlDB *sql.DB, logger zerolog.Logger) *MatchLogRepository {
	return &MatchLogRepository{q: sqlDB, logger: logger}
}

func (r *MatchLogRepository) WithTx(tx *sql.Tx) *MatchLogRepository {
	return &MatchLogRepository{q: tx, logger: r.logger}
}

// Insert appends one immutable log entry plus its winner/loser participant
// rows. The log is the event source for every analytics read.
func (r *MatchLogRepository) Insert(ctx context.Context, e *domain.MatchLogEntry) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO match_log (save_id, week, match_type, winner_id, winner_name, loser_name,
			rating, is_title_change, title_name, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.SaveID, e.Week, e.MatchType, e.WinnerID, e.WinnerName, e.LoserName,
		e.Rating, e.IsTitleChange, e.TitleName, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to insert match log entry: %w", err)
	}
	entryID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, id := range e.Winners {
		if _, err := r.q.ExecContext(ctx, `
			INSERT INTO match_log_participants (entry_id, wrestler_id, is_winner)
			VALUES (?, ?, 1)`, entryID, id); err != nil {
			return 0, fmt.Errorf("failed to insert log winner %d: %w", id, err)
		}
	}
	for _, id := range e.Losers {
		if _, err := r.q.ExecContext(ctx, `
			INSERT INTO match_log_participants (entry_id, wrestler_id, is_winner)
			VALUES (?, ?, 0)`, entryID, id); err != nil {
			return 0, fmt.Errorf("failed to insert log loser %d: %w", id, err)
		}
	}
	return entryID, nil
}

const matchLogColumns = `id, save_id, week, match_type, winner_id, winner_name, loser_name,
	rating, is_title_change, title_name, created_at`

func (r *MatchLogRepository) scanEntries(ctx context.Context, rows *sql.Rows) ([]domain.MatchLogEntry, error) {
	entries := []domain.MatchLogEntry{}
	for rows.Next() {
		var e domain.MatchLogEntry
		if err := rows.Scan(&e.ID, &e.SaveID, &e.Week, &e.MatchType, &e.WinnerID,
			&e.WinnerName, &e.LoserName, &e.Rating, &e.IsTitleChange, &e.TitleName,
			&e.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range entries {
		if err := r.loadParticipants(ctx, &entries[i]); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

func (r *MatchLogRepository) loadParticipants(ctx context.Context, e *domain.MatchLogEntry) error {
	rows, err := r.q.QueryContext(ctx, `
		SELECT wrestler_id, is_winner FROM match_log_participants
		WHERE entry_id = ? ORDER BY wrestler_id`, e.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var isWinner bool
		if err := rows.Scan(&id, &isWinner); err != nil {
			return err
		}
		if isWinner {
			e.Winners = append(e.Winners, id)
		} else {
			e.Losers = append(e.Losers, id)
		}
	}
	return rows.Err()
}

// ListBySave returns the full log in ascending id order, the order the
// streak fold depends on.
func (r *MatchLogRepository) ListBySave(ctx context.Context, saveID int64) ([]domain.MatchLogEntry, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+matchLogColumns+` FROM match_log WHERE save_id = ? ORDER BY id`, saveID)
	if err != nil {
		return nil, err
	}
	return r.scanEntries(ctx, rows)
}

func (r *MatchLogRepository) ListByWeek(ctx context.Context, saveID int64, week int) ([]domain.MatchLogEntry, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+matchLogColumns+` FROM match_log
		WHERE save_id = ? AND week = ? ORDER BY id`, saveID, week)
	if err != nil {
		return nil, err
	}
	return r.scanEntries(ctx, rows)
}

// AvgRating averages the week's match ratings, zero when nothing ran.
func (r *MatchLogRepository) AvgRating(ctx context.Context, saveID int64, week int) (float64, error) {
	var avg float64
	err := r.q.QueryRowContext(ctx, `
		SELECT COALESCE(AVG(rating), 0) FROM match_log
		WHERE save_id = ? AND week = ?`, saveID, week).Scan(&avg)
	if err != nil {
		return 0, err
	}
	return avg, nil
}
